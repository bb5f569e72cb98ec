package reservation

import (
	"time"

	"gamezone-booking/internal/domain/pricing"
	"gamezone-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidTransition     = errs.Conflict("reservation is not in a state that allows this action")
	ErrReservationExpired    = errs.Conflict("reservation hold has expired")
	ErrAlreadyHasSession     = errs.Conflict("reservation already has a session")
	ErrChallengeParticipants = errs.Validation("challenge reservations need at least two distinct participants including the customer")
)

type Reservation struct {
	id            uuid.UUID
	stationTypeID uuid.UUID
	stationID     *uuid.UUID
	customerID    uuid.UUID
	timeSlot      TimeSlot
	duration      int
	amount        pricing.Money
	peak          bool
	kind          Kind
	participants  []uuid.UUID
	status        Status
	expiresAt     time.Time
	paymentRef    string
	paymentMethod PaymentMethod
	sessionID     *uuid.UUID
	queueEntryID  *uuid.UUID
	version       int
	createdAt     time.Time
	updatedAt     time.Time
}

// Record is the persisted shape of a Reservation.
type Record struct {
	ID              uuid.UUID
	StationTypeID   uuid.UUID
	StationID       *uuid.UUID
	CustomerID      uuid.UUID
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int
	Amount          int64
	Peak            bool
	Kind            Kind
	Participants    []uuid.UUID
	Status          Status
	ExpiresAt       time.Time
	PaymentRef      string
	PaymentMethod   PaymentMethod
	SessionID       *uuid.UUID
	QueueEntryID    *uuid.UUID
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func FromRecord(r Record) *Reservation {
	return &Reservation{
		id:            r.ID,
		stationTypeID: r.StationTypeID,
		stationID:     copyID(r.StationID),
		customerID:    r.CustomerID,
		timeSlot:      TimeSlot{start: r.StartTime, end: r.EndTime},
		duration:      r.DurationMinutes,
		amount:        pricing.MustMoney(r.Amount),
		peak:          r.Peak,
		kind:          r.Kind,
		participants:  append([]uuid.UUID(nil), r.Participants...),
		status:        r.Status,
		expiresAt:     r.ExpiresAt,
		paymentRef:    r.PaymentRef,
		paymentMethod: r.PaymentMethod,
		sessionID:     copyID(r.SessionID),
		queueEntryID:  copyID(r.QueueEntryID),
		version:       r.Version,
		createdAt:     r.CreatedAt,
		updatedAt:     r.UpdatedAt,
	}
}

func (r *Reservation) Record() Record {
	return Record{
		ID:              r.id,
		StationTypeID:   r.stationTypeID,
		StationID:       copyID(r.stationID),
		CustomerID:      r.customerID,
		StartTime:       r.timeSlot.start,
		EndTime:         r.timeSlot.end,
		DurationMinutes: r.duration,
		Amount:          r.amount.Units(),
		Peak:            r.peak,
		Kind:            r.kind,
		Participants:    append([]uuid.UUID(nil), r.participants...),
		Status:          r.status,
		ExpiresAt:       r.expiresAt,
		PaymentRef:      r.paymentRef,
		PaymentMethod:   r.paymentMethod,
		SessionID:       copyID(r.sessionID),
		QueueEntryID:    copyID(r.queueEntryID),
		Version:         r.version,
		CreatedAt:       r.createdAt,
		UpdatedAt:       r.updatedAt,
	}
}

// IsExpiredAt applies the eager expiry rule: an unpaid hold past expiresAt is
// expired for every reader, whether or not the sweep has persisted it yet.
func (r *Reservation) IsExpiredAt(now time.Time) bool {
	return r.status == StatusPendingPayment && !now.Before(r.expiresAt)
}

func (r *Reservation) EffectiveStatus(now time.Time) Status {
	if r.IsExpiredAt(now) {
		return StatusExpired
	}
	return r.status
}

// HoldsSlotAt reports whether the reservation still blocks its station window.
// Confirmed reservations that already spawned a session defer to the session.
func (r *Reservation) HoldsSlotAt(now time.Time) bool {
	switch r.EffectiveStatus(now) {
	case StatusPendingPayment, StatusPendingApproval:
		return true
	case StatusPaymentConfirmed:
		return r.sessionID == nil
	default:
		return false
	}
}

func (r *Reservation) CanConfirmAt(now time.Time) error {
	if r.IsExpiredAt(now) {
		return ErrReservationExpired
	}
	if !validTransition(actionConfirm, r.status) {
		return ErrInvalidTransition
	}
	return nil
}

// ConfirmPayment records a verified payment. Re-confirming an already confirmed
// reservation is tolerated and keeps the first payment reference. An empty
// reference keeps the one recorded with the offline payment.
func (r *Reservation) ConfirmPayment(paymentRef string, method PaymentMethod, now time.Time) error {
	if err := r.CanConfirmAt(now); err != nil {
		return err
	}
	if r.status != StatusPaymentConfirmed {
		if paymentRef != "" {
			r.paymentRef = paymentRef
		}
		r.paymentMethod = method
		r.status = StatusPaymentConfirmed
	}
	r.touch(now)
	return nil
}

// BindSession links the session spawned for this reservation. The reservation
// never mutates the session afterwards.
func (r *Reservation) BindSession(stationID, sessionID uuid.UUID, now time.Time) error {
	if r.status != StatusPaymentConfirmed {
		return ErrInvalidTransition
	}
	if r.sessionID != nil {
		return ErrAlreadyHasSession
	}
	sid := stationID
	r.stationID = &sid
	ses := sessionID
	r.sessionID = &ses
	r.touch(now)
	return nil
}

func (r *Reservation) AttachQueueEntry(entryID uuid.UUID, now time.Time) {
	id := entryID
	r.queueEntryID = &id
	r.touch(now)
}

func (r *Reservation) AwaitApproval(paymentRef string, now time.Time) error {
	if r.IsExpiredAt(now) {
		return ErrReservationExpired
	}
	if !validTransition(actionAwaitApproval, r.status) {
		return ErrInvalidTransition
	}
	r.paymentRef = paymentRef
	r.paymentMethod = PaymentOffline
	r.status = StatusPendingApproval
	r.touch(now)
	return nil
}

func (r *Reservation) Cancel(now time.Time) error {
	if r.IsExpiredAt(now) || !validTransition(actionCancel, r.status) {
		return ErrInvalidTransition
	}
	if r.sessionID != nil {
		return ErrAlreadyHasSession
	}
	r.status = StatusCancelled
	r.touch(now)
	return nil
}

func (r *Reservation) Expire(now time.Time) error {
	if !r.IsExpiredAt(now) {
		return ErrInvalidTransition
	}
	r.status = StatusExpired
	r.touch(now)
	return nil
}

func (r *Reservation) MarkPaymentFailed(now time.Time) error {
	if !validTransition(actionFail, r.status) {
		return ErrInvalidTransition
	}
	r.status = StatusPaymentFailed
	r.touch(now)
	return nil
}

func (r *Reservation) touch(now time.Time) {
	r.updatedAt = now
}

func (r *Reservation) ID() uuid.UUID                { return r.id }
func (r *Reservation) StationTypeID() uuid.UUID     { return r.stationTypeID }
func (r *Reservation) StationID() *uuid.UUID        { return copyID(r.stationID) }
func (r *Reservation) CustomerID() uuid.UUID        { return r.customerID }
func (r *Reservation) TimeSlot() TimeSlot           { return r.timeSlot }
func (r *Reservation) DurationMinutes() int         { return r.duration }
func (r *Reservation) Amount() pricing.Money        { return r.amount }
func (r *Reservation) Peak() bool                   { return r.peak }
func (r *Reservation) Kind() Kind                   { return r.kind }
func (r *Reservation) Participants() []uuid.UUID    { return append([]uuid.UUID(nil), r.participants...) }
func (r *Reservation) Status() Status               { return r.status }
func (r *Reservation) ExpiresAt() time.Time         { return r.expiresAt }
func (r *Reservation) PaymentRef() string           { return r.paymentRef }
func (r *Reservation) PaymentMethod() PaymentMethod { return r.paymentMethod }
func (r *Reservation) SessionID() *uuid.UUID        { return copyID(r.sessionID) }
func (r *Reservation) QueueEntryID() *uuid.UUID     { return copyID(r.queueEntryID) }
func (r *Reservation) Version() int                 { return r.version }
func (r *Reservation) CreatedAt() time.Time         { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time         { return r.updatedAt }

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
