package waitlist

import (
	"time"

	"gamezone-booking/internal/domain/pricing"
	"gamezone-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidTransition = errs.Conflict("queue entry is not in a state that allows this action")
	ErrInvalidDuration   = errs.Validation("desired duration must be at least one minute")
	ErrMissingPayment    = errs.Validation("queue entries require payment evidence")
)

type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusProcessing Status = "processing"
	StatusAssigned   Status = "assigned"
	StatusCancelled  Status = "cancelled"
	StatusExpired    Status = "expired"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusWaiting, StatusProcessing, StatusAssigned, StatusCancelled, StatusExpired:
		return true
	default:
		return false
	}
}

// InLine reports whether the entry still holds a place in the queue order.
func (s Status) InLine() bool {
	return s == StatusWaiting || s == StatusProcessing
}

type Entry struct {
	id            uuid.UUID
	stationTypeID uuid.UUID
	customerID    uuid.UUID
	reservationID *uuid.UUID
	duration      int
	amount        pricing.Money
	paymentRef    string
	position      int
	status        Status
	sessionID     *uuid.UUID
	version       int
	createdAt     time.Time
	updatedAt     time.Time
}

type Record struct {
	ID              uuid.UUID
	StationTypeID   uuid.UUID
	CustomerID      uuid.UUID
	ReservationID   *uuid.UUID
	DurationMinutes int
	Amount          int64
	PaymentRef      string
	Position        int
	Status          Status
	SessionID       *uuid.UUID
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Request struct {
	StationTypeID   uuid.UUID
	CustomerID      uuid.UUID
	ReservationID   *uuid.UUID
	DurationMinutes int
	Amount          pricing.Money
	PaymentRef      string
}

// NewEntry joins the tail of the queue at the given position.
func NewEntry(req Request, position int, now time.Time) (*Entry, error) {
	if req.DurationMinutes < 1 {
		return nil, ErrInvalidDuration
	}
	if req.PaymentRef == "" {
		return nil, ErrMissingPayment
	}
	return &Entry{
		id:            uuid.New(),
		stationTypeID: req.StationTypeID,
		customerID:    req.CustomerID,
		reservationID: copyID(req.ReservationID),
		duration:      req.DurationMinutes,
		amount:        req.Amount,
		paymentRef:    req.PaymentRef,
		position:      position,
		status:        StatusWaiting,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

func FromRecord(r Record) *Entry {
	return &Entry{
		id:            r.ID,
		stationTypeID: r.StationTypeID,
		customerID:    r.CustomerID,
		reservationID: copyID(r.ReservationID),
		duration:      r.DurationMinutes,
		amount:        pricing.MustMoney(r.Amount),
		paymentRef:    r.PaymentRef,
		position:      r.Position,
		status:        r.Status,
		sessionID:     copyID(r.SessionID),
		version:       r.Version,
		createdAt:     r.CreatedAt,
		updatedAt:     r.UpdatedAt,
	}
}

func (e *Entry) Record() Record {
	return Record{
		ID:              e.id,
		StationTypeID:   e.stationTypeID,
		CustomerID:      e.customerID,
		ReservationID:   copyID(e.reservationID),
		DurationMinutes: e.duration,
		Amount:          e.amount.Units(),
		PaymentRef:      e.paymentRef,
		Position:        e.position,
		Status:          e.status,
		SessionID:       copyID(e.sessionID),
		Version:         e.version,
		CreatedAt:       e.createdAt,
		UpdatedAt:       e.updatedAt,
	}
}

// MarkProcessing claims the entry for a promotion. It keeps its position so a
// failed promotion puts it back exactly where it was.
func (e *Entry) MarkProcessing(now time.Time) error {
	if e.status != StatusWaiting {
		return ErrInvalidTransition
	}
	e.status = StatusProcessing
	e.updatedAt = now
	return nil
}

func (e *Entry) RevertToWaiting(now time.Time) error {
	if e.status != StatusProcessing {
		return ErrInvalidTransition
	}
	e.status = StatusWaiting
	e.updatedAt = now
	return nil
}

func (e *Entry) Assign(sessionID uuid.UUID, now time.Time) error {
	if e.status != StatusProcessing {
		return ErrInvalidTransition
	}
	id := sessionID
	e.sessionID = &id
	e.status = StatusAssigned
	e.position = 0
	e.updatedAt = now
	return nil
}

func (e *Entry) Cancel(now time.Time) error {
	if e.status != StatusWaiting {
		return ErrInvalidTransition
	}
	e.status = StatusCancelled
	e.position = 0
	e.updatedAt = now
	return nil
}

// Expire drops a waiting entry that has been in line for maxWait or longer.
func (e *Entry) Expire(maxWait time.Duration, now time.Time) error {
	if e.status != StatusWaiting || maxWait <= 0 || now.Sub(e.createdAt) < maxWait {
		return ErrInvalidTransition
	}
	e.status = StatusExpired
	e.position = 0
	e.updatedAt = now
	return nil
}

func (e *Entry) ID() uuid.UUID             { return e.id }
func (e *Entry) StationTypeID() uuid.UUID  { return e.stationTypeID }
func (e *Entry) CustomerID() uuid.UUID     { return e.customerID }
func (e *Entry) ReservationID() *uuid.UUID { return copyID(e.reservationID) }
func (e *Entry) DurationMinutes() int      { return e.duration }
func (e *Entry) Amount() pricing.Money     { return e.amount }
func (e *Entry) PaymentRef() string        { return e.paymentRef }
func (e *Entry) Position() int             { return e.position }
func (e *Entry) Status() Status            { return e.status }
func (e *Entry) SessionID() *uuid.UUID     { return copyID(e.sessionID) }
func (e *Entry) Version() int              { return e.version }
func (e *Entry) CreatedAt() time.Time      { return e.createdAt }
func (e *Entry) UpdatedAt() time.Time      { return e.updatedAt }

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
