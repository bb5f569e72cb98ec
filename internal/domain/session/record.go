package session

import (
	"time"

	"gamezone-booking/internal/domain/pricing"

	"github.com/google/uuid"
)

// Record is the persisted shape of a Session.
type Record struct {
	ID                uuid.UUID
	StationID         uuid.UUID
	StationTypeID     uuid.UUID
	CustomerID        uuid.UUID
	ReservationID     *uuid.UUID
	QueueEntryID      *uuid.UUID
	RatePlan          pricing.RatePlanParams
	Status            Status
	ScheduledStart    time.Time
	ActualStart       *time.Time
	EndTime           time.Time
	ActualEnd         *time.Time
	DurationMinutes   int
	BaseAmount        int64
	FinalAmount       *int64
	ExtensionAmount   int64
	PaymentStatus     PaymentStatus
	PaymentRef        string
	PauseHistory      []PauseRecord
	TotalPausedMin    int
	CurrentPauseStart *time.Time
	Extended          bool
	Challenge         bool
	Participants      []uuid.UUID
	WinnerID          *uuid.UUID
	BilledTo          []uuid.UUID
	Version           int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// FromRecord rebuilds a session. The rate plan was validated when it was first
// attached, so a plan that no longer validates is an error in storage.
func FromRecord(r Record) (*Session, error) {
	plan, err := pricing.NewRatePlan(r.RatePlan)
	if err != nil {
		return nil, err
	}
	var final *pricing.Money
	if r.FinalAmount != nil {
		m := pricing.MustMoney(*r.FinalAmount)
		final = &m
	}
	return &Session{
		id:                r.ID,
		stationID:         r.StationID,
		stationTypeID:     r.StationTypeID,
		customerID:        r.CustomerID,
		reservationID:     copyID(r.ReservationID),
		queueEntryID:      copyID(r.QueueEntryID),
		ratePlan:          plan,
		status:            r.Status,
		scheduledStart:    r.ScheduledStart,
		actualStart:       copyTime(r.ActualStart),
		endTime:           r.EndTime,
		actualEnd:         copyTime(r.ActualEnd),
		duration:          r.DurationMinutes,
		baseAmount:        pricing.MustMoney(r.BaseAmount),
		finalAmount:       final,
		extensionAmount:   pricing.MustMoney(r.ExtensionAmount),
		paymentStatus:     r.PaymentStatus,
		paymentRef:        r.PaymentRef,
		pauseHistory:      clonePauses(r.PauseHistory),
		totalPaused:       r.TotalPausedMin,
		currentPauseStart: copyTime(r.CurrentPauseStart),
		extended:          r.Extended,
		challenge:         r.Challenge,
		participants:      append([]uuid.UUID(nil), r.Participants...),
		winnerID:          copyID(r.WinnerID),
		billedTo:          append([]uuid.UUID(nil), r.BilledTo...),
		version:           r.Version,
		createdAt:         r.CreatedAt,
		updatedAt:         r.UpdatedAt,
	}, nil
}

func (s *Session) Record() Record {
	var final *int64
	if s.finalAmount != nil {
		v := s.finalAmount.Units()
		final = &v
	}
	return Record{
		ID:                s.id,
		StationID:         s.stationID,
		StationTypeID:     s.stationTypeID,
		CustomerID:        s.customerID,
		ReservationID:     copyID(s.reservationID),
		QueueEntryID:      copyID(s.queueEntryID),
		RatePlan:          s.ratePlan.Params(),
		Status:            s.status,
		ScheduledStart:    s.scheduledStart,
		ActualStart:       copyTime(s.actualStart),
		EndTime:           s.endTime,
		ActualEnd:         copyTime(s.actualEnd),
		DurationMinutes:   s.duration,
		BaseAmount:        s.baseAmount.Units(),
		FinalAmount:       final,
		ExtensionAmount:   s.extensionAmount.Units(),
		PaymentStatus:     s.paymentStatus,
		PaymentRef:        s.paymentRef,
		PauseHistory:      clonePauses(s.pauseHistory),
		TotalPausedMin:    s.totalPaused,
		CurrentPauseStart: copyTime(s.currentPauseStart),
		Extended:          s.extended,
		Challenge:         s.challenge,
		Participants:      append([]uuid.UUID(nil), s.participants...),
		WinnerID:          copyID(s.winnerID),
		BilledTo:          append([]uuid.UUID(nil), s.billedTo...),
		Version:           s.version,
		CreatedAt:         s.createdAt,
		UpdatedAt:         s.updatedAt,
	}
}

// Window is the station time the session holds, for overlap checks.
func (s *Session) Window() (time.Time, time.Time) {
	start := s.scheduledStart
	if s.actualStart != nil {
		start = *s.actualStart
	}
	end := s.endTime
	if s.actualEnd != nil {
		end = *s.actualEnd
	}
	return start, end
}
