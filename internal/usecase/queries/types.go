package queries

import (
	"time"

	"gamezone-booking/internal/domain/reservation"
	"gamezone-booking/internal/domain/session"
	"gamezone-booking/internal/domain/station"
	"gamezone-booking/internal/domain/waitlist"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type ReservationView struct {
	ID              uuid.UUID   `json:"id"`
	StationTypeID   uuid.UUID   `json:"station_type_id"`
	StationID       *uuid.UUID  `json:"station_id,omitempty"`
	CustomerID      uuid.UUID   `json:"customer_id"`
	StartTime       time.Time   `json:"start_time"`
	EndTime         time.Time   `json:"end_time"`
	DurationMinutes int         `json:"duration_minutes"`
	Amount          int64       `json:"amount"`
	Peak            bool        `json:"peak"`
	Kind            string      `json:"kind"`
	Participants    []uuid.UUID `json:"participants,omitempty"`
	Status          string      `json:"status"`
	ExpiresAt       time.Time   `json:"expires_at"`
	PaymentRef      string      `json:"payment_ref,omitempty"`
	PaymentMethod   string      `json:"payment_method,omitempty"`
	SessionID       *uuid.UUID  `json:"session_id,omitempty"`
	QueueEntryID    *uuid.UUID  `json:"queue_entry_id,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// NewReservationView applies eager expiry: readers never see an unpaid hold
// past its deadline as pending.
func NewReservationView(r *reservation.Reservation, now time.Time) *ReservationView {
	return &ReservationView{
		ID:              r.ID(),
		StationTypeID:   r.StationTypeID(),
		StationID:       r.StationID(),
		CustomerID:      r.CustomerID(),
		StartTime:       r.TimeSlot().Start(),
		EndTime:         r.TimeSlot().End(),
		DurationMinutes: r.DurationMinutes(),
		Amount:          r.Amount().Units(),
		Peak:            r.Peak(),
		Kind:            string(r.Kind()),
		Participants:    r.Participants(),
		Status:          string(r.EffectiveStatus(now)),
		ExpiresAt:       r.ExpiresAt(),
		PaymentRef:      r.PaymentRef(),
		PaymentMethod:   string(r.PaymentMethod()),
		SessionID:       r.SessionID(),
		QueueEntryID:    r.QueueEntryID(),
		CreatedAt:       r.CreatedAt(),
		UpdatedAt:       r.UpdatedAt(),
	}
}

type SessionView struct {
	ID                 uuid.UUID             `json:"id"`
	StationID          uuid.UUID             `json:"station_id"`
	StationTypeID      uuid.UUID             `json:"station_type_id"`
	CustomerID         uuid.UUID             `json:"customer_id"`
	ReservationID      *uuid.UUID            `json:"reservation_id,omitempty"`
	QueueEntryID       *uuid.UUID            `json:"queue_entry_id,omitempty"`
	Status             string                `json:"status"`
	ScheduledStart     time.Time             `json:"scheduled_start"`
	ActualStart        *time.Time            `json:"actual_start,omitempty"`
	EndTime            time.Time             `json:"end_time"`
	ActualEnd          *time.Time            `json:"actual_end,omitempty"`
	DurationMinutes    int                   `json:"duration_minutes"`
	BaseAmount         int64                 `json:"base_amount"`
	FinalAmount        *int64                `json:"final_amount,omitempty"`
	ExtensionAmount    int64                 `json:"extension_amount"`
	PaymentStatus      string                `json:"payment_status"`
	PauseHistory       []session.PauseRecord `json:"pause_history"`
	TotalPausedMinutes int                   `json:"total_paused_minutes"`
	CurrentPauseStart  *time.Time            `json:"current_pause_start,omitempty"`
	Extended           bool                  `json:"extended"`
	Challenge          bool                  `json:"challenge"`
	Participants       []uuid.UUID           `json:"participants,omitempty"`
	WinnerID           *uuid.UUID            `json:"winner_id,omitempty"`
	BilledTo           []uuid.UUID           `json:"billed_to,omitempty"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

func NewSessionView(s *session.Session) *SessionView {
	var final *int64
	if f := s.FinalAmount(); f != nil {
		v := f.Units()
		final = &v
	}
	history := s.PauseHistory()
	if history == nil {
		history = []session.PauseRecord{}
	}
	return &SessionView{
		ID:                 s.ID(),
		StationID:          s.StationID(),
		StationTypeID:      s.StationTypeID(),
		CustomerID:         s.CustomerID(),
		ReservationID:      s.ReservationID(),
		QueueEntryID:       s.QueueEntryID(),
		Status:             string(s.Status()),
		ScheduledStart:     s.ScheduledStart(),
		ActualStart:        s.ActualStart(),
		EndTime:            s.EndTime(),
		ActualEnd:          s.ActualEnd(),
		DurationMinutes:    s.DurationMinutes(),
		BaseAmount:         s.BaseAmount().Units(),
		FinalAmount:        final,
		ExtensionAmount:    s.ExtensionAmount().Units(),
		PaymentStatus:      string(s.PaymentStatus()),
		PauseHistory:       history,
		TotalPausedMinutes: s.TotalPausedMinutes(),
		CurrentPauseStart:  s.CurrentPauseStart(),
		Extended:           s.Extended(),
		Challenge:          s.IsChallenge(),
		Participants:       s.Participants(),
		WinnerID:           s.WinnerID(),
		BilledTo:           s.BilledTo(),
		CreatedAt:          s.CreatedAt(),
		UpdatedAt:          s.UpdatedAt(),
	}
}

type QueueStatusView struct {
	EntryID              uuid.UUID  `json:"entry_id"`
	StationTypeID        uuid.UUID  `json:"station_type_id"`
	CustomerID           uuid.UUID  `json:"customer_id"`
	ReservationID        *uuid.UUID `json:"reservation_id,omitempty"`
	SessionID            *uuid.UUID `json:"session_id,omitempty"`
	Status               string     `json:"status"`
	Position             int        `json:"position"`
	AheadCount           int        `json:"ahead_count"`
	EstimatedWaitMinutes int        `json:"estimated_wait_minutes"`
}

// NewQueueStatusView computes the standing of e within line (the in-line
// entries of its type). Entries that left the line report no position.
func NewQueueStatusView(e *waitlist.Entry, line []*waitlist.Entry, turnoverMinutes int) *QueueStatusView {
	v := &QueueStatusView{
		EntryID:       e.ID(),
		StationTypeID: e.StationTypeID(),
		CustomerID:    e.CustomerID(),
		ReservationID: e.ReservationID(),
		SessionID:     e.SessionID(),
		Status:        string(e.Status()),
	}
	if e.Status() == waitlist.StatusWaiting {
		standing := waitlist.StandingOf(e, line, turnoverMinutes)
		v.Position = standing.Position
		v.AheadCount = standing.AheadCount
		v.EstimatedWaitMinutes = standing.EstimatedWaitMinutes
	}
	return v
}

type StationTypeView struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	PricingModel   string    `json:"pricing_model"`
	BaseRate       string    `json:"base_rate"`
	BlockMinutes   int       `json:"block_minutes,omitempty"`
	MinimumMinutes int       `json:"minimum_minutes"`
	PeakMultiplier *string   `json:"peak_multiplier,omitempty"`
	Enabled        bool      `json:"enabled"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewStationTypeView(t *station.Type) *StationTypeView {
	plan := t.RatePlan()
	var multiplier *string
	if m := plan.PeakMultiplier(); m != nil {
		s := m.String()
		multiplier = &s
	}
	return &StationTypeView{
		ID:             t.ID(),
		Name:           t.Name(),
		PricingModel:   string(plan.Model()),
		BaseRate:       plan.BaseRate().String(),
		BlockMinutes:   plan.BlockMinutes(),
		MinimumMinutes: plan.MinimumMinutes(),
		PeakMultiplier: multiplier,
		Enabled:        t.Enabled(),
		CreatedAt:      t.CreatedAt(),
	}
}

type StationView struct {
	ID     uuid.UUID `json:"id"`
	TypeID uuid.UUID `json:"type_id"`
	Name   string    `json:"name"`
	Status string    `json:"status"`
}

func NewStationView(s *station.Station) *StationView {
	return &StationView{
		ID:     s.ID(),
		TypeID: s.TypeID(),
		Name:   s.Name(),
		Status: string(s.Status()),
	}
}

type AvailabilityView struct {
	Type      *StationTypeView `json:"type"`
	Stations  []*StationView   `json:"stations"`
	Available int              `json:"available"`
	Waiting   int              `json:"waiting"`
}
