package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventName string

const (
	EventBookingCreated   EventName = "booking_created"
	EventBookingConfirmed EventName = "booking_confirmed"
	EventQueueUpdated     EventName = "queue_updated"
	EventQueueAssigned    EventName = "queue_assigned"
	EventSessionStarted   EventName = "session_started"
	EventSessionPaused    EventName = "session_paused"
	EventSessionResumed   EventName = "session_resumed"
	EventSessionEnded     EventName = "session_ended"
	EventWinnerSelected   EventName = "winner_selected"
)

// Event is a committed state change. Publishing is best effort: a publisher
// error never rolls the change back.
type Event struct {
	Name       EventName `json:"event"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

type BookingPayload struct {
	ReservationID uuid.UUID  `json:"reservation_id"`
	StationTypeID uuid.UUID  `json:"station_type_id"`
	StationID     *uuid.UUID `json:"station_id,omitempty"`
	CustomerID    uuid.UUID  `json:"customer_id"`
	Status        string     `json:"status"`
	Amount        int64      `json:"amount"`
	SessionID     *uuid.UUID `json:"session_id,omitempty"`
}

type QueuePayload struct {
	StationTypeID uuid.UUID  `json:"station_type_id"`
	EntryID       *uuid.UUID `json:"entry_id,omitempty"`
	CustomerID    *uuid.UUID `json:"customer_id,omitempty"`
	SessionID     *uuid.UUID `json:"session_id,omitempty"`
	StationID     *uuid.UUID `json:"station_id,omitempty"`
	Waiting       int        `json:"waiting"`
}

type SessionPayload struct {
	SessionID     uuid.UUID  `json:"session_id"`
	StationID     uuid.UUID  `json:"station_id"`
	StationTypeID uuid.UUID  `json:"station_type_id"`
	CustomerID    uuid.UUID  `json:"customer_id"`
	Status        string     `json:"status"`
	EndTime       time.Time  `json:"end_time"`
	Actor         string     `json:"actor,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	PausedMinutes int        `json:"paused_minutes,omitempty"`
	UsageMinutes  int        `json:"usage_minutes,omitempty"`
	FinalAmount   *int64     `json:"final_amount,omitempty"`
	WinnerID      *uuid.UUID `json:"winner_id,omitempty"`
}
