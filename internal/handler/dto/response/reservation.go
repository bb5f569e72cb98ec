package response

import (
	"time"

	"gamezone-booking/internal/usecase/commands"
	"gamezone-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationResponse struct {
	ID              uuid.UUID   `json:"id"`
	StationTypeID   uuid.UUID   `json:"stationTypeId"`
	StationID       *uuid.UUID  `json:"stationId,omitempty"`
	CustomerID      uuid.UUID   `json:"customerId"`
	StartTime       time.Time   `json:"startTime"`
	EndTime         time.Time   `json:"endTime"`
	DurationMinutes int         `json:"durationMinutes"`
	Amount          int64       `json:"amount"`
	Peak            bool        `json:"peak"`
	Kind            string      `json:"kind"`
	Participants    []uuid.UUID `json:"participants,omitempty"`
	Status          string      `json:"status"`
	ExpiresAt       time.Time   `json:"expiresAt"`
	PaymentRef      string      `json:"paymentRef,omitempty"`
	PaymentMethod   string      `json:"paymentMethod,omitempty"`
	SessionID       *uuid.UUID  `json:"sessionId,omitempty"`
	QueueEntryID    *uuid.UUID  `json:"queueEntryId,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

func FromReservationView(v *queries.ReservationView) *ReservationResponse {
	return mapView[ReservationResponse](v)
}

type QueueStatusResponse struct {
	EntryID              uuid.UUID  `json:"entryId"`
	StationTypeID        uuid.UUID  `json:"stationTypeId"`
	CustomerID           uuid.UUID  `json:"customerId"`
	ReservationID        *uuid.UUID `json:"reservationId,omitempty"`
	SessionID            *uuid.UUID `json:"sessionId,omitempty"`
	Status               string     `json:"status"`
	Position             int        `json:"position,omitempty"`
	AheadCount           int        `json:"aheadCount"`
	EstimatedWaitMinutes int        `json:"estimatedWaitMinutes"`
}

func FromQueueStatusView(v *queries.QueueStatusView) *QueueStatusResponse {
	return mapView[QueueStatusResponse](v)
}

// DispatchResponse reports where a paid reservation went: onto a station
// (session) or into the waiting queue.
type DispatchResponse struct {
	Outcome     string               `json:"outcome,omitempty"`
	Replayed    bool                 `json:"replayed,omitempty"`
	Reservation *ReservationResponse `json:"reservation,omitempty"`
	Session     *SessionResponse     `json:"session,omitempty"`
	Queue       *QueueStatusResponse `json:"queue,omitempty"`
}

func FromDispatchResult(r *commands.DispatchResult) *DispatchResponse {
	resp := &DispatchResponse{Outcome: string(r.Outcome), Replayed: r.Replayed}
	if r.Reservation != nil {
		resp.Reservation = FromReservationView(r.Reservation)
	}
	if r.Session != nil {
		resp.Session = FromSessionView(r.Session)
	}
	if r.Queue != nil {
		resp.Queue = FromQueueStatusView(r.Queue)
	}
	return resp
}
