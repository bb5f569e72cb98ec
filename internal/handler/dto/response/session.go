package response

import (
	"time"

	"gamezone-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type PauseRecordResponse struct {
	Start           time.Time  `json:"start"`
	End             *time.Time `json:"end,omitempty"`
	DurationMinutes int        `json:"durationMinutes"`
	Reason          string     `json:"reason,omitempty"`
	Actor           string     `json:"actor"`
}

type SessionResponse struct {
	ID                 uuid.UUID             `json:"id"`
	StationID          uuid.UUID             `json:"stationId"`
	StationTypeID      uuid.UUID             `json:"stationTypeId"`
	CustomerID         uuid.UUID             `json:"customerId"`
	ReservationID      *uuid.UUID            `json:"reservationId,omitempty"`
	QueueEntryID       *uuid.UUID            `json:"queueEntryId,omitempty"`
	Status             string                `json:"status"`
	ScheduledStart     time.Time             `json:"scheduledStart"`
	ActualStart        *time.Time            `json:"actualStart,omitempty"`
	EndTime            time.Time             `json:"endTime"`
	ActualEnd          *time.Time            `json:"actualEnd,omitempty"`
	DurationMinutes    int                   `json:"durationMinutes"`
	BaseAmount         int64                 `json:"baseAmount"`
	FinalAmount        *int64                `json:"finalAmount,omitempty"`
	ExtensionAmount    int64                 `json:"extensionAmount"`
	PaymentStatus      string                `json:"paymentStatus"`
	PauseHistory       []PauseRecordResponse `json:"pauseHistory"`
	TotalPausedMinutes int                   `json:"totalPausedMinutes"`
	CurrentPauseStart  *time.Time            `json:"currentPauseStart,omitempty"`
	Extended           bool                  `json:"extended"`
	Challenge          bool                  `json:"challenge"`
	Participants       []uuid.UUID           `json:"participants,omitempty"`
	WinnerID           *uuid.UUID            `json:"winnerId,omitempty"`
	BilledTo           []uuid.UUID           `json:"billedTo,omitempty"`
	CreatedAt          time.Time             `json:"createdAt"`
	UpdatedAt          time.Time             `json:"updatedAt"`
}

func FromSessionView(v *queries.SessionView) *SessionResponse {
	return mapView[SessionResponse](v)
}

type ExtendSessionResponse struct {
	Session *SessionResponse `json:"session"`
	Charge  int64            `json:"charge"`
}
