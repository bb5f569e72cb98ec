package request

import (
	"time"

	"gamezone-booking/internal/domain/reservation"
	"gamezone-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	StationTypeID   uuid.UUID   `json:"stationTypeId" binding:"required"`
	StationID       *uuid.UUID  `json:"stationId,omitempty"`
	StartTime       time.Time   `json:"startTime" binding:"required"`
	DurationMinutes int         `json:"durationMinutes"`
	Kind            *string     `json:"kind,omitempty"`
	Participants    []uuid.UUID `json:"participants,omitempty"`
}

func (r CreateReservationRequest) ToCommand() commands.CreateReservationRequest {
	return commands.CreateReservationRequest{
		StationTypeID:   r.StationTypeID,
		StationID:       r.StationID,
		StartTime:       r.StartTime,
		DurationMinutes: r.DurationMinutes,
		Kind:            reservation.Kind(valueOr(r.Kind, string(reservation.KindStandard))),
		Participants:    r.Participants,
	}
}

type OfflinePaymentRequest struct {
	PaymentRef string `json:"paymentRef"`
}

// ConfirmReservationRequest is the operator path; StationID pins the booking
// to a specific station.
type ConfirmReservationRequest struct {
	PaymentRef string     `json:"paymentRef"`
	StationID  *uuid.UUID `json:"stationId,omitempty"`
}

func (r ConfirmReservationRequest) ToCommand() commands.ConfirmReservationRequest {
	return commands.ConfirmReservationRequest{PaymentRef: r.PaymentRef, StationID: r.StationID}
}
