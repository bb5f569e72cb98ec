package request

import (
	"gamezone-booking/internal/domain/pricing"
	"gamezone-booking/internal/pkg/errs"
	"gamezone-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

// EnqueueWalkInRequest queues a customer who paid at the counter.
type EnqueueWalkInRequest struct {
	StationTypeID   uuid.UUID `json:"stationTypeId" binding:"required"`
	CustomerID      uuid.UUID `json:"customerId" binding:"required"`
	DurationMinutes int       `json:"durationMinutes"`
	Amount          int64     `json:"amount"`
	PaymentRef      string    `json:"paymentRef"`
}

func (r EnqueueWalkInRequest) ToCommand() (commands.EnqueueRequest, error) {
	amount, err := pricing.NewMoney(r.Amount)
	if err != nil {
		return commands.EnqueueRequest{}, errs.Mark(err, errs.ErrValidation)
	}
	return commands.EnqueueRequest{
		StationTypeID:   r.StationTypeID,
		CustomerID:      r.CustomerID,
		DurationMinutes: r.DurationMinutes,
		Amount:          amount,
		PaymentRef:      r.PaymentRef,
	}, nil
}
