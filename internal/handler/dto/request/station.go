package request

import (
	"gamezone-booking/internal/domain/pricing"
	"gamezone-booking/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateStationTypeRequest struct {
	Name           string           `json:"name" binding:"required"`
	PricingModel   string           `json:"pricingModel" binding:"required"`
	BaseRate       decimal.Decimal  `json:"baseRate"`
	BlockMinutes   int              `json:"blockMinutes,omitempty"`
	MinimumMinutes int              `json:"minimumMinutes"`
	PeakMultiplier *decimal.Decimal `json:"peakMultiplier,omitempty"`
	Enabled        *bool            `json:"enabled,omitempty"`
}

func (r CreateStationTypeRequest) ToCommand() commands.CreateStationTypeRequest {
	return commands.CreateStationTypeRequest{
		Name: r.Name,
		RatePlan: pricing.RatePlanParams{
			Model:          pricing.Model(r.PricingModel),
			BaseRate:       r.BaseRate,
			BlockMinutes:   r.BlockMinutes,
			MinimumMinutes: r.MinimumMinutes,
			PeakMultiplier: r.PeakMultiplier,
		},
		Enabled: valueOr(r.Enabled, true),
	}
}

type CreateStationRequest struct {
	TypeID uuid.UUID `json:"typeId" binding:"required"`
	Name   string    `json:"name" binding:"required"`
}

type StationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
