package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownModel          = errors.New("unknown pricing model")
	ErrNonPositiveRate       = errors.New("base rate must be positive")
	ErrInvalidBlockSize      = errors.New("fixed block pricing requires a positive block size")
	ErrInvalidMinimum        = errors.New("minimum duration must be at least one minute")
	ErrInvalidPeakMultiplier = errors.New("peak multiplier must be positive")
)

type Model string

const (
	ModelPerMinute  Model = "per_minute"
	ModelPerHour    Model = "per_hour"
	ModelFixedBlock Model = "fixed_block"
)

func (m Model) IsValid() bool {
	switch m {
	case ModelPerMinute, ModelPerHour, ModelFixedBlock:
		return true
	default:
		return false
	}
}

// RatePlan is immutable once attached to a booking; changes apply to future bookings only.
type RatePlan struct {
	model          Model
	baseRate       decimal.Decimal
	blockMinutes   int
	minimumMinutes int
	peakMultiplier *decimal.Decimal
}

type RatePlanParams struct {
	Model          Model
	BaseRate       decimal.Decimal
	BlockMinutes   int
	MinimumMinutes int
	PeakMultiplier *decimal.Decimal
}

func NewRatePlan(p RatePlanParams) (RatePlan, error) {
	if !p.Model.IsValid() {
		return RatePlan{}, ErrUnknownModel
	}
	if !p.BaseRate.IsPositive() {
		return RatePlan{}, ErrNonPositiveRate
	}
	if p.Model == ModelFixedBlock && p.BlockMinutes <= 0 {
		return RatePlan{}, ErrInvalidBlockSize
	}
	if p.MinimumMinutes < 1 {
		return RatePlan{}, ErrInvalidMinimum
	}
	if p.PeakMultiplier != nil && !p.PeakMultiplier.IsPositive() {
		return RatePlan{}, ErrInvalidPeakMultiplier
	}
	var peak *decimal.Decimal
	if p.PeakMultiplier != nil {
		v := *p.PeakMultiplier
		peak = &v
	}
	return RatePlan{
		model:          p.Model,
		baseRate:       p.BaseRate,
		blockMinutes:   p.BlockMinutes,
		minimumMinutes: p.MinimumMinutes,
		peakMultiplier: peak,
	}, nil
}

func (p RatePlan) Model() Model              { return p.model }
func (p RatePlan) BaseRate() decimal.Decimal { return p.baseRate }
func (p RatePlan) BlockMinutes() int         { return p.blockMinutes }
func (p RatePlan) MinimumMinutes() int       { return p.minimumMinutes }

func (p RatePlan) PeakMultiplier() *decimal.Decimal {
	if p.peakMultiplier == nil {
		return nil
	}
	v := *p.peakMultiplier
	return &v
}

func (p RatePlan) Params() RatePlanParams {
	return RatePlanParams{
		Model:          p.model,
		BaseRate:       p.baseRate,
		BlockMinutes:   p.blockMinutes,
		MinimumMinutes: p.minimumMinutes,
		PeakMultiplier: p.PeakMultiplier(),
	}
}
