package pricing

import (
	"github.com/shopspring/decimal"
)

var minutesPerHour = decimal.NewFromInt(60)

// Calculator prices a duration under a rate plan. Implementations must be pure.
type Calculator interface {
	Price(plan RatePlan, durationMinutes int, isPeak bool) Money
}

type DefaultCalculator struct{}

func NewDefaultCalculator() *DefaultCalculator {
	return &DefaultCalculator{}
}

// Price: per-minute rate×duration, per-hour rate×duration/60, fixed-block
// rate×ceil(duration/block). The peak multiplier applies to the base result and
// the total is rounded to the nearest whole unit (half away from zero).
func (c *DefaultCalculator) Price(plan RatePlan, durationMinutes int, isPeak bool) Money {
	if durationMinutes <= 0 {
		return Money{}
	}
	duration := decimal.NewFromInt(int64(durationMinutes))

	var amount decimal.Decimal
	switch plan.model {
	case ModelPerMinute:
		amount = plan.baseRate.Mul(duration)
	case ModelPerHour:
		amount = plan.baseRate.Mul(duration).Div(minutesPerHour)
	case ModelFixedBlock:
		blocks := (durationMinutes + plan.blockMinutes - 1) / plan.blockMinutes
		amount = plan.baseRate.Mul(decimal.NewFromInt(int64(blocks)))
	default:
		return Money{}
	}

	if isPeak && plan.peakMultiplier != nil {
		amount = amount.Mul(*plan.peakMultiplier)
	}
	return fromDecimal(amount)
}
