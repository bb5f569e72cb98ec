package pricing

import (
	"errors"
	"strconv"

	"github.com/shopspring/decimal"
)

var ErrNegativeMoney = errors.New("money cannot be negative")

// Money is an amount in whole currency units (rupees). Fractions never survive a
// price calculation.
type Money struct {
	units int64
}

func NewMoney(units int64) (Money, error) {
	if units < 0 {
		return Money{}, ErrNegativeMoney
	}
	return Money{units: units}, nil
}

func MustMoney(units int64) Money {
	m, err := NewMoney(units)
	if err != nil {
		panic(err)
	}
	return m
}

func fromDecimal(d decimal.Decimal) Money {
	rounded := d.Round(0)
	if rounded.IsNegative() {
		return Money{}
	}
	return Money{units: rounded.IntPart()}
}

func (m Money) Units() int64 {
	return m.units
}

func (m Money) Add(other Money) Money {
	return Money{units: m.units + other.units}
}

func (m Money) LessThan(other Money) bool {
	return m.units < other.units
}

func (m Money) IsZero() bool {
	return m.units == 0
}

func (m Money) String() string {
	return strconv.FormatInt(m.units, 10)
}
