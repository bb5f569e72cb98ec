//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"gamezone-booking/internal/domain/pricing"
	"gamezone-booking/internal/domain/reservation"
	"gamezone-booking/internal/domain/station"
	"gamezone-booking/internal/pkg/clock"
	"gamezone-booking/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ist = time.FixedZone("IST", 5*3600+1800)
	now = time.Date(2026, 10, 14, 9, 0, 0, 0, ist) // Wednesday
)

type fixture struct {
	clock   *clock.MockClock
	factory *reservation.Factory
	typ     *station.Type
	station *station.Station
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	multiplier := decimal.NewFromFloat(1.5)
	plan, err := pricing.NewRatePlan(pricing.RatePlanParams{
		Model:          pricing.ModelPerMinute,
		BaseRate:       decimal.NewFromInt(10),
		MinimumMinutes: 30,
		PeakMultiplier: &multiplier,
	})
	require.NoError(t, err)
	typ, err := station.NewType("PS5 Bay", plan, true, now)
	require.NoError(t, err)
	st, err := station.NewStation(typ.ID(), "PS5-1", now)
	require.NoError(t, err)

	clk := clock.NewMockClock(now)
	return &fixture{
		clock:   clk,
		factory: reservation.NewFactory(clk, pricing.NewDefaultCalculator(), pricing.NewDefaultPeakPolicy(ist), 15*time.Minute),
		typ:     typ,
		station: st,
	}
}

func (f *fixture) request(start time.Time, minutes int) reservation.Request {
	return reservation.Request{CustomerID: uuid.New(), StartTime: start, DurationMinutes: minutes}
}

func TestFactory(t *testing.T) {
	t.Run("prices off peak and opens a hold", func(t *testing.T) {
		f := newFixture(t)
		r, err := f.factory.CreateReservation(f.typ, f.station, f.request(now.Add(time.Hour), 45))
		require.NoError(t, err)

		assert.Equal(t, reservation.StatusPendingPayment, r.Status())
		assert.Equal(t, int64(450), r.Amount().Units())
		assert.False(t, r.Peak())
		assert.Equal(t, now.Add(15*time.Minute), r.ExpiresAt())
		assert.Equal(t, reservation.KindStandard, r.Kind())
		require.NotNil(t, r.StationID())
		assert.Equal(t, f.station.ID(), *r.StationID())
	})

	t.Run("peak start applies the multiplier", func(t *testing.T) {
		f := newFixture(t)
		friday := time.Date(2026, 10, 16, 19, 0, 0, 0, ist)
		r, err := f.factory.CreateReservation(f.typ, f.station, f.request(friday, 45))
		require.NoError(t, err)
		assert.True(t, r.Peak())
		assert.Equal(t, int64(675), r.Amount().Units())
	})

	t.Run("no station leaves it unbound", func(t *testing.T) {
		f := newFixture(t)
		r, err := f.factory.CreateReservation(f.typ, nil, f.request(now, 30))
		require.NoError(t, err)
		assert.Nil(t, r.StationID())
	})

	t.Run("validation", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.factory.CreateReservation(f.typ, f.station, f.request(now, 29))
		assert.ErrorIs(t, err, reservation.ErrDurationTooShort)
		assert.True(t, errs.IsValidation(err))

		disabled := station.ReconstructType(f.typ.ID(), "off", f.typ.RatePlan(), false, now, now)
		_, err = f.factory.CreateReservation(disabled, f.station, f.request(now, 60))
		assert.ErrorIs(t, err, reservation.ErrActivityDisabled)

		other, err := station.NewStation(uuid.New(), "X", now)
		require.NoError(t, err)
		_, err = f.factory.CreateReservation(f.typ, other, f.request(now, 60))
		assert.ErrorIs(t, err, reservation.ErrStationMismatch)

		req := f.request(now, 60)
		req.Kind = reservation.KindChallenge
		_, err = f.factory.CreateReservation(f.typ, f.station, req)
		assert.ErrorIs(t, err, reservation.ErrChallengeParticipants)
	})

	t.Run("challenge participants include the customer once", func(t *testing.T) {
		f := newFixture(t)
		req := f.request(now, 60)
		opponent := uuid.New()
		req.Kind = reservation.KindChallenge
		req.Participants = []uuid.UUID{opponent, req.CustomerID, opponent}

		r, err := f.factory.CreateReservation(f.typ, f.station, req)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{req.CustomerID, opponent}, r.Participants())
	})
}

func TestExpiry(t *testing.T) {
	f := newFixture(t)
	r, err := f.factory.CreateReservation(f.typ, f.station, f.request(now.Add(time.Hour), 60))
	require.NoError(t, err)

	before := now.Add(14 * time.Minute)
	after := now.Add(15 * time.Minute)

	assert.Equal(t, reservation.StatusPendingPayment, r.EffectiveStatus(before))
	assert.True(t, r.HoldsSlotAt(before))
	assert.Equal(t, reservation.StatusExpired, r.EffectiveStatus(after))
	assert.False(t, r.HoldsSlotAt(after))

	err = r.ConfirmPayment("pay_1", reservation.PaymentOnline, after)
	assert.ErrorIs(t, err, reservation.ErrReservationExpired)

	assert.ErrorIs(t, r.Expire(before), reservation.ErrInvalidTransition)
	require.NoError(t, r.Expire(after))
	assert.Equal(t, reservation.StatusExpired, r.Status())
}

func TestConfirmAndBind(t *testing.T) {
	f := newFixture(t)
	r, err := f.factory.CreateReservation(f.typ, nil, f.request(now, 60))
	require.NoError(t, err)

	require.NoError(t, r.ConfirmPayment("pay_1", reservation.PaymentOnline, now))
	require.NoError(t, r.ConfirmPayment("pay_2", reservation.PaymentOnline, now))
	assert.Equal(t, "pay_1", r.PaymentRef())
	assert.True(t, r.HoldsSlotAt(now))

	sessionID := uuid.New()
	require.NoError(t, r.BindSession(f.station.ID(), sessionID, now))
	assert.Equal(t, sessionID, *r.SessionID())
	assert.Equal(t, f.station.ID(), *r.StationID())
	assert.False(t, r.HoldsSlotAt(now))

	assert.ErrorIs(t, r.BindSession(f.station.ID(), uuid.New(), now), reservation.ErrAlreadyHasSession)
	assert.ErrorIs(t, r.Cancel(now), reservation.ErrAlreadyHasSession)
}

func TestOfflineApprovalPath(t *testing.T) {
	f := newFixture(t)
	r, err := f.factory.CreateReservation(f.typ, f.station, f.request(now, 60))
	require.NoError(t, err)

	require.NoError(t, r.AwaitApproval("cash_1", now))
	assert.Equal(t, reservation.StatusPendingApproval, r.Status())
	assert.Equal(t, reservation.PaymentOffline, r.PaymentMethod())

	// approval is not subject to the unpaid hold
	later := now.Add(time.Hour)
	assert.Equal(t, reservation.StatusPendingApproval, r.EffectiveStatus(later))
	require.NoError(t, r.ConfirmPayment("cash_1", reservation.PaymentOffline, later))
	assert.Equal(t, reservation.StatusPaymentConfirmed, r.Status())
}

func TestTerminalTransitions(t *testing.T) {
	f := newFixture(t)
	r, err := f.factory.CreateReservation(f.typ, f.station, f.request(now, 60))
	require.NoError(t, err)

	require.NoError(t, r.MarkPaymentFailed(now))
	assert.ErrorIs(t, r.Cancel(now), reservation.ErrInvalidTransition)
	assert.ErrorIs(t, r.ConfirmPayment("p", reservation.PaymentOnline, now), reservation.ErrInvalidTransition)
	assert.True(t, errs.IsConflict(reservation.ErrInvalidTransition))
}

func TestTimeSlotOverlap(t *testing.T) {
	ten := time.Date(2026, 10, 14, 10, 0, 0, 0, ist)
	a, err := reservation.SlotFor(ten, 60)
	require.NoError(t, err)
	b, err := reservation.SlotFor(ten.Add(30*time.Minute), 60)
	require.NoError(t, err)
	c, err := reservation.SlotFor(ten.Add(time.Hour), 60)
	require.NoError(t, err)

	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a))
	assert.False(t, a.Overlaps(c))
	assert.False(t, c.Overlaps(a))

	_, err = reservation.NewTimeSlot(ten, ten)
	assert.ErrorIs(t, err, reservation.ErrInvalidTimeSlot)
	assert.Equal(t, "2026-10-14T04:30:00Z", a.NormalizedStart())
}
