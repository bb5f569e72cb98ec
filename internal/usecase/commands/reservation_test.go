//go:build unit

package commands_test

import (
	"sync"
	"testing"
	"time"

	"gamezone-booking/internal/domain/pricing"
	"gamezone-booking/internal/domain/reservation"
	"gamezone-booking/internal/pkg/config"
	"gamezone-booking/internal/pkg/errs"
	"gamezone-booking/internal/usecase/commands"
	"gamezone-booking/internal/usecase/queries"
	"gamezone-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReservation_RejectsOverlapOnSameStation(t *testing.T) {
	f := newFixture(t)
	typ := f.createType("PS5")
	st := f.createStation(typ.ID, "PS5-1")
	tomorrow := baseTime.Add(24 * time.Hour)

	first := f.mustBook(customer(), typ.ID, &st.ID, tomorrow, 60)
	assert.Equal(t, string(reservation.StatusPendingPayment), first.Status)
	assert.Equal(t, int64(300), first.Amount)
	assert.Equal(t, baseTime.Add(15*time.Minute), first.ExpiresAt)

	_, err := f.book(customer(), typ.ID, &st.ID, tomorrow.Add(30*time.Minute), 60)
	require.ErrorIs(t, err, commands.ErrSlotTaken)
	assert.True(t, errs.Is(err, errs.ErrConflict))

	adjacent := f.mustBook(customer(), typ.ID, &st.ID, tomorrow.Add(time.Hour), 60)
	assert.Equal(t, tomorrow.Add(time.Hour), adjacent.StartTime)

	assert.Equal(t, []shared.EventName{shared.EventBookingCreated, shared.EventBookingCreated}, f.events.Names())
}

func TestCreateReservation_Validation(t *testing.T) {
	f := newFixture(t)
	typ := f.createType("PC")
	other := f.createType("VR")
	vr := f.createStation(other.ID, "VR-1")
	tomorrow := baseTime.Add(24 * time.Hour)

	tests := []struct {
		name string
		req  commands.CreateReservationRequest
		want error
	}{
		{
			name: "below minimum duration",
			req:  commands.CreateReservationRequest{StationTypeID: typ.ID, StartTime: tomorrow, DurationMinutes: 10},
			want: reservation.ErrDurationTooShort,
		},
		{
			name: "station of another type",
			req:  commands.CreateReservationRequest{StationTypeID: typ.ID, StationID: &vr.ID, StartTime: tomorrow, DurationMinutes: 60},
			want: reservation.ErrStationMismatch,
		},
		{
			name: "unknown station type",
			req:  commands.CreateReservationRequest{StationTypeID: uuid.New(), StartTime: tomorrow, DurationMinutes: 60},
			want: commands.ErrStationTypeNotFound,
		},
		{
			name: "challenge without rivals",
			req: commands.CreateReservationRequest{
				StationTypeID: typ.ID, StartTime: tomorrow, DurationMinutes: 60, Kind: reservation.KindChallenge,
			},
			want: reservation.ErrChallengeParticipants,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.reservations.CreateReservation(f.ctx, tt.req, customer(), nil)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreateReservation_ExpiredHoldFreesWindow(t *testing.T) {
	f := newFixture(t)
	typ := f.createType("PS5")
	st := f.createStation(typ.ID, "PS5-1")
	tomorrow := baseTime.Add(24 * time.Hour)

	stale := f.mustBook(customer(), typ.ID, &st.ID, tomorrow, 60)
	f.clock.Add(16 * time.Minute)

	fresh := f.mustBook(customer(), typ.ID, &st.ID, tomorrow, 60)
	assert.NotEqual(t, stale.ID, fresh.ID)

	view, err := f.queries.GetReservation(f.ctx, stale.ID, admin())
	require.NoError(t, err)
	assert.Equal(t, string(reservation.StatusExpired), view.Status)
}

func TestCreateReservation_PeakPricing(t *testing.T) {
	f := newFixture(t)
	multiplier := decimal.RequireFromString("1.5")
	typ, err := f.stations.CreateStationType(f.ctx, commands.CreateStationTypeRequest{
		Name: "Racing Rig",
		RatePlan: pricing.RatePlanParams{
			Model:          pricing.ModelPerHour,
			BaseRate:       decimal.NewFromInt(300),
			MinimumMinutes: 30,
			PeakMultiplier: &multiplier,
		},
		Enabled: true,
	})
	require.NoError(t, err)
	st := f.createStation(typ.ID, "RIG-1")

	// Friday 19:00 falls inside the evening window.
	friday := time.Date(2025, 3, 7, 19, 0, 0, 0, ist)
	peak := f.mustBook(customer(), typ.ID, &st.ID, friday, 60)
	assert.True(t, peak.Peak)
	assert.Equal(t, int64(450), peak.Amount)

	// 22:00 is already outside it.
	late := f.mustBook(customer(), typ.ID, &st.ID, friday.Add(3*time.Hour), 60)
	assert.False(t, late.Peak)
	assert.Equal(t, int64(300), late.Amount)
}

func TestCreateReservation_ConcurrentOverlapsHaveOneWinner(t *testing.T) {
	f := newFixture(t)
	typ := f.createType("PS5")
	st := f.createStation(typ.ID, "PS5-1")
	tomorrow := baseTime.Add(24 * time.Hour)

	const attempts = 24
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []*queries.ReservationView
		failed  []error
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			start := tomorrow.Add(time.Duration(i%6) * 30 * time.Minute)
			res, err := f.book(customer(), typ.ID, &st.ID, start, 60)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, err)
				return
			}
			winners = append(winners, res)
		}(i)
	}
	wg.Wait()

	require.NotEmpty(t, winners)
	for _, err := range failed {
		ok := errs.Is(err, commands.ErrSlotTaken) || errs.Is(err, commands.ErrLockContention)
		assert.True(t, ok, "unexpected error: %v", err)
	}
	for i := range winners {
		for j := i + 1; j < len(winners); j++ {
			a, b := winners[i], winners[j]
			overlap := a.StartTime.Before(b.EndTime) && b.StartTime.Before(a.EndTime)
			assert.False(t, overlap, "%s-%s overlaps %s-%s", a.StartTime, a.EndTime, b.StartTime, b.EndTime)
		}
	}
}

func TestCreateReservation_IdempotencyKey(t *testing.T) {
	f := newFixture(t)
	typ := f.createType("PS5")
	st := f.createStation(typ.ID, "PS5-1")
	actor := customer()
	key := uuid.New()
	req := commands.CreateReservationRequest{
		StationTypeID:   typ.ID,
		StationID:       &st.ID,
		StartTime:       baseTime.Add(24 * time.Hour),
		DurationMinutes: 60,
	}

	first, err := f.reservations.CreateReservation(f.ctx, req, actor, &key)
	require.NoError(t, err)
	assert.False(t, first.IsReplayed)

	replay, err := f.reservations.CreateReservation(f.ctx, req, actor, &key)
	require.NoError(t, err)
	assert.True(t, replay.IsReplayed)
	assert.Equal(t, first.Reservation.ID, replay.Reservation.ID)

	changed := req
	changed.DurationMinutes = 90
	_, err = f.reservations.CreateReservation(f.ctx, changed, actor, &key)
	require.ErrorIs(t, err, commands.ErrIdempotencyMismatch)

	// Keys are scoped per customer.
	other, err := f.reservations.CreateReservation(f.ctx, commands.CreateReservationRequest{
		StationTypeID:   typ.ID,
		StationID:       &st.ID,
		StartTime:       baseTime.Add(26 * time.Hour),
		DurationMinutes: 60,
	}, customer(), &key)
	require.NoError(t, err)
	assert.False(t, other.IsReplayed)
}

func TestCreateReservation_FailedCreateReleasesKey(t *testing.T) {
	f := newFixture(t)
	typ := f.createType("PS5")
	st := f.createStation(typ.ID, "PS5-1")
	actor := customer()
	key := uuid.New()
	req := commands.CreateReservationRequest{
		StationTypeID:   typ.ID,
		StationID:       &st.ID,
		StartTime:       baseTime.Add(24 * time.Hour),
		DurationMinutes: 60,
	}

	f.store.SetFault(func(op string) error {
		if op == "reservations.create" {
			return errs.New("disk full")
		}
		return nil
	})
	_, err := f.reservations.CreateReservation(f.ctx, req, actor, &key)
	require.Error(t, err)

	f.store.SetFault(nil)
	res, err := f.reservations.CreateReservation(f.ctx, req, actor, &key)
	require.NoError(t, err)
	assert.False(t, res.IsReplayed)
}

func TestCancelReservation(t *testing.T) {
	f := newFixture(t)
	typ := f.createType("PS5")
	st := f.createStation(typ.ID, "PS5-1")
	owner := customer()
	tomorrow := baseTime.Add(24 * time.Hour)
	res := f.mustBook(owner, typ.ID, &st.ID, tomorrow, 60)

	_, err := f.reservations.CancelReservation(f.ctx, res.ID, customer())
	require.ErrorIs(t, err, commands.ErrNotOwner)

	cancelled, err := f.reservations.CancelReservation(f.ctx, res.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, string(reservation.StatusCancelled), cancelled.Status)

	// The window is free again.
	f.mustBook(customer(), typ.ID, &st.ID, tomorrow, 60)
}

func TestCancelReservation_LeavesQueue(t *testing.T) {
	f := newFixture(t)
	typ := f.createType("PS5")
	f.createStation(typ.ID, "PS5-1")

	holder := f.mustBook(customer(), typ.ID, nil, baseTime, 60)
	f.mustPay(holder.ID, "pay-holder")

	first, second := customer(), customer()
	r1 := f.mustBook(first, typ.ID, nil, baseTime, 60)
	r2 := f.mustBook(second, typ.ID, nil, baseTime, 60)
	require.Equal(t, commands.OutcomeQueued, f.mustPay(r1.ID, "pay-1").Outcome)
	require.Equal(t, commands.OutcomeQueued, f.mustPay(r2.ID, "pay-2").Outcome)

	_, err := f.reservations.CancelReservation(f.ctx, r1.ID, first)
	require.NoError(t, err)

	status, err := f.queries.QueueStatus(f.ctx, r2.ID, second)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Position)
	assert.Equal(t, 0, status.AheadCount)
}

func TestExpireStale(t *testing.T) {
	f := newFixture(t)
	typ := f.createType("PS5")
	st := f.createStation(typ.ID, "PS5-1")
	tomorrow := baseTime.Add(24 * time.Hour)

	f.mustBook(customer(), typ.ID, &st.ID, tomorrow, 60)
	f.mustBook(customer(), typ.ID, &st.ID, tomorrow.Add(2*time.Hour), 60)

	n, err := f.reservations.ExpireStale(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	f.clock.Add(15 * time.Minute)
	n, err = f.reservations.ExpireStale(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = f.reservations.ExpireStale(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMarkPaymentFailed(t *testing.T) {
	f := newFixture(t)
	typ := f.createType("PS5")
	st := f.createStation(typ.ID, "PS5-1")
	tomorrow := baseTime.Add(24 * time.Hour)
	res := f.mustBook(customer(), typ.ID, &st.ID, tomorrow, 60)

	failed, err := f.reservations.MarkPaymentFailed(f.ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, string(reservation.StatusPaymentFailed), failed.Status)

	f.mustBook(customer(), typ.ID, &st.ID, tomorrow, 60)
}

func TestOfflinePayment_RequireApproval(t *testing.T) {
	f := newFixture(t)
	typ := f.createType("PS5")
	st := f.createStation(typ.ID, "PS5-1")
	owner := customer()
	res := f.mustBook(owner, typ.ID, &st.ID, baseTime.Add(5*time.Minute), 60)

	_, err := f.reservations.MarkOfflinePayment(f.ctx, res.ID, "cash-1", customer())
	require.ErrorIs(t, err, commands.ErrNotOwner)

	parked, err := f.reservations.MarkOfflinePayment(f.ctx, res.ID, "cash-1", owner)
	require.NoError(t, err)
	assert.Equal(t, string(reservation.StatusPendingApproval), parked.Reservation.Status)
	assert.Nil(t, parked.Session)

	// The hold deadline no longer applies while awaiting approval.
	f.clock.Add(20 * time.Minute)

	_, err = f.reservations.ApproveOfflinePayment(f.ctx, res.ID, owner)
	require.ErrorIs(t, err, commands.ErrNotOwner)

	approved, err := f.reservations.ApproveOfflinePayment(f.ctx, res.ID, admin())
	require.NoError(t, err)
	assert.Equal(t, commands.OutcomeConfirmed, approved.Outcome)
	assert.Equal(t, "cash-1", approved.Reservation.PaymentRef)
	assert.Equal(t, string(reservation.PaymentOffline), approved.Reservation.PaymentMethod)
	require.NotNil(t, approved.Session)

	_, err = f.reservations.ApproveOfflinePayment(f.ctx, res.ID, admin())
	require.NoError(t, err, "approving twice replays the confirmation")
}

func TestOfflinePayment_AutoConfirm(t *testing.T) {
	f := newFixture(t, func(c *config.Config) {
		c.Booking.OfflinePaymentPolicy = config.OfflinePolicyAutoConfirm
	})
	typ := f.createType("PS5")
	st := f.createStation(typ.ID, "PS5-1")
	owner := customer()
	res := f.mustBook(owner, typ.ID, &st.ID, baseTime.Add(5*time.Minute), 60)

	out, err := f.reservations.MarkOfflinePayment(f.ctx, res.ID, "cash-1", owner)
	require.NoError(t, err)
	assert.Equal(t, commands.OutcomeConfirmed, out.Outcome)
	require.NotNil(t, out.Session)
	assert.Equal(t, st.ID, out.Session.StationID)

	_, err = f.reservations.ApproveOfflinePayment(f.ctx, res.ID, admin())
	require.ErrorIs(t, err, commands.ErrApprovalDisabled)
}

func TestConfirmReservation_StationOverride(t *testing.T) {
	f := newFixture(t)
	typ := f.createType("PS5")
	f.createStation(typ.ID, "PS5-1")
	second := f.createStation(typ.ID, "PS5-2")
	res := f.mustBook(customer(), typ.ID, nil, baseTime, 60)

	_, err := f.reservations.ConfirmReservation(f.ctx, res.ID, commands.ConfirmReservationRequest{})
	require.ErrorIs(t, err, commands.ErrMissingPaymentRef)

	out, err := f.reservations.ConfirmReservation(f.ctx, res.ID, commands.ConfirmReservationRequest{
		PaymentRef: "pay-1",
		StationID:  &second.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, out.Session)
	assert.Equal(t, second.ID, out.Session.StationID)
	require.NotNil(t, out.Reservation.StationID)
	assert.Equal(t, second.ID, *out.Reservation.StationID)
}

func TestConfirmReservation_NothingFree(t *testing.T) {
	f := newFixture(t)
	typ := f.createType("PS5")
	f.createStation(typ.ID, "PS5-1")

	holder := f.mustBook(customer(), typ.ID, nil, baseTime, 60)
	f.mustPay(holder.ID, "pay-holder")

	late := f.mustBook(customer(), typ.ID, nil, baseTime, 60)
	_, err := f.reservations.ConfirmReservation(f.ctx, late.ID, commands.ConfirmReservationRequest{PaymentRef: "pay-late"})
	require.ErrorIs(t, err, commands.ErrNoInstanceAvailable)
}
