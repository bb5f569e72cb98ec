//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"gamezone-booking/internal/domain/pricing"
	"gamezone-booking/internal/domain/station"
	"gamezone-booking/internal/domain/user"
	"gamezone-booking/internal/domain/waitlist"
	"gamezone-booking/internal/infra/lock"
	"gamezone-booking/internal/infra/memstore"
	"gamezone-booking/internal/infra/notifier"
	"gamezone-booking/internal/pkg/clock"
	"gamezone-booking/internal/pkg/config"
	"gamezone-booking/internal/pkg/signature"
	"gamezone-booking/internal/usecase/commands"
	"gamezone-booking/internal/usecase/queries"
	"gamezone-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var ist = time.FixedZone("IST", 5*60*60+30*60)

// Monday morning: off-peak.
var baseTime = time.Date(2025, 3, 3, 10, 0, 0, 0, ist)

type fixture struct {
	t        *testing.T
	ctx      context.Context
	cfg      config.Config
	store    *memstore.Store
	locker   *lock.MemoryLocker
	clock    *clock.MockClock
	events   *notifier.Recorder
	verifier *signature.Verifier
	// newDeps rebuilds the dependencies over another unit of work.
	newDeps func(uow shared.UnitOfWork) *commands.Dependencies

	reservations commands.ReservationCommands
	sessions     commands.SessionCommands
	waitlist     commands.WaitlistCommands
	stations     commands.StationCommands
	payments     commands.PaymentCommands
	queries      queries.BookingQueries
}

func newFixture(t *testing.T, opts ...func(*config.Config)) *fixture {
	t.Helper()
	cfg := config.NewTestConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	clk := clock.NewMockClock(baseTime)
	store := memstore.New()
	events := &notifier.Recorder{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	peak := pricing.NewWindowPeakPolicy(ist, []time.Weekday{time.Friday, time.Saturday, time.Sunday}, 18, 22)
	verifier := signature.NewVerifier(cfg.Payment.Secret)

	locker := lock.NewMemoryLocker(clk)
	newDeps := func(uow shared.UnitOfWork) *commands.Dependencies {
		return commands.NewDependencies(uow, locker, events, clk, pricing.NewDefaultCalculator(), peak, cfg, logger)
	}
	deps := newDeps(store)
	wl := commands.NewWaitlistCommands(deps)

	return &fixture{
		t:            t,
		ctx:          context.Background(),
		cfg:          cfg,
		store:        store,
		locker:       locker,
		clock:        clk,
		events:       events,
		verifier:     verifier,
		newDeps:      newDeps,
		reservations: commands.NewReservationCommands(deps, wl),
		sessions:     commands.NewSessionCommands(deps, wl),
		waitlist:     wl,
		stations:     commands.NewStationCommands(deps, wl),
		payments:     commands.NewPaymentCommands(deps, verifier),
		queries:      queries.NewBookingQueries(store, clk, cfg),
	}
}

func customer() user.Actor {
	return user.Actor{ID: uuid.New(), Role: user.RoleCustomer}
}

func admin() user.Actor {
	return user.Actor{ID: uuid.New(), Role: user.RoleAdmin}
}

// createType registers a per-hour station type at 300 per hour, 30 minutes minimum.
func (f *fixture) createType(name string) *queries.StationTypeView {
	f.t.Helper()
	typ, err := f.stations.CreateStationType(f.ctx, commands.CreateStationTypeRequest{
		Name: name,
		RatePlan: pricing.RatePlanParams{
			Model:          pricing.ModelPerHour,
			BaseRate:       decimal.NewFromInt(300),
			MinimumMinutes: 30,
		},
		Enabled: true,
	})
	require.NoError(f.t, err)
	return typ
}

func (f *fixture) createStation(typeID uuid.UUID, name string) *queries.StationView {
	f.t.Helper()
	st, err := f.stations.CreateStation(f.ctx, commands.CreateStationRequest{TypeID: typeID, Name: name})
	require.NoError(f.t, err)
	return st
}

func (f *fixture) book(actor user.Actor, typeID uuid.UUID, stationID *uuid.UUID, start time.Time, minutes int) (*queries.ReservationView, error) {
	res, err := f.reservations.CreateReservation(f.ctx, commands.CreateReservationRequest{
		StationTypeID:   typeID,
		StationID:       stationID,
		StartTime:       start,
		DurationMinutes: minutes,
	}, actor, nil)
	if err != nil {
		return nil, err
	}
	return res.Reservation, nil
}

func (f *fixture) mustBook(actor user.Actor, typeID uuid.UUID, stationID *uuid.UUID, start time.Time, minutes int) *queries.ReservationView {
	f.t.Helper()
	res, err := f.book(actor, typeID, stationID, start, minutes)
	require.NoError(f.t, err)
	return res
}

func (f *fixture) pay(resID uuid.UUID, paymentRef string) (*commands.DispatchResult, error) {
	return f.payments.Verify(f.ctx, commands.VerifyPaymentRequest{
		EntityType: commands.EntityReservation,
		OrderRef:   resID.String(),
		PaymentRef: paymentRef,
		Signature:  f.verifier.Sign(resID.String(), paymentRef),
	})
}

func (f *fixture) mustPay(resID uuid.UUID, paymentRef string) *commands.DispatchResult {
	f.t.Helper()
	out, err := f.pay(resID, paymentRef)
	require.NoError(f.t, err)
	return out
}

func (f *fixture) stationStatus(id uuid.UUID) station.Status {
	f.t.Helper()
	var status station.Status
	err := f.store.WithinReadOnly(f.ctx, func(ctx context.Context, tx shared.Tx) error {
		st, err := tx.Stations().FindByID(ctx, id)
		if err != nil {
			return err
		}
		status = st.Status()
		return nil
	})
	require.NoError(f.t, err)
	return status
}

func (f *fixture) setStationStatus(id uuid.UUID, from, to station.Status) {
	f.t.Helper()
	err := f.store.Within(f.ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Stations().UpdateStatus(ctx, id, from, to, f.clock.Now())
	})
	require.NoError(f.t, err)
}

func (f *fixture) queueEntry(id uuid.UUID) *waitlist.Entry {
	f.t.Helper()
	var entry *waitlist.Entry
	err := f.store.WithinReadOnly(f.ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		entry, err = tx.Waitlist().FindByID(ctx, id)
		return err
	})
	require.NoError(f.t, err)
	return entry
}
