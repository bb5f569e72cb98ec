//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"gamezone-booking/internal/domain/pricing"
	"gamezone-booking/internal/domain/reservation"
	"gamezone-booking/internal/domain/station"
	"gamezone-booking/internal/domain/user"
	"gamezone-booking/internal/domain/waitlist"
	"gamezone-booking/internal/infra/memstore"
	"gamezone-booking/internal/pkg/clock"
	"gamezone-booking/internal/pkg/config"
	"gamezone-booking/internal/usecase/queries"
	"gamezone-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type BookingQueriesSuite struct {
	suite.Suite
	ctx     context.Context
	store   *memstore.Store
	clock   *clock.MockClock
	queries queries.BookingQueries

	typ     *station.Type
	station *station.Station
	owner   user.Actor
	res     *reservation.Reservation
}

func TestBookingQueriesSuite(t *testing.T) {
	suite.Run(t, new(BookingQueriesSuite))
}

func (s *BookingQueriesSuite) SetupTest() {
	now := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	s.ctx = context.Background()
	s.store = memstore.New()
	s.clock = clock.NewMockClock(now)
	s.queries = queries.NewBookingQueries(s.store, s.clock, config.NewTestConfig())
	s.owner = user.Actor{ID: uuid.New(), Role: user.RoleCustomer}

	plan, err := pricing.NewRatePlan(pricing.RatePlanParams{
		Model:          pricing.ModelPerHour,
		BaseRate:       decimal.NewFromInt(300),
		MinimumMinutes: 30,
	})
	s.Require().NoError(err)
	s.typ, err = station.NewType("PS5", plan, true, now)
	s.Require().NoError(err)
	s.station, err = station.NewStation(s.typ.ID(), "PS5-1", now)
	s.Require().NoError(err)

	factory := reservation.NewFactory(s.clock, pricing.NewDefaultCalculator(), pricing.NewDefaultPeakPolicy(time.UTC), 15*time.Minute)
	s.res, err = factory.CreateReservation(s.typ, s.station, reservation.Request{
		CustomerID:      s.owner.ID,
		StartTime:       now.Add(24 * time.Hour),
		DurationMinutes: 60,
	})
	s.Require().NoError(err)

	err = s.store.Within(s.ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.StationTypes().Create(ctx, s.typ); err != nil {
			return err
		}
		if err := tx.Stations().Create(ctx, s.station); err != nil {
			return err
		}
		return tx.Reservations().Create(ctx, s.res)
	})
	s.Require().NoError(err)
}

func (s *BookingQueriesSuite) TestGetReservation_Visibility() {
	view, err := s.queries.GetReservation(s.ctx, s.res.ID(), s.owner)
	s.Require().NoError(err)
	s.Equal(s.res.ID(), view.ID)
	s.Equal(int64(300), view.Amount)

	staff := user.Actor{ID: uuid.New(), Role: user.RoleStaff}
	_, err = s.queries.GetReservation(s.ctx, s.res.ID(), staff)
	s.NoError(err)

	stranger := user.Actor{ID: uuid.New(), Role: user.RoleCustomer}
	_, err = s.queries.GetReservation(s.ctx, s.res.ID(), stranger)
	s.ErrorIs(err, queries.ErrReservationNotFound)

	_, err = s.queries.GetReservation(s.ctx, uuid.New(), s.owner)
	s.ErrorIs(err, queries.ErrReservationNotFound)
}

func (s *BookingQueriesSuite) TestGetReservation_EagerExpiry() {
	s.clock.Add(14 * time.Minute)
	view, err := s.queries.GetReservation(s.ctx, s.res.ID(), s.owner)
	s.Require().NoError(err)
	s.Equal(string(reservation.StatusPendingPayment), view.Status)

	s.clock.Add(time.Minute)
	view, err = s.queries.GetReservation(s.ctx, s.res.ID(), s.owner)
	s.Require().NoError(err)
	s.Equal(string(reservation.StatusExpired), view.Status)
}

func (s *BookingQueriesSuite) TestQueueStatus() {
	_, err := s.queries.QueueStatus(s.ctx, s.res.ID(), s.owner)
	s.ErrorIs(err, queries.ErrNotQueued)

	now := s.clock.Now()
	var ids []uuid.UUID
	err = s.store.Within(s.ctx, func(ctx context.Context, tx shared.Tx) error {
		for i := 1; i <= 3; i++ {
			resID := uuid.New()
			if i == 3 {
				resID = s.res.ID()
			}
			entry, err := waitlist.NewEntry(waitlist.Request{
				StationTypeID:   s.typ.ID(),
				CustomerID:      uuid.New(),
				ReservationID:   &resID,
				DurationMinutes: 60,
				Amount:          pricing.MustMoney(300),
				PaymentRef:      "pay",
			}, i, now.Add(time.Duration(i)*time.Second))
			if err != nil {
				return err
			}
			ids = append(ids, entry.ID())
			if err := tx.Waitlist().Create(ctx, entry); err != nil {
				return err
			}
		}
		return nil
	})
	s.Require().NoError(err)

	status, err := s.queries.QueueStatus(s.ctx, s.res.ID(), s.owner)
	s.Require().NoError(err)
	s.Equal(ids[2], status.EntryID)
	s.Equal(3, status.Position)
	s.Equal(2, status.AheadCount)
	s.Equal(90, status.EstimatedWaitMinutes)

	avail, err := s.queries.Availability(s.ctx, s.typ.ID())
	s.Require().NoError(err)
	s.Equal(1, avail.Available)
	s.Equal(3, avail.Waiting)
	s.Len(avail.Stations, 1)
}

func TestAvailability_UnknownType(t *testing.T) {
	q := queries.NewBookingQueries(memstore.New(), clock.NewMockClock(time.Now()), config.NewTestConfig())
	_, err := q.Availability(context.Background(), uuid.New())
	require.ErrorIs(t, err, queries.ErrStationTypeNotFound)
}
