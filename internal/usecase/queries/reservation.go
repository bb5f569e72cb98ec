package queries

import (
	"context"

	"gamezone-booking/internal/domain/station"
	"gamezone-booking/internal/domain/user"
	"gamezone-booking/internal/domain/waitlist"
	"gamezone-booking/internal/infra"
	"gamezone-booking/internal/pkg/clock"
	"gamezone-booking/internal/pkg/config"
	"gamezone-booking/internal/pkg/errs"
	"gamezone-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=reservation.go -destination=../../../tests/mock/queries/reservation.go -package=queriesmock

var (
	ErrReservationNotFound = errs.NotFound("reservation not found")
	ErrSessionNotFound     = errs.NotFound("session not found")
	ErrStationTypeNotFound = errs.NotFound("station type not found")
	ErrNotQueued           = errs.NotFound("reservation is not in the waiting queue")
)

type BookingQueries interface {
	GetReservation(ctx context.Context, id uuid.UUID, actor user.Actor) (*ReservationView, error)
	GetSession(ctx context.Context, id uuid.UUID, actor user.Actor) (*SessionView, error)
	QueueStatus(ctx context.Context, reservationID uuid.UUID, actor user.Actor) (*QueueStatusView, error)
	ListStationTypes(ctx context.Context) ([]*StationTypeView, error)
	Availability(ctx context.Context, typeID uuid.UUID) (*AvailabilityView, error)
}

type bookingQueriesImpl struct {
	uow             shared.UnitOfWork
	clock           clock.Clock
	turnoverMinutes int
}

func NewBookingQueries(uow shared.UnitOfWork, clk clock.Clock, cfg config.Config) BookingQueries {
	return &bookingQueriesImpl{uow: uow, clock: clk, turnoverMinutes: cfg.Queue.TurnoverMinutes}
}

// Other customers' bookings are reported as absent rather than forbidden.
func (q *bookingQueriesImpl) GetReservation(ctx context.Context, id uuid.UUID, actor user.Actor) (*ReservationView, error) {
	var view *ReservationView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := tx.Reservations().FindByID(ctx, id)
		if err != nil {
			return notFoundAs(err, ErrReservationNotFound)
		}
		if !actor.CanActFor(res.CustomerID()) {
			return ErrReservationNotFound
		}
		view = NewReservationView(res, q.clock.Now())
		return nil
	})
	return view, err
}

func (q *bookingQueriesImpl) GetSession(ctx context.Context, id uuid.UUID, actor user.Actor) (*SessionView, error) {
	var view *SessionView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		sess, err := tx.Sessions().FindByID(ctx, id)
		if err != nil {
			return notFoundAs(err, ErrSessionNotFound)
		}
		if !actor.CanActFor(sess.CustomerID()) {
			return ErrSessionNotFound
		}
		view = NewSessionView(sess)
		return nil
	})
	return view, err
}

// QueueStatus reports position, people ahead and the flat wait estimate.
func (q *bookingQueriesImpl) QueueStatus(ctx context.Context, reservationID uuid.UUID, actor user.Actor) (*QueueStatusView, error) {
	var view *QueueStatusView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := tx.Reservations().FindByID(ctx, reservationID)
		if err != nil {
			return notFoundAs(err, ErrReservationNotFound)
		}
		if !actor.CanActFor(res.CustomerID()) {
			return ErrReservationNotFound
		}
		entry, err := tx.Waitlist().FindByReservation(ctx, reservationID)
		if err != nil {
			return notFoundAs(err, ErrNotQueued)
		}
		line, err := tx.Waitlist().ListInLine(ctx, entry.StationTypeID())
		if err != nil {
			return errs.Wrap(err, "list queue")
		}
		view = NewQueueStatusView(entry, line, q.turnoverMinutes)
		return nil
	})
	return view, err
}

func (q *bookingQueriesImpl) ListStationTypes(ctx context.Context) ([]*StationTypeView, error) {
	var views []*StationTypeView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		types, err := tx.StationTypes().List(ctx)
		if err != nil {
			return errs.Wrap(err, "list station types")
		}
		views = make([]*StationTypeView, 0, len(types))
		for _, t := range types {
			views = append(views, NewStationTypeView(t))
		}
		return nil
	})
	return views, err
}

func (q *bookingQueriesImpl) Availability(ctx context.Context, typeID uuid.UUID) (*AvailabilityView, error) {
	var view *AvailabilityView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		typ, err := tx.StationTypes().FindByID(ctx, typeID)
		if err != nil {
			return notFoundAs(err, ErrStationTypeNotFound)
		}
		stations, err := tx.Stations().ListByType(ctx, typeID)
		if err != nil {
			return errs.Wrap(err, "list stations")
		}
		line, err := tx.Waitlist().ListInLine(ctx, typeID)
		if err != nil {
			return errs.Wrap(err, "list queue")
		}
		view = &AvailabilityView{Type: NewStationTypeView(typ), Stations: make([]*StationView, 0, len(stations))}
		for _, st := range stations {
			view.Stations = append(view.Stations, NewStationView(st))
			if st.Status() == station.StatusAvailable {
				view.Available++
			}
		}
		for _, e := range line {
			if e.Status() == waitlist.StatusWaiting {
				view.Waiting++
			}
		}
		return nil
	})
	return view, err
}

func notFoundAs(err error, sentinel error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return sentinel
	}
	return errs.Wrap(err, "repository")
}
