package commands

import (
	"context"
	"time"

	"gamezone-booking/internal/domain/reservation"
	"gamezone-booking/internal/domain/waitlist"
	"gamezone-booking/internal/pkg/errs"
	"gamezone-booking/internal/usecase/queries"
	"gamezone-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type Outcome string

const (
	OutcomeConfirmed Outcome = "confirmed"
	OutcomeQueued    Outcome = "queued"
	OutcomePaid      Outcome = "paid"
)

type DispatchResult struct {
	Outcome     Outcome
	Replayed    bool
	Reservation *queries.ReservationView
	Session     *queries.SessionView
	Queue       *queries.QueueStatusView
}

type dispatchRequest struct {
	reservationID uuid.UUID
	paymentRef    string
	method        reservation.PaymentMethod
	// stationID forces a specific station (admin override); nil lets the
	// bound station or any free one be used.
	stationID *uuid.UUID
	// enqueue allows queue enrollment when nothing is free; otherwise the
	// dispatch fails with ErrNoInstanceAvailable.
	enqueue bool
	check   func(*reservation.Reservation) error
}

// dispatchPaid turns a paid reservation into a session, or into a queue entry
// when no station is free. The availability decision and the grant happen
// under the type's allocation lock, so they never act on a stale read.
func (d *Dependencies) dispatchPaid(ctx context.Context, req dispatchRequest) (*DispatchResult, error) {
	var typeID uuid.UUID
	err := d.UoW.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := tx.Reservations().FindByID(ctx, req.reservationID)
		if err != nil {
			return notFoundAs(err, ErrReservationNotFound)
		}
		typeID = res.StationTypeID()
		return nil
	})
	if err != nil {
		return nil, err
	}

	lock, err := acquireLock(ctx, d.Locker, d.Logger, allocationLockKey(typeID), d.Booking.LockTTL, d.Booking.PromotionLockWait)
	if err != nil {
		return nil, err
	}
	defer lock.release(ctx)

	var (
		result *DispatchResult
		events []shared.Event
	)
	err = withVersionRetry(d.Booking.TransitionRetries, func() error {
		return d.UoW.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			events = nil
			r, evs, err := d.dispatchInTx(ctx, tx, req)
			result, events = r, evs
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	emit(ctx, d.Publisher, d.Logger, events)
	return result, nil
}

func (d *Dependencies) dispatchInTx(ctx context.Context, tx shared.Tx, req dispatchRequest) (*DispatchResult, []shared.Event, error) {
	res, err := tx.Reservations().FindByID(ctx, req.reservationID)
	if err != nil {
		return nil, nil, notFoundAs(err, ErrReservationNotFound)
	}
	now := d.Clock.Now()

	if replay, err := d.replayDispatch(ctx, tx, res, now); replay != nil || err != nil {
		return replay, nil, err
	}
	if req.check != nil {
		if err := req.check(res); err != nil {
			return nil, nil, err
		}
	}
	if err := res.CanConfirmAt(now); err != nil {
		return nil, nil, err
	}

	typ, err := tx.StationTypes().FindByID(ctx, res.StationTypeID())
	if err != nil {
		return nil, nil, notFoundAs(err, ErrStationTypeNotFound)
	}

	immediate := !res.TimeSlot().Start().After(now.Add(d.Booking.StartGrace))
	start, end := res.TimeSlot().Start(), res.TimeSlot().End()
	if immediate {
		start, end = now, now.Add(time.Duration(res.DurationMinutes())*time.Minute)
	}

	preferred := res.StationID()
	if req.stationID != nil {
		preferred = req.stationID
	}
	st, err := findFreeStation(ctx, tx, typ.ID(), preferred, start, end, now, immediate, res.ID())
	if err != nil {
		return nil, nil, err
	}
	if req.stationID != nil && (st == nil || st.ID() != *req.stationID) {
		return nil, nil, ErrUnitUnavailable
	}

	if st != nil {
		granted, err := d.grantReservation(ctx, tx, res, typ, st, req.paymentRef, req.method, false, now)
		if err != nil {
			return nil, nil, err
		}
		return &DispatchResult{
			Outcome:     OutcomeConfirmed,
			Reservation: queries.NewReservationView(res, now),
			Session:     queries.NewSessionView(granted.session),
		}, granted.events, nil
	}

	if !req.enqueue {
		return nil, nil, ErrNoInstanceAvailable
	}
	if err := res.ConfirmPayment(req.paymentRef, req.method, now); err != nil {
		return nil, nil, err
	}
	resID := res.ID()
	entry, line, err := d.enqueueInTx(ctx, tx, waitlist.Request{
		StationTypeID:   typ.ID(),
		CustomerID:      res.CustomerID(),
		ReservationID:   &resID,
		DurationMinutes: res.DurationMinutes(),
		Amount:          res.Amount(),
		PaymentRef:      res.PaymentRef(),
	}, now)
	if err != nil {
		return nil, nil, err
	}
	res.AttachQueueEntry(entry.ID(), now)
	if err := tx.Reservations().Update(ctx, res); err != nil {
		return nil, nil, err
	}
	return &DispatchResult{
			Outcome:     OutcomeQueued,
			Reservation: queries.NewReservationView(res, now),
			Queue:       queries.NewQueueStatusView(entry, line, d.Queue.TurnoverMinutes),
		}, []shared.Event{
			event(shared.EventQueueUpdated, now, queuePayload(typ.ID(), entry, len(line))),
		}, nil
}

// replayDispatch makes confirmation idempotent: a reservation that already
// has a session or a queue entry reports it instead of allocating again.
func (d *Dependencies) replayDispatch(ctx context.Context, tx shared.Tx, res *reservation.Reservation, now time.Time) (*DispatchResult, error) {
	if sid := res.SessionID(); sid != nil {
		sess, err := tx.Sessions().FindByID(ctx, *sid)
		if err != nil {
			return nil, notFoundAs(err, ErrSessionNotFound)
		}
		return &DispatchResult{
			Outcome:     OutcomeConfirmed,
			Replayed:    true,
			Reservation: queries.NewReservationView(res, now),
			Session:     queries.NewSessionView(sess),
		}, nil
	}
	if eid := res.QueueEntryID(); eid != nil && res.Status() == reservation.StatusPaymentConfirmed {
		entry, err := tx.Waitlist().FindByID(ctx, *eid)
		if err != nil {
			return nil, notFoundAs(err, ErrQueueEntryNotFound)
		}
		line, err := tx.Waitlist().ListInLine(ctx, entry.StationTypeID())
		if err != nil {
			return nil, errs.Wrap(err, "list queue")
		}
		return &DispatchResult{
			Outcome:     OutcomeQueued,
			Replayed:    true,
			Reservation: queries.NewReservationView(res, now),
			Queue:       queries.NewQueueStatusView(entry, line, d.Queue.TurnoverMinutes),
		}, nil
	}
	return nil, nil
}
