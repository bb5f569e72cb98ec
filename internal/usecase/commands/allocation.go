package commands

import (
	"context"
	"time"

	"gamezone-booking/internal/domain/reservation"
	"gamezone-booking/internal/domain/session"
	"gamezone-booking/internal/domain/station"
	"gamezone-booking/internal/domain/waitlist"
	"gamezone-booking/internal/infra"
	"gamezone-booking/internal/pkg/errs"
	"gamezone-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// windowFree reports whether nothing else holds the station during [start, end).
// exclude is the reservation being granted, whose own hold does not count.
func windowFree(ctx context.Context, tx shared.Tx, stationID uuid.UUID, start, end, now time.Time, exclude uuid.UUID) (bool, error) {
	held, err := tx.Reservations().FindOverlapping(ctx, stationID, start, end)
	if err != nil {
		return false, errs.Wrap(err, "find overlapping reservations")
	}
	for _, r := range held {
		if r.ID() != exclude && r.HoldsSlotAt(now) {
			return false, nil
		}
	}
	sessions, err := tx.Sessions().FindOverlapping(ctx, stationID, start, end)
	if err != nil {
		return false, errs.Wrap(err, "find overlapping sessions")
	}
	return len(sessions) == 0, nil
}

// stationUsable: the station can take a grant over [start, end). Immediate
// grants additionally need the station to be available right now.
func stationUsable(ctx context.Context, tx shared.Tx, st *station.Station, start, end, now time.Time, immediate bool, exclude uuid.UUID) (bool, error) {
	if st.Status() == station.StatusMaintenance {
		return false, nil
	}
	if immediate && !st.IsAvailable() {
		return false, nil
	}
	return windowFree(ctx, tx, st.ID(), start, end, now, exclude)
}

// findFreeStation picks a usable station of the type, trying preferred first.
// Returns nil when none is free.
func findFreeStation(ctx context.Context, tx shared.Tx, typeID uuid.UUID, preferred *uuid.UUID, start, end, now time.Time, immediate bool, exclude uuid.UUID) (*station.Station, error) {
	stations, err := tx.Stations().ListByType(ctx, typeID)
	if err != nil {
		return nil, errs.Wrap(err, "list stations")
	}
	if preferred != nil {
		for i, st := range stations {
			if st.ID() == *preferred {
				stations[0], stations[i] = stations[i], stations[0]
				break
			}
		}
	}
	for _, st := range stations {
		ok, err := stationUsable(ctx, tx, st, start, end, now, immediate, exclude)
		if err != nil {
			return nil, err
		}
		if ok {
			return st, nil
		}
	}
	return nil, nil
}

// occupy flips the station to occupied as a compare-and-set in the caller's transaction.
func occupy(ctx context.Context, tx shared.Tx, stationID uuid.UUID, now time.Time) error {
	err := tx.Stations().UpdateStatus(ctx, stationID, station.StatusAvailable, station.StatusOccupied, now)
	if infra.IsKind(err, infra.KindStatusMismatch) {
		return ErrUnitUnavailable
	}
	return err
}

func releaseStation(ctx context.Context, tx shared.Tx, stationID uuid.UUID, now time.Time) error {
	err := tx.Stations().UpdateStatus(ctx, stationID, station.StatusOccupied, station.StatusAvailable, now)
	if infra.IsKind(err, infra.KindStatusMismatch) {
		return errs.Wrap(err, "station was not occupied by the session")
	}
	return err
}

type grantResult struct {
	session *session.Session
	events  []shared.Event
}

// grantReservation confirms a paid reservation onto st and spawns its session.
// A start beyond the grace period yields a scheduled session that leaves the
// station free until it is started.
func (d *Dependencies) grantReservation(
	ctx context.Context,
	tx shared.Tx,
	res *reservation.Reservation,
	typ *station.Type,
	st *station.Station,
	paymentRef string,
	method reservation.PaymentMethod,
	immediate bool,
	now time.Time,
) (*grantResult, error) {
	if err := res.ConfirmPayment(paymentRef, method, now); err != nil {
		return nil, err
	}

	resID := res.ID()
	grant := session.Grant{
		StationID:       st.ID(),
		StationTypeID:   typ.ID(),
		CustomerID:      res.CustomerID(),
		ReservationID:   &resID,
		QueueEntryID:    res.QueueEntryID(),
		RatePlan:        typ.RatePlan(),
		DurationMinutes: res.DurationMinutes(),
		BaseAmount:      res.Amount(),
		PaymentRef:      res.PaymentRef(),
		StartTime:       res.TimeSlot().Start(),
		Challenge:       res.Kind() == reservation.KindChallenge,
		Participants:    res.Participants(),
	}

	scheduled := !immediate && res.TimeSlot().Start().After(now.Add(d.Booking.StartGrace))
	var (
		sess *session.Session
		err  error
	)
	if scheduled {
		sess, err = session.NewScheduled(grant, now)
	} else {
		sess, err = session.NewActive(grant, now)
	}
	if err != nil {
		return nil, err
	}

	if !scheduled {
		if err := occupy(ctx, tx, st.ID(), now); err != nil {
			return nil, err
		}
	}
	if err := res.BindSession(st.ID(), sess.ID(), now); err != nil {
		return nil, err
	}
	if err := tx.Sessions().Create(ctx, sess); err != nil {
		return nil, errs.Wrap(err, "create session")
	}
	if err := tx.Reservations().Update(ctx, res); err != nil {
		return nil, err
	}

	events := []shared.Event{
		event(shared.EventBookingConfirmed, now, bookingPayload(res)),
	}
	if !scheduled {
		events = append(events, event(shared.EventSessionStarted, now, sessionPayload(sess, "")))
	}
	return &grantResult{session: sess, events: events}, nil
}

// compactLine renumbers the in-line entries of a type and persists the changes.
func compactLine(ctx context.Context, tx shared.Tx, typeID uuid.UUID, now time.Time) (int, error) {
	line, err := tx.Waitlist().ListInLine(ctx, typeID)
	if err != nil {
		return 0, errs.Wrap(err, "list queue")
	}
	for _, e := range waitlist.Compact(line, now) {
		if err := tx.Waitlist().Update(ctx, e); err != nil {
			return 0, err
		}
	}
	waiting := 0
	for _, e := range line {
		if e.Status() == waitlist.StatusWaiting {
			waiting++
		}
	}
	return waiting, nil
}

func bookingPayload(r *reservation.Reservation) shared.BookingPayload {
	return shared.BookingPayload{
		ReservationID: r.ID(),
		StationTypeID: r.StationTypeID(),
		StationID:     r.StationID(),
		CustomerID:    r.CustomerID(),
		Status:        string(r.Status()),
		Amount:        r.Amount().Units(),
		SessionID:     r.SessionID(),
	}
}

func sessionPayload(s *session.Session, actor string) shared.SessionPayload {
	return shared.SessionPayload{
		SessionID:     s.ID(),
		StationID:     s.StationID(),
		StationTypeID: s.StationTypeID(),
		CustomerID:    s.CustomerID(),
		Status:        string(s.Status()),
		EndTime:       s.EndTime(),
		Actor:         actor,
	}
}

func queuePayload(typeID uuid.UUID, e *waitlist.Entry, waiting int) shared.QueuePayload {
	p := shared.QueuePayload{StationTypeID: typeID, Waiting: waiting}
	if e != nil {
		id := e.ID()
		customer := e.CustomerID()
		p.EntryID = &id
		p.CustomerID = &customer
		p.SessionID = e.SessionID()
	}
	return p
}
