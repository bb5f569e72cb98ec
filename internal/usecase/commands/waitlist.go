package commands

import (
	"context"
	"log/slog"
	"time"

	"gamezone-booking/internal/domain/pricing"
	"gamezone-booking/internal/domain/reservation"
	"gamezone-booking/internal/domain/session"
	"gamezone-booking/internal/domain/user"
	"gamezone-booking/internal/domain/waitlist"
	"gamezone-booking/internal/pkg/errs"
	"gamezone-booking/internal/usecase/queries"
	"gamezone-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=waitlist.go -destination=../../../tests/mock/commands/waitlist.go -package=commandsmock

// Promoter hands a freed station to the head of the queue. Safe to call
// redundantly: with nobody waiting or nothing free it changes nothing.
type Promoter interface {
	Promote(ctx context.Context, typeID uuid.UUID) (*PromotionResult, error)
}

// promoteAfterRelease runs a promotion once a station or slot was given back.
// The caller's work is already committed, so failures are only logged.
func promoteAfterRelease(ctx context.Context, promoter Promoter, logger *slog.Logger, typeID uuid.UUID) {
	if _, err := promoter.Promote(context.WithoutCancel(ctx), typeID); err != nil {
		if errs.Is(err, errs.ErrPromotionRollback) {
			logger.Error("queue promotion rolled back after station release", "station_type_id", typeID, "error", err)
			return
		}
		logger.Warn("queue promotion after station release failed", "station_type_id", typeID, "error", err)
	}
}

type WaitlistCommands interface {
	Promoter
	Enqueue(ctx context.Context, req EnqueueRequest) (*queries.QueueStatusView, error)
	CancelEntry(ctx context.Context, entryID uuid.UUID, actor user.Actor) (*queries.QueueStatusView, error)
}

type EnqueueRequest struct {
	StationTypeID   uuid.UUID
	CustomerID      uuid.UUID
	DurationMinutes int
	Amount          pricing.Money
	PaymentRef      string
}

type Assignment struct {
	EntryID   uuid.UUID
	SessionID uuid.UUID
	StationID uuid.UUID
}

type PromotionResult struct {
	Assigned []Assignment
}

type waitlistUseCaseImpl struct {
	*Dependencies
}

func NewWaitlistCommands(deps *Dependencies) WaitlistCommands {
	return &waitlistUseCaseImpl{Dependencies: deps}
}

func (uc *waitlistUseCaseImpl) Enqueue(ctx context.Context, req EnqueueRequest) (*queries.QueueStatusView, error) {
	if req.PaymentRef == "" {
		return nil, ErrMissingPaymentRef
	}
	lock, err := acquireLock(ctx, uc.Locker, uc.Logger, allocationLockKey(req.StationTypeID), uc.Booking.LockTTL, uc.Booking.PromotionLockWait)
	if err != nil {
		return nil, err
	}
	defer lock.release(ctx)

	var (
		view   *queries.QueueStatusView
		events []shared.Event
	)
	err = uc.UoW.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		events = nil
		typ, err := tx.StationTypes().FindByID(ctx, req.StationTypeID)
		if err != nil {
			return notFoundAs(err, ErrStationTypeNotFound)
		}
		if !typ.Enabled() {
			return reservation.ErrActivityDisabled
		}
		now := uc.Clock.Now()
		free, err := findFreeStation(ctx, tx, typ.ID(), nil, now, now.Add(time.Duration(req.DurationMinutes)*time.Minute), now, true, uuid.Nil)
		if err != nil {
			return err
		}
		if free != nil {
			return ErrBookDirectly
		}

		entry, line, err := uc.enqueueInTx(ctx, tx, waitlist.Request{
			StationTypeID:   typ.ID(),
			CustomerID:      req.CustomerID,
			DurationMinutes: req.DurationMinutes,
			Amount:          req.Amount,
			PaymentRef:      req.PaymentRef,
		}, now)
		if err != nil {
			return err
		}
		view = queries.NewQueueStatusView(entry, line, uc.Queue.TurnoverMinutes)
		events = append(events, event(shared.EventQueueUpdated, now, queuePayload(typ.ID(), entry, len(line))))
		return nil
	})
	if err != nil {
		return nil, err
	}
	emit(ctx, uc.Publisher, uc.Logger, events)
	return view, nil
}

// enqueueInTx appends an entry at max(position)+1 and returns it with the
// updated line.
func (d *Dependencies) enqueueInTx(ctx context.Context, tx shared.Tx, req waitlist.Request, now time.Time) (*waitlist.Entry, []*waitlist.Entry, error) {
	line, err := tx.Waitlist().ListInLine(ctx, req.StationTypeID)
	if err != nil {
		return nil, nil, errs.Wrap(err, "list queue")
	}
	entry, err := waitlist.NewEntry(req, waitlist.NextPosition(line), now)
	if err != nil {
		return nil, nil, err
	}
	if err := tx.Waitlist().Create(ctx, entry); err != nil {
		return nil, nil, errs.Wrap(err, "create queue entry")
	}
	return entry, append(line, entry), nil
}

// Promote keeps assigning the queue head while stations are free. All
// promotions of one type run under the type's allocation lock.
func (uc *waitlistUseCaseImpl) Promote(ctx context.Context, typeID uuid.UUID) (*PromotionResult, error) {
	lock, err := acquireLock(ctx, uc.Locker, uc.Logger, allocationLockKey(typeID), uc.Booking.LockTTL, uc.Booking.PromotionLockWait)
	if err != nil {
		return nil, err
	}
	defer lock.release(ctx)

	result := &PromotionResult{}
	for {
		assigned, err := uc.promoteHead(ctx, typeID)
		if err != nil {
			return result, err
		}
		if assigned == nil {
			return result, nil
		}
		result.Assigned = append(result.Assigned, *assigned)
	}
}

// promoteHead claims the head (waiting -> processing), grants it in a second
// transaction and, if that fails, puts the entry back to waiting so the next
// trigger retries it.
func (uc *waitlistUseCaseImpl) promoteHead(ctx context.Context, typeID uuid.UUID) (*Assignment, error) {
	var entryID uuid.UUID
	err := uc.UoW.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entryID = uuid.Nil
		line, err := tx.Waitlist().ListInLine(ctx, typeID)
		if err != nil {
			return errs.Wrap(err, "list queue")
		}
		head := waitlist.Head(line)
		if head == nil {
			return nil
		}
		now := uc.Clock.Now()
		free, err := findFreeStation(ctx, tx, typeID, nil, now, now.Add(time.Duration(head.DurationMinutes())*time.Minute), now, true, uuid.Nil)
		if err != nil || free == nil {
			return err
		}
		if err := head.MarkProcessing(now); err != nil {
			return err
		}
		if err := tx.Waitlist().Update(ctx, head); err != nil {
			return err
		}
		entryID = head.ID()
		return nil
	})
	if err != nil || entryID == uuid.Nil {
		return nil, err
	}

	var (
		assigned *Assignment
		events   []shared.Event
	)
	err = uc.UoW.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		events = nil
		a, evs, err := uc.assignEntry(ctx, tx, typeID, entryID)
		assigned, events = a, evs
		return err
	})
	if err == nil {
		emit(ctx, uc.Publisher, uc.Logger, events)
		return assigned, nil
	}

	if revertErr := uc.revertEntry(ctx, entryID); revertErr != nil {
		uc.Logger.Error("queue entry stuck in processing", "entry_id", entryID, "error", revertErr)
		return nil, errs.Mark(errs.Wrap(revertErr, "revert queue entry"), errs.ErrPromotionRollback)
	}
	uc.Logger.Error("queue promotion rolled back", "entry_id", entryID, "station_type_id", typeID, "error", err)
	return nil, errs.Mark(errs.Wrap(err, "promote queue head"), errs.ErrPromotionRollback)
}

func (uc *waitlistUseCaseImpl) assignEntry(ctx context.Context, tx shared.Tx, typeID, entryID uuid.UUID) (*Assignment, []shared.Event, error) {
	entry, err := tx.Waitlist().FindByID(ctx, entryID)
	if err != nil {
		return nil, nil, notFoundAs(err, ErrQueueEntryNotFound)
	}
	typ, err := tx.StationTypes().FindByID(ctx, typeID)
	if err != nil {
		return nil, nil, notFoundAs(err, ErrStationTypeNotFound)
	}
	now := uc.Clock.Now()
	end := now.Add(time.Duration(entry.DurationMinutes()) * time.Minute)

	var exclude uuid.UUID
	var preferred *uuid.UUID
	var res *reservation.Reservation
	if rid := entry.ReservationID(); rid != nil {
		res, err = tx.Reservations().FindByID(ctx, *rid)
		if err != nil {
			return nil, nil, notFoundAs(err, ErrReservationNotFound)
		}
		exclude = res.ID()
		preferred = res.StationID()
	}

	st, err := findFreeStation(ctx, tx, typeID, preferred, now, end, now, true, exclude)
	if err != nil {
		return nil, nil, err
	}
	if st == nil {
		return nil, nil, ErrNoInstanceAvailable
	}

	var (
		sess   *session.Session
		events []shared.Event
	)
	if res != nil {
		granted, err := uc.grantReservation(ctx, tx, res, typ, st, entry.PaymentRef(), res.PaymentMethod(), true, now)
		if err != nil {
			return nil, nil, err
		}
		sess, events = granted.session, granted.events
	} else {
		eid := entry.ID()
		sess, err = session.NewActive(session.Grant{
			StationID:       st.ID(),
			StationTypeID:   typeID,
			CustomerID:      entry.CustomerID(),
			QueueEntryID:    &eid,
			RatePlan:        typ.RatePlan(),
			DurationMinutes: entry.DurationMinutes(),
			BaseAmount:      entry.Amount(),
			PaymentRef:      entry.PaymentRef(),
		}, now)
		if err != nil {
			return nil, nil, err
		}
		if err := occupy(ctx, tx, st.ID(), now); err != nil {
			return nil, nil, err
		}
		if err := tx.Sessions().Create(ctx, sess); err != nil {
			return nil, nil, errs.Wrap(err, "create session")
		}
		events = append(events, event(shared.EventSessionStarted, now, sessionPayload(sess, "")))
	}

	if err := entry.Assign(sess.ID(), now); err != nil {
		return nil, nil, err
	}
	if err := tx.Waitlist().Update(ctx, entry); err != nil {
		return nil, nil, err
	}
	waiting, err := compactLine(ctx, tx, typeID, now)
	if err != nil {
		return nil, nil, err
	}

	stationID := st.ID()
	assigned := queuePayload(typeID, entry, waiting)
	assigned.StationID = &stationID
	events = append(events,
		event(shared.EventQueueAssigned, now, assigned),
		event(shared.EventQueueUpdated, now, queuePayload(typeID, nil, waiting)),
	)
	return &Assignment{EntryID: entry.ID(), SessionID: sess.ID(), StationID: st.ID()}, events, nil
}

func (uc *waitlistUseCaseImpl) revertEntry(ctx context.Context, entryID uuid.UUID) error {
	return withVersionRetry(uc.Booking.TransitionRetries, func() error {
		return uc.UoW.Within(context.WithoutCancel(ctx), func(ctx context.Context, tx shared.Tx) error {
			entry, err := tx.Waitlist().FindByID(ctx, entryID)
			if err != nil {
				return err
			}
			if entry.Status() != waitlist.StatusProcessing {
				return nil
			}
			if err := entry.RevertToWaiting(uc.Clock.Now()); err != nil {
				return err
			}
			return tx.Waitlist().Update(ctx, entry)
		})
	})
}

// CancelEntry takes the entry out of line under the type's allocation lock, so
// the renumbering never interleaves with a promotion.
func (uc *waitlistUseCaseImpl) CancelEntry(ctx context.Context, entryID uuid.UUID, actor user.Actor) (*queries.QueueStatusView, error) {
	var typeID uuid.UUID
	err := uc.UoW.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		entry, err := tx.Waitlist().FindByID(ctx, entryID)
		if err != nil {
			return notFoundAs(err, ErrQueueEntryNotFound)
		}
		typeID = entry.StationTypeID()
		return nil
	})
	if err != nil {
		return nil, err
	}

	view, released, err := uc.cancelEntry(ctx, typeID, entryID, actor)
	if err != nil {
		return nil, err
	}
	if released {
		promoteAfterRelease(ctx, uc, uc.Logger, typeID)
	}
	return view, nil
}

func (uc *waitlistUseCaseImpl) cancelEntry(ctx context.Context, typeID, entryID uuid.UUID, actor user.Actor) (*queries.QueueStatusView, bool, error) {
	lock, err := acquireLock(ctx, uc.Locker, uc.Logger, allocationLockKey(typeID), uc.Booking.LockTTL, uc.Booking.PromotionLockWait)
	if err != nil {
		return nil, false, err
	}
	defer lock.release(ctx)

	var (
		view     *queries.QueueStatusView
		events   []shared.Event
		released bool
	)
	err = withVersionRetry(uc.Booking.TransitionRetries, func() error {
		return uc.UoW.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			events, released = nil, false
			entry, err := tx.Waitlist().FindByID(ctx, entryID)
			if err != nil {
				return notFoundAs(err, ErrQueueEntryNotFound)
			}
			if !actor.CanActFor(entry.CustomerID()) {
				return ErrNotOwner
			}
			now := uc.Clock.Now()
			ev, err := cancelEntryInTx(ctx, tx, entry, now)
			if err != nil {
				return err
			}
			if rid := entry.ReservationID(); rid != nil {
				res, err := tx.Reservations().FindByID(ctx, *rid)
				if err != nil {
					return notFoundAs(err, ErrReservationNotFound)
				}
				released = holdsStation(res, now)
				if err := res.Cancel(now); err != nil {
					return err
				}
				if err := tx.Reservations().Update(ctx, res); err != nil {
					return err
				}
			}
			view = queries.NewQueueStatusView(entry, nil, uc.Queue.TurnoverMinutes)
			events = append(events, ev)
			return nil
		})
	})
	if err != nil {
		return nil, false, err
	}
	emit(ctx, uc.Publisher, uc.Logger, events)
	return view, released, nil
}

// cancelEntryInTx takes the entry out of line and closes the gap behind it.
func cancelEntryInTx(ctx context.Context, tx shared.Tx, entry *waitlist.Entry, now time.Time) (shared.Event, error) {
	if err := entry.Cancel(now); err != nil {
		return shared.Event{}, err
	}
	if err := tx.Waitlist().Update(ctx, entry); err != nil {
		return shared.Event{}, err
	}
	waiting, err := compactLine(ctx, tx, entry.StationTypeID(), now)
	if err != nil {
		return shared.Event{}, err
	}
	return event(shared.EventQueueUpdated, now, queuePayload(entry.StationTypeID(), entry, waiting)), nil
}
