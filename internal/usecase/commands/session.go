package commands

import (
	"context"
	"time"

	"gamezone-booking/internal/domain/session"
	"gamezone-booking/internal/domain/user"
	"gamezone-booking/internal/pkg/errs"
	"gamezone-booking/internal/usecase/queries"
	"gamezone-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=session.go -destination=../../../tests/mock/commands/session.go -package=commandsmock

type ExtendResult struct {
	Session *queries.SessionView
	// Charge is billed as its own payment, separate from the running total.
	Charge int64
}

type SessionCommands interface {
	StartSession(ctx context.Context, id uuid.UUID, actor user.Actor) (*queries.SessionView, error)
	PauseSession(ctx context.Context, id uuid.UUID, reason string, actor user.Actor) (*queries.SessionView, error)
	ResumeSession(ctx context.Context, id uuid.UUID, actor user.Actor) (*queries.SessionView, error)
	ExtendSession(ctx context.Context, id uuid.UUID, additionalMinutes int, actor user.Actor) (*ExtendResult, error)
	EndSession(ctx context.Context, id uuid.UUID, actor user.Actor) (*queries.SessionView, error)
	CancelSession(ctx context.Context, id uuid.UUID, actor user.Actor) (*queries.SessionView, error)
	SelectWinner(ctx context.Context, id, winnerID uuid.UUID, actor user.Actor) (*queries.SessionView, error)
}

type sessionUseCaseImpl struct {
	*Dependencies
	promoter Promoter
}

func NewSessionCommands(deps *Dependencies, promoter Promoter) SessionCommands {
	return &sessionUseCaseImpl{Dependencies: deps, promoter: promoter}
}

type transitionFunc func(ctx context.Context, tx shared.Tx, sess *session.Session, now time.Time) ([]shared.Event, error)

// transition is the atomic read-modify-write every lifecycle call goes through.
// The versioned update rejects a concurrent writer and the whole step is rerun
// on a fresh read.
func (uc *sessionUseCaseImpl) transition(ctx context.Context, id uuid.UUID, actor user.Actor, fn transitionFunc) (*session.Session, error) {
	var (
		result *session.Session
		events []shared.Event
	)
	err := withVersionRetry(uc.Booking.TransitionRetries, func() error {
		return uc.UoW.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			events = nil
			sess, err := tx.Sessions().FindByID(ctx, id)
			if err != nil {
				return notFoundAs(err, ErrSessionNotFound)
			}
			if !actor.CanActFor(sess.CustomerID()) {
				return ErrNotOwner
			}
			evs, err := fn(ctx, tx, sess, uc.Clock.Now())
			if err != nil {
				return err
			}
			if err := tx.Sessions().Update(ctx, sess); err != nil {
				return err
			}
			result, events = sess, evs
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	emit(ctx, uc.Publisher, uc.Logger, events)
	return result, nil
}

func (uc *sessionUseCaseImpl) StartSession(ctx context.Context, id uuid.UUID, actor user.Actor) (*queries.SessionView, error) {
	sess, err := uc.transition(ctx, id, actor, func(ctx context.Context, tx shared.Tx, sess *session.Session, now time.Time) ([]shared.Event, error) {
		if err := sess.Start(now); err != nil {
			return nil, err
		}
		if err := occupy(ctx, tx, sess.StationID(), now); err != nil {
			return nil, err
		}
		return []shared.Event{event(shared.EventSessionStarted, now, sessionPayload(sess, actor.Label()))}, nil
	})
	if err != nil {
		return nil, err
	}
	return queries.NewSessionView(sess), nil
}

func (uc *sessionUseCaseImpl) PauseSession(ctx context.Context, id uuid.UUID, reason string, actor user.Actor) (*queries.SessionView, error) {
	sess, err := uc.transition(ctx, id, actor, func(_ context.Context, _ shared.Tx, sess *session.Session, now time.Time) ([]shared.Event, error) {
		if err := sess.Pause(reason, actor, now); err != nil {
			return nil, err
		}
		payload := sessionPayload(sess, actor.Label())
		payload.Reason = reason
		return []shared.Event{event(shared.EventSessionPaused, now, payload)}, nil
	})
	if err != nil {
		return nil, err
	}
	return queries.NewSessionView(sess), nil
}

func (uc *sessionUseCaseImpl) ResumeSession(ctx context.Context, id uuid.UUID, actor user.Actor) (*queries.SessionView, error) {
	sess, err := uc.transition(ctx, id, actor, func(_ context.Context, _ shared.Tx, sess *session.Session, now time.Time) ([]shared.Event, error) {
		paused, err := sess.Resume(now)
		if err != nil {
			return nil, err
		}
		payload := sessionPayload(sess, actor.Label())
		payload.PausedMinutes = paused
		return []shared.Event{event(shared.EventSessionResumed, now, payload)}, nil
	})
	if err != nil {
		return nil, err
	}
	return queries.NewSessionView(sess), nil
}

// ExtendSession prices the extra time at the current peak status. The added
// window must not run into another booking on the same station.
func (uc *sessionUseCaseImpl) ExtendSession(ctx context.Context, id uuid.UUID, additionalMinutes int, actor user.Actor) (*ExtendResult, error) {
	var charge int64
	sess, err := uc.transition(ctx, id, actor, func(ctx context.Context, tx shared.Tx, sess *session.Session, now time.Time) ([]shared.Event, error) {
		if additionalMinutes >= 1 && sess.Status() == session.StatusActive {
			if err := uc.ensureExtensionFree(ctx, tx, sess, additionalMinutes, now); err != nil {
				return nil, err
			}
		}
		c, err := sess.Extend(additionalMinutes, uc.Calculator, uc.PeakPolicy.IsPeak(now), now)
		if err != nil {
			return nil, err
		}
		charge = c.Units()
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return &ExtendResult{Session: queries.NewSessionView(sess), Charge: charge}, nil
}

func (uc *sessionUseCaseImpl) ensureExtensionFree(ctx context.Context, tx shared.Tx, sess *session.Session, additionalMinutes int, now time.Time) error {
	from := sess.EndTime()
	to := from.Add(time.Duration(additionalMinutes) * time.Minute)
	var own uuid.UUID
	if rid := sess.ReservationID(); rid != nil {
		own = *rid
	}
	held, err := tx.Reservations().FindOverlapping(ctx, sess.StationID(), from, to)
	if err != nil {
		return errs.Wrap(err, "find overlapping reservations")
	}
	for _, r := range held {
		if r.ID() != own && r.HoldsSlotAt(now) {
			return ErrSlotTaken
		}
	}
	others, err := tx.Sessions().FindOverlapping(ctx, sess.StationID(), from, to)
	if err != nil {
		return errs.Wrap(err, "find overlapping sessions")
	}
	for _, o := range others {
		if o.ID() != sess.ID() {
			return ErrSlotTaken
		}
	}
	return nil
}

// EndSession settles the session and frees its station. The queue is promoted
// after the commit; a failed promotion is logged and does not fail the end.
func (uc *sessionUseCaseImpl) EndSession(ctx context.Context, id uuid.UUID, actor user.Actor) (*queries.SessionView, error) {
	sess, err := uc.transition(ctx, id, actor, func(ctx context.Context, tx shared.Tx, sess *session.Session, now time.Time) ([]shared.Event, error) {
		settlement, err := sess.End(uc.Calculator, uc.PeakPolicy, now)
		if err != nil {
			return nil, err
		}
		if settlement.ReleasedStation {
			if err := releaseStation(ctx, tx, sess.StationID(), now); err != nil {
				return nil, err
			}
		}
		payload := sessionPayload(sess, actor.Label())
		payload.UsageMinutes = settlement.UsageMinutes
		if settlement.FinalAmount != nil {
			v := settlement.FinalAmount.Units()
			payload.FinalAmount = &v
		}
		return []shared.Event{event(shared.EventSessionEnded, now, payload)}, nil
	})
	if err != nil {
		return nil, err
	}
	promoteAfterRelease(ctx, uc.promoter, uc.Logger, sess.StationTypeID())
	return queries.NewSessionView(sess), nil
}

func (uc *sessionUseCaseImpl) CancelSession(ctx context.Context, id uuid.UUID, actor user.Actor) (*queries.SessionView, error) {
	var released bool
	sess, err := uc.transition(ctx, id, actor, func(ctx context.Context, tx shared.Tx, sess *session.Session, now time.Time) ([]shared.Event, error) {
		held, err := sess.Cancel(now)
		if err != nil {
			return nil, err
		}
		released = held
		if held {
			if err := releaseStation(ctx, tx, sess.StationID(), now); err != nil {
				return nil, err
			}
		}
		return []shared.Event{event(shared.EventSessionEnded, now, sessionPayload(sess, actor.Label()))}, nil
	})
	if err != nil {
		return nil, err
	}
	if released {
		promoteAfterRelease(ctx, uc.promoter, uc.Logger, sess.StationTypeID())
	}
	return queries.NewSessionView(sess), nil
}

func (uc *sessionUseCaseImpl) SelectWinner(ctx context.Context, id, winnerID uuid.UUID, actor user.Actor) (*queries.SessionView, error) {
	sess, err := uc.transition(ctx, id, actor, func(_ context.Context, _ shared.Tx, sess *session.Session, now time.Time) ([]shared.Event, error) {
		if err := sess.SelectWinner(winnerID, now); err != nil {
			return nil, err
		}
		payload := sessionPayload(sess, actor.Label())
		payload.WinnerID = sess.WinnerID()
		if f := sess.FinalAmount(); f != nil {
			v := f.Units()
			payload.FinalAmount = &v
		}
		return []shared.Event{event(shared.EventWinnerSelected, now, payload)}, nil
	})
	if err != nil {
		return nil, err
	}
	return queries.NewSessionView(sess), nil
}
