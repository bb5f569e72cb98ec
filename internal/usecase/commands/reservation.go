package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"gamezone-booking/internal/domain/reservation"
	"gamezone-booking/internal/domain/station"
	"gamezone-booking/internal/domain/user"
	"gamezone-booking/internal/domain/waitlist"
	"gamezone-booking/internal/infra"
	"gamezone-booking/internal/pkg/config"
	"gamezone-booking/internal/pkg/errs"
	"gamezone-booking/internal/usecase/queries"
	"gamezone-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=reservation.go -destination=../../../tests/mock/commands/reservation.go -package=commandsmock

const (
	idempotencyTTL      = 24 * time.Hour
	createEndpoint      = "POST /api/reservations"
	expireSweepPageSize = 500
)

type CreateReservationRequest struct {
	StationTypeID   uuid.UUID        `json:"station_type_id"`
	StationID       *uuid.UUID       `json:"station_id,omitempty"`
	StartTime       time.Time        `json:"start_time"`
	DurationMinutes int              `json:"duration_minutes"`
	Kind            reservation.Kind `json:"kind,omitempty"`
	Participants    []uuid.UUID      `json:"participants,omitempty"`
}

type CreateReservationResult struct {
	Reservation *queries.ReservationView
	IsReplayed  bool
}

type ConfirmReservationRequest struct {
	PaymentRef string
	StationID  *uuid.UUID
}

type ReservationCommands interface {
	CreateReservation(ctx context.Context, req CreateReservationRequest, actor user.Actor, idempotencyKey *uuid.UUID) (*CreateReservationResult, error)
	ConfirmReservation(ctx context.Context, id uuid.UUID, req ConfirmReservationRequest) (*DispatchResult, error)
	CancelReservation(ctx context.Context, id uuid.UUID, actor user.Actor) (*queries.ReservationView, error)
	MarkOfflinePayment(ctx context.Context, id uuid.UUID, paymentRef string, actor user.Actor) (*DispatchResult, error)
	ApproveOfflinePayment(ctx context.Context, id uuid.UUID, actor user.Actor) (*DispatchResult, error)
	MarkPaymentFailed(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error)
	ExpireStale(ctx context.Context) (int, error)
}

type reservationUseCaseImpl struct {
	*Dependencies
	promoter Promoter
}

func NewReservationCommands(deps *Dependencies, promoter Promoter) ReservationCommands {
	return &reservationUseCaseImpl{Dependencies: deps, promoter: promoter}
}

func (uc *reservationUseCaseImpl) CreateReservation(
	ctx context.Context,
	req CreateReservationRequest,
	actor user.Actor,
	idempotencyKey *uuid.UUID,
) (*CreateReservationResult, error) {
	if idempotencyKey == nil {
		view, err := uc.createNewReservation(ctx, req, actor.ID, nil)
		if err != nil {
			return nil, err
		}
		return &CreateReservationResult{Reservation: view}, nil
	}

	requestHash := calculateRequestHash(req)
	existing, err := uc.handleIdempotency(ctx, *idempotencyKey, actor.ID, requestHash)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &CreateReservationResult{Reservation: existing, IsReplayed: true}, nil
	}

	view, err := uc.createNewReservation(ctx, req, actor.ID, idempotencyKey)
	if err != nil {
		uc.releaseIdempotencyKey(ctx, *idempotencyKey, actor.ID)
		return nil, err
	}
	return &CreateReservationResult{Reservation: view}, nil
}

// handleIdempotency claims the key or reports the earlier outcome for it.
func (uc *reservationUseCaseImpl) handleIdempotency(ctx context.Context, key, userID uuid.UUID, requestHash string) (*queries.ReservationView, error) {
	var view *queries.ReservationView
	err := uc.UoW.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		view = nil
		now := uc.Clock.Now()
		rec := shared.IdempotencyRecord{
			Key:         key,
			UserID:      userID,
			Endpoint:    createEndpoint,
			Status:      shared.IdempotencyProcessing,
			RequestHash: requestHash,
			ExpiresAt:   now.Add(idempotencyTTL),
		}
		err := tx.Idempotency().TryInsert(ctx, rec)
		if err == nil {
			return nil
		}
		if !infra.IsKind(err, infra.KindDuplicateKey) {
			return errs.Wrap(err, "idempotency check")
		}

		existing, err := tx.Idempotency().Get(ctx, key, userID)
		if err != nil {
			return errs.Wrap(err, "idempotency check")
		}
		if !now.Before(existing.ExpiresAt) {
			return tx.Idempotency().Reclaim(ctx, rec)
		}
		if existing.RequestHash != requestHash {
			return ErrIdempotencyMismatch
		}
		switch existing.Status {
		case shared.IdempotencyCompleted:
			if existing.ResultReservationID == nil {
				return errs.New("completed request missing result reservation ID")
			}
			res, err := tx.Reservations().FindByID(ctx, *existing.ResultReservationID)
			if err != nil {
				return notFoundAs(err, ErrReservationNotFound)
			}
			view = queries.NewReservationView(res, now)
			return nil
		case shared.IdempotencyProcessing:
			return ErrIdempotencyInProgress
		default:
			return errs.New("invalid idempotency key status")
		}
	})
	return view, err
}

func (uc *reservationUseCaseImpl) releaseIdempotencyKey(ctx context.Context, key, userID uuid.UUID) {
	err := uc.UoW.Within(context.WithoutCancel(ctx), func(ctx context.Context, tx shared.Tx) error {
		return tx.Idempotency().Release(ctx, key, userID)
	})
	if err != nil {
		uc.Logger.Warn("failed to release idempotency key", "key", key, "error", err)
	}
}

func (uc *reservationUseCaseImpl) createNewReservation(
	ctx context.Context,
	req CreateReservationRequest,
	customerID uuid.UUID,
	idempotencyKey *uuid.UUID,
) (*queries.ReservationView, error) {
	domainReq := reservation.Request{
		CustomerID:      customerID,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		Kind:            req.Kind,
		Participants:    req.Participants,
	}

	var (
		typ *station.Type
		st  *station.Station
	)
	err := uc.UoW.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		typ, st, err = uc.resolveTarget(ctx, tx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := uc.Factory.ValidateFor(typ, st, domainReq); err != nil {
		return nil, err
	}
	slot, err := reservation.SlotFor(req.StartTime, req.DurationMinutes)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	if st != nil {
		lock, err := acquireLock(ctx, uc.Locker, uc.Logger, bookingLockKey(typ.ID(), st.ID(), slot), uc.Booking.LockTTL, uc.Booking.LockWait)
		if err != nil {
			return nil, err
		}
		defer lock.release(ctx)
	}

	var (
		view     *queries.ReservationView
		events   []shared.Event
		released bool
	)
	err = withVersionRetry(uc.Booking.TransitionRetries, func() error {
		return uc.UoW.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			events, released = nil, false
			typ, st, err := uc.resolveTarget(ctx, tx, req)
			if err != nil {
				return err
			}
			now := uc.Clock.Now()
			if st != nil {
				if released, err = uc.clearWindow(ctx, tx, st.ID(), slot, now); err != nil {
					return err
				}
			}

			res, err := uc.Factory.CreateReservation(typ, st, domainReq)
			if err != nil {
				return err
			}
			if err := tx.Reservations().Create(ctx, res); err != nil {
				if infra.IsKind(err, infra.KindExclusionViolation) {
					return ErrSlotTaken
				}
				return errs.Wrap(err, "create reservation")
			}
			if idempotencyKey != nil {
				if err := tx.Idempotency().Complete(ctx, *idempotencyKey, customerID, res.ID()); err != nil {
					return errs.Wrap(err, "complete idempotency key")
				}
			}
			view = queries.NewReservationView(res, now)
			events = append(events, event(shared.EventBookingCreated, now, bookingPayload(res)))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	emit(ctx, uc.Publisher, uc.Logger, events)
	if released {
		promoteAfterRelease(ctx, uc.promoter, uc.Logger, req.StationTypeID)
	}
	return view, nil
}

// resolveTarget loads the type and, when requested, the station, which must be
// available at booking time.
func (uc *reservationUseCaseImpl) resolveTarget(ctx context.Context, tx shared.Tx, req CreateReservationRequest) (*station.Type, *station.Station, error) {
	typ, err := tx.StationTypes().FindByID(ctx, req.StationTypeID)
	if err != nil {
		return nil, nil, notFoundAs(err, ErrStationTypeNotFound)
	}
	if req.StationID == nil {
		return typ, nil, nil
	}
	st, err := tx.Stations().FindByID(ctx, *req.StationID)
	if err != nil {
		return nil, nil, notFoundAs(err, ErrStationNotFound)
	}
	if !st.IsAvailable() {
		return nil, nil, ErrUnitUnavailable
	}
	return typ, st, nil
}

// clearWindow is the conflict check run inside the booking lock. Unpaid holds
// past their deadline are expired on the spot instead of blocking the slot;
// released reports whether any was.
func (uc *reservationUseCaseImpl) clearWindow(ctx context.Context, tx shared.Tx, stationID uuid.UUID, slot reservation.TimeSlot, now time.Time) (released bool, err error) {
	existing, err := tx.Reservations().FindOverlapping(ctx, stationID, slot.Start(), slot.End())
	if err != nil {
		return false, errs.Wrap(err, "find overlapping reservations")
	}
	for _, r := range existing {
		if r.IsExpiredAt(now) {
			if err := r.Expire(now); err != nil {
				return false, err
			}
			if err := tx.Reservations().Update(ctx, r); err != nil {
				return false, err
			}
			released = true
			continue
		}
		if r.HoldsSlotAt(now) {
			return false, ErrSlotTaken
		}
	}
	sessions, err := tx.Sessions().FindOverlapping(ctx, stationID, slot.Start(), slot.End())
	if err != nil {
		return false, errs.Wrap(err, "find overlapping sessions")
	}
	if len(sessions) > 0 {
		return false, ErrSlotTaken
	}
	return released, nil
}

func (uc *reservationUseCaseImpl) ConfirmReservation(ctx context.Context, id uuid.UUID, req ConfirmReservationRequest) (*DispatchResult, error) {
	if req.PaymentRef == "" {
		return nil, ErrMissingPaymentRef
	}
	return uc.dispatchPaid(ctx, dispatchRequest{
		reservationID: id,
		paymentRef:    req.PaymentRef,
		method:        reservation.PaymentOnline,
		stationID:     req.StationID,
	})
}

// CancelReservation gives the slot back. A station-bound hold that still
// blocked its station wakes the queue of the type afterwards.
func (uc *reservationUseCaseImpl) CancelReservation(ctx context.Context, id uuid.UUID, actor user.Actor) (*queries.ReservationView, error) {
	view, released, err := uc.cancelReservation(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if released {
		promoteAfterRelease(ctx, uc.promoter, uc.Logger, view.StationTypeID)
	}
	return view, nil
}

// cancelReservation runs under the type's allocation lock because leaving the
// queue renumbers the line.
func (uc *reservationUseCaseImpl) cancelReservation(ctx context.Context, id uuid.UUID, actor user.Actor) (*queries.ReservationView, bool, error) {
	var typeID uuid.UUID
	err := uc.UoW.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := tx.Reservations().FindByID(ctx, id)
		if err != nil {
			return notFoundAs(err, ErrReservationNotFound)
		}
		typeID = res.StationTypeID()
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	lock, err := acquireLock(ctx, uc.Locker, uc.Logger, allocationLockKey(typeID), uc.Booking.LockTTL, uc.Booking.PromotionLockWait)
	if err != nil {
		return nil, false, err
	}
	defer lock.release(ctx)

	var (
		view     *queries.ReservationView
		events   []shared.Event
		released bool
	)
	err = withVersionRetry(uc.Booking.TransitionRetries, func() error {
		return uc.UoW.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			events, released = nil, false
			res, err := tx.Reservations().FindByID(ctx, id)
			if err != nil {
				return notFoundAs(err, ErrReservationNotFound)
			}
			if !actor.CanActFor(res.CustomerID()) {
				return ErrNotOwner
			}
			now := uc.Clock.Now()
			held := holdsStation(res, now)
			if err := res.Cancel(now); err != nil {
				return err
			}
			if eid := res.QueueEntryID(); eid != nil {
				entry, err := tx.Waitlist().FindByID(ctx, *eid)
				if err != nil {
					return notFoundAs(err, ErrQueueEntryNotFound)
				}
				ev, err := cancelEntryInTx(ctx, tx, entry, now)
				if err != nil {
					return err
				}
				events = append(events, ev)
			}
			if err := tx.Reservations().Update(ctx, res); err != nil {
				return err
			}
			view = queries.NewReservationView(res, now)
			released = held
			return nil
		})
	})
	if err != nil {
		return nil, false, err
	}
	emit(ctx, uc.Publisher, uc.Logger, events)
	return view, released, nil
}

// holdsStation: the reservation currently keeps a concrete station from the queue.
func holdsStation(res *reservation.Reservation, now time.Time) bool {
	return res.StationID() != nil && res.HoldsSlotAt(now)
}

// MarkOfflinePayment records a cash payment. Depending on the deployment's
// policy it confirms straight away or parks the reservation for approval.
func (uc *reservationUseCaseImpl) MarkOfflinePayment(ctx context.Context, id uuid.UUID, paymentRef string, actor user.Actor) (*DispatchResult, error) {
	if paymentRef == "" {
		return nil, ErrMissingPaymentRef
	}
	owned := func(res *reservation.Reservation) error {
		if !actor.CanActFor(res.CustomerID()) {
			return ErrNotOwner
		}
		return nil
	}

	if uc.Booking.OfflinePaymentPolicy == config.OfflinePolicyAutoConfirm {
		return uc.dispatchPaid(ctx, dispatchRequest{
			reservationID: id,
			paymentRef:    paymentRef,
			method:        reservation.PaymentOffline,
			enqueue:       true,
			check:         owned,
		})
	}

	var view *queries.ReservationView
	err := withVersionRetry(uc.Booking.TransitionRetries, func() error {
		return uc.UoW.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			res, err := tx.Reservations().FindByID(ctx, id)
			if err != nil {
				return notFoundAs(err, ErrReservationNotFound)
			}
			if err := owned(res); err != nil {
				return err
			}
			now := uc.Clock.Now()
			if err := res.AwaitApproval(paymentRef, now); err != nil {
				return err
			}
			if err := tx.Reservations().Update(ctx, res); err != nil {
				return err
			}
			view = queries.NewReservationView(res, now)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &DispatchResult{Reservation: view}, nil
}

// ApproveOfflinePayment releases a reservation parked in pending_approval
// exactly like a verified online payment would.
func (uc *reservationUseCaseImpl) ApproveOfflinePayment(ctx context.Context, id uuid.UUID, actor user.Actor) (*DispatchResult, error) {
	if uc.Booking.OfflinePaymentPolicy != config.OfflinePolicyRequireApproval {
		return nil, ErrApprovalDisabled
	}
	if !actor.Role.IsOperator() {
		return nil, ErrNotOwner
	}
	return uc.dispatchPaid(ctx, dispatchRequest{
		reservationID: id,
		method:        reservation.PaymentOffline,
		enqueue:       true,
		check: func(res *reservation.Reservation) error {
			if res.Status() != reservation.StatusPendingApproval {
				return ErrNotAwaitingApproval
			}
			return nil
		},
	})
}

func (uc *reservationUseCaseImpl) MarkPaymentFailed(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	var (
		view     *queries.ReservationView
		released bool
	)
	err := withVersionRetry(uc.Booking.TransitionRetries, func() error {
		return uc.UoW.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			released = false
			res, err := tx.Reservations().FindByID(ctx, id)
			if err != nil {
				return notFoundAs(err, ErrReservationNotFound)
			}
			now := uc.Clock.Now()
			held := holdsStation(res, now)
			if err := res.MarkPaymentFailed(now); err != nil {
				return err
			}
			if err := tx.Reservations().Update(ctx, res); err != nil {
				return err
			}
			view = queries.NewReservationView(res, now)
			released = held
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if released {
		promoteAfterRelease(ctx, uc.promoter, uc.Logger, view.StationTypeID)
	}
	return view, nil
}

// ExpireStale persists the expiry of unpaid holds past their deadline and drops
// queue entries that waited longer than Queue.MaxWait. Readers already treat
// lapsed holds as expired; the sweep makes it durable and hands the stations
// they blocked to the queue.
func (uc *reservationUseCaseImpl) ExpireStale(ctx context.Context) (int, error) {
	freed := make(map[uuid.UUID]struct{})
	total := 0
	var sweepErr error
	for {
		var released []uuid.UUID
		expired := 0
		err := uc.UoW.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			released, expired = nil, 0
			now := uc.Clock.Now()
			stale, err := tx.Reservations().ListExpired(ctx, now, expireSweepPageSize)
			if err != nil {
				return errs.Wrap(err, "list expired reservations")
			}
			for _, r := range stale {
				if err := r.Expire(now); err != nil {
					continue
				}
				if err := tx.Reservations().Update(ctx, r); err != nil {
					return err
				}
				if r.StationID() != nil {
					released = append(released, r.StationTypeID())
				}
				expired++
			}
			return nil
		})
		if err != nil {
			sweepErr = err
			break
		}
		total += expired
		for _, typeID := range released {
			freed[typeID] = struct{}{}
		}
		if expired < expireSweepPageSize {
			break
		}
	}

	if sweepErr == nil {
		dropped, err := uc.expireOverdueEntries(ctx)
		total += dropped
		sweepErr = err
	}
	for typeID := range freed {
		promoteAfterRelease(ctx, uc.promoter, uc.Logger, typeID)
	}
	return total, sweepErr
}

// expireOverdueEntries drops waiting entries older than Queue.MaxWait, one
// station type at a time under its allocation lock.
func (uc *reservationUseCaseImpl) expireOverdueEntries(ctx context.Context) (int, error) {
	if uc.Queue.MaxWait <= 0 {
		return 0, nil
	}
	var overdue []*waitlist.Entry
	err := uc.UoW.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		overdue, err = tx.Waitlist().ListOverdue(ctx, uc.Clock.Now().Add(-uc.Queue.MaxWait), expireSweepPageSize)
		return err
	})
	if err != nil {
		return 0, errs.Wrap(err, "list overdue queue entries")
	}

	byType := make(map[uuid.UUID][]uuid.UUID)
	var types []uuid.UUID
	for _, e := range overdue {
		if _, ok := byType[e.StationTypeID()]; !ok {
			types = append(types, e.StationTypeID())
		}
		byType[e.StationTypeID()] = append(byType[e.StationTypeID()], e.ID())
	}

	total := 0
	for _, typeID := range types {
		n, err := uc.expireEntries(ctx, typeID, byType[typeID])
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (uc *reservationUseCaseImpl) expireEntries(ctx context.Context, typeID uuid.UUID, ids []uuid.UUID) (int, error) {
	lock, err := acquireLock(ctx, uc.Locker, uc.Logger, allocationLockKey(typeID), uc.Booking.LockTTL, uc.Booking.PromotionLockWait)
	if err != nil {
		return 0, err
	}
	defer lock.release(ctx)

	var events []shared.Event
	err = withVersionRetry(uc.Booking.TransitionRetries, func() error {
		return uc.UoW.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			events = nil
			var gone []*waitlist.Entry
			now := uc.Clock.Now()
			for _, id := range ids {
				entry, err := tx.Waitlist().FindByID(ctx, id)
				if err != nil {
					return notFoundAs(err, ErrQueueEntryNotFound)
				}
				// Promoted or cancelled since it was listed.
				if err := entry.Expire(uc.Queue.MaxWait, now); err != nil {
					continue
				}
				if err := tx.Waitlist().Update(ctx, entry); err != nil {
					return err
				}
				if rid := entry.ReservationID(); rid != nil {
					res, err := tx.Reservations().FindByID(ctx, *rid)
					if err != nil {
						return notFoundAs(err, ErrReservationNotFound)
					}
					if err := res.Cancel(now); err != nil {
						return err
					}
					if err := tx.Reservations().Update(ctx, res); err != nil {
						return err
					}
				}
				gone = append(gone, entry)
			}
			if len(gone) == 0 {
				return nil
			}
			waiting, err := compactLine(ctx, tx, typeID, now)
			if err != nil {
				return err
			}
			for _, entry := range gone {
				events = append(events, event(shared.EventQueueUpdated, now, queuePayload(typeID, entry, waiting)))
			}
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	if len(events) > 0 {
		uc.Logger.Info("expired overdue queue entries", "station_type_id", typeID, "count", len(events))
	}
	emit(ctx, uc.Publisher, uc.Logger, events)
	return len(events), nil
}

func calculateRequestHash(req CreateReservationRequest) string {
	data, _ := json.Marshal(req)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
