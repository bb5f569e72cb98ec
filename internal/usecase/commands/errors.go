package commands

import (
	"gamezone-booking/internal/infra"
	"gamezone-booking/internal/pkg/errs"
)

var (
	ErrStationTypeNotFound = errs.NotFound("station type not found")
	ErrStationNotFound     = errs.NotFound("station not found")
	ErrReservationNotFound = errs.NotFound("reservation not found")
	ErrSessionNotFound     = errs.NotFound("session not found")
	ErrQueueEntryNotFound  = errs.NotFound("queue entry not found")

	ErrUnitUnavailable     = errs.Conflict("station is not available")
	ErrSlotTaken           = errs.Conflict("requested window overlaps an existing booking")
	ErrNoInstanceAvailable = errs.Conflict("no station of this type is free")
	ErrBookDirectly        = errs.Conflict("a station of this type is free, book directly instead")
	ErrStationBusy         = errs.Conflict("station has a live session")
	ErrNotAwaitingApproval = errs.Conflict("reservation is not awaiting offline approval")
	ErrApprovalDisabled    = errs.Conflict("offline payments are confirmed automatically in this deployment")
	ErrNotQueued           = errs.NotFound("reservation has no queue entry")

	ErrLockContention        = errs.Mark(errs.Conflict("slot is being booked by another request"), errs.ErrRetryable)
	ErrConcurrentUpdate      = errs.Mark(errs.Conflict("record was changed concurrently"), errs.ErrRetryable)
	ErrIdempotencyInProgress = errs.Mark(errs.Conflict("a request with this idempotency key is in progress"), errs.ErrRetryable)
	ErrIdempotencyMismatch   = errs.Conflict("idempotency key was used with a different request")

	ErrNotOwner          = errs.Forbidden("booking belongs to another customer")
	ErrUnknownEntityType = errs.Validation("unknown payment entity type")
	ErrMissingPaymentRef = errs.Validation("payment reference is required")
)

// notFoundAs maps a repository NOT_FOUND onto the caller-facing sentinel and
// wraps everything else.
func notFoundAs(err error, sentinel error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return sentinel
	}
	return errs.Wrap(err, "repository")
}
