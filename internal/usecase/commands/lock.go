package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gamezone-booking/internal/domain/reservation"
	"gamezone-booking/internal/pkg/errs"
	"gamezone-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

const lockPollInterval = 25 * time.Millisecond

func bookingLockKey(typeID, stationID uuid.UUID, slot reservation.TimeSlot) string {
	return fmt.Sprintf("station-booking:%s:%s:%s", typeID, stationID, slot.NormalizedStart())
}

// allocationLockKey serializes "find free station + assign" for one station type.
func allocationLockKey(typeID uuid.UUID) string {
	return fmt.Sprintf("station-type:%s:allocation", typeID)
}

type heldLock struct {
	locker shared.Locker
	key    string
	token  string
	logger *slog.Logger
}

// acquireLock tries until wait elapses; wait <= 0 means a single attempt.
// Contention is reported as ErrLockContention, never queued behind.
func acquireLock(ctx context.Context, locker shared.Locker, logger *slog.Logger, key string, ttl, wait time.Duration) (*heldLock, error) {
	token := uuid.NewString()
	deadline := time.Now().Add(wait)
	for {
		ok, err := locker.Acquire(ctx, key, token, ttl)
		if err != nil {
			return nil, errs.Wrap(err, "acquire lock")
		}
		if ok {
			return &heldLock{locker: locker, key: key, token: token, logger: logger}, nil
		}
		if !time.Now().Before(deadline) {
			return nil, ErrLockContention
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockPollInterval):
		}
	}
}

// release runs even when the request context is gone; a failed release is
// only logged because the TTL frees the key anyway.
func (l *heldLock) release(ctx context.Context) {
	if err := l.locker.Release(context.WithoutCancel(ctx), l.key, l.token); err != nil {
		l.logger.Warn("failed to release lock", "key", l.key, "error", err)
	}
}
