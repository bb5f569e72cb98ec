package shared

import (
	"context"
	"time"
)

// Locker is a distributed mutex with TTL-based auto-release. Acquire is atomic:
// at most one owner token holds a key at a time. Release by a non-owner is a no-op.
type Locker interface {
	Acquire(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key, token string) error
}
