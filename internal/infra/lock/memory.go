package lock

import (
	"context"
	"sync"
	"time"

	"gamezone-booking/internal/pkg/clock"
	"gamezone-booking/internal/usecase/shared"
)

type lease struct {
	token     string
	expiresAt time.Time
}

// MemoryLocker is a single-process Locker. Expiry is judged against the
// injected clock so tests can let a lease lapse without sleeping.
type MemoryLocker struct {
	mu     sync.Mutex
	clock  clock.Clock
	leases map[string]lease
}

var _ shared.Locker = (*MemoryLocker)(nil)

func NewMemoryLocker(clk clock.Clock) *MemoryLocker {
	return &MemoryLocker{clock: clk, leases: map[string]lease{}}
}

func (l *MemoryLocker) Acquire(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	if cur, ok := l.leases[key]; ok && now.Before(cur.expiresAt) && cur.token != token {
		return false, nil
	}
	l.leases[key] = lease{token: token, expiresAt: now.Add(ttl)}
	return true, nil
}

func (l *MemoryLocker) Release(_ context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cur, ok := l.leases[key]; ok && cur.token == token {
		delete(l.leases, key)
	}
	return nil
}
