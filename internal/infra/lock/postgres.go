package lock

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gamezone-booking/internal/infra"
	"gamezone-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLocker keeps leases in the resource_locks table. A key is taken by
// inserting it, or by overwriting a row whose lease has run out; the row's
// expiry is compared with the database clock so app servers never disagree.
type PostgresLocker struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

var _ shared.Locker = (*PostgresLocker)(nil)

func NewPostgresLocker(pool *pgxpool.Pool, logger *slog.Logger) *PostgresLocker {
	return &PostgresLocker{pool: pool, logger: logger}
}

const acquireSQL = `
INSERT INTO resource_locks (lock_key, owner_token, expires_at)
VALUES ($1, $2, now() + make_interval(secs => $3))
ON CONFLICT (lock_key) DO UPDATE
	SET owner_token = EXCLUDED.owner_token, expires_at = EXCLUDED.expires_at
	WHERE resource_locks.expires_at <= now() OR resource_locks.owner_token = EXCLUDED.owner_token
RETURNING owner_token`

const releaseSQL = `DELETE FROM resource_locks WHERE lock_key = $1 AND owner_token = $2`

func (l *PostgresLocker) Acquire(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	var owner string
	err := l.pool.QueryRow(ctx, acquireSQL, key, token, ttl.Seconds()).Scan(&owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, infra.WrapRepoErr(l.logger, infra.KindDBFailure, "acquire lock "+key, err)
	}
	return owner == token, nil
}

func (l *PostgresLocker) Release(ctx context.Context, key, token string) error {
	if _, err := l.pool.Exec(ctx, releaseSQL, key, token); err != nil {
		return infra.WrapRepoErr(l.logger, infra.KindDBFailure, "release lock "+key, err)
	}
	return nil
}
