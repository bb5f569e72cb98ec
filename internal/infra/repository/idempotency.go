package repository

import (
	"context"
	"log/slog"

	"gamezone-booking/internal/infra"
	"gamezone-booking/internal/pkg/pgconv"
	"gamezone-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type IdempotencyRepository struct {
	db     DBTX
	logger *slog.Logger
}

func NewIdempotencyRepository(db DBTX, logger *slog.Logger) *IdempotencyRepository {
	return &IdempotencyRepository{db: db, logger: logger}
}

func (r *IdempotencyRepository) TryInsert(ctx context.Context, rec shared.IdempotencyRecord) error {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO idempotency_keys (key, user_id, endpoint, status, request_hash, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (key, user_id) DO NOTHING`,
		rec.Key, rec.UserID, rec.Endpoint, rec.Status, rec.RequestHash, rec.ExpiresAt)
	if err != nil {
		return wrapErr(r.logger, "failed to try insert idempotency key", err)
	}
	return expectOne(tag, infra.KindDuplicateKey, "idempotency key already used")
}

func (r *IdempotencyRepository) Get(ctx context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	var (
		rec      shared.IdempotencyRecord
		resultID pgtype.UUID
	)
	err := r.db.QueryRow(ctx, `
		SELECT key, user_id, endpoint, status, request_hash, result_reservation_id, expires_at
		FROM idempotency_keys WHERE key = $1 AND user_id = $2`, key, userID).
		Scan(&rec.Key, &rec.UserID, &rec.Endpoint, &rec.Status, &rec.RequestHash, &resultID, &rec.ExpiresAt)
	if err != nil {
		return nil, wrapErr(r.logger, "failed to get idempotency key", err)
	}
	rec.ResultReservationID = pgconv.UUIDPtrFromPgtype(resultID)
	return &rec, nil
}

func (r *IdempotencyRepository) Reclaim(ctx context.Context, rec shared.IdempotencyRecord) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE idempotency_keys SET
			endpoint = $3, status = $4, request_hash = $5, result_reservation_id = NULL, expires_at = $6
		WHERE key = $1 AND user_id = $2`,
		rec.Key, rec.UserID, rec.Endpoint, rec.Status, rec.RequestHash, rec.ExpiresAt)
	if err != nil {
		return wrapErr(r.logger, "failed to reclaim idempotency key", err)
	}
	return expectOne(tag, infra.KindNotFound, "idempotency key not found")
}

func (r *IdempotencyRepository) Complete(ctx context.Context, key, userID, reservationID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE idempotency_keys SET status = $3, result_reservation_id = $4
		WHERE key = $1 AND user_id = $2`, key, userID, shared.IdempotencyCompleted, reservationID)
	if err != nil {
		return wrapErr(r.logger, "failed to complete idempotency key", err)
	}
	return expectOne(tag, infra.KindNotFound, "idempotency key not found")
}

func (r *IdempotencyRepository) Release(ctx context.Context, key, userID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM idempotency_keys WHERE key = $1 AND user_id = $2`, key, userID); err != nil {
		return wrapErr(r.logger, "failed to release idempotency key", err)
	}
	return nil
}
