package repository

import (
	"context"
	"log/slog"
	"time"

	"gamezone-booking/internal/domain/waitlist"
	"gamezone-booking/internal/infra"
	"gamezone-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type WaitlistRepository struct {
	db     DBTX
	logger *slog.Logger
}

func NewWaitlistRepository(db DBTX, logger *slog.Logger) *WaitlistRepository {
	return &WaitlistRepository{db: db, logger: logger}
}

const entryColumns = `id, station_type_id, customer_id, reservation_id, duration_minutes, amount,
	payment_ref, position, status, session_id, version, created_at, updated_at`

func (r *WaitlistRepository) Create(ctx context.Context, e *waitlist.Entry) error {
	rec := e.Record()
	_, err := r.db.Exec(ctx, `
		INSERT INTO waitlist_entries (id, station_type_id, customer_id, reservation_id, duration_minutes,
			amount, payment_ref, position, status, session_id, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		rec.ID, rec.StationTypeID, rec.CustomerID, pgconv.UUIDPtrToPgtype(rec.ReservationID),
		rec.DurationMinutes, rec.Amount, rec.PaymentRef, rec.Position, string(rec.Status),
		pgconv.UUIDPtrToPgtype(rec.SessionID), rec.Version, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return wrapErr(r.logger, "failed to create queue entry", err)
	}
	return nil
}

func (r *WaitlistRepository) FindByID(ctx context.Context, id uuid.UUID) (*waitlist.Entry, error) {
	e, err := scanEntry(r.db.QueryRow(ctx, `SELECT `+entryColumns+` FROM waitlist_entries WHERE id = $1`, id))
	if err != nil {
		return nil, wrapErr(r.logger, "failed to find queue entry", err)
	}
	return e, nil
}

func (r *WaitlistRepository) FindByReservation(ctx context.Context, reservationID uuid.UUID) (*waitlist.Entry, error) {
	e, err := scanEntry(r.db.QueryRow(ctx, `SELECT `+entryColumns+` FROM waitlist_entries WHERE reservation_id = $1`, reservationID))
	if err != nil {
		return nil, wrapErr(r.logger, "failed to find queue entry", err)
	}
	return e, nil
}

func (r *WaitlistRepository) Update(ctx context.Context, e *waitlist.Entry) error {
	rec := e.Record()
	tag, err := r.db.Exec(ctx, `
		UPDATE waitlist_entries SET
			position = $3, status = $4, session_id = $5, updated_at = $6, version = version + 1
		WHERE id = $1 AND version = $2`,
		rec.ID, rec.Version, rec.Position, string(rec.Status), pgconv.UUIDPtrToPgtype(rec.SessionID), rec.UpdatedAt)
	if err != nil {
		return wrapErr(r.logger, "failed to update queue entry", err)
	}
	return expectOne(tag, infra.KindStaleVersion, "queue entry changed concurrently")
}

func (r *WaitlistRepository) ListInLine(ctx context.Context, typeID uuid.UUID) ([]*waitlist.Entry, error) {
	return r.list(ctx, "failed to list queue", `
		SELECT `+entryColumns+` FROM waitlist_entries
		WHERE station_type_id = $1 AND status IN ('waiting', 'processing')
		ORDER BY position, created_at`, typeID)
}

func (r *WaitlistRepository) ListOverdue(ctx context.Context, cutoff time.Time, limit int) ([]*waitlist.Entry, error) {
	return r.list(ctx, "failed to list overdue queue entries", `
		SELECT `+entryColumns+` FROM waitlist_entries
		WHERE status = 'waiting' AND created_at < $1
		ORDER BY created_at
		LIMIT $2`, cutoff, limit)
}

func (r *WaitlistRepository) list(ctx context.Context, msg, query string, args ...any) ([]*waitlist.Entry, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(r.logger, msg, err)
	}
	defer rows.Close()

	var out []*waitlist.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, wrapErr(r.logger, msg, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(r.logger, msg, err)
	}
	return out, nil
}

func scanEntry(row pgx.Row) (*waitlist.Entry, error) {
	var (
		rec                      waitlist.Record
		reservationID, sessionID pgtype.UUID
		status                   string
	)
	err := row.Scan(&rec.ID, &rec.StationTypeID, &rec.CustomerID, &reservationID, &rec.DurationMinutes,
		&rec.Amount, &rec.PaymentRef, &rec.Position, &status, &sessionID, &rec.Version, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	rec.ReservationID = pgconv.UUIDPtrFromPgtype(reservationID)
	rec.SessionID = pgconv.UUIDPtrFromPgtype(sessionID)
	rec.Status = waitlist.Status(status)
	return waitlist.FromRecord(rec), nil
}
