package repository

import (
	"context"
	"log/slog"
	"time"

	"gamezone-booking/internal/domain/reservation"
	"gamezone-booking/internal/infra"
	"gamezone-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type ReservationRepository struct {
	db     DBTX
	logger *slog.Logger
}

func NewReservationRepository(db DBTX, logger *slog.Logger) *ReservationRepository {
	return &ReservationRepository{db: db, logger: logger}
}

const reservationColumns = `id, station_type_id, station_id, customer_id, lower(slot), upper(slot),
	duration_minutes, amount, peak, kind, participants::text[], status, expires_at, payment_ref,
	payment_method, session_id, queue_entry_id, version, created_at, updated_at`

func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	rec := res.Record()
	_, err := r.db.Exec(ctx, `
		INSERT INTO reservations (id, station_type_id, station_id, customer_id, slot, duration_minutes,
			amount, peak, kind, participants, status, expires_at, payment_ref, payment_method,
			session_id, queue_entry_id, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, tstzrange($5, $6, '[)'), $7, $8, $9, $10, $11::uuid[], $12, $13, $14, $15,
			$16, $17, $18, $19, $20)`,
		rec.ID, rec.StationTypeID, pgconv.UUIDPtrToPgtype(rec.StationID), rec.CustomerID, rec.StartTime, rec.EndTime,
		rec.DurationMinutes, rec.Amount, rec.Peak, string(rec.Kind), pgconv.UUIDsToStrings(rec.Participants),
		string(rec.Status), rec.ExpiresAt, rec.PaymentRef, string(rec.PaymentMethod),
		pgconv.UUIDPtrToPgtype(rec.SessionID), pgconv.UUIDPtrToPgtype(rec.QueueEntryID), rec.Version,
		rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return wrapErr(r.logger, "failed to create reservation", err)
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	res, err := scanReservation(r.db.QueryRow(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id))
	if err != nil {
		return nil, wrapErr(r.logger, "failed to find reservation", err)
	}
	return res, nil
}

func (r *ReservationRepository) Update(ctx context.Context, res *reservation.Reservation) error {
	rec := res.Record()
	tag, err := r.db.Exec(ctx, `
		UPDATE reservations SET
			station_id = $3, status = $4, expires_at = $5, payment_ref = $6, payment_method = $7,
			session_id = $8, queue_entry_id = $9, updated_at = $10, version = version + 1
		WHERE id = $1 AND version = $2`,
		rec.ID, rec.Version, pgconv.UUIDPtrToPgtype(rec.StationID), string(rec.Status), rec.ExpiresAt,
		rec.PaymentRef, string(rec.PaymentMethod), pgconv.UUIDPtrToPgtype(rec.SessionID),
		pgconv.UUIDPtrToPgtype(rec.QueueEntryID), rec.UpdatedAt)
	if err != nil {
		return wrapErr(r.logger, "failed to update reservation", err)
	}
	return expectOne(tag, infra.KindStaleVersion, "reservation changed concurrently")
}

func (r *ReservationRepository) FindOverlapping(ctx context.Context, stationID uuid.UUID, start, end time.Time) ([]*reservation.Reservation, error) {
	return r.list(ctx, "failed to find overlapping reservations", `
		SELECT `+reservationColumns+` FROM reservations
		WHERE station_id = $1
			AND status IN ('pending_payment', 'pending_approval', 'payment_confirmed')
			AND slot && tstzrange($2, $3, '[)')
		ORDER BY lower(slot)`, stationID, start, end)
}

func (r *ReservationRepository) ListExpired(ctx context.Context, now time.Time, limit int) ([]*reservation.Reservation, error) {
	return r.list(ctx, "failed to list expired reservations", `
		SELECT `+reservationColumns+` FROM reservations
		WHERE status = 'pending_payment' AND expires_at <= $1
		ORDER BY expires_at
		LIMIT $2`, now, limit)
}

func (r *ReservationRepository) list(ctx context.Context, msg, query string, args ...any) ([]*reservation.Reservation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(r.logger, msg, err)
	}
	defer rows.Close()

	var out []*reservation.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, wrapErr(r.logger, msg, err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(r.logger, msg, err)
	}
	return out, nil
}

func scanReservation(row pgx.Row) (*reservation.Reservation, error) {
	var (
		rec                                reservation.Record
		stationID, sessionID, queueEntryID pgtype.UUID
		kind, status, method               string
		participants                       []string
	)
	err := row.Scan(&rec.ID, &rec.StationTypeID, &stationID, &rec.CustomerID, &rec.StartTime, &rec.EndTime,
		&rec.DurationMinutes, &rec.Amount, &rec.Peak, &kind, &participants, &status, &rec.ExpiresAt,
		&rec.PaymentRef, &method, &sessionID, &queueEntryID, &rec.Version, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	rec.Participants, err = pgconv.UUIDsFromStrings(participants)
	if err != nil {
		return nil, err
	}
	rec.StationID = pgconv.UUIDPtrFromPgtype(stationID)
	rec.SessionID = pgconv.UUIDPtrFromPgtype(sessionID)
	rec.QueueEntryID = pgconv.UUIDPtrFromPgtype(queueEntryID)
	rec.Kind = reservation.Kind(kind)
	rec.Status = reservation.Status(status)
	rec.PaymentMethod = reservation.PaymentMethod(method)
	return reservation.FromRecord(rec), nil
}
