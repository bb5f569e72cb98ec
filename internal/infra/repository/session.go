package repository

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"gamezone-booking/internal/domain/pricing"
	"gamezone-booking/internal/domain/session"
	"gamezone-booking/internal/infra"
	"gamezone-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

type SessionRepository struct {
	db     DBTX
	logger *slog.Logger
}

func NewSessionRepository(db DBTX, logger *slog.Logger) *SessionRepository {
	return &SessionRepository{db: db, logger: logger}
}

// ratePlanJSON is the rate plan snapshot stored with each session.
type ratePlanJSON struct {
	Model          string           `json:"model"`
	BaseRate       decimal.Decimal  `json:"base_rate"`
	BlockMinutes   int              `json:"block_minutes,omitempty"`
	MinimumMinutes int              `json:"minimum_minutes"`
	PeakMultiplier *decimal.Decimal `json:"peak_multiplier,omitempty"`
}

const sessionColumns = `id, station_id, station_type_id, customer_id, reservation_id, queue_entry_id,
	rate_plan, status, scheduled_start, actual_start, end_time, actual_end, duration_minutes,
	base_amount, final_amount, extension_amount, payment_status, payment_ref, pause_history,
	total_paused_min, current_pause_start, extended, challenge, participants::text[], winner_id,
	billed_to::text[], version, created_at, updated_at`

func (r *SessionRepository) Create(ctx context.Context, s *session.Session) error {
	rec := s.Record()
	plan, pauses, err := encodeSessionJSON(rec)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to encode session", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO sessions (id, station_id, station_type_id, customer_id, reservation_id, queue_entry_id,
			rate_plan, status, scheduled_start, actual_start, end_time, actual_end, duration_minutes,
			base_amount, final_amount, extension_amount, payment_status, payment_ref, pause_history,
			total_paused_min, current_pause_start, extended, challenge, participants, winner_id,
			billed_to, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19,
			$20, $21, $22, $23, $24::uuid[], $25, $26::uuid[], $27, $28, $29)`,
		rec.ID, rec.StationID, rec.StationTypeID, rec.CustomerID,
		pgconv.UUIDPtrToPgtype(rec.ReservationID), pgconv.UUIDPtrToPgtype(rec.QueueEntryID),
		plan, string(rec.Status), rec.ScheduledStart, pgconv.TimePtrToPgtype(rec.ActualStart), rec.EndTime,
		pgconv.TimePtrToPgtype(rec.ActualEnd), rec.DurationMinutes, rec.BaseAmount,
		pgconv.Int64PtrToPgtype(rec.FinalAmount), rec.ExtensionAmount, string(rec.PaymentStatus),
		rec.PaymentRef, pauses, rec.TotalPausedMin, pgconv.TimePtrToPgtype(rec.CurrentPauseStart),
		rec.Extended, rec.Challenge, pgconv.UUIDsToStrings(rec.Participants),
		pgconv.UUIDPtrToPgtype(rec.WinnerID), pgconv.UUIDsToStrings(rec.BilledTo), rec.Version,
		rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return wrapErr(r.logger, "failed to create session", err)
	}
	return nil
}

func (r *SessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	s, err := scanSession(r.db.QueryRow(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id))
	if err != nil {
		return nil, wrapErr(r.logger, "failed to find session", err)
	}
	return s, nil
}

func (r *SessionRepository) Update(ctx context.Context, s *session.Session) error {
	rec := s.Record()
	_, pauses, err := encodeSessionJSON(rec)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to encode session", err)
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE sessions SET
			status = $3, actual_start = $4, end_time = $5, actual_end = $6, duration_minutes = $7,
			final_amount = $8, extension_amount = $9, payment_status = $10, payment_ref = $11,
			pause_history = $12, total_paused_min = $13, current_pause_start = $14, extended = $15,
			winner_id = $16, billed_to = $17::uuid[], updated_at = $18, version = version + 1
		WHERE id = $1 AND version = $2`,
		rec.ID, rec.Version, string(rec.Status), pgconv.TimePtrToPgtype(rec.ActualStart), rec.EndTime,
		pgconv.TimePtrToPgtype(rec.ActualEnd), rec.DurationMinutes, pgconv.Int64PtrToPgtype(rec.FinalAmount),
		rec.ExtensionAmount, string(rec.PaymentStatus), rec.PaymentRef, pauses, rec.TotalPausedMin,
		pgconv.TimePtrToPgtype(rec.CurrentPauseStart), rec.Extended, pgconv.UUIDPtrToPgtype(rec.WinnerID),
		pgconv.UUIDsToStrings(rec.BilledTo), rec.UpdatedAt)
	if err != nil {
		return wrapErr(r.logger, "failed to update session", err)
	}
	return expectOne(tag, infra.KindStaleVersion, "session changed concurrently")
}

func (r *SessionRepository) FindOverlapping(ctx context.Context, stationID uuid.UUID, start, end time.Time) ([]*session.Session, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+sessionColumns+` FROM sessions
		WHERE station_id = $1
			AND status IN ('scheduled', 'active', 'paused')
			AND tstzrange(COALESCE(actual_start, scheduled_start), COALESCE(actual_end, end_time), '[)')
				&& tstzrange($2, $3, '[)')`, stationID, start, end)
	if err != nil {
		return nil, wrapErr(r.logger, "failed to find overlapping sessions", err)
	}
	defer rows.Close()

	var out []*session.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, wrapErr(r.logger, "failed to scan session", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(r.logger, "failed to find overlapping sessions", err)
	}
	return out, nil
}

func (r *SessionRepository) FindOccupying(ctx context.Context, stationID uuid.UUID) (*session.Session, error) {
	s, err := scanSession(r.db.QueryRow(ctx, `
		SELECT `+sessionColumns+` FROM sessions
		WHERE station_id = $1 AND status IN ('active', 'paused')`, stationID))
	if err != nil {
		return nil, wrapErr(r.logger, "failed to find occupying session", err)
	}
	return s, nil
}

func encodeSessionJSON(rec session.Record) ([]byte, []byte, error) {
	plan, err := json.Marshal(ratePlanJSON{
		Model:          string(rec.RatePlan.Model),
		BaseRate:       rec.RatePlan.BaseRate,
		BlockMinutes:   rec.RatePlan.BlockMinutes,
		MinimumMinutes: rec.RatePlan.MinimumMinutes,
		PeakMultiplier: rec.RatePlan.PeakMultiplier,
	})
	if err != nil {
		return nil, nil, err
	}
	history := rec.PauseHistory
	if history == nil {
		history = []session.PauseRecord{}
	}
	pauses, err := json.Marshal(history)
	if err != nil {
		return nil, nil, err
	}
	return plan, pauses, nil
}

func scanSession(row pgx.Row) (*session.Session, error) {
	var (
		rec                                   session.Record
		reservationID, queueEntryID, winnerID pgtype.UUID
		actualStart, actualEnd, currentPause  pgtype.Timestamptz
		finalAmount                           pgtype.Int8
		status, paymentStatus                 string
		planJSON, pausesJSON                  []byte
		participants, billedTo                []string
	)
	err := row.Scan(&rec.ID, &rec.StationID, &rec.StationTypeID, &rec.CustomerID, &reservationID, &queueEntryID,
		&planJSON, &status, &rec.ScheduledStart, &actualStart, &rec.EndTime, &actualEnd, &rec.DurationMinutes,
		&rec.BaseAmount, &finalAmount, &rec.ExtensionAmount, &paymentStatus, &rec.PaymentRef, &pausesJSON,
		&rec.TotalPausedMin, &currentPause, &rec.Extended, &rec.Challenge, &participants, &winnerID,
		&billedTo, &rec.Version, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}

	var plan ratePlanJSON
	if err := json.Unmarshal(planJSON, &plan); err != nil {
		return nil, err
	}
	rec.RatePlan = pricing.RatePlanParams{
		Model:          pricing.Model(plan.Model),
		BaseRate:       plan.BaseRate,
		BlockMinutes:   plan.BlockMinutes,
		MinimumMinutes: plan.MinimumMinutes,
		PeakMultiplier: plan.PeakMultiplier,
	}
	if err := json.Unmarshal(pausesJSON, &rec.PauseHistory); err != nil {
		return nil, err
	}
	if rec.Participants, err = pgconv.UUIDsFromStrings(participants); err != nil {
		return nil, err
	}
	if rec.BilledTo, err = pgconv.UUIDsFromStrings(billedTo); err != nil {
		return nil, err
	}
	rec.ReservationID = pgconv.UUIDPtrFromPgtype(reservationID)
	rec.QueueEntryID = pgconv.UUIDPtrFromPgtype(queueEntryID)
	rec.WinnerID = pgconv.UUIDPtrFromPgtype(winnerID)
	rec.ActualStart = pgconv.TimePtrFromPgtype(actualStart)
	rec.ActualEnd = pgconv.TimePtrFromPgtype(actualEnd)
	rec.CurrentPauseStart = pgconv.TimePtrFromPgtype(currentPause)
	rec.FinalAmount = pgconv.Int64PtrFromPgtype(finalAmount)
	rec.Status = session.Status(status)
	rec.PaymentStatus = session.PaymentStatus(paymentStatus)
	return session.FromRecord(rec)
}
