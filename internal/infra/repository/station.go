package repository

import (
	"context"
	"log/slog"
	"time"

	"gamezone-booking/internal/domain/pricing"
	"gamezone-booking/internal/domain/station"
	"gamezone-booking/internal/infra"
	"gamezone-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

type StationTypeRepository struct {
	db     DBTX
	logger *slog.Logger
}

func NewStationTypeRepository(db DBTX, logger *slog.Logger) *StationTypeRepository {
	return &StationTypeRepository{db: db, logger: logger}
}

const stationTypeColumns = `id, name, pricing_model, base_rate::text, block_minutes, minimum_minutes,
	peak_multiplier::text, enabled, created_at, updated_at`

func (r *StationTypeRepository) Create(ctx context.Context, t *station.Type) error {
	p := t.RatePlan().Params()
	_, err := r.db.Exec(ctx, `
		INSERT INTO station_types (id, name, pricing_model, base_rate, block_minutes, minimum_minutes,
			peak_multiplier, enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7::numeric, $8, $9, $10)`,
		t.ID(), t.Name(), string(p.Model), p.BaseRate.String(), p.BlockMinutes, p.MinimumMinutes,
		pgconv.DecimalPtrToText(p.PeakMultiplier), t.Enabled(), t.CreatedAt(), t.UpdatedAt())
	if err != nil {
		return wrapErr(r.logger, "failed to create station type", err)
	}
	return nil
}

func (r *StationTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*station.Type, error) {
	row := r.db.QueryRow(ctx, `SELECT `+stationTypeColumns+` FROM station_types WHERE id = $1`, id)
	t, err := r.scan(row)
	if err != nil {
		return nil, wrapErr(r.logger, "failed to find station type", err)
	}
	return t, nil
}

func (r *StationTypeRepository) List(ctx context.Context) ([]*station.Type, error) {
	rows, err := r.db.Query(ctx, `SELECT `+stationTypeColumns+` FROM station_types ORDER BY name, id`)
	if err != nil {
		return nil, wrapErr(r.logger, "failed to list station types", err)
	}
	defer rows.Close()

	var out []*station.Type
	for rows.Next() {
		t, err := r.scan(rows)
		if err != nil {
			return nil, wrapErr(r.logger, "failed to scan station type", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(r.logger, "failed to list station types", err)
	}
	return out, nil
}

func (r *StationTypeRepository) scan(row pgx.Row) (*station.Type, error) {
	var (
		id                    uuid.UUID
		name, model, baseRate string
		blockMin, minimumMin  int
		peak                  pgtype.Text
		enabled               bool
		createdAt, updatedAt  time.Time
	)
	if err := row.Scan(&id, &name, &model, &baseRate, &blockMin, &minimumMin, &peak, &enabled, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	rate, err := decimal.NewFromString(baseRate)
	if err != nil {
		return nil, err
	}
	multiplier, err := pgconv.DecimalPtrFromText(peak)
	if err != nil {
		return nil, err
	}
	plan, err := pricing.NewRatePlan(pricing.RatePlanParams{
		Model:          pricing.Model(model),
		BaseRate:       rate,
		BlockMinutes:   blockMin,
		MinimumMinutes: minimumMin,
		PeakMultiplier: multiplier,
	})
	if err != nil {
		return nil, err
	}
	return station.ReconstructType(id, name, plan, enabled, createdAt, updatedAt), nil
}

type StationRepository struct {
	db     DBTX
	logger *slog.Logger
}

func NewStationRepository(db DBTX, logger *slog.Logger) *StationRepository {
	return &StationRepository{db: db, logger: logger}
}

const stationColumns = `id, station_type_id, name, status, created_at, updated_at`

func (r *StationRepository) Create(ctx context.Context, s *station.Station) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO stations (id, station_type_id, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID(), s.TypeID(), s.Name(), string(s.Status()), s.CreatedAt(), s.UpdatedAt())
	if err != nil {
		return wrapErr(r.logger, "failed to create station", err)
	}
	return nil
}

func (r *StationRepository) FindByID(ctx context.Context, id uuid.UUID) (*station.Station, error) {
	s, err := scanStation(r.db.QueryRow(ctx, `SELECT `+stationColumns+` FROM stations WHERE id = $1`, id))
	if err != nil {
		return nil, wrapErr(r.logger, "failed to find station", err)
	}
	return s, nil
}

func (r *StationRepository) ListByType(ctx context.Context, typeID uuid.UUID) ([]*station.Station, error) {
	rows, err := r.db.Query(ctx, `SELECT `+stationColumns+` FROM stations WHERE station_type_id = $1 ORDER BY name, id`, typeID)
	if err != nil {
		return nil, wrapErr(r.logger, "failed to list stations", err)
	}
	defer rows.Close()

	var out []*station.Station
	for rows.Next() {
		s, err := scanStation(rows)
		if err != nil {
			return nil, wrapErr(r.logger, "failed to scan station", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(r.logger, "failed to list stations", err)
	}
	return out, nil
}

func (r *StationRepository) FindFree(ctx context.Context, typeID uuid.UUID) (*station.Station, error) {
	s, err := scanStation(r.db.QueryRow(ctx, `
		SELECT `+stationColumns+` FROM stations
		WHERE station_type_id = $1 AND status = 'available'
		ORDER BY name, id LIMIT 1`, typeID))
	if err != nil {
		return nil, wrapErr(r.logger, "failed to find free station", err)
	}
	return s, nil
}

func (r *StationRepository) CountAvailable(ctx context.Context, typeID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM stations WHERE station_type_id = $1 AND status = 'available'`, typeID).Scan(&n)
	if err != nil {
		return 0, wrapErr(r.logger, "failed to count stations", err)
	}
	return n, nil
}

func (r *StationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to station.Status, now time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE stations SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2`, id, string(from), string(to), now)
	if err != nil {
		return wrapErr(r.logger, "failed to update station status", err)
	}
	return expectOne(tag, infra.KindStatusMismatch, "station status is not "+string(from))
}

func scanStation(row pgx.Row) (*station.Station, error) {
	var (
		id, typeID           uuid.UUID
		name, status         string
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &typeID, &name, &status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return station.ReconstructStation(id, typeID, name, station.Status(status), createdAt, updatedAt), nil
}
