//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// StationTypeSeed describes a station type row. Zero values fall back to a
// per-hour plan at 120.00 with a 30 minute minimum.
type StationTypeSeed struct {
	Name           string
	PricingModel   string
	BaseRate       string
	BlockMinutes   int
	MinimumMinutes int
	PeakMultiplier *string
}

func CreateStationType(t *testing.T, db DBLike, seed StationTypeSeed) uuid.UUID {
	t.Helper()

	if seed.PricingModel == "" {
		seed.PricingModel = "per_hour"
	}
	if seed.BaseRate == "" {
		seed.BaseRate = "120.00"
	}
	if seed.MinimumMinutes == 0 {
		seed.MinimumMinutes = 30
	}

	id := uuid.New()
	now := time.Now().UTC()
	_, err := db.Exec(context.Background(), `
		INSERT INTO station_types
		    (id, name, pricing_model, base_rate, block_minutes, minimum_minutes, peak_multiplier, enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7::numeric, TRUE, $8, $8)`,
		id, seed.Name, seed.PricingModel, seed.BaseRate, seed.BlockMinutes, seed.MinimumMinutes, seed.PeakMultiplier, now)
	require.NoError(t, err)

	return id
}

func CreateStation(t *testing.T, db DBLike, typeID uuid.UUID, name string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	now := time.Now().UTC()
	_, err := db.Exec(context.Background(), `
		INSERT INTO stations (id, station_type_id, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, 'available', $4, $4)`,
		id, typeID, name, now)
	require.NoError(t, err)

	return id
}

func StationStatus(t *testing.T, db DBLike, stationID uuid.UUID) string {
	t.Helper()

	var status string
	err := db.QueryRow(context.Background(), "SELECT status FROM stations WHERE id = $1", stationID).Scan(&status)
	require.NoError(t, err)

	return status
}

func CountRows(t *testing.T, db DBLike, table string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(), "SELECT count(*) FROM "+table).Scan(&n)
	require.NoError(t, err)

	return n
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// ResetDB truncates every table except the migration ledger.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return nil
}
