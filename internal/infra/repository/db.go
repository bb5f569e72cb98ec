package repository

import (
	"context"
	"log/slog"

	"gamezone-booking/internal/infra"
	"gamezone-booking/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// wrapErr classifies a pgx error into a RepositoryError kind.
func wrapErr(logger *slog.Logger, msg string, err error) error {
	if pgconv.IsNoRows(err) {
		return infra.WrapRepoErr(logger, infra.KindNotFound, msg, err)
	}
	switch pgconv.PgErrorCode(err) {
	case pgconv.CodeUniqueViolation:
		return infra.WrapRepoErr(logger, infra.KindDuplicateKey, msg, err)
	case pgconv.CodeForeignKeyViolation:
		return infra.WrapRepoErr(logger, infra.KindForeignKeyViolated, msg, err)
	case pgconv.CodeExclusionViolation:
		return infra.WrapRepoErr(logger, infra.KindExclusionViolation, msg, err)
	default:
		return infra.WrapRepoErr(logger, infra.KindDBFailure, msg, err)
	}
}

// expectOne turns "no row updated" into the kind the caller expects.
func expectOne(tag pgconn.CommandTag, kind infra.RepositoryErrorKind, msg string) error {
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(kind, msg)
	}
	return nil
}
