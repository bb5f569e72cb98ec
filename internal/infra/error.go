package infra

import (
	"errors"
	"log/slog"

	"gamezone-booking/internal/pkg/errs"
)

type RepositoryErrorKind string

type RepositoryError struct {
	Kind RepositoryErrorKind
	msg  string
	err  error // wrapped low-level error
}

func (e RepositoryError) Error() string {
	if e.err != nil {
		return string(e.Kind) + ": " + e.msg + ": " + e.err.Error()
	}
	return string(e.Kind) + ": " + e.msg
}

func (e RepositoryError) Unwrap() error {
	return e.err
}

// WrapRepoErr logs unexpected failures. Expected outcomes (not found, stale
// version, lost compare-and-set) are returned without logging.
func WrapRepoErr(slogger *slog.Logger, kind RepositoryErrorKind, msg string, err error) error {
	if kind == KindDBFailure && slogger != nil {
		slogger.Error("Repository error: "+msg, slog.String("kind", string(kind)), slog.Any("error", err))
	}

	if err != nil {
		err = errs.Wrap(err, msg)
	}

	return RepositoryError{Kind: kind, msg: msg, err: err}
}

func NewRepoErr(kind RepositoryErrorKind, msg string) error {
	return RepositoryError{Kind: kind, msg: msg}
}

func IsKind(err error, kind RepositoryErrorKind) bool {
	var e RepositoryError
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Infrastructure-specific error kinds
const (
	KindNotFound           RepositoryErrorKind = "NOT_FOUND"
	KindDBFailure          RepositoryErrorKind = "DB_FAILURE"
	KindDuplicateKey       RepositoryErrorKind = "DUPLICATE_KEY"
	KindForeignKeyViolated RepositoryErrorKind = "FOREIGN_KEY_VIOLATED"
	// KindStaleVersion: optimistic version check lost against a concurrent writer.
	KindStaleVersion RepositoryErrorKind = "STALE_VERSION"
	// KindStatusMismatch: compare-and-set on a status column found another value.
	KindStatusMismatch RepositoryErrorKind = "STATUS_MISMATCH"
	// KindExclusionViolation: overlapping live reservation rejected by the database.
	KindExclusionViolation RepositoryErrorKind = "EXCLUSION_VIOLATION"
)
