package shared

import (
	"context"
	"time"

	"gamezone-booking/internal/domain/reservation"
	"gamezone-booking/internal/domain/session"
	"gamezone-booking/internal/domain/station"
	"gamezone-booking/internal/domain/waitlist"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: full transaction for write operations. fn may run more than once
	// when the store asks for a retry, so it must not leak side effects.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: consistent snapshot for multi-table reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	StationTypes() StationTypeRepository
	Stations() StationRepository
	Reservations() ReservationRepository
	Sessions() SessionRepository
	Waitlist() WaitlistRepository
	Idempotency() IdempotencyRepository
}

type StationTypeRepository interface {
	Create(ctx context.Context, t *station.Type) error
	FindByID(ctx context.Context, id uuid.UUID) (*station.Type, error)
	List(ctx context.Context) ([]*station.Type, error)
}

type StationRepository interface {
	Create(ctx context.Context, s *station.Station) error
	FindByID(ctx context.Context, id uuid.UUID) (*station.Station, error)
	ListByType(ctx context.Context, typeID uuid.UUID) ([]*station.Station, error)
	// FindFree returns an available station of the type, NOT_FOUND when none.
	FindFree(ctx context.Context, typeID uuid.UUID) (*station.Station, error)
	CountAvailable(ctx context.Context, typeID uuid.UUID) (int, error)
	// UpdateStatus is a compare-and-set; STATUS_MISMATCH when the current status is not from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to station.Status, now time.Time) error
}

type ReservationRepository interface {
	// Create fails with EXCLUSION_VIOLATION when a live reservation on the same
	// station overlaps.
	Create(ctx context.Context, r *reservation.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	// Update is versioned; STALE_VERSION when the row changed since it was read.
	Update(ctx context.Context, r *reservation.Reservation) error
	// FindOverlapping returns reservations in a live status on the station whose
	// window overlaps [start, end).
	FindOverlapping(ctx context.Context, stationID uuid.UUID, start, end time.Time) ([]*reservation.Reservation, error)
	ListExpired(ctx context.Context, now time.Time, limit int) ([]*reservation.Reservation, error)
}

type SessionRepository interface {
	Create(ctx context.Context, s *session.Session) error
	FindByID(ctx context.Context, id uuid.UUID) (*session.Session, error)
	Update(ctx context.Context, s *session.Session) error
	// FindOverlapping returns non-terminal sessions on the station whose window
	// overlaps [start, end).
	FindOverlapping(ctx context.Context, stationID uuid.UUID, start, end time.Time) ([]*session.Session, error)
	// FindOccupying returns the active or paused session on the station, NOT_FOUND when none.
	FindOccupying(ctx context.Context, stationID uuid.UUID) (*session.Session, error)
}

type WaitlistRepository interface {
	Create(ctx context.Context, e *waitlist.Entry) error
	FindByID(ctx context.Context, id uuid.UUID) (*waitlist.Entry, error)
	FindByReservation(ctx context.Context, reservationID uuid.UUID) (*waitlist.Entry, error)
	Update(ctx context.Context, e *waitlist.Entry) error
	// ListInLine returns waiting and processing entries of the type ordered by position.
	ListInLine(ctx context.Context, typeID uuid.UUID) ([]*waitlist.Entry, error)
	// ListOverdue returns waiting entries of every type created before cutoff, oldest first.
	ListOverdue(ctx context.Context, cutoff time.Time, limit int) ([]*waitlist.Entry, error)
}

type IdempotencyRepository interface {
	// TryInsert claims the key; DUPLICATE_KEY when it is already held.
	TryInsert(ctx context.Context, rec IdempotencyRecord) error
	Get(ctx context.Context, key, userID uuid.UUID) (*IdempotencyRecord, error)
	// Reclaim takes over an expired key for a new request.
	Reclaim(ctx context.Context, rec IdempotencyRecord) error
	Complete(ctx context.Context, key, userID, reservationID uuid.UUID) error
	Release(ctx context.Context, key, userID uuid.UUID) error
}
