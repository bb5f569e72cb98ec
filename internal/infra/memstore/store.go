// Package memstore is an in-memory unit of work. Transactions are serialized
// by one mutex and run against a copy of the state that replaces the committed
// state only when fn succeeds, so a failed fn leaves nothing behind.
package memstore

import (
	"context"
	"sync"

	"gamezone-booking/internal/domain/reservation"
	"gamezone-booking/internal/domain/session"
	"gamezone-booking/internal/domain/station"
	"gamezone-booking/internal/domain/waitlist"
	"gamezone-booking/internal/infra"
	"gamezone-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// FaultFunc is consulted before every write. A non-nil error fails the write
// and therefore the whole transaction.
type FaultFunc func(op string) error

type idemKey struct {
	key  uuid.UUID
	user uuid.UUID
}

type state struct {
	types        map[uuid.UUID]station.Type
	stations     map[uuid.UUID]station.Station
	reservations map[uuid.UUID]reservation.Record
	sessions     map[uuid.UUID]session.Record
	entries      map[uuid.UUID]waitlist.Record
	idempotency  map[idemKey]shared.IdempotencyRecord
}

func newState() *state {
	return &state{
		types:        map[uuid.UUID]station.Type{},
		stations:     map[uuid.UUID]station.Station{},
		reservations: map[uuid.UUID]reservation.Record{},
		sessions:     map[uuid.UUID]session.Record{},
		entries:      map[uuid.UUID]waitlist.Record{},
		idempotency:  map[idemKey]shared.IdempotencyRecord{},
	}
}

// clone copies the maps. Stored values are never mutated in place, so
// sharing their slices between copies is safe.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.types {
		c.types[k] = v
	}
	for k, v := range s.stations {
		c.stations[k] = v
	}
	for k, v := range s.reservations {
		c.reservations[k] = v
	}
	for k, v := range s.sessions {
		c.sessions[k] = v
	}
	for k, v := range s.entries {
		c.entries[k] = v
	}
	for k, v := range s.idempotency {
		c.idempotency[k] = v
	}
	return c
}

type Store struct {
	mu    sync.Mutex
	state *state
	fault FaultFunc
}

var _ shared.UnitOfWork = (*Store)(nil)

func New() *Store {
	return &Store{state: newState()}
}

// SetFault installs (or with nil removes) the write fault hook.
func (s *Store) SetFault(f FaultFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fault = f
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(ctx, &memTx{st: work, fault: s.fault}); err != nil {
		return err
	}
	s.state = work
	return nil
}

func (s *Store) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return fn(ctx, &memTx{st: s.state.clone(), readOnly: true})
}

type memTx struct {
	st       *state
	fault    FaultFunc
	readOnly bool
}

func (t *memTx) StationTypes() shared.StationTypeRepository { return &stationTypeRepo{t} }
func (t *memTx) Stations() shared.StationRepository         { return &stationRepo{t} }
func (t *memTx) Reservations() shared.ReservationRepository { return &reservationRepo{t} }
func (t *memTx) Sessions() shared.SessionRepository         { return &sessionRepo{t} }
func (t *memTx) Waitlist() shared.WaitlistRepository        { return &waitlistRepo{t} }
func (t *memTx) Idempotency() shared.IdempotencyRepository  { return &idempotencyRepo{t} }

func (t *memTx) write(op string) error {
	if t.readOnly {
		return infra.NewRepoErr(infra.KindDBFailure, op+": read-only transaction")
	}
	if t.fault != nil {
		if err := t.fault(op); err != nil {
			return infra.WrapRepoErr(nil, infra.KindDBFailure, op, err)
		}
	}
	return nil
}
