package memstore

import (
	"context"
	"sort"
	"time"

	"gamezone-booking/internal/domain/reservation"
	"gamezone-booking/internal/domain/session"
	"gamezone-booking/internal/domain/station"
	"gamezone-booking/internal/domain/waitlist"
	"gamezone-booking/internal/infra"
	"gamezone-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

type stationTypeRepo struct{ tx *memTx }

func (r *stationTypeRepo) Create(_ context.Context, t *station.Type) error {
	if err := r.tx.write("station_types.create"); err != nil {
		return err
	}
	if _, ok := r.tx.st.types[t.ID()]; ok {
		return infra.NewRepoErr(infra.KindDuplicateKey, "station type already exists")
	}
	r.tx.st.types[t.ID()] = *t
	return nil
}

func (r *stationTypeRepo) FindByID(_ context.Context, id uuid.UUID) (*station.Type, error) {
	t, ok := r.tx.st.types[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "station type not found")
	}
	return &t, nil
}

func (r *stationTypeRepo) List(_ context.Context) ([]*station.Type, error) {
	out := make([]*station.Type, 0, len(r.tx.st.types))
	for _, t := range r.tx.st.types {
		t := t
		out = append(out, &t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name() != out[j].Name() {
			return out[i].Name() < out[j].Name()
		}
		return out[i].ID().String() < out[j].ID().String()
	})
	return out, nil
}

type stationRepo struct{ tx *memTx }

func (r *stationRepo) Create(_ context.Context, s *station.Station) error {
	if err := r.tx.write("stations.create"); err != nil {
		return err
	}
	if _, ok := r.tx.st.types[s.TypeID()]; !ok {
		return infra.NewRepoErr(infra.KindForeignKeyViolated, "station type does not exist")
	}
	if _, ok := r.tx.st.stations[s.ID()]; ok {
		return infra.NewRepoErr(infra.KindDuplicateKey, "station already exists")
	}
	r.tx.st.stations[s.ID()] = *s
	return nil
}

func (r *stationRepo) FindByID(_ context.Context, id uuid.UUID) (*station.Station, error) {
	s, ok := r.tx.st.stations[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "station not found")
	}
	return &s, nil
}

// ListByType orders by name then id, like the SQL repository.
func (r *stationRepo) ListByType(_ context.Context, typeID uuid.UUID) ([]*station.Station, error) {
	var out []*station.Station
	for _, s := range r.tx.st.stations {
		if s.TypeID() == typeID {
			s := s
			out = append(out, &s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name() != out[j].Name() {
			return out[i].Name() < out[j].Name()
		}
		return out[i].ID().String() < out[j].ID().String()
	})
	return out, nil
}

func (r *stationRepo) FindFree(ctx context.Context, typeID uuid.UUID) (*station.Station, error) {
	all, _ := r.ListByType(ctx, typeID)
	for _, s := range all {
		if s.IsAvailable() {
			return s, nil
		}
	}
	return nil, infra.NewRepoErr(infra.KindNotFound, "no free station")
}

func (r *stationRepo) CountAvailable(ctx context.Context, typeID uuid.UUID) (int, error) {
	all, _ := r.ListByType(ctx, typeID)
	n := 0
	for _, s := range all {
		if s.IsAvailable() {
			n++
		}
	}
	return n, nil
}

func (r *stationRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to station.Status, now time.Time) error {
	if err := r.tx.write("stations.update_status"); err != nil {
		return err
	}
	s, ok := r.tx.st.stations[id]
	if !ok {
		return infra.NewRepoErr(infra.KindNotFound, "station not found")
	}
	if s.Status() != from {
		return infra.NewRepoErr(infra.KindStatusMismatch, "station status is "+string(s.Status()))
	}
	r.tx.st.stations[id] = *station.ReconstructStation(s.ID(), s.TypeID(), s.Name(), to, s.CreatedAt(), now)
	return nil
}

type reservationRepo struct{ tx *memTx }

// holdsStation mirrors the partial exclusion constraint: unpaid holds and paid
// reservations that have not produced a session yet.
func holdsStation(rec reservation.Record) bool {
	switch rec.Status {
	case reservation.StatusPendingPayment, reservation.StatusPendingApproval:
		return true
	case reservation.StatusPaymentConfirmed:
		return rec.SessionID == nil
	default:
		return false
	}
}

func (r *reservationRepo) checkExclusion(rec reservation.Record) error {
	if rec.StationID == nil || !holdsStation(rec) {
		return nil
	}
	for id, other := range r.tx.st.reservations {
		if id == rec.ID || other.StationID == nil || *other.StationID != *rec.StationID || !holdsStation(other) {
			continue
		}
		if overlaps(rec.StartTime, rec.EndTime, other.StartTime, other.EndTime) {
			return infra.NewRepoErr(infra.KindExclusionViolation, "overlapping reservation on station")
		}
	}
	return nil
}

func (r *reservationRepo) Create(_ context.Context, res *reservation.Reservation) error {
	if err := r.tx.write("reservations.create"); err != nil {
		return err
	}
	rec := res.Record()
	if _, ok := r.tx.st.reservations[rec.ID]; ok {
		return infra.NewRepoErr(infra.KindDuplicateKey, "reservation already exists")
	}
	if err := r.checkExclusion(rec); err != nil {
		return err
	}
	r.tx.st.reservations[rec.ID] = rec
	return nil
}

func (r *reservationRepo) FindByID(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	rec, ok := r.tx.st.reservations[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "reservation not found")
	}
	return reservation.FromRecord(rec), nil
}

func (r *reservationRepo) Update(_ context.Context, res *reservation.Reservation) error {
	if err := r.tx.write("reservations.update"); err != nil {
		return err
	}
	rec := res.Record()
	stored, ok := r.tx.st.reservations[rec.ID]
	if !ok {
		return infra.NewRepoErr(infra.KindNotFound, "reservation not found")
	}
	if stored.Version != rec.Version {
		return infra.NewRepoErr(infra.KindStaleVersion, "reservation changed concurrently")
	}
	if err := r.checkExclusion(rec); err != nil {
		return err
	}
	rec.Version++
	r.tx.st.reservations[rec.ID] = rec
	return nil
}

func (r *reservationRepo) FindOverlapping(_ context.Context, stationID uuid.UUID, start, end time.Time) ([]*reservation.Reservation, error) {
	var out []*reservation.Reservation
	for _, rec := range r.tx.st.reservations {
		if rec.StationID == nil || *rec.StationID != stationID || rec.Status.IsTerminal() {
			continue
		}
		if overlaps(start, end, rec.StartTime, rec.EndTime) {
			out = append(out, reservation.FromRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TimeSlot().Start().Before(out[j].TimeSlot().Start()) })
	return out, nil
}

func (r *reservationRepo) ListExpired(_ context.Context, now time.Time, limit int) ([]*reservation.Reservation, error) {
	var out []*reservation.Reservation
	for _, rec := range r.tx.st.reservations {
		if rec.Status == reservation.StatusPendingPayment && !now.Before(rec.ExpiresAt) {
			out = append(out, reservation.FromRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt().Before(out[j].ExpiresAt()) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type sessionRepo struct{ tx *memTx }

func (r *sessionRepo) Create(_ context.Context, s *session.Session) error {
	if err := r.tx.write("sessions.create"); err != nil {
		return err
	}
	rec := s.Record()
	if _, ok := r.tx.st.sessions[rec.ID]; ok {
		return infra.NewRepoErr(infra.KindDuplicateKey, "session already exists")
	}
	r.tx.st.sessions[rec.ID] = rec
	return nil
}

func (r *sessionRepo) FindByID(_ context.Context, id uuid.UUID) (*session.Session, error) {
	rec, ok := r.tx.st.sessions[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "session not found")
	}
	return decodeSession(rec)
}

func (r *sessionRepo) Update(_ context.Context, s *session.Session) error {
	if err := r.tx.write("sessions.update"); err != nil {
		return err
	}
	rec := s.Record()
	stored, ok := r.tx.st.sessions[rec.ID]
	if !ok {
		return infra.NewRepoErr(infra.KindNotFound, "session not found")
	}
	if stored.Version != rec.Version {
		return infra.NewRepoErr(infra.KindStaleVersion, "session changed concurrently")
	}
	rec.Version++
	r.tx.st.sessions[rec.ID] = rec
	return nil
}

func (r *sessionRepo) FindOverlapping(_ context.Context, stationID uuid.UUID, start, end time.Time) ([]*session.Session, error) {
	var out []*session.Session
	for _, rec := range r.tx.st.sessions {
		if rec.StationID != stationID || rec.Status.IsTerminal() {
			continue
		}
		s, err := decodeSession(rec)
		if err != nil {
			return nil, err
		}
		from, to := s.Window()
		if overlaps(start, end, from, to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *sessionRepo) FindOccupying(_ context.Context, stationID uuid.UUID) (*session.Session, error) {
	for _, rec := range r.tx.st.sessions {
		if rec.StationID == stationID && rec.Status.OccupiesStation() {
			return decodeSession(rec)
		}
	}
	return nil, infra.NewRepoErr(infra.KindNotFound, "no session occupies the station")
}

func decodeSession(rec session.Record) (*session.Session, error) {
	s, err := session.FromRecord(rec)
	if err != nil {
		return nil, infra.WrapRepoErr(nil, infra.KindDBFailure, "decode session", err)
	}
	return s, nil
}

type waitlistRepo struct{ tx *memTx }

func (r *waitlistRepo) Create(_ context.Context, e *waitlist.Entry) error {
	if err := r.tx.write("waitlist.create"); err != nil {
		return err
	}
	rec := e.Record()
	if _, ok := r.tx.st.entries[rec.ID]; ok {
		return infra.NewRepoErr(infra.KindDuplicateKey, "queue entry already exists")
	}
	if rec.ReservationID != nil {
		for _, other := range r.tx.st.entries {
			if other.ReservationID != nil && *other.ReservationID == *rec.ReservationID {
				return infra.NewRepoErr(infra.KindDuplicateKey, "reservation already queued")
			}
		}
	}
	r.tx.st.entries[rec.ID] = rec
	return nil
}

func (r *waitlistRepo) FindByID(_ context.Context, id uuid.UUID) (*waitlist.Entry, error) {
	rec, ok := r.tx.st.entries[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "queue entry not found")
	}
	return waitlist.FromRecord(rec), nil
}

func (r *waitlistRepo) FindByReservation(_ context.Context, reservationID uuid.UUID) (*waitlist.Entry, error) {
	for _, rec := range r.tx.st.entries {
		if rec.ReservationID != nil && *rec.ReservationID == reservationID {
			return waitlist.FromRecord(rec), nil
		}
	}
	return nil, infra.NewRepoErr(infra.KindNotFound, "queue entry not found")
}

func (r *waitlistRepo) Update(_ context.Context, e *waitlist.Entry) error {
	if err := r.tx.write("waitlist.update"); err != nil {
		return err
	}
	rec := e.Record()
	stored, ok := r.tx.st.entries[rec.ID]
	if !ok {
		return infra.NewRepoErr(infra.KindNotFound, "queue entry not found")
	}
	if stored.Version != rec.Version {
		return infra.NewRepoErr(infra.KindStaleVersion, "queue entry changed concurrently")
	}
	rec.Version++
	r.tx.st.entries[rec.ID] = rec
	return nil
}

func (r *waitlistRepo) ListInLine(_ context.Context, typeID uuid.UUID) ([]*waitlist.Entry, error) {
	var out []*waitlist.Entry
	for _, rec := range r.tx.st.entries {
		if rec.StationTypeID == typeID && rec.Status.InLine() {
			out = append(out, waitlist.FromRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position() != out[j].Position() {
			return out[i].Position() < out[j].Position()
		}
		return out[i].CreatedAt().Before(out[j].CreatedAt())
	})
	return out, nil
}

func (r *waitlistRepo) ListOverdue(_ context.Context, cutoff time.Time, limit int) ([]*waitlist.Entry, error) {
	var out []*waitlist.Entry
	for _, rec := range r.tx.st.entries {
		if rec.Status == waitlist.StatusWaiting && rec.CreatedAt.Before(cutoff) {
			out = append(out, waitlist.FromRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().Before(out[j].CreatedAt()) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type idempotencyRepo struct{ tx *memTx }

func (r *idempotencyRepo) TryInsert(_ context.Context, rec shared.IdempotencyRecord) error {
	if err := r.tx.write("idempotency.insert"); err != nil {
		return err
	}
	k := idemKey{key: rec.Key, user: rec.UserID}
	if _, ok := r.tx.st.idempotency[k]; ok {
		return infra.NewRepoErr(infra.KindDuplicateKey, "idempotency key already used")
	}
	r.tx.st.idempotency[k] = rec
	return nil
}

func (r *idempotencyRepo) Get(_ context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	rec, ok := r.tx.st.idempotency[idemKey{key: key, user: userID}]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "idempotency key not found")
	}
	return &rec, nil
}

func (r *idempotencyRepo) Reclaim(_ context.Context, rec shared.IdempotencyRecord) error {
	if err := r.tx.write("idempotency.reclaim"); err != nil {
		return err
	}
	r.tx.st.idempotency[idemKey{key: rec.Key, user: rec.UserID}] = rec
	return nil
}

func (r *idempotencyRepo) Complete(_ context.Context, key, userID, reservationID uuid.UUID) error {
	if err := r.tx.write("idempotency.complete"); err != nil {
		return err
	}
	k := idemKey{key: key, user: userID}
	rec, ok := r.tx.st.idempotency[k]
	if !ok {
		return infra.NewRepoErr(infra.KindNotFound, "idempotency key not found")
	}
	rec.Status = shared.IdempotencyCompleted
	rec.ResultReservationID = &reservationID
	r.tx.st.idempotency[k] = rec
	return nil
}

func (r *idempotencyRepo) Release(_ context.Context, key, userID uuid.UUID) error {
	if err := r.tx.write("idempotency.release"); err != nil {
		return err
	}
	delete(r.tx.st.idempotency, idemKey{key: key, user: userID})
	return nil
}
