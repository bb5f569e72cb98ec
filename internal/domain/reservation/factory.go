package reservation

import (
	"time"

	"gamezone-booking/internal/domain/pricing"
	"gamezone-booking/internal/domain/station"
	"gamezone-booking/internal/pkg/clock"
	"gamezone-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrActivityDisabled = errs.Validation("station type is not enabled for booking")
	ErrDurationTooShort = errs.Validation("duration is shorter than the station type minimum")
	ErrStationMismatch  = errs.Validation("station does not belong to the requested station type")
	ErrInvalidKind      = errs.Validation("invalid reservation kind")
)

type Factory struct {
	Clock           clock.Clock
	PriceCalculator pricing.Calculator
	PeakPolicy      pricing.PeakPolicy
	HoldDuration    time.Duration
}

func NewFactory(clk clock.Clock, calc pricing.Calculator, peak pricing.PeakPolicy, hold time.Duration) *Factory {
	return &Factory{
		Clock:           clk,
		PriceCalculator: calc,
		PeakPolicy:      peak,
		HoldDuration:    hold,
	}
}

type Request struct {
	CustomerID      uuid.UUID
	StartTime       time.Time
	DurationMinutes int
	Kind            Kind
	Participants    []uuid.UUID
}

// ValidateFor checks the request against the station type before any lock is taken.
func (f *Factory) ValidateFor(typ *station.Type, st *station.Station, req Request) error {
	if !typ.Enabled() {
		return ErrActivityDisabled
	}
	if req.DurationMinutes < typ.MinimumMinutes() {
		return ErrDurationTooShort
	}
	if st != nil && st.TypeID() != typ.ID() {
		return ErrStationMismatch
	}
	kind := req.Kind
	if kind == "" {
		kind = KindStandard
	}
	if !kind.IsValid() {
		return ErrInvalidKind
	}
	if kind == KindChallenge {
		if _, err := normalizeParticipants(req.CustomerID, req.Participants); err != nil {
			return err
		}
	}
	return nil
}

// CreateReservation prices the window with the peak flag of its start time and
// opens a pending-payment hold.
func (f *Factory) CreateReservation(typ *station.Type, st *station.Station, req Request) (*Reservation, error) {
	if err := f.ValidateFor(typ, st, req); err != nil {
		return nil, err
	}
	slot, err := SlotFor(req.StartTime, req.DurationMinutes)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	kind := req.Kind
	if kind == "" {
		kind = KindStandard
	}
	var participants []uuid.UUID
	if kind == KindChallenge {
		participants, _ = normalizeParticipants(req.CustomerID, req.Participants)
	}

	peak := f.PeakPolicy.IsPeak(slot.Start())
	amount := f.PriceCalculator.Price(typ.RatePlan(), req.DurationMinutes, peak)

	var stationID *uuid.UUID
	if st != nil {
		id := st.ID()
		stationID = &id
	}

	now := f.Clock.Now()
	return &Reservation{
		id:            uuid.New(),
		stationTypeID: typ.ID(),
		stationID:     stationID,
		customerID:    req.CustomerID,
		timeSlot:      slot,
		duration:      req.DurationMinutes,
		amount:        amount,
		peak:          peak,
		kind:          kind,
		participants:  participants,
		status:        StatusPendingPayment,
		expiresAt:     now.Add(f.HoldDuration),
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// normalizeParticipants puts the booking customer first and drops duplicates.
func normalizeParticipants(customerID uuid.UUID, in []uuid.UUID) ([]uuid.UUID, error) {
	seen := map[uuid.UUID]struct{}{customerID: {}}
	out := []uuid.UUID{customerID}
	for _, id := range in {
		if id == uuid.Nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) < 2 {
		return nil, ErrChallengeParticipants
	}
	return out, nil
}
