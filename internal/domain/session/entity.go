package session

import (
	"time"

	"gamezone-booking/internal/domain/pricing"
	"gamezone-booking/internal/domain/user"
	"gamezone-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidTransition    = errs.Conflict("session is not in a state that allows this action")
	ErrAlreadyPaused        = errs.Conflict("session is already paused")
	ErrNoOpenPause          = errs.Conflict("session has no open pause")
	ErrInvalidExtension     = errs.Validation("extension must be at least one minute")
	ErrInvalidDuration      = errs.Validation("booked duration must be at least one minute")
	ErrNotChallenge         = errs.Conflict("session is not a challenge")
	ErrChallengeNotEnded    = errs.Conflict("winner can only be selected after the challenge has ended")
	ErrWinnerAlreadyChosen  = errs.Conflict("winner already selected")
	ErrWinnerNotParticipant = errs.Validation("winner is not a participant of the challenge")
)

type Session struct {
	id                uuid.UUID
	stationID         uuid.UUID
	stationTypeID     uuid.UUID
	customerID        uuid.UUID
	reservationID     *uuid.UUID
	queueEntryID      *uuid.UUID
	ratePlan          pricing.RatePlan
	status            Status
	scheduledStart    time.Time
	actualStart       *time.Time
	endTime           time.Time
	actualEnd         *time.Time
	duration          int
	baseAmount        pricing.Money
	finalAmount       *pricing.Money
	extensionAmount   pricing.Money
	paymentStatus     PaymentStatus
	paymentRef        string
	pauseHistory      []PauseRecord
	totalPaused       int
	currentPauseStart *time.Time
	extended          bool
	challenge         bool
	participants      []uuid.UUID
	winnerID          *uuid.UUID
	billedTo          []uuid.UUID
	version           int
	createdAt         time.Time
	updatedAt         time.Time
}

// Grant is what a confirmed reservation or a promoted queue entry hands over
// to a new session.
type Grant struct {
	StationID       uuid.UUID
	StationTypeID   uuid.UUID
	CustomerID      uuid.UUID
	ReservationID   *uuid.UUID
	QueueEntryID    *uuid.UUID
	RatePlan        pricing.RatePlan
	DurationMinutes int
	BaseAmount      pricing.Money
	PaymentRef      string
	StartTime       time.Time
	Challenge       bool
	Participants    []uuid.UUID
}

// NewActive grants the station immediately: the session starts now.
func NewActive(g Grant, now time.Time) (*Session, error) {
	s, err := newSession(g, now)
	if err != nil {
		return nil, err
	}
	s.activate(now)
	return s, nil
}

// NewScheduled creates a session for a future window. It does not occupy the
// station until Start.
func NewScheduled(g Grant, now time.Time) (*Session, error) {
	s, err := newSession(g, now)
	if err != nil {
		return nil, err
	}
	s.status = StatusScheduled
	s.endTime = g.StartTime.Add(minutes(g.DurationMinutes))
	return s, nil
}

func newSession(g Grant, now time.Time) (*Session, error) {
	if g.DurationMinutes < 1 {
		return nil, ErrInvalidDuration
	}
	start := g.StartTime
	if start.IsZero() {
		start = now
	}
	paymentStatus := PaymentPending
	if g.PaymentRef != "" {
		paymentStatus = PaymentPaid
	}
	return &Session{
		id:             uuid.New(),
		stationID:      g.StationID,
		stationTypeID:  g.StationTypeID,
		customerID:     g.CustomerID,
		reservationID:  copyID(g.ReservationID),
		queueEntryID:   copyID(g.QueueEntryID),
		ratePlan:       g.RatePlan,
		scheduledStart: start,
		duration:       g.DurationMinutes,
		baseAmount:     g.BaseAmount,
		paymentStatus:  paymentStatus,
		paymentRef:     g.PaymentRef,
		challenge:      g.Challenge,
		participants:   append([]uuid.UUID(nil), g.Participants...),
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

func (s *Session) activate(now time.Time) {
	start := now
	s.actualStart = &start
	s.endTime = now.Add(minutes(s.duration))
	s.status = StatusActive
	s.touch(now)
}

// Start activates a scheduled session. The caller occupies the station in the
// same transaction.
func (s *Session) Start(now time.Time) error {
	if !validTransition(actionStart, s.status) {
		return ErrInvalidTransition
	}
	s.activate(now)
	return nil
}

func (s *Session) Pause(reason string, actor user.Actor, now time.Time) error {
	if s.status == StatusPaused {
		return ErrAlreadyPaused
	}
	if !validTransition(actionPause, s.status) {
		return ErrInvalidTransition
	}
	start := now
	s.currentPauseStart = &start
	s.pauseHistory = append(s.pauseHistory, PauseRecord{
		Start:  now,
		Reason: reason,
		Actor:  actor.Label(),
	})
	s.status = StatusPaused
	s.touch(now)
	return nil
}

// Resume closes the open pause and pushes endTime out by its length; pauses do
// not consume booked time. Returns the pause length in minutes.
func (s *Session) Resume(now time.Time) (int, error) {
	if !validTransition(actionResume, s.status) {
		return 0, ErrInvalidTransition
	}
	if s.currentPauseStart == nil {
		return 0, ErrNoOpenPause
	}
	paused := s.closePause(now)
	s.endTime = s.endTime.Add(minutes(paused))
	s.status = StatusActive
	s.touch(now)
	return paused, nil
}

func (s *Session) closePause(now time.Time) int {
	paused := elapsedMinutes(*s.currentPauseStart, now)
	if n := len(s.pauseHistory); n > 0 && s.pauseHistory[n-1].End == nil {
		end := now
		s.pauseHistory[n-1].End = &end
		s.pauseHistory[n-1].DurationMinutes = paused
	}
	s.totalPaused += paused
	s.currentPauseStart = nil
	return paused
}

// Extend adds booked time and returns the charge for it alone. The charge is
// collected as a separate payment; baseAmount is left as it was.
func (s *Session) Extend(additionalMinutes int, calc pricing.Calculator, isPeak bool, now time.Time) (pricing.Money, error) {
	if additionalMinutes < 1 {
		return pricing.Money{}, ErrInvalidExtension
	}
	if !validTransition(actionExtend, s.status) {
		return pricing.Money{}, ErrInvalidTransition
	}
	charge := calc.Price(s.ratePlan, additionalMinutes, isPeak)
	s.endTime = s.endTime.Add(minutes(additionalMinutes))
	s.duration += additionalMinutes
	s.extensionAmount = s.extensionAmount.Add(charge)
	s.extended = true
	if !charge.IsZero() {
		s.paymentStatus = PaymentPending
	}
	s.touch(now)
	return charge, nil
}

// Settlement is the outcome of ending a session.
type Settlement struct {
	UsageMinutes int
	// FinalAmount is the whole charge for the session, extensions included.
	// It is nil for a challenge until a winner is selected.
	FinalAmount *pricing.Money
	// ReleasedStation reports whether the session was holding its station.
	ReleasedStation bool
}

// End settles the session. Unused booked time is not charged: usage below the
// booked duration, extensions included, is re-priced as one stretch with the
// peak flag of the actual start and never above what was booked.
func (s *Session) End(calc pricing.Calculator, peak pricing.PeakPolicy, now time.Time) (Settlement, error) {
	if !validTransition(actionEnd, s.status) {
		return Settlement{}, ErrInvalidTransition
	}
	if s.status == StatusPaused && s.currentPauseStart != nil {
		s.closePause(now)
	}

	started := s.scheduledStart
	if s.actualStart != nil {
		started = *s.actualStart
	}
	usage := elapsedMinutes(started, now) - s.totalPaused
	if usage < 0 {
		usage = 0
	}

	end := now
	s.actualEnd = &end
	s.status = StatusEnded
	s.touch(now)

	settlement := Settlement{UsageMinutes: usage, ReleasedStation: true}
	if s.challenge {
		return settlement, nil
	}

	final := s.bookedAmount()
	if usage < s.duration {
		if used := calc.Price(s.ratePlan, usage, peak.IsPeak(started)); used.LessThan(final) {
			final = used
		}
	}
	s.finalAmount = &final
	settlement.FinalAmount = &final
	return settlement, nil
}

// Cancel is reachable from any non-terminal state. It reports whether the
// session was holding its station.
func (s *Session) Cancel(now time.Time) (bool, error) {
	if !validTransition(actionCancel, s.status) {
		return false, ErrInvalidTransition
	}
	held := s.status.OccupiesStation()
	if s.currentPauseStart != nil {
		s.closePause(now)
	}
	end := now
	s.actualEnd = &end
	s.status = StatusCancelled
	s.touch(now)
	return held, nil
}

// SelectWinner records the challenge winner. Every other participant is billed
// the booked amount; this is not a pricing event.
func (s *Session) SelectWinner(winnerID uuid.UUID, now time.Time) error {
	if !s.challenge {
		return ErrNotChallenge
	}
	if s.status != StatusEnded {
		return ErrChallengeNotEnded
	}
	if s.winnerID != nil {
		return ErrWinnerAlreadyChosen
	}
	found := false
	billed := make([]uuid.UUID, 0, len(s.participants))
	for _, p := range s.participants {
		if p == winnerID {
			found = true
			continue
		}
		billed = append(billed, p)
	}
	if !found {
		return ErrWinnerNotParticipant
	}
	w := winnerID
	s.winnerID = &w
	s.billedTo = billed
	final := s.bookedAmount()
	s.finalAmount = &final
	s.touch(now)
	return nil
}

func (s *Session) bookedAmount() pricing.Money {
	return s.baseAmount.Add(s.extensionAmount)
}

// MarkPaid records a pure payment confirmation. No state transition happens.
func (s *Session) MarkPaid(paymentRef string, now time.Time) {
	s.paymentStatus = PaymentPaid
	if paymentRef != "" {
		s.paymentRef = paymentRef
	}
	s.touch(now)
}

func (s *Session) touch(now time.Time) {
	s.updatedAt = now
}

func (s *Session) ID() uuid.UUID                  { return s.id }
func (s *Session) StationID() uuid.UUID           { return s.stationID }
func (s *Session) StationTypeID() uuid.UUID       { return s.stationTypeID }
func (s *Session) CustomerID() uuid.UUID          { return s.customerID }
func (s *Session) ReservationID() *uuid.UUID      { return copyID(s.reservationID) }
func (s *Session) QueueEntryID() *uuid.UUID       { return copyID(s.queueEntryID) }
func (s *Session) RatePlan() pricing.RatePlan     { return s.ratePlan }
func (s *Session) Status() Status                 { return s.status }
func (s *Session) ScheduledStart() time.Time      { return s.scheduledStart }
func (s *Session) ActualStart() *time.Time        { return copyTime(s.actualStart) }
func (s *Session) EndTime() time.Time             { return s.endTime }
func (s *Session) ActualEnd() *time.Time          { return copyTime(s.actualEnd) }
func (s *Session) DurationMinutes() int           { return s.duration }
func (s *Session) BaseAmount() pricing.Money      { return s.baseAmount }
func (s *Session) ExtensionAmount() pricing.Money { return s.extensionAmount }
func (s *Session) PaymentStatus() PaymentStatus   { return s.paymentStatus }
func (s *Session) PaymentRef() string             { return s.paymentRef }
func (s *Session) TotalPausedMinutes() int        { return s.totalPaused }
func (s *Session) CurrentPauseStart() *time.Time  { return copyTime(s.currentPauseStart) }
func (s *Session) Extended() bool                 { return s.extended }
func (s *Session) IsChallenge() bool              { return s.challenge }
func (s *Session) Participants() []uuid.UUID      { return append([]uuid.UUID(nil), s.participants...) }
func (s *Session) WinnerID() *uuid.UUID           { return copyID(s.winnerID) }
func (s *Session) BilledTo() []uuid.UUID          { return append([]uuid.UUID(nil), s.billedTo...) }
func (s *Session) Version() int                   { return s.version }
func (s *Session) CreatedAt() time.Time           { return s.createdAt }
func (s *Session) UpdatedAt() time.Time           { return s.updatedAt }

func (s *Session) FinalAmount() *pricing.Money {
	if s.finalAmount == nil {
		return nil
	}
	v := *s.finalAmount
	return &v
}

func (s *Session) PauseHistory() []PauseRecord {
	return clonePauses(s.pauseHistory)
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func clonePauses(in []PauseRecord) []PauseRecord {
	if in == nil {
		return nil
	}
	out := make([]PauseRecord, len(in))
	for i, p := range in {
		p.End = copyTime(p.End)
		out[i] = p
	}
	return out
}
