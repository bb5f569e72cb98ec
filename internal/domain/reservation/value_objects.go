package reservation

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidTimeSlot = errors.New("start time must be before end time")

// TimeSlot is the half-open window [start, end).
type TimeSlot struct {
	start time.Time
	end   time.Time
}

func NewTimeSlot(start, end time.Time) (TimeSlot, error) {
	if !start.Before(end) {
		return TimeSlot{}, ErrInvalidTimeSlot
	}
	return TimeSlot{start: start, end: end}, nil
}

func SlotFor(start time.Time, durationMinutes int) (TimeSlot, error) {
	return NewTimeSlot(start, start.Add(time.Duration(durationMinutes)*time.Minute))
}

func (ts TimeSlot) Start() time.Time {
	return ts.start
}

func (ts TimeSlot) End() time.Time {
	return ts.end
}

func (ts TimeSlot) Duration() time.Duration {
	return ts.end.Sub(ts.start)
}

// Overlaps: existing.start < new.end && existing.end > new.start. Back-to-back
// windows do not overlap.
func (ts TimeSlot) Overlaps(other TimeSlot) bool {
	return ts.start.Before(other.end) && ts.end.After(other.start)
}

func (ts TimeSlot) ToTstzrange() string {
	return fmt.Sprintf("[%s,%s)", ts.start.Format(time.RFC3339), ts.end.Format(time.RFC3339))
}

// NormalizedStart is the lock-key form of the start: UTC, truncated to the minute.
func (ts TimeSlot) NormalizedStart() string {
	return ts.start.UTC().Truncate(time.Minute).Format(time.RFC3339)
}
