package session

import "time"

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusEnded     Status = "ended"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusActive, StatusPaused, StatusEnded, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusEnded || s == StatusCancelled
}

// OccupiesStation: a station is occupied iff exactly one of its sessions is in
// one of these states.
func (s Status) OccupiesStation() bool {
	return s == StatusActive || s == StatusPaused
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// PauseRecord is one entry of the pause history. End is nil while the pause is open.
type PauseRecord struct {
	Start           time.Time  `json:"start"`
	End             *time.Time `json:"end,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
	Reason          string     `json:"reason,omitempty"`
	Actor           string     `json:"actor"`
}

type action string

const (
	actionStart  action = "start"
	actionPause  action = "pause"
	actionResume action = "resume"
	actionExtend action = "extend"
	actionEnd    action = "end"
	actionCancel action = "cancel"
)

var transitionMap = map[action][]Status{
	actionStart:  {StatusScheduled},
	actionPause:  {StatusActive},
	actionResume: {StatusPaused},
	actionExtend: {StatusActive},
	actionEnd:    {StatusActive, StatusPaused},
	actionCancel: {StatusScheduled, StatusActive, StatusPaused},
}

func validTransition(a action, from Status) bool {
	for _, s := range transitionMap[a] {
		if s == from {
			return true
		}
	}
	return false
}

// elapsedMinutes rounds a wall-clock span to whole minutes, half away from zero.
func elapsedMinutes(from, to time.Time) int {
	d := to.Sub(from)
	if d <= 0 {
		return 0
	}
	return int(d.Round(time.Minute) / time.Minute)
}
