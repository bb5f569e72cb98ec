package waitlist

import (
	"sort"
	"time"
)

// NextPosition is max(existing positions in line) + 1.
func NextPosition(entries []*Entry) int {
	highest := 0
	for _, e := range entries {
		if e.status.InLine() && e.position > highest {
			highest = e.position
		}
	}
	return highest + 1
}

// Head returns the lowest-position waiting entry, or nil.
func Head(entries []*Entry) *Entry {
	var head *Entry
	for _, e := range entries {
		if e.status != StatusWaiting {
			continue
		}
		if head == nil || before(e, head) {
			head = e
		}
	}
	return head
}

// Compact renumbers the entries still in line to 1..N, keeping their relative
// order. Entries that left the line are ignored. It returns only the entries
// whose position changed.
func Compact(entries []*Entry, now time.Time) []*Entry {
	line := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		if e.status.InLine() {
			line = append(line, e)
		}
	}
	sort.SliceStable(line, func(i, j int) bool { return before(line[i], line[j]) })

	var changed []*Entry
	for i, e := range line {
		if e.position != i+1 {
			e.position = i + 1
			e.updatedAt = now
			changed = append(changed, e)
		}
	}
	return changed
}

func before(a, b *Entry) bool {
	if a.position != b.position {
		return a.position < b.position
	}
	return a.createdAt.Before(b.createdAt)
}

// Standing is a customer's place in line.
type Standing struct {
	Position             int
	AheadCount           int
	EstimatedWaitMinutes int
}

// StandingOf counts the waiting entries ahead of target. The wait estimate is a
// flat per-customer turnover, a rough heuristic rather than a promise.
func StandingOf(target *Entry, entries []*Entry, turnoverMinutes int) Standing {
	ahead := 0
	for _, e := range entries {
		if e.id == target.id || e.status != StatusWaiting {
			continue
		}
		if before(e, target) {
			ahead++
		}
	}
	return Standing{
		Position:             target.position,
		AheadCount:           ahead,
		EstimatedWaitMinutes: EstimateWait(ahead, turnoverMinutes),
	}
}

func EstimateWait(aheadCount, turnoverMinutes int) int {
	if aheadCount < 0 || turnoverMinutes < 0 {
		return 0
	}
	return (aheadCount + 1) * turnoverMinutes
}
