package pricing

import (
	"fmt"
	"strings"
	"time"
)

type PeakPolicy interface {
	IsPeak(t time.Time) bool
}

// WindowPeakPolicy marks [StartHour, EndHour) on the listed weekdays, evaluated in
// the venue's local time zone.
type WindowPeakPolicy struct {
	location  *time.Location
	days      map[time.Weekday]struct{}
	startHour int
	endHour   int
}

func NewWindowPeakPolicy(loc *time.Location, days []time.Weekday, startHour, endHour int) *WindowPeakPolicy {
	set := make(map[time.Weekday]struct{}, len(days))
	for _, d := range days {
		set[d] = struct{}{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &WindowPeakPolicy{location: loc, days: set, startHour: startHour, endHour: endHour}
}

// NewDefaultPeakPolicy: Friday, Saturday and Sunday, 18:00 to 22:00 local time.
func NewDefaultPeakPolicy(loc *time.Location) *WindowPeakPolicy {
	return NewWindowPeakPolicy(loc, []time.Weekday{time.Friday, time.Saturday, time.Sunday}, 18, 22)
}

func (p *WindowPeakPolicy) IsPeak(t time.Time) bool {
	local := t.In(p.location)
	if _, ok := p.days[local.Weekday()]; !ok {
		return false
	}
	hour := local.Hour()
	return hour >= p.startHour && hour < p.endHour
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
}

func ParseWeekdays(names []string) ([]time.Weekday, error) {
	days := make([]time.Weekday, 0, len(names))
	for _, n := range names {
		key := strings.ToLower(strings.TrimSpace(n))
		if len(key) > 3 {
			key = key[:3]
		}
		d, ok := weekdayNames[key]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", n)
		}
		days = append(days, d)
	}
	return days, nil
}
