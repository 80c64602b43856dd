package stats

import (
	"fmt"
	"time"
)

// Period selects the slice of history a summary or chart covers.
type Period string

const (
	PeriodAll   Period = "all"
	PeriodWeek  Period = "week"
	PeriodToday Period = "today"
)

// ParsePeriod validates a period name. The empty string means PeriodAll.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case "":
		return PeriodAll, nil
	case PeriodAll, PeriodWeek, PeriodToday:
		return p, nil
	default:
		return "", fmt.Errorf("unknown period %q", s)
	}
}

// Bounds returns the half-open [from, to) interval of p around now in loc.
// Weeks start on Monday. ok is false for PeriodAll, which is unbounded.
func (p Period) Bounds(now time.Time, loc *time.Location) (from, to time.Time, ok bool) {
	now = now.In(orLocal(loc))
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch p {
	case PeriodToday:
		return midnight, midnight.AddDate(0, 0, 1), true
	case PeriodWeek:
		wd := int(now.Weekday())
		if wd == 0 {
			wd = 7 // Sunday closes the ISO week
		}
		monday := midnight.AddDate(0, 0, -(wd - 1))
		return monday, monday.AddDate(0, 0, 7), true
	default:
		return time.Time{}, time.Time{}, false
	}
}
