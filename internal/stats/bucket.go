// Package stats turns a snapshot of entries into chart series, summary
// statistics and the chance-of-poop estimate.
//
// Every function here is pure: it reads the slice it is given, never mutates
// it, and keeps no reference to it after returning. Callers supply the
// calendar location used to decide what "today" and "local hour" mean.
package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/pkordes/walklog/backend/internal/domain"
)

// Bucket holds the entries that started on one calendar day.
type Bucket struct {
	// Date is the canonical YYYY-MM-DD key.
	Date    string
	Entries []domain.Entry
}

// DayKey returns the YYYY-MM-DD calendar date of t in loc.
// A nil loc means time.Local.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(orLocal(loc)).Format(time.DateOnly)
}

// BucketByDay groups entries by the calendar day of their StartTime in loc.
// Buckets are returned oldest first; entries inside a bucket keep their
// input order. Days without entries are not synthesized.
func BucketByDay(entries []domain.Entry, loc *time.Location) []Bucket {
	index := make(map[string]int)
	var buckets []Bucket
	for _, e := range entries {
		key := DayKey(e.StartTime, loc)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, Bucket{Date: key})
		}
		buckets[i].Entries = append(buckets[i].Entries, e)
	}
	sort.Slice(buckets, func(a, b int) bool { return buckets[a].Date < buckets[b].Date })
	return buckets
}

// shortMonths are the Norwegian abbreviated month names used on chart axes.
var shortMonths = [...]string{
	"jan.", "feb.", "mar.", "apr.", "mai", "jun.",
	"jul.", "aug.", "sep.", "okt.", "nov.", "des.",
}

// DisplayDate renders a YYYY-MM-DD key as a short axis label such as "7. mar.".
// Keys that do not parse are returned unchanged.
func DisplayDate(date string) string {
	d, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return formatDayMonth(d)
}

func formatDayMonth(d time.Time) string {
	return fmt.Sprintf("%d. %s", d.Day(), shortMonths[d.Month()-1])
}

func orLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
