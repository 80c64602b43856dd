package stats

import (
	"time"

	"github.com/pkordes/walklog/backend/internal/domain"
)

// PoopPeePoint is one day of the indoor/outdoor poop and pee chart.
type PoopPeePoint struct {
	Date         string
	DisplayDate  string
	OutsidePoops float64
	OutsidePees  float64
	InsidePoops  float64
	InsidePees   float64
}

// TripsPoint is one day of the trips-per-day chart.
type TripsPoint struct {
	Date        string
	DisplayDate string
	Trips       int
}

// PoopPeeSeries sums poops and pees per day, split by effective location.
// Auto entries always land in the outside columns. The series is sparse and
// ordered oldest first.
func PoopPeeSeries(entries []domain.Entry, loc *time.Location) []PoopPeePoint {
	buckets := BucketByDay(entries, loc)
	out := make([]PoopPeePoint, 0, len(buckets))
	for _, b := range buckets {
		p := PoopPeePoint{Date: b.Date, DisplayDate: DisplayDate(b.Date)}
		for _, e := range b.Entries {
			if e.IsOutside() {
				p.OutsidePoops += e.Poops
				p.OutsidePees += e.Pees
			} else {
				p.InsidePoops += e.Poops
				p.InsidePees += e.Pees
			}
		}
		out = append(out, p)
	}
	return out
}

// TripsPerDaySeries counts outdoor entries per day, oldest first.
//
// Only the stored location is checked here: an auto entry whose stored
// location is "inside" is not counted, unlike every other aggregate in this
// package.
func TripsPerDaySeries(entries []domain.Entry, loc *time.Location) []TripsPoint {
	var outside []domain.Entry
	for _, e := range entries {
		if e.Location == domain.LocationOutside {
			outside = append(outside, e)
		}
	}

	buckets := BucketByDay(outside, loc)
	out := make([]TripsPoint, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, TripsPoint{
			Date:        b.Date,
			DisplayDate: DisplayDate(b.Date),
			Trips:       len(b.Entries),
		})
	}
	return out
}
