package stats

import (
	"math"
	"time"

	"github.com/pkordes/walklog/backend/internal/domain"
)

// Point scale of the chance-of-poop estimator.
const (
	maxCounter       = 10.0
	counterReduction = 5.0
	hourlyIncrease   = 0.3
	morningBonus     = 1.5
	eveningBonus     = 0.8
	curveExponent    = 1.5
	sameDayDampening = 0.6
)

// EventChance estimates the probability, in [0,1], that the dog poops during
// candidate given the history in all.
//
// The candidate itself is excluded from history by ID. The most recent poop
// is the last matching entry by slice position, so callers control what
// "recent" means through ordering; the slice is not re-sorted. Elapsed hours
// are not clamped: a candidate that starts before that poop lowers the counter.
func EventChance(all []domain.Entry, candidate domain.Entry, loc *time.Location) float64 {
	loc = orLocal(loc)

	previous := make([]domain.Entry, 0, len(all))
	for _, e := range all {
		if e.ID != candidate.ID {
			previous = append(previous, e)
		}
	}

	var lastPoop *domain.Entry
	for i := len(previous) - 1; i >= 0; i-- {
		if previous[i].Poops > 0 {
			lastPoop = &previous[i]
			break
		}
	}

	counter := maxCounter * 0.5
	if lastPoop != nil {
		hours := candidate.StartTime.Sub(lastPoop.StartTime).Hours()
		counter = math.Max(0, maxCounter-counterReduction) + hours*hourlyIncrease
	}

	switch hour := candidate.StartTime.In(loc).Hour(); {
	case hour >= 6 && hour <= 9:
		counter += morningBonus
	case hour >= 17 && hour <= 20:
		counter += eveningBonus
	}

	counter = clamp(counter, 0, maxCounter)
	probability := math.Pow(counter/maxCounter, curveExponent)

	today := DayKey(candidate.StartTime, loc)
	poopsToday := 0
	for _, e := range previous {
		if e.Poops > 0 && DayKey(e.StartTime, loc) == today {
			poopsToday++
		}
	}
	if poopsToday >= 1 {
		probability *= math.Pow(sameDayDampening, float64(poopsToday))
	}

	return clamp(probability, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
