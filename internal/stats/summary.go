package stats

import (
	"math"
	"sort"
	"time"

	"github.com/pkordes/walklog/backend/internal/domain"
)

const (
	// MinWalkerTripMinutes filters accidental starts out of the leaderboard.
	MinWalkerTripMinutes = 3.0
	// TopWalkerLimit caps the leaderboard length.
	TopWalkerLimit = 5
	// NoLocation is reported as the most common location of an empty input.
	NoLocation = "N/A"
)

// WalkerCount is one leaderboard row.
type WalkerCount struct {
	User  domain.User
	Trips int
}

// Summary holds the aggregate numbers shown on the stats page.
// Durations are in minutes; rates and percentages are fractions in [0,1].
type Summary struct {
	// TotalTrips counts completed outdoor trips, not all entries.
	TotalTrips         int
	TotalPoops         float64
	TotalPees          float64
	AverageTripsPerDay float64
	MostCommonLocation string
	LongestTrip        float64
	SuccessRate        float64
	OutdoorPercentage  float64
	// AverageTripDuration is NaN when there are no completed outdoor trips.
	AverageTripDuration float64
	TopWalkers          []WalkerCount
}

// Calculate computes the Summary for entries. Empty input yields a zeroed
// summary with MostCommonLocation set to NoLocation.
func Calculate(entries []domain.Entry, loc *time.Location) Summary {
	if len(entries) == 0 {
		return Summary{
			MostCommonLocation: NoLocation,
			TopWalkers:         []WalkerCount{},
		}
	}

	var (
		outdoorTrips          []domain.Entry
		withToiletVisits      int
		outdoorWithToilet     int
		totalPoops, totalPees float64
		longest               float64
	)
	for _, e := range entries {
		totalPoops += e.Poops
		totalPees += e.Pees

		if d, ok := e.DurationMinutes(); ok {
			longest = math.Max(longest, d)
		}

		outdoor := e.IsOutside() && e.EndTime != nil
		if outdoor {
			outdoorTrips = append(outdoorTrips, e)
		}
		if e.HasToiletVisit() {
			withToiletVisits++
			if outdoor {
				outdoorWithToilet++
			}
		}
	}

	totalTrips := len(outdoorTrips)
	days := len(BucketByDay(entries, loc))

	successRate := 1.0
	if withToiletVisits > 0 {
		successRate = float64(outdoorWithToilet) / float64(withToiletVisits)
	}

	var totalDuration float64
	for _, e := range outdoorTrips {
		if d, ok := e.DurationMinutes(); ok && d > 0 {
			totalDuration += d
		}
	}

	return Summary{
		TotalTrips:          totalTrips,
		TotalPoops:          totalPoops,
		TotalPees:           totalPees,
		AverageTripsPerDay:  float64(totalTrips) / float64(days),
		MostCommonLocation:  mostCommonLocation(entries),
		LongestTrip:         longest,
		SuccessRate:         successRate,
		OutdoorPercentage:   float64(totalTrips) / float64(len(entries)),
		AverageTripDuration: totalDuration / float64(totalTrips), // NaN when totalTrips == 0
		TopWalkers:          topWalkers(outdoorTrips),
	}
}

// mostCommonLocation returns the effective location seen most often.
// On a tie the location encountered first wins.
func mostCommonLocation(entries []domain.Entry) string {
	var order []domain.Location
	counts := make(map[domain.Location]int)
	for _, e := range entries {
		l := e.EffectiveLocation()
		if _, ok := counts[l]; !ok {
			order = append(order, l)
		}
		counts[l]++
	}

	best, bestCount := NoLocation, 0
	for _, l := range order {
		if counts[l] > bestCount {
			best, bestCount = string(l), counts[l]
		}
	}
	return best
}

// topWalkers ranks users by qualifying trips. A trip qualifies when it lasted
// at least MinWalkerTripMinutes. Ties keep first-appearance order.
func topWalkers(outdoorTrips []domain.Entry) []WalkerCount {
	index := make(map[string]int)
	var rows []WalkerCount
	for _, e := range outdoorTrips {
		if len(e.Users) == 0 {
			continue
		}
		d, ok := e.DurationMinutes()
		if !ok || d < MinWalkerTripMinutes {
			continue
		}
		for _, u := range e.Users {
			key := domain.NormalizeEmail(u.Email)
			i, seen := index[key]
			if !seen {
				i = len(rows)
				index[key] = i
				rows = append(rows, WalkerCount{User: u})
			}
			rows[i].Trips++
		}
	}

	sort.SliceStable(rows, func(a, b int) bool { return rows[a].Trips > rows[b].Trips })
	if len(rows) > TopWalkerLimit {
		rows = rows[:TopWalkerLimit]
	}
	if rows == nil {
		rows = []WalkerCount{}
	}
	return rows
}
