package handler

import (
	"fmt"
	"math"
	"net/http"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/walklog/backend/internal/domain"
	"github.com/pkordes/walklog/backend/internal/stats"
)

// WalkerCount is one leaderboard row.
type WalkerCount struct {
	User  User `json:"user"`
	Trips int  `json:"trips"`
}

// Summary is the wire form of stats.Summary. AverageTripDuration is null
// when there were no completed outdoor trips.
type Summary struct {
	TotalTrips          int           `json:"total_trips"`
	TotalPoops          float64       `json:"total_poops"`
	TotalPees           float64       `json:"total_pees"`
	AverageTripsPerDay  float64       `json:"average_trips_per_day"`
	MostCommonLocation  string        `json:"most_common_location"`
	LongestTrip         float64       `json:"longest_trip"`
	SuccessRate         float64       `json:"success_rate"`
	OutdoorPercentage   float64       `json:"outdoor_percentage"`
	AverageTripDuration *float64      `json:"average_trip_duration"`
	TopWalkers          []WalkerCount `json:"top_walkers"`
}

// PoopPeePoint is one day of the poop/pee chart.
type PoopPeePoint struct {
	Date         openapi_types.Date `json:"date"`
	DisplayDate  string             `json:"display_date"`
	OutsidePoops float64            `json:"outside_poops"`
	OutsidePees  float64            `json:"outside_pees"`
	InsidePoops  float64            `json:"inside_poops"`
	InsidePees   float64            `json:"inside_pees"`
}

// TripsPoint is one day of the trips chart.
type TripsPoint struct {
	Date        openapi_types.Date `json:"date"`
	DisplayDate string             `json:"display_date"`
	Trips       int                `json:"trips"`
}

// Series is the body of GET /stats/series.
type Series struct {
	PoopPee     []PoopPeePoint `json:"poop_pee"`
	TripsPerDay []TripsPoint   `json:"trips_per_day"`
}

// Today is the body of GET /stats/today.
type Today struct {
	Summary  Summary `json:"summary"`
	Entries  int     `json:"entries"`
	LastTrip *Entry  `json:"last_trip"`
}

// Chance is the body of GET /entries/{id}/chance.
type Chance struct {
	EntryId openapi_types.UUID `json:"entry_id"`
	Chance  float64            `json:"chance"`
}

// GetSummary handles GET /stats/summary?period=all|week|today.
func (s *Server) GetSummary(w http.ResponseWriter, r *http.Request) {
	period, err := queryPeriod(r)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	sum, err := s.stats.Summary(r.Context(), period)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, summaryToResponse(sum))
}

// GetSeries handles GET /stats/series?period=all|week|today.
func (s *Server) GetSeries(w http.ResponseWriter, r *http.Request) {
	period, err := queryPeriod(r)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	series, err := s.stats.Series(r.Context(), period)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	resp := Series{
		PoopPee:     make([]PoopPeePoint, len(series.PoopPee)),
		TripsPerDay: make([]TripsPoint, len(series.TripsPerDay)),
	}
	for i, p := range series.PoopPee {
		resp.PoopPee[i] = PoopPeePoint{
			Date:         dayToDate(p.Date),
			DisplayDate:  p.DisplayDate,
			OutsidePoops: p.OutsidePoops,
			OutsidePees:  p.OutsidePees,
			InsidePoops:  p.InsidePoops,
			InsidePees:   p.InsidePees,
		}
	}
	for i, p := range series.TripsPerDay {
		resp.TripsPerDay[i] = TripsPoint{
			Date:        dayToDate(p.Date),
			DisplayDate: p.DisplayDate,
			Trips:       p.Trips,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetToday handles GET /stats/today.
func (s *Server) GetToday(w http.ResponseWriter, r *http.Request) {
	today, err := s.stats.Today(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	resp := Today{
		Summary: summaryToResponse(today.Summary),
		Entries: today.Entries,
	}
	if today.LastTrip != nil {
		last := entryToResponse(*today.LastTrip)
		resp.LastTrip = &last
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetEntryChance handles GET /entries/{id}/chance.
func (s *Server) GetEntryChance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	chance, err := s.stats.Chance(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "entry not found")
		return
	}
	writeJSON(w, http.StatusOK, Chance{EntryId: id, Chance: chance})
}

// --- mapping helpers --------------------------------------------------------

func queryPeriod(r *http.Request) (stats.Period, error) {
	p, err := stats.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return p, nil
}

// summaryToResponse converts a stats.Summary into its wire form.
// JSON has no NaN, so a NaN average becomes null.
func summaryToResponse(sum stats.Summary) Summary {
	resp := Summary{
		TotalTrips:         sum.TotalTrips,
		TotalPoops:         sum.TotalPoops,
		TotalPees:          sum.TotalPees,
		AverageTripsPerDay: sum.AverageTripsPerDay,
		MostCommonLocation: sum.MostCommonLocation,
		LongestTrip:        sum.LongestTrip,
		SuccessRate:        sum.SuccessRate,
		OutdoorPercentage:  sum.OutdoorPercentage,
		TopWalkers:         make([]WalkerCount, len(sum.TopWalkers)),
	}
	if !math.IsNaN(sum.AverageTripDuration) {
		avg := sum.AverageTripDuration
		resp.AverageTripDuration = &avg
	}
	for i, wc := range sum.TopWalkers {
		resp.TopWalkers[i] = WalkerCount{User: userToResponse(wc.User), Trips: wc.Trips}
	}
	return resp
}

// dayToDate converts a YYYY-MM-DD bucket key into a date value.
func dayToDate(key string) openapi_types.Date {
	t, _ := time.Parse(time.DateOnly, key)
	return openapi_types.Date{Time: t}
}
