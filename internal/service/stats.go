package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/walklog/backend/internal/domain"
	"github.com/pkordes/walklog/backend/internal/repo"
	"github.com/pkordes/walklog/backend/internal/stats"
)

// Series bundles both chart series for one period.
type Series struct {
	PoopPee     []stats.PoopPeePoint
	TripsPerDay []stats.TripsPoint
}

// Today is the quick-stats strip: today's completed entries summarized,
// plus the most recent completed outdoor trip (nil if there is none).
type Today struct {
	Summary  stats.Summary
	Entries  int
	LastTrip *domain.Entry
}

// StatsService loads entries and hands them to the pure stats package.
// All calendar arithmetic happens in loc.
type StatsService struct {
	entries repo.EntryRepo
	loc     *time.Location
	now     func() time.Time
}

// NewStatsService constructs a StatsService reading from r and bucketing days in loc.
func NewStatsService(r repo.EntryRepo, loc *time.Location) *StatsService {
	return &StatsService{entries: r, loc: loc, now: time.Now}
}

// WithClock replaces the time source. Used by tests.
func (s *StatsService) WithClock(now func() time.Time) *StatsService {
	s.now = now
	return s
}

// Location returns the calendar location used for day bucketing.
func (s *StatsService) Location() *time.Location {
	return s.loc
}

// Summary computes the summary statistics over period.
func (s *StatsService) Summary(ctx context.Context, period stats.Period) (stats.Summary, error) {
	entries, err := s.load(ctx, period)
	if err != nil {
		return stats.Summary{}, fmt.Errorf("service.StatsService.Summary: %w", err)
	}
	return stats.Calculate(entries, s.loc), nil
}

// Series builds both chart series over period.
func (s *StatsService) Series(ctx context.Context, period stats.Period) (Series, error) {
	entries, err := s.load(ctx, period)
	if err != nil {
		return Series{}, fmt.Errorf("service.StatsService.Series: %w", err)
	}
	return Series{
		PoopPee:     stats.PoopPeeSeries(entries, s.loc),
		TripsPerDay: stats.TripsPerDaySeries(entries, s.loc),
	}, nil
}

// Today summarizes today's completed entries and finds the last outdoor trip.
func (s *StatsService) Today(ctx context.Context) (Today, error) {
	all, err := s.entries.List(ctx)
	if err != nil {
		return Today{}, fmt.Errorf("service.StatsService.Today: %w", err)
	}

	today := stats.DayKey(s.now(), s.loc)
	var completedToday []domain.Entry
	var last *domain.Entry
	for i, e := range all {
		if e.Status != domain.StatusCompleted {
			continue
		}
		if stats.DayKey(e.StartTime, s.loc) == today {
			completedToday = append(completedToday, e)
		}
		// List is newest first, so the first match is the latest trip.
		if last == nil && e.Location == domain.LocationOutside {
			last = &all[i]
		}
	}

	return Today{
		Summary:  stats.Calculate(completedToday, s.loc),
		Entries:  len(completedToday),
		LastTrip: last,
	}, nil
}

// Chance estimates the chance of poop for the stored entry id against the
// whole history. History is handed to the estimator oldest first, so the
// last poop by position is also the latest one in time.
func (s *StatsService) Chance(ctx context.Context, id uuid.UUID) (float64, error) {
	candidate, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("service.StatsService.Chance: %w", err)
	}
	history, err := s.entries.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("service.StatsService.Chance: %w", err)
	}

	chronological := slices.Clone(history)
	slices.SortStableFunc(chronological, func(a, b domain.Entry) int {
		return a.StartTime.Compare(b.StartTime)
	})
	return stats.EventChance(chronological, candidate, s.loc), nil
}

// load fetches the entries of period. Unbounded periods read everything.
func (s *StatsService) load(ctx context.Context, period stats.Period) ([]domain.Entry, error) {
	from, to, bounded := period.Bounds(s.now(), s.loc)
	if !bounded {
		return s.entries.List(ctx)
	}
	return s.entries.ListBetween(ctx, from, to)
}
