package service_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/walklog/backend/internal/domain"
	"github.com/pkordes/walklog/backend/internal/service"
	"github.com/pkordes/walklog/backend/internal/stats"
)

func completedWalk(start time.Time, minutes int, poops, pees float64) domain.Entry {
	end := start.Add(time.Duration(minutes) * time.Minute)
	return domain.Entry{
		ID:        uuid.New(),
		StartTime: start,
		EndTime:   &end,
		Status:    domain.StatusCompleted,
		Mode:      domain.ModeAuto,
		Location:  domain.LocationOutside,
		Poops:     poops,
		Pees:      pees,
	}
}

func newStatsService(r *mockEntryRepo, clock time.Time) *service.StatsService {
	return service.NewStatsService(r, time.UTC).WithClock(fixedClock(clock))
}

func TestStatsService_Summary_AllReadsEverything(t *testing.T) {
	entries := []domain.Entry{
		completedWalk(now.Add(-time.Hour), 20, 1, 1),
		completedWalk(now.Add(-48*time.Hour), 10, 0, 1),
	}
	r := &mockEntryRepo{
		list: func(_ context.Context) ([]domain.Entry, error) { return entries, nil },
		listBetween: func(_ context.Context, _, _ time.Time) ([]domain.Entry, error) {
			t.Fatal("ListBetween must not be called for the all period")
			return nil, nil
		},
	}
	svc := newStatsService(r, now)

	got, err := svc.Summary(context.Background(), stats.PeriodAll)

	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalTrips)
	assert.Equal(t, 1.0, got.TotalPoops)
	assert.Equal(t, 2.0, got.TotalPees)
}

func TestStatsService_Summary_TodayUsesBounds(t *testing.T) {
	var gotFrom, gotTo time.Time
	r := &mockEntryRepo{
		listBetween: func(_ context.Context, from, to time.Time) ([]domain.Entry, error) {
			gotFrom, gotTo = from, to
			return nil, nil
		},
	}
	svc := newStatsService(r, now)

	got, err := svc.Summary(context.Background(), stats.PeriodToday)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), gotFrom)
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), gotTo)
	assert.Equal(t, 0, got.TotalTrips)
	assert.Equal(t, 0.0, got.AverageTripDuration, "an empty period yields the zeroed summary")
}

func TestStatsService_Summary_IndoorOnlyPeriodHasNaNAverage(t *testing.T) {
	inside := domain.Entry{
		ID:        uuid.New(),
		StartTime: now.Add(-time.Hour),
		Status:    domain.StatusCompleted,
		Mode:      domain.ModeManual,
		Location:  domain.LocationInside,
		Pees:      1,
	}
	r := &mockEntryRepo{
		listBetween: func(_ context.Context, _, _ time.Time) ([]domain.Entry, error) {
			return []domain.Entry{inside}, nil
		},
	}
	svc := newStatsService(r, now)

	got, err := svc.Summary(context.Background(), stats.PeriodToday)

	require.NoError(t, err)
	assert.Equal(t, 0, got.TotalTrips)
	assert.True(t, math.IsNaN(got.AverageTripDuration))
}

func TestStatsService_Summary_RepoError(t *testing.T) {
	repoErr := errors.New("db exploded")
	r := &mockEntryRepo{list: func(_ context.Context) ([]domain.Entry, error) { return nil, repoErr }}
	svc := newStatsService(r, now)

	_, err := svc.Summary(context.Background(), stats.PeriodAll)

	assert.ErrorIs(t, err, repoErr)
}

func TestStatsService_Series(t *testing.T) {
	inside := domain.Entry{
		ID:        uuid.New(),
		StartTime: now.Add(-time.Hour),
		Status:    domain.StatusCompleted,
		Mode:      domain.ModeManual,
		Location:  domain.LocationInside,
		Pees:      1,
	}
	entries := []domain.Entry{completedWalk(now.Add(-2*time.Hour), 15, 1, 0), inside}
	r := &mockEntryRepo{list: func(_ context.Context) ([]domain.Entry, error) { return entries, nil }}
	svc := newStatsService(r, now)

	got, err := svc.Series(context.Background(), stats.PeriodAll)

	require.NoError(t, err)
	require.Len(t, got.PoopPee, 1)
	assert.Equal(t, "2025-06-01", got.PoopPee[0].Date)
	assert.Equal(t, 1.0, got.PoopPee[0].OutsidePoops)
	assert.Equal(t, 1.0, got.PoopPee[0].InsidePees)
	require.Len(t, got.TripsPerDay, 1)
	assert.Equal(t, 1, got.TripsPerDay[0].Trips)
}

func TestStatsService_Today(t *testing.T) {
	active := domain.Entry{
		ID:        uuid.New(),
		StartTime: now.Add(-5 * time.Minute),
		Status:    domain.StatusActive,
		Mode:      domain.ModeAuto,
		Location:  domain.LocationOutside,
	}
	todayWalk := completedWalk(now.Add(-time.Hour), 10, 1, 1)
	yesterday := completedWalk(now.Add(-26*time.Hour), 30, 0, 1)
	// newest first, as the repo returns them
	entries := []domain.Entry{active, todayWalk, yesterday}
	r := &mockEntryRepo{list: func(_ context.Context) ([]domain.Entry, error) { return entries, nil }}
	svc := newStatsService(r, now)

	got, err := svc.Today(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, got.Entries)
	assert.Equal(t, 1, got.Summary.TotalTrips)
	require.NotNil(t, got.LastTrip)
	assert.Equal(t, todayWalk.ID, got.LastTrip.ID)
}

func TestStatsService_Today_NoTrips(t *testing.T) {
	r := &mockEntryRepo{list: func(_ context.Context) ([]domain.Entry, error) { return nil, nil }}
	svc := newStatsService(r, now)

	got, err := svc.Today(context.Background())

	require.NoError(t, err)
	assert.Zero(t, got.Entries)
	assert.Nil(t, got.LastTrip)
	assert.NotNil(t, got.Summary.TopWalkers)
}

func TestStatsService_Chance_UsesLatestPoopInTime(t *testing.T) {
	// Candidate at 13:00 UTC. The repo returns history newest first; the
	// service must hand it to the estimator oldest first so that the most
	// recent poop (12:00, one hour earlier) is the one measured from.
	candidate := completedWalk(time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC), 10, 0, 0)
	recent := completedWalk(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), 10, 1, 0)
	older := completedWalk(time.Date(2025, 5, 31, 12, 0, 0, 0, time.UTC), 10, 1, 0)

	r := &mockEntryRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Entry, error) { return candidate, nil },
		list: func(_ context.Context) ([]domain.Entry, error) {
			return []domain.Entry{candidate, recent, older}, nil
		},
	}
	svc := newStatsService(r, now)

	got, err := svc.Chance(context.Background(), candidate.ID)

	require.NoError(t, err)
	want := stats.EventChance([]domain.Entry{older, recent, candidate}, candidate, time.UTC)
	assert.InDelta(t, want, got, 1e-12)

	// counter 5 + 1*0.3 = 5.3, one poop today: (0.53)^1.5 * 0.6
	assert.InDelta(t, math.Pow(0.53, 1.5)*0.6, got, 1e-9)
}

func TestStatsService_Chance_NotFound(t *testing.T) {
	r := &mockEntryRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Entry, error) { return domain.Entry{}, domain.ErrNotFound },
	}
	svc := newStatsService(r, now)

	_, err := svc.Chance(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
