package stats_test

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/walklog/backend/internal/domain"
)

// mustTime parses an RFC3339 timestamp or fails the test.
func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("mustTime(%q): %v", s, err)
	}
	return ts
}

// walk returns a completed auto entry between start and end.
func walk(t *testing.T, start, end string, poops, pees float64, users ...string) domain.Entry {
	t.Helper()
	e := domain.Entry{
		ID:        uuid.New(),
		StartTime: mustTime(t, start),
		Status:    domain.StatusCompleted,
		Mode:      domain.ModeAuto,
		Location:  domain.LocationOutside,
		Poops:     poops,
		Pees:      pees,
	}
	if end != "" {
		et := mustTime(t, end)
		e.EndTime = &et
	}
	for _, email := range users {
		e.Users = append(e.Users, domain.User{Email: email})
	}
	return e
}

// manual returns a completed manual entry at start with the given location.
func manual(t *testing.T, start string, loc domain.Location, poops, pees float64) domain.Entry {
	t.Helper()
	return domain.Entry{
		ID:        uuid.New(),
		StartTime: mustTime(t, start),
		Status:    domain.StatusCompleted,
		Mode:      domain.ModeManual,
		Location:  loc,
		Poops:     poops,
		Pees:      pees,
	}
}
