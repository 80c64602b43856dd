// Package domain contains the core data types for the walk tracker.
// This package has no dependencies on other internal packages and is
// imported by every layer (stats, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an Entry.
type Status string

const (
	// StatusActive marks a walk in progress. It never has an EndTime.
	StatusActive Status = "active"
	// StatusCompleted marks a finished or backfilled entry.
	StatusCompleted Status = "completed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusCompleted
}

// Mode records how an Entry was created.
type Mode string

const (
	// ModeAuto entries are started live and are always outdoor walks.
	ModeAuto Mode = "auto"
	// ModeManual entries are backfilled by hand with a chosen location.
	ModeManual Mode = "manual"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeAuto || m == ModeManual
}

// Location is where the dog did its business.
type Location string

const (
	LocationInside  Location = "inside"
	LocationOutside Location = "outside"
)

// Valid reports whether l is a known location.
func (l Location) Valid() bool {
	return l == LocationInside || l == LocationOutside
}

// Entry is one tracked occurrence: a walk outside or an event inside.
type Entry struct {
	ID        uuid.UUID
	StartTime time.Time
	EndTime   *time.Time // nil while the entry is active
	Status    Status
	Mode      Mode
	Location  Location
	Poops     float64
	Pees      float64

	// Users lists who took part, in the order they were added.
	Users []User
	// Likes lists who reacted to the entry, in the order they liked it.
	Likes []User

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectiveLocation returns the location used for aggregation.
// Auto entries count as outside whatever location is stored.
func (e Entry) EffectiveLocation() Location {
	if e.Mode == ModeAuto {
		return LocationOutside
	}
	return e.Location
}

// IsOutside reports whether the entry counts as an outdoor trip.
func (e Entry) IsOutside() bool {
	return e.EffectiveLocation() == LocationOutside
}

// HasToiletVisit reports whether anything happened during the entry.
func (e Entry) HasToiletVisit() bool {
	return e.Poops > 0 || e.Pees > 0
}

// DurationMinutes returns EndTime - StartTime in fractional minutes.
// The second return value is false when the entry has no EndTime.
func (e Entry) DurationMinutes() (float64, bool) {
	if e.EndTime == nil {
		return 0, false
	}
	return e.EndTime.Sub(e.StartTime).Minutes(), true
}
