// Package service contains the business logic for the walk tracker.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here: services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/walklog/backend/internal/domain"
	"github.com/pkordes/walklog/backend/internal/repo"
)

// ManualInput is a backfilled entry. Location is required; a zero StartTime
// means now.
type ManualInput struct {
	StartTime time.Time
	EndTime   *time.Time
	Location  domain.Location
	Poops     float64
	Pees      float64
	Users     []string // participant emails
}

// CompleteInput finishes a walk. A nil EndTime means now; a nil Location
// keeps the stored one.
type CompleteInput struct {
	EndTime  *time.Time
	Location *domain.Location
	Poops    float64
	Pees     float64
	Users    []string // replaces participants when non-nil
}

// EntryService implements the entry lifecycle: start, complete, backfill,
// like, and delete.
type EntryService struct {
	repo repo.EntryRepo
	log  *slog.Logger
	now  func() time.Time
}

// NewEntryService constructs an EntryService backed by the provided EntryRepo.
func NewEntryService(r repo.EntryRepo, log *slog.Logger) *EntryService {
	return &EntryService{repo: r, log: log, now: time.Now}
}

// WithClock replaces the time source. Used by tests.
func (s *EntryService) WithClock(now func() time.Time) *EntryService {
	s.now = now
	return s
}

// Start begins a live walk for the given participants.
// Returns domain.ErrConflict if a walk is already running.
func (s *EntryService) Start(ctx context.Context, users []string) (domain.Entry, error) {
	switch _, err := s.repo.GetActive(ctx); {
	case err == nil:
		return domain.Entry{}, fmt.Errorf("service.EntryService.Start: %w: another walk is already active", domain.ErrConflict)
	case !errors.Is(err, domain.ErrNotFound):
		return domain.Entry{}, fmt.Errorf("service.EntryService.Start: %w", err)
	}

	participants, err := participantList(users)
	if err != nil {
		return domain.Entry{}, err
	}

	entry := domain.Entry{
		StartTime: s.now().UTC(),
		Status:    domain.StatusActive,
		Mode:      domain.ModeAuto,
		Location:  domain.LocationOutside,
		Users:     participants,
	}
	created, err := s.repo.Create(ctx, entry)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("service.EntryService.Start: %w", err)
	}
	s.log.InfoContext(ctx, "walk started", "entry_id", created.ID, "users", len(created.Users))
	return created, nil
}

// Complete stops an entry and records what happened.
// Returns domain.ErrNotFound if the entry does not exist and
// domain.ErrValidation for invalid input.
func (s *EntryService) Complete(ctx context.Context, id uuid.UUID, in CompleteInput) (domain.Entry, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("service.EntryService.Complete: %w", err)
	}

	entry := existing
	entry.Status = domain.StatusCompleted
	entry.Poops = in.Poops
	entry.Pees = in.Pees
	if in.EndTime != nil {
		end := in.EndTime.UTC()
		entry.EndTime = &end
	} else if entry.EndTime == nil {
		end := s.now().UTC()
		entry.EndTime = &end
	}
	if in.Location != nil {
		entry.Location = *in.Location
	}
	if in.Users != nil {
		if entry.Users, err = participantList(in.Users); err != nil {
			return domain.Entry{}, err
		}
	}

	if err := validateEntry(entry); err != nil {
		return domain.Entry{}, err
	}

	updated, err := s.repo.Update(ctx, entry)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("service.EntryService.Complete: %w", err)
	}
	s.log.InfoContext(ctx, "entry completed", "entry_id", updated.ID, "poops", updated.Poops, "pees", updated.Pees)
	return updated, nil
}

// AddManual stores a completed, hand-entered entry.
// Returns domain.ErrValidation for invalid input.
func (s *EntryService) AddManual(ctx context.Context, in ManualInput) (domain.Entry, error) {
	start := in.StartTime
	if start.IsZero() {
		start = s.now()
	}
	participants, err := participantList(in.Users)
	if err != nil {
		return domain.Entry{}, err
	}

	entry := domain.Entry{
		StartTime: start.UTC(),
		Status:    domain.StatusCompleted,
		Mode:      domain.ModeManual,
		Location:  in.Location,
		Poops:     in.Poops,
		Pees:      in.Pees,
		Users:     participants,
	}
	if in.EndTime != nil {
		end := in.EndTime.UTC()
		entry.EndTime = &end
	}
	if err := validateEntry(entry); err != nil {
		return domain.Entry{}, err
	}

	created, err := s.repo.Create(ctx, entry)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("service.EntryService.AddManual: %w", err)
	}
	return created, nil
}

// GetByID returns a single entry by ID.
func (s *EntryService) GetByID(ctx context.Context, id uuid.UUID) (domain.Entry, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("service.EntryService.GetByID: %w", err)
	}
	return result, nil
}

// Active returns the running walk, or domain.ErrNotFound.
func (s *EntryService) Active(ctx context.Context) (domain.Entry, error) {
	result, err := s.repo.GetActive(ctx)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("service.EntryService.Active: %w", err)
	}
	return result, nil
}

// List returns all entries, most recent first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *EntryService) List(ctx context.Context) ([]domain.Entry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.EntryService.List: %w", err)
	}
	if entries == nil {
		return []domain.Entry{}, nil
	}
	return entries, nil
}

// ListPaged returns one page of entries and the total count.
func (s *EntryService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Entry, int64, error) {
	entries, total, err := s.repo.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.EntryService.ListPaged: %w", err)
	}
	if entries == nil {
		entries = []domain.Entry{}
	}
	return entries, total, nil
}

// Delete removes an entry by ID.
func (s *EntryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.EntryService.Delete: %w", err)
	}
	s.log.InfoContext(ctx, "entry deleted", "entry_id", id)
	return nil
}

// Like records that email liked the entry and returns the refreshed entry.
func (s *EntryService) Like(ctx context.Context, id uuid.UUID, email string) (domain.Entry, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.Entry{}, fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	if err := s.repo.AddLike(ctx, id, email); err != nil {
		return domain.Entry{}, fmt.Errorf("service.EntryService.Like: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Unlike removes a like and returns the refreshed entry.
func (s *EntryService) Unlike(ctx context.Context, id uuid.UUID, email string) (domain.Entry, error) {
	if err := s.repo.RemoveLike(ctx, id, domain.NormalizeEmail(email)); err != nil {
		return domain.Entry{}, fmt.Errorf("service.EntryService.Unlike: %w", err)
	}
	return s.GetByID(ctx, id)
}

// participantList normalizes emails into users, dropping duplicates.
func participantList(emails []string) ([]domain.User, error) {
	users := make([]domain.User, 0, len(emails))
	for _, email := range emails {
		e := domain.NormalizeEmail(email)
		if e == "" {
			return nil, fmt.Errorf("%w: participant email must not be empty", domain.ErrValidation)
		}
		users = append(users, domain.User{Email: e})
	}
	return domain.DedupeUsers(users), nil
}

// validateEntry enforces the entry invariants before anything is persisted.
//   - Status, mode, and location must be known values.
//   - Poops and pees must not be negative.
//   - Active entries have no end time; completed ones end no earlier than they start.
func validateEntry(e domain.Entry) error {
	if !e.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrValidation, e.Status)
	}
	if !e.Mode.Valid() {
		return fmt.Errorf("%w: unknown mode %q", domain.ErrValidation, e.Mode)
	}
	if !e.Location.Valid() {
		return fmt.Errorf("%w: location must be inside or outside", domain.ErrValidation)
	}
	if e.Poops < 0 || e.Pees < 0 {
		return fmt.Errorf("%w: poops and pees must not be negative", domain.ErrValidation)
	}
	if e.Status == domain.StatusActive && e.EndTime != nil {
		return fmt.Errorf("%w: an active entry cannot have an end time", domain.ErrValidation)
	}
	if e.EndTime != nil && e.EndTime.Before(e.StartTime) {
		return fmt.Errorf("%w: end_time must not be before start_time", domain.ErrValidation)
	}
	return nil
}
