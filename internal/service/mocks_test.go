package service_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/walklog/backend/internal/domain"
	"github.com/pkordes/walklog/backend/internal/repo"
)

// mockEntryRepo is a hand-written test double for repo.EntryRepo.
// Each method is a function field; set only the ones your test needs.
type mockEntryRepo struct {
	create      func(ctx context.Context, e domain.Entry) (domain.Entry, error)
	getByID     func(ctx context.Context, id uuid.UUID) (domain.Entry, error)
	getActive   func(ctx context.Context) (domain.Entry, error)
	list        func(ctx context.Context) ([]domain.Entry, error)
	listPaged   func(ctx context.Context, p domain.PaginationParams) ([]domain.Entry, int64, error)
	listBetween func(ctx context.Context, from, to time.Time) ([]domain.Entry, error)
	update      func(ctx context.Context, e domain.Entry) (domain.Entry, error)
	delete      func(ctx context.Context, id uuid.UUID) error
	addLike     func(ctx context.Context, id uuid.UUID, email string) error
	removeLike  func(ctx context.Context, id uuid.UUID, email string) error
}

func (m *mockEntryRepo) Create(ctx context.Context, e domain.Entry) (domain.Entry, error) {
	return m.create(ctx, e)
}
func (m *mockEntryRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Entry, error) {
	return m.getByID(ctx, id)
}
func (m *mockEntryRepo) GetActive(ctx context.Context) (domain.Entry, error) {
	return m.getActive(ctx)
}
func (m *mockEntryRepo) List(ctx context.Context) ([]domain.Entry, error) {
	return m.list(ctx)
}
func (m *mockEntryRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Entry, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockEntryRepo) ListBetween(ctx context.Context, from, to time.Time) ([]domain.Entry, error) {
	return m.listBetween(ctx, from, to)
}
func (m *mockEntryRepo) Update(ctx context.Context, e domain.Entry) (domain.Entry, error) {
	return m.update(ctx, e)
}
func (m *mockEntryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockEntryRepo) AddLike(ctx context.Context, id uuid.UUID, email string) error {
	return m.addLike(ctx, id, email)
}
func (m *mockEntryRepo) RemoveLike(ctx context.Context, id uuid.UUID, email string) error {
	return m.removeLike(ctx, id, email)
}

// compile-time check: mockEntryRepo must satisfy repo.EntryRepo.
var _ repo.EntryRepo = (*mockEntryRepo)(nil)

// mockUserRepo is a hand-written test double for repo.UserRepo.
type mockUserRepo struct {
	upsert     func(ctx context.Context, u domain.User) (domain.User, error)
	getByEmail func(ctx context.Context, email string) (domain.User, error)
	list       func(ctx context.Context) ([]domain.User, error)
}

func (m *mockUserRepo) Upsert(ctx context.Context, u domain.User) (domain.User, error) {
	return m.upsert(ctx, u)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.getByEmail(ctx, email)
}
func (m *mockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	return m.list(ctx)
}

var _ repo.UserRepo = (*mockUserRepo)(nil)

// discardLogger swallows service logs in tests.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixedClock returns a clock stuck at t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
