package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/walklog/backend/internal/domain"
	"github.com/pkordes/walklog/backend/internal/handler"
	"github.com/pkordes/walklog/backend/internal/service"
	"github.com/pkordes/walklog/backend/internal/stats"
)

// mockEntryServicer is a test double for handler.EntryServicer.
// Set only the method fields your test needs.
type mockEntryServicer struct {
	start     func(ctx context.Context, users []string) (domain.Entry, error)
	complete  func(ctx context.Context, id uuid.UUID, in service.CompleteInput) (domain.Entry, error)
	addManual func(ctx context.Context, in service.ManualInput) (domain.Entry, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Entry, error)
	active    func(ctx context.Context) (domain.Entry, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) ([]domain.Entry, int64, error)
	delete    func(ctx context.Context, id uuid.UUID) error
	like      func(ctx context.Context, id uuid.UUID, email string) (domain.Entry, error)
	unlike    func(ctx context.Context, id uuid.UUID, email string) (domain.Entry, error)
}

func (m *mockEntryServicer) Start(ctx context.Context, users []string) (domain.Entry, error) {
	return m.start(ctx, users)
}
func (m *mockEntryServicer) Complete(ctx context.Context, id uuid.UUID, in service.CompleteInput) (domain.Entry, error) {
	return m.complete(ctx, id, in)
}
func (m *mockEntryServicer) AddManual(ctx context.Context, in service.ManualInput) (domain.Entry, error) {
	return m.addManual(ctx, in)
}
func (m *mockEntryServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Entry, error) {
	return m.getByID(ctx, id)
}
func (m *mockEntryServicer) Active(ctx context.Context) (domain.Entry, error) {
	return m.active(ctx)
}
func (m *mockEntryServicer) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Entry, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockEntryServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockEntryServicer) Like(ctx context.Context, id uuid.UUID, email string) (domain.Entry, error) {
	return m.like(ctx, id, email)
}
func (m *mockEntryServicer) Unlike(ctx context.Context, id uuid.UUID, email string) (domain.Entry, error) {
	return m.unlike(ctx, id, email)
}

// compile-time check: mockEntryServicer must satisfy handler.EntryServicer.
var _ handler.EntryServicer = (*mockEntryServicer)(nil)

// mockUserServicer is a test double for handler.UserServicer.
type mockUserServicer struct {
	upsert func(ctx context.Context, u domain.User) (domain.User, error)
	list   func(ctx context.Context) ([]domain.User, error)
}

func (m *mockUserServicer) Upsert(ctx context.Context, u domain.User) (domain.User, error) {
	return m.upsert(ctx, u)
}
func (m *mockUserServicer) List(ctx context.Context) ([]domain.User, error) {
	return m.list(ctx)
}

var _ handler.UserServicer = (*mockUserServicer)(nil)

// mockStatsServicer is a test double for handler.StatsServicer.
type mockStatsServicer struct {
	summary func(ctx context.Context, p stats.Period) (stats.Summary, error)
	series  func(ctx context.Context, p stats.Period) (service.Series, error)
	today   func(ctx context.Context) (service.Today, error)
	chance  func(ctx context.Context, id uuid.UUID) (float64, error)
}

func (m *mockStatsServicer) Summary(ctx context.Context, p stats.Period) (stats.Summary, error) {
	return m.summary(ctx, p)
}
func (m *mockStatsServicer) Series(ctx context.Context, p stats.Period) (service.Series, error) {
	return m.series(ctx, p)
}
func (m *mockStatsServicer) Today(ctx context.Context) (service.Today, error) {
	return m.today(ctx)
}
func (m *mockStatsServicer) Chance(ctx context.Context, id uuid.UUID) (float64, error) {
	return m.chance(ctx, id)
}

var _ handler.StatsServicer = (*mockStatsServicer)(nil)

// ---- helpers ---------------------------------------------------------------

// serve runs one request through a fully routed Server.
func serve(srv *handler.Server, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func entryFixture() domain.Entry {
	start := time.Date(2025, 6, 1, 7, 30, 0, 0, time.UTC)
	end := start.Add(20 * time.Minute)
	return domain.Entry{
		ID:        uuid.New(),
		StartTime: start,
		EndTime:   &end,
		Status:    domain.StatusCompleted,
		Mode:      domain.ModeAuto,
		Location:  domain.LocationOutside,
		Poops:     1,
		Pees:      2,
		Users:     []domain.User{{Email: "kari@example.com", Name: "Kari"}},
		CreatedAt: start,
		UpdatedAt: end,
	}
}
