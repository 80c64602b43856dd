// Package handler implements the HTTP handlers for the walk tracker API.
// All handlers are methods on Server. Methods are split into resource files
// (health.go, entry.go, user.go, stats.go) but share the same Server struct
// so they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/walklog/backend/internal/domain"
	"github.com/pkordes/walklog/backend/internal/service"
	"github.com/pkordes/walklog/backend/internal/stats"
)

// EntryServicer defines the entry operations the handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type EntryServicer interface {
	Start(ctx context.Context, users []string) (domain.Entry, error)
	Complete(ctx context.Context, id uuid.UUID, in service.CompleteInput) (domain.Entry, error)
	AddManual(ctx context.Context, in service.ManualInput) (domain.Entry, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Entry, error)
	Active(ctx context.Context) (domain.Entry, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Entry, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Like(ctx context.Context, id uuid.UUID, email string) (domain.Entry, error)
	Unlike(ctx context.Context, id uuid.UUID, email string) (domain.Entry, error)
}

// UserServicer defines the user operations the handlers depend on.
type UserServicer interface {
	Upsert(ctx context.Context, user domain.User) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

// StatsServicer defines the statistics operations the handlers depend on.
type StatsServicer interface {
	Summary(ctx context.Context, period stats.Period) (stats.Summary, error)
	Series(ctx context.Context, period stats.Period) (service.Series, error)
	Today(ctx context.Context) (service.Today, error)
	Chance(ctx context.Context, id uuid.UUID) (float64, error)
}

// Server holds the dependencies shared by every handler.
type Server struct {
	entries EntryServicer
	users   UserServicer
	stats   StatsServicer
}

// NewServer constructs the Server with all its dependencies.
// Nil services are allowed in tests that only exercise other routes.
func NewServer(entries EntryServicer, users UserServicer, stats StatsServicer) *Server {
	return &Server{entries: entries, users: users, stats: stats}
}

// Routes registers every API route on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/entries", func(r chi.Router) {
		r.Get("/", s.ListEntries)
		r.Post("/", s.CreateManualEntry)
		r.Get("/active", s.GetActiveEntry)
		r.Post("/start", s.StartEntry)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetEntry)
			r.Delete("/", s.DeleteEntry)
			r.Put("/complete", s.CompleteEntry)
			r.Get("/chance", s.GetEntryChance)
			r.Put("/likes/{email}", s.LikeEntry)
			r.Delete("/likes/{email}", s.UnlikeEntry)
		})
	})

	r.Route("/stats", func(r chi.Router) {
		r.Get("/summary", s.GetSummary)
		r.Get("/series", s.GetSeries)
		r.Get("/today", s.GetToday)
	})

	r.Get("/users", s.ListUsers)
	r.Put("/users/{email}", s.UpsertUser)
}

// Handler returns a standalone router serving every API route.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.Routes(r)
	return r
}
