package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/walklog/backend/internal/domain"
	"github.com/pkordes/walklog/backend/internal/service"
)

// User is the wire form of a household member.
type User struct {
	Email openapi_types.Email `json:"email"`
	Name  *string             `json:"name,omitempty"`
	Image *string             `json:"image,omitempty"`
}

// Entry is the wire form of domain.Entry.
type Entry struct {
	Id              openapi_types.UUID `json:"id"`
	StartTime       time.Time          `json:"start_time"`
	EndTime         *time.Time         `json:"end_time,omitempty"`
	Status          string             `json:"status"`
	Mode            string             `json:"mode"`
	Location        string             `json:"location"`
	Poops           float64            `json:"poops"`
	Pees            float64            `json:"pees"`
	DurationMinutes *float64           `json:"duration_minutes,omitempty"`
	Users           []User             `json:"users"`
	Likes           []User             `json:"likes"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// EntryList is the body of GET /entries.
type EntryList struct {
	Data       []Entry    `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// StartEntryRequest is the optional body of POST /entries/start.
type StartEntryRequest struct {
	Users []string `json:"users" validate:"dive,required,email"`
}

// CreateEntryRequest is the body of POST /entries.
type CreateEntryRequest struct {
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Location  string     `json:"location" validate:"required,oneof=inside outside"`
	Poops     float64    `json:"poops" validate:"gte=0"`
	Pees      float64    `json:"pees" validate:"gte=0"`
	Users     []string   `json:"users" validate:"dive,required,email"`
}

// CompleteEntryRequest is the body of PUT /entries/{id}/complete.
// Omitted users keep the current participants.
type CompleteEntryRequest struct {
	EndTime  *time.Time `json:"end_time"`
	Location *string    `json:"location" validate:"omitempty,oneof=inside outside"`
	Poops    float64    `json:"poops" validate:"gte=0"`
	Pees     float64    `json:"pees" validate:"gte=0"`
	Users    []string   `json:"users" validate:"omitempty,dive,required,email"`
}

// ListEntries handles GET /entries.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListEntries(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page")
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	params := domain.NewPaginationParams(page, limit)
	entries, total, err := s.entries.ListPaged(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	data := make([]Entry, len(entries))
	for i, e := range entries {
		data[i] = entryToResponse(e)
	}
	writeJSON(w, http.StatusOK, EntryList{
		Data: data,
		Pagination: Pagination{
			Page:       params.Page,
			Limit:      params.Limit,
			Total:      int(total),
			TotalPages: params.TotalPages(total),
		},
	})
}

// GetActiveEntry handles GET /entries/active.
func (s *Server) GetActiveEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := s.entries.Active(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "no active walk")
		return
	}
	writeJSON(w, http.StatusOK, entryToResponse(entry))
}

// StartEntry handles POST /entries/start.
func (s *Server) StartEntry(w http.ResponseWriter, r *http.Request) {
	var body StartEntryRequest
	if err := decodeOptionalBody(r, &body); err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	entry, err := s.entries.Start(r.Context(), body.Users)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, entryToResponse(entry))
}

// CreateManualEntry handles POST /entries.
func (s *Server) CreateManualEntry(w http.ResponseWriter, r *http.Request) {
	var body CreateEntryRequest
	if err := decodeBody(r, &body); err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	in := service.ManualInput{
		EndTime:  body.EndTime,
		Location: domain.Location(body.Location),
		Poops:    body.Poops,
		Pees:     body.Pees,
		Users:    body.Users,
	}
	if body.StartTime != nil {
		in.StartTime = *body.StartTime
	}

	entry, err := s.entries.AddManual(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, entryToResponse(entry))
}

// GetEntry handles GET /entries/{id}.
func (s *Server) GetEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	entry, err := s.entries.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "entry not found")
		return
	}
	writeJSON(w, http.StatusOK, entryToResponse(entry))
}

// CompleteEntry handles PUT /entries/{id}/complete.
func (s *Server) CompleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	var body CompleteEntryRequest
	if err := decodeBody(r, &body); err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	in := service.CompleteInput{
		EndTime: body.EndTime,
		Poops:   body.Poops,
		Pees:    body.Pees,
		Users:   body.Users,
	}
	if body.Location != nil {
		loc := domain.Location(*body.Location)
		in.Location = &loc
	}

	entry, err := s.entries.Complete(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, r, err, "entry not found")
		return
	}
	writeJSON(w, http.StatusOK, entryToResponse(entry))
}

// DeleteEntry handles DELETE /entries/{id}.
func (s *Server) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	if err := s.entries.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "entry not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LikeEntry handles PUT /entries/{id}/likes/{email}.
func (s *Server) LikeEntry(w http.ResponseWriter, r *http.Request) {
	s.changeLike(w, r, s.entries.Like)
}

// UnlikeEntry handles DELETE /entries/{id}/likes/{email}.
func (s *Server) UnlikeEntry(w http.ResponseWriter, r *http.Request) {
	s.changeLike(w, r, s.entries.Unlike)
}

func (s *Server) changeLike(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, id uuid.UUID, email string) (domain.Entry, error)) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	email, err := pathEmail(r)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	entry, err := apply(r.Context(), id, email)
	if err != nil {
		writeServiceError(w, r, err, "entry or like not found")
		return
	}
	writeJSON(w, http.StatusOK, entryToResponse(entry))
}

// --- mapping helpers --------------------------------------------------------

// entryToResponse converts a domain.Entry into its wire form.
// Users and likes are always arrays, never null.
func entryToResponse(e domain.Entry) Entry {
	resp := Entry{
		Id:        e.ID,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
		Status:    string(e.Status),
		Mode:      string(e.Mode),
		Location:  string(e.Location),
		Poops:     e.Poops,
		Pees:      e.Pees,
		Users:     usersToResponse(e.Users),
		Likes:     usersToResponse(e.Likes),
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
	if d, ok := e.DurationMinutes(); ok {
		resp.DurationMinutes = &d
	}
	return resp
}

func usersToResponse(users []domain.User) []User {
	out := make([]User, len(users))
	for i, u := range users {
		out[i] = userToResponse(u)
	}
	return out
}

func userToResponse(u domain.User) User {
	resp := User{Email: openapi_types.Email(u.Email)}
	if u.Name != "" {
		resp.Name = &u.Name
	}
	if u.Image != "" {
		resp.Image = &u.Image
	}
	return resp
}
