package handler

import (
	"net/http"

	"github.com/pkordes/walklog/backend/internal/domain"
)

// UserList is the body of GET /users.
type UserList struct {
	Data []User `json:"data"`
}

// UpsertUserRequest is the body of PUT /users/{email}.
type UpsertUserRequest struct {
	Name  string `json:"name" validate:"max=200"`
	Image string `json:"image" validate:"omitempty,url"`
}

// ListUsers handles GET /users.
func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, UserList{Data: usersToResponse(users)})
}

// UpsertUser handles PUT /users/{email}.
func (s *Server) UpsertUser(w http.ResponseWriter, r *http.Request) {
	email, err := pathEmail(r)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	var body UpsertUserRequest
	if err := decodeOptionalBody(r, &body); err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	user, err := s.users.Upsert(r.Context(), domain.User{Email: email, Name: body.Name, Image: body.Image})
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, userToResponse(user))
}
