package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/walklog/backend/internal/domain"
	"github.com/pkordes/walklog/backend/internal/handler"
)

func userServer(svc handler.UserServicer) *handler.Server {
	return handler.NewServer(nil, svc, nil)
}

func TestListUsers_200(t *testing.T) {
	svc := &mockUserServicer{
		list: func(_ context.Context) ([]domain.User, error) {
			return []domain.User{{Email: "kari@example.com", Name: "Kari"}, {Email: "ola@example.com"}}, nil
		},
	}

	rec := serve(userServer(svc), http.MethodGet, "/users", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[handler.UserList](t, rec)
	require.Len(t, resp.Data, 2)
	require.NotNil(t, resp.Data[0].Name)
	assert.Equal(t, "Kari", *resp.Data[0].Name)
	assert.Nil(t, resp.Data[1].Name)
}

func TestUpsertUser_200(t *testing.T) {
	var got domain.User
	svc := &mockUserServicer{
		upsert: func(_ context.Context, u domain.User) (domain.User, error) {
			got = u
			return u, nil
		},
	}

	rec := serve(userServer(svc), http.MethodPut, "/users/Kari@Example.com",
		jsonBody(t, map[string]any{"name": "Kari", "image": "https://example.com/k.png"}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.User{Email: "kari@example.com", Name: "Kari", Image: "https://example.com/k.png"}, got)
}

func TestUpsertUser_422_BadImage(t *testing.T) {
	rec := serve(userServer(&mockUserServicer{}), http.MethodPut, "/users/kari@example.com",
		jsonBody(t, map[string]any{"image": "not a url"}))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decode[handler.ErrorResponse](t, rec)
	assert.Equal(t, "image must be an absolute URL", resp.Error.Message)
}

func TestUpsertUser_422_BadEmail(t *testing.T) {
	rec := serve(userServer(&mockUserServicer{}), http.MethodPut, "/users/kari", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
