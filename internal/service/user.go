package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pkordes/walklog/backend/internal/domain"
	"github.com/pkordes/walklog/backend/internal/repo"
)

// UserService implements business logic for household members.
type UserService struct {
	repo repo.UserRepo
}

// NewUserService constructs a UserService backed by the provided UserRepo.
func NewUserService(r repo.UserRepo) *UserService {
	return &UserService{repo: r}
}

// Upsert validates and stores a user keyed by normalized email.
func (s *UserService) Upsert(ctx context.Context, user domain.User) (domain.User, error) {
	user.Email = domain.NormalizeEmail(user.Email)
	user.Name = strings.TrimSpace(user.Name)
	if user.Email == "" || !strings.Contains(user.Email, "@") {
		return domain.User{}, fmt.Errorf("%w: a valid email is required", domain.ErrValidation)
	}
	if user.Image != "" {
		if u, err := url.Parse(user.Image); err != nil || u.Scheme == "" || u.Host == "" {
			return domain.User{}, fmt.Errorf("%w: image must be an absolute URL", domain.ErrValidation)
		}
	}

	result, err := s.repo.Upsert(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Upsert: %w", err)
	}
	return result, nil
}

// List returns all users. Always non-nil.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.UserService.List: %w", err)
	}
	if users == nil {
		return []domain.User{}, nil
	}
	return users, nil
}
