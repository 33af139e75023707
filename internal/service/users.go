package service

import (
	"context"
	"fmt"

	"github.com/movielog/movielog/internal/model"
	"github.com/movielog/movielog/internal/repository"
)

// UserService covers account administration and profile reads.
// Accounts are deactivated, never deleted, so authored reviews and
// the penalty log keep valid references.
type UserService struct {
	users *repository.UserRepo
}

func NewUserService(users *repository.UserRepo) *UserService {
	return &UserService{users: users}
}

// Profile returns the caller's own account.
func (s *UserService) Profile(ctx context.Context, p Principal) (model.User, error) {
	return s.users.GetByID(ctx, p.UserID)
}

// List returns all accounts. Admin only.
func (s *UserService) List(ctx context.Context, p Principal) ([]model.User, error) {
	if !p.IsAdmin() {
		return nil, fmt.Errorf("list users: %w", repository.ErrForbidden)
	}
	return s.users.List(ctx)
}

// SetActive activates or deactivates an account. Admin only; admins
// cannot deactivate themselves.
func (s *UserService) SetActive(ctx context.Context, p Principal, userID string, active bool) error {
	if !p.IsAdmin() {
		return fmt.Errorf("set active: %w", repository.ErrForbidden)
	}
	if userID == p.UserID && !active {
		return fmt.Errorf("cannot deactivate own account: %w", repository.ErrConflict)
	}
	return s.users.SetActive(ctx, userID, active)
}
