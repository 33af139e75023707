package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/movielog/movielog/internal/model"
	"github.com/movielog/movielog/internal/store"
	"github.com/movielog/movielog/internal/utils"
)

// UserRepo provides accounts stored in the `users` collection.
// Usernames are normalized to lower case and unique; the uniqueness
// check runs inside the same critical section as the insert.
type UserRepo struct {
	users *store.Collection[model.User]
}

func NewUserRepo(users *store.Collection[model.User]) *UserRepo {
	return &UserRepo{users: users}
}

// Create hashes the password, inserts a new active user and returns
// it. A taken username yields ErrConflict.
func (r *UserRepo) Create(ctx context.Context, username, password, role string, cost int) (model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}
	u := model.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}
	err = r.users.Mutate(ctx, func(records []model.User) ([]model.User, error) {
		for _, existing := range records {
			if existing.Username == username {
				return nil, fmt.Errorf("username %q: %w", username, ErrConflict)
			}
			if existing.ID == u.ID {
				u.ID = uuid.NewString()
			}
		}
		return append(records, u), nil
	})
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	records, err := r.users.LoadAll(ctx)
	if err != nil {
		return model.User{}, err
	}
	for _, u := range records {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
}

// GetByUsername fetches a user by normalized username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	records, err := r.users.LoadAll(ctx)
	if err != nil {
		return model.User{}, err
	}
	for _, u := range records {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, fmt.Errorf("user %q: %w", username, ErrNotFound)
}

// List returns all users in storage order.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	return r.users.LoadAll(ctx)
}

// SetActive flips the account's active flag. Accounts are never
// deleted, only deactivated.
func (r *UserRepo) SetActive(ctx context.Context, id string, active bool) error {
	return r.update(ctx, id, func(u *model.User) { u.Active = active })
}

// SetPasswordHash replaces the stored password hash, used by the
// password reset flow.
func (r *UserRepo) SetPasswordHash(ctx context.Context, id, hash string) error {
	return r.update(ctx, id, func(u *model.User) { u.PasswordHash = hash })
}

// update applies mutate to the user under the collection lock so the
// read always reflects the latest committed state.
func (r *UserRepo) update(ctx context.Context, id string, mutate func(*model.User)) error {
	return r.users.Mutate(ctx, func(records []model.User) ([]model.User, error) {
		for i := range records {
			if records[i].ID == id {
				mutate(&records[i])
				return records, nil
			}
		}
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	})
}
