package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movielog/movielog/internal/model"
	"github.com/movielog/movielog/internal/store"
	"github.com/movielog/movielog/internal/utils"
)

// low cost keeps the bcrypt tests fast
const testBcryptCost = 4

func newUserRepo(t *testing.T) *UserRepo {
	t.Helper()
	return NewUserRepo(store.NewCollection[model.User](t.TempDir(), "users"))
}

func TestUserCreateNormalizesUsername(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	u, err := repo.Create(ctx, "  Alice ", "s3cret", model.RoleUser, testBcryptCost)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.True(t, u.Active)
	assert.True(t, utils.VerifyPassword(u.PasswordHash, "s3cret"))

	got, err := repo.GetByUsername(ctx, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestUserCreateDuplicateUsername(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, "alice", "one", model.RoleUser, testBcryptCost)
	require.NoError(t, err)
	_, err = repo.Create(ctx, "Alice", "two", model.RoleUser, testBcryptCost)
	require.ErrorIs(t, err, ErrConflict)
}

func TestUserSetActive(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	u, err := repo.Create(ctx, "alice", "pw", model.RoleUser, testBcryptCost)
	require.NoError(t, err)

	require.NoError(t, repo.SetActive(ctx, u.ID, false))
	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	require.ErrorIs(t, repo.SetActive(ctx, "nope", false), ErrNotFound)
}
