package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movielog/movielog/internal/model"
	"github.com/movielog/movielog/internal/repository"
	"github.com/movielog/movielog/internal/utils"
)

func TestPasswordResetFlow(t *testing.T) {
	e := newEnv(t)
	svc := NewPasswordResetService(e.users, e.tokens, 30, testBcryptCost)
	ctx := context.Background()

	u, err := e.users.Create(ctx, "alice", "old-pass", model.RoleUser, testBcryptCost)
	require.NoError(t, err)

	raw, err := svc.Request(ctx, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	require.NoError(t, svc.Confirm(ctx, raw, "new-pass"))

	got, err := e.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, utils.VerifyPassword(got.PasswordHash, "new-pass"))
	assert.False(t, utils.VerifyPassword(got.PasswordHash, "old-pass"))

	// Tokens are single-use.
	err = svc.Confirm(ctx, raw, "again")
	require.ErrorIs(t, err, repository.ErrForbidden)
}

func TestPasswordResetUnknownUsernameDoesNotLeak(t *testing.T) {
	e := newEnv(t)
	svc := NewPasswordResetService(e.users, e.tokens, 30, testBcryptCost)

	raw, err := svc.Request(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestPasswordResetBogusToken(t *testing.T) {
	e := newEnv(t)
	svc := NewPasswordResetService(e.users, e.tokens, 30, testBcryptCost)

	err := svc.Confirm(context.Background(), "made-up", "pw")
	require.ErrorIs(t, err, repository.ErrForbidden)
}
