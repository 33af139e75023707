package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movielog/movielog/internal/model"
	"github.com/movielog/movielog/internal/repository"
)

func newAuth(e *env) *AuthService {
	return NewAuthService(e.users, "test-secret", 60, testBcryptCost)
}

func TestAuthRegisterAndLogin(t *testing.T) {
	e := newEnv(t)
	svc := newAuth(e)
	ctx := context.Background()

	u, tok, err := svc.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, u.Role)
	assert.NotEmpty(t, tok.Token)

	_, tok2, err := svc.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, tok2.Token)
}

func TestAuthRegisterDuplicate(t *testing.T) {
	svc := newAuth(newEnv(t))
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice", "one")
	require.NoError(t, err)
	_, _, err = svc.Register(ctx, "alice", "two")
	require.ErrorIs(t, err, repository.ErrConflict)
}

func TestAuthLoginFailures(t *testing.T) {
	e := newEnv(t)
	svc := newAuth(e)
	ctx := context.Background()

	u, _, err := svc.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "ghost", "whatever")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// Deactivated accounts cannot log in even with the right password.
	require.NoError(t, e.users.SetActive(ctx, u.ID, false))
	_, _, err = svc.Login(ctx, "alice", "s3cret")
	require.ErrorIs(t, err, repository.ErrForbidden)
}
