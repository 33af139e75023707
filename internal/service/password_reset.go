package service

import (
	"context"
	"errors"
	"time"

	"github.com/movielog/movielog/internal/repository"
	"github.com/movielog/movielog/internal/utils"
)

// PasswordResetService issues and redeems single-use reset tokens.
// Tokens expire after a configured TTL and are consumed exactly once;
// dead tokens remain on disk until the GC pass removes them.
type PasswordResetService struct {
	users      *repository.UserRepo
	tokens     *repository.TokenRepo
	ttlMin     int
	bcryptCost int
}

func NewPasswordResetService(users *repository.UserRepo, tokens *repository.TokenRepo, ttlMin, bcryptCost int) *PasswordResetService {
	return &PasswordResetService{users: users, tokens: tokens, ttlMin: ttlMin, bcryptCost: bcryptCost}
}

// Request issues a reset token for the account with the given
// username and returns the raw token to hand to the user. An unknown
// username returns an empty token and no error, so the endpoint does
// not leak which accounts exist.
func (s *PasswordResetService) Request(ctx context.Context, username string) (string, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	tok, err := utils.NewResetToken(s.ttlMin)
	if err != nil {
		return "", err
	}
	if err := s.tokens.Store(ctx, utils.HashResetRaw(tok.Raw), u.ID, tok.Exp); err != nil {
		return "", err
	}
	return tok.Raw, nil
}

// Confirm redeems a raw token and sets the new password. Unknown,
// expired or already-consumed tokens fail with ErrForbidden.
func (s *PasswordResetService) Confirm(ctx context.Context, rawToken, newPassword string) error {
	userID, err := s.tokens.Consume(ctx, utils.HashResetRaw(rawToken), time.Now().UTC())
	if err != nil {
		return err
	}
	hash, err := utils.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	return s.users.SetPasswordHash(ctx, userID, hash)
}

// GC drops consumed and expired tokens from storage.
func (s *PasswordResetService) GC(ctx context.Context) (int, error) {
	return s.tokens.GC(ctx, time.Now().UTC())
}
