package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/movielog/movielog/internal/model"
	"github.com/movielog/movielog/internal/store"
)

// TokenRepo stores password reset tokens. Only SHA-256 hashes of the
// raw tokens are persisted. Tokens are single-use: Consume validates
// and marks the token in one critical section, so a token can never
// be redeemed twice even under concurrent requests. Dead tokens stay
// on disk until GC removes them.
type TokenRepo struct {
	tokens *store.Collection[model.ResetToken]
}

func NewTokenRepo(tokens *store.Collection[model.ResetToken]) *TokenRepo {
	return &TokenRepo{tokens: tokens}
}

// Store persists a new reset token hash for the user.
func (r *TokenRepo) Store(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error {
	t := model.ResetToken{
		TokenHash: tokenHash,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return r.tokens.Mutate(ctx, func(records []model.ResetToken) ([]model.ResetToken, error) {
		for _, existing := range records {
			if existing.TokenHash == tokenHash {
				return nil, fmt.Errorf("reset token: %w", ErrConflict)
			}
		}
		return append(records, t), nil
	})
}

// Consume validates the token hash and marks it consumed, returning
// the owning user id. Expired, consumed or unknown tokens are
// rejected with ErrForbidden without touching storage.
func (r *TokenRepo) Consume(ctx context.Context, tokenHash string, now time.Time) (string, error) {
	var userID string
	err := r.tokens.Mutate(ctx, func(records []model.ResetToken) ([]model.ResetToken, error) {
		for i := range records {
			if records[i].TokenHash != tokenHash {
				continue
			}
			if records[i].Consumed || !now.Before(records[i].ExpiresAt) {
				return nil, fmt.Errorf("reset token expired or used: %w", ErrForbidden)
			}
			records[i].Consumed = true
			userID = records[i].UserID
			return records, nil
		}
		return nil, fmt.Errorf("reset token: %w", ErrForbidden)
	})
	if err != nil {
		return "", err
	}
	return userID, nil
}

// GC physically removes consumed and expired tokens. Returns how many
// were dropped.
func (r *TokenRepo) GC(ctx context.Context, now time.Time) (int, error) {
	removed := 0
	err := r.tokens.Mutate(ctx, func(records []model.ResetToken) ([]model.ResetToken, error) {
		kept := records[:0]
		for _, t := range records {
			if t.Consumed || !now.Before(t.ExpiresAt) {
				removed++
				continue
			}
			kept = append(kept, t)
		}
		return kept, nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
