package model

import (
	"errors"
	"time"
)

// ResetToken is a single-use password reset token in the
// `reset_tokens` collection. Only the SHA-256 hash of the token is
// stored; the raw value goes to the user once and is never persisted.
// Expired or consumed tokens are rejected on use and removed later by
// a garbage-collection pass, never inline.
type ResetToken struct {
	TokenHash string    `json:"token_hash"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	Consumed  bool      `json:"consumed"`
	CreatedAt time.Time `json:"created_at"`
}

// RecordID implements store.Record. The hash is the identifier.
func (t ResetToken) RecordID() string { return t.TokenHash }

// Validate checks the field contract enforced at the store boundary.
func (t ResetToken) Validate() error {
	if t.TokenHash == "" {
		return errors.New("reset_token: token_hash required")
	}
	if t.UserID == "" {
		return errors.New("reset_token: user_id required")
	}
	if t.ExpiresAt.IsZero() {
		return errors.New("reset_token: expires_at required")
	}
	return nil
}
