package model

import (
	"errors"
	"time"
)

// Penalty is an append-only moderation record against a user, issued
// by an admin. Historical entries are never rewritten; the "active"
// penalty count is derived at read time by filtering out expired and
// revoked entries. Revocation flips a flag instead of deleting.
//
// Fields:
//  ID        – primary identifier of the penalty.
//  UserID    – user the penalty was issued against.
//  Reason    – human-readable violation description.
//  IssuedBy  – id of the admin who issued it.
//  IssuedAt  – timestamp of issue (UTC).
//  ExpiresAt – optional expiry; nil means the penalty never expires.
//  Revoked   – set when an admin withdraws the penalty.
type Penalty struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Reason    string     `json:"reason"`
	IssuedBy  string     `json:"issued_by"`
	IssuedAt  time.Time  `json:"issued_at"`
	ExpiresAt *time.Time `json:"expires_at"`
	Revoked   bool       `json:"revoked"`
}

// RecordID implements store.Record.
func (p Penalty) RecordID() string { return p.ID }

// Validate checks the field contract enforced at the store boundary.
func (p Penalty) Validate() error {
	if p.ID == "" {
		return errors.New("penalty: id required")
	}
	if p.UserID == "" {
		return errors.New("penalty: user_id required")
	}
	if p.Reason == "" {
		return errors.New("penalty: reason required")
	}
	if p.IssuedBy == "" {
		return errors.New("penalty: issued_by required")
	}
	if p.IssuedAt.IsZero() {
		return errors.New("penalty: issued_at required")
	}
	return nil
}

// ActiveAt reports whether the penalty still counts at the given
// instant: not revoked and not past its expiry.
func (p Penalty) ActiveAt(now time.Time) bool {
	if p.Revoked {
		return false
	}
	if p.ExpiresAt != nil && !now.Before(*p.ExpiresAt) {
		return false
	}
	return true
}
