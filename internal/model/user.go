package model

import (
	"errors"
	"time"
)

// Roles assignable to a user account. The role travels in the JWT and
// is checked by services against the authenticated principal.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an application account as stored in the `users`
// collection. Accounts are never deleted, only deactivated, so that
// reviews and penalties keep a valid author reference.
//
// Fields:
//  ID           – primary identifier of the user.
//  Username     – unique, lower-cased login name.
//  PasswordHash – bcrypt hashed password.
//  Role         – "user" or "admin".
//  Active       – whether the account may log in and write.
//  CreatedAt    – timestamp of creation (UTC).
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// RecordID implements store.Record.
func (u User) RecordID() string { return u.ID }

// Validate checks the field contract enforced at the store boundary.
func (u User) Validate() error {
	if u.ID == "" {
		return errors.New("user: id required")
	}
	if u.Username == "" {
		return errors.New("user: username required")
	}
	if u.PasswordHash == "" {
		return errors.New("user: password hash required")
	}
	if u.Role != RoleUser && u.Role != RoleAdmin {
		return errors.New("user: role must be user or admin")
	}
	if u.CreatedAt.IsZero() {
		return errors.New("user: created_at required")
	}
	return nil
}
