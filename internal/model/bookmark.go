package model

import (
	"errors"
	"time"
)

// Bookmark marks a movie a user wants to watch later. At most one
// bookmark exists per (user, movie) pair.
type Bookmark struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	MovieID   string    `json:"movie_id"`
	CreatedAt time.Time `json:"created_at"`
}

// RecordID implements store.Record.
func (b Bookmark) RecordID() string { return b.ID }

// Validate checks the field contract enforced at the store boundary.
func (b Bookmark) Validate() error {
	if b.ID == "" {
		return errors.New("bookmark: id required")
	}
	if b.UserID == "" {
		return errors.New("bookmark: user_id required")
	}
	if b.MovieID == "" {
		return errors.New("bookmark: movie_id required")
	}
	if b.CreatedAt.IsZero() {
		return errors.New("bookmark: created_at required")
	}
	return nil
}
