package model

import (
	"errors"
	"time"
)

// Rating bounds for a review. RatingNeutral is the midpoint used by
// the recommendation engine: ratings above it count as positive taste
// signal, below it as negative.
const (
	RatingMin     = 1
	RatingMax     = 5
	RatingNeutral = 3
)

// Review is a user's rating and text for one movie, stored in the
// `reviews` collection. At most one review exists per (user, movie)
// pair; the repository enforces this inside the write critical
// section.
type Review struct {
	ID        string    `json:"id"`
	MovieID   string    `json:"movie_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecordID implements store.Record.
func (r Review) RecordID() string { return r.ID }

// Validate checks the field contract enforced at the store boundary.
func (r Review) Validate() error {
	if r.ID == "" {
		return errors.New("review: id required")
	}
	if r.MovieID == "" {
		return errors.New("review: movie_id required")
	}
	if r.UserID == "" {
		return errors.New("review: user_id required")
	}
	if r.Rating < RatingMin || r.Rating > RatingMax {
		return errors.New("review: rating must be between 1 and 5")
	}
	if r.CreatedAt.IsZero() {
		return errors.New("review: created_at required")
	}
	return nil
}
