package model

import (
	"errors"
	"time"
)

// Movie is a catalog entry in the `movies` collection. The id is
// immutable; descriptive fields are edited by admins or filled in by
// the external sync engine.
//
// PosterURL, Runtime and Cast are the externally-fillable fields: they
// may stay null/empty until a sync run provides them. Sync only ever
// fills missing values, it never overwrites an existing one.
type Movie struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Year        int       `json:"year"`
	Genres      []string  `json:"genres"`
	Description string    `json:"description,omitempty"`
	PosterURL   *string   `json:"poster_url"`
	Runtime     *int      `json:"runtime"`
	Cast        []string  `json:"cast"`
	CreatedAt   time.Time `json:"created_at"`
}

// RecordID implements store.Record.
func (m Movie) RecordID() string { return m.ID }

// Validate checks the field contract enforced at the store boundary.
func (m Movie) Validate() error {
	if m.ID == "" {
		return errors.New("movie: id required")
	}
	if m.Title == "" {
		return errors.New("movie: title required")
	}
	if m.Year < 1878 || m.Year > time.Now().UTC().Year()+5 {
		return errors.New("movie: year out of range")
	}
	for _, g := range m.Genres {
		if g == "" {
			return errors.New("movie: empty genre")
		}
	}
	if m.Runtime != nil && *m.Runtime <= 0 {
		return errors.New("movie: runtime must be positive")
	}
	return nil
}

// MissingExternalFields reports whether any externally-fillable field
// is still absent, i.e. whether a sync run could add anything.
func (m Movie) MissingExternalFields() bool {
	return m.PosterURL == nil || m.Runtime == nil || len(m.Cast) == 0
}
