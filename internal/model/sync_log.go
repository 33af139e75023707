package model

import (
	"errors"
	"time"
)

// Outcome of a metadata sync run.
const (
	SyncStatusSuccess = "success"
	SyncStatusPartial = "partial"
	SyncStatusFailed  = "failed"
)

// SyncLogEntry is the audit record appended after every external
// metadata sync run. The log is append-only and ordered by timestamp
// ascending. MovieIDs lists, in merge order, the movies that actually
// changed; movies that were already complete are not listed.
type SyncLogEntry struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	MoviesUpdated int       `json:"movies_updated"`
	MovieIDs      []string  `json:"movie_ids"`
	Source        string    `json:"source"`
	Status        string    `json:"status"`
}

// RecordID implements store.Record.
func (e SyncLogEntry) RecordID() string { return e.ID }

// Validate checks the field contract enforced at the store boundary.
func (e SyncLogEntry) Validate() error {
	if e.ID == "" {
		return errors.New("sync_log: id required")
	}
	if e.Timestamp.IsZero() {
		return errors.New("sync_log: timestamp required")
	}
	if e.MoviesUpdated < 0 {
		return errors.New("sync_log: negative update count")
	}
	if e.MoviesUpdated != len(e.MovieIDs) {
		return errors.New("sync_log: update count does not match movie ids")
	}
	switch e.Status {
	case SyncStatusSuccess, SyncStatusPartial, SyncStatusFailed:
	default:
		return errors.New("sync_log: unknown status")
	}
	return nil
}
