// Package queue defines message payloads exchanged over the message
// broker and the background consumer that records them.
package queue

// SyncCompletedEvent is published after every external metadata sync
// run. It carries the audit summary so downstream consumers can log
// or notify without reading the sync-log collection.
type SyncCompletedEvent struct {
	RunID         string   `json:"run_id"`
	Timestamp     string   `json:"timestamp"`
	MoviesUpdated int      `json:"movies_updated"`
	MovieIDs      []string `json:"movie_ids"`
	Source        string   `json:"source"`
	Status        string   `json:"status"`
	TriggeredBy   string   `json:"triggered_by"`
}

// PenaltyIssuedEvent is published when an admin issues a penalty, for
// moderation tooling and notifications.
type PenaltyIssuedEvent struct {
	PenaltyID string `json:"penalty_id"`
	UserID    string `json:"user_id"`
	Reason    string `json:"reason"`
	IssuedBy  string `json:"issued_by"`
	IssuedAt  string `json:"issued_at"`
}
