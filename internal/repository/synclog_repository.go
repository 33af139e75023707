package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/movielog/movielog/internal/model"
	"github.com/movielog/movielog/internal/store"
)

// SyncLogRepo provides the append-only audit trail of external
// metadata sync runs, ordered by timestamp ascending.
type SyncLogRepo struct {
	entries *store.Collection[model.SyncLogEntry]
}

func NewSyncLogRepo(entries *store.Collection[model.SyncLogEntry]) *SyncLogRepo {
	return &SyncLogRepo{entries: entries}
}

// Append assigns an id and appends the entry to the log.
func (r *SyncLogRepo) Append(ctx context.Context, e model.SyncLogEntry) (model.SyncLogEntry, error) {
	e.ID = uuid.NewString()
	err := r.entries.Mutate(ctx, func(records []model.SyncLogEntry) ([]model.SyncLogEntry, error) {
		for _, existing := range records {
			if existing.ID == e.ID {
				e.ID = uuid.NewString()
			}
		}
		return append(records, e), nil
	})
	if err != nil {
		return model.SyncLogEntry{}, err
	}
	return e, nil
}

// List returns the log in append order.
func (r *SyncLogRepo) List(ctx context.Context) ([]model.SyncLogEntry, error) {
	return r.entries.LoadAll(ctx)
}
