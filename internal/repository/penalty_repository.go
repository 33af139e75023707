package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/movielog/movielog/internal/model"
	"github.com/movielog/movielog/internal/store"
)

// PenaltyRepo provides the append-only penalty log. Entries are never
// rewritten except for the revoked flag; the active count is derived
// at read time via a pure filter over the snapshot.
type PenaltyRepo struct {
	penalties *store.Collection[model.Penalty]
}

func NewPenaltyRepo(penalties *store.Collection[model.Penalty]) *PenaltyRepo {
	return &PenaltyRepo{penalties: penalties}
}

// Insert appends a new penalty and returns it.
func (r *PenaltyRepo) Insert(ctx context.Context, userID, reason, issuedBy string, expiresAt *time.Time) (model.Penalty, error) {
	p := model.Penalty{
		ID:        uuid.NewString(),
		UserID:    userID,
		Reason:    reason,
		IssuedBy:  issuedBy,
		IssuedAt:  time.Now().UTC(),
		ExpiresAt: expiresAt,
	}
	err := r.penalties.Mutate(ctx, func(records []model.Penalty) ([]model.Penalty, error) {
		for _, existing := range records {
			if existing.ID == p.ID {
				p.ID = uuid.NewString()
			}
		}
		return append(records, p), nil
	})
	if err != nil {
		return model.Penalty{}, err
	}
	return p, nil
}

// Get fetches a penalty by id.
func (r *PenaltyRepo) Get(ctx context.Context, id string) (model.Penalty, error) {
	records, err := r.penalties.LoadAll(ctx)
	if err != nil {
		return model.Penalty{}, err
	}
	for _, p := range records {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Penalty{}, fmt.Errorf("penalty %s: %w", id, ErrNotFound)
}

// ListByUser returns all penalties issued against a user, including
// expired and revoked ones; history is never hidden.
func (r *PenaltyRepo) ListByUser(ctx context.Context, userID string) ([]model.Penalty, error) {
	records, err := r.penalties.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.Penalty
	for _, p := range records {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

// ListAll returns the full penalty log.
func (r *PenaltyRepo) ListAll(ctx context.Context) ([]model.Penalty, error) {
	return r.penalties.LoadAll(ctx)
}

// ActiveCount derives the number of penalties counting against the
// user at the given instant.
func (r *PenaltyRepo) ActiveCount(ctx context.Context, userID string, now time.Time) (int, error) {
	records, err := r.penalties.LoadAll(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, p := range records {
		if p.UserID == userID && p.ActiveAt(now) {
			n++
		}
	}
	return n, nil
}

// Revoke marks a penalty as withdrawn. The record stays in the log.
func (r *PenaltyRepo) Revoke(ctx context.Context, id string) error {
	return r.penalties.Mutate(ctx, func(records []model.Penalty) ([]model.Penalty, error) {
		for i := range records {
			if records[i].ID == id {
				records[i].Revoked = true
				return records, nil
			}
		}
		return nil, fmt.Errorf("penalty %s: %w", id, ErrNotFound)
	})
}
