package service

import (
	"context"
	"fmt"
	"time"

	"github.com/movielog/movielog/internal/model"
	"github.com/movielog/movielog/internal/repository"
)

// PenaltyService issues and revokes moderation penalties. Issuing and
// revoking are admin-only; a user may read their own penalty history.
type PenaltyService struct {
	penalties *repository.PenaltyRepo
	users     *repository.UserRepo
}

func NewPenaltyService(penalties *repository.PenaltyRepo, users *repository.UserRepo) *PenaltyService {
	return &PenaltyService{penalties: penalties, users: users}
}

// Issue appends a penalty against userID. The target user must exist.
func (s *PenaltyService) Issue(ctx context.Context, p Principal, userID, reason string, expiresAt *time.Time) (model.Penalty, error) {
	if !p.IsAdmin() {
		return model.Penalty{}, fmt.Errorf("issue penalty: %w", repository.ErrForbidden)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return model.Penalty{}, err
	}
	return s.penalties.Insert(ctx, userID, reason, p.UserID, expiresAt)
}

// Revoke withdraws a penalty; the entry stays in the log with its
// revoked flag set.
func (s *PenaltyService) Revoke(ctx context.Context, p Principal, penaltyID string) error {
	if !p.IsAdmin() {
		return fmt.Errorf("revoke penalty: %w", repository.ErrForbidden)
	}
	return s.penalties.Revoke(ctx, penaltyID)
}

// ListForUser returns a user's full penalty history. Admins may list
// anyone, others only themselves.
func (s *PenaltyService) ListForUser(ctx context.Context, p Principal, userID string) ([]model.Penalty, error) {
	if !p.IsAdmin() && p.UserID != userID {
		return nil, fmt.Errorf("list penalties: %w", repository.ErrForbidden)
	}
	return s.penalties.ListByUser(ctx, userID)
}

// ActiveCount derives the number of currently counting penalties for
// a user.
func (s *PenaltyService) ActiveCount(ctx context.Context, p Principal, userID string) (int, error) {
	if !p.IsAdmin() && p.UserID != userID {
		return 0, fmt.Errorf("penalty count: %w", repository.ErrForbidden)
	}
	return s.penalties.ActiveCount(ctx, userID, time.Now().UTC())
}
