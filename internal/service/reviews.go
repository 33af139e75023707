package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/movielog/movielog/internal/model"
	"github.com/movielog/movielog/internal/repository"
)

// ReviewService implements review CRUD with ownership and penalty
// checks. Only the review's author or an admin may mutate it; a user
// whose active penalty count has reached the configured threshold may
// no longer create reviews, though their existing reviews stay
// editable for moderation history.
type ReviewService struct {
	reviews   *repository.ReviewRepo
	penalties *repository.PenaltyRepo
	threshold int
}

func NewReviewService(reviews *repository.ReviewRepo, penalties *repository.PenaltyRepo, penaltyThreshold int) *ReviewService {
	return &ReviewService{reviews: reviews, penalties: penalties, threshold: penaltyThreshold}
}

// Page bundles one page of reviews with the total count across all
// pages. Ordering is created_at descending, ties broken by id so the
// sequence is stable across calls.
type Page struct {
	Items []model.Review `json:"items"`
	Total int            `json:"total"`
}

// Create adds the caller's review for a movie. Fails with ErrConflict
// if one already exists for this (user, movie) pair, ErrNotFound if
// the movie is unknown, and ErrForbidden once the caller's active
// penalties reach the threshold.
func (s *ReviewService) Create(ctx context.Context, p Principal, movieID string, rating int, text string) (model.Review, error) {
	n, err := s.penalties.ActiveCount(ctx, p.UserID, time.Now().UTC())
	if err != nil {
		return model.Review{}, err
	}
	if s.threshold > 0 && n >= s.threshold {
		return model.Review{}, fmt.Errorf("penalty threshold reached: %w", repository.ErrForbidden)
	}
	return s.reviews.Insert(ctx, p.UserID, movieID, rating, text)
}

// Update edits rating and text of a review owned by the caller, or by
// anyone when the caller is an admin.
func (s *ReviewService) Update(ctx context.Context, p Principal, reviewID string, rating int, text string) (model.Review, error) {
	rev, err := s.reviews.Get(ctx, reviewID)
	if err != nil {
		return model.Review{}, err
	}
	if rev.UserID != p.UserID && !p.IsAdmin() {
		return model.Review{}, fmt.Errorf("review %s: %w", reviewID, repository.ErrForbidden)
	}
	return s.reviews.Update(ctx, reviewID, func(r *model.Review) {
		r.Rating = rating
		r.Text = text
	})
}

// Delete removes a review owned by the caller, or any review when the
// caller is an admin.
func (s *ReviewService) Delete(ctx context.Context, p Principal, reviewID string) error {
	rev, err := s.reviews.Get(ctx, reviewID)
	if err != nil {
		return err
	}
	if rev.UserID != p.UserID && !p.IsAdmin() {
		return fmt.Errorf("review %s: %w", reviewID, repository.ErrForbidden)
	}
	return s.reviews.Delete(ctx, reviewID)
}

// ListByMovie returns one page of a movie's reviews, newest first.
// Page numbers start at 1; an out-of-range page yields an empty page,
// not an error. pageSize is clamped to [1,100].
func (s *ReviewService) ListByMovie(ctx context.Context, movieID string, page, pageSize int) (Page, error) {
	all, err := s.reviews.ListByMovie(ctx, movieID)
	if err != nil {
		return Page{}, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	start := (page - 1) * pageSize
	if start >= len(all) {
		return Page{Items: []model.Review{}, Total: len(all)}, nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return Page{Items: all[start:end], Total: len(all)}, nil
}

// MyReview returns the caller's review for a movie, or ErrNotFound.
func (s *ReviewService) MyReview(ctx context.Context, p Principal, movieID string) (model.Review, error) {
	return s.reviews.GetByUserAndMovie(ctx, p.UserID, movieID)
}
