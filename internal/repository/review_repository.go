package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/movielog/movielog/internal/model"
	"github.com/movielog/movielog/internal/store"
)

// ReviewRepo provides reviews with the one-review-per-(user,movie)
// invariant. The uniqueness check runs inside the same critical
// section as the insert, never as a separate earlier read, so two
// concurrent inserts of the same pair resolve to exactly one success
// and one ErrConflict.
type ReviewRepo struct {
	reviews *store.Collection[model.Review]
	movies  *store.Collection[model.Movie]
	users   *store.Collection[model.User]
}

func NewReviewRepo(
	reviews *store.Collection[model.Review],
	movies *store.Collection[model.Movie],
	users *store.Collection[model.User],
) *ReviewRepo {
	return &ReviewRepo{reviews: reviews, movies: movies, users: users}
}

// Insert creates a review after checking that the movie and user
// exist. Referential checks are soft: they run on write here, not in
// the storage format.
func (r *ReviewRepo) Insert(ctx context.Context, userID, movieID string, rating int, text string) (model.Review, error) {
	if err := r.movieExists(ctx, movieID); err != nil {
		return model.Review{}, err
	}
	if err := r.userExists(ctx, userID); err != nil {
		return model.Review{}, err
	}
	now := time.Now().UTC()
	rev := model.Review{
		ID:        uuid.NewString(),
		MovieID:   movieID,
		UserID:    userID,
		Rating:    rating,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := r.reviews.Mutate(ctx, func(records []model.Review) ([]model.Review, error) {
		for _, existing := range records {
			if existing.UserID == userID && existing.MovieID == movieID {
				return nil, fmt.Errorf("review for user %s movie %s: %w", userID, movieID, ErrConflict)
			}
			if existing.ID == rev.ID {
				rev.ID = uuid.NewString()
			}
		}
		return append(records, rev), nil
	})
	if err != nil {
		return model.Review{}, err
	}
	return rev, nil
}

// Get fetches a review by id.
func (r *ReviewRepo) Get(ctx context.Context, id string) (model.Review, error) {
	records, err := r.reviews.LoadAll(ctx)
	if err != nil {
		return model.Review{}, err
	}
	for _, rev := range records {
		if rev.ID == id {
			return rev, nil
		}
	}
	return model.Review{}, fmt.Errorf("review %s: %w", id, ErrNotFound)
}

// GetByUserAndMovie returns the single review a user wrote for a
// movie, or ErrNotFound.
func (r *ReviewRepo) GetByUserAndMovie(ctx context.Context, userID, movieID string) (model.Review, error) {
	records, err := r.reviews.LoadAll(ctx)
	if err != nil {
		return model.Review{}, err
	}
	for _, rev := range records {
		if rev.UserID == userID && rev.MovieID == movieID {
			return rev, nil
		}
	}
	return model.Review{}, fmt.Errorf("review by %s for %s: %w", userID, movieID, ErrNotFound)
}

// ListByMovie returns all reviews for a movie in storage order.
func (r *ReviewRepo) ListByMovie(ctx context.Context, movieID string) ([]model.Review, error) {
	records, err := r.reviews.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.Review
	for _, rev := range records {
		if rev.MovieID == movieID {
			out = append(out, rev)
		}
	}
	return out, nil
}

// ListByUser returns all reviews written by a user.
func (r *ReviewRepo) ListByUser(ctx context.Context, userID string) ([]model.Review, error) {
	records, err := r.reviews.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.Review
	for _, rev := range records {
		if rev.UserID == userID {
			out = append(out, rev)
		}
	}
	return out, nil
}

// ListAll returns every review. A cascade interrupted by a crash can
// leave reviews whose movie is gone; callers aggregating across
// movies must treat those as absent rather than fail.
func (r *ReviewRepo) ListAll(ctx context.Context) ([]model.Review, error) {
	return r.reviews.LoadAll(ctx)
}

// Update applies mutate to the review under the collection lock and
// stamps UpdatedAt.
func (r *ReviewRepo) Update(ctx context.Context, id string, mutate func(*model.Review)) (model.Review, error) {
	var out model.Review
	err := r.reviews.Mutate(ctx, func(records []model.Review) ([]model.Review, error) {
		for i := range records {
			if records[i].ID == id {
				mutate(&records[i])
				records[i].ID = id
				records[i].UpdatedAt = time.Now().UTC()
				out = records[i]
				return records, nil
			}
		}
		return nil, fmt.Errorf("review %s: %w", id, ErrNotFound)
	})
	if err != nil {
		return model.Review{}, err
	}
	return out, nil
}

// Delete removes a review by id.
func (r *ReviewRepo) Delete(ctx context.Context, id string) error {
	return r.reviews.Mutate(ctx, func(records []model.Review) ([]model.Review, error) {
		kept := records[:0]
		found := false
		for _, rec := range records {
			if rec.ID == id {
				found = true
				continue
			}
			kept = append(kept, rec)
		}
		if !found {
			return nil, fmt.Errorf("review %s: %w", id, ErrNotFound)
		}
		return kept, nil
	})
}

func (r *ReviewRepo) movieExists(ctx context.Context, id string) error {
	movies, err := r.movies.LoadAll(ctx)
	if err != nil {
		return err
	}
	for _, m := range movies {
		if m.ID == id {
			return nil
		}
	}
	return fmt.Errorf("movie %s: %w", id, ErrNotFound)
}

func (r *ReviewRepo) userExists(ctx context.Context, id string) error {
	users, err := r.users.LoadAll(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.ID == id {
			return nil
		}
	}
	return fmt.Errorf("user %s: %w", id, ErrNotFound)
}
