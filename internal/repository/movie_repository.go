package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/movielog/movielog/internal/model"
	"github.com/movielog/movielog/internal/store"
)

// MovieRepo provides the movie catalog. Deleting a movie cascades to
// its reviews and bookmarks as an ordered sequence of single-collection
// atomic writes; there is no cross-collection transaction, so readers
// of the dependent collections tolerate rows whose movie is gone.
type MovieRepo struct {
	movies    *store.Collection[model.Movie]
	reviews   *store.Collection[model.Review]
	bookmarks *store.Collection[model.Bookmark]
}

func NewMovieRepo(
	movies *store.Collection[model.Movie],
	reviews *store.Collection[model.Review],
	bookmarks *store.Collection[model.Bookmark],
) *MovieRepo {
	return &MovieRepo{movies: movies, reviews: reviews, bookmarks: bookmarks}
}

// Insert assigns a fresh id and stores the movie.
func (r *MovieRepo) Insert(ctx context.Context, m model.Movie) (model.Movie, error) {
	m.ID = uuid.NewString()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	err := r.movies.Mutate(ctx, func(records []model.Movie) ([]model.Movie, error) {
		for _, existing := range records {
			if existing.ID == m.ID {
				m.ID = uuid.NewString()
			}
		}
		return append(records, m), nil
	})
	if err != nil {
		return model.Movie{}, err
	}
	return m, nil
}

// Get fetches a movie by id.
func (r *MovieRepo) Get(ctx context.Context, id string) (model.Movie, error) {
	records, err := r.movies.LoadAll(ctx)
	if err != nil {
		return model.Movie{}, err
	}
	for _, m := range records {
		if m.ID == id {
			return m, nil
		}
	}
	return model.Movie{}, fmt.Errorf("movie %s: %w", id, ErrNotFound)
}

// List returns all movies in storage order.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
	return r.movies.LoadAll(ctx)
}

// Update applies mutate to the movie identified by id under the
// collection lock. The movie id itself is immutable; mutate receives
// a pointer to the latest committed state.
func (r *MovieRepo) Update(ctx context.Context, id string, mutate func(*model.Movie) error) (model.Movie, error) {
	var out model.Movie
	err := r.movies.Mutate(ctx, func(records []model.Movie) ([]model.Movie, error) {
		for i := range records {
			if records[i].ID == id {
				if err := mutate(&records[i]); err != nil {
					return nil, err
				}
				records[i].ID = id
				out = records[i]
				return records, nil
			}
		}
		return nil, fmt.Errorf("movie %s: %w", id, ErrNotFound)
	})
	if err != nil {
		return model.Movie{}, err
	}
	return out, nil
}

// Delete removes the movie and cascades to its reviews and bookmarks.
// Dependent collections are cleaned first so a crash mid-cascade can
// only leave rows that list operations already filter out.
func (r *MovieRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	err := r.reviews.Mutate(ctx, func(records []model.Review) ([]model.Review, error) {
		kept := records[:0]
		for _, rec := range records {
			if rec.MovieID != id {
				kept = append(kept, rec)
			}
		}
		return kept, nil
	})
	if err != nil {
		return err
	}
	err = r.bookmarks.Mutate(ctx, func(records []model.Bookmark) ([]model.Bookmark, error) {
		kept := records[:0]
		for _, rec := range records {
			if rec.MovieID != id {
				kept = append(kept, rec)
			}
		}
		return kept, nil
	})
	if err != nil {
		return err
	}
	return r.movies.Mutate(ctx, func(records []model.Movie) ([]model.Movie, error) {
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
			return nil, fmt.Errorf("movie %s: %w", id, ErrNotFound)
		}
		return kept, nil
	})
}

// ApplyMerges rewrites the listed movies in a single atomic write,
// used by the sync engine. Each merge function runs against the
// latest committed state of its movie and reports whether it changed
// anything; the ids of changed movies are returned in input order.
// Movies that disappeared since the merge set was computed are
// skipped.
func (r *MovieRepo) ApplyMerges(ctx context.Context, ids []string, merge func(*model.Movie) bool) ([]string, error) {
	var updated []string
	err := r.movies.Mutate(ctx, func(records []model.Movie) ([]model.Movie, error) {
		byID := make(map[string]int, len(records))
		for i, m := range records {
			byID[m.ID] = i
		}
		for _, id := range ids {
			i, ok := byID[id]
			if !ok {
				continue
			}
			if merge(&records[i]) {
				updated = append(updated, id)
			}
		}
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
