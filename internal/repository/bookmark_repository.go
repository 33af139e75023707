package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/movielog/movielog/internal/model"
	"github.com/movielog/movielog/internal/store"
)

// BookmarkRepo mirrors ReviewRepo for bookmarks: one bookmark per
// (user, movie) pair, checked inside the write critical section.
type BookmarkRepo struct {
	bookmarks *store.Collection[model.Bookmark]
	movies    *store.Collection[model.Movie]
	users     *store.Collection[model.User]
}

func NewBookmarkRepo(
	bookmarks *store.Collection[model.Bookmark],
	movies *store.Collection[model.Movie],
	users *store.Collection[model.User],
) *BookmarkRepo {
	return &BookmarkRepo{bookmarks: bookmarks, movies: movies, users: users}
}

// Insert creates a bookmark after soft referential checks on the
// movie and user.
func (r *BookmarkRepo) Insert(ctx context.Context, userID, movieID string) (model.Bookmark, error) {
	movies, err := r.movies.LoadAll(ctx)
	if err != nil {
		return model.Bookmark{}, err
	}
	found := false
	for _, m := range movies {
		if m.ID == movieID {
			found = true
			break
		}
	}
	if !found {
		return model.Bookmark{}, fmt.Errorf("movie %s: %w", movieID, ErrNotFound)
	}
	users, err := r.users.LoadAll(ctx)
	if err != nil {
		return model.Bookmark{}, err
	}
	found = false
	for _, u := range users {
		if u.ID == userID {
			found = true
			break
		}
	}
	if !found {
		return model.Bookmark{}, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}

	b := model.Bookmark{
		ID:        uuid.NewString(),
		UserID:    userID,
		MovieID:   movieID,
		CreatedAt: time.Now().UTC(),
	}
	err = r.bookmarks.Mutate(ctx, func(records []model.Bookmark) ([]model.Bookmark, error) {
		for _, existing := range records {
			if existing.UserID == userID && existing.MovieID == movieID {
				return nil, fmt.Errorf("bookmark for user %s movie %s: %w", userID, movieID, ErrConflict)
			}
			if existing.ID == b.ID {
				b.ID = uuid.NewString()
			}
		}
		return append(records, b), nil
	})
	if err != nil {
		return model.Bookmark{}, err
	}
	return b, nil
}

// Get fetches a bookmark by id.
func (r *BookmarkRepo) Get(ctx context.Context, id string) (model.Bookmark, error) {
	records, err := r.bookmarks.LoadAll(ctx)
	if err != nil {
		return model.Bookmark{}, err
	}
	for _, b := range records {
		if b.ID == id {
			return b, nil
		}
	}
	return model.Bookmark{}, fmt.Errorf("bookmark %s: %w", id, ErrNotFound)
}

// ListByUser returns a user's bookmarks in storage order.
func (r *BookmarkRepo) ListByUser(ctx context.Context, userID string) ([]model.Bookmark, error) {
	records, err := r.bookmarks.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.Bookmark
	for _, b := range records {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

// ListByMovie returns all bookmarks of a movie.
func (r *BookmarkRepo) ListByMovie(ctx context.Context, movieID string) ([]model.Bookmark, error) {
	records, err := r.bookmarks.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.Bookmark
	for _, b := range records {
		if b.MovieID == movieID {
			out = append(out, b)
		}
	}
	return out, nil
}

// ListAll returns every bookmark.
func (r *BookmarkRepo) ListAll(ctx context.Context) ([]model.Bookmark, error) {
	return r.bookmarks.LoadAll(ctx)
}

// Delete removes a bookmark by id.
func (r *BookmarkRepo) Delete(ctx context.Context, id string) error {
	return r.bookmarks.Mutate(ctx, func(records []model.Bookmark) ([]model.Bookmark, error) {
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
			return nil, fmt.Errorf("bookmark %s: %w", id, ErrNotFound)
		}
		return kept, nil
	})
}
