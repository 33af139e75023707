package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movielog/movielog/internal/model"
	"github.com/movielog/movielog/internal/store"
)

// fixtures wires every collection over one temp directory and seeds
// two users and two movies.
type fixtures struct {
	users     *store.Collection[model.User]
	movies    *store.Collection[model.Movie]
	reviews   *store.Collection[model.Review]
	bookmarks *store.Collection[model.Bookmark]
}

func newFixtures(t *testing.T) fixtures {
	t.Helper()
	dir := t.TempDir()
	f := fixtures{
		users:     store.NewCollection[model.User](dir, "users"),
		movies:    store.NewCollection[model.Movie](dir, "movies"),
		reviews:   store.NewCollection[model.Review](dir, "reviews"),
		bookmarks: store.NewCollection[model.Bookmark](dir, "bookmarks"),
	}
	now := time.Now().UTC()
	require.NoError(t, f.users.ReplaceAll(context.Background(), []model.User{
		{ID: "u1", Username: "alice", PasswordHash: "x", Role: model.RoleUser, Active: true, CreatedAt: now},
		{ID: "u2", Username: "bob", PasswordHash: "x", Role: model.RoleUser, Active: true, CreatedAt: now},
	}))
	require.NoError(t, f.movies.ReplaceAll(context.Background(), []model.Movie{
		{ID: "m1", Title: "Heat", Year: 1995, Genres: []string{"Crime"}, CreatedAt: now},
		{ID: "m2", Title: "Alien", Year: 1979, Genres: []string{"Sci-Fi"}, CreatedAt: now},
	}))
	return f
}

func (f fixtures) reviewRepo() *ReviewRepo {
	return NewReviewRepo(f.reviews, f.movies, f.users)
}

func TestReviewInsertAndGet(t *testing.T) {
	f := newFixtures(t)
	repo := f.reviewRepo()
	ctx := context.Background()

	rev, err := repo.Insert(ctx, "u1", "m1", 4, "tight")
	require.NoError(t, err)
	assert.NotEmpty(t, rev.ID)

	got, err := repo.Get(ctx, rev.ID)
	require.NoError(t, err)
	assert.Equal(t, rev, got)
}

func TestReviewInsertUnknownMovie(t *testing.T) {
	f := newFixtures(t)
	_, err := f.reviewRepo().Insert(context.Background(), "u1", "nope", 4, "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestReviewDuplicatePairConflicts(t *testing.T) {
	f := newFixtures(t)
	repo := f.reviewRepo()
	ctx := context.Background()

	_, err := repo.Insert(ctx, "u1", "m1", 4, "")
	require.NoError(t, err)

	_, err = repo.Insert(ctx, "u1", "m1", 2, "changed my mind")
	require.ErrorIs(t, err, ErrConflict)

	// The same user may still review a different movie, and a
	// different user the same movie.
	_, err = repo.Insert(ctx, "u1", "m2", 3, "")
	require.NoError(t, err)
	_, err = repo.Insert(ctx, "u2", "m1", 5, "")
	require.NoError(t, err)
}

func TestReviewConcurrentSamePairOneWins(t *testing.T) {
	f := newFixtures(t)
	repo := f.reviewRepo()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Insert(context.Background(), "u1", "m1", 4, "")
		}(i)
	}
	wg.Wait()

	var ok, conflict int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, ErrConflict):
			conflict++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflict)

	all, err := repo.ListByMovie(context.Background(), "m1")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestReviewConcurrentDifferentUsersBothWin(t *testing.T) {
	f := newFixtures(t)
	repo := f.reviewRepo()

	var wg sync.WaitGroup
	users := []string{"u1", "u2"}
	errs := make([]error, len(users))
	for i, uid := range users {
		wg.Add(1)
		go func(i int, uid string) {
			defer wg.Done()
			_, errs[i] = repo.Insert(context.Background(), uid, "m1", 4, "")
		}(i, uid)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	all, err := repo.ListByMovie(context.Background(), "m1")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestReviewUpdateStampsUpdatedAt(t *testing.T) {
	f := newFixtures(t)
	repo := f.reviewRepo()
	ctx := context.Background()

	rev, err := repo.Insert(ctx, "u1", "m1", 2, "meh")
	require.NoError(t, err)

	got, err := repo.Update(ctx, rev.ID, func(r *model.Review) {
		r.Rating = 5
		r.Text = "grew on me"
	})
	require.NoError(t, err)
	assert.Equal(t, 5, got.Rating)
	assert.Equal(t, "grew on me", got.Text)
	assert.Equal(t, rev.CreatedAt, got.CreatedAt)
	assert.False(t, got.UpdatedAt.Before(rev.UpdatedAt))
}

func TestReviewUpdateUnknown(t *testing.T) {
	f := newFixtures(t)
	_, err := f.reviewRepo().Update(context.Background(), "nope", func(r *model.Review) {})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestReviewDelete(t *testing.T) {
	f := newFixtures(t)
	repo := f.reviewRepo()
	ctx := context.Background()

	rev, err := repo.Insert(ctx, "u1", "m1", 4, "")
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, rev.ID))

	_, err = repo.Get(ctx, rev.ID)
	require.ErrorIs(t, err, ErrNotFound)

	// Deleting frees the (user, movie) pair for a fresh review.
	_, err = repo.Insert(ctx, "u1", "m1", 1, "second take")
	require.NoError(t, err)
}
