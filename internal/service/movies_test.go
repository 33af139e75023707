package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movielog/movielog/internal/model"
	"github.com/movielog/movielog/internal/repository"
)

func TestMovieListFilters(t *testing.T) {
	e := newEnv(t)
	e.seedMovies(t,
		model.Movie{ID: "m1", Title: "Heat", Year: 1995, Genres: []string{"Crime", "Drama"}},
		model.Movie{ID: "m2", Title: "Alien", Year: 1979, Genres: []string{"Sci-Fi", "Horror"}},
		model.Movie{ID: "m3", Title: "Casino", Year: 1995, Genres: []string{"Crime"}},
	)
	svc := NewMovieService(e.movies)
	ctx := context.Background()

	got, total, err := svc.List(ctx, MovieFilter{Genre: "crime"}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, got, 2)

	got, total, err = svc.List(ctx, MovieFilter{Genre: "crime", Year: 1979}, 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, got)

	got, total, err = svc.List(ctx, MovieFilter{Year: 1995}, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, got, 1)
	assert.Equal(t, "m1", got[0].ID)

	// Out-of-range page is empty, total unchanged.
	got, total, err = svc.List(ctx, MovieFilter{}, 9, 20)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Empty(t, got)
}

func TestMovieWritesRequireAdmin(t *testing.T) {
	e := newEnv(t)
	e.seedMovies(t, model.Movie{ID: "m1", Title: "Heat"})
	svc := NewMovieService(e.movies)
	ctx := context.Background()

	_, err := svc.Create(ctx, asUser("u1"), model.Movie{Title: "Ran", Year: 1985})
	require.ErrorIs(t, err, repository.ErrForbidden)
	_, err = svc.Update(ctx, asUser("u1"), "m1", func(m *model.Movie) error { return nil })
	require.ErrorIs(t, err, repository.ErrForbidden)
	require.ErrorIs(t, svc.Delete(ctx, asUser("u1"), "m1"), repository.ErrForbidden)

	created, err := svc.Create(ctx, asAdmin("a1"), model.Movie{Title: "Ran", Year: 1985, Genres: []string{"Drama"}})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, asAdmin("a1"), created.ID))
}

func TestUserSetActiveGuards(t *testing.T) {
	e := newEnv(t)
	e.seedUsers(t, "u1", "a1")
	svc := NewUserService(e.users)
	ctx := context.Background()

	require.ErrorIs(t, svc.SetActive(ctx, asUser("u1"), "u1", false), repository.ErrForbidden)

	// Admins cannot lock themselves out.
	err := svc.SetActive(ctx, asAdmin("a1"), "a1", false)
	require.ErrorIs(t, err, repository.ErrConflict)

	require.NoError(t, svc.SetActive(ctx, asAdmin("a1"), "u1", false))
	got, err := e.users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, got.Active)
}
