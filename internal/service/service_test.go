package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/movielog/movielog/internal/model"
	"github.com/movielog/movielog/internal/repository"
	"github.com/movielog/movielog/internal/store"
)

// low cost keeps the bcrypt tests fast
const testBcryptCost = 4

// env wires every repository over one temp directory. The raw
// collections stay accessible so tests can seed records with exact
// timestamps.
type env struct {
	userCol     *store.Collection[model.User]
	movieCol    *store.Collection[model.Movie]
	reviewCol   *store.Collection[model.Review]
	bookmarkCol *store.Collection[model.Bookmark]

	users     *repository.UserRepo
	movies    *repository.MovieRepo
	reviews   *repository.ReviewRepo
	bookmarks *repository.BookmarkRepo
	penalties *repository.PenaltyRepo
	tokens    *repository.TokenRepo
	syncLog   *repository.SyncLogRepo
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	e := &env{
		userCol:     store.NewCollection[model.User](dir, "users"),
		movieCol:    store.NewCollection[model.Movie](dir, "movies"),
		reviewCol:   store.NewCollection[model.Review](dir, "reviews"),
		bookmarkCol: store.NewCollection[model.Bookmark](dir, "bookmarks"),
	}
	e.users = repository.NewUserRepo(e.userCol)
	e.movies = repository.NewMovieRepo(e.movieCol, e.reviewCol, e.bookmarkCol)
	e.reviews = repository.NewReviewRepo(e.reviewCol, e.movieCol, e.userCol)
	e.bookmarks = repository.NewBookmarkRepo(e.bookmarkCol, e.movieCol, e.userCol)
	e.penalties = repository.NewPenaltyRepo(store.NewCollection[model.Penalty](dir, "penalties"))
	e.tokens = repository.NewTokenRepo(store.NewCollection[model.ResetToken](dir, "reset_tokens"))
	e.syncLog = repository.NewSyncLogRepo(store.NewCollection[model.SyncLogEntry](dir, "sync_log"))
	return e
}

func (e *env) seedUsers(t *testing.T, ids ...string) {
	t.Helper()
	now := time.Now().UTC()
	users := make([]model.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, model.User{
			ID: id, Username: id, PasswordHash: "x",
			Role: model.RoleUser, Active: true, CreatedAt: now,
		})
	}
	require.NoError(t, e.userCol.ReplaceAll(context.Background(), users))
}

func (e *env) seedMovies(t *testing.T, movies ...model.Movie) {
	t.Helper()
	now := time.Now().UTC()
	for i := range movies {
		if movies[i].Year == 0 {
			movies[i].Year = 2000
		}
		if movies[i].CreatedAt.IsZero() {
			movies[i].CreatedAt = now
		}
	}
	require.NoError(t, e.movieCol.ReplaceAll(context.Background(), movies))
}

func (e *env) seedReviews(t *testing.T, reviews ...model.Review) {
	t.Helper()
	for i := range reviews {
		if reviews[i].UpdatedAt.IsZero() {
			reviews[i].UpdatedAt = reviews[i].CreatedAt
		}
	}
	require.NoError(t, e.reviewCol.ReplaceAll(context.Background(), reviews))
}

func asUser(id string) Principal  { return Principal{UserID: id, Role: model.RoleUser} }
func asAdmin(id string) Principal { return Principal{UserID: id, Role: model.RoleAdmin} }
