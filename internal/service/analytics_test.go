package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movielog/movielog/internal/model"
	"github.com/movielog/movielog/internal/repository"
)

func newAnalytics(e *env) *AnalyticsService {
	return NewAnalyticsService(e.users, e.movies, e.reviews, e.bookmarks, e.penalties)
}

func seedAnalyticsData(t *testing.T, e *env) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, e.userCol.ReplaceAll(context.Background(), []model.User{
		{ID: "u1", Username: "alice", PasswordHash: "x", Role: model.RoleUser, Active: true, CreatedAt: now},
		{ID: "u2", Username: "bob", PasswordHash: "x", Role: model.RoleUser, Active: false, CreatedAt: now},
	}))
	e.seedMovies(t,
		model.Movie{ID: "m1", Title: "Heat"},
		model.Movie{ID: "m2", Title: "Alien"},
	)
	e.seedReviews(t,
		model.Review{ID: "r1", MovieID: "m1", UserID: "u1", Rating: 4, CreatedAt: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)},
		model.Review{ID: "r2", MovieID: "m1", UserID: "u2", Rating: 2, CreatedAt: time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC)},
		model.Review{ID: "r3", MovieID: "m2", UserID: "u1", Rating: 5, CreatedAt: time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)},
	)
}

func TestAnalyticsRequiresAdmin(t *testing.T) {
	svc := newAnalytics(newEnv(t))
	_, err := svc.Stats(context.Background(), asUser("u1"))
	require.ErrorIs(t, err, repository.ErrForbidden)
}

func TestAnalyticsStats(t *testing.T) {
	e := newEnv(t)
	seedAnalyticsData(t, e)
	svc := newAnalytics(e)

	st, err := svc.Stats(context.Background(), asAdmin("a1"))
	require.NoError(t, err)
	assert.Equal(t, PlatformStats{
		TotalUsers:   2,
		ActiveUsers:  1,
		TotalMovies:  2,
		TotalReviews: 3,
	}, st)
}

func TestAnalyticsReviewsPerMovie(t *testing.T) {
	e := newEnv(t)
	seedAnalyticsData(t, e)
	svc := newAnalytics(e)

	rows, err := svc.ReviewsPerMovie(context.Background(), asAdmin("a1"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "m1", rows[0].MovieID)
	assert.Equal(t, 2, rows[0].Reviews)
	assert.InDelta(t, 3.0, rows[0].AvgRating, 1e-9)
	assert.Equal(t, "m2", rows[1].MovieID)
	assert.InDelta(t, 5.0, rows[1].AvgRating, 1e-9)
}

func TestAnalyticsReviewVolumeByMonth(t *testing.T) {
	e := newEnv(t)
	seedAnalyticsData(t, e)
	svc := newAnalytics(e)

	buckets, err := svc.ReviewVolume(context.Background(), asAdmin("a1"))
	require.NoError(t, err)
	assert.Equal(t, []VolumeBucket{
		{Month: "2026-01", Reviews: 1},
		{Month: "2026-02", Reviews: 2},
	}, buckets)
}

func TestAnalyticsExportRows(t *testing.T) {
	e := newEnv(t)
	seedAnalyticsData(t, e)
	svc := newAnalytics(e)

	rows, err := svc.StatsExportRows(context.Background(), asAdmin("a1"))
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, map[string]string{"metric": "total_users", "value": "2"}, rows[0])
	assert.Equal(t, map[string]string{"metric": "active_users", "value": "1"}, rows[1])
}
