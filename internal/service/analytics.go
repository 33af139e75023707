package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/movielog/movielog/internal/repository"
)

// AnalyticsService computes read-side aggregations over the current
// snapshot for the admin dashboard and CSV export. It never writes.
type AnalyticsService struct {
	users     *repository.UserRepo
	movies    *repository.MovieRepo
	reviews   *repository.ReviewRepo
	bookmarks *repository.BookmarkRepo
	penalties *repository.PenaltyRepo
}

func NewAnalyticsService(
	users *repository.UserRepo,
	movies *repository.MovieRepo,
	reviews *repository.ReviewRepo,
	bookmarks *repository.BookmarkRepo,
	penalties *repository.PenaltyRepo,
) *AnalyticsService {
	return &AnalyticsService{users: users, movies: movies, reviews: reviews, bookmarks: bookmarks, penalties: penalties}
}

// PlatformStats is the headline counter set.
type PlatformStats struct {
	TotalUsers     int `json:"total_users"`
	ActiveUsers    int `json:"active_users"`
	TotalMovies    int `json:"total_movies"`
	TotalReviews   int `json:"total_reviews"`
	TotalBookmarks int `json:"total_bookmarks"`
	TotalPenalties int `json:"total_penalties"`
}

// MovieReviewCount aggregates review volume and mean rating per movie.
type MovieReviewCount struct {
	MovieID   string  `json:"movie_id"`
	Title     string  `json:"title"`
	Reviews   int     `json:"reviews"`
	AvgRating float64 `json:"avg_rating"`
}

// UserReviewCount aggregates review volume per user.
type UserReviewCount struct {
	UserID  string `json:"user_id"`
	Reviews int    `json:"reviews"`
}

// VolumeBucket is one month of review volume, keyed "YYYY-MM".
type VolumeBucket struct {
	Month   string `json:"month"`
	Reviews int    `json:"reviews"`
}

// Stats computes the headline counters. Admin only.
func (s *AnalyticsService) Stats(ctx context.Context, p Principal) (PlatformStats, error) {
	if !p.IsAdmin() {
		return PlatformStats{}, fmt.Errorf("analytics: %w", repository.ErrForbidden)
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return PlatformStats{}, err
	}
	movies, err := s.movies.List(ctx)
	if err != nil {
		return PlatformStats{}, err
	}
	reviews, err := s.reviews.ListAll(ctx)
	if err != nil {
		return PlatformStats{}, err
	}
	bookmarks, err := s.bookmarks.ListAll(ctx)
	if err != nil {
		return PlatformStats{}, err
	}
	penalties, err := s.penalties.ListAll(ctx)
	if err != nil {
		return PlatformStats{}, err
	}
	st := PlatformStats{
		TotalUsers:     len(users),
		TotalMovies:    len(movies),
		TotalReviews:   len(reviews),
		TotalBookmarks: len(bookmarks),
		TotalPenalties: len(penalties),
	}
	for _, u := range users {
		if u.Active {
			st.ActiveUsers++
		}
	}
	return st, nil
}

// ReviewsPerMovie returns per-movie review counts sorted by volume
// descending, id ascending on ties. Reviews whose movie vanished in a
// crashed cascade are skipped.
func (s *AnalyticsService) ReviewsPerMovie(ctx context.Context, p Principal) ([]MovieReviewCount, error) {
	if !p.IsAdmin() {
		return nil, fmt.Errorf("analytics: %w", repository.ErrForbidden)
	}
	movies, err := s.movies.List(ctx)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	sums := make(map[string]int)
	for _, r := range reviews {
		counts[r.MovieID]++
		sums[r.MovieID] += r.Rating
	}
	out := make([]MovieReviewCount, 0, len(movies))
	for _, m := range movies {
		row := MovieReviewCount{MovieID: m.ID, Title: m.Title, Reviews: counts[m.ID]}
		if row.Reviews > 0 {
			row.AvgRating = float64(sums[m.ID]) / float64(row.Reviews)
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Reviews != out[j].Reviews {
			return out[i].Reviews > out[j].Reviews
		}
		return out[i].MovieID < out[j].MovieID
	})
	return out, nil
}

// ReviewsPerUser returns per-user review counts, volume descending.
func (s *AnalyticsService) ReviewsPerUser(ctx context.Context, p Principal) ([]UserReviewCount, error) {
	if !p.IsAdmin() {
		return nil, fmt.Errorf("analytics: %w", repository.ErrForbidden)
	}
	reviews, err := s.reviews.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, r := range reviews {
		counts[r.UserID]++
	}
	out := make([]UserReviewCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, UserReviewCount{UserID: id, Reviews: n})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Reviews != out[j].Reviews {
			return out[i].Reviews > out[j].Reviews
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

// ReviewVolume buckets review creation per calendar month, ascending.
func (s *AnalyticsService) ReviewVolume(ctx context.Context, p Principal) ([]VolumeBucket, error) {
	if !p.IsAdmin() {
		return nil, fmt.Errorf("analytics: %w", repository.ErrForbidden)
	}
	reviews, err := s.reviews.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	buckets := make(map[string]int)
	for _, r := range reviews {
		buckets[r.CreatedAt.UTC().Format("2006-01")]++
	}
	out := make([]VolumeBucket, 0, len(buckets))
	for month, n := range buckets {
		out = append(out, VolumeBucket{Month: month, Reviews: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

// StatsExportColumns is the column order of the stats export.
var StatsExportColumns = []string{"metric", "value"}

// StatsExportRows flattens the headline counters for the CSV
// formatter.
func (s *AnalyticsService) StatsExportRows(ctx context.Context, p Principal) ([]map[string]string, error) {
	st, err := s.Stats(ctx, p)
	if err != nil {
		return nil, err
	}
	metric := func(name string, v int) map[string]string {
		return map[string]string{"metric": name, "value": strconv.Itoa(v)}
	}
	return []map[string]string{
		metric("total_users", st.TotalUsers),
		metric("active_users", st.ActiveUsers),
		metric("total_movies", st.TotalMovies),
		metric("total_reviews", st.TotalReviews),
		metric("total_bookmarks", st.TotalBookmarks),
		metric("total_penalties", st.TotalPenalties),
	}, nil
}
