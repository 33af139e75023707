package service

import (
	"context"
	"sort"

	"github.com/movielog/movielog/internal/model"
	"github.com/movielog/movielog/internal/repository"
)

// bookmarkWeight is the flat taste-profile contribution of a bookmark,
// equivalent to rating one above neutral.
const bookmarkWeight = 1.0

// RecommendService scores candidate movies against a per-user genre
// affinity profile. It is a pure function of the current snapshot of
// movies, reviews and bookmarks and performs no writes.
type RecommendService struct {
	movies    *repository.MovieRepo
	reviews   *repository.ReviewRepo
	bookmarks *repository.BookmarkRepo
	topN      int
}

func NewRecommendService(
	movies *repository.MovieRepo,
	reviews *repository.ReviewRepo,
	bookmarks *repository.BookmarkRepo,
	topN int,
) *RecommendService {
	if topN < 1 {
		topN = 10
	}
	return &RecommendService{movies: movies, reviews: reviews, bookmarks: bookmarks, topN: topN}
}

// Recommendation is a scored candidate. The score is carried for
// observability; popularity-ranked results carry the popularity score
// (review count) instead of an affinity value.
type Recommendation struct {
	MovieID string  `json:"movie_id"`
	Title   string  `json:"title"`
	Score   float64 `json:"score"`
}

// Recommend returns up to n top candidates for the user, n <= 0
// meaning the configured default. Movies the user already reviewed or
// bookmarked are never candidates. A user with no interactions gets
// the global popularity ranking instead.
func (s *RecommendService) Recommend(ctx context.Context, p Principal, n int) ([]Recommendation, error) {
	if n <= 0 {
		n = s.topN
	}
	movies, err := s.movies.List(ctx)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	bookmarks, err := s.bookmarks.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]model.Movie, len(movies))
	for _, m := range movies {
		byID[m.ID] = m
	}

	// Interacted movie set and raw genre affinities. Reviews weigh in
	// by their distance from the neutral rating, bookmarks by a flat
	// positive increment.
	seen := make(map[string]bool)
	affinity := make(map[string]float64)
	for _, r := range reviews {
		if r.UserID != p.UserID {
			continue
		}
		seen[r.MovieID] = true
		m, ok := byID[r.MovieID]
		if !ok {
			continue
		}
		w := float64(r.Rating - model.RatingNeutral)
		for _, g := range m.Genres {
			affinity[g] += w
		}
	}
	for _, b := range bookmarks {
		if b.UserID != p.UserID {
			continue
		}
		seen[b.MovieID] = true
		m, ok := byID[b.MovieID]
		if !ok {
			continue
		}
		for _, g := range m.Genres {
			affinity[g] += bookmarkWeight
		}
	}

	if len(seen) == 0 {
		return s.popular(movies, reviews, n), nil
	}

	// Normalize so the largest absolute affinity is 1; genre breadth
	// of a candidate is neutralized by averaging over its genres.
	maxAbs := 0.0
	for _, v := range affinity {
		if a := abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	if maxAbs > 0 {
		for g := range affinity {
			affinity[g] /= maxAbs
		}
	}

	var out []Recommendation
	for _, m := range movies {
		if seen[m.ID] || len(m.Genres) == 0 {
			continue
		}
		sum := 0.0
		for _, g := range m.Genres {
			sum += affinity[g]
		}
		out = append(out, Recommendation{
			MovieID: m.ID,
			Title:   m.Title,
			Score:   sum / float64(len(m.Genres)),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].MovieID < out[j].MovieID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// popular ranks all movies by review count, then average rating, then
// ascending id. Used for cold-start users.
func (s *RecommendService) popular(movies []model.Movie, reviews []model.Review, n int) []Recommendation {
	count := make(map[string]int)
	sum := make(map[string]int)
	for _, r := range reviews {
		count[r.MovieID]++
		sum[r.MovieID] += r.Rating
	}
	avg := func(id string) float64 {
		if count[id] == 0 {
			return 0
		}
		return float64(sum[id]) / float64(count[id])
	}
	out := make([]Recommendation, 0, len(movies))
	for _, m := range movies {
		out = append(out, Recommendation{MovieID: m.ID, Title: m.Title, Score: float64(count[m.ID])})
	}
	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := count[out[i].MovieID], count[out[j].MovieID]
		if ci != cj {
			return ci > cj
		}
		ai, aj := avg(out[i].MovieID), avg(out[j].MovieID)
		if ai != aj {
			return ai > aj
		}
		return out[i].MovieID < out[j].MovieID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
