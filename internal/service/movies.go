package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/movielog/movielog/internal/model"
	"github.com/movielog/movielog/internal/repository"
)

// MovieService exposes the public catalog and the admin-only CRUD.
type MovieService struct {
	movies *repository.MovieRepo
}

func NewMovieService(movies *repository.MovieRepo) *MovieService {
	return &MovieService{movies: movies}
}

// MovieFilter narrows List results. Zero values mean "no filter".
type MovieFilter struct {
	Genre string
	Year  int
}

// Get fetches one movie.
func (s *MovieService) Get(ctx context.Context, id string) (model.Movie, error) {
	return s.movies.Get(ctx, id)
}

// List returns one page of the catalog, optionally filtered by genre
// (case-insensitive) and year. Out-of-range pages yield an empty
// page.
func (s *MovieService) List(ctx context.Context, f MovieFilter, page, pageSize int) ([]model.Movie, int, error) {
	all, err := s.movies.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	var filtered []model.Movie
	for _, m := range all {
		if f.Year != 0 && m.Year != f.Year {
			continue
		}
		if f.Genre != "" && !hasGenre(m, f.Genre) {
			continue
		}
		filtered = append(filtered, m)
	}
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
	if start >= len(filtered) {
		return []model.Movie{}, len(filtered), nil
	}
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], len(filtered), nil
}

// Create adds a movie to the catalog. Admin only.
func (s *MovieService) Create(ctx context.Context, p Principal, m model.Movie) (model.Movie, error) {
	if !p.IsAdmin() {
		return model.Movie{}, fmt.Errorf("create movie: %w", repository.ErrForbidden)
	}
	return s.movies.Insert(ctx, m)
}

// Update rewrites the mutable fields of a movie. Admin only; the id
// is immutable.
func (s *MovieService) Update(ctx context.Context, p Principal, id string, mutate func(*model.Movie) error) (model.Movie, error) {
	if !p.IsAdmin() {
		return model.Movie{}, fmt.Errorf("update movie: %w", repository.ErrForbidden)
	}
	return s.movies.Update(ctx, id, mutate)
}

// Delete removes a movie and cascades to its reviews and bookmarks.
// Admin only.
func (s *MovieService) Delete(ctx context.Context, p Principal, id string) error {
	if !p.IsAdmin() {
		return fmt.Errorf("delete movie: %w", repository.ErrForbidden)
	}
	return s.movies.Delete(ctx, id)
}

func hasGenre(m model.Movie, genre string) bool {
	for _, g := range m.Genres {
		if strings.EqualFold(g, genre) {
			return true
		}
	}
	return false
}
