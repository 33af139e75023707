package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/movielog/movielog/internal/model"
	"github.com/movielog/movielog/internal/repository"
)

// BookmarkService manages watch-later bookmarks with the same
// uniqueness and ownership rules as reviews, and feeds the CSV export
// with flat bookmark-plus-title rows.
type BookmarkService struct {
	bookmarks *repository.BookmarkRepo
	movies    *repository.MovieRepo
}

func NewBookmarkService(bookmarks *repository.BookmarkRepo, movies *repository.MovieRepo) *BookmarkService {
	return &BookmarkService{bookmarks: bookmarks, movies: movies}
}

// Create bookmarks a movie for the caller. A duplicate (user, movie)
// pair fails with ErrConflict, an unknown movie with ErrNotFound.
func (s *BookmarkService) Create(ctx context.Context, p Principal, movieID string) (model.Bookmark, error) {
	return s.bookmarks.Insert(ctx, p.UserID, movieID)
}

// Delete removes a bookmark owned by the caller, or any bookmark when
// the caller is an admin.
func (s *BookmarkService) Delete(ctx context.Context, p Principal, bookmarkID string) error {
	b, err := s.bookmarks.Get(ctx, bookmarkID)
	if err != nil {
		return err
	}
	if b.UserID != p.UserID && !p.IsAdmin() {
		return fmt.Errorf("bookmark %s: %w", bookmarkID, repository.ErrForbidden)
	}
	return s.bookmarks.Delete(ctx, bookmarkID)
}

// ListForUser returns the caller's bookmarks, newest first.
func (s *BookmarkService) ListForUser(ctx context.Context, p Principal) ([]model.Bookmark, error) {
	out, err := s.bookmarks.ListByUser(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ExportColumns is the column order of the bookmark export.
var ExportColumns = []string{"bookmark_id", "movie_id", "movie_title", "created_at"}

// ExportRows flattens the caller's bookmarks into export rows.
// Bookmarks whose movie has vanished (crash mid-cascade) are skipped
// rather than failing the export.
func (s *BookmarkService) ExportRows(ctx context.Context, p Principal) ([]map[string]string, error) {
	bookmarks, err := s.ListForUser(ctx, p)
	if err != nil {
		return nil, err
	}
	movies, err := s.movies.List(ctx)
	if err != nil {
		return nil, err
	}
	titles := make(map[string]string, len(movies))
	for _, m := range movies {
		titles[m.ID] = m.Title
	}
	rows := make([]map[string]string, 0, len(bookmarks))
	for _, b := range bookmarks {
		title, ok := titles[b.MovieID]
		if !ok {
			continue
		}
		rows = append(rows, map[string]string{
			"bookmark_id": b.ID,
			"movie_id":    b.MovieID,
			"movie_title": title,
			"created_at":  b.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return rows, nil
}
