package handler

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/movielog/movielog/internal/service"
	"github.com/movielog/movielog/internal/utils"
)

// BookmarkHandler serves bookmark CRUD and the CSV export.
type BookmarkHandler struct {
	Bookmarks *service.BookmarkService
}

func NewBookmarkHandler(bookmarks *service.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{Bookmarks: bookmarks}
}

type bookmarkReq struct {
	MovieID string `json:"movie_id"`
}

// Create handles POST /v1/bookmarks.
func (h *BookmarkHandler) Create(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bookmarkReq
	if err := c.Bind(&req); err != nil || req.MovieID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookmarks.Create(ctx, p, req.MovieID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

// List handles GET /v1/bookmarks.
func (h *BookmarkHandler) List(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Bookmarks.ListForUser(ctx, p)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Delete handles DELETE /v1/bookmarks/:id.
func (h *BookmarkHandler) Delete(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Bookmarks.Delete(ctx, p, c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Export handles GET /v1/bookmarks/export, streaming the caller's
// bookmarks as CSV.
func (h *BookmarkHandler) Export(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	rows, err := h.Bookmarks.ExportRows(ctx, p)
	if err != nil {
		return fail(c, err)
	}
	var buf bytes.Buffer
	if err := utils.WriteCSV(&buf, service.ExportColumns, rows); err != nil {
		return fail(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="bookmarks.csv"`)
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}
