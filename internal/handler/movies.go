package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/movielog/movielog/internal/model"
	"github.com/movielog/movielog/internal/service"
)

// MovieHandler serves the public catalog and the admin CRUD.
type MovieHandler struct {
	Movies *service.MovieService
}

func NewMovieHandler(movies *service.MovieService) *MovieHandler {
	return &MovieHandler{Movies: movies}
}

type movieReq struct {
	Title       string   `json:"title"`
	Year        int      `json:"year"`
	Genres      []string `json:"genres"`
	Description string   `json:"description"`
	PosterURL   *string  `json:"poster_url"`
	Runtime     *int     `json:"runtime"`
	Cast        []string `json:"cast"`
}

// List handles GET /v1/movies?genre=&year=&page=&page_size=.
func (h *MovieHandler) List(c echo.Context) error {
	year, _ := strconv.Atoi(c.QueryParam("year"))
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, total, err := h.Movies.List(ctx, service.MovieFilter{
		Genre: c.QueryParam("genre"),
		Year:  year,
	}, page, pageSize)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "total": total})
}

// Get handles GET /v1/movies/:id.
func (h *MovieHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Movies.Get(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

// Create handles POST /v1/movies (admin).
func (h *MovieHandler) Create(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Movies.Create(ctx, p, model.Movie{
		Title:       req.Title,
		Year:        req.Year,
		Genres:      req.Genres,
		Description: req.Description,
		PosterURL:   req.PosterURL,
		Runtime:     req.Runtime,
		Cast:        req.Cast,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

// Update handles PUT /v1/movies/:id (admin). Only fields present in
// the body are rewritten.
func (h *MovieHandler) Update(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Movies.Update(ctx, p, c.Param("id"), func(m *model.Movie) error {
		if req.Title != "" {
			m.Title = req.Title
		}
		if req.Year != 0 {
			m.Year = req.Year
		}
		if req.Genres != nil {
			m.Genres = req.Genres
		}
		if req.Description != "" {
			m.Description = req.Description
		}
		if req.PosterURL != nil {
			m.PosterURL = req.PosterURL
		}
		if req.Runtime != nil {
			m.Runtime = req.Runtime
		}
		if req.Cast != nil {
			m.Cast = req.Cast
		}
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

// Delete handles DELETE /v1/movies/:id (admin). The movie's reviews
// and bookmarks are removed with it.
func (h *MovieHandler) Delete(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Movies.Delete(ctx, p, c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
