package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/movielog/movielog/internal/service"
)

// ReviewHandler serves review CRUD and listing.
type ReviewHandler struct {
	Reviews *service.ReviewService
}

func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{Reviews: reviews}
}

type reviewReq struct {
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

// Create handles POST /v1/movies/:id/reviews.
func (h *ReviewHandler) Create(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rev, err := h.Reviews.Create(ctx, p, c.Param("id"), req.Rating, req.Text)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, rev)
}

// ListByMovie handles GET /v1/movies/:id/reviews?page=&page_size=.
func (h *ReviewHandler) ListByMovie(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Reviews.ListByMovie(ctx, c.Param("id"), page, pageSize)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// MyReview handles GET /v1/movies/:id/reviews/me.
func (h *ReviewHandler) MyReview(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rev, err := h.Reviews.MyReview(ctx, p, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rev)
}

// Update handles PUT /v1/reviews/:id.
func (h *ReviewHandler) Update(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rev, err := h.Reviews.Update(ctx, p, c.Param("id"), req.Rating, req.Text)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rev)
}

// Delete handles DELETE /v1/reviews/:id.
func (h *ReviewHandler) Delete(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Reviews.Delete(ctx, p, c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
