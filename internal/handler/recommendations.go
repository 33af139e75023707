package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/movielog/movielog/internal/service"
)

// RecommendHandler serves personalized recommendations.
type RecommendHandler struct {
	Recommend *service.RecommendService
}

func NewRecommendHandler(recommend *service.RecommendService) *RecommendHandler {
	return &RecommendHandler{Recommend: recommend}
}

// Get handles GET /v1/recommendations?n=. Scores are included per
// candidate so clients and tests can see why an ordering happened.
func (h *RecommendHandler) Get(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	n, _ := strconv.Atoi(c.QueryParam("n"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	items, err := h.Recommend.Recommend(ctx, p, n)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
