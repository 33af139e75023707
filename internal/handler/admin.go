package handler

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/movielog/movielog/internal/queue"
	"github.com/movielog/movielog/internal/service"
	"github.com/movielog/movielog/internal/utils"
)

// AdminHandler bundles the admin-only endpoints: metadata sync,
// penalties, analytics and account administration. Routes using it
// sit behind RequireRole(admin).
type AdminHandler struct {
	Sync      *service.SyncService
	Penalties *service.PenaltyService
	Analytics *service.AnalyticsService
	Users     *service.UserService
}

func NewAdminHandler(sync *service.SyncService, penalties *service.PenaltyService, analytics *service.AnalyticsService, users *service.UserService) *AdminHandler {
	return &AdminHandler{Sync: sync, Penalties: penalties, Analytics: analytics, Users: users}
}

// RunSync handles POST /v1/admin/sync. The run may take a while with
// many incomplete movies; the request context bounds it and a timeout
// mid-batch still commits and logs what finished.
func (h *AdminHandler) RunSync(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	entry, err := h.Sync.Run(c.Request().Context(), p)
	if err != nil {
		return fail(c, err)
	}

	// Fire-and-forget event; a broker outage never fails the sync.
	pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = queue.PublishSyncCompleted(pubCtx, queue.SyncCompletedEvent{
		RunID:         entry.ID,
		Timestamp:     entry.Timestamp.Format(time.RFC3339),
		MoviesUpdated: entry.MoviesUpdated,
		MovieIDs:      entry.MovieIDs,
		Source:        entry.Source,
		Status:        entry.Status,
		TriggeredBy:   p.UserID,
	})

	return c.JSON(http.StatusOK, entry)
}

// SyncLog handles GET /v1/admin/sync/log.
func (h *AdminHandler) SyncLog(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	entries, err := h.Sync.Log(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": entries})
}

type penaltyReq struct {
	UserID    string     `json:"user_id"`
	Reason    string     `json:"reason"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// IssuePenalty handles POST /v1/admin/penalties.
func (h *AdminHandler) IssuePenalty(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req penaltyReq
	if err := c.Bind(&req); err != nil || req.UserID == "" || req.Reason == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id and reason required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pen, err := h.Penalties.Issue(ctx, p, req.UserID, req.Reason, req.ExpiresAt)
	if err != nil {
		return fail(c, err)
	}

	pubCtx, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = queue.PublishPenaltyIssued(pubCtx, queue.PenaltyIssuedEvent{
		PenaltyID: pen.ID,
		UserID:    pen.UserID,
		Reason:    pen.Reason,
		IssuedBy:  pen.IssuedBy,
		IssuedAt:  pen.IssuedAt.Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, pen)
}

// RevokePenalty handles DELETE /v1/admin/penalties/:id. The entry is
// flagged revoked, not removed.
func (h *AdminHandler) RevokePenalty(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Penalties.Revoke(ctx, p, c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UserPenalties handles GET /v1/admin/penalties/user/:id.
func (h *AdminHandler) UserPenalties(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Penalties.ListForUser(ctx, p, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Stats handles GET /v1/admin/analytics.
func (h *AdminHandler) Stats(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	stats, err := h.Analytics.Stats(ctx, p)
	if err != nil {
		return fail(c, err)
	}
	perMovie, err := h.Analytics.ReviewsPerMovie(ctx, p)
	if err != nil {
		return fail(c, err)
	}
	perUser, err := h.Analytics.ReviewsPerUser(ctx, p)
	if err != nil {
		return fail(c, err)
	}
	volume, err := h.Analytics.ReviewVolume(ctx, p)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"stats":         stats,
		"per_movie":     perMovie,
		"per_user":      perUser,
		"review_volume": volume,
	})
}

// ExportStats handles GET /v1/admin/analytics/export as CSV.
func (h *AdminHandler) ExportStats(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	rows, err := h.Analytics.StatsExportRows(ctx, p)
	if err != nil {
		return fail(c, err)
	}
	var buf bytes.Buffer
	if err := utils.WriteCSV(&buf, service.StatsExportColumns, rows); err != nil {
		return fail(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="analytics.csv"`)
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

// ListUsers handles GET /v1/admin/users.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx, p)
	if err != nil {
		return fail(c, err)
	}
	// Strip password hashes from the response.
	out := make([]userPart, 0, len(users))
	for _, u := range users {
		out = append(out, userPart{ID: u.ID, Username: u.Username, Role: u.Role})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

type setActiveReq struct {
	Active bool `json:"active"`
}

// SetUserActive handles POST /v1/admin/users/:id/active.
func (h *AdminHandler) SetUserActive(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req setActiveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.SetActive(ctx, p, c.Param("id"), req.Active); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
