package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/movielog/movielog/internal/service"
)

// ResetHandler exposes the password reset flow.
type ResetHandler struct {
	Reset *service.PasswordResetService
}

func NewResetHandler(reset *service.PasswordResetService) *ResetHandler {
	return &ResetHandler{Reset: reset}
}

type resetRequestReq struct {
	Username string `json:"username"`
}
type resetConfirmReq struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// Request issues a reset token. The response is 202 regardless of
// whether the username exists, so account presence does not leak. In
// a full deployment the raw token would go out by mail; here it is
// returned in the body when one was issued.
func (h *ResetHandler) Request(c echo.Context) error {
	var req resetRequestReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Username) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	raw, err := h.Reset.Request(ctx, req.Username)
	if err != nil {
		return fail(c, err)
	}
	resp := echo.Map{"status": "accepted"}
	if raw != "" {
		resp["token"] = raw
	}
	return c.JSON(http.StatusAccepted, resp)
}

// Confirm redeems a token and sets the new password.
func (h *ResetHandler) Confirm(c echo.Context) error {
	var req resetConfirmReq
	if err := c.Bind(&req); err != nil || req.Token == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token and new_password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Reset.Confirm(ctx, req.Token, req.NewPassword); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
