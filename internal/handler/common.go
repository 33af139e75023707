// Package handler defines the HTTP handlers. Handlers parse and
// validate requests, build the authenticated principal from the JWT
// middleware's context values, call a service and translate sentinel
// errors into HTTP status codes.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/movielog/movielog/internal/middleware"
	"github.com/movielog/movielog/internal/repository"
	"github.com/movielog/movielog/internal/service"
	"github.com/movielog/movielog/internal/store"
)

// principal reads the authenticated caller injected by the JWT
// middleware. The boolean is false on routes that skipped JWTAuth.
func principal(c echo.Context) (service.Principal, bool) {
	uid, _ := c.Get(middleware.CtxUserID).(string)
	role, _ := c.Get(middleware.CtxRole).(string)
	if uid == "" || role == "" {
		return service.Principal{}, false
	}
	return service.Principal{UserID: uid, Role: role}, true
}

// fail maps a service error onto the HTTP error taxonomy.
func fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, store.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, store.ErrCorrupted):
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage corrupted"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
