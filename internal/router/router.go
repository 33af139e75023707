package router

import (
	"github.com/labstack/echo/v4"

	"github.com/movielog/movielog/internal/handler"
	"github.com/movielog/movielog/internal/middleware"
	"github.com/movielog/movielog/internal/model"
)

// Handlers bundles every handler the router wires up. main builds one
// of these after constructing the service layer.
type Handlers struct {
	Auth      *handler.AuthHandler
	Reset     *handler.ResetHandler
	Users     *handler.UserHandler
	Movies    *handler.MovieHandler
	Reviews   *handler.ReviewHandler
	Bookmarks *handler.BookmarkHandler
	Recommend *handler.RecommendHandler
	Admin     *handler.AdminHandler
}

// RegisterRoutes registers routes that require no authentication:
// the health probe, auth, password reset and the public browse
// endpoints (movie catalog and per-movie reviews).
func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.GET("/healthz", handler.Health)

	auth := e.Group("/v1/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/password-reset", h.Reset.Request)
	auth.POST("/password-reset/confirm", h.Reset.Confirm)

	// Browsing the catalog needs no account.
	e.GET("/v1/movies", h.Movies.List)
	e.GET("/v1/movies/:id", h.Movies.Get)
	e.GET("/v1/movies/:id/reviews", h.Reviews.ListByMovie)
}

// RegisterProtected registers routes behind JWT authentication. Any
// valid role may call these; per-operation ownership checks happen in
// the service layer.
func RegisterProtected(e *echo.Echo, h Handlers, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleUser, model.RoleAdmin))

	g.GET("/me", h.Users.Me)

	g.POST("/movies/:id/reviews", h.Reviews.Create)
	g.GET("/movies/:id/reviews/me", h.Reviews.MyReview)
	g.PUT("/reviews/:id", h.Reviews.Update)
	g.DELETE("/reviews/:id", h.Reviews.Delete)

	g.POST("/bookmarks", h.Bookmarks.Create)
	g.GET("/bookmarks", h.Bookmarks.List)
	g.GET("/bookmarks/export", h.Bookmarks.Export)
	g.DELETE("/bookmarks/:id", h.Bookmarks.Delete)

	g.GET("/recommendations", h.Recommend.Get)
}

// RegisterAdmin registers the admin surface: catalog writes, metadata
// sync, penalties, analytics and account administration.
func RegisterAdmin(e *echo.Echo, h Handlers, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin))

	g.POST("/movies", h.Movies.Create)
	g.PUT("/movies/:id", h.Movies.Update)
	g.DELETE("/movies/:id", h.Movies.Delete)

	g.POST("/sync", h.Admin.RunSync)
	g.GET("/sync/log", h.Admin.SyncLog)

	g.POST("/penalties", h.Admin.IssuePenalty)
	g.DELETE("/penalties/:id", h.Admin.RevokePenalty)
	g.GET("/penalties/user/:id", h.Admin.UserPenalties)

	g.GET("/analytics", h.Admin.Stats)
	g.GET("/analytics/export", h.Admin.ExportStats)

	g.GET("/users", h.Admin.ListUsers)
	g.POST("/users/:id/active", h.Admin.SetUserActive)
}
