package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/movielog/movielog/internal/config"
	"github.com/movielog/movielog/internal/handler"
	"github.com/movielog/movielog/internal/middleware"
	"github.com/movielog/movielog/internal/model"
	"github.com/movielog/movielog/internal/provider"
	"github.com/movielog/movielog/internal/queue"
	"github.com/movielog/movielog/internal/repository"
	"github.com/movielog/movielog/internal/router"
	"github.com/movielog/movielog/internal/service"
	"github.com/movielog/movielog/internal/store"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	// One file-backed collection per entity, all under DATA_DIR.
	users := store.NewCollection[model.User](cfg.DataDir, "users")
	movies := store.NewCollection[model.Movie](cfg.DataDir, "movies")
	reviews := store.NewCollection[model.Review](cfg.DataDir, "reviews")
	bookmarks := store.NewCollection[model.Bookmark](cfg.DataDir, "bookmarks")
	tokens := store.NewCollection[model.ResetToken](cfg.DataDir, "reset_tokens")
	penalties := store.NewCollection[model.Penalty](cfg.DataDir, "penalties")
	syncLog := store.NewCollection[model.SyncLogEntry](cfg.DataDir, "sync_log")

	userRepo := repository.NewUserRepo(users)
	movieRepo := repository.NewMovieRepo(movies, reviews, bookmarks)
	reviewRepo := repository.NewReviewRepo(reviews, movies, users)
	bookmarkRepo := repository.NewBookmarkRepo(bookmarks, movies, users)
	tokenRepo := repository.NewTokenRepo(tokens)
	penaltyRepo := repository.NewPenaltyRepo(penalties)
	syncLogRepo := repository.NewSyncLogRepo(syncLog)

	metadata := provider.NewHTTPClient(cfg.ExternalAPIURL, cfg.ExternalAPIKey, cfg.ExternalTimeout)

	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.AccessTTLMin, cfg.BcryptCost)
	resetSvc := service.NewPasswordResetService(userRepo, tokenRepo, cfg.ResetTTLMin, cfg.BcryptCost)
	userSvc := service.NewUserService(userRepo)
	movieSvc := service.NewMovieService(movieRepo)
	reviewSvc := service.NewReviewService(reviewRepo, penaltyRepo, cfg.PenaltyThreshold)
	bookmarkSvc := service.NewBookmarkService(bookmarkRepo, movieRepo)
	recommendSvc := service.NewRecommendService(movieRepo, reviewRepo, bookmarkRepo, cfg.RecommendTopN)
	syncSvc := service.NewSyncService(movieRepo, syncLogRepo, metadata, cfg.SyncSource)
	penaltySvc := service.NewPenaltyService(penaltyRepo, userRepo)
	analyticsSvc := service.NewAnalyticsService(userRepo, movieRepo, reviewRepo, bookmarkRepo, penaltyRepo)

	h := router.Handlers{
		Auth:      handler.NewAuthHandler(authSvc),
		Reset:     handler.NewResetHandler(resetSvc),
		Users:     handler.NewUserHandler(userSvc),
		Movies:    handler.NewMovieHandler(movieSvc),
		Reviews:   handler.NewReviewHandler(reviewSvc),
		Bookmarks: handler.NewBookmarkHandler(bookmarkSvc),
		Recommend: handler.NewRecommendHandler(recommendSvc),
		Admin:     handler.NewAdminHandler(syncSvc, penaltySvc, analyticsSvc, userSvc),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	// Redis is optional: with no client both middlewares pass through.
	rdb := config.NewRedisClient()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e, h)
	router.RegisterProtected(e, h, cfg.JWTSecret)
	router.RegisterAdmin(e, h, cfg.JWTSecret)

	// Hourly sweep of consumed and expired reset tokens.
	go func() {
		for range time.Tick(time.Hour) {
			if n, err := resetSvc.GC(context.Background()); err != nil {
				log.Printf("reset token gc: %v", err)
			} else if n > 0 {
				log.Printf("reset token gc: removed %d tokens", n)
			}
		}
	}()

	// Event consumer keeps retrying the broker in the background; the
	// API does not depend on it.
	go func() {
		if err := queue.StartEventConsumer(); err != nil {
			log.Printf("event consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, data=%s)", addr, cfg.Env, cfg.DataDir)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
