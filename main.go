package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"dishes-be/internal/cache"
	"dishes-be/internal/config"
	"dishes-be/internal/controllers"
	"dishes-be/internal/database"
	"dishes-be/internal/hash"
	"dishes-be/internal/jwt"
	"dishes-be/internal/logger"
	"dishes-be/internal/middleware"
	"dishes-be/internal/repository"
	"dishes-be/internal/router"
	"dishes-be/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.NewConnection(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	// Run database migrations
	if err := database.RunMigrations(ctx, db); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	// Initialize Redis cache (optional - continue if Redis is unavailable)
	var cacheClient cache.Cache
	if cfg.RedisURL == "" {
		log.Info("REDIS_URL not set, dish cache disabled")
	} else if c, err := cache.NewRedisCache(cfg.RedisURL, log); err != nil {
		log.WithError(err).Warn("failed to connect to Redis, continuing without cache")
	} else {
		cacheClient = c
		defer c.Close()
		log.Info("connected to Redis cache")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	dishRepo := repository.NewDishRepository(db)

	hasher := hash.NewBcryptHasher(cfg.BcryptCost)
	jwtService := jwt.NewJWTService(cfg.JWTSecret, cfg.JWTTTL())

	// Initialize services
	authService := service.NewAuthService(userRepo, hasher, jwtService, log)
	userService := service.NewUserService(userRepo, dishRepo, hasher, cacheClient, log)
	dishService := service.NewDishService(dishRepo, userRepo, cacheClient, cfg.CacheTTL(), log)

	// Initialize rate limiters
	generalRateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst, middleware.ClientIPKey)
	authRateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitAuthRPS), cfg.RateLimitAuthBurst, middleware.ClientIPKey)
	likeRateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitLikeRPS), cfg.RateLimitLikeBurst, middleware.UserKey)
	defer generalRateLimiter.Stop()
	defer authRateLimiter.Stop()
	defer likeRateLimiter.Stop()

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	handler := router.New(router.Deps{
		Auth:           controllers.NewAuthController(authService, log),
		Users:          controllers.NewUserController(userService, log),
		Dishes:         controllers.NewDishController(dishService, log),
		QRCode:         controllers.NewQRCodeController(dishService, cfg.FrontendURL, log),
		JWT:            jwtService,
		Log:            log,
		GeneralLimiter: generalRateLimiter,
		AuthLimiter:    authRateLimiter,
		LikeLimiter:    likeRateLimiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.WithError(err).Error("server failed")
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	log.Info("server stopped")
}
