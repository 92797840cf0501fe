package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"realestate/docs"
	"realestate/internal/auth"
	"realestate/internal/cache"
	"realestate/internal/config"
	"realestate/internal/db"
	"realestate/internal/handler"
	"realestate/internal/logging"
	"realestate/internal/repository"
	"realestate/internal/router"
	"realestate/internal/service"
)

// @title Real Estate Listing API
// @version 1.0
// @description Property listings with session login, detail pages, favorites and categories.
// @host localhost:8080
// @BasePath /api
// @schemes http
func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logger.Fatal("database init", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}

	// Drop tables if RESET_DB environment variable is set
	if cfg.ResetDB {
		logger.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			logger.Fatal("reset database", zap.Error(err))
		}
	}

	if err := db.Migrate(gormDB); err != nil {
		logger.Fatal("migrate database", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer func() { _ = cacheClient.Close() }()
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		// logins fail until Redis is reachable; browsing keeps working
		logger.Warn("redis unreachable", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}
	cancelPing()

	if cfg.SessionSecret == "change-me" && !cfg.IsDevelopment() {
		logger.Warn("SESSION_SECRET is the default value")
	}
	sessions := auth.NewSessionManager(
		auth.NewRedisSessionStore(cacheClient),
		auth.NewTokenSigner(cfg.SessionSecret),
		cfg.SessionTTL,
		auth.CookieConfig{
			Name:   cfg.SessionCookieName,
			Domain: cfg.CookieDomain,
			Secure: cfg.CookieSecure,
		},
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	propertyRepo := repository.NewPropertyRepository(gormDB)
	favoriteRepo := repository.NewFavoriteRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)

	views := service.NewViewRecorder(propertyRepo, cfg.ViewFlushInterval, logger)

	// Initialize services
	authService := service.NewAuthService(userRepo, sessions, cfg.BcryptCost, logger)
	propertyService := service.NewPropertyService(propertyRepo, favoriteRepo, views, nil, logger)
	favoriteService := service.NewFavoriteService(favoriteRepo, propertyRepo)
	categoryService := service.NewCategoryService(categoryRepo, cacheClient)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, logger, sessions, router.Handlers{
		Auth:     handler.NewAuthHandler(authService, sessions, logger),
		Property: handler.NewPropertyHandler(propertyService, logger),
		Favorite: handler.NewFavoriteHandler(favoriteService, logger),
		Category: handler.NewCategoryHandler(categoryService),
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}
	logger.Info("swagger documentation available", zap.String("url", swaggerURL(cfg.SwaggerHost, cfg.ServerPort)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + cfg.ServerPort
		logger.Info("server starting", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	views.Close()
}

// swaggerURL may receive a host with or without scheme.
func swaggerURL(host, port string) string {
	if host == "" {
		return "http://localhost:" + port + "/swagger/index.html"
	}
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return host + "/swagger/index.html"
	}
	return "http://" + host + "/swagger/index.html"
}
