package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"college/internal/api"
	"college/internal/cache"
	"college/internal/config"
	"college/internal/database"
	"college/internal/handlers"
	"college/internal/logging"
	"college/internal/metrics"
	"college/internal/middleware"
	"college/internal/services"
)

const poolStatsInterval = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	if cfg.SecretGenerated {
		logger.Warn("SECRET_KEY not set, using a random key; sessions will not survive a restart")
	}

	// Initialize database
	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	logger.Info("database connected", zap.String("storage", db.StorageLabel()))

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if cfg.Database.SeedDefaults {
		inserted, err := db.Seed(ctx)
		if err != nil {
			return fmt.Errorf("failed to seed defaults: %w", err)
		}
		if inserted > 0 {
			logger.Info("seeded default content", zap.Int("rows", inserted))
		}
	}

	// Optional visit dedup cache
	var dedup services.VisitDeduper
	if cfg.Redis.URL != "" {
		rc, err := cache.Connect(cfg.Redis.URL)
		if err != nil {
			logger.Warn("redis unavailable, visit dedup uses the database only", zap.Error(err))
		} else {
			defer rc.Close()
			dedup = rc
			logger.Info("redis visit dedup cache enabled")
		}
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	// Initialize services
	markdownService := services.NewMarkdownService()
	authService := services.NewAuthService(db, cfg, logger)
	contentService := services.NewContentService(db, logger)
	settingsService := services.NewSettingsService(db, cfg, logger)
	tracker := services.NewTracker(db, dedup, m, logger)
	aggregator := services.NewAggregator(db)

	if has, err := authService.HasAnyAdmins(ctx); err == nil && !has {
		logger.Info("no admin account yet, complete setup at /setup")
	}

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.IPExtractor = middleware.IPExtractor(cfg.Server.TrustedProxies)

	sessionManager := middleware.NewSessionManager(cfg, authService)
	csrf := middleware.NewCSRF(sessionManager, logger)
	rateLimiter := middleware.NewRateLimiter(cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow)
	defer rateLimiter.Stop()

	// Global middleware (order matters!)
	e.Use(middleware.RequestID())
	e.Use(middleware.RecoveryMiddleware(logger))
	e.Use(middleware.RequestLogger(logger))
	e.Use(m.Middleware())
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.SetupRequired(authService, logger))
	e.Use(rateLimiter.Middleware())
	e.Use(sessionManager.AuthMiddleware())
	e.Use(csrf.Middleware())
	e.Use(echoMiddleware.GzipWithConfig(echoMiddleware.GzipConfig{Level: 5}))

	h := handlers.New(cfg, logger, handlers.Services{
		Content:    contentService,
		Auth:       authService,
		Settings:   settingsService,
		Markdown:   markdownService,
		Tracker:    tracker,
		Aggregator: aggregator,
		Health:     db,
	}, sessionManager)
	defer h.Close()

	h.RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	apiLimiter := api.RegisterRoutes(e, cfg, logger, api.Services{
		Auth:       authService,
		Content:    contentService,
		Markdown:   markdownService,
		Aggregator: aggregator,
	})
	defer apiLimiter.Stop()

	e.HTTPErrorHandler = h.ErrorHandler()

	// Publish connection pool stats
	stopStats := make(chan struct{})
	defer close(stopStats)
	if sqlDB, err := db.DB.DB(); err == nil {
		go func() {
			ticker := time.NewTicker(poolStatsInterval)
			defer ticker.Stop()
			for {
				m.RecordDBPoolStats(sqlDB.Stats())
				select {
				case <-stopStats:
					return
				case <-ticker.C:
				}
			}
		}()
	}

	server := &http.Server{
		Addr:         cfg.Address(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Address()), zap.String("site", cfg.Site.URL))
		if err := e.StartServer(server); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
