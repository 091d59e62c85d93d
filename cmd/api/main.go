package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	httpAdapter "github.com/shelterops/adoption-forecast/internal/adapters/primary/http"
	mw "github.com/shelterops/adoption-forecast/internal/adapters/primary/http/middleware"
	"github.com/shelterops/adoption-forecast/internal/adapters/secondary/csvfile"
	"github.com/shelterops/adoption-forecast/internal/config"
	"github.com/shelterops/adoption-forecast/internal/core/services"
	"github.com/shelterops/adoption-forecast/internal/infrastructure/logging"
	"github.com/shelterops/adoption-forecast/internal/metrics"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	// 3. Load the Adoption Dataset
	ctx := context.Background()
	loader := csvfile.NewLoader(logger)
	recordSet, err := loader.Load(ctx, cfg.Dataset.Path)
	if err != nil {
		logger.Error("failed to load dataset", "path", cfg.Dataset.Path, "error", err)
		os.Exit(1)
	}

	registry := metrics.NewRegistry()
	registry.SetDatasetSize(recordSet.Len(), recordSet.DayCount())

	// 4. Initialize Rate Limiters
	var generalRateLimiter, estimateRateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		generalRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.BurstSize,
			CleanupInterval:   time.Minute,
			TTL:               3 * time.Minute,
		})

		estimateRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.EstimateRPS,
			BurstSize:         cfg.RateLimit.EstimateBurst,
			CleanupInterval:   time.Minute,
			TTL:               5 * time.Minute,
		})
	}

	// 5. Dependency Injection (Wiring the Hexagon)

	// Error Handler
	errorHandler := httpAdapter.NewErrorHandler(logger)

	// Services (Core)
	aggregationService := services.NewAggregationService()
	workloadService := services.NewWorkloadService(aggregationService)
	datasetService := services.NewDatasetService(recordSet, cfg.Dataset.Path, aggregationService)

	// Handlers (Primary Adapters)
	datasetHandler := httpAdapter.NewDatasetHandler(datasetService, errorHandler, logger)
	analyticsHandler := httpAdapter.NewAnalyticsHandler(datasetService, aggregationService, errorHandler, logger)
	workloadHandler := httpAdapter.NewWorkloadHandler(datasetService, workloadService, cfg.Workload.Params(), registry, errorHandler, logger)
	wsHandler := httpAdapter.NewWebSocketHandler(datasetService, workloadService, cfg, registry, logger)
	healthHandler := httpAdapter.NewHealthHandler(datasetService, cfg.App.Version)

	// 6. Setup Router
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))
	r.Use(mw.Metrics(registry))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// Apply general rate limiting if enabled
	if generalRateLimiter != nil {
		r.Use(generalRateLimiter.Middleware)
	}

	// Health check endpoints (outside /api/v1 for standard probe paths)
	r.Get("/health", healthHandler.HandleHealth)
	r.Get("/health/live", healthHandler.HandleLiveness)
	r.Get("/health/ready", healthHandler.HandleReadiness)

	// Prometheus scrape endpoint
	r.Method(http.MethodGet, "/metrics", registry.Handler())

	// WebSocket live estimates
	r.Get("/ws/workload", wsHandler.ServeHTTP)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/dataset", datasetHandler.RegisterRoutes)
		r.Route("/analytics", analyticsHandler.RegisterRoutes)

		// Estimate endpoints with stricter rate limiting
		r.Group(func(r chi.Router) {
			if estimateRateLimiter != nil {
				r.Use(estimateRateLimiter.Middleware)
			}
			r.Route("/workload", workloadHandler.RegisterRoutes)
		})
	})

	// 7. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", "signal", sig.String())

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server shutdown complete")
}
