package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/internal/rotation/cache"
	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/internal/rotation/consumers"
	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/internal/rotation/events"
	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/internal/rotation/handler"
	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/internal/rotation/repository"
	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/internal/rotation/service"
	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/pkg/config"
	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/pkg/database"
	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/pkg/httputil"
	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/pkg/logger"
	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/pkg/messaging"
)

func main() {
	// Load configuration with validation (fails fast in production if required config is missing)
	cfg, err := config.LoadWithValidation("rotation-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("rotation-service", cfg.Server.Environment)
	log.Info().Msg("starting Rotation Service")

	// Connect to database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Connect to RabbitMQ
	rmq, err := messaging.New(&cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer rmq.Close()

	// Initialize event publisher (notification sink + action acknowledger)
	publisher, err := events.NewRotationEventPublisher(rmq, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event publisher")
	}

	// Initialize repositories
	snapshotRepo := repository.NewSnapshotRepository(db)
	restockRepo := repository.NewRestockRepository(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize report cache (noop when Redis is not configured)
	var reportCache cache.ReportCache = cache.NewNoopReportCache()
	if cfg.Redis.Addr != "" {
		redisCache, err := cache.NewRedisReportCache(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisCache.Close()
		reportCache = redisCache
	}

	// Initialize services
	rotationService := service.NewRotationService(snapshotRepo, publisher, publisher, reportCache, log)
	restockAdvisor := service.NewRestockAdvisor(restockRepo, log)

	// Initialize handlers
	rotationHandler := handler.NewRotationHandler(rotationService, restockAdvisor, log)

	// Start movement event consumer
	movementConsumer, err := consumers.NewMovementEventConsumer(rmq, rotationService, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create movement event consumer")
	}

	if err := movementConsumer.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start movement event consumer")
	}

	// Start periodic refresh
	scheduler := service.NewRefreshScheduler(rotationService, restockAdvisor, publisher, cfg.Rotation.RefreshInterval, log)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"service":  "rotation-service",
			"database": db.Health(r.Context()),
			"rabbitmq": rmq.Health(),
		})
	})

	// API routes
	r.Route("/api/v1/rotation", func(r chi.Router) {
		r.Get("/", rotationHandler.GetReport)
		r.Post("/refresh", rotationHandler.Refresh)
		r.Post("/actions", rotationHandler.ExecuteAction)
		r.Get("/restock", rotationHandler.GetRestock)
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Cancel context to stop the scheduler and consumers
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
