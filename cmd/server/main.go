package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/dochub-api/internal/api"
	"github.com/dochub-api/internal/config"
	"github.com/dochub-api/internal/database"
	"github.com/dochub-api/internal/pdf"
	"github.com/dochub-api/internal/repository"
	"github.com/dochub-api/internal/service"
	"github.com/dochub-api/internal/telemetry"
	"github.com/dochub-api/internal/validation"
	"github.com/dochub-api/pkg/logger"
	"github.com/gin-gonic/gin"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log := logger.New("info", "json")
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info().Str("version", version).Msg("Starting DocHub API server...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing
	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.Telemetry, version)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize tracing")
	}

	// Initialize database
	db, err := database.New(ctx, &cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Run migrations
	if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	repos := repository.New(db)

	// PDF rendering
	renderer, err := pdf.NewRenderer(pdf.NewChromePrinter(cfg.PDF.ChromeURL, cfg.PDF.Timeout), cfg.PDF.CacheSize, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PDF renderer")
	}

	// Initialize services
	services := service.NewServices(repos, db, renderer, cfg, log)

	if cfg.Wiki.SeedDefaults {
		if err := services.Seeder.SeedDefaults(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed default data")
		}
	}

	// Initialize router
	if err := validation.Register(); err != nil {
		log.Fatal().Err(err).Msg("Failed to register validators")
	}
	if cfg.Telemetry.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(services, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	stop()
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to flush traces")
	}

	log.Info().Msg("Server exited gracefully")
}
