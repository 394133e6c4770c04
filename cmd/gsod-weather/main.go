package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	httpapi "github.com/i474232898/gsod-weather/internal/api/http"
	"github.com/i474232898/gsod-weather/internal/config"
	"github.com/i474232898/gsod-weather/internal/dataset"
	"github.com/i474232898/gsod-weather/internal/geocode"
	"github.com/i474232898/gsod-weather/internal/logging"
	"github.com/i474232898/gsod-weather/internal/observability"
	"github.com/i474232898/gsod-weather/internal/scheduler"
	"github.com/i474232898/gsod-weather/internal/tools"
	"github.com/i474232898/gsod-weather/internal/weather/history"
	"github.com/i474232898/gsod-weather/internal/weather/query"
)

const appName = "gsod-weather"

func main() {
	envErr := godotenv.Load()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg, appName)
	slog.SetDefault(logger)
	if envErr != nil {
		logger.Debug("no .env file loaded", "error", envErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	// Dataset backend with resilience (backoff + circuit breaker) and instrumentation.
	backend, closeBackend, err := openDataset(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open dataset", "backend", cfg.Backend, "error", err)
		os.Exit(1)
	}
	defer closeBackend()

	resilient, err := dataset.NewResilient(backend, dataset.ResilienceConfig{
		Name: cfg.Backend,
		Backoff: dataset.BackoffConfig{
			MaxRetries:      cfg.MaxRetries,
			InitialInterval: cfg.RetryInterval,
			MaxInterval:     10 * cfg.RetryInterval,
		},
		BreakerTimeout: cfg.BreakerTimeout,
	}, clock, logger, metrics)
	if err != nil {
		logger.Error("invalid dataset resilience settings", "error", err)
		os.Exit(1)
	}
	exec := dataset.Instrument(resilient, logger, metrics, clock)

	dialect, err := query.ForBackend(cfg.Backend, cfg.StationsTable, cfg.ObservationsTable)
	if err != nil {
		logger.Error("failed to select query dialect", "error", err)
		os.Exit(1)
	}

	// Geocoding is optional; without it nearest_station needs coordinates.
	var geo history.Geocoder
	if cfg.GeocoderAPIKey != "" {
		client, err := geocode.New(cfg.GeocoderAPIKey, metrics)
		if err != nil {
			logger.Error("failed to configure geocoder", "error", err)
			os.Exit(1)
		}
		geo = client
	}

	svc := history.NewService(exec, query.NewBuilder(dialect), geo, history.Options{
		MaxRangeDays: cfg.MaxRangeDays,
		RowPolicy:    cfg.RowPolicy,
	}, logger)

	registry := tools.NewRegistry(metrics, logger)
	if err := tools.RegisterWeatherTools(registry, svc); err != nil {
		logger.Error("failed to register tools", "error", err)
		os.Exit(1)
	}

	// Periodic dataset probe feeding /readyz.
	monitor := scheduler.New(exec, cfg.HealthProbeInterval, clock, logger, metrics)
	if err := monitor.Start(); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer monitor.Stop()

	app := fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
		Immutable:             true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          cfg.QueryTimeout + 5*time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())

	httpapi.RegisterOps(app, appName, monitor)
	httpapi.RegisterRoutes(app, svc, registry, cfg.QueryTimeout)

	go func() {
		logger.Info("http server starting", "port", cfg.Port, "backend", cfg.Backend)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err)
	}
}
