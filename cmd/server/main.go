/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the leave balance server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env, then environment)
  2. Build the structured logger
  3. Open the store (SQLite or in-memory)
  4. Resolve the leave policy (JSON file or built-in default)
  5. Wire engine, service, handler, scheduler and router
  6. Start server with graceful shutdown

ENVIRONMENT:
  APP_PORT               HTTP server port (default: 8080)
  APP_ENV                development | production
  LOG_LEVEL              debug | info | warn | error
  DB_DRIVER              sqlite | memory (default: sqlite)
  DB_PATH                SQLite database path (default: ./leave.db)
                         Use ":memory:" for an in-memory SQLite database
  LEAVE_POLICY_FILE      Optional JSON policy document
  LEAVE_BLACKOUT_YEARS   Comma-separated years with no entitlement
  SEED_DEFAULT_HOLIDAYS  Seed the holiday preset at startup and on schedule
  HOLIDAY_PRESET         ma | us (default: ma)
  SCHEDULER_ENABLED      Run the background maintenance (default: true)
  SCHEDULER_INTERVAL     Go duration between runs (default: 1h)
  CORS_ALLOWED_ORIGINS   Comma-separated origins

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection

SEE ALSO:
  - config/config.go: Configuration
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v3"

	"github.com/warp/leave-engine/api"
	"github.com/warp/leave-engine/config"
	"github.com/warp/leave-engine/factory"
	"github.com/warp/leave-engine/generic"
	"github.com/warp/leave-engine/leave"
	"github.com/warp/leave-engine/store/memory"
	"github.com/warp/leave-engine/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level, _ := cfg.SlogLevel()
	logFormat := httplog.SchemaECS.Concise(!cfg.IsProduction())
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "leave-engine"),
		slog.String("env", cfg.App.Env),
	)
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	// Initialize store
	store, err := openStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer store.Close()

	// Resolve policy
	policy, err := loadPolicy(cfg)
	if err != nil {
		return err
	}
	logger.Info("leave policy loaded",
		"policy_id", string(policy.ID),
		"base_entitlement", policy.BaseEntitlement.String(),
		"blackout_years", policy.BlackoutYears,
	)

	engine := leave.NewEngine(policy)
	svc := leave.NewService(engine, store, store, logger)

	handler := api.NewHandler(store, svc, logger)
	handler.HolidayPreset = cfg.Holidays.Preset

	scheduler := api.NewScheduler(handler, logger)
	scheduler.CheckInterval = cfg.Scheduler.Interval
	scheduler.SeedHolidays = cfg.Holidays.SeedDefaults
	if cfg.Scheduler.Enabled {
		scheduler.Start()
		defer scheduler.Stop()
	} else if cfg.Holidays.SeedDefaults {
		if summary := scheduler.RunOnce(ctx); summary.Err != nil {
			logger.Warn("initial holiday seeding failed", "error", summary.Err)
		}
	}

	router := api.NewRouter(handler, api.RouterOptions{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", server.Addr, "db_driver", cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		logger.Info("shutting down server", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func openStore(cfg *config.Config, logger *slog.Logger) (leave.Repository, error) {
	switch cfg.Database.Driver {
	case "memory":
		return memory.New(), nil
	default:
		return sqlite.New(cfg.Database.Path, sqlite.WithLogger(logger))
	}
}

func loadPolicy(cfg *config.Config) (generic.Policy, error) {
	policy := leave.DefaultPolicy()
	if cfg.Policy.File != "" {
		loaded, err := factory.NewPolicyFactory().LoadFile(cfg.Policy.File)
		if err != nil {
			return generic.Policy{}, fmt.Errorf("failed to load policy %s: %w", cfg.Policy.File, err)
		}
		policy = loaded
	}
	policy.BlackoutYears = append(policy.BlackoutYears, cfg.Policy.BlackoutYears...)
	return policy, nil
}
