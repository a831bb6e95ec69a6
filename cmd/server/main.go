/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the payslip engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env, environment, YAML company profile)
  2. Apply command-line flag overrides
  3. Build the structured logger
  4. Open the store (SQLite when a path is set, otherwise in-memory)
  5. Create API handler and router
  6. Start the leave accrual scheduler
  7. Start server with graceful shutdown

COMMAND-LINE FLAGS (override the environment):
  -port    HTTP server port (PORT, default: 8080)
  -db      SQLite database path (DB_PATH); empty keeps data in memory
           Use ":memory:" for an in-memory SQLite database
  -config  YAML company profile (CONFIG_FILE)

ENVIRONMENT:
  PORT, APP_ENV, DB_PATH, LOG_LEVEL, CONFIG_FILE, CORS_ORIGINS,
  BATCH_LIMIT, ACCRUAL_INTERVAL. See config/config.go.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the accrual scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close the store

EXAMPLES:
  ./server -db="./data/payslips.db" -config=./company.yaml
  ./server -port=3000

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Settings and company profile
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v3"

	"github.com/warp/payslip-engine/api"
	"github.com/warp/payslip-engine/config"
	"github.com/warp/payslip-engine/payslip"
	"github.com/warp/payslip-engine/store/memory"
	"github.com/warp/payslip-engine/store/sqlite"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", slog.Any("err", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Flags
	port := flag.Int("port", cfg.App.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.App.DBPath, "SQLite database path (empty: in-memory store)")
	profilePath := flag.String("config", cfg.App.ConfigFile, "YAML company profile")
	flag.Parse()

	switch {
	case *profilePath == cfg.App.ConfigFile:
	case *profilePath == "":
		cfg.Profile = config.DefaultProfile()
	default:
		profile, err := config.LoadProfile(*profilePath)
		if err != nil {
			return err
		}
		cfg.Profile = profile
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.App.SlogLevel(),
		ReplaceAttr: httplog.SchemaECS.Concise(cfg.App.Env == "development").ReplaceAttr,
	})).With(
		slog.String("app", "payslip-engine"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	// Initialize store
	store, err := openStore(*dbPath)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer store.Close()

	handler := api.NewHandler(store, cfg.Profile, logger, payslip.WithBatchLimit(cfg.App.BatchLimit))
	router := api.NewRouter(handler, api.RouterOptions{
		AllowedOrigins: cfg.App.CORSOrigins,
		LogLevel:       slog.LevelInfo,
	})

	handler.Accruals.CheckInterval = cfg.App.AccrualInterval
	handler.Accruals.Start()
	defer handler.Accruals.Stop()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			slog.Int("port", *port),
			slog.String("store", storeName(*dbPath)),
			slog.String("company", cfg.Profile.Company.Name))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func openStore(dbPath string) (payslip.Store, error) {
	if dbPath == "" {
		return memory.New(), nil
	}
	return sqlite.New(dbPath)
}

func storeName(dbPath string) string {
	if dbPath == "" {
		return "memory"
	}
	return "sqlite:" + dbPath
}
