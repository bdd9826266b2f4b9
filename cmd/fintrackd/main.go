package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/config"
	apphttp "fintrack/internal/http"
	"fintrack/internal/log"
	"fintrack/internal/remote"
	"fintrack/internal/remote/memory"
	"fintrack/internal/remote/postgres"
	"fintrack/internal/state"
	"fintrack/internal/storage"
	"fintrack/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	logger := log.New("fintrackd", log.ParseLevel(cfg.LogLevel))
	log.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	cache, err := storage.NewCache(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open local cache", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer cache.Close()

	// Without a remote database the app runs local-only; an in-memory
	// backend keeps the sync lanes harmless.
	var backend remote.Store
	if cfg.DatabaseURL != "" {
		pg, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			logger.Error("Failed to connect to remote store", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		if err := pg.EnsureSchema(context.Background()); err != nil {
			logger.Error("Failed to ensure remote schema", "error", err)
			os.Exit(1)
		}
		backend = pg
		logger.Info("Remote store enabled")
	} else {
		backend = memory.New()
		logger.Info("Remote store disabled - no DATABASE_URL provided")
	}

	store := state.New(context.Background(), cache, backend, cfg.SyncQuietPeriod, logger.WithComponent("state"))
	defer store.Close()

	if cfg.SnapshotSchedule != "" {
		snapWorker := worker.NewSnapshot(store, cfg.SnapshotSchedule, logger.WithComponent("worker"))
		if err := snapWorker.Start(); err != nil {
			logger.Error("Failed to start snapshot worker", "error", err)
			os.Exit(1)
		}
		defer snapWorker.Stop()
	}

	srv := apphttp.NewServer(":"+cfg.Port, store, cfg.JWTSecret, logger.WithComponent("http"))
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting fintrack server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
