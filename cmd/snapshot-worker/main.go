// snapshot-worker captures net-worth snapshots on a schedule, independently
// of the main server. Useful for deployments where the server is not always
// running but a monthly snapshot row should still appear.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/remote"
	"fintrack/internal/remote/memory"
	"fintrack/internal/remote/postgres"
	"fintrack/internal/state"
	"fintrack/internal/storage"
	"fintrack/internal/worker"
)

func main() {
	once := flag.Bool("once", false, "capture a single snapshot and exit")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()
	logger := log.New("snapshot-worker", log.ParseLevel(cfg.LogLevel))
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
	} else {
		backend = memory.New()
	}

	store := state.New(context.Background(), cache, backend, cfg.SyncQuietPeriod, logger.WithComponent("state"))
	defer store.Close()

	snapWorker := worker.NewSnapshot(store, cfg.SnapshotSchedule, logger)

	if *once {
		snapWorker.RunOnce()
		store.Flush()
		return
	}

	if err := snapWorker.Start(); err != nil {
		logger.Error("Failed to start snapshot worker", "error", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Shutdown signal received", "signal", sig.String())

	snapWorker.Stop()
	store.Flush()
}
