package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/landuse-microservice/internal/config"
	"github.com/landuse-microservice/internal/infrastructure/websearch"
	"github.com/landuse-microservice/internal/pkg/logger"
	"github.com/landuse-microservice/internal/repository/postgres"
	"github.com/landuse-microservice/internal/worker"
	"github.com/landuse-microservice/internal/worker/municipality"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Check if worker is enabled
	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Municipality Sweep Worker")
	log.Info("Configuration loaded",
		zap.Int("limit", cfg.Worker.Limit),
		zap.Int("concurrency", cfg.Worker.Concurrency),
		zap.Int("max_retries", cfg.Worker.MaxRetries),
		zap.Duration("sweep_interval", cfg.Worker.SweepInterval))

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	// 4. Initialize repositories and clients
	municipalityRepo := postgres.NewMunicipalityRepository(db)
	searchClient := websearch.NewClient(&cfg.Search, cfg.Providers.QueryTimeout, log)

	// 5. Initialize workers
	sweepWorker := municipality.NewSweepWorker(
		municipalityRepo,
		searchClient,
		cfg.Worker,
		log,
	)

	// 6. Create worker manager and register workers
	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(sweepWorker)

	// 7. Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start workers
	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	// Cancel context to stop workers
	cancel()

	// Stop worker manager
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
