package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"brainbank/video-ingestion/internal/config"
	"brainbank/video-ingestion/internal/db"
	"brainbank/video-ingestion/internal/db/repository"
	"brainbank/video-ingestion/internal/queue"
	"brainbank/video-ingestion/internal/service"
	"brainbank/video-ingestion/internal/service/ai"
	"brainbank/video-ingestion/internal/service/storage"
	"brainbank/video-ingestion/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.OpenAI.APIKey == "" {
		logger.Log.Fatal("APP_OPENAI_APIKEY is required")
	}

	ctx := context.Background()

	pool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close(pool)

	videoRepo := repository.NewVideoRepository(pool)
	jobRepo := repository.NewEnrichmentJobRepository(pool)

	store, err := storage.NewS3Storage(ctx, &cfg.Storage)
	if err != nil {
		logger.Log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	publisher, err := service.NewMessagePublisher(&cfg.RabbitMQ)
	if err != nil {
		logger.Log.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer func() { _ = publisher.Close() }()

	aiClient := ai.NewClient(&cfg.OpenAI)
	enrichService := service.NewEnrichService(videoRepo, store, aiClient, publisher, &cfg.Enrichment)
	taskHandler := queue.NewEnrichmentHandler(enrichService, jobRepo)

	server, err := queue.NewServer(cfg.Redis.URL, cfg.Enrichment.Workers, taskHandler)
	if err != nil {
		logger.Log.Fatal("Failed to create queue server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Run()
	}()

	logger.Log.Info("Enrichment worker started",
		zap.Int("workers", cfg.Enrichment.Workers),
	)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Log.Fatal("Queue server failed", zap.Error(err))
		}
	case sig := <-shutdown:
		logger.Log.Info("Received shutdown signal", zap.String("signal", sig.String()))
		server.Shutdown()
	}

	logger.Log.Info("Enrichment worker exited")
}
