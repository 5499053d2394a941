package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"brainbank/video-ingestion/internal/config"
	"brainbank/video-ingestion/internal/db"
	"brainbank/video-ingestion/internal/db/repository"
	"brainbank/video-ingestion/internal/handler"
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

	ctx := context.Background()

	pool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close(pool)

	logger.Log.Info("Database connection established",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Name),
	)

	videoRepo := repository.NewVideoRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	brainRepo := repository.NewSecondBrainRepository(pool)
	chatRepo := repository.NewChatMessageRepository(pool)
	userRepo := repository.NewAppUserRepository(pool)
	reminderRepo := repository.NewReminderRepository(pool)
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

	queueClient, err := queue.NewClient(cfg.Redis.URL, jobRepo, &cfg.Enrichment)
	if err != nil {
		logger.Log.Fatal("Failed to initialize queue client", zap.Error(err))
	}
	defer func() { _ = queueClient.Close() }()

	redisOpt, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Log.Fatal("Failed to parse redis URL", zap.Error(err))
	}
	redisClient := redis.NewClient(redisOpt)
	defer func() { _ = redisClient.Close() }()

	aiClient := ai.NewClient(&cfg.OpenAI)

	uploadService := service.NewUploadService(videoRepo, store, queueClient, publisher, &cfg.Upload)
	chatService := service.NewChatService(videoRepo, chatRepo, aiClient, &cfg.Chat)
	reminderService := service.NewReminderService(reminderRepo, publisher, &cfg.Notifications)
	statsService := service.NewStatsService(userRepo, redisClient, cfg.Redis.StatsTTL)

	schedulerCtx, stopScheduler := context.WithCancel(ctx)
	defer stopScheduler()
	go reminderService.Run(schedulerCtx)

	router := handler.NewRouter(&handler.Handlers{
		Upload:   handler.NewUploadHandler(uploadService),
		Video:    handler.NewVideoHandler(videoRepo),
		Comment:  handler.NewCommentHandler(commentRepo),
		Brain:    handler.NewBrainHandler(brainRepo, videoRepo),
		Chat:     handler.NewChatHandler(chatService),
		Reminder: handler.NewReminderHandler(reminderService),
		User:     handler.NewUserHandler(userRepo, statsService),
		Health:   handler.NewHealthHandler(pool, publisher),
	}, cfg.Auth.APIKeys)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Log.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down server")
	stopScheduler()

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Log.Info("Server exited")
}
