package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"brainbank/video-ingestion/internal/config"
	"brainbank/video-ingestion/internal/db/models"
	"brainbank/video-ingestion/internal/db/repository"
	"brainbank/video-ingestion/pkg/logger"
)

// Client enqueues enrichment tasks and mirrors them into the jobs table.
type Client struct {
	asynqClient *asynq.Client
	jobRepo     repository.EnrichmentJobRepository
	maxRetry    int
	taskTimeout time.Duration
}

// NewClient creates a queue client from the shared Redis configuration.
func NewClient(redisURL string, jobRepo repository.EnrichmentJobRepository, cfg *config.EnrichmentConfig) (*Client, error) {
	redisOpt, err := ParseRedisURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	return &Client{
		asynqClient: asynq.NewClient(redisOpt),
		jobRepo:     jobRepo,
		maxRetry:    cfg.MaxRetry,
		taskTimeout: cfg.TaskTimeout,
	}, nil
}

// Close closes the client connection.
func (c *Client) Close() error {
	return c.asynqClient.Close()
}

// EnqueueEnrichment schedules enrichment for an uploaded video and returns
// the queue task id. The job row is bookkeeping and is written best-effort;
// the queued task is the source of truth.
func (c *Client) EnqueueEnrichment(ctx context.Context, videoID, ownerID string) (string, error) {
	payload, err := NewEnrichVideoTask(videoID, ownerID)
	if err != nil {
		return "", fmt.Errorf("failed to create task payload: %w", err)
	}

	payloadBytes, err := payload.Marshal()
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	task := asynq.NewTask(TypeEnrichVideo, payloadBytes)

	info, err := c.asynqClient.EnqueueContext(ctx, task,
		asynq.MaxRetry(c.maxRetry),
		asynq.Timeout(c.taskTimeout),
		asynq.Queue(QueueEnrichment),
	)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue task: %w", err)
	}

	logger.Log.Info("Enqueued video enrichment",
		zap.String("videoId", videoID),
		zap.String("taskId", info.ID),
	)

	taskID := info.ID
	job := models.NewEnrichmentJob(videoID, TypeEnrichVideo, &taskID, c.maxRetry+1)
	if err := c.jobRepo.CreateJob(ctx, job); err != nil {
		logger.Log.Warn("Failed to record enrichment job",
			zap.String("videoId", videoID),
			zap.Error(err),
		)
	}

	return info.ID, nil
}
