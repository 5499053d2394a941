package queue

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"brainbank/video-ingestion/internal/db/models"
	"brainbank/video-ingestion/internal/db/repository"
	"brainbank/video-ingestion/internal/service"
	"brainbank/video-ingestion/pkg/logger"
)

// EnrichmentHandler runs queued enrichment tasks against the pipeline and
// keeps the job row in step with each attempt.
type EnrichmentHandler struct {
	enrich  *service.EnrichService
	jobRepo repository.EnrichmentJobRepository
}

// NewEnrichmentHandler creates the task handler for the enrichment queue.
func NewEnrichmentHandler(enrich *service.EnrichService, jobRepo repository.EnrichmentJobRepository) *EnrichmentHandler {
	return &EnrichmentHandler{
		enrich:  enrich,
		jobRepo: jobRepo,
	}
}

// ProcessTask implements asynq.Handler. A returned error makes asynq retry
// with backoff; on the final attempt the video is marked errored and the job
// row dead before the task lands in the archive.
func (h *EnrichmentHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	payload, err := UnmarshalEnrichVideoPayload(task.Payload())
	if err != nil {
		// Unparseable payloads can never succeed; skip retries.
		return fmt.Errorf("failed to unmarshal payload: %w: %v", asynq.SkipRetry, err)
	}

	taskID, _ := asynq.GetTaskID(ctx)
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)

	logger.Log.Info("Processing video enrichment",
		zap.String("videoId", payload.VideoID),
		zap.String("taskId", taskID),
		zap.Int("attempt", retried+1),
	)

	job := h.lookupJob(ctx, taskID)
	if job != nil {
		if err := h.jobRepo.MarkJobProcessing(ctx, job.ID); err != nil {
			logger.Log.Warn("Failed to mark job as processing",
				zap.String("taskId", taskID),
				zap.Error(err),
			)
		}
	}

	if err := h.enrich.Process(ctx, payload.VideoID, payload.OwnerID); err != nil {
		lastAttempt := retried >= maxRetry

		if job != nil {
			if lastAttempt {
				h.markJobDead(ctx, job, err)
			} else if markErr := h.jobRepo.MarkJobFailed(ctx, job.ID, err.Error()); markErr != nil {
				logger.Log.Warn("Failed to mark job as failed",
					zap.String("taskId", taskID),
					zap.Error(markErr),
				)
			}
		}

		if lastAttempt {
			h.enrich.Fail(ctx, payload.VideoID, payload.OwnerID, err.Error())
		}

		return fmt.Errorf("enrichment failed for video %s: %w", payload.VideoID, err)
	}

	if job != nil {
		if err := h.jobRepo.MarkJobCompleted(ctx, job.ID); err != nil {
			logger.Log.Warn("Failed to mark job as completed",
				zap.String("taskId", taskID),
				zap.Error(err),
			)
		}
	}

	return nil
}

// lookupJob finds the mirrored job row. Missing rows are tolerated: the job
// table is bookkeeping, not the execution record.
func (h *EnrichmentHandler) lookupJob(ctx context.Context, taskID string) *models.EnrichmentJob {
	if taskID == "" {
		return nil
	}
	job, err := h.jobRepo.GetJobByTaskID(ctx, taskID)
	if err != nil {
		logger.Log.Warn("Could not find job row for task",
			zap.String("taskId", taskID),
			zap.Error(err),
		)
		return nil
	}
	return job
}

func (h *EnrichmentHandler) markJobDead(ctx context.Context, job *models.EnrichmentJob, cause error) {
	if err := h.jobRepo.MarkJobDead(ctx, job.ID, cause.Error()); err != nil {
		logger.Log.Warn("Failed to mark job as dead",
			zap.String("jobId", job.ID.String()),
			zap.Error(err),
		)
	}
}
