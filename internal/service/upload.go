package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"brainbank/video-ingestion/internal/config"
	"brainbank/video-ingestion/internal/db"
	"brainbank/video-ingestion/internal/db/models"
	"brainbank/video-ingestion/internal/db/repository"
	"brainbank/video-ingestion/internal/metrics"
	"brainbank/video-ingestion/internal/service/storage"
	"brainbank/video-ingestion/pkg/logger"
)

// EnrichmentEnqueuer hands a finished upload to the background worker.
type EnrichmentEnqueuer interface {
	EnqueueEnrichment(ctx context.Context, videoID, ownerID string) (string, error)
}

// UploadRequest carries everything the pipeline needs to intake one video.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type UploadRequest struct {
	OwnerID        string
	Filename       string
	Size           int64
	IdempotencyKey string
	Body           io.Reader
}

// UploadResult reports the intake outcome. Duplicate is true when the
// idempotency key matched an earlier upload and no new record was created.
type UploadResult struct {
	Video     *models.Video
	Duplicate bool
}

// UploadService runs the video intake pipeline: record first, then media,
// then enqueue enrichment. A crash between steps leaves a row in the
// uploading state that the client can retry against its idempotency key.
type UploadService struct {
	videos    repository.VideoRepository
	store     storage.ObjectStorage
	enqueuer  EnrichmentEnqueuer
	publisher EventPublisher
	cfg       *config.UploadConfig
}

func NewUploadService(
	videos repository.VideoRepository,
	store storage.ObjectStorage,
	enqueuer EnrichmentEnqueuer,
	publisher EventPublisher,
	cfg *config.UploadConfig,
) *UploadService {
	return &UploadService{
		videos:    videos,
		store:     store,
		enqueuer:  enqueuer,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Upload validates the request, creates the database record before any bytes
// move, streams the media to object storage, and schedules enrichment.
func (s *UploadService) Upload(ctx context.Context, req *UploadRequest) (*UploadResult, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	// Idempotent retry: a matching key returns the earlier record untouched.
	if req.IdempotencyKey != "" {
		existing, err := s.videos.GetByIdempotencyKey(ctx, req.OwnerID, req.IdempotencyKey)
		if err == nil {
			logger.Log.Info("Duplicate upload matched idempotency key",
				zap.String("videoId", existing.ID),
				zap.String("ownerId", req.OwnerID),
			)
			return &UploadResult{Video: existing, Duplicate: true}, nil
		}
		if !db.IsNotFound(err) {
			return nil, &ProcessingError{Message: "failed to check idempotency key", Cause: err}
		}
	}

	metrics.UploadsStarted.Inc()
	start := time.Now()

	videoID := db.GenerateVideoID(req.Filename, time.Now())

	var key *string
	if req.IdempotencyKey != "" {
		key = &req.IdempotencyKey
	}
	video := models.NewVideo(videoID, req.OwnerID, key)

	if err := s.videos.Create(ctx, video); err != nil {
		// A concurrent retry with the same key can win the insert race.
		if db.IsDuplicateKey(err) && req.IdempotencyKey != "" {
			existing, lookupErr := s.videos.GetByIdempotencyKey(ctx, req.OwnerID, req.IdempotencyKey)
			if lookupErr == nil {
				return &UploadResult{Video: existing, Duplicate: true}, nil
			}
		}
		metrics.UploadsFailed.Inc()
		return nil, &ProcessingError{Message: "failed to create video record", Cause: err}
	}

	logger.Log.Info("Video record created",
		zap.String("videoId", videoID),
		zap.String("ownerId", req.OwnerID),
		zap.Int64("size", req.Size),
	)

	url, err := s.store.Upload(ctx, videoID, req.OwnerID, req.Body, req.Size, s.logProgress(videoID))
	if err != nil {
		s.failUpload(ctx, videoID, req.OwnerID, "media upload failed: "+err.Error())
		return nil, &ProcessingError{Message: "failed to upload media", Cause: err}
	}

	if err := s.videos.SetVideoURL(ctx, videoID, url); err != nil {
		s.failUpload(ctx, videoID, req.OwnerID, "failed to record media url: "+err.Error())
		return nil, &ProcessingError{Message: "failed to record media url", Cause: err}
	}
	video.VideoURL = &url

	taskID, err := s.enqueuer.EnqueueEnrichment(ctx, videoID, req.OwnerID)
	if err != nil {
		s.failUpload(ctx, videoID, req.OwnerID, "failed to schedule enrichment: "+err.Error())
		return nil, &ProcessingError{Message: "failed to schedule enrichment", Cause: err}
	}

	metrics.UploadsCompleted.Inc()
	metrics.UploadDuration.Observe(time.Since(start).Seconds())
	metrics.UploadBytes.Observe(float64(req.Size))

	s.publishEvent(ctx, NewLifecycleEvent(EventVideoUploaded, videoID, req.OwnerID, ""))

	logger.Log.Info("Upload completed",
		zap.String("videoId", videoID),
		zap.String("taskId", taskID),
		zap.Duration("duration", time.Since(start)),
	)

	return &UploadResult{Video: video}, nil
}

func (s *UploadService) validate(req *UploadRequest) error {
	if req.OwnerID == "" {
		return &ValidationError{Message: "owner id is required"}
	}
	if req.Body == nil {
		return &ValidationError{Message: "request body is required"}
	}
	if req.Size <= 0 {
		return &ValidationError{Message: "file size must be positive"}
	}
	if s.cfg.MaxFileBytes > 0 && req.Size > s.cfg.MaxFileBytes {
		return &ValidationError{
			Message: fmt.Sprintf("file size %d exceeds limit %d", req.Size, s.cfg.MaxFileBytes),
		}
	}
	return nil
}

// failUpload moves the record to the error state. Best effort: the original
// failure is what the caller sees.
func (s *UploadService) failUpload(ctx context.Context, videoID, ownerID, message string) {
	metrics.UploadsFailed.Inc()
	if err := s.videos.MarkError(ctx, videoID, message); err != nil && !errors.Is(err, db.ErrNotFound) {
		logger.Log.Warn("Failed to mark video as errored",
			zap.String("videoId", videoID),
			zap.Error(err),
		)
	}
	s.publishEvent(ctx, NewLifecycleEvent(EventVideoFailed, videoID, ownerID, message))
}

func (s *UploadService) publishEvent(ctx context.Context, event *LifecycleEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Log.Warn("Failed to publish lifecycle event",
			zap.String("type", event.Type),
			zap.String("videoId", event.VideoID),
			zap.Error(err),
		)
	}
}

func (s *UploadService) logProgress(videoID string) storage.ProgressFunc {
	var lastDecile int64 = -1
	return func(transferred, total int64) {
		if total <= 0 {
			return
		}
		decile := transferred * 10 / total
		if decile > lastDecile {
			lastDecile = decile
			logger.Log.Debug("Upload progress",
				zap.String("videoId", videoID),
				zap.Int64("percent", decile*10),
			)
		}
	}
}
