package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"brainbank/video-ingestion/internal/config"
	"brainbank/video-ingestion/internal/db"
	"brainbank/video-ingestion/internal/db/models"
	"brainbank/video-ingestion/internal/db/repository"
	"brainbank/video-ingestion/internal/metrics"
	"brainbank/video-ingestion/internal/service/ai"
	"brainbank/video-ingestion/internal/service/storage"
	"brainbank/video-ingestion/pkg/logger"
)

// EnrichService runs the transcribe-then-summarize pipeline for one video.
// The queue handler owns retries; this service reports failure through the
// returned error and records state on the video row.
type EnrichService struct {
	videos    repository.VideoRepository
	store     storage.ObjectStorage
	ai        aiBackend
	publisher EventPublisher
	cfg       *config.EnrichmentConfig
}

type aiBackend interface {
	ai.Transcriber
	ai.Summarizer
}

func NewEnrichService(
	videos repository.VideoRepository,
	store storage.ObjectStorage,
	backend aiBackend,
	publisher EventPublisher,
	cfg *config.EnrichmentConfig,
) *EnrichService {
	return &EnrichService{
		videos:    videos,
		store:     store,
		ai:        backend,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Process enriches one uploaded video end to end. Each stage advances the
// status before doing its work, so observers see transcribing and analyzing
// as they happen.
func (s *EnrichService) Process(ctx context.Context, videoID, ownerID string) error {
	start := time.Now()

	// Redelivery of a completed task (worker crash after commit, task
	// timeout) must not re-run the paid transcription pass.
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return &ProcessingError{Message: "failed to load video", Cause: err}
	}
	if video.ProcessingStatus == models.StatusReady {
		logger.Log.Info("Video already enriched, skipping",
			zap.String("videoId", videoID),
		)
		return nil
	}

	// A stale transition means a prior attempt already moved the video past
	// this stage; the retry re-runs the work without regressing the status.
	if err := s.videos.AdvanceStatus(ctx, videoID, models.StatusTranscribing); err != nil && !db.IsStaleTransition(err) {
		return &ProcessingError{Message: "failed to advance video to transcribing", Cause: err}
	}

	media, err := s.store.Fetch(ctx, videoID)
	if err != nil {
		return &ProcessingError{Message: "failed to fetch media from storage", Cause: err}
	}
	defer func() { _ = media.Close() }()

	transcript, err := s.ai.Transcribe(ctx, videoID+".mp4", media)
	if err != nil {
		return &ProcessingError{Message: "transcription failed", Cause: err}
	}

	logger.Log.Info("Transcription completed",
		zap.String("videoId", videoID),
		zap.Int("transcriptChars", len(transcript)),
	)

	if err := s.videos.AdvanceStatus(ctx, videoID, models.StatusAnalyzing); err != nil && !db.IsStaleTransition(err) {
		return &ProcessingError{Message: "failed to advance video to analyzing", Cause: err}
	}

	summaryInput := clampUTF8(transcript, s.cfg.TranscriptMaxChars)

	result, err := s.ai.Summarize(ctx, summaryInput)
	if err != nil {
		return &ProcessingError{Message: "summarization failed", Cause: err}
	}

	if err := s.videos.SetEnrichment(ctx, videoID, transcript, result); err != nil {
		// A concurrent attempt finished first; its results stand and it
		// already published the ready event.
		if db.IsStaleTransition(err) {
			logger.Log.Info("Video enriched by a concurrent attempt",
				zap.String("videoId", videoID),
			)
			return nil
		}
		return &ProcessingError{Message: "failed to store enrichment", Cause: err}
	}

	metrics.EnrichmentOutcomes.WithLabelValues("success").Inc()
	metrics.EnrichmentDuration.Observe(time.Since(start).Seconds())

	if s.publisher != nil {
		event := NewLifecycleEvent(EventVideoReady, videoID, ownerID, "")
		if err := s.publisher.Publish(ctx, event); err != nil {
			logger.Log.Warn("Failed to publish ready event",
				zap.String("videoId", videoID),
				zap.Error(err),
			)
		}
	}

	logger.Log.Info("Enrichment completed",
		zap.String("videoId", videoID),
		zap.String("title", result.Title),
		zap.Duration("duration", time.Since(start)),
	)

	return nil
}

// Fail records a terminal enrichment failure on the video row and publishes
// the failure event. Called once retries are exhausted.
func (s *EnrichService) Fail(ctx context.Context, videoID, ownerID, message string) {
	metrics.EnrichmentOutcomes.WithLabelValues("dead").Inc()

	if err := s.videos.MarkError(ctx, videoID, message); err != nil {
		logger.Log.Warn("Failed to mark video as errored",
			zap.String("videoId", videoID),
			zap.Error(err),
		)
	}

	if s.publisher != nil {
		event := NewLifecycleEvent(EventVideoFailed, videoID, ownerID, message)
		if err := s.publisher.Publish(ctx, event); err != nil {
			logger.Log.Warn("Failed to publish failure event",
				zap.String("videoId", videoID),
				zap.Error(err),
			)
		}
	}
}
