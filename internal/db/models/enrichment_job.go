package models

import (
	"time"

	"github.com/google/uuid"
)

// Enrichment job statuses.
const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
	JobStatusDead       = "dead"
)

// EnrichmentJob mirrors a queued enrichment task for tracking. The queue is
// the source of truth for execution; this row is bookkeeping and is written
// best-effort.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type EnrichmentJob struct {
	ID          uuid.UUID  `db:"id"`
	TaskID      *string    `db:"task_id"`
	VideoID     string     `db:"video_id"`
	JobType     string     `db:"job_type"`
	Status      string     `db:"status"`
	Attempts    int        `db:"attempts"`
	MaxAttempts int        `db:"max_attempts"`
	LastError   *string    `db:"last_error"`
	ScheduledAt time.Time  `db:"scheduled_at"`
	StartedAt   *time.Time `db:"started_at"`
	CompletedAt *time.Time `db:"completed_at"`
}

// NewEnrichmentJob creates a pending job record for a video.
func NewEnrichmentJob(videoID, jobType string, taskID *string, maxAttempts int) *EnrichmentJob {
	return &EnrichmentJob{
		ID:          uuid.New(),
		TaskID:      taskID,
		VideoID:     videoID,
		JobType:     jobType,
		Status:      JobStatusPending,
		MaxAttempts: maxAttempts,
		ScheduledAt: time.Now(),
	}
}
