package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"brainbank/video-ingestion/internal/db"
	"brainbank/video-ingestion/internal/db/models"
)

// EnrichmentJobRepository tracks queued enrichment work. The queue drives
// execution; these rows exist for observability and dead-letter triage.
type EnrichmentJobRepository interface {
	CreateJob(ctx context.Context, job *models.EnrichmentJob) error
	GetJobByTaskID(ctx context.Context, taskID string) (*models.EnrichmentJob, error)
	MarkJobProcessing(ctx context.Context, id uuid.UUID) error
	MarkJobCompleted(ctx context.Context, id uuid.UUID) error
	MarkJobFailed(ctx context.Context, id uuid.UUID, lastError string) error
	MarkJobDead(ctx context.Context, id uuid.UUID, lastError string) error
}

type enrichmentJobRepository struct {
	pool *pgxpool.Pool
}

// NewEnrichmentJobRepository creates a new EnrichmentJobRepository.
func NewEnrichmentJobRepository(pool *pgxpool.Pool) EnrichmentJobRepository {
	return &enrichmentJobRepository{pool: pool}
}

func (r *enrichmentJobRepository) CreateJob(ctx context.Context, job *models.EnrichmentJob) error {
	query := `
		INSERT INTO enrichment_jobs (id, task_id, video_id, job_type, status, attempts, max_attempts, scheduled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		job.ID,
		job.TaskID,
		job.VideoID,
		job.JobType,
		job.Status,
		job.Attempts,
		job.MaxAttempts,
		job.ScheduledAt,
	)
	if err != nil {
		return db.WrapError(err, "create enrichment job")
	}

	return nil
}

func (r *enrichmentJobRepository) GetJobByTaskID(ctx context.Context, taskID string) (*models.EnrichmentJob, error) {
	query := `
		SELECT id, task_id, video_id, job_type, status, attempts, max_attempts,
		       last_error, scheduled_at, started_at, completed_at
		FROM enrichment_jobs
		WHERE task_id = $1
	`

	job := &models.EnrichmentJob{}
	err := r.pool.QueryRow(ctx, query, taskID).Scan(
		&job.ID,
		&job.TaskID,
		&job.VideoID,
		&job.JobType,
		&job.Status,
		&job.Attempts,
		&job.MaxAttempts,
		&job.LastError,
		&job.ScheduledAt,
		&job.StartedAt,
		&job.CompletedAt,
	)
	if err != nil {
		return nil, db.WrapError(err, "get enrichment job by task id")
	}

	return job, nil
}

func (r *enrichmentJobRepository) MarkJobProcessing(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE enrichment_jobs
		SET status = $2, attempts = attempts + 1, started_at = now()
		WHERE id = $1
	`

	_, err := r.pool.Exec(ctx, query, id, models.JobStatusProcessing)
	return db.WrapError(err, "mark job processing")
}

func (r *enrichmentJobRepository) MarkJobCompleted(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE enrichment_jobs
		SET status = $2, completed_at = now()
		WHERE id = $1
	`

	_, err := r.pool.Exec(ctx, query, id, models.JobStatusCompleted)
	return db.WrapError(err, "mark job completed")
}

func (r *enrichmentJobRepository) MarkJobFailed(ctx context.Context, id uuid.UUID, lastError string) error {
	query := `
		UPDATE enrichment_jobs
		SET status = $2, last_error = $3
		WHERE id = $1
	`

	_, err := r.pool.Exec(ctx, query, id, models.JobStatusFailed, lastError)
	return db.WrapError(err, "mark job failed")
}

func (r *enrichmentJobRepository) MarkJobDead(ctx context.Context, id uuid.UUID, lastError string) error {
	query := `
		UPDATE enrichment_jobs
		SET status = $2, last_error = $3, completed_at = now()
		WHERE id = $1
	`

	_, err := r.pool.Exec(ctx, query, id, models.JobStatusDead, lastError)
	return db.WrapError(err, "mark job dead")
}
