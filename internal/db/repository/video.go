package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"brainbank/video-ingestion/internal/db"
	"brainbank/video-ingestion/internal/db/models"
)

// VideoRepository defines operations for managing video records.
type VideoRepository interface {
	// Create inserts a new video record.
	Create(ctx context.Context, video *models.Video) error

	// GetByID retrieves a single video by ID.
	GetByID(ctx context.Context, videoID string) (*models.Video, error)

	// GetByIdempotencyKey retrieves the video previously created by the same
	// owner with the same idempotency key, if any.
	GetByIdempotencyKey(ctx context.Context, ownerID, key string) (*models.Video, error)

	// ListByOwner retrieves a user's videos, newest first.
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*models.Video, error)

	// List retrieves all videos with pagination, newest first.
	List(ctx context.Context, limit, offset int) ([]*models.Video, error)

	// SetVideoURL records the durable media URL once the upload completes.
	SetVideoURL(ctx context.Context, videoID, videoURL string) error

	// AdvanceStatus moves a video forward in its lifecycle. A transition that
	// would move backwards (or out of a terminal state) returns
	// db.ErrStaleTransition and leaves the row untouched.
	AdvanceStatus(ctx context.Context, videoID string, to models.ProcessingStatus) error

	// MarkError sets the status to error with the given message. Ready and
	// already-errored videos are left alone.
	MarkError(ctx context.Context, videoID, message string) error

	// SetEnrichment stores the transcript and summarization output and
	// advances the video to ready.
	SetEnrichment(ctx context.Context, videoID, transcript string, result *models.EnrichmentResult) error

	// ListTranscriptsByOwner returns (video id, transcript) pairs for every
	// ready video of the owner that has a transcript.
	ListTranscriptsByOwner(ctx context.Context, ownerID string, limit int) ([]*models.Video, error)

	// IncrementViewCount bumps the view counter.
	IncrementViewCount(ctx context.Context, videoID string) error
}

type videoRepository struct {
	pool *pgxpool.Pool
}

// NewVideoRepository creates a new VideoRepository.
func NewVideoRepository(pool *pgxpool.Pool) VideoRepository {
	return &videoRepository{pool: pool}
}

const videoColumns = `id, owner_id, video_url, thumbnail_url, title, description, tags,
	processing_status, error_message, transcript, quotes,
	like_count, save_count, comment_count, brain_count, view_count,
	idempotency_key, created_at, updated_at`

func (r *videoRepository) Create(ctx context.Context, video *models.Video) error {
	query := `
		INSERT INTO videos (id, owner_id, video_url, thumbnail_url, title, description, tags,
			processing_status, error_message, transcript, quotes, idempotency_key,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	tags := video.Tags
	if tags == nil {
		tags = []string{}
	}
	quotes := video.Quotes
	if quotes == nil {
		quotes = []string{}
	}

	_, err := r.pool.Exec(ctx, query,
		video.ID,
		video.OwnerID,
		video.VideoURL,
		video.ThumbnailURL,
		video.Title,
		video.Description,
		tags,
		video.ProcessingStatus,
		video.ErrorMessage,
		video.Transcript,
		quotes,
		video.IdempotencyKey,
		video.CreatedAt,
		video.UpdatedAt,
	)
	if err != nil {
		return db.WrapError(err, "create video")
	}

	return nil
}

func (r *videoRepository) GetByID(ctx context.Context, videoID string) (*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1`

	video, err := scanVideo(r.pool.QueryRow(ctx, query, videoID))
	if err != nil {
		return nil, db.WrapError(err, "get video by id")
	}

	return video, nil
}

func (r *videoRepository) GetByIdempotencyKey(ctx context.Context, ownerID, key string) (*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE owner_id = $1 AND idempotency_key = $2`

	video, err := scanVideo(r.pool.QueryRow(ctx, query, ownerID, key))
	if err != nil {
		return nil, db.WrapError(err, "get video by idempotency key")
	}

	return video, nil
}

func (r *videoRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*models.Video, error) {
	query := `
		SELECT ` + videoColumns + `
		FROM videos
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, db.WrapError(err, "list videos by owner")
	}
	defer rows.Close()

	return scanVideos(rows)
}

func (r *videoRepository) List(ctx context.Context, limit, offset int) ([]*models.Video, error) {
	query := `
		SELECT ` + videoColumns + `
		FROM videos
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, db.WrapError(err, "list videos")
	}
	defer rows.Close()

	return scanVideos(rows)
}

func (r *videoRepository) SetVideoURL(ctx context.Context, videoID, videoURL string) error {
	query := `
		UPDATE videos
		SET video_url = $2, updated_at = now()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, videoID, videoURL)
	if err != nil {
		return db.WrapError(err, "set video url")
	}
	if tag.RowsAffected() == 0 {
		return db.WrapError(pgx.ErrNoRows, "set video url")
	}

	return nil
}

// statusesBelow returns the statuses a video may currently hold for a forward
// move to the target to be legal.
func statusesBelow(to models.ProcessingStatus) []string {
	all := []models.ProcessingStatus{
		models.StatusUploading,
		models.StatusTranscribing,
		models.StatusAnalyzing,
		models.StatusReady,
	}

	var from []string
	for _, s := range all {
		if models.CanTransition(s, to) {
			from = append(from, string(s))
		}
	}
	return from
}

func (r *videoRepository) AdvanceStatus(ctx context.Context, videoID string, to models.ProcessingStatus) error {
	allowed := statusesBelow(to)
	if len(allowed) == 0 {
		return fmt.Errorf("advance status: no legal transition into %q", to)
	}

	query := `
		UPDATE videos
		SET processing_status = $2, updated_at = now()
		WHERE id = $1 AND processing_status = ANY($3)
	`

	tag, err := r.pool.Exec(ctx, query, videoID, to, allowed)
	if err != nil {
		return db.WrapError(err, "advance status")
	}
	if tag.RowsAffected() == 0 {
		// Either the video is gone or it is not in a state this transition
		// may leave. Look once to tell the two apart.
		if _, getErr := r.GetByID(ctx, videoID); getErr != nil {
			return getErr
		}
		return fmt.Errorf("advance status to %s: %w", to, db.ErrStaleTransition)
	}

	return nil
}

func (r *videoRepository) MarkError(ctx context.Context, videoID, message string) error {
	query := `
		UPDATE videos
		SET processing_status = $2, error_message = $3, updated_at = now()
		WHERE id = $1 AND processing_status NOT IN ($4, $5)
	`

	tag, err := r.pool.Exec(ctx, query, videoID,
		models.StatusError, message, models.StatusReady, models.StatusError)
	if err != nil {
		return db.WrapError(err, "mark video error")
	}
	if tag.RowsAffected() == 0 {
		if _, getErr := r.GetByID(ctx, videoID); getErr != nil {
			return getErr
		}
		return fmt.Errorf("mark video error: %w", db.ErrStaleTransition)
	}

	return nil
}

func (r *videoRepository) SetEnrichment(ctx context.Context, videoID, transcript string, result *models.EnrichmentResult) error {
	query := `
		UPDATE videos
		SET title = $2,
		    description = $3,
		    tags = $4,
		    quotes = $5,
		    transcript = $6,
		    processing_status = $7,
		    error_message = NULL,
		    updated_at = now()
		WHERE id = $1 AND processing_status = $8
	`

	tag, err := r.pool.Exec(ctx, query, videoID,
		result.Title,
		result.Description,
		result.Tags,
		result.Quotes,
		transcript,
		models.StatusReady,
		models.StatusAnalyzing,
	)
	if err != nil {
		return db.WrapError(err, "set enrichment")
	}
	if tag.RowsAffected() == 0 {
		if _, getErr := r.GetByID(ctx, videoID); getErr != nil {
			return getErr
		}
		return fmt.Errorf("set enrichment: %w", db.ErrStaleTransition)
	}

	return nil
}

func (r *videoRepository) ListTranscriptsByOwner(ctx context.Context, ownerID string, limit int) ([]*models.Video, error) {
	query := `
		SELECT ` + videoColumns + `
		FROM videos
		WHERE owner_id = $1 AND processing_status = $2 AND transcript IS NOT NULL
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, ownerID, models.StatusReady, limit)
	if err != nil {
		return nil, db.WrapError(err, "list transcripts by owner")
	}
	defer rows.Close()

	return scanVideos(rows)
}

func (r *videoRepository) IncrementViewCount(ctx context.Context, videoID string) error {
	query := `
		UPDATE videos
		SET view_count = view_count + 1, updated_at = now()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, videoID)
	if err != nil {
		return db.WrapError(err, "increment view count")
	}
	if tag.RowsAffected() == 0 {
		return db.WrapError(pgx.ErrNoRows, "increment view count")
	}

	return nil
}

func scanVideo(row pgx.Row) (*models.Video, error) {
	video := &models.Video{}
	err := row.Scan(
		&video.ID,
		&video.OwnerID,
		&video.VideoURL,
		&video.ThumbnailURL,
		&video.Title,
		&video.Description,
		&video.Tags,
		&video.ProcessingStatus,
		&video.ErrorMessage,
		&video.Transcript,
		&video.Quotes,
		&video.LikeCount,
		&video.SaveCount,
		&video.CommentCount,
		&video.BrainCount,
		&video.ViewCount,
		&video.IdempotencyKey,
		&video.CreatedAt,
		&video.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return video, nil
}

// Helper function to scan multiple videos from query results
func scanVideos(rows pgx.Rows) ([]*models.Video, error) {
	var videos []*models.Video

	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}

	return videos, nil
}
