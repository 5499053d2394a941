package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"brainbank/video-ingestion/internal/db"
	"brainbank/video-ingestion/internal/db/models"
)

// CommentRepository defines operations for video comments.
type CommentRepository interface {
	// Create stores a comment and bumps the video's comment counter in one
	// transaction.
	Create(ctx context.Context, comment *models.Comment) error

	// ListByVideo retrieves a video's comments, newest first.
	ListByVideo(ctx context.Context, videoID string, limit, offset int) ([]*models.Comment, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return db.WrapError(err, "create comment: begin")
	}
	defer tx.Rollback(ctx)

	insert := `
		INSERT INTO comments (id, video_id, user_id, text, save_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = tx.Exec(ctx, insert,
		comment.ID,
		comment.VideoID,
		comment.UserID,
		comment.Text,
		comment.SaveCount,
		comment.CreatedAt,
	)
	if err != nil {
		return db.WrapError(err, "create comment")
	}

	bump := `UPDATE videos SET comment_count = comment_count + 1, updated_at = now() WHERE id = $1`
	if _, err := tx.Exec(ctx, bump, comment.VideoID); err != nil {
		return db.WrapError(err, "create comment: bump counter")
	}

	return db.WrapError(tx.Commit(ctx), "create comment: commit")
}

func (r *commentRepository) ListByVideo(ctx context.Context, videoID string, limit, offset int) ([]*models.Comment, error) {
	query := `
		SELECT id, video_id, user_id, text, save_count, created_at
		FROM comments
		WHERE video_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, videoID, limit, offset)
	if err != nil {
		return nil, db.WrapError(err, "list comments")
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		comment := &models.Comment{}
		err := rows.Scan(
			&comment.ID,
			&comment.VideoID,
			&comment.UserID,
			&comment.Text,
			&comment.SaveCount,
			&comment.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return comments, nil
}
