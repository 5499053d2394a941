package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"brainbank/video-ingestion/internal/db"
	"brainbank/video-ingestion/internal/db/models"
)

// SecondBrainRepository defines operations for a user's saved collection.
type SecondBrainRepository interface {
	// Save stores the entry and bumps the video's brain counter, both in one
	// transaction. Saving the same video again for the same user is a no-op:
	// it returns false and the counter is untouched.
	Save(ctx context.Context, entry *models.SecondBrainEntry) (bool, error)

	// ListByUser retrieves a user's entries, newest first.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.SecondBrainEntry, error)

	// Delete removes an entry and decrements the video's brain counter.
	Delete(ctx context.Context, userID, videoID string) error
}

type secondBrainRepository struct {
	pool *pgxpool.Pool
}

// NewSecondBrainRepository creates a new SecondBrainRepository.
func NewSecondBrainRepository(pool *pgxpool.Pool) SecondBrainRepository {
	return &secondBrainRepository{pool: pool}
}

func (r *secondBrainRepository) Save(ctx context.Context, entry *models.SecondBrainEntry) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, db.WrapError(err, "save brain entry: begin")
	}
	defer tx.Rollback(ctx)

	insert := `
		INSERT INTO second_brain_entries (id, user_id, video_id, quote, transcript, saved_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, video_id) DO NOTHING
	`

	tag, err := tx.Exec(ctx, insert,
		entry.ID,
		entry.UserID,
		entry.VideoID,
		entry.Quote,
		entry.Transcript,
		entry.SavedAt,
	)
	if err != nil {
		return false, db.WrapError(err, "save brain entry")
	}

	if tag.RowsAffected() == 0 {
		// Already saved; the counter must not move.
		return false, nil
	}

	bump := `UPDATE videos SET brain_count = brain_count + 1, updated_at = now() WHERE id = $1`
	if _, err := tx.Exec(ctx, bump, entry.VideoID); err != nil {
		return false, db.WrapError(err, "save brain entry: bump counter")
	}

	if err := tx.Commit(ctx); err != nil {
		return false, db.WrapError(err, "save brain entry: commit")
	}

	return true, nil
}

func (r *secondBrainRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.SecondBrainEntry, error) {
	query := `
		SELECT id, user_id, video_id, quote, transcript, saved_at
		FROM second_brain_entries
		WHERE user_id = $1
		ORDER BY saved_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, db.WrapError(err, "list brain entries")
	}
	defer rows.Close()

	var entries []*models.SecondBrainEntry
	for rows.Next() {
		entry := &models.SecondBrainEntry{}
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.VideoID,
			&entry.Quote,
			&entry.Transcript,
			&entry.SavedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan brain entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate brain entries: %w", err)
	}

	return entries, nil
}

func (r *secondBrainRepository) Delete(ctx context.Context, userID, videoID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return db.WrapError(err, "delete brain entry: begin")
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`DELETE FROM second_brain_entries WHERE user_id = $1 AND video_id = $2`,
		userID, videoID)
	if err != nil {
		return db.WrapError(err, "delete brain entry")
	}
	if tag.RowsAffected() == 0 {
		return db.WrapError(pgx.ErrNoRows, "delete brain entry")
	}

	drop := `
		UPDATE videos
		SET brain_count = GREATEST(brain_count - 1, 0), updated_at = now()
		WHERE id = $1
	`
	if _, err := tx.Exec(ctx, drop, videoID); err != nil {
		return db.WrapError(err, "delete brain entry: drop counter")
	}

	return db.WrapError(tx.Commit(ctx), "delete brain entry: commit")
}
