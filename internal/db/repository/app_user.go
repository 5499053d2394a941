package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"brainbank/video-ingestion/internal/db"
	"brainbank/video-ingestion/internal/db/models"
)

// AppUserRepository defines operations for user profiles and their
// aggregate statistics.
type AppUserRepository interface {
	// Upsert creates or updates a user profile.
	Upsert(ctx context.Context, user *models.AppUser) error

	// GetByID retrieves a user with their last recomputed statistics.
	GetByID(ctx context.Context, userID string) (*models.AppUser, error)

	// RecomputeStats runs a full recount of the user's videos, comments,
	// brain entries, and views, persists the result, and returns it.
	RecomputeStats(ctx context.Context, userID string) (*models.UserStats, error)
}

type appUserRepository struct {
	pool *pgxpool.Pool
}

// NewAppUserRepository creates a new AppUserRepository.
func NewAppUserRepository(pool *pgxpool.Pool) AppUserRepository {
	return &appUserRepository{pool: pool}
}

func (r *appUserRepository) Upsert(ctx context.Context, user *models.AppUser) error {
	query := `
		INSERT INTO app_users (id, username, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET username = EXCLUDED.username,
		    email = EXCLUDED.email,
		    updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return db.WrapError(err, "upsert user")
	}

	return nil
}

func (r *appUserRepository) GetByID(ctx context.Context, userID string) (*models.AppUser, error) {
	query := `
		SELECT id, username, email,
		       video_count, comment_count, brain_entry_count, total_views,
		       COALESCE(stats_refreshed_at, 'epoch'::timestamptz),
		       created_at, updated_at
		FROM app_users
		WHERE id = $1
	`

	user := &models.AppUser{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Stats.VideoCount,
		&user.Stats.CommentCount,
		&user.Stats.BrainEntryCount,
		&user.Stats.TotalViews,
		&user.Stats.RefreshedAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, db.WrapError(err, "get user by id")
	}

	return user, nil
}

// RecomputeStats scans the user's rows across all tables in one statement.
// This is the expensive full recount the API deliberately exposes as an
// explicit refresh rather than running on every write.
func (r *appUserRepository) RecomputeStats(ctx context.Context, userID string) (*models.UserStats, error) {
	query := `
		UPDATE app_users
		SET video_count = counts.videos,
		    comment_count = counts.comments,
		    brain_entry_count = counts.brain_entries,
		    total_views = counts.views,
		    stats_refreshed_at = now(),
		    updated_at = now()
		FROM (
			SELECT
				(SELECT COUNT(*) FROM videos WHERE owner_id = $1) AS videos,
				(SELECT COUNT(*) FROM comments WHERE user_id = $1) AS comments,
				(SELECT COUNT(*) FROM second_brain_entries WHERE user_id = $1) AS brain_entries,
				(SELECT COALESCE(SUM(view_count), 0) FROM videos WHERE owner_id = $1) AS views
		) AS counts
		WHERE app_users.id = $1
		RETURNING video_count, comment_count, brain_entry_count, total_views, stats_refreshed_at
	`

	stats := &models.UserStats{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&stats.VideoCount,
		&stats.CommentCount,
		&stats.BrainEntryCount,
		&stats.TotalViews,
		&stats.RefreshedAt,
	)
	if err != nil {
		return nil, db.WrapError(err, "recompute user stats")
	}

	return stats, nil
}
