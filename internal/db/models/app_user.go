package models

import "time"

// AppUser is a user profile with denormalized aggregate statistics.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type AppUser struct {
	ID        string    `db:"id"`
	Username  string    `db:"username"`
	Email     string    `db:"email"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	Stats UserStats
}

// UserStats is a full recount of a user's activity. It is recomputed on
// demand, not maintained incrementally.
type UserStats struct {
	VideoCount      int       `db:"video_count" json:"video_count"`
	CommentCount    int       `db:"comment_count" json:"comment_count"`
	BrainEntryCount int       `db:"brain_entry_count" json:"brain_entry_count"`
	TotalViews      int       `db:"total_views" json:"total_views"`
	RefreshedAt     time.Time `db:"stats_refreshed_at" json:"refreshed_at"`
}
