package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a flat (unthreaded) comment on a video.
type Comment struct {
	ID        uuid.UUID `db:"id"`
	VideoID   string    `db:"video_id"`
	UserID    string    `db:"user_id"`
	Text      string    `db:"text"`
	SaveCount int       `db:"save_count"`
	CreatedAt time.Time `db:"created_at"`
}

// NewComment creates a comment on the given video.
func NewComment(videoID, userID, text string) *Comment {
	return &Comment{
		ID:        uuid.New(),
		VideoID:   videoID,
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now(),
	}
}
