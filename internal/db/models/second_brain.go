package models

import (
	"time"

	"github.com/google/uuid"
)

// SecondBrainEntry is a user-curated save of a video's quote and transcript.
// The transcript is copied in on save so the entry survives later edits to
// the video record.
type SecondBrainEntry struct {
	ID         uuid.UUID `db:"id"`
	UserID     string    `db:"user_id"`
	VideoID    string    `db:"video_id"`
	Quote      string    `db:"quote"`
	Transcript string    `db:"transcript"`
	SavedAt    time.Time `db:"saved_at"`
}

// NewSecondBrainEntry creates an entry for the given user and video.
func NewSecondBrainEntry(userID, videoID, quote, transcript string) *SecondBrainEntry {
	return &SecondBrainEntry{
		ID:         uuid.New(),
		UserID:     userID,
		VideoID:    videoID,
		Quote:      quote,
		Transcript: transcript,
		SavedAt:    time.Now(),
	}
}
