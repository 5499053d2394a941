package models

import "time"

// ProcessingStatus is the lifecycle state of a video record.
type ProcessingStatus string

const (
	StatusUploading    ProcessingStatus = "uploading"
	StatusTranscribing ProcessingStatus = "transcribing"
	StatusAnalyzing    ProcessingStatus = "analyzing"
	StatusReady        ProcessingStatus = "ready"
	StatusError        ProcessingStatus = "error"
)

// statusRank orders the forward-only lifecycle. Error is reachable from any
// non-ready state and is terminal.
var statusRank = map[ProcessingStatus]int{
	StatusUploading:    0,
	StatusTranscribing: 1,
	StatusAnalyzing:    2,
	StatusReady:        3,
}

// CanTransition reports whether a video may move from one status to another.
// Transitions only go forward; error is allowed from everything but ready.
func CanTransition(from, to ProcessingStatus) bool {
	if from == StatusError {
		return false
	}
	if to == StatusError {
		return from != StatusReady
	}
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// Video represents a captured video and everything enrichment attaches to it.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Video struct {
	ID               string           `db:"id"`
	OwnerID          string           `db:"owner_id"`
	VideoURL         *string          `db:"video_url"`
	ThumbnailURL     *string          `db:"thumbnail_url"`
	Title            *string          `db:"title"`
	Description      *string          `db:"description"`
	Tags             []string         `db:"tags"`
	ProcessingStatus ProcessingStatus `db:"processing_status"`
	ErrorMessage     *string          `db:"error_message"`
	Transcript       *string          `db:"transcript"`
	Quotes           []string         `db:"quotes"`
	LikeCount        int              `db:"like_count"`
	SaveCount        int              `db:"save_count"`
	CommentCount     int              `db:"comment_count"`
	BrainCount       int              `db:"brain_count"`
	ViewCount        int              `db:"view_count"`
	IdempotencyKey   *string          `db:"idempotency_key"`
	CreatedAt        time.Time        `db:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at"`
}

// NewVideo creates a placeholder video record in the uploading state. The
// media URL stays nil until the storage write completes.
func NewVideo(id, ownerID string, idempotencyKey *string) *Video {
	now := time.Now()
	return &Video{
		ID:               id,
		OwnerID:          ownerID,
		ProcessingStatus: StatusUploading,
		IdempotencyKey:   idempotencyKey,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// EnrichmentResult is what the summarization step produces for a transcript.
type EnrichmentResult struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Quotes      []string `json:"quotes"`
}
