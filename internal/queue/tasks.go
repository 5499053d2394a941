package queue

import (
	"encoding/json"
	"fmt"
)

// Task types.
const (
	TypeEnrichVideo = "enrichment:video"
)

// QueueEnrichment is the asynq queue enrichment tasks run on.
const QueueEnrichment = "enrichment"

// EnrichVideoPayload is the payload for video enrichment tasks.
type EnrichVideoPayload struct {
	VideoID string `json:"video_id"`
	OwnerID string `json:"owner_id"`
}

// NewEnrichVideoTask creates a video enrichment task payload.
func NewEnrichVideoTask(videoID, ownerID string) (*EnrichVideoPayload, error) {
	if videoID == "" {
		return nil, fmt.Errorf("video ID is required")
	}
	if ownerID == "" {
		return nil, fmt.Errorf("owner ID is required")
	}

	return &EnrichVideoPayload{
		VideoID: videoID,
		OwnerID: ownerID,
	}, nil
}

// Marshal serializes the payload to JSON.
func (p *EnrichVideoPayload) Marshal() ([]byte, error) {
	return json.Marshal(p)
}

// UnmarshalEnrichVideoPayload deserializes JSON to payload.
func UnmarshalEnrichVideoPayload(data []byte) (*EnrichVideoPayload, error) {
	var payload EnrichVideoPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	if payload.VideoID == "" {
		return nil, fmt.Errorf("payload missing video ID")
	}
	return &payload, nil
}
