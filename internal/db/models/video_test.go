package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from ProcessingStatus
		to   ProcessingStatus
		want bool
	}{
		{"uploading to transcribing", StatusUploading, StatusTranscribing, true},
		{"transcribing to analyzing", StatusTranscribing, StatusAnalyzing, true},
		{"analyzing to ready", StatusAnalyzing, StatusReady, true},
		{"skipping forward is allowed", StatusUploading, StatusReady, true},
		{"no going backwards", StatusAnalyzing, StatusTranscribing, false},
		{"no self transition", StatusTranscribing, StatusTranscribing, false},
		{"error from uploading", StatusUploading, StatusError, true},
		{"error from analyzing", StatusAnalyzing, StatusError, true},
		{"no error after ready", StatusReady, StatusError, false},
		{"error is terminal", StatusError, StatusTranscribing, false},
		{"error stays error", StatusError, StatusError, false},
		{"unknown status rejected", ProcessingStatus("queued"), StatusReady, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestNewVideo(t *testing.T) {
	key := "client-key-1"
	v := NewVideo("clip_1756700000_deadbeef", "user-1", &key)

	assert.Equal(t, StatusUploading, v.ProcessingStatus)
	assert.Equal(t, "user-1", v.OwnerID)
	assert.Nil(t, v.VideoURL)
	assert.Nil(t, v.Transcript)
	assert.Equal(t, &key, v.IdempotencyKey)
	assert.NotZero(t, v.CreatedAt)
}
