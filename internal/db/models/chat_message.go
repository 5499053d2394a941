package models

import (
	"time"

	"github.com/google/uuid"
)

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a user's conversation over their saved
// transcripts. Messages are append-only.
type ChatMessage struct {
	ID        uuid.UUID `db:"id"`
	UserID    string    `db:"user_id"`
	Role      string    `db:"role"`
	Content   string    `db:"content"`
	VideoIDs  []string  `db:"video_ids"`
	CreatedAt time.Time `db:"created_at"`
}

// NewChatMessage creates a chat message, recording which videos grounded it.
func NewChatMessage(userID, role, content string, videoIDs []string) *ChatMessage {
	return &ChatMessage{
		ID:        uuid.New(),
		UserID:    userID,
		Role:      role,
		Content:   content,
		VideoIDs:  videoIDs,
		CreatedAt: time.Now(),
	}
}
