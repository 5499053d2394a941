package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"brainbank/video-ingestion/internal/db"
	"brainbank/video-ingestion/internal/db/models"
)

// ChatMessageRepository defines operations for the append-only chat log.
type ChatMessageRepository interface {
	// Append stores a chat message.
	Append(ctx context.Context, message *models.ChatMessage) error

	// ListByUser retrieves a user's messages, oldest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.ChatMessage, error)
}

type chatMessageRepository struct {
	pool *pgxpool.Pool
}

// NewChatMessageRepository creates a new ChatMessageRepository.
func NewChatMessageRepository(pool *pgxpool.Pool) ChatMessageRepository {
	return &chatMessageRepository{pool: pool}
}

func (r *chatMessageRepository) Append(ctx context.Context, message *models.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (id, user_id, role, content, video_ids, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	videoIDs := message.VideoIDs
	if videoIDs == nil {
		videoIDs = []string{}
	}

	_, err := r.pool.Exec(ctx, query,
		message.ID,
		message.UserID,
		message.Role,
		message.Content,
		videoIDs,
		message.CreatedAt,
	)
	if err != nil {
		return db.WrapError(err, "append chat message")
	}

	return nil
}

func (r *chatMessageRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.ChatMessage, error) {
	query := `
		SELECT id, user_id, role, content, video_ids, created_at
		FROM chat_messages
		WHERE user_id = $1
		ORDER BY created_at ASC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, db.WrapError(err, "list chat messages")
	}
	defer rows.Close()

	var messages []*models.ChatMessage
	for rows.Next() {
		message := &models.ChatMessage{}
		err := rows.Scan(
			&message.ID,
			&message.UserID,
			&message.Role,
			&message.Content,
			&message.VideoIDs,
			&message.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat messages: %w", err)
	}

	return messages, nil
}
