package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"brainbank/video-ingestion/internal/config"
	"brainbank/video-ingestion/internal/db/models"
	"brainbank/video-ingestion/internal/db/repository"
	"brainbank/video-ingestion/internal/metrics"
	"brainbank/video-ingestion/internal/service/ai"
	"brainbank/video-ingestion/pkg/logger"
)

// ChatService answers user questions grounded in their saved video
// transcripts and keeps the conversation history.
type ChatService struct {
	videos   repository.VideoRepository
	messages repository.ChatMessageRepository
	chatter  ai.Chatter
	cfg      *config.ChatConfig
}

func NewChatService(
	videos repository.VideoRepository,
	messages repository.ChatMessageRepository,
	chatter ai.Chatter,
	cfg *config.ChatConfig,
) *ChatService {
	return &ChatService{
		videos:   videos,
		messages: messages,
		chatter:  chatter,
		cfg:      cfg,
	}
}

// ChatReply is the assistant's answer plus the videos that grounded it.
// Reminder is set when the model proposed scheduling one; the client
// confirms it through the reminders endpoint.
type ChatReply struct {
	Answer   string               `json:"answer"`
	VideoIDs []string             `json:"video_ids"`
	Reminder *ai.ReminderProposal `json:"reminder,omitempty"`
}

// Ask assembles transcript context from the user's ready videos, sends the
// question with the client-provided history, and persists both new turns.
// The service holds no conversation state between calls.
func (s *ChatService) Ask(ctx context.Context, userID, question string, history []ai.Message) (*ChatReply, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, &ValidationError{Message: "question is required"}
	}
	if len(history) > s.cfg.HistoryLimit {
		history = history[len(history)-s.cfg.HistoryLimit:]
	}

	transcripts, err := s.videos.ListTranscriptsByOwner(ctx, userID, s.cfg.MaxTranscripts)
	if err != nil {
		return nil, &ProcessingError{Message: "failed to load transcripts", Cause: err}
	}

	contextBlock, videoIDs := s.buildContext(transcripts)

	grounded := "true"
	if len(videoIDs) == 0 {
		grounded = "false"
	}
	metrics.ChatRequests.WithLabelValues(grounded).Inc()

	answer, err := s.chatter.Chat(ctx, contextBlock, history, question)
	if err != nil {
		return nil, &ProcessingError{Message: "chat completion failed", Cause: err}
	}

	proposal, answer := ai.ExtractReminderProposal(answer)

	if err := s.messages.Append(ctx, models.NewChatMessage(userID, models.RoleUser, question, videoIDs)); err != nil {
		return nil, &ProcessingError{Message: "failed to save chat message", Cause: err}
	}
	if err := s.messages.Append(ctx, models.NewChatMessage(userID, models.RoleAssistant, answer, videoIDs)); err != nil {
		return nil, &ProcessingError{Message: "failed to save chat message", Cause: err}
	}

	logger.Log.Info("Chat answered",
		zap.String("userId", userID),
		zap.Int("transcripts", len(videoIDs)),
	)

	return &ChatReply{Answer: answer, VideoIDs: videoIDs, Reminder: proposal}, nil
}

// History returns the user's conversation, oldest first.
func (s *ChatService) History(ctx context.Context, userID string, limit int) ([]*models.ChatMessage, error) {
	if limit <= 0 || limit > s.cfg.HistoryLimit {
		limit = s.cfg.HistoryLimit
	}
	msgs, err := s.messages.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, &ProcessingError{Message: "failed to load chat history", Cause: err}
	}
	return msgs, nil
}

// buildContext concatenates transcripts under per-video headers, clamping
// each to the configured character budget.
func (s *ChatService) buildContext(videos []*models.Video) (string, []string) {
	var sb strings.Builder
	videoIDs := make([]string, 0, len(videos))

	for _, v := range videos {
		if v.Transcript == nil || *v.Transcript == "" {
			continue
		}
		transcript := clampUTF8(*v.Transcript, s.cfg.PerTranscriptChars)

		title := v.ID
		if v.Title != nil && *v.Title != "" {
			title = *v.Title
		}

		fmt.Fprintf(&sb, "--- Video: %s (%s) ---\n%s\n\n", title, v.ID, transcript)
		videoIDs = append(videoIDs, v.ID)
	}

	return sb.String(), videoIDs
}
