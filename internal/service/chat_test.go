package service

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brainbank/video-ingestion/internal/config"
	"brainbank/video-ingestion/internal/db/models"
	"brainbank/video-ingestion/internal/service/ai"
)

type fakeChatRepo struct {
	messages []*models.ChatMessage
}

func (f *fakeChatRepo) Append(_ context.Context, message *models.ChatMessage) error {
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeChatRepo) ListByUser(_ context.Context, userID string, limit int) ([]*models.ChatMessage, error) {
	var out []*models.ChatMessage
	for _, m := range f.messages {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

type fakeChatter struct {
	lastContext  string
	lastHistory  []ai.Message
	lastQuestion string
	answer       string
}

func (f *fakeChatter) Chat(_ context.Context, contextBlock string, history []ai.Message, question string) (string, error) {
	f.lastContext = contextBlock
	f.lastHistory = history
	f.lastQuestion = question
	return f.answer, nil
}

func transcriptVideo(id, title, transcript string) *models.Video {
	return &models.Video{
		ID:               id,
		OwnerID:          "user-1",
		Title:            &title,
		Transcript:       &transcript,
		ProcessingStatus: models.StatusReady,
	}
}

func newChatService(repo *fakeVideoRepo, chatRepo *fakeChatRepo, chatter *fakeChatter) *ChatService {
	return NewChatService(&transcriptListRepo{fakeVideoRepo: repo}, chatRepo, chatter, &config.ChatConfig{
		PerTranscriptChars: 50,
		MaxTranscripts:     10,
		HistoryLimit:       20,
	})
}

// transcriptListRepo overlays a deterministic transcript listing on top of
// the shared fake video repository.
type transcriptListRepo struct {
	*fakeVideoRepo
	transcripts []*models.Video
}

func (r *transcriptListRepo) ListTranscriptsByOwner(_ context.Context, ownerID string, limit int) ([]*models.Video, error) {
	var out []*models.Video
	for _, v := range r.transcripts {
		if v.OwnerID == ownerID && v.Transcript != nil {
			out = append(out, v)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func TestChatServiceGroundedAnswer(t *testing.T) {
	repo := &transcriptListRepo{
		fakeVideoRepo: newFakeVideoRepo(),
		transcripts: []*models.Video{
			transcriptVideo("clip_1_aa", "Sourdough basics", "mix flour and water, wait a day"),
			transcriptVideo("clip_2_bb", "Knife skills", "keep your fingers curled"),
		},
	}
	chatRepo := &fakeChatRepo{}
	chatter := &fakeChatter{answer: "Start with flour and water."}

	svc := NewChatService(repo, chatRepo, chatter, &config.ChatConfig{
		PerTranscriptChars: 200,
		MaxTranscripts:     10,
		HistoryLimit:       20,
	})

	reply, err := svc.Ask(context.Background(), "user-1", "How do I start a sourdough starter?", nil)
	require.NoError(t, err)

	assert.Equal(t, "Start with flour and water.", reply.Answer)
	assert.Equal(t, []string{"clip_1_aa", "clip_2_bb"}, reply.VideoIDs)

	assert.Contains(t, chatter.lastContext, "Sourdough basics")
	assert.Contains(t, chatter.lastContext, "clip_2_bb")
	assert.Contains(t, chatter.lastContext, "keep your fingers curled")

	// Both turns persisted, user first.
	require.Len(t, chatRepo.messages, 2)
	assert.Equal(t, models.RoleUser, chatRepo.messages[0].Role)
	assert.Equal(t, models.RoleAssistant, chatRepo.messages[1].Role)
	assert.Equal(t, []string{"clip_1_aa", "clip_2_bb"}, chatRepo.messages[1].VideoIDs)
}

func TestChatServiceNoTranscripts(t *testing.T) {
	repo := &transcriptListRepo{fakeVideoRepo: newFakeVideoRepo()}
	chatter := &fakeChatter{answer: "You have no saved videos yet."}
	chatRepo := &fakeChatRepo{}

	svc := NewChatService(repo, chatRepo, chatter, &config.ChatConfig{
		PerTranscriptChars: 200,
		MaxTranscripts:     10,
		HistoryLimit:       20,
	})

	reply, err := svc.Ask(context.Background(), "user-1", "What did I save?", nil)
	require.NoError(t, err)

	assert.Empty(t, reply.VideoIDs)
	assert.Empty(t, chatter.lastContext)
	assert.Len(t, chatRepo.messages, 2)
}

func TestChatServiceTranscriptBudget(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'a'
	}
	repo := &transcriptListRepo{
		fakeVideoRepo: newFakeVideoRepo(),
		transcripts: []*models.Video{
			transcriptVideo("clip_1_aa", "Long one", string(long)),
		},
	}
	chatter := &fakeChatter{answer: "ok"}

	svc := NewChatService(repo, &fakeChatRepo{}, chatter, &config.ChatConfig{
		PerTranscriptChars: 50,
		MaxTranscripts:     10,
		HistoryLimit:       20,
	})

	_, err := svc.Ask(context.Background(), "user-1", "anything?", nil)
	require.NoError(t, err)

	// Header plus at most 50 transcript characters.
	assert.Less(t, len(chatter.lastContext), 150)
}

func TestChatServiceTranscriptClampKeepsValidUTF8(t *testing.T) {
	// 20 three-byte runes; a byte cut at 50 would land mid-rune.
	repo := &transcriptListRepo{
		fakeVideoRepo: newFakeVideoRepo(),
		transcripts: []*models.Video{
			transcriptVideo("clip_1_aa", "Multibyte", strings.Repeat("日", 20)),
		},
	}
	chatter := &fakeChatter{answer: "ok"}

	svc := NewChatService(repo, &fakeChatRepo{}, chatter, &config.ChatConfig{
		PerTranscriptChars: 50,
		MaxTranscripts:     10,
		HistoryLimit:       20,
	})

	_, err := svc.Ask(context.Background(), "user-1", "anything?", nil)
	require.NoError(t, err)

	assert.True(t, utf8.ValidString(chatter.lastContext))
	assert.Contains(t, chatter.lastContext, strings.Repeat("日", 16))
	assert.NotContains(t, chatter.lastContext, strings.Repeat("日", 17))
}

func TestChatServiceHistoryReplay(t *testing.T) {
	repo := &transcriptListRepo{fakeVideoRepo: newFakeVideoRepo()}
	chatter := &fakeChatter{answer: "second answer"}

	svc := NewChatService(repo, &fakeChatRepo{}, chatter, &config.ChatConfig{
		PerTranscriptChars: 200,
		MaxTranscripts:     10,
		HistoryLimit:       20,
	})

	history := []ai.Message{
		{Role: models.RoleUser, Content: "first question"},
		{Role: models.RoleAssistant, Content: "first answer"},
	}
	_, err := svc.Ask(context.Background(), "user-1", "second question", history)
	require.NoError(t, err)

	require.Len(t, chatter.lastHistory, 2)
	assert.Equal(t, "first question", chatter.lastHistory[0].Content)
	assert.Equal(t, "first answer", chatter.lastHistory[1].Content)
	assert.Equal(t, "second question", chatter.lastQuestion)
}

func TestChatServiceHistoryClampedToLimit(t *testing.T) {
	repo := &transcriptListRepo{fakeVideoRepo: newFakeVideoRepo()}
	chatter := &fakeChatter{answer: "ok"}

	svc := NewChatService(repo, &fakeChatRepo{}, chatter, &config.ChatConfig{
		PerTranscriptChars: 200,
		MaxTranscripts:     10,
		HistoryLimit:       2,
	})

	history := []ai.Message{
		{Role: models.RoleUser, Content: "oldest"},
		{Role: models.RoleAssistant, Content: "middle"},
		{Role: models.RoleUser, Content: "newest"},
	}
	_, err := svc.Ask(context.Background(), "user-1", "q", history)
	require.NoError(t, err)

	require.Len(t, chatter.lastHistory, 2)
	assert.Equal(t, "middle", chatter.lastHistory[0].Content)
}

func TestChatServiceEmptyQuestion(t *testing.T) {
	svc := newChatService(newFakeVideoRepo(), &fakeChatRepo{}, &fakeChatter{})

	_, err := svc.Ask(context.Background(), "user-1", "   ", nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestChatServiceReminderProposal(t *testing.T) {
	chatRepo := &fakeChatRepo{}
	chatter := &fakeChatter{
		answer: "I'll set that up for you.\n" +
			`REMINDER: {"message": "Rewatch the knife skills video", "time": "18:00"}`,
	}
	svc := newChatService(newFakeVideoRepo(), chatRepo, chatter)

	reply, err := svc.Ask(context.Background(), "user-1", "Remind me to rewatch the knife skills video tonight", nil)
	require.NoError(t, err)

	require.NotNil(t, reply.Reminder)
	assert.Equal(t, "Rewatch the knife skills video", reply.Reminder.Message)
	assert.Equal(t, "18:00", reply.Reminder.Time)
	assert.Equal(t, "I'll set that up for you.", reply.Answer)

	// The stored assistant turn keeps the user-visible text only.
	require.Len(t, chatRepo.messages, 2)
	assert.Equal(t, "I'll set that up for you.", chatRepo.messages[1].Content)
}
