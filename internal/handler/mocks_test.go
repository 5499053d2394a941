package handler

import (
	"context"
	"io"

	"github.com/google/uuid"

	"brainbank/video-ingestion/internal/db"
	"brainbank/video-ingestion/internal/db/models"
	"brainbank/video-ingestion/internal/service"
	"brainbank/video-ingestion/internal/service/ai"
	"brainbank/video-ingestion/internal/service/storage"
)

type stubVideoRepo struct {
	videos map[string]*models.Video
	byKey  map[string]*models.Video
}

func newStubVideoRepo() *stubVideoRepo {
	return &stubVideoRepo{
		videos: make(map[string]*models.Video),
		byKey:  make(map[string]*models.Video),
	}
}

func (s *stubVideoRepo) Create(_ context.Context, video *models.Video) error {
	s.videos[video.ID] = video
	if video.IdempotencyKey != nil {
		s.byKey[video.OwnerID+"/"+*video.IdempotencyKey] = video
	}
	return nil
}

func (s *stubVideoRepo) GetByID(_ context.Context, videoID string) (*models.Video, error) {
	v, ok := s.videos[videoID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return v, nil
}

func (s *stubVideoRepo) GetByIdempotencyKey(_ context.Context, ownerID, key string) (*models.Video, error) {
	v, ok := s.byKey[ownerID+"/"+key]
	if !ok {
		return nil, db.ErrNotFound
	}
	return v, nil
}

func (s *stubVideoRepo) ListByOwner(_ context.Context, ownerID string, _, _ int) ([]*models.Video, error) {
	var out []*models.Video
	for _, v := range s.videos {
		if v.OwnerID == ownerID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *stubVideoRepo) List(context.Context, int, int) ([]*models.Video, error) {
	var out []*models.Video
	for _, v := range s.videos {
		out = append(out, v)
	}
	return out, nil
}

func (s *stubVideoRepo) SetVideoURL(_ context.Context, videoID, url string) error {
	v, ok := s.videos[videoID]
	if !ok {
		return db.ErrNotFound
	}
	v.VideoURL = &url
	return nil
}

func (s *stubVideoRepo) AdvanceStatus(_ context.Context, videoID string, to models.ProcessingStatus) error {
	v, ok := s.videos[videoID]
	if !ok {
		return db.ErrNotFound
	}
	if !models.CanTransition(v.ProcessingStatus, to) {
		return db.ErrStaleTransition
	}
	v.ProcessingStatus = to
	return nil
}

func (s *stubVideoRepo) MarkError(_ context.Context, videoID, message string) error {
	v, ok := s.videos[videoID]
	if !ok {
		return db.ErrNotFound
	}
	v.ProcessingStatus = models.StatusError
	v.ErrorMessage = &message
	return nil
}

func (s *stubVideoRepo) SetEnrichment(_ context.Context, videoID, transcript string, result *models.EnrichmentResult) error {
	v, ok := s.videos[videoID]
	if !ok {
		return db.ErrNotFound
	}
	v.Transcript = &transcript
	v.Title = &result.Title
	v.ProcessingStatus = models.StatusReady
	return nil
}

func (s *stubVideoRepo) ListTranscriptsByOwner(_ context.Context, ownerID string, limit int) ([]*models.Video, error) {
	var out []*models.Video
	for _, v := range s.videos {
		if v.OwnerID == ownerID && v.Transcript != nil && v.ProcessingStatus == models.StatusReady {
			out = append(out, v)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *stubVideoRepo) IncrementViewCount(_ context.Context, videoID string) error {
	v, ok := s.videos[videoID]
	if !ok {
		return db.ErrNotFound
	}
	v.ViewCount++
	return nil
}

type stubStorage struct{}

func (stubStorage) Upload(_ context.Context, videoID, _ string, body io.Reader, _ int64, progress storage.ProgressFunc) (string, error) {
	n, err := io.Copy(io.Discard, body)
	if err != nil {
		return "", err
	}
	if progress != nil {
		progress(n, n)
	}
	return "https://media.example.com/videos/" + videoID + ".mp4", nil
}

func (stubStorage) Fetch(context.Context, string) (io.ReadCloser, error) {
	return nil, db.ErrNotFound
}

func (stubStorage) Key(videoID string) string {
	return "videos/" + videoID + ".mp4"
}

type stubEnqueuer struct {
	enqueued []string
}

func (s *stubEnqueuer) EnqueueEnrichment(_ context.Context, videoID, _ string) (string, error) {
	s.enqueued = append(s.enqueued, videoID)
	return "task-" + videoID, nil
}

type stubPublisher struct {
	events []*service.LifecycleEvent
}

func (s *stubPublisher) Publish(_ context.Context, event *service.LifecycleEvent) error {
	s.events = append(s.events, event)
	return nil
}

func (s *stubPublisher) Close() error { return nil }

type stubBrainRepo struct {
	entries map[string]*models.SecondBrainEntry
}

func newStubBrainRepo() *stubBrainRepo {
	return &stubBrainRepo{entries: make(map[string]*models.SecondBrainEntry)}
}

func (s *stubBrainRepo) Save(_ context.Context, entry *models.SecondBrainEntry) (bool, error) {
	key := entry.UserID + "/" + entry.VideoID
	if _, exists := s.entries[key]; exists {
		return false, nil
	}
	s.entries[key] = entry
	return true, nil
}

func (s *stubBrainRepo) ListByUser(_ context.Context, userID string, _, _ int) ([]*models.SecondBrainEntry, error) {
	var out []*models.SecondBrainEntry
	for _, e := range s.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubBrainRepo) Delete(_ context.Context, userID, videoID string) error {
	delete(s.entries, userID+"/"+videoID)
	return nil
}

type stubReminderRepo struct {
	reminders map[uuid.UUID]*models.Reminder
}

func newStubReminderRepo() *stubReminderRepo {
	return &stubReminderRepo{reminders: make(map[uuid.UUID]*models.Reminder)}
}

func (s *stubReminderRepo) Create(_ context.Context, reminder *models.Reminder) error {
	s.reminders[reminder.ID] = reminder
	return nil
}

func (s *stubReminderRepo) ListByUser(_ context.Context, userID string) ([]*models.Reminder, error) {
	var out []*models.Reminder
	for _, r := range s.reminders {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubReminderRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.reminders, id)
	return nil
}

func (s *stubReminderRepo) DeleteAllForUser(_ context.Context, userID string) (int, error) {
	count := 0
	for id, r := range s.reminders {
		if r.UserID == userID {
			delete(s.reminders, id)
			count++
		}
	}
	return count, nil
}

func (s *stubReminderRepo) ClaimDue(context.Context, int) ([]*models.Reminder, error) {
	return nil, nil
}

type stubChatRepo struct {
	messages []*models.ChatMessage
}

func (s *stubChatRepo) Append(_ context.Context, message *models.ChatMessage) error {
	s.messages = append(s.messages, message)
	return nil
}

func (s *stubChatRepo) ListByUser(_ context.Context, userID string, _ int) ([]*models.ChatMessage, error) {
	var out []*models.ChatMessage
	for _, m := range s.messages {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

type stubChatter struct {
	answer string
}

func (s *stubChatter) Chat(_ context.Context, _ string, _ []ai.Message, _ string) (string, error) {
	return s.answer, nil
}
