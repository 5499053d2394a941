package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"brainbank/video-ingestion/internal/config"
	"brainbank/video-ingestion/internal/db/models"
	"brainbank/video-ingestion/internal/db/repository"
	"brainbank/video-ingestion/internal/metrics"
	"brainbank/video-ingestion/pkg/logger"
)

// ReminderService manages one-shot reminders and the scheduler loop that
// delivers them.
type ReminderService struct {
	reminders repository.ReminderRepository
	publisher EventPublisher
	cfg       *config.NotificationsConfig
	now       func() time.Time
}

func NewReminderService(
	reminders repository.ReminderRepository,
	publisher EventPublisher,
	cfg *config.NotificationsConfig,
) *ReminderService {
	return &ReminderService{
		reminders: reminders,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
}

// ParseTimeOfDay parses an "HH:mm" clock time. Malformed input falls back to
// the default delivery time rather than failing the request.
func ParseTimeOfDay(s string, defaultHour, defaultMinute int) (hour, minute int) {
	hour, minute = defaultHour, defaultMinute

	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return hour, minute
	}

	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return defaultHour, defaultMinute
	}

	return h, m
}

// Schedule creates a reminder firing at the next occurrence of the given
// clock time. An empty or malformed timeOfDay uses the configured default.
func (s *ReminderService) Schedule(ctx context.Context, userID, message, timeOfDay string) (*models.Reminder, error) {
	if userID == "" {
		return nil, &ValidationError{Message: "user id is required"}
	}
	if strings.TrimSpace(message) == "" {
		return nil, &ValidationError{Message: "message is required"}
	}

	hour, minute := ParseTimeOfDay(timeOfDay, s.cfg.DefaultHour, s.cfg.DefaultMinute)
	fireAt := s.nextFireAt(hour, minute)

	reminder := models.NewReminder(userID, message, fireAt)
	if err := s.reminders.Create(ctx, reminder); err != nil {
		return nil, &ProcessingError{Message: "failed to create reminder", Cause: err}
	}

	logger.Log.Info("Reminder scheduled",
		zap.String("userId", userID),
		zap.Time("fireAt", fireAt),
	)

	return reminder, nil
}

// List returns a user's pending reminders.
func (s *ReminderService) List(ctx context.Context, userID string) ([]*models.Reminder, error) {
	reminders, err := s.reminders.ListByUser(ctx, userID)
	if err != nil {
		return nil, &ProcessingError{Message: "failed to list reminders", Cause: err}
	}
	return reminders, nil
}

// Cancel removes a single reminder.
func (s *ReminderService) Cancel(ctx context.Context, id uuid.UUID) error {
	if err := s.reminders.Delete(ctx, id); err != nil {
		return &ProcessingError{Message: "failed to cancel reminder", Cause: err}
	}
	return nil
}

// CancelAll removes every pending reminder of a user and reports how many.
func (s *ReminderService) CancelAll(ctx context.Context, userID string) (int, error) {
	count, err := s.reminders.DeleteAllForUser(ctx, userID)
	if err != nil {
		return 0, &ProcessingError{Message: "failed to cancel reminders", Cause: err}
	}
	return count, nil
}

// nextFireAt resolves a clock time to the next future instant: today if the
// time has not passed yet, otherwise tomorrow.
func (s *ReminderService) nextFireAt(hour, minute int) time.Time {
	now := s.now()
	fireAt := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !fireAt.After(now) {
		fireAt = fireAt.Add(24 * time.Hour)
	}
	return fireAt
}

// Run polls for due reminders until the context is cancelled. Each claimed
// reminder is published as a delivery event exactly once.
func (s *ReminderService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	logger.Log.Info("Reminder scheduler started",
		zap.Duration("pollInterval", s.cfg.PollInterval),
	)

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("Reminder scheduler stopped")
			return
		case <-ticker.C:
			s.deliverDue(ctx)
		}
	}
}

func (s *ReminderService) deliverDue(ctx context.Context) {
	const batchSize = 100

	due, err := s.reminders.ClaimDue(ctx, batchSize)
	if err != nil {
		logger.Log.Error("Failed to claim due reminders", zap.Error(err))
		return
	}

	for _, r := range due {
		event := NewLifecycleEvent(EventReminderDue, "", r.UserID, r.Message)
		if err := s.publisher.Publish(ctx, event); err != nil {
			logger.Log.Warn("Failed to publish reminder event",
				zap.String("reminderId", r.ID.String()),
				zap.Error(err),
			)
			continue
		}
		metrics.RemindersDelivered.Inc()
	}

	if len(due) > 0 {
		logger.Log.Info(fmt.Sprintf("Delivered %d due reminders", len(due)))
	}
}
