package models

import (
	"time"

	"github.com/google/uuid"
)

// Reminder is a one-shot scheduled notification for a user.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Reminder struct {
	ID          uuid.UUID  `db:"id"`
	UserID      string     `db:"user_id"`
	Message     string     `db:"message"`
	FireAt      time.Time  `db:"fire_at"`
	Delivered   bool       `db:"delivered"`
	DeliveredAt *time.Time `db:"delivered_at"`
	CreatedAt   time.Time  `db:"created_at"`
}

// NewReminder creates a reminder that fires at the given time.
func NewReminder(userID, message string, fireAt time.Time) *Reminder {
	return &Reminder{
		ID:        uuid.New(),
		UserID:    userID,
		Message:   message,
		FireAt:    fireAt,
		CreatedAt: time.Now(),
	}
}
