package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"brainbank/video-ingestion/internal/db"
	"brainbank/video-ingestion/internal/db/models"
)

// ReminderRepository defines operations for one-shot reminders.
type ReminderRepository interface {
	// Create stores a reminder.
	Create(ctx context.Context, reminder *models.Reminder) error

	// ListByUser retrieves a user's pending reminders, soonest first.
	ListByUser(ctx context.Context, userID string) ([]*models.Reminder, error)

	// Delete cancels a single reminder by id.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteAllForUser cancels every pending reminder of a user and returns
	// how many were removed.
	DeleteAllForUser(ctx context.Context, userID string) (int, error)

	// ClaimDue atomically marks up to limit due reminders as delivered and
	// returns them. Concurrent schedulers never claim the same reminder.
	ClaimDue(ctx context.Context, limit int) ([]*models.Reminder, error)
}

type reminderRepository struct {
	pool *pgxpool.Pool
}

// NewReminderRepository creates a new ReminderRepository.
func NewReminderRepository(pool *pgxpool.Pool) ReminderRepository {
	return &reminderRepository{pool: pool}
}

func (r *reminderRepository) Create(ctx context.Context, reminder *models.Reminder) error {
	query := `
		INSERT INTO reminders (id, user_id, message, fire_at, delivered, created_at)
		VALUES ($1, $2, $3, $4, FALSE, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		reminder.ID,
		reminder.UserID,
		reminder.Message,
		reminder.FireAt,
		reminder.CreatedAt,
	)
	if err != nil {
		return db.WrapError(err, "create reminder")
	}

	return nil
}

func (r *reminderRepository) ListByUser(ctx context.Context, userID string) ([]*models.Reminder, error) {
	query := `
		SELECT id, user_id, message, fire_at, delivered, delivered_at, created_at
		FROM reminders
		WHERE user_id = $1 AND NOT delivered
		ORDER BY fire_at ASC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, db.WrapError(err, "list reminders")
	}
	defer rows.Close()

	return scanReminders(rows)
}

func (r *reminderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reminders WHERE id = $1`, id)
	if err != nil {
		return db.WrapError(err, "delete reminder")
	}
	if tag.RowsAffected() == 0 {
		return db.WrapError(pgx.ErrNoRows, "delete reminder")
	}

	return nil
}

func (r *reminderRepository) DeleteAllForUser(ctx context.Context, userID string) (int, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM reminders WHERE user_id = $1 AND NOT delivered`, userID)
	if err != nil {
		return 0, db.WrapError(err, "delete reminders for user")
	}

	return int(tag.RowsAffected()), nil
}

func (r *reminderRepository) ClaimDue(ctx context.Context, limit int) ([]*models.Reminder, error) {
	// SKIP LOCKED keeps two scheduler instances from delivering the same
	// reminder twice.
	query := `
		UPDATE reminders
		SET delivered = TRUE, delivered_at = now()
		WHERE id IN (
			SELECT id FROM reminders
			WHERE NOT delivered AND fire_at <= now()
			ORDER BY fire_at ASC
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, user_id, message, fire_at, delivered, delivered_at, created_at
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, db.WrapError(err, "claim due reminders")
	}
	defer rows.Close()

	return scanReminders(rows)
}

func scanReminders(rows pgx.Rows) ([]*models.Reminder, error) {
	var reminders []*models.Reminder

	for rows.Next() {
		reminder := &models.Reminder{}
		err := rows.Scan(
			&reminder.ID,
			&reminder.UserID,
			&reminder.Message,
			&reminder.FireAt,
			&reminder.Delivered,
			&reminder.DeliveredAt,
			&reminder.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		reminders = append(reminders, reminder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reminders: %w", err)
	}

	return reminders, nil
}
