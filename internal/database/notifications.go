package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/habitflow/habitflow/internal/habits"
	"github.com/habitflow/habitflow/internal/models"
)

// NotificationRepository handles notification database operations
type NotificationRepository struct {
	db *DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

const notificationColumns = `id, user_id, habit_id, local_date, notification_type, content, created_at_utc`

// Create inserts a notification. The unique index on (habit_id, local_date,
// notification_type) makes repeated scans of the same day idempotent; it
// returns false when the notification already existed.
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) (bool, error) {
	query := `
		INSERT INTO notifications (user_id, habit_id, local_date, notification_type, content, created_at_utc)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (habit_id, local_date, notification_type) DO NOTHING
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		n.UserID,
		n.HabitID,
		n.LocalDate,
		n.Type,
		n.Content,
		n.CreatedAtUtc,
	).Scan(&n.ID)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create notification: %w", err)
	}

	return true, nil
}

// GetByID retrieves a notification scoped to its owner. It returns
// (nil, nil) when no matching row exists.
func (r *NotificationRepository) GetByID(ctx context.Context, id int64, userID string) (*models.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE id = $1 AND user_id = $2
	`

	n := &models.Notification{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&n.ID,
		&n.UserID,
		&n.HabitID,
		&n.LocalDate,
		&n.Type,
		&n.Content,
		&n.CreatedAtUtc,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}

	n.LocalDate = habits.DateOf(n.LocalDate)
	return n, nil
}

// ListByUser retrieves one page of the user's notifications, newest first,
// plus the total count. The caller has already clamped the paging inputs.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]*models.Notification, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at_utc DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var items []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.HabitID,
			&n.LocalDate,
			&n.Type,
			&n.Content,
			&n.CreatedAtUtc,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		n.LocalDate = habits.DateOf(n.LocalDate)
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating notifications: %w", err)
	}

	return items, total, nil
}
