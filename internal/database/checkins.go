package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/habitflow/habitflow/internal/habits"
	"github.com/habitflow/habitflow/internal/models"
)

// CheckinRepository handles check-in database operations
type CheckinRepository struct {
	db *DB
}

// NewCheckinRepository creates a new check-in repository
func NewCheckinRepository(db *DB) *CheckinRepository {
	return &CheckinRepository{db: db}
}

const checkinColumns = `id, habit_id, user_id, local_date, actual_value, target_value_snapshot, completion_mode_snapshot, habit_type_snapshot, is_planned, created_at_utc`

// Create inserts a new check-in. The unique index on (habit_id, local_date)
// arbitrates concurrent inserts; a violation surfaces as
// habits.ErrDuplicateCheckin.
func (r *CheckinRepository) Create(ctx context.Context, checkin *models.Checkin) error {
	query := `
		INSERT INTO checkins (habit_id, user_id, local_date, actual_value, target_value_snapshot, completion_mode_snapshot, habit_type_snapshot, is_planned, created_at_utc)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		checkin.HabitID,
		checkin.UserID,
		checkin.LocalDate,
		checkin.ActualValue,
		checkin.TargetValueSnapshot,
		checkin.CompletionModeSnapshot,
		checkin.HabitTypeSnapshot,
		checkin.IsPlanned,
		checkin.CreatedAtUtc,
	).Scan(&checkin.ID)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return habits.ErrDuplicateCheckin
	}
	if err != nil {
		return fmt.Errorf("failed to create checkin: %w", err)
	}

	return nil
}

// ListRange retrieves a habit's check-ins over an inclusive date range.
func (r *CheckinRepository) ListRange(ctx context.Context, habitID int, from, to time.Time) ([]*models.Checkin, error) {
	query := `
		SELECT ` + checkinColumns + `
		FROM checkins
		WHERE habit_id = $1 AND local_date BETWEEN $2 AND $3
		ORDER BY local_date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, habitID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query checkins: %w", err)
	}
	defer rows.Close()

	return collectCheckins(rows)
}

// Exists reports whether a check-in is recorded for the habit on the date.
func (r *CheckinRepository) Exists(ctx context.Context, habitID int, userID string, date time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM checkins WHERE habit_id = $1 AND user_id = $2 AND local_date = $3
		)
	`, habitID, userID, date).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check checkin existence: %w", err)
	}
	return exists, nil
}

// ListByDate retrieves every check-in the user recorded on one date.
func (r *CheckinRepository) ListByDate(ctx context.Context, userID string, date time.Time) ([]*models.Checkin, error) {
	query := `
		SELECT ` + checkinColumns + `
		FROM checkins
		WHERE user_id = $1 AND local_date = $2
		ORDER BY habit_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query checkins by date: %w", err)
	}
	defer rows.Close()

	return collectCheckins(rows)
}

func scanCheckin(row rowScanner) (*models.Checkin, error) {
	checkin := &models.Checkin{}
	err := row.Scan(
		&checkin.ID,
		&checkin.HabitID,
		&checkin.UserID,
		&checkin.LocalDate,
		&checkin.ActualValue,
		&checkin.TargetValueSnapshot,
		&checkin.CompletionModeSnapshot,
		&checkin.HabitTypeSnapshot,
		&checkin.IsPlanned,
		&checkin.CreatedAtUtc,
	)
	if err != nil {
		return nil, err
	}
	checkin.LocalDate = habits.DateOf(checkin.LocalDate)
	return checkin, nil
}

func collectCheckins(rows *sql.Rows) ([]*models.Checkin, error) {
	var items []*models.Checkin
	for rows.Next() {
		checkin, err := scanCheckin(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan checkin: %w", err)
		}
		items = append(items, checkin)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating checkins: %w", err)
	}
	return items, nil
}
