package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/habitflow/habitflow/internal/habits"
	"github.com/habitflow/habitflow/internal/models"
)

// HabitRepository handles habit database operations
type HabitRepository struct {
	db *DB
}

// NewHabitRepository creates a new habit repository
func NewHabitRepository(db *DB) *HabitRepository {
	return &HabitRepository{db: db}
}

const habitColumns = `id, user_id, title, description, habit_type, completion_mode, days_of_week_mask, target_value, target_unit, deadline_date, created_at_utc`

// Create inserts a new habit and fills in its generated ID.
func (r *HabitRepository) Create(ctx context.Context, habit *models.Habit) error {
	query := `
		INSERT INTO habits (user_id, title, description, habit_type, completion_mode, days_of_week_mask, target_value, target_unit, deadline_date, created_at_utc)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		habit.UserID,
		habit.Title,
		habit.Description,
		habit.Type,
		habit.CompletionMode,
		habit.DaysOfWeekMask,
		habit.TargetValue,
		habit.TargetUnit,
		nullDate(habit.DeadlineDate),
		habit.CreatedAtUtc,
	).Scan(&habit.ID)

	if err != nil {
		return fmt.Errorf("failed to create habit: %w", err)
	}

	return nil
}

// GetByID retrieves a habit scoped to its owner. It returns (nil, nil) when
// no matching row exists.
func (r *HabitRepository) GetByID(ctx context.Context, id int, userID string) (*models.Habit, error) {
	query := `
		SELECT ` + habitColumns + `
		FROM habits
		WHERE id = $1 AND user_id = $2
	`

	habit, err := scanHabit(r.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}

	return habit, nil
}

// Update rewrites all mutable columns of a habit.
func (r *HabitRepository) Update(ctx context.Context, habit *models.Habit) error {
	query := `
		UPDATE habits
		SET title = $3, description = $4, habit_type = $5, completion_mode = $6,
		    days_of_week_mask = $7, target_value = $8, target_unit = $9, deadline_date = $10
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.db.ExecContext(ctx, query,
		habit.ID,
		habit.UserID,
		habit.Title,
		habit.Description,
		habit.Type,
		habit.CompletionMode,
		habit.DaysOfWeekMask,
		habit.TargetValue,
		habit.TargetUnit,
		nullDate(habit.DeadlineDate),
	)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("habit not found")
	}

	return nil
}

// Delete removes a habit scoped to its owner. Check-ins and notifications
// go with it via the foreign key cascades.
func (r *HabitRepository) Delete(ctx context.Context, id int, userID string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM habits WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete habit: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// CountByUser counts the user's habits.
func (r *HabitRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM habits WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count habits: %w", err)
	}
	return count, nil
}

// List retrieves one page of the user's habits plus the total count of the
// filtered set. The caller has already clamped the paging inputs and
// resolved the sort to a supported combination.
func (r *HabitRepository) List(ctx context.Context, userID string, q habits.ListQuery) ([]*models.Habit, int, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}
	argIndex := 2

	if q.Type != nil {
		where = append(where, fmt.Sprintf("habit_type = $%d", argIndex))
		args = append(args, *q.Type)
		argIndex++
	}
	if q.CompletionMode != nil {
		where = append(where, fmt.Sprintf("completion_mode = $%d", argIndex))
		args = append(args, *q.CompletionMode)
		argIndex++
	}
	if q.Active != nil {
		if *q.Active {
			where = append(where, fmt.Sprintf("(deadline_date IS NULL OR deadline_date >= $%d)", argIndex))
		} else {
			where = append(where, fmt.Sprintf("deadline_date < $%d", argIndex))
		}
		args = append(args, q.Today)
		argIndex++
	}
	if q.Search != "" {
		where = append(where, fmt.Sprintf("title ILIKE $%d", argIndex))
		args = append(args, "%"+escapeLike(q.Search)+"%")
		argIndex++
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM habits WHERE ` + whereClause
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count habits: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM habits
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, habitColumns, whereClause, orderBy(q.SortField, q.SortDir), argIndex, argIndex+1)
	args = append(args, q.PageSize, (q.Page-1)*q.PageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query habits: %w", err)
	}
	defer rows.Close()

	items, err := collectHabits(rows)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// ListForDay retrieves the user's habits whose recurrence mask intersects
// dayMask, filtered in the database.
func (r *HabitRepository) ListForDay(ctx context.Context, userID string, dayMask byte) ([]*models.Habit, error) {
	query := `
		SELECT ` + habitColumns + `
		FROM habits
		WHERE user_id = $1 AND days_of_week_mask & $2 <> 0
		ORDER BY created_at_utc ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, int(dayMask))
	if err != nil {
		return nil, fmt.Errorf("failed to query habits for day: %w", err)
	}
	defer rows.Close()

	return collectHabits(rows)
}

// orderBy maps the already-validated sort selection to a SQL clause. Column
// names never come from user input.
func orderBy(field habits.SortField, dir habits.SortDirection) string {
	column := "created_at_utc"
	switch field {
	case habits.SortTitle:
		column = "title"
	case habits.SortDeadline:
		column = "deadline_date"
	}

	direction := "DESC"
	if dir == habits.SortAsc {
		direction = "ASC"
	}

	// A stable tiebreaker keeps pagination deterministic.
	return fmt.Sprintf("%s %s, id %s", column, direction, direction)
}

// escapeLike escapes the LIKE metacharacters in a user-supplied search term.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(row rowScanner) (*models.Habit, error) {
	habit := &models.Habit{}
	var deadline sql.NullTime

	err := row.Scan(
		&habit.ID,
		&habit.UserID,
		&habit.Title,
		&habit.Description,
		&habit.Type,
		&habit.CompletionMode,
		&habit.DaysOfWeekMask,
		&habit.TargetValue,
		&habit.TargetUnit,
		&deadline,
		&habit.CreatedAtUtc,
	)
	if err != nil {
		return nil, err
	}

	if deadline.Valid {
		d := habits.DateOf(deadline.Time)
		habit.DeadlineDate = &d
	}

	return habit, nil
}

func collectHabits(rows *sql.Rows) ([]*models.Habit, error) {
	var items []*models.Habit
	for rows.Next() {
		habit, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		items = append(items, habit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating habits: %w", err)
	}
	return items, nil
}

func nullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
