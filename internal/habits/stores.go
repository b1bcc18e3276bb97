package habits

import (
	"context"
	"errors"
	"time"

	"github.com/habitflow/habitflow/internal/models"
)

// ErrDuplicateCheckin is returned by CheckinStore.Create when a check-in
// already exists for the same (habit, local date) pair.
var ErrDuplicateCheckin = errors.New("checkin already exists for this date")

// SortField selects the habit list ordering column.
type SortField string

const (
	SortCreatedAt SortField = "createdAt"
	SortTitle     SortField = "title"
	SortDeadline  SortField = "deadline"
)

// SortDirection is the habit list ordering direction.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ListQuery carries filter, sort, and pagination parameters for listing a
// user's habits. All filters are optional and combined with AND. Today is
// filled in by the service and anchors the Active filter.
type ListQuery struct {
	Page           int
	PageSize       int
	Type           *models.HabitType
	CompletionMode *models.CompletionMode
	Active         *bool
	Search         string
	SortField      SortField
	SortDir        SortDirection
	Today          time.Time
}

// HabitStore is the persistence collaborator for habit rows. Point lookups
// return (nil, nil) when no row matches, so the service can produce the
// same NotFound signal for absent and foreign-owned rows.
type HabitStore interface {
	Create(ctx context.Context, habit *models.Habit) error
	GetByID(ctx context.Context, id int, userID string) (*models.Habit, error)
	Update(ctx context.Context, habit *models.Habit) error
	Delete(ctx context.Context, id int, userID string) (bool, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	List(ctx context.Context, userID string, q ListQuery) ([]*models.Habit, int, error)
	ListForDay(ctx context.Context, userID string, dayMask byte) ([]*models.Habit, error)
}

// CheckinStore is the persistence collaborator for check-in rows.
type CheckinStore interface {
	Create(ctx context.Context, checkin *models.Checkin) error
	ListRange(ctx context.Context, habitID int, from, to time.Time) ([]*models.Checkin, error)
	Exists(ctx context.Context, habitID int, userID string, date time.Time) (bool, error)
	ListByDate(ctx context.Context, userID string, date time.Time) ([]*models.Checkin, error)
}

// UserStore exposes the single user attribute the core needs.
type UserStore interface {
	GetTimeZone(ctx context.Context, userID string) (string, error)
}
