package habits

import (
	"context"

	"github.com/habitflow/habitflow/internal/models"
)

// List returns one page of the user's habits plus the total count of the
// filtered set (computed before pagination). Out-of-range paging inputs are
// clamped silently: pageSize into [1,100], page floored to 1. Unsupported
// sort combinations fall back to CreatedAtUtc descending.
func (s *Service) List(ctx context.Context, userID string, q ListQuery) ([]*models.Habit, int, error) {
	if isBlank(userID) {
		return nil, 0, Validation("User.InvalidId", "User ID is required.")
	}

	if q.PageSize < MinPageSize {
		q.PageSize = MinPageSize
	} else if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	if q.Page < 1 {
		q.Page = 1
	}

	if !validSort(q.SortField, q.SortDir) {
		q.SortField = SortCreatedAt
		q.SortDir = SortDesc
	}

	q.Today = s.today()

	return s.habits.List(ctx, userID, q)
}

func validSort(field SortField, dir SortDirection) bool {
	switch field {
	case SortCreatedAt, SortTitle, SortDeadline:
	default:
		return false
	}
	switch dir {
	case SortAsc, SortDesc:
	default:
		return false
	}
	return true
}
