package habits

import (
	"context"
	"time"

	"github.com/habitflow/habitflow/internal/models"
)

// TodayItem is one habit planned for the resolved date. IsPlanned is
// always true; habits without a scheduled occurrence on the date are
// excluded from the view, not returned unplanned.
type TodayItem struct {
	HabitID        int
	Title          string
	Type           models.HabitType
	CompletionMode models.CompletionMode
	TargetValue    int
	TargetUnit     *string
	IsPlanned      bool
	HasCheckin     bool
}

// TodayView lists the habits planned for one local calendar date.
type TodayView struct {
	Date  time.Time
	Items []TodayItem
}

// Today resolves the target date (explicitDate when given, otherwise the
// current date in the user's configured time zone) and lists every habit
// whose recurrence mask covers that weekday, with check-in presence.
func (s *Service) Today(ctx context.Context, userID string, explicitDate *time.Time) (*TodayView, error) {
	if isBlank(userID) {
		return nil, Validation("User.InvalidId", "User ID is required.")
	}

	var date time.Time
	if explicitDate != nil {
		date = DateOf(*explicitDate)
	} else {
		resolved, err := s.resolveLocalDate(ctx, userID)
		if err != nil {
			return nil, err
		}
		date = resolved
	}

	planned, err := s.habits.ListForDay(ctx, userID, DayMask(date))
	if err != nil {
		return nil, err
	}

	items := make([]TodayItem, 0, len(planned))
	for _, h := range planned {
		hasCheckin, err := s.checkins.Exists(ctx, h.ID, userID, date)
		if err != nil {
			return nil, err
		}
		items = append(items, TodayItem{
			HabitID:        h.ID,
			Title:          h.Title,
			Type:           h.Type,
			CompletionMode: h.CompletionMode,
			TargetValue:    h.TargetValue,
			TargetUnit:     h.TargetUnit,
			IsPlanned:      true,
			HasCheckin:     hasCheckin,
		})
	}

	return &TodayView{Date: date, Items: items}, nil
}

// resolveLocalDate converts the current UTC instant into the user's
// configured IANA time zone and takes its calendar date.
func (s *Service) resolveLocalDate(ctx context.Context, userID string) (time.Time, error) {
	tz, err := s.users.GetTimeZone(ctx, userID)
	if err != nil {
		return time.Time{}, err
	}
	if isBlank(tz) {
		return time.Time{}, Validation("User.TimeZoneMissing", "User time zone is required.")
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Time{}, Validation("User.InvalidTimeZone", "User time zone is invalid.")
	}

	return DateOf(s.now().UTC().In(loc)), nil
}
