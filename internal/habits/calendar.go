package habits

import (
	"context"
	"fmt"
	"time"

	"github.com/habitflow/habitflow/internal/models"
)

// CalendarDay is the derived per-date view of one habit. Days with a
// check-in carry its recorded planned flag and snapshots; days without one
// infer the planned flag from the habit's current mask and have no
// snapshots and a zero score.
type CalendarDay struct {
	Date                   time.Time
	IsPlanned              bool
	ActualValue            int
	TargetValueSnapshot    *int
	CompletionModeSnapshot *models.CompletionMode
	HabitTypeSnapshot      *models.HabitType
	DailyScore             float64
}

// Calendar is a day-by-day view of one habit over an inclusive date range.
type Calendar struct {
	HabitID int
	From    time.Time
	To      time.Time
	Days    []CalendarDay
}

// BuildCalendar merges the habit's schedule with its recorded check-ins
// over [from, to]. The result always has exactly one entry per day of the
// inclusive span, in ascending date order.
func (s *Service) BuildCalendar(ctx context.Context, habitID int, userID string, from, to time.Time) (*Calendar, error) {
	if err := validateRange(habitID, userID, from, to); err != nil {
		return nil, err
	}

	habit, err := s.habits.GetByID(ctx, habitID, userID)
	if err != nil {
		return nil, err
	}
	if habit == nil {
		return nil, NotFound("Habit.NotFound",
			fmt.Sprintf("Habit with ID %d was not found or does not belong to the user.", habitID))
	}

	checkins, err := s.checkins.ListRange(ctx, habitID, from, to)
	if err != nil {
		return nil, err
	}

	return &Calendar{
		HabitID: habitID,
		From:    from,
		To:      to,
		Days:    assembleDays(habit.DaysOfWeekMask, checkins, from, to),
	}, nil
}

// validateRange applies the shared preconditions of calendar-shaped
// queries, in order, short-circuiting on the first failure.
func validateRange(habitID int, userID string, from, to time.Time) error {
	if habitID <= 0 {
		return Validation("Habit.InvalidId", "Habit ID must be greater than zero.")
	}
	if isBlank(userID) {
		return Validation("User.InvalidId", "User ID is required.")
	}
	if from.After(to) {
		return Validation("DateRange.Invalid", "From date must be before or equal to To date.")
	}
	if span := daysBetween(from, to); span > MaxCalendarRangeDays {
		return Validation("DateRange.TooLarge",
			fmt.Sprintf("Date range cannot exceed %d days. Requested: %d days.", MaxCalendarRangeDays, span))
	}
	return nil
}

// assembleDays produces one CalendarDay per date of the inclusive range,
// reconciling recorded check-ins against the habit's current mask.
func assembleDays(mask byte, checkins []*models.Checkin, from, to time.Time) []CalendarDay {
	byDate := make(map[time.Time]*models.Checkin, len(checkins))
	for _, c := range checkins {
		byDate[DateOf(c.LocalDate)] = c
	}

	days := make([]CalendarDay, 0, daysBetween(from, to))
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		if c, ok := byDate[date]; ok {
			target := c.TargetValueSnapshot
			mode := c.CompletionModeSnapshot
			typ := c.HabitTypeSnapshot
			days = append(days, CalendarDay{
				Date:                   date,
				IsPlanned:              c.IsPlanned,
				ActualValue:            c.ActualValue,
				TargetValueSnapshot:    &target,
				CompletionModeSnapshot: &mode,
				HabitTypeSnapshot:      &typ,
				DailyScore:             DailyScore(c.ActualValue, target, mode, typ),
			})
			continue
		}
		days = append(days, CalendarDay{
			Date:      date,
			IsPlanned: IsPlanned(date, mask),
		})
	}
	return days
}
