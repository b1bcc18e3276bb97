package habits

import (
	"context"
	"fmt"
	"time"
)

// ProgressPoint aggregates the trailing window ending at Date: how many of
// its days were planned, the sum of their daily scores, and the resulting
// success rate (sum over planned days, 0 when none were planned).
type ProgressPoint struct {
	Date          time.Time
	PlannedDays   int
	SumDailyScore float64
	SuccessRate   float64
}

// RollingProgress is a series of trailing-window aggregates, one point per
// day of the window ending at Until.
type RollingProgress struct {
	HabitID    int
	WindowDays int
	Until      time.Time
	Points     []ProgressPoint
}

// Progress computes rolling completion statistics for a habit. until
// defaults to the current date in the user's time zone. Each point at date
// d aggregates the windowDays-day span ending at d, reconciling check-ins
// against the current mask the same way the calendar view does.
func (s *Service) Progress(ctx context.Context, habitID int, userID string, windowDays int, until *time.Time) (*RollingProgress, error) {
	if habitID <= 0 {
		return nil, Validation("Habit.InvalidId", "Habit ID must be greater than zero.")
	}
	if isBlank(userID) {
		return nil, Validation("User.InvalidId", "User ID is required.")
	}
	if windowDays < 1 || windowDays > MaxProgressWindowDays {
		return nil, Validation("Progress.InvalidWindow",
			fmt.Sprintf("WindowDays must be between 1 and %d.", MaxProgressWindowDays))
	}

	var untilDate time.Time
	if until != nil {
		untilDate = DateOf(*until)
	} else {
		resolved, err := s.resolveLocalDate(ctx, userID)
		if err != nil {
			return nil, err
		}
		untilDate = resolved
	}

	habit, err := s.habits.GetByID(ctx, habitID, userID)
	if err != nil {
		return nil, err
	}
	if habit == nil {
		return nil, NotFound("Habit.NotFound",
			fmt.Sprintf("Habit with ID %d was not found or does not belong to the user.", habitID))
	}

	// The earliest point's window reaches back 2*windowDays-2 days before
	// until, so assemble days over that full span once.
	from := untilDate.AddDate(0, 0, -(2*windowDays - 2))
	checkins, err := s.checkins.ListRange(ctx, habitID, from, untilDate)
	if err != nil {
		return nil, err
	}
	days := assembleDays(habit.DaysOfWeekMask, checkins, from, untilDate)

	points := make([]ProgressPoint, 0, windowDays)
	for i := windowDays - 1; i < len(days); i++ {
		var planned int
		var sum float64
		for _, d := range days[i-windowDays+1 : i+1] {
			if d.IsPlanned {
				planned++
			}
			sum += d.DailyScore
		}
		rate := 0.0
		if planned > 0 {
			rate = sum / float64(planned)
		}
		points = append(points, ProgressPoint{
			Date:          days[i].Date,
			PlannedDays:   planned,
			SumDailyScore: sum,
			SuccessRate:   rate,
		})
	}

	return &RollingProgress{
		HabitID:    habitID,
		WindowDays: windowDays,
		Until:      untilDate,
		Points:     points,
	}, nil
}
