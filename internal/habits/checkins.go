package habits

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/habitflow/habitflow/internal/models"
)

// CreateCheckin records the user's value for one habit on one local date.
// The target, completion mode, and habit type are snapshotted from the
// habit's current configuration and frozen; the planned flag is derived
// from the current mask. A second check-in for the same (habit, date) pair
// is a Conflict.
func (s *Service) CreateCheckin(ctx context.Context, habitID int, userID string, date time.Time, actualValue int) (*models.Checkin, error) {
	var errs ErrorList
	if habitID <= 0 {
		errs = append(errs, Validation("Habit.InvalidId", "Habit ID must be greater than zero."))
	}
	if isBlank(userID) {
		errs = append(errs, Validation("User.InvalidId", "User ID is required."))
	}
	if actualValue < 0 {
		errs = append(errs, Validation("Checkin.InvalidActualValue", "ActualValue must not be negative."))
	}
	if len(errs) > 0 {
		return nil, errs
	}

	habit, err := s.habits.GetByID(ctx, habitID, userID)
	if err != nil {
		return nil, err
	}
	if habit == nil {
		return nil, NotFound("Habit.NotFound",
			fmt.Sprintf("Habit with ID %d was not found or does not belong to the user.", habitID))
	}

	date = DateOf(date)
	checkin := &models.Checkin{
		HabitID:                habitID,
		UserID:                 userID,
		LocalDate:              date,
		ActualValue:            actualValue,
		TargetValueSnapshot:    habit.TargetValue,
		CompletionModeSnapshot: habit.CompletionMode,
		HabitTypeSnapshot:      habit.Type,
		IsPlanned:              IsPlanned(date, habit.DaysOfWeekMask),
		CreatedAtUtc:           s.now().UTC(),
	}
	if err := s.checkins.Create(ctx, checkin); err != nil {
		if errors.Is(err, ErrDuplicateCheckin) {
			return nil, Conflict("Checkin.AlreadyExists",
				"A check-in already exists for this habit and date.")
		}
		return nil, err
	}

	s.logger.Info("checkin_created",
		zap.Int("habit_id", habitID),
		zap.String("user_id", userID),
		zap.String("local_date", date.Format("2006-01-02")),
	)
	return checkin, nil
}

// ListCheckins returns a habit's check-ins over an inclusive date range,
// subject to the same range preconditions as the calendar view.
func (s *Service) ListCheckins(ctx context.Context, habitID int, userID string, from, to time.Time) ([]*models.Checkin, error) {
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

	return s.checkins.ListRange(ctx, habitID, from, to)
}

// CheckinsByDate returns every check-in the user recorded on one date,
// across all habits.
func (s *Service) CheckinsByDate(ctx context.Context, userID string, date time.Time) ([]*models.Checkin, error) {
	if isBlank(userID) {
		return nil, Validation("User.InvalidId", "User ID is required.")
	}
	return s.checkins.ListByDate(ctx, userID, DateOf(date))
}
