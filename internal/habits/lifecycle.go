package habits

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/habitflow/habitflow/internal/models"
)

// Create validates the input, enforces the per-user habit cap, and persists
// a new habit. Field violations are collected and returned together;
// breaching the cap is a Conflict reported only after field validation
// passes.
func (s *Service) Create(ctx context.Context, userID string, in CreateHabitInput) (*models.Habit, error) {
	var errs ErrorList
	if isBlank(userID) {
		errs = append(errs, Validation("User.InvalidId", "User ID is required."))
	}
	errs = append(errs, validateCreate(in, s.today())...)
	if len(errs) > 0 {
		return nil, errs
	}

	count, err := s.habits.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count >= MaxHabitsPerUser {
		return nil, Conflict("Habit.LimitExceeded",
			fmt.Sprintf("Cannot create more than %d habits per user.", MaxHabitsPerUser))
	}

	habit := &models.Habit{
		UserID:         userID,
		Title:          in.Title,
		Description:    in.Description,
		Type:           models.HabitType(in.Type),
		CompletionMode: models.CompletionMode(in.CompletionMode),
		DaysOfWeekMask: in.DaysOfWeekMask,
		TargetValue:    in.TargetValue,
		TargetUnit:     in.TargetUnit,
		DeadlineDate:   in.DeadlineDate,
		CreatedAtUtc:   s.now().UTC(),
	}
	if err := s.habits.Create(ctx, habit); err != nil {
		return nil, err
	}

	s.logger.Info("habit_created",
		zap.Int("habit_id", habit.ID),
		zap.String("user_id", userID),
	)
	return habit, nil
}

// Update applies a partial update to an owned habit. Absent fields keep
// their stored values. Missing or foreign-owned habits yield the same
// NotFound signal.
func (s *Service) Update(ctx context.Context, id int, userID string, in UpdateHabitInput) (*models.Habit, error) {
	if errs := validateUpdate(in, s.today()); len(errs) > 0 {
		return nil, errs
	}

	habit, err := s.habits.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if habit == nil {
		return nil, NotFound("Habit.NotFound", "Habit not found.")
	}

	if in.Title != nil {
		habit.Title = *in.Title
	}
	if in.Description != nil {
		habit.Description = in.Description
	}
	if in.Type != nil {
		habit.Type = models.HabitType(*in.Type)
	}
	if in.CompletionMode != nil {
		habit.CompletionMode = models.CompletionMode(*in.CompletionMode)
	}
	if in.DaysOfWeekMask != nil {
		habit.DaysOfWeekMask = *in.DaysOfWeekMask
	}
	if in.TargetValue != nil {
		habit.TargetValue = *in.TargetValue
	}
	if in.TargetUnit != nil {
		habit.TargetUnit = in.TargetUnit
	}
	if in.DeadlineDate != nil {
		habit.DeadlineDate = in.DeadlineDate
	} else if in.ClearDeadline {
		habit.DeadlineDate = nil
	}

	if err := s.habits.Update(ctx, habit); err != nil {
		return nil, err
	}
	return habit, nil
}

// Delete removes an owned habit. Check-ins and notifications are removed
// by the storage layer's cascade rules.
func (s *Service) Delete(ctx context.Context, id int, userID string) error {
	deleted, err := s.habits.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return NotFound("Habit.NotFound", "Habit not found.")
	}

	s.logger.Info("habit_deleted",
		zap.Int("habit_id", id),
		zap.String("user_id", userID),
	)
	return nil
}

// Get fetches a single owned habit.
func (s *Service) Get(ctx context.Context, id int, userID string) (*models.Habit, error) {
	if id <= 0 {
		return nil, Validation("Habit.InvalidId", "Habit ID must be greater than zero.")
	}
	if isBlank(userID) {
		return nil, Validation("User.InvalidId", "User ID is required.")
	}

	habit, err := s.habits.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if habit == nil {
		return nil, NotFound("Habit.NotFound",
			fmt.Sprintf("Habit with ID %d was not found or does not belong to the user.", id))
	}
	return habit, nil
}
