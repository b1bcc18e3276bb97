package habits

import (
	"fmt"
	"strings"
	"time"
)

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// CreateHabitInput carries the fields for a new habit.
type CreateHabitInput struct {
	Title          string
	Description    *string
	Type           byte
	CompletionMode byte
	DaysOfWeekMask byte
	TargetValue    int
	TargetUnit     *string
	DeadlineDate   *time.Time
}

// UpdateHabitInput carries a partial update. Nil fields leave the stored
// value untouched. ClearDeadline removes the deadline and is mutually
// exclusive with setting DeadlineDate.
type UpdateHabitInput struct {
	Title          *string
	Description    *string
	Type           *byte
	CompletionMode *byte
	DaysOfWeekMask *byte
	TargetValue    *int
	TargetUnit     *string
	DeadlineDate   *time.Time
	ClearDeadline  bool
}

// validateCreate checks every field and returns all violations together.
// today anchors the deadline-in-the-future rule.
func validateCreate(in CreateHabitInput, today time.Time) ErrorList {
	var errs ErrorList

	if strings.TrimSpace(in.Title) == "" {
		errs = append(errs, Validation("Habit.TitleRequired", "Title is required."))
	}
	if len(in.Title) > MaxTitleLength {
		errs = append(errs, Validation("Habit.TitleTooLong",
			fmt.Sprintf("Title must not exceed %d characters.", MaxTitleLength)))
	}
	if in.Description != nil && len(*in.Description) > MaxDescriptionLength {
		errs = append(errs, Validation("Habit.DescriptionTooLong",
			fmt.Sprintf("Description must not exceed %d characters.", MaxDescriptionLength)))
	}
	if in.Type < 1 || in.Type > 2 {
		errs = append(errs, Validation("Habit.InvalidType", "Type must be 1 (Start) or 2 (Stop)."))
	}
	if in.CompletionMode < 1 || in.CompletionMode > 3 {
		errs = append(errs, Validation("Habit.InvalidCompletionMode",
			"CompletionMode must be 1 (Binary), 2 (Quantitative), or 3 (Checklist)."))
	}
	if in.DaysOfWeekMask < 1 || in.DaysOfWeekMask > 127 {
		errs = append(errs, Validation("Habit.InvalidDaysOfWeekMask", "DaysOfWeekMask must be between 1 and 127."))
	}
	if in.TargetValue < 1 || in.TargetValue > MaxTargetValue {
		errs = append(errs, Validation("Habit.InvalidTargetValue",
			fmt.Sprintf("TargetValue must be between 1 and %d.", MaxTargetValue)))
	}
	if in.TargetUnit != nil && len(*in.TargetUnit) > MaxTargetUnitLength {
		errs = append(errs, Validation("Habit.TargetUnitTooLong",
			fmt.Sprintf("TargetUnit must not exceed %d characters.", MaxTargetUnitLength)))
	}
	if in.DeadlineDate != nil && !in.DeadlineDate.After(today) {
		errs = append(errs, Validation("Habit.InvalidDeadlineDate", "DeadlineDate must be in the future."))
	}

	return errs
}

// validateUpdate applies the create bounds to the fields that are present.
func validateUpdate(in UpdateHabitInput, today time.Time) ErrorList {
	var errs ErrorList

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			errs = append(errs, Validation("Habit.TitleRequired", "Title cannot be empty."))
		}
		if len(*in.Title) > MaxTitleLength {
			errs = append(errs, Validation("Habit.TitleTooLong",
				fmt.Sprintf("Title must not exceed %d characters.", MaxTitleLength)))
		}
	}
	if in.Description != nil && len(*in.Description) > MaxDescriptionLength {
		errs = append(errs, Validation("Habit.DescriptionTooLong",
			fmt.Sprintf("Description must not exceed %d characters.", MaxDescriptionLength)))
	}
	if in.Type != nil && (*in.Type < 1 || *in.Type > 2) {
		errs = append(errs, Validation("Habit.InvalidType", "Type must be 1 (Start) or 2 (Stop)."))
	}
	if in.CompletionMode != nil && (*in.CompletionMode < 1 || *in.CompletionMode > 3) {
		errs = append(errs, Validation("Habit.InvalidCompletionMode",
			"CompletionMode must be 1 (Binary), 2 (Quantitative), or 3 (Checklist)."))
	}
	if in.DaysOfWeekMask != nil && (*in.DaysOfWeekMask < 1 || *in.DaysOfWeekMask > 127) {
		errs = append(errs, Validation("Habit.InvalidDaysOfWeekMask", "DaysOfWeekMask must be between 1 and 127."))
	}
	if in.TargetValue != nil && (*in.TargetValue < 1 || *in.TargetValue > MaxTargetValue) {
		errs = append(errs, Validation("Habit.InvalidTargetValue",
			fmt.Sprintf("TargetValue must be between 1 and %d.", MaxTargetValue)))
	}
	if in.TargetUnit != nil && len(*in.TargetUnit) > MaxTargetUnitLength {
		errs = append(errs, Validation("Habit.TargetUnitTooLong",
			fmt.Sprintf("TargetUnit must not exceed %d characters.", MaxTargetUnitLength)))
	}
	if in.DeadlineDate != nil && !in.DeadlineDate.After(today) {
		errs = append(errs, Validation("Habit.InvalidDeadlineDate", "DeadlineDate must be in the future."))
	}
	if in.DeadlineDate != nil && in.ClearDeadline {
		errs = append(errs, Validation("Habit.DeadlineConflict",
			"Cannot set DeadlineDate and ClearDeadline simultaneously."))
	}

	return errs
}
