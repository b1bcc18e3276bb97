package models

import (
	"time"
)

// HabitType describes whether a habit rewards doing something (Start)
// or avoiding something (Stop).
type HabitType byte

const (
	HabitTypeStart HabitType = 1
	HabitTypeStop  HabitType = 2
)

// CompletionMode determines how a day's actual value is scored against the target.
type CompletionMode byte

const (
	CompletionModeBinary       CompletionMode = 1
	CompletionModeQuantitative CompletionMode = 2
	CompletionModeChecklist    CompletionMode = 3
)

// Habit represents a recurring tracked behavior owned by one user.
// DaysOfWeekMask uses bit 0 for Monday through bit 6 for Sunday and is
// always in the range 1-127. TargetValue is validated to 1-100 at the API
// boundary; the storage column allows up to 1000.
type Habit struct {
	ID             int            `json:"id"`
	UserID         string         `json:"user_id"`
	Title          string         `json:"title"`
	Description    *string        `json:"description,omitempty"`
	Type           HabitType      `json:"type"`
	CompletionMode CompletionMode `json:"completion_mode"`
	DaysOfWeekMask byte           `json:"days_of_week_mask"`
	TargetValue    int            `json:"target_value"`
	TargetUnit     *string        `json:"target_unit,omitempty"`
	DeadlineDate   *time.Time     `json:"deadline_date,omitempty"`
	CreatedAtUtc   time.Time      `json:"created_at_utc"`
}
