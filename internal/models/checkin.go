package models

import (
	"time"
)

// Checkin is an immutable record of a user's recorded value for one habit
// on one local calendar date. The snapshot fields are copied from the habit
// at write time and are never recomputed from the habit's later state -
// historical scores must not change when a habit is edited.
type Checkin struct {
	ID                     int64          `json:"id"`
	HabitID                int            `json:"habit_id"`
	UserID                 string         `json:"user_id"`
	LocalDate              time.Time      `json:"local_date"`
	ActualValue            int            `json:"actual_value"`
	TargetValueSnapshot    int            `json:"target_value_snapshot"`
	CompletionModeSnapshot CompletionMode `json:"completion_mode_snapshot"`
	HabitTypeSnapshot      HabitType      `json:"habit_type_snapshot"`
	IsPlanned              bool           `json:"is_planned"`
	CreatedAtUtc           time.Time      `json:"created_at_utc"`
}
