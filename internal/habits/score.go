package habits

import (
	"github.com/habitflow/habitflow/internal/models"
)

// DailyScore computes the normalized [0,1] completion score for one day.
// It must only ever be called with a check-in's snapshot fields, never with
// the habit's live configuration; editing a habit must not rewrite history.
//
// Binary habits score 1.0 for any positive actual value regardless of the
// target. Quantitative and checklist habits score the clamped actual/target
// ratio, inverted for Stop habits where fewer occurrences is better.
func DailyScore(actualValue, targetSnapshot int, modeSnapshot models.CompletionMode, typeSnapshot models.HabitType) float64 {
	if targetSnapshot <= 0 {
		return 0.0
	}

	if modeSnapshot == models.CompletionModeBinary {
		if actualValue > 0 {
			return 1.0
		}
		return 0.0
	}

	ratio := float64(actualValue) / float64(targetSnapshot)
	if ratio > 1.0 {
		ratio = 1.0
	}
	if ratio < 0.0 {
		ratio = 0.0
	}

	if typeSnapshot == models.HabitTypeStop {
		return 1.0 - ratio
	}
	return ratio
}
