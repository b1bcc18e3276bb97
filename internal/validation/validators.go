package validation

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/habitflow/habitflow/internal/models"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for enums and time zones
	// These should never fail in normal operation, but log if they do
	if err := Validate.RegisterValidation("habit_type", validateHabitType); err != nil {
		panic(fmt.Sprintf("failed to register habit_type validator: %v", err))
	}
	if err := Validate.RegisterValidation("completion_mode", validateCompletionMode); err != nil {
		panic(fmt.Sprintf("failed to register completion_mode validator: %v", err))
	}
	if err := Validate.RegisterValidation("iana_timezone", validateTimeZone); err != nil {
		panic(fmt.Sprintf("failed to register iana_timezone validator: %v", err))
	}
}

// validateHabitType validates that a numeric field is a valid HabitType value
func validateHabitType(fl validator.FieldLevel) bool {
	switch models.HabitType(fl.Field().Uint()) {
	case models.HabitTypeStart, models.HabitTypeStop:
		return true
	default:
		return false
	}
}

// validateCompletionMode validates that a numeric field is a valid CompletionMode value
func validateCompletionMode(fl validator.FieldLevel) bool {
	switch models.CompletionMode(fl.Field().Uint()) {
	case models.CompletionModeBinary, models.CompletionModeQuantitative, models.CompletionModeChecklist:
		return true
	default:
		return false
	}
}

// validateTimeZone validates that a string names a loadable IANA time zone
func validateTimeZone(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return false
	}
	_, err := time.LoadLocation(value)
	return err == nil
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	// Trim whitespace
	text = strings.TrimSpace(text)

	// Remove control characters except newline and tab
	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateHabitType validates a HabitType query string value
func ValidateHabitType(value string) error {
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid type: %s (must be 1 for Start or 2 for Stop)", value)
	}
	switch models.HabitType(parsed) {
	case models.HabitTypeStart, models.HabitTypeStop:
		return nil
	default:
		return fmt.Errorf("invalid type: %s (must be 1 for Start or 2 for Stop)", value)
	}
}

// ValidateCompletionMode validates a CompletionMode query string value
func ValidateCompletionMode(value string) error {
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid completion_mode: %s (must be 1, 2, or 3)", value)
	}
	switch models.CompletionMode(parsed) {
	case models.CompletionModeBinary, models.CompletionModeQuantitative, models.CompletionModeChecklist:
		return nil
	default:
		return fmt.Errorf("invalid completion_mode: %s (must be 1, 2, or 3)", value)
	}
}
