package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/habitflow/habitflow/internal/habits"
	"github.com/habitflow/habitflow/internal/validation"
)

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success":   true,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// sanitizeErrorMessage removes internal details from error messages
func sanitizeErrorMessage(message string) string {
	sanitized := message
	if len(sanitized) > 200 {
		sanitized = sanitized[:200] + "..."
	}
	return sanitized
}

// respondJSONError sends an error JSON response with sanitized error messages
func respondJSONError(w http.ResponseWriter, status int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success":   false,
		"error":     errorType,
		"message":   sanitizeErrorMessage(message),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondDomainError maps an engine error onto the HTTP surface. Validation
// errors become 400 with every violation listed; not-found and conflicts map
// to 404 and 409. Anything the engine does not recognize (persistence
// failures and the like) is a 500 with no internals exposed.
func respondDomainError(w http.ResponseWriter, err error) {
	errs := habits.Unwrap(err)
	if errs == nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
		return
	}

	status := http.StatusBadRequest
	errorType := "Bad Request"
	switch errs[0].Kind {
	case habits.KindNotFound:
		status = http.StatusNotFound
		errorType = "Not Found"
	case habits.KindConflict:
		status = http.StatusConflict
		errorType = "Conflict"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success":   false,
		"error":     errorType,
		"errors":    errs,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// validateBody runs struct validation on a decoded request body and, on
// failure, responds with the coded domain errors for the offending fields.
func validateBody(w http.ResponseWriter, req any) bool {
	err := validation.Validate.Struct(req)
	if err == nil {
		return true
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed")
		return false
	}

	respondDomainError(w, requestViolations(validationErrors))
	return false
}

// requestViolations maps struct validation failures onto the stable error
// codes used for the same fields everywhere else. Every violation is
// reported, in field order.
func requestViolations(errs validator.ValidationErrors) habits.ErrorList {
	out := make(habits.ErrorList, 0, len(errs))
	for _, fieldError := range errs {
		switch fieldError.StructField() {
		case "Title":
			if fieldError.Tag() == "required" {
				out = append(out, habits.Validation("Habit.TitleRequired", "Title is required."))
			} else {
				out = append(out, habits.Validation("Habit.TitleTooLong",
					fmt.Sprintf("Title must not exceed %d characters.", habits.MaxTitleLength)))
			}
		case "Description":
			out = append(out, habits.Validation("Habit.DescriptionTooLong",
				fmt.Sprintf("Description must not exceed %d characters.", habits.MaxDescriptionLength)))
		case "Type":
			out = append(out, habits.Validation("Habit.InvalidType", "Type must be 1 (Start) or 2 (Stop)."))
		case "CompletionMode":
			out = append(out, habits.Validation("Habit.InvalidCompletionMode",
				"CompletionMode must be 1 (Binary), 2 (Quantitative), or 3 (Checklist)."))
		case "DaysOfWeekMask":
			out = append(out, habits.Validation("Habit.InvalidDaysOfWeekMask",
				"DaysOfWeekMask must be between 1 and 127."))
		case "TargetValue":
			out = append(out, habits.Validation("Habit.InvalidTargetValue",
				fmt.Sprintf("TargetValue must be between 1 and %d.", habits.MaxTargetValue)))
		case "TargetUnit":
			out = append(out, habits.Validation("Habit.TargetUnitTooLong",
				fmt.Sprintf("TargetUnit must not exceed %d characters.", habits.MaxTargetUnitLength)))
		case "ActualValue":
			out = append(out, habits.Validation("Checkin.InvalidActualValue", "ActualValue must not be negative."))
		case "TimeZoneID":
			out = append(out, habits.Validation("User.InvalidTimeZone", "User time zone is invalid."))
		default:
			out = append(out, habits.Validation("Request.Invalid",
				fmt.Sprintf("%s failed validation.", fieldError.StructField())))
		}
	}
	return out
}

// parseDate parses a YYYY-MM-DD query or body value.
func parseDate(value string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
