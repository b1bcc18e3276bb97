package habits

import (
	"strings"
)

// Kind categorizes a domain error so callers can map it to a transport
// status without parsing message text.
type Kind string

const (
	KindValidation Kind = "ValidationError"
	KindNotFound   Kind = "NotFound"
	KindConflict   Kind = "Conflict"
	KindFailure    Kind = "Failure"
)

// Error is a structured domain error with a stable machine-readable code
// (e.g. "Habit.NotFound", "DateRange.TooLarge").
type Error struct {
	Code    string `json:"code"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// ErrorList is an ordered collection of domain errors. Validators return
// every violation at once instead of stopping at the first.
type ErrorList []*Error

func (l ErrorList) Error() string {
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validation creates a validation error.
func Validation(code, message string) *Error {
	return &Error{Code: code, Kind: KindValidation, Message: message}
}

// NotFound creates a not-found error. The same signal is used whether the
// record is absent or owned by another user, so existence never leaks.
func NotFound(code, message string) *Error {
	return &Error{Code: code, Kind: KindNotFound, Message: message}
}

// Conflict creates a business-rule conflict error.
func Conflict(code, message string) *Error {
	return &Error{Code: code, Kind: KindConflict, Message: message}
}

// Unwrap extracts the domain errors from err. It returns nil when err does
// not originate from this package (e.g. a persistence failure), in which
// case the caller should treat it as KindFailure.
func Unwrap(err error) ErrorList {
	switch e := err.(type) {
	case *Error:
		return ErrorList{e}
	case ErrorList:
		return e
	default:
		return nil
	}
}
