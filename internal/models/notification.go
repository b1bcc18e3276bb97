package models

import (
	"time"
)

// NotificationType identifies the reason a notification was generated.
type NotificationType byte

const (
	// NotificationTypeMissDue is generated when a planned day passed without a check-in.
	NotificationTypeMissDue NotificationType = 1
)

// Notification is a persisted, read-only record shown to the user.
// Delivery channels are out of scope; rows are produced by the miss-due worker.
type Notification struct {
	ID           int64            `json:"id"`
	UserID       string           `json:"user_id"`
	HabitID      int              `json:"habit_id"`
	LocalDate    time.Time        `json:"local_date"`
	Type         NotificationType `json:"type"`
	Content      string           `json:"content"`
	CreatedAtUtc time.Time        `json:"created_at_utc"`
}
