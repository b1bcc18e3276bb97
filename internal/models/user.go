package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated account. TimeZoneID holds the user's
// IANA time-zone identifier (e.g. "Europe/Warsaw") and is required before
// the today view can be resolved without an explicit date.
type User struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	ProviderID *string   `json:"provider_id,omitempty"`
	Name       *string   `json:"name,omitempty"`
	TimeZoneID string    `json:"time_zone_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
