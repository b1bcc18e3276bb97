package handlers

import (
	"context"
	"net/http"

	"github.com/habitflow/habitflow/internal/middleware"
)

// ProfileStore persists the profile fields a user can change.
type ProfileStore interface {
	UpdateTimeZone(ctx context.Context, userID string, timeZoneID string) error
}

// ProfileHandler handles user profile requests
type ProfileHandler struct {
	users ProfileStore
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(users ProfileStore) *ProfileHandler {
	return &ProfileHandler{users: users}
}

// UpdateProfileRequest represents a profile update request. The time zone
// drives today-view and progress date resolution.
type UpdateProfileRequest struct {
	TimeZoneID *string `json:"time_zone_id,omitempty" validate:"omitempty,iana_timezone"`
}

// GetProfile returns the authenticated user's profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// UpdateProfile applies a partial profile update
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req UpdateProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !validateBody(w, &req) {
		return
	}

	if req.TimeZoneID != nil {
		// An empty value clears the zone; the today view then requires an
		// explicit date again until a new zone is set.
		if err := h.users.UpdateTimeZone(r.Context(), user.ID.String(), *req.TimeZoneID); err != nil {
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update profile")
			return
		}
		user.TimeZoneID = *req.TimeZoneID
	}

	respondJSON(w, http.StatusOK, user)
}
