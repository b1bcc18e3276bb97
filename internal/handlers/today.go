package handlers

import (
	"net/http"
	"time"

	"github.com/habitflow/habitflow/internal/habits"
	"github.com/habitflow/habitflow/internal/middleware"
)

// TodayHandler handles the today view
type TodayHandler struct {
	service *habits.Service
}

// NewTodayHandler creates a new today handler
func NewTodayHandler(service *habits.Service) *TodayHandler {
	return &TodayHandler{service: service}
}

// GetToday lists the habits planned for the resolved date. Without an
// explicit date parameter the date is the current day in the user's
// configured time zone.
func (h *TodayHandler) GetToday(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var explicit *time.Time
	if d := r.URL.Query().Get("date"); d != "" {
		parsed, ok := parseDate(d)
		if !ok {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "date must be formatted as YYYY-MM-DD")
			return
		}
		explicit = &parsed
	}

	view, err := h.service.Today(r.Context(), user.ID.String(), explicit)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, todayResponse(view))
}
