package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/habitflow/habitflow/internal/habits"
	"github.com/habitflow/habitflow/internal/middleware"
	"github.com/habitflow/habitflow/internal/models"
	"github.com/habitflow/habitflow/internal/validation"
)

// HabitHandler handles habit-related requests
type HabitHandler struct {
	service *habits.Service
}

// NewHabitHandler creates a new habit handler
func NewHabitHandler(service *habits.Service) *HabitHandler {
	return &HabitHandler{service: service}
}

// RegisterRoutes registers habit routes on the given router.
// The router should already have the /habits prefix.
func (h *HabitHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListHabits).Methods("GET")
	r.HandleFunc("", h.CreateHabit).Methods("POST")
	r.HandleFunc("/{id}", h.GetHabit).Methods("GET")
	r.HandleFunc("/{id}", h.UpdateHabit).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteHabit).Methods("DELETE")
	r.HandleFunc("/{id}/calendar", h.GetCalendar).Methods("GET")
	r.HandleFunc("/{id}/checkins", h.CreateCheckin).Methods("POST")
	r.HandleFunc("/{id}/checkins", h.ListCheckins).Methods("GET")
	r.HandleFunc("/{id}/progress/rolling", h.GetRollingProgress).Methods("GET")
}

// CreateHabitRequest represents a create habit request
type CreateHabitRequest struct {
	Title          string  `json:"title" validate:"required,max=80"`
	Description    *string `json:"description,omitempty" validate:"omitempty,max=280"`
	Type           byte    `json:"type" validate:"habit_type"`
	CompletionMode byte    `json:"completion_mode" validate:"completion_mode"`
	DaysOfWeekMask byte    `json:"days_of_week_mask" validate:"min=1,max=127"`
	TargetValue    int     `json:"target_value" validate:"min=1,max=100"`
	TargetUnit     *string `json:"target_unit,omitempty" validate:"omitempty,max=32"`
	DeadlineDate   *string `json:"deadline_date,omitempty"`
}

// UpdateHabitRequest represents a partial habit update
type UpdateHabitRequest struct {
	Title          *string `json:"title,omitempty" validate:"omitempty,max=80"`
	Description    *string `json:"description,omitempty" validate:"omitempty,max=280"`
	Type           *byte   `json:"type,omitempty" validate:"omitempty,habit_type"`
	CompletionMode *byte   `json:"completion_mode,omitempty" validate:"omitempty,completion_mode"`
	DaysOfWeekMask *byte   `json:"days_of_week_mask,omitempty" validate:"omitempty,min=1,max=127"`
	TargetValue    *int    `json:"target_value,omitempty" validate:"omitempty,min=1,max=100"`
	TargetUnit     *string `json:"target_unit,omitempty" validate:"omitempty,max=32"`
	DeadlineDate   *string `json:"deadline_date,omitempty"`
	ClearDeadline  bool    `json:"clear_deadline,omitempty"`
}

// CreateCheckinRequest represents a check-in recording request
type CreateCheckinRequest struct {
	Date        string `json:"date"`
	ActualValue int    `json:"actual_value" validate:"min=0"`
}

// ListHabitsResponse represents the paginated response for listing habits
type ListHabitsResponse struct {
	Habits     []*models.Habit `json:"habits"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	Total      int             `json:"total"`
	TotalPages int             `json:"total_pages"`
}

// ListHabits lists habits for the authenticated user with filtering,
// sorting, and pagination
func (h *HabitHandler) ListHabits(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	query := r.URL.Query()
	q := habits.ListQuery{
		Page:      1,
		PageSize:  habits.DefaultPageSize,
		Search:    query.Get("search"),
		SortField: habits.SortField(query.Get("sort_by")),
		SortDir:   habits.SortDirection(query.Get("sort_dir")),
	}

	// Out-of-range paging values are clamped by the engine, not rejected.
	if p := query.Get("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil {
			q.Page = parsed
		}
	}
	if ps := query.Get("page_size"); ps != "" {
		if parsed, err := strconv.Atoi(ps); err == nil {
			q.PageSize = parsed
		}
	}

	if t := query.Get("type"); t != "" {
		if err := validation.ValidateHabitType(t); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		parsed, _ := strconv.Atoi(t)
		typ := models.HabitType(parsed)
		q.Type = &typ
	}
	if m := query.Get("completion_mode"); m != "" {
		if err := validation.ValidateCompletionMode(m); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		parsed, _ := strconv.Atoi(m)
		mode := models.CompletionMode(parsed)
		q.CompletionMode = &mode
	}
	if a := query.Get("active"); a != "" {
		parsed, err := strconv.ParseBool(a)
		if err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "active must be true or false")
			return
		}
		q.Active = &parsed
	}

	items, total, err := h.service.List(r.Context(), user.ID.String(), q)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	pageSize := q.PageSize
	if pageSize < habits.MinPageSize {
		pageSize = habits.MinPageSize
	} else if pageSize > habits.MaxPageSize {
		pageSize = habits.MaxPageSize
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if items == nil {
		items = []*models.Habit{}
	}

	respondJSON(w, http.StatusOK, ListHabitsResponse{
		Habits:     items,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	})
}

// CreateHabit creates a new habit
func (h *HabitHandler) CreateHabit(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req CreateHabitRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !validateBody(w, &req) {
		return
	}

	in := habits.CreateHabitInput{
		Title:          validation.SanitizeText(req.Title),
		Type:           req.Type,
		CompletionMode: req.CompletionMode,
		DaysOfWeekMask: req.DaysOfWeekMask,
		TargetValue:    req.TargetValue,
		TargetUnit:     req.TargetUnit,
	}
	if req.Description != nil {
		desc := validation.SanitizeText(*req.Description)
		in.Description = &desc
	}
	if req.DeadlineDate != nil {
		deadline, ok := parseDate(*req.DeadlineDate)
		if !ok {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "deadline_date must be formatted as YYYY-MM-DD")
			return
		}
		in.DeadlineDate = &deadline
	}

	habit, err := h.service.Create(r.Context(), user.ID.String(), in)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, habit)
}

// GetHabit retrieves a habit by ID
func (h *HabitHandler) GetHabit(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	id, ok := habitID(w, r)
	if !ok {
		return
	}

	habit, err := h.service.Get(r.Context(), id, user.ID.String())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, habit)
}

// UpdateHabit applies a partial update to a habit
func (h *HabitHandler) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	id, ok := habitID(w, r)
	if !ok {
		return
	}

	var req UpdateHabitRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !validateBody(w, &req) {
		return
	}

	in := habits.UpdateHabitInput{
		Type:           req.Type,
		CompletionMode: req.CompletionMode,
		DaysOfWeekMask: req.DaysOfWeekMask,
		TargetValue:    req.TargetValue,
		TargetUnit:     req.TargetUnit,
		ClearDeadline:  req.ClearDeadline,
	}
	if req.Title != nil {
		title := validation.SanitizeText(*req.Title)
		in.Title = &title
	}
	if req.Description != nil {
		desc := validation.SanitizeText(*req.Description)
		in.Description = &desc
	}
	if req.DeadlineDate != nil {
		deadline, ok := parseDate(*req.DeadlineDate)
		if !ok {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "deadline_date must be formatted as YYYY-MM-DD")
			return
		}
		in.DeadlineDate = &deadline
	}

	habit, err := h.service.Update(r.Context(), id, user.ID.String(), in)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, habit)
}

// DeleteHabit deletes a habit and its recorded history
func (h *HabitHandler) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	id, ok := habitID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id, user.ID.String()); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetCalendar returns the day-by-day schedule and scoring view for a habit
// over an inclusive date range
func (h *HabitHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	id, ok := habitID(w, r)
	if !ok {
		return
	}

	from, to, ok := dateRange(w, r)
	if !ok {
		return
	}

	calendar, err := h.service.BuildCalendar(r.Context(), id, user.ID.String(), from, to)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, calendarResponse(calendar))
}

// CreateCheckin records a check-in for a habit on one local date
func (h *HabitHandler) CreateCheckin(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	id, ok := habitID(w, r)
	if !ok {
		return
	}

	var req CreateCheckinRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !validateBody(w, &req) {
		return
	}

	day, ok := parseDate(req.Date)
	if !ok {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "date must be formatted as YYYY-MM-DD")
		return
	}

	checkin, err := h.service.CreateCheckin(r.Context(), id, user.ID.String(), day, req.ActualValue)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, checkin)
}

// ListCheckins returns a habit's check-ins over an inclusive date range
func (h *HabitHandler) ListCheckins(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	id, ok := habitID(w, r)
	if !ok {
		return
	}

	from, to, ok := dateRange(w, r)
	if !ok {
		return
	}

	checkins, err := h.service.ListCheckins(r.Context(), id, user.ID.String(), from, to)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if checkins == nil {
		checkins = []*models.Checkin{}
	}

	respondJSON(w, http.StatusOK, checkins)
}

// GetRollingProgress returns trailing-window completion statistics
func (h *HabitHandler) GetRollingProgress(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	id, ok := habitID(w, r)
	if !ok {
		return
	}

	windowDays := 7
	if wd := r.URL.Query().Get("window_days"); wd != "" {
		parsed, err := strconv.Atoi(wd)
		if err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "window_days must be an integer")
			return
		}
		windowDays = parsed
	}

	var until *time.Time
	if u := r.URL.Query().Get("until"); u != "" {
		parsed, ok := parseDate(u)
		if !ok {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "until must be formatted as YYYY-MM-DD")
			return
		}
		until = &parsed
	}

	progress, err := h.service.Progress(r.Context(), id, user.ID.String(), windowDays, until)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, progressResponse(progress))
}

// habitID extracts and validates the habit path parameter.
func habitID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid habit ID")
		return 0, false
	}
	return id, true
}

// dateRange extracts the required from/to query parameters.
func dateRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	from, okFrom := parseDate(r.URL.Query().Get("from"))
	to, okTo := parseDate(r.URL.Query().Get("to"))
	if !okFrom || !okTo {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "from and to must be formatted as YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// decodeBody decodes a JSON request body, reporting the error itself.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large",
				fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return false
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return false
	}
	return true
}
