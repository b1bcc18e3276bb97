package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/habitflow/habitflow/internal/habits"
	"github.com/habitflow/habitflow/internal/middleware"
	"github.com/habitflow/habitflow/internal/models"
)

// NotificationStore provides read access to stored notifications.
type NotificationStore interface {
	GetByID(ctx context.Context, id int64, userID string) (*models.Notification, error)
	ListByUser(ctx context.Context, userID string, page, pageSize int) ([]*models.Notification, int, error)
}

// NotificationHandler serves the notification feed produced by the
// missed-due-day scanner.
type NotificationHandler struct {
	notifications NotificationStore
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifications NotificationStore) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// ListNotificationsResponse represents the paginated response for listing
// notifications
type ListNotificationsResponse struct {
	Notifications []*models.Notification `json:"notifications"`
	Page          int                    `json:"page"`
	PageSize      int                    `json:"page_size"`
	Total         int                    `json:"total"`
	TotalPages    int                    `json:"total_pages"`
}

// ListNotifications returns one page of the user's notifications, newest
// first
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	// Out-of-range paging values are clamped, not rejected, matching the
	// habit list.
	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 1 {
			page = parsed
		}
	}
	pageSize := habits.DefaultPageSize
	if ps := r.URL.Query().Get("page_size"); ps != "" {
		if parsed, err := strconv.Atoi(ps); err == nil {
			pageSize = parsed
		}
	}
	if pageSize < habits.MinPageSize {
		pageSize = habits.MinPageSize
	} else if pageSize > habits.MaxPageSize {
		pageSize = habits.MaxPageSize
	}

	notifications, total, err := h.notifications.ListByUser(r.Context(), user.ID.String(), page, pageSize)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve notifications")
		return
	}
	if notifications == nil {
		notifications = []*models.Notification{}
	}

	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	respondJSON(w, http.StatusOK, ListNotificationsResponse{
		Notifications: notifications,
		Page:          page,
		PageSize:      pageSize,
		Total:         total,
		TotalPages:    totalPages,
	})
}

// GetNotification retrieves a notification by ID. Absent rows and rows
// owned by another user get the same not-found signal.
func (h *NotificationHandler) GetNotification(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid notification ID")
		return
	}

	notification, err := h.notifications.GetByID(r.Context(), id, user.ID.String())
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve notification")
		return
	}
	if notification == nil {
		respondDomainError(w, habits.NotFound("Notification.NotFound", "Notification not found."))
		return
	}

	respondJSON(w, http.StatusOK, notification)
}
