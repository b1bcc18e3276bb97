package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/habitflow/habitflow/internal/database"
	"github.com/habitflow/habitflow/internal/models"
)

type mockProfileStore struct {
	updateTimeZoneFunc func(ctx context.Context, userID, timeZoneID string) error
}

func (m *mockProfileStore) UpdateTimeZone(ctx context.Context, userID, timeZoneID string) error {
	return m.updateTimeZoneFunc(ctx, userID, timeZoneID)
}

var (
	_ ProfileStore = (*mockProfileStore)(nil)
	_ ProfileStore = (*database.UserRepository)(nil)
)

func newProfileRouter(h *ProfileHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/profile", h.GetProfile).Methods("GET")
	r.HandleFunc("/api/v1/profile", h.UpdateProfile).Methods("PATCH")
	return r
}

func TestUpdateProfileTimeZone(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New(), Email: "test@example.com"}
	var gotTimeZone string
	store := &mockProfileStore{
		updateTimeZoneFunc: func(_ context.Context, userID, timeZoneID string) error {
			if userID != user.ID.String() {
				t.Errorf("updated user %s, want %s", userID, user.ID)
			}
			gotTimeZone = timeZoneID
			return nil
		},
	}
	router := newProfileRouter(NewProfileHandler(store))

	rec := doRequest(t, router, user, http.MethodPatch, "/api/v1/profile", `{"time_zone_id":"Europe/Warsaw"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	if gotTimeZone != "Europe/Warsaw" {
		t.Errorf("stored time zone = %q, want Europe/Warsaw", gotTimeZone)
	}

	var envelope struct {
		Data *models.User `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if envelope.Data == nil || envelope.Data.TimeZoneID != "Europe/Warsaw" {
		t.Errorf("unexpected profile: %s", rec.Body.String())
	}
}

func TestUpdateProfileRejectsInvalidTimeZone(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New(), Email: "test@example.com"}
	store := &mockProfileStore{
		updateTimeZoneFunc: func(_ context.Context, _, _ string) error {
			t.Error("store updated for an invalid time zone")
			return nil
		},
	}
	router := newProfileRouter(NewProfileHandler(store))

	rec := doRequest(t, router, user, http.MethodPatch, "/api/v1/profile", `{"time_zone_id":"Mars/Olympus"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body: %s)", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Errors []struct {
			Code string `json:"code"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if len(envelope.Errors) != 1 || envelope.Errors[0].Code != "User.InvalidTimeZone" {
		t.Errorf("unexpected error body: %s", rec.Body.String())
	}
}

func TestUpdateProfileWithoutFieldsIsNoOp(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New(), Email: "test@example.com", TimeZoneID: "UTC"}
	store := &mockProfileStore{
		updateTimeZoneFunc: func(_ context.Context, _, _ string) error {
			t.Error("store updated without a field present")
			return nil
		},
	}
	router := newProfileRouter(NewProfileHandler(store))

	rec := doRequest(t, router, user, http.MethodPatch, "/api/v1/profile", `{}`)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestGetProfile(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New(), Email: "test@example.com", TimeZoneID: "Asia/Tokyo"}
	router := newProfileRouter(NewProfileHandler(&mockProfileStore{}))

	rec := doRequest(t, router, user, http.MethodGet, "/api/v1/profile", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data *models.User `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if envelope.Data == nil || envelope.Data.TimeZoneID != "Asia/Tokyo" {
		t.Errorf("unexpected profile: %s", rec.Body.String())
	}
}
