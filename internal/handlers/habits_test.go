package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/habitflow/habitflow/internal/habits"
	"github.com/habitflow/habitflow/internal/middleware"
	"github.com/habitflow/habitflow/internal/models"
)

// stubStores is a single in-memory backend for the engine in handler tests.
type stubStores struct {
	habitRows   map[int]*models.Habit
	checkinRows []*models.Checkin
	timeZones   map[string]string
	nextHabitID int
	nextCheckin int64
}

func newStubStores() *stubStores {
	return &stubStores{
		habitRows:   make(map[int]*models.Habit),
		timeZones:   make(map[string]string),
		nextHabitID: 1,
		nextCheckin: 1,
	}
}

type stubHabitStore struct{ s *stubStores }

func (st stubHabitStore) Create(_ context.Context, h *models.Habit) error {
	h.ID = st.s.nextHabitID
	st.s.nextHabitID++
	st.s.habitRows[h.ID] = h
	return nil
}

func (st stubHabitStore) GetByID(_ context.Context, id int, userID string) (*models.Habit, error) {
	h, ok := st.s.habitRows[id]
	if !ok || h.UserID != userID {
		return nil, nil
	}
	copied := *h
	return &copied, nil
}

func (st stubHabitStore) Update(_ context.Context, h *models.Habit) error {
	copied := *h
	st.s.habitRows[h.ID] = &copied
	return nil
}

func (st stubHabitStore) Delete(_ context.Context, id int, userID string) (bool, error) {
	h, ok := st.s.habitRows[id]
	if !ok || h.UserID != userID {
		return false, nil
	}
	delete(st.s.habitRows, id)
	return true, nil
}

func (st stubHabitStore) CountByUser(_ context.Context, userID string) (int, error) {
	n := 0
	for _, h := range st.s.habitRows {
		if h.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (st stubHabitStore) List(_ context.Context, userID string, q habits.ListQuery) ([]*models.Habit, int, error) {
	var out []*models.Habit
	for _, h := range st.s.habitRows {
		if h.UserID == userID {
			copied := *h
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	total := len(out)
	offset := (q.Page - 1) * q.PageSize
	if offset >= total {
		return nil, total, nil
	}
	end := offset + q.PageSize
	if end > total {
		end = total
	}
	return out[offset:end], total, nil
}

func (st stubHabitStore) ListForDay(_ context.Context, userID string, dayMask byte) ([]*models.Habit, error) {
	var out []*models.Habit
	for _, h := range st.s.habitRows {
		if h.UserID == userID && h.DaysOfWeekMask&dayMask != 0 {
			copied := *h
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type stubCheckinStore struct{ s *stubStores }

func (st stubCheckinStore) Create(_ context.Context, c *models.Checkin) error {
	for _, existing := range st.s.checkinRows {
		if existing.HabitID == c.HabitID && existing.LocalDate.Equal(c.LocalDate) {
			return habits.ErrDuplicateCheckin
		}
	}
	c.ID = st.s.nextCheckin
	st.s.nextCheckin++
	copied := *c
	st.s.checkinRows = append(st.s.checkinRows, &copied)
	return nil
}

func (st stubCheckinStore) ListRange(_ context.Context, habitID int, from, to time.Time) ([]*models.Checkin, error) {
	var out []*models.Checkin
	for _, c := range st.s.checkinRows {
		if c.HabitID == habitID && !c.LocalDate.Before(from) && !c.LocalDate.After(to) {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (st stubCheckinStore) Exists(_ context.Context, habitID int, userID string, date time.Time) (bool, error) {
	for _, c := range st.s.checkinRows {
		if c.HabitID == habitID && c.UserID == userID && c.LocalDate.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (st stubCheckinStore) ListByDate(_ context.Context, userID string, date time.Time) ([]*models.Checkin, error) {
	var out []*models.Checkin
	for _, c := range st.s.checkinRows {
		if c.UserID == userID && c.LocalDate.Equal(date) {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

type stubUserStore struct{ s *stubStores }

func (st stubUserStore) GetTimeZone(_ context.Context, userID string) (string, error) {
	return st.s.timeZones[userID], nil
}

func newTestHandler() (*HabitHandler, *stubStores, *models.User) {
	stores := newStubStores()
	service := habits.NewService(stubHabitStore{stores}, stubCheckinStore{stores}, stubUserStore{stores}, nil)
	user := &models.User{ID: uuid.New(), Email: "test@example.com"}
	return NewHabitHandler(service), stores, user
}

func newRouter(h *HabitHandler) *mux.Router {
	r := mux.NewRouter()
	h.RegisterRoutes(r.PathPrefix("/api/v1/habits").Subrouter())
	return r
}

func doRequest(t *testing.T, router *mux.Router, user *models.User, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if user != nil {
		req = middleware.WithUser(req, user)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateHabitEndpoint(t *testing.T) {
	t.Parallel()

	handler, stores, user := newTestHandler()
	router := newRouter(handler)

	body := `{"title":"Morning run","type":1,"completion_mode":2,"days_of_week_mask":31,"target_value":5,"target_unit":"km"}`
	rec := doRequest(t, router, user, http.MethodPost, "/api/v1/habits", body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body: %s)", rec.Code, rec.Body.String())
	}
	if len(stores.habitRows) != 1 {
		t.Errorf("store holds %d habits, want 1", len(stores.habitRows))
	}

	var envelope struct {
		Success bool          `json:"success"`
		Data    *models.Habit `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if !envelope.Success || envelope.Data == nil || envelope.Data.Title != "Morning run" {
		t.Errorf("unexpected envelope: %s", rec.Body.String())
	}
}

func TestCreateHabitEndpointValidation(t *testing.T) {
	t.Parallel()

	handler, _, user := newTestHandler()
	router := newRouter(handler)

	body := `{"title":"","type":1,"completion_mode":2,"days_of_week_mask":0,"target_value":5}`
	rec := doRequest(t, router, user, http.MethodPost, "/api/v1/habits", body)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var envelope struct {
		Success bool `json:"success"`
		Errors  []struct {
			Code string `json:"code"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	codes := make([]string, 0, len(envelope.Errors))
	for _, e := range envelope.Errors {
		codes = append(codes, e.Code)
	}
	want := []string{"Habit.TitleRequired", "Habit.InvalidDaysOfWeekMask"}
	if len(codes) != len(want) || codes[0] != want[0] || codes[1] != want[1] {
		t.Errorf("error codes = %v, want %v", codes, want)
	}
}

func TestCreateHabitEndpointRejectsUnknownEnums(t *testing.T) {
	t.Parallel()

	handler, stores, user := newTestHandler()
	router := newRouter(handler)

	body := `{"title":"Stretch","type":9,"completion_mode":7,"days_of_week_mask":1,"target_value":1}`
	rec := doRequest(t, router, user, http.MethodPost, "/api/v1/habits", body)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body: %s)", rec.Code, rec.Body.String())
	}
	if len(stores.habitRows) != 0 {
		t.Errorf("store holds %d habits, want 0", len(stores.habitRows))
	}

	var envelope struct {
		Errors []struct {
			Code string `json:"code"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	codes := make([]string, 0, len(envelope.Errors))
	for _, e := range envelope.Errors {
		codes = append(codes, e.Code)
	}
	want := []string{"Habit.InvalidType", "Habit.InvalidCompletionMode"}
	if len(codes) != len(want) || codes[0] != want[0] || codes[1] != want[1] {
		t.Errorf("error codes = %v, want %v", codes, want)
	}
}

func TestUpdateHabitEndpointRejectsOutOfRangeFields(t *testing.T) {
	t.Parallel()

	handler, stores, user := newTestHandler()
	router := newRouter(handler)

	stores.habitRows[1] = &models.Habit{
		ID: 1, UserID: user.ID.String(), Title: "Read",
		Type: models.HabitTypeStart, CompletionMode: models.CompletionModeBinary,
		DaysOfWeekMask: 127, TargetValue: 1,
	}
	stores.nextHabitID = 2

	body := `{"days_of_week_mask":128,"target_value":1000}`
	rec := doRequest(t, router, user, http.MethodPatch, "/api/v1/habits/1", body)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body: %s)", rec.Code, rec.Body.String())
	}
	if stores.habitRows[1].DaysOfWeekMask != 127 || stores.habitRows[1].TargetValue != 1 {
		t.Errorf("habit changed despite rejected update: %+v", stores.habitRows[1])
	}

	var envelope struct {
		Errors []struct {
			Code string `json:"code"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	codes := make([]string, 0, len(envelope.Errors))
	for _, e := range envelope.Errors {
		codes = append(codes, e.Code)
	}
	want := []string{"Habit.InvalidDaysOfWeekMask", "Habit.InvalidTargetValue"}
	if len(codes) != len(want) || codes[0] != want[0] || codes[1] != want[1] {
		t.Errorf("error codes = %v, want %v", codes, want)
	}
}

func TestCreateHabitEndpointUnauthorized(t *testing.T) {
	t.Parallel()

	handler, _, _ := newTestHandler()
	router := newRouter(handler)

	rec := doRequest(t, router, nil, http.MethodPost, "/api/v1/habits", `{"title":"x"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestGetHabitEndpointNotFound(t *testing.T) {
	t.Parallel()

	handler, _, user := newTestHandler()
	router := newRouter(handler)

	rec := doRequest(t, router, user, http.MethodGet, "/api/v1/habits/42", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestCreateCheckinEndpointConflict(t *testing.T) {
	t.Parallel()

	handler, stores, user := newTestHandler()
	router := newRouter(handler)

	stores.habitRows[1] = &models.Habit{
		ID: 1, UserID: user.ID.String(), Title: "Read",
		Type: models.HabitTypeStart, CompletionMode: models.CompletionModeBinary,
		DaysOfWeekMask: 127, TargetValue: 1,
	}
	stores.nextHabitID = 2

	body := `{"date":"2025-01-06","actual_value":1}`
	if rec := doRequest(t, router, user, http.MethodPost, "/api/v1/habits/1/checkins", body); rec.Code != http.StatusCreated {
		t.Fatalf("first check-in status = %d, want 201 (body: %s)", rec.Code, rec.Body.String())
	}
	rec := doRequest(t, router, user, http.MethodPost, "/api/v1/habits/1/checkins", body)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate check-in status = %d, want 409", rec.Code)
	}
}

func TestGetCalendarEndpoint(t *testing.T) {
	t.Parallel()

	handler, stores, user := newTestHandler()
	router := newRouter(handler)

	stores.habitRows[1] = &models.Habit{
		ID: 1, UserID: user.ID.String(), Title: "Run",
		Type: models.HabitTypeStart, CompletionMode: models.CompletionModeBinary,
		DaysOfWeekMask: 31, TargetValue: 1,
	}
	stores.nextHabitID = 2

	rec := doRequest(t, router, user, http.MethodGet,
		"/api/v1/habits/1/calendar?from=2025-01-05&to=2025-01-11", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data CalendarView `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if len(envelope.Data.Days) != 7 {
		t.Fatalf("got %d days, want 7", len(envelope.Data.Days))
	}
	if envelope.Data.Days[0].IsPlanned || !envelope.Data.Days[1].IsPlanned {
		t.Errorf("unexpected planned flags: %+v", envelope.Data.Days)
	}

	// Missing range parameters are rejected before the engine runs.
	rec = doRequest(t, router, user, http.MethodGet, "/api/v1/habits/1/calendar", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing range status = %d, want 400", rec.Code)
	}
}

func TestListHabitsEndpointEnvelope(t *testing.T) {
	t.Parallel()

	handler, stores, user := newTestHandler()
	router := newRouter(handler)

	for i := 0; i < 3; i++ {
		id := stores.nextHabitID
		stores.habitRows[id] = &models.Habit{
			ID: id, UserID: user.ID.String(), Title: "Habit",
			Type: models.HabitTypeStart, CompletionMode: models.CompletionModeBinary,
			DaysOfWeekMask: 127, TargetValue: 1,
		}
		stores.nextHabitID++
	}

	rec := doRequest(t, router, user, http.MethodGet, "/api/v1/habits?page=1&page_size=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data ListHabitsResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if envelope.Data.Total != 3 || len(envelope.Data.Habits) != 2 || envelope.Data.TotalPages != 2 {
		t.Errorf("unexpected page envelope: %+v", envelope.Data)
	}
}
