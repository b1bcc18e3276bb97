package habits

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/habitflow/habitflow/internal/models"
)

// fakeHabitStore is an in-memory HabitStore used across the service tests.
type fakeHabitStore struct {
	mu     sync.Mutex
	rows   map[int]*models.Habit
	nextID int

	// staleCount, when set, is returned by CountByUser regardless of the
	// actual row count. Used to exercise the advisory cap semantics.
	staleCount *int
}

func newFakeHabitStore() *fakeHabitStore {
	return &fakeHabitStore{rows: make(map[int]*models.Habit), nextID: 1}
}

func (f *fakeHabitStore) add(h *models.Habit) *models.Habit {
	f.mu.Lock()
	defer f.mu.Unlock()
	if h.ID == 0 {
		h.ID = f.nextID
		f.nextID++
	} else if h.ID >= f.nextID {
		f.nextID = h.ID + 1
	}
	f.rows[h.ID] = h
	return h
}

func (f *fakeHabitStore) Create(_ context.Context, habit *models.Habit) error {
	f.add(habit)
	return nil
}

func (f *fakeHabitStore) GetByID(_ context.Context, id int, userID string) (*models.Habit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.rows[id]
	if !ok || h.UserID != userID {
		return nil, nil
	}
	copied := *h
	return &copied, nil
}

func (f *fakeHabitStore) Update(_ context.Context, habit *models.Habit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *habit
	f.rows[habit.ID] = &copied
	return nil
}

func (f *fakeHabitStore) Delete(_ context.Context, id int, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.rows[id]
	if !ok || h.UserID != userID {
		return false, nil
	}
	delete(f.rows, id)
	return true, nil
}

func (f *fakeHabitStore) CountByUser(_ context.Context, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.staleCount != nil {
		return *f.staleCount, nil
	}
	n := 0
	for _, h := range f.rows {
		if h.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeHabitStore) List(_ context.Context, userID string, q ListQuery) ([]*models.Habit, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var filtered []*models.Habit
	for _, h := range f.rows {
		if h.UserID != userID {
			continue
		}
		if q.Type != nil && h.Type != *q.Type {
			continue
		}
		if q.CompletionMode != nil && h.CompletionMode != *q.CompletionMode {
			continue
		}
		if q.Active != nil {
			active := h.DeadlineDate == nil || !h.DeadlineDate.Before(q.Today)
			if active != *q.Active {
				continue
			}
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(h.Title), strings.ToLower(q.Search)) {
			continue
		}
		copied := *h
		filtered = append(filtered, &copied)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		var less bool
		switch q.SortField {
		case SortTitle:
			less = a.Title < b.Title
		case SortDeadline:
			switch {
			case a.DeadlineDate == nil && b.DeadlineDate == nil:
				less = a.ID < b.ID
			case a.DeadlineDate == nil:
				less = false
			case b.DeadlineDate == nil:
				less = true
			default:
				less = a.DeadlineDate.Before(*b.DeadlineDate)
			}
		default:
			less = a.CreatedAtUtc.Before(b.CreatedAtUtc)
		}
		if q.SortDir == SortDesc {
			return !less && !equalForSort(a, b, q.SortField)
		}
		return less
	})

	total := len(filtered)
	offset := (q.Page - 1) * q.PageSize
	if offset >= total {
		return nil, total, nil
	}
	end := offset + q.PageSize
	if end > total {
		end = total
	}
	return filtered[offset:end], total, nil
}

func equalForSort(a, b *models.Habit, field SortField) bool {
	switch field {
	case SortTitle:
		return a.Title == b.Title
	case SortDeadline:
		if a.DeadlineDate == nil || b.DeadlineDate == nil {
			return a.DeadlineDate == b.DeadlineDate
		}
		return a.DeadlineDate.Equal(*b.DeadlineDate)
	default:
		return a.CreatedAtUtc.Equal(b.CreatedAtUtc)
	}
}

func (f *fakeHabitStore) ListForDay(_ context.Context, userID string, dayMask byte) ([]*models.Habit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Habit
	for _, h := range f.rows {
		if h.UserID == userID && h.DaysOfWeekMask&dayMask != 0 {
			copied := *h
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// fakeCheckinStore is an in-memory CheckinStore.
type fakeCheckinStore struct {
	mu     sync.Mutex
	rows   []*models.Checkin
	nextID int64
}

func newFakeCheckinStore() *fakeCheckinStore {
	return &fakeCheckinStore{nextID: 1}
}

func (f *fakeCheckinStore) Create(_ context.Context, checkin *models.Checkin) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.rows {
		if c.HabitID == checkin.HabitID && c.LocalDate.Equal(checkin.LocalDate) {
			return ErrDuplicateCheckin
		}
	}
	checkin.ID = f.nextID
	f.nextID++
	copied := *checkin
	f.rows = append(f.rows, &copied)
	return nil
}

func (f *fakeCheckinStore) ListRange(_ context.Context, habitID int, from, to time.Time) ([]*models.Checkin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Checkin
	for _, c := range f.rows {
		if c.HabitID == habitID && !c.LocalDate.Before(from) && !c.LocalDate.After(to) {
			copied := *c
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LocalDate.Before(out[j].LocalDate) })
	return out, nil
}

func (f *fakeCheckinStore) Exists(_ context.Context, habitID int, userID string, date time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.rows {
		if c.HabitID == habitID && c.UserID == userID && c.LocalDate.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCheckinStore) ListByDate(_ context.Context, userID string, date time.Time) ([]*models.Checkin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Checkin
	for _, c := range f.rows {
		if c.UserID == userID && c.LocalDate.Equal(date) {
			copied := *c
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HabitID < out[j].HabitID })
	return out, nil
}

// fakeUserStore maps user IDs to time-zone identifiers.
type fakeUserStore struct {
	zones map[string]string
}

func (f *fakeUserStore) GetTimeZone(_ context.Context, userID string) (string, error) {
	return f.zones[userID], nil
}

// newTestService wires a service over fresh fakes with a fixed clock.
func newTestService(nowUTC time.Time) (*Service, *fakeHabitStore, *fakeCheckinStore, *fakeUserStore) {
	hs := newFakeHabitStore()
	cs := newFakeCheckinStore()
	us := &fakeUserStore{zones: make(map[string]string)}
	svc := NewService(hs, cs, us, nil)
	svc.now = func() time.Time { return nowUTC }
	return svc, hs, cs, us
}

// errCodes extracts the domain error codes from err, failing the test when
// err is nil or not a domain error.
func errCodes(t *testing.T, err error) []string {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	list := Unwrap(err)
	if list == nil {
		t.Fatalf("expected a domain error, got %T: %v", err, err)
	}
	codes := make([]string, len(list))
	for i, e := range list {
		codes[i] = e.Code
	}
	return codes
}

// wantCode asserts that err is a single domain error with the given code
// and kind.
func wantCode(t *testing.T, err error, code string, kind Kind) {
	t.Helper()
	codes := errCodes(t, err)
	if len(codes) != 1 || codes[0] != code {
		t.Fatalf("error codes = %v, want [%s]", codes, code)
	}
	if got := Unwrap(err)[0].Kind; got != kind {
		t.Fatalf("error kind = %s, want %s", got, kind)
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func strptr(s string) *string { return &s }

func intptr(i int) *int { return &i }

func byteptr(b byte) *byte { return &b }

func boolptr(b bool) *bool { return &b }
