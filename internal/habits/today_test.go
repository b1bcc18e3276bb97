package habits

import (
	"context"
	"testing"
	"time"

	"github.com/habitflow/habitflow/internal/models"
)

func TestTodayBlankUser(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newTestService(date(2025, time.June, 1))
	_, err := svc.Today(context.Background(), "", nil)
	wantCode(t, err, "User.InvalidId", KindValidation)
}

func TestTodayExplicitDate(t *testing.T) {
	t.Parallel()

	svc, hs, cs, _ := newTestService(date(2025, time.June, 1))
	// Monday 2025-01-06. Habit 1 covers weekdays, habit 2 only the weekend.
	seedHabit(hs, 1, "user-1", 31, models.CompletionModeQuantitative, models.HabitTypeStart, 5)
	seedHabit(hs, 2, "user-1", 96, models.CompletionModeBinary, models.HabitTypeStart, 1)
	seedHabit(hs, 3, "someone-else", 127, models.CompletionModeBinary, models.HabitTypeStart, 1)

	target := date(2025, time.January, 6)
	cs.rows = append(cs.rows, &models.Checkin{
		ID: 1, HabitID: 1, UserID: "user-1", LocalDate: target,
		ActualValue: 5, TargetValueSnapshot: 5,
		CompletionModeSnapshot: models.CompletionModeQuantitative,
		HabitTypeSnapshot:      models.HabitTypeStart, IsPlanned: true,
	})

	// An explicit date skips time-zone resolution entirely, so the user
	// needs no configured zone here.
	view, err := svc.Today(context.Background(), "user-1", &target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !view.Date.Equal(target) {
		t.Errorf("view date = %v, want %v", view.Date, target)
	}
	if len(view.Items) != 1 {
		t.Fatalf("got %d items, want 1 (unplanned habits are excluded)", len(view.Items))
	}

	item := view.Items[0]
	if item.HabitID != 1 {
		t.Errorf("item habit = %d, want 1", item.HabitID)
	}
	if !item.IsPlanned {
		t.Error("listed items are always planned")
	}
	if !item.HasCheckin {
		t.Error("HasCheckin = false despite a recorded check-in")
	}
}

func TestTodayResolvesUserTimeZone(t *testing.T) {
	t.Parallel()

	// 02:00 UTC on Sunday 2025-06-01 is still Saturday 2025-05-31 in New
	// York. The Saturday-only habit must be planned, the Sunday-only one
	// must not.
	now := time.Date(2025, time.June, 1, 2, 0, 0, 0, time.UTC)
	svc, hs, _, us := newTestService(now)
	us.zones["user-1"] = "America/New_York"
	seedHabit(hs, 1, "user-1", 32, models.CompletionModeBinary, models.HabitTypeStart, 1)
	seedHabit(hs, 2, "user-1", 64, models.CompletionModeBinary, models.HabitTypeStart, 1)

	view, err := svc.Today(context.Background(), "user-1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := date(2025, time.May, 31); !view.Date.Equal(want) {
		t.Errorf("resolved date = %v, want %v", view.Date, want)
	}
	if len(view.Items) != 1 || view.Items[0].HabitID != 1 {
		t.Errorf("items = %+v, want only the Saturday habit", view.Items)
	}
}

func TestTodayTimeZoneErrors(t *testing.T) {
	t.Parallel()

	svc, _, _, us := newTestService(date(2025, time.June, 1))
	us.zones["no-zone"] = ""
	us.zones["bad-zone"] = "Not/AZone"

	_, err := svc.Today(context.Background(), "no-zone", nil)
	wantCode(t, err, "User.TimeZoneMissing", KindValidation)

	_, err = svc.Today(context.Background(), "bad-zone", nil)
	wantCode(t, err, "User.InvalidTimeZone", KindValidation)
}

func TestTodayEmptyWhenNothingPlanned(t *testing.T) {
	t.Parallel()

	svc, hs, _, _ := newTestService(date(2025, time.June, 1))
	seedHabit(hs, 1, "user-1", 64, models.CompletionModeBinary, models.HabitTypeStart, 1)

	monday := date(2025, time.January, 6)
	view, err := svc.Today(context.Background(), "user-1", &monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Items) != 0 {
		t.Errorf("got %d items, want none", len(view.Items))
	}
}
