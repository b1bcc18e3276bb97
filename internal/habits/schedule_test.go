package habits

import (
	"math/bits"
	"testing"
	"time"
)

func TestDayMask(t *testing.T) {
	t.Parallel()

	// 2025-01-06 is a Monday.
	tests := []struct {
		name string
		date time.Time
		want byte
	}{
		{"monday is bit 0", date(2025, time.January, 6), 1},
		{"tuesday is bit 1", date(2025, time.January, 7), 2},
		{"wednesday is bit 2", date(2025, time.January, 8), 4},
		{"thursday is bit 3", date(2025, time.January, 9), 8},
		{"friday is bit 4", date(2025, time.January, 10), 16},
		{"saturday is bit 5", date(2025, time.January, 11), 32},
		{"sunday is bit 6", date(2025, time.January, 5), 64},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := DayMask(tt.date); got != tt.want {
				t.Errorf("DayMask(%s) = %d, want %d", tt.date.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestIsPlannedWeekdayMask(t *testing.T) {
	t.Parallel()

	// Mask 31 = Monday through Friday. Walk a Sunday-to-Saturday week.
	start := date(2025, time.January, 5)
	want := []bool{false, true, true, true, true, true, false}

	for i, expected := range want {
		d := start.AddDate(0, 0, i)
		if got := IsPlanned(d, 31); got != expected {
			t.Errorf("IsPlanned(%s, 31) = %v, want %v", d.Format("2006-01-02"), got, expected)
		}
	}
}

func TestIsPlannedPopcountProperty(t *testing.T) {
	t.Parallel()

	// Over any 7 consecutive days the number of planned days equals the
	// mask's popcount, for every valid mask.
	start := date(2025, time.March, 12)
	for mask := 1; mask <= 127; mask++ {
		planned := 0
		for i := 0; i < 7; i++ {
			if IsPlanned(start.AddDate(0, 0, i), byte(mask)) {
				planned++
			}
		}
		if want := bits.OnesCount8(uint8(mask)); planned != want {
			t.Errorf("mask %d: planned %d days in a week, want %d", mask, planned, want)
		}
	}
}

func TestDateOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			"strips the time of day",
			time.Date(2025, time.June, 15, 23, 59, 59, 999, time.UTC),
			date(2025, time.June, 15),
		},
		{
			"keeps the wall-clock date of a zoned time",
			time.Date(2025, time.June, 15, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*3600)),
			date(2025, time.June, 15),
		},
		{
			"already normalized dates are unchanged",
			date(2025, time.June, 15),
			date(2025, time.June, 15),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := DateOf(tt.in); !got.Equal(tt.want) {
				t.Errorf("DateOf(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		from, to time.Time
		want     int
	}{
		{"single day", date(2025, time.January, 1), date(2025, time.January, 1), 1},
		{"one week", date(2025, time.January, 1), date(2025, time.January, 7), 7},
		{"quarter window", date(2025, time.January, 1), date(2025, time.March, 31), 90},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := daysBetween(tt.from, tt.to); got != tt.want {
				t.Errorf("daysBetween(%s, %s) = %d, want %d",
					tt.from.Format("2006-01-02"), tt.to.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}
