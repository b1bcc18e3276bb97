package habits

import (
	"time"
)

// Weekly recurrence is a 7-bit mask with Monday at bit 0 through Sunday at
// bit 6. Go's time.Weekday starts at Sunday=0, so Sunday maps to bit 6.

// DayMask returns the single-bit mask for the weekday of date.
func DayMask(date time.Time) byte {
	return 1 << bitIndex(date)
}

// IsPlanned reports whether date is a planned day under mask.
func IsPlanned(date time.Time, mask byte) bool {
	return mask&DayMask(date) != 0
}

func bitIndex(date time.Time) uint {
	wd := date.Weekday()
	if wd == time.Sunday {
		return 6
	}
	return uint(wd) - 1
}

// DateOf truncates t to its calendar date at UTC midnight. All local dates
// in the domain are carried this way.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the inclusive day count of [from, to]. Both arguments
// must already be date-normalized.
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from)/(24*time.Hour)) + 1
}
