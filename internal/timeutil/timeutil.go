package timeutil

import "time"

func StartOfDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
}

// EndOfDay returns the last instant of the value's calendar day.
func EndOfDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), value.Location())
}

func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// DayKey is the canonical map key for a calendar day.
func DayKey(value time.Time) string {
	return value.Format("2006-01-02")
}

func MinutesFromMidnight(value time.Time) int {
	return value.Hour()*60 + value.Minute()
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. A zero end time marks an open-ended interval,
// which overlaps everything after its start.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	aOpen := aEnd.IsZero()
	bOpen := bEnd.IsZero()

	if aOpen && bOpen {
		return true
	}
	if aOpen {
		return bEnd.After(aStart)
	}
	if bOpen {
		return aEnd.After(bStart)
	}
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
