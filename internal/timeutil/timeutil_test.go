package timeutil

import (
	"testing"
	"time"
)

func TestStartOfDay(t *testing.T) {
	t.Parallel()

	input := time.Date(2026, 3, 1, 14, 37, 9, 123, time.Local)
	got := StartOfDay(input)

	if got.Year() != 2026 || got.Month() != time.March || got.Day() != 1 {
		t.Fatalf("unexpected date: %v", got)
	}
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
		t.Fatalf("expected midnight, got %v", got)
	}
}

func TestEndOfDay(t *testing.T) {
	t.Parallel()

	input := time.Date(2026, 3, 1, 14, 37, 9, 123, time.Local)
	got := EndOfDay(input)

	if got.Day() != 1 || got.Hour() != 23 || got.Minute() != 59 || got.Second() != 59 {
		t.Fatalf("expected end of March 1st, got %v", got)
	}
}

func TestSameDay(t *testing.T) {
	t.Parallel()

	a := time.Date(2026, 3, 1, 9, 0, 0, 0, time.Local)
	b := time.Date(2026, 3, 1, 18, 30, 0, 0, time.Local)
	c := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)

	if !SameDay(a, b) {
		t.Fatalf("expected same day for %v and %v", a, b)
	}
	if SameDay(a, c) {
		t.Fatalf("expected different days for %v and %v", a, c)
	}
}

func TestDayKey(t *testing.T) {
	t.Parallel()

	input := time.Date(2026, 3, 1, 23, 50, 0, 0, time.Local)
	if got := DayKey(input); got != "2026-03-01" {
		t.Fatalf("expected 2026-03-01, got %s", got)
	}
}

func TestMinutesFromMidnight(t *testing.T) {
	t.Parallel()

	input := time.Date(2026, 3, 1, 13, 25, 0, 0, time.Local)
	if got := MinutesFromMidnight(input); got != 805 {
		t.Fatalf("expected 805, got %d", got)
	}
}

func TestOverlaps(t *testing.T) {
	t.Parallel()

	day := func(h, m int) time.Time {
		return time.Date(2026, 3, 1, h, m, 0, 0, time.Local)
	}

	if !Overlaps(day(9, 0), day(11, 0), day(10, 0), day(12, 0)) {
		t.Fatalf("expected overlap for intersecting intervals")
	}
	if Overlaps(day(9, 0), day(10, 0), day(10, 0), day(11, 0)) {
		t.Fatalf("adjacent intervals must not overlap")
	}
	if !Overlaps(day(9, 0), time.Time{}, day(10, 0), day(11, 0)) {
		t.Fatalf("open-ended interval must overlap later intervals")
	}
	if Overlaps(day(9, 0), time.Time{}, day(7, 0), day(8, 0)) {
		t.Fatalf("open-ended interval must not overlap intervals that end before its start")
	}
}
