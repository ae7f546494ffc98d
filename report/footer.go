package report

import (
	"fmt"
	"time"

	"stempeluhr/internal/timeutil"
)

// HolidayCalendar is the regional holiday lookup the engine consults.
type HolidayCalendar interface {
	IsHoliday(date time.Time) bool
	HolidayName(date time.Time) string
}

// Preferences are the user settings a report run depends on. They are passed
// explicitly; the engine holds no process-wide state.
type Preferences struct {
	AccountingColumns []string
	DailyTargetHours  float64
	ComplianceEnabled bool
	MaxDailyHours     float64
	Language          string
}

// Footer holds the derived Total/Target/Overtime/Compliance rows. Grand
// values are full-precision sums of the per-day values; rounding happens only
// at formatting time.
type Footer struct {
	DayTotals     map[string]float64
	GrandTotal    float64
	DayTargets    map[string]float64
	GrandTarget   float64
	GrandOvertime float64
	// Warnings maps ISO days exceeding the daily ceiling to a marker naming
	// the threshold. Empty unless compliance checking is enabled.
	Warnings map[string]string
}

// Overtime is the signed per-day difference between actual and target.
func (f Footer) Overtime(day string) float64 {
	return f.DayTotals[day] - f.DayTargets[day]
}

// HasWarnings reports whether the compliance row should be emitted at all.
func (f Footer) HasWarnings() bool {
	return len(f.Warnings) > 0
}

// ComputeFooter derives the footer rows from the matrix. Day totals sum the
// counted hours only, so excluded tasks stay visible in their own rows
// without feeding the totals.
func ComputeFooter(matrix *Matrix, dates []time.Time, holidays HolidayCalendar, prefs Preferences) Footer {
	footer := Footer{
		DayTotals:  make(map[string]float64, len(dates)),
		DayTargets: make(map[string]float64, len(dates)),
		Warnings:   make(map[string]string),
	}

	keys := matrix.Keys()
	for _, date := range dates {
		day := timeutil.DayKey(date)

		total := 0.0
		for _, key := range keys {
			total += matrix.CountedHours(key, day)
		}
		footer.DayTotals[day] = total
		footer.GrandTotal += total

		target := 0.0
		weekday := date.Weekday()
		isWeekend := weekday == time.Saturday || weekday == time.Sunday
		if !isWeekend && !holidays.IsHoliday(date) {
			target = prefs.DailyTargetHours
		}
		footer.DayTargets[day] = target
		footer.GrandTarget += target

		if prefs.ComplianceEnabled && total > prefs.MaxDailyHours {
			footer.Warnings[day] = fmt.Sprintf("> %sh!", trimFloat(prefs.MaxDailyHours))
		}
	}

	footer.GrandOvertime = footer.GrandTotal - footer.GrandTarget
	return footer
}

func trimFloat(value float64) string {
	return fmt.Sprintf("%g", value)
}
