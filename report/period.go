package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Period is one reporting month.
type Period struct {
	Year  int
	Month time.Month
}

// ParsePeriod accepts "YYYY-MM" and the German "MM.YYYY" form. Validation
// happens here, before any storage query is issued.
func ParsePeriod(raw string) (Period, error) {
	value := strings.TrimSpace(raw)

	var yearPart, monthPart string
	switch {
	case strings.Contains(value, "-"):
		parts := strings.SplitN(value, "-", 2)
		yearPart, monthPart = parts[0], parts[1]
	case strings.Contains(value, "."):
		parts := strings.SplitN(value, ".", 2)
		monthPart, yearPart = parts[0], parts[1]
	default:
		return Period{}, fmt.Errorf("invalid period %q (expected YYYY-MM or MM.YYYY)", raw)
	}

	year, err := strconv.Atoi(strings.TrimSpace(yearPart))
	if err != nil {
		return Period{}, fmt.Errorf("invalid period year in %q: %w", raw, err)
	}
	month, err := strconv.Atoi(strings.TrimSpace(monthPart))
	if err != nil {
		return Period{}, fmt.Errorf("invalid period month in %q: %w", raw, err)
	}
	if year < 1000 || year > 9999 {
		return Period{}, fmt.Errorf("invalid period year %d in %q", year, raw)
	}
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("invalid period month %d in %q", month, raw)
	}

	return Period{Year: year, Month: time.Month(month)}, nil
}

// Start is midnight on the first day of the month.
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.Local)
}

// End is the last instant of the last day of the month.
func (p Period) End() time.Time {
	firstOfNext := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.Local).AddDate(0, 1, 0)
	return firstOfNext.Add(-time.Nanosecond)
}

// Dates lists every calendar day of the period, inclusive.
func (p Period) Dates() []time.Time {
	start := p.Start()
	end := p.End()

	dates := make([]time.Time, 0, 31)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		dates = append(dates, day)
	}
	return dates
}

// Contains reports whether the date's calendar day falls inside the period.
func (p Period) Contains(date time.Time) bool {
	return date.Year() == p.Year && date.Month() == p.Month
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}
