// Package calendar answers working-day questions for a single German state.
package calendar

import (
	"fmt"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/de"
)

// DefaultState is used when no state is configured.
const DefaultState = "BY"

// stateHolidays maps the two-letter Bundesland code to the complete holiday
// list observed there. The library's per-state lists already contain the
// nationwide holidays.
var stateHolidays = map[string][]*cal.Holiday{
	"BW": de.HolidaysBW,
	"BY": de.HolidaysBY,
	"BE": de.HolidaysBE,
	"BB": de.HolidaysBB,
	"HB": de.HolidaysHB,
	"HH": de.HolidaysHH,
	"HE": de.HolidaysHE,
	"MV": de.HolidaysMV,
	"NI": de.HolidaysNI,
	"NW": de.HolidaysNW,
	"RP": de.HolidaysRP,
	"SL": de.HolidaysSL,
	"SN": de.HolidaysSN,
	"ST": de.HolidaysST,
	"SH": de.HolidaysSH,
	"TH": de.HolidaysTH,
}

// Calendar classifies dates as holiday, weekend, or workday for one state.
type Calendar struct {
	state    string
	business *cal.BusinessCalendar
}

// ValidState reports whether code names a known Bundesland.
func ValidState(code string) bool {
	_, ok := stateHolidays[code]
	return ok
}

// New builds a calendar for the given Bundesland code (e.g. "BY").
func New(state string) (*Calendar, error) {
	holidays, ok := stateHolidays[state]
	if !ok {
		return nil, fmt.Errorf("unknown german state code: %q", state)
	}

	business := cal.NewBusinessCalendar()
	business.AddHoliday(holidays...)

	return &Calendar{state: state, business: business}, nil
}

// State returns the configured Bundesland code.
func (c *Calendar) State() string {
	return c.state
}

// IsHoliday reports whether the date is a public holiday in the state.
func (c *Calendar) IsHoliday(date time.Time) bool {
	actual, _, _ := c.business.IsHoliday(date)
	return actual
}

// HolidayName returns the holiday's display name, or "" for regular days.
func (c *Calendar) HolidayName(date time.Time) string {
	actual, _, holiday := c.business.IsHoliday(date)
	if !actual || holiday == nil {
		return ""
	}
	return holiday.Name
}

// IsWeekend reports whether the date falls on Saturday or Sunday.
func (c *Calendar) IsWeekend(date time.Time) bool {
	weekday := date.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// IsWorkday reports whether the date is a Mon-Fri non-holiday.
func (c *Calendar) IsWorkday(date time.Time) bool {
	return !c.IsWeekend(date) && !c.IsHoliday(date)
}

// WorkdaysIn counts workdays in the inclusive date range.
func (c *Calendar) WorkdaysIn(start, end time.Time) int {
	count := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if c.IsWorkday(day) {
			count++
		}
	}
	return count
}
