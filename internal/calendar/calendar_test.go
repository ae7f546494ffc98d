package calendar

import (
	"testing"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/de"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestNewRejectsUnknownState(t *testing.T) {
	_, err := New("XX")
	require.Error(t, err)
}

func TestNationalHolidays(t *testing.T) {
	c, err := New("BY")
	require.NoError(t, err)

	assert.True(t, c.IsHoliday(date(2026, time.January, 1)), "Neujahr")
	assert.True(t, c.IsHoliday(date(2026, time.May, 1)), "Tag der Arbeit")
	assert.True(t, c.IsHoliday(date(2026, time.October, 3)), "Tag der Deutschen Einheit")
	assert.True(t, c.IsHoliday(date(2026, time.December, 25)))
	assert.True(t, c.IsHoliday(date(2026, time.December, 26)))
	assert.False(t, c.IsHoliday(date(2026, time.July, 14)))
}

func TestEasterDerivedHolidays(t *testing.T) {
	c, err := New("BY")
	require.NoError(t, err)

	// Easter Sunday 2026 is April 5th.
	assert.True(t, c.IsHoliday(date(2026, time.April, 3)), "Karfreitag")
	assert.True(t, c.IsHoliday(date(2026, time.April, 6)), "Ostermontag")
	assert.True(t, c.IsHoliday(date(2026, time.May, 14)), "Christi Himmelfahrt")
	assert.True(t, c.IsHoliday(date(2026, time.May, 25)), "Pfingstmontag")
	assert.True(t, c.IsHoliday(date(2026, time.June, 4)), "Fronleichnam")
}

func TestStateSpecificHolidays(t *testing.T) {
	bavaria, err := New("BY")
	require.NoError(t, err)
	berlin, err := New("BE")
	require.NoError(t, err)
	saarland, err := New("SL")
	require.NoError(t, err)

	epiphany := date(2026, time.January, 6)
	assert.True(t, bavaria.IsHoliday(epiphany))
	assert.False(t, berlin.IsHoliday(epiphany))

	assumption := date(2026, time.August, 15)
	assert.True(t, saarland.IsHoliday(assumption))
	assert.False(t, berlin.IsHoliday(assumption))
}

func TestRecentStateHolidays(t *testing.T) {
	berlin, err := New("BE")
	require.NoError(t, err)
	thuringia, err := New("TH")
	require.NoError(t, err)

	// Frauentag (Berlin) and Weltkindertag (Thuringia), both public
	// holidays since 2019.
	assert.True(t, berlin.IsHoliday(date(2026, time.March, 8)), "Frauentag")
	assert.Equal(t, "Frauentag", berlin.HolidayName(date(2026, time.March, 8)))
	assert.False(t, thuringia.IsHoliday(date(2026, time.March, 8)))

	assert.True(t, thuringia.IsHoliday(date(2026, time.September, 20)), "Weltkindertag")
	assert.Equal(t, "Weltkindertag", thuringia.HolidayName(date(2026, time.September, 20)))
	assert.False(t, berlin.IsHoliday(date(2026, time.September, 20)))

	// Both fall on workdays in 2027 and suppress the day's target.
	assert.False(t, berlin.IsWorkday(date(2027, time.March, 8)))
	assert.False(t, thuringia.IsWorkday(date(2027, time.September, 20)))
}

func TestStateHolidaySetsMatchLibrary(t *testing.T) {
	library := map[string][]*cal.Holiday{
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

	for code, holidays := range library {
		c, err := New(code)
		require.NoErrorf(t, err, "state %s", code)

		for _, holiday := range holidays {
			actual, _ := holiday.Calc(2026)
			if actual.IsZero() {
				continue
			}
			assert.Truef(t, c.IsHoliday(actual), "state %s misses %s (%s)",
				code, holiday.Name, actual.Format("2006-01-02"))
		}
	}
}

func TestHolidayName(t *testing.T) {
	c, err := New("BY")
	require.NoError(t, err)

	assert.NotEmpty(t, c.HolidayName(date(2026, time.January, 1)))
	assert.Empty(t, c.HolidayName(date(2026, time.July, 14)))
}

func TestWeekendAndWorkday(t *testing.T) {
	c, err := New("BY")
	require.NoError(t, err)

	saturday := date(2026, time.January, 3)
	monday := date(2026, time.January, 5)

	assert.True(t, c.IsWeekend(saturday))
	assert.False(t, c.IsWorkday(saturday))
	assert.False(t, c.IsWeekend(monday))
	assert.True(t, c.IsWorkday(monday))

	// New Year's Day 2026 is a Thursday but still not a workday.
	assert.False(t, c.IsWorkday(date(2026, time.January, 1)))
}

func TestWorkdaysIn(t *testing.T) {
	c, err := New("BE")
	require.NoError(t, err)

	// January 2026: 31 days, 9 weekend days (5 Sat + 4 Sun), Jan 1 holiday.
	got := c.WorkdaysIn(date(2026, time.January, 1), date(2026, time.January, 31))
	assert.Equal(t, 21, got)
}
