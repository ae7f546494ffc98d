package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stempeluhr/timesheet"
)

func buildScenarioMatrix(t *testing.T, period Period, byTask map[int64][]timesheet.Entry, tasks []timesheet.Task, excluded []string) *Matrix {
	t.Helper()
	builder := &Builder{Entries: &fakeEntries{byTask: byTask}}
	matrix, err := builder.Build(BuildInput{
		Period:   period,
		Tasks:    tasks,
		Excluded: excluded,
	})
	require.NoError(t, err)
	return matrix
}

func TestComputeFooter_TargetSkipsWeekendsAndHolidays(t *testing.T) {
	period := january2026(t)
	matrix := buildScenarioMatrix(t, period, nil, nil, nil)
	holidays := &fakeCalendar{holidays: map[string]string{"2026-01-01": "Neujahr", "2026-01-06": "Heilige Drei Könige"}}

	footer := ComputeFooter(matrix, period.Dates(), holidays, Preferences{DailyTargetHours: 8})

	assert.Zero(t, footer.DayTargets["2026-01-01"], "holiday")
	assert.Zero(t, footer.DayTargets["2026-01-06"], "holiday on a Tuesday")
	assert.Zero(t, footer.DayTargets["2026-01-03"], "Saturday")
	assert.Zero(t, footer.DayTargets["2026-01-04"], "Sunday")
	assert.InDelta(t, 8.0, footer.DayTargets["2026-01-02"], 1e-9, "regular Friday")

	// 22 weekdays in January 2026 minus two weekday holidays.
	assert.InDelta(t, 20*8.0, footer.GrandTarget, 1e-9)
}

func TestComputeFooter_WeekendWorkCountsTowardTotalNotTarget(t *testing.T) {
	period := january2026(t)
	tasks := []timesheet.Task{{ID: 1, Name: "Development"}}
	matrix := buildScenarioMatrix(t, period, map[int64][]timesheet.Entry{
		// Saturday the 3rd.
		1: {completedEntry(1, "2026-01-03T10:00:00", 3*3600)},
	}, tasks, nil)

	footer := ComputeFooter(matrix, period.Dates(), &fakeCalendar{}, Preferences{DailyTargetHours: 8})

	assert.InDelta(t, 3.0, footer.DayTotals["2026-01-03"], 1e-9)
	assert.Zero(t, footer.DayTargets["2026-01-03"])
	assert.InDelta(t, 3.0, footer.Overtime("2026-01-03"), 1e-9)
}

func TestComputeFooter_ComplianceWarning(t *testing.T) {
	period := january2026(t)
	tasks := []timesheet.Task{{ID: 1, Name: "Development"}}
	matrix := buildScenarioMatrix(t, period, map[int64][]timesheet.Entry{
		// Monday the 5th, 10 hours.
		1: {completedEntry(1, "2026-01-05T08:00:00", 10*3600)},
	}, tasks, nil)

	prefs := Preferences{DailyTargetHours: 8, ComplianceEnabled: true, MaxDailyHours: 9.5}
	footer := ComputeFooter(matrix, period.Dates(), &fakeCalendar{}, prefs)

	assert.InDelta(t, 8.0, footer.DayTargets["2026-01-05"], 1e-9)
	assert.InDelta(t, 2.0, footer.Overtime("2026-01-05"), 1e-9)
	require.True(t, footer.HasWarnings())
	assert.Contains(t, footer.Warnings["2026-01-05"], "9.5")
	assert.Len(t, footer.Warnings, 1)
}

func TestComputeFooter_ComplianceDisabled(t *testing.T) {
	period := january2026(t)
	tasks := []timesheet.Task{{ID: 1, Name: "Development"}}
	matrix := buildScenarioMatrix(t, period, map[int64][]timesheet.Entry{
		1: {completedEntry(1, "2026-01-05T08:00:00", 12*3600)},
	}, tasks, nil)

	prefs := Preferences{DailyTargetHours: 8, ComplianceEnabled: false, MaxDailyHours: 9.5}
	footer := ComputeFooter(matrix, period.Dates(), &fakeCalendar{}, prefs)

	assert.False(t, footer.HasWarnings())
}

func TestComputeFooter_ExcludedHoursStayOutOfTotals(t *testing.T) {
	period := january2026(t)
	tasks := []timesheet.Task{
		{ID: 1, Name: "Development"},
		{ID: 2, Name: "Pause"},
	}
	matrix := buildScenarioMatrix(t, period, map[int64][]timesheet.Entry{
		1: {completedEntry(1, "2026-01-05T09:00:00", 4*3600)},
		2: {completedEntry(2, "2026-01-05T13:00:00", 3600)},
	}, tasks, []string{"Pause"})

	footer := ComputeFooter(matrix, period.Dates(), &fakeCalendar{}, Preferences{DailyTargetHours: 8})

	assert.InDelta(t, 4.0, footer.DayTotals["2026-01-05"], 1e-9)
	// The excluded row still shows its own hours.
	assert.InDelta(t, 1.0, matrix.RowTotal(Unassigned)-4.0, 1e-9)
}

func TestComputeFooter_GrandValuesAreFullPrecisionSums(t *testing.T) {
	period := january2026(t)
	tasks := []timesheet.Task{{ID: 1, Name: "Development"}}
	byTask := map[int64][]timesheet.Entry{1: {}}
	// 31 entries of 100 seconds each; summing rounded per-day values would
	// drift from the exact sum.
	for day := 1; day <= 31; day++ {
		byTask[1] = append(byTask[1], completedEntry(1,
			time.Date(2026, time.January, day, 9, 0, 0, 0, time.Local).Format("2006-01-02T15:04:05"), 100))
	}
	matrix := buildScenarioMatrix(t, period, byTask, tasks, nil)

	footer := ComputeFooter(matrix, period.Dates(), &fakeCalendar{}, Preferences{})
	assert.InDelta(t, 3100.0/3600.0, footer.GrandTotal, 1e-9)
}
