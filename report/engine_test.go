package report

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stempeluhr/timesheet"
)

// --- shared fakes ---

type fakeEntries struct {
	byTask map[int64][]timesheet.Entry
	err    error
}

func (f *fakeEntries) EntriesForTask(taskID int64, start, end time.Time) ([]timesheet.Entry, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []timesheet.Entry
	for _, entry := range f.byTask[taskID] {
		if !entry.StartTime.Before(start) && !entry.StartTime.After(end) {
			out = append(out, entry)
		}
	}
	return out, nil
}

type fakeTasks struct {
	tasks []timesheet.Task
	err   error
}

func (f *fakeTasks) ActiveTasks() ([]timesheet.Task, error) {
	return f.tasks, f.err
}

type fakeProfiles struct {
	profiles []timesheet.Profile
	err      error
}

func (f *fakeProfiles) ActiveProfiles() ([]timesheet.Profile, error) {
	return f.profiles, f.err
}

type fakeCalendar struct {
	holidays map[string]string // ISO day -> name
}

func (f *fakeCalendar) IsHoliday(date time.Time) bool {
	_, ok := f.holidays[date.Format("2006-01-02")]
	return ok
}

func (f *fakeCalendar) HolidayName(date time.Time) string {
	return f.holidays[date.Format("2006-01-02")]
}

func completedEntry(taskID int64, start string, durationSeconds int) timesheet.Entry {
	startTime, err := time.ParseInLocation("2006-01-02T15:04:05", start, time.Local)
	if err != nil {
		panic(err)
	}
	return timesheet.Entry{
		TaskID:          taskID,
		StartTime:       startTime,
		EndTime:         startTime.Add(time.Duration(durationSeconds) * time.Second),
		DurationSeconds: durationSeconds,
	}
}

// --- end-to-end scenario ---

func scenarioGenerator(t *testing.T) *Generator {
	t.Helper()

	tasks := []timesheet.Task{
		{ID: 1, Name: "Development", IsActive: true},
		{ID: 2, Name: "Pause", IsActive: true},
	}
	entries := &fakeEntries{byTask: map[int64][]timesheet.Entry{
		1: {completedEntry(1, "2026-01-01T09:00:00", 4*3600)},
		2: {completedEntry(2, "2026-01-01T13:00:00", 3600)},
	}}

	return &Generator{
		Tasks:    &fakeTasks{tasks: tasks},
		Profiles: &fakeProfiles{},
		Entries:  entries,
		Holidays: &fakeCalendar{holidays: map[string]string{"2026-01-01": "Neujahr"}},
		Prefs: Preferences{
			AccountingColumns: []string{"Cost Center"},
			DailyTargetHours:  8,
			Language:          "de",
		},
	}
}

func scenarioConfig(t *testing.T) Config {
	t.Helper()
	period, err := ParsePeriod("2026-01")
	require.NoError(t, err)
	return Config{
		Period: period,
		TimeOff: []timesheet.TimeOff{
			{TaskName: "Vacation", Days: []time.Time{time.Date(2026, time.January, 2, 0, 0, 0, 0, time.Local)}, DailyHours: 8},
			{TaskName: "Sickness", Days: []time.Time{time.Date(2026, time.January, 3, 0, 0, 0, 0, time.Local)}, DailyHours: 8},
		},
		ExcludedTasks: []string{"Pause"},
	}
}

func TestGenerate_MonthlyScenario(t *testing.T) {
	generator := scenarioGenerator(t)
	result, err := generator.Generate(scenarioConfig(t))
	require.NoError(t, err)

	rowByLabel := make(map[string]Row)
	for _, row := range result.Document.Unassigned {
		rowByLabel[row.Label] = row
	}
	require.Contains(t, rowByLabel, "Development")
	require.Contains(t, rowByLabel, "Pause")
	require.Contains(t, rowByLabel, "Vacation")
	require.Contains(t, rowByLabel, "Sickness")

	assert.InDelta(t, 4.0, rowByLabel["Development"].Cells[0], 1e-9)
	assert.InDelta(t, 1.0, rowByLabel["Pause"].Cells[0], 1e-9, "excluded task still displays its hours")
	assert.InDelta(t, 8.0, rowByLabel["Vacation"].Cells[1], 1e-9)
	assert.InDelta(t, 8.0, rowByLabel["Sickness"].Cells[2], 1e-9)

	// Pause's hour displays but does not count.
	assert.InDelta(t, 20.0, result.Footer.GrandTotal, 1e-9)
	assert.InDelta(t, 4.0, result.Footer.DayTotals["2026-01-01"], 1e-9)
}

func TestGenerate_ExclusionChangesFooterNotRows(t *testing.T) {
	generator := scenarioGenerator(t)

	excluded, err := generator.Generate(scenarioConfig(t))
	require.NoError(t, err)

	cfg := scenarioConfig(t)
	cfg.ExcludedTasks = nil
	included, err := generator.Generate(cfg)
	require.NoError(t, err)

	assert.InDelta(t, 20.0, excluded.Footer.GrandTotal, 1e-9)
	assert.InDelta(t, 21.0, included.Footer.GrandTotal, 1e-9)

	findPause := func(doc *Document) (Row, bool) {
		for _, row := range doc.Unassigned {
			if row.Label == "Pause" {
				return row, true
			}
		}
		return Row{}, false
	}
	pauseExcluded, ok := findPause(excluded.Document)
	require.True(t, ok)
	pauseIncluded, ok := findPause(included.Document)
	require.True(t, ok)
	assert.Equal(t, pauseIncluded.Total, pauseExcluded.Total)
}

func TestGenerate_TotalRowMatchesMatrixCompleteness(t *testing.T) {
	generator := scenarioGenerator(t)
	cfg := scenarioConfig(t)
	result, err := generator.Generate(cfg)
	require.NoError(t, err)

	for _, date := range cfg.Period.Dates() {
		day := date.Format("2006-01-02")
		sum := 0.0
		for _, key := range result.Matrix.Keys() {
			sum += result.Matrix.CountedHours(key, day)
		}
		assert.InDelta(t, sum, result.Footer.DayTotals[day], 1e-9, "day %s", day)
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	generator := scenarioGenerator(t)

	first, err := generator.Generate(scenarioConfig(t))
	require.NoError(t, err)
	second, err := generator.Generate(scenarioConfig(t))
	require.NoError(t, err)

	assert.True(t, reflect.DeepEqual(first.Footer, second.Footer))
	assert.Equal(t, first.Document.Header(), second.Document.Header())
	assert.True(t, reflect.DeepEqual(first.Document.Rows, second.Document.Rows))
	assert.True(t, reflect.DeepEqual(first.Document.Unassigned, second.Document.Unassigned))
}

func TestGenerate_SourceFailurePropagates(t *testing.T) {
	generator := scenarioGenerator(t)
	sourceErr := errors.New("storage unavailable")
	generator.Entries = &fakeEntries{err: sourceErr}

	result, err := generator.Generate(scenarioConfig(t))
	require.ErrorIs(t, err, sourceErr)
	assert.Nil(t, result, "no partial result on source failure")
}

func TestGenerate_ProfileSourceFailurePropagates(t *testing.T) {
	generator := scenarioGenerator(t)
	sourceErr := errors.New("storage unavailable")
	generator.Profiles = &fakeProfiles{err: sourceErr}

	_, err := generator.Generate(scenarioConfig(t))
	require.ErrorIs(t, err, sourceErr)
}
