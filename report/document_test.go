package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stempeluhr/timesheet"
)

func TestBuildDocument_SortsAssignedByProfileAndUnassignedByLabel(t *testing.T) {
	period := january2026(t)
	profiles := []timesheet.Profile{
		{ID: 1, Name: "Zeta"},
		{ID: 2, Name: "Alpha"},
	}
	tasks := []timesheet.Task{
		{ID: 1, Name: "Ops", AccountingID: 1},
		{ID: 2, Name: "Dev", AccountingID: 2},
		{ID: 3, Name: "Misc B"},
		{ID: 4, Name: "Misc A"},
	}
	entries := &fakeEntries{byTask: map[int64][]timesheet.Entry{
		1: {completedEntry(1, "2026-01-05T09:00:00", 3600)},
		2: {completedEntry(2, "2026-01-05T10:00:00", 3600)},
		3: {completedEntry(3, "2026-01-05T11:00:00", 3600)},
		4: {completedEntry(4, "2026-01-05T12:00:00", 3600)},
	}}

	builder := &Builder{Entries: entries}
	matrix, err := builder.Build(BuildInput{Period: period, Tasks: tasks, Profiles: profiles})
	require.NoError(t, err)

	footer := ComputeFooter(matrix, period.Dates(), &fakeCalendar{}, Preferences{})
	doc := BuildDocument(period, matrix, footer, &fakeCalendar{}, Preferences{})

	require.Len(t, doc.Rows, 2)
	assert.Equal(t, "Alpha", doc.Rows[0].Profile)
	assert.Equal(t, "Zeta", doc.Rows[1].Profile)

	require.Len(t, doc.Unassigned, 2)
	assert.Equal(t, "Misc A", doc.Unassigned[0].Label)
	assert.Equal(t, "Misc B", doc.Unassigned[1].Label)
}

func TestBuildDocument_DropsZeroTotalRows(t *testing.T) {
	period := january2026(t)
	tasks := []timesheet.Task{
		{ID: 1, Name: "Idle"},
		{ID: 2, Name: "Busy"},
	}
	entries := &fakeEntries{byTask: map[int64][]timesheet.Entry{
		2: {completedEntry(2, "2026-01-05T09:00:00", 3600)},
	}}

	builder := &Builder{Entries: entries}
	matrix, err := builder.Build(BuildInput{Period: period, Tasks: tasks})
	require.NoError(t, err)

	doc := BuildDocument(period, matrix, Footer{}, &fakeCalendar{}, Preferences{})

	require.Len(t, doc.Unassigned, 1)
	assert.Equal(t, "Busy, Idle", doc.Unassigned[0].Label,
		"zero-hour tasks sharing the key stay in the label; only whole zero rows drop")
}

func TestBuildDocument_MissingAttributeRendersBlank(t *testing.T) {
	period := january2026(t)
	profile := timesheet.Profile{ID: 1, Name: "Internal", Attributes: map[string]string{"Cost Center": "100"}}
	tasks := []timesheet.Task{{ID: 1, Name: "Dev", AccountingID: 1}}
	entries := &fakeEntries{byTask: map[int64][]timesheet.Entry{
		1: {completedEntry(1, "2026-01-05T09:00:00", 3600)},
	}}

	builder := &Builder{Entries: entries}
	matrix, err := builder.Build(BuildInput{Period: period, Tasks: tasks, Profiles: []timesheet.Profile{profile}})
	require.NoError(t, err)

	prefs := Preferences{AccountingColumns: []string{"Cost Center", "GL Account"}}
	doc := BuildDocument(period, matrix, Footer{}, &fakeCalendar{}, prefs)

	require.Len(t, doc.Rows, 1)
	assert.Equal(t, []string{"100", ""}, doc.Rows[0].Attributes)
}

func TestBuildDocument_DayStatusPriority(t *testing.T) {
	period := january2026(t)
	timeOff := []timesheet.TimeOff{
		{TaskName: "Vacation", Days: []time.Time{
			time.Date(2026, time.January, 1, 0, 0, 0, 0, time.Local),
			time.Date(2026, time.January, 2, 0, 0, 0, 0, time.Local),
		}, DailyHours: 8},
		{TaskName: "Sickness", Days: []time.Time{
			time.Date(2026, time.January, 2, 0, 0, 0, 0, time.Local),
			time.Date(2026, time.January, 5, 0, 0, 0, 0, time.Local),
		}, DailyHours: 8},
	}

	builder := &Builder{Entries: &fakeEntries{}}
	matrix, err := builder.Build(BuildInput{Period: period, TimeOff: timeOff})
	require.NoError(t, err)

	holidays := &fakeCalendar{holidays: map[string]string{"2026-01-01": "Neujahr"}}
	doc := BuildDocument(period, matrix, Footer{}, holidays, Preferences{})

	assert.Equal(t, "Holiday: Neujahr", doc.DayInfo[0], "holiday beats vacation")
	assert.Equal(t, "Sickness", doc.DayInfo[1], "sickness beats vacation")
	assert.Equal(t, "Sickness", doc.DayInfo[4])
	assert.Equal(t, "", doc.DayInfo[6])
}

func TestDocumentHeader(t *testing.T) {
	period := january2026(t)
	builder := &Builder{Entries: &fakeEntries{}}
	matrix, err := builder.Build(BuildInput{Period: period})
	require.NoError(t, err)

	prefs := Preferences{AccountingColumns: []string{"Cost Center"}, Language: "de"}
	doc := BuildDocument(period, matrix, Footer{}, &fakeCalendar{}, prefs)

	header := doc.Header()
	require.Len(t, header, 4+31)
	assert.Equal(t, "Tätigkeit", header[0])
	assert.Equal(t, "Kontierung", header[1])
	assert.Equal(t, "Cost Center", header[2])
	assert.Equal(t, "Summe", header[3])
	assert.Equal(t, "Do., 01. Jan 26", header[4])
}
