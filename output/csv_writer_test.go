package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stempeluhr/report"
)

func sampleDocument(t *testing.T) *report.Document {
	t.Helper()

	period, err := report.ParsePeriod("2026-01")
	require.NoError(t, err)

	return &report.Document{
		Period: period,
		Dates: []time.Time{
			time.Date(2026, time.January, 1, 0, 0, 0, 0, time.Local),
			time.Date(2026, time.January, 2, 0, 0, 0, 0, time.Local),
		},
		Columns:  []string{"CostCenter"},
		DayInfo:  []string{"Holiday: Neujahr", ""},
		DayKinds: []report.DayKind{report.DayHoliday, report.DayRegular},
		Rows: []report.Row{
			{Label: "Development", Profile: "Internal", Attributes: []string{"CC-100"}, Total: 6.5, Cells: []float64{0, 6.5}},
		},
		Unassigned: []report.Row{
			{Label: "Errands", Attributes: []string{""}, Total: 1, Cells: []float64{1, 0}},
		},
		Footer: report.Footer{
			DayTotals:     map[string]float64{"2026-01-02": 6.5},
			GrandTotal:    6.5,
			DayTargets:    map[string]float64{"2026-01-01": 0, "2026-01-02": 8},
			GrandTarget:   8,
			GrandOvertime: -1.5,
			Warnings:      map[string]string{},
		},
		Labels: report.LabelsFor("en"),
		Format: report.NewFormatter("en"),
	}
}

func TestCSVRecordsLayout(t *testing.T) {
	doc := sampleDocument(t)

	records := csvRecords(doc)

	header := records[0]
	assert.Equal(t, "Task name", header[0])
	assert.Equal(t, "Accounting profile", header[1])
	assert.Equal(t, "CostCenter", header[2])
	assert.Equal(t, "Total", header[3])
	assert.Len(t, header, 6)

	assert.Equal(t, "Day info", records[1][0])
	assert.Equal(t, "Holiday: Neujahr", records[1][4])

	dataRow := records[2]
	assert.Equal(t, []string{"Development", "Internal", "CC-100", "6.5", "", "6.5"}, dataRow)
}

func TestCSVRecordsFooter(t *testing.T) {
	doc := sampleDocument(t)

	records := csvRecords(doc)

	var total, target, overtime []string
	for _, record := range records {
		switch record[0] {
		case doc.Labels.TotalWork:
			total = record
		case doc.Labels.DailyTarget:
			target = record
		case doc.Labels.Overtime:
			overtime = record
		}
	}

	require.NotNil(t, total)
	assert.Equal(t, "6.5", total[3])
	assert.Equal(t, "", total[4])

	require.NotNil(t, target)
	assert.Equal(t, "8.0", target[3])
	assert.Equal(t, "0.0", target[4])
	assert.Equal(t, "8.0", target[5])

	require.NotNil(t, overtime)
	assert.Equal(t, "-1.5", overtime[3])
	assert.Equal(t, "+0.0", overtime[4])
	assert.Equal(t, "-1.5", overtime[5])
}

func TestCSVRecordsComplianceRowOnlyWithWarnings(t *testing.T) {
	doc := sampleDocument(t)

	for _, record := range csvRecords(doc) {
		assert.NotEqual(t, doc.Labels.Compliance, record[0])
	}

	doc.Footer.Warnings["2026-01-02"] = "> 10h!"
	var compliance []string
	for _, record := range csvRecords(doc) {
		if record[0] == doc.Labels.Compliance {
			compliance = record
		}
	}
	require.NotNil(t, compliance)
	assert.Equal(t, "> 10h!", compliance[5])
}

func TestCSVRecordsUnassignedSection(t *testing.T) {
	doc := sampleDocument(t)

	records := csvRecords(doc)

	captionIdx := -1
	for i, record := range records {
		if record[0] == doc.Labels.UnassignedTitle {
			captionIdx = i
		}
	}
	require.NotEqual(t, -1, captionIdx)

	repeated := records[captionIdx+2]
	assert.Equal(t, "Task name", repeated[0])
	assert.Equal(t, []string{"Errands", "", "", "1.0", "1.0", ""}, records[captionIdx+3])
}

func TestCSVWriterSemicolonOutput(t *testing.T) {
	doc := sampleDocument(t)
	path := filepath.Join(t.TempDir(), "report.csv")

	writer := &CSVWriter{}
	require.NoError(t, writer.Write(path, doc))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "Task name;Accounting profile;CostCenter;Total;"))
	assert.Contains(t, lines[2], "Development;Internal;CC-100;6.5")
}

func TestGermanFormatterUsesDecimalComma(t *testing.T) {
	doc := sampleDocument(t)
	doc.Labels = report.LabelsFor("de")
	doc.Format = report.NewFormatter("de")

	records := csvRecords(doc)
	assert.Equal(t, "6,5", records[2][3])
}
