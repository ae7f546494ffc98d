package output

import (
	"encoding/csv"
	"fmt"
	"os"

	"stempeluhr/internal/timeutil"
	"stempeluhr/report"
)

// CSVWriter renders the report as semicolon-delimited CSV, the layout users
// paste into their employer's timesheet template.
type CSVWriter struct{}

func (w *CSVWriter) Write(path string, doc *report.Document) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.Comma = ';'
	defer writer.Flush()

	for _, record := range csvRecords(doc) {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}
	return nil
}

func csvRecords(doc *report.Document) [][]string {
	records := make([][]string, 0, len(doc.Rows)+len(doc.Unassigned)+12)

	header := doc.Header()
	records = append(records, header)
	records = append(records, dayInfoRecord(doc))

	for _, row := range doc.Rows {
		records = append(records, rowRecord(doc, row))
	}

	// Footer block, separated by a blank line like the original template.
	records = append(records, []string{""})
	records = append(records, totalRecord(doc))
	records = append(records, targetRecord(doc))
	records = append(records, overtimeRecord(doc))
	if doc.Footer.HasWarnings() {
		records = append(records, complianceRecord(doc))
	}

	if len(doc.Unassigned) > 0 {
		records = append(records, []string{""}, []string{""})
		records = append(records, []string{doc.Labels.UnassignedTitle})
		records = append(records, []string{""})
		records = append(records, header)
		for _, row := range doc.Unassigned {
			records = append(records, rowRecord(doc, row))
		}
	}

	return records
}

func rowRecord(doc *report.Document, row report.Row) []string {
	record := make([]string, 0, 3+len(row.Attributes)+len(row.Cells))
	record = append(record, row.Label, row.Profile)
	record = append(record, row.Attributes...)
	record = append(record, doc.Format.Hours(row.Total))
	for _, cell := range row.Cells {
		record = append(record, doc.Format.Cell(cell))
	}
	return record
}

func dayInfoRecord(doc *report.Document) []string {
	record := footerPrefix(doc, doc.Labels.DayInfo)
	record = append(record, "")
	return append(record, doc.DayInfo...)
}

func totalRecord(doc *report.Document) []string {
	record := footerPrefix(doc, doc.Labels.TotalWork)
	record = append(record, doc.Format.Hours(doc.Footer.GrandTotal))
	for _, date := range doc.Dates {
		record = append(record, doc.Format.Cell(doc.Footer.DayTotals[timeutil.DayKey(date)]))
	}
	return record
}

func targetRecord(doc *report.Document) []string {
	record := footerPrefix(doc, doc.Labels.DailyTarget)
	record = append(record, doc.Format.Hours(doc.Footer.GrandTarget))
	for _, date := range doc.Dates {
		record = append(record, doc.Format.Hours(doc.Footer.DayTargets[timeutil.DayKey(date)]))
	}
	return record
}

func overtimeRecord(doc *report.Document) []string {
	record := footerPrefix(doc, doc.Labels.Overtime)
	record = append(record, doc.Format.SignedHours(doc.Footer.GrandOvertime))
	for _, date := range doc.Dates {
		record = append(record, doc.Format.SignedHours(doc.Footer.Overtime(timeutil.DayKey(date))))
	}
	return record
}

func complianceRecord(doc *report.Document) []string {
	record := footerPrefix(doc, doc.Labels.Compliance)
	record = append(record, "")
	for _, date := range doc.Dates {
		record = append(record, doc.Footer.Warnings[timeutil.DayKey(date)])
	}
	return record
}

// footerPrefix pads a footer label across the profile and attribute columns
// so day cells line up with the header dates.
func footerPrefix(doc *report.Document, label string) []string {
	record := make([]string, 0, 2+len(doc.Columns)+1+len(doc.Dates))
	record = append(record, label)
	for i := 0; i < 1+len(doc.Columns); i++ {
		record = append(record, "")
	}
	return record
}
