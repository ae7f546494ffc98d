package report

import (
	"sort"
	"time"

	"stempeluhr/internal/timeutil"
)

// Row is one rendered report line: group label, profile name (blank for
// unassigned rows), attribute values in column order, the row total, and one
// cell per period day.
type Row struct {
	Label      string
	Profile    string
	Attributes []string
	Total      float64
	Cells      []float64
}

// DayKind classifies a period day for presentation.
type DayKind int

const (
	DayRegular DayKind = iota
	DayHoliday
	DayVacation
	DaySickness
)

// Document is the format-agnostic presentation contract. The CSV, Excel and
// web adapters all consume the same Document and differ only in
// serialization.
type Document struct {
	Period  Period
	Dates   []time.Time
	Columns []string
	// DayInfo carries one status string per date: holiday name, sickness or
	// vacation, with holiday taking priority. DayKinds holds the same
	// classification in machine-readable form for the chart adapters.
	DayInfo    []string
	DayKinds   []DayKind
	Rows       []Row
	Unassigned []Row
	Footer     Footer
	Labels     Labels
	Format     *Formatter
}

// BuildDocument orders and filters the matrix for presentation: assigned rows
// sort by profile name, unassigned rows sort by task label and render in a
// separate trailing section, and rows whose total is exactly zero are
// dropped here rather than at build time.
func BuildDocument(period Period, matrix *Matrix, footer Footer, holidays HolidayCalendar, prefs Preferences) *Document {
	dates := period.Dates()
	formatter := NewFormatter(prefs.Language)
	labels := LabelsFor(prefs.Language)

	doc := &Document{
		Period:   period,
		Dates:    dates,
		Columns:  prefs.AccountingColumns,
		DayInfo:  make([]string, len(dates)),
		DayKinds: make([]DayKind, len(dates)),
		Footer:   footer,
		Labels:   labels,
		Format:   formatter,
	}

	for i, date := range dates {
		doc.DayKinds[i] = dayKind(date, matrix, holidays)
		doc.DayInfo[i] = dayStatus(date, doc.DayKinds[i], holidays, labels)
	}

	for _, key := range matrix.Keys() {
		total := matrix.RowTotal(key)
		if total == 0 {
			continue
		}

		row := Row{
			Label:      matrix.TaskLabel(key),
			Total:      total,
			Attributes: make([]string, len(prefs.AccountingColumns)),
			Cells:      make([]float64, len(dates)),
		}
		for i, date := range dates {
			row.Cells[i] = matrix.Hours(key, timeutil.DayKey(date))
		}

		if key.Assigned() {
			row.Profile = key.ProfileName()
			if profile, ok := matrix.Profile(key); ok {
				for i, column := range prefs.AccountingColumns {
					// Missing attributes render blank, never error.
					row.Attributes[i] = profile.Attributes[column]
				}
			}
			doc.Rows = append(doc.Rows, row)
		} else {
			doc.Unassigned = append(doc.Unassigned, row)
		}
	}

	sort.Slice(doc.Rows, func(i, j int) bool {
		if doc.Rows[i].Profile == doc.Rows[j].Profile {
			return doc.Rows[i].Label < doc.Rows[j].Label
		}
		return doc.Rows[i].Profile < doc.Rows[j].Profile
	})
	sort.Slice(doc.Unassigned, func(i, j int) bool {
		return doc.Unassigned[i].Label < doc.Unassigned[j].Label
	})

	return doc
}

// Header returns the rendered column header row.
func (d *Document) Header() []string {
	header := make([]string, 0, 3+len(d.Columns)+len(d.Dates))
	header = append(header, d.Labels.Task, d.Labels.Profile)
	header = append(header, d.Columns...)
	header = append(header, d.Labels.Total)
	for _, date := range d.Dates {
		header = append(header, d.Format.DateHeader(date))
	}
	return header
}

// Priority: holiday beats sickness beats vacation.
func dayKind(date time.Time, matrix *Matrix, holidays HolidayCalendar) DayKind {
	if holidays.IsHoliday(date) {
		return DayHoliday
	}
	day := timeutil.DayKey(date)
	if matrix.IsSicknessDay(day) {
		return DaySickness
	}
	if matrix.IsVacationDay(day) {
		return DayVacation
	}
	return DayRegular
}

func dayStatus(date time.Time, kind DayKind, holidays HolidayCalendar, labels Labels) string {
	switch kind {
	case DayHoliday:
		if name := holidays.HolidayName(date); name != "" {
			return labels.StatusHoliday + ": " + name
		}
		return labels.StatusHoliday
	case DaySickness:
		return labels.StatusSickness
	case DayVacation:
		return labels.StatusVacation
	default:
		return ""
	}
}
