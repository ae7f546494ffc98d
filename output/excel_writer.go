package output

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"stempeluhr/internal/timeutil"
	"stempeluhr/report"
)

const (
	dataSheetName   = "Data"
	dashboardName   = "Dashboard"
	hiddenSheetName = "ChartData"

	colorWork     = "4472C4"
	colorVacation = "4CAF50"
	colorSickness = "C62828"
	colorTitle    = "203764"
)

// ExcelWriter renders the report to a workbook with a Data sheet mirroring
// the CSV layout and a Dashboard sheet with KPI cards and charts.
type ExcelWriter struct{}

func (w *ExcelWriter) Write(path string, doc *report.Document) error {
	file := excelize.NewFile()
	defer file.Close()

	file.SetSheetName(file.GetSheetName(0), dataSheetName)

	if err := w.writeDataSheet(file, doc); err != nil {
		return err
	}
	if err := w.writeDashboard(file, doc); err != nil {
		return err
	}

	if index, err := file.GetSheetIndex(dashboardName); err == nil {
		file.SetActiveSheet(index)
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}
	return nil
}

func (w *ExcelWriter) writeDataSheet(file *excelize.File, doc *report.Document) error {
	headerStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9E1F2"}},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	hoursFmt := "0.0"
	hoursStyle, err := file.NewStyle(&excelize.Style{CustomNumFmt: &hoursFmt})
	if err != nil {
		return fmt.Errorf("create hours style: %w", err)
	}
	footerStyle, err := file.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		CustomNumFmt: &hoursFmt,
	})
	if err != nil {
		return fmt.Errorf("create footer style: %w", err)
	}

	rowIdx := 1
	if err := w.writeHeaderRow(file, doc, rowIdx, headerStyle); err != nil {
		return err
	}

	rowIdx++
	if err := setStringRow(file, rowIdx, dayInfoRecord(doc)); err != nil {
		return err
	}

	for _, row := range doc.Rows {
		rowIdx++
		if err := w.writeDataRow(file, doc, row, rowIdx, hoursStyle); err != nil {
			return err
		}
	}

	rowIdx += 2
	if err := w.writeFooterRows(file, doc, &rowIdx, footerStyle); err != nil {
		return err
	}

	if len(doc.Unassigned) > 0 {
		rowIdx += 2
		if err := setCell(file, dataSheetName, 1, rowIdx, doc.Labels.UnassignedTitle); err != nil {
			return err
		}
		if err := file.SetCellStyle(dataSheetName, cellName(1, rowIdx), cellName(1, rowIdx), headerStyle); err != nil {
			return fmt.Errorf("style unassigned title: %w", err)
		}

		rowIdx += 2
		if err := w.writeHeaderRow(file, doc, rowIdx, headerStyle); err != nil {
			return err
		}
		for _, row := range doc.Unassigned {
			rowIdx++
			if err := w.writeDataRow(file, doc, row, rowIdx, hoursStyle); err != nil {
				return err
			}
		}
	}

	dateColStart := 3 + len(doc.Columns) + 1
	firstDate, _ := excelize.ColumnNumberToName(dateColStart)
	lastDate, _ := excelize.ColumnNumberToName(dateColStart + len(doc.Dates) - 1)
	_ = file.SetColWidth(dataSheetName, "A", "A", 30)
	_ = file.SetColWidth(dataSheetName, "B", "B", 20)
	_ = file.SetColWidth(dataSheetName, firstDate, lastDate, 12)

	return nil
}

func (w *ExcelWriter) writeHeaderRow(file *excelize.File, doc *report.Document, rowIdx, style int) error {
	header := doc.Header()
	if err := setStringRow(file, rowIdx, header); err != nil {
		return err
	}
	if err := file.SetCellStyle(dataSheetName, cellName(1, rowIdx), cellName(len(header), rowIdx), style); err != nil {
		return fmt.Errorf("style header row %d: %w", rowIdx, err)
	}
	return nil
}

func (w *ExcelWriter) writeDataRow(file *excelize.File, doc *report.Document, row report.Row, rowIdx, hoursStyle int) error {
	col := 1
	if err := setCell(file, dataSheetName, col, rowIdx, row.Label); err != nil {
		return err
	}
	col++
	if err := setCell(file, dataSheetName, col, rowIdx, row.Profile); err != nil {
		return err
	}
	for _, value := range row.Attributes {
		col++
		if err := setCell(file, dataSheetName, col, rowIdx, value); err != nil {
			return err
		}
	}

	col++
	totalCol := col
	if err := setCell(file, dataSheetName, col, rowIdx, row.Total); err != nil {
		return err
	}
	for _, cell := range row.Cells {
		col++
		// Zero cells stay empty, matching the CSV rendition.
		if cell == 0 {
			continue
		}
		if err := setCell(file, dataSheetName, col, rowIdx, cell); err != nil {
			return err
		}
	}

	if err := file.SetCellStyle(dataSheetName, cellName(totalCol, rowIdx), cellName(col, rowIdx), hoursStyle); err != nil {
		return fmt.Errorf("style data row %d: %w", rowIdx, err)
	}
	return nil
}

func (w *ExcelWriter) writeFooterRows(file *excelize.File, doc *report.Document, rowIdx *int, style int) error {
	totalCol := 3 + len(doc.Columns)

	writeFooter := func(label string, grand float64, perDay func(day string) (float64, bool)) error {
		if err := setCell(file, dataSheetName, 1, *rowIdx, label); err != nil {
			return err
		}
		if err := setCell(file, dataSheetName, totalCol, *rowIdx, grand); err != nil {
			return err
		}
		for i, date := range doc.Dates {
			value, show := perDay(timeutil.DayKey(date))
			if !show {
				continue
			}
			if err := setCell(file, dataSheetName, totalCol+1+i, *rowIdx, value); err != nil {
				return err
			}
		}
		last := totalCol + len(doc.Dates)
		if err := file.SetCellStyle(dataSheetName, cellName(1, *rowIdx), cellName(last, *rowIdx), style); err != nil {
			return fmt.Errorf("style footer row %d: %w", *rowIdx, err)
		}
		*rowIdx++
		return nil
	}

	if err := writeFooter(doc.Labels.TotalWork, doc.Footer.GrandTotal, func(day string) (float64, bool) {
		value := doc.Footer.DayTotals[day]
		return value, value != 0
	}); err != nil {
		return err
	}
	if err := writeFooter(doc.Labels.DailyTarget, doc.Footer.GrandTarget, func(day string) (float64, bool) {
		return doc.Footer.DayTargets[day], true
	}); err != nil {
		return err
	}
	if err := writeFooter(doc.Labels.Overtime, doc.Footer.GrandOvertime, func(day string) (float64, bool) {
		return doc.Footer.Overtime(day), true
	}); err != nil {
		return err
	}

	if doc.Footer.HasWarnings() {
		if err := setCell(file, dataSheetName, 1, *rowIdx, doc.Labels.Compliance); err != nil {
			return err
		}
		for i, date := range doc.Dates {
			marker := doc.Footer.Warnings[timeutil.DayKey(date)]
			if marker == "" {
				continue
			}
			if err := setCell(file, dataSheetName, totalCol+1+i, *rowIdx, marker); err != nil {
				return err
			}
		}
		*rowIdx++
	}

	return nil
}

func (w *ExcelWriter) writeDashboard(file *excelize.File, doc *report.Document) error {
	if _, err := file.NewSheet(dashboardName); err != nil {
		return fmt.Errorf("create dashboard sheet: %w", err)
	}
	if _, err := file.NewSheet(hiddenSheetName); err != nil {
		return fmt.Errorf("create chart data sheet: %w", err)
	}
	if err := file.SetSheetVisible(hiddenSheetName, false); err != nil {
		return fmt.Errorf("hide chart data sheet: %w", err)
	}

	titleStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 20, Color: colorTitle},
	})
	if err != nil {
		return fmt.Errorf("create title style: %w", err)
	}
	cardHeaderStyle, err := file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "666666"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"F2F2F2"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create card header style: %w", err)
	}
	cardFmt := "#,##0.0"
	cardValueStyle, err := file.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true, Size: 18, Color: colorTitle},
		Alignment:    &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		CustomNumFmt: &cardFmt,
	})
	if err != nil {
		return fmt.Errorf("create card value style: %w", err)
	}

	_ = file.SetColWidth(dashboardName, "A", "A", 2)
	_ = file.SetColWidth(dashboardName, "B", "F", 16)
	_ = file.SetRowHeight(dashboardName, 2, 28)
	_ = file.SetRowHeight(dashboardName, 5, 28)

	title := doc.Labels.TotalWork + " " + doc.Period.String()
	if err := file.MergeCell(dashboardName, "B2", "H2"); err != nil {
		return fmt.Errorf("merge title cells: %w", err)
	}
	if err := setCell(file, dashboardName, 2, 2, title); err != nil {
		return err
	}
	_ = file.SetCellStyle(dashboardName, "B2", "H2", titleStyle)

	// KPI cards: grand total and average across days with booked hours.
	workedDays := 0
	for _, date := range doc.Dates {
		if doc.Footer.DayTotals[timeutil.DayKey(date)] > 0 {
			workedDays++
		}
	}
	average := 0.0
	if workedDays > 0 {
		average = doc.Footer.GrandTotal / float64(workedDays)
	}

	cards := []struct {
		area  [2]string
		label string
		value float64
	}{
		{[2]string{"B4", "C5"}, doc.Labels.Total, doc.Footer.GrandTotal},
		{[2]string{"E4", "F5"}, "Ø / " + doc.Labels.DayInfo, average},
	}
	for _, card := range cards {
		headerArea := card.area[0]
		if err := setCellByName(file, dashboardName, headerArea, card.label); err != nil {
			return err
		}
		_ = file.SetCellStyle(dashboardName, headerArea, headerArea, cardHeaderStyle)

		valueCell := card.area[1]
		if err := setCellByName(file, dashboardName, valueCell, card.value); err != nil {
			return err
		}
		_ = file.SetCellStyle(dashboardName, valueCell, valueCell, cardValueStyle)
	}

	categoryCount, dayCount, err := w.writeChartData(file, doc)
	if err != nil {
		return err
	}
	if err := w.addCharts(file, doc, categoryCount, dayCount); err != nil {
		return err
	}

	return nil
}

// writeChartData fills the hidden sheet: columns A/B hold hours by
// accounting category, columns D-G hold the per-day work/vacation/sickness
// split for the stacked chart.
func (w *ExcelWriter) writeChartData(file *excelize.File, doc *report.Document) (categories, days int, err error) {
	byCategory := make(map[string]float64)
	order := make([]string, 0, len(doc.Rows)+len(doc.Unassigned))
	record := func(name string, hours float64) {
		if _, seen := byCategory[name]; !seen {
			order = append(order, name)
		}
		byCategory[name] += hours
	}
	for _, row := range doc.Rows {
		record(row.Profile, row.Total)
	}
	for _, row := range doc.Unassigned {
		record(row.Label, row.Total)
	}

	for i, name := range order {
		rowIdx := i + 2
		if err := setCell(file, hiddenSheetName, 1, rowIdx, name); err != nil {
			return 0, 0, err
		}
		if err := setCell(file, hiddenSheetName, 2, rowIdx, byCategory[name]); err != nil {
			return 0, 0, err
		}
	}

	for i, date := range doc.Dates {
		rowIdx := i + 2
		total := doc.Footer.DayTotals[timeutil.DayKey(date)]

		work, vacation, sickness := total, 0.0, 0.0
		switch doc.DayKinds[i] {
		case report.DayVacation:
			work, vacation = 0, total
		case report.DaySickness:
			work, sickness = 0, total
		}

		values := []any{strconv.Itoa(date.Day()), work, vacation, sickness}
		for offset, value := range values {
			if err := setCell(file, hiddenSheetName, 4+offset, rowIdx, value); err != nil {
				return 0, 0, err
			}
		}
	}

	return len(order), len(doc.Dates), nil
}

func (w *ExcelWriter) addCharts(file *excelize.File, doc *report.Document, categories, days int) error {
	if categories > 0 {
		donut := &excelize.Chart{
			Type: excelize.Doughnut,
			Series: []excelize.ChartSeries{{
				Name:       doc.Labels.Total,
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", hiddenSheetName, categories+1),
				Values:     fmt.Sprintf("%s!$B$2:$B$%d", hiddenSheetName, categories+1),
			}},
			Title:  []excelize.RichTextRun{{Text: doc.Labels.Total}},
			Legend: excelize.ChartLegend{Position: "bottom"},
		}
		if err := file.AddChart(dashboardName, "B8", donut); err != nil {
			return fmt.Errorf("add category chart: %w", err)
		}
	}

	if days > 0 {
		lastRow := days + 1
		series := []struct {
			name  string
			col   string
			color string
		}{
			{doc.Labels.TotalWork, "E", colorWork},
			{doc.Labels.StatusVacation, "F", colorVacation},
			{doc.Labels.StatusSickness, "G", colorSickness},
		}
		chartSeries := make([]excelize.ChartSeries, 0, len(series))
		for _, s := range series {
			chartSeries = append(chartSeries, excelize.ChartSeries{
				Name:       s.name,
				Categories: fmt.Sprintf("%s!$D$2:$D$%d", hiddenSheetName, lastRow),
				Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", hiddenSheetName, s.col, s.col, lastRow),
				Fill:       excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{s.color}},
			})
		}

		bar := &excelize.Chart{
			Type:   excelize.ColStacked,
			Series: chartSeries,
			Title:  []excelize.RichTextRun{{Text: doc.Labels.TotalWork}},
			Legend: excelize.ChartLegend{Position: "bottom"},
		}
		if err := file.AddChart(dashboardName, "B28", bar); err != nil {
			return fmt.Errorf("add daily chart: %w", err)
		}
	}

	return nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func setCell(file *excelize.File, sheet string, col, row int, value any) error {
	return setCellByName(file, sheet, cellName(col, row), value)
}

func setCellByName(file *excelize.File, sheet, cell string, value any) error {
	if err := file.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("set excel value %s: %w", cell, err)
	}
	return nil
}

func setStringRow(file *excelize.File, rowIdx int, values []string) error {
	for i, value := range values {
		if value == "" {
			continue
		}
		if err := setCell(file, dataSheetName, i+1, rowIdx, value); err != nil {
			return err
		}
	}
	return nil
}
