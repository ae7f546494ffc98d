package report

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders hours and date headers for one output language.
// German output uses the decimal comma; display precision is one decimal
// place everywhere.
type Formatter struct {
	printer *message.Printer
	german  bool
}

// NewFormatter builds a formatter for "de" or "en" (default English).
func NewFormatter(lang string) *Formatter {
	if lang == "de" {
		return &Formatter{printer: message.NewPrinter(language.German), german: true}
	}
	return &Formatter{printer: message.NewPrinter(language.English), german: false}
}

// Hours renders a value with one decimal place in the target locale.
func (f *Formatter) Hours(value float64) string {
	return f.printer.Sprintf("%.1f", value)
}

// SignedHours renders a value with a forced leading sign, for overtime.
func (f *Formatter) SignedHours(value float64) string {
	return f.printer.Sprintf("%+.1f", value)
}

// Cell renders a matrix cell; zero cells are blank, never "0.0".
func (f *Formatter) Cell(value float64) string {
	if value == 0 {
		return ""
	}
	return f.Hours(value)
}

var (
	germanWeekdays = [7]string{"So.", "Mo.", "Di.", "Mi.", "Do.", "Fr.", "Sa."}
	germanMonths   = [13]string{"", "Jan", "Feb", "Mär", "Apr", "Mai", "Jun", "Jul", "Aug", "Sep", "Okt", "Nov", "Dez"}
)

// DateHeader renders a report column header, e.g. "Do., 01. Jan 26" in
// German or "Thu, Jan 01, 26" in English.
func (f *Formatter) DateHeader(date time.Time) string {
	if f.german {
		return fmt.Sprintf("%s, %02d. %s %02d",
			germanWeekdays[date.Weekday()],
			date.Day(),
			germanMonths[date.Month()],
			date.Year()%100,
		)
	}
	return date.Format("Mon, Jan 02, 06")
}

// Labels are the fixed report strings for one output language.
type Labels struct {
	Task            string
	Profile         string
	Total           string
	DayInfo         string
	TotalWork       string
	DailyTarget     string
	Overtime        string
	Compliance      string
	UnassignedTitle string
	StatusHoliday   string
	StatusVacation  string
	StatusSickness  string
}

// LabelsFor returns the report labels for "de" or "en" (default English).
func LabelsFor(lang string) Labels {
	if lang == "de" {
		return Labels{
			Task:            "Tätigkeit",
			Profile:         "Kontierung",
			Total:           "Summe",
			DayInfo:         "Tagesinfo",
			TotalWork:       "Gesamtarbeit",
			DailyTarget:     "Tagessoll",
			Overtime:        "Überstunden",
			Compliance:      "ArbZG-Hinweise",
			UnassignedTitle: "Tätigkeiten ohne Kontierung (nur zur Information)",
			StatusHoliday:   "Feiertag",
			StatusVacation:  "Urlaub",
			StatusSickness:  "Krankheit",
		}
	}
	return Labels{
		Task:            "Task name",
		Profile:         "Accounting profile",
		Total:           "Total",
		DayInfo:         "Day info",
		TotalWork:       "Total Work",
		DailyTarget:     "Daily Target",
		Overtime:        "Overtime",
		Compliance:      "Compliance Notes",
		UnassignedTitle: "Tasks without accounting profile (informational only)",
		StatusHoliday:   "Holiday",
		StatusVacation:  "Vacation",
		StatusSickness:  "Sickness",
	}
}
