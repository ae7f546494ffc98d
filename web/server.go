// Package web serves a localhost-only single-user report UI; it intentionally
// has no auth/CSRF protection in this mode.
package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"stempeluhr/config"
	"stempeluhr/internal/calendar"
	"stempeluhr/report"
	"stempeluhr/storage"
)

//go:embed templates/*.html
var templateFS embed.FS

type Server struct {
	store    *storage.SQLiteStore
	holidays *calendar.Calendar
	cfg      config.Config
	mux      *http.ServeMux
}

type monthRowView struct {
	Label      string
	Profile    string
	Attributes []string
	Total      string
	Cells      []string
}

type monthPageView struct {
	Title         string
	CurrentMonth  string
	PreviousMonth string
	NextMonth     string
	Header        []string
	Rows          []monthRowView
	Unassigned    []monthRowView
	UnassignedCap string
	TotalLabel    string
	TargetLabel   string
	OvertimeLabel string
	Total         string
	Target        string
	Overtime      string
	Warnings      int
}

type monthAPIRow struct {
	Task       string    `json:"task"`
	Profile    string    `json:"profile,omitempty"`
	Attributes []string  `json:"attributes,omitempty"`
	Total      float64   `json:"total"`
	Cells      []float64 `json:"cells"`
}

type monthAPIResponse struct {
	Period        string        `json:"period"`
	Dates         []string      `json:"dates"`
	Rows          []monthAPIRow `json:"rows"`
	Unassigned    []monthAPIRow `json:"unassigned"`
	GrandTotal    float64       `json:"grandTotal"`
	GrandTarget   float64       `json:"grandTarget"`
	GrandOvertime float64       `json:"grandOvertime"`
	Warnings      int           `json:"warnings"`
}

func NewServer(store *storage.SQLiteStore, holidays *calendar.Calendar, cfg config.Config) http.Handler {
	server := &Server{store: store, holidays: holidays, cfg: cfg}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /month", server.handleMonthPicker)
	mux.HandleFunc("GET /month/{month}", server.handleMonth)
	mux.HandleFunc("GET /api/month/{month}", server.handleAPIMonth)
	server.mux = mux

	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) generate(monthRaw string) (*report.Result, error) {
	period, err := report.ParsePeriod(monthRaw)
	if err != nil {
		return nil, err
	}

	generator := &report.Generator{
		Tasks:    s.store,
		Profiles: s.store,
		Entries:  s.store,
		Holidays: s.holidays,
		Prefs:    s.cfg.Preferences(),
	}
	return generator.Generate(report.Config{Period: period})
}

func (s *Server) handleMonthPicker(w http.ResponseWriter, r *http.Request) {
	month := strings.TrimSpace(r.URL.Query().Get("month"))
	if month == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if _, err := report.ParsePeriod(month); err != nil {
		http.Error(w, "invalid month format (expected YYYY-MM)", http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/month/"+month, http.StatusFound)
}

func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	monthRaw := strings.TrimSpace(r.PathValue("month"))
	result, err := s.generate(monthRaw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	doc := result.Document
	view := monthPageView{
		Title:         "stempeluhr - " + doc.Period.String(),
		CurrentMonth:  doc.Period.String(),
		PreviousMonth: doc.Period.Start().AddDate(0, -1, 0).Format("2006-01"),
		NextMonth:     doc.Period.Start().AddDate(0, 1, 0).Format("2006-01"),
		Header:        doc.Header(),
		Rows:          pageRows(doc, doc.Rows),
		Unassigned:    pageRows(doc, doc.Unassigned),
		UnassignedCap: doc.Labels.UnassignedTitle,
		TotalLabel:    doc.Labels.TotalWork,
		TargetLabel:   doc.Labels.DailyTarget,
		OvertimeLabel: doc.Labels.Overtime,
		Total:         doc.Format.Hours(doc.Footer.GrandTotal),
		Target:        doc.Format.Hours(doc.Footer.GrandTarget),
		Overtime:      doc.Format.SignedHours(doc.Footer.GrandOvertime),
		Warnings:      len(doc.Footer.Warnings),
	}

	if err := renderTemplate(w, "month.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleAPIMonth(w http.ResponseWriter, r *http.Request) {
	monthRaw := strings.TrimSpace(r.PathValue("month"))
	result, err := s.generate(monthRaw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	doc := result.Document
	response := monthAPIResponse{
		Period:        doc.Period.String(),
		Dates:         make([]string, 0, len(doc.Dates)),
		Rows:          apiRows(doc.Rows),
		Unassigned:    apiRows(doc.Unassigned),
		GrandTotal:    doc.Footer.GrandTotal,
		GrandTarget:   doc.Footer.GrandTarget,
		GrandOvertime: doc.Footer.GrandOvertime,
		Warnings:      len(doc.Footer.Warnings),
	}
	for _, date := range doc.Dates {
		response.Dates = append(response.Dates, date.Format("2006-01-02"))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func pageRows(doc *report.Document, rows []report.Row) []monthRowView {
	views := make([]monthRowView, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, 0, len(row.Cells))
		for _, cell := range row.Cells {
			cells = append(cells, doc.Format.Cell(cell))
		}
		views = append(views, monthRowView{
			Label:      row.Label,
			Profile:    row.Profile,
			Attributes: row.Attributes,
			Total:      doc.Format.Hours(row.Total),
			Cells:      cells,
		})
	}
	return views
}

func apiRows(rows []report.Row) []monthAPIRow {
	views := make([]monthAPIRow, 0, len(rows))
	for _, row := range rows {
		views = append(views, monthAPIRow{
			Task:       row.Label,
			Profile:    row.Profile,
			Attributes: row.Attributes,
			Total:      row.Total,
			Cells:      row.Cells,
		})
	}
	return views
}

func renderTemplate(w http.ResponseWriter, pageTemplate string, data any) error {
	tmpl, err := template.ParseFS(templateFS, "templates/base.html", "templates/"+pageTemplate)
	if err != nil {
		return fmt.Errorf("parse template %s: %w", pageTemplate, err)
	}
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		return fmt.Errorf("render template %s: %w", pageTemplate, err)
	}
	return nil
}
