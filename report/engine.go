package report

import (
	"time"

	"stempeluhr/timesheet"
)

// TaskSource lists the tasks a report run covers.
type TaskSource interface {
	ActiveTasks() ([]timesheet.Task, error)
}

// ProfileSource lists the accounting profiles for key resolution.
type ProfileSource interface {
	ActiveProfiles() ([]timesheet.Profile, error)
}

// Config describes one report run.
type Config struct {
	Period Period
	// TimeOff declarations are merged into the matrix as virtual rows.
	TimeOff []timesheet.TimeOff
	// ExcludedTasks stay visible in their rows but do not feed the Total
	// footer (breaks, pauses).
	ExcludedTasks []string
}

// Result is the complete outcome of one report run.
type Result struct {
	Matrix   *Matrix
	Footer   Footer
	Document *Document
}

// Generator is the single entry point for report generation. It is a pure
// read-and-fold pipeline: one synchronous invocation per report, no shared
// state across runs, and on any source failure no partial result.
type Generator struct {
	Tasks    TaskSource
	Profiles ProfileSource
	Entries  EntrySource
	Holidays HolidayCalendar
	Prefs    Preferences
	// Now values running entries; defaults to time.Now.
	Now func() time.Time
}

// Generate loads profiles, tasks and entries in that order, builds the
// matrix, derives the footer rows and assembles the presentation document.
func (g *Generator) Generate(cfg Config) (*Result, error) {
	profiles, err := g.Profiles.ActiveProfiles()
	if err != nil {
		return nil, err
	}
	tasks, err := g.Tasks.ActiveTasks()
	if err != nil {
		return nil, err
	}

	builder := &Builder{Entries: g.Entries, Now: g.Now}
	matrix, err := builder.Build(BuildInput{
		Period:   cfg.Period,
		Tasks:    tasks,
		Profiles: profiles,
		TimeOff:  cfg.TimeOff,
		Excluded: cfg.ExcludedTasks,
	})
	if err != nil {
		return nil, err
	}

	dates := cfg.Period.Dates()
	footer := ComputeFooter(matrix, dates, g.Holidays, g.Prefs)
	document := BuildDocument(cfg.Period, matrix, footer, g.Holidays, g.Prefs)

	return &Result{Matrix: matrix, Footer: footer, Document: document}, nil
}
