package report

import (
	"sort"
	"strings"
	"time"

	"stempeluhr/internal/timeutil"
	"stempeluhr/timesheet"
)

// EntrySource supplies the raw time entries for one task within a range.
type EntrySource interface {
	EntriesForTask(taskID int64, start, end time.Time) ([]timesheet.Entry, error)
}

// Matrix is the key-by-day table of accumulated hours for one report run.
// It keeps the full hours for display and, separately, the hours that count
// toward the Total footer (contributions from excluded tasks display but do
// not count).
type Matrix struct {
	cells    map[Key]map[string]float64
	counted  map[Key]map[string]float64
	tasks    map[Key]map[string]struct{}
	profiles map[Key]timesheet.Profile
	vacation map[string]struct{}
	sickness map[string]struct{}
}

func newMatrix() *Matrix {
	return &Matrix{
		cells:    make(map[Key]map[string]float64),
		counted:  make(map[Key]map[string]float64),
		tasks:    make(map[Key]map[string]struct{}),
		profiles: make(map[Key]timesheet.Profile),
		vacation: make(map[string]struct{}),
		sickness: make(map[string]struct{}),
	}
}

func (m *Matrix) touch(key Key) {
	if _, ok := m.cells[key]; !ok {
		m.cells[key] = make(map[string]float64)
		m.counted[key] = make(map[string]float64)
		m.tasks[key] = make(map[string]struct{})
	}
}

func (m *Matrix) add(key Key, day string, hours float64, countsTowardTotal bool) {
	m.touch(key)
	m.cells[key][day] += hours
	if countsTowardTotal {
		m.counted[key][day] += hours
	}
}

// Keys returns all row keys in no particular order; ordering is a
// presentation concern.
func (m *Matrix) Keys() []Key {
	keys := make([]Key, 0, len(m.cells))
	for key := range m.cells {
		keys = append(keys, key)
	}
	return keys
}

// Hours returns the display hours for a key and ISO day, 0 for missing cells.
func (m *Matrix) Hours(key Key, day string) float64 {
	return m.cells[key][day]
}

// CountedHours returns the hours feeding the Total footer for a key and day.
func (m *Matrix) CountedHours(key Key, day string) float64 {
	return m.counted[key][day]
}

// RowTotal sums the display hours of one row across all days.
func (m *Matrix) RowTotal(key Key) float64 {
	total := 0.0
	for _, hours := range m.cells[key] {
		total += hours
	}
	return total
}

// TaskLabel joins the sorted distinct task names contributing to a key.
func (m *Matrix) TaskLabel(key Key) string {
	names := make([]string, 0, len(m.tasks[key]))
	for name := range m.tasks[key] {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// Profile returns a representative stored profile for an assigned key.
func (m *Matrix) Profile(key Key) (timesheet.Profile, bool) {
	profile, ok := m.profiles[key]
	return profile, ok
}

// IsVacationDay reports whether vacation hours were booked on the ISO day.
func (m *Matrix) IsVacationDay(day string) bool {
	_, ok := m.vacation[day]
	return ok
}

// IsSicknessDay reports whether sickness hours were booked on the ISO day.
func (m *Matrix) IsSicknessDay(day string) bool {
	_, ok := m.sickness[day]
	return ok
}

// Builder folds time entries and time-off declarations into a Matrix.
type Builder struct {
	Entries EntrySource
	// Now values running entries; injectable for reproducible runs.
	Now func() time.Time
}

// BuildInput carries everything one report run aggregates over.
type BuildInput struct {
	Period   Period
	Tasks    []timesheet.Task
	Profiles []timesheet.Profile
	TimeOff  []timesheet.TimeOff
	Excluded []string
}

// Build queries entries per task and produces the populated Matrix. Any
// source failure aborts the run; no partial matrix is returned.
func (b *Builder) Build(in BuildInput) (*Matrix, error) {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}

	profilesByID := make(map[int64]timesheet.Profile, len(in.Profiles))
	for _, profile := range in.Profiles {
		profilesByID[profile.ID] = profile
	}

	excluded := make(map[string]struct{}, len(in.Excluded))
	for _, name := range in.Excluded {
		excluded[name] = struct{}{}
	}

	matrix := newMatrix()
	start := in.Period.Start()
	end := in.Period.End()

	keysByTask := make(map[string]Key, len(in.Tasks))

	for _, task := range in.Tasks {
		key := ResolveKey(task, profilesByID)
		keysByTask[task.Name] = key

		matrix.touch(key)
		matrix.tasks[key][task.Name] = struct{}{}
		if key.Assigned() {
			if _, ok := matrix.profiles[key]; !ok {
				matrix.profiles[key] = profilesByID[task.AccountingID]
			}
		}

		entries, err := b.Entries.EntriesForTask(task.ID, start, end)
		if err != nil {
			return nil, err
		}

		_, isExcluded := excluded[task.Name]
		isVacation, isSickness := classifyTimeOffName(task.Name)

		for _, entry := range entries {
			// An entry belongs entirely to the day it started on,
			// even when it runs past midnight.
			day := timeutil.DayKey(entry.StartTime)
			hours := entry.Hours(now())

			matrix.add(key, day, hours, !isExcluded)

			if hours > 0 {
				switch {
				case isVacation:
					matrix.vacation[day] = struct{}{}
				case isSickness:
					matrix.sickness[day] = struct{}{}
				}
			}
		}
	}

	for _, timeOff := range in.TimeOff {
		// An exact name match keeps the task's accounting link; anything
		// else becomes a virtual unassigned row.
		key, ok := keysByTask[timeOff.TaskName]
		if !ok {
			key = Unassigned
		}

		matrix.touch(key)
		matrix.tasks[key][timeOff.TaskName] = struct{}{}

		_, isExcluded := excluded[timeOff.TaskName]
		isVacation, isSickness := classifyTimeOffName(timeOff.TaskName)

		for _, date := range timeOff.Days {
			if !in.Period.Contains(date) {
				continue
			}
			day := timeutil.DayKey(date)
			matrix.add(key, day, timeOff.DailyHours, !isExcluded)

			switch {
			case isVacation:
				matrix.vacation[day] = struct{}{}
			case isSickness:
				matrix.sickness[day] = struct{}{}
			}
		}
	}

	return matrix, nil
}

func classifyTimeOffName(name string) (vacation, sickness bool) {
	lower := strings.ToLower(name)
	vacation = strings.Contains(lower, "vacation") || strings.Contains(lower, "urlaub")
	sickness = strings.Contains(lower, "sickness") || strings.Contains(lower, "krank")
	return vacation, sickness
}
