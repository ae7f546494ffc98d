package timesheet

import "time"

// Task is a trackable activity. Tasks may carry a link to an accounting
// profile; reports group hours by that link.
type Task struct {
	ID           int64
	Name         string
	Description  string
	AccountingID int64 // 0 means no accounting profile
	IsActive     bool
	CreatedAt    time.Time
	ArchivedAt   time.Time
}

// Profile is an accounting dimension (cost center, project code, ...).
// Attributes are open-ended; the set of attribute names is user-configured
// and shared across all profiles.
type Profile struct {
	ID         int64
	Name       string
	Attributes map[string]string
	IsActive   bool
	CreatedAt  time.Time
}

// Entry is one tracked session. An entry with a zero EndTime is still
// running. DurationSeconds is authoritative for completed entries; it is not
// necessarily EndTime-StartTime because interruptions can shorten it.
type Entry struct {
	ID              int64
	TaskID          int64
	StartTime       time.Time
	EndTime         time.Time
	DurationSeconds int
	Note            string
	CreatedAt       time.Time
}

// Active reports whether the entry is still running.
func (e Entry) Active() bool {
	return e.EndTime.IsZero()
}

// Hours returns the entry duration in hours. For a running entry the stored
// duration is never trusted; it is computed live from now.
func (e Entry) Hours(now time.Time) float64 {
	if e.Active() {
		elapsed := now.Sub(e.StartTime)
		if elapsed < 0 {
			return 0
		}
		return elapsed.Hours()
	}
	return float64(e.DurationSeconds) / 3600.0
}

// TimeOff is a virtual allocation of hours to calendar dates, supplied per
// report run (vacation, sickness). It is never stored as real entries.
type TimeOff struct {
	TaskName   string
	Days       []time.Time
	DailyHours float64
}
