package timer

import (
	"errors"
	"fmt"
	"time"

	"stempeluhr/internal/timeutil"
	"stempeluhr/storage"
	"stempeluhr/timesheet"
)

var (
	ErrNoActiveEntry = errors.New("no entry is running")
	ErrOverlap       = errors.New("entry overlaps an existing one")
)

// Status describes the running entry, if any.
type Status struct {
	Running bool
	Entry   timesheet.Entry
	Task    timesheet.Task
	Elapsed time.Duration
}

// Service implements start/stop bookkeeping over the store. Now is
// injectable for tests and defaults to time.Now.
type Service struct {
	Store *storage.SQLiteStore
	Now   func() time.Time
}

func NewService(store *storage.SQLiteStore) *Service {
	return &Service{Store: store, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Start begins tracking the named task. A running entry is closed first, so
// switching tasks is a single command.
func (s *Service) Start(taskName, note string) (timesheet.Entry, error) {
	task, err := s.Store.TaskByName(taskName)
	if err != nil {
		return timesheet.Entry{}, err
	}
	if !task.IsActive {
		return timesheet.Entry{}, fmt.Errorf("task %q is archived", task.Name)
	}

	now := s.now()
	if _, err := s.closeActive(now); err != nil && !errors.Is(err, ErrNoActiveEntry) {
		return timesheet.Entry{}, err
	}

	entry := timesheet.Entry{
		TaskID:    task.ID,
		StartTime: now,
		Note:      note,
	}
	created, err := s.Store.InsertEntry(entry)
	if err != nil {
		return timesheet.Entry{}, fmt.Errorf("start entry for %q: %w", task.Name, err)
	}
	return created, nil
}

// Stop closes the running entry and returns it with end and duration set.
func (s *Service) Stop() (timesheet.Entry, error) {
	return s.closeActive(s.now())
}

func (s *Service) closeActive(end time.Time) (timesheet.Entry, error) {
	entry, ok, err := s.Store.ActiveEntry()
	if err != nil {
		return timesheet.Entry{}, err
	}
	if !ok {
		return timesheet.Entry{}, ErrNoActiveEntry
	}

	duration := end.Sub(entry.StartTime)
	if duration < 0 {
		duration = 0
	}
	seconds := int(duration.Seconds())
	if err := s.Store.CloseEntry(entry.ID, end, seconds); err != nil {
		return timesheet.Entry{}, fmt.Errorf("close entry %d: %w", entry.ID, err)
	}

	entry.EndTime = end
	entry.DurationSeconds = seconds
	return entry, nil
}

// Current reports the running entry together with its task and the live
// elapsed duration.
func (s *Service) Current() (Status, error) {
	entry, ok, err := s.Store.ActiveEntry()
	if err != nil {
		return Status{}, err
	}
	if !ok {
		return Status{}, nil
	}

	task, err := s.Store.TaskByID(entry.TaskID)
	if err != nil {
		return Status{}, err
	}

	elapsed := s.now().Sub(entry.StartTime)
	if elapsed < 0 {
		elapsed = 0
	}
	return Status{Running: true, Entry: entry, Task: task, Elapsed: elapsed}, nil
}

// AddManual records a completed entry with explicit times. It refuses
// entries that overlap existing ones; a running entry counts as open-ended
// and overlaps everything after its start.
func (s *Service) AddManual(taskName string, start, end time.Time, note string) (timesheet.Entry, error) {
	if !end.After(start) {
		return timesheet.Entry{}, fmt.Errorf("entry end %s is not after start %s",
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	task, err := s.Store.TaskByName(taskName)
	if err != nil {
		return timesheet.Entry{}, err
	}

	candidates, err := s.Store.OverlapCandidates(start)
	if err != nil {
		return timesheet.Entry{}, err
	}
	for _, existing := range candidates {
		if timeutil.Overlaps(start, end, existing.StartTime, existing.EndTime) {
			return timesheet.Entry{}, fmt.Errorf("%w: entry %d (%s)",
				ErrOverlap, existing.ID, existing.StartTime.Format(time.RFC3339))
		}
	}

	entry := timesheet.Entry{
		TaskID:          task.ID,
		StartTime:       start,
		EndTime:         end,
		DurationSeconds: int(end.Sub(start).Seconds()),
		Note:            note,
	}
	created, err := s.Store.InsertEntry(entry)
	if err != nil {
		return timesheet.Entry{}, fmt.Errorf("add entry for %q: %w", task.Name, err)
	}
	return created, nil
}
