package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"stempeluhr/timesheet"
)

type SQLiteStore struct {
	db *sql.DB
}

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrProfileNotFound = errors.New("accounting profile not found")
	ErrEntryNotFound   = errors.New("time entry not found")
)

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS accounting_profiles (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	is_active INTEGER NOT NULL DEFAULT 1,
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS profile_attributes (
	profile_id INTEGER NOT NULL REFERENCES accounting_profiles(id),
	name TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (profile_id, name)
);

CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE COLLATE NOCASE,
	description TEXT NOT NULL DEFAULT '',
	accounting_id INTEGER REFERENCES accounting_profiles(id),
	is_active INTEGER NOT NULL DEFAULT 1,
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
	archived_at TEXT
);

CREATE TABLE IF NOT EXISTS time_entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	task_id INTEGER NOT NULL REFERENCES tasks(id),
	start_time TEXT NOT NULL,
	end_time TEXT,
	duration_seconds INTEGER NOT NULL DEFAULT 0 CHECK(duration_seconds >= 0),
	note TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_time_entries_task_start ON time_entries(task_id, start_time);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// --- tasks ---

func (s *SQLiteStore) CreateTask(task timesheet.Task) (timesheet.Task, error) {
	accounting := sql.NullInt64{Int64: task.AccountingID, Valid: task.AccountingID > 0}
	createdAt := task.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := s.db.Exec(
		`INSERT INTO tasks (name, description, accounting_id, is_active, created_at) VALUES (?, ?, ?, 1, ?);`,
		task.Name,
		task.Description,
		accounting,
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return timesheet.Task{}, fmt.Errorf("insert task %q: %w", task.Name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return timesheet.Task{}, fmt.Errorf("read inserted task id: %w", err)
	}

	task.ID = id
	task.IsActive = true
	task.CreatedAt = createdAt
	return task, nil
}

func (s *SQLiteStore) TaskByID(id int64) (timesheet.Task, error) {
	row := s.db.QueryRow(taskSelect+` WHERE id = ?;`, id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return timesheet.Task{}, ErrTaskNotFound
	}
	if err != nil {
		return timesheet.Task{}, fmt.Errorf("query task %d: %w", id, err)
	}
	return task, nil
}

// TaskByName resolves a task by case-insensitive name match.
func (s *SQLiteStore) TaskByName(name string) (timesheet.Task, error) {
	row := s.db.QueryRow(taskSelect+` WHERE name = ? COLLATE NOCASE;`, name)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return timesheet.Task{}, ErrTaskNotFound
	}
	if err != nil {
		return timesheet.Task{}, fmt.Errorf("query task %q: %w", name, err)
	}
	return task, nil
}

func (s *SQLiteStore) ActiveTasks() ([]timesheet.Task, error) {
	rows, err := s.db.Query(taskSelect + ` WHERE is_active = 1 ORDER BY name COLLATE NOCASE;`)
	if err != nil {
		return nil, fmt.Errorf("query active tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]timesheet.Task, 0, 32)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

// ArchiveTask soft-deletes a task; its entries stay queryable.
func (s *SQLiteStore) ArchiveTask(id int64) error {
	res, err := s.db.Exec(
		`UPDATE tasks SET is_active = 0, archived_at = ? WHERE id = ? AND is_active = 1;`,
		time.Now().Format(time.RFC3339),
		id,
	)
	if err != nil {
		return fmt.Errorf("archive task %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read archived row count: %w", err)
	}
	if affected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// LinkTaskAccounting points a task at an accounting profile. A profileID of 0
// removes the link.
func (s *SQLiteStore) LinkTaskAccounting(taskID, profileID int64) error {
	accounting := sql.NullInt64{Int64: profileID, Valid: profileID > 0}
	res, err := s.db.Exec(`UPDATE tasks SET accounting_id = ? WHERE id = ?;`, accounting, taskID)
	if err != nil {
		return fmt.Errorf("link task %d to profile %d: %w", taskID, profileID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read linked row count: %w", err)
	}
	if affected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

const taskSelect = `
SELECT id, name, description, accounting_id, is_active, created_at, archived_at
FROM tasks`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(scanner rowScanner) (timesheet.Task, error) {
	var (
		task       timesheet.Task
		accounting sql.NullInt64
		active     int
		createdRaw string
		archived   sql.NullString
	)
	if err := scanner.Scan(&task.ID, &task.Name, &task.Description, &accounting, &active, &createdRaw, &archived); err != nil {
		return timesheet.Task{}, err
	}
	if accounting.Valid {
		task.AccountingID = accounting.Int64
	}
	task.IsActive = active != 0

	var err error
	task.CreatedAt, err = time.Parse(time.RFC3339, createdRaw)
	if err != nil {
		return timesheet.Task{}, fmt.Errorf("parse created_at %q: %w", createdRaw, err)
	}
	if archived.Valid && archived.String != "" {
		task.ArchivedAt, err = time.Parse(time.RFC3339, archived.String)
		if err != nil {
			return timesheet.Task{}, fmt.Errorf("parse archived_at %q: %w", archived.String, err)
		}
	}
	return task, nil
}

// --- accounting profiles ---

func (s *SQLiteStore) CreateProfile(profile timesheet.Profile) (timesheet.Profile, error) {
	createdAt := profile.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return timesheet.Profile{}, fmt.Errorf("begin transaction: %w", err)
	}

	res, err := tx.Exec(
		`INSERT INTO accounting_profiles (name, is_active, created_at) VALUES (?, 1, ?);`,
		profile.Name,
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		_ = tx.Rollback()
		return timesheet.Profile{}, fmt.Errorf("insert profile %q: %w", profile.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return timesheet.Profile{}, fmt.Errorf("read inserted profile id: %w", err)
	}

	for name, value := range profile.Attributes {
		if _, err := tx.Exec(
			`INSERT INTO profile_attributes (profile_id, name, value) VALUES (?, ?, ?);`,
			id, name, value,
		); err != nil {
			_ = tx.Rollback()
			return timesheet.Profile{}, fmt.Errorf("insert profile attribute %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return timesheet.Profile{}, fmt.Errorf("commit transaction: %w", err)
	}

	profile.ID = id
	profile.IsActive = true
	profile.CreatedAt = createdAt
	return profile, nil
}

func (s *SQLiteStore) ActiveProfiles() ([]timesheet.Profile, error) {
	rows, err := s.db.Query(`
SELECT id, name, created_at
FROM accounting_profiles
WHERE is_active = 1
ORDER BY name COLLATE NOCASE, id;`)
	if err != nil {
		return nil, fmt.Errorf("query active profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]timesheet.Profile, 0, 16)
	for rows.Next() {
		var (
			profile    timesheet.Profile
			createdRaw string
		)
		if err := rows.Scan(&profile.ID, &profile.Name, &createdRaw); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profile.IsActive = true
		profile.CreatedAt, err = time.Parse(time.RFC3339, createdRaw)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdRaw, err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}

	for i := range profiles {
		attrs, err := s.profileAttributes(profiles[i].ID)
		if err != nil {
			return nil, err
		}
		profiles[i].Attributes = attrs
	}
	return profiles, nil
}

func (s *SQLiteStore) profileAttributes(profileID int64) (map[string]string, error) {
	rows, err := s.db.Query(`SELECT name, value FROM profile_attributes WHERE profile_id = ?;`, profileID)
	if err != nil {
		return nil, fmt.Errorf("query attributes for profile %d: %w", profileID, err)
	}
	defer rows.Close()

	attrs := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("scan profile attribute: %w", err)
		}
		attrs[name] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profile attributes: %w", err)
	}
	return attrs, nil
}

func (s *SQLiteStore) ArchiveProfile(id int64) error {
	res, err := s.db.Exec(`UPDATE accounting_profiles SET is_active = 0 WHERE id = ? AND is_active = 1;`, id)
	if err != nil {
		return fmt.Errorf("archive profile %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read archived row count: %w", err)
	}
	if affected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// --- time entries ---

func (s *SQLiteStore) InsertEntry(entry timesheet.Entry) (timesheet.Entry, error) {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var end sql.NullString
	if !entry.EndTime.IsZero() {
		end = sql.NullString{String: entry.EndTime.Format(time.RFC3339), Valid: true}
	}

	res, err := s.db.Exec(
		`INSERT INTO time_entries (task_id, start_time, end_time, duration_seconds, note, created_at)
VALUES (?, ?, ?, ?, ?, ?);`,
		entry.TaskID,
		entry.StartTime.Format(time.RFC3339),
		end,
		entry.DurationSeconds,
		entry.Note,
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return timesheet.Entry{}, fmt.Errorf("insert time entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return timesheet.Entry{}, fmt.Errorf("read inserted entry id: %w", err)
	}

	entry.ID = id
	entry.CreatedAt = createdAt
	return entry, nil
}

// CloseEntry finishes a running entry with the given end time and duration.
func (s *SQLiteStore) CloseEntry(id int64, end time.Time, durationSeconds int) error {
	res, err := s.db.Exec(
		`UPDATE time_entries SET end_time = ?, duration_seconds = ? WHERE id = ?;`,
		end.Format(time.RFC3339),
		durationSeconds,
		id,
	)
	if err != nil {
		return fmt.Errorf("close time entry %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read updated row count: %w", err)
	}
	if affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// ActiveEntry returns the most recent running entry, if any.
func (s *SQLiteStore) ActiveEntry() (timesheet.Entry, bool, error) {
	row := s.db.QueryRow(entrySelect + ` WHERE end_time IS NULL ORDER BY start_time DESC LIMIT 1;`)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return timesheet.Entry{}, false, nil
	}
	if err != nil {
		return timesheet.Entry{}, false, fmt.Errorf("query active entry: %w", err)
	}
	return entry, true, nil
}

// EntriesForTask returns entries whose start timestamp falls in [start, end],
// ordered by start.
func (s *SQLiteStore) EntriesForTask(taskID int64, start, end time.Time) ([]timesheet.Entry, error) {
	rows, err := s.db.Query(
		entrySelect+` WHERE task_id = ? AND start_time >= ? AND start_time <= ? ORDER BY start_time, id;`,
		taskID,
		start.Format(time.RFC3339),
		end.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("query entries for task %d: %w", taskID, err)
	}
	return collectEntries(rows)
}

// EntriesInRange returns all entries across tasks whose start timestamp falls
// in [start, end], ordered by start.
func (s *SQLiteStore) EntriesInRange(start, end time.Time) ([]timesheet.Entry, error) {
	rows, err := s.db.Query(
		entrySelect+` WHERE start_time >= ? AND start_time <= ? ORDER BY start_time, id;`,
		start.Format(time.RFC3339),
		end.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("query entries in range: %w", err)
	}
	return collectEntries(rows)
}

// OverlapCandidates returns completed entries that end after the given start
// plus any running entry. Callers decide overlap semantics.
func (s *SQLiteStore) OverlapCandidates(start time.Time) ([]timesheet.Entry, error) {
	rows, err := s.db.Query(
		entrySelect+` WHERE end_time IS NULL OR end_time > ? ORDER BY start_time, id;`,
		start.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("query overlap candidates: %w", err)
	}
	return collectEntries(rows)
}

func (s *SQLiteStore) DeleteEntry(id int64) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM time_entries WHERE id = ?;`, id)
	if err != nil {
		return false, fmt.Errorf("delete time entry %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read deleted row count: %w", err)
	}
	return affected > 0, nil
}

const entrySelect = `
SELECT id, task_id, start_time, end_time, duration_seconds, note, created_at
FROM time_entries`

func scanEntry(scanner rowScanner) (timesheet.Entry, error) {
	var (
		entry      timesheet.Entry
		startRaw   string
		endRaw     sql.NullString
		createdRaw string
	)
	if err := scanner.Scan(&entry.ID, &entry.TaskID, &startRaw, &endRaw, &entry.DurationSeconds, &entry.Note, &createdRaw); err != nil {
		return timesheet.Entry{}, err
	}

	var err error
	entry.StartTime, err = time.Parse(time.RFC3339, startRaw)
	if err != nil {
		return timesheet.Entry{}, fmt.Errorf("parse start_time %q: %w", startRaw, err)
	}
	if endRaw.Valid && endRaw.String != "" {
		entry.EndTime, err = time.Parse(time.RFC3339, endRaw.String)
		if err != nil {
			return timesheet.Entry{}, fmt.Errorf("parse end_time %q: %w", endRaw.String, err)
		}
	}
	entry.CreatedAt, err = time.Parse(time.RFC3339, createdRaw)
	if err != nil {
		return timesheet.Entry{}, fmt.Errorf("parse created_at %q: %w", createdRaw, err)
	}
	return entry, nil
}

func collectEntries(rows *sql.Rows) ([]timesheet.Entry, error) {
	defer rows.Close()

	entries := make([]timesheet.Entry, 0, 64)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan time entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate time entries: %w", err)
	}
	return entries, nil
}
