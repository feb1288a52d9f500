package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// #region schema

const schema = `
CREATE TABLE IF NOT EXISTS session_log (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id  TEXT NOT NULL,
	event       TEXT NOT NULL,
	detail      TEXT,
	created_at  TEXT NOT NULL
);
`

// #endregion schema

// #region events

// Event names a journal entry type.
type Event string

const (
	EventCatalogLoaded   Event = "catalog_loaded"
	EventCatalogFailed   Event = "catalog_failed"
	EventViewSelected    Event = "view_selected"
	EventDetailOpened    Event = "detail_opened"
	EventHistoryCleared  Event = "history_cleared"
	EventFetchDispatched Event = "fetch_dispatched"
	EventFetchReady      Event = "fetch_ready"
	EventFetchFailed     Event = "fetch_failed"
)

// Entry is one recorded session event.
type Entry struct {
	ID        int64
	SessionID string
	Event     Event
	Detail    string
	CreatedAt time.Time
}

// #endregion events

// #region journal-struct

// Journal is the per-session decision log. It exists for diagnostics only;
// the default in-memory database keeps nothing across sessions.
type Journal struct {
	db *sql.DB
}

// Open opens (or creates) the journal database and runs migrations.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// #endregion journal-struct

// #region record

// Record appends an entry. CreatedAt defaults to now when zero.
func (j *Journal) Record(sessionID string, event Event, detail string) error {
	_, err := j.db.Exec(
		`INSERT INTO session_log (session_id, event, detail, created_at) VALUES (?, ?, ?, ?)`,
		sessionID, string(event), nullIfEmpty(detail), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record %s: %w", event, err)
	}
	return nil
}

// #endregion record

// #region list

// List returns the most recent entries, newest first.
func (j *Journal) List(limit int) ([]Entry, error) {
	rows, err := j.db.Query(
		`SELECT id, session_id, event, detail, created_at
		 FROM session_log ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var detail sql.NullString
		var createdStr string
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Event, &detail, &createdStr); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if detail.Valid {
			e.Detail = detail.String
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountByEvent returns how many entries exist per event type.
func (j *Journal) CountByEvent() (map[Event]int, error) {
	rows, err := j.db.Query(`SELECT event, COUNT(*) FROM session_log GROUP BY event`)
	if err != nil {
		return nil, fmt.Errorf("count by event: %w", err)
	}
	defer rows.Close()

	counts := map[Event]int{}
	for rows.Next() {
		var event string
		var n int
		if err := rows.Scan(&event, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[Event(event)] = n
	}
	return counts, rows.Err()
}

// #endregion list

// #region helpers

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
