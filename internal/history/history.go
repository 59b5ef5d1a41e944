// Package history backs the save orchestrator's optional capture-audit
// ledger: a small SQLite table recording monitor index, resolved path,
// byte count, and timestamp for each successful write. It is entirely
// additive; the save orchestrator's path sequence is identical whether
// or not a Ledger is attached.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Ledger is a handle to the on-disk capture-audit database.
type Ledger struct {
	db *sql.DB
}

// Open creates (if needed) and opens the SQLite database at path and
// ensures its single table exists.
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS captures (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	monitor INTEGER NOT NULL,
	path TEXT NOT NULL,
	bytes INTEGER NOT NULL,
	captured_at TEXT NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: migrate: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Record appends one row for a completed capture.
func (l *Ledger) Record(monitor int, path string, bytes int, capturedAt time.Time) error {
	_, err := l.db.Exec(
		`INSERT INTO captures (monitor, path, bytes, captured_at) VALUES (?, ?, ?, ?)`,
		monitor, path, bytes, capturedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// Recent returns the n most recently recorded rows, newest first.
func (l *Ledger) Recent(n int) ([]Entry, error) {
	rows, err := l.db.Query(
		`SELECT monitor, path, bytes, captured_at FROM captures ORDER BY id DESC LIMIT ?`, n,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var capturedAt string
		if err := rows.Scan(&e.Monitor, &e.Path, &e.Bytes, &capturedAt); err != nil {
			return nil, err
		}
		e.CapturedAt, err = time.Parse(time.RFC3339Nano, capturedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close releases the underlying database handle.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Entry is one row of capture history.
type Entry struct {
	Monitor    int
	Path       string
	Bytes      int
	CapturedAt time.Time
}
