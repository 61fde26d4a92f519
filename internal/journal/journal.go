// Package journal records evaluation-pass events in a local SQLite file.
//
// The journal is an observability sink, not storage: it remembers that
// passes happened and how they ended, never namespace contents. All
// namespace state lives in process memory; deleting the journal file loses
// history only.
package journal

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/funvibe/livens/internal/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS passes (
	id          TEXT PRIMARY KEY,
	namespace   TEXT NOT NULL,
	started_at  TIMESTAMP NOT NULL,
	finished_at TIMESTAMP,
	outcome     TEXT,
	detail      TEXT
);
CREATE INDEX IF NOT EXISTS passes_namespace ON passes(namespace);
`

// Entry is one journaled pass.
type Entry struct {
	ID        string
	Namespace string
	StartedAt time.Time
	Outcome   string
	Detail    string
}

// Journal is a sink for pass lifecycle events.
type Journal struct {
	db *sql.DB
}

// Open opens (creating if needed) a journal at path.
func Open(path string) (*Journal, error) {
	db, err := sql.Open(config.JournalDriver, path)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init journal schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// RecordBegin journals the start of a pass.
func (j *Journal) RecordBegin(passID uuid.UUID, ns string, started time.Time) error {
	_, err := j.db.Exec(
		`INSERT INTO passes (id, namespace, started_at) VALUES (?, ?, ?)`,
		passID.String(), ns, started.UTC(),
	)
	if err != nil {
		return fmt.Errorf("journal pass begin: %w", err)
	}
	return nil
}

// RecordOutcome journals how a pass ended. Outcome is one of the
// config.Outcome* labels; detail carries the abort cause, if any.
func (j *Journal) RecordOutcome(passID uuid.UUID, outcome, detail string) error {
	_, err := j.db.Exec(
		`UPDATE passes SET finished_at = ?, outcome = ?, detail = ? WHERE id = ?`,
		time.Now().UTC(), outcome, detail, passID.String(),
	)
	if err != nil {
		return fmt.Errorf("journal pass outcome: %w", err)
	}
	return nil
}

// Recent returns up to limit journaled passes, newest first.
func (j *Journal) Recent(limit int) ([]Entry, error) {
	rows, err := j.db.Query(
		`SELECT id, namespace, started_at, COALESCE(outcome, ''), COALESCE(detail, '')
		 FROM passes ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Namespace, &e.StartedAt, &e.Outcome, &e.Detail); err != nil {
			return nil, fmt.Errorf("scan journal row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close releases the underlying database handle.
func (j *Journal) Close() error {
	return j.db.Close()
}
