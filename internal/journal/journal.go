// Package journal keeps an append-only SQLite record of scored requests.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver

	"cvscore/internal/protocol"
)

const schema = `CREATE TABLE IF NOT EXISTS score_journal (
    seq           INTEGER PRIMARY KEY AUTOINCREMENT,
    id            TEXT NOT NULL,
    command       TEXT NOT NULL,
    response_type TEXT NOT NULL,
    payload       TEXT NOT NULL,
    created_at    TIMESTAMP NOT NULL
);`

// Entry is one journaled round trip.
type Entry struct {
	ID           string
	Command      protocol.Command
	ResponseType protocol.ResponseType
	Payload      string
	CreatedAt    time.Time
}

// Journal writes entries to a SQLite database.
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the journal at dsn. Use ":memory:" for tests.
func Open(ctx context.Context, dsn string) (*Journal, error) {
	if dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("journal: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", dsn, err)
	}
	// A single connection keeps ":memory:" databases alive and serialises writers.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: create schema: %w", err)
	}
	return &Journal{db: db, now: time.Now}, nil
}

// Record stores the response to a request issued with cmd.
func (j *Journal) Record(ctx context.Context, cmd protocol.Command, resp protocol.Response) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO score_journal (id, command, response_type, payload, created_at) VALUES (?, ?, ?, ?, ?)`,
		resp.ID, string(cmd), string(resp.Type), string(resp.Payload), j.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("journal: record %s: %w", resp.ID, err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, command, response_type, payload, created_at FROM score_journal ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: query: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var cmd, rt string
		if err := rows.Scan(&e.ID, &cmd, &rt, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		e.Command = protocol.Command(cmd)
		e.ResponseType = protocol.ResponseType(rt)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close releases the database.
func (j *Journal) Close() error { return j.db.Close() }
