// Package catalog maintains a small SQLite index of known archive files:
// where they live, which run produced them, and their time coverage. It is
// a convenience layer for the CLI; the archives themselves are never
// touched through it.
package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/text/unicode/norm"
)

//go:embed schema.sql
var schemaSQL string

// Catalog provides durable storage for archive metadata.
type Catalog struct {
	db *sql.DB
}

// Entry is one cataloged archive.
type Entry struct {
	Path     string
	RunID    string
	Name     string
	Nblob    int64
	Dt       float64
	Interval float64
	TMax     float64
	Size     int64
}

// Open creates or opens the catalog database at path.
//
// SQLite is configured for a single writer with WAL mode so concurrent CLI
// invocations reading the catalog don't block an add in progress. Open is
// idempotent.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to catalog: %w", err)
	}

	// SQLite supports one writer at a time; a second connection would only
	// manufacture SQLITE_BUSY errors.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply pragma %q: %w", p, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Add upserts an entry keyed by archive path. Names are normalized to NFC
// so the same scenario name always catalogs identically regardless of how
// the caller's input method composed it.
func (c *Catalog) Add(ctx context.Context, e Entry) error {
	e.Name = norm.NFC.String(e.Name)
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO archives (path, run_id, name, nblob, dt, interval, tmax, size_bytes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			run_id = excluded.run_id,
			name = excluded.name,
			nblob = excluded.nblob,
			dt = excluded.dt,
			interval = excluded.interval,
			tmax = excluded.tmax,
			size_bytes = excluded.size_bytes`,
		e.Path, e.RunID, e.Name, e.Nblob, e.Dt, e.Interval, e.TMax, e.Size)
	if err != nil {
		return fmt.Errorf("add archive %s: %w", e.Path, err)
	}
	return nil
}

// List returns all cataloged archives ordered by path.
func (c *Catalog) List(ctx context.Context) ([]Entry, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT path, run_id, name, nblob, dt, interval, tmax, size_bytes
		FROM archives ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("list archives: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Path, &e.RunID, &e.Name, &e.Nblob, &e.Dt, &e.Interval, &e.TMax, &e.Size); err != nil {
			return nil, fmt.Errorf("scan archive row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database.
func (c *Catalog) Close() error {
	return c.db.Close()
}
