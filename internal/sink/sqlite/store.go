// Package sqlite persists catalog runs into a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/KaramelBytes/tabprobe/internal/catalog"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	root       TEXT NOT NULL,
	started_at TEXT NOT NULL,
	files      INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS files (
	id        TEXT PRIMARY KEY,
	run_id    TEXT NOT NULL REFERENCES runs(id),
	file      TEXT NOT NULL,
	path      TEXT NOT NULL,
	type      TEXT NOT NULL,
	size      INTEGER NOT NULL,
	status    TEXT NOT NULL,
	error     TEXT,
	row_count INTEGER,
	partial   INTEGER,
	headers   TEXT,
	preamble  TEXT
);
CREATE TABLE IF NOT EXISTS columns (
	file_id  TEXT NOT NULL REFERENCES files(id),
	position INTEGER NOT NULL,
	name     TEXT NOT NULL,
	type     TEXT NOT NULL,
	mode     TEXT NOT NULL,
	min      TEXT,
	max      TEXT,
	avg      REAL,
	PRIMARY KEY (file_id, position)
);`

// Store writes catalogs to SQLite.
type Store struct {
	db *sql.DB
}

// Open connects to dsn (a file path or ":memory:").
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// EnsureSchema creates the runs, files and columns tables if missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// SaveCatalog inserts the run, its files and their columns in one
// transaction.
func (s *Store) SaveCatalog(ctx context.Context, c *catalog.Catalog) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, root, started_at, files) VALUES (?, ?, ?, ?)`,
		c.ID, c.Root, c.StartedAt.Format(time.RFC3339Nano), len(c.Records)); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	fileStmt, err := tx.PrepareContext(ctx, `INSERT INTO files
		(id, run_id, file, path, type, size, status, error, row_count, partial, headers, preamble)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer fileStmt.Close()
	colStmt, err := tx.PrepareContext(ctx, `INSERT INTO columns
		(file_id, position, name, type, mode, min, max, avg)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer colStmt.Close()

	for _, rec := range c.Records {
		var (
			rows, partial     sql.NullInt64
			headers, preamble sql.NullString
			errText           sql.NullString
		)
		if rec.Error != "" {
			errText = sql.NullString{String: rec.Error, Valid: true}
		}
		if res := rec.Content; res != nil {
			rows = sql.NullInt64{Int64: int64(res.Rows), Valid: true}
			partial = sql.NullInt64{Int64: boolInt(res.Partial), Valid: true}
			headers, err = jsonText(res.Headers)
			if err != nil {
				return err
			}
			if res.Preamble != "" {
				preamble = sql.NullString{String: res.Preamble, Valid: true}
			}
		}
		if _, err = fileStmt.ExecContext(ctx, rec.ID, c.ID, rec.File, rec.Path, rec.Type, rec.Size,
			rec.Status, errText, rows, partial, headers, preamble); err != nil {
			return fmt.Errorf("insert file %s: %w", rec.File, err)
		}
		if rec.Content == nil {
			continue
		}
		for i, name := range rec.Content.ColumnNames() {
			col := rec.Content.Columns[name]
			var minText, maxText sql.NullString
			var avg sql.NullFloat64
			if col.Min != nil {
				if minText, err = jsonText(col.Min); err != nil {
					return err
				}
			}
			if col.Max != nil {
				if maxText, err = jsonText(col.Max); err != nil {
					return err
				}
			}
			if col.Avg != nil {
				avg = sql.NullFloat64{Float64: *col.Avg, Valid: true}
			}
			if _, err = colStmt.ExecContext(ctx, rec.ID, i, name, col.Type, col.Mode, minText, maxText, avg); err != nil {
				return fmt.Errorf("insert column %s/%s: %w", rec.File, name, err)
			}
		}
	}
	return tx.Commit()
}

func jsonText(v any) (sql.NullString, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
