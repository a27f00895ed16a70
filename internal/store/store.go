// Package store owns the SQLite-backed database described in spec.md §3
// and §4.2: schema initialization, the three ingest operations, query
// assembly via internal/sqlbuilder, and full-record retrieval. Grounded on
// the teacher's internal/learning.Store (embedded schema, sql.DB wrapper,
// ExecContext/QueryContext idioms), adapted to rash's dedup-table schema
// and transactional ingest semantics from original_source/rash/database.py.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed schema.sql
var schemaSQL string

// RashVersion and SchemaVersion are recorded in rash_info on first open
// (spec.md §3 invariant 5) and appended again whenever they change.
const (
	RashVersion   = "1.0.0"
	SchemaVersion = "1"
)

// Store owns the database connection and implements the ingest and query
// operations of spec.md §4.2. A Store is not safe for concurrent ingest
// calls from multiple goroutines (spec.md §5: single-threaded cooperative
// scheduling); concurrent reads are fine.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if necessary) the database at path, applies the
// schema, and ensures a current VersionRecord exists. Opening a path whose
// parent directory cannot be created, or whose schema fails to apply, is
// fatal per spec.md §4.2.
func Open(path string) (*Store, error) {
	registerDriver()

	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// command_history writers must not interleave, and go-sqlite3
	// serializes writers anyway; one connection keeps transactions simple.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) init() error {
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return s.ensureVersionRecord()
}

func (s *Store) ensureVersionRecord() error {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM rash_info WHERE rash_version = ? AND schema_version = ?`,
		RashVersion, SchemaVersion,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("query version record: %w", err)
	}
	if count > 0 {
		return nil
	}
	_, err = s.db.Exec(
		`INSERT INTO rash_info (rash_version, schema_version) VALUES (?, ?)`,
		RashVersion, SchemaVersion,
	)
	if err != nil {
		return fmt.Errorf("insert version record: %w", err)
	}
	return nil
}

// ErrNotFound is returned by retrieval operations that find no matching
// row, distinguishing "not found" from other query failures (spec.md §7).
var ErrNotFound = errors.New("store: record not found")

// getOrCreateID resolves value to its surrogate key in a single-column
// dedup table, inserting a new row if none exists. Grounded on
// original_source/rash/database.py's `_get_maybe_new_id`.
func getOrCreateID(ctx context.Context, tx *sql.Tx, table, column, value string) (int64, error) {
	var id int64
	query := fmt.Sprintf(`SELECT id FROM %s WHERE %s = ?`, table, column)
	err := tx.QueryRowContext(ctx, query, value).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("lookup %s: %w", table, err)
	}

	insert := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?)`, table, column)
	result, err := tx.ExecContext(ctx, insert, value)
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", table, err)
	}
	return result.LastInsertId()
}
