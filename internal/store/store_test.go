package store

import (
	"path/filepath"
	"testing"
)

func TestOpenCreatesSchemaAndVersionRecord(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	var count int
	err = s.db.QueryRow(
		`SELECT COUNT(*) FROM rash_info WHERE rash_version = ? AND schema_version = ?`,
		RashVersion, SchemaVersion,
	).Scan(&count)
	if err != nil {
		t.Fatalf("query rash_info: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one version record, got %d", count)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.sqlite")
	first, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	first.Close()
	second, err := Open(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	second.Close()
}
