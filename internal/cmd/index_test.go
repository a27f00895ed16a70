package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/harrison/rash/internal/record"
	"github.com/harrison/rash/internal/store"
)

func TestIndexCommandIngestsDroppedRecords(t *testing.T) {
	paths := newTestPaths(t)

	if _, err := record.Write(paths.RecordDir(), record.KindCommand, 1, record.CommandJSON{
		Command: "echo hi",
		Cwd:     "/tmp",
	}); err != nil {
		t.Fatalf("seed record: %v", err)
	}

	var out bytes.Buffer
	cmd := NewIndexCommand(paths)
	cmd.SetOut(&out)
	cmd.SetErr(new(bytes.Buffer))

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	db, err := store.Open(paths.DB())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer db.Close()

	rec, err := db.GetFullCommandRecord(t.Context(), 1, true)
	if err != nil {
		t.Fatalf("GetFullCommandRecord: %v", err)
	}
	if rec.Command != "echo hi" {
		t.Fatalf("got command %q", rec.Command)
	}
}

func TestIndexCommandAcceptsExplicitRecordPath(t *testing.T) {
	paths := newTestPaths(t)
	otherDir := t.TempDir()
	for _, sub := range []string{"command", "init", "exit"} {
		if err := os.MkdirAll(filepath.Join(otherDir, sub), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", sub, err)
		}
	}
	if _, err := record.Write(otherDir, record.KindCommand, 1, record.CommandJSON{Command: "ls"}); err != nil {
		t.Fatalf("seed record: %v", err)
	}

	cmd := NewIndexCommand(paths)
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{otherDir})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
}
