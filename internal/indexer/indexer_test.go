package indexer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harrison/rash/internal/display"
	"github.com/harrison/rash/internal/logger"
	"github.com/harrison/rash/internal/model"
	"github.com/harrison/rash/internal/record"
)

type fakeStore struct {
	commands []model.ImportCommandInput
	inits    []model.ImportInitInput
	exits    []model.ImportExitInput
}

func (f *fakeStore) ImportCommand(_ context.Context, in model.ImportCommandInput, _ bool) (int64, error) {
	f.commands = append(f.commands, in)
	return int64(len(f.commands)), nil
}

func (f *fakeStore) ImportInit(_ context.Context, in model.ImportInitInput, _ bool) error {
	f.inits = append(f.inits, in)
	return nil
}

func (f *fakeStore) ImportExit(_ context.Context, in model.ImportExitInput, _ bool) error {
	f.exits = append(f.exits, in)
	return nil
}

func writeRecord(t *testing.T, dir string, kind record.Kind, name string, body string) string {
	t.Helper()
	subdir := filepath.Join(dir, string(kind))
	if err := os.MkdirAll(subdir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(subdir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestIndexFileRoutesByDirectory(t *testing.T) {
	dir := t.TempDir()
	fs := &fakeStore{}
	idx := New(fs, logger.NewBufferedLogger(logger.LevelDebug), false, true)

	cmdPath := writeRecord(t, dir, record.KindCommand, "1.json", `{"command":"ls"}`)
	if err := idx.IndexFile(context.Background(), cmdPath); err != nil {
		t.Fatalf("IndexFile(command): %v", err)
	}
	if len(fs.commands) != 1 || fs.commands[0].Command != "ls" {
		t.Fatalf("got %+v", fs.commands)
	}
	if _, err := os.Stat(cmdPath); !os.IsNotExist(err) {
		t.Fatalf("expected file removed after import, got err=%v", err)
	}
}

func TestIndexFileKeepsJSONWhenRequested(t *testing.T) {
	dir := t.TempDir()
	fs := &fakeStore{}
	idx := New(fs, logger.NewBufferedLogger(logger.LevelDebug), true, false)

	path := writeRecord(t, dir, record.KindInit, "1.json", `{"session_id":"S1"}`)
	if err := idx.IndexFile(context.Background(), path); err != nil {
		t.Fatalf("IndexFile: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file retained with keep_json, got err=%v", err)
	}
}

func TestIndexFileUnknownSubtreeIsFatal(t *testing.T) {
	dir := t.TempDir()
	fs := &fakeStore{}
	idx := New(fs, logger.NewBufferedLogger(logger.LevelDebug), false, true)

	path := writeRecord(t, dir, record.Kind("junk"), "1.json", `{}`)
	if err := idx.IndexFile(context.Background(), path); err == nil {
		t.Fatal("expected an error for an unknown record subtree")
	}
}

func TestIndexFileCorruptJSONIsSkippedNotFatal(t *testing.T) {
	dir := t.TempDir()
	fs := &fakeStore{}
	idx := New(fs, logger.NewBufferedLogger(logger.LevelDebug), false, true)

	path := writeRecord(t, dir, record.KindCommand, "1.json", `{not valid json`)
	if err := idx.IndexFile(context.Background(), path); err != nil {
		t.Fatalf("expected corrupt JSON to be skipped without error, got %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected corrupt file to be left in place, got err=%v", err)
	}
}

func TestSweepProcessesFilesInLexicographicOrder(t *testing.T) {
	dir := t.TempDir()
	fs := &fakeStore{}
	idx := New(fs, logger.NewBufferedLogger(logger.LevelDebug), false, true)

	writeRecord(t, dir, record.KindCommand, "2.json", `{"command":"second"}`)
	writeRecord(t, dir, record.KindCommand, "1.json", `{"command":"first"}`)

	if err := idx.Sweep(context.Background(), dir); err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if len(fs.commands) != 2 || fs.commands[0].Command != "first" || fs.commands[1].Command != "second" {
		t.Fatalf("got %+v", fs.commands)
	}
}

func TestIndexFileCorruptJSONNotifiesWarningSink(t *testing.T) {
	dir := t.TempDir()
	fs := &fakeStore{}
	idx := New(fs, logger.NewBufferedLogger(logger.LevelDebug), false, true)

	var got []display.RecordWarning
	idx.SetWarningSink(func(w display.RecordWarning) {
		got = append(got, w)
	})

	path := writeRecord(t, dir, record.KindCommand, "1.json", `{not valid json`)
	if err := idx.IndexFile(context.Background(), path); err != nil {
		t.Fatalf("IndexFile: %v", err)
	}
	if len(got) != 1 || got[0].Path != path {
		t.Fatalf("expected one warning for %s, got %+v", path, got)
	}
}

func TestSweepDrivesProgressReporter(t *testing.T) {
	dir := t.TempDir()
	fs := &fakeStore{}
	idx := New(fs, logger.NewBufferedLogger(logger.LevelDebug), false, true)

	writeRecord(t, dir, record.KindCommand, "1.json", `{"command":"first"}`)
	writeRecord(t, dir, record.KindCommand, "2.json", `{"command":"second"}`)

	total, err := CountPending(dir)
	if err != nil {
		t.Fatalf("CountPending: %v", err)
	}

	var buf strings.Builder
	idx.SetProgress(display.NewImportProgress(&buf, total))

	if err := idx.Sweep(context.Background(), dir); err != nil {
		t.Fatalf("Sweep: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"indexing 2 record files", "[1/2]", "[2/2]", "indexed 2 record files"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected progress output to contain %q, got %q", want, out)
		}
	}
}
