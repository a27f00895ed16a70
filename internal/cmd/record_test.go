package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/harrison/rash/internal/rashhome"
	"github.com/harrison/rash/internal/record"
)

func newTestPaths(t *testing.T) *rashhome.Paths {
	t.Helper()
	base := t.TempDir()
	paths := &rashhome.Paths{Base: base}
	for _, sub := range []string{"command", "init", "exit"} {
		if err := os.MkdirAll(filepath.Join(paths.RecordDir(), sub), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", sub, err)
		}
	}
	return paths
}

func TestRecordCommandWritesCommandRecord(t *testing.T) {
	paths := newTestPaths(t)

	cmd := NewRecordCommand(paths)
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{
		"--record-type", "command",
		"--command", "ls -la",
		"--cwd", "/tmp",
		"--session-id", "host:pts/1:1:2",
		"--exit-code", "0",
	})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(paths.RecordDir(), "command"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one command record file, got %d", len(entries))
	}

	data, err := os.ReadFile(filepath.Join(paths.RecordDir(), "command", entries[0].Name()))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var got record.CommandJSON
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Command != "ls -la" || got.Cwd != "/tmp" || got.ExitCode == nil || *got.ExitCode != 0 {
		t.Fatalf("got %+v", got)
	}
}

func TestRecordCommandRequiresSessionIDForInit(t *testing.T) {
	paths := newTestPaths(t)

	cmd := NewRecordCommand(paths)
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--record-type", "init"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error when --session-id is missing for record-type init")
	}
}

func TestRecordCommandPrintSessionIDRequiresInit(t *testing.T) {
	paths := newTestPaths(t)

	cmd := NewRecordCommand(paths)
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--record-type", "command", "--command", "ls", "--print-session-id"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error when --print-session-id is used outside record-type init")
	}
}

func TestRecordCommandPrintSessionIDComputesAndUsesID(t *testing.T) {
	paths := newTestPaths(t)

	var out bytes.Buffer
	cmd := NewRecordCommand(paths)
	cmd.SetOut(&out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{
		"--record-type", "init",
		"--print-session-id",
		"--session-id-host", "myhost",
		"--session-id-tty", "pts/3",
		"--session-id-ppid", "4242",
		"--session-id-start", "100",
	})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := out.String(); got != "myhost:pts/3:4242:100\n" {
		t.Fatalf("got %q", got)
	}

	entries, err := os.ReadDir(filepath.Join(paths.RecordDir(), "init"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one init record file, got %d", len(entries))
	}
	data, err := os.ReadFile(filepath.Join(paths.RecordDir(), "init", entries[0].Name()))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var got record.InitJSON
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.SessionID != "myhost:pts/3:4242:100" {
		t.Fatalf("got session id %q", got.SessionID)
	}
}

func TestRecordCommandRejectsMalformedEnv(t *testing.T) {
	paths := newTestPaths(t)

	cmd := NewRecordCommand(paths)
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{
		"--record-type", "command",
		"--command", "ls",
		"--env", "NOEQUALSSIGN",
	})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error for a malformed --env value")
	}
}
