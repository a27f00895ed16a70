package record

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestSessionIDFormat(t *testing.T) {
	got := SessionID("myhost", "pts/3", 4242, 100)
	if got != "myhost:pts/3:4242:100" {
		t.Fatalf("got %q", got)
	}
}

func TestSessionIDFallbacks(t *testing.T) {
	got := SessionID("", "", 1, 2)
	if !strings.Contains(got, ":"+NoTTY+":1:2") {
		t.Fatalf("expected NO_TTY fallback, got %q", got)
	}
}

func TestWriteAndReadCommandRoundTrip(t *testing.T) {
	dir := t.TempDir()
	exitCode := 0
	in := CommandJSON{Command: "ls", Cwd: "/tmp", ExitCode: &exitCode}

	path, err := Write(dir, KindCommand, 12345, in)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Dir(path) != filepath.Join(dir, "command") {
		t.Fatalf("expected file under command/, got %s", path)
	}

	got, err := ReadCommand(path)
	if err != nil {
		t.Fatalf("ReadCommand: %v", err)
	}
	if got.Command != "ls" || got.Cwd != "/tmp" || *got.ExitCode != 0 {
		t.Fatalf("got %+v", got)
	}
}

func TestWriteFilenamesAreCollisionProof(t *testing.T) {
	dir := t.TempDir()
	p1, err := Write(dir, KindInit, 1, InitJSON{SessionID: "S1"})
	if err != nil {
		t.Fatalf("Write 1: %v", err)
	}
	p2, err := Write(dir, KindInit, 1, InitJSON{SessionID: "S2"})
	if err != nil {
		t.Fatalf("Write 2: %v", err)
	}
	if p1 == p2 {
		t.Fatalf("expected distinct filenames for same nanosecond tick, got %s twice", p1)
	}
}
