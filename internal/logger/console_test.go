package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestConsoleWarnNonTerminalUncolored(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Warn("file %s is corrupt", "x.json")

	got := buf.String()
	if !strings.Contains(got, "warning: file x.json is corrupt") {
		t.Fatalf("got %q", got)
	}
	if strings.Contains(got, "\x1b[") {
		t.Fatalf("expected no ANSI codes writing to a non-terminal buffer, got %q", got)
	}
}

func TestConsoleInfo(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Info("imported %d records", 3)

	if buf.String() != "imported 3 records\n" {
		t.Fatalf("got %q", buf.String())
	}
}
