package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/harrison/rash/internal/rashhome"
)

func TestLocateCommandResolvesKnownTargets(t *testing.T) {
	paths := &rashhome.Paths{Base: t.TempDir()}

	var out bytes.Buffer
	cmd := NewLocateCommand(paths)
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"db"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != paths.DB() {
		t.Fatalf("got %q, want %q", got, paths.DB())
	}
}

func TestLocateCommandRejectsUnknownTarget(t *testing.T) {
	paths := &rashhome.Paths{Base: t.TempDir()}

	cmd := NewLocateCommand(paths)
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"nonsense"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error for an unknown locate target")
	}
}
