package cmd

import (
	"bytes"
	"testing"

	"github.com/harrison/rash/internal/rashhome"
)

func TestRootCommandRegistersEverySubcommand(t *testing.T) {
	paths := &rashhome.Paths{Base: t.TempDir()}
	root := NewRootCommand(paths)

	want := []string{
		"init", "record", "daemon", "index", "search",
		"show", "dump", "isearch", "locate", "version",
	}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Fatalf("expected root command to register %q, err=%v", name, err)
		}
	}
}

func TestRootCommandRunsVersionSubcommand(t *testing.T) {
	paths := &rashhome.Paths{Base: t.TempDir()}
	root := NewRootCommand(paths)
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
}
