package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/harrison/rash/internal/store"
)

func TestVersionCommandPrintsVersions(t *testing.T) {
	var out bytes.Buffer
	cmd := NewVersionCommand()
	cmd.SetOut(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, store.RashVersion) || !strings.Contains(got, store.SchemaVersion) {
		t.Fatalf("expected output to contain both versions, got %q", got)
	}
}
