package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/harrison/rash/internal/rashhome"
)

func TestShellNameStripsPath(t *testing.T) {
	if got := shellName("/usr/bin/zsh"); got != "zsh" {
		t.Fatalf("got %q", got)
	}
	if got := shellName("bash"); got != "bash" {
		t.Fatalf("got %q", got)
	}
}

func TestExpandDaemonOptsBuildsFlagPairs(t *testing.T) {
	out, err := expandDaemonOpts([]string{"log-level=debug", "use-polling=true"})
	if err != nil {
		t.Fatalf("expandDaemonOpts: %v", err)
	}
	want := []string{"--log-level", "debug", "--use-polling", "true"}
	if len(out) != len(want) {
		t.Fatalf("got %v", out)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("got %v, want %v", out, want)
		}
	}
}

func TestExpandDaemonOptsRejectsMalformed(t *testing.T) {
	if _, err := expandDaemonOpts([]string{"no-equals-sign"}); err == nil {
		t.Fatal("expected an error for a malformed --daemon-opt value")
	}
}

func TestInitCommandEmitsBashHookAndSkipsDaemon(t *testing.T) {
	paths := &rashhome.Paths{Base: t.TempDir()}

	var out bytes.Buffer
	cmd := NewInitCommand(paths)
	cmd.SetOut(&out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--shell", "bash", "--no-daemon"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	exe, err := os.Executable()
	if err != nil {
		exe = "rash"
	}
	got := out.String()
	if !strings.Contains(got, exe+" record --record-type init") {
		t.Fatalf("expected init hook invocation in output, got %q", got)
	}
	if !strings.Contains(got, "trap") {
		t.Fatalf("expected a bash trap wiring, got %q", got)
	}
}

func TestInitCommandRejectsUnsupportedShell(t *testing.T) {
	paths := &rashhome.Paths{Base: t.TempDir()}

	cmd := NewInitCommand(paths)
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--shell", "fish", "--no-daemon"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error for an unsupported shell")
	}
}
