package rashhome

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveUsesEnvVar(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvVar, dir)

	p, err := Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.Base != dir {
		t.Fatalf("Base = %q, want %q", p.Base, dir)
	}
	if _, err := os.Stat(p.DataDir()); err != nil {
		t.Fatalf("expected data dir to be created: %v", err)
	}
	for _, sub := range []string{"command", "init", "exit"} {
		if _, err := os.Stat(filepath.Join(p.RecordDir(), sub)); err != nil {
			t.Fatalf("expected record subdir %q: %v", sub, err)
		}
	}
}

func TestLocateTargets(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvVar, dir)
	p, err := Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	cases := map[string]string{
		"base":       p.Base,
		"config":     p.ConfigScript(),
		"db":         p.DB(),
		"daemon_pid": p.DaemonPID(),
		"daemon_log": p.DaemonLog(),
	}
	for target, want := range cases {
		got, err := p.Locate(target)
		if err != nil {
			t.Fatalf("Locate(%q): %v", target, err)
		}
		if got != want {
			t.Errorf("Locate(%q) = %q, want %q", target, got, want)
		}
	}

	if _, err := p.Locate("nonsense"); err == nil {
		t.Fatal("expected error for unknown target")
	}
}
