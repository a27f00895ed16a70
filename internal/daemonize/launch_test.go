package daemonize

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestLaunchDetachesAndWritesOutFile exercises Launch against a fake
// "rash" binary (a tiny shell script standing in for the real
// executable) so the test never depends on the module actually
// compiling, only on Launch's own spawn/detach mechanics.
func TestLaunchDetachesAndWritesOutFile(t *testing.T) {
	dir := t.TempDir()
	fakeExe := filepath.Join(dir, "fake-rash.sh")
	script := "#!/bin/sh\necho launched \"$@\"\n"
	if err := os.WriteFile(fakeExe, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake executable: %v", err)
	}

	outPath := filepath.Join(dir, "out.log")
	err := Launch(LaunchOptions{
		Executable: fakeExe,
		Args:       []string{"daemon"},
		OutFile:    outPath,
	})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	var data []byte
	for time.Now().Before(deadline) {
		data, _ = os.ReadFile(outPath)
		if len(data) > 0 {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	want := "launched daemon --no-error\n"
	if string(data) != want {
		t.Fatalf("got outfile %q, want %q", data, want)
	}
}

func TestLaunchDiscardsOutputWhenOutFileEmpty(t *testing.T) {
	dir := t.TempDir()
	fakeExe := filepath.Join(dir, "fake-rash.sh")
	if err := os.WriteFile(fakeExe, []byte("#!/bin/sh\necho should-be-discarded\n"), 0o755); err != nil {
		t.Fatalf("write fake executable: %v", err)
	}

	if err := Launch(LaunchOptions{Executable: fakeExe}); err != nil {
		t.Fatalf("Launch: %v", err)
	}
}
