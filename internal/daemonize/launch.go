package daemonize

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

// LaunchOptions configures a detached daemon spawn, used by `init` when a
// caller asks it to auto-start the watcher daemon (spec.md §4.2 step 6 /
// §6's `--daemon-opt`, `--daemon-outfile` flags).
type LaunchOptions struct {
	// Executable is the rash binary to re-exec; empty means os.Executable().
	Executable string
	// Args are passed to the child, followed by an implicit --no-error.
	Args []string
	// OutFile, if set, receives the child's stdout and stderr. Empty
	// discards both to /dev/null.
	OutFile string
}

// Launch starts a detached copy of the rash binary running the daemon
// sub-command, passing --no-error so a race against another launcher's
// daemon never surfaces as an error to the (disposable) launching shell
// hook. The child is placed in its own session so it outlives the
// spawning shell.
func Launch(opts LaunchOptions) error {
	exe := opts.Executable
	if exe == "" {
		path, err := os.Executable()
		if err != nil {
			return fmt.Errorf("resolve rash executable: %w", err)
		}
		exe = path
	}

	args := append(append([]string{}, opts.Args...), "--no-error")
	cmd := exec.Command(exe, args...)
	cmd.Stdin = nil

	out, err := outFile(opts.OutFile)
	if err != nil {
		return err
	}
	cmd.Stdout = out
	cmd.Stderr = out

	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}
	// The daemon owns its own lifecycle from here; we don't wait for it.
	return cmd.Process.Release()
}

func outFile(path string) (*os.File, error) {
	if path == "" {
		f, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", os.DevNull, err)
		}
		return f, nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open daemon outfile %s: %w", path, err)
	}
	return f, nil
}
