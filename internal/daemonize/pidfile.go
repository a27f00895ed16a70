package daemonize

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/harrison/rash/internal/filelock"
)

// ReadPID parses the ASCII integer PID file at path. A missing file is not
// an error; it reports ok=false.
func ReadPID(path string) (pid int, ok bool, err error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read pid file: %w", err)
	}
	pid, err = strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, false, fmt.Errorf("parse pid file %s: %w", path, err)
	}
	return pid, true, nil
}

// WritePID atomically writes pid to path (spec.md §4.4 step 3).
func WritePID(path string, pid int) error {
	return filelock.AtomicWrite(path, []byte(strconv.Itoa(pid)))
}

// RemovePID deletes the PID file, ignoring a missing file.
func RemovePID(path string) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// IsAlive probes pid for liveness by sending the null signal, the
// standard way to test process existence without affecting it.
func IsAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}

// Terminate sends the OS terminate signal to pid.
func Terminate(pid int) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find process %d: %w", pid, err)
	}
	return proc.Signal(syscall.SIGTERM)
}
