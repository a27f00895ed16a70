package daemonize

import (
	"fmt"
	"time"
)

// pollInterval and pollTimeout govern how long Acquire waits for a
// --restart target to remove its PID file (spec.md §4.4 step 2: "poll up
// to 3 s for its PID-file removal; fail if it does not exit").
const (
	pollInterval = 50 * time.Millisecond
	pollTimeout  = 3 * time.Second
)

// ErrAlreadyRunning is returned by Acquire when a live daemon holds the
// PID file and neither --restart nor --no-error was requested.
var ErrAlreadyRunning = fmt.Errorf("daemonize: a daemon is already running")

// ErrRestartTimedOut is returned when --restart's target does not exit
// within pollTimeout.
var ErrRestartTimedOut = fmt.Errorf("daemonize: existing daemon did not exit in time")

// Acquire implements the startup claim protocol of spec.md §4.4 step 2.
// proceed reports whether the caller should continue starting (writing its
// own PID); when proceed is false and err is nil, --no-error requested a
// silent exit.
func Acquire(pidPath string, restart, noError bool) (proceed bool, err error) {
	pid, ok, err := ReadPID(pidPath)
	if err != nil {
		return false, err
	}
	if !ok || !IsAlive(pid) {
		return true, nil
	}

	if restart {
		if err := Terminate(pid); err != nil {
			return false, fmt.Errorf("terminate existing daemon (pid %d): %w", pid, err)
		}
		deadline := time.Now().Add(pollTimeout)
		for time.Now().Before(deadline) {
			if _, stillThere, _ := ReadPID(pidPath); !stillThere {
				return true, nil
			}
			time.Sleep(pollInterval)
		}
		return false, ErrRestartTimedOut
	}

	if noError {
		return false, nil
	}
	return false, fmt.Errorf("%w: pid %d", ErrAlreadyRunning, pid)
}
