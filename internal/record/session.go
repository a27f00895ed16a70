// Package record implements the on-disk JSON record schemas and session-id
// generation described in spec.md §6, grounded on
// original_source/rash/record.py (the hook-facing writer) reworked for the
// uuid-suffixed collision-proof filenames spec.md asks for.
package record

import (
	"fmt"
	"os"
)

// NoTTY is substituted for the controlling terminal when none is attached
// (spec.md §6: "TTY falls back to NO_TTY").
const NoTTY = "NO_TTY"

// SessionID generates the stable session_long_id `HOST:TTY:PPID:start`,
// where HOST falls back to the platform's node name and TTY falls back to
// NoTTY (spec.md §6).
func SessionID(host, tty string, ppid int, start int64) string {
	if host == "" {
		host = hostname()
	}
	if tty == "" {
		tty = NoTTY
	}
	return fmt.Sprintf("%s:%s:%d:%d", host, tty, ppid, start)
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown-host"
	}
	return h
}
