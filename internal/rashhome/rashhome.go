// Package rashhome resolves the on-disk layout described in spec.md §6:
// a single base directory holding the config script, PID file, daemon log,
// and the data directory (database plus the record drop tree).
//
// It replaces the "global configuration singleton" design flagged in
// spec.md §9 with an explicit handle constructed once at sub-command entry
// and threaded through, generalizing the teacher's
// internal/config.GetConductorHome (env var override, directory creation).
package rashhome

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvVar is the environment variable that overrides the base directory.
const EnvVar = "RASH_HOME"

// Paths is the resolved, injectable set of filesystem locations rash
// operates on. Callers obtain one via Resolve and pass it explicitly to
// the store, indexer and daemon constructors instead of relying on any
// package-level global.
type Paths struct {
	Base string
}

// Resolve determines the base directory following the priority order:
//  1. RASH_HOME environment variable, if set
//  2. the platform's standard per-user config directory + "rash"
//
// The base directory (and its data subdirectory) is created if missing.
func Resolve() (*Paths, error) {
	base := os.Getenv(EnvVar)
	if base == "" {
		confDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("rashhome: determine user config dir: %w", err)
		}
		base = filepath.Join(confDir, "rash")
	}

	p := &Paths{Base: base}
	if err := os.MkdirAll(p.DataDir(), 0755); err != nil {
		return nil, fmt.Errorf("rashhome: create data directory: %w", err)
	}
	for _, sub := range []string{"command", "init", "exit"} {
		if err := os.MkdirAll(filepath.Join(p.RecordDir(), sub), 0755); err != nil {
			return nil, fmt.Errorf("rashhome: create record directory: %w", err)
		}
	}
	return p, nil
}

// ConfigScript is the boundary-contract user configuration script path;
// rash never loads or executes it (spec.md §1 Non-goals).
func (p *Paths) ConfigScript() string { return filepath.Join(p.Base, "config.yaml") }

// AliasTable is the declarative alias table loaded by internal/alias.
func (p *Paths) AliasTable() string { return filepath.Join(p.Base, "aliases.yaml") }

// DaemonPID is the PID file written by the watcher daemon.
func (p *Paths) DaemonPID() string { return filepath.Join(p.Base, "daemon.pid") }

// DaemonLog is the daemon's log file.
func (p *Paths) DaemonLog() string { return filepath.Join(p.Base, "daemon.log") }

// DataDir holds the database and the record drop tree.
func (p *Paths) DataDir() string { return filepath.Join(p.Base, "data") }

// DB is the SQLite database file.
func (p *Paths) DB() string { return filepath.Join(p.DataDir(), "db.sqlite") }

// RecordDir is the root of the record drop tree (command/init/exit).
func (p *Paths) RecordDir() string { return filepath.Join(p.DataDir(), "record") }

// IngestLock is the advisory flock path guarding batch ingest (spec.md §5,
// SPEC_FULL.md §5 DOMAIN addition).
func (p *Paths) IngestLock() string { return filepath.Join(p.DataDir(), ".ingest.lock") }

// Locate resolves one of the well-known file names understood by the
// `rash locate` sub-command.
func (p *Paths) Locate(target string) (string, error) {
	switch target {
	case "base":
		return p.Base, nil
	case "config":
		return p.ConfigScript(), nil
	case "db":
		return p.DB(), nil
	case "daemon_pid":
		return p.DaemonPID(), nil
	case "daemon_log":
		return p.DaemonLog(), nil
	default:
		return "", fmt.Errorf("rashhome: unknown locate target %q", target)
	}
}
