// Package filelock provides the cross-process advisory locking and atomic
// file writes that back rash's two coarse mutexes: the daemon PID file
// (written atomically, never flock'd — liveness is judged by probing the
// recorded PID, per spec.md §5) and the ingest lock guarding concurrent
// batch writes to the SQLite store (spec.md §5, SPEC_FULL.md §5).
package filelock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// FileLock wraps a flock file lock for coordinating access across
// processes.
type FileLock struct {
	flock *flock.Flock
	path  string
}

// NewFileLock creates a new file lock for the given path. The lock file is
// created on first Lock/TryLock call if it does not already exist.
func NewFileLock(path string) *FileLock {
	return &FileLock{
		flock: flock.New(path),
		path:  path,
	}
}

// Lock acquires an exclusive lock, blocking until it is available.
func (fl *FileLock) Lock() error {
	if err := fl.flock.Lock(); err != nil {
		return fmt.Errorf("filelock: acquire lock on %s: %w", fl.path, err)
	}
	return nil
}

// TryLock attempts to acquire an exclusive lock without blocking.
func (fl *FileLock) TryLock() (bool, error) {
	acquired, err := fl.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("filelock: try lock on %s: %w", fl.path, err)
	}
	return acquired, nil
}

// Unlock releases the lock.
func (fl *FileLock) Unlock() error {
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("filelock: release lock on %s: %w", fl.path, err)
	}
	return nil
}

// WithIngestLock runs fn while holding an exclusive lock on path, so a
// manual `rash index` run and a concurrently running daemon sweep cannot
// interleave SQLite transactions against the same database (spec.md §5:
// "a single long-lived connection is kept during batch ingest"). The lock
// is released even if fn panics or returns an error.
func WithIngestLock(path string, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("filelock: create lock directory: %w", err)
	}
	lock := NewFileLock(path)
	if err := lock.Lock(); err != nil {
		return err
	}
	defer lock.Unlock()
	return fn()
}

// AtomicWrite writes data to path via a temp-file-then-rename so readers
// never observe a partial write, even if the process is interrupted
// mid-write. It is used for the daemon PID file, whose presence-and-content
// is the coarse cross-process mutex described in spec.md §5 — flock is
// deliberately not used there, since liveness is judged by probing the PID,
// not by lock contention.
func AtomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("filelock: create directory %s: %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("filelock: create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("filelock: write temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("filelock: sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("filelock: close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("filelock: set permissions: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("filelock: rename temp file to %s: %w", path, err)
	}

	tempFile = nil
	return nil
}
