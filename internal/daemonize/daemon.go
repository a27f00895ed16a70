package daemonize

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/harrison/rash/internal/filelock"
	"github.com/harrison/rash/internal/indexer"
	"github.com/harrison/rash/internal/logger"
)

// Options configures one daemon run (spec.md §6's `daemon` sub-command
// flags).
type Options struct {
	RecordDir      string
	PIDPath        string
	LogPath        string
	IngestLockPath string
	LogLevel       logger.Level
	Restart        bool
	NoError        bool
	UsePolling     bool
}

// pollFallbackInterval is the directory re-scan period used when
// UsePolling is set, for filesystems where fsnotify is unavailable.
const pollFallbackInterval = 2 * time.Second

// Daemon runs the startup protocol of spec.md §4.4 and then the
// watch-and-ingest loop until told to stop.
type Daemon struct {
	opts  Options
	idx   *indexer.Indexer
	log   *logger.FileLogger
	state State
	mu    sync.Mutex
}

// New creates a Daemon. log is expected to already be buffering (created
// via logger.NewBufferedLogger) so messages recorded before Attach during
// Run are preserved (spec.md §4.4 step 1).
func New(opts Options, idx *indexer.Indexer, log *logger.FileLogger) *Daemon {
	return &Daemon{opts: opts, idx: idx, log: log, state: StateStarting}
}

// State reports the current lifecycle state.
func (d *Daemon) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Daemon) setState(s State) {
	d.mu.Lock()
	d.state = s
	d.mu.Unlock()
}

// Run executes the full startup protocol, the initial sweep, and the
// watch loop, blocking until ctx is canceled or a terminate/interrupt
// signal arrives. The PID file is removed on every exit path.
func (d *Daemon) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	d.log.Debugf("daemon starting, pid file %s", d.opts.PIDPath)

	proceed, err := Acquire(d.opts.PIDPath, d.opts.Restart, d.opts.NoError)
	if err != nil {
		return err
	}
	if !proceed {
		return nil
	}

	if err := WritePID(d.opts.PIDPath, os.Getpid()); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer RemovePID(d.opts.PIDPath)

	if err := d.log.Attach(d.opts.LogPath, d.opts.LogLevel); err != nil {
		return fmt.Errorf("attach daemon log: %w", err)
	}
	defer d.log.Close()

	d.setState(StateRunning)
	d.log.Infof("running initial sweep of %s", d.opts.RecordDir)
	if err := d.lockedSweep(ctx); err != nil {
		d.log.Errorf("initial sweep failed: %v", err)
		d.setState(StateStopped)
		return err
	}

	if d.opts.UsePolling {
		err = d.watchByPolling(ctx)
	} else {
		err = d.watchByNotify(ctx)
	}

	d.setState(StateStopping)
	d.log.Infof("daemon stopping")
	d.setState(StateStopped)
	return err
}

func (d *Daemon) watchByNotify(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create filesystem watcher: %w", err)
	}
	defer watcher.Close()

	for _, kind := range []string{"command", "init", "exit"} {
		dir := filepath.Join(d.opts.RecordDir, kind)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure record subtree %s: %w", dir, err)
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			info, err := os.Stat(event.Name)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			if err := d.idx.IndexFile(ctx, event.Name); err != nil {
				d.log.Errorf("index %s: %v", event.Name, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			d.log.Warningf("watcher error: %v", err)
		}
	}
}

func (d *Daemon) watchByPolling(ctx context.Context) error {
	ticker := time.NewTicker(pollFallbackInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := d.lockedSweep(ctx); err != nil {
				d.log.Errorf("poll sweep failed: %v", err)
			}
		}
	}
}

// lockedSweep runs one sweep under the advisory ingest lock, when one is
// configured, so a concurrent `rash index` run and this daemon's sweep
// never interleave SQLite transactions (SPEC_FULL.md §5).
func (d *Daemon) lockedSweep(ctx context.Context) error {
	if d.opts.IngestLockPath == "" {
		return d.idx.Sweep(ctx, d.opts.RecordDir)
	}
	return filelock.WithIngestLock(d.opts.IngestLockPath, func() error {
		return d.idx.Sweep(ctx, d.opts.RecordDir)
	})
}
