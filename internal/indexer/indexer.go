// Package indexer dispatches dropped JSON record files to the right store
// ingest method and retires them, implementing spec.md §4.3. Grounded on
// the teacher's internal/behavioral file-classification/ingest flow
// (observe_ingest.go, filter.go), generalized from conductor's
// task/session classification to rash's command/init/exit record tree.
package indexer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/harrison/rash/internal/display"
	"github.com/harrison/rash/internal/logger"
	"github.com/harrison/rash/internal/model"
	"github.com/harrison/rash/internal/record"
	"github.com/harrison/rash/internal/store"
)

// ErrUnknownRecordSubtree is returned when a path falls outside the three
// known record-drop subtrees (spec.md §4.3: "a path outside the three
// known subtrees is a fatal configuration error").
var ErrUnknownRecordSubtree = errors.New("indexer: path outside command/init/exit subtree")

// Store is the subset of *store.Store the indexer depends on, so tests can
// substitute a fake without spinning up SQLite.
type Store interface {
	ImportCommand(ctx context.Context, in model.ImportCommandInput, checkDuplicate bool) (int64, error)
	ImportInit(ctx context.Context, in model.ImportInitInput, overwrite bool) error
	ImportExit(ctx context.Context, in model.ImportExitInput, overwrite bool) error
}

var _ Store = (*store.Store)(nil)

// Indexer routes record files to the store and retires them.
type Indexer struct {
	store          Store
	log            *logger.FileLogger
	keepJSON       bool
	checkDuplicate bool
	warn           func(display.RecordWarning)
	progress       *display.ImportProgress
}

// New creates an Indexer. When keepJSON is true, checkDuplicate is forced
// on regardless of the caller's request (spec.md §4.3), since files are
// never removed and would otherwise be re-imported as duplicates on every
// sweep.
func New(s Store, log *logger.FileLogger, keepJSON, checkDuplicate bool) *Indexer {
	if keepJSON {
		checkDuplicate = true
	}
	return &Indexer{store: s, log: log, keepJSON: keepJSON, checkDuplicate: checkDuplicate}
}

// SetWarningSink installs a callback invoked, in addition to the usual log
// line, whenever a corrupt record is skipped. Used by `rash index` to show
// the user a formatted warning block (internal/display) on top of the
// daemon-style log line.
func (idx *Indexer) SetWarningSink(fn func(display.RecordWarning)) {
	idx.warn = fn
}

// SetProgress installs a progress reporter driven by Sweep. Used by
// `rash index` for its one-shot sweep; the daemon's sweeps run unattended
// and leave this nil.
func (idx *Indexer) SetProgress(p *display.ImportProgress) {
	idx.progress = p
}

// IndexFile ingests one record file, logging its start/finish at debug
// level and its removal at info level (spec.md §4.3). Invalid JSON is
// warned about and skipped, not treated as fatal; a path outside the three
// known subtrees is fatal.
func (idx *Indexer) IndexFile(ctx context.Context, path string) error {
	kind := record.Kind(filepath.Base(filepath.Dir(path)))
	idx.log.Debugf("indexing %s", path)

	var err error
	switch kind {
	case record.KindCommand:
		err = idx.indexCommand(ctx, path)
	case record.KindInit:
		err = idx.indexInit(ctx, path)
	case record.KindExit:
		err = idx.indexExit(ctx, path)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownRecordSubtree, path)
	}

	var corrupt *json.SyntaxError
	if errors.As(err, &corrupt) {
		idx.log.Warningf("skipping corrupt record %s: %v", path, err)
		if idx.warn != nil {
			idx.warn(display.RecordWarning{
				Path:       path,
				Reason:     err.Error(),
				Suggestion: "inspect and remove the file manually, or fix its JSON and let the next sweep retry it",
			})
		}
		return nil
	}
	if err != nil {
		return err
	}

	idx.log.Debugf("finished indexing %s", path)
	if idx.keepJSON {
		return nil
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove indexed record %s: %w", path, err)
	}
	idx.log.Infof("removed %s", path)
	return nil
}

func (idx *Indexer) indexCommand(ctx context.Context, path string) error {
	rec, err := record.ReadCommand(path)
	if err != nil {
		return err
	}
	_, err = idx.store.ImportCommand(ctx, model.ImportCommandInput{
		Command:       rec.Command,
		Cwd:           rec.Cwd,
		Terminal:      rec.Terminal,
		SessionLongID: rec.SessionID,
		Start:         rec.Start,
		Stop:          rec.Stop,
		ExitCode:      rec.ExitCode,
		PipeStatus:    rec.PipeStatus,
		Environ:       rec.Environ,
	}, idx.checkDuplicate)
	return err
}

func (idx *Indexer) indexInit(ctx context.Context, path string) error {
	rec, err := record.ReadInit(path)
	if err != nil {
		return err
	}
	return idx.store.ImportInit(ctx, model.ImportInitInput{
		SessionLongID: rec.SessionID,
		Start:         rec.Start,
		Environ:       rec.Environ,
	}, true)
}

func (idx *Indexer) indexExit(ctx context.Context, path string) error {
	rec, err := record.ReadExit(path)
	if err != nil {
		return err
	}
	return idx.store.ImportExit(ctx, model.ImportExitInput{
		SessionLongID: rec.SessionID,
		Stop:          rec.Stop,
	}, true)
}

// CountPending returns the number of *.json files under recordDir's
// command/init/exit subtrees, for sizing a progress reporter before Sweep
// runs.
func CountPending(recordDir string) (int, error) {
	paths, err := collectRecordFiles(recordDir)
	return len(paths), err
}

func collectRecordFiles(recordDir string) ([]string, error) {
	var paths []string
	for _, kind := range []record.Kind{record.KindCommand, record.KindInit, record.KindExit} {
		subdir := filepath.Join(recordDir, string(kind))
		entries, err := os.ReadDir(subdir)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read record subtree %s: %w", subdir, err)
		}
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
				continue
			}
			paths = append(paths, filepath.Join(subdir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Sweep walks the record tree in sorted order (spec.md §5: "initial sweep
// processes files in lexicographic order") and indexes every *.json file
// under the command/init/exit subtrees.
func (idx *Indexer) Sweep(ctx context.Context, recordDir string) error {
	paths, err := collectRecordFiles(recordDir)
	if err != nil {
		return err
	}

	if idx.progress != nil {
		idx.progress.Start()
	}
	for _, path := range paths {
		if err := idx.IndexFile(ctx, path); err != nil {
			return err
		}
		if idx.progress != nil {
			idx.progress.Step(path)
		}
	}
	if idx.progress != nil {
		idx.progress.Complete()
	}
	return nil
}
