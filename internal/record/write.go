package record

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Kind is one of the three record-drop subtrees spec.md §6 names.
type Kind string

const (
	KindCommand Kind = "command"
	KindInit    Kind = "init"
	KindExit    Kind = "exit"
)

// Write marshals v and drops it under dir/kind/<unix-nanos>-<uuid>.json.
// The uuid suffix makes concurrent hook invocations collision-proof even
// when two records are written within the same nanosecond tick, a
// SPEC_FULL.md supplement over the date/time-named files the original hook
// script used (original_source/rash/record.py).
func Write(dir string, kind Kind, nowNanos int64, v any) (string, error) {
	subdir := filepath.Join(dir, string(kind))
	if err := os.MkdirAll(subdir, 0o755); err != nil {
		return "", fmt.Errorf("create record subdirectory: %w", err)
	}

	name := fmt.Sprintf("%d-%s.json", nowNanos, uuid.NewString())
	path := filepath.Join(subdir, name)

	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal %s record: %w", kind, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s record: %w", kind, err)
	}
	return path, nil
}
