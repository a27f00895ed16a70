package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// bufferedEntry is a log line recorded before the FileLogger has an open
// file to write to.
type bufferedEntry struct {
	level Level
	line  string
}

// FileLogger writes timestamped, level-filtered lines to the daemon's log
// file. Messages logged before Attach is called are buffered in memory and
// flushed once the file opens, so startup diagnostics recorded while
// installing the signal handler (spec.md §4.4 step 1) are never lost
// (step 4: "flush any messages buffered before the handler was attached").
//
// It is safe for concurrent use, mirroring the teacher's FileLogger.
type FileLogger struct {
	mu     sync.Mutex
	level  Level
	file   *os.File
	buffer []bufferedEntry
}

// NewBufferedLogger returns a FileLogger that buffers until Attach is
// called.
func NewBufferedLogger(level Level) *FileLogger {
	return &FileLogger{level: level}
}

// Attach opens (creating if necessary) the log file at path, sets the
// active level, and flushes any buffered messages in order.
func (f *FileLogger) Attach(path string, level Level) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("logger: create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("logger: open log file %s: %w", path, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.file = file
	f.level = level
	for _, entry := range f.buffer {
		f.writeLocked(entry.level, entry.line)
	}
	f.buffer = nil
	return nil
}

// Close closes the underlying file, if attached.
func (f *FileLogger) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}

// Log records one line at the given level, subject to the active level
// filter. Before Attach is called, every line is buffered regardless of
// level, since the final level may still be raised by a --log-level flag
// processed after daemon startup begins.
func (f *FileLogger) Log(level Level, format string, args ...any) {
	line := fmt.Sprintf(format, args...)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.file == nil {
		f.buffer = append(f.buffer, bufferedEntry{level: level, line: line})
		return
	}
	f.writeLocked(level, line)
}

func (f *FileLogger) writeLocked(level Level, line string) {
	if level < f.level {
		return
	}
	fmt.Fprintf(f.file, "%s [%s] %s\n", time.Now().Format(time.RFC3339), level, line)
}

// Debugf logs at LevelDebug.
func (f *FileLogger) Debugf(format string, args ...any) { f.Log(LevelDebug, format, args...) }

// Infof logs at LevelInfo.
func (f *FileLogger) Infof(format string, args ...any) { f.Log(LevelInfo, format, args...) }

// Warningf logs at LevelWarning.
func (f *FileLogger) Warningf(format string, args ...any) { f.Log(LevelWarning, format, args...) }

// Errorf logs at LevelError.
func (f *FileLogger) Errorf(format string, args ...any) { f.Log(LevelError, format, args...) }
