package display

import (
	"fmt"
	"io"
	"path/filepath"
)

// ImportProgress reports per-file progress during a `rash index` one-shot
// sweep, adapted from the teacher's ProgressIndicator (used there for plan
// file loading).
type ImportProgress struct {
	writer io.Writer
	total  int
	done   int
}

// NewImportProgress creates an ImportProgress for a sweep of total files.
func NewImportProgress(w io.Writer, total int) *ImportProgress {
	return &ImportProgress{writer: w, total: total}
}

// Start prints the sweep header.
func (p *ImportProgress) Start() {
	fmt.Fprintf(p.writer, "indexing %d record files...\n", p.total)
}

// Step reports one file as imported.
func (p *ImportProgress) Step(path string) {
	p.done++
	fmt.Fprintf(p.writer, "\x1b[34m  [%d/%d] %s\x1b[0m\n", p.done, p.total, filepath.Base(path))
}

// Complete prints the sweep summary.
func (p *ImportProgress) Complete() {
	fmt.Fprintf(p.writer, "\x1b[32m✓\x1b[0m indexed %d record files\n", p.done)
}
