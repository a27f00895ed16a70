// Package render formats search result rows for display, implementing
// SPEC_FULL.md §6's output rendering: a text/template default formatter,
// optional Markdown-to-HTML conversion for --output PATH.html, and
// humanized relative timestamps. Grounded on the teacher's goldmark usage
// in internal/parser/markdown.go (goldmark.New(), generalized here from
// Markdown-to-AST parsing to Markdown-to-HTML rendering) and the pack's
// widespread use of dustin/go-humanize for duration/timestamp display.
package render

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
)

// DefaultFormat mirrors the original tool's default one-line-per-result
// layout: start time, command, exit code.
const DefaultFormat = "{{.start_time}}\t{{.command}}\t(exit {{.exit_code}})"

// funcMap exposes humanize helpers to --format templates, so a caller can
// write e.g. "{{humanizeTime .start_time}} {{.command}}".
var funcMap = template.FuncMap{
	"humanizeTime": humanizeTimeValue,
	"humanizeRel":  humanizeRelValue,
}

// humanizeTimeValue renders v (a time.Time, *time.Time, or POSIX seconds
// int64/float64) as a relative duration string ("3 hours ago").
func humanizeTimeValue(v any) string {
	t, ok := asTime(v)
	if !ok {
		return fmt.Sprint(v)
	}
	return humanize.Time(t)
}

// humanizeRelValue renders the relative duration between a and b.
func humanizeRelValue(a, b any) string {
	ta, ok1 := asTime(a)
	tb, ok2 := asTime(b)
	if !ok1 || !ok2 {
		return ""
	}
	return humanize.RelTime(ta, tb, "from now", "ago")
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	case int64:
		return time.Unix(t, 0).UTC(), true
	case float64:
		return time.Unix(int64(t), 0).UTC(), true
	default:
		return time.Time{}, false
	}
}

// Formatter renders rows to text using a compiled text/template.
type Formatter struct {
	tmpl *template.Template
}

// NewFormatter compiles format (a Go text/template body, spec.md §6's
// `--format STRING`) for repeated use across many rows.
func NewFormatter(format string) (*Formatter, error) {
	if format == "" {
		format = DefaultFormat
	}
	tmpl, err := template.New("row").Funcs(funcMap).Parse(format)
	if err != nil {
		return nil, fmt.Errorf("render: parse format template: %w", err)
	}
	return &Formatter{tmpl: tmpl}, nil
}

// Render executes the template against one row, returning the rendered
// line without a trailing newline.
func (f *Formatter) Render(row map[string]any) (string, error) {
	var sb strings.Builder
	if err := f.tmpl.Execute(&sb, row); err != nil {
		return "", fmt.Errorf("render: execute format template: %w", err)
	}
	return sb.String(), nil
}

// RenderAll renders every row, joining with newlines.
func (f *Formatter) RenderAll(rows []map[string]any) (string, error) {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		line, err := f.Render(row)
		if err != nil {
			return "", err
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}
