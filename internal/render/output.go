package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// WriteResults renders rows with format and writes the result either to w
// (when path is empty, the normal terminal/pipe case) or to the file named
// by path, converting to HTML first when path ends in ".html"
// (SPEC_FULL.md §6).
func WriteResults(w io.Writer, rows []map[string]any, format, path string) error {
	f, err := NewFormatter(format)
	if err != nil {
		return err
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		line, err := f.Render(row)
		if err != nil {
			return err
		}
		lines = append(lines, line)
	}

	body := strings.Join(lines, "\n")
	if path == "" {
		fmt.Fprintln(w, body)
		return nil
	}

	if strings.EqualFold(filepath.Ext(path), ".html") {
		body, err = ToHTML(lines)
		if err != nil {
			return err
		}
	} else if len(lines) > 0 {
		body += "\n"
	}

	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		return fmt.Errorf("render: write output %s: %w", path, err)
	}
	return nil
}
