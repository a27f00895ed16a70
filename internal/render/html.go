package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
)

// ToHTML treats rendered as Markdown and converts it to HTML, used when
// --output ends in ".html" (SPEC_FULL.md §6). Each formatted row is wrapped
// as a Markdown list item first, so multi-row output becomes a single
// bullet list rather than goldmark collapsing consecutive lines into one
// paragraph.
func ToHTML(rendered []string) (string, error) {
	var md bytes.Buffer
	for _, line := range rendered {
		fmt.Fprintf(&md, "- %s\n", line)
	}

	var html bytes.Buffer
	if err := goldmark.Convert(md.Bytes(), &html); err != nil {
		return "", fmt.Errorf("render: convert to html: %w", err)
	}
	return html.String(), nil
}
