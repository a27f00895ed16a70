package display

import (
	"bytes"
	"strings"
	"testing"
)

func TestRecordWarningDisplay(t *testing.T) {
	var buf bytes.Buffer
	w := RecordWarning{
		Path:       "/data/record/command/1.json",
		Reason:     "invalid JSON",
		Suggestion: "inspect and remove the file manually",
	}
	w.Display(&buf)

	got := buf.String()
	for _, want := range []string{"1.json", "invalid JSON", "inspect and remove"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q, got %q", want, got)
		}
	}
}

func TestImportProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewImportProgress(&buf, 2)
	p.Start()
	p.Step("/a/one.json")
	p.Step("/a/two.json")
	p.Complete()

	got := buf.String()
	for _, want := range []string{"indexing 2 record files", "[1/2] one.json", "[2/2] two.json", "indexed 2 record files"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q, got %q", want, got)
		}
	}
}
