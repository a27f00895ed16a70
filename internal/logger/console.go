package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Console prints human-facing CLI status lines (used by `index`) with
// color when writing to a terminal, mirroring the teacher's use of
// fatih/color gated by mattn/go-isatty in internal/logger/console.go.
type Console struct {
	out      io.Writer
	colorize bool
}

// NewConsole returns a Console writing to w, auto-detecting whether w is a
// terminal to decide on colorization.
func NewConsole(w io.Writer) *Console {
	colorize := false
	if f, ok := w.(*os.File); ok {
		colorize = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Console{out: w, colorize: colorize}
}

// Warn prints a yellow "warning:" line, used for the corrupt-input policy
// of spec.md §7 ("Invalid JSON file: warn, skip, continue.").
func (c *Console) Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if c.colorize {
		color.New(color.FgYellow).Fprintf(c.out, "warning: %s\n", msg)
		return
	}
	fmt.Fprintf(c.out, "warning: %s\n", msg)
}

// Error prints a red "error:" line.
func (c *Console) Error(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if c.colorize {
		color.New(color.FgRed).Fprintf(c.out, "error: %s\n", msg)
		return
	}
	fmt.Fprintf(c.out, "error: %s\n", msg)
}

// Info prints an uncolored informational line.
func (c *Console) Info(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

// Success prints a green line, used for the `index` completion message.
func (c *Console) Success(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if c.colorize {
		color.New(color.FgGreen).Fprintf(c.out, "%s\n", msg)
		return
	}
	fmt.Fprintf(c.out, "%s\n", msg)
}
