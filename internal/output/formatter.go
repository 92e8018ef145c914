// Package output provides formatting utilities for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Symbols used in per-file status lines. Colors are resolved on each call
// so --no-color applies after package init.
var (
	okColor      = color.New(color.FgGreen)
	failColor    = color.New(color.FgRed)
	skippedColor = color.New(color.FgYellow)
)

// Writer writes human-readable status lines to a destination.
type Writer struct {
	dest io.Writer
}

// NewWriter creates a Writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{dest: w}
}

// OK writes a success line.
func (w *Writer) OK(format string, args ...interface{}) {
	fmt.Fprintf(w.dest, "%s %s\n", okColor.Sprint("✓"), fmt.Sprintf(format, args...))
}

// Fail writes a failure line.
func (w *Writer) Fail(format string, args ...interface{}) {
	fmt.Fprintf(w.dest, "%s %s\n", failColor.Sprint("✗"), fmt.Sprintf(format, args...))
}

// Skipped writes a skipped line.
func (w *Writer) Skipped(format string, args ...interface{}) {
	fmt.Fprintf(w.dest, "%s %s\n", skippedColor.Sprint("-"), fmt.Sprintf(format, args...))
}

// WriteLn writes a line of text.
func (w *Writer) WriteLn(s string) error {
	_, err := fmt.Fprintln(w.dest, s)
	return err
}

// Plural returns "1 file" or "n files".
func Plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	if strings.HasSuffix(noun, "s") {
		return fmt.Sprintf("%d %ses", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
