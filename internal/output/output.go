// Package output formats human-facing CLI messages.
package output

import (
	"fmt"
	"io"
	"strings"
)

// Writer prints CLI messages. Write errors are ignored; console output is
// best effort.
type Writer struct {
	out io.Writer
}

// New creates a Writer over out.
func New(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Status prints msg behind icon, or indented when icon is empty.
func (w *Writer) Status(icon, msg string) {
	if icon != "" {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
	} else {
		_, _ = fmt.Fprintf(w.out, "  %s\n", msg)
	}
}

// Success prints a success line.
func (w *Writer) Success(msg string) {
	w.Status("✓", msg)
}

// Successf is Success with formatting.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning line.
func (w *Writer) Warning(msg string) {
	w.Status("!", msg)
}

// Warningf is Warning with formatting.
func (w *Writer) Warningf(format string, args ...any) {
	w.Warning(fmt.Sprintf(format, args...))
}

// KeyValues prints aligned "key: value" lines in the order given. pairs
// alternates keys and values.
func (w *Writer) KeyValues(pairs ...string) {
	width := 0
	for i := 0; i < len(pairs); i += 2 {
		width = max(width, len(pairs[i]))
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		_, _ = fmt.Fprintf(w.out, "  %-*s  %s\n", width+1, pairs[i]+":", pairs[i+1])
	}
}

// List prints items as bullets; an empty list prints empty.
func (w *Writer) List(items []string, empty string) {
	if len(items) == 0 {
		w.Status("", empty)
		return
	}
	for _, it := range items {
		_, _ = fmt.Fprintf(w.out, "  - %s\n", it)
	}
}

// Code prints content indented between blank lines.
func (w *Writer) Code(content string) {
	_, _ = fmt.Fprintln(w.out)
	for _, line := range strings.Split(content, "\n") {
		_, _ = fmt.Fprintf(w.out, "  %s\n", line)
	}
	_, _ = fmt.Fprintln(w.out)
}
