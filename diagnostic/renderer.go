// Copyright © 2025 The scadlint authors

package diagnostic

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

// noteWrapWidth caps the width of "= note:" continuation text.
const noteWrapWidth = 72

// Renderer formats diagnostics as Rust-style annotated source snippets.
type Renderer struct {
	// Color controls ANSI color output. Default is ColorAuto.
	Color ColorMode

	// SourceReader reads source file contents. If nil, os.ReadFile is used.
	SourceReader func(string) ([]byte, error)
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	p := choosePalette(r.Color, fileFromWriter(w))
	bw := bufio.NewWriter(w)
	ew := &errWriter{w: bw}

	// Header: "warning: message"
	sevColor := severityColor(d.Severity, p)
	ew.printf("%s%s%s:%s %s%s%s\n",
		sevColor, d.Severity, p.reset,
		p.reset,
		p.bold, d.Message, p.reset)

	for _, span := range d.Spans {
		r.writeSpan(ew, span, sevColor, p)
	}

	if d.Help != "" {
		ew.printf("   %s=%s help: %s\n", p.boldCyan, p.reset, d.Help)
	}
	for _, note := range d.Notes {
		for i, line := range strings.Split(wordwrap.String(note, noteWrapWidth), "\n") {
			if i == 0 {
				ew.printf("   %s=%s note: %s\n", p.boldCyan, p.reset, line)
			} else {
				ew.printf("           %s\n", line)
			}
		}
	}

	if ew.err != nil {
		return ew.err
	}
	return bw.Flush()
}

// RenderAll writes all diagnostics to w separated by blank lines.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) error {
	for i, d := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, d); err != nil {
			return err
		}
	}
	return nil
}

func severityColor(s Severity, p palette) string {
	switch s {
	case SeverityError:
		return p.boldRed
	case SeverityWarning:
		return p.yellow
	default:
		return p.boldCyan
	}
}

// errWriter wraps a writer and captures the first error, short-circuiting
// subsequent writes. This avoids checking every fmt.Fprintf return value.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, a ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, a...)
}

func (ew *errWriter) print(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = io.WriteString(ew.w, s)
}

func (r *Renderer) writeSpan(ew *errWriter, span Span, sevColor string, p palette) {
	// Location line: "  --> file:line:col"
	loc := span.File
	if span.Line > 0 {
		loc = fmt.Sprintf("%s:%d", span.File, span.Line)
		if span.Col > 0 {
			loc = fmt.Sprintf("%s:%d:%d", span.File, span.Line, span.Col)
		}
	}
	ew.printf("  %s-->%s %s\n", p.boldBlue, p.reset, loc)

	source := r.readSourceLine(span.File, span.Line)
	if source == "" {
		// No source available — just show the gutter.
		ew.printf("   %s|%s\n", p.boldBlue, p.reset)
		return
	}

	lineStr := fmt.Sprintf("%d", span.Line)
	pad := strings.Repeat(" ", len(lineStr))

	ew.printf(" %s%s |%s\n", p.boldBlue, pad, p.reset)

	// Source line; tabs become spaces for consistent underline alignment.
	displaySource := strings.ReplaceAll(source, "\t", "    ")
	ew.printf(" %s%s |%s  %s\n", p.boldBlue, lineStr, p.reset, displaySource)

	col := span.Col
	endCol := span.EndCol
	if col <= 0 {
		col = 1
	}
	if endCol < col {
		endCol = col
	}
	underLen := endCol - col + 1

	prefix := ""
	if col > 1 && col-1 <= len(source) {
		prefix = source[:col-1]
	}
	underPad := strings.Repeat(" ", displayWidth(prefix))
	underline := strings.Repeat("^", underLen)

	ew.printf(" %s%s |%s  %s%s%s%s", p.boldBlue, pad, p.reset, underPad, sevColor, underline, p.reset)
	if span.Label != "" {
		ew.printf(" %s%s%s", sevColor, span.Label, p.reset)
	}
	ew.print("\n")

	ew.printf(" %s%s |%s\n", p.boldBlue, pad, p.reset)
}

func (r *Renderer) readSourceLine(file string, line int) string {
	if line <= 0 || file == "" {
		return ""
	}
	reader := r.SourceReader
	if reader == nil {
		reader = func(name string) ([]byte, error) {
			return os.ReadFile(name) //nolint:gosec // reads user-specified source files for display
		}
	}
	data, err := reader(file)
	if err != nil {
		return ""
	}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for i := 1; scanner.Scan(); i++ {
		if i == line {
			return scanner.Text()
		}
	}
	return ""
}

// displayWidth returns the display width of a string, expanding tabs to 4 spaces.
func displayWidth(s string) int {
	w := 0
	for _, ch := range s {
		if ch == '\t' {
			w += 4
		} else {
			w++
		}
	}
	return w
}

// fileFromWriter returns the *os.File behind a writer, if any, for
// terminal detection.
func fileFromWriter(w io.Writer) *os.File {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return nil
}
