// Copyright © 2025 The scadlint authors

// Package diagnostic renders lint findings as Rust-style annotated source
// snippets for CLI output. It is intentionally independent of how findings
// are produced; package lint results are adapted through FromLint.
package diagnostic

import (
	"fmt"

	"github.com/scadlint/scadlint/lint"
)

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Span identifies a region of source code to highlight in the diagnostic.
type Span struct {
	File   string // path for reading source; display name if unreadable
	Line   int    // 1-based line number
	Col    int    // 1-based start column
	EndCol int    // 1-based end column (0 = auto-detect from source)
	Label  string // text shown under the underline
}

// Diagnostic represents a single warning or note with optional source
// annotations, a suggested replacement, and trailing notes.
type Diagnostic struct {
	Severity Severity
	Message  string
	Spans    []Span
	Help     string   // "= help:" suggestion line, e.g. a replacement name
	Notes    []string // "= note:" lines
}

// FromLint converts a lint diagnostic into a renderable one. The source
// text is used to translate byte offsets into line and column numbers.
func FromLint(d lint.Diagnostic, src string) Diagnostic {
	return fromLint(d, lint.NewLineIndex(src))
}

// FromLintAll converts a full result list, sharing one line index.
func FromLintAll(diags []lint.Diagnostic, src string) []Diagnostic {
	index := lint.NewLineIndex(src)
	out := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, fromLint(d, index))
	}
	return out
}

func fromLint(d lint.Diagnostic, index *lint.LineIndex) Diagnostic {
	end := d.End
	if end <= d.Start {
		end = d.Start + 1
	}
	span := Span{
		File:   d.Pos.File,
		Line:   index.Line(d.Start),
		Col:    index.Col(d.Start),
		EndCol: index.Col(end - 1),
		Label:  d.Analyzer,
	}
	out := Diagnostic{
		Severity: severityFromLint(d.Severity),
		Message:  d.Message,
		Spans:    []Span{span},
	}
	if d.Replacement != "" {
		out.Help = fmt.Sprintf("replace with %q", d.Replacement)
	}
	return out
}

func severityFromLint(s lint.Severity) Severity {
	switch s {
	case lint.SeverityError:
		return SeverityError
	case lint.SeverityInfo:
		return SeverityNote
	default:
		return SeverityWarning
	}
}
