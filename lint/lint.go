// Copyright © 2025 The scadlint authors

// Package lint provides lexical diagnostics for OpenSCAD source files.
//
// The linter is modeled after go vet: each check is an independent Analyzer
// that scans the raw source text and reports diagnostics. There is no parser
// and no syntax tree — every check works on masked text (see package mask)
// or on a line-by-line scope fold (see package analysis). This trades
// completeness for speed: the checks run comfortably on every keystroke and
// degrade to false negatives, never to crashes, on malformed input.
//
// Diagnostics carry half-open [Start, End) byte offsets into the original,
// unmasked source so that callers can highlight exact ranges.
package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/scadlint/scadlint/mask"
)

// Severity indicates the severity level of a lint diagnostic.
type Severity int

const (
	severityUnset Severity = iota // unexported zero sentinel for default detection
	SeverityError
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes the severity as a JSON string.
// An unset severity (zero value) is marshaled as "warning".
func (s Severity) MarshalJSON() ([]byte, error) {
	if s == severityUnset {
		return json.Marshal("warning")
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON deserializes a severity from a JSON string.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return fmt.Errorf("unknown severity: %q", str)
	}
	return nil
}

// Kind classifies what a diagnostic is about.
type Kind int

const (
	// KindDeprecation flags syntax that still works but is scheduled for
	// removal from the language.
	KindDeprecation Kind = iota

	// KindReassignment flags a name bound more than once in the same scope,
	// where last-write-wins semantics usually indicate a bug.
	KindReassignment
)

func (k Kind) String() string {
	switch k {
	case KindDeprecation:
		return "deprecation"
	case KindReassignment:
		return "reassignment"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes the kind as a JSON string.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// Analyzer defines a single lint check.
type Analyzer struct {
	// Name is a short identifier for this check (e.g. "deprecated-param").
	Name string

	// Doc is a human-readable description. The first line is a short summary.
	Doc string

	// Kind classifies the diagnostics produced by this check.
	Kind Kind

	// Severity is the default severity for diagnostics from this analyzer.
	Severity Severity

	// Run executes the check. It should call pass.Report() for each finding.
	Run func(pass *Pass) error
}

// Pass provides context to a running analyzer.
type Pass struct {
	// Analyzer is the currently running check.
	Analyzer *Analyzer

	// Filename is the source file being analyzed.
	Filename string

	// Src is the original, unmodified source text. Diagnostic offsets
	// index into it.
	Src string

	// Masked variants of Src, computed on first use and shared between
	// analyzers in the same run.
	commentsMasked *string
	fullyMasked    *string

	// diagnostics collects reported findings.
	diagnostics []Diagnostic
}

// CommentsMasked returns Src with comment contents blanked out and string
// literals preserved. Same length as Src.
func (p *Pass) CommentsMasked() string {
	if p.commentsMasked == nil {
		m := mask.Comments(p.Src)
		p.commentsMasked = &m
	}
	return *p.commentsMasked
}

// FullyMasked returns Src with both comment and string literal contents
// blanked out. Same length as Src.
func (p *Pass) FullyMasked() string {
	if p.fullyMasked == nil {
		m := mask.CommentsAndStrings(p.Src)
		p.fullyMasked = &m
	}
	return *p.fullyMasked
}

// Report records a diagnostic finding.
func (p *Pass) Report(d Diagnostic) {
	d.Analyzer = p.Analyzer.Name
	d.Kind = p.Analyzer.Kind
	if d.Severity == severityUnset {
		d.Severity = p.Analyzer.Severity
	}
	p.diagnostics = append(p.diagnostics, d)
}

// Reportf is a convenience for reporting a diagnostic spanning [start, end).
func (p *Pass) Reportf(start, end int, format string, args ...interface{}) {
	p.Report(Diagnostic{
		Start:   start,
		End:     end,
		Message: fmt.Sprintf(format, args...),
	})
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	// Pos is the human-readable source location, derived from Start.
	Pos Position `json:"pos"`

	// Start and End delimit the problem as a half-open byte range into the
	// original source text. End is always greater than Start.
	Start int `json:"start"`
	End   int `json:"end"`

	// Message is a human-readable description of the problem.
	Message string `json:"message"`

	// Replacement suggests what to write instead, when the fix is a simple
	// substitution (e.g. a renamed parameter). Empty otherwise.
	Replacement string `json:"replacement,omitempty"`

	// Analyzer is the name of the check that found this problem.
	Analyzer string `json:"analyzer"`

	// Kind classifies the diagnostic.
	Kind Kind `json:"kind"`

	// Severity is the severity level of the diagnostic.
	Severity Severity `json:"severity"`
}

// Position identifies a location in source code.
type Position struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Col  int    `json:"col,omitempty"`
}

// String returns the position in file:line format.
func (p Position) String() string {
	if p.Line == 0 {
		return p.File
	}
	if p.Col > 0 {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// String returns the diagnostic in go vet style: file:line: message (analyzer).
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s (%s)", d.Pos, d.Message, d.Analyzer)
}

// Linter runs a set of analyzers over source text.
type Linter struct {
	Analyzers []*Analyzer
}

// LintSource analyzes a single source snapshot and returns all diagnostics,
// deduplicated and sorted by position. Scanning itself never fails on
// malformed source; a non-nil error can only come from a misbehaving
// custom analyzer.
func (l *Linter) LintSource(source []byte, filename string) ([]Diagnostic, error) {
	src := string(source)

	var all []Diagnostic
	for _, analyzer := range l.Analyzers {
		pass := &Pass{
			Analyzer: analyzer,
			Filename: filename,
			Src:      src,
		}
		if err := analyzer.Run(pass); err != nil {
			return nil, fmt.Errorf("%s: analyzer %s: %w", filename, analyzer.Name, err)
		}
		all = append(all, pass.diagnostics...)
	}

	index := NewLineIndex(src)

	// Deprecation checks can fire repeatedly on one line (the same
	// deprecated parameter used twice in a call); collapse those.
	// Reassignment warnings are unique by construction and pass through.
	all = Dedup(src, index, all)

	for i := range all {
		all[i].Pos = Position{
			File: filename,
			Line: index.Line(all[i].Start),
			Col:  index.Col(all[i].Start),
		}
	}

	// Filter diagnostics suppressed with // nolint comments.
	all = filterSuppressed(src, index, all)

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Start < all[j].Start
	})

	return all, nil
}

// filterSuppressed removes diagnostics on lines with // nolint comments.
// A bare "nolint" suppresses every check on the line; "nolint:a,b"
// suppresses only the named checks.
func filterSuppressed(src string, index *LineIndex, diags []Diagnostic) []Diagnostic {
	if len(diags) == 0 {
		return diags
	}
	masked := mask.Comments(src)

	var filtered []Diagnostic
	for _, d := range diags {
		directive, ok := nolintDirective(src, masked, index, d.Pos.Line)
		if !ok {
			filtered = append(filtered, d)
			continue
		}
		if directive == "" {
			continue // suppress all
		}
		suppressed := false
		for _, name := range strings.Split(directive, ",") {
			if strings.TrimSpace(name) == d.Analyzer {
				suppressed = true
				break
			}
		}
		if !suppressed {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

// nolintDirective extracts a nolint directive from a comment on the given
// 1-based line, if any. Comment openers are recovered by comparing the
// original text against its comments-masked form; every opener on the line
// is checked, so an earlier block comment does not shadow a trailing
// // nolint.
func nolintDirective(src, masked string, index *LineIndex, line int) (string, bool) {
	start, end := index.LineSpan(line)
	for i := start; i < end-1; i++ {
		if src[i] == masked[i] || src[i] != '/' {
			continue
		}
		var text string
		switch src[i+1] {
		case '/':
			text = src[i+2 : end]
		case '*':
			text = src[i+2 : end]
			if close := strings.Index(text, "*/"); close >= 0 {
				text = text[:close]
			}
		default:
			continue
		}
		if directive, ok := parseNolint(text); ok {
			return directive, true
		}
	}
	return "", false
}

// parseNolint interprets comment text as a nolint directive. A bare
// "nolint" returns ("", true); "nolint:a,b" returns the name list.
// Anything else, including "nolint" followed by prose, is not a directive.
func parseNolint(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "nolint") {
		return "", false
	}
	rest := strings.TrimPrefix(text, "nolint")
	if rest == "" {
		return "", true
	}
	if strings.HasPrefix(rest, ":") {
		return strings.TrimSpace(strings.TrimPrefix(rest, ":")), true
	}
	return "", false
}

// FormatText writes diagnostics in go vet text format.
func FormatText(w io.Writer, diags []Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(w, d.String()) //nolint:errcheck // best-effort output to writer
	}
}

// FormatJSON writes diagnostics as JSON.
func FormatJSON(w io.Writer, diags []Diagnostic) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diags)
}

// DefaultAnalyzers returns the built-in set of lint checks.
func DefaultAnalyzers() []*Analyzer {
	return []*Analyzer{
		AnalyzerDeprecatedParam,
		AnalyzerDeprecatedImport,
		AnalyzerDigitIdentifier,
		AnalyzerReassignment,
	}
}

// AnalyzerNames returns the names of the built-in checks in order.
func AnalyzerNames() []string {
	var names []string
	for _, a := range DefaultAnalyzers() {
		names = append(names, a.Name)
	}
	return names
}

// AnalyzerDoc returns a formatted listing of the built-in checks and their
// one-line summaries, for CLI help output.
func AnalyzerDoc() string {
	var b strings.Builder
	for _, a := range DefaultAnalyzers() {
		summary := a.Doc
		if i := strings.IndexByte(summary, '\n'); i >= 0 {
			summary = summary[:i]
		}
		fmt.Fprintf(&b, "  %-20s %s\n", a.Name, summary)
	}
	return b.String()
}
