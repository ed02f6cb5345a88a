// Copyright © 2025 The scadlint authors

package lint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lintSource runs all default analyzers on the given source and returns diagnostics.
func lintSource(t *testing.T, source string) []Diagnostic {
	t.Helper()
	l := &Linter{Analyzers: DefaultAnalyzers()}
	diags, err := l.LintSource([]byte(source), "test.scad")
	require.NoError(t, err)
	return diags
}

// lintCheck runs a single analyzer on the given source.
func lintCheck(t *testing.T, analyzer *Analyzer, source string) []Diagnostic {
	t.Helper()
	l := &Linter{Analyzers: []*Analyzer{analyzer}}
	diags, err := l.LintSource([]byte(source), "test.scad")
	require.NoError(t, err)
	return diags
}

// assertHasDiag checks that at least one diagnostic contains the given substring.
func assertHasDiag(t *testing.T, diags []Diagnostic, substr string) {
	t.Helper()
	for _, d := range diags {
		if strings.Contains(d.Message, substr) {
			return
		}
	}
	var msgs []string
	for _, d := range diags {
		msgs = append(msgs, d.String())
	}
	t.Errorf("expected diagnostic containing %q, got: %v", substr, msgs)
}

// assertNoDiags checks that there are no diagnostics. Optional printf-style
// arguments add context to the failure message.
func assertNoDiags(t *testing.T, diags []Diagnostic, msgAndArgs ...interface{}) {
	t.Helper()
	if len(diags) == 0 {
		return
	}
	var msgs []string
	for _, d := range diags {
		msgs = append(msgs, d.String())
	}
	context := ""
	if len(msgAndArgs) > 0 {
		if format, ok := msgAndArgs[0].(string); ok {
			context = " (" + fmt.Sprintf(format, msgAndArgs[1:]...) + ")"
		}
	}
	t.Errorf("expected no diagnostics%s, got %d: %v", context, len(diags), msgs)
}

// assertDiagOnLine checks that a diagnostic exists on the given line with the given substring.
func assertDiagOnLine(t *testing.T, diags []Diagnostic, line int, substr string) {
	t.Helper()
	for _, d := range diags {
		if d.Pos.Line == line && strings.Contains(d.Message, substr) {
			return
		}
	}
	var msgs []string
	for _, d := range diags {
		msgs = append(msgs, fmt.Sprintf("line %d: %s", d.Pos.Line, d.Message))
	}
	t.Errorf("expected diagnostic on line %d containing %q, got: %v", line, substr, msgs)
}

func TestEndToEnd(t *testing.T) {
	diags := lintSource(t, "x = 1;\nmodule m() { x = 2; }\nx = 3;")
	require.Len(t, diags, 1)
	assert.Equal(t, "reassignment", diags[0].Analyzer)
	assert.Equal(t, 3, diags[0].Pos.Line)
	assertHasDiag(t, diags, "already assigned on line 1")
}

func TestDiagnosticOffsetsIndexOriginalText(t *testing.T) {
	src := "polyhedron(triangles = t);"
	diags := lintSource(t, src)
	require.Len(t, diags, 1)
	d := diags[0]
	assert.Greater(t, d.End, d.Start)
	assert.Equal(t, "triangles", src[d.Start:d.End])
	assert.Equal(t, "faces", d.Replacement)
}

func TestDedupSameLine(t *testing.T) {
	// The same deprecated parameter twice on one line reports once.
	diags := lintSource(t, "surface(filename = a, filename = b);")
	require.Len(t, diags, 1)
}

func TestDedupDistinctLines(t *testing.T) {
	diags := lintSource(t, "surface(filename = a);\nsurface(filename = b);\nsurface(filename = c);")
	assert.Len(t, diags, 3)
}

func TestDedupDistinctParamsSameLine(t *testing.T) {
	diags := lintSource(t, "thing(filename = a, layername = b);")
	assert.Len(t, diags, 2)
}

func TestDedupPreservesFirstOccurrence(t *testing.T) {
	src := "a(filename=1); b(layername=2); c(filename=3);"
	index := NewLineIndex(src)
	diags := []Diagnostic{
		{Start: 2, End: 10, Kind: KindDeprecation},  // filename
		{Start: 17, End: 26, Kind: KindDeprecation}, // layername
		{Start: 33, End: 41, Kind: KindDeprecation}, // filename again
	}
	out := Dedup(src, index, diags)
	require.Len(t, out, 2)
	assert.Equal(t, 2, out[0].Start)
	assert.Equal(t, 17, out[1].Start)
}

func TestNolintSuppressesAll(t *testing.T) {
	assertNoDiags(t, lintSource(t, "surface(filename = a); // nolint"))
}

func TestNolintSuppressesNamedCheck(t *testing.T) {
	assertNoDiags(t, lintSource(t, "surface(filename = a); // nolint:deprecated-param"))
	diags := lintSource(t, "surface(filename = a); // nolint:digit-identifier")
	require.Len(t, diags, 1)
	assert.Equal(t, "deprecated-param", diags[0].Analyzer)
}

func TestNolintAfterBlockComment(t *testing.T) {
	// An earlier block comment on the line must not shadow the directive.
	assertNoDiags(t, lintSource(t, "/* note */ surface(filename = a); // nolint"))
	assertNoDiags(t, lintSource(t, "/* note */ surface(filename = a); // nolint:deprecated-param"))
}

func TestNolintBlockComment(t *testing.T) {
	assertNoDiags(t, lintSource(t, "surface(filename = a); /* nolint */"))
}

func TestNolintRequiresDirectiveForm(t *testing.T) {
	// "nolint" followed by prose is a plain comment, not a directive.
	diags := lintSource(t, "surface(filename = a); // nolint this later")
	require.Len(t, diags, 1)
}

func TestEmptySourceIsValid(t *testing.T) {
	assertNoDiags(t, lintSource(t, ""))
}

func TestSortedByOffset(t *testing.T) {
	diags := lintSource(t, "x = 2D;\nsurface(filename = a);\nimport(\"m.amf\");")
	require.Len(t, diags, 3)
	for i := 1; i < len(diags); i++ {
		assert.LessOrEqual(t, diags[i-1].Start, diags[i].Start)
	}
}

func TestFormatJSON(t *testing.T) {
	diags := lintSource(t, "surface(filename = a);")
	var buf bytes.Buffer
	require.NoError(t, FormatJSON(&buf, diags))

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "deprecated-param", decoded[0]["analyzer"])
	assert.Equal(t, "deprecation", decoded[0]["kind"])
	assert.Equal(t, "warning", decoded[0]["severity"])
	assert.Equal(t, "file", decoded[0]["replacement"])
}

func TestFormatText(t *testing.T) {
	diags := lintSource(t, "surface(filename = a);")
	var buf bytes.Buffer
	FormatText(&buf, diags)
	assert.Contains(t, buf.String(), "test.scad:1:9:")
	assert.Contains(t, buf.String(), "(deprecated-param)")
}

func TestAnalyzerNamesAndDoc(t *testing.T) {
	names := AnalyzerNames()
	assert.Equal(t, []string{
		"deprecated-param",
		"deprecated-import",
		"digit-identifier",
		"reassignment",
	}, names)

	doc := AnalyzerDoc()
	for _, name := range names {
		assert.Contains(t, doc, name)
	}
}

func TestLineIndex(t *testing.T) {
	src := "ab\ncde\n\nf"
	x := NewLineIndex(src)

	assert.Equal(t, 4, x.NumLines())
	assert.Equal(t, 1, x.Line(0))
	assert.Equal(t, 1, x.Line(2)) // the newline belongs to line 1
	assert.Equal(t, 2, x.Line(3))
	assert.Equal(t, 3, x.Line(7))
	assert.Equal(t, 4, x.Line(8))

	assert.Equal(t, 1, x.Col(0))
	assert.Equal(t, 2, x.Col(4))

	start, end := x.LineSpan(2)
	assert.Equal(t, "cde", src[start:end])
	start, end = x.LineSpan(3)
	assert.Equal(t, "", src[start:end])
	start, end = x.LineSpan(4)
	assert.Equal(t, "f", src[start:end])
}

func TestLineIndexEmpty(t *testing.T) {
	x := NewLineIndex("")
	assert.Equal(t, 1, x.NumLines())
	assert.Equal(t, 1, x.Line(0))
}
