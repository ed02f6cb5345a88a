// Copyright © 2025 The scadlint authors

package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalReassignment(t *testing.T) {
	src := "x = 1;\ny = 2;\nx = 3;\n"
	rs := Reassignments(src)
	require.Len(t, rs, 1)
	assert.Equal(t, "x", rs[0].Name)
	assert.Equal(t, 3, rs[0].Line)
	assert.Equal(t, 1, rs[0].FirstLine)
	assert.Equal(t, "x", src[rs[0].Start:rs[0].End])
}

func TestThirdAssignmentCitesFirst(t *testing.T) {
	rs := Reassignments("x = 1;\nx = 2;\nx = 3;\n")
	require.Len(t, rs, 2)
	assert.Equal(t, 1, rs[0].FirstLine)
	assert.Equal(t, 2, rs[0].Line)
	assert.Equal(t, 1, rs[1].FirstLine)
	assert.Equal(t, 3, rs[1].Line)
}

func TestSeparateModuleBodies(t *testing.T) {
	src := strings.Join([]string{
		"module a() {",
		"    x = 1;",
		"}",
		"module b() {",
		"    x = 1;",
		"}",
	}, "\n")
	assert.Empty(t, Reassignments(src))
}

func TestModuleBodyIsItsOwnScope(t *testing.T) {
	// The module-body x does not collide with the global x.
	src := "x = 1;\nmodule m() { x = 2; }\nx = 3;\n"
	rs := Reassignments(src)
	require.Len(t, rs, 1)
	assert.Equal(t, "x", rs[0].Name)
	assert.Equal(t, 3, rs[0].Line)
	assert.Equal(t, 1, rs[0].FirstLine)
}

func TestNestedModules(t *testing.T) {
	src := strings.Join([]string{
		"module outer() {",
		"    x = 1;",
		"    module inner() {",
		"        x = 1;",
		"        x = 2;",
		"    }",
		"    x = 2;",
		"}",
	}, "\n")
	rs := Reassignments(src)
	require.Len(t, rs, 2)
	assert.Equal(t, 5, rs[0].Line)
	assert.Equal(t, 4, rs[0].FirstLine)
	assert.Equal(t, 7, rs[1].Line)
	assert.Equal(t, 2, rs[1].FirstLine)
}

func TestBareBlockDoesNotScope(t *testing.T) {
	// A { } block without a module/function signature does not shadow, so
	// the two assignments share the global scope.
	src := strings.Join([]string{
		"if (true) {",
		"    x = 1;",
		"}",
		"x = 2;",
	}, "\n")
	rs := Reassignments(src)
	require.Len(t, rs, 1)
	assert.Equal(t, 4, rs[0].Line)
	assert.Equal(t, 2, rs[0].FirstLine)
}

func TestScopeRecordsDieWithScope(t *testing.T) {
	src := strings.Join([]string{
		"module m() {",
		"    x = 1;",
		"}",
		"x = 2;",
		"x = 3;",
	}, "\n")
	rs := Reassignments(src)
	require.Len(t, rs, 1)
	assert.Equal(t, 5, rs[0].Line)
	assert.Equal(t, 4, rs[0].FirstLine)
}

func TestSignatureBraceOnNextLine(t *testing.T) {
	src := strings.Join([]string{
		"module m()",
		"{",
		"    x = 1;",
		"}",
		"x = 1;",
	}, "\n")
	assert.Empty(t, Reassignments(src))
}

func TestFunctionOpensScope(t *testing.T) {
	// Function bodies are expression-valued and rarely contain braces, but
	// the signature still arms scope opening for any brace that follows.
	src := strings.Join([]string{
		"function f(x) = x * 2;",
		"x = 1;",
		"x = 2;",
	}, "\n")
	rs := Reassignments(src)
	require.Len(t, rs, 1)
	assert.Equal(t, 3, rs[0].Line)
}

func TestNamedArgumentIsNotAssignment(t *testing.T) {
	assert.Empty(t, Reassignments("cube(size=10);\ncube(size=10);\n"))
}

func TestMultiLineCallArgumentsSkipped(t *testing.T) {
	src := strings.Join([]string{
		"translate(",
		"    x = 1",
		");",
		"x = 2;",
		"x = 3;",
	}, "\n")
	rs := Reassignments(src)
	require.Len(t, rs, 1)
	assert.Equal(t, 5, rs[0].Line)
	assert.Equal(t, 4, rs[0].FirstLine)
}

func TestComparisonIsNotAssignment(t *testing.T) {
	assert.Empty(t, Reassignments("x = 1;\nx == 2;\n"))
}

func TestKeywordsAreNotVariables(t *testing.T) {
	for _, kw := range []string{"module", "function", "if", "else", "for", "let", "each"} {
		src := kw + " = 1;\n" + kw + " = 2;\n"
		assert.Empty(t, Reassignments(src), "keyword %s", kw)
	}
}

func TestCommentedAssignmentsIgnored(t *testing.T) {
	src := strings.Join([]string{
		"x = 1;",
		"// x = 2;",
		"/* x = 3; */",
	}, "\n")
	assert.Empty(t, Reassignments(src))
}

func TestBlockCommentCarryOver(t *testing.T) {
	src := strings.Join([]string{
		"x = 1;",
		"/*",
		"x = 2;",
		"*/",
		"x = 3;",
	}, "\n")
	rs := Reassignments(src)
	require.Len(t, rs, 1)
	assert.Equal(t, 5, rs[0].Line)
	assert.Equal(t, 1, rs[0].FirstLine)
}

func TestUnbalancedClosingBraces(t *testing.T) {
	// Stray closers must clamp at depth zero, not panic or underflow.
	src := "}\n}\nx = 1;\nx = 2;\n"
	rs := Reassignments(src)
	require.Len(t, rs, 1)
	assert.Equal(t, 4, rs[0].Line)
}

func TestTrackerPartialInput(t *testing.T) {
	// The tracker is an explicit fold: feeding a prefix of a file leaves
	// it in a well-defined state that the rest of the file continues from.
	tr := NewTracker()
	_, ok := tr.Feed("x = 1; /* open", 0)
	assert.False(t, ok)
	assert.True(t, tr.inBlockComment)

	_, ok = tr.Feed("x = 2; still comment", 15)
	assert.False(t, ok)

	_, ok = tr.Feed("*/ ignored tail", 36)
	assert.False(t, ok)
	assert.False(t, tr.inBlockComment)

	r, ok := tr.Feed("x = 2;", 52)
	require.True(t, ok)
	assert.Equal(t, "x", r.Name)
	assert.Equal(t, 1, r.FirstLine)
}

func TestStripLineComments(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		inBlock bool
		want    string
		wantIn  bool
	}{
		{name: "plain", line: "a = 1;", want: "a = 1;"},
		{name: "line comment", line: "a = 1; // b", want: "a = 1;     "},
		{name: "block within line", line: "a /* b */ c", want: "a         c"},
		{name: "opens block", line: "a /* b", want: "a     ", wantIn: true},
		{name: "carries block", line: "b */ c", inBlock: true, want: "     c"},
		{name: "stays in block", line: "anything", inBlock: true, want: "        ", wantIn: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, in := stripLineComments(tt.line, tt.inBlock)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantIn, in)
			assert.Len(t, got, len(tt.line))
		})
	}
}
