// Copyright © 2025 The scadlint authors

package analysis

import (
	"regexp"
	"strings"
)

// Reassignment reports a variable assigned more than once in one scope.
type Reassignment struct {
	// Name is the reassigned variable.
	Name string

	// Line is the 1-based line of the repeated assignment.
	Line int

	// Start and End delimit the identifier of the repeated assignment as a
	// half-open byte range into the full source text.
	Start int
	End   int

	// FirstLine is the 1-based line of the first assignment in the scope.
	// A third assignment is still reported against the first, not the
	// second: the first-seen record is never overwritten.
	FirstLine int
}

var (
	// A module or function declaration signature. Scope opening is anchored
	// to the first { counted after a line matching this.
	signatureRE = regexp.MustCompile(`\b(module|function)\s+[A-Za-z_$][A-Za-z0-9_$]*\s*\(`)

	// A plain assignment at the start of a line. The trailing group rejects
	// == comparisons; <= and >= never match because of the \s* between the
	// name and the =.
	assignRE = regexp.MustCompile(`^\s*([A-Za-z_$][A-Za-z0-9_$]*)\s*=([^=]|$)`)
)

// structuralKeywords are names that can precede = in contexts that are not
// variable assignments, or that the signature heuristic could confuse with
// an identifier.
var structuralKeywords = map[string]bool{
	"module":   true,
	"function": true,
	"if":       true,
	"else":     true,
	"for":      true,
	"let":      true,
	"each":     true,
}

// Tracker folds source lines into scope and assignment state. Feed it each
// line of a file in order; it is a plain accumulator with no hidden
// dependencies, so tests can drive it with partial inputs and inspect the
// result after any prefix of the file.
type Tracker struct {
	braceDepth       int
	parenDepth       int
	inBlockComment   bool
	scopes           []Scope
	nextScopeID      int
	pendingScopeOpen bool
	assignments      map[assignKey]assignSite
	line             int // lines fed so far
}

// NewTracker returns a tracker positioned before the first line, with the
// global scope on the stack.
func NewTracker() *Tracker {
	return &Tracker{
		scopes:      []Scope{{ID: 0, AnchorDepth: 0}},
		nextScopeID: 1,
		assignments: make(map[assignKey]assignSite),
	}
}

// Feed processes the next source line. offset is the byte offset of the
// line's first character within the full source text. It returns the
// reassignment detected on this line, if any.
func (t *Tracker) Feed(line string, offset int) (Reassignment, bool) {
	t.line++

	// Blank out this line's comment content, carrying block comment state
	// across lines.
	startedInBlock := t.inBlockComment
	working, inBlock := stripLineComments(line, startedInBlock)
	t.inBlockComment = inBlock

	if signatureRE.MatchString(working) {
		t.pendingScopeOpen = true
	}

	// Opening braces. Only the first brace after a signature line opens a
	// scope; its anchor depth is the value after the brace is counted.
	opens := strings.Count(working, "{")
	for i := 0; i < opens; i++ {
		t.braceDepth++
		if t.pendingScopeOpen {
			t.scopes = append(t.scopes, Scope{ID: t.nextScopeID, AnchorDepth: t.braceDepth})
			t.nextScopeID++
			t.pendingScopeOpen = false
		}
	}

	// Assignment check, using the paren depth carried into this line: a
	// line inside an open call argument list is a named argument, not a
	// binding. Lines that began inside a block comment are skipped even if
	// the comment closes partway through.
	var found Reassignment
	var ok bool
	if t.parenDepth == 0 && !startedInBlock {
		if m := assignRE.FindStringSubmatchIndex(working); m != nil {
			name := working[m[2]:m[3]]
			if !structuralKeywords[name] {
				key := assignKey{scope: t.current().ID, name: name}
				if site, seen := t.assignments[key]; seen {
					found = Reassignment{
						Name:      name,
						Line:      t.line,
						Start:     offset + m[2],
						End:       offset + m[3],
						FirstLine: site.line,
					}
					ok = true
				} else {
					t.assignments[key] = assignSite{line: t.line, offset: offset + m[2]}
				}
			}
		}
	}

	t.parenDepth += strings.Count(working, "(") - strings.Count(working, ")")
	if t.parenDepth < 0 {
		t.parenDepth = 0
	}

	// Closing braces. A scope is popped when a closing brace arrives at its
	// anchor depth; its assignment records die with it.
	closes := strings.Count(working, "}")
	for i := 0; i < closes; i++ {
		if len(t.scopes) > 1 && t.scopes[len(t.scopes)-1].AnchorDepth == t.braceDepth {
			t.popScope()
		}
		if t.braceDepth > 0 {
			t.braceDepth--
		}
	}

	return found, ok
}

// current returns the innermost active scope.
func (t *Tracker) current() Scope {
	return t.scopes[len(t.scopes)-1]
}

func (t *Tracker) popScope() {
	top := t.scopes[len(t.scopes)-1]
	t.scopes = t.scopes[:len(t.scopes)-1]
	for key := range t.assignments {
		if key.scope == top.ID {
			delete(t.assignments, key)
		}
	}
}

// Reassignments scans a whole source text and returns every same-scope
// reassignment in line order.
func Reassignments(src string) []Reassignment {
	t := NewTracker()
	var out []Reassignment
	offset := 0
	for {
		nl := strings.IndexByte(src[offset:], '\n')
		var line string
		if nl < 0 {
			line = src[offset:]
		} else {
			line = src[offset : offset+nl]
		}
		if r, ok := t.Feed(line, offset); ok {
			out = append(out, r)
		}
		if nl < 0 {
			break
		}
		offset += nl + 1
	}
	return out
}

// stripLineComments blanks comment content in a single line, given whether
// the line begins inside a block comment. It returns the blanked line and
// whether a block comment is still open at the end of the line.
func stripLineComments(line string, inBlock bool) (string, bool) {
	buf := []byte(line)
	i := 0
	for i < len(buf) {
		if inBlock {
			if buf[i] == '*' && i+1 < len(buf) && buf[i+1] == '/' {
				buf[i] = ' '
				buf[i+1] = ' '
				i += 2
				inBlock = false
				continue
			}
			buf[i] = ' '
			i++
			continue
		}
		if buf[i] == '/' && i+1 < len(buf) {
			if buf[i+1] == '/' {
				for j := i; j < len(buf); j++ {
					buf[j] = ' '
				}
				break
			}
			if buf[i+1] == '*' {
				buf[i] = ' '
				buf[i+1] = ' '
				i += 2
				inBlock = true
				continue
			}
		}
		i++
	}
	return string(buf), inBlock
}
