// Copyright © 2025 The scadlint authors

// Package analysis tracks lexical scopes and variable assignments in
// OpenSCAD source without parsing it. A single forward pass over the lines
// maintains comment state, brace and parenthesis depth, and a stack of
// scopes, which is enough to flag same-scope variable reassignment with
// good precision.
//
// The approximation is deliberate. Only module and function bodies open a
// scope in OpenSCAD — bare { } blocks do not shadow anything — so a scope
// is pushed only when an opening brace follows a line that looks like a
// declaration signature. Assignments inside parentheses are named call
// arguments, not bindings, and are skipped.
package analysis

// Scope is one entry on the tracker's scope stack.
type Scope struct {
	// ID uniquely identifies the scope within one scan. The global scope
	// has ID 0 and is never popped.
	ID int

	// AnchorDepth is the brace nesting depth immediately after the scope's
	// opening brace was counted. The scope is popped when a closing brace
	// is seen at this depth.
	AnchorDepth int
}

// assignKey identifies a variable binding within a particular scope.
type assignKey struct {
	scope int
	name  string
}

// assignSite records where a variable was first assigned.
type assignSite struct {
	line   int // 1-based
	offset int // byte offset of the identifier in the source
}
