// Copyright © 2025 The scadlint authors

// Package store memoizes lint results per source snapshot. A snapshot is
// identified by a file path and a monotonically increasing edit version;
// the host editor owns both. The store guarantees a snapshot is scanned at
// most once, evicts stale versions of a path as soon as a newer one is
// scanned, and hands each diagnostic to an incremental consumer exactly
// once per snapshot via ConsumeForRange.
//
// The store is an injected instance with a lifecycle owned by the host
// (created per session, dropped on close), not a process-wide singleton.
package store

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/scadlint/scadlint/lint"
)

const tracerName = "scadlint"

type entryKey struct {
	path    string
	version int32
}

// Entry holds the scan result for one snapshot.
type Entry struct {
	mu sync.Mutex

	// Path and Version identify the snapshot this entry was computed from.
	Path    string
	Version int32

	// Diagnostics is the full result list for the snapshot. Callers must
	// not modify it.
	Diagnostics []lint.Diagnostic

	// consumed marks, by position in Diagnostics, findings already handed
	// out through ConsumeForRange. Distinct findings can share a byte span
	// (a deprecated parameter name that is also a reassignment), so spans
	// are not a usable key.
	consumed []bool
}

// ConsumeForRange returns the diagnostics fully contained in the half-open
// byte range [start, end) that have not been returned before, and marks
// them consumed. A consumer that walks a document structurally and queries
// overlapping ranges therefore receives each diagnostic exactly once per
// snapshot version.
func (e *Entry) ConsumeForRange(start, end int) []lint.Diagnostic {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []lint.Diagnostic
	for i, d := range e.Diagnostics {
		if d.Start < start || d.End > end {
			continue
		}
		if e.consumed[i] {
			continue
		}
		e.consumed[i] = true
		out = append(out, d)
	}
	return out
}

// Store caches lint results keyed by (path, version).
type Store struct {
	mu      sync.Mutex
	entries map[entryKey]*Entry
	linter  *lint.Linter
}

// Option configures a Store.
type Option func(*Store)

// WithLinter replaces the default analyzer set.
func WithLinter(l *lint.Linter) Option {
	return func(s *Store) { s.linter = l }
}

// New creates an empty store running the default analyzers.
func New(opts ...Option) *Store {
	s := &Store{
		entries: make(map[entryKey]*Entry),
		linter:  &lint.Linter{Analyzers: lint.DefaultAnalyzers()},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Get returns the entry for the snapshot, scanning the content on first
// request and returning the memoized entry afterwards. When a new version
// of a path is scanned, entries for that path's other versions are evicted,
// bounding memory to one entry per open file.
func (s *Store) Get(ctx context.Context, path string, version int32, content string) *Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := entryKey{path: path, version: version}
	if e, ok := s.entries[key]; ok {
		return e
	}

	_, span := otel.GetTracerProvider().Tracer(tracerName).Start(ctx, "lint.scan",
		trace.WithAttributes(
			attribute.String("scad.path", path),
			attribute.Int("scad.version", int(version)),
			attribute.Int("scad.bytes", len(content)),
		))
	diags, err := s.linter.LintSource([]byte(content), path)
	if err != nil {
		// Scanning itself cannot fail; a custom analyzer error degrades to
		// an empty result rather than surfacing to the consumer.
		span.RecordError(err)
		diags = nil
	}
	span.SetAttributes(attribute.Int("scad.diagnostics", len(diags)))
	span.End()

	for k := range s.entries {
		if k.path == path {
			delete(s.entries, k)
		}
	}

	e := &Entry{
		Path:        path,
		Version:     version,
		Diagnostics: diags,
		consumed:    make([]bool, len(diags)),
	}
	s.entries[key] = e
	return e
}

// Drop removes every entry for the path. Hosts call it when a file closes.
func (s *Store) Drop(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.entries {
		if k.path == path {
			delete(s.entries, k)
		}
	}
}

// Len returns the number of cached entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
