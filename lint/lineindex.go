// Copyright © 2025 The scadlint authors

package lint

import "sort"

// LineIndex maps byte offsets in a source text to 1-based line and column
// numbers. It records the offset of every newline once so that per-diagnostic
// lookups are a binary search rather than a rescan.
type LineIndex struct {
	src string
	// starts[i] is the byte offset of the first character of line i+1.
	starts []int
}

// NewLineIndex builds an index over src.
func NewLineIndex(src string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{src: src, starts: starts}
}

// Line returns the 1-based line number containing the byte offset.
// Offsets past the end of the text report the last line.
func (x *LineIndex) Line(offset int) int {
	// First start greater than offset; the offset's line is the one before.
	i := sort.SearchInts(x.starts, offset+1)
	return i
}

// Col returns the 1-based byte column of the offset within its line.
func (x *LineIndex) Col(offset int) int {
	line := x.Line(offset)
	return offset - x.starts[line-1] + 1
}

// NumLines returns the number of lines in the text. An empty text has one
// (empty) line.
func (x *LineIndex) NumLines() int {
	return len(x.starts)
}

// LineSpan returns the half-open byte range [start, end) of the 1-based
// line, excluding the trailing newline.
func (x *LineIndex) LineSpan(line int) (start, end int) {
	if line < 1 || line > len(x.starts) {
		return 0, 0
	}
	start = x.starts[line-1]
	if line < len(x.starts) {
		end = x.starts[line] - 1 // exclude the newline
	} else {
		end = len(x.src)
	}
	return start, end
}
