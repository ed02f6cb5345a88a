// Copyright © 2025 The scadlint authors

package lsp

import (
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/scadlint/scadlint/lint"
)

// rangeFromOffsets converts a half-open byte range into an LSP range with
// 0-based lines and UTF-16 character offsets. The caller supplies the line
// index so one index serves every diagnostic of a publish.
func rangeFromOffsets(src string, index *lint.LineIndex, start, end int) protocol.Range {
	if end <= start {
		end = start + 1
	}
	return protocol.Range{
		Start: positionFromOffset(src, index, start),
		End:   positionFromOffset(src, index, end),
	}
}

// positionFromOffset converts a byte offset into an LSP position. LSP
// character offsets count UTF-16 code units, so runes outside the basic
// multilingual plane count twice.
func positionFromOffset(src string, index *lint.LineIndex, offset int) protocol.Position {
	if offset > len(src) {
		offset = len(src)
	}
	line := index.Line(offset)
	lineStart, _ := index.LineSpan(line)
	if lineStart > offset {
		lineStart = offset
	}

	char := 0
	for _, r := range src[lineStart:offset] {
		char += len(utf16.Encode([]rune{r}))
	}
	return protocol.Position{
		Line:      safeUint(line - 1),
		Character: safeUint(char),
	}
}

// offsetFromPosition converts an LSP position back to a byte offset,
// clamping to the end of the line.
func offsetFromPosition(src string, pos protocol.Position) int {
	index := lint.NewLineIndex(src)
	line := int(pos.Line) + 1
	if line > index.NumLines() {
		return len(src)
	}
	start, end := index.LineSpan(line)

	remaining := int(pos.Character)
	offset := start
	for offset < end && remaining > 0 {
		r, size := utf8.DecodeRuneInString(src[offset:end])
		remaining -= len(utf16.Encode([]rune{r}))
		offset += size
	}
	return offset
}

// safeUint converts a non-negative int to protocol.UInteger, clamping
// negative values to zero.
func safeUint(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	return protocol.UInteger(n) // #nosec G115 -- line/col are always small positive ints
}
