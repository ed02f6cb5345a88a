// Copyright © 2025 The scadlint authors

package lint

// Dedup collapses repeated deprecation findings, keeping the first
// diagnostic for each (source line, matched text) pair. A deprecated
// parameter used twice in one call would otherwise produce two identical
// warnings on the same line. Reassignment warnings are unique by
// construction and pass through untouched. Order of first occurrence is
// preserved.
func Dedup(src string, index *LineIndex, diags []Diagnostic) []Diagnostic {
	type key struct {
		line int
		text string
	}
	seen := make(map[key]bool)
	out := diags[:0]
	for _, d := range diags {
		if d.Kind != KindDeprecation {
			out = append(out, d)
			continue
		}
		k := key{line: index.Line(d.Start), text: matchedText(src, d)}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, d)
	}
	return out
}

// matchedText returns the source substring a diagnostic spans, guarding
// against out-of-range offsets from a misbehaving analyzer.
func matchedText(src string, d Diagnostic) string {
	start, end := d.Start, d.End
	if start < 0 {
		start = 0
	}
	if end > len(src) {
		end = len(src)
	}
	if start >= end {
		return ""
	}
	return src[start:end]
}
