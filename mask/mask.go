// Copyright © 2025 The scadlint authors

// Package mask blanks out comments, and optionally string literals, from
// OpenSCAD source text while preserving its exact length and every newline.
// Byte offsets into the masked text therefore identify the same source
// positions as offsets into the original, which lets the pattern scanners
// in package lint report spans against the unmodified snapshot without any
// offset translation.
package mask

// Comments returns text with line and block comment contents replaced by
// spaces. String literals are left intact.
func Comments(text string) string {
	return run(text, false)
}

// CommentsAndStrings returns text with comment contents and string literal
// contents (including the quotes and escape sequences) replaced by spaces.
func CommentsAndStrings(text string) string {
	return run(text, true)
}

// run is a single-pass state machine over the input bytes. Masked positions
// become spaces; newlines are preserved verbatim in every state so line
// numbers computed from either text agree. Unterminated comments and strings
// are consumed to the end of the text.
func run(text string, maskStrings bool) string {
	buf := []byte(text)
	n := len(buf)
	i := 0
	for i < n {
		switch {
		case buf[i] == '/' && i+1 < n && buf[i+1] == '/':
			// Line comment: blank to (but not including) the next newline.
			for i < n && buf[i] != '\n' {
				buf[i] = ' '
				i++
			}
		case buf[i] == '/' && i+1 < n && buf[i+1] == '*':
			buf[i] = ' '
			buf[i+1] = ' '
			i += 2
			for i < n {
				if buf[i] == '*' && i+1 < n && buf[i+1] == '/' {
					buf[i] = ' '
					buf[i+1] = ' '
					i += 2
					break
				}
				if buf[i] != '\n' {
					buf[i] = ' '
				}
				i++
			}
		case maskStrings && (buf[i] == '"' || buf[i] == '\''):
			quote := buf[i]
			buf[i] = ' '
			i++
			for i < n {
				if buf[i] == '\\' {
					// Escape consumes the next byte too; no look-ahead
					// past the end of the text.
					buf[i] = ' '
					i++
					if i < n {
						if buf[i] != '\n' {
							buf[i] = ' '
						}
						i++
					}
					continue
				}
				closing := buf[i] == quote
				if buf[i] != '\n' {
					buf[i] = ' '
				}
				i++
				if closing {
					break
				}
			}
		default:
			i++
		}
	}
	return string(buf)
}
