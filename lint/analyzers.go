// Copyright © 2025 The scadlint authors

package lint

import (
	"regexp"
	"strings"

	"github.com/scadlint/scadlint/analysis"
)

// deprecatedParams maps deprecated parameter names to their replacements.
// These are parameters of built-in modules that were renamed; the old names
// still work but are scheduled for removal.
var deprecatedParams = []struct {
	old, new string
	re       *regexp.Regexp
}{
	{old: "filename", new: "file", re: regexp.MustCompile(`\bfilename\s*=`)},
	{old: "layername", new: "layer", re: regexp.MustCompile(`\blayername\s*=`)},
	{old: "triangles", new: "faces", re: regexp.MustCompile(`\btriangles\s*=`)},
}

// AnalyzerDeprecatedParam warns about uses of renamed built-in module
// parameters (filename=, layername=, triangles=). The scan runs over
// comments-masked text so commented-out code stays quiet; strings are
// preserved because masking them shifts nothing for a name= pattern.
var AnalyzerDeprecatedParam = &Analyzer{
	Name: "deprecated-param",
	Doc:  "Warn about deprecated built-in module parameter names.\n\nfilename=, layername=, and triangles= were renamed to file=, layer=, and\nfaces=. The old names still work but will be removed in a future release.",
	Kind: KindDeprecation,
	Run: func(pass *Pass) error {
		masked := pass.CommentsMasked()
		for _, p := range deprecatedParams {
			for _, m := range p.re.FindAllStringIndex(masked, -1) {
				// The \b anchor is zero-width, so the match starts at the
				// parameter name itself.
				start := m[0]
				end := start + len(p.old)
				pass.Report(Diagnostic{
					Start:       start,
					End:         end,
					Message:     "parameter \"" + p.old + "\" is deprecated; use \"" + p.new + "\" instead",
					Replacement: p.new,
				})
			}
		}
		return nil
	},
}

// deprecatedImportExt is the import file extension scheduled for removal.
const deprecatedImportExt = ".amf"

// deprecatedImportMsg is deliberately fixed: the diagnostic span already
// points at the offending filename.
const deprecatedImportMsg = "AMF import is deprecated and will be removed in a future release"

var (
	importCallRE   = regexp.MustCompile(`\bimport\s*\(([^)]*)\)`)
	importStringRE = regexp.MustCompile(`["']([^"']*)["']`)
)

// AnalyzerDeprecatedImport warns when import() is called with a file whose
// extension is deprecated. The diagnostic spans only the filename inside the
// quotes, not the quotes themselves.
var AnalyzerDeprecatedImport = &Analyzer{
	Name: "deprecated-import",
	Doc:  "Warn when import() loads a file format scheduled for removal.\n\nAMF (.amf) import is deprecated; convert the model to a supported format.",
	Kind: KindDeprecation,
	Run: func(pass *Pass) error {
		masked := pass.CommentsMasked()
		for _, call := range importCallRE.FindAllStringSubmatchIndex(masked, -1) {
			argsStart, argsEnd := call[2], call[3]
			args := masked[argsStart:argsEnd]
			for _, str := range importStringRE.FindAllStringSubmatchIndex(args, -1) {
				name := args[str[2]:str[3]]
				if !strings.HasSuffix(strings.ToLower(name), deprecatedImportExt) {
					continue
				}
				pass.Report(Diagnostic{
					Start:   argsStart + str[2],
					End:     argsStart + str[3],
					Message: deprecatedImportMsg,
				})
			}
		}
		return nil
	},
}

var (
	// A maximal token starting with digits and continuing with at least one
	// letter or underscore. The leading group rejects matches inside a
	// longer token or after member access.
	digitIdentRE = regexp.MustCompile(`(^|[^0-9A-Za-z_.])([0-9]+[A-Za-z_][0-9A-Za-z_]*)`)

	// A complete scientific-notation numeral: digits, e/E, optional sign,
	// optional digits. "1e10" and "2E-5" are numerals, not identifiers.
	scientificRE = regexp.MustCompile(`^[0-9]+[eE][+-]?[0-9]*$`)
)

// AnalyzerDigitIdentifier warns about identifiers that begin with a digit,
// such as "2D" or "3x". The scan runs over comments-and-strings-masked text
// so neither comments nor string contents can trigger a match. Scientific
// notation literals are excluded.
var AnalyzerDigitIdentifier = &Analyzer{
	Name: "digit-identifier",
	Doc:  "Warn about identifiers beginning with a digit.\n\nNames like 2D or 3x lex as a number followed by a name; relying on them\nis deprecated and will become a hard error.",
	Kind: KindDeprecation,
	Run: func(pass *Pass) error {
		masked := pass.FullyMasked()
		for _, m := range digitIdentRE.FindAllStringSubmatchIndex(masked, -1) {
			start, end := m[4], m[5]
			token := masked[start:end]
			if scientificRE.MatchString(token) {
				continue
			}
			pass.Reportf(start, end, "identifier %q must not begin with a digit", token)
		}
		return nil
	},
}

// AnalyzerReassignment warns when a variable is assigned more than once in
// the same lexical scope. OpenSCAD variables are single-assignment with
// last-write-wins semantics, so a second assignment silently discards the
// first and usually indicates a bug. Scope tracking is a line-oriented
// approximation implemented in package analysis.
var AnalyzerReassignment = &Analyzer{
	Name: "reassignment",
	Doc:  "Warn when a variable is assigned twice in the same scope.\n\nOpenSCAD assignments are not imperative: the last assignment in a scope\nwins and earlier ones are dead. Only module and function bodies introduce\nnew scopes; bare { } blocks do not.",
	Kind: KindReassignment,
	Run: func(pass *Pass) error {
		for _, r := range analysis.Reassignments(pass.Src) {
			pass.Reportf(r.Start, r.End,
				"%q was already assigned on line %d; this reassignment overrides it",
				r.Name, r.FirstLine)
		}
		return nil
	},
}
