// Copyright © 2025 The scadlint authors

package cmd

import (
	"os"

	"github.com/scadlint/scadlint/diagnostic"
	"github.com/scadlint/scadlint/lint"
)

func colorMode() diagnostic.ColorMode {
	switch colorFlag {
	case "always":
		return diagnostic.ColorAlways
	case "never":
		return diagnostic.ColorNever
	default:
		return diagnostic.ColorAuto
	}
}

func newRenderer() *diagnostic.Renderer {
	return &diagnostic.Renderer{Color: colorMode()}
}

// renderLintDiagnostics renders diagnostics for one source snapshot with
// diagnostic formatting to stderr. src is the snapshot the diagnostics'
// byte offsets index into; the annotated line is read from it rather than
// from disk so that stdin input renders too.
func renderLintDiagnostics(src string, diags []lint.Diagnostic) {
	ds := diagnostic.FromLintAll(diags, src)
	for i := range ds {
		ds[i].Notes = append(ds[i].Notes,
			"to suppress: add \"// nolint:"+diags[i].Analyzer+"\" as a comment on this line")
	}
	r := newRenderer()
	r.SourceReader = func(string) ([]byte, error) {
		return []byte(src), nil
	}
	_ = r.RenderAll(os.Stderr, ds)
}
