// Copyright © 2025 The scadlint authors

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/scadlint/scadlint/lint"
	"github.com/spf13/cobra"
)

var (
	lintJSON     bool
	lintChecks   string
	lintListAll  bool
	lintExcludes []string
)

var lintCmd = &cobra.Command{
	Use:   "lint [flags] [files...]",
	Short: "Run lexical checks on OpenSCAD source files",
	Long: `Run lexical checks on OpenSCAD source files.

The linter reports deprecated syntax and likely mistakes, similar to "go vet"
for Go. Each check scans the raw source text, so incomplete or syntactically
broken files are handled gracefully; in the worst case a check stays silent.

With no files, reads from stdin. With files, analyzes each file and reports
all findings to stderr.

Exit codes:
  0  No problems found
  1  One or more problems were reported
  2  Bad invocation (invalid flags, unreadable files)

To suppress a specific diagnostic, add a comment on the same line:
  surface(filename = f);  // nolint:deprecated-param

To suppress all checks on a line:
  surface(filename = f);  // nolint

Available checks (use --checks to select specific ones):
` + lint.AnalyzerDoc() + `
Examples:
  scadlint lint model.scad                              # Lint a single file
  scadlint lint *.scad                                  # Lint multiple files
  scadlint lint --json model.scad                       # Output diagnostics as JSON
  scadlint lint --checks=reassignment model.scad        # Run only specific checks
  scadlint lint --list                                  # List available checks
  scadlint lint --exclude='deprecated.scad' ./...       # Exclude a file by name
  scadlint lint --exclude='build' --exclude='out' ./... # Exclude directories
  cat model.scad | scadlint lint                        # Lint from stdin`,
	Run: func(cmd *cobra.Command, args []string) {
		if lintListAll {
			for _, name := range lint.AnalyzerNames() {
				fmt.Println(name)
			}
			return
		}

		analyzers := lint.DefaultAnalyzers()
		if lintChecks != "" {
			selected := make(map[string]bool)
			for _, name := range strings.Split(lintChecks, ",") {
				selected[strings.TrimSpace(name)] = true
			}
			var filtered []*lint.Analyzer
			for _, a := range analyzers {
				if selected[a.Name] {
					filtered = append(filtered, a)
					delete(selected, a.Name)
				}
			}
			for name := range selected {
				fmt.Fprintf(os.Stderr, "scadlint lint: unknown check: %s\n", name)
				os.Exit(2)
			}
			analyzers = filtered
		}

		l := &lint.Linter{Analyzers: analyzers}

		if len(args) == 0 {
			if err := lintStdin(l); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			return
		}

		expanded, err := expandArgs(args, lintExcludes)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}

		var allDiags []lint.Diagnostic
		sources := make(map[string]string)
		for _, path := range expanded {
			src, diags, err := lintFile(l, path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			sources[path] = src
			allDiags = append(allDiags, diags...)
		}

		if len(allDiags) == 0 {
			return
		}

		if lintJSON {
			if err := lint.FormatJSON(os.Stdout, allDiags); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
		} else {
			// Diagnostic offsets index into per-file snapshots, so render
			// file by file. LintSource keeps each file's results ordered.
			for _, path := range expanded {
				var fileDiags []lint.Diagnostic
				for _, d := range allDiags {
					if d.Pos.File == path {
						fileDiags = append(fileDiags, d)
					}
				}
				if len(fileDiags) > 0 {
					renderLintDiagnostics(sources[path], fileDiags)
				}
			}
		}
		os.Exit(1)
	},
}

func lintStdin(l *lint.Linter) error {
	src, err := readStdin()
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	diags, err := l.LintSource(src, "<stdin>")
	if err != nil {
		return err
	}
	if len(diags) == 0 {
		return nil
	}
	if lintJSON {
		if err := lint.FormatJSON(os.Stdout, diags); err != nil {
			return err
		}
	} else {
		renderLintDiagnostics(string(src), diags)
	}
	os.Exit(1)
	return nil
}

func lintFile(l *lint.Linter, path string) (string, []lint.Diagnostic, error) {
	src, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", path, err)
	}
	diags, err := l.LintSource(src, path)
	return string(src), diags, err
}

func readStdin() ([]byte, error) {
	return os.ReadFile("/dev/stdin")
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().BoolVar(&lintJSON, "json", false,
		"Output diagnostics as JSON.")
	lintCmd.Flags().StringVar(&lintChecks, "checks", "",
		"Comma-separated list of checks to run (default: all).")
	lintCmd.Flags().BoolVar(&lintListAll, "list", false,
		"List available checks and exit.")
	lintCmd.Flags().StringArrayVar(&lintExcludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
}
