// Copyright © 2025 The scadlint authors

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scadlint/scadlint/docs"
	"github.com/scadlint/scadlint/lint"
)

var docGuide bool

// docCmd represents the doc command
var docCmd = &cobra.Command{
	Use:   "doc [flags] [CHECK]",
	Short: "Show documentation for scadlint checks",
	Long: `Show documentation for scadlint checks.

With no arguments, lists the available checks with one-line summaries.
With a check name, shows that check's full documentation. Use --guide to
print the complete check reference as markdown.

Examples:
  scadlint doc                     List all checks
  scadlint doc reassignment        Show docs for one check
  scadlint doc --guide             Print the full reference`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if docGuide {
			fmt.Print(docs.ChecksGuide)
			return
		}
		if len(args) == 0 {
			fmt.Print(lint.AnalyzerDoc())
			return
		}
		for _, a := range lint.DefaultAnalyzers() {
			if a.Name == args[0] {
				fmt.Println(a.Name)
				fmt.Println(strings.Repeat("-", len(a.Name)))
				fmt.Println(a.Doc)
				return
			}
		}
		fmt.Fprintf(os.Stderr, "scadlint doc: unknown check: %s\n", args[0])
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(docCmd)

	docCmd.Flags().BoolVarP(&docGuide, "guide", "g", false,
		"Print the full check reference as markdown.")
}
