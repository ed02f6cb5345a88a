// Copyright © 2025 The scadlint authors

package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/scadlint/scadlint/lsp"
	"github.com/spf13/cobra"
)

// LSPCommand creates the "lsp" cobra command. It is exported so that tools
// embedding scadlint can mount the server under their own CLI.
func LSPCommand() *cobra.Command {
	var (
		stdio bool
		port  int
	)

	cmd := &cobra.Command{
		Use:   "lsp [flags]",
		Short: "Start the scadlint Language Server Protocol server",
		Long: `Start an LSP server for OpenSCAD source files.

The language server publishes lint diagnostics for open documents in real
time. Edits are debounced so the scanner runs once per pause in typing
rather than on every keystroke; saving a file scans it immediately.

Transport modes:
  --stdio      Use stdin/stdout for LSP communication (default)
  --port N     Listen for an LSP client on TCP port N

Examples:
  scadlint lsp                       Start with stdio transport
  scadlint lsp --stdio               Same as above (explicit)
  scadlint lsp --port 7998           Start with TCP on port 7998

Editor configuration (VS Code):
  Install a generic LSP client extension and configure it to run
  "scadlint lsp --stdio" for .scad files.`,
		Args: cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			srv := lsp.New()

			if !stdio && port > 0 {
				addr := fmt.Sprintf("localhost:%d", port)
				log.Printf("scadlint LSP server listening on %s", addr)
				if err := srv.RunTCP(addr); err != nil {
					fmt.Fprintf(os.Stderr, "lsp server error: %v\n", err)
					os.Exit(1)
				}
			} else {
				if err := srv.RunStdio(); err != nil {
					fmt.Fprintf(os.Stderr, "lsp server error: %v\n", err)
					os.Exit(1)
				}
			}
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false,
		"Use stdin/stdout for LSP communication (default behavior)")
	cmd.Flags().IntVar(&port, "port", 0,
		"TCP port for LSP server (use instead of --stdio)")

	return cmd
}

func init() {
	rootCmd.AddCommand(LSPCommand())
}
