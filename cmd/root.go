// Copyright © 2025 The scadlint authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	colorFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scadlint",
	Short: "scadlint — lexical diagnostics for OpenSCAD",
	Long: `scadlint reports deprecated syntax and same-scope variable reassignment
in OpenSCAD source files. It scans raw text — no parser, no AST — so it is
fast enough to run on every keystroke and tolerant of half-written code.

Getting started:
  scadlint lint model.scad       Check a single file
  scadlint lint ./...            Check every .scad file under the cwd
  scadlint lint --json model.scad  Machine-readable output
  scadlint lsp                   Start a language server for editors

Checks:
  deprecated-param    filename=/layername=/triangles= were renamed
  deprecated-import   import() of AMF files is scheduled for removal
  digit-identifier    identifiers must not begin with a digit
  reassignment        a variable assigned twice in one scope is a bug

To suppress a specific diagnostic, add a comment on the same line:
  surface(filename = f);  // nolint:deprecated-param

More information:
  Source code:  https://github.com/scadlint/scadlint`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.scadlint.yaml)")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto",
		`Control colored output: "auto", "always", or "never".`)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".scadlint" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".scadlint")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
