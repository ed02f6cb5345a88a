// Copyright © 2025 The scadlint authors

package main

import "github.com/scadlint/scadlint/cmd"

func main() {
	cmd.Execute()
}
