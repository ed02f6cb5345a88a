// Copyright © 2025 The scadlint authors

// Package docs embeds the scadlint check reference for use by the CLI.
package docs

import _ "embed"

//go:embed checks.md
var ChecksGuide string
