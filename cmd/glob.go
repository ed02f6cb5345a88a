// Copyright © 2025 The scadlint authors

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// expandArgs expands arguments, resolving patterns ending with "/..." to all
// .scad files found recursively under the given directory. Non-pattern
// arguments pass through unchanged. Excluded paths are filtered out of the
// result.
func expandArgs(args []string, excludes []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if dir, ok := strings.CutSuffix(arg, "/..."); ok {
			if dir == "" {
				dir = "."
			}
			files, err := findScadFiles(dir)
			if err != nil {
				return nil, fmt.Errorf("expanding %s: %w", arg, err)
			}
			out = append(out, files...)
		} else {
			out = append(out, arg)
		}
	}
	return filterExcludes(out, excludes), nil
}

func findScadFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if filepath.Ext(path) == ".scad" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// filterExcludes removes paths matching any of the exclude patterns. A
// pattern is matched against the full path, the base name, and each path
// component, so "build" excludes everything under a build directory and
// "generated_*" excludes files by name anywhere in the tree.
func filterExcludes(paths []string, excludes []string) []string {
	if len(excludes) == 0 {
		return paths
	}
	var out []string
	for _, path := range paths {
		if !matchesAny(path, excludes) {
			out = append(out, path)
		}
	}
	return out
}

func matchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, filepath.ToSlash(path)); err == nil && ok {
			return true
		}
		for _, component := range splitPath(path) {
			if ok, err := doublestar.Match(pattern, component); err == nil && ok {
				return true
			}
		}
	}
	return false
}

func splitPath(path string) []string {
	return strings.Split(filepath.ToSlash(path), "/")
}
