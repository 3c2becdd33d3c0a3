//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Discover builds the CLI and runs one query, e.g.
// mage discover "Computer Science, Distributed Systems".
func Discover(query string) error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "discover", query)
}

// Interactive builds the CLI and starts the interactive loop.
func Interactive() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName))
}
