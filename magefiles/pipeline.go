//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

var bin = filepath.Join(binDir, binName)

// Segment builds the CLI and segments every changed document in docs/text/.
func Segment() error {
	mg.Deps(Init, Build)
	return sh.RunV(bin, "segment", "--batch")
}

// Index loads docs/segments/ into the SQLite store and refreshes the export.
func Index() error {
	mg.SerialDeps(Segment)
	return sh.RunV(bin, "store", "ingest")
}

// Taxonomy validates the active taxonomy definition.
func Taxonomy() error {
	mg.Deps(Build)
	return sh.RunV(bin, "taxonomy", "validate")
}
