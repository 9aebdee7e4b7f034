//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Runs groups targets over the run history in results/.
type Runs mg.Namespace

// List prints the recorded runs.
func (Runs) List() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "runs", "list", "--outdir", "results")
}

// Export writes results/index/export.yaml.
func (Runs) Export() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "runs", "export", "--outdir", "results")
}
