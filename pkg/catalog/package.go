package catalog

import (
	"slices"

	"github.com/matzehuels/pkgcheck/pkg/fmri"
)

// Package is one published version of a package.
type Package struct {
	FMRI         fmri.FMRI
	Dependencies []Dependency
	Obsolete     bool
	// RenamedTo is the stem of the package this one was renamed to, or nil.
	RenamedTo *fmri.FMRI
	// Variants lists the variant values the package is published for,
	// keyed by variant name without the "variant." prefix.
	Variants map[string][]string
}

// Name returns the package name.
func (p *Package) Name() string { return p.FMRI.Name }

// IsRenamed reports whether the package was renamed.
func (p *Package) IsRenamed() bool { return p.RenamedTo != nil }

// Applies reports whether the package is published for the configured
// variant values.
func (p *Package) Applies(configured map[string]string) bool {
	for name, values := range p.Variants {
		if want, ok := configured[name]; ok && !slices.Contains(values, want) {
			return false
		}
	}
	return true
}
