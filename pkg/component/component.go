package component

import (
	"github.com/matzehuels/pkgcheck/pkg/catalog"
	"github.com/matzehuels/pkgcheck/pkg/fmri"
)

// Phase says when a component needs a dependency.
type Phase int

const (
	Runtime Phase = iota
	Build
	Test
	SystemBuild
	SystemTest
)

var phaseNames = [...]string{
	Runtime:     "runtime",
	Build:       "build",
	Test:        "test",
	SystemBuild: "system-build",
	SystemTest:  "system-test",
}

// Phases lists every phase in declaration order.
var Phases = []Phase{Runtime, Build, Test, SystemBuild, SystemTest}

func (p Phase) String() string {
	if int(p) < 0 || int(p) >= len(phaseNames) {
		return "phase(?)"
	}
	return phaseNames[p]
}

// ParsePhase returns the phase with the given name.
func ParsePhase(s string) (Phase, bool) {
	for p, name := range phaseNames {
		if name == s {
			return Phase(p), true
		}
	}
	return 0, false
}

// Dependency is a declared dependency together with its phase. Component
// dependencies are always stems of kind [catalog.Require].
type Dependency struct {
	catalog.Dependency
	Phase Phase
}

// Component is one build definition.
type Component struct {
	// Path is the slash separated directory of the component relative to
	// the scanned root. It is the component's identity.
	Path string
	// Name is the component name from pkg5, which may be empty.
	Name string
	// Produces holds the stems of every package the component publishes.
	Produces []fmri.FMRI
	// Dependencies are sorted by phase, then target.
	Dependencies []Dependency
}

// ProducesName reports whether the component publishes name.
func (c *Component) ProducesName(name string) bool {
	for _, f := range c.Produces {
		if f.Name == name {
			return true
		}
	}
	return false
}

// DependenciesIn returns the dependencies whose phase is in phases. An
// empty phases slice selects every dependency.
func (c *Component) DependenciesIn(phases ...Phase) []Dependency {
	if len(phases) == 0 {
		return c.Dependencies
	}
	var out []Dependency
	for _, d := range c.Dependencies {
		for _, p := range phases {
			if d.Phase == p {
				out = append(out, d)
				break
			}
		}
	}
	return out
}
