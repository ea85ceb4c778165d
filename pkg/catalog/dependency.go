package catalog

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/pkgcheck/pkg/fmri"
)

// Kind is the type of a dependency.
type Kind int

const (
	Require Kind = iota
	Optional
	Incorporate
	Group
	Conditional
	// RequireAny is one alternative of a require-any dependency.
	RequireAny
	// GroupAny is one alternative of a group-any dependency.
	GroupAny
)

var kindNames = [...]string{
	Require:     "require",
	Optional:    "optional",
	Incorporate: "incorporate",
	Group:       "group",
	Conditional: "conditional",
	RequireAny:  "require-any",
	GroupAny:    "group-any",
}

// Kinds lists every dependency kind in declaration order.
var Kinds = []Kind{Require, Optional, Incorporate, Group, Conditional, RequireAny, GroupAny}

func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind returns the kind named by the IPS type= attribute.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return 0, false
}

// Dependency is one declared dependency of a package or component.
type Dependency struct {
	Kind   Kind
	Target fmri.FMRI
	// Predicate is the package whose presence enables a conditional
	// dependency. It is nil for every other kind.
	Predicate *fmri.FMRI
	// Variants restricts the dependency to the given variant values,
	// keyed by variant name without the "variant." prefix.
	Variants map[string]string
}

// Applies reports whether the dependency is present under the configured
// variant values. Variants not configured never exclude a dependency.
func (d Dependency) Applies(configured map[string]string) bool {
	for name, value := range d.Variants {
		if want, ok := configured[name]; ok && want != value {
			return false
		}
	}
	return true
}

// Key returns a string identifying the dependency for set operations.
func (d Dependency) Key() string {
	var b strings.Builder
	b.WriteString(d.Kind.String())
	b.WriteByte(' ')
	b.WriteString(d.Target.String())
	if d.Predicate != nil {
		b.WriteString(" predicate=")
		b.WriteString(d.Predicate.String())
	}
	for _, name := range slices.Sorted(maps.Keys(d.Variants)) {
		fmt.Fprintf(&b, " variant.%s=%s", name, d.Variants[name])
	}
	return b.String()
}

// CompareDependency orders dependencies by target, then kind, then key.
func CompareDependency(a, b Dependency) int {
	if c := fmri.Compare(a.Target, b.Target); c != 0 {
		return c
	}
	if a.Kind != b.Kind {
		if a.Kind < b.Kind {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Key(), b.Key())
}

// unionDependencies returns the sorted union of a and b.
func unionDependencies(a, b []Dependency) []Dependency {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]Dependency, 0, len(a)+len(b))
	for _, d := range slices.Concat(a, b) {
		k := d.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, d)
	}
	slices.SortFunc(out, CompareDependency)
	return out
}

func sameDependencies(a, b []Dependency) bool {
	if len(a) != len(b) {
		return false
	}
	keys := make(map[string]int, len(a))
	for _, d := range a {
		keys[d.Key()]++
	}
	for _, d := range b {
		k := d.Key()
		if keys[k] == 0 {
			return false
		}
		keys[k]--
	}
	return true
}
