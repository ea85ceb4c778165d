// Package problem defines the records the detectors emit.
package problem

import (
	"cmp"
	"slices"
	"strings"
)

// Kind identifies the detector finding.
type Kind string

const (
	MissingDependency         Kind = "missing-dependency"
	MissingRequiredByRenamed  Kind = "missing-required-by-renamed"
	RenamedReference          Kind = "renamed-reference"
	RenamedNeedsRenamed       Kind = "renamed-needs-renamed"
	ObsoleteReference         Kind = "obsolete-reference"
	PartlyObsoleteRequired    Kind = "partly-obsolete-required"
	ObsoleteRequiredByRenamed Kind = "obsolete-required-by-renamed"
	Cycle                     Kind = "cycle"
	DuplicateDefinition       Kind = "duplicate-definition"
	OrphanComponent           Kind = "orphan-component"
	MissingComponent          Kind = "missing-component"
	ObsoleteInComponent       Kind = "obsolete-in-component"
	RenamedInComponent        Kind = "renamed-in-component"
	UnpublishedProduct        Kind = "unpublished-product"
	UselessComponent          Kind = "useless-component"
	PublisherConflict         Kind = "publisher-conflict"
	UnsatisfiedVersion        Kind = "unsatisfied-version"
)

// Kinds lists every kind in pipeline order.
var Kinds = []Kind{
	MissingDependency,
	MissingRequiredByRenamed,
	RenamedReference,
	RenamedNeedsRenamed,
	ObsoleteReference,
	PartlyObsoleteRequired,
	ObsoleteRequiredByRenamed,
	Cycle,
	DuplicateDefinition,
	OrphanComponent,
	MissingComponent,
	ObsoleteInComponent,
	RenamedInComponent,
	UnpublishedProduct,
	UselessComponent,
	PublisherConflict,
	UnsatisfiedVersion,
}

// ParseKind returns the kind named s.
func ParseKind(s string) (Kind, bool) {
	k := Kind(s)
	return k, slices.Contains(Kinds, k)
}

var descriptions = map[Kind]string{
	MissingDependency:         "dependency target is neither published nor produced by a component",
	MissingRequiredByRenamed:  "renamed package depends on a package that does not exist",
	RenamedReference:          "dependency on a renamed package",
	RenamedNeedsRenamed:       "renamed package depends on another renamed package",
	ObsoleteReference:         "dependency on an obsolete package",
	PartlyObsoleteRequired:    "dependency on a package obsoleted after it was published live",
	ObsoleteRequiredByRenamed: "renamed package depends on an obsolete package",
	Cycle:                     "require cycle",
	DuplicateDefinition:       "package defined more than once",
	OrphanComponent:           "component publishes nothing",
	MissingComponent:          "published package has no component",
	ObsoleteInComponent:       "component produces an obsolete package",
	RenamedInComponent:        "component produces a renamed package",
	UnpublishedProduct:        "component product is not published",
	UselessComponent:          "nothing outside the component depends on its packages",
	PublisherConflict:         "package published by more than one publisher",
	UnsatisfiedVersion:        "declared minimum version is newer than any published version",
}

// Description returns a short human-readable explanation of k.
func (k Kind) Description() string { return descriptions[k] }

// Problem is one finding. Problems are values; nothing mutates them after
// a detector returns.
type Problem struct {
	Kind Kind
	// Subject is the package name or FMRI at fault.
	Subject string
	// Related holds the other names involved, such as the rename target or
	// every member of a cycle.
	Related []string
	// Component is the path of the component to fix, when one is known.
	Component string
}

func (p Problem) String() string {
	var b strings.Builder
	b.WriteString(string(p.Kind))
	b.WriteString(": ")
	b.WriteString(p.Subject)
	if len(p.Related) > 0 {
		b.WriteString(" -> ")
		b.WriteString(strings.Join(p.Related, ", "))
	}
	if p.Component != "" {
		b.WriteString(" (component ")
		b.WriteString(p.Component)
		b.WriteByte(')')
	}
	return b.String()
}

// Compare orders problems of the same kind by subject, related names and
// component.
func Compare(a, b Problem) int {
	return cmp.Or(
		cmp.Compare(a.Subject, b.Subject),
		slices.Compare(a.Related, b.Related),
		cmp.Compare(a.Component, b.Component),
	)
}

// Filter returns the problems whose kind is in kinds, keeping order. No
// kinds returns all problems.
func Filter(problems []Problem, kinds ...Kind) []Problem {
	if len(kinds) == 0 {
		return problems
	}
	var out []Problem
	for _, p := range problems {
		if slices.Contains(kinds, p.Kind) {
			out = append(out, p)
		}
	}
	return out
}

// Count returns the number of problems per kind.
func Count(problems []Problem) map[Kind]int {
	counts := make(map[Kind]int)
	for _, p := range problems {
		counts[p.Kind]++
	}
	return counts
}
