package catalog

import (
	"cmp"
	"maps"
	"slices"

	"github.com/matzehuels/pkgcheck/pkg/fmri"
)

// Duplicate records a fully qualified FMRI that was defined more than once.
type Duplicate struct {
	FMRI fmri.FMRI
	// Conflicting is true when the definitions declared different
	// dependency sets.
	Conflicting bool
	// Locations are the record locations of every definition after the
	// first, in ingestion order.
	Locations []string
}

// Catalog maps package names to every known version. It is immutable once
// returned by [Ingest], [FromPackages] or [Union] and safe for concurrent
// readers.
type Catalog struct {
	packages   map[string][]*Package
	index      map[string]int // fmri string -> duplicates index
	duplicates []Duplicate
}

func newCatalog() *Catalog {
	return &Catalog{
		packages: make(map[string][]*Package),
		index:    make(map[string]int),
	}
}

// FromPackages builds a catalog from already parsed packages, merging
// repeated FMRIs the same way [Ingest] does.
func FromPackages(pkgs ...*Package) *Catalog {
	c := newCatalog()
	for _, p := range pkgs {
		c.add(p, p.FMRI.String())
	}
	return c
}

// Union merges catalogs in argument order. A name present in several
// catalogs keeps every version; an FMRI present in several is merged and
// reported as a duplicate. Duplicates already recorded by the inputs are
// merged by FMRI, so each FMRI is reported at most once.
func Union(catalogs ...*Catalog) *Catalog {
	c := newCatalog()
	for _, other := range catalogs {
		if other == nil {
			continue
		}
		for _, d := range other.duplicates {
			c.mergeDuplicate(d)
		}
		for _, name := range other.Names() {
			for _, p := range other.packages[name] {
				c.add(p, p.FMRI.String())
			}
		}
	}
	return c
}

// add inserts p, merging it into an existing definition of the same FMRI.
func (c *Catalog) add(p *Package, location string) {
	versions := c.packages[p.FMRI.Name]
	i, found := slices.BinarySearchFunc(versions, p.FMRI, func(e *Package, t fmri.FMRI) int {
		return fmri.Compare(e.FMRI, t)
	})
	if !found {
		c.packages[p.FMRI.Name] = slices.Insert(versions, i, p)
		return
	}

	prev := versions[i]
	merged := *prev
	merged.Dependencies = unionDependencies(prev.Dependencies, p.Dependencies)
	merged.Obsolete = prev.Obsolete || p.Obsolete
	if merged.RenamedTo == nil {
		merged.RenamedTo = p.RenamedTo
	}
	if len(p.Variants) > 0 {
		merged.Variants = maps.Clone(prev.Variants)
		if merged.Variants == nil {
			merged.Variants = make(map[string][]string)
		}
		for k, v := range p.Variants {
			merged.Variants[k] = slices.Compact(slices.Sorted(slices.Values(slices.Concat(merged.Variants[k], v))))
		}
	}
	versions[i] = &merged

	c.mergeDuplicate(Duplicate{
		FMRI:        p.FMRI,
		Conflicting: !sameDependencies(prev.Dependencies, p.Dependencies),
		Locations:   []string{location},
	})
}

// mergeDuplicate records d, folding it into an earlier entry for the same
// FMRI.
func (c *Catalog) mergeDuplicate(d Duplicate) {
	key := d.FMRI.String()
	if j, ok := c.index[key]; ok {
		c.duplicates[j].Conflicting = c.duplicates[j].Conflicting || d.Conflicting
		c.duplicates[j].Locations = append(c.duplicates[j].Locations, d.Locations...)
		return
	}
	c.index[key] = len(c.duplicates)
	d.Locations = slices.Clone(d.Locations)
	c.duplicates = append(c.duplicates, d)
}

// Names returns every package name in lexicographic order.
func (c *Catalog) Names() []string {
	return slices.Sorted(maps.Keys(c.packages))
}

// Len returns the number of distinct package names.
func (c *Catalog) Len() int { return len(c.packages) }

// PackageCount returns the number of package versions.
func (c *Catalog) PackageCount() int {
	n := 0
	for _, v := range c.packages {
		n += len(v)
	}
	return n
}

// Versions returns every version of name ordered by [fmri.Compare]. The
// slice must not be modified.
func (c *Catalog) Versions(name string) []*Package { return c.packages[name] }

// Has reports whether any version of name is cataloged.
func (c *Catalog) Has(name string) bool { return len(c.packages[name]) > 0 }

// Newest returns the newest version of name, or nil. Versions are compared
// first; equal versions from different publishers resolve to the
// lexicographically greatest publisher.
func (c *Catalog) Newest(name string) *Package {
	return NewestOf(c.packages[name])
}

// NewestOf returns the newest of versions using the same rules as
// [Catalog.Newest], or nil for an empty slice.
func NewestOf(versions []*Package) *Package {
	var best *Package
	for _, p := range versions {
		if best == nil || cmp.Or(
			fmri.CompareVersion(p.FMRI.Version, best.FMRI.Version),
			cmp.Compare(p.FMRI.Publisher, best.FMRI.Publisher),
		) > 0 {
			best = p
		}
	}
	return best
}

// NewestByPublisher returns the newest version of name from each publisher
// that published it, ordered by publisher.
func (c *Catalog) NewestByPublisher(name string) []*Package {
	byPub := make(map[string][]*Package)
	for _, p := range c.packages[name] {
		byPub[p.FMRI.Publisher] = append(byPub[p.FMRI.Publisher], p)
	}
	out := make([]*Package, 0, len(byPub))
	for _, pub := range slices.Sorted(maps.Keys(byPub)) {
		out = append(out, NewestOf(byPub[pub]))
	}
	return out
}

// Lookup returns the package with exactly the given FMRI.
func (c *Catalog) Lookup(f fmri.FMRI) (*Package, bool) {
	versions := c.packages[f.Name]
	i, found := slices.BinarySearchFunc(versions, f, func(e *Package, t fmri.FMRI) int {
		return fmri.Compare(e.FMRI, t)
	})
	if !found {
		return nil, false
	}
	return versions[i], true
}

// Duplicates returns the FMRIs defined more than once, in ingestion order.
func (c *Catalog) Duplicates() []Duplicate { return slices.Clone(c.duplicates) }
