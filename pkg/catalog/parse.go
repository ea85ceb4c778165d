package catalog

import (
	"strings"

	"github.com/matzehuels/pkgcheck/pkg/errors"
	"github.com/matzehuels/pkgcheck/pkg/fmri"
)

const variantPrefix = "variant."

// ignoredKinds are depend types that carry no package relationship the
// graph models.
var ignoredKinds = map[string]bool{
	"origin":  true,
	"exclude": true,
	"parent":  true,
}

// parsed is the outcome of parsing one record.
type parsed struct {
	pkg     *Package
	ignored int
	err     error
}

// ParseRecord parses one raw record into a Package. Errors carry
// [errors.ErrCodeInvalidCatalog] and the record location.
func ParseRecord(r Record) (*Package, error) {
	res := parseRecord(r)
	return res.pkg, res.err
}

func parseRecord(r Record) parsed {
	fail := func(err error) parsed {
		return parsed{err: errors.Wrap(errors.ErrCodeInvalidCatalog, err, "%s (%s@%s)", r.Location(), r.Name, r.Version)}
	}

	if r.Version == "" {
		return fail(errors.New(errors.ErrCodeInvalidCatalog, "missing version"))
	}
	text := r.Name + "@" + r.Version
	if r.Publisher != "" {
		text = "pkg://" + r.Publisher + "/" + text
	}
	id, err := fmri.Parse(text)
	if err != nil {
		return fail(err)
	}

	p := &Package{FMRI: id}
	var renamed bool
	var ignored int

	for _, line := range r.Actions {
		a, err := parseAction(line)
		if err != nil {
			return fail(err)
		}
		switch a.name {
		case "depend":
			deps, skip, err := parseDepend(a)
			if err != nil {
				return fail(err)
			}
			if skip {
				ignored++
			}
			p.Dependencies = append(p.Dependencies, deps...)
		case "set":
			name, _ := a.value("name")
			values := a.values("value")
			switch {
			case name == "pkg.obsolete":
				p.Obsolete = isTrue(values)
			case name == "pkg.renamed":
				renamed = isTrue(values)
			case strings.HasPrefix(name, variantPrefix):
				if p.Variants == nil {
					p.Variants = make(map[string][]string)
				}
				p.Variants[strings.TrimPrefix(name, variantPrefix)] = values
			}
		}
	}

	if renamed {
		if p.Obsolete {
			return fail(errors.New(errors.ErrCodeConflict, "package is both obsolete and renamed"))
		}
		for _, d := range p.Dependencies {
			if d.Kind == Require {
				stem := d.Target.Stem()
				p.RenamedTo = &stem
				break
			}
		}
		if p.RenamedTo == nil {
			return fail(errors.New(errors.ErrCodeInvalidCatalog, "renamed package has no require dependency"))
		}
	}

	p.Dependencies = unionDependencies(p.Dependencies, nil)
	return parsed{pkg: p, ignored: ignored}
}

func isTrue(values []string) bool {
	return len(values) > 0 && strings.EqualFold(values[0], "true")
}

// parseDepend expands one depend action into dependencies. skip is true
// for depend types the graph does not model.
func parseDepend(a action) (deps []Dependency, skip bool, err error) {
	typ, ok := a.value("type")
	if !ok {
		return nil, false, errors.New(errors.ErrCodeInvalidCatalog, "depend action without type")
	}
	if ignoredKinds[typ] {
		return nil, true, nil
	}
	kind, ok := ParseKind(typ)
	if !ok {
		return nil, false, errors.New(errors.ErrCodeInvalidCatalog, "unknown depend type %q", typ)
	}

	targets := a.values("fmri")
	if len(targets) == 0 {
		return nil, false, errors.New(errors.ErrCodeInvalidCatalog, "%s dependency without fmri", typ)
	}
	if len(targets) > 1 && kind != RequireAny && kind != GroupAny {
		return nil, false, errors.New(errors.ErrCodeInvalidCatalog, "%s dependency with %d fmri values", typ, len(targets))
	}

	var predicate *fmri.FMRI
	if kind == Conditional {
		text, ok := a.value("predicate")
		if !ok {
			return nil, false, errors.New(errors.ErrCodeInvalidCatalog, "conditional dependency without predicate")
		}
		p, err := fmri.Parse(text)
		if err != nil {
			return nil, false, err
		}
		predicate = &p
	}

	var variants map[string]string
	for _, at := range a.attrs {
		if name, ok := strings.CutPrefix(at.key, variantPrefix); ok {
			if variants == nil {
				variants = make(map[string]string)
			}
			variants[name] = at.value
		}
	}

	for _, text := range targets {
		target, err := fmri.Parse(text)
		if err != nil {
			return nil, false, err
		}
		deps = append(deps, Dependency{Kind: kind, Target: target, Predicate: predicate, Variants: variants})
	}
	return deps, false, nil
}
