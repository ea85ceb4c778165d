package component

import (
	"cmp"
	"context"
	"encoding/json"
	"io"
	"runtime"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/sourcegraph/conc/iter"

	"github.com/matzehuels/pkgcheck/pkg/catalog"
	"github.com/matzehuels/pkgcheck/pkg/errors"
	"github.com/matzehuels/pkgcheck/pkg/fmri"
)

// Options configures ingestion.
type Options struct {
	// Workers bounds the number of definitions parsed concurrently.
	// Zero means runtime.NumCPU().
	Workers int
	// Logger receives per-item warnings. Nil discards them.
	Logger *log.Logger
}

// WithDefaults returns a copy of o with zero fields filled in.
func (o Options) WithDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return o
}

// Result is the outcome of component ingestion.
type Result struct {
	// Components are the successfully parsed components in path order.
	Components []*Component
	// Errors holds one error per skipped definition, in path order. Each
	// carries [errors.ErrCodeInvalidComponent].
	Errors []error
}

type manifest struct {
	Name         string   `json:"name"`
	FMRIs        []string `json:"fmris"`
	Dependencies []string `json:"dependencies"`
}

type outcome struct {
	comp *Component
	err  error
}

// Ingest parses definitions in parallel. Definitions that fail to parse
// are skipped and reported in [Result.Errors]; a component producing no
// packages is kept.
func Ingest(ctx context.Context, defs []Definition, opts Options) (*Result, error) {
	opts = opts.WithDefaults()

	mapper := iter.Mapper[Definition, outcome]{MaxGoroutines: opts.Workers}
	outcomes := mapper.Map(defs, func(d *Definition) outcome {
		if ctx.Err() != nil {
			return outcome{err: ctx.Err()}
		}
		c, err := Parse(*d)
		return outcome{comp: c, err: err}
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{}
	for _, o := range outcomes {
		if o.err != nil {
			opts.Logger.Warn("skipping component", "err", errors.UserMessage(o.err))
			res.Errors = append(res.Errors, o.err)
			continue
		}
		res.Components = append(res.Components, o.comp)
	}
	slices.SortStableFunc(res.Components, func(a, b *Component) int { return cmp.Compare(a.Path, b.Path) })
	return res, nil
}

// Parse parses one definition.
func Parse(d Definition) (*Component, error) {
	fail := func(err error) (*Component, error) {
		return nil, errors.Wrap(errors.ErrCodeInvalidComponent, err, "component %s", d.Path)
	}

	if err := errors.ValidateComponentPath(d.Path); err != nil {
		return fail(err)
	}
	if d.Manifest == nil {
		return fail(errors.New(errors.ErrCodeInvalidComponent, "unreadable %s", manifestFile))
	}
	var m manifest
	if err := json.Unmarshal(d.Manifest, &m); err != nil {
		return fail(errors.Wrap(errors.ErrCodeInvalidComponent, err, "decode %s", manifestFile))
	}

	c := &Component{Path: d.Path, Name: m.Name}
	seen := make(map[string]bool, len(m.FMRIs))
	for _, text := range m.FMRIs {
		f, err := fmri.Parse(text)
		if err != nil {
			return fail(err)
		}
		stem := f.Stem()
		if seen[stem.String()] {
			continue
		}
		seen[stem.String()] = true
		c.Produces = append(c.Produces, stem)
	}
	slices.SortFunc(c.Produces, fmri.Compare)

	for _, text := range m.Dependencies {
		dep, err := newDependency(text, Runtime)
		if err != nil {
			return fail(err)
		}
		c.Dependencies = append(c.Dependencies, dep)
	}
	entries, err := parseMakefile(d.Makefile)
	if err != nil {
		return fail(err)
	}
	for _, e := range entries {
		dep, err := newDependency(e.value, e.phase)
		if err != nil {
			return fail(errors.Wrap(errors.ErrCodeInvalidComponent, err, "%s line %d", makefileName, e.line))
		}
		c.Dependencies = append(c.Dependencies, dep)
	}
	c.Dependencies = dedupe(c.Dependencies)
	return c, nil
}

// newDependency parses a declared dependency as a stem. Components declare
// on names; any version given is dropped.
func newDependency(text string, phase Phase) (Dependency, error) {
	f, err := fmri.Parse(text)
	if err != nil {
		return Dependency{}, err
	}
	return Dependency{
		Dependency: catalog.Dependency{Kind: catalog.Require, Target: f.Stem()},
		Phase:      phase,
	}, nil
}

func dedupe(deps []Dependency) []Dependency {
	slices.SortFunc(deps, func(a, b Dependency) int {
		return cmp.Or(cmp.Compare(a.Phase, b.Phase), fmri.Compare(a.Target, b.Target))
	})
	return slices.CompactFunc(deps, func(a, b Dependency) bool {
		return a.Phase == b.Phase && a.Target.Equal(b.Target)
	})
}
