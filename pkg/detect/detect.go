package detect

import (
	"context"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/pkgcheck/pkg/graph"
	"github.com/matzehuels/pkgcheck/pkg/observability"
	"github.com/matzehuels/pkgcheck/pkg/problem"
)

// Pass is one detector.
type Pass struct {
	Kind problem.Kind
	// Detect inspects g and returns its findings in deterministic order.
	Detect func(g *graph.Graph) []problem.Problem
}

// Pipeline is the fixed pass order.
var Pipeline = []Pass{
	{problem.MissingDependency, missingDependency},
	{problem.MissingRequiredByRenamed, missingRequiredByRenamed},
	{problem.RenamedReference, renamedReference},
	{problem.RenamedNeedsRenamed, renamedNeedsRenamed},
	{problem.ObsoleteReference, obsoleteReference},
	{problem.PartlyObsoleteRequired, partlyObsoleteRequired},
	{problem.ObsoleteRequiredByRenamed, obsoleteRequiredByRenamed},
	{problem.Cycle, cycles},
	{problem.DuplicateDefinition, duplicateDefinition},
	{problem.OrphanComponent, orphanComponent},
	{problem.MissingComponent, missingComponent},
	{problem.ObsoleteInComponent, obsoleteInComponent},
	{problem.RenamedInComponent, renamedInComponent},
	{problem.UnpublishedProduct, unpublishedProduct},
	{problem.UselessComponent, uselessComponent},
	{problem.PublisherConflict, publisherConflict},
	{problem.UnsatisfiedVersion, unsatisfiedVersion},
}

// Options configures a detector run.
type Options struct {
	// Kinds restricts the run to the given passes. Empty runs all of them.
	Kinds []problem.Kind
	// Concurrency bounds how many passes run at once. Zero runs every
	// pass concurrently.
	Concurrency int
	// Logger receives per-pass debug output. Nil discards it.
	Logger *log.Logger
}

// WithDefaults returns a copy of o with zero fields filled in.
func (o Options) WithDefaults() Options {
	if o.Concurrency <= 0 {
		o.Concurrency = len(Pipeline)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return o
}

// Run executes the selected passes over g and returns their findings
// concatenated in pipeline order. It only fails when ctx is cancelled.
func Run(ctx context.Context, g *graph.Graph, opts Options) ([]problem.Problem, error) {
	opts = opts.WithDefaults()

	var passes []Pass
	for _, p := range Pipeline {
		if len(opts.Kinds) == 0 || slices.Contains(opts.Kinds, p.Kind) {
			passes = append(passes, p)
		}
	}

	results := make([][]problem.Problem, len(passes))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.Concurrency)
	for i, p := range passes {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			results[i] = p.Detect(g)
			elapsed := time.Since(start)
			observability.Detect().OnPassComplete(ctx, string(p.Kind), len(results[i]), elapsed)
			opts.Logger.Debug("detector pass", "kind", p.Kind, "problems", len(results[i]), "elapsed", elapsed)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var out []problem.Problem
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}
