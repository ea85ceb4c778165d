package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/pkgcheck/pkg/catalog"
	"github.com/matzehuels/pkgcheck/pkg/component"
	"github.com/matzehuels/pkgcheck/pkg/detect"
	"github.com/matzehuels/pkgcheck/pkg/errors"
	"github.com/matzehuels/pkgcheck/pkg/graph"
	pkgio "github.com/matzehuels/pkgcheck/pkg/io"
	"github.com/matzehuels/pkgcheck/pkg/observability"
)

// Runner executes runs and queries with fixed options. It holds no
// per-run state, so one Runner may serve concurrent callers.
type Runner struct {
	opts Options
}

// NewRunner creates a runner, filling in option defaults.
func NewRunner(opts Options) *Runner {
	return &Runner{opts: opts.WithDefaults()}
}

// Options returns the runner's effective options.
func (r *Runner) Options() Options { return r.opts }

// Run executes the complete ingest → build → detect → persist pipeline.
// Nothing is written unless every stage succeeds.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	log := r.opts.Logger
	result := &Result{Run: uuid.New()}

	// Stage 1: Ingest
	ingestStart := time.Now()
	var (
		cat   *catalog.Catalog
		comps []*component.Component
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return r.stage(egCtx, StageIngestCatalogs, func(ctx context.Context) (err error) {
			cat, err = r.ingestCatalogs(ctx)
			return err
		})
	})
	eg.Go(func() error {
		return r.stage(egCtx, StageIngestComponents, func(ctx context.Context) (err error) {
			comps, result.Stats.Skipped, err = r.ingestComponents(ctx)
			return err
		})
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	result.Stats.IngestTime = time.Since(ingestStart)
	result.Stats.Packages = cat.PackageCount()
	result.Stats.Components = len(comps)
	log.Info("ingested inputs",
		"packages", result.Stats.Packages,
		"names", cat.Len(),
		"components", result.Stats.Components,
		"skipped", result.Stats.Skipped,
		"duration", result.Stats.IngestTime.Round(time.Millisecond))

	// Stage 2: Build
	buildStart := time.Now()
	err := r.stage(ctx, StageBuild, func(ctx context.Context) error {
		result.Graph = graph.Build(cat, comps, graph.Options{Variants: r.opts.Variants, Phases: r.opts.Phases})
		observability.Pipeline().OnGraphBuilt(ctx, result.Graph.NodeCount(), result.Graph.EdgeCount())
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Stats.BuildTime = time.Since(buildStart)
	log.Info("built graph",
		"nodes", result.Graph.NodeCount(),
		"edges", result.Graph.EdgeCount(),
		"conflicts", len(result.Graph.Conflicts()),
		"duration", result.Stats.BuildTime.Round(time.Millisecond))

	// Stage 3: Detect
	detectStart := time.Now()
	err = r.stage(ctx, StageDetect, func(ctx context.Context) (err error) {
		result.Problems, err = detect.Run(ctx, result.Graph, detect.Options{Kinds: r.opts.Kinds, Logger: log})
		return err
	})
	if err != nil {
		return nil, err
	}
	result.Stats.DetectTime = time.Since(detectStart)
	log.Info("detected problems",
		"problems", len(result.Problems),
		"duration", result.Stats.DetectTime.Round(time.Millisecond))

	// Stage 4: Persist
	err = r.stage(ctx, StagePersist, func(ctx context.Context) error {
		return r.persist(ctx, result)
	})
	if err != nil {
		return nil, err
	}
	log.Debug("committed artifacts", "dir", r.opts.DataDir, "run", result.Run)
	return result, nil
}

// stage runs fn with the stage hooks around it and wraps its error with
// the stage name.
func (r *Runner) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, name)
	start := time.Now()
	err := fn(ctx)
	if err == nil {
		err = ctx.Err()
	}
	hooks.OnStageComplete(ctx, name, time.Since(start), err)
	return errors.Stage(name, err)
}

func (r *Runner) ingestCatalogs(ctx context.Context) (*catalog.Catalog, error) {
	cat, err := catalog.Load(ctx, r.opts.Fs, r.opts.Catalogs, catalog.Options{
		Workers: r.opts.Workers,
		Logger:  r.opts.Logger,
	})
	if err != nil {
		return nil, err
	}
	observability.Pipeline().OnIngest(ctx, "catalog", cat.PackageCount(), 0)
	return cat, nil
}

func (r *Runner) ingestComponents(ctx context.Context) ([]*component.Component, int, error) {
	if r.opts.ComponentsDir == "" {
		r.opts.Logger.Warn("no components directory configured; component checks will be empty")
		return nil, 0, nil
	}
	defs, err := component.Scan(r.opts.Fs, r.opts.ComponentsDir)
	if err != nil {
		return nil, 0, err
	}
	res, err := component.Ingest(ctx, defs, component.Options{
		Workers: r.opts.Workers,
		Logger:  r.opts.Logger,
	})
	if err != nil {
		return nil, 0, err
	}
	observability.Pipeline().OnIngest(ctx, "component", len(res.Components), len(res.Errors))
	if n := len(res.Errors); n > 0 {
		r.opts.Logger.Warn("skipped malformed components", "count", n)
	}
	return res.Components, len(res.Errors), nil
}

func (r *Runner) persist(ctx context.Context, result *Result) error {
	var graphBuf, problemsBuf bytes.Buffer
	if err := pkgio.WriteGraph(ctx, &graphBuf, result.Graph, result.Run); err != nil {
		return err
	}
	if err := pkgio.WriteProblems(ctx, &problemsBuf, result.Problems, result.Run); err != nil {
		return err
	}
	return pkgio.Commit(r.opts.Fs, map[string][]byte{
		r.opts.GraphPath():    graphBuf.Bytes(),
		r.opts.ProblemsPath(): problemsBuf.Bytes(),
	})
}
