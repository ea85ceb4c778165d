package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/matzehuels/pkgcheck/pkg/catalog"
	"github.com/matzehuels/pkgcheck/pkg/component"
	"github.com/matzehuels/pkgcheck/pkg/errors"
	"github.com/matzehuels/pkgcheck/pkg/fmri"
	"github.com/matzehuels/pkgcheck/pkg/graph"
	pkgio "github.com/matzehuels/pkgcheck/pkg/io"
	"github.com/matzehuels/pkgcheck/pkg/problem"
)

// =============================================================================
// Artifact queries
// =============================================================================

// LoadGraph reads the graph snapshot of the last run.
func (r *Runner) LoadGraph(ctx context.Context) (*graph.Graph, uuid.UUID, error) {
	return pkgio.LoadGraph(ctx, r.opts.Fs, r.opts.GraphPath())
}

// Report is the problem report of the last run.
type Report struct {
	Run      uuid.UUID
	Problems []problem.Problem
}

// Problems reads the problem report and checks that the graph snapshot
// beside it was written by the same run. Only the snapshot header is read.
func (r *Runner) Problems(ctx context.Context) (*Report, error) {
	problems, run, err := pkgio.LoadProblems(ctx, r.opts.Fs, r.opts.ProblemsPath())
	if err != nil {
		return nil, err
	}

	f, err := r.opts.Fs.Open(r.opts.GraphPath())
	if err != nil {
		r.opts.Logger.Warn("graph snapshot missing; cannot verify report", "path", r.opts.GraphPath())
		return &Report{Run: run, Problems: problems}, nil
	}
	defer f.Close()
	h, err := pkgio.ReadHeader(f, pkgio.KindGraph)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "%s", r.opts.GraphPath())
	}
	if h.Run != run {
		return nil, errors.New(errors.ErrCodePersistence,
			"problem report (run %s) and graph snapshot (run %s) come from different runs; rerun data run", run, h.Run)
	}
	return &Report{Run: run, Problems: problems}, nil
}

// Dependents parses text as an FMRI and returns, from the stored snapshot,
// every component whose dependency chain reaches its stem. A name the
// graph does not know yields an empty result, not an error. Repeated
// calls return the same result.
func (r *Runner) Dependents(ctx context.Context, text string) ([]*component.Component, error) {
	f, err := fmri.Parse(text)
	if err != nil {
		return nil, err
	}
	g, _, err := r.LoadGraph(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := g.Node(f.Name); !ok {
		r.opts.Logger.Debug("name not in graph", "name", f.Name)
		return nil, nil
	}
	return g.Dependents(f.Name), nil
}

// DOT renders the subgraph of every node reaching the stem of text from
// the stored snapshot. Unknown names are a NOT_FOUND error since there is
// nothing to draw.
func (r *Runner) DOT(ctx context.Context, text string, detailed bool, kinds ...catalog.Kind) (string, error) {
	f, err := fmri.Parse(text)
	if err != nil {
		return "", err
	}
	g, _, err := r.LoadGraph(ctx)
	if err != nil {
		return "", err
	}
	names, edges := g.Subgraph(f.Name, kinds...)
	if names == nil {
		return "", errors.New(errors.ErrCodeNotFound, "%s is not in the graph", f.Name)
	}
	return g.ToDOT(names, edges, graph.DOTOptions{Highlight: f.Name, Detailed: detailed}), nil
}

// =============================================================================
// Asset validation
// =============================================================================

// AssetStatus is the outcome of checking one input.
type AssetStatus struct {
	Path      string
	Publisher string
	// Items counts records for a catalog, definitions for the component
	// tree.
	Items int
	Err   error
}

// CheckAssets reads every configured catalog and scans the component tree
// without parsing records, reporting what a run would ingest. It never
// fails; per-asset errors are returned in the statuses.
func (r *Runner) CheckAssets(ctx context.Context) []AssetStatus {
	var out []AssetStatus
	for _, a := range r.opts.Catalogs {
		if ctx.Err() != nil {
			break
		}
		records, err := catalog.ReadAsset(r.opts.Fs, a)
		out = append(out, AssetStatus{Path: a.Path, Publisher: a.Publisher, Items: len(records), Err: err})
	}
	if r.opts.ComponentsDir != "" && ctx.Err() == nil {
		defs, err := component.Scan(r.opts.Fs, r.opts.ComponentsDir)
		out = append(out, AssetStatus{Path: r.opts.ComponentsDir, Items: len(defs), Err: err})
	}
	return out
}
