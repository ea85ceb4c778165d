// Package pipeline orchestrates a pkgcheck analysis run and the queries
// answered from its artifacts.
//
// This package implements the ingest → build → detect → persist pipeline
// behind `data run`, and the read paths behind print-problems, check-fmri
// and graph dot. By centralizing this logic the CLI stays a thin layer of
// flag handling and output formatting.
//
// # Architecture
//
// A run consists of four stages:
//
//  1. Ingest: read and parse the catalog assets and the component tree,
//     concurrently with each other
//  2. Build: compose both into one frozen [graph.Graph]
//  3. Detect: run the detector passes over the graph
//  4. Persist: commit the graph snapshot and problem report atomically
//
// A failing stage aborts the run before anything is written. Errors are
// wrapped with the stage name and keep the code of their cause.
//
// # Usage
//
//	runner := pipeline.NewRunner(pipeline.Options{
//	    DataDir:       "/var/lib/pkgcheck",
//	    Catalogs:      assets,
//	    ComponentsDir: "/src/oi-userland/components",
//	    Logger:        logger,
//	})
//	result, err := runner.Run(ctx)
//
// Query a previous run:
//
//	comps, err := runner.Dependents(ctx, "library/zlib")
package pipeline

import (
	"io"
	"path/filepath"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/matzehuels/pkgcheck/pkg/catalog"
	"github.com/matzehuels/pkgcheck/pkg/component"
	"github.com/matzehuels/pkgcheck/pkg/graph"
	pkgio "github.com/matzehuels/pkgcheck/pkg/io"
	"github.com/matzehuels/pkgcheck/pkg/problem"
)

// Stage names, as reported in errors and metrics.
const (
	StageIngestCatalogs   = "ingest catalogs"
	StageIngestComponents = "ingest components"
	StageBuild            = "build graph"
	StageDetect           = "detect problems"
	StagePersist          = "persist artifacts"
)

// Options configures a Runner.
type Options struct {
	// Fs is the filesystem assets and artifacts live on. Nil uses the OS.
	Fs afero.Fs
	// Logger receives progress output. Nil discards it.
	Logger *log.Logger

	// DataDir holds data.bin and problems.bin.
	DataDir string
	// Catalogs are the catalog assets, unioned in order.
	Catalogs []catalog.Asset
	// ComponentsDir is the root of the component tree. Empty skips
	// component ingestion.
	ComponentsDir string

	// Workers bounds parser parallelism. Zero means runtime.NumCPU().
	Workers int
	// Variants and Phases are passed to [graph.Build].
	Variants map[string]string
	Phases   []component.Phase
	// Kinds restricts detection. Empty runs every pass.
	Kinds []problem.Kind
}

// WithDefaults returns a copy of o with zero fields filled in.
func (o Options) WithDefaults() Options {
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	return o
}

// GraphPath is the location of the graph snapshot.
func (o Options) GraphPath() string { return filepath.Join(o.DataDir, pkgio.GraphFile) }

// ProblemsPath is the location of the problem report.
func (o Options) ProblemsPath() string { return filepath.Join(o.DataDir, pkgio.ProblemsFile) }

// Result is the outcome of a successful run.
type Result struct {
	// Run identifies the run; both artifacts are stamped with it.
	Run      uuid.UUID
	Graph    *graph.Graph
	Problems []problem.Problem
	Stats    Stats
}

// Stats summarizes a run.
type Stats struct {
	Packages   int
	Components int
	// Skipped counts component definitions that failed to parse.
	Skipped    int
	IngestTime time.Duration
	BuildTime  time.Duration
	DetectTime time.Duration
}
