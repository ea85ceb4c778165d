// Package pkg provides the core libraries for pkgcheck, a consistency checker
// for IPS package repositories and the component trees that build them.
//
// # Overview
//
// pkgcheck reads the dependency catalogs of one or more IPS publishers
// (catalog.dependency.C) together with the component definitions of an
// oi-userland checkout, merges both into a single dependency graph and runs
// a fixed set of detectors over it. The pkg directory is organized into
// four main areas:
//
//  1. Inputs - [fmri], [catalog], [component]
//  2. Model - [graph], [problem], [detect]
//  3. Persistence - [io]
//  4. Orchestration - [pipeline], [config], [observability]
//
// # Architecture
//
// The data flow of one analysis run:
//
//	catalog assets        component tree
//	      ↓                      ↓
//	[catalog] package     [component] package   (concurrently)
//	      ↓                      ↓
//	      └──── [graph] package ─┘              (merge + edges)
//	                   ↓
//	          [detect] package                  (problem passes)
//	                   ↓
//	            [io] package                    (data.bin + problems.bin)
//
// Queries (dependents of a package, problem listings, DOT export) load the
// stored artifacts again instead of re-reading the inputs.
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/pkgcheck/pkg/catalog"
//	    "github.com/matzehuels/pkgcheck/pkg/pipeline"
//	)
//
//	r := pipeline.NewRunner(pipeline.Options{
//	    DataDir:       "/var/lib/pkgcheck",
//	    Catalogs:      []catalog.Asset{{Path: "catalog.dependency.C"}},
//	    ComponentsDir: "oi-userland/components",
//	})
//	res, err := r.Run(context.Background())
//	if err != nil {
//	    // nothing was written
//	}
//	for _, p := range res.Problems {
//	    fmt.Println(p.Kind, p.Subject)
//	}
//
// # Main Packages
//
// ## Inputs
//
// [fmri] - Parsing and ordering of FMRIs and IPS versions
// (release,branch-build:timestamp), including the prefix rule used to test
// whether a published version satisfies a minimum.
//
// [catalog] - Reads catalog assets and parses each record's actions into
// packages with typed dependencies. Obsolete and renamed state, variant
// filtering and publisher conflicts are resolved here.
//
// [component] - Scans a component tree for pkg5 manifests and Makefiles and
// turns them into components with their products and build or runtime
// dependencies.
//
// ## Model
//
// [graph] - The merged dependency graph: one node per package name, typed
// edges, component ownership and the queries built on them (reachability,
// dependents, strongly connected components, DOT export).
//
// [problem] - The problem kinds, their ordering and filtering.
//
// [detect] - One pass per problem kind, run concurrently over a finished
// graph with deterministic output.
//
// ## Persistence
//
// [io] - The versioned artifact format (header + zstd-compressed CBOR) and
// the atomic commit of data.bin and problems.bin.
//
// ## Orchestration
//
// [pipeline] - Runs ingest, build, detect and persist as named stages and
// answers queries against the stored artifacts. Used by the CLI.
//
// [config] - TOML configuration with environment overrides.
//
// [observability] - Hook interfaces for stages, detectors and artifacts,
// plus a Prometheus implementation that can be written as a textfile.
//
// [fmri]: https://pkg.go.dev/github.com/matzehuels/pkgcheck/pkg/fmri
// [catalog]: https://pkg.go.dev/github.com/matzehuels/pkgcheck/pkg/catalog
// [component]: https://pkg.go.dev/github.com/matzehuels/pkgcheck/pkg/component
// [graph]: https://pkg.go.dev/github.com/matzehuels/pkgcheck/pkg/graph
// [problem]: https://pkg.go.dev/github.com/matzehuels/pkgcheck/pkg/problem
// [detect]: https://pkg.go.dev/github.com/matzehuels/pkgcheck/pkg/detect
// [io]: https://pkg.go.dev/github.com/matzehuels/pkgcheck/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/pkgcheck/pkg/pipeline
// [config]: https://pkg.go.dev/github.com/matzehuels/pkgcheck/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/pkgcheck/pkg/observability
package pkg
