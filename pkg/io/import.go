package io

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/matzehuels/pkgcheck/pkg/errors"
	"github.com/matzehuels/pkgcheck/pkg/graph"
	"github.com/matzehuels/pkgcheck/pkg/observability"
	"github.com/matzehuels/pkgcheck/pkg/problem"
)

// ReadGraph decodes a graph snapshot from r and returns the graph with the
// run ID it was stamped with.
//
// ReadGraph returns an INCOMPATIBLE_SCHEMA error for a snapshot written by
// another schema version and a PERSISTENCE error for anything else it
// cannot read, including a graph whose edges name unknown nodes. It does
// not close r.
func ReadGraph(ctx context.Context, r io.Reader) (*graph.Graph, uuid.UUID, error) {
	var s snapshot
	h, n, err := readArtifact(r, KindGraph, &s)
	var g *graph.Graph
	if err == nil {
		g, err = s.toGraph()
	}
	observability.Artifact().OnArtifactRead(ctx, KindGraph.String(), n, err)
	if err != nil {
		return nil, uuid.Nil, err
	}
	return g, h.Run, nil
}

// ReadProblems decodes a problem report from r, in the order it was
// written.
func ReadProblems(ctx context.Context, r io.Reader) ([]problem.Problem, uuid.UUID, error) {
	var rep report
	h, n, err := readArtifact(r, KindProblems, &rep)
	var out []problem.Problem
	if err == nil {
		out, err = rep.toProblems()
	}
	observability.Artifact().OnArtifactRead(ctx, KindProblems.String(), n, err)
	if err != nil {
		return nil, uuid.Nil, err
	}
	return out, h.Run, nil
}

// LoadGraph reads the snapshot at path. A missing file is a NOT_FOUND
// error so callers can suggest running the analysis first.
func LoadGraph(ctx context.Context, fs afero.Fs, path string) (*graph.Graph, uuid.UUID, error) {
	f, err := open(fs, path)
	if err != nil {
		return nil, uuid.Nil, err
	}
	defer f.Close()
	g, run, err := ReadGraph(ctx, f)
	if err != nil {
		return nil, uuid.Nil, errors.Wrap(errors.GetCode(err), err, "%s", path)
	}
	return g, run, nil
}

// LoadProblems reads the problem report at path.
func LoadProblems(ctx context.Context, fs afero.Fs, path string) ([]problem.Problem, uuid.UUID, error) {
	f, err := open(fs, path)
	if err != nil {
		return nil, uuid.Nil, err
	}
	defer f.Close()
	ps, run, err := ReadProblems(ctx, f)
	if err != nil {
		return nil, uuid.Nil, errors.Wrap(errors.GetCode(err), err, "%s", path)
	}
	return ps, run, nil
}

func open(fs afero.Fs, path string) (afero.File, error) {
	f, err := fs.Open(path)
	if err == nil {
		return f, nil
	}
	if exists, _ := afero.Exists(fs, path); !exists {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "no artifact at %s; run `pkgcheck data run` first", path)
	}
	return nil, errors.Wrap(errors.ErrCodePersistence, err, "open %s", path)
}
