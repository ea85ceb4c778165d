package io

import (
	"bytes"
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/matzehuels/pkgcheck/pkg/graph"
	"github.com/matzehuels/pkgcheck/pkg/observability"
	"github.com/matzehuels/pkgcheck/pkg/problem"
)

// WriteGraph encodes g as a graph snapshot stamped with run and writes it
// to w. The snapshot can be read back with [ReadGraph].
func WriteGraph(ctx context.Context, w io.Writer, g *graph.Graph, run uuid.UUID) error {
	n, err := writeArtifact(w, KindGraph, run, fromGraph(g))
	if err == nil {
		observability.Artifact().OnArtifactWrite(ctx, KindGraph.String(), n)
	}
	return err
}

// WriteProblems encodes problems as a problem report stamped with run and
// writes it to w, preserving their order.
func WriteProblems(ctx context.Context, w io.Writer, problems []problem.Problem, run uuid.UUID) error {
	n, err := writeArtifact(w, KindProblems, run, fromProblems(problems))
	if err == nil {
		observability.Artifact().OnArtifactWrite(ctx, KindProblems.String(), n)
	}
	return err
}

// SaveGraph atomically replaces the snapshot at path.
// This is a convenience wrapper around [Commit] for a single artifact.
func SaveGraph(ctx context.Context, fs afero.Fs, path string, g *graph.Graph, run uuid.UUID) error {
	var buf bytes.Buffer
	if err := WriteGraph(ctx, &buf, g, run); err != nil {
		return err
	}
	return Commit(fs, map[string][]byte{path: buf.Bytes()})
}

// SaveProblems atomically replaces the problem report at path.
func SaveProblems(ctx context.Context, fs afero.Fs, path string, problems []problem.Problem, run uuid.UUID) error {
	var buf bytes.Buffer
	if err := WriteProblems(ctx, &buf, problems, run); err != nil {
		return err
	}
	return Commit(fs, map[string][]byte{path: buf.Bytes()})
}
