// Package graph builds the dependency graph over package names.
//
// # Overview
//
// [Build] composes a [catalog.Catalog] and a set of
// [component.Component] values into one immutable [Graph]:
//
//	g := graph.Build(cat, comps, graph.Options{})
//	for _, n := range g.Neighbors("library/zlib") {
//	    fmt.Println(n.Name, n.Kind)
//	}
//
// Nodes are package names, not versions. Each node is in exactly one
// [State]:
//
//   - [Resolved]: at least one version is cataloged; [Node.Package] is the
//     newest and [Node.History] holds every version
//   - [ComponentOnly]: no catalog entry, but a component produces it
//   - [Unresolved]: referenced by an edge but neither cataloged nor produced
//
// A resolved node may also have a component [Node.Owner].
//
// # Edges
//
// Edges are (from, to, kind) triples. Catalog dependencies of the newest
// version of each package and the declared dependencies of each component
// are merged: same-kind edges collapse and record every [Origin] that
// contributed them, differing kinds persist side by side. An edge target
// that is neither cataloged nor produced becomes an [Unresolved] node; no
// edge is ever dropped.
//
// # Conflicts
//
// A name produced by more than one component keeps the first owner in
// component path order. The rest are recorded as a [ProductConflict] and
// do not contribute edges for that name.
//
// # Queries
//
// [Graph.Neighbors] and [Graph.ReverseNeighbors] answer direct adjacency.
// [Graph.Dependents] answers the transitive "which components reach this
// package" question, and [Graph.StronglyConnected] finds cycles.
//
// # Concurrency
//
// A Graph is never mutated after [Build] or [Assemble] returns and is safe
// for any number of concurrent readers.
package graph
