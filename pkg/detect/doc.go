// Package detect runs the problem detectors over a built graph.
//
// # Overview
//
// [Run] executes a fixed, ordered pipeline of passes. Each pass reads the
// frozen [graph.Graph] and returns zero or more [problem.Problem] records;
// passes never see each other's output, so they run concurrently and their
// results are concatenated in pipeline order:
//
//  1. missing-dependency: an edge targets an unresolved node;
//     missing-required-by-renamed narrows it to renamed requirers
//  2. renamed-reference: an edge targets a renamed package;
//     renamed-needs-renamed: both ends of an edge are renamed
//  3. obsolete-reference: an edge targets an obsolete package;
//     partly-obsolete-required and obsolete-required-by-renamed refine it
//     by the target's history and the requirer's state
//  4. cycle: strongly connected components over require edges
//  5. duplicate-definition: a name produced by several components, or an
//     FMRI cataloged twice with different dependencies
//  6. orphan-component: a component that publishes nothing
//  7. missing-component: a live published package no component produces
//  8. obsolete-in-component, renamed-in-component: a component still
//     produces an obsolete or renamed package
//  9. unpublished-product: some products of a component are published,
//     others are not
//  10. useless-component: nothing outside a component needs its products
//  11. publisher-conflict: a live package published by several publishers
//  12. unsatisfied-version: a declared minimum version nobody publishes
//
// Every pass iterates in name order and sorts its output, so unchanged
// input yields an identical problem sequence.
package detect
