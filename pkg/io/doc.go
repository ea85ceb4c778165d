// Package io persists the two durable artifacts of an analysis run: the
// graph snapshot and the problem report.
//
// # Overview
//
// A run writes both artifacts together with [Commit] and later commands read
// them back independently: print-problems loads the report, check-fmri loads
// only the snapshot. Round-trips are exact: [ReadGraph] of a written graph
// has the same nodes, edges, flags, component owners and conflicts.
//
// # Format
//
// Every artifact is a fixed 32-byte [Header] followed by the payload:
//
//	magic   [4]byte  "PKCK"
//	kind    byte     'G' graph snapshot, 'P' problem report
//	codec   byte     1 = zstd-compressed CBOR
//	schema  uint16   big endian, currently [Schema]
//	run     [16]byte run UUID
//	sum     uint64   xxhash64 of the compressed payload
//
// The payload is a private CBOR document. Package FMRIs are stored in their
// canonical text form and re-parsed on load, so the on-disk form does not
// depend on the in-memory layout of [fmri.FMRI].
//
// # Errors
//
// A truncated file, a wrong magic, kind or codec, or a checksum mismatch is a
// PERSISTENCE error. A header from another schema version is reported as
// INCOMPATIBLE_SCHEMA before any payload byte is decoded.
//
// # Atomicity
//
// [Commit] writes every artifact to a temporary file in the target
// directory, syncs it, and only renames once all writes succeeded. A failed
// run leaves the previous artifacts in place.
//
// [fmri.FMRI]: github.com/matzehuels/pkgcheck/pkg/fmri.FMRI
package io
