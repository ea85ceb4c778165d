// Package fmri parses and compares IPS package identifiers.
//
// # Overview
//
// An FMRI (Fault Managed Resource Identifier) names a package and,
// optionally, the publisher that ships it and a specific version:
//
//	pkg://openindiana.org/library/zlib@1.2.13,5.11-2023.0.0.1:20230512T081722Z
//	\_/   \_____________/ \__________/ \____/ \__/ \_________/ \______________/
//	       publisher       name         release build branch    timestamp
//
// The canonical textual form accepted by [Parse] is
//
//	[pkg://publisher/ | pkg:/]name[@release[,build][-branch][:timestamp]]
//
// release, build and branch are dot-separated sequences of non-negative
// integers. The timestamp is an opaque ordering key compared byte-wise.
//
// # Stems and Fully Qualified References
//
// An FMRI without a version is a stem reference; dependency declarations
// in component Makefiles use stems. An FMRI with a version is fully
// qualified; catalog entries are keyed by fully qualified FMRIs.
//
// # Ordering
//
// [Compare] orders FMRIs field by field: name, publisher, then version
// (release, build, branch, timestamp). A missing field sorts before any
// present value. The order is total and consistent with [FMRI.Equal].
//
// # Matching
//
// [Matches] implements exact matching: a stem constraint matches every
// version of the same name, a versioned constraint matches only that exact
// version. [Satisfies] implements the looser minimum-version rule that IPS
// applies to require dependencies, where "zlib@1.2" is satisfied by
// "zlib@1.2.13" and by "zlib@1.3".
//
// All functions in this package are pure and safe for concurrent use.
package fmri
