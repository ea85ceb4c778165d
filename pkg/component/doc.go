// Package component scans an oi-userland style component tree and ingests
// the build definitions it finds into [Component] values.
//
// # Overview
//
// A component is a directory holding a pkg5 file. The pkg5 file is JSON
// listing the packages the component produces and, optionally, its
// runtime dependencies:
//
//	{"name": "zlib", "fmris": ["library/zlib"], "dependencies": ["system/library"]}
//
// Build-time dependencies come from the sibling Makefile, where the
// component declares them with REQUIRED_PACKAGES and friends:
//
//	REQUIRED_PACKAGES += developer/gcc-13
//	TEST_REQUIRED_PACKAGES += developer/test/check
//
// [Scan] walks the tree and returns raw [Definition] values sorted by path.
// [Ingest] parses definitions in parallel. A malformed definition is
// reported in [Result.Errors] and skipped; it never fails the whole run.
package component
