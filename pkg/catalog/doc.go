// Package catalog reads IPS package catalogs and ingests them into a
// [Catalog] keyed by package name.
//
// # Overview
//
// A catalog asset is the JSON file a pkg(5) repository publishes as
// catalog.dependency.C. It maps publisher → package name → list of
// versions, each with the depend and set actions of that version:
//
//	{
//	  "openindiana.org": {
//	    "library/zlib": [
//	      {"version": "1.2.13,5.11-2023.0.0.1:20230512T081722Z",
//	       "actions": ["depend fmri=pkg:/system/library@0.5.11 type=require"]}
//	    ]
//	  }
//	}
//
// [ReadAsset] turns an asset into raw [Record] values sorted by name,
// version and publisher. [Ingest] parses records into [Package] values in
// parallel and folds them, in record order, into a [Catalog].
//
// # Errors
//
// Catalogs are curated input. An unreadable asset fails with
// [errors.ErrCodeInvalidAsset] before ingestion starts, and a record that
// does not parse fails the whole ingestion with
// [errors.ErrCodeInvalidCatalog], naming the asset and record ordinal.
//
// # Duplicates
//
// The same fully qualified FMRI appearing twice is not an error: the
// dependency sets are merged and the duplicate is recorded for the
// detectors. See [Catalog.Duplicates].
//
// # Variants
//
// Packages and dependencies may be tagged with variants (variant.arch=i386).
// [Package.Applies] and [Dependency.Applies] evaluate the tags against a
// configured variant set; an empty set accepts everything.
package catalog
