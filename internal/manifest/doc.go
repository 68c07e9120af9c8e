// Package manifest defines the registry's on-disk documents and validates them.
//
// A registry is a tree of category directories, each with a category.json,
// containing tool directories, each with a manifest.json. Documents are
// checked against embedded JSON Schemas first, then against rules a schema
// cannot express (relative file paths, semantic versions, duplicate
// destinations). [ParseManifest] and [ParseCategory] fail on any error-level
// issue; [ValidateManifest] and [ValidateCategory] only report.
package manifest
