// Package structured merges JSON, YAML and TOML documents.
//
// Merging never replaces a value that already exists in the destination.
// Objects are merged recursively; arrays and scalars are left alone. New keys
// from the source are appended after the destination's own keys. JSON keeps
// key order through Object, YAML is merged on the node tree so comments in
// the destination are kept, and TOML is rewritten with sorted keys.
package structured
