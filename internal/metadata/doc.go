// Package metadata loads package metadata (name and declared version) and
// rewrites the declared version in place.
//
// Two formats are supported:
//   - metadata.rb, the Ruby DSL used by Chef cookbooks, where the version is
//     declared as `version '1.2.3'` (single or double quotes)
//   - metadata.json, where the version is a top-level "version" string.
//     The JSON file may contain comments, which are stripped with
//     github.com/tidwall/jsonc before parsing.
//
// The rewriter only ever touches the numeric literal between the quotes;
// every other byte of the file is preserved.
package metadata
