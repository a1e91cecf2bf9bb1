// Package plan compiles a mapping plan for one (source, target) pair of
// struct types.
//
// Compilation pipeline:
//  1. Analyze both shapes → ordered field descriptors
//  2. Index target fields by matching key (duplicates are a build error)
//  3. For each source field, in declaration order:
//     - Apply YAML "121" renames and the "ignore" list
//     - Skip unmatched, unreadable and unwritable fields
//     - Direct copy when the field types are identical or assignable
//     - Otherwise ask the converter provider; no converter drops the field
//  4. Emit diagnostics explaining every decision
//
// A compiled Plan is immutable and safe for concurrent use.
package plan
