// Package diagnostic provides structured warnings, errors, and
// "why this mapped" explanations collected while a mapping plan is built.
//
// Key capabilities:
//   - Dropped field warnings (no match, no conversion, access rules)
//   - Explanation of each compiled field copy
//   - Configuration errors that abort a build
package diagnostic
