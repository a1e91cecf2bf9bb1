// Package match provides field-name matching keys and type compatibility
// scoring for the plan builder.
//
// Key functions:
//   - Key: the lookup key a field name is matched under for a Mode
//   - NormalizeIdent: separator-insensitive form used by ModeNormalized
//   - ScoreTypeCompatibility: scores type compatibility using reflect
package match
