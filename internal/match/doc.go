// Package match ranks known names against an unresolved reference so that
// diagnostics can offer "did you mean" suggestions.
//
// Key functions:
//   - NormalizeIdent: folds an identifier for fuzzy comparison
//   - Levenshtein: edit distance between two names
//   - Suggest: the closest known names for a misspelled reference
package match
