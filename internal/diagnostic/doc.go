// Package diagnostic provides the violation list produced by mapping
// validation.
//
// Validation never stops at the first problem: every stage appends to a
// Diagnostics value and the caller decides what to do with the result.
//
// Key capabilities:
//   - Stable numeric codes (see Code) with generated names
//   - Source locations threaded from the mapping document
//   - "Did you mean" suggestions for unresolved names
//   - Folding all errors into a single error value
package diagnostic
