// Package sanitizer normalizes operator input before it is validated or
// stored.
//
// All functions are idempotent: applying them twice gives the same result as
// applying them once. Invalid input is never rejected here; it is passed on
// in normalized form for the validators to judge.
//
// Normalization includes:
//   - Holder names: trim and collapse runs of whitespace to one space
//   - Lines: drop the trailing line terminator, keep everything else
//   - Export formats: trim, lowercase, drop a leading dot ("  .CSV" becomes "csv")
//   - Filenames: trim and drop a trailing extension matching the chosen format
package sanitizer
