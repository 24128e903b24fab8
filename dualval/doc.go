// Package dualval provides the dual-mode numeric value every computation in
// the graph is built from: a closed sum type holding exactly one of
// {scalar real, dense real matrix}.
//
// The dualval package provides:
//
//   - Value — the tagged scalar|matrix union with a strict arithmetic rule
//     table: scalar±scalar and matrix±matrix stay within their alternative,
//     scalar±matrix is a typed error, and the scalar×matrix product commutes.
//   - Dense — a row-major float64 matrix used as the matrix alternative's
//     backing store, with bounds-checked indexers and elementwise kernels.
//
// Every failure is a typed sentinel (ErrKindMismatch, ErrNotMatrix, ...)
// matched with errors.Is; no operation coerces silently and none panic on
// user-triggered conditions. The active alternative changes only through
// whole-value assignment or SetZero, which unconditionally forces the matrix
// alternative before zeroing.
//
// See the examples in this package for usage patterns.
package dualval
