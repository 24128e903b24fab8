// Package dualval: sentinel error set (unified, consistent).
// This file defines ONLY package-level sentinel errors used across the dualval
// package. All operations MUST return these sentinels and tests MUST check them
// via errors.Is. No operation panics on user-triggered error conditions.

package dualval

import "errors"

// NOTE ON NAMING & PREFIXING
// --------------------------
// Every message is prefixed with "dualval: ..." for consistency and to allow
// easy grepping across logs. DO NOT %w wrap these sentinels when returning
// directly; if context is essential, wrap with fmt.Errorf("ctx: %w", ErrX) —
// callers will still use errors.Is to match.

var (
	// ErrKindMismatch is returned when an arithmetic operator is invoked across
	// incompatible active alternatives: in-place addition/subtraction between a
	// scalar-holding and a matrix-holding value, or the additive operators
	// between a scalar and a matrix. Never silently coerced.
	ErrKindMismatch = errors.New("dualval: operand kinds do not match")

	// ErrNotScalar is returned by Scalar() when the value currently holds a matrix.
	ErrNotScalar = errors.New("dualval: value does not hold a scalar")

	// ErrNotMatrix is returned by the matrix-only accessors (Coeff, At, Sum,
	// Array, Size, Matrix) when the value currently holds a scalar.
	ErrNotMatrix = errors.New("dualval: value does not hold a matrix")

	// ErrNilMatrix indicates that a nil *Dense was supplied where a matrix is required.
	ErrNilMatrix = errors.New("dualval: nil matrix")

	// ErrBadShape is returned when a requested shape is invalid (rows<=0 or cols<=0).
	// Dense creation must validate before allocation.
	ErrBadShape = errors.New("dualval: invalid shape")

	// ErrOutOfRange indicates that an index (linear, row or column) is outside
	// valid bounds. Public indexers MUST return this, not panic.
	ErrOutOfRange = errors.New("dualval: index out of range")

	// ErrShapeMismatch indicates incompatible shapes between matrix operands,
	// e.g. elementwise add/sub over different shapes, or a product where
	// a.Cols != b.Rows.
	ErrShapeMismatch = errors.New("dualval: shape mismatch")
)
