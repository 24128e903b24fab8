// Arithmetic over Values: the operator rule table.
//
// Rule table (reproduced exactly; see package doc):
//   - scalar ± scalar → scalar; matrix ± matrix → matrix (shape-checked);
//     scalar ± matrix → ErrKindMismatch for the additive operators.
//   - In-place AddAssign/SubAssign fail with ErrKindMismatch when the
//     receiver's active alternative differs from the operand's.
//   - Mul: scalar×scalar → scalar; matrix×matrix → matrix product
//     (inner dimensions checked); scalar×matrix and matrix×scalar are both
//     valid and equal (the scalar operand commutes).

package dualval

import "fmt"

// opErrorf wraps a sentinel with the offending operation and operand kinds.
func opErrorf(op string, a, b Kind, err error) error {
	return fmt.Errorf("dualval: %s of %s and %s: %w", op, a, b, err)
}

// AddAssign adds w into v in place. Fails with ErrKindMismatch when the
// receiver's active alternative does not match the operand's, and with
// ErrShapeMismatch for matrix operands of different shapes.
// Complexity: O(1) for scalars, O(r*c) for matrices.
func (v *Value) AddAssign(w Value) error {
	if v.kind != w.kind {
		return opErrorf("in-place addition", v.kind, w.kind, ErrKindMismatch)
	}
	if v.kind == Scalar {
		v.scalar += w.scalar
		return nil
	}

	return v.matrix.addAssign(w.matrix)
}

// SubAssign subtracts w from v in place. Fails with ErrKindMismatch when the
// receiver's active alternative does not match the operand's, and with
// ErrShapeMismatch for matrix operands of different shapes.
// Complexity: O(1) for scalars, O(r*c) for matrices.
func (v *Value) SubAssign(w Value) error {
	if v.kind != w.kind {
		return opErrorf("in-place subtraction", v.kind, w.kind, ErrKindMismatch)
	}
	if v.kind == Scalar {
		v.scalar -= w.scalar
		return nil
	}

	return v.matrix.subAssign(w.matrix)
}

// Add returns a+b. scalar+scalar → scalar; matrix+matrix → matrix; the mixed
// combination is undefined and fails with ErrKindMismatch.
// Complexity: O(1) for scalars, O(r*c) for matrices.
func Add(a, b Value) (Value, error) {
	if a.kind != b.kind {
		return Value{}, opErrorf("addition", a.kind, b.kind, ErrKindMismatch)
	}
	if a.kind == Scalar {
		return NewScalar(a.scalar + b.scalar), nil
	}
	out := a.Clone()
	if err := out.matrix.addAssign(b.matrix); err != nil {
		return Value{}, err
	}

	return out, nil
}

// Sub returns a-b under the same rule table as Add.
// Complexity: O(1) for scalars, O(r*c) for matrices.
func Sub(a, b Value) (Value, error) {
	if a.kind != b.kind {
		return Value{}, opErrorf("subtraction", a.kind, b.kind, ErrKindMismatch)
	}
	if a.kind == Scalar {
		return NewScalar(a.scalar - b.scalar), nil
	}
	out := a.Clone()
	if err := out.matrix.subAssign(b.matrix); err != nil {
		return Value{}, err
	}

	return out, nil
}

// Mul returns a×b. scalar×scalar is a scalar; scalar×matrix and matrix×scalar
// are the elementwise-scaled matrix (the scalar commutes); matrix×matrix is
// the matrix product and fails with ErrShapeMismatch when the inner
// dimensions disagree.
// Complexity: O(1), O(r*c), or O(r*c*k) respectively.
func Mul(a, b Value) (Value, error) {
	switch {
	case a.kind == Scalar && b.kind == Scalar:
		return NewScalar(a.scalar * b.scalar), nil
	case a.kind == Scalar: // scalar × matrix
		return MulScalar(b, a.scalar), nil
	case b.kind == Scalar: // matrix × scalar
		return MulScalar(a, b.scalar), nil
	default: // matrix × matrix
		m, err := a.matrix.product(b.matrix)
		if err != nil {
			return Value{}, err
		}
		return Value{kind: Matrix, matrix: m}, nil
	}
}

// MulScalar returns v scaled by d. Total: a scalar value yields a scalar, a
// matrix value yields the elementwise-scaled matrix. MulScalar(v, d) equals
// Mul(NewScalar(d), v) for every v.
// Complexity: O(1) for scalars, O(r*c) for matrices.
func MulScalar(v Value, d float64) Value {
	if v.kind == Scalar {
		return NewScalar(v.scalar * d)
	}

	return Value{kind: Matrix, matrix: v.matrix.Scaled(d)}
}
