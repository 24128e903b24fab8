// Value: the tagged scalar|matrix union and its accessors.
// Arithmetic between values lives in ops.go; the dense backing store in dense.go.

package dualval

import "fmt"

// Kind identifies the active alternative of a Value.
type Kind uint8

const (
	// Scalar marks a Value holding a single real number.
	Scalar Kind = iota

	// Matrix marks a Value holding a dense real matrix.
	Matrix
)

// String implements fmt.Stringer for Kind.
func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Matrix:
		return "matrix"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value holds exactly one of {scalar real, dense real matrix}; the active
// alternative is never ambiguous and only changes through whole-value
// assignment (Set, SetScalar, SetMatrix) or SetZero, which forces the matrix
// alternative. The zero Value is the scalar 0.
//
// A Value owns its matrix: constructors and assignment deep-copy the supplied
// Dense, so two Values never alias the same storage. Matrix and Array expose
// live views into the owned storage for in-place numeric kernels.
type Value struct {
	kind   Kind
	scalar float64
	matrix *Dense
}

// NewScalar constructs a Value holding the scalar d. Complexity: O(1).
func NewScalar(d float64) Value {
	return Value{kind: Scalar, scalar: d}
}

// NewMatrix constructs a Value holding a deep copy of m.
// Returns ErrNilMatrix when m is nil. Complexity: O(r*c).
func NewMatrix(m *Dense) (Value, error) {
	if m == nil {
		return Value{}, ErrNilMatrix
	}

	return Value{kind: Matrix, matrix: m.Clone()}, nil
}

// NewVector constructs a Value holding a len(vals)×1 column vector copy of vals.
// Returns ErrBadShape when vals is empty. Complexity: O(n).
func NewVector(vals []float64) (Value, error) {
	m, err := NewDenseVector(vals)
	if err != nil {
		return Value{}, err
	}

	return Value{kind: Matrix, matrix: m}, nil
}

// Kind returns the active alternative. Complexity: O(1).
func (v *Value) Kind() Kind { return v.kind }

// IsScalar reports whether the scalar alternative is active. Complexity: O(1).
func (v *Value) IsScalar() bool { return v.kind == Scalar }

// IsMatrix reports whether the matrix alternative is active. Complexity: O(1).
func (v *Value) IsMatrix() bool { return v.kind == Matrix }

// Scalar returns the held scalar, or ErrNotScalar when the matrix alternative
// is active. Complexity: O(1).
func (v *Value) Scalar() (float64, error) {
	if v.kind != Scalar {
		return 0, ErrNotScalar
	}

	return v.scalar, nil
}

// Matrix returns a live view of the held matrix, or ErrNotMatrix when the
// scalar alternative is active. Mutations through the view are visible in the
// Value. Complexity: O(1).
func (v *Value) Matrix() (*Dense, error) {
	if v.kind != Matrix {
		return nil, ErrNotMatrix
	}

	return v.matrix, nil
}

// SetScalar assigns the scalar d, switching the active alternative to scalar.
// Complexity: O(1).
func (v *Value) SetScalar(d float64) {
	v.kind = Scalar
	v.scalar = d
	v.matrix = nil
}

// SetMatrix assigns a deep copy of m, switching the active alternative to
// matrix. Returns ErrNilMatrix when m is nil. Complexity: O(r*c).
func (v *Value) SetMatrix(m *Dense) error {
	if m == nil {
		return ErrNilMatrix
	}
	v.kind = Matrix
	v.matrix = m.Clone()
	v.scalar = 0

	return nil
}

// Set assigns the whole value w, switching the active alternative to match
// the source. Matrix contents are deep-copied. Complexity: O(r*c).
func (v *Value) Set(w Value) {
	if w.kind == Matrix {
		v.kind = Matrix
		v.matrix = w.matrix.Clone()
		v.scalar = 0
		return
	}
	v.SetScalar(w.scalar)
}

// Clone returns an independent deep copy of v. Complexity: O(r*c).
func (v *Value) Clone() Value {
	out := Value{kind: v.kind, scalar: v.scalar}
	if v.matrix != nil {
		out.matrix = v.matrix.Clone()
	}

	return out
}

// SetZero resizes the value to a rows×cols zero matrix, unconditionally
// forcing the active alternative to matrix (converting a scalar-holding
// value) before zeroing. Returns ErrBadShape for non-positive dimensions.
// Complexity: O(r*c).
func (v *Value) SetZero(rows, cols int) error {
	if v.kind != Matrix || v.matrix == nil {
		m, err := NewDense(rows, cols)
		if err != nil {
			return err
		}
		v.kind = Matrix
		v.matrix = m
		v.scalar = 0
		return nil
	}

	return v.matrix.setZero(rows, cols)
}

// Coeff returns the i-th coefficient (storage order) of the held matrix.
// Returns ErrNotMatrix when the scalar alternative is active. Complexity: O(1).
func (v *Value) Coeff(i int) (float64, error) {
	if v.kind != Matrix {
		return 0, fmt.Errorf("Value.Coeff(%d): %w", i, ErrNotMatrix)
	}

	return v.matrix.Coeff(i)
}

// SetCoeff assigns the i-th coefficient (storage order) of the held matrix.
// Returns ErrNotMatrix when the scalar alternative is active. Complexity: O(1).
func (v *Value) SetCoeff(i int, d float64) error {
	if v.kind != Matrix {
		return fmt.Errorf("Value.SetCoeff(%d): %w", i, ErrNotMatrix)
	}

	return v.matrix.SetCoeff(i, d)
}

// At returns the coefficient at (row, col) of the held matrix.
// Returns ErrNotMatrix when the scalar alternative is active. Complexity: O(1).
func (v *Value) At(row, col int) (float64, error) {
	if v.kind != Matrix {
		return 0, fmt.Errorf("Value.At(%d,%d): %w", row, col, ErrNotMatrix)
	}

	return v.matrix.At(row, col)
}

// SetAt assigns the coefficient at (row, col) of the held matrix.
// Returns ErrNotMatrix when the scalar alternative is active. Complexity: O(1).
func (v *Value) SetAt(row, col int, d float64) error {
	if v.kind != Matrix {
		return fmt.Errorf("Value.SetAt(%d,%d): %w", row, col, ErrNotMatrix)
	}

	return v.matrix.Set(row, col, d)
}

// Sum returns the sum of all coefficients of the held matrix.
// Returns ErrNotMatrix when the scalar alternative is active. Complexity: O(r*c).
func (v *Value) Sum() (float64, error) {
	if v.kind != Matrix {
		return 0, fmt.Errorf("Value.Sum: %w", ErrNotMatrix)
	}

	return v.matrix.Sum(), nil
}

// Array returns a live view of the held matrix's flat storage.
// Returns ErrNotMatrix when the scalar alternative is active. Complexity: O(1).
func (v *Value) Array() ([]float64, error) {
	if v.kind != Matrix {
		return nil, fmt.Errorf("Value.Array: %w", ErrNotMatrix)
	}

	return v.matrix.Array(), nil
}

// Size returns the coefficient count of the held matrix.
// Returns ErrNotMatrix when the scalar alternative is active. Complexity: O(1).
func (v *Value) Size() (int, error) {
	if v.kind != Matrix {
		return 0, fmt.Errorf("Value.Size: %w", ErrNotMatrix)
	}

	return v.matrix.Size(), nil
}

// Equal reports whether v and w hold the same alternative with equal contents.
// Complexity: O(r*c).
func (v *Value) Equal(w Value) bool {
	if v.kind != w.kind {
		return false
	}
	if v.kind == Scalar {
		return v.scalar == w.scalar
	}

	return v.matrix.equal(w.matrix)
}

// String implements fmt.Stringer for easy debugging.
func (v *Value) String() string {
	if v.kind == Scalar {
		return fmt.Sprintf("%g", v.scalar)
	}

	return v.matrix.String()
}
