// Dense is a concrete, row-major backing matrix for the Value type,
// storing elements in a flat slice for performance and cache friendliness.

package dualval

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// denseErrorf wraps an underlying error with Dense method context.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a row-major matrix of float64 values.
// r is rows, c is columns, and data holds r*c elements in row-major order.
type Dense struct {
	r, c int       // number of rows and columns
	data []float64 // flat backing storage, length == r*c
}

// NewDense creates an r×c Dense matrix initialized to zeros.
// Stage 1 (Validate): ensure rows and cols > 0.
// Stage 2 (Prepare): allocate flat backing slice.
// Stage 3 (Finalize): return new Dense or ErrBadShape.
// Complexity: O(r*c) time and memory.
func NewDense(rows, cols int) (*Dense, error) {
	// Validate dimensions
	if rows <= 0 || cols <= 0 {
		return nil, ErrBadShape
	}
	// Allocate flat slice
	data := make([]float64, rows*cols)

	// Return initialized Dense
	return &Dense{r: rows, c: cols, data: data}, nil
}

// NewDenseVector creates a column vector (len(vals)×1) holding a copy of vals.
// Returns ErrBadShape when vals is empty.
// Complexity: O(n) time and memory.
func NewDenseVector(vals []float64) (*Dense, error) {
	if len(vals) == 0 {
		return nil, ErrBadShape
	}
	data := make([]float64, len(vals))
	copy(data, vals)

	return &Dense{r: len(vals), c: 1, data: data}, nil
}

// Rows returns the number of rows in the matrix. Complexity: O(1).
func (m *Dense) Rows() int { return m.r }

// Cols returns the number of columns in the matrix. Complexity: O(1).
func (m *Dense) Cols() int { return m.c }

// Size returns the total number of coefficients (rows*cols). Complexity: O(1).
func (m *Dense) Size() int { return len(m.data) }

// indexOf computes the flat index for (row, col) or returns ErrOutOfRange.
// Complexity: O(1).
func (m *Dense) indexOf(method string, row, col int) (int, error) {
	// Validate row index
	if row < 0 || row >= m.r {
		return 0, denseErrorf(method, row, col, ErrOutOfRange)
	}
	// Validate column index
	if col < 0 || col >= m.c {
		return 0, denseErrorf(method, row, col, ErrOutOfRange)
	}

	// Compute flat offset
	return row*m.c + col, nil
}

// At retrieves the element at (row, col), or ErrOutOfRange. Complexity: O(1).
func (m *Dense) At(row, col int) (float64, error) {
	idx, err := m.indexOf("At", row, col)
	if err != nil {
		return 0, err
	}

	return m.data[idx], nil
}

// Set assigns value v at (row, col), or returns ErrOutOfRange. Complexity: O(1).
func (m *Dense) Set(row, col int, v float64) error {
	idx, err := m.indexOf("Set", row, col)
	if err != nil {
		return err
	}
	m.data[idx] = v

	return nil
}

// Coeff retrieves the i-th coefficient in storage (row-major) order.
// Returns ErrOutOfRange when i is outside [0, Size). Complexity: O(1).
func (m *Dense) Coeff(i int) (float64, error) {
	if i < 0 || i >= len(m.data) {
		return 0, denseErrorf("Coeff", i, 0, ErrOutOfRange)
	}

	return m.data[i], nil
}

// SetCoeff assigns value v to the i-th coefficient in storage order.
// Returns ErrOutOfRange when i is outside [0, Size). Complexity: O(1).
func (m *Dense) SetCoeff(i int, v float64) error {
	if i < 0 || i >= len(m.data) {
		return denseErrorf("SetCoeff", i, 0, ErrOutOfRange)
	}
	m.data[i] = v

	return nil
}

// Sum returns the sum of all coefficients. Complexity: O(r*c).
func (m *Dense) Sum() float64 {
	return floats.Sum(m.data)
}

// Array exposes the flat backing slice as a live view: writes through the
// returned slice are visible in the matrix. Callers that need an independent
// copy must Clone first. Complexity: O(1).
func (m *Dense) Array() []float64 {
	return m.data
}

// Clone returns a deep copy of the Dense matrix.
// Complexity: O(r*c) time and memory for copy.
func (m *Dense) Clone() *Dense {
	copyData := make([]float64, len(m.data))
	copy(copyData, m.data)

	return &Dense{r: m.r, c: m.c, data: copyData}
}

// Scaled returns a new matrix with every coefficient multiplied by d.
// Complexity: O(r*c).
func (m *Dense) Scaled(d float64) *Dense {
	out := m.Clone()
	floats.Scale(d, out.data)

	return out
}

// addAssign adds other into m elementwise, or returns ErrShapeMismatch.
// Complexity: O(r*c).
func (m *Dense) addAssign(other *Dense) error {
	if m.r != other.r || m.c != other.c {
		return denseErrorf("AddAssign", other.r, other.c, ErrShapeMismatch)
	}
	floats.Add(m.data, other.data)

	return nil
}

// subAssign subtracts other from m elementwise, or returns ErrShapeMismatch.
// Complexity: O(r*c).
func (m *Dense) subAssign(other *Dense) error {
	if m.r != other.r || m.c != other.c {
		return denseErrorf("SubAssign", other.r, other.c, ErrShapeMismatch)
	}
	floats.Sub(m.data, other.data)

	return nil
}

// product returns the matrix product m·other (m.r × other.c), or
// ErrShapeMismatch when m.Cols != other.Rows.
// Complexity: O(r*c*k) time, O(r*c) memory.
func (m *Dense) product(other *Dense) (*Dense, error) {
	if m.c != other.r {
		return nil, denseErrorf("Mul", other.r, other.c, ErrShapeMismatch)
	}
	out := &Dense{r: m.r, c: other.c, data: make([]float64, m.r*other.c)}

	var i, j, k int
	for i = 0; i < m.r; i++ { // iterate over result rows
		for k = 0; k < m.c; k++ { // iterate over the shared dimension
			v := m.data[i*m.c+k]
			if v == 0 {
				continue
			}
			for j = 0; j < other.c; j++ { // accumulate into the result row
				out.data[i*other.c+j] += v * other.data[k*other.c+j]
			}
		}
	}

	return out, nil
}

// setZero resizes m to rows×cols and zeroes every coefficient.
// Complexity: O(r*c).
func (m *Dense) setZero(rows, cols int) error {
	if rows <= 0 || cols <= 0 {
		return ErrBadShape
	}
	if len(m.data) != rows*cols {
		m.data = make([]float64, rows*cols)
	} else {
		for i := range m.data {
			m.data[i] = 0
		}
	}
	m.r, m.c = rows, cols

	return nil
}

// equal reports elementwise equality of shape and coefficients.
// Complexity: O(r*c).
func (m *Dense) equal(other *Dense) bool {
	if m.r != other.r || m.c != other.c {
		return false
	}
	return floats.Equal(m.data, other.data)
}

// String implements fmt.Stringer for easy debugging.
// Complexity: O(r*c) for string construction.
func (m *Dense) String() string {
	var s string
	var i, j int
	for i = 0; i < m.r; i++ { // iterate over rows
		s += "["                  // open row
		for j = 0; j < m.c; j++ { // iterate over columns
			s += fmt.Sprintf("%g", m.data[i*m.c+j])
			if j < m.c-1 {
				s += ", " // separate values with comma
			}
		}
		s += "]\n" // close row
	}

	return s
}
