package linalg

import (
	"math"
	"strings"

	wferr "github.com/tesserapp/wireframe/pkg/errors"
)

// MaxDim is the largest matrix dimension the package accepts.
const MaxDim = 8

const maxCells = (MaxDim + 1) * (MaxDim + 1)

// Matrix is a homogeneous (D+1)×(D+1) transform stored row-major.
//
// A Matrix either owns its storage or is a [View] over a slice owned by
// someone else (typically an arena slot). Writes through a view land in the
// underlying slice.
type Matrix struct {
	dim  int
	data []float64
}

// Cells returns the number of floats a dim-dimensional matrix occupies.
func Cells(dim int) int {
	return (dim + 1) * (dim + 1)
}

// New returns a zero matrix of the given dimension.
func New(dim int) (*Matrix, error) {
	if err := checkDim(dim); err != nil {
		return nil, err
	}
	return &Matrix{dim: dim, data: make([]float64, Cells(dim))}, nil
}

// View wraps data as a dim-dimensional matrix without copying. data must
// hold exactly Cells(dim) floats.
func View(dim int, data []float64) (*Matrix, error) {
	if err := checkDim(dim); err != nil {
		return nil, err
	}
	if len(data) != Cells(dim) {
		return nil, wferr.New(wferr.CodeDimensionMismatch,
			"%dD matrix needs %d cells, got %d", dim, Cells(dim), len(data))
	}
	return &Matrix{dim: dim, data: data}, nil
}

// FromRows builds a matrix from (D+1) rows of (D+1) values each.
func FromRows(rows ...[]float64) (*Matrix, error) {
	m, err := New(len(rows) - 1)
	if err != nil {
		return nil, err
	}
	n := len(rows)
	for r, row := range rows {
		if len(row) != n {
			return nil, wferr.New(wferr.CodeDimensionMismatch, "row %d has %d values, want %d", r, len(row), n)
		}
		copy(m.data[r*n:], row)
	}
	return m, nil
}

// Dim returns the spatial dimension D.
func (m *Matrix) Dim() int { return m.dim }

// Size returns the number of rows (and columns), D+1.
func (m *Matrix) Size() int { return m.dim + 1 }

// At returns the cell at row r, column c.
func (m *Matrix) At(r, c int) float64 {
	m.checkCell(r, c)
	return m.data[r*(m.dim+1)+c]
}

// Set assigns the cell at row r, column c.
func (m *Matrix) Set(r, c int, v float64) {
	m.checkCell(r, c)
	m.data[r*(m.dim+1)+c] = v
}

// Data returns the backing row-major slice. For views this is the caller's
// storage.
func (m *Matrix) Data() []float64 { return m.data }

// Clone returns a matrix owning a copy of m's cells.
func (m *Matrix) Clone() *Matrix {
	data := make([]float64, len(m.data))
	copy(data, m.data)
	return &Matrix{dim: m.dim, data: data}
}

// CopyFrom overwrites m's cells with src's.
func (m *Matrix) CopyFrom(src *Matrix) error {
	if src.dim != m.dim {
		return dimMismatch(m.dim, src.dim)
	}
	copy(m.data, src.data)
	return nil
}

// Mul returns m · rhs.
func (m *Matrix) Mul(rhs *Matrix) (*Matrix, error) {
	out, err := New(m.dim)
	if err != nil {
		return nil, err
	}
	if err := MulTo(out, m, rhs); err != nil {
		return nil, err
	}
	return out, nil
}

// MulTo stores lhs · rhs into dst. dst may share storage with either
// operand.
func MulTo(dst, lhs, rhs *Matrix) error {
	if lhs.dim != rhs.dim {
		return dimMismatch(lhs.dim, rhs.dim)
	}
	if dst.dim != lhs.dim {
		return dimMismatch(dst.dim, lhs.dim)
	}
	n := lhs.dim + 1

	var stack [maxCells]float64
	tmp := stack[:n*n]
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			var sum float64
			for k := 0; k < n; k++ {
				sum += lhs.data[r*n+k] * rhs.data[k*n+c]
			}
			tmp[r*n+c] = sum
		}
	}
	copy(dst.data, tmp)
	return nil
}

// Transpose returns mᵀ.
func (m *Matrix) Transpose() *Matrix {
	n := m.dim + 1
	out := &Matrix{dim: m.dim, data: make([]float64, len(m.data))}
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			out.data[c*n+r] = m.data[r*n+c]
		}
	}
	return out
}

// ApproxEqual reports whether o has the same dimension and every cell
// differs from m's by at most eps.
func (m *Matrix) ApproxEqual(o *Matrix, eps float64) bool {
	if m.dim != o.dim {
		return false
	}
	for i := range m.data {
		if math.Abs(m.data[i]-o.data[i]) > eps {
			return false
		}
	}
	return true
}

// String formats m one row per line.
func (m *Matrix) String() string {
	n := m.dim + 1
	rows := make([]string, n)
	for r := 0; r < n; r++ {
		rows[r] = Vector(m.data[r*n : (r+1)*n]).String()
	}
	return strings.Join(rows, "\n")
}

func (m *Matrix) checkCell(r, c int) {
	n := m.dim + 1
	if r < 0 || r >= n || c < 0 || c >= n {
		panic("linalg: matrix index out of range")
	}
}

func checkDim(dim int) error {
	if dim < 1 || dim > MaxDim {
		return wferr.New(wferr.CodeUnsupportedDimension, "matrix dimension %d outside 1..%d", dim, MaxDim)
	}
	return nil
}

func dimMismatch(a, b int) error {
	return wferr.New(wferr.CodeDimensionMismatch, "matrix dimensions differ (%d vs %d)", a, b)
}
