package linalg

import (
	"gonum.org/v1/gonum/mat"

	wferr "github.com/tesserapp/wireframe/pkg/errors"
)

// Inverse returns m⁻¹. Singular or numerically ill-conditioned matrices
// yield SINGULAR_MATRIX.
func (m *Matrix) Inverse() (*Matrix, error) {
	n := m.dim + 1
	data := make([]float64, len(m.data))
	copy(data, m.data)

	var inv mat.Dense
	if err := inv.Inverse(mat.NewDense(n, n, data)); err != nil {
		return nil, wferr.Wrap(wferr.CodeSingularMatrix, err, "cannot invert %dD matrix", m.dim)
	}

	out := &Matrix{dim: m.dim, data: make([]float64, len(m.data))}
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			out.data[r*n+c] = inv.At(r, c)
		}
	}
	return out, nil
}
