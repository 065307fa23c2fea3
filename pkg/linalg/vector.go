package linalg

import (
	"math"
	"strings"

	wferr "github.com/tesserapp/wireframe/pkg/errors"
)

// Vector is an ordered list of real components. Operations never modify
// their receiver; they return fresh vectors.
type Vector []float64

// Vec returns a vector holding the given components.
func Vec(components ...float64) Vector {
	return Vector(components)
}

// Zero returns the zero vector of dimension dim.
func Zero(dim int) Vector {
	return make(Vector, dim)
}

// Dim returns the number of components.
func (v Vector) Dim() int { return len(v) }

// Clone returns a copy of v.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Add returns v + o.
func (v Vector) Add(o Vector) (Vector, error) {
	if err := sameDim(v, o); err != nil {
		return nil, err
	}
	out := make(Vector, len(v))
	for i := range v {
		out[i] = v[i] + o[i]
	}
	return out, nil
}

// Sub returns v - o.
func (v Vector) Sub(o Vector) (Vector, error) {
	if err := sameDim(v, o); err != nil {
		return nil, err
	}
	out := make(Vector, len(v))
	for i := range v {
		out[i] = v[i] - o[i]
	}
	return out, nil
}

// Scale returns v multiplied by s.
func (v Vector) Scale(s float64) Vector {
	out := make(Vector, len(v))
	for i := range v {
		out[i] = v[i] * s
	}
	return out
}

// Negate returns -v.
func (v Vector) Negate() Vector { return v.Scale(-1) }

// Dot returns the scalar product of v and o.
func (v Vector) Dot(o Vector) (float64, error) {
	if err := sameDim(v, o); err != nil {
		return 0, err
	}
	var sum float64
	for i := range v {
		sum += v[i] * o[i]
	}
	return sum, nil
}

// Length returns the Euclidean norm of v.
func (v Vector) Length() float64 {
	var sum float64
	for _, c := range v {
		sum += c * c
	}
	return math.Sqrt(sum)
}

// Normalize returns v scaled to unit length. A zero-length (or non-finite)
// vector has no direction and yields DEGENERATE_VECTOR.
func (v Vector) Normalize() (Vector, error) {
	l := v.Length()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return nil, wferr.New(wferr.CodeDegenerateVector, "cannot normalize vector %s of length %g", v, l)
	}
	return v.Scale(1 / l), nil
}

// Cross returns the cross product v × o. Both vectors must be
// three-dimensional.
func (v Vector) Cross(o Vector) (Vector, error) {
	if len(v) != 3 || len(o) != 3 {
		return nil, wferr.New(wferr.CodeUnsupportedDimension,
			"cross product needs two 3D vectors (got %d and %d)", len(v), len(o))
	}
	return Vector{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}, nil
}

// Resize returns v truncated or zero-padded to dim components. It lifts 3D
// positions into 4D scenes and drops the fourth axis going the other way.
func (v Vector) Resize(dim int) Vector {
	out := make(Vector, dim)
	copy(out, v)
	return out
}

// Homogeneous multiplies [v, w] by m and returns the first D components of
// the result together with its last (w) component. No division happens.
func (v Vector) Homogeneous(m *Matrix, w float64) (Vector, float64, error) {
	if len(v) != m.dim {
		return nil, 0, wferr.New(wferr.CodeDimensionMismatch,
			"cannot apply %dD matrix to %dD vector", m.dim, len(v))
	}
	n := m.dim + 1
	out := make(Vector, m.dim)
	var outW float64
	for c := 0; c < n; c++ {
		sum := w * m.data[m.dim*n+c]
		for r := 0; r < m.dim; r++ {
			sum += v[r] * m.data[r*n+c]
		}
		if c < m.dim {
			out[c] = sum
		} else {
			outW = sum
		}
	}
	return out, outW, nil
}

// TransformPoint applies m to v as a point (w = 1) and divides by the
// resulting w. When that w is exactly zero the undivided components are
// returned instead, so points on the eye plane pass through unchanged.
func (v Vector) TransformPoint(m *Matrix) (Vector, error) {
	out, w, err := v.Homogeneous(m, 1)
	if err != nil {
		return nil, err
	}
	if w != 0 {
		for i := range out {
			out[i] /= w
		}
	}
	return out, nil
}

// TransformDirection applies m to v as a direction (w = 0), ignoring the
// translation row.
func (v Vector) TransformDirection(m *Matrix) (Vector, error) {
	out, _, err := v.Homogeneous(m, 0)
	return out, err
}

// ApproxEqual reports whether v and o have the same dimension and every
// component differs by at most eps.
func (v Vector) ApproxEqual(o Vector, eps float64) bool {
	if len(v) != len(o) {
		return false
	}
	for i := range v {
		if math.Abs(v[i]-o[i]) > eps {
			return false
		}
	}
	return true
}

// String formats v as "[ 1.00 -0.50  0.00]".
func (v Vector) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, c := range v {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(FormatNumber(c))
	}
	b.WriteByte(']')
	return b.String()
}

func sameDim(a, b Vector) error {
	if len(a) != len(b) {
		return wferr.New(wferr.CodeDimensionMismatch, "vector dimensions differ (%d vs %d)", len(a), len(b))
	}
	return nil
}
