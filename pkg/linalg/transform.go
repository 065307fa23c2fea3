package linalg

import (
	"math"

	wferr "github.com/tesserapp/wireframe/pkg/errors"
)

// =============================================================================
// Constructors
// =============================================================================

// Identity returns the dim-dimensional identity matrix.
func Identity(dim int) (*Matrix, error) {
	m, err := New(dim)
	if err != nil {
		return nil, err
	}
	m.LoadIdentity()
	return m, nil
}

// Rotation returns a rotation by phi radians in the plane spanned by axes a
// and b. Positive angles turn axis a toward axis b.
func Rotation(dim, a, b int, phi float64) (*Matrix, error) {
	m, err := New(dim)
	if err != nil {
		return nil, err
	}
	if err := m.LoadRotation(a, b, phi); err != nil {
		return nil, err
	}
	return m, nil
}

// Translation returns a translation by t; the matrix has t's dimension.
func Translation(t Vector) (*Matrix, error) {
	m, err := New(t.Dim())
	if err != nil {
		return nil, err
	}
	if err := m.LoadTranslation(t); err != nil {
		return nil, err
	}
	return m, nil
}

// Scale returns a matrix scaling each axis by the matching component of s.
func Scale(s Vector) (*Matrix, error) {
	m, err := New(s.Dim())
	if err != nil {
		return nil, err
	}
	if err := m.LoadScale(s); err != nil {
		return nil, err
	}
	return m, nil
}

// Perspective returns a dim-dimensional perspective projection with the
// given clip planes. See [Matrix.LoadPerspective].
func Perspective(dim int, near, far float64) (*Matrix, error) {
	m, err := New(dim)
	if err != nil {
		return nil, err
	}
	if err := m.LoadPerspective(near, far); err != nil {
		return nil, err
	}
	return m, nil
}

// LookAt returns a 3D view matrix for a camera at eye looking at target.
// See [Matrix.LoadLookAt].
func LookAt(eye, target, up Vector) (*Matrix, error) {
	m, err := New(3)
	if err != nil {
		return nil, err
	}
	if err := m.LoadLookAt(eye, target, up); err != nil {
		return nil, err
	}
	return m, nil
}

// =============================================================================
// In-place loaders
// =============================================================================

// LoadIdentity overwrites m with the identity.
func (m *Matrix) LoadIdentity() {
	clear(m.data)
	n := m.dim + 1
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}
}

// LoadRotation overwrites m with a rotation by phi in the (a, b) plane.
func (m *Matrix) LoadRotation(a, b int, phi float64) error {
	if a < 0 || b < 0 || a >= m.dim || b >= m.dim || a == b {
		return wferr.New(wferr.CodeInvalidRange, "rotation plane (%d,%d) invalid in %d dimensions", a, b, m.dim)
	}
	m.LoadIdentity()
	sin, cos := math.Sincos(phi)
	n := m.dim + 1
	m.data[a*n+a] = cos
	m.data[a*n+b] = sin
	m.data[b*n+a] = -sin
	m.data[b*n+b] = cos
	return nil
}

// LoadTranslation overwrites m with a translation by t.
func (m *Matrix) LoadTranslation(t Vector) error {
	if t.Dim() != m.dim {
		return wferr.New(wferr.CodeDimensionMismatch,
			"%dD translation for %dD matrix", t.Dim(), m.dim)
	}
	m.LoadIdentity()
	n := m.dim + 1
	copy(m.data[m.dim*n:], t)
	return nil
}

// LoadScale overwrites m with a per-axis scale by s.
func (m *Matrix) LoadScale(s Vector) error {
	if s.Dim() != m.dim {
		return wferr.New(wferr.CodeDimensionMismatch, "%dD scale for %dD matrix", s.Dim(), m.dim)
	}
	m.LoadIdentity()
	n := m.dim + 1
	for i, f := range s {
		m.data[i*n+i] = f
	}
	return nil
}

// LoadPerspective overwrites m with a perspective projection along the
// last spatial axis. The camera looks down the negative axis; a point at
// depth -near maps to 0 and a point at depth -far maps to 1 after the
// perspective divide. Requires 0 < near < far.
func (m *Matrix) LoadPerspective(near, far float64) error {
	if err := wferr.ValidateNearFar(near, far); err != nil {
		return err
	}
	m.LoadIdentity()
	n := m.dim + 1
	last := m.dim - 1
	m.data[last*n+m.dim] = -1
	m.data[m.dim*n+m.dim] = 0
	m.data[last*n+last] = -far / (far - near)
	m.data[m.dim*n+last] = -far * near / (far - near)
	return nil
}

// LoadLookAt overwrites m with a view matrix for a camera at eye looking
// at target, with up giving the approximate vertical. m and all vectors
// must be three-dimensional.
//
// The basis is forward = eye - target, right = up × forward and
// up' = forward × right; a collinear up and forward yields
// DEGENERATE_VECTOR.
func (m *Matrix) LoadLookAt(eye, target, up Vector) error {
	if m.dim != 3 || eye.Dim() != 3 || target.Dim() != 3 || up.Dim() != 3 {
		return wferr.New(wferr.CodeUnsupportedDimension, "look-at is only defined in three dimensions")
	}
	diff, _ := eye.Sub(target)
	forward, err := diff.Normalize()
	if err != nil {
		return wferr.Wrap(wferr.CodeDegenerateVector, err, "eye and target coincide")
	}
	side, _ := up.Cross(forward)
	right, err := side.Normalize()
	if err != nil {
		return wferr.Wrap(wferr.CodeDegenerateVector, err, "up vector is parallel to the view direction")
	}
	trueUp, _ := forward.Cross(right)

	m.LoadIdentity()
	n := m.dim + 1
	basis := [3]Vector{right, trueUp, forward}
	for c, axis := range basis {
		for r := 0; r < 3; r++ {
			m.data[r*n+c] = axis[r]
		}
		d, _ := eye.Dot(axis)
		m.data[3*n+c] = -d
	}
	return nil
}
