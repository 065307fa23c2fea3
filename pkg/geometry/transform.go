package geometry

import (
	"github.com/tesserapp/wireframe/pkg/arena"
	wferr "github.com/tesserapp/wireframe/pkg/errors"
	"github.com/tesserapp/wireframe/pkg/linalg"
)

// Plane names a rotation plane.
type Plane int

const (
	PlaneX Plane = iota // YZ plane, rotation about the X axis
	PlaneY              // ZX plane, rotation about the Y axis
	PlaneZ              // XY plane, rotation about the Z axis
	PlaneQ              // QX plane (q turns toward x), four dimensions only
)

// Planes lists all rotation planes in composition order.
var Planes = []Plane{PlaneX, PlaneY, PlaneZ, PlaneQ}

// Axes returns the plane's axis pair (a, b); positive angles turn a toward b.
func (p Plane) Axes() (a, b int) {
	switch p {
	case PlaneX:
		return 1, 2
	case PlaneY:
		return 2, 0
	case PlaneZ:
		return 0, 1
	default:
		return 3, 0
	}
}

func (p Plane) String() string {
	switch p {
	case PlaneX:
		return "x"
	case PlaneY:
		return "y"
	case PlaneZ:
		return "z"
	case PlaneQ:
		return "q"
	default:
		return "invalid"
	}
}

// Translation axes.
const (
	AxisX = 0
	AxisY = 1
	AxisZ = 2
	AxisQ = 3
)

// Rotation holds one angle in radians per plane.
type Rotation struct {
	X, Y, Z, Q float64
}

// Angle returns the angle of plane p.
func (r Rotation) Angle(p Plane) float64 {
	switch p {
	case PlaneX:
		return r.X
	case PlaneY:
		return r.Y
	case PlaneZ:
		return r.Z
	default:
		return r.Q
	}
}

func (r *Rotation) set(p Plane, v float64) {
	switch p {
	case PlaneX:
		r.X = v
	case PlaneY:
		r.Y = v
	case PlaneZ:
		r.Z = v
	default:
		r.Q = v
	}
}

// Slots of the private working space.
const (
	slotLocal = iota
	slotRotation
	slotRotX
	slotRotY
	slotRotZ
	slotRotQ
	slotRotZQ
	slotRotYZQ
	slotTranslation

	localSlots
)

// Register allocates the geometry's model matrix in buf and its working
// matrices in a private buffer of the same dimension. buf must be at least
// as high-dimensional as the geometry.
func (g *Geometry) Register(buf *arena.Buffer) error {
	if g.Registered() {
		return wferr.New(wferr.CodeAlreadyRegistered, "geometry %q is already registered", g.name)
	}
	if g.dim > buf.Dim() {
		return wferr.New(wferr.CodeDimensionMismatch,
			"geometry %q is %dD but the matrix buffer is %dD", g.name, g.dim, buf.Dim())
	}
	global, err := buf.Allocate(1)
	if err != nil {
		return err
	}
	local, err := arena.New(buf.Dim(), localSlots)
	if err != nil {
		_ = buf.Release(global)
		return err
	}
	work, err := local.Allocate(localSlots)
	if err != nil {
		_ = buf.Release(global)
		return err
	}
	if err := buf.LoadIdentity(global, 0); err != nil {
		_ = buf.Release(global)
		return err
	}
	g.shared, g.global = buf, global
	g.local, g.work = local, work
	return nil
}

// Unregister releases the geometry's matrices. Parent and child links are
// left untouched.
func (g *Geometry) Unregister() error {
	if err := g.requireRegistered(); err != nil {
		return err
	}
	if err := g.shared.Release(g.global); err != nil {
		return err
	}
	g.shared, g.global = nil, arena.MemorySpace{}
	g.local, g.work = nil, arena.MemorySpace{}
	return nil
}

// Registered reports whether the geometry holds a model matrix.
func (g *Geometry) Registered() bool {
	return g.shared != nil && g.global.Valid()
}

// ModelIndex returns the slot of the geometry's model matrix in the shared
// buffer.
func (g *Geometry) ModelIndex() (int, error) {
	if err := g.requireRegistered(); err != nil {
		return 0, err
	}
	return g.global.Offset(), nil
}

// GlobalMatrix returns a copy of the model matrix as last computed.
func (g *Geometry) GlobalMatrix() (*linalg.Matrix, error) {
	if err := g.requireRegistered(); err != nil {
		return nil, err
	}
	return g.shared.Read(g.global, 0)
}

// LocalMatrix returns a copy of the local transform as last computed.
func (g *Geometry) LocalMatrix() (*linalg.Matrix, error) {
	if err := g.requireRegistered(); err != nil {
		return nil, err
	}
	return g.local.Read(g.work, slotLocal)
}

// Rotation returns the current rotation angles.
func (g *Geometry) Rotation() Rotation { return g.rotation }

// Translation returns a copy of the current translation.
func (g *Geometry) Translation() linalg.Vector { return g.translation.Clone() }

// SetRotation sets the angle of plane p in radians.
func (g *Geometry) SetRotation(p Plane, angle float64) error {
	if err := g.requireRegistered(); err != nil {
		return err
	}
	if p < PlaneX || p > PlaneQ {
		return wferr.New(wferr.CodeInvalidRange, "unknown rotation plane %d", int(p))
	}
	if p == PlaneQ && g.dim < 4 {
		return wferr.New(wferr.CodeUnsupportedDimension, "geometry %q is 3D and has no q rotation", g.name)
	}
	if g.rotation.Angle(p) == angle {
		return nil
	}
	g.rotation.set(p, angle)
	g.events.Raise(TransformChanged)
	return nil
}

// Rotate adds delta radians to the angle of plane p.
func (g *Geometry) Rotate(p Plane, delta float64) error {
	return g.SetRotation(p, g.rotation.Angle(p)+delta)
}

// SetTranslation sets the translation along axis.
func (g *Geometry) SetTranslation(axis int, v float64) error {
	if err := g.requireRegistered(); err != nil {
		return err
	}
	if axis < 0 || axis >= g.dim {
		return wferr.New(wferr.CodeUnsupportedDimension, "geometry %q is %dD and has no axis %d", g.name, g.dim, axis)
	}
	if g.translation[axis] == v {
		return nil
	}
	g.translation[axis] = v
	g.events.Raise(TransformChanged)
	return nil
}

// Translate moves the geometry by delta along axis.
func (g *Geometry) Translate(axis int, delta float64) error {
	var cur float64
	if axis >= 0 && axis < g.dim {
		cur = g.translation[axis]
	}
	return g.SetTranslation(axis, cur+delta)
}

// SetTranslationVector replaces the whole translation.
func (g *Geometry) SetTranslationVector(t linalg.Vector) error {
	if t.Dim() != g.dim {
		return wferr.New(wferr.CodeDimensionMismatch, "geometry %q is %dD, translation is %dD", g.name, g.dim, t.Dim())
	}
	return g.Batch(func() error {
		for axis, v := range t {
			if err := g.SetTranslation(axis, v); err != nil {
				return err
			}
		}
		return nil
	})
}

// ComputeModelMatrix rebuilds the local transform from the current angles
// and translation and combines it with the parent's model matrix. Parents
// must be computed before their children.
func (g *Geometry) ComputeModelMatrix() error {
	if err := g.requireRegistered(); err != nil {
		return err
	}
	buf, ws := g.local, g.work
	dim := buf.Dim()

	rotSlots := [...]int{slotRotX, slotRotY, slotRotZ, slotRotQ}
	for i, p := range Planes {
		a, b := p.Axes()
		if a >= dim || b >= dim {
			if err := buf.LoadIdentity(ws, rotSlots[i]); err != nil {
				return err
			}
			continue
		}
		if err := buf.LoadRotation(ws, rotSlots[i], a, b, g.rotation.Angle(p)); err != nil {
			return err
		}
	}

	steps := []struct{ dst, lhs, rhs int }{
		{slotRotZQ, slotRotZ, slotRotQ},
		{slotRotYZQ, slotRotY, slotRotZQ},
		{slotRotation, slotRotX, slotRotYZQ},
	}
	for _, s := range steps {
		if err := buf.Multiply(ws, s.dst, ws, s.lhs, ws, s.rhs); err != nil {
			return err
		}
	}
	if err := buf.LoadTranslation(ws, slotTranslation, g.translation.Resize(dim)); err != nil {
		return err
	}
	if err := buf.Multiply(ws, slotLocal, ws, slotRotation, ws, slotTranslation); err != nil {
		return err
	}

	if g.parent == nil {
		return g.shared.Copy(g.global, 0, ws, slotLocal)
	}
	if !g.parent.Registered() {
		return wferr.New(wferr.CodeNotRegistered, "parent %q of geometry %q is not registered", g.parent.name, g.name)
	}
	return g.shared.Multiply(g.global, 0, ws, slotLocal, g.parent.global, 0)
}

func (g *Geometry) requireRegistered() error {
	if !g.Registered() {
		return wferr.New(wferr.CodeNotRegistered, "geometry %q is not registered", g.name)
	}
	return nil
}
