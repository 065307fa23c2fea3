package geometry

import (
	"github.com/tesserapp/wireframe/pkg/color"
	wferr "github.com/tesserapp/wireframe/pkg/errors"
	"github.com/tesserapp/wireframe/pkg/linalg"
)

// GridExtent is the half-width of the grids built by [Geometry.Grid].
const GridExtent = 5

// point lifts x, y, z into the geometry's dimension.
func (g *Geometry) point(x, y, z float64) linalg.Vector {
	return linalg.Vec(x, y, z).Resize(g.dim)
}

// Quadrilateral adds the closed outline a-b-c-d.
func (g *Geometry) Quadrilateral(a, b, c, d linalg.Vector, col color.Symbol) error {
	return g.Batch(func() error {
		first := len(g.positions)
		for _, p := range []linalg.Vector{a, b, c, d} {
			if _, err := g.AddPosition(p); err != nil {
				return err
			}
		}
		for i := 0; i < 4; i++ {
			if err := g.AddLine(first+i, first+(i+1)%4, col); err != nil {
				return err
			}
		}
		return nil
	})
}

// Axis adds unit-length lines along X, Y and Z from the origin.
func (g *Geometry) Axis(x, y, z color.Symbol) error {
	return g.Batch(func() error {
		o := g.point(0, 0, 0)
		if err := g.Segment(o, g.point(1, 0, 0), x); err != nil {
			return err
		}
		if err := g.Segment(o, g.point(0, 1, 0), y); err != nil {
			return err
		}
		return g.Segment(o, g.point(0, 0, 1), z)
	})
}

// Grid adds a unit grid on the XZ plane spanning ±GridExtent.
func (g *Geometry) Grid() error {
	return g.Batch(func() error {
		const e = GridExtent
		for i := -e; i <= e; i++ {
			f := float64(i)
			if err := g.Segment(g.point(f, 0, -e), g.point(f, 0, e), ""); err != nil {
				return err
			}
			if err := g.Segment(g.point(-e, 0, f), g.point(e, 0, f), ""); err != nil {
				return err
			}
		}
		return nil
	})
}

// GridOmitAxisIndicator adds the same grid as [Geometry.Grid] but leaves
// out the unit segments along positive X and Z, where an axis geometry is
// drawn.
func (g *Geometry) GridOmitAxisIndicator() error {
	return g.Batch(func() error {
		const e = GridExtent
		for i := -e; i <= e; i++ {
			if i == 0 {
				continue
			}
			f := float64(i)
			if err := g.Segment(g.point(f, 0, -e), g.point(f, 0, e), ""); err != nil {
				return err
			}
			if err := g.Segment(g.point(-e, 0, f), g.point(e, 0, f), ""); err != nil {
				return err
			}
		}
		centre := [][2]linalg.Vector{
			{g.point(-e, 0, 0), g.point(0, 0, 0)},
			{g.point(1, 0, 0), g.point(e, 0, 0)},
			{g.point(0, 0, -e), g.point(0, 0, 0)},
			{g.point(0, 0, 1), g.point(0, 0, e)},
		}
		for _, s := range centre {
			if err := g.Segment(s[0], s[1], ""); err != nil {
				return err
			}
		}
		return nil
	})
}

// Cube adds an axis-aligned cube with edge length size centred on the
// origin, built by extruding a square along Z. Positions and lines already
// in the geometry are left alone.
func (g *Geometry) Cube(size float64) error {
	if err := wferr.ValidatePositive("cube size", size); err != nil {
		return err
	}
	h := size / 2
	return g.Batch(func() error {
		firstPosition, firstLine := len(g.positions), len(g.lines)
		err := g.Quadrilateral(
			g.point(h, h, h), g.point(-h, h, h), g.point(-h, -h, h), g.point(h, -h, h), "")
		if err != nil {
			return err
		}
		return g.extrude(firstPosition, firstLine, g.point(0, 0, -size), true, "")
	})
}

// Tesseract adds a four-dimensional hypercube with edge length size,
// centred on the origin: a cube extruded along Q.
func (g *Geometry) Tesseract(size float64) error {
	if g.dim < 4 {
		return wferr.New(wferr.CodeUnsupportedDimension, "geometry %q is 3D and cannot hold a tesseract", g.name)
	}
	return g.Batch(func() error {
		firstPosition, firstLine := len(g.positions), len(g.lines)
		if err := g.Cube(size); err != nil {
			return err
		}
		// Centre the cube on q = 0 before extruding.
		for i := firstPosition; i < len(g.positions); i++ {
			g.positions[i][AxisQ] = -size / 2
		}
		return g.extrude(firstPosition, firstLine, linalg.Vec(0, 0, 0, size), true, "")
	})
}
