package geometry

import (
	"github.com/google/uuid"

	"github.com/tesserapp/wireframe/pkg/arena"
	"github.com/tesserapp/wireframe/pkg/color"
	wferr "github.com/tesserapp/wireframe/pkg/errors"
	"github.com/tesserapp/wireframe/pkg/linalg"
)

// Line connects two positions of a geometry by index.
type Line struct {
	From  int
	To    int
	Color color.Symbol
}

// Vertex is one resolved line endpoint: a position in the geometry's own
// coordinates, the line's color and the geometry's model-matrix slot.
type Vertex struct {
	Position   linalg.Vector
	Color      color.Symbol
	ModelIndex int
}

// Option configures a [Geometry].
type Option func(*Geometry)

// WithColor sets the base color new lines get by default.
func WithColor(c color.Symbol) Option {
	return func(g *Geometry) { g.baseColor = c }
}

// WithNotifier makes the geometry report changes through n instead of a
// private notifier.
func WithNotifier(n *Notifier) Option {
	return func(g *Geometry) {
		if n != nil {
			g.events = n
		}
	}
}

// Geometry is a named wireframe object. See the package documentation for
// its lifecycle.
type Geometry struct {
	id        uuid.UUID
	name      string
	dim       int
	baseColor color.Symbol

	positions []linalg.Vector
	lines     []Line

	rotation    Rotation
	translation linalg.Vector

	parent   *Geometry
	children []*Geometry

	shared *arena.Buffer
	global arena.MemorySpace
	local  *arena.Buffer
	work   arena.MemorySpace

	events *Notifier
}

// New returns an empty geometry of dimension 3 or 4.
func New(name string, dim int, opts ...Option) (*Geometry, error) {
	if dim != 3 && dim != 4 {
		return nil, wferr.New(wferr.CodeUnsupportedDimension, "geometry %q: dimension must be 3 or 4 (got %d)", name, dim)
	}
	g := &Geometry{
		id:          uuid.New(),
		name:        name,
		dim:         dim,
		baseColor:   color.Primary,
		translation: linalg.Zero(dim),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.events == nil {
		g.events = NewNotifier()
	}
	return g, nil
}

// ID returns the geometry's unique identifier. Names need not be unique.
func (g *Geometry) ID() uuid.UUID { return g.id }

// Name returns the display name.
func (g *Geometry) Name() string { return g.name }

func (g *Geometry) String() string { return g.name }

// Dim returns 3 or 4.
func (g *Geometry) Dim() int { return g.dim }

// FourDimensional reports whether the geometry lives in four dimensions.
func (g *Geometry) FourDimensional() bool { return g.dim == 4 }

// BaseColor returns the color new lines get by default.
func (g *Geometry) BaseColor() color.Symbol { return g.baseColor }

// Events returns the notifier the geometry reports through.
func (g *Geometry) Events() *Notifier { return g.events }

// Batch runs fn with change notifications deferred until the outermost
// batch on the geometry's notifier ends.
func (g *Geometry) Batch(fn func() error) error {
	return g.events.Batch(fn)
}

// Positions returns a copy of the position list.
func (g *Geometry) Positions() []linalg.Vector {
	out := make([]linalg.Vector, len(g.positions))
	for i, p := range g.positions {
		out[i] = p.Clone()
	}
	return out
}

// Lines returns a copy of the line list.
func (g *Geometry) Lines() []Line {
	out := make([]Line, len(g.lines))
	copy(out, g.lines)
	return out
}

// AddPosition appends p and returns its index. p must have the geometry's
// dimension.
func (g *Geometry) AddPosition(p linalg.Vector) (int, error) {
	if p.Dim() != g.dim {
		return 0, wferr.New(wferr.CodeDimensionMismatch,
			"geometry %q is %dD, position %s is %dD", g.name, g.dim, p, p.Dim())
	}
	g.positions = append(g.positions, p.Clone())
	g.events.Raise(GeometryChanged)
	return len(g.positions) - 1, nil
}

// AddLine connects positions from and to. An empty color selects the base
// color.
func (g *Geometry) AddLine(from, to int, c color.Symbol) error {
	n := len(g.positions)
	if from < 0 || from >= n || to < 0 || to >= n {
		return wferr.New(wferr.CodeInvalidRange,
			"geometry %q: line (%d,%d) references missing position (have %d)", g.name, from, to, n)
	}
	if c == "" {
		c = g.baseColor
	}
	g.lines = append(g.lines, Line{From: from, To: to, Color: c})
	g.events.Raise(GeometryChanged)
	return nil
}

// Segment appends the positions a and b and a line between them.
func (g *Geometry) Segment(a, b linalg.Vector, c color.Symbol) error {
	return g.Batch(func() error {
		i, err := g.AddPosition(a)
		if err != nil {
			return err
		}
		j, err := g.AddPosition(b)
		if err != nil {
			return err
		}
		return g.AddLine(i, j, c)
	})
}

// ColorizeLine sets the color of line i.
func (g *Geometry) ColorizeLine(i int, c color.Symbol) error {
	if i < 0 || i >= len(g.lines) {
		return wferr.New(wferr.CodeInvalidRange, "geometry %q has no line %d", g.name, i)
	}
	if g.lines[i].Color == c {
		return nil
	}
	g.lines[i].Color = c
	g.events.Raise(GeometryChanged)
	return nil
}

// DecolorizeLine resets line i to the base color.
func (g *Geometry) DecolorizeLine(i int) error {
	return g.ColorizeLine(i, g.baseColor)
}

// Clear removes all positions and lines.
func (g *Geometry) Clear() {
	if len(g.positions) == 0 && len(g.lines) == 0 {
		return
	}
	g.positions = nil
	g.lines = nil
	g.events.Raise(GeometryChanged)
}

// Extrude duplicates every position shifted by direction, duplicates every
// line between the copies, and connects each position to its copy.
// Duplicated lines keep their color when keepColors is set and use the
// base color otherwise; connectors use connectorColor, or the base color
// when that is empty.
func (g *Geometry) Extrude(direction linalg.Vector, keepColors bool, connectorColor color.Symbol) error {
	if direction.Dim() != g.dim {
		return wferr.New(wferr.CodeDimensionMismatch,
			"geometry %q is %dD, extrusion direction is %dD", g.name, g.dim, direction.Dim())
	}
	return g.Batch(func() error {
		return g.extrude(0, 0, direction, keepColors, connectorColor)
	})
}

// extrude is [Geometry.Extrude] restricted to the positions from
// firstPosition and the lines from firstLine on, so a shape can extrude
// itself without touching what the geometry already held.
func (g *Geometry) extrude(firstPosition, firstLine int, direction linalg.Vector, keepColors bool, connectorColor color.Symbol) error {
	end := len(g.positions)
	n := end - firstPosition
	lines := append([]Line(nil), g.lines[firstLine:]...)

	for i := firstPosition; i < end; i++ {
		shifted, _ := g.positions[i].Add(direction)
		if _, err := g.AddPosition(shifted); err != nil {
			return err
		}
	}
	for _, l := range lines {
		if l.From < firstPosition || l.To < firstPosition {
			return wferr.New(wferr.CodeInvalidRange,
				"line %d-%d reaches outside the extruded positions", l.From, l.To)
		}
		c := g.baseColor
		if keepColors {
			c = l.Color
		}
		if err := g.AddLine(l.From+n, l.To+n, c); err != nil {
			return err
		}
	}
	for i := firstPosition; i < end; i++ {
		if err := g.AddLine(i, i+n, connectorColor); err != nil {
			return err
		}
	}
	return nil
}

// Vertices resolves every line into its two endpoints, in line order.
// The geometry must be registered.
func (g *Geometry) Vertices() ([]Vertex, error) {
	idx, err := g.ModelIndex()
	if err != nil {
		return nil, err
	}
	out := make([]Vertex, 0, 2*len(g.lines))
	for _, l := range g.lines {
		out = append(out,
			Vertex{Position: g.positions[l.From].Clone(), Color: l.Color, ModelIndex: idx},
			Vertex{Position: g.positions[l.To].Clone(), Color: l.Color, ModelIndex: idx},
		)
	}
	return out, nil
}
