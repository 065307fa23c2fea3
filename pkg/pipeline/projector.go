package pipeline

import (
	"iter"

	"github.com/tesserapp/wireframe/pkg/color"
	wferr "github.com/tesserapp/wireframe/pkg/errors"
	"github.com/tesserapp/wireframe/pkg/geometry"
	"github.com/tesserapp/wireframe/pkg/linalg"
	"github.com/tesserapp/wireframe/pkg/visualize"
)

// Model is one geometry as seen by the projector: its model matrix and
// line data, copied out of the scene.
type Model struct {
	Name            string
	ModelIndex      int
	Matrix          *linalg.Matrix
	FourDimensional bool
	Positions       []linalg.Vector
	Lines           []geometry.Line
}

// Vertex is a projected line endpoint. Consecutive vertex pairs form
// lines.
type Vertex struct {
	Position   [3]float64   `json:"position"`
	Color      color.RGB    `json:"-"`
	Symbol     color.Symbol `json:"color"`
	ModelIndex int          `json:"model"`
}

// Projector maps models to projected vertices for one camera.
type Projector struct {
	viewProjection *linalg.Matrix
	colors         color.Resolver
	visualize      visualize.Func
}

// NewProjector combines a 3D view and projection matrix. A nil resolver
// selects [color.DefaultTable] and a nil visualizer [visualize.None].
func NewProjector(view, projection *linalg.Matrix, colors color.Resolver, vis visualize.Func) (*Projector, error) {
	if view.Dim() != 3 || projection.Dim() != 3 {
		return nil, wferr.New(wferr.CodeUnsupportedDimension,
			"view and projection must be 3D (got %dD and %dD)", view.Dim(), projection.Dim())
	}
	vp, err := view.Mul(projection)
	if err != nil {
		return nil, err
	}
	if colors == nil {
		colors = color.DefaultTable()
	}
	if vis == nil {
		vis = visualize.None
	}
	return &Projector{viewProjection: vp, colors: colors, visualize: vis}, nil
}

// Project validates models and returns their vertices: two per line, in
// model and line order. The sequence reads models lazily; they must not be
// modified while it is in use.
func (p *Projector) Project(models []Model) (iter.Seq[Vertex], error) {
	for _, m := range models {
		if err := validate(m); err != nil {
			return nil, err
		}
	}
	return func(yield func(Vertex) bool) {
		for _, m := range models {
			for _, l := range m.Lines {
				rgb := p.colors.Resolve(l.Color)
				for _, idx := range [2]int{l.From, l.To} {
					pos := p.projectValid(m.Positions[idx], m.Matrix, m.FourDimensional)
					v := Vertex{
						Position:   [3]float64{pos[0], pos[1], pos[2]},
						Color:      rgb,
						Symbol:     l.Color,
						ModelIndex: m.ModelIndex,
					}
					if !yield(v) {
						return
					}
				}
			}
		}
	}, nil
}

// ProjectPoint runs a single position through the pipeline.
func (p *Projector) ProjectPoint(pos linalg.Vector, model *linalg.Matrix, fourDimensional bool) (linalg.Vector, error) {
	if err := validatePoint(pos, model, fourDimensional); err != nil {
		return nil, err
	}
	return p.projectValid(pos, model, fourDimensional), nil
}

// projectValid assumes validate has accepted the inputs.
func (p *Projector) projectValid(pos linalg.Vector, model *linalg.Matrix, fourDimensional bool) linalg.Vector {
	world, _ := pos.Resize(model.Dim()).TransformPoint(model)
	base := world.Resize(3)
	if fourDimensional {
		base = p.visualize(world, base)
	}
	clip, w, _ := base.Homogeneous(p.viewProjection, 1)
	if w != 0 {
		for i := range clip {
			clip[i] /= w
		}
	}
	return clip
}

// Count returns the number of vertices Project yields for models.
func Count(models []Model) int {
	n := 0
	for _, m := range models {
		n += 2 * len(m.Lines)
	}
	return n
}

func validate(m Model) error {
	if m.Matrix == nil {
		return wferr.New(wferr.CodeNotRegistered, "model %q has no model matrix", m.Name)
	}
	for _, pos := range m.Positions {
		if err := validatePoint(pos, m.Matrix, m.FourDimensional); err != nil {
			return wferr.Wrap(wferr.GetCode(err), err, "model %q", m.Name)
		}
	}
	for i, l := range m.Lines {
		if l.From < 0 || l.From >= len(m.Positions) || l.To < 0 || l.To >= len(m.Positions) {
			return wferr.New(wferr.CodeInvalidRange, "model %q: line %d references missing position", m.Name, i)
		}
	}
	return nil
}

func validatePoint(pos linalg.Vector, model *linalg.Matrix, fourDimensional bool) error {
	if pos.Dim() > model.Dim() {
		return wferr.New(wferr.CodeDimensionMismatch,
			"%dD position does not fit %dD model matrix", pos.Dim(), model.Dim())
	}
	if model.Dim() < 3 || (fourDimensional && model.Dim() < 4) {
		return wferr.New(wferr.CodeDimensionMismatch,
			"model matrix of dimension %d cannot place this geometry", model.Dim())
	}
	return nil
}
