// Package config loads scene descriptions from TOML and builds scenes from
// them.
//
// A scene file has optional [scene], [camera], [projection], [visualizer]
// and [colors] tables and any number of [[geometry]] entries:
//
//	[[geometry]]
//	name = "cube"
//	dimension = 4
//	shape = "tesseract"
//	size = 2.0
//	translation = [0.0, 0.0, 0.0, 3.0]
//
//	[geometry.rotation]
//	q = 0.5
//
// Zero values fall back to the defaults of the scene and pipeline
// packages. [Default] returns the built-in scene.
package config

import (
	_ "embed"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/tesserapp/wireframe/pkg/color"
	wferr "github.com/tesserapp/wireframe/pkg/errors"
	"github.com/tesserapp/wireframe/pkg/geometry"
	"github.com/tesserapp/wireframe/pkg/linalg"
	"github.com/tesserapp/wireframe/pkg/pipeline"
	"github.com/tesserapp/wireframe/pkg/scene"
)

//go:embed default.toml
var defaultScene []byte

// Shape names accepted in [[geometry]] entries.
const (
	ShapeLines         = "lines"
	ShapeQuadrilateral = "quadrilateral"
	ShapeAxis          = "axis"
	ShapeGrid          = "grid"
	ShapeCube          = "cube"
	ShapeTesseract     = "tesseract"
)

var shapes = map[string]bool{
	ShapeLines:         true,
	ShapeQuadrilateral: true,
	ShapeAxis:          true,
	ShapeGrid:          true,
	ShapeCube:          true,
	ShapeTesseract:     true,
	"":                 true,
}

// Config is a parsed scene file.
type Config struct {
	Scene      Scene             `toml:"scene"`
	Camera     Camera            `toml:"camera"`
	Projection Projection        `toml:"projection"`
	Visualizer Visualizer        `toml:"visualizer"`
	Colors     map[string]string `toml:"colors"`
	Geometries []Geometry        `toml:"geometry"`
}

// Scene holds manager settings.
type Scene struct {
	Dimension int  `toml:"dimension"`
	Capacity  int  `toml:"capacity"`
	Grid      bool `toml:"grid"`
}

// Camera is the initial camera. Zero fields use [pipeline.DefaultCamera].
type Camera struct {
	Distance    float64  `toml:"distance"`
	Horizontal  *float64 `toml:"horizontal"`
	Vertical    *float64 `toml:"vertical"`
	AspectRatio float64  `toml:"aspect_ratio"`
}

// Projection holds the clip planes.
type Projection struct {
	Near float64 `toml:"near"`
	Far  float64 `toml:"far"`
}

// Visualizer selects the four-dimension strategy.
type Visualizer struct {
	Kind   string    `toml:"kind"`
	Focal  float64   `toml:"focal"`
	Offset []float64 `toml:"offset"`
}

// Geometry describes one geometry. Shape data is added before extrusion.
type Geometry struct {
	Name        string      `toml:"name"`
	Dimension   int         `toml:"dimension"`
	Color       string      `toml:"color"`
	Shape       string      `toml:"shape"`
	Size        float64     `toml:"size"`
	Positions   [][]float64 `toml:"positions"`
	Lines       [][2]int    `toml:"lines"`
	Extrude     *Extrude    `toml:"extrude"`
	Rotation    Rotation    `toml:"rotation"`
	Translation []float64   `toml:"translation"`
	Parent      string      `toml:"parent"`
}

// Extrude describes an extrusion applied after the shape.
type Extrude struct {
	Direction  []float64 `toml:"direction"`
	KeepColors bool      `toml:"keep_colors"`
	Connector  string    `toml:"connector"`
}

// Rotation holds plane angles in radians.
type Rotation struct {
	X float64 `toml:"x"`
	Y float64 `toml:"y"`
	Z float64 `toml:"z"`
	Q float64 `toml:"q"`
}

// =============================================================================
// Loading
// =============================================================================

// Load reads and parses the scene file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wferr.Wrap(wferr.CodeInvalidConfig, err, "read scene file %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, wferr.Wrap(wferr.CodeInvalidConfig, err, "scene file %s", path)
	}
	return cfg, nil
}

// Parse decodes and validates a scene description. Unknown keys are an
// error.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, wferr.Wrap(wferr.CodeInvalidConfig, err, "parse scene")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, wferr.New(wferr.CodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in scene.
func Default() *Config {
	cfg, err := Parse(defaultScene)
	if err != nil {
		panic("config: invalid default scene: " + err.Error())
	}
	return cfg
}

// Validate checks values that can be checked without building the scene.
func (c *Config) Validate() error {
	if d := c.Scene.Dimension; d != 0 && d != 3 && d != 4 {
		return wferr.New(wferr.CodeInvalidConfig, "scene dimension must be 3 or 4 (got %d)", d)
	}
	if c.Scene.Capacity < 0 {
		return wferr.New(wferr.CodeInvalidConfig, "scene capacity must not be negative")
	}
	if _, err := color.ParseTable(c.Colors); err != nil {
		return err
	}

	names := make(map[string]bool, len(c.Geometries))
	for i, g := range c.Geometries {
		if err := wferr.ValidateGeometryName(g.Name); err != nil {
			return wferr.Wrap(wferr.CodeInvalidConfig, err, "geometry %d", i)
		}
		if names[g.Name] {
			return wferr.New(wferr.CodeInvalidConfig, "duplicate geometry name %q", g.Name)
		}
		names[g.Name] = true
		if !shapes[g.Shape] {
			return wferr.New(wferr.CodeInvalidConfig, "geometry %q: unknown shape %q", g.Name, g.Shape)
		}
		if g.Shape == ShapeQuadrilateral && len(g.Positions) != 4 {
			return wferr.New(wferr.CodeInvalidConfig, "geometry %q: quadrilateral needs 4 positions (got %d)", g.Name, len(g.Positions))
		}
	}
	for _, g := range c.Geometries {
		if g.Parent == "" {
			continue
		}
		if g.Parent == g.Name || !names[g.Parent] {
			return wferr.New(wferr.CodeInvalidConfig, "geometry %q: unknown parent %q", g.Name, g.Parent)
		}
	}
	return nil
}

// =============================================================================
// Building
// =============================================================================

// CameraValue returns the configured camera with defaults applied.
func (c *Config) CameraValue() pipeline.Camera {
	cam := pipeline.DefaultCamera()
	if c.Camera.Distance != 0 {
		cam.Distance = c.Camera.Distance
	}
	if c.Camera.Horizontal != nil {
		cam.Horizontal = *c.Camera.Horizontal
	}
	if c.Camera.Vertical != nil {
		cam.Vertical = *c.Camera.Vertical
	}
	if c.Camera.AspectRatio != 0 {
		cam.AspectRatio = c.Camera.AspectRatio
	}
	return cam
}

// PipelineOptions returns the projection and visualizer options.
func (c *Config) PipelineOptions() pipeline.Options {
	opts := pipeline.Options{
		Near:       c.Projection.Near,
		Far:        c.Projection.Far,
		Visualizer: c.Visualizer.Kind,
		Focal:      c.Visualizer.Focal,
	}
	if c.Visualizer.Offset != nil {
		opts.Offset = linalg.Vec(c.Visualizer.Offset...)
	}
	return opts
}

// ColorTable returns the default table overridden by [colors].
func (c *Config) ColorTable() (color.Table, error) {
	return color.ParseTable(c.Colors)
}

// Build creates a scene with every configured geometry registered in file
// order. opts are applied after the configured settings.
func (c *Config) Build(opts ...scene.Option) (*scene.Manager, error) {
	table, err := c.ColorTable()
	if err != nil {
		return nil, err
	}
	base := []scene.Option{
		scene.WithColorTable(table),
		scene.WithPipeline(c.PipelineOptions()),
	}
	if c.Scene.Dimension != 0 {
		base = append(base, scene.WithDimension(c.Scene.Dimension))
	}
	if c.Scene.Capacity != 0 {
		base = append(base, scene.WithCapacity(c.Scene.Capacity))
	}
	m, err := scene.New(append(base, opts...)...)
	if err != nil {
		return nil, err
	}

	built := make(map[string]*geometry.Geometry, len(c.Geometries))
	for _, gc := range c.Geometries {
		g, err := gc.build(m)
		if err != nil {
			return nil, err
		}
		if err := m.Register(g); err != nil {
			return nil, wferr.Wrap(wferr.GetCode(err), err, "register geometry %q", gc.Name)
		}
		built[gc.Name] = g
	}

	err = m.Update(func() error {
		for _, gc := range c.Geometries {
			g := built[gc.Name]
			if gc.Parent != "" {
				if err := g.AddToParent(built[gc.Parent]); err != nil {
					return wferr.Wrap(wferr.GetCode(err), err, "geometry %q", gc.Name)
				}
			}
			if err := gc.applyTransform(g); err != nil {
				return wferr.Wrap(wferr.GetCode(err), err, "geometry %q", gc.Name)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if c.Scene.Grid {
		if err := m.EnableGrid(true); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (gc Geometry) build(m *scene.Manager) (*geometry.Geometry, error) {
	dim := gc.Dimension
	if dim == 0 {
		dim = m.Dim()
	}
	var opts []geometry.Option
	if gc.Color != "" {
		opts = append(opts, geometry.WithColor(color.Symbol(gc.Color)))
	}
	g, err := m.NewGeometry(gc.Name, dim, opts...)
	if err != nil {
		return nil, err
	}
	if err := g.Batch(func() error { return gc.shape(g) }); err != nil {
		return nil, wferr.Wrap(wferr.GetCode(err), err, "geometry %q", gc.Name)
	}
	return g, nil
}

func (gc Geometry) shape(g *geometry.Geometry) error {
	size := gc.Size
	if size == 0 {
		size = 1
	}
	switch gc.Shape {
	case ShapeQuadrilateral:
		p := gc.Positions
		err := g.Quadrilateral(linalg.Vec(p[0]...), linalg.Vec(p[1]...), linalg.Vec(p[2]...), linalg.Vec(p[3]...), "")
		if err != nil {
			return err
		}
	case ShapeAxis:
		if err := g.Axis(color.AxisX, color.AxisY, color.AxisZ); err != nil {
			return err
		}
	case ShapeGrid:
		if err := g.Grid(); err != nil {
			return err
		}
	case ShapeCube:
		if err := g.Cube(size); err != nil {
			return err
		}
	case ShapeTesseract:
		if err := g.Tesseract(size); err != nil {
			return err
		}
	default:
		for _, p := range gc.Positions {
			if _, err := g.AddPosition(linalg.Vec(p...)); err != nil {
				return err
			}
		}
		for _, l := range gc.Lines {
			if err := g.AddLine(l[0], l[1], ""); err != nil {
				return err
			}
		}
	}
	if gc.Extrude != nil {
		return g.Extrude(linalg.Vec(gc.Extrude.Direction...), gc.Extrude.KeepColors, color.Symbol(gc.Extrude.Connector))
	}
	return nil
}

func (gc Geometry) applyTransform(g *geometry.Geometry) error {
	angles := map[geometry.Plane]float64{
		geometry.PlaneX: gc.Rotation.X,
		geometry.PlaneY: gc.Rotation.Y,
		geometry.PlaneZ: gc.Rotation.Z,
		geometry.PlaneQ: gc.Rotation.Q,
	}
	for _, p := range geometry.Planes {
		if angles[p] == 0 {
			continue
		}
		if err := g.SetRotation(p, angles[p]); err != nil {
			return err
		}
	}
	if gc.Translation != nil {
		return g.SetTranslationVector(linalg.Vec(gc.Translation...))
	}
	return nil
}
