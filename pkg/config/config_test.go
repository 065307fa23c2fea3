package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tesserapp/wireframe/pkg/color"
	"github.com/tesserapp/wireframe/pkg/config"
	wferr "github.com/tesserapp/wireframe/pkg/errors"
	"github.com/tesserapp/wireframe/pkg/linalg"
	"github.com/tesserapp/wireframe/pkg/pipeline"
)

func TestDefaultScene(t *testing.T) {
	cfg := config.Default()
	require.Len(t, cfg.Geometries, 2)
	want, got := pipeline.DefaultCamera(), cfg.CameraValue()
	assert.InDelta(t, want.Distance, got.Distance, 1e-12)
	assert.InDelta(t, want.Horizontal, got.Horizontal, 1e-12)
	assert.InDelta(t, want.Vertical, got.Vertical, 1e-12)
	assert.InDelta(t, want.AspectRatio, got.AspectRatio, 1e-12)

	m, err := cfg.Build()
	require.NoError(t, err)
	assert.False(t, m.GridEnabled())

	featured, ok := m.Lookup("Featured Geometry")
	require.True(t, ok)
	assert.True(t, featured.FourDimensional())
	assert.Len(t, featured.Positions(), 8)
	assert.Len(t, featured.Lines(), 12)
	for _, l := range featured.Lines() {
		assert.Equal(t, color.Accent, l.Color)
	}
	assert.True(t, featured.Translation().ApproxEqual(linalg.Vec(0, 0, 0, 3.7), 0))

	axis, ok := m.Lookup("Axis")
	require.True(t, ok)
	assert.Len(t, axis.Lines(), 3)

	frame, err := m.Render(cfg.CameraValue())
	require.NoError(t, err)
	assert.Len(t, frame.Vertices, 2*(12+3))
}

func TestParse(t *testing.T) {
	src := `
[scene]
dimension = 4
grid = true

[camera]
distance = 5.0
vertical = 0.0

[visualizer]
kind = "offset"
offset = [1.0, 0.0, 0.0]

[colors]
primary = "#000000"

[[geometry]]
name = "root"
shape = "tesseract"
size = 2.0

[geometry.rotation]
q = 0.5

[[geometry]]
name = "child"
dimension = 3
positions = [[0.0, 0.0, 0.0], [1.0, 0.0, 0.0]]
lines = [[0, 1]]
translation = [0.0, 1.0, 0.0]
parent = "root"
`
	cfg, err := config.Parse([]byte(src))
	require.NoError(t, err)

	cam := cfg.CameraValue()
	assert.Equal(t, 5.0, cam.Distance)
	assert.Equal(t, 0.0, cam.Vertical)
	assert.Equal(t, pipeline.DefaultHorizontal, cam.Horizontal)

	table, err := cfg.ColorTable()
	require.NoError(t, err)
	assert.Equal(t, "#000000", table.Resolve(color.Primary).Hex())
	assert.Equal(t, color.DefaultTable().Resolve(color.Accent), table.Resolve(color.Accent))

	m, err := cfg.Build()
	require.NoError(t, err)
	assert.True(t, m.GridEnabled())

	root, ok := m.Lookup("root")
	require.True(t, ok)
	child, ok := m.Lookup("child")
	require.True(t, ok)
	assert.Same(t, root, child.Parent())
	assert.Equal(t, 0.5, root.Rotation().Q)
	assert.Len(t, child.Lines(), 1)

	_, err = m.Frame(cam)
	require.NoError(t, err)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", `[scene`},
		{"unknown key", "[scene]\nwidth = 3\n"},
		{"dimension", "[scene]\ndimension = 5\n"},
		{"bad color", "[colors]\nprimary = \"red\"\n"},
		{"shape", "[[geometry]]\nname = \"g\"\nshape = \"sphere\"\n"},
		{"quadrilateral", "[[geometry]]\nname = \"g\"\nshape = \"quadrilateral\"\npositions = [[0.0, 0.0, 0.0]]\n"},
		{"duplicate", "[[geometry]]\nname = \"g\"\n[[geometry]]\nname = \"g\"\n"},
		{"parent", "[[geometry]]\nname = \"g\"\nparent = \"missing\"\n"},
		{"self parent", "[[geometry]]\nname = \"g\"\nparent = \"g\"\n"},
		{"empty name", "[[geometry]]\nname = \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tt.src))
			require.Error(t, err)
			assert.True(t, wferr.Is(err, wferr.CodeInvalidConfig), "got %v", err)
		})
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"line index", "[[geometry]]\nname = \"g\"\ndimension = 3\npositions = [[0.0, 0.0, 0.0]]\nlines = [[0, 1]]\n", wferr.ErrInvalidRange},
		{"position dimension", "[[geometry]]\nname = \"g\"\ndimension = 3\npositions = [[0.0, 0.0]]\n", wferr.ErrDimensionMismatch},
		{"four in three", "[scene]\ndimension = 3\n[[geometry]]\nname = \"g\"\ndimension = 4\n", wferr.ErrDimensionMismatch},
		{"q on 3d", "[[geometry]]\nname = \"g\"\ndimension = 3\n[geometry.rotation]\nq = 1.0\n", wferr.ErrUnsupportedDimension},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Parse([]byte(tt.src))
			require.NoError(t, err)
			_, err = cfg.Build()
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[geometry]]\nname = \"cube\"\nshape = \"cube\"\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Geometries, 1)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.True(t, wferr.Is(err, wferr.CodeInvalidConfig))
}
