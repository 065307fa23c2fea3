package scene_test

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tesserapp/wireframe/pkg/color"
	wferr "github.com/tesserapp/wireframe/pkg/errors"
	"github.com/tesserapp/wireframe/pkg/geometry"
	"github.com/tesserapp/wireframe/pkg/linalg"
	"github.com/tesserapp/wireframe/pkg/pipeline"
	"github.com/tesserapp/wireframe/pkg/scene"
)

func newScene(t *testing.T, opts ...scene.Option) *scene.Manager {
	t.Helper()
	m, err := scene.New(opts...)
	require.NoError(t, err)
	return m
}

func segment(t *testing.T, m *scene.Manager, name string, from, to linalg.Vector) *geometry.Geometry {
	t.Helper()
	g, err := m.NewGeometry(name, 3)
	require.NoError(t, err)
	require.NoError(t, g.Segment(from, to, ""))
	return g
}

func TestNewRejectsDimension(t *testing.T) {
	_, err := scene.New(scene.WithDimension(5))
	require.ErrorIs(t, err, wferr.ErrUnsupportedDimension)
}

func TestEmptyFrame(t *testing.T) {
	m := newScene(t)
	stats, err := m.Frame(pipeline.DefaultCamera())
	require.NoError(t, err)
	assert.True(t, stats.Rewritten)
	assert.Zero(t, stats.Vertices)
	assert.Empty(t, m.Positions())
	assert.Empty(t, m.Snapshot().Vertices)
}

func TestSlotReuseAfterUnregister(t *testing.T) {
	m := newScene(t, scene.WithDimension(3))
	a := segment(t, m, "a", linalg.Vec(0, 0, 0), linalg.Vec(1, 0, 0))
	b := segment(t, m, "b", linalg.Vec(0, 0, 0), linalg.Vec(0, 1, 0))
	require.NoError(t, m.Register(a))
	require.NoError(t, m.Register(b))
	require.NoError(t, b.SetTranslation(geometry.AxisY, 2))

	require.NoError(t, m.Unregister(a))
	c := segment(t, m, "c", linalg.Vec(0, 0, 0), linalg.Vec(0, 0, 1))
	require.NoError(t, m.Register(c))
	require.NoError(t, m.ComputeModelMatrices())

	slot, err := c.ModelIndex()
	require.NoError(t, err)
	assert.Equal(t, 0, slot)

	// b's matrix survived c taking a's slot.
	bm, err := b.GlobalMatrix()
	require.NoError(t, err)
	p, err := linalg.Vec(0, 0, 0).TransformPoint(bm)
	require.NoError(t, err)
	assert.True(t, p.ApproxEqual(linalg.Vec(0, 2, 0), 1e-12))

	assert.Equal(t, []*geometry.Geometry{b, c}, m.Geometries())
	assert.False(t, a.Registered())
}

func TestRegisterTwice(t *testing.T) {
	m := newScene(t)
	g := segment(t, m, "g", linalg.Vec(0, 0, 0), linalg.Vec(1, 0, 0))
	require.NoError(t, m.Register(g))
	require.ErrorIs(t, m.Register(g), wferr.ErrAlreadyRegistered)
}

func TestRegisterFourDimensionalInThreeDimensionalScene(t *testing.T) {
	m := newScene(t, scene.WithDimension(3))
	g, err := m.NewGeometry("t", 4)
	require.NoError(t, err)
	require.ErrorIs(t, m.Register(g), wferr.ErrDimensionMismatch)
	assert.Empty(t, m.Geometries())
}

func TestUnregisterUnknown(t *testing.T) {
	m := newScene(t)
	g := segment(t, m, "g", linalg.Vec(0, 0, 0), linalg.Vec(1, 0, 0))
	require.ErrorIs(t, m.Unregister(g), wferr.ErrNotRegistered)
}

func TestUnregisterReRootsChildren(t *testing.T) {
	m := newScene(t)
	parent := segment(t, m, "parent", linalg.Vec(0, 0, 0), linalg.Vec(1, 0, 0))
	child := segment(t, m, "child", linalg.Vec(0, 0, 0), linalg.Vec(1, 0, 0))
	require.NoError(t, m.Register(parent))
	require.NoError(t, m.Register(child))
	require.NoError(t, m.Update(func() error { return child.AddToParent(parent) }))

	require.NoError(t, m.Unregister(parent))
	assert.Nil(t, child.Parent())
	_, err := m.Frame(pipeline.DefaultCamera())
	require.NoError(t, err)
}

func TestHierarchyComposesParentFirst(t *testing.T) {
	m := newScene(t, scene.WithDimension(3))
	parent := segment(t, m, "parent", linalg.Vec(0, 0, 0), linalg.Vec(1, 0, 0))
	child := segment(t, m, "child", linalg.Vec(0, 0, 0), linalg.Vec(1, 0, 0))
	// Child registered first so registration order differs from walk order.
	require.NoError(t, m.Register(child))
	require.NoError(t, m.Register(parent))

	require.NoError(t, m.Update(func() error {
		if err := child.AddToParent(parent); err != nil {
			return err
		}
		if err := parent.SetTranslation(geometry.AxisX, 1); err != nil {
			return err
		}
		return child.SetTranslation(geometry.AxisY, 2)
	}))
	require.NoError(t, m.ComputeModelMatrices())

	cm, err := child.GlobalMatrix()
	require.NoError(t, err)
	p, err := linalg.Vec(0, 0, 0).TransformPoint(cm)
	require.NoError(t, err)
	assert.True(t, p.ApproxEqual(linalg.Vec(1, 2, 0), 1e-12))
}

func TestUnreachedGeometryIsNotRegistered(t *testing.T) {
	m := newScene(t)
	other := newScene(t)
	parent := segment(t, other, "parent", linalg.Vec(0, 0, 0), linalg.Vec(1, 0, 0))
	child := segment(t, m, "child", linalg.Vec(0, 0, 0), linalg.Vec(1, 0, 0))
	require.NoError(t, other.Register(parent))
	require.NoError(t, m.Register(child))
	require.NoError(t, child.AddToParent(parent))

	// parent lives in another scene, so child is never reached from a root.
	_, err := m.Frame(pipeline.DefaultCamera())
	require.ErrorIs(t, err, wferr.ErrNotRegistered)
}

func TestFrameRewritesOnlyWhenChanged(t *testing.T) {
	m := newScene(t)
	g := segment(t, m, "g", linalg.Vec(0, 0, 0), linalg.Vec(1, 0, 0))
	require.NoError(t, m.Register(g))
	cam := pipeline.DefaultCamera()

	stats, err := m.Frame(cam)
	require.NoError(t, err)
	assert.True(t, stats.Rewritten)
	assert.Equal(t, 2, stats.Vertices)
	assert.False(t, m.Dirty())

	stats, err = m.Frame(cam)
	require.NoError(t, err)
	assert.False(t, stats.Rewritten)
	assert.Equal(t, 2, stats.Vertices)

	// Camera change.
	stats, err = m.Frame(cam.Orbit(0.1, 0))
	require.NoError(t, err)
	assert.True(t, stats.Rewritten)

	// Transform change.
	require.NoError(t, m.Update(func() error { return g.Rotate(geometry.PlaneZ, 0.1) }))
	assert.True(t, m.Dirty())
	stats, err = m.Frame(cam.Orbit(0.1, 0))
	require.NoError(t, err)
	assert.True(t, stats.Rewritten)

	// Geometry change.
	require.NoError(t, m.Update(func() error {
		return g.Segment(linalg.Vec(0, 0, 0), linalg.Vec(0, 1, 0), color.Accent)
	}))
	stats, err = m.Frame(cam.Orbit(0.1, 0))
	require.NoError(t, err)
	assert.True(t, stats.Rewritten)
	assert.Equal(t, 4, stats.Vertices)
}

func TestBuffersFollowVertices(t *testing.T) {
	m := newScene(t, scene.WithColorTable(color.DefaultTable()))
	a := segment(t, m, "a", linalg.Vec(0, 0, 0), linalg.Vec(1, 0, 0))
	b, err := m.NewGeometry("b", 3, geometry.WithColor(color.Accent))
	require.NoError(t, err)
	require.NoError(t, b.Segment(linalg.Vec(0, 0, 0), linalg.Vec(0, 1, 0), ""))
	require.NoError(t, m.Register(a))
	require.NoError(t, m.Register(b))

	frame, err := m.Render(pipeline.DefaultCamera())
	require.NoError(t, err)
	require.Len(t, frame.Vertices, 4)
	assert.Equal(t, 2, frame.LineCount())

	assert.Len(t, m.Positions(), 12)
	assert.Equal(t, []float32{0, 0, 1, 1}, m.ModelIndices())

	colors := m.Colors()
	require.Len(t, colors, 12)
	accent := color.DefaultTable().Resolve(color.Accent)
	assert.InDelta(t, accent.R, float64(colors[6]), 1e-6)
	assert.Equal(t, color.Accent, frame.Vertices[3].Symbol)

	for i, v := range frame.Vertices {
		for k := range 3 {
			assert.InDelta(t, v.Position[k], float64(m.Positions()[3*i+k]), 1e-6)
		}
	}

	data, count := m.ModelMatrices()
	assert.Equal(t, 2, count)
	assert.Len(t, data, 2*linalg.Cells(4))
}

func TestModelMatricesCoverReleasedSlots(t *testing.T) {
	m := newScene(t)
	a := segment(t, m, "a", linalg.Vec(0, 0, 0), linalg.Vec(1, 0, 0))
	b := segment(t, m, "b", linalg.Vec(0, 0, 0), linalg.Vec(0, 1, 0))
	require.NoError(t, m.Register(a))
	require.NoError(t, m.Register(b))
	require.NoError(t, m.Unregister(a))

	_, err := m.Frame(pipeline.DefaultCamera())
	require.NoError(t, err)

	data, count := m.ModelMatrices()
	assert.Equal(t, 2, count)
	assert.Len(t, data, count*linalg.Cells(4))
	for _, idx := range m.ModelIndices() {
		assert.Less(t, int(idx), count)
	}
	assert.Equal(t, []float32{1, 1}, m.ModelIndices())
}

func TestListeners(t *testing.T) {
	m := newScene(t)
	g := segment(t, m, "g", linalg.Vec(0, 0, 0), linalg.Vec(1, 0, 0))
	require.NoError(t, m.Register(g))

	var geometryCalls, hierarchyCalls int
	stop := m.OnGeometryChanged(func() { geometryCalls++ })
	m.OnHierarchyChanged(func() { hierarchyCalls++ })

	require.NoError(t, m.Update(func() error {
		for range 3 {
			if err := g.Segment(linalg.Vec(0, 0, 0), linalg.Vec(0, 0, 1), ""); err != nil {
				return err
			}
		}
		return nil
	}))
	assert.Equal(t, 1, geometryCalls)
	assert.Zero(t, hierarchyCalls)

	stop()
	require.NoError(t, m.Update(func() error { g.Clear(); return nil }))
	assert.Equal(t, 1, geometryCalls)
}

func TestGridToggle(t *testing.T) {
	m := newScene(t)
	assert.False(t, m.GridEnabled())

	require.NoError(t, m.EnableGrid(true))
	require.NoError(t, m.EnableGrid(true))
	assert.True(t, m.GridEnabled())
	grid, ok := m.Lookup(scene.GridName)
	require.True(t, ok)
	assert.Len(t, grid.Lines(), 24)

	stats, err := m.Frame(pipeline.DefaultCamera())
	require.NoError(t, err)
	assert.Equal(t, 48, stats.Vertices)

	require.NoError(t, m.EnableGrid(false))
	assert.False(t, m.GridEnabled())
	stats, err = m.Frame(pipeline.DefaultCamera())
	require.NoError(t, err)
	assert.Zero(t, stats.Vertices)
}

func TestGet(t *testing.T) {
	m := newScene(t)
	g := segment(t, m, "g", linalg.Vec(0, 0, 0), linalg.Vec(1, 0, 0))
	require.NoError(t, m.Register(g))
	got, ok := m.Get(g.ID())
	require.True(t, ok)
	assert.Same(t, g, got)
	assert.True(t, m.Contains(g))
}

func TestTesseractProjectsInsideClipSpace(t *testing.T) {
	m := newScene(t)
	tess, err := m.NewGeometry("tesseract", 4)
	require.NoError(t, err)
	require.NoError(t, tess.Tesseract(1))
	require.NoError(t, m.Register(tess))
	require.NoError(t, m.Update(func() error { return tess.SetTranslation(geometry.AxisQ, 3) }))

	frame, err := m.Render(pipeline.DefaultCamera())
	require.NoError(t, err)
	require.Len(t, frame.Vertices, 64)
	for _, v := range frame.Vertices {
		for _, c := range v.Position {
			assert.False(t, math.IsNaN(c))
		}
		assert.Greater(t, v.Position[2], 0.0)
		assert.Less(t, v.Position[2], 1.0)
	}
}

func TestConcurrentUpdateAndFrame(t *testing.T) {
	m := newScene(t)
	tess, err := m.NewGeometry("tesseract", 4)
	require.NoError(t, err)
	require.NoError(t, tess.Tesseract(1))
	require.NoError(t, m.Register(tess))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for range 200 {
			assert.NoError(t, m.Update(func() error { return tess.Rotate(geometry.PlaneQ, 0.01) }))
		}
	}()
	go func() {
		defer wg.Done()
		cam := pipeline.DefaultCamera()
		for range 200 {
			frame, err := m.Render(cam)
			assert.NoError(t, err)
			assert.Len(t, frame.Vertices, 64)
		}
	}()
	wg.Wait()
}
