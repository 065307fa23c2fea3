// Package scene owns the set of live geometries and produces frames from
// them.
//
// A [Manager] holds the shared model-matrix buffer, the registered
// geometries in registration order, and the vertex buffers the last frame
// was written to. One mutex guards all of it: every exported method locks,
// and [Manager.Update] runs caller code under the same lock, so transform
// changes from one goroutine never interleave with a frame being produced
// on another.
//
//	m, _ := scene.New(scene.WithLogger(logger))
//	cube, _ := m.NewGeometry("cube", 4)
//	_ = cube.Tesseract(2)
//	_ = m.Register(cube)
//
//	go func() {
//	    _ = m.Update(func() error { return cube.Rotate(geometry.PlaneQ, 0.01) })
//	}()
//	frame, _ := m.Render(pipeline.DefaultCamera())
//
// Vertex buffers are only rewritten when something that feeds them
// changed since the last frame: geometry data, hierarchy, transforms,
// membership or the camera.
package scene

import (
	"io"
	"iter"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tesserapp/wireframe/pkg/arena"
	"github.com/tesserapp/wireframe/pkg/buffer"
	"github.com/tesserapp/wireframe/pkg/color"
	wferr "github.com/tesserapp/wireframe/pkg/errors"
	"github.com/tesserapp/wireframe/pkg/geometry"
	"github.com/tesserapp/wireframe/pkg/linalg"
	"github.com/tesserapp/wireframe/pkg/observability"
	"github.com/tesserapp/wireframe/pkg/pipeline"
	"github.com/tesserapp/wireframe/pkg/visualize"
)

const (
	// DefaultDimension is the dimension of the model-matrix buffer.
	DefaultDimension = 4

	// DefaultCapacity is the number of model-matrix slots.
	DefaultCapacity = 64

	// GridName is the name of the built-in grid geometry.
	GridName = "Grid"
)

// Option configures a [Manager].
type Option func(*Manager)

// WithDimension sets the scene dimension (3 or 4).
func WithDimension(dim int) Option {
	return func(m *Manager) { m.dim = dim }
}

// WithCapacity sets the number of model-matrix slots.
func WithCapacity(n int) Option {
	return func(m *Manager) { m.capacity = n }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithColorTable sets the color resolver used when projecting.
func WithColorTable(r color.Resolver) Option {
	return func(m *Manager) {
		if r != nil {
			m.colors = r
		}
	}
}

// WithPipeline sets projection and visualizer options.
func WithPipeline(opts pipeline.Options) Option {
	return func(m *Manager) { m.opts = opts }
}

type subscription struct {
	count int
	stop  func()
}

type listener struct {
	id int
	fn func()
}

// Manager owns registered geometries and the buffers derived from them.
type Manager struct {
	mu     sync.Mutex
	logger *log.Logger

	dim      int
	capacity int
	matrices *arena.Buffer
	events   *geometry.Notifier

	geometries []*geometry.Geometry
	subs       map[*geometry.Notifier]*subscription
	grid       *geometry.Geometry

	colors     color.Resolver
	opts       pipeline.Options
	projection *linalg.Matrix
	visualizer visualize.Func

	dirty        bool
	lastView     *linalg.Matrix
	camera       pipeline.Camera
	positions    *buffer.FloatBuffer
	vertexColors *buffer.FloatBuffer
	modelIndices *buffer.FloatBuffer
	vertices     []pipeline.Vertex

	geometryListeners  []listener
	hierarchyListeners []listener
	nextListener       int
}

// New returns an empty scene.
func New(opts ...Option) (*Manager, error) {
	m := &Manager{
		logger:   log.New(io.Discard),
		dim:      DefaultDimension,
		capacity: DefaultCapacity,
		colors:   color.DefaultTable(),
		subs:     make(map[*geometry.Notifier]*subscription),
		events:   geometry.NewNotifier(),
		dirty:    true,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.dim != 3 && m.dim != 4 {
		return nil, wferr.New(wferr.CodeUnsupportedDimension, "scene dimension must be 3 or 4 (got %d)", m.dim)
	}
	if err := m.opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	var err error
	if m.matrices, err = arena.New(m.dim, m.capacity); err != nil {
		return nil, err
	}
	if m.projection, err = m.opts.Projection(); err != nil {
		return nil, err
	}
	if m.visualizer, err = m.opts.VisualizerFunc(); err != nil {
		return nil, err
	}
	if m.positions, err = buffer.NewFloatBuffer(3, 256); err != nil {
		return nil, err
	}
	if m.vertexColors, err = buffer.NewFloatBuffer(3, 256); err != nil {
		return nil, err
	}
	if m.modelIndices, err = buffer.NewFloatBuffer(1, 256); err != nil {
		return nil, err
	}

	m.grid, err = geometry.New(GridName, 3, geometry.WithColor(color.Grid), geometry.WithNotifier(m.events))
	if err != nil {
		return nil, err
	}
	if err := m.grid.GridOmitAxisIndicator(); err != nil {
		return nil, err
	}
	return m, nil
}

// Dim returns the scene dimension.
func (m *Manager) Dim() int { return m.dim }

// Logger returns the manager's logger.
func (m *Manager) Logger() *log.Logger { return m.logger }

// NewGeometry creates a geometry that reports changes through the scene's
// shared notifier, so a single [Manager.Update] batches changes across
// geometries. The geometry is not registered.
func (m *Manager) NewGeometry(name string, dim int, opts ...geometry.Option) (*geometry.Geometry, error) {
	if err := wferr.ValidateGeometryName(name); err != nil {
		return nil, err
	}
	opts = append(slices.Clone(opts), geometry.WithNotifier(m.events))
	return geometry.New(name, dim, opts...)
}

// Register adds g to the scene and gives it a model-matrix slot.
func (m *Manager) Register(g *geometry.Geometry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registerLocked(g)
}

// Unregister removes g from the scene. g is detached from its parent and
// its children become roots; they stay registered.
func (m *Manager) Unregister(g *geometry.Geometry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unregisterLocked(g)
}

// Contains reports whether g is registered with the scene.
func (m *Manager) Contains(g *geometry.Geometry) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Contains(m.geometries, g)
}

// Geometries returns the registered geometries in registration order.
func (m *Manager) Geometries() []*geometry.Geometry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.geometries)
}

// Lookup returns the first registered geometry with the given name.
func (m *Manager) Lookup(name string) (*geometry.Geometry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.geometries {
		if g.Name() == name {
			return g, true
		}
	}
	return nil, false
}

// Get returns the registered geometry with the given ID.
func (m *Manager) Get(id uuid.UUID) (*geometry.Geometry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.geometries {
		if g.ID() == id {
			return g, true
		}
	}
	return nil, false
}

// Update runs fn under the scene lock with notifications from geometries
// created by [Manager.NewGeometry] batched. fn must not call other Manager
// methods.
func (m *Manager) Update(fn func() error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events.Batch(fn)
}

// View runs fn under the scene lock for read-only inspection.
func (m *Manager) View(fn func() error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn()
}

// EnableGrid adds or removes the built-in grid geometry.
func (m *Manager) EnableGrid(enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	present := slices.Contains(m.geometries, m.grid)
	switch {
	case enabled && !present:
		return m.registerLocked(m.grid)
	case !enabled && present:
		return m.unregisterLocked(m.grid)
	}
	return nil
}

// GridEnabled reports whether the grid geometry is registered.
func (m *Manager) GridEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Contains(m.geometries, m.grid)
}

// Dirty reports whether the next frame will rewrite the vertex buffers
// regardless of the camera.
func (m *Manager) Dirty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dirty
}

// OnGeometryChanged registers fn to run after geometry data of any
// registered geometry changed. It runs with the scene lock held and must
// not call back into the manager.
func (m *Manager) OnGeometryChanged(fn func()) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addListener(&m.geometryListeners, fn)
}

// OnHierarchyChanged registers fn to run after a parent link of a
// registered geometry changed, with the same restrictions as
// [Manager.OnGeometryChanged].
func (m *Manager) OnHierarchyChanged(fn func()) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addListener(&m.hierarchyListeners, fn)
}

func (m *Manager) addListener(list *[]listener, fn func()) func() {
	m.nextListener++
	id := m.nextListener
	*list = append(*list, listener{id: id, fn: fn})
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		*list = slices.DeleteFunc(*list, func(l listener) bool { return l.id == id })
	}
}

func (m *Manager) registerLocked(g *geometry.Geometry) error {
	if slices.Contains(m.geometries, g) {
		return wferr.New(wferr.CodeAlreadyRegistered, "geometry %q is already part of the scene", g.Name())
	}
	if err := g.Register(m.matrices); err != nil {
		return err
	}
	m.geometries = append(m.geometries, g)
	m.subscribe(g.Events())
	m.dirty = true

	slot, _ := g.ModelIndex()
	m.logger.Debug("registered geometry", "name", g.Name(), "id", g.ID(), "slot", slot, "dim", g.Dim())
	observability.Scene().OnRegister(g.Name(), slot)
	return nil
}

func (m *Manager) unregisterLocked(g *geometry.Geometry) error {
	i := slices.Index(m.geometries, g)
	if i < 0 {
		return wferr.New(wferr.CodeNotRegistered, "geometry %q is not part of the scene", g.Name())
	}
	err := g.Batch(func() error {
		if err := g.ReleaseFromParent(); err != nil {
			return err
		}
		g.ReleaseChildren()
		return g.Unregister()
	})
	if err != nil {
		return err
	}
	m.geometries = slices.Delete(m.geometries, i, i+1)
	m.unsubscribe(g.Events())
	m.dirty = true

	m.logger.Debug("unregistered geometry", "name", g.Name(), "id", g.ID())
	observability.Scene().OnUnregister(g.Name())
	return nil
}

func (m *Manager) subscribe(n *geometry.Notifier) {
	if s, ok := m.subs[n]; ok {
		s.count++
		return
	}
	m.subs[n] = &subscription{count: 1, stop: n.Subscribe(m.handle)}
}

func (m *Manager) unsubscribe(n *geometry.Notifier) {
	s, ok := m.subs[n]
	if !ok {
		return
	}
	if s.count--; s.count == 0 {
		s.stop()
		delete(m.subs, n)
	}
}

// handle runs with the lock held: notifications only fire from mutations
// made under it.
func (m *Manager) handle(e geometry.Event) {
	m.dirty = true
	switch e {
	case geometry.GeometryChanged:
		for _, l := range slices.Clone(m.geometryListeners) {
			l.fn()
		}
	case geometry.HierarchyChanged:
		for _, l := range slices.Clone(m.hierarchyListeners) {
			l.fn()
		}
	}
}

// =============================================================================
// Frames
// =============================================================================

// FrameStats describes one call to [Manager.Frame].
type FrameStats struct {
	Vertices  int
	Rewritten bool
	Duration  time.Duration
}

// ComputeModelMatrices recomputes every registered geometry's model matrix,
// parents before children.
func (m *Manager) ComputeModelMatrices() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.computeLocked()
}

// Frame recomputes model matrices and, if anything changed since the last
// frame, projects every registered geometry for cam and rewrites the
// vertex buffers.
func (m *Manager) Frame(cam pipeline.Camera) (FrameStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frameLocked(cam)
}

// Render produces a frame for cam and returns a copy of its vertices.
func (m *Manager) Render(cam pipeline.Camera) (pipeline.Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.frameLocked(cam); err != nil {
		return pipeline.Frame{}, err
	}
	return m.snapshotLocked(), nil
}

// Snapshot returns a copy of the last frame.
func (m *Manager) Snapshot() pipeline.Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() pipeline.Frame {
	return pipeline.Frame{Camera: m.camera, Vertices: slices.Clone(m.vertices)}
}

func (m *Manager) frameLocked(cam pipeline.Camera) (stats FrameStats, err error) {
	start := time.Now()
	observability.Frame().OnFrameStart()
	defer func() {
		stats.Duration = time.Since(start)
		observability.Frame().OnFrameComplete(stats.Vertices, stats.Rewritten, stats.Duration, err)
	}()

	view, err := cam.View()
	if err != nil {
		return stats, err
	}
	if m.lastView == nil || !m.lastView.ApproxEqual(view, 0) {
		m.dirty = true
	}
	if err := m.computeLocked(); err != nil {
		return stats, err
	}
	if !m.dirty {
		stats.Vertices = len(m.vertices)
		return stats, nil
	}

	models, err := m.modelsLocked()
	if err != nil {
		return stats, err
	}
	proj, err := pipeline.NewProjector(view, m.projection, m.colors, m.visualizer)
	if err != nil {
		return stats, err
	}
	seq, err := proj.Project(models)
	if err != nil {
		return stats, err
	}
	if err := m.rewriteLocked(seq); err != nil {
		return stats, err
	}

	m.dirty = false
	m.lastView = view
	m.camera = cam
	stats.Vertices = len(m.vertices)
	stats.Rewritten = true
	m.logger.Debug("rewrote vertex buffers", "vertices", stats.Vertices, "geometries", len(models))
	return stats, nil
}

// modelsLocked copies what the projector needs out of each geometry.
func (m *Manager) modelsLocked() ([]pipeline.Model, error) {
	models := make([]pipeline.Model, 0, len(m.geometries))
	for _, g := range m.geometries {
		idx, err := g.ModelIndex()
		if err != nil {
			return nil, err
		}
		mat, err := g.GlobalMatrix()
		if err != nil {
			return nil, err
		}
		models = append(models, pipeline.Model{
			Name:            g.Name(),
			ModelIndex:      idx,
			Matrix:          mat,
			FourDimensional: g.FourDimensional(),
			Positions:       g.Positions(),
			Lines:           g.Lines(),
		})
	}
	return models, nil
}

func (m *Manager) rewriteLocked(seq iter.Seq[pipeline.Vertex]) error {
	m.positions.Rewind()
	m.vertexColors.Rewind()
	m.modelIndices.Rewind()
	m.vertices = m.vertices[:0]
	for v := range seq {
		if err := m.positions.Append(float32(v.Position[0]), float32(v.Position[1]), float32(v.Position[2])); err != nil {
			return err
		}
		if err := m.vertexColors.Append(float32(v.Color.R), float32(v.Color.G), float32(v.Color.B)); err != nil {
			return err
		}
		if err := m.modelIndices.Append(float32(v.ModelIndex)); err != nil {
			return err
		}
		m.vertices = append(m.vertices, v)
	}
	return nil
}

// =============================================================================
// Buffers
// =============================================================================

// Positions returns a copy of the last frame's vertex positions, three
// floats per vertex.
func (m *Manager) Positions() []float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.positions.Copy()
}

// Colors returns a copy of the last frame's vertex colors as RGB in [0,1].
func (m *Manager) Colors() []float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vertexColors.Copy()
}

// ModelIndices returns a copy of the last frame's per-vertex model slots.
func (m *Manager) ModelIndices() []float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.modelIndices.Copy()
}

// ModelMatrices returns a copy of the model-matrix buffer and the number
// of matrices it holds. The count runs up to the highest live slot, so it
// can exceed the number of registered geometries once released slots leave
// holes; every emitted model index is below it.
func (m *Manager) ModelMatrices() (data []float32, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matrices.Float32s(), m.matrices.HighWater()
}

// VertexCount returns the number of vertices in the last frame.
func (m *Manager) VertexCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.vertices)
}
