package geometry_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tesserapp/wireframe/pkg/color"
	"github.com/tesserapp/wireframe/pkg/geometry"
	"github.com/tesserapp/wireframe/pkg/linalg"
)

type recorder struct {
	events []geometry.Event
}

func (r *recorder) listen(e geometry.Event) { r.events = append(r.events, e) }

func (r *recorder) count(e geometry.Event) int {
	n := 0
	for _, got := range r.events {
		if got == e {
			n++
		}
	}
	return n
}

func TestEmptyBatchFiresNothing(t *testing.T) {
	g, err := geometry.New("g", 3)
	require.NoError(t, err)
	var rec recorder
	g.Events().Subscribe(rec.listen)

	require.NoError(t, g.Batch(func() error { return nil }))
	require.Empty(t, rec.events)
}

func TestNestedBatchesFireOnce(t *testing.T) {
	g, err := geometry.New("g", 3)
	require.NoError(t, err)
	var rec recorder
	g.Events().Subscribe(rec.listen)

	err = g.Batch(func() error {
		if err := g.Segment(linalg.Zero(3), linalg.Vec(1, 0, 0), ""); err != nil {
			return err
		}
		return g.Batch(func() error {
			require.Equal(t, 2, g.Events().Depth())
			return g.ColorizeLine(0, color.Accent)
		})
	})
	require.NoError(t, err)
	require.Equal(t, []geometry.Event{geometry.GeometryChanged}, rec.events)
	require.Zero(t, g.Events().Depth())
}

func TestUnbatchedMutationsFireEach(t *testing.T) {
	g, err := geometry.New("g", 3)
	require.NoError(t, err)
	var rec recorder
	g.Events().Subscribe(rec.listen)

	_, err = g.AddPosition(linalg.Zero(3))
	require.NoError(t, err)
	_, err = g.AddPosition(linalg.Vec(1, 1, 1))
	require.NoError(t, err)
	require.Equal(t, 2, rec.count(geometry.GeometryChanged))

	// Extrusion is one batch however many elements it adds.
	require.NoError(t, g.AddLine(0, 1, ""))
	rec.events = nil
	require.NoError(t, g.Extrude(linalg.Vec(0, 0, 1), true, ""))
	require.Equal(t, []geometry.Event{geometry.GeometryChanged}, rec.events)
}

func TestBatchClosesOnError(t *testing.T) {
	g, err := geometry.New("g", 3)
	require.NoError(t, err)
	var rec recorder
	g.Events().Subscribe(rec.listen)

	boom := errors.New("boom")
	err = g.Batch(func() error {
		_, _ = g.AddPosition(linalg.Zero(3))
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Zero(t, g.Events().Depth())
	require.Equal(t, 1, rec.count(geometry.GeometryChanged))
}

func TestBatchClosesOnPanic(t *testing.T) {
	n := geometry.NewNotifier()
	require.Panics(t, func() {
		_ = n.Batch(func() error { panic("boom") })
	})
	require.Zero(t, n.Depth())
}

func TestSharedNotifierCoalescesAcrossGeometries(t *testing.T) {
	n := geometry.NewNotifier()
	a, err := geometry.New("a", 3, geometry.WithNotifier(n))
	require.NoError(t, err)
	b, err := geometry.New("b", 3, geometry.WithNotifier(n))
	require.NoError(t, err)

	var rec recorder
	n.Subscribe(rec.listen)
	err = n.Batch(func() error {
		if err := a.Segment(linalg.Zero(3), linalg.Vec(1, 0, 0), ""); err != nil {
			return err
		}
		return b.Segment(linalg.Zero(3), linalg.Vec(0, 1, 0), "")
	})
	require.NoError(t, err)
	require.Equal(t, []geometry.Event{geometry.GeometryChanged}, rec.events)
}

func TestHierarchyAndTransformEvents(t *testing.T) {
	buf := newBuffer(t, 3, 2)
	parent := newRegistered(t, buf, "parent", 3)
	child := newRegistered(t, buf, "child", 3)

	var childRec, parentRec recorder
	child.Events().Subscribe(childRec.listen)
	parent.Events().Subscribe(parentRec.listen)

	require.NoError(t, child.AddToParent(parent))
	require.Equal(t, 1, childRec.count(geometry.HierarchyChanged))
	require.Equal(t, 1, parentRec.count(geometry.HierarchyChanged))

	require.NoError(t, child.SetRotation(geometry.PlaneY, 0.5))
	require.NoError(t, child.SetRotation(geometry.PlaneY, 0.5)) // unchanged
	require.Equal(t, 1, childRec.count(geometry.TransformChanged))

	require.NoError(t, child.ReleaseFromParent())
	require.NoError(t, child.ReleaseFromParent()) // already a root
	require.Equal(t, 2, childRec.count(geometry.HierarchyChanged))
}

func TestUnsubscribe(t *testing.T) {
	n := geometry.NewNotifier()
	var rec recorder
	stop := n.Subscribe(rec.listen)
	require.Equal(t, 1, n.Subscribers())

	n.Raise(geometry.GeometryChanged)
	stop()
	n.Raise(geometry.GeometryChanged)

	require.Len(t, rec.events, 1)
	require.Zero(t, n.Subscribers())
}
