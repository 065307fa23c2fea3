package arena_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tesserapp/wireframe/pkg/arena"
	wferr "github.com/tesserapp/wireframe/pkg/errors"
	"github.com/tesserapp/wireframe/pkg/linalg"
)

func TestAllocateUntilExhausted(t *testing.T) {
	const spaces, size = 4, 3
	buf, err := arena.New(3, spaces*size)
	require.NoError(t, err)

	for i := 0; i < spaces; i++ {
		s, err := buf.Allocate(size)
		require.NoError(t, err)
		require.Equal(t, i*size, s.Offset())
		require.Equal(t, size, s.Len())
	}
	require.Equal(t, spaces*size, buf.Active())

	_, err = buf.Allocate(size)
	require.ErrorIs(t, err, wferr.ErrBufferExhausted)
}

func TestReleaseAllowsReuse(t *testing.T) {
	buf, err := arena.New(3, 2)
	require.NoError(t, err)

	a, err := buf.Allocate(1)
	require.NoError(t, err)
	_, err = buf.Allocate(1)
	require.NoError(t, err)

	require.NoError(t, buf.Release(a))
	require.Equal(t, 1, buf.Active())

	c, err := buf.Allocate(1)
	require.NoError(t, err)
	require.Equal(t, 0, c.Offset())

	// The old handle stays dead although its slot is in use again.
	require.False(t, a.Valid())
	require.True(t, c.Valid())
	require.ErrorIs(t, buf.LoadIdentity(a, 0), wferr.ErrSpaceReleased)
	require.ErrorIs(t, buf.Release(a), wferr.ErrSpaceReleased)
}

func TestReleaseCoalesces(t *testing.T) {
	buf, err := arena.New(2, 6)
	require.NoError(t, err)

	a, _ := buf.Allocate(2)
	b, _ := buf.Allocate(2)
	c, _ := buf.Allocate(2)

	require.NoError(t, buf.Release(a))
	require.NoError(t, buf.Release(c))
	require.NoError(t, buf.Release(b))

	all, err := buf.Allocate(6)
	require.NoError(t, err)
	require.Equal(t, 0, all.Offset())
}

func TestSlotOutOfBounds(t *testing.T) {
	buf, err := arena.New(3, 4)
	require.NoError(t, err)
	s, err := buf.Allocate(2)
	require.NoError(t, err)

	require.ErrorIs(t, buf.LoadIdentity(s, 2), wferr.ErrSlotOutOfBounds)
	require.ErrorIs(t, buf.LoadIdentity(s, -1), wferr.ErrSlotOutOfBounds)
	_, err = buf.Read(s, 5)
	require.ErrorIs(t, err, wferr.ErrSlotOutOfBounds)
}

func TestZeroSpaceRejected(t *testing.T) {
	buf, err := arena.New(3, 1)
	require.NoError(t, err)
	require.ErrorIs(t, buf.LoadIdentity(arena.MemorySpace{}, 0), wferr.ErrSpaceReleased)
}

func TestWriteRead(t *testing.T) {
	buf, err := arena.New(3, 2)
	require.NoError(t, err)
	s, err := buf.Allocate(2)
	require.NoError(t, err)

	tr, err := linalg.Translation(linalg.Vec(1, 2, 3))
	require.NoError(t, err)
	require.NoError(t, buf.Write(s, 1, tr))

	got, err := buf.Read(s, 1)
	require.NoError(t, err)
	require.True(t, got.ApproxEqual(tr, 0))

	// Read returns a copy.
	got.Set(3, 0, 99)
	again, _ := buf.Read(s, 1)
	require.Equal(t, 1.0, again.At(3, 0))

	wrong, _ := linalg.Identity(4)
	require.ErrorIs(t, buf.Write(s, 0, wrong), wferr.ErrDimensionMismatch)
}

func TestMultiplyAcrossSpaces(t *testing.T) {
	buf, err := arena.New(3, 4)
	require.NoError(t, err)
	lhs, _ := buf.Allocate(1)
	rhs, _ := buf.Allocate(1)
	dst, _ := buf.Allocate(1)

	require.NoError(t, buf.LoadRotation(lhs, 0, 0, 1, math.Pi/2))
	require.NoError(t, buf.LoadTranslation(rhs, 0, linalg.Vec(0, 0, 5)))
	require.NoError(t, buf.Multiply(dst, 0, lhs, 0, rhs, 0))

	m, err := buf.Read(dst, 0)
	require.NoError(t, err)
	p, err := linalg.Vec(1, 0, 0).TransformPoint(m)
	require.NoError(t, err)
	require.True(t, p.ApproxEqual(linalg.Vec(0, 1, 5), 1e-12), "got %s", p)

	// Destination aliasing an operand.
	require.NoError(t, buf.Multiply(lhs, 0, lhs, 0, rhs, 0))
	aliased, _ := buf.Read(lhs, 0)
	require.True(t, aliased.ApproxEqual(m, 1e-12))
}

func TestMultiplyAcrossBuffers(t *testing.T) {
	local, err := arena.New(4, 2)
	require.NoError(t, err)
	shared, err := arena.New(4, 2)
	require.NoError(t, err)

	ls, _ := local.Allocate(2)
	gs, _ := shared.Allocate(1)

	require.NoError(t, local.LoadTranslation(ls, 0, linalg.Vec(1, 0, 0, 0)))
	require.NoError(t, local.LoadTranslation(ls, 1, linalg.Vec(0, 0, 0, 2)))
	require.NoError(t, shared.Multiply(gs, 0, ls, 0, ls, 1))

	m, _ := shared.Read(gs, 0)
	p, _ := linalg.Zero(4).TransformPoint(m)
	require.True(t, p.ApproxEqual(linalg.Vec(1, 0, 0, 2), 1e-12))

	// The destination must belong to the receiving buffer.
	require.ErrorIs(t, local.Multiply(gs, 0, ls, 0, ls, 1), wferr.ErrSlotOutOfBounds)

	other, _ := arena.New(3, 1)
	foreign, _ := other.Allocate(1)
	require.ErrorIs(t, shared.Copy(gs, 0, foreign, 0), wferr.ErrDimensionMismatch)
}

func TestSpacesDoNotOverlap(t *testing.T) {
	buf, err := arena.New(3, 3)
	require.NoError(t, err)
	a, _ := buf.Allocate(1)
	b, _ := buf.Allocate(1)
	c, _ := buf.Allocate(1)

	require.NoError(t, buf.LoadTranslation(a, 0, linalg.Vec(1, 0, 0)))
	require.NoError(t, buf.LoadTranslation(b, 0, linalg.Vec(0, 2, 0)))
	require.NoError(t, buf.LoadTranslation(c, 0, linalg.Vec(0, 0, 3)))

	require.NoError(t, buf.Release(a))
	d, err := buf.Allocate(1)
	require.NoError(t, err)
	require.NoError(t, buf.LoadIdentity(d, 0))

	bm, _ := buf.Read(b, 0)
	cm, _ := buf.Read(c, 0)
	require.Equal(t, 2.0, bm.At(3, 1))
	require.Equal(t, 3.0, cm.At(3, 2))
}

func TestFloat32sUpToHighWater(t *testing.T) {
	buf, err := arena.New(2, 4)
	require.NoError(t, err)
	require.Empty(t, buf.Float32s())

	a, _ := buf.Allocate(1)
	b, _ := buf.Allocate(1)
	require.NoError(t, buf.LoadIdentity(a, 0))
	require.NoError(t, buf.LoadIdentity(b, 0))
	require.Equal(t, 2, buf.HighWater())
	require.Len(t, buf.Float32s(), 2*linalg.Cells(2))

	require.NoError(t, buf.Release(b))
	require.Equal(t, 1, buf.HighWater())
	require.Equal(t, []float32{1, 0, 0, 0, 1, 0, 0, 0, 1}, buf.Float32s())
}

func TestNewValidates(t *testing.T) {
	_, err := arena.New(3, 0)
	require.ErrorIs(t, err, wferr.ErrInvalidRange)
	_, err = arena.New(0, 4)
	require.ErrorIs(t, err, wferr.ErrUnsupportedDimension)
}
