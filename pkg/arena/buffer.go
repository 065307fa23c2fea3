// Package arena stores homogeneous matrices in one flat, fixed-capacity
// float buffer and hands out disjoint slot ranges as [MemorySpace] handles.
//
// A Buffer of dimension D and capacity N holds N matrices of (D+1)² floats
// each, contiguously, so the whole model-matrix table can be uploaded or
// serialized in one piece (see [Buffer.Float32s]). Owners allocate a space,
// address matrices inside it by slot index, and release the space when
// they are done:
//
//	buf, _ := arena.New(4, 64)
//	space, _ := buf.Allocate(1)
//	_ = buf.LoadIdentity(space, 0)
//	...
//	_ = buf.Release(space)
//
// Allocation is first-fit over a free list sorted by offset; released
// ranges coalesce with their neighbours. A released handle is dead: every
// later use fails with SPACE_RELEASED, even after its slots are reused.
//
// A Buffer is not safe for concurrent use; the scene manager serializes
// access.
package arena

import (
	"sort"

	wferr "github.com/tesserapp/wireframe/pkg/errors"
	"github.com/tesserapp/wireframe/pkg/linalg"
)

// MemorySpace is a handle to a contiguous slot range inside a Buffer. The
// zero value refers to no buffer.
type MemorySpace struct {
	buf    *Buffer
	offset int
	length int
	gen    uint64
}

// Offset returns the index of the first slot in the owning buffer.
func (s MemorySpace) Offset() int { return s.offset }

// Len returns the number of slots in the space.
func (s MemorySpace) Len() int { return s.length }

// Buffer returns the buffer the space was allocated from, or nil.
func (s MemorySpace) Buffer() *Buffer { return s.buf }

// Valid reports whether the space is still allocated.
func (s MemorySpace) Valid() bool {
	if s.buf == nil {
		return false
	}
	a, ok := s.buf.live[s.offset]
	return ok && a.gen == s.gen && a.length == s.length
}

type span struct {
	offset int
	length int
}

type allocation struct {
	length int
	gen    uint64
}

// Buffer is a fixed-capacity arena of dim-dimensional matrices.
type Buffer struct {
	dim      int
	cells    int
	capacity int
	data     []float64

	free    []span // sorted by offset, never adjacent
	live    map[int]allocation
	nextGen uint64
	active  int
}

// New returns a buffer for capacity matrices of the given dimension.
func New(dim, capacity int) (*Buffer, error) {
	if _, err := linalg.New(dim); err != nil {
		return nil, err
	}
	if capacity < 1 {
		return nil, wferr.New(wferr.CodeInvalidRange, "buffer capacity must be positive (got %d)", capacity)
	}
	cells := linalg.Cells(dim)
	return &Buffer{
		dim:      dim,
		cells:    cells,
		capacity: capacity,
		data:     make([]float64, capacity*cells),
		free:     []span{{offset: 0, length: capacity}},
		live:     make(map[int]allocation),
	}, nil
}

// Dim returns the matrix dimension.
func (b *Buffer) Dim() int { return b.dim }

// Capacity returns the number of matrix slots.
func (b *Buffer) Capacity() int { return b.capacity }

// Active returns the number of allocated slots.
func (b *Buffer) Active() int { return b.active }

// Spaces returns the number of live memory spaces.
func (b *Buffer) Spaces() int { return len(b.live) }

// HighWater returns one past the last allocated slot, or 0 when nothing is
// allocated. Consumers that upload the table read this many matrices.
func (b *Buffer) HighWater() int {
	hw := 0
	for off, a := range b.live {
		if end := off + a.length; end > hw {
			hw = end
		}
	}
	return hw
}

// Allocate reserves slots consecutive matrix slots.
func (b *Buffer) Allocate(slots int) (MemorySpace, error) {
	if slots < 1 {
		return MemorySpace{}, wferr.New(wferr.CodeInvalidRange, "cannot allocate %d slots", slots)
	}
	for i, f := range b.free {
		if f.length < slots {
			continue
		}
		offset := f.offset
		if f.length == slots {
			b.free = append(b.free[:i], b.free[i+1:]...)
		} else {
			b.free[i] = span{offset: f.offset + slots, length: f.length - slots}
		}
		b.nextGen++
		b.live[offset] = allocation{length: slots, gen: b.nextGen}
		b.active += slots
		clear(b.data[offset*b.cells : (offset+slots)*b.cells])
		return MemorySpace{buf: b, offset: offset, length: slots, gen: b.nextGen}, nil
	}
	return MemorySpace{}, wferr.New(wferr.CodeBufferExhausted,
		"no room for %d slots (%d of %d in use)", slots, b.active, b.capacity)
}

// Release returns the space's slots to the free list. The handle (and any
// copy of it) is invalid afterwards.
func (b *Buffer) Release(s MemorySpace) error {
	if err := b.owns(s); err != nil {
		return err
	}
	delete(b.live, s.offset)
	b.active -= s.length

	i := sort.Search(len(b.free), func(i int) bool { return b.free[i].offset > s.offset })
	b.free = append(b.free, span{})
	copy(b.free[i+1:], b.free[i:])
	b.free[i] = span{offset: s.offset, length: s.length}

	// Merge with the following and preceding ranges.
	if i+1 < len(b.free) && b.free[i].offset+b.free[i].length == b.free[i+1].offset {
		b.free[i].length += b.free[i+1].length
		b.free = append(b.free[:i+1], b.free[i+2:]...)
	}
	if i > 0 && b.free[i-1].offset+b.free[i-1].length == b.free[i].offset {
		b.free[i-1].length += b.free[i].length
		b.free = append(b.free[:i], b.free[i+1:]...)
	}
	return nil
}

// Float32s returns a float32 copy of all matrices up to the high-water
// slot, in slot order.
func (b *Buffer) Float32s() []float32 {
	n := b.HighWater() * b.cells
	out := make([]float32, n)
	for i, f := range b.data[:n] {
		out[i] = float32(f)
	}
	return out
}

// owns checks that s is a live space of this buffer.
func (b *Buffer) owns(s MemorySpace) error {
	if s.buf != b {
		if s.buf == nil {
			return wferr.New(wferr.CodeSpaceReleased, "memory space was never allocated")
		}
		return wferr.New(wferr.CodeSlotOutOfBounds, "memory space belongs to another buffer")
	}
	if !s.Valid() {
		return wferr.New(wferr.CodeSpaceReleased, "memory space at offset %d was released", s.offset)
	}
	return nil
}
