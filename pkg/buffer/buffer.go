// Package buffer provides the append-only float buffers that hold vertex
// attributes between frames.
package buffer

import (
	wferr "github.com/tesserapp/wireframe/pkg/errors"
)

// FloatBuffer is an append-only float32 buffer of fixed-size elements.
// [FloatBuffer.Rewind] resets the write cursor without releasing storage,
// so steady-state frames do not allocate. Storage doubles when full and
// never shrinks.
type FloatBuffer struct {
	elementSize int
	data        []float32
}

// NewFloatBuffer returns a buffer for elements of elementSize floats with
// room for capacity elements.
func NewFloatBuffer(elementSize, capacity int) (*FloatBuffer, error) {
	if elementSize < 1 {
		return nil, wferr.New(wferr.CodeInvalidRange, "element size must be positive (got %d)", elementSize)
	}
	if capacity < 0 {
		capacity = 0
	}
	return &FloatBuffer{
		elementSize: elementSize,
		data:        make([]float32, 0, elementSize*capacity),
	}, nil
}

// ElementSize returns the number of floats per element.
func (b *FloatBuffer) ElementSize() int { return b.elementSize }

// Append writes one element. It must have exactly ElementSize values.
func (b *FloatBuffer) Append(values ...float32) error {
	if len(values) != b.elementSize {
		return wferr.New(wferr.CodeDimensionMismatch,
			"element has %d floats, buffer expects %d", len(values), b.elementSize)
	}
	if len(b.data)+len(values) > cap(b.data) {
		grown := make([]float32, len(b.data), max(2*cap(b.data), len(b.data)+len(values), 8*b.elementSize))
		copy(grown, b.data)
		b.data = grown
	}
	b.data = append(b.data, values...)
	return nil
}

// Rewind moves the write cursor back to the start.
func (b *FloatBuffer) Rewind() { b.data = b.data[:0] }

// Len returns the number of elements written since the last rewind.
func (b *FloatBuffer) Len() int { return len(b.data) / b.elementSize }

// Cap returns the number of elements the buffer holds without growing.
func (b *FloatBuffer) Cap() int { return cap(b.data) / b.elementSize }

// Floats returns the written floats. The slice aliases the buffer and is
// only valid until the next Append or Rewind.
func (b *FloatBuffer) Floats() []float32 { return b.data }

// Copy returns a copy of the written floats.
func (b *FloatBuffer) Copy() []float32 {
	out := make([]float32, len(b.data))
	copy(out, b.data)
	return out
}

// Element returns element i of the written range.
func (b *FloatBuffer) Element(i int) ([]float32, error) {
	if i < 0 || i >= b.Len() {
		return nil, wferr.New(wferr.CodeSlotOutOfBounds, "element %d outside %d written", i, b.Len())
	}
	return b.data[i*b.elementSize : (i+1)*b.elementSize], nil
}
