package arena

import (
	wferr "github.com/tesserapp/wireframe/pkg/errors"
	"github.com/tesserapp/wireframe/pkg/linalg"
)

// matrix returns a view over slot of s. s may belong to any buffer.
func (s MemorySpace) matrix(slot int) (*linalg.Matrix, error) {
	if s.buf == nil {
		return nil, wferr.New(wferr.CodeSpaceReleased, "memory space was never allocated")
	}
	if !s.Valid() {
		return nil, wferr.New(wferr.CodeSpaceReleased, "memory space at offset %d was released", s.offset)
	}
	if slot < 0 || slot >= s.length {
		return nil, wferr.New(wferr.CodeSlotOutOfBounds, "slot %d outside space of %d", slot, s.length)
	}
	b := s.buf
	start := (s.offset + slot) * b.cells
	return linalg.View(b.dim, b.data[start:start+b.cells])
}

// target resolves a destination slot, which must belong to b.
func (b *Buffer) target(s MemorySpace, slot int) (*linalg.Matrix, error) {
	if err := b.owns(s); err != nil {
		return nil, err
	}
	return s.matrix(slot)
}

// source resolves an operand slot from any buffer of b's dimension.
func (b *Buffer) source(s MemorySpace, slot int) (*linalg.Matrix, error) {
	m, err := s.matrix(slot)
	if err != nil {
		return nil, err
	}
	if m.Dim() != b.dim {
		return nil, wferr.New(wferr.CodeDimensionMismatch,
			"operand is %dD, buffer is %dD", m.Dim(), b.dim)
	}
	return m, nil
}

// Write copies m into slot of s.
func (b *Buffer) Write(s MemorySpace, slot int, m *linalg.Matrix) error {
	dst, err := b.target(s, slot)
	if err != nil {
		return err
	}
	return dst.CopyFrom(m)
}

// Read returns a copy of the matrix stored in slot of s.
func (b *Buffer) Read(s MemorySpace, slot int) (*linalg.Matrix, error) {
	m, err := b.target(s, slot)
	if err != nil {
		return nil, err
	}
	return m.Clone(), nil
}

// Multiply stores lhs · rhs into dstSlot of dst. The operands may live in
// other spaces, including spaces of other buffers of the same dimension,
// and may alias the destination.
func (b *Buffer) Multiply(dst MemorySpace, dstSlot int, lhs MemorySpace, lhsSlot int, rhs MemorySpace, rhsSlot int) error {
	out, err := b.target(dst, dstSlot)
	if err != nil {
		return err
	}
	l, err := b.source(lhs, lhsSlot)
	if err != nil {
		return err
	}
	r, err := b.source(rhs, rhsSlot)
	if err != nil {
		return err
	}
	return linalg.MulTo(out, l, r)
}

// Copy copies the matrix at srcSlot of src into dstSlot of dst.
func (b *Buffer) Copy(dst MemorySpace, dstSlot int, src MemorySpace, srcSlot int) error {
	out, err := b.target(dst, dstSlot)
	if err != nil {
		return err
	}
	in, err := b.source(src, srcSlot)
	if err != nil {
		return err
	}
	return out.CopyFrom(in)
}

// LoadIdentity writes the identity into slot of s.
func (b *Buffer) LoadIdentity(s MemorySpace, slot int) error {
	m, err := b.target(s, slot)
	if err != nil {
		return err
	}
	m.LoadIdentity()
	return nil
}

// LoadRotation writes a rotation by phi in the (a, c) plane into slot of s.
func (b *Buffer) LoadRotation(s MemorySpace, slot, a, c int, phi float64) error {
	m, err := b.target(s, slot)
	if err != nil {
		return err
	}
	return m.LoadRotation(a, c, phi)
}

// LoadTranslation writes a translation by t into slot of s.
func (b *Buffer) LoadTranslation(s MemorySpace, slot int, t linalg.Vector) error {
	m, err := b.target(s, slot)
	if err != nil {
		return err
	}
	return m.LoadTranslation(t)
}
