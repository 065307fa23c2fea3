package geometry

import (
	"slices"

	wferr "github.com/tesserapp/wireframe/pkg/errors"
)

// Parent returns the parent geometry, or nil for a root.
func (g *Geometry) Parent() *Geometry { return g.parent }

// Children returns the direct children in attachment order.
func (g *Geometry) Children() []*Geometry { return slices.Clone(g.children) }

// IsAncestorOf reports whether g is o or one of o's ancestors.
func (g *Geometry) IsAncestorOf(o *Geometry) bool {
	for p := o; p != nil; p = p.parent {
		if p == g {
			return true
		}
	}
	return false
}

// AddToParent attaches g below p, detaching it from its current parent
// first. Attaching below g itself or one of g's descendants fails with
// CYCLE_DETECTED and leaves the hierarchy unchanged.
func (g *Geometry) AddToParent(p *Geometry) error {
	if err := g.requireRegistered(); err != nil {
		return err
	}
	if p == nil {
		return wferr.New(wferr.CodeInvalidRange, "geometry %q: parent is nil", g.name)
	}
	if g.IsAncestorOf(p) {
		return wferr.New(wferr.CodeCycleDetected, "geometry %q cannot become a child of %q", g.name, p.name)
	}
	if g.parent == p {
		return nil
	}

	old := g.parent
	g.detach()
	g.parent = p
	p.children = append(p.children, g)
	g.raiseHierarchy(old, p)
	return nil
}

// ReleaseFromParent makes g a root again.
func (g *Geometry) ReleaseFromParent() error {
	if err := g.requireRegistered(); err != nil {
		return err
	}
	if g.parent == nil {
		return nil
	}
	old := g.parent
	g.detach()
	g.raiseHierarchy(old)
	return nil
}

// ReleaseChildren detaches every direct child, turning each into a root.
func (g *Geometry) ReleaseChildren() {
	if len(g.children) == 0 {
		return
	}
	_ = g.Batch(func() error {
		children := g.children
		g.children = nil
		for _, c := range children {
			c.parent = nil
			c.raiseHierarchy(g)
		}
		return nil
	})
}

// ForEach calls fn for g and its descendants in pre-order, stopping at the
// first error.
func (g *Geometry) ForEach(fn func(*Geometry) error) error {
	if err := fn(g); err != nil {
		return err
	}
	for _, c := range g.children {
		if err := c.ForEach(fn); err != nil {
			return err
		}
	}
	return nil
}

func (g *Geometry) detach() {
	if g.parent == nil {
		return
	}
	g.parent.children = slices.DeleteFunc(g.parent.children, func(c *Geometry) bool { return c == g })
	g.parent = nil
}

// raiseHierarchy reports a hierarchy change on g's notifier and on the
// distinct notifiers of the other geometries involved.
func (g *Geometry) raiseHierarchy(others ...*Geometry) {
	notified := []*Notifier{g.events}
	for _, o := range others {
		if o == nil || slices.Contains(notified, o.events) {
			continue
		}
		notified = append(notified, o.events)
	}
	for _, n := range notified {
		n.Raise(HierarchyChanged)
	}
}
