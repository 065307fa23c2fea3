package scene

import (
	"slices"

	wferr "github.com/tesserapp/wireframe/pkg/errors"
	"github.com/tesserapp/wireframe/pkg/geometry"
)

// computeLocked walks the hierarchy from every root in registration order
// and recomputes model matrices parents first. Every registered geometry
// must be reached and every reached geometry must be registered here.
func (m *Manager) computeLocked() error {
	members := make(map[*geometry.Geometry]bool, len(m.geometries))
	for _, g := range m.geometries {
		members[g] = false
	}

	var stack []*geometry.Geometry
	for _, root := range slices.Backward(m.geometries) {
		if root.Parent() == nil {
			stack = append(stack, root)
		}
	}
	for len(stack) > 0 {
		g := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		visited, ok := members[g]
		if !ok {
			return wferr.New(wferr.CodeNotRegistered, "geometry %q is reachable but not part of the scene", g.Name())
		}
		if visited {
			return wferr.New(wferr.CodeCycleDetected, "geometry %q reached twice", g.Name())
		}
		members[g] = true
		if err := g.ComputeModelMatrix(); err != nil {
			return err
		}
		for _, c := range slices.Backward(g.Children()) {
			stack = append(stack, c)
		}
	}

	for _, g := range m.geometries {
		if !members[g] {
			return wferr.New(wferr.CodeNotRegistered,
				"geometry %q has an ancestor that is not part of the scene", g.Name())
		}
	}
	return nil
}
