// Package visualize provides strategies for showing the fourth spatial
// axis of a point that is about to be drawn in three dimensions.
//
// A [Func] receives the point after its model transform, still in four
// (or more) dimensions, together with the default three-dimensional
// reduction (the first three components), and returns the 3D point to draw.
package visualize

import (
	"sort"

	wferr "github.com/tesserapp/wireframe/pkg/errors"
	"github.com/tesserapp/wireframe/pkg/linalg"
)

// Func maps a transformed 4D point to the 3D point that gets drawn. base
// holds the first three components of point.
type Func func(point, base linalg.Vector) linalg.Vector

// None discards the fourth axis.
func None(_, base linalg.Vector) linalg.Vector {
	return base
}

// Offset shifts each point along direction in proportion to its q
// coordinate, drawing the fourth axis as an oblique fourth direction.
func Offset(direction linalg.Vector) Func {
	dir := direction.Resize(3)
	return func(point, base linalg.Vector) linalg.Vector {
		q := point[3]
		return linalg.Vec(base[0]+dir[0]*q, base[1]+dir[1]*q, base[2]+dir[2]*q)
	}
}

// Perspective treats q as the distance from a viewer on the fourth axis
// and scales each point by focal/q, so points farther along q shrink. A
// point with q = 0 passes through unscaled.
func Perspective(focal float64) Func {
	return func(point, base linalg.Vector) linalg.Vector {
		q := point[3]
		if q == 0 {
			return base
		}
		return base.Scale(focal / q)
	}
}

// Options configures [ByName].
type Options struct {
	Focal  float64       // focal length for "perspective"
	Offset linalg.Vector // direction for "offset"
}

var names = map[string]func(Options) Func{
	"none":        func(Options) Func { return None },
	"offset":      func(o Options) Func { return Offset(o.Offset) },
	"perspective": func(o Options) Func { return Perspective(o.Focal) },
}

// ByName returns the strategy registered under name.
func ByName(name string, opts Options) (Func, error) {
	mk, ok := names[name]
	if !ok {
		return nil, wferr.New(wferr.CodeInvalidConfig, "unknown visualizer %q (want one of %v)", name, Names())
	}
	if name == "perspective" {
		if err := wferr.ValidatePositive("visualizer focal", opts.Focal); err != nil {
			return nil, err
		}
	}
	return mk(opts), nil
}

// Names returns the registered strategy names, sorted.
func Names() []string {
	out := make([]string, 0, len(names))
	for n := range names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
