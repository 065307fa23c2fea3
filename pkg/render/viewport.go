package render

import (
	"iter"

	"github.com/tesserapp/wireframe/pkg/color"
	"github.com/tesserapp/wireframe/pkg/pipeline"
)

// Default raster settings.
const (
	DefaultWidth       = 800
	DefaultHeight      = 800
	DefaultStrokeWidth = 1.5
)

// Option configures the raster sinks ([SVG], [PNG], [ASCII]).
type Option func(*options)

type options struct {
	width, height int
	strokeWidth   float64
	background    *color.RGB
}

// WithSize sets the output size in pixels (cells for [ASCII]).
func WithSize(width, height int) Option {
	return func(o *options) {
		if width > 0 && height > 0 {
			o.width, o.height = width, height
		}
	}
}

// WithStrokeWidth sets the line width in pixels.
func WithStrokeWidth(w float64) Option {
	return func(o *options) {
		if w > 0 {
			o.strokeWidth = w
		}
	}
}

// WithBackground fills the output with c. Outputs are transparent
// otherwise.
func WithBackground(c color.RGB) Option {
	return func(o *options) { o.background = &c }
}

func newOptions(opts []Option) options {
	o := options{width: DefaultWidth, height: DefaultHeight, strokeWidth: DefaultStrokeWidth}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// segment is a line in raster coordinates.
type segment struct {
	x1, y1, x2, y2 float64
	color          color.RGB
	symbol         color.Symbol
}

// toRaster maps normalized device coordinates to a w×h raster with y
// pointing down.
func toRaster(p [3]float64, w, h int) (x, y float64) {
	x = (p[0] + 1) / 2 * float64(w)
	y = (1 - p[1]) / 2 * float64(h)
	return x, y
}

func visible(p [3]float64) bool {
	return p[2] >= 0 && p[2] <= 1
}

// segments yields the frame's drawable lines in frame order.
func segments(f pipeline.Frame, w, h int) iter.Seq[segment] {
	return func(yield func(segment) bool) {
		for a, b := range f.Lines() {
			if !visible(a.Position) || !visible(b.Position) {
				continue
			}
			x1, y1 := toRaster(a.Position, w, h)
			x2, y2 := toRaster(b.Position, w, h)
			// A line takes the color of its first endpoint; both share it.
			if !yield(segment{x1, y1, x2, y2, a.Color, a.Symbol}) {
				return
			}
		}
	}
}
