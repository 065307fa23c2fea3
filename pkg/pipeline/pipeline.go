// Package pipeline turns a frozen scene snapshot into screen-space
// vertices.
//
// # Architecture
//
// Every line endpoint goes through the same stages:
//
//  1. Model: the point, zero-padded to the scene dimension, is multiplied
//     by its geometry's model matrix.
//  2. Reduce: four-dimensional geometries pass through a pluggable
//     [visualize.Func]; others keep their first three components.
//  3. View and projection: the 3D point is multiplied by the camera's view
//     matrix and the perspective projection as one homogeneous product.
//  4. Divide: the result is divided by its w component once, unless w is
//     exactly zero.
//
// Colors are resolved from symbols to RGB in the same pass.
//
// # Usage
//
//	proj, err := pipeline.NewProjector(view, projection, colors, visualize.None)
//	if err != nil {
//	    return err
//	}
//	seq, err := proj.Project(models)
//	if err != nil {
//	    return err
//	}
//	for v := range seq {
//	    draw(v)
//	}
//
// The returned sequence is lazy and can be ranged over repeatedly with
// identical results.
package pipeline

import (
	"math"

	wferr "github.com/tesserapp/wireframe/pkg/errors"
	"github.com/tesserapp/wireframe/pkg/linalg"
	"github.com/tesserapp/wireframe/pkg/visualize"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultNear is the distance of the near clip plane.
	DefaultNear = 0.1

	// DefaultFar is the distance of the far clip plane.
	DefaultFar = 100.0

	// DefaultDistance is the initial camera orbit radius.
	DefaultDistance = 3.0

	// DefaultHorizontal is the initial camera azimuth.
	DefaultHorizontal = math.Pi / 3

	// DefaultVertical is the initial camera elevation.
	DefaultVertical = -math.Pi / 8

	// DefaultVisualizer is the default four-dimension strategy.
	DefaultVisualizer = "perspective"

	// DefaultFocal is the focal length of the perspective visualizer.
	DefaultFocal = 1.0
)

// Format constants for frame outputs.
const (
	FormatSVG   = "svg"
	FormatPNG   = "png"
	FormatJSON  = "json"
	FormatASCII = "txt"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:   true,
	FormatPNG:   true,
	FormatJSON:  true,
	FormatASCII: true,
}

// =============================================================================
// Options
// =============================================================================

// Options configures projection and four-dimension visualization.
type Options struct {
	Near       float64       `json:"near,omitempty"`
	Far        float64       `json:"far,omitempty"`
	Visualizer string        `json:"visualizer,omitempty"`
	Focal      float64       `json:"focal,omitempty"`
	Offset     linalg.Vector `json:"offset,omitempty"`
}

// ValidateAndSetDefaults fills zero fields with defaults and validates the
// result.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Near == 0 {
		o.Near = DefaultNear
	}
	if o.Far == 0 {
		o.Far = DefaultFar
	}
	if o.Visualizer == "" {
		o.Visualizer = DefaultVisualizer
	}
	if o.Focal == 0 {
		o.Focal = DefaultFocal
	}
	if o.Offset == nil {
		o.Offset = linalg.Vec(0.5, 0.5, 0)
	}
	if err := wferr.ValidateNearFar(o.Near, o.Far); err != nil {
		return err
	}
	_, err := o.VisualizerFunc()
	return err
}

// Projection returns the 3D perspective projection for o.
func (o Options) Projection() (*linalg.Matrix, error) {
	return linalg.Perspective(3, o.Near, o.Far)
}

// VisualizerFunc resolves the configured visualizer.
func (o Options) VisualizerFunc() (visualize.Func, error) {
	return visualize.ByName(o.Visualizer, visualize.Options{Focal: o.Focal, Offset: o.Offset})
}
