// Package control turns user input into the scalar values that drive
// geometry and camera transforms.
//
// A [Controller] binds a named value to a closed range and reports every
// change through a callback, the way a slider would. [Deltanizer] tracks
// the difference between consecutive values for consumers that apply
// increments, and [Smoothed] eases a value toward its target over time.
package control

import (
	"fmt"
	"math"

	wferr "github.com/tesserapp/wireframe/pkg/errors"
	"github.com/tesserapp/wireframe/pkg/linalg"
)

// Range is a closed interval [Min, Max].
type Range struct {
	Min, Max float64
}

// NewRange returns [min, max]. A range whose max is below its min is
// rejected with INVALID_RANGE.
func NewRange(min, max float64) (Range, error) {
	if err := wferr.ValidateRange("range", min, max); err != nil {
		return Range{}, err
	}
	return Range{Min: min, Max: max}, nil
}

// Span returns Max - Min.
func (r Range) Span() float64 { return r.Max - r.Min }

// Contains reports whether v lies inside r.
func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// Clamp limits v to r.
func (r Range) Clamp(v float64) float64 { return math.Max(r.Min, math.Min(r.Max, v)) }

// Mapped maps v linearly from one range onto another. A zero-width source
// range maps everything onto to.Min.
func Mapped(v float64, from, to Range) float64 {
	if from.Span() == 0 {
		return to.Min
	}
	return to.Min + (v-from.Min)/from.Span()*to.Span()
}

// Controller holds one named value inside a fixed range.
type Controller struct {
	name     string
	rng      Range
	step     float64
	value    float64
	onUpdate func(float64)
}

// NewController returns a controller for name over [min, max] starting at
// start. onUpdate, if non-nil, is called with the start value immediately
// and with every later change.
func NewController(name string, min, max, start, step float64, onUpdate func(float64)) (*Controller, error) {
	rng, err := NewRange(min, max)
	if err != nil {
		return nil, fmt.Errorf("controller %s: %w", name, err)
	}
	if !rng.Contains(start) {
		return nil, wferr.New(wferr.CodeInvalidRange, "controller %s: start value %g outside [%g, %g]", name, start, min, max)
	}
	c := &Controller{name: name, rng: rng, step: step, value: start, onUpdate: onUpdate}
	c.notify()
	return c, nil
}

// Name returns the controller's label.
func (c *Controller) Name() string { return c.name }

// Range returns the controller's bounds.
func (c *Controller) Range() Range { return c.rng }

// Value returns the current value.
func (c *Controller) Value() float64 { return c.value }

// Set moves the controller to v, clamped into range.
func (c *Controller) Set(v float64) {
	v = c.rng.Clamp(v)
	if v == c.value {
		return
	}
	c.value = v
	c.notify()
}

// Step moves the controller by n steps.
func (c *Controller) Step(n int) {
	c.Set(c.value + float64(n)*c.step)
}

// SetNormalized sets the value from a position t in [0, 1].
func (c *Controller) SetNormalized(t float64) {
	c.Set(Mapped(t, Range{0, 1}, c.rng))
}

// Normalized returns the value's position in [0, 1].
func (c *Controller) Normalized() float64 {
	return Mapped(c.value, c.rng, Range{0, 1})
}

// String formats the controller as "name  1.00".
func (c *Controller) String() string {
	return fmt.Sprintf("%s %s", c.name, linalg.FormatNumber(c.value))
}

func (c *Controller) notify() {
	if c.onUpdate != nil {
		c.onUpdate(c.value)
	}
}
