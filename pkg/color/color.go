// Package color maps the symbolic colors geometries carry to concrete RGB
// values.
//
// Geometries never store concrete colors. Each line holds a [Symbol] such
// as [Accent] or [AxisX], and the projector resolves it through a
// [Resolver] at the moment vertices are produced, so a theme change only
// needs a new [Table].
package color

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	wferr "github.com/tesserapp/wireframe/pkg/errors"
)

// Symbol identifies a color role rather than a concrete color.
type Symbol string

// Built-in color roles.
const (
	Primary Symbol = "primary"
	Accent  Symbol = "accent"
	AxisX   Symbol = "x"
	AxisY   Symbol = "y"
	AxisZ   Symbol = "z"
	Grid    Symbol = "grid"
)

// Symbols lists the built-in roles in display order.
var Symbols = []Symbol{Primary, Accent, AxisX, AxisY, AxisZ, Grid}

// RGB is a color with channels in [0, 1].
type RGB struct {
	R, G, B float64
}

// Hex formats c as "#rrggbb".
func (c RGB) Hex() string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}

// RGBA8 returns c as 8-bit channels.
func (c RGB) RGBA8() (r, g, b uint8) {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().RGB255()
}

// Lerp blends c toward o by t in the perceptual Lab space.
func (c RGB) Lerp(o RGB, t float64) RGB {
	mixed := colorful.Color{R: c.R, G: c.G, B: c.B}.BlendLab(colorful.Color{R: o.R, G: o.G, B: o.B}, t).Clamped()
	return RGB{R: mixed.R, G: mixed.G, B: mixed.B}
}

// ParseHex parses "#rgb" or "#rrggbb".
func ParseHex(s string) (RGB, error) {
	c, err := colorful.Hex(strings.TrimSpace(s))
	if err != nil {
		return RGB{}, wferr.Wrap(wferr.CodeInvalidConfig, err, "invalid color %q", s)
	}
	return RGB{R: c.R, G: c.G, B: c.B}, nil
}

// Resolver turns a symbolic color into a concrete one.
type Resolver interface {
	Resolve(Symbol) RGB
}

// ResolverFunc adapts a function to [Resolver].
type ResolverFunc func(Symbol) RGB

// Resolve calls f.
func (f ResolverFunc) Resolve(s Symbol) RGB { return f(s) }

// Table is a [Resolver] backed by a map. Unknown symbols resolve to the
// table's Primary entry, or black if that is missing too.
type Table map[Symbol]RGB

// Resolve implements [Resolver].
func (t Table) Resolve(s Symbol) RGB {
	if c, ok := t[s]; ok {
		return c
	}
	return t[Primary]
}

// With returns a copy of t with s set to c.
func (t Table) With(s Symbol, c RGB) Table {
	out := make(Table, len(t)+1)
	for k, v := range t {
		out[k] = v
	}
	out[s] = c
	return out
}

// Keys returns the table's symbols sorted by name.
func (t Table) Keys() []Symbol {
	keys := make([]Symbol, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// DefaultTable returns the light theme used when no colors are configured.
func DefaultTable() Table {
	return Table{
		Primary: mustHex("#212121"),
		Accent:  mustHex("#ff5722"),
		AxisX:   mustHex("#e53935"),
		AxisY:   mustHex("#43a047"),
		AxisZ:   mustHex("#1e88e5"),
		Grid:    mustHex("#bdbdbd"),
	}
}

// ParseTable builds a table from symbol names to hex strings, starting
// from [DefaultTable].
func ParseTable(entries map[string]string) (Table, error) {
	t := DefaultTable()
	for name, hex := range entries {
		if name == "" {
			return nil, wferr.New(wferr.CodeInvalidConfig, "color name cannot be empty")
		}
		c, err := ParseHex(hex)
		if err != nil {
			return nil, fmt.Errorf("color %q: %w", name, err)
		}
		t[Symbol(name)] = c
	}
	return t, nil
}

func mustHex(s string) RGB {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}
