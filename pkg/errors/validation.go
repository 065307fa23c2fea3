package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateRange checks that min <= max for a mapped control range.
func ValidateRange(name string, min, max float64) error {
	if math.IsNaN(min) || math.IsNaN(max) {
		return New(CodeInvalidRange, "%s: range bounds must be numbers", name)
	}
	if max < min {
		return New(CodeInvalidRange, "%s: max (%g) is smaller than min (%g)", name, max, min)
	}
	return nil
}

// ValidateNearFar checks the clip planes of a perspective projection.
// Both must be finite and 0 < near < far.
func ValidateNearFar(near, far float64) error {
	if math.IsNaN(near) || math.IsNaN(far) || math.IsInf(near, 0) || math.IsInf(far, 0) {
		return New(CodeInvalidRange, "clip planes must be finite (near=%g, far=%g)", near, far)
	}
	if near <= 0 {
		return New(CodeInvalidRange, "near plane must be positive (got %g)", near)
	}
	if far <= near {
		return New(CodeInvalidRange, "far plane (%g) must be beyond near plane (%g)", far, near)
	}
	return nil
}

// ValidatePositive checks that a named scalar is finite and strictly positive.
func ValidatePositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return New(CodeInvalidRange, "%s must be a positive number (got %g)", name, v)
	}
	return nil
}

// ValidateGeometryName validates a geometry display name.
//
// Names are shown in terminals and embedded in DOT and SVG output, so
// the rules are conservative:
//   - No empty names
//   - No control characters
//   - No double quotes
//   - Maximum length of 128 characters
func ValidateGeometryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(CodeInvalidConfig, "geometry name cannot be empty")
	}

	if len(name) > 128 {
		return New(CodeInvalidConfig, "geometry name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(CodeInvalidConfig, "geometry name contains invalid control characters")
		}
	}

	if strings.Contains(name, `"`) {
		return New(CodeInvalidConfig, "geometry name cannot contain double quotes")
	}

	return nil
}
