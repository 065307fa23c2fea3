package linalg

import (
	"math"
	"strconv"
)

// FormatNumber renders f with two decimals and a leading space in place of
// the sign for non-negative values, so columns of numbers line up. Values
// that round to zero print as " 0.00" regardless of sign.
func FormatNumber(f float64) string {
	s := strconv.FormatFloat(f, 'f', 2, 64)
	if s == "-0.00" || (f == 0 && math.Signbit(f)) {
		s = "0.00"
	}
	if s[0] != '-' {
		s = " " + s
	}
	return s
}
