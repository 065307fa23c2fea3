package pipeline

import (
	"math"

	wferr "github.com/tesserapp/wireframe/pkg/errors"
	"github.com/tesserapp/wireframe/pkg/linalg"
)

// MaxElevation is the largest vertical orbit angle [Camera.Orbit] allows.
// At ±π/2 the view direction would be parallel to the up vector.
const MaxElevation = math.Pi/2 - 1e-3

// Camera orbits the origin on a sphere. Horizontal is the azimuth and
// Vertical the elevation, both in radians; AspectRatio is viewport width
// over height.
type Camera struct {
	Distance    float64 `json:"distance"`
	Horizontal  float64 `json:"horizontal"`
	Vertical    float64 `json:"vertical"`
	AspectRatio float64 `json:"aspect_ratio"`
}

// DefaultCamera returns the camera the viewer starts with.
func DefaultCamera() Camera {
	return Camera{
		Distance:    DefaultDistance,
		Horizontal:  DefaultHorizontal,
		Vertical:    DefaultVertical,
		AspectRatio: 1,
	}
}

// Validate checks that distance and aspect ratio are positive.
func (c Camera) Validate() error {
	if err := wferr.ValidatePositive("camera distance", c.Distance); err != nil {
		return err
	}
	return wferr.ValidatePositive("aspect ratio", c.AspectRatio)
}

// Eye returns the camera position.
func (c Camera) Eye() linalg.Vector {
	sinV, cosV := math.Sincos(c.Vertical)
	sinH, cosH := math.Sincos(c.Horizontal)
	return linalg.Vec(
		c.Distance*cosV*cosH,
		c.Distance*sinV,
		c.Distance*cosV*sinH,
	)
}

// View returns the view matrix: a look-at toward the origin with +Y up,
// followed by a vertical stretch by the aspect ratio.
func (c Camera) View() (*linalg.Matrix, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	look, err := linalg.LookAt(c.Eye(), linalg.Zero(3), linalg.Vec(0, 1, 0))
	if err != nil {
		return nil, err
	}
	stretch, err := linalg.Scale(linalg.Vec(1, c.AspectRatio, 1))
	if err != nil {
		return nil, err
	}
	return look.Mul(stretch)
}

// Orbit returns the camera moved along its sphere. The elevation is
// clamped to ±MaxElevation.
func (c Camera) Orbit(dh, dv float64) Camera {
	c.Horizontal = math.Mod(c.Horizontal+dh, 2*math.Pi)
	c.Vertical = math.Max(-MaxElevation, math.Min(MaxElevation, c.Vertical+dv))
	return c
}

// Zoom returns the camera with its distance multiplied by factor.
func (c Camera) Zoom(factor float64) Camera {
	if factor > 0 {
		c.Distance *= factor
	}
	return c
}
