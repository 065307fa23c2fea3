package render

import (
	"bytes"
	"fmt"
	"image"
	stdcolor "image/color"
	"image/draw"
	"image/png"
	"math"

	"golang.org/x/image/vector"

	"github.com/tesserapp/wireframe/pkg/pipeline"
)

// Image rasterizes the frame. Each line is filled as a quad of the stroke
// width.
func Image(f pipeline.Frame, opts ...Option) *image.RGBA {
	o := newOptions(opts)
	img := image.NewRGBA(image.Rect(0, 0, o.width, o.height))
	if o.background != nil {
		r, g, b := o.background.RGBA8()
		draw.Draw(img, img.Bounds(), image.NewUniform(stdcolor.RGBA{R: r, G: g, B: b, A: 0xff}), image.Point{}, draw.Src)
	}

	z := vector.NewRasterizer(o.width, o.height)
	half := o.strokeWidth / 2
	for s := range segments(f, o.width, o.height) {
		dx, dy := s.x2-s.x1, s.y2-s.y1
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		// Unit normal scaled to half the stroke width.
		nx, ny := -dy/length*half, dx/length*half

		z.Reset(o.width, o.height)
		z.DrawOp = draw.Over
		z.MoveTo(float32(s.x1+nx), float32(s.y1+ny))
		z.LineTo(float32(s.x2+nx), float32(s.y2+ny))
		z.LineTo(float32(s.x2-nx), float32(s.y2-ny))
		z.LineTo(float32(s.x1-nx), float32(s.y1-ny))
		z.ClosePath()

		r, g, b := s.color.RGBA8()
		src := image.NewUniform(stdcolor.RGBA{R: r, G: g, B: b, A: 0xff})
		z.Draw(img, img.Bounds(), src, image.Point{})
	}
	return img
}

// PNG renders the frame as a PNG image.
func PNG(f pipeline.Frame, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, Image(f, opts...)); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
