package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/blur"
)

// ShadowOptions configures the drop shadow drawn behind the canvas.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// DefaultShadowOptions returns a soft shadow suited to the editor backdrop.
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{
		Radius:  8,
		Offset:  image.Pt(4, 4),
		Opacity: 0.45,
	}
}

// DropShadow returns a blurred shadow layer for a canvas occupying r. The
// layer bounds share r's coordinate space: they are r grown by twice the
// radius and moved by the offset, so the caller can draw the layer at its own
// bounds before drawing the canvas. It returns nil when there is nothing to
// draw.
func DropShadow(r image.Rectangle, opts ShadowOptions) *image.RGBA {
	if r.Empty() || opts.Opacity <= 0 {
		return nil
	}
	opacity := opts.Opacity
	if opacity > 1 {
		opacity = 1
	}
	radius := opts.Radius
	if radius < 0 {
		radius = 0
	}
	pad := 2 * radius
	layer := image.NewRGBA(image.Rect(0, 0, r.Dx()+2*pad, r.Dy()+2*pad))
	body := image.Rect(pad, pad, pad+r.Dx(), pad+r.Dy())
	shade := color.RGBA{A: uint8(opacity*255 + 0.5)}
	draw.Draw(layer, body, image.NewUniform(shade), image.Point{}, draw.Src)
	if radius > 0 {
		layer = blur.Gaussian(layer, float64(radius))
	}
	origin := r.Min.Add(opts.Offset).Sub(image.Pt(pad, pad))
	return &image.RGBA{
		Pix:    layer.Pix,
		Stride: layer.Stride,
		Rect:   layer.Rect.Sub(layer.Rect.Min).Add(origin),
	}
}
