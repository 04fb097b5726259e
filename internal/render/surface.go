package render

import (
	"image"
	"image/color"
	"image/draw"
)

// Flatten returns a copy of src composited over an opaque bg.
func Flatten(src image.Image, bg color.RGBA) *image.RGBA {
	bg.A = 0xff
	b := src.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(out, b, src, b.Min, draw.Over)
	return out
}

// KeyOut clears, in place, every opaque pixel whose colour equals bg.
func KeyOut(img *image.RGBA, bg color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		row := img.Pix[i : i+4*b.Dx() : i+4*b.Dx()]
		for x := 0; x < len(row); x += 4 {
			if row[x+3] == 0xff && row[x] == bg.R && row[x+1] == bg.G && row[x+2] == bg.B {
				row[x], row[x+1], row[x+2], row[x+3] = 0, 0, 0, 0
			}
		}
	}
}
