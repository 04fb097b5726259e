package appstate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// PaletteColor is a named swatch.
type PaletteColor struct {
	Name  string
	Color color.RGBA
}

var palette = []PaletteColor{
	{"Black", color.RGBA{0, 0, 0, 255}},
	{"White", color.RGBA{255, 255, 255, 255}},
	{"Red", color.RGBA{255, 0, 0, 255}},
	{"Lime", color.RGBA{0, 255, 0, 255}},
	{"Blue", color.RGBA{0, 0, 255, 255}},
	{"Yellow", color.RGBA{255, 255, 0, 255}},
	{"Cyan", color.RGBA{0, 255, 255, 255}},
	{"Magenta", color.RGBA{255, 0, 255, 255}},
	{"Maroon", color.RGBA{128, 0, 0, 255}},
	{"Green", color.RGBA{0, 128, 0, 255}},
	{"Navy", color.RGBA{0, 0, 128, 255}},
	{"Olive", color.RGBA{128, 128, 0, 255}},
	{"Teal", color.RGBA{0, 128, 128, 255}},
	{"Purple", color.RGBA{128, 0, 128, 255}},
	{"Silver", color.RGBA{192, 192, 192, 255}},
	{"Gray", color.RGBA{128, 128, 128, 255}},
}

// Palette returns the swatches shown under the canvas.
func Palette() []PaletteColor {
	return append([]PaletteColor(nil), palette...)
}

// paletteIndex returns the swatch holding c, or -1.
func paletteIndex(c color.RGBA) int {
	for i, p := range palette {
		if p.Color == c {
			return i
		}
	}
	return -1
}

// colorName is the swatch name of c, or its hex value.
func colorName(c color.RGBA) string {
	if i := paletteIndex(c); i >= 0 {
		return palette[i].Name
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

const (
	swatchSize = 14
	swatchStep = 16
)

// layoutSwatches places the palette left to right in the row above the
// status bar.
func layoutSwatches(height int) []image.Rectangle {
	rects := make([]image.Rectangle, len(palette))
	y := height - bottomHeight + (paletteHeight-swatchSize)/2
	for i := range palette {
		x := 4 + i*swatchStep
		rects[i] = image.Rect(x, y, x+swatchSize, y+swatchSize)
	}
	return rects
}

// drawPalette draws the swatch row. The drawing colour is framed and the
// background colour carries a corner mark.
func drawPalette(dst *image.RGBA, st *paintState) {
	row := image.Rect(0, st.height-bottomHeight, st.width, st.height-statusHeight)
	draw.Draw(dst, row, &image.Uniform{st.theme.StatusBackground}, image.Point{}, draw.Src)
	for i, r := range layoutSwatches(st.height) {
		draw.Draw(dst, r, &image.Uniform{palette[i].Color}, image.Point{}, draw.Src)
		if i == st.hoverSwatch {
			draw.Draw(dst, r, &image.Uniform{color.RGBA{255, 255, 255, 80}}, image.Point{}, draw.Over)
		}
		drawRect(dst, r, st.theme.StatusText)
		if palette[i].Color == st.color {
			drawRect(dst, r.Inset(-2), st.theme.Foreground)
		}
		if palette[i].Color == st.background {
			mark := image.Rect(r.Max.X-5, r.Max.Y-5, r.Max.X-1, r.Max.Y-1)
			draw.Draw(dst, mark, &image.Uniform{st.theme.StatusText}, image.Point{}, draw.Src)
		}
	}
}
