package tools

import (
	"image/color"

	"github.com/anthonynsimon/bild/paint"
	"golang.org/x/mobile/event/key"

	"github.com/example/rasterpad/internal/geom"
	"github.com/example/rasterpad/internal/render"
)

// FloodFill recolours the connected area of exactly matching pixels under
// the release point.
type FloodFill struct {
	base
	Seed    geom.Point
	clicked bool
}

func (f *FloodFill) Kind() Kind { return KindFloodFill }

func (f *FloodFill) PointerUp(p geom.Point, _ key.Modifiers) {
	f.Seed = p
	f.clicked = true
}

func (f *FloodFill) Empty() bool { return !f.clicked }

// Paint fills on the source flattened over the background. In transparent
// mode pixels left in the background colour become transparent again.
func (f *FloodFill) Paint(t *Target) {
	if !f.clicked {
		return
	}
	seed := f.Seed.Image()
	if !seed.In(t.Source.Bounds()) {
		return
	}
	flat := render.Flatten(t.Source, t.Background)
	c := f.style.Color
	filled := paint.FloodFill(flat, seed, color.RGBA{c.R, c.G, c.B, 0xff}, 0)
	if t.Transparent {
		render.KeyOut(filled, t.Background)
	}
	t.Canvas.Replace(filled)
}
