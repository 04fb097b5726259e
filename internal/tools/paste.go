package tools

import (
	"image"

	"github.com/anthonynsimon/bild/clone"
	"golang.org/x/mobile/event/key"

	"github.com/example/rasterpad/internal/geom"
	"github.com/example/rasterpad/internal/render"
)

// Paste is a closed region holding an image from the clipboard. It starts
// at the canvas origin at its natural size.
type Paste struct {
	base
	Region
	img *image.RGBA
}

// NewPaste wraps a copy of img rebased to a zero origin.
func NewPaste(img image.Image, st Style) *Paste {
	c := clone.AsRGBA(img)
	c.Rect = c.Rect.Sub(c.Rect.Min)
	p := &Paste{img: c}
	p.SetStyle(st)
	b := c.Bounds()
	p.Src = geom.R(0, 0, float64(b.Dx()), float64(b.Dy()))
	p.Dst = p.Src
	p.Closed = true
	return p
}

func (p *Paste) Kind() Kind { return KindPaste }

// Image returns the pasted pixels.
func (p *Paste) Image() *image.RGBA { return p.img }

func (p *Paste) outline() *render.Path {
	path := render.NewPath()
	path.Rectangle(geom.RectAt(geom.Point{}, float64(p.img.Rect.Dx()), float64(p.img.Rect.Dy())))
	return path
}

func (p *Paste) PointerDown(pt geom.Point, _ key.Modifiers) {
	p.grab(p.outline(), p.HasLiveSelection(), pt)
}

func (p *Paste) PointerMove(pt geom.Point, mods key.Modifiers) { p.drag(pt, mods) }
func (p *Paste) PointerUp(geom.Point, key.Modifiers) { p.drop() }

func (p *Paste) KeyDown(e key.Event) KeyResult { return cancelKey(p.HasLiveSelection(), e) }

func (p *Paste) HasLiveSelection() bool { return p.Closed }
func (p *Paste) IsRegionTool() bool { return true }
func (p *Paste) HasAnimation() bool { return p.Closed }
func (p *Paste) Empty() bool { return p.img.Rect.Empty() }

func (p *Paste) Contains(pt geom.Point) bool { return p.within(p.outline(), pt) }

func (p *Paste) CursorFor(pt geom.Point, pressed bool) Cursor {
	return p.cursor(p.outline(), p.Closed, pt, pressed, CursorCross)
}

// Paint places the image through the region transform. Unlike a moved
// selection nothing underneath is cleared.
func (p *Paste) Paint(t *Target) {
	if a := p.Transform(); !a.Degenerate() {
		outline := p.outline()
		t.Canvas.Paint(p.img, a, outline.Transform(a), p.style.Antialias)
	}
	p.paintMarquee(t, p.outline(), p.style.Antialias)
}

func (p *Paste) Copy(*image.RGBA) Clip { return Clip{Image: clone.AsRGBA(p.img)} }

// Cut hands the image back and drops the paste.
func (p *Paste) Cut(src *image.RGBA) (Clip, bool) {
	c := p.Copy(src)
	p.Closed = false
	return c, false
}
