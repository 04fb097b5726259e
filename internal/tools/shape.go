package tools

import (
	"math"

	"golang.org/x/mobile/event/key"

	"github.com/example/rasterpad/internal/geom"
	"github.com/example/rasterpad/internal/render"
)

// ShapeSpec is a press anchor and the signed drag extent from it.
type ShapeSpec struct {
	Origin geom.Point
	W, H   float64
}

func (s *ShapeSpec) press(p geom.Point) {
	s.Origin = p
	s.W, s.H = 0, 0
}

// drag sets the extent to p, optionally constrained.
func (s *ShapeSpec) drag(p geom.Point, lock, hv bool) {
	d := p.Sub(s.Origin)
	s.W, s.H = d.X, d.Y
	if lock {
		s.W, s.H = geom.Constrain(s.W, s.H, hv)
	}
}

// Box returns the rectangle spanned by the shape, not axis ordered.
func (s *ShapeSpec) Box() geom.Rect { return geom.RectAt(s.Origin, s.W, s.H) }

// Line is a straight segment. Shift snaps it horizontal, vertical or to 45°.
type Line struct {
	base
	ShapeSpec
}

func (l *Line) Kind() Kind { return KindLine }

func (l *Line) PointerDown(p geom.Point, _ key.Modifiers) { l.press(p) }
func (l *Line) PointerMove(p geom.Point, mods key.Modifiers) { l.drag(p, shift(mods), true) }

func (l *Line) Empty() bool { return l.W == 0 && l.H == 0 }

func (l *Line) Paint(t *Target) {
	if l.Empty() {
		return
	}
	path := render.NewPath()
	path.MoveTo(l.Origin)
	path.LineTo(l.Box().Max)
	t.Canvas.Stroke(path, l.pen())
}

// Rectangle is an outlined box. Shift makes it square.
type Rectangle struct {
	base
	ShapeSpec
}

func (r *Rectangle) Kind() Kind { return KindRectangle }

func (r *Rectangle) PointerDown(p geom.Point, _ key.Modifiers) { r.press(p) }
func (r *Rectangle) PointerMove(p geom.Point, mods key.Modifiers) { r.drag(p, shift(mods), false) }

func (r *Rectangle) Empty() bool { return r.W == 0 || r.H == 0 }

func (r *Rectangle) Paint(t *Target) {
	if r.Empty() {
		return
	}
	path := render.NewPath()
	path.Rectangle(r.Box())
	t.Canvas.Stroke(path, r.pen())
}

// Oval is an ellipse inscribed in the dragged box. Shift makes it a circle.
type Oval struct {
	base
	ShapeSpec
}

func (o *Oval) Kind() Kind { return KindOval }

func (o *Oval) PointerDown(p geom.Point, _ key.Modifiers) { o.press(p) }
func (o *Oval) PointerMove(p geom.Point, mods key.Modifiers) { o.drag(p, shift(mods), false) }

func (o *Oval) Empty() bool { return o.W == 0 || o.H == 0 }

// Paint scales a unit circle onto the box. Only the outline is scaled; the
// pen width stays as set.
func (o *Oval) Paint(t *Target) {
	if o.Empty() {
		return
	}
	unit := render.NewPath()
	unit.Circle(geom.Point{}, 1)
	toBox := geom.Affine{
		SX: math.Abs(o.W) / 2,
		SY: math.Abs(o.H) / 2,
		TX: o.Origin.X + o.W/2,
		TY: o.Origin.Y + o.H/2,
	}
	t.Canvas.Stroke(unit.Transform(toBox), o.pen())
}
