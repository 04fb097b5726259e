package tools

import (
	"golang.org/x/mobile/event/key"

	"github.com/example/rasterpad/internal/geom"
	"github.com/example/rasterpad/internal/render"
)

// Stroke is a freehand pointer trace with the Bézier control points that
// smooth it. Each sample after the second adds the pair of control points
// around the sample before it; earlier control points never change.
type Stroke struct {
	Points   []geom.Point
	Controls []geom.Point
}

// Add appends p and reports whether it was kept. A repeat of the last sample
// is dropped.
func (s *Stroke) Add(p geom.Point) bool {
	n := len(s.Points)
	if n > 0 && s.Points[n-1] == p {
		return false
	}
	s.Points = append(s.Points, p)
	if n < 2 {
		return true
	}
	d := p.Sub(s.Points[n-2]).Div(6)
	prev := s.Points[n-1]
	s.Controls = append(s.Controls, prev.Sub(d), prev.Add(d))
	return true
}

// Len returns the number of samples.
func (s *Stroke) Len() int { return len(s.Points) }

// Path builds the smoothed outline. Fewer than three samples give a plain
// polyline, and a single sample a closed dot.
func (s *Stroke) Path() *render.Path {
	path := render.NewPath()
	pts, cps := s.Points, s.Controls
	n := len(pts)
	switch {
	case n == 0:
	case n < 3:
		for _, p := range pts {
			path.LineTo(p)
		}
		if n == 1 {
			path.Close()
		}
	default:
		path.MoveTo(pts[0])
		path.CubicTo(cps[0], cps[0], pts[1])
		for i := 2; i < n-1; i++ {
			path.CubicTo(cps[2*i-3], cps[2*i-2], pts[i])
		}
		last := cps[len(cps)-1]
		path.CubicTo(last, last, pts[n-1])
	}
	return path
}

// Pencil draws a smoothed freehand line in the tool colour.
type Pencil struct {
	base
	Stroke Stroke
}

func (p *Pencil) Kind() Kind { return KindPencil }

func (p *Pencil) PointerDown(pt geom.Point, _ key.Modifiers) { p.Stroke.Add(pt) }
func (p *Pencil) PointerMove(pt geom.Point, _ key.Modifiers) { p.Stroke.Add(pt) }

func (p *Pencil) CursorFor(geom.Point, bool) Cursor { return CursorPencil }

func (p *Pencil) Empty() bool { return p.Stroke.Len() == 0 }

func (p *Pencil) Paint(t *Target) {
	if p.Empty() {
		return
	}
	t.Canvas.Stroke(p.Stroke.Path(), p.pen())
}

// Eraser paints the same smoothed path as the pencil in the background
// colour, eight times wider and square capped, replacing what is beneath.
type Eraser struct {
	base
	Stroke Stroke
}

func (e *Eraser) Kind() Kind { return KindEraser }

func (e *Eraser) PointerDown(pt geom.Point, _ key.Modifiers) { e.Stroke.Add(pt) }
func (e *Eraser) PointerMove(pt geom.Point, _ key.Modifiers) { e.Stroke.Add(pt) }

func (e *Eraser) Empty() bool { return e.Stroke.Len() == 0 }

func (e *Eraser) Paint(t *Target) {
	if e.Empty() {
		return
	}
	st := e.pen()
	st.Color = t.Fill()
	st.Width = 8 * e.style.LineWidth
	st.Cap = render.CapSquare
	st.Op = render.OpReplace
	t.Canvas.Stroke(e.Stroke.Path(), st)
}
