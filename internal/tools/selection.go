package tools

import (
	"image"

	"golang.org/x/mobile/event/key"

	"github.com/example/rasterpad/internal/geom"
	"github.com/example/rasterpad/internal/render"
)

// Selection is a rectangular region that can be moved, resized, copied and
// cut. Shift while drawing snaps it to a square or a thin band.
type Selection struct {
	base
	Region
}

func (s *Selection) Kind() Kind { return KindSelection }

func (s *Selection) outline() *render.Path {
	p := render.NewPath()
	p.Rectangle(s.Src)
	return p
}

func (s *Selection) PointerDown(p geom.Point, _ key.Modifiers) {
	if s.grab(s.outline(), s.HasLiveSelection(), p) {
		return
	}
	s.Src = geom.Rect{Min: p, Max: p}
}

func (s *Selection) PointerMove(p geom.Point, mods key.Modifiers) {
	if s.drag(p, mods) || s.Closed {
		return
	}
	s.Src.Max = p
	if shift(mods) {
		w, h := geom.Constrain(s.Src.Dx(), s.Src.Dy(), true)
		s.Src.Max = s.Src.Min.Add(geom.Pt(w, h))
	}
}

func (s *Selection) PointerUp(geom.Point, key.Modifiers) {
	if s.drop() || s.Closed {
		return
	}
	s.Src = s.Src.Canon()
	if !s.Src.Empty() {
		s.Dst = s.Src
		s.Closed = true
	}
}

// Select closes the selection over the given rectangle, as select-all does.
func (s *Selection) Select(x, y, w, h float64) {
	s.Src = geom.RectAt(geom.Pt(x, y), w, h)
	if w > 0 && h > 0 {
		s.Dst = s.Src
		s.Closed = true
	}
}

func (s *Selection) KeyDown(e key.Event) KeyResult { return cancelKey(s.HasLiveSelection(), e) }

func (s *Selection) HasLiveSelection() bool { return s.Closed }
func (s *Selection) IsRegionTool() bool { return true }
func (s *Selection) HasAnimation() bool { return s.Closed }
func (s *Selection) Empty() bool { return !s.Closed }

func (s *Selection) Contains(p geom.Point) bool { return s.Closed && s.within(s.outline(), p) }

func (s *Selection) CursorFor(p geom.Point, pressed bool) Cursor {
	return s.cursor(s.outline(), s.Closed, p, pressed, CursorCross)
}

func (s *Selection) Paint(t *Target) { s.paintMoved(t, s.outline(), s.style.Antialias) }

func (s *Selection) Copy(src *image.RGBA) Clip { return Clip{Image: copyOut(src, s.outline())} }

func (s *Selection) Cut(src *image.RGBA) (Clip, bool) {
	c := s.Copy(src)
	s.Cleared = true
	return c, true
}

// Lasso is a free-form polygon region.
type Lasso struct {
	base
	Region
	Points  []geom.Point
	drawing bool
}

func (l *Lasso) Kind() Kind { return KindLasso }

func (l *Lasso) outline() *render.Path {
	p := render.NewPath()
	for _, pt := range l.Points {
		p.LineTo(pt)
	}
	if l.Closed {
		p.Close()
	}
	return p
}

func (l *Lasso) PointerDown(p geom.Point, _ key.Modifiers) {
	if l.grab(l.outline(), l.HasLiveSelection(), p) {
		return
	}
	l.Closed = false
	l.drawing = true
	l.Points = []geom.Point{p}
	l.Src = geom.Rect{Min: p, Max: p}
}

func (l *Lasso) PointerMove(p geom.Point, mods key.Modifiers) {
	if l.drag(p, mods) || !l.drawing {
		return
	}
	l.Src = l.Src.Extend(p)
	l.Points = append(l.Points, p)
}

func (l *Lasso) PointerUp(geom.Point, key.Modifiers) {
	if l.drop() || !l.drawing {
		return
	}
	l.drawing = false
	if !l.Src.Empty() {
		l.Dst = l.Src
		l.Closed = true
		return
	}
	l.Points = nil
}

func (l *Lasso) KeyDown(e key.Event) KeyResult { return cancelKey(l.HasLiveSelection(), e) }

func (l *Lasso) HasLiveSelection() bool { return l.Closed }
func (l *Lasso) IsRegionTool() bool { return true }
func (l *Lasso) HasAnimation() bool { return l.Closed }
func (l *Lasso) Empty() bool { return !l.Closed }

func (l *Lasso) Contains(p geom.Point) bool { return l.Closed && l.within(l.outline(), p) }

func (l *Lasso) CursorFor(p geom.Point, pressed bool) Cursor {
	return l.cursor(l.outline(), l.Closed, p, pressed, CursorCross)
}

func (l *Lasso) Paint(t *Target) { l.paintMoved(t, l.outline(), l.style.Antialias) }

func (l *Lasso) Copy(src *image.RGBA) Clip { return Clip{Image: copyOut(src, l.outline())} }

func (l *Lasso) Cut(src *image.RGBA) (Clip, bool) {
	c := l.Copy(src)
	l.Cleared = true
	return c, true
}

// cancelKey turns Escape into a cancel request while a selection is live.
func cancelKey(live bool, e key.Event) KeyResult {
	if live && e.Code == key.CodeEscape {
		return KeyCancel
	}
	return KeyIgnored
}
