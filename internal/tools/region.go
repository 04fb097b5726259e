package tools

import (
	"image"
	"image/color"
	"math"
	"time"

	"golang.org/x/mobile/event/key"

	"github.com/example/rasterpad/internal/geom"
	"github.com/example/rasterpad/internal/render"
)

// ResizeBorder is the depth of the resize zones inside a region's edge.
const ResizeBorder = 16

// MarqueeColor outlines live regions under the difference operator.
var MarqueeColor = color.RGBA{204, 153, 26, 255}

// Handle is the part of a region a pointer press grabbed.
type Handle int

const (
	HandleNone Handle = iota
	HandleMove
	HandleTopLeft
	HandleTop
	HandleTopRight
	HandleRight
	HandleBottomRight
	HandleBottom
	HandleBottomLeft
	HandleLeft
)

// Cursor returns the pointer shape for h.
func (h Handle) Cursor(pressed bool) Cursor {
	switch h {
	case HandleMove:
		if pressed {
			return CursorGrab
		}
		return CursorHand
	case HandleTopLeft:
		return CursorTopLeft
	case HandleTop:
		return CursorTop
	case HandleTopRight:
		return CursorTopRight
	case HandleRight:
		return CursorRight
	case HandleBottomRight:
		return CursorBottomRight
	case HandleBottom:
		return CursorBottom
	case HandleBottomLeft:
		return CursorBottomLeft
	case HandleLeft:
		return CursorLeft
	}
	return CursorCross
}

// HitTest classifies p against the placed rectangle dst. Axes shorter than
// three border depths are padded, centred, so small regions still expose
// every handle.
func HitTest(dst geom.Rect, p geom.Point) Handle {
	const span = 3 * ResizeBorder
	x, y := dst.Min.X, dst.Min.Y
	w, h := dst.Dx(), dst.Dy()
	if w < span {
		x -= geom.RoundHalfEven((span - w) / 2)
		w = span
	}
	if h < span {
		y -= geom.RoundHalfEven((span - h) / 2)
		h = span
	}
	s, t := p.X-x, p.Y-y
	if s < 0 || t < 0 || w < s || h < t {
		return HandleNone
	}
	left := s < ResizeBorder
	right := w-ResizeBorder <= s
	switch {
	case t < ResizeBorder:
		switch {
		case left:
			return HandleTopLeft
		case right:
			return HandleTopRight
		}
		return HandleTop
	case h-ResizeBorder <= t:
		switch {
		case left:
			return HandleBottomLeft
		case right:
			return HandleBottomRight
		}
		return HandleBottom
	case left:
		return HandleLeft
	case right:
		return HandleRight
	}
	return HandleMove
}

// aspectHandle maps side handles onto the corner that drives an aspect
// locked resize.
var aspectHandle = map[Handle]Handle{
	HandleTop:    HandleTopRight,
	HandleRight:  HandleBottomRight,
	HandleBottom: HandleBottomRight,
	HandleLeft:   HandleBottomLeft,
}

// Drag returns the placement after moving handle h of base by d. A move
// translates base; with lock set the delta is snapped horizontal, vertical
// or diagonal. A resize keeps every edge at least one unit from the fixed
// opposite edge; with lock set it keeps the aspect ratio of base.
func Drag(base geom.Rect, h Handle, d geom.Point, lock bool) geom.Rect {
	if h == HandleMove {
		if lock {
			d.X, d.Y = geom.Constrain(d.X, d.Y, true)
		}
		return base.Translate(d)
	}
	if lock {
		if c, ok := aspectHandle[h]; ok {
			h = c
		}
		w, ht := base.Dx(), base.Dy()
		if w != 0 && ht != 0 {
			switch h {
			case HandleTopLeft, HandleBottomRight:
				if math.Abs(d.X) < math.Abs(d.Y) {
					d.X = geom.RoundHalfEven(w * (d.Y / ht))
				} else {
					d.Y = geom.RoundHalfEven(ht * (d.X / w))
				}
			case HandleTopRight, HandleBottomLeft:
				if math.Abs(d.X) < math.Abs(d.Y) {
					d.X = -geom.RoundHalfEven(w * (d.Y / ht))
				} else {
					d.Y = -geom.RoundHalfEven(ht * (d.X / w))
				}
			}
		}
	}
	dst := base
	top := func() { dst.Min.Y = math.Min(base.Min.Y+d.Y, base.Max.Y-1) }
	bottom := func() { dst.Max.Y = math.Max(base.Max.Y+d.Y, base.Min.Y+1) }
	left := func() { dst.Min.X = math.Min(base.Min.X+d.X, base.Max.X-1) }
	right := func() { dst.Max.X = math.Max(base.Max.X+d.X, base.Min.X+1) }
	switch h {
	case HandleTopLeft:
		left()
		top()
	case HandleTopRight:
		right()
		top()
	case HandleTop:
		top()
	case HandleBottomLeft:
		left()
		bottom()
	case HandleBottomRight:
		right()
		bottom()
	case HandleBottom:
		bottom()
	case HandleLeft:
		left()
	case HandleRight:
		right()
	}
	return dst
}

// Region is the geometry shared by the selection-like tools: the footprint
// Src the content came from and its current placement Dst.
type Region struct {
	Src, Dst geom.Rect
	Closed   bool
	// Cleared marks a cut: the source footprint is erased and the content
	// is not placed.
	Cleared  bool
	Dragging bool
	Anchor   geom.Point
	// Base is a copy of Dst taken when the drag started.
	Base   geom.Rect
	Handle Handle
}

// Scale is Dst size over Src size, or zero when Src is degenerate.
func (r *Region) Scale() geom.Point { return geom.Scale(r.Src, r.Dst) }

// Transform maps Src space onto Dst.
func (r *Region) Transform() geom.Affine { return geom.RegionTransform(r.Src, r.Dst) }

// within reports whether p is inside the outline once moved onto Dst.
func (r *Region) within(outline *render.Path, p geom.Point) bool {
	a := r.Transform()
	if a.Degenerate() {
		return false
	}
	return outline.Transform(a).Contains(p)
}

// grab starts a drag when p falls inside the live region, reporting whether
// it did.
func (r *Region) grab(outline *render.Path, live bool, p geom.Point) bool {
	if !live || !r.within(outline, p) {
		return false
	}
	r.Dragging = true
	r.Anchor = p
	r.Handle = HitTest(r.Dst, p)
	r.Base = r.Dst
	return true
}

// drag updates Dst while dragging, reporting whether a drag is in progress.
func (r *Region) drag(p geom.Point, mods key.Modifiers) bool {
	if !r.Dragging {
		return false
	}
	r.Dst = Drag(r.Base, r.Handle, p.Sub(r.Anchor), shift(mods))
	return true
}

// drop ends a drag, reporting whether one was in progress.
func (r *Region) drop() bool {
	if !r.Dragging {
		return false
	}
	r.Dragging = false
	r.Base = geom.Rect{}
	return true
}

// cursor picks the handle cursor over a live region and fallback elsewhere.
func (r *Region) cursor(outline *render.Path, live bool, p geom.Point, pressed bool, fallback Cursor) Cursor {
	if r.Dragging {
		return r.Handle.Cursor(true)
	}
	if live && r.within(outline, p) {
		if h := HitTest(r.Dst, p); h != HandleNone {
			return h.Cursor(pressed)
		}
	}
	return fallback
}

// paintMoved clears the source footprint and composites Source through the
// region transform, followed by the marquee while previewing. An open
// region only shows its marquee.
func (r *Region) paintMoved(t *Target, outline *render.Path, aa bool) {
	if !r.Closed {
		if b := outline.Bounds(); b.Dx() != 0 || b.Dy() != 0 {
			t.Canvas.Stroke(outline, marquee(t.Now, aa))
		}
		return
	}
	t.Canvas.Fill(outline, render.Style{Color: t.Fill(), Antialias: aa, Op: render.OpReplace})
	a := r.Transform()
	if !r.Cleared && !a.Degenerate() {
		t.Canvas.Paint(t.Source, a, outline.Transform(a), aa)
	}
	r.paintMarquee(t, outline, aa)
}

func (r *Region) paintMarquee(t *Target, outline *render.Path, aa bool) {
	a := r.Transform()
	if t.Committing || a.Degenerate() {
		return
	}
	t.Canvas.Stroke(outline.Transform(a), marquee(t.Now, aa))
}

// copyOut returns the pixels of src under outline, cropped to the outline's
// integer bounds. It is nil for an empty outline.
func copyOut(src *image.RGBA, outline *render.Path) *image.RGBA {
	if outline.Empty() {
		return nil
	}
	b := outline.Bounds().Image()
	if b.Empty() {
		return nil
	}
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	toOrigin := geom.Affine{SX: 1, SY: 1, TX: float64(-b.Min.X), TY: float64(-b.Min.Y)}
	render.NewCanvas(out).Paint(src, toOrigin, outline.Transform(toOrigin), true)
	return out
}

// marquee is the animated dashed outline style. The dash phase advances
// with time to make the ants march.
func marquee(now time.Time, aa bool) render.Style {
	secs := float64(now.UnixNano()) / float64(time.Second)
	return render.Style{
		Color:      MarqueeColor,
		Width:      1,
		Cap:        render.CapRound,
		Join:       render.JoinRound,
		Antialias:  aa,
		Op:         render.OpDifference,
		Dash:       []float64{10, 10},
		DashOffset: float64(20 - int64(secs*25)%20),
	}
}
