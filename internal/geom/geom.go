// Package geom holds the canvas geometry shared by the drawing tools: points,
// axis-aligned rectangles and the scale+offset transform that maps a region's
// source footprint onto its current placement.
package geom

import (
	"fmt"
	"image"
	"math"
)

// Point is a position in canvas pixel coordinates. Coordinates are signed and
// not clamped to the surface.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// FromImage converts an integer image point.
func FromImage(p image.Point) Point { return Point{X: float64(p.X), Y: float64(p.Y)} }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Mul scales p component-wise by s.
func (p Point) Mul(s Point) Point { return Point{p.X * s.X, p.Y * s.Y} }

// Div divides both components by k.
func (p Point) Div(k float64) Point { return Point{p.X / k, p.Y / k} }

// Image rounds p to the nearest integer point.
func (p Point) Image() image.Point {
	return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
}

func (p Point) String() string { return fmt.Sprintf("(%g,%g)", p.X, p.Y) }

// Rect is a rectangle given by its top-left Min and bottom-right Max corner.
// Max is exclusive. A Rect is not required to be axis ordered while it is
// being dragged out; Canon returns the ordered form.
type Rect struct {
	Min, Max Point
}

// R builds a Rect from two corners without reordering them.
func R(x0, y0, x1, y1 float64) Rect { return Rect{Point{x0, y0}, Point{x1, y1}} }

// RectAt builds a Rect from an origin and a size.
func RectAt(p Point, w, h float64) Rect { return Rect{p, Point{p.X + w, p.Y + h}} }

// Size returns the signed width and height.
func (r Rect) Size() Point { return r.Max.Sub(r.Min) }

func (r Rect) Dx() float64 { return r.Max.X - r.Min.X }
func (r Rect) Dy() float64 { return r.Max.Y - r.Min.Y }

// Empty reports whether either extent is zero or negative.
func (r Rect) Empty() bool { return r.Dx() <= 0 || r.Dy() <= 0 }

// Canon returns r with Min and Max swapped per axis so that Min <= Max.
func (r Rect) Canon() Rect {
	if r.Max.X < r.Min.X {
		r.Min.X, r.Max.X = r.Max.X, r.Min.X
	}
	if r.Max.Y < r.Min.Y {
		r.Min.Y, r.Max.Y = r.Max.Y, r.Min.Y
	}
	return r
}

// Translate moves both corners by d.
func (r Rect) Translate(d Point) Rect { return Rect{r.Min.Add(d), r.Max.Add(d)} }

// Extend grows r so that it includes p. r must be canonical.
func (r Rect) Extend(p Point) Rect {
	r.Min.X = math.Min(r.Min.X, p.X)
	r.Min.Y = math.Min(r.Min.Y, p.Y)
	r.Max.X = math.Max(r.Max.X, p.X)
	r.Max.Y = math.Max(r.Max.Y, p.Y)
	return r
}

// Image returns the smallest integer rectangle covering r.
func (r Rect) Image() image.Rectangle {
	c := r.Canon()
	return image.Rect(
		int(math.Floor(c.Min.X)), int(math.Floor(c.Min.Y)),
		int(math.Ceil(c.Max.X)), int(math.Ceil(c.Max.Y)),
	)
}

func (r Rect) String() string { return fmt.Sprintf("[%v-%v]", r.Min, r.Max) }

// Scale returns dst.Size / src.Size component-wise. It is (0,0) when src has
// a zero extent on either axis.
func Scale(src, dst Rect) Point {
	s := src.Size()
	if s.X == 0 || s.Y == 0 {
		return Point{}
	}
	d := dst.Size()
	return Point{d.X / s.X, d.Y / s.Y}
}

// Affine is a scale followed by a translation: p' = p*S + T.
type Affine struct {
	SX, SY float64
	TX, TY float64
}

// Identity leaves points unchanged.
var Identity = Affine{SX: 1, SY: 1}

// RegionTransform maps src space onto dst: translate(dst.Min) ∘
// scale(Scale(src, dst)) ∘ translate(-src.Min).
func RegionTransform(src, dst Rect) Affine {
	s := Scale(src, dst)
	return Affine{
		SX: s.X,
		SY: s.Y,
		TX: dst.Min.X - s.X*src.Min.X,
		TY: dst.Min.Y - s.Y*src.Min.Y,
	}
}

// Apply maps p.
func (a Affine) Apply(p Point) Point {
	return Point{p.X*a.SX + a.TX, p.Y*a.SY + a.TY}
}

// Rect maps both corners of r.
func (a Affine) Rect(r Rect) Rect { return Rect{a.Apply(r.Min), a.Apply(r.Max)} }

// Invert maps a transformed point back. It returns false for a degenerate
// transform.
func (a Affine) Invert(p Point) (Point, bool) {
	if a.Degenerate() {
		return Point{}, false
	}
	return Point{(p.X - a.TX) / a.SX, (p.Y - a.TY) / a.SY}, true
}

// Degenerate reports whether the transform collapses an axis.
func (a Affine) Degenerate() bool { return a.SX == 0 || a.SY == 0 }

// Then returns the transform applying a first and b second.
func (a Affine) Then(b Affine) Affine {
	return Affine{
		SX: a.SX * b.SX,
		SY: a.SY * b.SY,
		TX: a.TX*b.SX + b.TX,
		TY: a.TY*b.SY + b.TY,
	}
}

// Constrain locks a drag vector to a regular shape.
//
// With hv set, a vector whose one component is more than double the other is
// snapped to the dominant axis. Otherwise, and for vectors that are not
// snapped, the shorter component takes the magnitude of the longer one while
// keeping its own sign, giving squares, circles and 45° lines.
func Constrain(w, h float64, hv bool) (float64, float64) {
	aw, ah := math.Abs(w), math.Abs(h)
	if hv {
		if 2*ah < aw {
			return w, 0
		}
		if 2*aw < ah {
			return 0, h
		}
	}
	switch {
	case ah < aw:
		h = withSign(aw, h)
	case aw < ah:
		w = withSign(ah, w)
	}
	return w, h
}

// withSign returns mag carrying the sign of ref, treating zero as positive.
func withSign(mag, ref float64) float64 {
	if ref < 0 {
		return -mag
	}
	return mag
}

// RoundHalfEven rounds to the nearest integer with ties to even.
func RoundHalfEven(v float64) float64 { return math.RoundToEven(v) }
