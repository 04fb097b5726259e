package render

import (
	"image"
	"image/draw"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/vector"

	"github.com/example/rasterpad/internal/geom"
)

type segKind uint8

const (
	segMove segKind = iota
	segLine
	segCubic
	segClose
)

type segment struct {
	kind segKind
	pts  [3]geom.Point
}

// kappa places cubic control points so four segments approximate a circle.
const kappa = 0.5522847498307936

// Path is a recorded sequence of path construction commands. It can be
// stroked or filled on a Canvas, rasterized into a clip mask, and tested for
// containment. The zero value is an empty path.
type Path struct {
	segs []segment
}

// NewPath returns an empty path.
func NewPath() *Path { return &Path{} }

// MoveTo starts a new sub-path at p.
func (p *Path) MoveTo(pt geom.Point) {
	p.segs = append(p.segs, segment{kind: segMove, pts: [3]geom.Point{pt}})
}

// LineTo adds a line to pt. Without a current point it behaves like MoveTo.
func (p *Path) LineTo(pt geom.Point) {
	if !p.hasCurrent() {
		p.MoveTo(pt)
		return
	}
	p.segs = append(p.segs, segment{kind: segLine, pts: [3]geom.Point{pt}})
}

// CubicTo adds a cubic Bézier segment with control points c1, c2 ending at pt.
func (p *Path) CubicTo(c1, c2, pt geom.Point) {
	if !p.hasCurrent() {
		p.MoveTo(c1)
	}
	p.segs = append(p.segs, segment{kind: segCubic, pts: [3]geom.Point{c1, c2, pt}})
}

// Close closes the current sub-path.
func (p *Path) Close() {
	if !p.hasCurrent() {
		return
	}
	p.segs = append(p.segs, segment{kind: segClose})
}

// Rectangle adds a closed rectangle sub-path.
func (p *Path) Rectangle(r geom.Rect) {
	p.MoveTo(r.Min)
	p.LineTo(geom.Pt(r.Max.X, r.Min.Y))
	p.LineTo(r.Max)
	p.LineTo(geom.Pt(r.Min.X, r.Max.Y))
	p.Close()
}

// Circle adds a closed circle of radius r centred on c.
func (p *Path) Circle(c geom.Point, r float64) {
	k := r * kappa
	p.MoveTo(geom.Pt(c.X+r, c.Y))
	p.CubicTo(geom.Pt(c.X+r, c.Y+k), geom.Pt(c.X+k, c.Y+r), geom.Pt(c.X, c.Y+r))
	p.CubicTo(geom.Pt(c.X-k, c.Y+r), geom.Pt(c.X-r, c.Y+k), geom.Pt(c.X-r, c.Y))
	p.CubicTo(geom.Pt(c.X-r, c.Y-k), geom.Pt(c.X-k, c.Y-r), geom.Pt(c.X, c.Y-r))
	p.CubicTo(geom.Pt(c.X+k, c.Y-r), geom.Pt(c.X+r, c.Y-k), geom.Pt(c.X+r, c.Y))
	p.Close()
}

// Append adds every command of q to p.
func (p *Path) Append(q *Path) {
	if q == nil {
		return
	}
	p.segs = append(p.segs, q.segs...)
}

// Transform returns a copy of p with every point mapped through a.
func (p *Path) Transform(a geom.Affine) *Path {
	out := &Path{segs: make([]segment, len(p.segs))}
	for i, s := range p.segs {
		for j := range s.pts {
			s.pts[j] = a.Apply(s.pts[j])
		}
		out.segs[i] = s
	}
	return out
}

// Empty reports whether the path has no commands.
func (p *Path) Empty() bool { return p == nil || len(p.segs) == 0 }

func (p *Path) hasCurrent() bool {
	return len(p.segs) > 0
}

// Bounds returns the extents of the path including Bézier control points.
func (p *Path) Bounds() geom.Rect {
	var r geom.Rect
	first := true
	for _, s := range p.segs {
		n := 1
		switch s.kind {
		case segClose:
			continue
		case segCubic:
			n = 3
		}
		for _, pt := range s.pts[:n] {
			if first {
				r = geom.Rect{Min: pt, Max: pt}
				first = false
				continue
			}
			r = r.Extend(pt)
		}
	}
	return r
}

// dots returns the position of every sub-path whose points all coincide.
// Strokers emit nothing for these so they are painted as cap-shaped dots.
func (p *Path) dots() []geom.Point {
	var out []geom.Point
	var start geom.Point
	degenerate := false
	flush := func() {
		if degenerate {
			out = append(out, start)
		}
	}
	for _, s := range p.segs {
		switch s.kind {
		case segMove:
			flush()
			start = s.pts[0]
			degenerate = true
		case segLine:
			if s.pts[0] != start {
				degenerate = false
			}
		case segCubic:
			if s.pts[0] != start || s.pts[1] != start || s.pts[2] != start {
				degenerate = false
			}
		}
	}
	flush()
	return out
}

// polygons flattens the path into closed point rings.
func (p *Path) polygons() [][]geom.Point {
	var rings [][]geom.Point
	var cur []geom.Point
	for _, s := range p.segs {
		switch s.kind {
		case segMove:
			if len(cur) > 0 {
				rings = append(rings, cur)
			}
			cur = []geom.Point{s.pts[0]}
		case segLine:
			cur = append(cur, s.pts[0])
		case segCubic:
			p0 := cur[len(cur)-1]
			for i := 1; i <= 16; i++ {
				cur = append(cur, cubicAt(p0, s.pts[0], s.pts[1], s.pts[2], float64(i)/16))
			}
		case segClose:
			if len(cur) > 0 {
				rings = append(rings, cur)
				cur = []geom.Point{cur[0]}
			}
		}
	}
	if len(cur) > 1 {
		rings = append(rings, cur)
	}
	return rings
}

func cubicAt(p0, p1, p2, p3 geom.Point, t float64) geom.Point {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	c := 3 * u * t * t
	d := t * t * t
	return geom.Pt(
		a*p0.X+b*p1.X+c*p2.X+d*p3.X,
		a*p0.Y+b*p1.Y+c*p2.Y+d*p3.Y,
	)
}

// Contains reports whether pt lies inside the path under the non-zero
// winding rule. Open sub-paths are implicitly closed.
func (p *Path) Contains(pt geom.Point) bool {
	winding := 0
	for _, ring := range p.polygons() {
		n := len(ring)
		for i := 0; i < n; i++ {
			a := ring[i]
			b := ring[(i+1)%n]
			if a.Y <= pt.Y {
				if b.Y > pt.Y && cross(a, b, pt) > 0 {
					winding++
				}
			} else if b.Y <= pt.Y && cross(a, b, pt) < 0 {
				winding--
			}
		}
	}
	return winding != 0
}

func cross(a, b, p geom.Point) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (p.X-a.X)*(b.Y-a.Y)
}

// Mask rasterizes the filled path into an alpha mask covering r. With
// antialias off the coverage is thresholded to fully on or off.
func (p *Path) Mask(r image.Rectangle, antialias bool) *image.Alpha {
	mask := image.NewAlpha(r)
	if r.Empty() || p.Empty() {
		return mask
	}
	z := vector.NewRasterizer(r.Dx(), r.Dy())
	z.DrawOp = draw.Src
	off := geom.Pt(float64(-r.Min.X), float64(-r.Min.Y))
	f := func(pt geom.Point) (float32, float32) {
		q := pt.Add(off)
		return float32(q.X), float32(q.Y)
	}
	for _, s := range p.segs {
		switch s.kind {
		case segMove:
			z.MoveTo(f(s.pts[0]))
		case segLine:
			z.LineTo(f(s.pts[0]))
		case segCubic:
			bx, by := f(s.pts[0])
			cx, cy := f(s.pts[1])
			dx, dy := f(s.pts[2])
			z.CubeTo(bx, by, cx, cy, dx, dy)
		case segClose:
			z.ClosePath()
		}
	}
	z.Draw(mask, r, image.Opaque, image.Point{})
	if !antialias {
		threshold(mask.Pix)
	}
	return mask
}

// replay feeds the path into a gg context.
func (p *Path) replay(dc *gg.Context) {
	dc.ClearPath()
	for _, s := range p.segs {
		switch s.kind {
		case segMove:
			dc.MoveTo(s.pts[0].X, s.pts[0].Y)
		case segLine:
			dc.LineTo(s.pts[0].X, s.pts[0].Y)
		case segCubic:
			dc.CubicTo(s.pts[0].X, s.pts[0].Y, s.pts[1].X, s.pts[1].Y, s.pts[2].X, s.pts[2].Y)
		case segClose:
			dc.ClosePath()
		}
	}
}

func threshold(pix []uint8) {
	for i, a := range pix {
		if a >= 0x80 {
			pix[i] = 0xff
		} else {
			pix[i] = 0
		}
	}
}

// dashPhase rotates an on/off dash pair so that the pattern starts offset
// units in, returning a pattern gg can consume from its start.
func dashPhase(on, off, offset float64) []float64 {
	period := on + off
	if period <= 0 {
		return nil
	}
	o := math.Mod(offset, period)
	if o < 0 {
		o += period
	}
	if o < on {
		return []float64{on - o, off, o, 0}
	}
	return []float64{0, period - o, on, o - on}
}
