// Package render is the rendering surface used by the painting tools. It
// strokes and fills recorded paths with fogleman/gg, rasterizes clip masks
// with x/image/vector and composites images through scale+offset transforms
// with x/image/draw, supporting over, replace and difference operators.
package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/example/rasterpad/internal/geom"
)

// Op selects how source pixels combine with the destination.
type Op int

const (
	// OpOver blends the source over the destination.
	OpOver Op = iota
	// OpReplace substitutes the source for the destination within the
	// painted coverage, alpha included.
	OpReplace
	// OpDifference writes the absolute channel difference.
	OpDifference
)

func (o Op) String() string {
	switch o {
	case OpOver:
		return "over"
	case OpReplace:
		return "replace"
	case OpDifference:
		return "difference"
	}
	return "unknown"
}

// Cap is the shape used at the ends of open strokes.
type Cap int

const (
	CapRound Cap = iota
	CapSquare
	CapButt
)

// Join is the shape used where stroke segments meet.
type Join int

const (
	JoinRound Join = iota
	JoinBevel
)

// Style describes how a path is painted.
type Style struct {
	Color     color.RGBA
	Width     float64
	Cap       Cap
	Join      Join
	Antialias bool
	Op        Op
	// Dash, when set, is an on/off pair with a phase offset.
	Dash       []float64
	DashOffset float64
}

// Canvas paints onto an RGBA image in place.
type Canvas struct {
	img *image.RGBA
}

// NewCanvas wraps img. Painting mutates img directly.
func NewCanvas(img *image.RGBA) *Canvas { return &Canvas{img: img} }

// Image returns the backing image.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Bounds returns the backing image bounds.
func (c *Canvas) Bounds() image.Rectangle { return c.img.Bounds() }

// Stroke paints the outline of p. Sub-paths that collapse to a single point
// are painted as a dot shaped by the cap.
func (c *Canvas) Stroke(p *Path, st Style) {
	if p.Empty() || st.Width <= 0 {
		return
	}
	pad := int(st.Width) + 2
	area := p.Bounds().Image().Inset(-pad).Intersect(c.img.Bounds())
	if area.Empty() {
		return
	}
	cov := coverage(area, st.Antialias, func(dc *gg.Context) {
		dc.SetLineWidth(st.Width)
		dc.SetLineCap(ggCap(st.Cap))
		dc.SetLineJoin(ggJoin(st.Join))
		if len(st.Dash) >= 2 {
			dc.SetDash(dashPhase(st.Dash[0], st.Dash[1], st.DashOffset)...)
		}
		p.replay(dc)
		dc.Stroke()
		for _, d := range p.dots() {
			switch st.Cap {
			case CapRound:
				dc.DrawCircle(d.X, d.Y, st.Width/2)
				dc.Fill()
			case CapSquare:
				dc.DrawRectangle(d.X-st.Width/2, d.Y-st.Width/2, st.Width, st.Width)
				dc.Fill()
			}
		}
	})
	c.composite(area, cov, st.Color, st.Op)
}

// Fill paints the interior of p.
func (c *Canvas) Fill(p *Path, st Style) {
	if p.Empty() {
		return
	}
	area := p.Bounds().Image().Inset(-1).Intersect(c.img.Bounds())
	if area.Empty() {
		return
	}
	cov := p.Mask(area, st.Antialias)
	c.composite(area, cov, st.Color, st.Op)
}

// Paint composites src through the transform m, clipped to clip when clip is
// not nil. Clip coordinates are canvas coordinates. A degenerate transform
// paints nothing.
func (c *Canvas) Paint(src image.Image, m geom.Affine, clip *Path, antialias bool) {
	if m.Degenerate() {
		return
	}
	sr := src.Bounds()
	dr := geom.Rect{
		Min: m.Apply(geom.FromImage(sr.Min)),
		Max: m.Apply(geom.FromImage(sr.Max)),
	}.Image().Intersect(c.img.Bounds())
	if clip != nil {
		dr = dr.Intersect(clip.Bounds().Image().Inset(-1))
	}
	if dr.Empty() {
		return
	}
	opts := &xdraw.Options{}
	if clip != nil {
		// The mask shares canvas coordinates, so its origin maps to dst's.
		opts.DstMask = clip.Mask(dr, antialias)
	}
	s2d := f64.Aff3{m.SX, 0, m.TX, 0, m.SY, m.TY}
	var interp xdraw.Transformer = xdraw.NearestNeighbor
	if antialias && (m.SX != 1 || m.SY != 1) {
		interp = xdraw.ApproxBiLinear
	}
	dst := c.img.SubImage(dr).(*image.RGBA)
	interp.Transform(dst, s2d, src, sr, xdraw.Over, opts)
}

// Replace copies src over the whole canvas, alpha included.
func (c *Canvas) Replace(src image.Image) {
	draw.Draw(c.img, c.img.Bounds(), src, src.Bounds().Min, draw.Src)
}

// coverage renders draw into an offscreen context covering area and returns
// the resulting alpha coverage.
func coverage(area image.Rectangle, antialias bool, paint func(dc *gg.Context)) *image.Alpha {
	dc := gg.NewContext(area.Dx(), area.Dy())
	dc.Translate(float64(-area.Min.X), float64(-area.Min.Y))
	dc.SetRGB(1, 1, 1)
	paint(dc)
	off := dc.Image().(*image.RGBA)
	mask := image.NewAlpha(area)
	for y := 0; y < area.Dy(); y++ {
		src := off.Pix[y*off.Stride : y*off.Stride+area.Dx()*4]
		dst := mask.Pix[y*mask.Stride : y*mask.Stride+area.Dx()]
		for x := range dst {
			dst[x] = src[x*4+3]
		}
	}
	if !antialias {
		threshold(mask.Pix)
	}
	return mask
}

// composite applies col through mask onto area using op.
func (c *Canvas) composite(area image.Rectangle, mask *image.Alpha, col color.RGBA, op Op) {
	switch op {
	case OpOver:
		draw.DrawMask(c.img, area, image.NewUniform(col), image.Point{}, mask, area.Min, draw.Over)
	case OpReplace:
		blend(c.img, area, mask, col, lerp, true)
	case OpDifference:
		blend(c.img, area, mask, col, difference, false)
	}
}

func ggCap(c Cap) gg.LineCap {
	switch c {
	case CapSquare:
		return gg.LineCapSquare
	case CapButt:
		return gg.LineCapButt
	}
	return gg.LineCapRound
}

func ggJoin(j Join) gg.LineJoin {
	if j == JoinBevel {
		return gg.LineJoinBevel
	}
	return gg.LineJoinRound
}
