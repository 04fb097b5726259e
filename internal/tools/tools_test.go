package tools

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/rasterpad/internal/geom"
	"github.com/example/rasterpad/internal/render"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
	red   = color.RGBA{255, 0, 0, 255}
)

func canvas(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

// commit paints tool the way the buffer does and returns the new surface.
func commit(tool Tool, src *image.RGBA, transparent bool) *image.RGBA {
	out := image.NewRGBA(src.Bounds())
	copy(out.Pix, src.Pix)
	tool.Paint(&Target{
		Canvas:      render.NewCanvas(out),
		Source:      src,
		Background:  white,
		Transparent: transparent,
		Committing:  true,
		Now:         time.Unix(0, 0),
	})
	return out
}

func mustNew(t *testing.T, k Kind) Tool {
	t.Helper()
	tool, err := New(k, DefaultStyle())
	require.NoError(t, err)
	return tool
}

func TestNewAndParseKind(t *testing.T) {
	for _, k := range Kinds() {
		tool := mustNew(t, k)
		assert.Equal(t, k, tool.Kind())
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	assert.Len(t, Kinds(), 9)
	_, err := ParseKind("paste")
	assert.Error(t, err)
	_, err = New(KindPaste, DefaultStyle())
	assert.Error(t, err)
}

func TestStrokeDropsRepeatedSample(t *testing.T) {
	var s Stroke
	assert.True(t, s.Add(geom.Pt(1, 1)))
	assert.False(t, s.Add(geom.Pt(1, 1)))
	assert.True(t, s.Add(geom.Pt(2, 1)))
	assert.Equal(t, 2, s.Len())
	assert.Empty(t, s.Controls)
}

func TestStrokeControlPoints(t *testing.T) {
	var s Stroke
	s.Add(geom.Pt(0, 0))
	s.Add(geom.Pt(6, 0))
	s.Add(geom.Pt(12, 6))
	assert.Equal(t, []geom.Point{geom.Pt(4, -1), geom.Pt(8, 1)}, s.Controls)
}

func TestStrokeSmoothingIsCausal(t *testing.T) {
	samples := []geom.Point{
		geom.Pt(0, 0), geom.Pt(3, 7), geom.Pt(9, 2), geom.Pt(14, 14),
		geom.Pt(20, 3), geom.Pt(21, 30), geom.Pt(40, 12), geom.Pt(41, 13),
	}
	var s Stroke
	for _, p := range samples {
		before := append([]geom.Point(nil), s.Controls...)
		require.True(t, s.Add(p))
		require.GreaterOrEqual(t, len(s.Controls), len(before))
		assert.Equal(t, before, s.Controls[:len(before)])
	}
	assert.Len(t, s.Controls, 2*(len(samples)-2))
}

func TestPencilSinglePointDot(t *testing.T) {
	p := mustNew(t, KindPencil)
	st := DefaultStyle()
	st.LineWidth = 4
	st.Antialias = false
	p.SetStyle(st)
	p.PointerDown(geom.Pt(10, 10), 0)
	require.False(t, p.Empty())

	out := commit(p, canvas(20, 20, white), false)
	assert.Equal(t, black, out.RGBAAt(10, 10))
	assert.Equal(t, white, out.RGBAAt(2, 2))
}

func TestPencilPaintIsIdempotent(t *testing.T) {
	p := mustNew(t, KindPencil)
	for _, pt := range []geom.Point{geom.Pt(2, 2), geom.Pt(10, 5), geom.Pt(18, 17), geom.Pt(4, 18)} {
		p.PointerMove(pt, 0)
	}
	src := canvas(20, 20, white)
	assert.Equal(t, commit(p, src, false).Pix, commit(p, src, false).Pix)
}

func TestEraserTransparentCommit(t *testing.T) {
	e := mustNew(t, KindEraser)
	e.PointerDown(geom.Pt(5, 5), 0)
	e.PointerMove(geom.Pt(15, 5), 0)

	src := canvas(20, 20, red)
	assert.Equal(t, color.RGBA{}, commit(e, src, true).RGBAAt(10, 5))
	assert.Equal(t, white, commit(e, src, false).RGBAAt(10, 5))
	assert.Equal(t, red, commit(e, src, true).RGBAAt(10, 15))
}

func TestEmptyToolsPaintNothing(t *testing.T) {
	src := canvas(16, 16, white)
	for _, k := range Kinds() {
		tool := mustNew(t, k)
		assert.True(t, tool.Empty(), k.String())
		assert.Equal(t, src.Pix, commit(tool, src, false).Pix, k.String())
	}
}

func TestLineConstrain(t *testing.T) {
	l := &Line{}
	l.PointerDown(geom.Pt(0, 0), 0)
	l.PointerMove(geom.Pt(10, 2), keyShift)
	assert.Equal(t, 10.0, l.W)
	assert.Equal(t, 0.0, l.H)

	l.PointerMove(geom.Pt(10, 8), keyShift)
	assert.Equal(t, 10.0, l.W)
	assert.Equal(t, 10.0, l.H)
}

func TestRectangleZeroExtent(t *testing.T) {
	r := mustNew(t, KindRectangle)
	r.PointerDown(geom.Pt(5, 5), 0)
	r.PointerMove(geom.Pt(5, 12), 0)
	assert.True(t, r.Empty())

	l := mustNew(t, KindLine)
	l.PointerDown(geom.Pt(5, 5), 0)
	l.PointerMove(geom.Pt(5, 12), 0)
	assert.False(t, l.Empty())
}

func TestRectangleSquareLock(t *testing.T) {
	r := &Rectangle{}
	r.PointerDown(geom.Pt(10, 10), 0)
	r.PointerMove(geom.Pt(40, 4), keyShift)
	assert.Equal(t, geom.R(10, 10, 40, -20), r.Box())
}

func TestOvalInscribed(t *testing.T) {
	o := mustNew(t, KindOval)
	st := DefaultStyle()
	st.LineWidth = 3
	st.Antialias = false
	o.SetStyle(st)
	o.PointerDown(geom.Pt(10, 10), 0)
	o.PointerMove(geom.Pt(50, 30), 0)

	out := commit(o, canvas(60, 40, white), false)
	assert.Equal(t, black, out.RGBAAt(10, 20))
	assert.Equal(t, black, out.RGBAAt(30, 10))
	assert.Equal(t, white, out.RGBAAt(30, 20))
	assert.Equal(t, white, out.RGBAAt(11, 11))
}

func TestFloodFill(t *testing.T) {
	src := canvas(10, 10, white)
	for y := 0; y < 10; y++ {
		src.SetRGBA(5, y, black)
	}
	f := mustNew(t, KindFloodFill)
	st := DefaultStyle()
	st.Color = red
	f.SetStyle(st)
	f.PointerUp(geom.Pt(2, 2), 0)

	out := commit(f, src, false)
	assert.Equal(t, red, out.RGBAAt(0, 0))
	assert.Equal(t, red, out.RGBAAt(4, 9))
	assert.Equal(t, black, out.RGBAAt(5, 5))
	assert.Equal(t, white, out.RGBAAt(7, 7))
}

func TestFloodFillOutsideIsNoop(t *testing.T) {
	src := canvas(10, 10, white)
	f := mustNew(t, KindFloodFill)
	f.PointerUp(geom.Pt(-3, 4), 0)
	assert.Equal(t, src.Pix, commit(f, src, false).Pix)
}

func TestFloodFillTransparent(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		src.SetRGBA(5, y, black)
	}
	f := mustNew(t, KindFloodFill)
	st := DefaultStyle()
	st.Color = red
	f.SetStyle(st)
	f.PointerUp(geom.Pt(1, 1), 0)

	out := commit(f, src, true)
	assert.Equal(t, red, out.RGBAAt(1, 1))
	assert.Equal(t, black, out.RGBAAt(5, 1))
	assert.Equal(t, color.RGBA{}, out.RGBAAt(8, 8))
}
