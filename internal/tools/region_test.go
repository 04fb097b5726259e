package tools

import (
	"fmt"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/mobile/event/key"

	"github.com/example/rasterpad/internal/geom"
)

const keyShift = key.ModShift

func TestHitTest(t *testing.T) {
	dst := geom.R(100, 100, 200, 200)
	tests := []struct {
		p    geom.Point
		want Handle
	}{
		{geom.Pt(101, 101), HandleTopLeft},
		{geom.Pt(150, 101), HandleTop},
		{geom.Pt(199, 101), HandleTopRight},
		{geom.Pt(101, 150), HandleLeft},
		{geom.Pt(150, 150), HandleMove},
		{geom.Pt(200, 150), HandleRight},
		{geom.Pt(101, 199), HandleBottomLeft},
		{geom.Pt(150, 199), HandleBottom},
		{geom.Pt(199, 199), HandleBottomRight},
		{geom.Pt(99, 150), HandleNone},
		{geom.Pt(201, 150), HandleNone},
		{geom.Pt(150, 201), HandleNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HitTest(dst, tt.p), "point %v", tt.p)
	}
}

func TestHitTestPadsSmallRegions(t *testing.T) {
	dst := geom.R(0, 0, 10, 10)
	assert.Equal(t, HandleMove, HitTest(dst, geom.Pt(5, 5)))
	assert.Equal(t, HandleLeft, HitTest(dst, geom.Pt(-18, 5)))
	assert.Equal(t, HandleBottomRight, HitTest(dst, geom.Pt(28, 28)))
	assert.Equal(t, HandleNone, HitTest(dst, geom.Pt(-20, 5)))
}

func TestHandleCursor(t *testing.T) {
	assert.Equal(t, CursorGrab, HandleMove.Cursor(true))
	assert.Equal(t, CursorHand, HandleMove.Cursor(false))
	assert.Equal(t, CursorBottomLeft, HandleBottomLeft.Cursor(false))
	assert.Equal(t, CursorCross, HandleNone.Cursor(true))
}

func TestDragNeverCollapses(t *testing.T) {
	base := geom.R(10, 10, 20, 20)
	handles := []Handle{
		HandleTopLeft, HandleTop, HandleTopRight, HandleRight,
		HandleBottomRight, HandleBottom, HandleBottomLeft, HandleLeft,
	}
	deltas := []float64{-100, -10, -9, -1, 0, 1, 9, 10, 100}
	for _, h := range handles {
		for _, dx := range deltas {
			for _, dy := range deltas {
				for _, lock := range []bool{false, true} {
					got := Drag(base, h, geom.Pt(dx, dy), lock)
					name := fmt.Sprintf("h=%d d=(%g,%g) lock=%v", h, dx, dy, lock)
					assert.GreaterOrEqual(t, got.Dx(), 1.0, name)
					assert.GreaterOrEqual(t, got.Dy(), 1.0, name)
				}
			}
		}
	}
}

func TestDragClampTable(t *testing.T) {
	base := geom.R(0, 0, 10, 10)
	tests := []struct {
		h    Handle
		d    geom.Point
		want geom.Rect
	}{
		{HandleTopLeft, geom.Pt(3, 4), geom.R(3, 4, 10, 10)},
		{HandleTopLeft, geom.Pt(30, 40), geom.R(9, 9, 10, 10)},
		{HandleTopRight, geom.Pt(-30, 40), geom.R(0, 9, 1, 10)},
		{HandleTop, geom.Pt(5, -2), geom.R(0, -2, 10, 10)},
		{HandleBottomLeft, geom.Pt(20, -20), geom.R(9, 0, 10, 1)},
		{HandleBottomRight, geom.Pt(2, 3), geom.R(0, 0, 12, 13)},
		{HandleBottom, geom.Pt(7, -50), geom.R(0, 0, 10, 1)},
		{HandleLeft, geom.Pt(-4, 9), geom.R(-4, 0, 10, 10)},
		{HandleRight, geom.Pt(-10, 0), geom.R(0, 0, 1, 10)},
		{HandleMove, geom.Pt(-4, 6), geom.R(-4, 6, 6, 16)},
		{HandleNone, geom.Pt(4, 4), base},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Drag(base, tt.h, tt.d, false), "handle %d", tt.h)
	}
}

func TestDragAspectLock(t *testing.T) {
	square := geom.R(0, 0, 10, 10)
	assert.Equal(t, geom.R(0, 0, 15, 15), Drag(square, HandleBottomRight, geom.Pt(5, 5), true))
	assert.Equal(t, geom.R(0, -6, 16, 10), Drag(square, HandleTopRight, geom.Pt(6, 2), true))
	assert.Equal(t, geom.R(-4, 0, 10, 14), Drag(square, HandleLeft, geom.Pt(-4, 0), true))
	assert.Equal(t, geom.R(-3, -3, 10, 10), Drag(square, HandleTopLeft, geom.Pt(-1, -3), true))

	wide := geom.R(0, 0, 20, 10)
	assert.Equal(t, geom.R(0, 0, 40, 20), Drag(wide, HandleBottomRight, geom.Pt(4, 10), true))
	assert.Equal(t, geom.R(0, 0, 30, 15), Drag(wide, HandleBottom, geom.Pt(10, 1), true))
}

func TestDragMoveLock(t *testing.T) {
	base := geom.R(0, 0, 10, 10)
	assert.Equal(t, geom.R(10, 0, 20, 10), Drag(base, HandleMove, geom.Pt(10, 3), true))
	assert.Equal(t, geom.R(7, 7, 17, 17), Drag(base, HandleMove, geom.Pt(7, 5), true))
}

func TestSelectionZeroExtentNeverCloses(t *testing.T) {
	for _, up := range []geom.Point{geom.Pt(5, 9), geom.Pt(9, 5), geom.Pt(5, 5)} {
		s := &Selection{}
		s.PointerDown(geom.Pt(5, 5), 0)
		s.PointerMove(up, 0)
		s.PointerUp(up, 0)
		assert.False(t, s.Closed, "up %v", up)
		assert.False(t, s.HasLiveSelection())
	}

	l := &Lasso{}
	l.PointerDown(geom.Pt(5, 5), 0)
	l.PointerMove(geom.Pt(5, 8), 0)
	l.PointerMove(geom.Pt(5, 12), 0)
	l.PointerUp(geom.Pt(5, 12), 0)
	assert.False(t, l.Closed)
	assert.Empty(t, l.Points)
}

func TestSelectionClosesCanonical(t *testing.T) {
	s := &Selection{}
	s.PointerDown(geom.Pt(20, 10), 0)
	s.PointerMove(geom.Pt(5, 2), 0)
	s.PointerUp(geom.Pt(5, 2), 0)
	require.True(t, s.Closed)
	assert.Equal(t, geom.R(5, 2, 20, 10), s.Src)
	assert.Equal(t, s.Src, s.Dst)
	assert.True(t, s.HasAnimation())
}

func TestSelectionShiftSquares(t *testing.T) {
	s := &Selection{}
	s.PointerDown(geom.Pt(0, 0), 0)
	s.PointerMove(geom.Pt(10, 8), keyShift)
	assert.Equal(t, geom.Pt(10, 10), s.Src.Max)
}

func TestLassoCloses(t *testing.T) {
	l := &Lasso{}
	l.PointerDown(geom.Pt(10, 10), 0)
	l.PointerMove(geom.Pt(30, 12), 0)
	l.PointerMove(geom.Pt(20, 40), 0)
	l.PointerUp(geom.Pt(20, 40), 0)
	require.True(t, l.Closed)
	assert.Equal(t, geom.R(10, 10, 30, 40), l.Src)
	assert.True(t, l.Contains(geom.Pt(20, 20)))
	assert.False(t, l.Contains(geom.Pt(11, 38)))
}

func TestSelectionResizeThroughHandle(t *testing.T) {
	s := &Selection{}
	s.Select(0, 0, 100, 100)
	assert.Equal(t, CursorBottomRight, s.CursorFor(geom.Pt(95, 95), false))

	s.PointerDown(geom.Pt(95, 95), 0)
	require.True(t, s.Dragging)
	assert.Equal(t, HandleBottomRight, s.Handle)
	s.PointerMove(geom.Pt(100, 100), keyShift)
	assert.Equal(t, geom.R(0, 0, 105, 105), s.Dst)
	s.PointerUp(geom.Pt(100, 100), 0)
	assert.False(t, s.Dragging)
	assert.Equal(t, geom.R(0, 0, 100, 100), s.Src)
	assert.Equal(t, geom.Pt(1.05, 1.05), s.Scale())
}

func TestSelectionMove(t *testing.T) {
	s := &Selection{}
	s.Select(0, 0, 100, 100)
	assert.Equal(t, CursorHand, s.CursorFor(geom.Pt(50, 50), false))
	s.PointerDown(geom.Pt(50, 50), 0)
	assert.Equal(t, CursorGrab, s.CursorFor(geom.Pt(50, 50), true))
	s.PointerMove(geom.Pt(60, 70), 0)
	assert.Equal(t, geom.R(10, 20, 110, 120), s.Dst)
	assert.Equal(t, CursorCross, (&Selection{}).CursorFor(geom.Pt(1, 1), false))
}

func TestSelectionPaintMovesPixels(t *testing.T) {
	src := canvas(20, 20, white)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.SetRGBA(x, y, red)
		}
	}
	s := mustNew(t, KindSelection).(*Selection)
	s.Select(0, 0, 4, 4)
	s.Dst = geom.R(10, 10, 14, 14)

	out := commit(s, src, false)
	assert.Equal(t, white, out.RGBAAt(1, 1))
	assert.Equal(t, red, out.RGBAAt(11, 11))
	assert.Equal(t, white, out.RGBAAt(15, 15))

	clip := s.Copy(src)
	require.NotNil(t, clip.Image)
	assert.Equal(t, image.Rect(0, 0, 4, 4), clip.Image.Bounds())
	assert.Equal(t, red, clip.Image.RGBAAt(2, 2))

	_, commitAfter := s.Cut(src)
	assert.True(t, commitAfter)
	cut := commit(s, src, false)
	assert.Equal(t, white, cut.RGBAAt(1, 1))
	assert.Equal(t, white, cut.RGBAAt(11, 11))
}

func TestSelectionEscape(t *testing.T) {
	s := &Selection{}
	esc := key.Event{Code: key.CodeEscape, Direction: key.DirPress}
	assert.Equal(t, KeyIgnored, s.KeyDown(esc))
	s.Select(0, 0, 5, 5)
	assert.Equal(t, KeyCancel, s.KeyDown(esc))
}

func TestPaste(t *testing.T) {
	img := canvas(4, 4, red)
	img.Rect = image.Rect(3, 3, 7, 7)
	p := NewPaste(img, DefaultStyle())
	assert.Equal(t, geom.R(0, 0, 4, 4), p.Src)
	assert.True(t, p.HasLiveSelection())
	assert.False(t, p.Empty())

	out := commit(p, canvas(20, 20, white), false)
	assert.Equal(t, red, out.RGBAAt(1, 1))
	assert.Equal(t, white, out.RGBAAt(5, 5))

	p.PointerDown(geom.Pt(2, 2), 0)
	p.PointerMove(geom.Pt(12, 12), 0)
	p.PointerUp(geom.Pt(12, 12), 0)
	assert.Equal(t, geom.R(10, 10, 14, 14), p.Dst)

	moved := commit(p, canvas(20, 20, white), false)
	assert.Equal(t, white, moved.RGBAAt(1, 1))
	assert.Equal(t, red, moved.RGBAAt(11, 11))
}
