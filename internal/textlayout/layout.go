package textlayout

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Layout is text broken into lines and measured with one face. Rune indices
// count every rune of the original text, line breaks included. The layout
// origin is the top-left of the first line box.
type Layout struct {
	face    font.Face
	lines   [][]rune
	ascent  int
	height  int
	preedit [2]int
}

// New lays text out with f.
func New(f Font, text string) (*Layout, error) {
	face, err := f.Face()
	if err != nil {
		return nil, err
	}
	m := face.Metrics()
	l := &Layout{
		face:   face,
		ascent: m.Ascent.Ceil(),
		height: m.Height.Ceil(),
	}
	if l.height <= 0 {
		l.height = m.Ascent.Ceil() + m.Descent.Ceil()
	}
	for _, line := range strings.Split(text, "\n") {
		l.lines = append(l.lines, []rune(line))
	}
	return l, nil
}

// SetPreedit marks the rune range [start, end) as composition text, which
// Draw underlines.
func (l *Layout) SetPreedit(start, end int) {
	l.preedit = [2]int{start, end}
}

// LineHeight returns the distance between baselines.
func (l *Layout) LineHeight() int { return l.height }

// Lines returns the number of lines.
func (l *Layout) Lines() int { return len(l.lines) }

func (l *Layout) baseline(i int) fixed.Int26_6 {
	return fixed.I(l.ascent + i*l.height)
}

// Ink returns the bounds of the painted glyphs relative to the layout
// origin. It is empty for blank text.
func (l *Layout) Ink() image.Rectangle {
	var ink image.Rectangle
	for i, line := range l.lines {
		if len(line) == 0 {
			continue
		}
		b, _ := font.BoundString(l.face, string(line))
		r := image.Rect(
			b.Min.X.Floor(), (b.Min.Y + l.baseline(i)).Floor(),
			b.Max.X.Ceil(), (b.Max.Y + l.baseline(i)).Ceil(),
		)
		if r.Empty() {
			continue
		}
		ink = ink.Union(r)
	}
	return ink
}

// Logical returns the line boxes' extent: the widest advance by the number
// of lines times the line height.
func (l *Layout) Logical() image.Rectangle {
	w := 0
	for _, line := range l.lines {
		if a := font.MeasureString(l.face, string(line)).Ceil(); a > w {
			w = a
		}
	}
	return image.Rect(0, 0, w, len(l.lines)*l.height)
}

// position maps a rune index to a line and a column, clamping to the text.
func (l *Layout) position(index int) (line, col int) {
	if index < 0 {
		index = 0
	}
	for i, runes := range l.lines {
		if index <= len(runes) {
			return i, index
		}
		index -= len(runes) + 1
	}
	last := len(l.lines) - 1
	return last, len(l.lines[last])
}

// CursorRect returns the zero-width caret box before the rune at index.
func (l *Layout) CursorRect(index int) image.Rectangle {
	line, col := l.position(index)
	x := font.MeasureString(l.face, string(l.lines[line][:col])).Round()
	y := line * l.height
	return image.Rect(x, y, x, y+l.height)
}

// Underlines returns one-pixel bars under the composition range, one per
// line it spans.
func (l *Layout) Underlines() []image.Rectangle {
	start, end := l.preedit[0], l.preedit[1]
	if end <= start {
		return nil
	}
	sl, sc := l.position(start)
	el, ec := l.position(end)
	var out []image.Rectangle
	for i := sl; i <= el; i++ {
		from, to := 0, len(l.lines[i])
		if i == sl {
			from = sc
		}
		if i == el {
			to = ec
		}
		x0 := font.MeasureString(l.face, string(l.lines[i][:from])).Round()
		x1 := font.MeasureString(l.face, string(l.lines[i][:to])).Round()
		if x1 <= x0 {
			continue
		}
		y := l.ascent + i*l.height + 1
		out = append(out, image.Rect(x0, y, x1, y+1))
	}
	return out
}

// Image renders the text in col onto a transparent image whose bounds are
// in layout coordinates and cover both the ink and the line boxes.
func (l *Layout) Image(col color.Color) *image.RGBA {
	r := l.Logical().Union(l.Ink())
	img := image.NewRGBA(r)
	src := image.NewUniform(col)
	d := &font.Drawer{Dst: img, Src: src, Face: l.face}
	for i, line := range l.lines {
		d.Dot = fixed.Point26_6{X: 0, Y: l.baseline(i)}
		d.DrawString(string(line))
	}
	for _, u := range l.Underlines() {
		draw.Draw(img, u, src, image.Point{}, draw.Over)
	}
	return img
}
