package tools

import (
	"image"
	"image/color"
	"time"
	"unicode"

	"golang.org/x/mobile/event/key"

	"github.com/example/rasterpad/internal/geom"
	"github.com/example/rasterpad/internal/render"
	"github.com/example/rasterpad/internal/textlayout"
)

// TextMargin pads the text box outline, split evenly on both sides.
const TextMargin = 8

// Text is an editable text box. Its Src rectangle is measured from the
// layout rather than dragged, and it can be moved and scaled like any other
// region once it holds text.
type Text struct {
	base
	Region
	placed  bool
	runes   []rune
	current int
	preedit []rune
	// preeditCursor is the caret offset inside the composition text.
	preeditCursor int
}

func (t *Text) Kind() Kind { return KindText }

// Text returns the committed text, without any composition.
func (t *Text) Text() string { return string(t.runes) }

// Caret returns the caret position as a rune index into Text.
func (t *Text) Caret() int { return t.current }

func (t *Text) outline() *render.Path {
	p := render.NewPath()
	m := TextMargin / 2.0
	p.Rectangle(geom.R(t.Src.Min.X-m, t.Src.Min.Y-m, t.Src.Max.X+m, t.Src.Max.Y+m))
	return p
}

func (t *Text) HasLiveSelection() bool { return t.placed && len(t.runes) > 0 }
func (t *Text) IsRegionTool() bool { return true }
func (t *Text) IsTextTool() bool { return true }
func (t *Text) HasAnimation() bool { return t.placed }
func (t *Text) Empty() bool { return !t.HasLiveSelection() }

func (t *Text) Contains(p geom.Point) bool {
	return t.HasLiveSelection() && t.within(t.outline(), p)
}

func (t *Text) CursorFor(p geom.Point, pressed bool) Cursor {
	return t.cursor(t.outline(), t.HasLiveSelection(), p, pressed, CursorXTerm)
}

func (t *Text) PointerDown(p geom.Point, _ key.Modifiers) {
	if t.grab(t.outline(), t.HasLiveSelection(), p) {
		return
	}
	if len(t.runes) == 0 {
		t.place(p)
	}
}

func (t *Text) PointerMove(p geom.Point, mods key.Modifiers) { t.drag(p, mods) }
func (t *Text) PointerUp(geom.Point, key.Modifiers) { t.drop() }

func (t *Text) place(p geom.Point) {
	t.placed = true
	t.runes = t.runes[:0]
	t.current = 0
	t.Src = geom.Rect{Min: p, Max: p}
	t.Dst = t.Src
}

// InsertText inserts s at the caret. Unplaced text is placed at the origin.
func (t *Text) InsertText(s string) {
	if !t.placed {
		t.place(geom.Point{})
	}
	ins := []rune(s)
	t.runes = append(t.runes[:t.current], append(ins, t.runes[t.current:]...)...)
	t.current += len(ins)
}

// CommitText inserts composed input. It reports false before placement.
func (t *Text) CommitText(s string) bool {
	if !t.placed {
		return false
	}
	t.InsertText(s)
	return true
}

// SetPreedit shows s at the caret as uncommitted composition with its own
// caret at cursor runes into s.
func (t *Text) SetPreedit(s string, cursor int) bool {
	if !t.placed {
		return false
	}
	t.preedit = []rune(s)
	t.preeditCursor = min(max(cursor, 0), len(t.preedit))
	return true
}

// ClearPreedit drops any composition text.
func (t *Text) ClearPreedit() {
	t.preedit = nil
	t.preeditCursor = 0
}

// DeleteSurrounding removes n runes starting offset runes from the caret.
// A range outside the text is rejected and nothing changes.
func (t *Text) DeleteSurrounding(offset, n int) bool {
	if !t.placed || n < 0 {
		return false
	}
	begin := t.current + offset
	end := begin + n
	if begin < 0 || len(t.runes) < end {
		return false
	}
	t.runes = append(t.runes[:begin], t.runes[end:]...)
	switch {
	case end <= t.current:
		t.current -= n
	case begin <= t.current:
		t.current = begin
	}
	return true
}

func (t *Text) KeyDown(e key.Event) KeyResult {
	if !t.placed {
		return KeyIgnored
	}
	switch e.Code {
	case key.CodeDeleteBackspace:
		if t.current > 0 {
			t.runes = append(t.runes[:t.current-1], t.runes[t.current:]...)
			t.current--
			return KeyHandled
		}
		return KeyIgnored
	case key.CodeDeleteForward:
		if t.current < len(t.runes) {
			t.runes = append(t.runes[:t.current], t.runes[t.current+1:]...)
			return KeyHandled
		}
		return KeyIgnored
	case key.CodeLeftArrow:
		if t.current > 0 {
			t.current--
			return KeyHandled
		}
		return KeyIgnored
	case key.CodeRightArrow:
		if t.current < len(t.runes) {
			t.current++
			return KeyHandled
		}
		return KeyIgnored
	case key.CodeHome:
		if t.current > 0 {
			t.current = 0
			return KeyHandled
		}
		return KeyIgnored
	case key.CodeEnd:
		if t.current < len(t.runes) {
			t.current = len(t.runes)
			return KeyHandled
		}
		return KeyIgnored
	case key.CodeReturnEnter:
		t.InsertText("\n")
		return KeyHandled
	case key.CodeEscape:
		return KeyCancel
	}
	if typed(e) {
		t.InsertText(string(e.Rune))
		return KeyHandled
	}
	return KeyIgnored
}

// KeyUp swallows the release of keys that typed text.
func (t *Text) KeyUp(e key.Event) bool { return t.placed && typed(e) }

func typed(e key.Event) bool {
	if e.Modifiers&(key.ModControl|key.ModMeta|key.ModAlt) != 0 {
		return false
	}
	return e.Rune > 0 && unicode.IsPrint(e.Rune)
}

// layout measures the text with the composition spliced in at the caret and
// returns the caret index within the spliced text.
func (t *Text) layout() (*textlayout.Layout, int) {
	f, err := textlayout.ParseFont(t.style.Font)
	if err != nil {
		f, _ = textlayout.ParseFont(textlayout.Default)
	}
	text := make([]rune, 0, len(t.runes)+len(t.preedit))
	text = append(text, t.runes[:t.current]...)
	text = append(text, t.preedit...)
	text = append(text, t.runes[t.current:]...)
	l, err := textlayout.New(f, string(text))
	if err != nil {
		return nil, 0
	}
	if len(t.preedit) > 0 {
		l.SetPreedit(t.current, t.current+len(t.preedit))
	}
	return l, t.current + t.preeditCursor
}

// Reflow re-measures Src from the layout and resizes Dst to keep the
// current scale.
func (t *Text) Reflow() {
	if !t.HasLiveSelection() {
		return
	}
	l, _ := t.layout()
	if l == nil {
		return
	}
	ink := l.Ink()
	w := max(ink.Dx(), 1)
	ext := geom.Pt(float64(ink.Min.X+w), float64(ink.Min.Y+ink.Dy()))
	scale := t.Scale()
	t.Src.Max = t.Src.Min.Add(ext)
	if scale.X == 0 || scale.Y == 0 {
		t.Dst = t.Src
		return
	}
	t.Dst.Max = t.Dst.Min.Add(ext.Mul(scale))
}

// placement maps layout coordinates onto Dst. An unmeasured box uses unit
// scale.
func (t *Text) placement() geom.Affine {
	scale := t.Scale()
	if scale.X == 0 || scale.Y == 0 {
		scale = geom.Pt(1, 1)
	}
	return geom.Affine{SX: scale.X, SY: scale.Y, TX: t.Dst.Min.X, TY: t.Dst.Min.Y}
}

// Paint draws the text at Dst, scaled by the region, and the blinking caret
// while editing.
func (t *Text) Paint(tg *Target) {
	if !t.placed {
		return
	}
	l, caret := t.layout()
	if l == nil {
		return
	}
	at := t.placement()
	tg.Canvas.Paint(l.Image(t.style.Color), at, nil, t.style.Antialias)
	if tg.Committing || !blinkOn(tg.Now) {
		return
	}
	r := l.CursorRect(caret)
	box := render.NewPath()
	box.Rectangle(at.Rect(caretBox(r)))
	tg.Canvas.Fill(box, render.Style{Color: color.RGBA{255, 255, 255, 255}, Op: render.OpDifference})
}

// CaretRect returns the caret box in canvas coordinates for placing an
// input method window.
func (t *Text) CaretRect() image.Rectangle {
	l, caret := t.layout()
	if !t.placed || l == nil {
		return image.Rectangle{}
	}
	return t.placement().Rect(caretBox(l.CursorRect(caret))).Image()
}

// caretBox widens the zero-width layout caret by a pixel on each side.
func caretBox(r image.Rectangle) geom.Rect {
	return geom.R(float64(r.Min.X-1), float64(r.Min.Y), float64(r.Max.X+1), float64(r.Max.Y))
}

// blinkOn is the visible half of the caret's one second blink.
func blinkOn(now time.Time) bool {
	tenths := now.UnixNano() / int64(100*time.Millisecond)
	return tenths%10 >= 5
}

func (t *Text) Copy(*image.RGBA) Clip { return Clip{Text: string(t.runes)} }

// Cut hands the text over and empties the box without committing it.
func (t *Text) Cut(src *image.RGBA) (Clip, bool) {
	c := t.Copy(src)
	t.runes = t.runes[:0]
	t.current = 0
	t.ClearPreedit()
	return c, false
}
