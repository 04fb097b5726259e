package appstate

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"

	"github.com/example/rasterpad/internal/render"
	"github.com/example/rasterpad/internal/theme"
)

const (
	margin        = 16
	paletteHeight = 20
	statusHeight  = 24
	// bottomHeight is the palette row and the status bar together.
	bottomHeight = paletteHeight + statusHeight
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Shortcut is a clickable label in the status bar.
type Shortcut struct {
	label  string
	action string
	rect   image.Rectangle
}

func (s *Shortcut) Draw(dst *image.RGBA, th *theme.Theme, state ButtonState) {
	col := th.StatusBackground
	switch state {
	case StateHover:
		col = shade(col, 20)
	case StatePressed:
		col = shade(col, 50)
	}
	draw.Draw(dst, s.rect, &image.Uniform{col}, image.Point{}, draw.Src)
	drawRect(dst, s.rect, th.StatusText)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.StatusText), Face: basicfont.Face7x13,
		Dot: fixed.P(s.rect.Min.X+2, s.rect.Min.Y+14)}
	d.DrawString(s.label)
}

func shade(c color.RGBA, by uint8) color.RGBA {
	sub := func(v uint8) uint8 {
		if v < by {
			return 0
		}
		return v - by
	}
	return color.RGBA{sub(c.R), sub(c.G), sub(c.B), c.A}
}

// layout places the canvas in a window of the given size.
func canvasRect(canvas image.Point, winW, winH int) image.Rectangle {
	x0 := margin
	y0 := margin
	if free := winW - canvas.X; free > 2*margin {
		x0 = free / 2
	}
	if free := winH - bottomHeight - canvas.Y; free > 2*margin {
		y0 = free / 2
	}
	return image.Rectangle{Min: image.Pt(x0, y0), Max: image.Pt(x0+canvas.X, y0+canvas.Y)}
}

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color) {
	u := image.NewUniform(col)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+1), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Max.Y-1, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+1, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Max.X-1, rect.Min.Y, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
}

// backdrop caches the window background with the canvas shadow, which only
// changes when the window or canvas is resized.
type backdrop struct {
	img    *image.RGBA
	win    image.Rectangle
	canvas image.Rectangle
	theme  *theme.Theme
}

func (b *backdrop) get(win, canvas image.Rectangle, th *theme.Theme) *image.RGBA {
	if b.img != nil && b.win == win && b.canvas == canvas && b.theme == th {
		return b.img
	}
	img := image.NewRGBA(win)
	draw.Draw(img, win, &image.Uniform{th.Background}, image.Point{}, draw.Src)
	opts := render.DefaultShadowOptions()
	opts.Opacity = float64(th.Shadow.A) / 255
	if shadow := render.DropShadow(canvas, opts); shadow != nil {
		draw.Draw(img, shadow.Bounds(), shadow, shadow.Bounds().Min, draw.Over)
	}
	*b = backdrop{img: img, win: win, canvas: canvas, theme: th}
	return img
}

type paintState struct {
	width, height int
	theme         *theme.Theme
	canvas        *image.RGBA
	transparent   bool
	caret         image.Rectangle
	compose       string
	color         color.RGBA
	background    color.RGBA
	hoverSwatch   int
	shortcuts     []Shortcut
	hover         int
	status        string
	message       string
	messageUntil  time.Time
}

// layoutShortcuts places the status bar labels left to right.
func layoutShortcuts(shortcuts []Shortcut, height int) []Shortcut {
	placed := make([]Shortcut, len(shortcuts))
	x := 4
	y := height - statusHeight + 16
	meas := &font.Drawer{Face: basicfont.Face7x13}
	for i, sc := range shortcuts {
		w := meas.MeasureString(sc.label).Ceil()
		sc.rect = image.Rect(x-2, y-14, x+w+2, y+4)
		placed[i] = sc
		x = sc.rect.Max.X + 8
	}
	return placed
}

func drawStatus(dst *image.RGBA, st *paintState) {
	rect := image.Rect(0, st.height-statusHeight, st.width, st.height)
	draw.Draw(dst, rect, &image.Uniform{st.theme.StatusBackground}, image.Point{}, draw.Src)
	for i, sc := range layoutShortcuts(st.shortcuts, st.height) {
		state := StateDefault
		if i == st.hover {
			state = StateHover
		}
		sc.Draw(dst, st.theme, state)
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(st.theme.StatusText), Face: basicfont.Face7x13}
	w := d.MeasureString(st.status).Ceil()
	d.Dot = fixed.P(st.width-w-6, st.height-statusHeight+16)
	d.DrawString(st.status)
}

// drawCanvas draws the rendered canvas at cr. The text caret is part of the
// rendered canvas; it is only used here to anchor the code point hint.
func drawCanvas(dst *image.RGBA, cr image.Rectangle, st *paintState) {
	if st.transparent {
		drawCheckerboard(dst, cr, 8, st.theme.CheckerLight, st.theme.CheckerDark)
	}
	draw.Draw(dst, cr, st.canvas, image.Point{}, draw.Over)
	drawComposeHint(dst, cr.Min, st)
}

// drawComposeHint labels a code point entry just below the caret.
func drawComposeHint(dst *image.RGBA, origin image.Point, st *paintState) {
	if st.compose == "" || st.caret.Empty() {
		return
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(st.theme.StatusText), Face: basicfont.Face7x13}
	w := d.MeasureString(st.compose).Ceil()
	at := st.caret.Add(origin)
	box := image.Rect(at.Min.X, at.Max.Y+2, at.Min.X+w+6, at.Max.Y+20)
	draw.Draw(dst, box, &image.Uniform{st.theme.StatusBackground}, image.Point{}, draw.Src)
	drawRect(dst, box, st.theme.StatusText)
	d.Dot = fixed.P(box.Min.X+3, box.Max.Y-5)
	d.DrawString(st.compose)
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState, bd *backdrop) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	dst := b.RGBA()

	cr := canvasRect(st.canvas.Rect.Size(), st.width, st.height)
	draw.Draw(dst, dst.Bounds(), bd.get(dst.Bounds(), cr, st.theme), image.Point{}, draw.Src)
	if ctx.Err() != nil {
		return
	}

	drawCanvas(dst, cr, &st)
	if ctx.Err() != nil {
		return
	}

	drawPalette(dst, &st)
	drawStatus(dst, &st)

	if st.message != "" && time.Now().Before(st.messageUntil) {
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(st.theme.StatusText), Face: basicfont.Face7x13}
		wmsg := d.MeasureString(st.message).Ceil()
		px := (st.width - wmsg) / 2
		py := st.height - bottomHeight - 12
		rect := image.Rect(px-8, py-16, px+wmsg+8, py+6)
		draw.Draw(dst, rect, &image.Uniform{st.theme.StatusBackground}, image.Point{}, draw.Over)
		drawRect(dst, rect, st.theme.StatusText)
		d.Dot = fixed.P(px, py)
		d.DrawString(st.message)
	}

	if ctx.Err() != nil {
		return
	}

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

func statusLine(tool string, width float64, antialias bool, font, cursor string, modified bool) string {
	s := fmt.Sprintf("%s  w:%g  aa:%t  %s  %s", tool, width, antialias, font, cursor)
	if modified {
		s += "  *"
	}
	return s
}
