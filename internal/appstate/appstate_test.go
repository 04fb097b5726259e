package appstate

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/rasterpad/internal/geom"
	"github.com/example/rasterpad/internal/notify"
	"github.com/example/rasterpad/internal/platform"
	"github.com/example/rasterpad/internal/session"
	"github.com/example/rasterpad/internal/theme"
	"github.com/example/rasterpad/internal/tools"
)

type memClipboard struct {
	img  image.Image
	text string
}

func (c *memClipboard) ReadImage() (image.Image, error) {
	if c.img == nil {
		return nil, errors.New("no image")
	}
	return c.img, nil
}
func (c *memClipboard) WriteImage(img image.Image) error { c.img = img; return nil }
func (c *memClipboard) ReadText() (string, error)        { return c.text, nil }
func (c *memClipboard) WriteText(s string) error         { c.text = s; return nil }

func typed(r rune, mods key.Modifiers) key.Event {
	return key.Event{Rune: r, Modifiers: mods, Direction: key.DirPress}
}

func newTestController(t *testing.T, output string) (*controller, *memClipboard) {
	t.Helper()
	clip := &memClipboard{}
	opts := session.DefaultOptions()
	opts.Clipboard = clip
	sess, err := session.New(40, 30, opts)
	require.NoError(t, err)
	return newController(sess, output, nil), clip
}

func drag(sess *session.Session, from, to geom.Point) {
	sess.PointerDown(from, 0)
	sess.PointerMove(to, 0, true)
	sess.PointerUp(to, 0)
}

func TestToolShortcuts(t *testing.T) {
	c, _ := newTestController(t, "")
	tests := map[rune]tools.Kind{
		'p': tools.KindPencil,
		'e': tools.KindEraser,
		'l': tools.KindLine,
		'r': tools.KindRectangle,
		'o': tools.KindOval,
		's': tools.KindSelection,
		'a': tools.KindLasso,
		't': tools.KindText,
		'f': tools.KindFloodFill,
	}
	for r, want := range tests {
		assert.True(t, c.handleKey(typed(r, 0)), string(r))
		assert.Equal(t, want, c.sess.Kind(), string(r))
		c.sess.Escape()
	}
}

func TestUndoRedoShortcuts(t *testing.T) {
	c, _ := newTestController(t, "")
	require.NoError(t, c.sess.SelectTool(tools.KindRectangle))
	drag(c.sess, geom.Pt(2, 2), geom.Pt(20, 20))
	require.True(t, c.sess.Buffer().Modified())

	c.handleKey(typed('z', key.ModControl))
	assert.False(t, c.sess.Buffer().Modified())
	c.handleKey(typed('Z', key.ModControl|key.ModShift))
	assert.True(t, c.sess.Buffer().Modified())
	c.handleKey(typed('z', key.ModControl))
	c.handleKey(typed('y', key.ModControl))
	assert.True(t, c.sess.Buffer().Modified())
}

func TestStyleShortcuts(t *testing.T) {
	c, _ := newTestController(t, "")
	c.handleKey(typed(']', 0))
	assert.Equal(t, 2.0, c.sess.Style().LineWidth)
	c.handleKey(typed('[', 0))
	c.handleKey(typed('[', 0))
	assert.Equal(t, 1.0, c.sess.Style().LineWidth)

	aa := c.sess.Style().Antialias
	c.handleKey(typed('b', 0))
	assert.Equal(t, !aa, c.sess.Style().Antialias)

	c.handleKey(typed('g', 0))
	assert.True(t, c.sess.Buffer().Transparent())
}

func TestStepWidth(t *testing.T) {
	assert.Equal(t, 4.0, stepWidth(3, 1))
	assert.Equal(t, 3.0, stepWidth(3.5, -1))
	assert.Equal(t, 24.0, stepWidth(24, 1))
	assert.Equal(t, 1.0, stepWidth(0.5, -1))
}

func TestTextBoxTakesLetters(t *testing.T) {
	c, _ := newTestController(t, "")
	c.handleKey(typed('t', 0))
	c.sess.PointerDown(geom.Pt(5, 5), 0)
	c.sess.PointerUp(geom.Pt(5, 5), 0)
	c.handleKey(typed('p', 0))
	c.handleKey(typed('r', 0))
	require.Equal(t, tools.KindText, c.sess.Kind())
	assert.Equal(t, "pr", c.sess.Tool().(tools.TextEditor).Text())
}

func TestEscapeCancels(t *testing.T) {
	c, _ := newTestController(t, "")
	c.handleKey(typed('a', key.ModControl))
	require.True(t, c.sess.Tool().HasLiveSelection())
	c.handleKey(key.Event{Code: key.CodeEscape, Rune: -1, Direction: key.DirPress})
	assert.False(t, c.sess.Tool().HasLiveSelection())
	assert.False(t, c.sess.Buffer().Modified())
}

func TestCopyShortcut(t *testing.T) {
	c, clip := newTestController(t, "")
	c.handleKey(typed('c', key.ModControl))
	assert.Equal(t, session.ErrNothingSelected.Error(), c.message)

	var bodies []string
	n := notify.New(notify.DefaultPreferences())
	n.SetSender(func(title, body string, opts platform.Options) error {
		bodies = append(bodies, body)
		return nil
	})
	n.Enable(notify.EventCopy, true)
	c.notifier = n

	c.handleKey(typed('a', key.ModControl))
	c.handleKey(typed('c', key.ModControl))
	require.NotNil(t, clip.img)
	assert.Equal(t, image.Rect(0, 0, 40, 30), clip.img.Bounds())
	assert.Equal(t, []string{"Copied selection to clipboard"}, bodies)
	assert.Equal(t, "copied selection", c.message)
}

func TestSaveShortcut(t *testing.T) {
	c, _ := newTestController(t, "")
	c.handleKey(typed('s', key.ModControl))
	assert.Equal(t, errNoOutput.Error(), c.message)

	out := filepath.Join(t.TempDir(), "out.png")
	c.output = out
	require.NoError(t, c.sess.SelectTool(tools.KindRectangle))
	drag(c.sess, geom.Pt(2, 2), geom.Pt(20, 20))
	c.handleKey(typed('s', key.ModControl))
	assert.Equal(t, "saved "+out, c.message)
	assert.False(t, c.sess.Buffer().Modified())
	_, err := os.Stat(out)
	assert.NoError(t, err)
}

func TestQuitShortcut(t *testing.T) {
	c, _ := newTestController(t, "")
	c.handleKey(typed('q', key.ModControl))
	assert.True(t, c.quit)
}

func TestAnimatorPostsOnce(t *testing.T) {
	posted := make(chan struct{}, 4)
	a := newAnimator(func() { posted <- struct{}{} })
	a.interval = 5 * time.Millisecond

	a.schedule(false)
	assert.False(t, a.pending())

	a.schedule(true)
	a.schedule(true)
	select {
	case <-posted:
	case <-time.After(time.Second):
		t.Fatal("tick not posted")
	}
	assert.False(t, a.pending())
	select {
	case <-posted:
		t.Fatal("tick posted twice")
	case <-time.After(50 * time.Millisecond):
	}

	a.schedule(true)
	a.stop()
	assert.False(t, a.pending())
}

func TestCanvasRect(t *testing.T) {
	r := canvasRect(image.Pt(100, 50), 300, 200)
	assert.Equal(t, image.Pt(100, 50), r.Size())
	assert.Equal(t, image.Pt(100, 53), r.Min)

	r = canvasRect(image.Pt(100, 50), 110, 60)
	assert.Equal(t, image.Pt(margin, margin), r.Min)
}

func pressCode(code key.Code, mods key.Modifiers) key.Event {
	return key.Event{Code: code, Rune: -1, Modifiers: mods, Direction: key.DirPress}
}

// placeText selects the text tool and places a box holding s.
func placeText(t *testing.T, c *controller, s string) tools.TextEditor {
	t.Helper()
	require.NoError(t, c.sess.SelectTool(tools.KindText))
	c.sess.PointerDown(geom.Pt(2, 2), 0)
	c.sess.PointerUp(geom.Pt(2, 2), 0)
	if s != "" {
		require.True(t, c.sess.CommitText(s))
	}
	return c.sess.Tool().(tools.TextEditor)
}

func TestColorShortcuts(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	c, _ := newTestController(t, "")

	c.handleKey(typed('3', 0))
	assert.Equal(t, red, c.sess.Style().Color)
	assert.Equal(t, "colour red", c.message)
	c.handleKey(typed('c', 0))
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, c.sess.Style().Color)
	c.handleKey(typed('C', key.ModShift))
	assert.Equal(t, red, c.sess.Style().Color)

	c.handleKey(typed('B', key.ModShift))
	assert.Equal(t, red, c.sess.Buffer().Background())

	c.pickSwatch(4, mouse.ButtonLeft)
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, c.sess.Style().Color)
	c.pickSwatch(15, mouse.ButtonLeft)
	assert.Equal(t, palette[15].Color, c.sess.Style().Color)
	c.pickSwatch(1, mouse.ButtonRight)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, c.sess.Buffer().Background())

	c.sess.SetColor(color.RGBA{1, 2, 3, 255})
	c.handleKey(typed('c', 0))
	assert.Equal(t, palette[0].Color, c.sess.Style().Color)
}

func TestFontShortcuts(t *testing.T) {
	c, _ := newTestController(t, "")
	require.Equal(t, "Go 12", c.sess.Style().Font)

	c.handleKey(typed('=', key.ModControl))
	assert.Equal(t, "Go 14", c.sess.Style().Font)
	c.handleKey(typed('-', key.ModControl))
	c.handleKey(typed('-', key.ModControl))
	assert.Equal(t, "Go 10", c.sess.Style().Font)
	c.handleKey(typed('f', key.ModControl))
	assert.Equal(t, "Go Italic 10", c.sess.Style().Font)
	assert.Equal(t, "font Go Italic 10", c.message)
}

func TestFontShortcutsWhileTyping(t *testing.T) {
	c, _ := newTestController(t, "")
	ed := placeText(t, c, "ab")
	c.handleKey(typed('+', key.ModControl|key.ModShift))
	assert.Equal(t, "Go 14", c.sess.Style().Font)
	assert.Equal(t, "ab", ed.Text())
}

func TestComposeShortcut(t *testing.T) {
	c, _ := newTestController(t, "")
	c.handleKey(typed('U', key.ModControl|key.ModShift))
	assert.Equal(t, errNoTextBox.Error(), c.message)
	assert.Empty(t, c.composeHint())

	ed := placeText(t, c, "x")
	c.handleKey(typed('U', key.ModControl|key.ModShift))
	for _, r := range "e9" {
		assert.True(t, c.handleKey(typed(r, 0)))
	}
	assert.Equal(t, "U+E9", c.composeHint())
	assert.Equal(t, "x", ed.Text())
	c.handleKey(key.Event{Code: key.CodeSpacebar, Rune: ' ', Direction: key.DirPress})
	assert.Equal(t, "xé", ed.Text())
	assert.Empty(t, c.composeHint())

	c.handleKey(typed('u', key.ModControl|key.ModShift))
	c.handleKey(typed('4', 0))
	c.handleKey(pressCode(key.CodeDeleteBackspace, 0))
	c.handleKey(pressCode(key.CodeReturnEnter, 0))
	assert.Equal(t, `invalid code point ""`, c.message)
	assert.Equal(t, "xé", ed.Text())

	c.handleKey(typed('u', key.ModControl|key.ModShift))
	c.handleKey(typed('4', 0))
	c.handleKey(pressCode(key.CodeEscape, 0))
	assert.Empty(t, c.composeHint())
	assert.True(t, c.sess.Tool().HasLiveSelection())
	assert.Equal(t, "xé", ed.Text())
}

func TestDeleteWordShortcuts(t *testing.T) {
	c, _ := newTestController(t, "")
	ed := placeText(t, c, "hello big world")

	c.handleKey(pressCode(key.CodeDeleteBackspace, key.ModControl))
	assert.Equal(t, "hello big ", ed.Text())
	c.handleKey(pressCode(key.CodeDeleteBackspace, key.ModControl))
	assert.Equal(t, "hello ", ed.Text())

	c.handleKey(pressCode(key.CodeHome, 0))
	require.Equal(t, 0, ed.Caret())
	c.handleKey(pressCode(key.CodeDeleteForward, key.ModControl))
	assert.Equal(t, " ", ed.Text())
	c.handleKey(pressCode(key.CodeDeleteForward, key.ModControl))
	assert.Equal(t, "", ed.Text())
}

func TestCanvasLeavesCaretToTextTool(t *testing.T) {
	white := color.RGBA{255, 255, 255, 255}
	canvas := image.NewRGBA(image.Rect(0, 0, 40, 30))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(white), image.Point{}, draw.Src)
	th := theme.Default()
	st := paintState{theme: th, canvas: canvas, caret: image.Rect(5, 5, 7, 20)}
	cr := image.Rect(10, 10, 50, 40)

	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))
	drawCanvas(dst, cr, &st)
	assert.Equal(t, white, dst.RGBAAt(16, 16))

	st.compose = "U+E9"
	drawCanvas(dst, cr, &st)
	assert.Equal(t, white, dst.RGBAAt(16, 16))
	assert.Equal(t, th.StatusText, dst.RGBAAt(15, 32))
}
