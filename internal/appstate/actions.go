package appstate

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/rasterpad/internal/codec"
	"github.com/example/rasterpad/internal/notify"
	"github.com/example/rasterpad/internal/session"
	"github.com/example/rasterpad/internal/textlayout"
	"github.com/example/rasterpad/internal/tools"
)

// ProgramTitle is shown in the window title.
const ProgramTitle = "rasterpad"

const messageDuration = 2 * time.Second

var (
	errNoOutput  = errors.New("no output file")
	errNoTextBox = errors.New("no text box to type into")
)

// lineWidths are the steps taken by the width shortcuts.
var lineWidths = []float64{1, 2, 3, 4, 6, 8, 12, 16, 24}

// textSizes are the steps taken by the font size shortcuts.
var textSizes = []float64{8, 10, 12, 14, 16, 20, 24, 32, 48, 64}

// maxComposeDigits bounds a code point entry; U+10FFFF has six.
const maxComposeDigits = 6

// LineWidths returns the stroke widths the width shortcuts step through.
func LineWidths() []float64 {
	return append([]float64(nil), lineWidths...)
}

// controller maps window shortcuts onto session operations.
type controller struct {
	sess     *session.Session
	output   string
	notifier *notify.Notifier

	actions map[string]func() error
	keys    map[KeyShortcut]string

	message      string
	messageUntil time.Time
	quit         bool

	// composing is set during a Ctrl+Shift+U code point entry, whose hex
	// digits so far are held in compose.
	composing bool
	compose   []rune
}

func newController(sess *session.Session, output string, notifier *notify.Notifier) *controller {
	c := &controller{
		sess:     sess,
		output:   output,
		notifier: notifier,
		actions:  map[string]func() error{},
		keys:     map[KeyShortcut]string{},
	}
	c.registerAll()
	return c
}

func (c *controller) register(name string, keys KeyboardShortcuts, fn func() error) {
	c.actions[name] = fn
	if keys != nil {
		for _, sc := range keys.KeyboardShortcuts() {
			c.keys[sc] = name
		}
	}
}

func (c *controller) registerAll() {
	ctrl := key.ModControl
	c.register("undo", shortcutList{{Rune: 'z', Modifiers: ctrl}}, func() error {
		c.sess.Undo()
		return nil
	})
	c.register("redo", shortcutList{{Rune: 'z', Modifiers: ctrl | key.ModShift}, {Rune: 'y', Modifiers: ctrl}}, func() error {
		c.sess.Redo()
		return nil
	})
	c.register("copy", shortcutList{{Rune: 'c', Modifiers: ctrl}}, c.copy)
	c.register("cut", shortcutList{{Rune: 'x', Modifiers: ctrl}}, c.cut)
	c.register("paste", shortcutList{{Rune: 'v', Modifiers: ctrl}}, c.sess.Paste)
	c.register("selectall", shortcutList{{Rune: 'a', Modifiers: ctrl}}, func() error {
		c.sess.SelectAll()
		return nil
	})
	c.register("save", shortcutList{{Rune: 's', Modifiers: ctrl}}, c.save)
	c.register("quit", shortcutList{{Rune: 'q', Modifiers: ctrl}}, func() error {
		c.quit = true
		return nil
	})
	c.register("cancel", shortcutList{{Code: key.CodeEscape}}, func() error {
		c.sess.Escape()
		return nil
	})

	toolKeys := map[rune]tools.Kind{
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
	for r, kind := range toolKeys {
		kind := kind
		c.register("tool:"+kind.String(), shortcutList{{Rune: r}}, func() error {
			return c.sess.SelectTool(kind)
		})
	}

	c.register("thinner", shortcutList{{Rune: '['}}, func() error {
		c.sess.SetLineWidth(stepWidth(c.sess.Style().LineWidth, -1))
		return nil
	})
	c.register("thicker", shortcutList{{Rune: ']'}}, func() error {
		c.sess.SetLineWidth(stepWidth(c.sess.Style().LineWidth, 1))
		return nil
	})
	c.register("antialias", shortcutList{{Rune: 'b'}}, func() error {
		c.sess.SetAntialias(!c.sess.Style().Antialias)
		return nil
	})
	c.register("transparent", shortcutList{{Rune: 'g'}}, func() error {
		c.sess.SetTransparent(!c.sess.Buffer().Transparent())
		return nil
	})

	// The first ten swatches sit on the digit keys.
	digits := []rune("1234567890")
	for i := range palette {
		i := i
		var keys KeyboardShortcuts
		if i < len(digits) {
			keys = shortcutList{{Rune: digits[i]}}
		}
		c.register("color:"+strings.ToLower(palette[i].Name), keys, func() error {
			return c.setColor(i)
		})
	}
	c.register("nextcolor", shortcutList{{Rune: 'c'}}, func() error { return c.stepColor(1) })
	c.register("prevcolor", shortcutList{{Rune: 'c', Modifiers: key.ModShift}}, func() error { return c.stepColor(-1) })
	c.register("background", shortcutList{{Rune: 'b', Modifiers: key.ModShift}}, func() error {
		return c.setBackground(c.sess.Style().Color)
	})

	c.register("fontlarger", shortcutList{
		{Rune: '=', Modifiers: ctrl},
		{Rune: '+', Modifiers: ctrl},
		{Rune: '+', Modifiers: ctrl | key.ModShift},
	}, func() error { return c.stepFontSize(1) })
	c.register("fontsmaller", shortcutList{{Rune: '-', Modifiers: ctrl}}, func() error { return c.stepFontSize(-1) })
	c.register("fontfamily", shortcutList{{Rune: 'f', Modifiers: ctrl}}, c.nextFontFamily)

	c.register("compose", shortcutList{{Rune: 'u', Modifiers: ctrl | key.ModShift}}, c.startCompose)
	c.register("deleteword", shortcutList{{Code: key.CodeDeleteBackspace, Modifiers: ctrl}}, func() error {
		c.deleteWord(-1)
		return nil
	})
	c.register("deletewordforward", shortcutList{{Code: key.CodeDeleteForward, Modifiers: ctrl}}, func() error {
		c.deleteWord(1)
		return nil
	})
}

// stepWidth moves w to the neighbouring entry of lineWidths in direction dir.
func stepWidth(w float64, dir int) float64 { return step(lineWidths, w, dir) }

// step moves v to the next larger (dir > 0) or smaller entry of the sorted
// steps, stopping at either end.
func step(steps []float64, v float64, dir int) float64 {
	if dir > 0 {
		for _, s := range steps {
			if s > v {
				return s
			}
		}
		return steps[len(steps)-1]
	}
	for i := len(steps) - 1; i >= 0; i-- {
		if steps[i] < v {
			return steps[i]
		}
	}
	return steps[0]
}

func (c *controller) setColor(i int) error {
	c.sess.SetColor(palette[i].Color)
	c.flash("colour " + strings.ToLower(palette[i].Name))
	return nil
}

// stepColor moves to the neighbouring swatch, wrapping around. A colour
// outside the palette steps from the first swatch.
func (c *controller) stepColor(dir int) error {
	n := len(palette)
	i := paletteIndex(c.sess.Style().Color)
	if i < 0 {
		i = 0
	} else {
		i = ((i+dir)%n + n) % n
	}
	return c.setColor(i)
}

func (c *controller) setBackground(col color.RGBA) error {
	col.A = 0xff
	c.sess.SetBackground(col)
	c.flash("background " + strings.ToLower(colorName(col)))
	return nil
}

// pickSwatch handles a click on swatch i: the primary button picks the
// drawing colour, the secondary the background.
func (c *controller) pickSwatch(i int, b mouse.Button) {
	switch b {
	case mouse.ButtonLeft:
		c.run("color:" + strings.ToLower(palette[i].Name))
	case mouse.ButtonRight:
		if err := c.setBackground(palette[i].Color); err != nil {
			c.flash(err.Error())
		}
	}
}

func (c *controller) font() (textlayout.Font, error) {
	return textlayout.ParseFont(c.sess.Style().Font)
}

func (c *controller) setFont(desc string) error {
	if err := c.sess.SetFont(desc); err != nil {
		return err
	}
	c.flash("font " + c.sess.Style().Font)
	return nil
}

func (c *controller) stepFontSize(dir int) error {
	f, err := c.font()
	if err != nil {
		return err
	}
	f.Size = step(textSizes, f.Size, dir)
	return c.setFont(f.String())
}

// nextFontFamily cycles through textlayout.Families keeping the size.
func (c *controller) nextFontFamily() error {
	f, err := c.font()
	if err != nil {
		return err
	}
	families := textlayout.Families()
	next := families[(slices.Index(families, f.Name())+1)%len(families)]
	return c.setFont(fmt.Sprintf("%s %g", next, f.Size))
}

// deleteWord removes the word before (dir < 0) or after the caret of the
// active text box, along with the spaces between it and the caret.
func (c *controller) deleteWord(dir int) {
	ed, ok := c.sess.Tool().(tools.TextEditor)
	if !ok {
		return
	}
	runes := []rune(ed.Text())
	at := ed.Caret()
	end := at
	if dir < 0 {
		for end > 0 && unicode.IsSpace(runes[end-1]) {
			end--
		}
		for end > 0 && !unicode.IsSpace(runes[end-1]) {
			end--
		}
		if end < at {
			c.sess.DeleteSurrounding(end-at, at-end)
		}
		return
	}
	for end < len(runes) && unicode.IsSpace(runes[end]) {
		end++
	}
	for end < len(runes) && !unicode.IsSpace(runes[end]) {
		end++
	}
	if end > at {
		c.sess.DeleteSurrounding(0, end-at)
	}
}

func (c *controller) startCompose() error {
	if !c.sess.SetPreedit("u", 1) {
		return errNoTextBox
	}
	c.composing, c.compose = true, nil
	return nil
}

// composeKey feeds one key to a code point entry. Hex digits extend it,
// Space or Return inserts the character, Backspace edits and Escape
// abandons it. Every key is consumed while the entry lasts.
func (c *controller) composeKey(e key.Event) bool {
	switch {
	case e.Code == key.CodeEscape:
		c.endCompose()
	case e.Code == key.CodeDeleteBackspace:
		if len(c.compose) == 0 {
			c.endCompose()
			break
		}
		c.compose = c.compose[:len(c.compose)-1]
		c.showCompose()
	case e.Code == key.CodeSpacebar, e.Code == key.CodeReturnEnter, e.Code == key.CodeKeypadEnter:
		c.finishCompose()
	case isHexDigit(e.Rune) && len(c.compose) < maxComposeDigits:
		c.compose = append(c.compose, unicode.ToLower(e.Rune))
		c.showCompose()
	}
	return true
}

func isHexDigit(r rune) bool {
	return ('0' <= r && r <= '9') || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}

func (c *controller) showCompose() {
	s := "u" + string(c.compose)
	c.sess.SetPreedit(s, utf8.RuneCountInString(s))
}

func (c *controller) endCompose() {
	c.composing, c.compose = false, nil
	c.sess.SetPreedit("", 0)
}

func (c *controller) finishCompose() {
	digits := string(c.compose)
	c.endCompose()
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil || v == 0 || !utf8.ValidRune(rune(v)) {
		c.flash(fmt.Sprintf("invalid code point %q", digits))
		return
	}
	c.sess.CommitText(string(rune(v)))
}

// composeHint is the label shown by the caret during a code point entry.
func (c *controller) composeHint() string {
	if !c.composing {
		return ""
	}
	return "U+" + strings.ToUpper(string(c.compose))
}

func (c *controller) lookup(e key.Event) (string, bool) {
	if e.Rune > 0 {
		if name, ok := c.keys[KeyShortcut{Rune: unicode.ToLower(e.Rune), Modifiers: e.Modifiers}]; ok {
			return name, true
		}
	}
	name, ok := c.keys[KeyShortcut{Code: e.Code, Modifiers: e.Modifiers}]
	return name, ok
}

// handleKey routes e and reports whether the window needs repainting.
// Unmodified keys reach an active text box before the tool shortcuts.
func (c *controller) handleKey(e key.Event) bool {
	if e.Direction == key.DirRelease {
		return c.sess.KeyUp(e)
	}
	if c.composing {
		if c.sess.Tool().IsTextTool() {
			return c.composeKey(e)
		}
		c.composing, c.compose = false, nil
	}
	if e.Modifiers&key.ModControl == 0 && c.sess.Tool().IsTextTool() && c.sess.KeyDown(e) {
		return true
	}
	if name, ok := c.lookup(e); ok {
		c.run(name)
		return true
	}
	return c.sess.KeyDown(e)
}

func (c *controller) run(name string) {
	fn, ok := c.actions[name]
	if !ok {
		return
	}
	if err := fn(); err != nil {
		log.Printf("%s: %v", name, err)
		c.flash(err.Error())
	}
}

func (c *controller) flash(msg string) {
	c.message = msg
	c.messageUntil = time.Now().Add(messageDuration)
}

// selectionImage returns the pixels the active selection would copy.
func (c *controller) selectionImage() image.Image {
	cl, ok := c.sess.Tool().(tools.Clipper)
	if !ok || !c.sess.Tool().HasLiveSelection() {
		return nil
	}
	if clip := cl.Copy(c.sess.Buffer().Snapshot()); clip.Image != nil {
		return clip.Image
	}
	return nil
}

func (c *controller) copy() error {
	img := c.selectionImage()
	if err := c.sess.Copy(); err != nil {
		return err
	}
	c.notifier.Copy("selection", img)
	c.flash("copied selection")
	return nil
}

func (c *controller) cut() error {
	img := c.selectionImage()
	if err := c.sess.Cut(); err != nil {
		return err
	}
	c.notifier.Copy("selection", img)
	c.flash("cut selection")
	return nil
}

func (c *controller) save() error {
	if c.output == "" {
		return errNoOutput
	}
	format, err := codec.FormatFor(c.output)
	if err != nil {
		return err
	}
	out, err := os.Create(c.output)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	if err := c.sess.Save(out, format); err != nil {
		if cerr := out.Close(); cerr != nil {
			log.Printf("save: closing file: %v", cerr)
		}
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("save: closing file: %w", err)
	}
	c.notifier.Save(c.output)
	c.flash(fmt.Sprintf("saved %s", c.output))
	log.Print(c.message)
	return nil
}
