// Package session routes input to the active tool and decides when its
// pending operation is committed to the buffer. There is always exactly
// one active tool holding at most one uncommitted operation.
package session

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"time"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/rasterpad/internal/buffer"
	"github.com/example/rasterpad/internal/codec"
	"github.com/example/rasterpad/internal/geom"
	"github.com/example/rasterpad/internal/render"
	"github.com/example/rasterpad/internal/textlayout"
	"github.com/example/rasterpad/internal/tools"
)

var (
	// ErrNothingSelected is returned by Copy and Cut without a live
	// selection.
	ErrNothingSelected = errors.New("nothing selected")
	// ErrClipboardEmpty is returned by Paste when the clipboard holds
	// neither an image nor text.
	ErrClipboardEmpty = errors.New("clipboard is empty")
)

// Clipboard is the system clipboard as seen by the session.
type Clipboard interface {
	ReadImage() (image.Image, error)
	WriteImage(img image.Image) error
	ReadText() (string, error)
	WriteText(s string) error
}

// Options configure a new session.
type Options struct {
	Background  color.RGBA
	Transparent bool
	Style       tools.Style
	Tool        tools.Kind
	Clipboard   Clipboard
}

// DefaultOptions paint black on white with the pencil.
func DefaultOptions() Options {
	return Options{
		Background: color.RGBA{255, 255, 255, 255},
		Style:      tools.DefaultStyle(),
		Tool:       tools.KindPencil,
	}
}

// Session owns the buffer and the active tool.
type Session struct {
	buf   *buffer.Buffer
	tool  tools.Tool
	kind  tools.Kind
	style tools.Style
	clip  Clipboard

	last    geom.Point
	pressed bool
}

// New starts a session on a blank w by h canvas.
func New(w, h int, opts Options) (*Session, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", w, h)
	}
	return newSession(buffer.New(w, h, opts.Background), opts)
}

// Load starts a session on an image decoded from r.
func Load(r io.Reader, opts Options) (*Session, error) {
	img, _, err := codec.Decode(r)
	if err != nil {
		return nil, err
	}
	return newSession(buffer.FromImage(img, opts.Background), opts)
}

// FromImage starts a session on a copy of img.
func FromImage(img image.Image, opts Options) (*Session, error) {
	return newSession(buffer.FromImage(img, opts.Background), opts)
}

func newSession(b *buffer.Buffer, opts Options) (*Session, error) {
	if _, err := textlayout.ParseFont(opts.Style.Font); err != nil {
		return nil, err
	}
	s := &Session{buf: b, kind: opts.Tool, style: opts.Style, clip: opts.Clipboard}
	if err := s.reset(); err != nil {
		return nil, err
	}
	b.SetTransparent(opts.Transparent)
	return s, nil
}

// Buffer returns the committed content.
func (s *Session) Buffer() *buffer.Buffer { return s.buf }

// Tool returns the active tool.
func (s *Session) Tool() tools.Tool { return s.tool }

// Kind returns the tool kind that is re-created after each commit.
func (s *Session) Kind() tools.Kind { return s.kind }

// Style returns the current drawing style.
func (s *Session) Style() tools.Style { return s.style }

func (s *Session) reset() error {
	t, err := tools.New(s.kind, s.style)
	if err != nil {
		return err
	}
	s.tool = t
	return nil
}

// commit hands the active tool to the buffer unless it would paint nothing,
// then starts a fresh tool of the current kind.
func (s *Session) commit() {
	if ed, ok := s.tool.(tools.TextEditor); ok {
		ed.ClearPreedit()
		ed.Reflow()
	}
	if !s.tool.Empty() {
		id := s.buf.Commit(s.tool)
		buffer.Logger().Debug("session commit", "id", id, "tool", s.tool.Kind())
	}
	// The kind was validated when it was selected.
	_ = s.reset()
}

// commitLive commits the active tool only when it holds a live selection.
func (s *Session) commitLive() {
	if s.tool.HasLiveSelection() {
		s.commit()
	}
}

func (s *Session) reflow() {
	if ed, ok := s.tool.(tools.TextEditor); ok {
		ed.Reflow()
	}
}

// PointerDown commits a live selection when p falls outside it and then
// forwards the press.
func (s *Session) PointerDown(p geom.Point, mods key.Modifiers) {
	s.pressed = true
	s.last = p
	if s.tool.HasLiveSelection() && !contains(s.tool, p) {
		s.commit()
	}
	s.tool.PointerDown(p, mods)
	s.reflow()
}

func contains(t tools.Tool, p geom.Point) bool {
	c, ok := t.(tools.Container)
	return ok && c.Contains(p)
}

// PointerMove forwards motion while a button is held.
func (s *Session) PointerMove(p geom.Point, mods key.Modifiers, pressed bool) {
	s.last = p
	if pressed {
		s.tool.PointerMove(p, mods)
	}
}

// PointerUp forwards the release. Drawing tools are committed at once;
// region tools wait for a click outside, a tool switch or a deselect.
func (s *Session) PointerUp(p geom.Point, mods key.Modifiers) {
	s.pressed = false
	s.last = p
	s.tool.PointerUp(p, mods)
	if !s.tool.IsRegionTool() {
		s.commit()
	}
}

// KeyDown offers e to the tool and reports whether it was used.
func (s *Session) KeyDown(e key.Event) bool {
	switch s.tool.KeyDown(e) {
	case tools.KeyHandled:
		s.reflow()
		return true
	case tools.KeyCancel:
		s.Escape()
		return true
	}
	return false
}

// KeyUp offers a key release to the tool.
func (s *Session) KeyUp(e key.Event) bool { return s.tool.KeyUp(e) }

// SelectTool commits any live selection and switches to kind.
func (s *Session) SelectTool(kind tools.Kind) error {
	if _, err := tools.New(kind, s.style); err != nil {
		return err
	}
	s.commitLive()
	s.kind = kind
	buffer.Logger().Debug("select tool", "tool", kind)
	return s.reset()
}

// Undo commits any live selection, so that it can be redone, then undoes
// the last commit.
func (s *Session) Undo() bool {
	s.commitLive()
	return s.buf.Undo()
}

// Redo is ignored while a selection is live.
func (s *Session) Redo() bool {
	if s.tool.HasLiveSelection() {
		return false
	}
	return s.buf.Redo()
}

func (s *Session) clipper() (tools.Clipper, error) {
	c, ok := s.tool.(tools.Clipper)
	if !ok || !s.tool.HasLiveSelection() {
		return nil, ErrNothingSelected
	}
	return c, nil
}

func (s *Session) publish(c tools.Clip) error {
	if s.clip == nil {
		return errors.New("no clipboard")
	}
	if c.Image != nil {
		if err := s.clip.WriteImage(c.Image); err != nil {
			return fmt.Errorf("copy image: %w", err)
		}
		return nil
	}
	if err := s.clip.WriteText(c.Text); err != nil {
		return fmt.Errorf("copy text: %w", err)
	}
	return nil
}

// Copy puts the selected pixels or text on the clipboard.
func (s *Session) Copy() error {
	c, err := s.clipper()
	if err != nil {
		return err
	}
	return s.publish(c.Copy(s.buf.Snapshot()))
}

// Cut copies the selection and removes it. Nothing changes if the
// clipboard write fails.
func (s *Session) Cut() error {
	c, err := s.clipper()
	if err != nil {
		return err
	}
	src := s.buf.Snapshot()
	if err := s.publish(c.Copy(src)); err != nil {
		return err
	}
	if _, commitAfter := c.Cut(src); commitAfter {
		s.commit()
		return nil
	}
	if s.tool.Kind() == tools.KindPaste {
		_ = s.reset()
		return nil
	}
	s.reflow()
	return nil
}

// Paste places a clipboard image as a movable paste, or inserts clipboard
// text into a text box.
func (s *Session) Paste() error {
	if s.clip == nil {
		return ErrClipboardEmpty
	}
	img, ierr := s.clip.ReadImage()
	if ierr == nil && img != nil && !img.Bounds().Empty() {
		s.commitLive()
		s.tool = tools.NewPaste(img, s.style)
		buffer.Logger().Debug("paste image", "size", img.Bounds().Size())
		return nil
	}
	text, terr := s.clip.ReadText()
	if terr != nil || text == "" {
		return fmt.Errorf("%w: %v", ErrClipboardEmpty, errors.Join(ierr, terr))
	}
	if !s.tool.IsTextTool() {
		s.commitLive()
		s.kind = tools.KindText
		if err := s.reset(); err != nil {
			return err
		}
	}
	ed := s.tool.(tools.TextEditor)
	ed.InsertText(text)
	ed.Reflow()
	return nil
}

// SelectAll commits the active tool and selects the whole surface.
func (s *Session) SelectAll() {
	s.commitLive()
	s.kind = tools.KindSelection
	_ = s.reset()
	size := s.buf.Size()
	s.tool.(*tools.Selection).Select(0, 0, float64(size.X), float64(size.Y))
}

// Deselect commits the live selection.
func (s *Session) Deselect() { s.commitLive() }

// Escape discards the pending operation without committing it.
func (s *Session) Escape() {
	if s.tool.HasLiveSelection() {
		buffer.Logger().Debug("discard selection", "tool", s.tool.Kind())
	}
	_ = s.reset()
}

func (s *Session) textEditor() (tools.TextEditor, bool) {
	ed, ok := s.tool.(tools.TextEditor)
	return ed, ok
}

// CommitText inserts composed input into the active text box.
func (s *Session) CommitText(text string) bool {
	ed, ok := s.textEditor()
	if !ok {
		return false
	}
	ed.ClearPreedit()
	if !ed.CommitText(text) {
		return false
	}
	ed.Reflow()
	return true
}

// SetPreedit shows uncommitted composition text in the active text box.
func (s *Session) SetPreedit(text string, cursor int) bool {
	ed, ok := s.textEditor()
	if !ok || !ed.SetPreedit(text, cursor) {
		return false
	}
	ed.Reflow()
	return true
}

// DeleteSurrounding removes text around the caret of the active text box.
func (s *Session) DeleteSurrounding(offset, n int) bool {
	ed, ok := s.textEditor()
	if !ok || !ed.DeleteSurrounding(offset, n) {
		return false
	}
	ed.Reflow()
	return true
}

func (s *Session) setStyle(st tools.Style) {
	s.style = st
	s.tool.SetStyle(st)
	s.reflow()
}

// SetColor sets the drawing colour.
func (s *Session) SetColor(c color.RGBA) {
	st := s.style
	st.Color = c
	s.setStyle(st)
}

// SetLineWidth sets the pen width. Widths below one are raised to one.
func (s *Session) SetLineWidth(w float64) {
	st := s.style
	st.LineWidth = max(w, 1)
	s.setStyle(st)
}

// SetAntialias switches edge smoothing.
func (s *Session) SetAntialias(on bool) {
	st := s.style
	st.Antialias = on
	s.setStyle(st)
}

// SetFont sets the text font from a description such as "Go Bold 18".
func (s *Session) SetFont(desc string) error {
	f, err := textlayout.ParseFont(desc)
	if err != nil {
		return err
	}
	st := s.style
	st.Font = f.String()
	s.setStyle(st)
	return nil
}

// SetBackground sets the colour erased areas take.
func (s *Session) SetBackground(c color.RGBA) { s.buf.SetBackground(c) }

// SetTransparent switches the buffer between opaque and transparent mode.
func (s *Session) SetTransparent(on bool) { s.buf.SetTransparent(on) }

// HasAnimation reports whether the preview changes over time.
func (s *Session) HasAnimation() bool { return s.tool.HasAnimation() }

// CursorAt returns the pointer shape at p. Outside the canvas it is the
// arrow unless a button is held.
func (s *Session) CursorAt(p geom.Point, pressed bool) tools.Cursor {
	size := s.buf.Size()
	inside := p.X >= 0 && p.Y >= 0 && p.X < float64(size.X) && p.Y < float64(size.Y)
	if !inside && !pressed {
		return tools.CursorArrow
	}
	return s.tool.CursorFor(p, pressed)
}

// Cursor returns the pointer shape at the last pointer position.
func (s *Session) Cursor() tools.Cursor { return s.CursorAt(s.last, s.pressed) }

// CaretRect returns the text caret in canvas coordinates, or an empty
// rectangle when no text box is active.
func (s *Session) CaretRect() image.Rectangle {
	if t, ok := s.tool.(*tools.Text); ok {
		return t.CaretRect()
	}
	return image.Rectangle{}
}

// Render draws the committed surface and a preview of the active tool onto
// dst, whose origin is the canvas origin. In transparent mode whatever dst
// already holds shows through.
func (s *Session) Render(dst *image.RGBA, now time.Time) {
	s.buf.DrawTo(dst, image.Point{})
	s.tool.Paint(&tools.Target{
		Canvas:      render.NewCanvas(dst),
		Source:      s.buf.Snapshot(),
		Background:  s.buf.Background(),
		Transparent: s.buf.Transparent(),
		Now:         now,
	})
}

// Save writes the surface, with any live selection applied, to w. Only
// once the write succeeds is the selection committed and the result made
// the new baseline.
func (s *Session) Save(w io.Writer, f codec.Format) error {
	live := s.tool.HasLiveSelection()
	var img *image.RGBA
	if live {
		if ed, ok := s.tool.(tools.TextEditor); ok {
			ed.ClearPreedit()
			ed.Reflow()
		}
		img = s.buf.Preview(s.tool)
	} else {
		img = s.buf.Snapshot()
	}
	if err := codec.Encode(w, img, f); err != nil {
		return err
	}
	if live {
		s.commit()
	}
	s.buf.Rebaseline()
	return nil
}

// HandleEvent applies a mouse or key event in canvas coordinates and
// reports whether the canvas needs repainting. Only the left button draws.
// Pointer positions are rounded to whole pixels.
func (s *Session) HandleEvent(e any) bool {
	switch e := e.(type) {
	case mouse.Event:
		p := geom.Pt(geom.RoundHalfEven(float64(e.X)), geom.RoundHalfEven(float64(e.Y)))
		switch {
		case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
			s.PointerDown(p, e.Modifiers)
		case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
			if !s.pressed {
				return false
			}
			s.PointerUp(p, e.Modifiers)
		case e.Direction == mouse.DirNone:
			s.PointerMove(p, e.Modifiers, s.pressed)
			return s.pressed
		default:
			return false
		}
		return true
	case key.Event:
		if e.Direction == key.DirRelease {
			return s.KeyUp(e)
		}
		return s.KeyDown(e)
	}
	return false
}
