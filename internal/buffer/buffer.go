// Package buffer holds the edited image and its history. Every committed
// tool is kept so undo can rebuild the surface by replaying the log from
// the last saved baseline.
package buffer

import (
	"image"
	"image/color"
	"image/draw"
	"sync"
	"time"

	"github.com/anthonynsimon/bild/clone"
	"github.com/google/uuid"

	"github.com/example/rasterpad/internal/render"
	"github.com/example/rasterpad/internal/tools"
)

// Entry is one committed operation.
type Entry struct {
	ID   uuid.UUID
	Tool tools.Tool
}

// Buffer is the committed surface with undo and redo logs. It is safe for
// concurrent use.
type Buffer struct {
	mu          sync.Mutex
	surface     *image.RGBA
	baseline    *image.RGBA
	background  color.RGBA
	transparent bool
	undo        []Entry
	redo        []Entry
	onModified  func(bool)
}

// New returns a w by h buffer filled with the opaque background.
func New(w, h int, bg color.RGBA) *Buffer {
	bg.A = 0xff
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	return newBuffer(img, bg)
}

// FromImage returns a buffer holding a copy of img moved to the origin.
func FromImage(img image.Image, bg color.RGBA) *Buffer {
	bg.A = 0xff
	c := clone.AsRGBA(img)
	c.Rect = c.Rect.Sub(c.Rect.Min)
	return newBuffer(c, bg)
}

func newBuffer(img *image.RGBA, bg color.RGBA) *Buffer {
	return &Buffer{
		surface:    img,
		baseline:   clone.AsRGBA(img),
		background: bg,
	}
}

// OnModified registers fn to be called whenever Modified changes. It is
// called without the buffer lock held.
func (b *Buffer) OnModified(fn func(modified bool)) {
	b.mu.Lock()
	b.onModified = fn
	b.mu.Unlock()
}

// notify must be called without the lock.
func (b *Buffer) notify(before, after bool) {
	if before == after {
		return
	}
	b.mu.Lock()
	fn := b.onModified
	b.mu.Unlock()
	if fn != nil {
		fn(after)
	}
}

func (b *Buffer) target(dst *image.RGBA) *tools.Target {
	return &tools.Target{
		Canvas:      render.NewCanvas(dst),
		Source:      b.surface,
		Background:  b.background,
		Transparent: b.transparent,
		Committing:  true,
		Now:         time.Time{},
	}
}

// apply paints t into the surface. Region tools read the surface while
// painting, so they draw onto a copy that then replaces it.
func (b *Buffer) apply(t tools.Tool) {
	if !t.IsRegionTool() {
		t.Paint(b.target(b.surface))
		return
	}
	next := clone.AsRGBA(b.surface)
	t.Paint(b.target(next))
	b.surface = next
}

// Preview returns the surface as it would be after committing t, leaving
// the buffer untouched.
func (b *Buffer) Preview(t tools.Tool) *image.RGBA {
	b.mu.Lock()
	defer b.mu.Unlock()
	next := clone.AsRGBA(b.surface)
	t.Paint(b.target(next))
	return next
}

// Commit bakes t into the surface and appends it to the undo log. The redo
// log is discarded.
func (b *Buffer) Commit(t tools.Tool) uuid.UUID {
	b.mu.Lock()
	before := len(b.undo) > 0
	e := Entry{ID: uuid.New(), Tool: t}
	b.apply(t)
	b.undo = append(b.undo, e)
	dropped := len(b.redo)
	b.redo = nil
	b.mu.Unlock()
	Logger().Debug("commit", "id", e.ID, "tool", t.Kind(), "dropped_redo", dropped)
	b.notify(before, true)
	return e.ID
}

// Undo reverts the last commit by replaying the remaining log from the
// baseline. It reports false when there is nothing to undo.
func (b *Buffer) Undo() bool {
	b.mu.Lock()
	n := len(b.undo)
	if n == 0 {
		b.mu.Unlock()
		return false
	}
	e := b.undo[n-1]
	b.undo = b.undo[:n-1]
	b.redo = append(b.redo, e)
	b.replay()
	after := len(b.undo) > 0
	b.mu.Unlock()
	Logger().Debug("undo", "id", e.ID, "tool", e.Tool.Kind(), "replayed", n-1)
	b.notify(true, after)
	return true
}

// Redo moves the last undone commit back onto the undo log and rebuilds
// the surface. It reports false when there is nothing to redo.
func (b *Buffer) Redo() bool {
	b.mu.Lock()
	n := len(b.redo)
	if n == 0 {
		b.mu.Unlock()
		return false
	}
	before := len(b.undo) > 0
	e := b.redo[n-1]
	b.redo = b.redo[:n-1]
	b.undo = append(b.undo, e)
	b.replay()
	b.mu.Unlock()
	Logger().Debug("redo", "id", e.ID, "tool", e.Tool.Kind(), "replayed", len(b.undo))
	b.notify(before, true)
	return true
}

func (b *Buffer) replay() {
	b.surface = clone.AsRGBA(b.baseline)
	for _, e := range b.undo {
		b.apply(e.Tool)
	}
}

// Modified reports whether anything was committed since the baseline.
func (b *Buffer) Modified() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.undo) > 0
}

// Rebaseline makes the current surface the new baseline and forgets the
// history, as after saving.
func (b *Buffer) Rebaseline() {
	b.mu.Lock()
	before := len(b.undo) > 0
	b.baseline = clone.AsRGBA(b.surface)
	b.undo, b.redo = nil, nil
	b.mu.Unlock()
	Logger().Debug("rebaseline")
	b.notify(before, false)
}

// History returns the lengths of the undo and redo logs.
func (b *Buffer) History() (undo, redo int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.undo), len(b.redo)
}

// Entries returns a copy of the undo log, oldest first.
func (b *Buffer) Entries() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Entry(nil), b.undo...)
}

// Size returns the surface dimensions.
func (b *Buffer) Size() image.Point {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surface.Rect.Size()
}

// Snapshot returns a copy of the committed surface.
func (b *Buffer) Snapshot() *image.RGBA {
	b.mu.Lock()
	defer b.mu.Unlock()
	return clone.AsRGBA(b.surface)
}

// Background returns the opaque background colour.
func (b *Buffer) Background() color.RGBA {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.background
}

// SetBackground changes the colour erased areas take from now on.
func (b *Buffer) SetBackground(c color.RGBA) {
	c.A = 0xff
	b.mu.Lock()
	b.background = c
	b.mu.Unlock()
}

// Transparent reports whether erased areas become transparent.
func (b *Buffer) Transparent() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.transparent
}

// SetTransparent switches between opaque and transparent mode. Turning it
// on keys the background colour out of the surface and the baseline;
// turning it off composites both over the background.
func (b *Buffer) SetTransparent(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.transparent == on {
		return
	}
	b.transparent = on
	if on {
		render.KeyOut(b.surface, b.background)
		render.KeyOut(b.baseline, b.background)
	} else {
		b.surface = render.Flatten(b.surface, b.background)
		b.baseline = render.Flatten(b.baseline, b.background)
	}
	Logger().Debug("transparent", "on", on)
}

// DrawTo draws the surface onto dst with its origin at at. In opaque mode
// the background is filled first; in transparent mode dst shows through.
func (b *Buffer) DrawTo(dst draw.Image, at image.Point) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r := b.surface.Rect.Add(at)
	if !b.transparent {
		draw.Draw(dst, r, image.NewUniform(b.background), image.Point{}, draw.Src)
	}
	draw.Draw(dst, r, b.surface, image.Point{}, draw.Over)
}
