// Package tools implements the painting tools. Each tool owns the geometry
// of one pending operation, reacts to pointer and key input, and paints
// itself onto a Target. A committed tool is immutable and can be painted
// again to replay it.
package tools

import (
	"fmt"
	"image"
	"image/color"
	"sort"
	"strings"
	"time"

	"golang.org/x/mobile/event/key"

	"github.com/example/rasterpad/internal/geom"
	"github.com/example/rasterpad/internal/render"
	"github.com/example/rasterpad/internal/textlayout"
)

// Kind identifies a tool variant.
type Kind int

const (
	KindPencil Kind = iota
	KindEraser
	KindLine
	KindRectangle
	KindOval
	KindLasso
	KindSelection
	KindText
	KindPaste
	KindFloodFill
)

var kindNames = map[Kind]string{
	KindPencil:    "pencil",
	KindEraser:    "eraser",
	KindLine:      "line",
	KindRectangle: "rectangle",
	KindOval:      "oval",
	KindLasso:     "lasso",
	KindSelection: "selection",
	KindText:      "text",
	KindPaste:     "paste",
	KindFloodFill: "floodfill",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind returns the selectable tool with the given name. Paste is
// created from clipboard content and cannot be selected by name.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name && k != KindPaste {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown tool %q", name)
}

// Kinds returns the selectable tool kinds by name.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindNames))
	for k := range kindNames {
		if k != KindPaste {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Cursor is the pointer shape a tool asks for.
type Cursor int

const (
	CursorArrow Cursor = iota
	CursorCross
	CursorPencil
	CursorXTerm
	CursorHand
	CursorGrab
	CursorTopLeft
	CursorTop
	CursorTopRight
	CursorRight
	CursorBottomRight
	CursorBottom
	CursorBottomLeft
	CursorLeft
)

var cursorNames = [...]string{
	"arrow", "cross", "pencil", "xterm", "hand", "grab",
	"top-left", "top", "top-right", "right",
	"bottom-right", "bottom", "bottom-left", "left",
}

func (c Cursor) String() string {
	if c >= 0 && int(c) < len(cursorNames) {
		return cursorNames[c]
	}
	return "unknown"
}

// KeyResult tells the session what a key press did.
type KeyResult int

const (
	// KeyIgnored leaves the key to the caller.
	KeyIgnored KeyResult = iota
	// KeyHandled changed the tool; the session reflows and repaints.
	KeyHandled
	// KeyCancel asks the session to discard the live selection.
	KeyCancel
)

// Style is the drawing state shared by every tool.
type Style struct {
	Color     color.RGBA
	LineWidth float64
	Antialias bool
	Font      string
}

// DefaultStyle is black, one pixel wide and antialiased.
func DefaultStyle() Style {
	return Style{
		Color:     color.RGBA{A: 0xff},
		LineWidth: 1,
		Antialias: true,
		Font:      textlayout.Default,
	}
}

// Target is everything a tool may read while painting. Tools must not keep
// any of it after Paint returns.
type Target struct {
	Canvas *render.Canvas
	// Source is the committed surface. Region tools read the pixels they
	// move from here while writing to Canvas.
	Source      *image.RGBA
	Background  color.RGBA
	Transparent bool
	// Committing is set when the paint bakes the tool into the surface
	// rather than previewing it.
	Committing bool
	Now        time.Time
}

// Fill is the colour erased areas take: the opaque background, or fully
// transparent when committing in transparent mode.
func (t *Target) Fill() color.RGBA {
	if t.Committing && t.Transparent {
		return color.RGBA{}
	}
	bg := t.Background
	bg.A = 0xff
	return bg
}

// Tool is one drawing or selection mode together with its pending geometry.
type Tool interface {
	Kind() Kind
	Paint(t *Target)
	PointerDown(p geom.Point, mods key.Modifiers)
	PointerMove(p geom.Point, mods key.Modifiers)
	PointerUp(p geom.Point, mods key.Modifiers)
	KeyDown(e key.Event) KeyResult
	KeyUp(e key.Event) bool
	// HasLiveSelection reports a closed region that is still editable.
	HasLiveSelection() bool
	IsRegionTool() bool
	IsTextTool() bool
	CursorFor(p geom.Point, pressed bool) Cursor
	HasAnimation() bool
	SetStyle(s Style)
	// Empty reports that painting would change nothing.
	Empty() bool
}

// Clip is clipboard content produced by a selection.
type Clip struct {
	Image *image.RGBA
	Text  string
}

// Clipper is implemented by tools whose selection can be copied or cut.
type Clipper interface {
	Copy(src *image.RGBA) Clip
	// Cut copies and marks the selection as removed. It reports whether
	// the tool should be committed afterwards.
	Cut(src *image.RGBA) (Clip, bool)
}

// Container is implemented by tools with a placed region.
type Container interface {
	Contains(p geom.Point) bool
}

// TextEditor is implemented by tools that take typed and composed text.
type TextEditor interface {
	InsertText(s string)
	CommitText(s string) bool
	SetPreedit(s string, cursor int) bool
	ClearPreedit()
	DeleteSurrounding(offset, n int) bool
	Reflow()
	Text() string
	Caret() int
}

// New creates an idle tool of the given kind.
func New(kind Kind, st Style) (Tool, error) {
	var t Tool
	switch kind {
	case KindPencil:
		t = &Pencil{}
	case KindEraser:
		t = &Eraser{}
	case KindLine:
		t = &Line{}
	case KindRectangle:
		t = &Rectangle{}
	case KindOval:
		t = &Oval{}
	case KindLasso:
		t = &Lasso{}
	case KindSelection:
		t = &Selection{}
	case KindText:
		t = &Text{}
	case KindFloodFill:
		t = &FloodFill{}
	default:
		return nil, fmt.Errorf("cannot create %s tool", kind)
	}
	t.SetStyle(st)
	return t, nil
}

// base carries the style and the default answers shared by the tools.
type base struct {
	style Style
}

func (b *base) SetStyle(s Style) { b.style = s }
func (b *base) PointerDown(geom.Point, key.Modifiers) {}
func (b *base) PointerMove(geom.Point, key.Modifiers) {}
func (b *base) PointerUp(geom.Point, key.Modifiers) {}
func (b *base) KeyDown(key.Event) KeyResult { return KeyIgnored }
func (b *base) KeyUp(key.Event) bool { return false }
func (b *base) HasLiveSelection() bool { return false }
func (b *base) IsRegionTool() bool { return false }
func (b *base) IsTextTool() bool { return false }
func (b *base) HasAnimation() bool { return false }
func (b *base) CursorFor(p geom.Point, pressed bool) Cursor { return CursorCross }

// pen is the stroke style for outlines in the tool colour.
func (b *base) pen() render.Style {
	return render.Style{
		Color:     b.style.Color,
		Width:     b.style.LineWidth,
		Cap:       render.CapRound,
		Join:      render.JoinRound,
		Antialias: b.style.Antialias,
	}
}

func shift(mods key.Modifiers) bool { return mods&key.ModShift != 0 }
