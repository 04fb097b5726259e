// Package textlayout measures and renders multi-line text with the Go font
// families. It reports the ink extents and cursor rectangles the text tool
// uses to size and edit its region.
package textlayout

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// DefaultSize is used when a description carries no size.
const DefaultSize = 12

// Default is the font new text starts with.
const Default = "Go 12"

// Font identifies one face of the Go font family.
type Font struct {
	Mono   bool
	Medium bool
	Bold   bool
	Italic bool
	Size   float64
}

// ParseFont reads a description such as "Go Bold 18" or "Go Mono Italic 12".
// Words are case-insensitive and may appear in any order; a trailing number
// is the point size.
func ParseFont(desc string) (Font, error) {
	f := Font{Size: DefaultSize}
	words := strings.Fields(desc)
	if len(words) > 0 {
		if sz, err := strconv.ParseFloat(words[len(words)-1], 64); err == nil {
			if sz <= 0 {
				return Font{}, fmt.Errorf("invalid font size %q", words[len(words)-1])
			}
			f.Size = sz
			words = words[:len(words)-1]
		}
	}
	for _, w := range words {
		switch strings.ToLower(w) {
		case "go", "regular", "normal":
		case "mono", "monospace":
			f.Mono = true
		case "medium":
			f.Medium = true
		case "bold":
			f.Bold = true
		case "italic", "oblique":
			f.Italic = true
		default:
			return Font{}, fmt.Errorf("unknown font word %q in %q", w, desc)
		}
	}
	return f, nil
}

// Name returns the family and style without the size.
func (f Font) Name() string {
	parts := []string{"Go"}
	if f.Mono {
		parts = append(parts, "Mono")
	}
	if f.Medium && !f.Bold && !f.Mono {
		parts = append(parts, "Medium")
	}
	if f.Bold {
		parts = append(parts, "Bold")
	}
	if f.Italic {
		parts = append(parts, "Italic")
	}
	return strings.Join(parts, " ")
}

func (f Font) String() string {
	return f.Name() + " " + strconv.FormatFloat(f.Size, 'f', -1, 64)
}

func (f Font) ttf() []byte {
	switch {
	case f.Mono && f.Bold && f.Italic:
		return gomonobolditalic.TTF
	case f.Mono && f.Bold:
		return gomonobold.TTF
	case f.Mono && f.Italic:
		return gomonoitalic.TTF
	case f.Mono:
		return gomono.TTF
	case f.Bold && f.Italic:
		return gobolditalic.TTF
	case f.Bold:
		return gobold.TTF
	case f.Medium && f.Italic:
		return gomediumitalic.TTF
	case f.Medium:
		return gomedium.TTF
	case f.Italic:
		return goitalic.TTF
	}
	return goregular.TTF
}

// Families lists the style names ParseFont accepts, without sizes.
func Families() []string {
	return []string{
		"Go", "Go Italic", "Go Medium", "Go Medium Italic",
		"Go Bold", "Go Bold Italic",
		"Go Mono", "Go Mono Italic", "Go Mono Bold", "Go Mono Bold Italic",
	}
}

var (
	parsed sync.Map // map[string]*opentype.Font
	faces  sync.Map // map[Font]font.Face
)

// Face returns the cached face for f.
func (f Font) Face() (font.Face, error) {
	if f.Size <= 0 {
		f.Size = DefaultSize
	}
	if face, ok := faces.Load(f); ok {
		return face.(font.Face), nil
	}
	var otf *opentype.Font
	if v, ok := parsed.Load(f.Name()); ok {
		otf = v.(*opentype.Font)
	} else {
		var err error
		otf, err = opentype.Parse(f.ttf())
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", f.Name(), err)
		}
		parsed.Store(f.Name(), otf)
	}
	face, err := opentype.NewFace(otf, &opentype.FaceOptions{Size: f.Size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("face %s: %w", f, err)
	}
	actual, _ := faces.LoadOrStore(f, face)
	return actual.(font.Face), nil
}
