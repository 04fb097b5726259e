package theme

import (
	"image/color"
)

// Theme defines the colour palette of the editor window.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Window backdrop around the canvas
	Foreground color.RGBA // Main text color

	// Status bar
	StatusBackground color.RGBA
	StatusText       color.RGBA

	// Canvas
	CheckerLight color.RGBA // Shown behind a transparent canvas
	CheckerDark  color.RGBA
	Paper        color.RGBA // Background of new canvases
	Shadow       color.RGBA // Drop shadow under the canvas
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:             "Default",
		Background:       color.RGBA{200, 200, 200, 255},
		Foreground:       color.RGBA{0, 0, 0, 255},
		StatusBackground: color.RGBA{220, 220, 220, 255},
		StatusText:       color.RGBA{0, 0, 0, 255},
		CheckerLight:     color.RGBA{220, 220, 220, 255},
		CheckerDark:      color.RGBA{192, 192, 192, 255},
		Paper:            color.RGBA{255, 255, 255, 255},
		Shadow:           color.RGBA{0, 0, 0, 115},
	}
}
