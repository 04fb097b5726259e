package config

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"

	"github.com/example/rasterpad/internal/textlayout"
	"github.com/example/rasterpad/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Save bool
	Copy bool
}

// Config holds the application configuration.
type Config struct {
	Theme       string
	Width       int // Size of new canvases
	Height      int
	Background  color.RGBA
	Transparent bool
	Antialias   bool
	Color       color.RGBA
	LineWidth   float64
	Font        string
	Tool        string
	Notify      Notify
	Themes      map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme:      "", // Default to empty to allow fallback to Env/Default
		Width:      640,
		Height:     480,
		Background: color.RGBA{255, 255, 255, 255},
		Antialias:  true,
		Color:      color.RGBA{0, 0, 0, 255},
		LineWidth:  1,
		Font:       textlayout.Default,
		Tool:       "pencil",
		Themes:     make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	fmt.Fprintf(&sb, "width = %d\n", c.Width)
	fmt.Fprintf(&sb, "height = %d\n", c.Height)
	fmt.Fprintf(&sb, "background = %s\n", theme.Hex(c.Background))
	fmt.Fprintf(&sb, "transparent = %v\n", c.Transparent)
	fmt.Fprintf(&sb, "antialias = %v\n", c.Antialias)
	fmt.Fprintf(&sb, "color = %s\n", theme.Hex(c.Color))
	fmt.Fprintf(&sb, "line_width = %s\n", strconv.FormatFloat(c.LineWidth, 'f', -1, 64))
	fmt.Fprintf(&sb, "font = %s\n", c.Font)
	fmt.Fprintf(&sb, "tool = %s\n", c.Tool)
	sb.WriteString("\n")

	// Notify section
	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Themes sections
	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, nc := range t.Colors() {
			fmt.Fprintf(&sb, "%s: %s\n", nc.Name, theme.Hex(nc.Color))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
