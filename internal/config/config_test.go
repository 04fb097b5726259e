package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
width = 800
height = 600
background = #FFFFEE
transparent = true
antialias = false
color = steelblue
line_width = 3.5
font = Go Bold 18
tool = Oval

[notify]
save = false
copy = true

[theme.my_custom_theme]
Background = #111111
Foreground = #FFFFFF
`
	r := strings.NewReader(input)
	cfg, err := Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.Width != 800 || cfg.Height != 600 {
		t.Errorf("Expected 800x600, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Background != (color.RGBA{0xFF, 0xFF, 0xEE, 0xFF}) {
		t.Errorf("Unexpected background %+v", cfg.Background)
	}
	if !cfg.Transparent || cfg.Antialias {
		t.Errorf("Unexpected flags transparent=%v antialias=%v", cfg.Transparent, cfg.Antialias)
	}
	if cfg.Color != (color.RGBA{70, 130, 180, 255}) {
		t.Errorf("Unexpected color %+v", cfg.Color)
	}
	if cfg.LineWidth != 3.5 {
		t.Errorf("Expected line width 3.5, got %v", cfg.LineWidth)
	}
	if cfg.Font != "Go Bold 18" || cfg.Tool != "oval" {
		t.Errorf("Unexpected font %q tool %q", cfg.Font, cfg.Tool)
	}

	if cfg.Notify.Save {
		t.Error("Expected notify.save to be false")
	}
	if !cfg.Notify.Copy {
		t.Error("Expected notify.copy to be true")
	}

	theme, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}

	if theme.Background.R != 0x11 || theme.Background.G != 0x11 || theme.Background.B != 0x11 {
		t.Errorf("Unexpected Background color: %+v", theme.Background)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Width != 640 || cfg.Height != 480 || !cfg.Antialias || cfg.LineWidth != 1 || cfg.Tool != "pencil" {
		t.Errorf("Unexpected defaults %+v", cfg)
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"width = -4",
		"height = tall",
		"line_width = 0",
		"color = #12",
		"font = Comic Sans 12",
		"antialias = maybe",
		"[notify]\nsave = sometimes",
	} {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("expected an error for %q", input)
		}
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
width = 320
color = #FF0000
line_width = 2

[notify]
save = true
copy = false

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
`
	// 1. Parse initial input
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	// 2. Generate string representation
	generated := cfg.String()

	// 3. Parse generated string
	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v", err)
	}

	// 4. Compare relevant fields
	if cfg.Theme != cfg2.Theme {
		t.Errorf("Theme mismatch: %q vs %q", cfg.Theme, cfg2.Theme)
	}
	if cfg.Width != cfg2.Width || cfg.Color != cfg2.Color || cfg.LineWidth != cfg2.LineWidth || cfg.Font != cfg2.Font {
		t.Errorf("Root mismatch: %+v vs %+v", cfg, cfg2)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}

	// Check theme persistence
	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestLoaderSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.rc")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("width = 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := NewLoader("test", path)
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Width != 10 {
		t.Fatalf("Expected width 10, got %d", cfg.Width)
	}
	cfg.Height = 20
	written, err := l.Save(cfg)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if written != path {
		t.Fatalf("Expected %s, got %s", path, written)
	}
	again, err := l.Load()
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if again.Width != 10 || again.Height != 20 {
		t.Errorf("Unexpected reloaded size %dx%d", again.Width, again.Height)
	}
}
