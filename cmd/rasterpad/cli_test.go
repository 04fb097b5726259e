package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/rasterpad/internal/config"
	"github.com/example/rasterpad/internal/geom"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	path := filepath.Join(t.TempDir(), "in.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func readPNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func TestParseDrawClipboardRequiresOutput(t *testing.T) {
	_, err := parseDrawCmd([]string{"-from-clipboard", "line", "0", "0", "1", "1"}, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := "output file is required when reading from the clipboard"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestParseDrawErrors(t *testing.T) {
	tests := map[string][]string{
		"no input":        {"line", "0", "0", "1", "1"},
		"short line":      {"-file", "a.png", "line", "0", "0", "1"},
		"odd pencil":      {"-file", "a.png", "pencil", "0", "0", "1"},
		"bad number":      {"-file", "a.png", "fill", "x", "0"},
		"empty text":      {"-file", "a.png", "text", "0", "0", " "},
		"unknown op":      {"-file", "a.png", "spray", "0", "0"},
		"bad color":       {"-file", "a.png", "-color", "nope", "fill", "0", "0"},
		"bad font":        {"-file", "a.png", "-font", "Comic 12", "fill", "0", "0"},
		"unknown format":  {"-file", "a.png", "-output", "a.xyz", "fill", "0", "0"},
		"missing op":      {"-file", "a.png"},
		"dangling option": {"fill", "0", "0", "-file"},
	}
	for name, args := range tests {
		if _, err := parseDrawCmd(args, nil); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
	_, err := parseDrawCmd([]string{"-file", "a.png"}, nil)
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestParseDrawFlagsAfterOperation(t *testing.T) {
	d, err := parseDrawCmd([]string{"rect", "1", "2", "3", "4", "--file=in.png", "-color", "red", "-width", "3"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.file != "in.png" || d.output != "in.png" {
		t.Fatalf("unexpected files %q %q", d.file, d.output)
	}
	if d.color != (color.RGBA{255, 0, 0, 255}) || d.width != 3 {
		t.Fatalf("unexpected style %v %v", d.color, d.width)
	}
	want := []geom.Point{geom.Pt(1, 2), geom.Pt(3, 4)}
	if len(d.op.points) != 2 || d.op.points[0] != want[0] || d.op.points[1] != want[1] {
		t.Fatalf("unexpected points %v", d.op.points)
	}
}

func TestParseDrawText(t *testing.T) {
	d, err := parseDrawCmd([]string{"-file", "a.png", "text", "4", "5", "hello", "world"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.op.text != "hello world" {
		t.Fatalf("unexpected text %q", d.op.text)
	}
}

func TestDrawRectRun(t *testing.T) {
	in := writePNG(t, 20, 20)
	out := filepath.Join(t.TempDir(), "out.png")
	d, err := parseDrawCmd([]string{"-file", in, "-output", out, "-color", "#0000ff", "-antialias=false", "-width", "3", "rect", "2", "2", "12", "12"}, nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := d.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	img := readPNG(t, out)
	if r, g, b, _ := img.At(2, 7).RGBA(); r>>8 != 0 || g>>8 != 0 || b>>8 != 255 {
		t.Fatalf("expected blue edge, got %v", img.At(2, 7))
	}
	if r, _, _, _ := img.At(7, 7).RGBA(); r>>8 != 255 {
		t.Fatalf("expected untouched interior, got %v", img.At(7, 7))
	}
}

func TestDrawFillAndMove(t *testing.T) {
	in := writePNG(t, 20, 20)
	d, err := parseDrawCmd([]string{"-file", in, "-color", "black", "fill", "5", "5"}, nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := d.Run(); err != nil {
		t.Fatalf("run fill: %v", err)
	}
	if r, _, _, _ := readPNG(t, in).At(19, 19).RGBA(); r != 0 {
		t.Fatalf("expected filled canvas")
	}

	d, err = parseDrawCmd([]string{"-file", in, "move", "0", "0", "4", "4", "10", "10"}, nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := d.Run(); err != nil {
		t.Fatalf("run move: %v", err)
	}
	img := readPNG(t, in)
	if r, _, _, _ := img.At(1, 1).RGBA(); r>>8 != 255 {
		t.Fatalf("expected vacated area to take the background, got %v", img.At(1, 1))
	}
	if r, _, _, _ := img.At(12, 12).RGBA(); r != 0 {
		t.Fatalf("expected moved pixels, got %v", img.At(12, 12))
	}
}

func TestParseNewCmd(t *testing.T) {
	r := &root{program: "rasterpad", config: config.New()}
	n, err := parseNewCmd(nil, r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.width != 640 || n.height != 480 {
		t.Fatalf("expected config size, got %dx%d", n.width, n.height)
	}
	if _, err := parseNewCmd([]string{"-width", "0"}, r); err == nil {
		t.Fatalf("expected error for empty canvas")
	}
}

func TestParseOpenCmd(t *testing.T) {
	r := &root{program: "rasterpad"}
	o, err := parseOpenCmd([]string{"pic.png"}, r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.file != "pic.png" || o.output != "pic.png" {
		t.Fatalf("unexpected files %q %q", o.file, o.output)
	}
	_, err = parseOpenCmd(nil, r)
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestSessionOptionsFromConfig(t *testing.T) {
	cfg := config.New()
	cfg.Tool = "oval"
	cfg.LineWidth = 4
	r := &root{config: cfg}
	opts, err := r.sessionOptions()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Tool.String() != "oval" || opts.Style.LineWidth != 4 {
		t.Fatalf("unexpected options %+v", opts)
	}
	cfg.Tool = "spray"
	if _, err := r.sessionOptions(); err == nil {
		t.Fatalf("expected error for unknown tool")
	}
}

func TestListCommands(t *testing.T) {
	r := &root{program: "rasterpad", config: config.New()}
	for name, parse := range map[string]func([]string, *root) (*listCmd, error){
		"colors": parseColorsCmd,
		"widths": parseWidthsCmd,
		"fonts":  parseFontsCmd,
	} {
		cmd, err := parse(nil, r)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		var buf bytes.Buffer
		cmd.out = &buf
		if err := cmd.Run(); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if buf.Len() == 0 {
			t.Fatalf("%s: no output", name)
		}
		if cmd.Template() != name+".txt" {
			t.Fatalf("%s: unexpected template %q", name, cmd.Template())
		}
	}
}

func TestUsageRendersTemplates(t *testing.T) {
	r := &root{program: "rasterpad"}
	d, err := parseDrawCmd([]string{"-file", "a.png", "fill", "0", "0"}, r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	help := (&UsageError{of: d}).Error()
	if !strings.Contains(help, "rasterpad draw") || !strings.Contains(help, "-from-clipboard") {
		t.Fatalf("unexpected help:\n%s", help)
	}
}

func TestWindowTitle(t *testing.T) {
	got := windowTitle(titleOptions{File: "pic.png"})
	if !strings.HasPrefix(got, "rasterpad - pic.png") {
		t.Fatalf("unexpected title %q", got)
	}
}
