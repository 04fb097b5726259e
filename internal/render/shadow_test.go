package render

import (
	"image"
	"testing"
)

func TestDropShadowBounds(t *testing.T) {
	r := image.Rect(10, 20, 30, 40)
	opts := ShadowOptions{Radius: 3, Offset: image.Pt(4, 2), Opacity: 0.5}
	layer := DropShadow(r, opts)
	if layer == nil {
		t.Fatal("expected shadow layer")
	}
	want := image.Rect(8, 16, 40, 48)
	if !layer.Bounds().Eq(want) {
		t.Fatalf("unexpected bounds %v, want %v", layer.Bounds(), want)
	}
	centre := image.Pt(20+4, 30+2)
	if layer.RGBAAt(centre.X, centre.Y).A == 0 {
		t.Fatalf("expected shadow alpha at %v", centre)
	}
}

func TestDropShadowNoneWhenTransparent(t *testing.T) {
	if layer := DropShadow(image.Rect(0, 0, 4, 4), ShadowOptions{Radius: 2, Opacity: 0}); layer != nil {
		t.Fatalf("expected no layer, got %v", layer.Bounds())
	}
	if layer := DropShadow(image.Rectangle{}, DefaultShadowOptions()); layer != nil {
		t.Fatal("expected no layer for an empty canvas")
	}
}

func TestDropShadowBlursEdge(t *testing.T) {
	r := image.Rect(0, 0, 10, 10)
	layer := DropShadow(r, ShadowOptions{Radius: 2, Opacity: 1})
	if layer == nil {
		t.Fatal("expected shadow layer")
	}
	// One pixel outside the canvas edge the blur must have spread some alpha.
	if a := layer.RGBAAt(-1, 5).A; a == 0 {
		t.Fatal("expected blurred alpha outside the edge")
	}
	if a := layer.RGBAAt(5, 5).A; a == 0 {
		t.Fatal("expected alpha inside the canvas footprint")
	}
}
