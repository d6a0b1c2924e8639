package layout

import (
	"image"
	"testing"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name         string
		srcW, srcH   int
		maxW, maxH   int
		wantW, wantH int
	}{
		{"Already fits", 100, 50, 200, 200, 100, 50},
		{"Width bound", 400, 200, 200, 200, 200, 100},
		{"Height bound", 100, 400, 200, 200, 50, 200},
		{"Degenerate source", 0, 10, 100, 100, 0, 0},
		{"Tiny target keeps a pixel", 1000, 10, 10, 10, 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := Fit(tt.srcW, tt.srcH, tt.maxW, tt.maxH)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Fit = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestCenter(t *testing.T) {
	got := Center(image.Rect(0, 0, 100, 50), 20, 10)
	if want := image.Rect(40, 20, 60, 30); got != want {
		t.Errorf("Center = %v, want %v", got, want)
	}
	got = Center(image.Rect(0, 0, 10, 10), 50, 50)
	if want := image.Rect(0, 0, 10, 10); got != want {
		t.Errorf("oversized Center = %v, want %v", got, want)
	}
}

func TestInsetAndSplit(t *testing.T) {
	r := Inset(image.Rect(0, 0, 100, 100), 10)
	if r != image.Rect(10, 10, 90, 90) {
		t.Fatalf("Inset = %v", r)
	}
	top, bottom := SplitHorizontal(r, 30)
	if top != image.Rect(10, 10, 90, 40) || bottom != image.Rect(10, 40, 90, 90) {
		t.Errorf("SplitHorizontal = %v / %v", top, bottom)
	}
	top, _ = SplitHorizontal(r, 500)
	if top.Dy() != 80 {
		t.Errorf("split height not clamped: %v", top)
	}
}

func TestOffsetStaysInBounds(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 100)
	got := Offset(image.Rect(10, 5, 20, 15), -20, bounds)
	if got.Min.Y != 0 {
		t.Errorf("Offset up = %v, want clamped to top", got)
	}
	got = Offset(image.Rect(10, 80, 20, 90), 30, bounds)
	if got.Max.Y != 100 {
		t.Errorf("Offset down = %v, want clamped to bottom", got)
	}
}
