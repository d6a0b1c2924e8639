package starfield

import (
	"image"
	"image/color"
	"testing"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestCanvasResizeUsesDPR(t *testing.T) {
	c := NewCanvas()
	c.Resize(101, 51, 1.5)
	w, h := c.PixelSize()
	if w != 151 || h != 76 {
		t.Errorf("PixelSize = %dx%d, want 151x76", w, h)
	}
	lw, lh := c.Size()
	if lw != 101 || lh != 51 || c.DPR() != 1.5 {
		t.Errorf("Size = %vx%v dpr %v", lw, lh, c.DPR())
	}
}

func TestCanvasLighterAdds(t *testing.T) {
	c := NewCanvas()
	c.Resize(4, 4, 1)
	src := solid(2, 2, color.RGBA{R: 100, G: 50, B: 0, A: 100})

	c.SetComposite(Lighter)
	c.DrawImage(src, 1, 1, 2, 2)
	c.DrawImage(src, 1, 1, 2, 2)
	got := c.Image().RGBAAt(1, 1)
	if got.R != 200 || got.G != 100 || got.A != 200 {
		t.Errorf("two lighter draws = %v, want R200 G100 A200", got)
	}
	c.DrawImage(src, 1, 1, 2, 2)
	if got := c.Image().RGBAAt(2, 2); got.R != 255 {
		t.Errorf("lighter should saturate, got %v", got)
	}
	if got := c.Image().RGBAAt(0, 0); got.A != 0 {
		t.Errorf("pixel outside the draw changed: %v", got)
	}
}

func TestCanvasGlobalAlpha(t *testing.T) {
	c := NewCanvas()
	c.Resize(2, 2, 1)
	c.SetComposite(Lighter)
	c.SetGlobalAlpha(0.5)
	c.DrawImage(solid(2, 2, color.RGBA{R: 200, A: 200}), 0, 0, 2, 2)
	got := c.Image().RGBAAt(0, 0)
	if got.R < 99 || got.R > 101 {
		t.Errorf("half alpha lighter draw R = %d, want ~100", got.R)
	}
}

func TestCanvasSourceOverScales(t *testing.T) {
	c := NewCanvas()
	c.Resize(10, 10, 2)
	c.DrawImage(solid(5, 5, color.RGBA{G: 255, A: 255}), 0, 0, 10, 10)
	w, h := c.PixelSize()
	for _, p := range []image.Point{{0, 0}, {w - 1, h - 1}, {w / 2, h / 2}} {
		if got := c.Image().RGBAAt(p.X, p.Y); got.G != 255 || got.A != 255 {
			t.Errorf("pixel %v = %v, want opaque green", p, got)
		}
	}
	c.Clear()
	if got := c.Image().RGBAAt(3, 3); got.A != 0 {
		t.Errorf("Clear left %v", got)
	}
}

func TestCanvasDrawClipsOffscreen(t *testing.T) {
	c := NewCanvas()
	c.Resize(4, 4, 1)
	c.SetComposite(Lighter)
	c.DrawImage(solid(4, 4, color.RGBA{B: 80, A: 80}), -2, -2, 4, 4)
	c.DrawImage(solid(4, 4, color.RGBA{B: 80, A: 80}), 10, 10, 4, 4)
	if got := c.Image().RGBAAt(1, 1); got.B != 80 {
		t.Errorf("clipped draw pixel = %v", got)
	}
	if got := c.Image().RGBAAt(3, 3); got.A != 0 {
		t.Errorf("pixel outside clipped draw = %v", got)
	}
	if c.DrawCalls() != 2 {
		t.Errorf("DrawCalls = %d, want 2", c.DrawCalls())
	}
}

func TestStrokeCross(t *testing.T) {
	c := NewCanvas()
	c.Resize(40, 40, 1)
	c.SetComposite(Lighter)
	c.StrokeCross(20, 20, 10, 2, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	img := c.Image()
	for _, p := range []image.Point{{12, 19}, {27, 20}, {19, 12}, {20, 27}} {
		if img.RGBAAt(p.X, p.Y).A == 0 {
			t.Errorf("expected flare coverage at %v", p)
		}
	}
	for _, p := range []image.Point{{12, 12}, {27, 27}, {2, 20}, {20, 36}} {
		if a := img.RGBAAt(p.X, p.Y).A; a != 0 {
			t.Errorf("unexpected coverage %d at %v", a, p)
		}
	}
}
