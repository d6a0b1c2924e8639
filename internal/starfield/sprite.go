package starfield

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

type spriteKey struct {
	tone   Tone
	radius int // radius × 10, rounded
}

// spriteCache holds pre-rendered glow sprites for one controller. Entries
// are built lazily and live until the cache is reset.
type spriteCache struct {
	tone    Tone
	dpr     float64
	sprites map[spriteKey]*image.RGBA
}

func newSpriteCache(tone Tone) *spriteCache {
	return &spriteCache{tone: tone, dpr: 1, sprites: make(map[spriteKey]*image.RGBA)}
}

// reset drops every sprite. Sprites are built at a device pixel ratio, so the
// cache must be reset whenever the ratio may have changed.
func (c *spriteCache) reset(dpr float64) {
	c.dpr = dpr
	clear(c.sprites)
}

func (c *spriteCache) len() int { return len(c.sprites) }

// get returns the glow sprite for radius r, building it on first use.
func (c *spriteCache) get(r float64) *image.RGBA {
	key := spriteKey{tone: c.tone, radius: int(math.Round(r * 10))}
	if spr, ok := c.sprites[key]; ok {
		return spr
	}
	spr := buildSprite(c.tone, r, c.dpr)
	c.sprites[key] = spr
	return spr
}

var (
	champagneStops = []ColorStop{
		{0.0, rgba(255, 255, 255, 0.95)},
		{0.35, rgba(255, 248, 230, 0.55)},
		{0.7, rgba(255, 215, 150, 0.18)},
		{1.0, rgba(255, 215, 150, 0)},
	}
	whiteStops = []ColorStop{
		{0.0, rgba(255, 255, 255, 0.95)},
		{0.6, rgba(255, 255, 255, 0.22)},
		{1.0, rgba(255, 255, 255, 0)},
	}
)

func glowStops(tone Tone) []ColorStop {
	if tone == ToneChampagne {
		return champagneStops
	}
	return whiteStops
}

// spriteSize is the logical edge length of the sprite for radius r.
func spriteSize(r float64) float64 {
	return math.Ceil(r*8 + 8)
}

// buildSprite renders a radial glow disc of radius r*4 centered in a square
// of spriteSize(r) logical units.
func buildSprite(tone Tone, r, dpr float64) *image.RGBA {
	size := spriteSize(r)
	px := int(math.Ceil(size * dpr))
	img := image.NewRGBA(image.Rect(0, 0, px, px))
	if px == 0 {
		return img
	}
	glow := &RadialGradient{
		CX:     size / 2,
		CY:     size / 2,
		Radius: r * 4,
		Scale:  dpr,
		Stops:  glowStops(tone),
	}
	z := vector.NewRasterizer(px, px)
	circlePath(z, float32(size/2*dpr), float32(size/2*dpr), float32(r*4*dpr))
	z.Draw(img, img.Bounds(), glow, image.Point{})
	return img
}

// vignetteStops darken the frame slightly towards the corners.
var vignetteStops = []ColorStop{
	{0, rgba(8, 12, 20, 0.04)},
	{1, rgba(8, 12, 20, 0.08)},
}

// buildVignette renders the background overlay for a w×h logical surface.
func buildVignette(w, h, dpr float64) *image.RGBA {
	pw, ph := int(math.Floor(w*dpr)), int(math.Floor(h*dpr))
	img := image.NewRGBA(image.Rect(0, 0, max(pw, 0), max(ph, 0)))
	if img.Bounds().Empty() {
		return img
	}
	g := &RadialGradient{
		CX:     w / 2,
		CY:     h / 2,
		Radius: math.Hypot(w, h) / 2,
		Scale:  dpr,
		Stops:  vignetteStops,
	}
	draw.Draw(img, img.Bounds(), g, img.Bounds().Min, draw.Src)
	return img
}

// flareColor is the stroke color of the cross flare on large stars.
var flareColor = rgba(255, 240, 210, 0.55)
