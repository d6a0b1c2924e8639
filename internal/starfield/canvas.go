package starfield

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/golang/freetype/raster"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/fixed"
)

// CompositeMode is how drawn pixels combine with the surface.
type CompositeMode int

const (
	// SourceOver paints on top of existing pixels.
	SourceOver CompositeMode = iota
	// Lighter adds source and destination so overlapping glows brighten.
	Lighter
)

// Canvas is a software 2D drawing surface. Callers draw in logical
// coordinates; the backing store is logical size times the device pixel
// ratio.
type Canvas struct {
	img   *image.RGBA
	w, h  float64
	dpr   float64
	alpha float64
	mode  CompositeMode

	ras     *raster.Rasterizer
	scratch *image.RGBA
	draws   int
}

func NewCanvas() *Canvas {
	return &Canvas{img: image.NewRGBA(image.Rect(0, 0, 0, 0)), dpr: 1, alpha: 1}
}

// MaxCanvasSide bounds the backing store, in device pixels per side.
const MaxCanvasSide = 16384

// canvasFits reports whether a w×h logical surface at dpr stays within
// MaxCanvasSide.
func canvasFits(w, h, dpr float64) bool {
	return w*dpr <= MaxCanvasSide && h*dpr <= MaxCanvasSide
}

// Resize reallocates the backing store for a w×h logical surface at dpr.
// The canvas is unchanged if allocation fails.
func (c *Canvas) Resize(w, h, dpr float64) {
	pw, ph := int(math.Floor(w*dpr)), int(math.Floor(h*dpr))
	if pw < 0 {
		pw = 0
	}
	if ph < 0 {
		ph = 0
	}
	img := image.NewRGBA(image.Rect(0, 0, pw, ph))
	ras := raster.NewRasterizer(pw, ph)
	ras.UseNonZeroWinding = true
	c.img, c.ras = img, ras
	c.w, c.h, c.dpr = w, h, dpr
}

// Image is the backing store. It is replaced on Resize.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Size is the logical size.
func (c *Canvas) Size() (float64, float64) { return c.w, c.h }

func (c *Canvas) DPR() float64 { return c.dpr }

// PixelSize is the backing store size.
func (c *Canvas) PixelSize() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

func (c *Canvas) SetGlobalAlpha(a float64) { c.alpha = a }

func (c *Canvas) GlobalAlpha() float64 { return c.alpha }

func (c *Canvas) SetComposite(mode CompositeMode) { c.mode = mode }

func (c *Canvas) Composite() CompositeMode { return c.mode }

// DrawCalls counts image and stroke draws since the canvas was created.
func (c *Canvas) DrawCalls() int { return c.draws }

func (c *Canvas) device(v float64) float64 { return v * c.dpr }

func (c *Canvas) alpha16() uint32 { return uint32(clamp01(c.alpha) * 0xffff) }

func (c *Canvas) bounds() image.Rectangle { return c.img.Bounds() }

func (c *Canvas) empty() bool { return c.img.Bounds().Empty() }

func (c *Canvas) pixOffset(x, y int) int { return c.img.PixOffset(x, y) }

// Clear makes every pixel transparent.
func (c *Canvas) Clear() {
	clear(c.img.Pix)
}

// DrawImage draws src into the logical rectangle (x, y, dw, dh) using the
// current global alpha and composite mode.
func (c *Canvas) DrawImage(src *image.RGBA, x, y, dw, dh float64) {
	if src == nil || c.empty() {
		return
	}
	c.draws++
	dx0 := int(math.Round(c.device(x)))
	dy0 := int(math.Round(c.device(y)))
	dr := image.Rect(dx0, dy0, dx0+int(math.Round(c.device(dw))), dy0+int(math.Round(c.device(dh))))
	if dr.Empty() {
		return
	}
	sb := src.Bounds()
	if dr.Dx() != sb.Dx() || dr.Dy() != sb.Dy() {
		c.scratch = image.NewRGBA(image.Rect(0, 0, dr.Dx(), dr.Dy()))
		xdraw.ApproxBiLinear.Scale(c.scratch, c.scratch.Bounds(), src, sb, xdraw.Src, nil)
		src = c.scratch
		sb = src.Bounds()
	}
	clip := dr.Intersect(c.bounds())
	if clip.Empty() {
		return
	}
	sp := sb.Min.Add(clip.Min.Sub(dr.Min))
	switch c.mode {
	case Lighter:
		c.addImage(clip, src, sp)
	default:
		mask := image.NewUniform(color.Alpha16{A: uint16(c.alpha16())})
		draw.DrawMask(c.img, clip, src, sp, mask, image.Point{}, draw.Over)
	}
}

func (c *Canvas) addImage(clip image.Rectangle, src *image.RGBA, sp image.Point) {
	a := c.alpha16()
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		si := src.PixOffset(sp.X, sp.Y+y-clip.Min.Y)
		di := c.pixOffset(clip.Min.X, y)
		for x := clip.Min.X; x < clip.Max.X; x++ {
			for k := 0; k < 4; k++ {
				c.img.Pix[di+k] = addChannel(c.img.Pix[di+k], src.Pix[si+k], a)
			}
			si += 4
			di += 4
		}
	}
}

// addChannel returns dst + src*alpha, saturating at 0xff. alpha is 16-bit.
func addChannel(dst, src uint8, alpha uint32) uint8 {
	v := uint32(dst) + (uint32(src)*alpha+0x7fff)/0xffff
	if v > 0xff {
		return 0xff
	}
	return uint8(v)
}

// StrokeCross draws a four-point flare: a horizontal and a vertical line of
// half-length arm through (x, y), in logical units.
func (c *Canvas) StrokeCross(x, y, arm, lineWidth float64, col color.NRGBA) {
	if c.empty() {
		return
	}
	c.draws++
	c.ras.Clear()
	width := fixed.Int26_6(c.device(lineWidth) * 64)
	pt := func(px, py float64) fixed.Point26_6 {
		return fixed.Point26_6{X: fixed.Int26_6(c.device(px) * 64), Y: fixed.Int26_6(c.device(py) * 64)}
	}
	var horiz, vert raster.Path
	horiz.Start(pt(x-arm, y))
	horiz.Add1(pt(x+arm, y))
	vert.Start(pt(x, y-arm))
	vert.Add1(pt(x, y+arm))
	raster.Stroke(c.ras, horiz, width, raster.ButtCapper, raster.BevelJoiner)
	raster.Stroke(c.ras, vert, width, raster.ButtCapper, raster.BevelJoiner)
	c.ras.Rasterize(&spanPainter{canvas: c, color: col})
}

// spanPainter composites rasterizer coverage spans onto the canvas with the
// canvas' alpha and composite mode.
type spanPainter struct {
	canvas *Canvas
	color  color.NRGBA
}

func (p *spanPainter) Paint(spans []raster.Span, done bool) {
	c := p.canvas
	b := c.bounds()
	ga := c.alpha16()
	for _, s := range spans {
		if s.Y < b.Min.Y || s.Y >= b.Max.Y {
			continue
		}
		x0, x1 := max(s.X0, b.Min.X), min(s.X1, b.Max.X)
		if x0 >= x1 {
			continue
		}
		// Effective 16-bit alpha: coverage × color alpha × global alpha.
		a := s.Alpha * uint32(p.color.A) / 0xff * ga / 0xffff
		src := [4]uint32{
			uint32(p.color.R) * a / 0xffff,
			uint32(p.color.G) * a / 0xffff,
			uint32(p.color.B) * a / 0xffff,
			a >> 8,
		}
		i := c.pixOffset(x0, s.Y)
		for x := x0; x < x1; x++ {
			pix := c.img.Pix[i : i+4 : i+4]
			if c.mode == Lighter {
				for k := 0; k < 4; k++ {
					pix[k] = uint8(min(uint32(pix[k])+src[k], 0xff))
				}
			} else {
				inv := 0xff - src[3]
				for k := 0; k < 4; k++ {
					pix[k] = uint8(min(src[k]+uint32(pix[k])*inv/0xff, 0xff))
				}
			}
			i += 4
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
