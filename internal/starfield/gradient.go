package starfield

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"
)

// ColorStop is one stop of a gradient. Offset is in [0,1].
type ColorStop struct {
	Offset float64
	Color  color.NRGBA
}

// RadialGradient is an infinite image whose color depends on the distance
// from a center point. Geometry is in logical units; Scale converts device
// pixels back to logical units when sampling.
type RadialGradient struct {
	CX, CY float64
	Radius float64
	Scale  float64
	Stops  []ColorStop
}

func (g *RadialGradient) ColorModel() color.Model { return color.NRGBAModel }

func (g *RadialGradient) Bounds() image.Rectangle {
	return image.Rectangle{Min: image.Point{X: -1e9, Y: -1e9}, Max: image.Point{X: 1e9, Y: 1e9}}
}

func (g *RadialGradient) At(x, y int) color.Color {
	scale := g.Scale
	if scale <= 0 {
		scale = 1
	}
	px := (float64(x)+0.5)/scale - g.CX
	py := (float64(y)+0.5)/scale - g.CY
	t := 1.0
	if g.Radius > 0 {
		t = math.Hypot(px, py) / g.Radius
	}
	return g.colorAt(t)
}

func (g *RadialGradient) colorAt(t float64) color.NRGBA {
	if len(g.Stops) == 0 {
		return color.NRGBA{}
	}
	if t <= g.Stops[0].Offset {
		return g.Stops[0].Color
	}
	for i := 1; i < len(g.Stops); i++ {
		lo, hi := g.Stops[i-1], g.Stops[i]
		if t > hi.Offset {
			continue
		}
		span := hi.Offset - lo.Offset
		if span <= 0 {
			return hi.Color
		}
		return lerpNRGBA(lo.Color, hi.Color, (t-lo.Offset)/span)
	}
	return g.Stops[len(g.Stops)-1].Color
}

func lerpNRGBA(a, b color.NRGBA, f float64) color.NRGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*f))
	}
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// rgba builds a non-premultiplied color from CSS-style components.
func rgba(r, g, b uint8, a float64) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(a * 255))}
}

// circlePath appends a closed circle of radius rad centered at (cx, cy), in
// device pixels, to z.
func circlePath(z *vector.Rasterizer, cx, cy, rad float32) {
	const k = 0.5522847498
	kr := k * rad
	z.MoveTo(cx+rad, cy)
	z.CubeTo(cx+rad, cy+kr, cx+kr, cy+rad, cx, cy+rad)
	z.CubeTo(cx-kr, cy+rad, cx-rad, cy+kr, cx-rad, cy)
	z.CubeTo(cx-rad, cy-kr, cx-kr, cy-rad, cx, cy-rad)
	z.CubeTo(cx+kr, cy-rad, cx+rad, cy-kr, cx+rad, cy)
	z.ClosePath()
}
