package starfield

import (
	"math"
	"math/rand/v2"
)

const (
	// wrapMargin is how far a star may leave the surface before it reappears
	// on the opposite edge.
	wrapMargin = 20

	// alphaMin is the opacity below which a star is not drawn at all.
	alphaMin = 0.035

	// flareRadius is the radius above which a star also gets a cross flare.
	flareRadius = 1.8

	sparkleThreshold = 0.997
	sparkleBoost     = 0.5
	sparkleSpeed     = 3
)

// Star is one generated particle. Everything except X and Y is fixed at
// creation.
type Star struct {
	X, Y    float64
	Z       float64 // 0 near, 1 far
	R       float64
	BaseA   float64
	TwAmp   float64
	TwSpd   float64
	Phase   float64
	VX, VY  float64
	Sparkle float64
}

// Random is the subset of *rand.Rand used for generation.
type Random interface {
	Float64() float64
}

func newRandom() Random {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// between returns a uniform value in [lo, hi).
func between(rng Random, lo, hi float64) float64 {
	return rng.Float64()*(hi-lo) + lo
}

// StarCount is the number of stars generated for a w×h surface.
func StarCount(w, h, density, countScale float64) int {
	base := (w * h) / 10000
	return int(math.Floor(base * (20 * density) * countScale))
}

func newStar(rng Random, w, h, drift, twinkleScale float64) Star {
	z := rng.Float64()
	r := math.Pow(rng.Float64(), 2.2) * 1.4
	if rng.Float64() < 0.06 {
		r += 0.9
	}
	return Star{
		X:       between(rng, 0, w),
		Y:       between(rng, 0, h),
		Z:       z,
		R:       r,
		BaseA:   between(rng, 0.25, 0.55),
		TwAmp:   between(rng, 0.35, 0.85),
		TwSpd:   between(rng, 0.6, 1.3) * twinkleScale,
		Phase:   between(rng, 0, 2*math.Pi),
		VX:      (0.02 + 0.06*(1-z)) * drift,
		VY:      (0.005 + 0.02*(1-z)) * drift,
		Sparkle: between(rng, 0, 2*math.Pi),
	}
}

// generateStars replaces the whole star set for the given surface size.
func generateStars(rng Random, cfg Config, w, h float64) []Star {
	count := StarCount(w, h, cfg.Density, cfg.CountScale)
	if count < 0 {
		count = 0
	}
	stars := make([]Star, count)
	for i := range stars {
		stars[i] = newStar(rng, w, h, cfg.Drift, cfg.TwinkleScale)
	}
	return stars
}

// Opacity is the star's alpha at t seconds: a slow twinkle between 65% and
// 100% of BaseA, with a rare sparkle on top.
func (s *Star) Opacity(t float64) float64 {
	a := s.BaseA * (0.65 + 0.35*math.Sin(t*s.TwSpd+s.Phase))
	if math.Sin(t*sparkleSpeed+s.Sparkle) > sparkleThreshold {
		a = math.Min(1, a+sparkleBoost)
	}
	return a
}

// Advance moves the star by its velocity and wraps it at the extended bounds
// of a w×h surface.
func (s *Star) Advance(w, h float64) {
	s.X += s.VX
	s.Y += s.VY
	if s.X > w+wrapMargin {
		s.X = -wrapMargin
	} else if s.X < -wrapMargin {
		s.X = w + wrapMargin
	}
	if s.Y > h+wrapMargin {
		s.Y = -wrapMargin
	} else if s.Y < -wrapMargin {
		s.Y = h + wrapMargin
	}
}
