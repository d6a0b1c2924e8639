package starfield

import (
	"math"
	"math/rand/v2"
	"testing"
)

func seeded() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }

func TestStarCount(t *testing.T) {
	tests := []struct {
		name                string
		w, h                float64
		density, countScale float64
		wantMin, wantMax    int
	}{
		{"Reference 1000x1000", 1000, 1000, 0.9, 1.0 / 3.0, 599, 600},
		{"Full scale", 1000, 1000, 1, 1, 2000, 2000},
		{"800x600 defaults", 800, 600, 0.9, 1.0 / 3.0, 287, 288},
		{"Empty surface", 0, 600, 0.9, 1.0 / 3.0, 0, 0},
		{"Tiny surface floors to zero", 10, 10, 0.9, 1.0 / 3.0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StarCount(tt.w, tt.h, tt.density, tt.countScale)
			if got < tt.wantMin || got > tt.wantMax {
				t.Errorf("StarCount = %d, want in [%d,%d]", got, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestGenerateStarsRanges(t *testing.T) {
	cfg := DefaultConfig()
	stars := generateStars(seeded(), cfg, 800, 600)
	if len(stars) != StarCount(800, 600, cfg.Density, cfg.CountScale) {
		t.Fatalf("generated %d stars", len(stars))
	}
	for i, s := range stars {
		if s.X < 0 || s.X >= 800 || s.Y < 0 || s.Y >= 600 {
			t.Fatalf("star %d out of bounds: (%v,%v)", i, s.X, s.Y)
		}
		if s.Z < 0 || s.Z >= 1 {
			t.Fatalf("star %d depth %v", i, s.Z)
		}
		if s.R < 0 || s.R > 1.4+0.9 {
			t.Fatalf("star %d radius %v", i, s.R)
		}
		if s.BaseA < 0.25 || s.BaseA >= 0.55 || s.TwAmp < 0.35 || s.TwAmp >= 0.85 {
			t.Fatalf("star %d alpha ranges %v %v", i, s.BaseA, s.TwAmp)
		}
		if s.TwSpd < 0.6*cfg.TwinkleScale || s.TwSpd >= 1.3*cfg.TwinkleScale {
			t.Fatalf("star %d twinkle speed %v", i, s.TwSpd)
		}
		wantVX := (0.02 + 0.06*(1-s.Z)) * cfg.Drift
		if math.Abs(s.VX-wantVX) > 1e-12 {
			t.Fatalf("star %d vx %v, want %v", i, s.VX, wantVX)
		}
	}
}

func TestNearerStarsDriftFaster(t *testing.T) {
	rng := seeded()
	near := newStar(rng, 100, 100, 1, 0.2)
	far := newStar(rng, 100, 100, 1, 0.2)
	if near.Z > far.Z {
		near, far = far, near
	}
	if near.VX < far.VX || near.VY < far.VY {
		t.Errorf("near star (z=%v) slower than far star (z=%v)", near.Z, far.Z)
	}
}

func TestAdvanceWraps(t *testing.T) {
	const w, h = 100.0, 50.0
	tests := []struct {
		name         string
		star         Star
		wantX, wantY float64
	}{
		{"Past right edge", Star{X: w + 20, Y: 10, VX: 0.5}, -20, 10},
		{"Past left edge", Star{X: -20, Y: 10, VX: -0.5}, w + 20, 10},
		{"Past bottom edge", Star{X: 10, Y: h + 20, VY: 0.1}, 10, -20},
		{"Past top edge", Star{X: 10, Y: -20, VY: -0.1}, 10, h + 20},
		{"Inside", Star{X: 10, Y: 10, VX: 1, VY: 1}, 11, 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.star
			s.Advance(w, h)
			if s.X != tt.wantX || s.Y != tt.wantY {
				t.Errorf("Advance -> (%v,%v), want (%v,%v)", s.X, s.Y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestAdvanceKeepsStarsInExtendedBounds(t *testing.T) {
	const w, h = 320.0, 240.0
	cfg := DefaultConfig()
	cfg.Drift = 40
	stars := generateStars(seeded(), cfg, w, h)
	stars = append(stars, Star{X: 5, Y: 5, VX: -7, VY: -3})
	for frame := 0; frame < 2000; frame++ {
		for i := range stars {
			s := &stars[i]
			s.Advance(w, h)
			if s.X < -wrapMargin || s.X > w+wrapMargin || s.Y < -wrapMargin || s.Y > h+wrapMargin {
				t.Fatalf("frame %d: star %d escaped to (%v,%v)", frame, i, s.X, s.Y)
			}
		}
	}
}

func TestOpacityRange(t *testing.T) {
	s := Star{BaseA: 0.5, TwSpd: 0.2, Phase: 1, Sparkle: 2}
	for i := 0; i < 10000; i++ {
		tsec := float64(i) * 0.016
		a := s.Opacity(tsec)
		if a > 1 {
			t.Fatalf("opacity %v above 1 at t=%v", a, tsec)
		}
		if a < 0.3*s.BaseA-1e-9 {
			t.Fatalf("opacity %v below twinkle floor at t=%v", a, tsec)
		}
	}
}

func TestOpacitySparkle(t *testing.T) {
	// sin(3t + Sparkle) peaks at 1 when 3t + Sparkle = π/2.
	s := Star{BaseA: 0.4, TwSpd: 0, Phase: 0, Sparkle: math.Pi / 2}
	got := s.Opacity(0)
	want := math.Min(1, 0.4*0.65+sparkleBoost)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("sparkle opacity = %v, want %v", got, want)
	}
}
