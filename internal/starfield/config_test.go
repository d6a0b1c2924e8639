package starfield

import (
	"math"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.DPRMax != 2 || cfg.Density != 0.9 || cfg.Drift != 1 || cfg.FPS != 60 {
		t.Errorf("unexpected numeric defaults: %+v", cfg)
	}
	if cfg.Tone != ToneChampagne || cfg.Layer != LayerAbove {
		t.Errorf("unexpected enum defaults: tone=%q layer=%q", cfg.Tone, cfg.Layer)
	}
	if cfg.TwinkleScale != 0.2 || math.Abs(cfg.CountScale-1.0/3.0) > 1e-12 {
		t.Errorf("unexpected scale defaults: %+v", cfg)
	}
}

func TestEffectiveReducedMotion(t *testing.T) {
	tests := []struct {
		name      string
		fps       float64
		drift     float64
		reduced   bool
		wantFPS   float64
		wantDrift float64
	}{
		{"Not reduced", 60, 1, false, 60, 1},
		{"Reduced caps fps", 60, 1, true, 30, 0.5},
		{"Reduced keeps lower fps", 24, 2, true, 24, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.FPS, cfg.Drift = tt.fps, tt.drift
			got := cfg.Effective(tt.reduced)
			if got.FPS != tt.wantFPS || got.Drift != tt.wantDrift {
				t.Errorf("Effective(%v) = fps %v drift %v, want %v %v", tt.reduced, got.FPS, got.Drift, tt.wantFPS, tt.wantDrift)
			}
		})
	}
}

func TestOptionsConfig(t *testing.T) {
	opts, err := DecodeOptions(strings.NewReader(`{"density": 1.5, "tone": "white", "layer": "below", "fps": 24}`))
	if err != nil {
		t.Fatalf("DecodeOptions: %v", err)
	}
	cfg, err := opts.Config()
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	if cfg.Density != 1.5 || cfg.Tone != ToneWhite || cfg.Layer != LayerBelow || cfg.FPS != 24 {
		t.Errorf("options not applied: %+v", cfg)
	}
	if cfg.Drift != 1 || cfg.DPRMax != 2 {
		t.Errorf("unset options should keep defaults: %+v", cfg)
	}
}

func TestOptionsRejectsUnknownEnums(t *testing.T) {
	bad := "sepia"
	if _, err := (Options{Tone: &bad}).Config(); err == nil {
		t.Error("expected error for unknown tone")
	}
	if _, err := (Options{Layer: &bad}).Config(); err == nil {
		t.Error("expected error for unknown layer")
	}
	if _, err := DecodeOptions(strings.NewReader(`{"speed": 3}`)); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestLayerZIndex(t *testing.T) {
	if LayerAbove.ZIndex() != 0 || LayerBelow.ZIndex() != -1 {
		t.Errorf("z-index above=%d below=%d", LayerAbove.ZIndex(), LayerBelow.ZIndex())
	}
}
