package starfield

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
)

// Tone selects the glow palette used for star sprites.
type Tone string

const (
	ToneChampagne Tone = "champagne"
	ToneWhite     Tone = "white"
)

// ParseTone maps a tone name to a Tone. Empty input selects the default.
func ParseTone(s string) (Tone, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ToneChampagne):
		return ToneChampagne, nil
	case string(ToneWhite):
		return ToneWhite, nil
	default:
		return "", fmt.Errorf("unknown tone %q (want champagne|white)", s)
	}
}

// Layer selects whether the effect stacks above or below the host content.
type Layer string

const (
	LayerAbove Layer = "above"
	LayerBelow Layer = "below"
)

// ParseLayer maps a layer name to a Layer. Empty input selects the default.
func ParseLayer(s string) (Layer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(LayerAbove):
		return LayerAbove, nil
	case string(LayerBelow):
		return LayerBelow, nil
	default:
		return "", fmt.Errorf("unknown layer %q (want above|below)", s)
	}
}

// ZIndex is the stacking order the mount receives for this layer.
func (l Layer) ZIndex() int {
	if l == LayerBelow {
		return -1
	}
	return 0
}

// Config is the fully specified effect configuration. It is fixed once the
// controller is created.
type Config struct {
	DPRMax       float64
	Density      float64
	Drift        float64
	Tone         Tone
	Layer        Layer
	FPS          float64
	TwinkleScale float64
	CountScale   float64
}

func DefaultConfig() Config {
	return Config{
		DPRMax:       2,
		Density:      0.9,
		Drift:        1,
		Tone:         ToneChampagne,
		Layer:        LayerAbove,
		FPS:          60,
		TwinkleScale: 0.2,
		CountScale:   1.0 / 3.0,
	}
}

// Effective applies the reduced-motion preference: frame rate capped at 30
// and drift halved. It is evaluated once at initialization.
func (c Config) Effective(reducedMotion bool) Config {
	if !reducedMotion {
		return c
	}
	c.FPS = math.Min(30, c.FPS)
	c.Drift *= 0.5
	return c
}

// FrameInterval is the minimum time between rendered frames, in milliseconds.
func (c Config) FrameInterval() float64 {
	return 1000 / c.FPS
}

// Options is the loosely typed form of Config as it arrives from JSON files
// or flags. Nil fields take the default.
type Options struct {
	DPRMax       *float64 `json:"dprMax,omitempty"`
	Density      *float64 `json:"density,omitempty"`
	Drift        *float64 `json:"drift,omitempty"`
	Tone         *string  `json:"tone,omitempty"`
	Layer        *string  `json:"layer,omitempty"`
	FPS          *float64 `json:"fps,omitempty"`
	TwinkleScale *float64 `json:"twinkleScale,omitempty"`
	CountScale   *float64 `json:"countScale,omitempty"`
}

// DecodeOptions reads a JSON options object. Unknown keys are rejected.
func DecodeOptions(r io.Reader) (Options, error) {
	var opts Options
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		return Options{}, fmt.Errorf("decode options: %w", err)
	}
	return opts, nil
}

// Config resolves the options against DefaultConfig. Only the enum fields are
// validated; numeric values pass through untouched.
func (o Options) Config() (Config, error) {
	cfg := DefaultConfig()
	if o.DPRMax != nil {
		cfg.DPRMax = *o.DPRMax
	}
	if o.Density != nil {
		cfg.Density = *o.Density
	}
	if o.Drift != nil {
		cfg.Drift = *o.Drift
	}
	if o.FPS != nil {
		cfg.FPS = *o.FPS
	}
	if o.TwinkleScale != nil {
		cfg.TwinkleScale = *o.TwinkleScale
	}
	if o.CountScale != nil {
		cfg.CountScale = *o.CountScale
	}
	if o.Tone != nil {
		tone, err := ParseTone(*o.Tone)
		if err != nil {
			return Config{}, err
		}
		cfg.Tone = tone
	}
	if o.Layer != nil {
		layer, err := ParseLayer(*o.Layer)
		if err != nil {
			return Config{}, err
		}
		cfg.Layer = layer
	}
	return cfg, nil
}
