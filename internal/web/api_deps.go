package web

import (
	"context"
	"errors"
	"image"

	"github.com/rook-computer/starlight/internal/state"
)

// StatusSource provides the runtime snapshot served by /status and /config.
//
// The concrete implementation is typically *state.Store.
type StatusSource interface {
	Snapshot() state.State
}

// FrameSource provides the latest composed frame, or nil before the first.
type FrameSource interface {
	Frame() image.Image
}

// Resizer changes the surface size. Only hosts without a real display
// support it.
type Resizer interface {
	Resize(w, h int) error
}

// VisibilitySetter overrides the host's visibility.
type VisibilitySetter interface {
	SetVisible(visible bool)
}

type APIV1Deps struct {
	Status     StatusSource
	Frames     FrameSource
	Resizer    Resizer
	Visibility VisibilitySetter

	// DisposeFunc tears the effect down. It must be safe to call repeatedly.
	DisposeFunc func(ctx context.Context) error

	// PreviewURL is encoded by /qr.png. Empty means the URL the request
	// was made to.
	PreviewURL string
}

var errNotConfigured = errors.New("not configured")

func (d APIV1Deps) withDefaults() APIV1Deps {
	out := d
	if out.Status == nil {
		out.Status = state.NewStore()
	}
	if out.Frames == nil {
		out.Frames = NoopFrameSource{}
	}
	if out.Resizer == nil {
		out.Resizer = NoopResizer{Err: errNotConfigured}
	}
	return out
}

type NoopFrameSource struct{}

func (NoopFrameSource) Frame() image.Image { return nil }

type NoopResizer struct{ Err error }

func (n NoopResizer) Resize(int, int) error { return n.Err }
