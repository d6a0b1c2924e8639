package render

import (
	"context"
	"image"

	"github.com/rook-computer/starlight/internal/frame"
	"github.com/rook-computer/starlight/internal/starfield"
)

// Host is a display the starfield can run on: it resolves mounts, reports
// display values, delivers visibility and resize events, and owns the frame
// schedule.
type Host interface {
	starfield.Host

	Name() string
	Start(ctx context.Context) error
	Stop() error
	Scheduler() frame.Scheduler

	// Run blocks until ctx is done or the host is asked to quit (window
	// closed, key pressed). Hosts with a UI event loop must be run from the
	// main goroutine.
	Run(ctx context.Context) error
	// Quit asks Run to return.
	Quit()

	// SetVisible overrides the host's visibility, as if the display had
	// been hidden or shown.
	SetVisible(visible bool)
	// Frame returns a copy of the last composed frame, or nil.
	Frame() image.Image
}

// Resizer is implemented by hosts whose surface size can be set directly.
type Resizer interface {
	Resize(w, h int) error
}

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Infof(string, string, ...interface{})  {}
func (noopLogger) Errorf(string, string, ...interface{}) {}
