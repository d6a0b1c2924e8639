package render

import (
	"context"
	"fmt"
	"time"

	"github.com/rook-computer/starlight/internal/frame"
)

// HeadlessHost renders into memory only. Its size and visibility change
// through Resize and SetVisible, and frames are read back with Frame.
type HeadlessHost struct {
	hostBase

	content  *Content
	manual   bool
	interval time.Duration
	sched    frame.Scheduler
	ticker   *frame.TickerScheduler
	cancel   context.CancelFunc
}

// HeadlessOptions select how frames are scheduled.
type HeadlessOptions struct {
	// Manual leaves stepping to the caller through Step. Otherwise a ticker
	// runs frames at Interval.
	Manual   bool
	Interval time.Duration
}

func NewHeadlessHost(opts HostOptions, hopts HeadlessOptions) *HeadlessHost {
	if opts.Mount == "" {
		opts.Mount = "headless"
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1280, 720
	}
	if opts.DPR <= 0 {
		opts.DPR = 1
	}
	h := &HeadlessHost{content: opts.Content, manual: hopts.Manual, interval: hopts.Interval}
	h.init("headless", opts)
	h.mount = newSurfaceMount(opts.Width, opts.Height, opts.Content, nil)
	if h.manual {
		h.sched = frame.NewManualScheduler()
	}
	return h
}

func (h *HeadlessHost) Start(ctx context.Context) error {
	if h.manual {
		return nil
	}
	ctx, h.cancel = context.WithCancel(ctx)
	h.ticker = frame.NewTickerScheduler(ctx, h.interval)
	h.sched = h.ticker
	return nil
}

func (h *HeadlessHost) Scheduler() frame.Scheduler { return h.sched }

// Step runs scheduled frames once at ts. It is a no-op unless the host was
// created with Manual.
func (h *HeadlessHost) Step(ts time.Duration) int {
	m, ok := h.sched.(*frame.ManualScheduler)
	if !ok {
		return 0
	}
	return m.Step(ts)
}

func (h *HeadlessHost) Run(ctx context.Context) error {
	select {
	case <-ctx.Done():
	case <-h.quit:
	}
	return nil
}

func (h *HeadlessHost) Stop() error {
	if h.cancel != nil {
		h.cancel()
	}
	if h.ticker != nil {
		h.ticker.Wait()
	}
	return nil
}

// Resize changes the viewport and mount size and notifies resize listeners.
func (h *HeadlessHost) Resize(w, hgt int) error {
	if w <= 0 || hgt <= 0 || w > MaxViewportSide || hgt > MaxViewportSide {
		return fmt.Errorf("invalid size %dx%d (1..%d per side)", w, hgt, MaxViewportSide)
	}
	h.setViewport(w, hgt, h.DevicePixelRatio())
	return nil
}

// SetDPR changes the device pixel ratio and notifies resize listeners.
func (h *HeadlessHost) SetDPR(dpr float64) {
	w, hgt := h.ViewportSize()
	h.setViewport(w, hgt, dpr)
}

var _ Resizer = (*HeadlessHost)(nil)
