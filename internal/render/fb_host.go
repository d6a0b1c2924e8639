//go:build linux && cgo

package render

import (
	"context"
	"fmt"
	"image"
	"sync"

	fb "github.com/gonutz/framebuffer"
	"github.com/rook-computer/starlight/internal/frame"
	"github.com/rook-computer/starlight/internal/starfield"
	"github.com/rook-computer/starlight/internal/system"
	xdraw "golang.org/x/image/draw"
)

// FBHost renders to the Linux framebuffer. Its mount selector is the device
// path; a device that cannot be opened resolves to no mount.
type FBHost struct {
	hostBase

	content *Content
	dev     *fb.Device
	devMu   sync.Mutex
	sched   *frame.TickerScheduler
	cancel  context.CancelFunc
}

func NewFBHost(opts HostOptions) *FBHost {
	if opts.Mount == "" {
		opts.Mount = "/dev/fb0"
	}
	h := &FBHost{content: opts.Content}
	h.init("fb", opts)
	return h
}

// Start opens the device, switches the console to graphics mode and starts
// the F4 exit watcher. A missing device is logged and leaves the host without
// a mount.
func (h *FBHost) Start(ctx context.Context) error {
	ctx, h.cancel = context.WithCancel(ctx)
	h.sched = frame.NewTickerScheduler(ctx, frame.DefaultInterval)

	dev, err := fb.Open(h.mountName)
	if err != nil {
		h.logger.Errorf("fb", "open %s: %v", h.mountName, err)
		return nil
	}
	h.dev = dev
	bounds := dev.Bounds()
	h.logger.Infof("fb", "framebuffer open, bounds=%dx%d", bounds.Dx(), bounds.Dy())

	_ = system.SetGraphicsModeWithLog(h.logger)
	_ = system.HideCursorWithLog(h.logger)
	system.StartExitOnF4(ctx, h.logger, h.Quit)

	w, hgt := h.ViewportSize()
	if w <= 0 || hgt <= 0 {
		w, hgt = bounds.Dx(), bounds.Dy()
	}
	dpr := h.DevicePixelRatio()
	if dpr <= 0 {
		dpr = 1
	}
	h.mount = newSurfaceMount(w, hgt, h.content, h.blit)
	h.setViewport(w, hgt, dpr)
	return nil
}

func (h *FBHost) Scheduler() frame.Scheduler { return h.sched }

func (h *FBHost) Run(ctx context.Context) error {
	select {
	case <-ctx.Done():
	case <-h.quit:
	}
	return nil
}

func (h *FBHost) Stop() error {
	if h.cancel != nil {
		h.cancel()
	}
	if h.sched != nil {
		h.sched.Wait()
	}
	h.devMu.Lock()
	defer h.devMu.Unlock()
	if h.dev == nil {
		return nil
	}
	_ = system.ShowCursorWithLog(h.logger)
	_ = system.RestoreTextModeWithLog(h.logger)
	if err := h.dev.Close(); err != nil {
		return fmt.Errorf("close framebuffer: %w", err)
	}
	h.dev = nil
	return nil
}

// blit scales a composed frame onto the whole device.
func (h *FBHost) blit(img *image.RGBA) {
	h.devMu.Lock()
	defer h.devMu.Unlock()
	if h.dev == nil {
		return
	}
	xdraw.NearestNeighbor.Scale(h.dev, h.dev.Bounds(), img, img.Bounds(), xdraw.Src, nil)
}

var _ starfield.Host = (*FBHost)(nil)
