package render

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rook-computer/starlight/internal/frame"
)

// WindowOptions configure the desktop window.
type WindowOptions struct {
	Title string
	// Overlay makes a borderless, transparent, always-on-top window that
	// lets mouse input through to whatever is below it.
	Overlay bool
}

// WindowHost renders into a desktop window. The game loop drives the frame
// schedule: every Update steps the controller's task once.
type WindowHost struct {
	hostBase

	win       WindowOptions
	content   *Content
	fixedDPR  float64
	sched     *frame.ManualScheduler
	started   time.Time
	frameMu   sync.Mutex
	pending   *image.RGBA
	fresh     bool
	tex       *ebiten.Image
	stopWatch context.CancelFunc
}

func NewWindowHost(opts HostOptions, win WindowOptions) *WindowHost {
	if opts.Mount == "" {
		opts.Mount = "window"
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 960, 540
	}
	if win.Title == "" {
		win.Title = "Starlight"
	}
	h := &WindowHost{win: win, content: opts.Content, fixedDPR: opts.DPR}
	if opts.DPR <= 0 {
		opts.DPR = 1
	}
	h.init("window", opts)
	return h
}

func (h *WindowHost) Start(ctx context.Context) error {
	w, hgt := h.ViewportSize()
	ebiten.SetWindowSize(w, hgt)
	ebiten.SetWindowTitle(h.win.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if h.win.Overlay {
		ebiten.SetWindowDecorated(false)
		ebiten.SetWindowFloating(true)
		ebiten.SetWindowMousePassthrough(true)
	}

	h.sched = frame.NewManualScheduler()
	h.started = time.Now()
	h.mount = newSurfaceMount(w, hgt, h.content, h.queue)
	if h.win.Overlay {
		h.mount.compositor.Background = color.RGBA{}
	}

	ctx, h.stopWatch = context.WithCancel(ctx)
	go func() {
		<-ctx.Done()
		h.Quit()
	}()
	return nil
}

func (h *WindowHost) Scheduler() frame.Scheduler { return h.sched }

// Run opens the window and blocks until it is closed. It must be called
// from the main goroutine.
func (h *WindowHost) Run(ctx context.Context) error {
	opts := &ebiten.RunGameOptions{ScreenTransparent: h.win.Overlay}
	err := ebiten.RunGameWithOptions(&windowGame{h: h}, opts)
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func (h *WindowHost) Stop() error {
	if h.stopWatch != nil {
		h.stopWatch()
	}
	return nil
}

// queue keeps the newest composed frame for the next Draw.
func (h *WindowHost) queue(img *image.RGBA) {
	h.frameMu.Lock()
	defer h.frameMu.Unlock()
	if h.pending == nil || h.pending.Bounds() != img.Bounds() {
		h.pending = image.NewRGBA(img.Bounds())
	}
	copy(h.pending.Pix, img.Pix)
	h.fresh = true
}

func (h *WindowHost) deviceScale() float64 {
	if h.fixedDPR > 0 {
		return h.fixedDPR
	}
	if m := ebiten.Monitor(); m != nil {
		if s := m.DeviceScaleFactor(); s > 0 {
			return s
		}
	}
	return 1
}

// windowGame adapts the host to ebiten's game loop.
type windowGame struct {
	h *WindowHost
}

func (g *windowGame) Update() error {
	h := g.h
	select {
	case <-h.quit:
		return ebiten.Termination
	default:
	}
	if ebiten.IsKeyPressed(ebiten.KeyEscape) || ebiten.IsKeyPressed(ebiten.KeyQ) {
		h.logger.Infof("window", "quit requested")
		return ebiten.Termination
	}
	h.SetVisible(!ebiten.IsWindowMinimized())
	h.sched.Step(time.Since(h.started))
	return nil
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	h := g.h
	h.frameMu.Lock()
	if h.pending != nil && h.fresh {
		b := h.pending.Bounds()
		if h.tex == nil || h.tex.Bounds().Size() != b.Size() {
			if h.tex != nil {
				h.tex.Deallocate()
			}
			h.tex = ebiten.NewImage(b.Dx(), b.Dy())
		}
		h.tex.WritePixels(h.pending.Pix)
		h.fresh = false
	}
	h.frameMu.Unlock()
	if h.tex == nil {
		return
	}

	sb := screen.Bounds()
	tb := h.tex.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(sb.Dx())/float64(tb.Dx()), float64(sb.Dy())/float64(tb.Dy()))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(h.tex, op)
}

// Layout renders at device resolution and reports the window size as the
// viewport.
func (g *windowGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	h := g.h
	dpr := h.deviceScale()
	h.setViewport(outsideWidth, outsideHeight, dpr)
	return max(1, int(math.Floor(float64(outsideWidth)*dpr))), max(1, int(math.Floor(float64(outsideHeight)*dpr)))
}
