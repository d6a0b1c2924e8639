package starfield

import (
	"image"
	"math"
	"sync"
	"time"

	"github.com/rook-computer/starlight/internal/frame"
)

const (
	flareArm       = 10
	flareLineWidth = 0.6
	flareAlpha     = 0.28
)

// Disposer tears the effect down. Calling it more than once is a no-op.
type Disposer func()

// Stats counts what the render loop has done so far.
type Stats struct {
	Frames          int
	SkippedPaused   int
	SkippedThrottle int
	Draws           int
	Culled          int
	Stars           int
	Width, Height   float64
	DPR             float64
}

// Controller owns one starfield: its canvas, stars, sprite cache and
// vignette. Resize and frame work are serialized by mu.
type Controller struct {
	env    Environment
	mount  Mount
	cfg    Config
	rng    Random
	logger Logger

	task          *frame.Task
	removeVisible func()
	removeResize  func()
	presenter     Presenter
	frameInterval float64

	mu       sync.Mutex
	canvas   *Canvas
	w, h     float64
	dpr      float64
	stars    []Star
	sprites  *spriteCache
	vignette *image.RGBA
	running  bool
	paused   bool
	disposed bool
	lastTS   float64
	stats    Stats
}

// Option customizes a Controller at construction.
type Option func(*Controller)

// WithRandom sets the random source used for star generation.
func WithRandom(rng Random) Option {
	return func(c *Controller) { c.rng = rng }
}

// WithLogger sets the logger for lifecycle and resize messages.
func WithLogger(l Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// InitSelector resolves selector through the host and starts the effect on
// the result. An unresolvable selector does nothing and returns nil.
func InitSelector(host Host, sched frame.Scheduler, selector string, cfg Config, opts ...Option) (*Controller, Disposer) {
	mount, ok := host.Resolve(selector)
	if !ok {
		return nil, nil
	}
	return Init(host, host, sched, mount, cfg, opts...)
}

// Init starts the effect on mount. A nil mount does nothing and returns nil.
//
// The reduced-motion preference is read once here; later changes are not
// observed. The first resize runs synchronously before the frame task is
// scheduled.
func Init(env Environment, events Events, sched frame.Scheduler, mount Mount, cfg Config, opts ...Option) (*Controller, Disposer) {
	if mount == nil {
		return nil, nil
	}
	c := &Controller{
		env:     env,
		mount:   mount,
		cfg:     cfg.Effective(env.PrefersReducedMotion()),
		logger:  noopLogger{},
		canvas:  NewCanvas(),
		running: true,
		dpr:     1,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = newRandom()
	}
	c.sprites = newSpriteCache(c.cfg.Tone)
	c.frameInterval = c.cfg.FrameInterval()
	if p, ok := mount.(Presenter); ok {
		c.presenter = p
	}

	mount.SetStyle(mountStyle(c.cfg.Layer))
	mount.AppendChild(c.canvas)

	c.removeVisible = events.OnVisibilityChange(c.onVisibility)
	c.onVisibility()

	c.removeResize = events.OnResize(c.Resize)
	c.Resize()

	c.task = frame.NewTask(c.frame)
	sched.Start(c.task)

	st := c.Stats()
	c.logger.Infof("starfield", "started: %.0fx%.0f dpr=%.2f stars=%d fps=%.0f drift=%.2f",
		st.Width, st.Height, st.DPR, st.Stars, c.cfg.FPS, c.cfg.Drift)
	return c, c.Dispose
}

func (c *Controller) onVisibility() {
	visible := c.env.Visible()
	c.mu.Lock()
	c.paused = !visible
	c.mu.Unlock()
}

// Resize re-measures the mount and rebuilds everything size dependent: the
// canvas backing store, sprite cache, vignette and the whole star set.
func (c *Controller) Resize() {
	mw, mh := c.mount.ClientSize()
	vw, vh := c.env.ViewportSize()
	if mw == 0 {
		mw = vw
	}
	if mh == 0 {
		mh = vh
	}
	dpr := c.env.DevicePixelRatio()
	if dpr == 0 {
		dpr = 1
	}
	dpr = math.Min(dpr, c.cfg.DPRMax)

	w, h := float64(mw), float64(mh)
	if !canvasFits(w, h, dpr) {
		c.logger.Errorf("starfield", "resize to %dx%d at dpr %.2f exceeds %d device pixels per side; keeping previous size",
			mw, mh, dpr, MaxCanvasSide)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	// Allocate first so a failure leaves the previous field intact.
	vignette := buildVignette(w, h, dpr)
	stars := generateStars(c.rng, c.cfg, w, h)
	c.canvas.Resize(w, h, dpr)
	c.w, c.h, c.dpr = w, h, dpr
	c.sprites.reset(dpr)
	c.vignette = vignette
	c.stars = stars
}

func (c *Controller) frame(ts time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	if c.paused {
		c.stats.SkippedPaused++
		return
	}
	now := float64(ts) / float64(time.Millisecond)
	if now-c.lastTS < c.frameInterval {
		c.stats.SkippedThrottle++
		return
	}
	c.lastTS = now

	c.render(now / 1000)
	c.stats.Frames++
	if c.presenter != nil {
		c.presenter.Present(c.canvas)
	}
}

// render draws one frame at t seconds. Caller holds mu.
func (c *Controller) render(t float64) {
	cv := c.canvas
	cv.SetGlobalAlpha(1)
	cv.SetComposite(SourceOver)
	cv.Clear()
	if c.vignette != nil {
		cv.DrawImage(c.vignette, 0, 0, c.w, c.h)
	}

	cv.SetComposite(Lighter)
	for i := range c.stars {
		s := &c.stars[i]
		a := s.Opacity(t)
		s.Advance(c.w, c.h)
		if a < alphaMin {
			c.stats.Culled++
			continue
		}

		spr := c.sprites.get(s.R)
		sw := float64(spr.Bounds().Dx()) / c.dpr
		sh := float64(spr.Bounds().Dy()) / c.dpr
		cv.SetGlobalAlpha(a)
		cv.DrawImage(spr, s.X-sw/2, s.Y-sh/2, sw, sh)

		if s.R > flareRadius {
			cv.SetGlobalAlpha(a * flareAlpha)
			cv.StrokeCross(s.X, s.Y, flareArm, flareLineWidth, flareColor)
		}
	}
	cv.SetGlobalAlpha(1)
	cv.SetComposite(SourceOver)
	c.stats.Draws = cv.DrawCalls()
}

// Dispose stops the loop, removes the observers, empties the mount and
// releases the caches.
func (c *Controller) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	c.running = false
	c.mu.Unlock()

	if c.task != nil {
		c.task.Cancel()
	}
	if c.removeVisible != nil {
		c.removeVisible()
	}
	if c.removeResize != nil {
		c.removeResize()
	}
	c.mount.Clear()

	c.mu.Lock()
	c.sprites.reset(c.dpr)
	c.vignette = nil
	c.stars = nil
	frames := c.stats.Frames
	c.mu.Unlock()
	c.logger.Infof("starfield", "disposed after %d frames", frames)
}

// Config is the effective configuration, after the reduced-motion
// adjustment.
func (c *Controller) Config() Config { return c.cfg }

// Canvas is the drawing surface appended to the mount.
func (c *Controller) Canvas() *Canvas { return c.canvas }

// Stars returns a copy of the current star set.
func (c *Controller) Stars() []Star {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Star(nil), c.stars...)
}

// Size is the current logical size.
func (c *Controller) Size() (w, h float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.w, c.h
}

// DPR is the device pixel ratio in use, after the DPRMax clamp.
func (c *Controller) DPR() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dpr
}

// Vignette is the cached overlay, nil after Dispose.
func (c *Controller) Vignette() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vignette
}

// Sprite returns the cached glow sprite for radius r.
func (c *Controller) Sprite(r float64) *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sprites.get(r)
}

// Paused reports whether the host is hidden.
func (c *Controller) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// Running is false once the effect is disposed.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Stats returns frame counters and the current geometry.
func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.stats
	st.Stars = len(c.stars)
	st.Width, st.Height, st.DPR = c.w, c.h, c.dpr
	return st
}

// Snapshot copies the most recent frame under the render lock.
func (c *Controller) Snapshot() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	src := c.canvas.Image()
	out := image.NewRGBA(src.Bounds())
	copy(out.Pix, src.Pix)
	return out
}
