package render

import (
	"image"
	"sync"
	"sync/atomic"

	"github.com/rook-computer/starlight/internal/starfield"
)

// HostOptions are shared by every host constructor.
type HostOptions struct {
	// Mount is the selector the host resolves. For the framebuffer host it
	// is the device path.
	Mount string
	// Width and Height are the initial viewport size in logical pixels.
	Width, Height int
	// DPR is the device pixel ratio; zero lets the host decide.
	DPR           float64
	ReducedMotion bool
	Content       *Content
	Logger        Logger
}

// listeners is a removable callback registry.
type listeners struct {
	mu   sync.Mutex
	next int
	fns  map[int]func()
}

func (l *listeners) add(fn func()) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = make(map[int]func())
	}
	id := l.next
	l.next++
	l.fns[id] = fn
	return func() {
		l.mu.Lock()
		delete(l.fns, id)
		l.mu.Unlock()
	}
}

// fire calls every registered callback outside the lock.
func (l *listeners) fire() {
	l.mu.Lock()
	fns := make([]func(), 0, len(l.fns))
	for _, fn := range l.fns {
		fns = append(fns, fn)
	}
	l.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (l *listeners) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.fns)
}

// hostBase carries the environment, events and mount handling every host
// shares.
type hostBase struct {
	name      string
	mountName string
	reduced   bool
	logger    Logger

	mu     sync.Mutex
	dpr    float64
	vw, vh int

	visible    atomic.Bool
	visibility listeners
	resize     listeners

	mount    *surfaceMount
	quit     chan struct{}
	quitOnce sync.Once
}

func (b *hostBase) init(name string, opts HostOptions) {
	b.logger = opts.Logger
	if b.logger == nil {
		b.logger = noopLogger{}
	}
	b.name = name
	b.mountName = opts.Mount
	b.reduced = opts.ReducedMotion
	b.dpr = opts.DPR
	b.vw, b.vh = opts.Width, opts.Height
	b.quit = make(chan struct{})
	b.visible.Store(true)
}

func (b *hostBase) Name() string { return b.name }

func (b *hostBase) DevicePixelRatio() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dpr
}

func (b *hostBase) ViewportSize() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.vw, b.vh
}

func (b *hostBase) PrefersReducedMotion() bool { return b.reduced }

func (b *hostBase) Visible() bool { return b.visible.Load() }

func (b *hostBase) OnVisibilityChange(fn func()) func() { return b.visibility.add(fn) }

func (b *hostBase) OnResize(fn func()) func() { return b.resize.add(fn) }

// Resolve answers only to the host's own mount selector.
func (b *hostBase) Resolve(selector string) (starfield.Mount, bool) {
	if b.mount == nil || selector != b.mountName {
		return nil, false
	}
	return b.mount, true
}

func (b *hostBase) SetVisible(visible bool) {
	if b.visible.Swap(visible) == visible {
		return
	}
	b.logger.Infof(b.name, "visibility changed: visible=%v", visible)
	b.visibility.fire()
}

func (b *hostBase) Quit() {
	b.quitOnce.Do(func() { close(b.quit) })
}

func (b *hostBase) Frame() image.Image {
	if b.mount == nil {
		return nil
	}
	return b.mount.Frame()
}

// setViewport records a new viewport (and mount) size and notifies resize
// listeners when it changed.
func (b *hostBase) setViewport(w, h int, dpr float64) {
	b.mu.Lock()
	changed := w != b.vw || h != b.vh || dpr != b.dpr
	b.vw, b.vh, b.dpr = w, h, dpr
	b.mu.Unlock()
	if b.mount != nil {
		b.mount.setClientSize(w, h)
	}
	if changed {
		b.logger.Infof(b.name, "viewport %dx%d dpr=%.2f", w, h, dpr)
		b.resize.fire()
	}
}
