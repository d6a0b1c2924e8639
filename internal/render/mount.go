package render

import (
	"image"
	"sync"

	"github.com/rook-computer/starlight/internal/starfield"
)

// surfaceMount is the mount every host hands to the starfield. It holds the
// canvas as its child and composes each presented frame for the host.
type surfaceMount struct {
	mu         sync.Mutex
	w, h       int
	style      starfield.Style
	children   []*starfield.Canvas
	compositor *Compositor
	frame      *image.RGBA
	size       image.Point

	// present receives each composed frame. The image is reused after the
	// call returns.
	present func(img *image.RGBA)
}

func newSurfaceMount(w, h int, content *Content, present func(img *image.RGBA)) *surfaceMount {
	return &surfaceMount{w: w, h: h, compositor: NewCompositor(content), present: present}
}

func (m *surfaceMount) ClientSize() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.w, m.h
}

func (m *surfaceMount) setClientSize(w, h int) {
	m.mu.Lock()
	m.w, m.h = w, h
	m.mu.Unlock()
}

func (m *surfaceMount) SetStyle(s starfield.Style) {
	m.mu.Lock()
	m.style = s
	m.mu.Unlock()
}

func (m *surfaceMount) Style() starfield.Style {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.style
}

func (m *surfaceMount) AppendChild(c *starfield.Canvas) {
	m.mu.Lock()
	m.children = append(m.children, c)
	m.mu.Unlock()
}

func (m *surfaceMount) Children() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.children)
}

// Clear drops every child and presents a frame with host content only.
func (m *surfaceMount) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.children = nil
	if m.size == (image.Point{}) {
		m.frame = nil
		return
	}
	m.publish(m.compositor.Compose(nil, m.size, m.style.ZIndex))
}

func (m *surfaceMount) Present(c *starfield.Canvas) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.children) == 0 {
		return
	}
	img := c.Image()
	m.size = img.Bounds().Size()
	m.publish(m.compositor.Compose(img, m.size, m.style.ZIndex))
}

// publish keeps a copy of img for Frame and hands img to the host. Caller
// holds mu.
func (m *surfaceMount) publish(img *image.RGBA) {
	if m.frame == nil || m.frame.Bounds() != img.Bounds() {
		m.frame = image.NewRGBA(img.Bounds())
	}
	copy(m.frame.Pix, img.Pix)
	if m.present != nil {
		m.present(img)
	}
}

// Frame returns a copy of the last composed frame, or nil.
func (m *surfaceMount) Frame() image.Image {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.frame == nil {
		return nil
	}
	out := image.NewRGBA(m.frame.Bounds())
	copy(out.Pix, m.frame.Pix)
	return out
}
