package starfield

// Style is how the controller configures its mount: covering the whole
// viewport, never taking pointer input, clipped, stacked per Layer.
type Style struct {
	Position      string
	Inset         int
	ZIndex        int
	PointerEvents bool
	Overflow      string
}

func mountStyle(layer Layer) Style {
	return Style{
		Position:      "fixed",
		Inset:         0,
		ZIndex:        layer.ZIndex(),
		PointerEvents: false,
		Overflow:      "hidden",
	}
}

// Mount is the element the effect renders into.
type Mount interface {
	// ClientSize is the mount's box in logical pixels. Zero means unknown.
	ClientSize() (w, h int)
	SetStyle(s Style)
	AppendChild(c *Canvas)
	// Clear removes every child from the mount.
	Clear()
}

// Presenter is implemented by mounts that display the canvas themselves.
// Present is called after every rendered frame, with the frame's state held
// stable for the duration of the call. Present must not call back into the
// Controller.
type Presenter interface {
	Present(c *Canvas)
}

// Environment exposes the display and preference values of the host.
type Environment interface {
	DevicePixelRatio() float64
	ViewportSize() (w, h int)
	PrefersReducedMotion() bool
	Visible() bool
}

// Events delivers host notifications. Each registration returns a function
// that removes it.
type Events interface {
	OnVisibilityChange(fn func()) (remove func())
	OnResize(fn func()) (remove func())
}

// Resolver finds a mount by selector. ok is false when nothing matches.
type Resolver interface {
	Resolve(selector string) (m Mount, ok bool)
}

// Host bundles everything a controller needs from its surroundings.
type Host interface {
	Environment
	Events
	Resolver
}

// Logger matches the component-tagged logger used across the app.
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Infof(string, string, ...interface{})  {}
func (noopLogger) Errorf(string, string, ...interface{}) {}
