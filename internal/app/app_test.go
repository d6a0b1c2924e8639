package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rook-computer/starlight/internal/render"
	"github.com/rook-computer/starlight/internal/starfield"
	"github.com/rook-computer/starlight/internal/state"
)

func newHeadlessApp(mount string) (*App, *render.HeadlessHost) {
	host := render.NewHeadlessHost(render.HostOptions{Width: 320, Height: 200}, render.HeadlessOptions{Manual: true})
	a := New(state.NewStore(), host, nil, starfield.DefaultConfig())
	a.Mount = mount
	a.Heartbeat = 5 * time.Millisecond
	return a, host
}

// runApp starts a in the background and waits until the effect is up.
func runApp(t *testing.T, a *App) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- a.Start(context.Background()) }()
	deadline := time.Now().Add(2 * time.Second)
	for a.Store.Snapshot().Phase == state.BOOTING {
		if time.Now().After(deadline) {
			t.Fatal("app did not start")
		}
		time.Sleep(time.Millisecond)
	}
	return done
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("app did not stop")
		return nil
	}
}

func TestAppLifecycle(t *testing.T) {
	a, host := newHeadlessApp("headless")
	done := runApp(t, a)

	if a.Controller() == nil {
		t.Fatal("no controller")
	}
	host.Step(20 * time.Millisecond)
	a.syncState()
	snap := a.Store.Snapshot()
	if snap.Phase != state.RUNNING {
		t.Errorf("phase = %v, want running", snap.Phase)
	}
	if snap.Effect.Frames != 1 || snap.Effect.Width != 320 || snap.Effect.Stars == 0 {
		t.Errorf("effect = %+v", snap.Effect)
	}
	if snap.Host.Output != "headless" || snap.Config.Tone != "champagne" {
		t.Errorf("host/config = %+v / %+v", snap.Host, snap.Config)
	}

	host.SetVisible(false)
	a.syncState()
	if got := a.Store.Snapshot().Phase; got != state.PAUSED {
		t.Errorf("phase after hide = %v, want paused", got)
	}

	exitErr := errors.New("done")
	a.Exit(exitErr)
	a.Exit(errors.New("ignored"))
	if err := waitDone(t, done); err != exitErr {
		t.Errorf("Start returned %v, want %v", err, exitErr)
	}
	if got := a.Store.Snapshot().Phase; got != state.DISPOSED {
		t.Errorf("final phase = %v, want disposed", got)
	}
	if a.Controller().Running() {
		t.Error("controller still running")
	}
}

func TestAppDisposeOnce(t *testing.T) {
	a, _ := newHeadlessApp("headless")
	var buf bytes.Buffer
	a.Logger = NewFileLogger(&buf)
	done := runApp(t, a)

	for i := 0; i < 3; i++ {
		if err := a.Dispose(context.Background()); err != nil {
			t.Fatalf("Dispose: %v", err)
		}
	}
	a.Exit(nil)
	if err := waitDone(t, done); err != nil {
		t.Errorf("Start returned %v", err)
	}
	if n := strings.Count(buf.String(), "effect disposed"); n != 1 {
		t.Errorf("disposed logged %d times, want 1", n)
	}
}

func TestAppNoMount(t *testing.T) {
	a, _ := newHeadlessApp("#missing")
	done := runApp(t, a)

	if a.Controller() != nil {
		t.Error("controller started without a mount")
	}
	if got := a.Store.Snapshot().Phase; got != state.NOMOUNT {
		t.Errorf("phase = %v, want no-mount", got)
	}
	a.Exit(nil)
	if err := waitDone(t, done); err != nil {
		t.Errorf("Start returned %v", err)
	}
	if got := a.Store.Snapshot().Phase; got != state.NOMOUNT {
		t.Errorf("phase after exit = %v, want no-mount", got)
	}
}

func TestAPIDepsResizer(t *testing.T) {
	a, _ := newHeadlessApp("headless")
	deps := a.APIDeps()
	if deps.Resizer == nil {
		t.Error("headless host not wired as resizer")
	}
	if deps.Status == nil || deps.Frames == nil || deps.Visibility == nil || deps.DisposeFunc == nil {
		t.Errorf("incomplete deps: %+v", deps)
	}
}

func TestFileLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewFileLogger(&buf)
	l.Infof("web", "listening on %s", ":8080")
	l.Errorf("fb", "open failed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	if !strings.HasSuffix(lines[0], " [INFO] web: listening on :8080") {
		t.Errorf("info line = %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], " [ERROR] fb: open failed") {
		t.Errorf("error line = %q", lines[1])
	}
	if _, err := time.Parse(time.RFC3339, strings.Fields(lines[0])[0]); err != nil {
		t.Errorf("timestamp: %v", err)
	}
}
