package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rook-computer/starlight/internal/render"
	"github.com/rook-computer/starlight/internal/starfield"
)

func newSim(t *testing.T) (*SimControl, *starfield.Controller) {
	t.Helper()
	host := render.NewHeadlessHost(render.HostOptions{Width: 320, Height: 200}, render.HeadlessOptions{Manual: true})
	c, dispose := starfield.InitSelector(host, host.Scheduler(), "headless", starfield.DefaultConfig())
	if c == nil {
		t.Fatal("controller not started")
	}
	t.Cleanup(dispose)
	return NewSimControl(host, "desktop"), c
}

func TestApplyScenario(t *testing.T) {
	control, c := newSim(t)
	tests := []struct {
		name       string
		w, h       float64
		dpr        float64
		wantPaused bool
	}{
		{"retina", 1440, 900, 2, false},
		{"phone", 390, 844, 2, false},
		{"hidden", 1280, 720, 1, true},
		{"desktop", 1280, 720, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := control.ApplyScenario(tt.name); err != nil {
				t.Fatalf("ApplyScenario: %v", err)
			}
			if w, h := c.Size(); w != tt.w || h != tt.h {
				t.Errorf("size = %vx%v, want %vx%v", w, h, tt.w, tt.h)
			}
			if c.DPR() != tt.dpr {
				t.Errorf("dpr = %v, want %v", c.DPR(), tt.dpr)
			}
			if c.Paused() != tt.wantPaused {
				t.Errorf("paused = %v, want %v", c.Paused(), tt.wantPaused)
			}
		})
	}
	if err := control.ApplyScenario("tablet"); err == nil {
		t.Error("unknown scenario accepted")
	}
}

func TestStepAdvancesClock(t *testing.T) {
	control, c := newSim(t)
	control.Step(20 * time.Millisecond)
	control.Step(5 * time.Millisecond)
	control.Step(20 * time.Millisecond)
	st := c.Stats()
	if st.Frames != 2 || st.SkippedThrottle != 1 {
		t.Errorf("frames=%d throttled=%d, want 2 and 1", st.Frames, st.SkippedThrottle)
	}
}

func TestConcurrentStepsWithDispose(t *testing.T) {
	host := render.NewHeadlessHost(render.HostOptions{Width: 320, Height: 200}, render.HeadlessOptions{Manual: true})
	c, dispose := starfield.InitSelector(host, host.Scheduler(), "headless", starfield.DefaultConfig())
	if c == nil {
		t.Fatal("controller not started")
	}
	control := NewSimControl(host, "desktop")

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				control.Step(20 * time.Millisecond)
			}
		}()
	}
	dispose()
	wg.Wait()

	st := c.Stats()
	if st.SkippedThrottle != 0 {
		t.Errorf("throttled %d frames; timestamps reached the controller out of order", st.SkippedThrottle)
	}
	if host.Step(time.Hour) != 0 {
		t.Error("disposed effect still scheduled")
	}
}

func TestSimEndpoints(t *testing.T) {
	control, c := newSim(t)
	mux := http.NewServeMux()
	registerSimEndpoints(mux, control)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
		return rec
	}

	if rec := do(http.MethodPost, "/sim/scenario/retina", ""); rec.Code != http.StatusOK {
		t.Fatalf("scenario code = %d", rec.Code)
	}
	if c.DPR() != 2 {
		t.Errorf("dpr = %v after retina", c.DPR())
	}
	if rec := do(http.MethodPost, "/sim/clock", `{"paused":true,"speed":2}`); rec.Code != http.StatusOK {
		t.Fatalf("clock code = %d", rec.Code)
	}
	if clock := control.Clock(); !clock.Paused || clock.Speed != 2 {
		t.Errorf("clock = %+v", clock)
	}
	if rec := do(http.MethodPost, "/sim/clock", `{"speed":-1}`); rec.Code != http.StatusBadRequest {
		t.Errorf("negative speed code = %d", rec.Code)
	}
	if rec := do(http.MethodPost, "/sim/step", `{"ms":20}`); rec.Code != http.StatusOK {
		t.Fatalf("step code = %d", rec.Code)
	}
	if c.Stats().Frames != 1 {
		t.Errorf("frames = %d after step", c.Stats().Frames)
	}
	if rec := do(http.MethodPost, "/sim/reset", ""); rec.Code != http.StatusOK {
		t.Fatalf("reset code = %d", rec.Code)
	}
	if control.Scenario() != "desktop" || control.Clock().Paused {
		t.Errorf("after reset scenario=%s clock=%+v", control.Scenario(), control.Clock())
	}
}
