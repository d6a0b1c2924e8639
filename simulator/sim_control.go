package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rook-computer/starlight/internal/render"
)

// SimScenario is a display preset the simulated host can switch to.
type SimScenario struct {
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	DPR     float64 `json:"dpr"`
	Visible bool    `json:"visible"`
}

var simScenarios = map[string]SimScenario{
	"desktop": {Width: 1280, Height: 720, DPR: 1, Visible: true},
	"retina":  {Width: 1440, Height: 900, DPR: 2, Visible: true},
	"phone":   {Width: 390, Height: 844, DPR: 3, Visible: true},
	"hidden":  {Width: 1280, Height: 720, DPR: 1, Visible: false},
}

func scenarioNames() []string {
	names := make([]string, 0, len(simScenarios))
	for name := range simScenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SimClock controls simulated time. Speed scales wall time; a paused clock
// only moves through Step.
type SimClock struct {
	Speed  float64 `json:"speed"`
	Paused bool    `json:"paused"`
}

// SimControl drives a manual headless host: it owns the simulated clock and
// applies display scenarios.
type SimControl struct {
	host            *render.HeadlessHost
	startupScenario string

	stepMu sync.Mutex

	mu       sync.Mutex
	scenario string
	clock    SimClock
	now      time.Duration
}

func NewSimControl(host *render.HeadlessHost, startupScenario string) *SimControl {
	c := &SimControl{host: host, startupScenario: strings.TrimSpace(startupScenario), clock: SimClock{Speed: 1}}
	if c.startupScenario == "" {
		c.startupScenario = "desktop"
	}
	return c
}

func (c *SimControl) ApplyScenario(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		name = c.startupScenario
	}
	sc, ok := simScenarios[name]
	if !ok {
		return fmt.Errorf("unknown scenario %q (want %s)", name, strings.Join(scenarioNames(), "|"))
	}
	c.host.SetDPR(sc.DPR)
	if err := c.host.Resize(sc.Width, sc.Height); err != nil {
		return err
	}
	c.host.SetVisible(sc.Visible)

	c.mu.Lock()
	c.scenario = name
	c.mu.Unlock()
	return nil
}

func (c *SimControl) Scenario() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scenario
}

func (c *SimControl) Reset() error {
	c.SetClock(SimClock{Speed: 1})
	return c.ApplyScenario(c.startupScenario)
}

func (c *SimControl) Clock() SimClock {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clock
}

func (c *SimControl) SetClock(v SimClock) {
	c.mu.Lock()
	c.clock = v
	c.mu.Unlock()
}

// Step advances simulated time by d and runs one frame at the new time.
// Steps are serialized so frames see monotonic timestamps.
func (c *SimControl) Step(d time.Duration) time.Duration {
	c.stepMu.Lock()
	defer c.stepMu.Unlock()
	c.mu.Lock()
	c.now += d
	now := c.now
	c.mu.Unlock()
	c.host.Step(now)
	return now
}

// Run advances the clock every interval of wall time until ctx ends.
func (c *SimControl) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			clock := c.Clock()
			if clock.Paused || clock.Speed <= 0 {
				continue
			}
			c.Step(time.Duration(float64(interval) * clock.Speed))
		}
	}
}

func registerSimEndpoints(mux *http.ServeMux, control *SimControl) {
	mux.HandleFunc("/sim/reset", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if err := control.Reset(); err != nil {
			writeSimError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": true, "scenario": control.Scenario()})
	})

	mux.HandleFunc("/sim/scenario/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeSimJSON(w, http.StatusOK, map[string]any{"current": control.Scenario(), "scenarios": simScenarios})
		case http.MethodPost:
			name := strings.TrimPrefix(r.URL.Path, "/sim/scenario/")
			name = strings.Trim(name, "/")
			if err := control.ApplyScenario(name); err != nil {
				writeSimError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeSimJSON(w, http.StatusOK, map[string]any{"ok": true, "scenario": control.Scenario()})
		default:
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})

	mux.HandleFunc("/sim/clock", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeSimJSON(w, http.StatusOK, control.Clock())
		case http.MethodPost:
			var patch struct {
				Speed  *float64 `json:"speed"`
				Paused *bool    `json:"paused"`
			}
			if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
				writeSimError(w, http.StatusBadRequest, "invalid json")
				return
			}
			current := control.Clock()
			if patch.Speed != nil {
				if *patch.Speed < 0 {
					writeSimError(w, http.StatusBadRequest, "speed must not be negative")
					return
				}
				current.Speed = *patch.Speed
			}
			if patch.Paused != nil {
				current.Paused = *patch.Paused
			}
			control.SetClock(current)
			writeSimJSON(w, http.StatusOK, current)
		default:
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})

	mux.HandleFunc("/sim/step", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var req struct {
			Ms float64 `json:"ms"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Ms <= 0 {
			writeSimError(w, http.StatusBadRequest, "ms must be a positive number")
			return
		}
		now := control.Step(time.Duration(req.Ms * float64(time.Millisecond)))
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": true, "nowMs": now.Milliseconds()})
	})
}

func writeSimJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSimError(w http.ResponseWriter, status int, message string) {
	writeSimJSON(w, status, map[string]any{"error": message})
}
