package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rook-computer/starlight/internal/render"
	"github.com/rook-computer/starlight/internal/starfield"
	"github.com/rook-computer/starlight/internal/state"
	"github.com/rook-computer/starlight/internal/web"
)

// DefaultHeartbeat is how often runtime stats are copied into the store.
const DefaultHeartbeat = 500 * time.Millisecond

// heartbeatLogEvery limits heartbeat log lines to one per this many beats.
const heartbeatLogEvery = 10

type App struct {
	Store  *state.Store
	Host   render.Host
	Web    web.Server
	Logger Logger

	// Mount is the selector resolved through the host.
	Mount  string
	Config starfield.Config
	// EffectOptions are passed to the controller, after the logger.
	EffectOptions []starfield.Option
	Heartbeat     time.Duration

	mu         sync.Mutex
	controller *starfield.Controller
	dispose    starfield.Disposer
	disposed   atomic.Bool
	syncMu     sync.Mutex

	exitOnce atomic.Bool
	exitErr  error
}

func New(store *state.Store, host render.Host, webServer web.Server, cfg starfield.Config) *App {
	return &App{
		Store:     store,
		Host:      host,
		Web:       webServer,
		Logger:    NoopLogger{},
		Config:    cfg,
		Heartbeat: DefaultHeartbeat,
	}
}

// Exit requests the app to stop running. The first error wins.
func (app *App) Exit(err error) {
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	app.mu.Lock()
	app.exitErr = err
	app.mu.Unlock()
	app.Host.Quit()
}

// Start brings up the host, the effect and the web server, then blocks in
// the host's run loop until ctx is done or exit is requested. The effect is
// disposed exactly once on the way out.
//
// Hosts with a UI event loop require Start to be called from the main
// goroutine.
func (app *App) Start(ctx context.Context) error {
	if app.Logger == nil {
		app.Logger = NoopLogger{}
	}
	if app.Web == nil {
		app.Web = web.NoopServer{}
	}
	if app.Heartbeat <= 0 {
		app.Heartbeat = DefaultHeartbeat
	}

	if err := app.Host.Start(ctx); err != nil {
		app.Logger.Errorf("app", "host %s start error: %v", app.Host.Name(), err)
		app.Store.SetError(err)
		return err
	}
	defer func() {
		if err := app.Host.Stop(); err != nil {
			app.Logger.Errorf("app", "host stop error: %v", err)
		}
	}()

	app.Store.UpdateHost(state.HostInfo{
		Output:        app.Host.Name(),
		Mount:         app.Mount,
		ReducedMotion: app.Host.PrefersReducedMotion(),
	})
	app.startEffect()

	if err := app.Web.Start(ctx); err != nil {
		// The preview API is optional; the effect keeps running without it.
		app.Logger.Errorf("web", "start error: %v", err)
	}
	defer func() { _ = app.Web.Stop() }()

	loopCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.heartbeat(loopCtx)
	}()

	runErr := app.Host.Run(ctx)
	cancel()
	wg.Wait()
	_ = app.Dispose(context.Background())

	if runErr != nil {
		app.Store.SetError(runErr)
		return runErr
	}
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.exitErr
}

func (app *App) startEffect() {
	opts := append([]starfield.Option{starfield.WithLogger(app.Logger)}, app.EffectOptions...)
	c, dispose := starfield.InitSelector(app.Host, app.Host.Scheduler(), app.Mount, app.Config, opts...)
	app.Store.UpdateConfig(configInfo(app.Config.Effective(app.Host.PrefersReducedMotion())))
	if c == nil {
		app.Logger.Infof("app", "no mount matches %q on %s; effect not started", app.Mount, app.Host.Name())
		app.Store.SetPhase(state.NOMOUNT)
		return
	}
	app.mu.Lock()
	app.controller, app.dispose = c, dispose
	app.mu.Unlock()
	app.syncState()
}

// Controller is the running effect, or nil when no mount resolved.
func (app *App) Controller() *starfield.Controller {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.controller
}

// Dispose stops the effect. Later calls do nothing.
func (app *App) Dispose(ctx context.Context) error {
	app.mu.Lock()
	dispose := app.dispose
	app.mu.Unlock()
	if dispose == nil || !app.disposed.CompareAndSwap(false, true) {
		return nil
	}
	dispose()
	app.syncState()
	app.syncMu.Lock()
	app.Store.SetPhase(state.DISPOSED)
	app.syncMu.Unlock()
	app.Logger.Infof("app", "effect disposed")
	return nil
}

func (app *App) heartbeat(ctx context.Context) {
	ticker := time.NewTicker(app.Heartbeat)
	defer ticker.Stop()
	beats := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.syncState()
			beats++
			if beats%heartbeatLogEvery == 0 {
				snap := app.Store.Snapshot()
				app.Logger.Infof("app", "heartbeat phase=%s frames=%d stars=%d size=%.0fx%.0f",
					snap.Phase, snap.Effect.Frames, snap.Effect.Stars, snap.Effect.Width, snap.Effect.Height)
			}
		}
	}
}

// syncState copies the controller's stats and pause state into the store.
func (app *App) syncState() {
	c := app.Controller()
	if c == nil {
		return
	}
	app.syncMu.Lock()
	defer app.syncMu.Unlock()
	st := c.Stats()
	app.Store.UpdateEffect(state.EffectInfo{
		Width:           st.Width,
		Height:          st.Height,
		DPR:             st.DPR,
		Stars:           st.Stars,
		Frames:          st.Frames,
		SkippedPaused:   st.SkippedPaused,
		SkippedThrottle: st.SkippedThrottle,
		Draws:           st.Draws,
		Culled:          st.Culled,
	})
	if app.disposed.Load() {
		return
	}
	if c.Paused() {
		app.Store.SetPhase(state.PAUSED)
	} else {
		app.Store.SetPhase(state.RUNNING)
	}
}

// APIDeps wires the preview API to this app.
func (app *App) APIDeps() web.APIV1Deps {
	deps := web.APIV1Deps{
		Status:      app.Store,
		Frames:      app.Host,
		Visibility:  app.Host,
		DisposeFunc: app.Dispose,
	}
	if r, ok := app.Host.(render.Resizer); ok {
		deps.Resizer = r
	}
	return deps
}

func configInfo(cfg starfield.Config) state.ConfigInfo {
	return state.ConfigInfo{
		DPRMax:       cfg.DPRMax,
		Density:      cfg.Density,
		Drift:        cfg.Drift,
		Tone:         string(cfg.Tone),
		Layer:        string(cfg.Layer),
		FPS:          cfg.FPS,
		TwinkleScale: cfg.TwinkleScale,
		CountScale:   cfg.CountScale,
	}
}
