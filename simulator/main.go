package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rook-computer/starlight/internal/app"
	"github.com/rook-computer/starlight/internal/render"
	"github.com/rook-computer/starlight/internal/starfield"
	"github.com/rook-computer/starlight/internal/state"
	"github.com/rook-computer/starlight/internal/web"
)

func main() {
	defaults, err := web.DefaultServerConfigFromEnv(":8080")
	if err != nil {
		fmt.Println("server config error:", err)
		os.Exit(2)
	}

	listenAddr := flag.String("listen", defaults.ListenAddr, "http listen address; also configurable via "+web.EnvListenAddr)
	devMode := flag.Bool("dev", defaults.DevMode, "enable dev mode; also configurable via "+web.EnvDevMode)
	staticDir := flag.String("static-dir", "", "serve static UI from this directory (optional); when empty, the embedded preview page is served")
	scenario := flag.String("scenario", "desktop", "startup display scenario: desktop | retina | phone | hidden")
	reduced := flag.Bool("reduced-motion", false, "simulate a reduced-motion preference")
	frames := flag.Int("frames", 0, "render this many frames, write -out and exit instead of serving")
	out := flag.String("out", "starlight.png", "snapshot file written in -frames mode")
	seed := flag.Uint64("seed", 0, "random seed for a reproducible star field; 0 picks one")
	debug := flag.Bool("debug", false, "log to stdout")
	flag.Parse()

	var logger app.Logger = app.NoopLogger{}
	if *debug {
		logger = app.NewFileLogger(os.Stdout)
	}

	var effectOpts []starfield.Option
	if *seed != 0 {
		effectOpts = append(effectOpts, starfield.WithRandom(rand.New(rand.NewPCG(*seed, *seed))))
	}

	sc, ok := simScenarios[*scenario]
	if !ok {
		fmt.Printf("unknown scenario %q\n", *scenario)
		os.Exit(2)
	}
	host := render.NewHeadlessHost(render.HostOptions{
		Width:         sc.Width,
		Height:        sc.Height,
		DPR:           sc.DPR,
		ReducedMotion: *reduced,
		Logger:        logger,
	}, render.HeadlessOptions{Manual: true})
	control := NewSimControl(host, *scenario)

	if *frames > 0 {
		if err := snapshot(host, control, *frames, *out, effectOpts); err != nil {
			fmt.Println("snapshot error:", err)
			os.Exit(1)
		}
		fmt.Println("wrote", *out)
		return
	}

	processCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(state.NewStore(), host, nil, starfield.DefaultConfig())
	a.Logger = logger
	a.Mount = "headless"
	a.EffectOptions = effectOpts

	mux := web.NewDefaultMux(*staticDir, a.APIDeps())
	registerSimEndpoints(mux, control)
	server := web.NewHTTPServer(web.ServerConfig{ListenAddr: *listenAddr, DevMode: *devMode}, a.APIDeps())
	server.Handler = mux
	server.Logger = logger
	a.Web = server

	go control.Run(processCtx, time.Second/60)
	go func() {
		// The host size is set; apply visibility once the effect is listening.
		for a.Store.Snapshot().Phase == state.BOOTING {
			time.Sleep(10 * time.Millisecond)
		}
		if err := control.ApplyScenario(*scenario); err != nil {
			fmt.Println("scenario init error:", err)
		}
	}()

	fmt.Println("Starlight simulator listening on", *listenAddr)
	fmt.Println("Scenario:", *scenario)
	fmt.Println("Preview: http://" + trimLeadingColon(*listenAddr) + "/")

	if err := a.Start(processCtx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Println("simulator error:", err)
		os.Exit(1)
	}
}

// snapshot renders frames at the configured frame interval and writes the
// last composed frame as PNG.
func snapshot(host *render.HeadlessHost, control *SimControl, frames int, path string, opts []starfield.Option) error {
	cfg := starfield.DefaultConfig()
	c, dispose := starfield.InitSelector(host, host.Scheduler(), "headless", cfg, opts...)
	if c == nil {
		return errors.New("headless mount did not resolve")
	}
	defer dispose()
	if err := control.ApplyScenario(""); err != nil {
		return err
	}

	step := time.Duration(c.Config().FrameInterval()*float64(time.Millisecond)) + time.Millisecond
	for i := 0; i < frames; i++ {
		control.Step(step)
	}
	img := host.Frame()
	if img == nil {
		return fmt.Errorf("no frame after %d steps (scenario %q)", frames, control.Scenario())
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func trimLeadingColon(addr string) string {
	// Best-effort for display; don't attempt full URL parsing here.
	if len(addr) > 0 && addr[0] == ':' {
		return "127.0.0.1" + addr
	}
	if addr == "" {
		return "127.0.0.1:8080"
	}
	return addr
}
