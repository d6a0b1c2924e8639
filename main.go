package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/rook-computer/starlight/internal/app"
	"github.com/rook-computer/starlight/internal/render"
	"github.com/rook-computer/starlight/internal/starfield"
	"github.com/rook-computer/starlight/internal/state"
	"github.com/rook-computer/starlight/internal/web"
)

const (
	EnvStdioLog      = "STARLIGHT_STDIO_LOG"
	EnvOutput        = "STARLIGHT_OUTPUT"
	EnvReducedMotion = "STARLIGHT_REDUCED_MOTION"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "starlight:", err)
		os.Exit(1)
	}
}

func run() error {
	// Flags
	output := flag.String("output", envOr(EnvOutput, "window"), "where to render: fb|window|terminal|headless")
	mount := flag.String("mount", "", "mount selector; for fb the framebuffer device (default /dev/fb0)")
	configPath := flag.String("config", "", "JSON options file (dprMax, density, drift, tone, layer, fps, twinkleScale, countScale)")
	width := flag.Int("width", 0, "initial width in logical pixels (window, headless)")
	height := flag.Int("height", 0, "initial height in logical pixels (window, headless)")
	dpr := flag.Float64("dpr", 0, "device pixel ratio override; 0 asks the display")
	reduced := flag.Bool("reduced-motion", envBool(EnvReducedMotion), "prefer reduced motion (30 fps cap, half drift)")
	overlay := flag.Bool("overlay", false, "window: transparent always-on-top overlay that ignores the mouse")
	contentPath := flag.String("content", "", "PNG or JPEG shown with the stars")
	caption := flag.String("caption", "", "caption text shown with the stars")
	fontPath := flag.String("font", "", "OpenType or TrueType font for the caption")
	fontSize := flag.Float64("font-size", 24, "caption font size in points")
	listen := flag.String("listen", "", "preview API address; also configurable via "+web.EnvListenAddr)
	debug := flag.Bool("debug", false, "enable debug logging to ./starlight-debug.log")
	stdioLog := flag.String("stdio-log", "", "redirect stdout+stderr (including panics) to this file; also configurable via "+EnvStdioLog)
	opts := registerOptionFlags(flag.CommandLine)
	flag.Parse()

	// Best-effort: redirect all stdout/stderr output (including panic stack traces)
	// to a file so crashes are diagnosable even when the console is left in graphics mode.
	logPath := *stdioLog
	if logPath == "" {
		logPath = os.Getenv(EnvStdioLog)
	}
	if logPath != "" {
		if err := redirectStdIO(logPath); err != nil {
			fmt.Println("stdio log redirect error:", err)
		}
	}

	// Local file logger when debug enabled
	var logger app.Logger = app.NoopLogger{}
	if *debug {
		f, err := os.OpenFile("./starlight-debug.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			defer f.Close()
			logger = app.NewFileLogger(f)
			logger.Infof("main", "debug logging enabled")
		} else {
			fmt.Println("debug log open error:", err)
		}
	}

	cfg, err := loadConfig(*configPath, opts)
	if err != nil {
		return err
	}

	content, err := render.LoadContent(*contentPath, *caption, *fontPath, *fontSize)
	if err != nil {
		return err
	}

	hostOpts := render.HostOptions{
		Mount:         *mount,
		Width:         *width,
		Height:        *height,
		DPR:           *dpr,
		ReducedMotion: *reduced,
		Content:       content,
		Logger:        logger,
	}
	host, err := newHost(*output, hostOpts, *overlay)
	if err != nil {
		return err
	}

	selector := *mount
	if selector == "" {
		selector = defaultMount(*output)
	}

	// Context for lifecycle
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := state.NewStore()
	a := app.New(store, host, nil, cfg)
	a.Logger = logger
	a.Mount = selector

	serverCfg, err := web.DefaultServerConfigFromEnv("")
	if err != nil {
		return err
	}
	if *listen != "" {
		serverCfg.ListenAddr = *listen
	}
	if serverCfg.Enabled() {
		server := web.NewHTTPServer(serverCfg, a.APIDeps())
		server.Logger = logger
		a.Web = server
	}

	logger.Infof("main", "starting output=%s mount=%s", host.Name(), selector)
	if err := a.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newHost(output string, opts render.HostOptions, overlay bool) (render.Host, error) {
	switch output {
	case "fb":
		return render.NewFBHost(opts), nil
	case "window":
		return render.NewWindowHost(opts, render.WindowOptions{Overlay: overlay}), nil
	case "terminal":
		return render.NewTerminalHost(opts), nil
	case "headless":
		return render.NewHeadlessHost(opts, render.HeadlessOptions{}), nil
	default:
		return nil, fmt.Errorf("unknown output %q (want fb|window|terminal|headless)", output)
	}
}

// defaultMount matches the selector each host answers to when -mount is empty.
func defaultMount(output string) string {
	if output == "fb" {
		return "/dev/fb0"
	}
	return output
}

// loadConfig layers flag values over the JSON options file over defaults.
func loadConfig(path string, flags *starfield.Options) (starfield.Config, error) {
	var opts starfield.Options
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return starfield.Config{}, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()
		opts, err = starfield.DecodeOptions(f)
		if err != nil {
			return starfield.Config{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	mergeOptions(&opts, flags)
	return opts.Config()
}

func mergeOptions(dst, src *starfield.Options) {
	if src.DPRMax != nil {
		dst.DPRMax = src.DPRMax
	}
	if src.Density != nil {
		dst.Density = src.Density
	}
	if src.Drift != nil {
		dst.Drift = src.Drift
	}
	if src.Tone != nil {
		dst.Tone = src.Tone
	}
	if src.Layer != nil {
		dst.Layer = src.Layer
	}
	if src.FPS != nil {
		dst.FPS = src.FPS
	}
	if src.TwinkleScale != nil {
		dst.TwinkleScale = src.TwinkleScale
	}
	if src.CountScale != nil {
		dst.CountScale = src.CountScale
	}
}

// registerOptionFlags adds one flag per effect option. Options left unset on
// the command line stay nil so the file or default applies.
func registerOptionFlags(fs *flag.FlagSet) *starfield.Options {
	opts := &starfield.Options{}
	floatFlag(fs, "dpr-max", "maximum device pixel ratio (default 2)", &opts.DPRMax)
	floatFlag(fs, "density", "star density factor (default 0.9)", &opts.Density)
	floatFlag(fs, "drift", "drift speed factor (default 1)", &opts.Drift)
	floatFlag(fs, "fps", "frame rate cap (default 60)", &opts.FPS)
	floatFlag(fs, "twinkle-scale", "twinkle speed factor (default 0.2)", &opts.TwinkleScale)
	floatFlag(fs, "count-scale", "star count factor (default 0.333)", &opts.CountScale)
	stringFlag(fs, "tone", "glow palette: champagne|white (default champagne)", &opts.Tone)
	stringFlag(fs, "layer", "stacking: above|below (default above)", &opts.Layer)
	return opts
}

func floatFlag(fs *flag.FlagSet, name, usage string, dst **float64) {
	fs.Func(name, usage, func(s string) error {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*dst = &v
		return nil
	})
}

func stringFlag(fs *flag.FlagSet, name, usage string, dst **string) {
	fs.Func(name, usage, func(s string) error {
		*dst = &s
		return nil
	})
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
