package web

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	EnvListenAddr = "STARLIGHT_LISTEN"
	EnvDevMode    = "STARLIGHT_DEV"
)

// ServerConfig configures the preview API. An empty ListenAddr disables it
// in the main binary; the simulator always serves.
type ServerConfig struct {
	ListenAddr string
	DevMode    bool
}

// Enabled reports whether a listen address is configured.
func (c ServerConfig) Enabled() bool { return c.ListenAddr != "" }

// DefaultServerConfigFromEnv reads STARLIGHT_LISTEN and STARLIGHT_DEV,
// falling back to defaultListenAddr. A malformed STARLIGHT_DEV is an error.
func DefaultServerConfigFromEnv(defaultListenAddr string) (ServerConfig, error) {
	cfg := ServerConfig{ListenAddr: defaultListenAddr}
	if v := strings.TrimSpace(os.Getenv(EnvListenAddr)); v != "" {
		cfg.ListenAddr = v
	}
	raw, ok := os.LookupEnv(EnvDevMode)
	if !ok || raw == "" {
		return cfg, nil
	}
	dev, err := strconv.ParseBool(raw)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("%s: want a boolean, got %q", EnvDevMode, raw)
	}
	cfg.DevMode = dev
	return cfg, nil
}
