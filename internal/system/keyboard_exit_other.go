//go:build !linux

package system

import "context"

// StartExitOnKeys is a no-op without evdev.
func StartExitOnKeys(ctx context.Context, logger keyboardExitLogger, keys []uint16, onExit func()) {
	StartExitOnF4(ctx, logger, onExit)
}

type keyboardExitLogger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// StartExitOnF4 is a no-op without evdev.
func StartExitOnF4(ctx context.Context, logger keyboardExitLogger, onExit func()) {
	if logger != nil {
		logger.Infof("input", "F4 exit not supported on this platform")
	}
}
