//go:build !linux || !cgo

package render

import (
	"context"
	"errors"

	"github.com/rook-computer/starlight/internal/frame"
)

// FBHost is only available on Linux.
type FBHost struct {
	hostBase
}

func NewFBHost(opts HostOptions) *FBHost {
	h := &FBHost{}
	h.init("fb", opts)
	return h
}

func (h *FBHost) Start(ctx context.Context) error {
	return errors.New("framebuffer output requires linux")
}

func (h *FBHost) Scheduler() frame.Scheduler    { return nil }
func (h *FBHost) Run(ctx context.Context) error { return nil }
func (h *FBHost) Stop() error                   { return nil }
