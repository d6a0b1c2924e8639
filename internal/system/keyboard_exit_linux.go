//go:build linux

package system

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

const (
	evKey = 0x01

	// Linux input-event-codes.h
	KeyEsc = 1
	KeyQ   = 16
	KeyF4  = 62
)

// DefaultExitKeys end the framebuffer output.
var DefaultExitKeys = []uint16{KeyF4, KeyEsc}

type keyboardExitLogger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// inputEventSize is sizeof(struct input_event): timeval + u16 type +
// u16 code + s32 value.
func inputEventSize() (tvSize, eventSize int) {
	tvSize = binary.Size(unix.Timeval{})
	return tvSize, tvSize + 2 + 2 + 4
}

// keyPresses returns the codes of key-down events in buf, which holds whole
// input_event records.
func keyPresses(buf []byte, tvSize, eventSize int) []uint16 {
	var codes []uint16
	for off := 0; off+eventSize <= len(buf); off += eventSize {
		rec := buf[off : off+eventSize]
		typ := binary.LittleEndian.Uint16(rec[tvSize : tvSize+2])
		code := binary.LittleEndian.Uint16(rec[tvSize+2 : tvSize+4])
		value := int32(binary.LittleEndian.Uint32(rec[tvSize+4 : tvSize+8]))
		if typ == evKey && value == 1 {
			codes = append(codes, code)
		}
	}
	return codes
}

// StartExitOnF4 watches evdev devices and calls onExit once when one of
// DefaultExitKeys is pressed.
func StartExitOnF4(ctx context.Context, logger keyboardExitLogger, onExit func()) {
	StartExitOnKeys(ctx, logger, DefaultExitKeys, onExit)
}

// StartExitOnKeys watches Linux evdev devices under /dev/input/event* and
// invokes onExit once when any of keys is pressed.
//
// It is best-effort: if no input devices are available, it logs and returns.
func StartExitOnKeys(ctx context.Context, logger keyboardExitLogger, keys []uint16, onExit func()) {
	if onExit == nil || len(keys) == 0 {
		return
	}
	tvSize, eventSize := inputEventSize()

	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil || len(paths) == 0 {
		if logger != nil {
			logger.Infof("input", "no evdev devices found for keyboard exit")
		}
		return
	}

	wanted := make(map[uint16]bool, len(keys))
	for _, k := range keys {
		wanted[k] = true
	}

	var once sync.Once
	triggerExit := func(code uint16) {
		once.Do(func() {
			if logger != nil {
				logger.Infof("input", "key %d pressed: exiting", code)
			}
			onExit()
		})
	}

	for _, path := range paths {
		go watchDevice(ctx, path, tvSize, eventSize, func(code uint16) bool {
			if !wanted[code] {
				return false
			}
			triggerExit(code)
			return true
		})
	}
}

// watchDevice reads key events from path until ctx ends, the device goes
// away, or onKey reports true.
func watchDevice(ctx context.Context, path string, tvSize, eventSize int, onKey func(code uint16) bool) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return
	}
	f := os.NewFile(uintptr(fd), path)
	defer func() {
		_ = f.Close()
	}()

	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(pollFds, 250); err != nil {
			if err == unix.EINTR {
				continue
			}
			return
		}
		if pollFds[0].Revents&unix.POLLIN == 0 {
			continue
		}

		n, err := unix.Read(fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			return
		}
		for _, code := range keyPresses(buf[:n], tvSize, eventSize) {
			if onKey(code) {
				return
			}
		}
	}
}
