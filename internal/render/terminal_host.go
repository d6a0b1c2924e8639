package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rook-computer/starlight/internal/frame"
)

// upperHalfBlock paints the top half of a cell with the foreground color and
// the bottom half with the background color.
const upperHalfBlock = '▀'

// TerminalHost renders into a terminal. Each cell is CellWidth×CellHeight
// logical pixels and shows two vertical device pixels.
type TerminalHost struct {
	hostBase

	content *Content
	screen  tcell.Screen
	owned   bool
	sched   *frame.TickerScheduler
	cancel  context.CancelFunc
	events  chan tcell.Event
	wg      sync.WaitGroup
}

func NewTerminalHost(opts HostOptions) *TerminalHost {
	return NewTerminalHostWithScreen(nil, opts)
}

// NewTerminalHostWithScreen uses screen instead of the process terminal. A
// nil screen opens the terminal on Start.
func NewTerminalHostWithScreen(screen tcell.Screen, opts HostOptions) *TerminalHost {
	if opts.Mount == "" {
		opts.Mount = "terminal"
	}
	h := &TerminalHost{content: opts.Content, screen: screen, owned: screen == nil}
	h.init("terminal", opts)
	return h
}

// terminalDPR maps the logical cell to one device pixel wide and two high.
func terminalDPR() float64 { return 1 / float64(CellWidth) }

func (h *TerminalHost) Start(ctx context.Context) error {
	if h.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
		h.screen = screen
	}
	if err := h.screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	h.screen.HideCursor()
	h.screen.EnableFocus()
	h.screen.Clear()

	ctx, h.cancel = context.WithCancel(ctx)
	h.sched = frame.NewTickerScheduler(ctx, frame.DefaultInterval)

	cols, rows := h.screen.Size()
	h.mount = newSurfaceMount(cols*CellWidth, rows*CellHeight, h.content, h.draw)
	h.syncSize()

	h.events = make(chan tcell.Event, 100)
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				close(h.events)
				return
			}
			h.events <- ev
		}
	}()
	return nil
}

func (h *TerminalHost) Scheduler() frame.Scheduler { return h.sched }

// syncSize reads the terminal size into the viewport.
func (h *TerminalHost) syncSize() {
	cols, rows := h.screen.Size()
	h.setViewport(cols*CellWidth, rows*CellHeight, terminalDPR())
}

func (h *TerminalHost) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-h.quit:
			return nil
		case ev, ok := <-h.events:
			if !ok {
				return nil
			}
			if !h.handleEvent(ev) {
				return nil
			}
		}
	}
}

// handleEvent reports false when the user asked to quit.
func (h *TerminalHost) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			h.logger.Infof("terminal", "quit requested")
			return false
		}
	case *tcell.EventResize:
		h.screen.Sync()
		h.syncSize()
	case *tcell.EventFocus:
		h.SetVisible(ev.Focused)
	}
	return true
}

func (h *TerminalHost) Stop() error {
	if h.cancel != nil {
		h.cancel()
	}
	if h.sched != nil {
		h.sched.Wait()
	}
	if h.screen != nil && h.owned {
		h.screen.Fini()
	}
	return nil
}

// draw writes a composed frame using one half-block glyph per cell.
func (h *TerminalHost) draw(img *image.RGBA) {
	b := img.Bounds()
	rows := (b.Dy() + 1) / 2
	for row := 0; row < rows; row++ {
		for col := 0; col < b.Dx(); col++ {
			top, bottom := halfBlock(img, col, row)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			h.screen.SetContent(col, row, upperHalfBlock, nil, style)
		}
	}
	h.screen.Show()
}

// halfBlock returns the top and bottom pixel colors of a terminal cell. A
// missing bottom row repeats the top pixel.
func halfBlock(img *image.RGBA, col, row int) (top, bottom color.RGBA) {
	b := img.Bounds()
	x := b.Min.X + col
	y := b.Min.Y + row*2
	top = img.RGBAAt(x, y)
	if y+1 < b.Max.Y {
		bottom = img.RGBAAt(x, y+1)
	} else {
		bottom = top
	}
	return top, bottom
}
