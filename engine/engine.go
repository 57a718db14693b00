package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/loom/terminal"
	"github.com/lixenwraith/loom/tui"
)

// State is the engine lifecycle phase, observable for tests and status
type State int32

const (
	StateIdle State = iota
	StateProcessing
	StateRendering
	StateShuttingDown
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProcessing:
		return "processing"
	case StateRendering:
		return "rendering"
	case StateShuttingDown:
		return "shutting-down"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Options configures the engine. The zero value is usable: color mode is
// detected, no ticks, no mouse, logs discarded.
type Options struct {
	// Terminal overrides the default terminal, used by tests
	Terminal terminal.Terminal

	// TickEvery emits EventTick at this interval when > 0
	TickEvery time.Duration

	// MouseMode enables mouse reporting when non-zero
	MouseMode terminal.MouseMode

	// Logger receives recoverable warnings (decode errors, layout
	// overflow). Raw mode garbles stderr output, so the default discards;
	// pass a file-backed handler to capture them.
	Logger *slog.Logger

	// RootOpts configures the root node (axis, focusability)
	RootOpts tui.MountOpts
}

// Engine owns the terminal and component tree for one Run lifecycle
type Engine struct {
	term terminal.Terminal
	tree *tui.Tree
	opts Options
	log  *slog.Logger

	state   atomic.Int32
	eventCh chan terminal.Event

	fatalErr error
}

// New creates an engine with root mounted as the tree root. Mount the
// rest of the tree through Tree() before calling Run.
func New(root tui.Component, opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	term := opts.Terminal
	if term == nil {
		term = terminal.New()
	}

	return &Engine{
		term:    term,
		tree:    tui.NewTree(root, opts.RootOpts),
		opts:    opts,
		log:     log,
		eventCh: make(chan terminal.Event, 128),
	}
}

// Tree exposes the component tree for mounting and focus control
func (e *Engine) Tree() *tui.Tree {
	return e.tree
}

// Terminal exposes the underlying terminal
func (e *Engine) Terminal() terminal.Terminal {
	return e.term
}

// State returns the current lifecycle phase
func (e *Engine) State() State {
	return State(e.state.Load())
}

func (e *Engine) setState(s State) {
	e.state.Store(int32(s))
}

// Quit requests shutdown. The quit event enters the event channel behind
// whatever input is already queued, so pending events still dispatch.
func (e *Engine) Quit() {
	e.post(terminal.Event{Type: terminal.EventClosed})
}

// PostEvent injects a synthetic event into the loop
func (e *Engine) PostEvent(ev terminal.Event) {
	e.post(ev)
}

func (e *Engine) post(ev terminal.Event) {
	select {
	case e.eventCh <- ev:
	default:
		// Loop is saturated; deliver from a goroutine rather than drop a
		// lifecycle event
		go func() { e.eventCh <- ev }()
	}
}

// Run executes the event loop until shutdown and returns the exit code.
// The terminal is restored before any error is reported.
func (e *Engine) Run() (code int) {
	if err := e.term.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "terminal init: %v\n", err)
		return 1
	}

	defer func() {
		if p := recover(); p != nil {
			terminal.EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", p, debug.Stack())
			code = 2
		} else {
			e.term.Fini()
		}
		e.setState(StateTerminated)
		if e.fatalErr != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", e.fatalErr)
		}
	}()

	if e.opts.MouseMode != terminal.MouseModeNone {
		if err := e.term.SetMouseMode(e.opts.MouseMode); err != nil {
			e.log.Warn("mouse mode", "err", err)
		}
	}

	w, h := e.term.Size()
	e.tree.SetSize(w, h)
	buf := terminal.NewBuffer(w, h)

	// First frame: the fresh tree is dirty, paint before blocking on input
	if e.tree.ConsumeDirty() {
		if err := e.render(buf); err != nil {
			e.fatalErr = err
			e.setState(StateShuttingDown)
			return 2
		}
	}

	stopPump := make(chan struct{})
	defer close(stopPump)
	go e.pump(stopPump)

	if e.opts.TickEvery > 0 {
		go e.tick(stopPump)
	}

	for {
		e.setState(StateIdle)
		ev := <-e.eventCh

		e.setState(StateProcessing)
		switch ev.Type {
		case terminal.EventClosed:
			e.setState(StateShuttingDown)
			return 0

		case terminal.EventResize:
			buf.Resize(ev.Width, ev.Height)
			e.tree.Dispatch(ev)

		case terminal.EventError:
			var de *terminal.DecodeError
			if errors.As(ev.Err, &de) {
				e.log.Warn("input decode", "err", ev.Err)
				continue
			}
			// Read failure: input is gone, shut down
			e.fatalErr = ev.Err
			e.setState(StateShuttingDown)
			return 2

		default:
			consumed := e.tree.Dispatch(ev)
			if !consumed && ev.Type == terminal.EventKey && ev.Key == terminal.KeyCtrlC {
				e.setState(StateShuttingDown)
				return 0
			}
		}

		if !e.tree.ConsumeDirty() {
			continue
		}

		if err := e.render(buf); err != nil {
			e.fatalErr = err
			e.setState(StateShuttingDown)
			return 2
		}
	}
}

// render composes the tree into buf and flushes. A failed flush gets one
// retry after a forced repaint; the second failure is returned.
func (e *Engine) render(buf *terminal.Buffer) error {
	e.setState(StateRendering)
	e.tree.Compose(buf)
	for _, lerr := range e.tree.LayoutErrors() {
		e.log.Warn("layout", "err", lerr)
	}

	if err := e.term.Flush(buf); err != nil {
		e.term.Sync()
		if err2 := e.term.Flush(buf); err2 != nil {
			return err2
		}
	}
	return nil
}

// pump moves terminal events into the engine channel so quit requests
// and input share one FIFO
func (e *Engine) pump(stop <-chan struct{}) {
	for {
		ev := e.term.PollEvent()
		select {
		case e.eventCh <- ev:
		case <-stop:
			return
		}
		if ev.Type == terminal.EventClosed {
			return
		}
	}
}

// tick posts EventTick at the configured interval; ticks are droppable
func (e *Engine) tick(stop <-chan struct{}) {
	t := time.NewTicker(e.opts.TickEvery)
	defer t.Stop()
	for {
		select {
		case now := <-t.C:
			select {
			case e.eventCh <- terminal.Event{Type: terminal.EventTick, When: now}:
			default:
			}
		case <-stop:
			return
		}
	}
}

// Run is a convenience wrapper: build an engine around root and run it
func Run(root tui.Component, opts Options) int {
	return New(root, opts).Run()
}
