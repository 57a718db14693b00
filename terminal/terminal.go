package terminal

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
)

// Terminal provides low-level terminal access. The front buffer held
// internally always reflects exactly what the terminal currently displays;
// Flush diffs against it and writes only changed cells.
type Terminal interface {
	// Init negotiates capabilities, enters raw mode, switches to the
	// alternate screen and enables bracketed paste. Returns
	// *UnsupportedTerminalError before raw mode if the terminal cannot
	// host the runtime, *InitError if raw-mode entry fails.
	Init() error

	// Fini restores terminal state. Safe to call multiple times.
	Fini()

	// Size returns current terminal dimensions
	Size() (width, height int)

	// ColorMode returns detected color capability
	ColorMode() ColorMode

	// Flush writes the composed buffer to the terminal, diffing against
	// the previously painted frame. A write failure is returned as
	// *RenderIOError.
	Flush(next *Buffer) error

	// Clear fills the screen with the background color and resets the
	// front buffer
	Clear(bg RGB)

	// SetCursorVisible shows/hides the hardware cursor
	SetCursorVisible(visible bool)

	// MoveCursor positions the hardware cursor (0-indexed)
	MoveCursor(x, y int)

	// Sync forces a full repaint on the next Flush
	Sync()

	// PollEvent blocks until the next input event
	PollEvent() Event

	// PostEvent injects a synthetic event; it is delivered in FIFO order
	// relative to other synthetic events
	PostEvent(Event)

	// SetMouseMode enables/disables mouse event reporting.
	// Modes can be combined: MouseModeClick | MouseModeDrag
	SetMouseMode(mode MouseMode) error
}

// termImpl implements Terminal over the Backend interface
type termImpl struct {
	backend Backend

	out         *writer
	front       *Buffer
	input       *inputReader
	resizeCh    chan Event
	syntheticCh chan Event

	colorMode     ColorMode
	cursorVisible atomic.Bool

	mu          sync.Mutex
	initialized bool
	finalized   bool
	mouseMode   MouseMode
}

// New creates a Terminal. Color capability is detected from the
// environment unless explicitly supplied.
func New(colorMode ...ColorMode) Terminal {
	b := newBackend()

	c := DetectColorMode()
	if len(colorMode) > 0 {
		c = colorMode[0]
	}

	return &termImpl{
		backend:     b,
		colorMode:   c,
		out:         newWriter(backendWriter{b}, c),
		front:       NewBuffer(0, 0),
		syntheticCh: make(chan Event, 16),
		resizeCh:    make(chan Event, 1),
	}
}

// backendWriter adapts Backend.Write to io.Writer for the buffered emitter
type backendWriter struct {
	b Backend
}

func (w backendWriter) Write(p []byte) (int, error) {
	if err := w.b.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Init enters raw mode and sets up the terminal
func (t *termImpl) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return nil
	}

	// Capability negotiation happens before raw mode so the error is
	// legible on a normal terminal
	if err := checkTermSupported(); err != nil {
		return err
	}

	if err := t.backend.Init(); err != nil {
		return &InitError{Err: err}
	}

	w, h := t.backend.Size()
	t.front = NewBuffer(w, h)

	t.input = newInputReader(t.backend)

	t.backend.SetResizeHandler(func(w, h int) {
		ev := Event{Type: EventResize, Width: w, Height: h}
		// Non-blocking send; stale pending size is replaced by the latest
		select {
		case t.resizeCh <- ev:
		default:
			select {
			case <-t.resizeCh:
			default:
			}
			select {
			case t.resizeCh <- ev:
			default:
			}
		}
	})

	t.writeRaw(csiAltScreenEnter)
	t.writeRaw(csiCursorHide)
	t.writeRaw(csiAutoWrapOff)
	t.writeRaw(csiPasteOn)
	t.cursorVisible.Store(false)

	t.out.clear(RGBBlack)
	t.front.Fill(Cell{Rune: ' '})

	t.input.start()

	t.initialized = true
	return nil
}

// Fini restores terminal state
func (t *termImpl) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	if t.mouseMode != MouseModeNone {
		t.writeRaw(csiMouseMotionOff)
		t.writeRaw(csiMouseDragOff)
		t.writeRaw(csiMouseClickOff)
		t.writeRaw(csiMouseSGROff)
	}

	if t.input != nil {
		t.input.stop()
	}

	t.writeRaw(csiPasteOff)
	t.writeRaw(csiCursorShow)
	t.writeRaw(csiAltScreenExit)
	// Re-enable auto-wrap after exiting alt screen so the main buffer
	// keeps wrap enabled
	t.writeRaw(csiAutoWrapOn)
	t.writeRaw(csiSGR0)

	t.backend.Fini()

	t.finalized = true
}

// Size returns current terminal dimensions
func (t *termImpl) Size() (int, int) {
	return t.backend.Size()
}

// ColorMode returns detected color capability
func (t *termImpl) ColorMode() ColorMode {
	return t.colorMode
}

// Flush diffs next against the painted frame and writes changed cells.
// Frames whose size disagrees with the live terminal are dropped to
// prevent corruption during a resize race.
func (t *termImpl) Flush(next *Buffer) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return nil
	}

	w, h := next.Size()
	currW, currH := t.backend.Size()
	if currW != w || currH != h {
		return nil
	}

	ops := Diff(t.front, next)
	if len(ops) == 0 {
		return nil
	}

	if err := t.out.emit(ops); err != nil {
		// Terminal contents are now unknown; force repaint on recovery
		t.out.invalidate()
		return &RenderIOError{Err: err}
	}

	t.front.CopyFrom(next)
	return nil
}

// Clear fills the screen with the background color
func (t *termImpl) Clear(bg RGB) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	t.out.clear(bg)
	t.front.Fill(Cell{Rune: ' ', Bg: bg})
}

// SetCursorVisible shows/hides the cursor
func (t *termImpl) SetCursorVisible(visible bool) {
	if t.cursorVisible.Swap(visible) == visible {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	if visible {
		t.writeRaw(csiCursorShow)
	} else {
		t.writeRaw(csiCursorHide)
	}
}

// MoveCursor positions the cursor (0-indexed, clamped to screen)
func (t *termImpl) MoveCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	w, h := t.backend.Size()
	x = min(max(x, 0), w-1)
	y = min(max(y, 0), h-1)

	t.out.invalidate()
	writeCursorPos(t.out.out, x, y)
	t.out.out.Flush()
}

// Sync forces a full repaint on the next Flush. The physical terminal is
// cleared first because diff rendering assumes it matches the front buffer.
func (t *termImpl) Sync() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	t.out.clear(RGBBlack)
	t.front.Fill(Cell{Rune: 0})
	t.out.invalidate()
}

// PollEvent blocks until the next input event
func (t *termImpl) PollEvent() Event {
	// Synthetic events first (quit must not starve behind input)
	select {
	case ev := <-t.syntheticCh:
		return ev
	default:
	}

	select {
	case ev := <-t.syntheticCh:
		return ev
	case ev := <-t.input.events():
		return ev
	case ev := <-t.resizeCh:
		return ev
	}
}

// PostEvent injects a synthetic event
func (t *termImpl) PostEvent(ev Event) {
	select {
	case t.syntheticCh <- ev:
	default:
		// Channel full, drop
	}
}

// SetMouseMode enables or disables mouse reporting
func (t *termImpl) SetMouseMode(mode MouseMode) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return nil
	}

	oldMode := t.mouseMode
	t.mouseMode = mode

	// Disable modes no longer wanted
	if oldMode&MouseModeMotion != 0 && mode&MouseModeMotion == 0 {
		t.writeRaw(csiMouseMotionOff)
	}
	if oldMode&MouseModeDrag != 0 && mode&MouseModeDrag == 0 {
		t.writeRaw(csiMouseDragOff)
	}
	if oldMode&MouseModeClick != 0 && mode&MouseModeClick == 0 {
		t.writeRaw(csiMouseClickOff)
	}
	if mode == MouseModeNone && oldMode != MouseModeNone {
		t.writeRaw(csiMouseSGROff)
	}

	// SGR encoding first, then tracking modes
	if mode != MouseModeNone && oldMode == MouseModeNone {
		t.writeRaw(csiMouseSGROn)
	}
	if mode&MouseModeClick != 0 && oldMode&MouseModeClick == 0 {
		t.writeRaw(csiMouseClickOn)
	}
	if mode&MouseModeDrag != 0 && oldMode&MouseModeDrag == 0 {
		t.writeRaw(csiMouseDragOn)
	}
	if mode&MouseModeMotion != 0 && oldMode&MouseModeMotion == 0 {
		t.writeRaw(csiMouseMotionOn)
	}

	return nil
}

// writeRaw writes raw bytes to output, bypassing the diff writer
func (t *termImpl) writeRaw(data []byte) {
	t.backend.Write(data)
}

// EmergencyReset attempts to restore the terminal to a sane state.
// Call from panic recovery when Fini cannot run normally.
func EmergencyReset(w io.Writer) {
	w.Write(csiMouseMotionOff)
	w.Write(csiMouseDragOff)
	w.Write(csiMouseClickOff)
	w.Write(csiMouseSGROff)
	w.Write(csiPasteOff)

	w.Write(csiCursorShow)
	w.Write(csiAltScreenExit)
	w.Write(csiSGR0)
	w.Write(csiAutoWrapOn)
	w.Write(csiRIS)

	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios
	resetTerminalMode()
}
