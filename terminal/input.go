package terminal

import (
	"bytes"
	"fmt"
	"os"
	"runtime/debug"
	"sync"
	"time"
)

// EventType distinguishes input event categories
type EventType uint8

const (
	EventKey EventType = iota
	EventResize
	EventPaste // Bracketed paste payload in Event.Paste
	EventMouse
	EventTick   // Synthetic, produced by the scheduler timer
	EventError  // Decode or read error in Event.Err
	EventClosed // Input closed / quit signal
)

// Event represents a terminal input event. Immutable once produced.
type Event struct {
	Type      EventType
	Key       Key
	Rune      rune
	Modifiers Modifier
	Width     int    // For EventResize
	Height    int    // For EventResize
	Paste     string // For EventPaste
	Err       error  // For EventError
	When      time.Time

	// Mouse event fields
	MouseX      int
	MouseY      int
	MouseBtn    MouseButton
	MouseAction MouseAction
}

// inputReader assembles raw stdin bytes into events. Partial escape and
// UTF-8 sequences are retained across reads.
type inputReader struct {
	backend Backend
	eventCh chan Event
	stopCh  chan struct{}
	doneCh  chan struct{}
	mu      sync.Mutex
	running bool

	// Stream assembly buffer; grows as needed so partial UTF-8 at a read
	// boundary is never corrupted
	buf []byte

	// Bracketed paste state: bytes between ESC[200~ and ESC[201~ are
	// collected verbatim instead of being decoded
	inPaste  bool
	pasteBuf []byte
}

// maxCSILen bounds escape sequence scanning; anything longer is malformed
const maxCSILen = 32

// newInputReader creates a new input reader
func newInputReader(backend Backend) *inputReader {
	return &inputReader{
		backend: backend,
		eventCh: make(chan Event, 256),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
		buf:     make([]byte, 0, 256),
	}
}

// start begins reading input in a goroutine
func (r *inputReader) start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	go r.readLoop()
}

// stop signals the reader to stop
func (r *inputReader) stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	close(r.stopCh)
	// Wait with timeout - don't block forever if read is stuck
	select {
	case <-r.doneCh:
	case <-time.After(100 * time.Millisecond):
	}
}

// events returns the event channel
func (r *inputReader) events() <-chan Event {
	return r.eventCh
}

// readLoop is the input reading goroutine
func (r *inputReader) readLoop() {
	defer close(r.doneCh)

	defer func() {
		if p := recover(); p != nil {
			EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\r\ninput reader crashed: %v\r\n", p)
			fmt.Fprintf(os.Stderr, "%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	for {
		data, err := r.backend.Read(r.stopCh)
		if err != nil {
			r.sendEvent(Event{Type: EventError, Err: err})
			return
		}

		if len(data) == 0 {
			// Poll timeout or stop: a lone buffered ESC is a real keypress
			if len(r.buf) == 1 && r.buf[0] == 0x1b && !r.inPaste {
				r.sendEvent(Event{Type: EventKey, Key: KeyEscape})
				r.buf = r.buf[:0]
			}
			select {
			case <-r.stopCh:
				r.sendEvent(Event{Type: EventClosed})
				return
			default:
				continue
			}
		}

		r.buf = append(r.buf, data...)

		consumed := r.parseInput(r.buf)
		if consumed > 0 {
			if consumed >= len(r.buf) {
				r.buf = r.buf[:0]
			} else {
				copy(r.buf, r.buf[consumed:])
				r.buf = r.buf[:len(r.buf)-consumed]
			}
		}
	}
}

// parseInput parses raw bytes into events and returns bytes consumed
// (stops on an incomplete trailing sequence)
func (r *inputReader) parseInput(data []byte) int {
	i := 0
	n := len(data)

	for i < n {
		if r.inPaste {
			adv, done := r.parsePasteChunk(data[i:])
			i += adv
			if !done {
				return i
			}
			continue
		}

		b := data[i]

		// Fast path: printable ASCII
		if b >= 0x20 && b < 0x7f {
			r.sendEvent(Event{Type: EventKey, Key: KeyRune, Rune: rune(b)})
			i++
			continue
		}

		// Escape sequence
		if b == 0x1b {
			if i+1 >= n {
				return i // Wait for more data
			}

			consumed, ev := r.parseEscape(data[i:])
			if consumed == 0 {
				return i // Incomplete sequence
			}

			// KeyNone with no error means a swallowed unknown sequence
			if ev.Key != KeyNone || ev.Type != EventKey {
				r.sendEvent(ev)
			}
			i += consumed
			continue
		}

		// Control characters
		if b < 0x20 {
			r.sendEvent(r.parseControl(b))
			i++
			continue
		}

		// DEL
		if b == 0x7f {
			r.sendEvent(Event{Type: EventKey, Key: KeyBackspace})
			i++
			continue
		}

		// UTF-8 multibyte
		seqLen := utf8SeqLen(b)
		if seqLen == 0 {
			r.sendEvent(Event{Type: EventError, Err: &DecodeError{
				Seq:    []byte{b},
				Reason: "invalid UTF-8 start byte",
			}})
			i++
			continue
		}
		if i+seqLen > n {
			return i // Incomplete UTF-8, wait for more data
		}

		rn, size, ok := decodeRune(data[i:])
		if !ok {
			r.sendEvent(Event{Type: EventError, Err: &DecodeError{
				Seq:    append([]byte(nil), data[i:i+size]...),
				Reason: "malformed UTF-8 sequence",
			}})
			i += size
			continue
		}
		r.sendEvent(Event{Type: EventKey, Key: KeyRune, Rune: rn})
		i += size
	}
	return i
}

// parsePasteChunk consumes bytes while in paste mode. Returns bytes
// advanced and whether the paste terminator was reached.
func (r *inputReader) parsePasteChunk(data []byte) (int, bool) {
	if idx := bytes.Index(data, pasteEnd); idx >= 0 {
		r.pasteBuf = append(r.pasteBuf, data[:idx]...)
		r.sendEvent(Event{Type: EventPaste, Paste: normalizePaste(r.pasteBuf)})
		r.pasteBuf = r.pasteBuf[:0]
		r.inPaste = false
		return idx + len(pasteEnd), true
	}

	// No terminator yet. Keep a possible partial terminator in the stream
	// buffer; consume everything before it into the paste buffer.
	keep := partialSuffixLen(data, pasteEnd)
	cut := len(data) - keep
	r.pasteBuf = append(r.pasteBuf, data[:cut]...)
	return cut, false
}

// partialSuffixLen returns the length of the longest strict prefix of sep
// that is a suffix of data
func partialSuffixLen(data, sep []byte) int {
	maxLen := min(len(sep)-1, len(data))
	for l := maxLen; l > 0; l-- {
		if bytes.HasSuffix(data, sep[:l]) {
			return l
		}
	}
	return 0
}

// normalizePaste converts CRLF and lone CR to LF in pasted text
func normalizePaste(p []byte) string {
	p = bytes.ReplaceAll(p, []byte("\r\n"), []byte("\n"))
	p = bytes.ReplaceAll(p, []byte("\r"), []byte("\n"))
	return string(p)
}

// utf8SeqLen returns expected UTF-8 sequence length from start byte, 0 if invalid
func utf8SeqLen(b byte) int {
	if b < 0x80 {
		return 1
	}
	if b&0xe0 == 0xc0 {
		return 2
	}
	if b&0xf0 == 0xe0 {
		return 3
	}
	if b&0xf8 == 0xf0 {
		return 4
	}
	return 0
}

// parseEscape attempts to parse an escape sequence, returns 0 on incomplete
func (r *inputReader) parseEscape(data []byte) (int, Event) {
	if len(data) < 2 {
		return 0, Event{}
	}

	// ESC ESC -> Alt+Escape
	if data[1] == 0x1b {
		return 2, Event{Type: EventKey, Key: KeyEscape, Modifiers: ModAlt}
	}

	if data[1] == '[' {
		// Paste start marker switches the decoder into paste mode
		if bytes.HasPrefix(data, pasteStart) {
			r.inPaste = true
			return len(pasteStart), Event{Type: EventKey, Key: KeyNone}
		}
		if len(data) < len(pasteStart) && bytes.HasPrefix(pasteStart, data) {
			return 0, Event{} // Could still become the paste marker
		}
		return r.parseCSI(data)
	}
	if data[1] == 'O' {
		return r.parseSS3(data)
	}

	// Alt+Control character (ESC + 0x00-0x1F)
	if data[1] < 0x20 {
		ev := r.parseControl(data[1])
		ev.Modifiers |= ModAlt
		return 2, ev
	}

	// Alt+printable
	if data[1] >= 0x20 && data[1] < 0x7f {
		return 2, Event{Type: EventKey, Key: KeyRune, Rune: rune(data[1]), Modifiers: ModAlt}
	}

	// ESC followed by a non-ASCII byte is not a sequence we understand
	return 2, Event{Type: EventError, Err: &DecodeError{
		Seq:    append([]byte(nil), data[:2]...),
		Reason: "unrecognized escape introducer",
	}}
}

// parseCSI parses a CSI sequence without allocation
func (r *inputReader) parseCSI(data []byte) (int, Event) {
	if len(data) < 3 {
		return 0, Event{}
	}

	// SGR mouse: ESC [ < Btn ; X ; Y M/m
	if data[2] == '<' {
		return r.parseSGRMouse(data)
	}

	end := 2
	maxScan := min(len(data), maxCSILen)

	for end < maxScan {
		b := data[end]
		if (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || b == '~' {
			end++
			// Terminator found
			if key, mod, ok := lookupCSI(data[2:end]); ok {
				return end, Event{Type: EventKey, Key: key, Modifiers: mod}
			}
			// Well-formed but unknown: consume silently
			return end, Event{Type: EventKey, Key: KeyNone}
		}
		if b < 0x20 || b > 0x7e {
			// Malformed parameter byte: drop through it and report
			return end + 1, Event{Type: EventError, Err: &DecodeError{
				Seq:    append([]byte(nil), data[:end+1]...),
				Reason: "invalid byte in CSI sequence",
			}}
		}
		end++
	}

	if end >= maxCSILen {
		// Unterminated runaway sequence: drop what we scanned
		return end, Event{Type: EventError, Err: &DecodeError{
			Seq:    append([]byte(nil), data[:end]...),
			Reason: "unterminated CSI sequence",
		}}
	}

	return 0, Event{} // Incomplete, wait for more data
}

// parseSS3 parses an SS3 sequence; unknown sequences are consumed
func (r *inputReader) parseSS3(data []byte) (int, Event) {
	if len(data) < 3 {
		return 0, Event{}
	}
	if key, mod, ok := lookupSS3(data[2:3]); ok {
		return 3, Event{Type: EventKey, Key: key, Modifiers: mod}
	}
	return 3, Event{Type: EventKey, Key: KeyNone}
}

// parseControl maps control characters to keys
func (r *inputReader) parseControl(b byte) Event {
	switch b {
	case 0x00:
		return Event{Type: EventKey, Key: KeyCtrlSpace}
	case 0x08: // Ctrl+H
		return Event{Type: EventKey, Key: KeyBackspace}
	case 0x09:
		return Event{Type: EventKey, Key: KeyTab}
	case 0x0a, 0x0d: // LF, CR
		return Event{Type: EventKey, Key: KeyEnter}
	case 0x1b:
		return Event{Type: EventKey, Key: KeyEscape}
	case 0x1c:
		return Event{Type: EventKey, Key: KeyCtrlBackslash}
	case 0x1d:
		return Event{Type: EventKey, Key: KeyCtrlBracketRight}
	case 0x1e:
		return Event{Type: EventKey, Key: KeyCtrlCaret}
	case 0x1f:
		return Event{Type: EventKey, Key: KeyCtrlUnderscore}
	}

	// Ctrl+A..Ctrl+Z form a contiguous run
	if b >= 0x01 && b <= 0x1a {
		return Event{Type: EventKey, Key: KeyCtrlA + Key(b-0x01)}
	}
	return Event{Type: EventKey, Key: KeyNone}
}

// parseSGRMouse parses SGR mouse sequences: ESC [ < Btn ; X ; Y M/m
func (r *inputReader) parseSGRMouse(data []byte) (int, Event) {
	// Minimum: ESC [ < 0 ; 1 ; 1 M = 9 bytes
	if len(data) < 9 {
		return 0, Event{}
	}

	end := 3
	for end < len(data) && end < maxCSILen {
		if data[end] == 'M' || data[end] == 'm' {
			break
		}
		end++
	}
	if end >= len(data) {
		return 0, Event{}
	}
	if data[end] != 'M' && data[end] != 'm' {
		return end, Event{Type: EventError, Err: &DecodeError{
			Seq:    append([]byte(nil), data[:end]...),
			Reason: "unterminated mouse sequence",
		}}
	}

	btn, x, y, ok := parseSGRParams(data[3:end])
	if !ok {
		return end + 1, Event{Type: EventError, Err: &DecodeError{
			Seq:    append([]byte(nil), data[:end+1]...),
			Reason: "malformed mouse parameters",
		}}
	}

	ev := Event{Type: EventMouse, MouseX: x - 1, MouseY: y - 1} // 0-indexed

	// Bits 0-1: button, bit 5: motion, bit 6: scroll
	buttonID := btn & 0x03
	isMotion := btn&32 != 0
	isScroll := btn&64 != 0

	if isScroll {
		if buttonID == 0 {
			ev.MouseBtn = MouseBtnWheelUp
		} else {
			ev.MouseBtn = MouseBtnWheelDown
		}
		ev.MouseAction = MouseActionPress
	} else {
		switch buttonID {
		case 0:
			ev.MouseBtn = MouseBtnLeft
		case 1:
			ev.MouseBtn = MouseBtnMiddle
		case 2:
			ev.MouseBtn = MouseBtnRight
		case 3:
			ev.MouseBtn = MouseBtnNone
		}

		if data[end] == 'M' {
			if isMotion {
				if ev.MouseBtn != MouseBtnNone {
					ev.MouseAction = MouseActionDrag
				} else {
					ev.MouseAction = MouseActionMove
				}
			} else {
				ev.MouseAction = MouseActionPress
			}
		} else {
			ev.MouseAction = MouseActionRelease
		}
	}

	if btn&4 != 0 {
		ev.Modifiers |= ModShift
	}
	if btn&8 != 0 {
		ev.Modifiers |= ModAlt
	}
	if btn&16 != 0 {
		ev.Modifiers |= ModCtrl
	}

	return end + 1, ev
}

// parseSGRParams extracts btn, x, y from "Btn;X;Y"
func parseSGRParams(data []byte) (btn, x, y int, ok bool) {
	state := 0 // 0=btn, 1=x, 2=y
	val := 0

	for _, b := range data {
		if b == ';' {
			switch state {
			case 0:
				btn = val
			case 1:
				x = val
			}
			state++
			val = 0
			if state > 2 {
				return 0, 0, 0, false
			}
		} else if b >= '0' && b <= '9' {
			val = val*10 + int(b-'0')
			if val > 9999 {
				return 0, 0, 0, false
			}
		} else {
			return 0, 0, 0, false
		}
	}

	if state != 2 {
		return 0, 0, 0, false
	}
	y = val
	return btn, x, y, true
}

// sendEvent sends an event to the channel, non-blocking
func (r *inputReader) sendEvent(ev Event) {
	select {
	case r.eventCh <- ev:
	default:
		// Channel full, drop
	}
}

// decodeRune decodes the first UTF-8 rune from data.
// ok is false for malformed or overlong encodings; size then covers the
// bytes to skip.
func decodeRune(data []byte) (rn rune, size int, ok bool) {
	if len(data) == 0 {
		return 0, 0, false
	}

	b := data[0]
	if b < 0x80 {
		return rune(b), 1, true
	}

	var minRune rune
	var r rune

	switch {
	case b&0xe0 == 0xc0:
		size = 2
		minRune = 0x80
		r = rune(b & 0x1f)
	case b&0xf0 == 0xe0:
		size = 3
		minRune = 0x800
		r = rune(b & 0x0f)
	case b&0xf8 == 0xf0:
		size = 4
		minRune = 0x10000
		r = rune(b & 0x07)
	default:
		return 0xFFFD, 1, false
	}

	if len(data) < size {
		return 0xFFFD, 1, false
	}

	for i := 1; i < size; i++ {
		if data[i]&0xc0 != 0x80 {
			return 0xFFFD, 1, false
		}
		r = r<<6 | rune(data[i]&0x3f)
	}

	if r < minRune {
		return 0xFFFD, size, false // Overlong encoding
	}

	return r, size, true
}
