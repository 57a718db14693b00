package terminal

import (
	"errors"
	"testing"
)

// drainEvents collects everything currently buffered on the event channel
func drainEvents(r *inputReader) []Event {
	var evs []Event
	for {
		select {
		case ev := <-r.eventCh:
			evs = append(evs, ev)
		default:
			return evs
		}
	}
}

func newTestReader() *inputReader {
	return newInputReader(nil)
}

func TestParsePrintableASCII(t *testing.T) {
	r := newTestReader()
	consumed := r.parseInput([]byte("hi"))

	if consumed != 2 {
		t.Fatalf("expected 2 bytes consumed, got %d", consumed)
	}
	evs := drainEvents(r)
	if len(evs) != 2 {
		t.Fatalf("expected 2 events, got %d", len(evs))
	}
	if evs[0].Key != KeyRune || evs[0].Rune != 'h' {
		t.Errorf("expected rune 'h', got %q", evs[0].Rune)
	}
	if evs[1].Rune != 'i' {
		t.Errorf("expected rune 'i', got %q", evs[1].Rune)
	}
}

func TestParseControlKeys(t *testing.T) {
	tests := []struct {
		name  string
		input byte
		want  Key
	}{
		{"Ctrl+C", 0x03, KeyCtrlC},
		{"Ctrl+A", 0x01, KeyCtrlA},
		{"Ctrl+Z", 0x1a, KeyCtrlZ},
		{"Tab", 0x09, KeyTab},
		{"Enter LF", 0x0a, KeyEnter},
		{"Enter CR", 0x0d, KeyEnter},
		{"Backspace DEL", 0x7f, KeyBackspace},
		{"Ctrl+H", 0x08, KeyBackspace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestReader()
			r.parseInput([]byte{tt.input})
			evs := drainEvents(r)
			if len(evs) != 1 {
				t.Fatalf("expected 1 event, got %d", len(evs))
			}
			if evs[0].Key != tt.want {
				t.Errorf("expected key %v, got %v", tt.want, evs[0].Key)
			}
		})
	}
}

func TestParseCSIArrowKeys(t *testing.T) {
	tests := []struct {
		seq  string
		want Key
	}{
		{"\x1b[A", KeyUp},
		{"\x1b[B", KeyDown},
		{"\x1b[C", KeyRight},
		{"\x1b[D", KeyLeft},
		{"\x1b[H", KeyHome},
		{"\x1b[F", KeyEnd},
		{"\x1b[5~", KeyPageUp},
		{"\x1b[6~", KeyPageDown},
		{"\x1b[3~", KeyDelete},
		{"\x1b[Z", KeyBacktab},
	}

	for _, tt := range tests {
		r := newTestReader()
		consumed := r.parseInput([]byte(tt.seq))
		if consumed != len(tt.seq) {
			t.Errorf("seq %q: expected %d consumed, got %d", tt.seq, len(tt.seq), consumed)
		}
		evs := drainEvents(r)
		if len(evs) != 1 || evs[0].Key != tt.want {
			t.Errorf("seq %q: expected key %v, got %+v", tt.seq, tt.want, evs)
		}
	}
}

func TestParseModifiedArrow(t *testing.T) {
	r := newTestReader()
	r.parseInput([]byte("\x1b[1;5C")) // Ctrl+Right
	evs := drainEvents(r)
	if len(evs) != 1 {
		t.Fatalf("expected 1 event, got %d", len(evs))
	}
	if evs[0].Key != KeyRight || evs[0].Modifiers&ModCtrl == 0 {
		t.Errorf("expected Ctrl+Right, got key=%v mods=%v", evs[0].Key, evs[0].Modifiers)
	}
}

// TestParseSplitCSI verifies a CSI sequence split across reads is retained
// and decoded once complete
func TestParseSplitCSI(t *testing.T) {
	r := newTestReader()

	buf := []byte("\x1b[")
	consumed := r.parseInput(buf)
	if consumed != 0 {
		t.Fatalf("expected 0 consumed for incomplete CSI, got %d", consumed)
	}
	if len(drainEvents(r)) != 0 {
		t.Fatal("expected no events for incomplete CSI")
	}

	buf = append(buf, 'A')
	consumed = r.parseInput(buf)
	if consumed != 3 {
		t.Fatalf("expected 3 consumed, got %d", consumed)
	}
	evs := drainEvents(r)
	if len(evs) != 1 || evs[0].Key != KeyUp {
		t.Errorf("expected KeyUp after completing sequence, got %+v", evs)
	}
}

// TestParseMalformedThenKey verifies the decoder recovers after a malformed
// sequence and keeps decoding subsequent input
func TestParseMalformedThenKey(t *testing.T) {
	r := newTestReader()

	// Invalid byte inside CSI parameters, then a normal keypress
	input := []byte{0x1b, '[', '1', 0x07, 'q'}
	consumed := r.parseInput(input)
	if consumed != len(input) {
		t.Fatalf("expected full input consumed, got %d of %d", consumed, len(input))
	}

	evs := drainEvents(r)
	if len(evs) != 2 {
		t.Fatalf("expected error event plus key event, got %d events", len(evs))
	}
	if evs[0].Type != EventError {
		t.Errorf("expected EventError first, got %v", evs[0].Type)
	}
	var de *DecodeError
	if !errors.As(evs[0].Err, &de) {
		t.Errorf("expected *DecodeError, got %T", evs[0].Err)
	}
	if evs[1].Key != KeyRune || evs[1].Rune != 'q' {
		t.Errorf("expected 'q' keypress after recovery, got %+v", evs[1])
	}
}

func TestParseUnterminatedCSI(t *testing.T) {
	r := newTestReader()

	input := []byte("\x1b[")
	for i := 0; i < maxCSILen; i++ {
		input = append(input, '1')
	}
	consumed := r.parseInput(input)
	if consumed == 0 {
		t.Fatal("expected runaway sequence to be consumed")
	}

	evs := drainEvents(r)
	if len(evs) == 0 || evs[0].Type != EventError {
		t.Errorf("expected EventError for unterminated CSI, got %+v", evs)
	}
}

func TestParseUnknownCSISwallowed(t *testing.T) {
	r := newTestReader()
	consumed := r.parseInput([]byte("\x1b[99X"))
	if consumed != 5 {
		t.Fatalf("expected 5 consumed, got %d", consumed)
	}
	if evs := drainEvents(r); len(evs) != 0 {
		t.Errorf("expected unknown well-formed CSI to be swallowed, got %+v", evs)
	}
}

func TestParseAltRune(t *testing.T) {
	r := newTestReader()
	r.parseInput([]byte{0x1b, 'x'})
	evs := drainEvents(r)
	if len(evs) != 1 {
		t.Fatalf("expected 1 event, got %d", len(evs))
	}
	if evs[0].Key != KeyRune || evs[0].Rune != 'x' || evs[0].Modifiers&ModAlt == 0 {
		t.Errorf("expected Alt+x, got %+v", evs[0])
	}
}

func TestParseSS3FunctionKeys(t *testing.T) {
	tests := []struct {
		seq  string
		want Key
	}{
		{"\x1bOP", KeyF1},
		{"\x1bOQ", KeyF2},
		{"\x1bOR", KeyF3},
		{"\x1bOS", KeyF4},
	}
	for _, tt := range tests {
		r := newTestReader()
		r.parseInput([]byte(tt.seq))
		evs := drainEvents(r)
		if len(evs) != 1 || evs[0].Key != tt.want {
			t.Errorf("seq %q: expected %v, got %+v", tt.seq, tt.want, evs)
		}
	}
}

func TestParseUTF8(t *testing.T) {
	r := newTestReader()
	consumed := r.parseInput([]byte("é日"))
	if consumed != 5 {
		t.Fatalf("expected 5 bytes consumed, got %d", consumed)
	}
	evs := drainEvents(r)
	if len(evs) != 2 {
		t.Fatalf("expected 2 events, got %d", len(evs))
	}
	if evs[0].Rune != 'é' {
		t.Errorf("expected 'é', got %q", evs[0].Rune)
	}
	if evs[1].Rune != '日' {
		t.Errorf("expected '日', got %q", evs[1].Rune)
	}
}

// TestParseUTF8SplitAcrossReads verifies partial multibyte sequences wait
// for the remaining bytes
func TestParseUTF8SplitAcrossReads(t *testing.T) {
	r := newTestReader()
	full := []byte("日") // 3 bytes

	consumed := r.parseInput(full[:2])
	if consumed != 0 {
		t.Fatalf("expected 0 consumed for partial UTF-8, got %d", consumed)
	}

	consumed = r.parseInput(full)
	if consumed != 3 {
		t.Fatalf("expected 3 consumed, got %d", consumed)
	}
	evs := drainEvents(r)
	if len(evs) != 1 || evs[0].Rune != '日' {
		t.Errorf("expected '日', got %+v", evs)
	}
}

func TestParseOverlongUTF8(t *testing.T) {
	r := newTestReader()
	// 0xC0 0xAF is an overlong encoding of '/'
	r.parseInput([]byte{0xc0, 0xaf, 'a'})
	evs := drainEvents(r)
	if len(evs) != 2 {
		t.Fatalf("expected error plus key, got %d events", len(evs))
	}
	if evs[0].Type != EventError {
		t.Errorf("expected EventError for overlong encoding, got %v", evs[0].Type)
	}
	if evs[1].Rune != 'a' {
		t.Errorf("expected 'a' after recovery, got %+v", evs[1])
	}
}

func TestParseBracketedPaste(t *testing.T) {
	r := newTestReader()
	input := []byte("\x1b[200~hello\r\nworld\x1b[201~")
	consumed := r.parseInput(input)
	if consumed != len(input) {
		t.Fatalf("expected full consume, got %d of %d", consumed, len(input))
	}

	evs := drainEvents(r)
	if len(evs) != 1 {
		t.Fatalf("expected 1 paste event, got %d", len(evs))
	}
	if evs[0].Type != EventPaste {
		t.Fatalf("expected EventPaste, got %v", evs[0].Type)
	}
	if evs[0].Paste != "hello\nworld" {
		t.Errorf("expected normalized paste %q, got %q", "hello\nworld", evs[0].Paste)
	}
}

// TestParsePasteSplitTerminator verifies a paste terminator split across
// reads does not leak marker bytes into the payload
func TestParsePasteSplitTerminator(t *testing.T) {
	r := newTestReader()

	part1 := []byte("\x1b[200~abc\x1b[20")
	consumed := r.parseInput(part1)
	if len(drainEvents(r)) != 0 {
		t.Fatal("expected no events before terminator completes")
	}

	rest := append(part1[consumed:], []byte("1~")...)
	r.parseInput(rest)
	evs := drainEvents(r)
	if len(evs) != 1 || evs[0].Type != EventPaste {
		t.Fatalf("expected 1 paste event, got %+v", evs)
	}
	if evs[0].Paste != "abc" {
		t.Errorf("expected paste %q, got %q", "abc", evs[0].Paste)
	}
}

// Escape sequences inside a paste are payload, not keys
func TestParsePasteContainsEscape(t *testing.T) {
	r := newTestReader()
	input := []byte("\x1b[200~\x1b[A\x1b[201~")
	r.parseInput(input)
	evs := drainEvents(r)
	if len(evs) != 1 || evs[0].Type != EventPaste {
		t.Fatalf("expected 1 paste event, got %+v", evs)
	}
	if evs[0].Paste != "\x1b[A" {
		t.Errorf("expected raw escape in payload, got %q", evs[0].Paste)
	}
}

func TestParseSGRMousePress(t *testing.T) {
	r := newTestReader()
	consumed := r.parseInput([]byte("\x1b[<0;10;5M"))
	if consumed != 10 {
		t.Fatalf("expected 10 consumed, got %d", consumed)
	}

	evs := drainEvents(r)
	if len(evs) != 1 || evs[0].Type != EventMouse {
		t.Fatalf("expected 1 mouse event, got %+v", evs)
	}
	ev := evs[0]
	if ev.MouseBtn != MouseBtnLeft || ev.MouseAction != MouseActionPress {
		t.Errorf("expected left press, got btn=%v action=%v", ev.MouseBtn, ev.MouseAction)
	}
	if ev.MouseX != 9 || ev.MouseY != 4 {
		t.Errorf("expected 0-indexed (9,4), got (%d,%d)", ev.MouseX, ev.MouseY)
	}
}

func TestParseSGRMouseVariants(t *testing.T) {
	tests := []struct {
		name   string
		seq    string
		btn    MouseButton
		action MouseAction
	}{
		{"left release", "\x1b[<0;1;1m", MouseBtnLeft, MouseActionRelease},
		{"right press", "\x1b[<2;1;1M", MouseBtnRight, MouseActionPress},
		{"wheel up", "\x1b[<64;1;1M", MouseBtnWheelUp, MouseActionPress},
		{"wheel down", "\x1b[<65;1;1M", MouseBtnWheelDown, MouseActionPress},
		{"left drag", "\x1b[<32;2;2M", MouseBtnLeft, MouseActionDrag},
		{"motion", "\x1b[<35;2;2M", MouseBtnNone, MouseActionMove},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestReader()
			r.parseInput([]byte(tt.seq))
			evs := drainEvents(r)
			if len(evs) != 1 || evs[0].Type != EventMouse {
				t.Fatalf("expected 1 mouse event, got %+v", evs)
			}
			if evs[0].MouseBtn != tt.btn || evs[0].MouseAction != tt.action {
				t.Errorf("expected btn=%v action=%v, got btn=%v action=%v",
					tt.btn, tt.action, evs[0].MouseBtn, evs[0].MouseAction)
			}
		})
	}
}

func TestParseSGRMouseModifiers(t *testing.T) {
	r := newTestReader()
	r.parseInput([]byte("\x1b[<16;1;1M")) // Ctrl+left press
	evs := drainEvents(r)
	if len(evs) != 1 {
		t.Fatalf("expected 1 event, got %d", len(evs))
	}
	if evs[0].Modifiers&ModCtrl == 0 {
		t.Errorf("expected ModCtrl set, got %v", evs[0].Modifiers)
	}
}

func TestPartialSuffixLen(t *testing.T) {
	sep := []byte("\x1b[201~")
	tests := []struct {
		data string
		want int
	}{
		{"abc", 0},
		{"abc\x1b", 1},
		{"abc\x1b[", 2},
		{"abc\x1b[20", 4},
		{"abc\x1b[201", 5},
		{"", 0},
	}
	for _, tt := range tests {
		if got := partialSuffixLen([]byte(tt.data), sep); got != tt.want {
			t.Errorf("partialSuffixLen(%q) = %d, want %d", tt.data, got, tt.want)
		}
	}
}
