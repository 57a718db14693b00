package terminal

import "fmt"

// InitError reports a raw-mode entry failure. Fatal: the runtime aborts
// before any rendering.
type InitError struct {
	Err error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("terminal init: %v", e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// UnsupportedTerminalError reports failed capability negotiation. Fatal:
// surfaced to the caller before raw mode is entered.
type UnsupportedTerminalError struct {
	Term   string
	Reason string
}

func (e *UnsupportedTerminalError) Error() string {
	return fmt.Sprintf("unsupported terminal %q: %s", e.Term, e.Reason)
}

// DecodeError reports a malformed input byte sequence. Recoverable: the
// offending bytes are dropped and decoding continues.
type DecodeError struct {
	Seq    []byte
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("input decode: %s (seq % x)", e.Reason, e.Seq)
}

// RenderIOError reports a failed terminal write. The scheduler retries the
// flush once, then escalates to shutdown if the error persists.
type RenderIOError struct {
	Err error
}

func (e *RenderIOError) Error() string {
	return fmt.Sprintf("render write: %v", e.Err)
}

func (e *RenderIOError) Unwrap() error { return e.Err }
