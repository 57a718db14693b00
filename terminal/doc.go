// Package terminal provides direct ANSI terminal control for the loom runtime.
//
// Features:
//   - Raw stdin decoding into typed events (keys, mouse, resize, bracketed paste)
//   - Double-buffered frame composition with per-cell diffing
//   - True color (24-bit) output degrading to the xterm-256 palette
//   - SIGWINCH resize detection
//   - Guaranteed terminal restoration on exit and panic paths
//
// This package bypasses terminfo/termcap entirely, emitting direct ANSI
// sequences. Target environments: Linux, macOS, BSDs with xterm-compatible
// terminals. Capability negotiation happens once in Init; terminals that
// cannot host the runtime are rejected with UnsupportedTerminalError before
// raw mode is entered.
package terminal
