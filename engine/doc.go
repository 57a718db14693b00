// Package engine runs the main event loop: it owns the terminal, the
// component tree, and the single goroutine that mutates both. Input is
// pumped from the terminal into one bounded channel; quit requests enter
// the same channel so they are ordered FIFO with pending input.
//
// Run returns a process exit code: 0 on clean shutdown, 1 when the
// terminal cannot be initialized, 2 on a fatal render failure or panic.
// The terminal is always restored before anything is written to stderr.
package engine
