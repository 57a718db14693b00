package terminal

// Backend abstracts platform-specific terminal access. It owns raw-mode
// entry/restore and moves raw bytes; it knows nothing about events, cells
// or escape sequences.
type Backend interface {
	// Init enters raw mode. The previous mode is restored by Fini.
	Init() error

	// Fini restores the terminal mode. Safe to call multiple times.
	Fini()

	// Size returns current terminal dimensions in cells.
	Size() (width, height int)

	// Write writes raw bytes to the terminal output.
	Write(p []byte) error

	// Read blocks until input is available, the stop channel is closed,
	// or an error occurs. A nil slice with nil error means a poll timeout
	// or closed stop channel.
	Read(stopCh <-chan struct{}) ([]byte, error)

	// SetResizeHandler registers a callback for terminal resize events.
	SetResizeHandler(handler func(width, height int))
}
