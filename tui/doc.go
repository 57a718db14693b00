// Package tui provides the component tree, focus manager, layout engine
// and widget set on top of the terminal cell buffer.
//
// Components implement Render and HandleEvent; the Tree owns placement,
// z-order, focus and dirty tracking. Layout splits each container along
// its axis by fixed, percentage and fill constraints. Compose paints the
// tree into a terminal.Buffer which the engine flushes.
package tui
