package tui

import "github.com/lixenwraith/loom/terminal"

// Style bundles foreground, background, and attributes for text rendering
type Style struct {
	Fg   terminal.RGB
	Bg   terminal.RGB
	Attr terminal.Attr
}

// DefaultStyle returns style with zero values (transparent bg)
func DefaultStyle(fg terminal.RGB) Style {
	return Style{Fg: fg}
}

// IsZero returns true if style has no colors or attributes set
func (s Style) IsZero() bool {
	return s.Fg == (terminal.RGB{}) && s.Bg == (terminal.RGB{}) && s.Attr == terminal.AttrNone
}

// Bold returns a copy with the bold attribute set
func (s Style) Bold() Style {
	s.Attr |= terminal.AttrBold
	return s
}

// Reverse returns a copy with the reverse attribute set
func (s Style) Reverse() Style {
	s.Attr |= terminal.AttrReverse
	return s
}
