package tui

import "github.com/lixenwraith/loom/terminal"

// StatusBar is a single-line bar with left- and right-aligned segments.
// It never consumes events.
type StatusBar struct {
	Theme Theme
	Left  string
	Right string
}

// NewStatusBar creates a status bar with the default theme
func NewStatusBar(left, right string) *StatusBar {
	return &StatusBar{Theme: DefaultTheme, Left: left, Right: right}
}

func (s *StatusBar) Render(r Region) {
	th := s.Theme
	for x := 0; x < r.W; x++ {
		r.Cell(x, 0, ' ', th.StatusFg, th.StatusBg, terminal.AttrNone)
	}

	left := s.Left
	if RuneLen(left) > r.W {
		left = Truncate(left, r.W)
	}
	r.Text(1, 0, left, th.StatusFg, th.StatusBg, terminal.AttrNone)

	right := s.Right
	rightW := RuneLen(right)
	if rightW < r.W-RuneLen(left)-3 {
		r.Text(r.W-rightW-1, 0, right, th.StatusFg, th.StatusBg, terminal.AttrNone)
	}
}

func (s *StatusBar) HandleEvent(terminal.Event) bool {
	return false
}
