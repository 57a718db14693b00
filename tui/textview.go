package tui

import (
	"strings"

	"github.com/lixenwraith/loom/terminal"
)

// TextView is a scrollable read-only text viewer. Lines longer than the
// viewport are truncated; wrapping is off by default.
type TextView struct {
	Theme Theme
	Wrap  bool

	lines  []string
	scroll int
	lastW  int
	lastH  int
}

// NewTextView creates a text view with the default theme
func NewTextView(text string) *TextView {
	tv := &TextView{Theme: DefaultTheme}
	tv.SetText(text)
	return tv
}

// SetText replaces the content and resets scroll
func (tv *TextView) SetText(text string) {
	tv.lines = strings.Split(text, "\n")
	tv.scroll = 0
}

// SetLines replaces the content with pre-split lines
func (tv *TextView) SetLines(lines []string) {
	tv.lines = lines
	tv.scroll = 0
}

// Scroll returns the top visible line index
func (tv *TextView) Scroll() int {
	return tv.scroll
}

// ScrollTo jumps to a line, clamped to content
func (tv *TextView) ScrollTo(line int) {
	tv.scroll = line
	tv.clampScroll(tv.lastH)
}

func (tv *TextView) clampScroll(h int) {
	// Clamp against the wrapped count for the last-rendered width, so the
	// tail of wrapped content stays reachable
	maxScroll := len(tv.visibleLines(tv.lastW)) - h
	if maxScroll < 0 {
		maxScroll = 0
	}
	if tv.scroll > maxScroll {
		tv.scroll = maxScroll
	}
	if tv.scroll < 0 {
		tv.scroll = 0
	}
}

// visibleLines returns the renderable lines, wrapped to width when
// wrapping is on (width 0 skips wrapping, used for scroll clamping)
func (tv *TextView) visibleLines(width int) []string {
	if !tv.Wrap || width <= 0 {
		return tv.lines
	}
	var out []string
	for _, line := range tv.lines {
		out = append(out, WrapText(line, width)...)
	}
	return out
}

func (tv *TextView) Render(r Region) {
	tv.lastW = r.W
	tv.lastH = r.H
	th := tv.Theme
	r.Fill(th.Bg)

	lines := tv.visibleLines(r.W)
	for y := 0; y < r.H; y++ {
		idx := tv.scroll + y
		if idx >= len(lines) {
			break
		}
		text := lines[idx]
		if RuneLen(text) > r.W {
			text = Truncate(text, r.W)
		}
		r.Text(0, y, text, th.Fg, th.Bg, terminal.AttrNone)
	}
}

func (tv *TextView) HandleEvent(ev terminal.Event) bool {
	page := tv.lastH
	if page < 1 {
		page = 1
	}

	switch ev.Type {
	case terminal.EventKey:
		switch ev.Key {
		case terminal.KeyUp:
			tv.scroll--
		case terminal.KeyDown:
			tv.scroll++
		case terminal.KeyPageUp:
			tv.scroll -= page
		case terminal.KeyPageDown:
			tv.scroll += page
		case terminal.KeyHome:
			tv.scroll = 0
		case terminal.KeyEnd:
			tv.scroll = len(tv.visibleLines(tv.lastW))
		default:
			return false
		}
	case terminal.EventMouse:
		switch ev.MouseBtn {
		case terminal.MouseBtnWheelUp:
			tv.scroll -= 3
		case terminal.MouseBtnWheelDown:
			tv.scroll += 3
		default:
			return false
		}
	default:
		return false
	}

	tv.clampScroll(tv.lastH)
	return true
}
