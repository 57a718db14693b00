package tui

import "github.com/lixenwraith/loom/terminal"

// List is a scrollable selection list. Up/Down/PageUp/PageDown/Home/End
// move the cursor, Enter fires OnSelect, mouse click selects and the
// wheel scrolls.
type List struct {
	Items    []string
	Theme    Theme
	OnSelect func(index int)

	cursor int
	scroll int
	lastH  int // Viewport height from the last render, for paging
}

// NewList creates a list with the default theme
func NewList(items []string) *List {
	return &List{Items: items, Theme: DefaultTheme}
}

// Cursor returns the current cursor index
func (l *List) Cursor() int {
	return l.cursor
}

// SetCursor moves the cursor, clamped to the item range
func (l *List) SetCursor(i int) {
	l.cursor = i
	l.clamp()
}

// SetItems replaces the item set, keeping the cursor in range
func (l *List) SetItems(items []string) {
	l.Items = items
	l.clamp()
}

func (l *List) clamp() {
	if l.cursor >= len(l.Items) {
		l.cursor = len(l.Items) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
	if l.scroll > l.cursor {
		l.scroll = l.cursor
	}
	if l.scroll < 0 {
		l.scroll = 0
	}
}

// ensureVisible scrolls so the cursor row stays inside the viewport
func (l *List) ensureVisible(h int) {
	if h <= 0 {
		return
	}
	if l.cursor < l.scroll {
		l.scroll = l.cursor
	}
	if l.cursor >= l.scroll+h {
		l.scroll = l.cursor - h + 1
	}
}

func (l *List) Render(r Region) {
	l.lastH = r.H
	l.ensureVisible(r.H)

	th := l.Theme
	r.Fill(th.Bg)

	for y := 0; y < r.H; y++ {
		idx := l.scroll + y
		if idx >= len(l.Items) {
			break
		}

		bg := th.Bg
		if idx == l.cursor {
			bg = th.CursorBg
			for x := 0; x < r.W; x++ {
				r.Cell(x, y, ' ', th.Fg, bg, terminal.AttrNone)
			}
		}

		text := l.Items[idx]
		if RuneLen(text) > r.W {
			text = Truncate(text, r.W)
		}
		r.Text(0, y, text, th.Fg, bg, terminal.AttrNone)
	}
}

func (l *List) HandleEvent(ev terminal.Event) bool {
	switch ev.Type {
	case terminal.EventKey:
		return l.handleKey(ev)
	case terminal.EventMouse:
		return l.handleMouse(ev)
	}
	return false
}

func (l *List) handleKey(ev terminal.Event) bool {
	page := l.lastH
	if page < 1 {
		page = 1
	}

	switch ev.Key {
	case terminal.KeyUp:
		l.cursor--
	case terminal.KeyDown:
		l.cursor++
	case terminal.KeyPageUp:
		l.cursor -= page
	case terminal.KeyPageDown:
		l.cursor += page
	case terminal.KeyHome:
		l.cursor = 0
	case terminal.KeyEnd:
		l.cursor = len(l.Items) - 1
	case terminal.KeyEnter:
		if l.OnSelect != nil && l.cursor < len(l.Items) {
			l.OnSelect(l.cursor)
		}
		return true
	default:
		return false
	}

	l.clamp()
	return true
}

func (l *List) handleMouse(ev terminal.Event) bool {
	switch {
	case ev.MouseBtn == terminal.MouseBtnWheelUp:
		l.cursor--
	case ev.MouseBtn == terminal.MouseBtnWheelDown:
		l.cursor++
	case ev.MouseBtn == terminal.MouseBtnLeft && ev.MouseAction == terminal.MouseActionPress:
		idx := l.scroll + ev.MouseY
		if idx < 0 || idx >= len(l.Items) {
			return false
		}
		l.cursor = idx
		if l.OnSelect != nil {
			l.OnSelect(idx)
		}
	default:
		return false
	}

	l.clamp()
	return true
}
