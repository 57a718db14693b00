package tui

import "github.com/lixenwraith/loom/terminal"

// Dialog is a modal overlay: a centered box with a message and buttons.
// Mount it floating with a higher z so it paints over everything and
// hit-tests first. It consumes every key event while open (focus trap);
// Tab/Left/Right cycle buttons, Enter confirms, Escape cancels.
type Dialog struct {
	Theme   Theme
	Title   string
	Message string
	Buttons []string

	// OnChoose receives the chosen button index, or -1 on Escape
	OnChoose func(index int)

	active int
	box    Rect // Box placement from the last render, for click hit tests
}

// NewDialog creates a dialog with the default theme and OK/Cancel buttons
func NewDialog(title, message string) *Dialog {
	return &Dialog{
		Theme:   DefaultTheme,
		Title:   title,
		Message: message,
		Buttons: []string{"OK", "Cancel"},
	}
}

// Active returns the highlighted button index
func (d *Dialog) Active() int {
	return d.active
}

func (d *Dialog) Render(r Region) {
	th := d.Theme

	msgLines := WrapText(d.Message, max(r.W-8, 10))
	boxW := RuneLen(d.Title) + 6
	for _, line := range msgLines {
		if w := RuneLen(line) + 4; w > boxW {
			boxW = w
		}
	}
	btnW := 0
	for _, b := range d.Buttons {
		btnW += RuneLen(b) + 4
	}
	if btnW+2 > boxW {
		boxW = btnW + 2
	}
	if boxW > r.W {
		boxW = r.W
	}
	boxH := len(msgLines) + 4
	if boxH > r.H {
		boxH = r.H
	}

	bx := (r.W - boxW) / 2
	by := (r.H - boxH) / 2
	d.box = Rect{X: bx, Y: by, W: boxW, H: boxH}

	box := r.Sub(bx, by, boxW, boxH)
	box.BoxFilled(LineDouble, th.BorderFocus, th.Bg)
	if d.Title != "" {
		box.TextCenter(0, " "+d.Title+" ", th.Title, th.Bg, terminal.AttrBold)
	}

	inner := box.Inset(1)
	for i, line := range msgLines {
		if i >= inner.H-2 {
			break
		}
		inner.TextCenter(i, line, th.Fg, th.Bg, terminal.AttrNone)
	}

	// Buttons on the bottom row
	x := (inner.W - d.buttonsWidth()) / 2
	y := inner.H - 1
	for i, b := range d.Buttons {
		label := "[ " + b + " ]"
		fg, attr := th.HintFg, terminal.AttrNone
		if i == d.active {
			fg, attr = th.Accent, terminal.AttrBold|terminal.AttrReverse
		}
		inner.Text(x, y, label, fg, th.Bg, attr)
		x += RuneLen(label) + 1
	}
}

func (d *Dialog) buttonsWidth() int {
	w := 0
	for i, b := range d.Buttons {
		w += RuneLen(b) + 4
		if i > 0 {
			w++
		}
	}
	return w
}

func (d *Dialog) HandleEvent(ev terminal.Event) bool {
	switch ev.Type {
	case terminal.EventKey:
		switch ev.Key {
		case terminal.KeyTab, terminal.KeyRight:
			if len(d.Buttons) > 0 {
				d.active = (d.active + 1) % len(d.Buttons)
			}
		case terminal.KeyBacktab, terminal.KeyLeft:
			if len(d.Buttons) > 0 {
				d.active = (d.active - 1 + len(d.Buttons)) % len(d.Buttons)
			}
		case terminal.KeyEnter:
			if d.OnChoose != nil {
				d.OnChoose(d.active)
			}
		case terminal.KeyEscape:
			if d.OnChoose != nil {
				d.OnChoose(-1)
			}
		}
		// Modal: swallow everything, including unhandled keys
		return true

	case terminal.EventMouse:
		if ev.MouseAction == terminal.MouseActionPress && ev.MouseBtn == terminal.MouseBtnLeft {
			if !d.box.Contains(ev.MouseX, ev.MouseY) && d.OnChoose != nil {
				d.OnChoose(-1) // Click outside dismisses
			}
		}
		return true

	case terminal.EventPaste:
		return true
	}
	return false
}
