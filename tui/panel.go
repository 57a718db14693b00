package tui

import "github.com/lixenwraith/loom/terminal"

// Panel is a container: background fill with an optional titled border.
// Children mounted under a bordered panel are laid out inside the border
// via the ContentInset hook.
type Panel struct {
	Theme    Theme
	Title    string
	Border   LineType
	Bordered bool
}

// NewPanel creates a borderless panel with the default theme
func NewPanel() *Panel {
	return &Panel{Theme: DefaultTheme}
}

// NewBorderedPanel creates a titled, bordered panel
func NewBorderedPanel(title string, line LineType) *Panel {
	return &Panel{Theme: DefaultTheme, Title: title, Border: line, Bordered: true}
}

// ContentInset reserves the border row/column for children
func (p *Panel) ContentInset() int {
	if p.Bordered {
		return 1
	}
	return 0
}

func (p *Panel) Render(r Region) {
	th := p.Theme
	r.Fill(th.Bg)
	if p.Bordered {
		r.BoxTitled(p.Title, p.Border, th.Border, th.Title)
	}
}

func (p *Panel) HandleEvent(terminal.Event) bool {
	return false
}
