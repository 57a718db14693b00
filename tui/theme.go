package tui

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/loom/terminal"
)

// Theme defines semantic colors for widgets
type Theme struct {
	Bg       terminal.RGB
	Fg       terminal.RGB
	CursorBg terminal.RGB
	FocusBg  terminal.RGB

	Border      terminal.RGB
	BorderFocus terminal.RGB
	Title       terminal.RGB
	HintFg      terminal.RGB

	StatusBg terminal.RGB
	StatusFg terminal.RGB

	Accent  terminal.RGB
	Error   terminal.RGB
	Warning terminal.RGB

	DiffAdd  terminal.RGB
	DiffDel  terminal.RGB
	DiffHunk terminal.RGB
}

// DefaultTheme provides reasonable defaults. Derived shades (cursor row,
// focus highlight) are blended in Lab space from the base colors.
var DefaultTheme = func() Theme {
	bg := terminal.RGB{R: 20, G: 20, B: 30}
	fg := terminal.RGB{R: 200, G: 200, B: 200}
	accent := terminal.RGB{R: 100, G: 180, B: 220}

	return Theme{
		Bg:          bg,
		Fg:          fg,
		CursorBg:    Lighten(bg, 0.18),
		FocusBg:     Lighten(bg, 0.08),
		Border:      terminal.RGB{R: 60, G: 80, B: 100},
		BorderFocus: accent,
		Title:       terminal.RGB{R: 255, G: 255, B: 255},
		HintFg:      terminal.RGB{R: 100, G: 180, B: 200},
		StatusBg:    terminal.RGB{R: 40, G: 60, B: 90},
		StatusFg:    terminal.RGB{R: 220, G: 220, B: 220},
		Accent:      accent,
		Error:       terminal.RGB{R: 255, G: 80, B: 80},
		Warning:     terminal.RGB{R: 220, G: 180, B: 80},
		DiffAdd:     terminal.RGB{R: 120, G: 200, B: 120},
		DiffDel:     terminal.RGB{R: 220, G: 100, B: 100},
		DiffHunk:    terminal.RGB{R: 130, G: 170, B: 220},
	}
}()

// Blend mixes two colors in Lab space; t=0 yields a, t=1 yields b
func Blend(a, b terminal.RGB, t float64) terminal.RGB {
	ca := toColorful(a)
	cb := toColorful(b)
	return fromColorful(ca.BlendLab(cb, t).Clamped())
}

// Lighten blends a color toward white by t
func Lighten(c terminal.RGB, t float64) terminal.RGB {
	return Blend(c, terminal.RGB{R: 255, G: 255, B: 255}, t)
}

// Darken blends a color toward black by t
func Darken(c terminal.RGB, t float64) terminal.RGB {
	return Blend(c, terminal.RGB{}, t)
}

func toColorful(c terminal.RGB) colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

func fromColorful(c colorful.Color) terminal.RGB {
	r, g, b := c.RGB255()
	return terminal.RGB{R: r, G: g, B: b}
}
