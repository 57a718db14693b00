package tui

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/lixenwraith/loom/terminal"
)

// DiffView renders a unified diff of two text blobs with added, removed
// and hunk-header lines colored. Scrolling matches TextView.
type DiffView struct {
	Theme Theme

	lines  []string
	scroll int
	lastH  int
}

// NewDiffView creates an empty diff view with the default theme
func NewDiffView() *DiffView {
	return &DiffView{Theme: DefaultTheme}
}

// SetContent computes the unified diff between a and b and loads it.
// The labels name the two sides in the diff header.
func (dv *DiffView) SetContent(a, b, aLabel, bLabel string) error {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: aLabel,
		ToFile:   bLabel,
		Context:  3,
	})
	if err != nil {
		return err
	}

	dv.lines = strings.Split(strings.TrimRight(text, "\n"), "\n")
	if text == "" {
		dv.lines = nil
	}
	dv.scroll = 0
	return nil
}

// Empty reports whether the two sides were identical
func (dv *DiffView) Empty() bool {
	return len(dv.lines) == 0
}

func (dv *DiffView) lineStyle(line string) (terminal.RGB, terminal.Attr) {
	th := dv.Theme
	switch {
	case strings.HasPrefix(line, "@@"):
		return th.DiffHunk, terminal.AttrBold
	case strings.HasPrefix(line, "+"):
		return th.DiffAdd, terminal.AttrNone
	case strings.HasPrefix(line, "-"):
		return th.DiffDel, terminal.AttrNone
	default:
		return th.Fg, terminal.AttrNone
	}
}

func (dv *DiffView) Render(r Region) {
	dv.lastH = r.H
	th := dv.Theme
	r.Fill(th.Bg)

	if len(dv.lines) == 0 {
		r.TextCenter(r.H/2, "no differences", th.HintFg, th.Bg, terminal.AttrNone)
		return
	}

	for y := 0; y < r.H; y++ {
		idx := dv.scroll + y
		if idx >= len(dv.lines) {
			break
		}
		line := dv.lines[idx]
		fg, attr := dv.lineStyle(line)
		if RuneLen(line) > r.W {
			line = Truncate(line, r.W)
		}
		r.Text(0, y, line, fg, th.Bg, attr)
	}
}

func (dv *DiffView) HandleEvent(ev terminal.Event) bool {
	page := dv.lastH
	if page < 1 {
		page = 1
	}

	switch ev.Type {
	case terminal.EventKey:
		switch ev.Key {
		case terminal.KeyUp:
			dv.scroll--
		case terminal.KeyDown:
			dv.scroll++
		case terminal.KeyPageUp:
			dv.scroll -= page
		case terminal.KeyPageDown:
			dv.scroll += page
		case terminal.KeyHome:
			dv.scroll = 0
		default:
			return false
		}
	case terminal.EventMouse:
		switch ev.MouseBtn {
		case terminal.MouseBtnWheelUp:
			dv.scroll -= 3
		case terminal.MouseBtnWheelDown:
			dv.scroll += 3
		default:
			return false
		}
	default:
		return false
	}

	maxScroll := len(dv.lines) - dv.lastH
	if maxScroll < 0 {
		maxScroll = 0
	}
	if dv.scroll > maxScroll {
		dv.scroll = maxScroll
	}
	if dv.scroll < 0 {
		dv.scroll = 0
	}
	return true
}
