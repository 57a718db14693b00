package tui

import (
	"strings"
	"testing"

	"github.com/lixenwraith/loom/terminal"
)

func renderToBuffer(c Component, w, h int) *terminal.Buffer {
	buf := terminal.NewBuffer(w, h)
	c.Render(NewRegion(buf))
	return buf
}

func rowText(buf *terminal.Buffer, y, w int) string {
	var b strings.Builder
	for x := 0; x < w; x++ {
		r := buf.At(x, y).Rune
		if r == 0 {
			continue // Wide rune continuation
		}
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " ")
}

func TestListNavigation(t *testing.T) {
	l := NewList([]string{"one", "two", "three"})
	renderToBuffer(l, 20, 3)

	l.HandleEvent(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyDown})
	if l.Cursor() != 1 {
		t.Errorf("expected cursor 1 after Down, got %d", l.Cursor())
	}

	l.HandleEvent(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyEnd})
	if l.Cursor() != 2 {
		t.Errorf("expected cursor at last item, got %d", l.Cursor())
	}

	// Down at the end stays clamped
	l.HandleEvent(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyDown})
	if l.Cursor() != 2 {
		t.Errorf("expected cursor clamped at 2, got %d", l.Cursor())
	}
}

func TestListSelectCallback(t *testing.T) {
	selected := -1
	l := NewList([]string{"a", "b", "c"})
	l.OnSelect = func(i int) { selected = i }
	renderToBuffer(l, 20, 3)

	l.HandleEvent(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyDown})
	l.HandleEvent(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyEnter})
	if selected != 1 {
		t.Errorf("expected OnSelect(1), got %d", selected)
	}

	// Mouse click selects directly
	l.HandleEvent(terminal.Event{
		Type:        terminal.EventMouse,
		MouseBtn:    terminal.MouseBtnLeft,
		MouseAction: terminal.MouseActionPress,
		MouseY:      2,
	})
	if selected != 2 {
		t.Errorf("expected click to select index 2, got %d", selected)
	}
}

func TestListScrollFollowsCursor(t *testing.T) {
	items := make([]string, 20)
	for i := range items {
		items[i] = "item"
	}
	l := NewList(items)
	renderToBuffer(l, 10, 5)

	l.SetCursor(12)
	renderToBuffer(l, 10, 5)
	if l.scroll != 8 {
		t.Errorf("expected scroll 8 to keep cursor visible, got %d", l.scroll)
	}
}

func TestTextViewScrollClamps(t *testing.T) {
	tv := NewTextView("a\nb\nc\nd\ne")
	renderToBuffer(tv, 10, 2)

	tv.HandleEvent(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyEnd})
	if tv.Scroll() != 3 {
		t.Errorf("expected scroll clamped to 3, got %d", tv.Scroll())
	}

	tv.HandleEvent(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyHome})
	if tv.Scroll() != 0 {
		t.Errorf("expected scroll 0 after Home, got %d", tv.Scroll())
	}
	tv.HandleEvent(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyUp})
	if tv.Scroll() != 0 {
		t.Errorf("expected scroll clamped at 0, got %d", tv.Scroll())
	}
}

// TestTextViewWrapScrollReachesTail verifies the scroll range tracks the
// wrapped line count, so the end of wrapped content stays reachable
func TestTextViewWrapScrollReachesTail(t *testing.T) {
	tv := NewTextView("aaaa bbbb cccc dddd\nlast")
	tv.Wrap = true
	renderToBuffer(tv, 5, 2)

	// The first line wraps to four lines of width 5, five lines total
	tv.HandleEvent(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyEnd})
	if tv.Scroll() != 3 {
		t.Fatalf("expected scroll 3 to expose the wrapped tail, got %d", tv.Scroll())
	}

	buf := renderToBuffer(tv, 5, 2)
	if got := rowText(buf, 1, 5); got != "last" {
		t.Errorf("expected tail line visible at the bottom row, got %q", got)
	}
}

func TestDiffViewContent(t *testing.T) {
	dv := NewDiffView()
	err := dv.SetContent("same\nold\n", "same\nnew\n", "a", "b")
	if err != nil {
		t.Fatalf("SetContent failed: %v", err)
	}
	if dv.Empty() {
		t.Fatal("expected non-empty diff")
	}

	joined := strings.Join(dv.lines, "\n")
	if !strings.Contains(joined, "-old") {
		t.Errorf("expected removal line in diff, got:\n%s", joined)
	}
	if !strings.Contains(joined, "+new") {
		t.Errorf("expected addition line in diff, got:\n%s", joined)
	}

	dv2 := NewDiffView()
	if err := dv2.SetContent("same\n", "same\n", "a", "b"); err != nil {
		t.Fatalf("SetContent failed: %v", err)
	}
	if !dv2.Empty() {
		t.Error("expected empty diff for identical inputs")
	}
}

func TestDialogButtonCycle(t *testing.T) {
	chosen := -2
	d := NewDialog("Quit", "Sure?")
	d.OnChoose = func(i int) { chosen = i }

	tab := terminal.Event{Type: terminal.EventKey, Key: terminal.KeyTab}
	if !d.HandleEvent(tab) {
		t.Fatal("expected dialog to consume keys")
	}
	if d.Active() != 1 {
		t.Errorf("expected active button 1 after Tab, got %d", d.Active())
	}

	d.HandleEvent(tab) // Wraps
	if d.Active() != 0 {
		t.Errorf("expected wrap to button 0, got %d", d.Active())
	}

	d.HandleEvent(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyEnter})
	if chosen != 0 {
		t.Errorf("expected OnChoose(0), got %d", chosen)
	}

	d.HandleEvent(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyEscape})
	if chosen != -1 {
		t.Errorf("expected OnChoose(-1) on Escape, got %d", chosen)
	}
}

// Dialog is a focus trap: even keys it has no binding for are consumed
func TestDialogSwallowsUnboundKeys(t *testing.T) {
	d := NewDialog("t", "m")
	if !d.HandleEvent(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: 'x'}) {
		t.Error("expected modal dialog to swallow unbound keys")
	}
}

func TestStatusBarSegments(t *testing.T) {
	s := NewStatusBar("left", "right")
	buf := renderToBuffer(s, 30, 1)

	row := rowText(buf, 0, 30)
	if !strings.Contains(row, "left") {
		t.Errorf("expected left segment, got %q", row)
	}
	if !strings.HasSuffix(row, "right") {
		t.Errorf("expected right-aligned segment, got %q", row)
	}
}

func TestPanelBorderInset(t *testing.T) {
	p := NewBorderedPanel("title", LineSingle)
	if p.ContentInset() != 1 {
		t.Errorf("expected inset 1 for bordered panel, got %d", p.ContentInset())
	}

	buf := renderToBuffer(p, 12, 4)
	if buf.At(0, 0).Rune != '┌' {
		t.Errorf("expected border corner, got %q", buf.At(0, 0).Rune)
	}

	plain := NewPanel()
	if plain.ContentInset() != 0 {
		t.Errorf("expected inset 0 for plain panel, got %d", plain.ContentInset())
	}
}
