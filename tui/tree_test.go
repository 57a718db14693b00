package tui

import (
	"testing"

	"github.com/lixenwraith/loom/terminal"
)

func keyEvent(r rune) terminal.Event {
	return terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: r}
}

// TestDispatchFocusedFirst verifies the focused node sees key events
// before anyone else and consumption stops bubbling
func TestDispatchFocusedFirst(t *testing.T) {
	root := &stub{}
	tr := NewTree(root, MountOpts{})
	tr.SetSize(20, 10)

	child := &stub{consume: true}
	id := mustMount(t, tr, tr.Root(), child, MountOpts{Focusable: true})
	if tr.Focused() != id {
		t.Fatalf("expected first focusable to take focus, got %d", tr.Focused())
	}

	if !tr.Dispatch(keyEvent('a')) {
		t.Fatal("expected event consumed")
	}
	if len(child.got) != 1 {
		t.Errorf("expected focused child to receive the event, got %d", len(child.got))
	}
	if len(root.got) != 0 {
		t.Errorf("expected no bubbling past the consumer, root saw %d events", len(root.got))
	}
}

// TestDispatchBubbles verifies unconsumed events walk ancestors to root
func TestDispatchBubbles(t *testing.T) {
	root := &stub{consume: true}
	tr := NewTree(root, MountOpts{})
	tr.SetSize(20, 10)

	mid := &stub{}
	midID := mustMount(t, tr, tr.Root(), mid, MountOpts{})
	leaf := &stub{}
	leafID := mustMount(t, tr, midID, leaf, MountOpts{Focusable: true})

	if err := tr.SetFocus(leafID); err != nil {
		t.Fatal(err)
	}

	if !tr.Dispatch(keyEvent('x')) {
		t.Fatal("expected root to consume the bubbled event")
	}
	if len(leaf.got) != 1 || len(mid.got) != 1 || len(root.got) != 1 {
		t.Errorf("expected leaf→mid→root delivery, got %d/%d/%d",
			len(leaf.got), len(mid.got), len(root.got))
	}
}

func TestDispatchNoFocusGoesToRoot(t *testing.T) {
	root := &stub{}
	tr := NewTree(root, MountOpts{})
	tr.SetSize(20, 10)

	if tr.Dispatch(keyEvent('z')) {
		t.Error("expected unconsumed dispatch to return false")
	}
	if len(root.got) != 1 {
		t.Errorf("expected root to see the event, got %d", len(root.got))
	}
}

// TestFocusCycling verifies FocusNext visits every ring member once and
// wraps back to the start
func TestFocusCycling(t *testing.T) {
	tr := NewTree(&stub{}, MountOpts{})
	tr.SetSize(20, 10)

	var ids []NodeID
	for i := 0; i < 4; i++ {
		ids = append(ids, mustMount(t, tr, tr.Root(), &stub{}, MountOpts{Focusable: true}))
	}

	start := tr.Focused()
	seen := map[NodeID]bool{start: true}
	for i := 0; i < len(ids)-1; i++ {
		tr.FocusNext()
		seen[tr.Focused()] = true
	}
	if len(seen) != len(ids) {
		t.Errorf("expected cycling to visit all %d focusables, visited %d", len(ids), len(seen))
	}

	tr.FocusNext()
	if tr.Focused() != start {
		t.Errorf("expected focus to wrap to %d, got %d", start, tr.Focused())
	}

	tr.FocusPrev()
	if tr.Focused() != ids[len(ids)-1] {
		t.Errorf("expected FocusPrev to wrap backwards to %d, got %d",
			ids[len(ids)-1], tr.Focused())
	}
}

func TestFocusCyclingEmptyRing(t *testing.T) {
	tr := NewTree(&stub{}, MountOpts{})
	tr.FocusNext()
	tr.FocusPrev()
	if tr.Focused() != 0 {
		t.Errorf("expected no focus with empty ring, got %d", tr.Focused())
	}
}

// TestMouseHitTestZOrder verifies the topmost (highest z) node under the
// cursor wins, and a focusable hit transfers focus
func TestMouseHitTestZOrder(t *testing.T) {
	tr := NewTree(&stub{}, MountOpts{})
	tr.SetSize(40, 20)

	under := &stub{consume: true}
	underID := mustMount(t, tr, tr.Root(), under, MountOpts{Constraint: Fill(), Focusable: true})
	over := &stub{consume: true}
	overID := mustMount(t, tr, tr.Root(), over, MountOpts{Floating: true, Z: 5, Focusable: true})

	compose(t, tr)
	tr.SetFocus(underID)

	click := terminal.Event{
		Type:        terminal.EventMouse,
		MouseX:      10,
		MouseY:      5,
		MouseBtn:    terminal.MouseBtnLeft,
		MouseAction: terminal.MouseActionPress,
	}
	if !tr.Dispatch(click) {
		t.Fatal("expected click consumed")
	}
	if len(over.got) != 1 {
		t.Errorf("expected overlay to take the click, got %d events", len(over.got))
	}
	if len(under.got) != 0 {
		t.Errorf("expected occluded node to see nothing, got %d events", len(under.got))
	}
	if tr.Focused() != overID {
		t.Errorf("expected click to transfer focus to %d, got %d", overID, tr.Focused())
	}
}

// TestMouseLocalCoordinates verifies delivered coordinates are relative
// to the hit node's bounds
func TestMouseLocalCoordinates(t *testing.T) {
	tr := NewTree(&stub{}, MountOpts{Axis: Vertical})
	tr.SetSize(40, 20)

	mustMount(t, tr, tr.Root(), &stub{}, MountOpts{Constraint: Fixed(5)})
	lower := &stub{consume: true}
	mustMount(t, tr, tr.Root(), lower, MountOpts{Constraint: Fill(), Focusable: true})

	compose(t, tr)

	tr.Dispatch(terminal.Event{
		Type:        terminal.EventMouse,
		MouseX:      7,
		MouseY:      9, // Row 9 absolute = row 4 inside the lower pane
		MouseBtn:    terminal.MouseBtnLeft,
		MouseAction: terminal.MouseActionPress,
	})

	if len(lower.got) != 1 {
		t.Fatalf("expected lower pane hit, got %d events", len(lower.got))
	}
	ev := lower.got[0]
	if ev.MouseX != 7 || ev.MouseY != 4 {
		t.Errorf("expected local coords (7,4), got (%d,%d)", ev.MouseX, ev.MouseY)
	}
}

// TestUnmountCleansFocus verifies unmounting the focused subtree moves
// focus and removes ring entries
func TestUnmountCleansFocus(t *testing.T) {
	tr := NewTree(&stub{}, MountOpts{})
	tr.SetSize(20, 10)

	a := mustMount(t, tr, tr.Root(), &stub{}, MountOpts{Focusable: true})
	container := mustMount(t, tr, tr.Root(), &stub{}, MountOpts{})
	b := mustMount(t, tr, container, &stub{}, MountOpts{Focusable: true})

	tr.SetFocus(b)
	tr.Unmount(container)

	if tr.Focused() != a {
		t.Errorf("expected focus to fall back to %d, got %d", a, tr.Focused())
	}
	if _, ok := tr.NodeBounds(b); ok {
		t.Error("expected unmounted child removed from the arena")
	}

	// Ring no longer contains b: a full cycle stays on a
	tr.FocusNext()
	if tr.Focused() != a {
		t.Errorf("expected single-entry ring to stay on %d, got %d", a, tr.Focused())
	}
}

func TestConsumeDirty(t *testing.T) {
	tr := NewTree(&stub{consume: true}, MountOpts{})
	tr.SetSize(20, 10)

	if !tr.ConsumeDirty() {
		t.Fatal("expected fresh tree dirty")
	}
	if tr.ConsumeDirty() {
		t.Fatal("expected dirty cleared after consume")
	}

	tr.Dispatch(keyEvent('a'))
	if !tr.ConsumeDirty() {
		t.Error("expected consumed event to mark dirty")
	}

	unfocusedRoot := NewTree(&stub{}, MountOpts{})
	unfocusedRoot.SetSize(20, 10)
	unfocusedRoot.ConsumeDirty()
	unfocusedRoot.Dispatch(keyEvent('a'))
	if unfocusedRoot.ConsumeDirty() {
		t.Error("expected unconsumed event to leave tree clean")
	}
}

// TestComposeZOrder verifies higher z paints later so overlays win
// overlapping cells
func TestComposeZOrder(t *testing.T) {
	theme := DefaultTheme
	base := &fillStub{ch: 'b', bg: theme.Bg}
	tr := NewTree(base, MountOpts{})
	tr.SetSize(10, 4)

	over := &fillStub{ch: 'o', bg: theme.Bg}
	mustMount(t, tr, tr.Root(), over, MountOpts{Floating: true, Z: 3})

	buf := terminal.NewBuffer(10, 4)
	tr.Compose(buf)

	if got := buf.At(5, 2).Rune; got != 'o' {
		t.Errorf("expected overlay cell 'o' on top, got %q", got)
	}
}

// fillStub paints every cell of its region with one rune
type fillStub struct {
	ch rune
	bg terminal.RGB
}

func (f *fillStub) Render(r Region) {
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			r.Cell(x, y, f.ch, terminal.RGB{}, f.bg, terminal.AttrNone)
		}
	}
}

func (f *fillStub) HandleEvent(terminal.Event) bool { return false }
