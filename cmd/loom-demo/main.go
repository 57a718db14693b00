// loom-demo composes a small multi-pane application: a selectable list of
// samples on the left, a text or diff view on the right, a status bar,
// and a modal confirmation dialog on quit.
package main

import (
	"fmt"
	"os"

	"github.com/lixenwraith/loom/engine"
	"github.com/lixenwraith/loom/terminal"
	"github.com/lixenwraith/loom/tui"
)

var samples = []struct {
	name string
	text string
}{
	{"greeting", "Hello from loom.\n\nUse Up/Down to browse samples,\nTab to switch panes, q to quit."},
	{"wide runes", "CJK text occupies two cells per rune:\n\n日本語のテキスト\n한국어 텍스트"},
	{"diff demo", ""},
	{"long text", "This sample holds enough lines to scroll.\n" + manyLines(60)},
}

func manyLines(n int) string {
	s := ""
	for i := 1; i <= n; i++ {
		s += fmt.Sprintf("line %d of the scrollable body\n", i)
	}
	return s
}

// app is the root component: it paints the backdrop and owns the global
// key bindings that no focused widget consumed.
type app struct {
	eng    *engine.Engine
	tree   *tui.Tree
	theme  tui.Theme
	status *tui.StatusBar
	list   *tui.List
	text   *tui.TextView
	diff   *tui.DiffView

	bodyID   tui.NodeID // Right pane container
	curID    tui.NodeID // Mounted body child (text or diff view)
	dialogID tui.NodeID
}

func (a *app) Render(r tui.Region) {
	r.Fill(a.theme.Bg)
}

func (a *app) HandleEvent(ev terminal.Event) bool {
	if ev.Type != terminal.EventKey {
		return false
	}

	switch {
	case ev.Key == terminal.KeyTab:
		a.tree.FocusNext()
		return true
	case ev.Key == terminal.KeyBacktab:
		a.tree.FocusPrev()
		return true
	case ev.Key == terminal.KeyRune && ev.Rune == 'q',
		ev.Key == terminal.KeyEscape:
		a.confirmQuit()
		return true
	}
	return false
}

// confirmQuit mounts a modal dialog; choosing OK quits, anything else
// dismisses it
func (a *app) confirmQuit() {
	if a.dialogID != 0 {
		return
	}
	d := tui.NewDialog("Quit", "Leave loom-demo?")
	d.OnChoose = func(idx int) {
		a.tree.Unmount(a.dialogID)
		a.dialogID = 0
		if idx == 0 {
			a.eng.Quit()
		}
	}
	id, err := a.tree.Mount(a.tree.Root(), d, tui.MountOpts{
		Z:         10,
		Floating:  true,
		Focusable: true,
	})
	if err != nil {
		return
	}
	a.dialogID = id
	a.tree.SetFocus(id)
}

// showSample swaps the right pane between the text view and the diff view
func (a *app) showSample(idx int) {
	name := samples[idx].name
	a.status.Left = " loom-demo — " + name

	var body tui.Component
	if name == "diff demo" {
		a.diff.SetContent(
			"shared first line\nold middle line\nshared last line\n",
			"shared first line\nnew middle line\nan added line\nshared last line\n",
			"before", "after")
		body = a.diff
	} else {
		a.text.SetText(samples[idx].text)
		body = a.text
	}

	a.tree.Unmount(a.curID)
	a.curID, _ = a.tree.Mount(a.bodyID, body, tui.MountOpts{
		Constraint: tui.Fill(),
		Focusable:  true,
	})
}

func run() int {
	a := &app{theme: tui.DefaultTheme}

	eng := engine.New(a, engine.Options{
		MouseMode: terminal.MouseModeClick | terminal.MouseModeDrag,
		RootOpts:  tui.MountOpts{Axis: tui.Vertical},
	})
	a.eng = eng
	a.tree = eng.Tree()

	a.status = tui.NewStatusBar(" loom-demo", "Tab: focus  q: quit ")

	names := make([]string, len(samples))
	for i, s := range samples {
		names[i] = s.name
	}
	a.list = tui.NewList(names)
	a.list.OnSelect = a.showSample

	a.text = tui.NewTextView(samples[0].text)
	a.diff = tui.NewDiffView()

	root := a.tree.Root()
	a.tree.Mount(root, a.status, tui.MountOpts{Constraint: tui.Fixed(1)})

	mid, err := a.tree.Mount(root, tui.NewPanel(), tui.MountOpts{
		Constraint: tui.Fill(),
		Axis:       tui.Horizontal,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	listPanel, _ := a.tree.Mount(mid, tui.NewBorderedPanel("samples", tui.LineSingle), tui.MountOpts{
		Constraint: tui.Percent(30),
	})
	a.tree.Mount(listPanel, a.list, tui.MountOpts{
		Constraint: tui.Fill(),
		Focusable:  true,
	})

	a.bodyID, _ = a.tree.Mount(mid, tui.NewBorderedPanel("view", tui.LineSingle), tui.MountOpts{
		Constraint: tui.Fill(),
	})
	a.curID, _ = a.tree.Mount(a.bodyID, a.text, tui.MountOpts{
		Constraint: tui.Fill(),
		Focusable:  true,
	})

	bottom := tui.NewStatusBar(" ready", "")
	a.tree.Mount(root, bottom, tui.MountOpts{Constraint: tui.Fixed(1)})

	return eng.Run()
}

func main() {
	os.Exit(run())
}
