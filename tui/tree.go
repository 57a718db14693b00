package tui

import (
	"fmt"

	"github.com/lixenwraith/loom/terminal"
)

// node is one arena entry. Relations are ids, never pointers, so removal
// cannot leave dangling references.
type node struct {
	id       NodeID
	parent   NodeID
	children []NodeID

	comp       Component
	constraint Constraint
	axis       Axis
	z          int
	focusable  bool
	floating   bool

	bounds Rect
	seq    uint64 // Mount order, breaks z ties
}

// Tree owns the component arena, focus ring and computed layout.
// All methods must be called from the goroutine that owns the tree.
type Tree struct {
	nodes  map[NodeID]*node
	root   NodeID
	nextID NodeID
	seq    uint64

	ring    []NodeID // Focusable nodes in mount order
	focused NodeID   // 0 = nothing focused

	width, height int
	dirty         bool
	needLayout    bool
	layoutErrs    []error
}

// NewTree creates a tree with root mounted as the outermost container
func NewTree(root Component, opts MountOpts) *Tree {
	t := &Tree{
		nodes:  make(map[NodeID]*node),
		nextID: 1,
	}
	id := t.nextID
	t.nextID++
	t.seq++
	t.nodes[id] = &node{
		id:         id,
		comp:       root,
		constraint: opts.Constraint,
		axis:       opts.Axis,
		z:          opts.Z,
		focusable:  opts.Focusable,
		floating:   opts.Floating,
		seq:        t.seq,
	}
	t.root = id
	if opts.Focusable {
		t.ring = append(t.ring, id)
	}
	t.dirty = true
	t.needLayout = true
	return t
}

// Root returns the root node id
func (t *Tree) Root() NodeID {
	return t.root
}

// Mount attaches a component under parent and returns its node id
func (t *Tree) Mount(parent NodeID, c Component, opts MountOpts) (NodeID, error) {
	p, ok := t.nodes[parent]
	if !ok {
		return 0, fmt.Errorf("mount: parent node %d does not exist", parent)
	}

	id := t.nextID
	t.nextID++
	t.seq++
	n := &node{
		id:         id,
		parent:     parent,
		comp:       c,
		constraint: opts.Constraint,
		axis:       opts.Axis,
		z:          opts.Z,
		focusable:  opts.Focusable,
		floating:   opts.Floating,
		seq:        t.seq,
	}
	t.nodes[id] = n
	p.children = append(p.children, id)

	if opts.Focusable {
		t.ring = append(t.ring, id)
		if t.focused == 0 {
			t.focused = id
		}
	}

	t.dirty = true
	t.needLayout = true
	return id, nil
}

// Unmount removes a node and its entire subtree. Focus moves off any
// removed node; removing the root empties the tree.
func (t *Tree) Unmount(id NodeID) {
	n, ok := t.nodes[id]
	if !ok {
		return
	}

	if p, ok := t.nodes[n.parent]; ok {
		for i, c := range p.children {
			if c == id {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
	}

	t.removeSubtree(id)
	if id == t.root {
		t.root = 0
	}

	t.dirty = true
	t.needLayout = true
}

func (t *Tree) removeSubtree(id NodeID) {
	n, ok := t.nodes[id]
	if !ok {
		return
	}
	for _, c := range n.children {
		t.removeSubtree(c)
	}

	for i, rid := range t.ring {
		if rid == id {
			t.ring = append(t.ring[:i], t.ring[i+1:]...)
			break
		}
	}
	if t.focused == id {
		t.focused = 0
		if len(t.ring) > 0 {
			t.focused = t.ring[0]
		}
	}

	delete(t.nodes, id)
}

// SetSize records the terminal size and forces a relayout
func (t *Tree) SetSize(w, h int) {
	if w == t.width && h == t.height {
		return
	}
	t.width = w
	t.height = h
	t.needLayout = true
	t.dirty = true
}

// Size returns the last recorded terminal size
func (t *Tree) Size() (w, h int) {
	return t.width, t.height
}

// NodeBounds returns the computed bounds of a node after layout
func (t *Tree) NodeBounds(id NodeID) (Rect, bool) {
	n, ok := t.nodes[id]
	if !ok {
		return Rect{}, false
	}
	return n.bounds, true
}

// Focused returns the currently focused node id, 0 if none
func (t *Tree) Focused() NodeID {
	return t.focused
}

// SetFocus moves focus to a focusable node
func (t *Tree) SetFocus(id NodeID) error {
	n, ok := t.nodes[id]
	if !ok {
		return fmt.Errorf("focus: node %d does not exist", id)
	}
	if !n.focusable {
		return fmt.Errorf("focus: node %d is not focusable", id)
	}
	if t.focused != id {
		t.focused = id
		t.dirty = true
	}
	return nil
}

// FocusNext advances focus through the ring in mount order, wrapping.
// No-op when nothing is focusable.
func (t *Tree) FocusNext() {
	t.cycleFocus(1)
}

// FocusPrev moves focus backwards through the ring, wrapping
func (t *Tree) FocusPrev() {
	t.cycleFocus(-1)
}

func (t *Tree) cycleFocus(dir int) {
	if len(t.ring) == 0 {
		return
	}

	idx := -1
	for i, id := range t.ring {
		if id == t.focused {
			idx = i
			break
		}
	}
	if idx < 0 {
		t.focused = t.ring[0]
	} else {
		idx = (idx + dir + len(t.ring)) % len(t.ring)
		t.focused = t.ring[idx]
	}
	t.dirty = true
}

// Dispatch routes an event through the tree and returns whether any
// component consumed it. Consuming marks the node dirty.
func (t *Tree) Dispatch(ev terminal.Event) bool {
	switch ev.Type {
	case terminal.EventResize:
		t.SetSize(ev.Width, ev.Height)
		return true

	case terminal.EventMouse:
		return t.dispatchMouse(ev)

	default:
		return t.dispatchFocused(ev)
	}
}

// dispatchFocused delivers to the focused node, then bubbles through its
// ancestors to the root. With nothing focused the root alone sees it.
func (t *Tree) dispatchFocused(ev terminal.Event) bool {
	start := t.focused
	if start == 0 {
		start = t.root
	}

	for id := start; id != 0; {
		n, ok := t.nodes[id]
		if !ok {
			break
		}
		if n.comp != nil && n.comp.HandleEvent(ev) {
			t.dirty = true
			return true
		}
		if id == t.root {
			break
		}
		id = n.parent
	}
	return false
}

// dispatchMouse hit-tests by computed bounds in descending z (later mount
// wins ties), transfers focus to focusable hits, and delivers the event
// with coordinates translated to the target's local space. Unconsumed
// events bubble to ancestors.
func (t *Tree) dispatchMouse(ev terminal.Event) bool {
	order := t.paintOrder()

	var hit *node
	for i := len(order) - 1; i >= 0; i-- {
		if order[i].bounds.Contains(ev.MouseX, ev.MouseY) {
			hit = order[i]
			break
		}
	}
	if hit == nil {
		return false
	}

	if hit.focusable && ev.MouseAction == terminal.MouseActionPress {
		if t.focused != hit.id {
			t.focused = hit.id
			t.dirty = true
		}
	}

	for id := hit.id; id != 0; {
		n, ok := t.nodes[id]
		if !ok {
			break
		}
		local := ev
		local.MouseX = ev.MouseX - n.bounds.X
		local.MouseY = ev.MouseY - n.bounds.Y
		if n.comp != nil && n.comp.HandleEvent(local) {
			t.dirty = true
			return true
		}
		if id == t.root {
			break
		}
		id = n.parent
	}
	return false
}

// Invalidate marks the tree dirty on behalf of an externally mutated node
func (t *Tree) Invalidate(id NodeID) {
	if _, ok := t.nodes[id]; ok {
		t.dirty = true
	}
}

// ConsumeDirty returns whether a render is needed and clears the flag
func (t *Tree) ConsumeDirty() bool {
	d := t.dirty
	t.dirty = false
	return d
}

// LayoutErrors returns overflow errors recorded by the last layout pass
// and clears them
func (t *Tree) LayoutErrors() []error {
	errs := t.layoutErrs
	t.layoutErrs = nil
	return errs
}

// Compose lays out (if needed) and paints the tree into buf in ascending
// z-order, stable by mount order, so overlays mounted later win
// overlapping cells.
func (t *Tree) Compose(buf *terminal.Buffer) {
	if t.root == 0 {
		return
	}

	if t.needLayout {
		t.layout()
		t.needLayout = false
	}

	full := NewRegion(buf)
	for _, n := range t.paintOrder() {
		if n.comp == nil || n.bounds.W <= 0 || n.bounds.H <= 0 {
			continue
		}
		r := full.Sub(n.bounds.X, n.bounds.Y, n.bounds.W, n.bounds.H)
		n.comp.Render(r)
	}
}

// paintOrder returns nodes in ascending z, stable by DFS preorder
func (t *Tree) paintOrder() []*node {
	var order []*node
	t.collectPreorder(t.root, &order)

	// Insertion sort keeps the preorder stable within equal z; trees are
	// small enough that this beats allocating sort closures
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && order[j].z < order[j-1].z; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
	return order
}

func (t *Tree) collectPreorder(id NodeID, out *[]*node) {
	n, ok := t.nodes[id]
	if !ok {
		return
	}
	*out = append(*out, n)
	for _, c := range n.children {
		t.collectPreorder(c, out)
	}
}
