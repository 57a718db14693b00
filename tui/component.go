package tui

import "github.com/lixenwraith/loom/terminal"

// Component is anything that can occupy a tree node. Render paints into
// the region computed by layout; HandleEvent returns true when the event
// was consumed (stopping bubbling and marking the node dirty).
type Component interface {
	Render(r Region)
	HandleEvent(ev terminal.Event) bool
}

// NodeID identifies a mounted node. Zero is never a valid id.
type NodeID uint32

// Axis is the direction a container lays out its children
type Axis uint8

const (
	Vertical Axis = iota
	Horizontal
)

// ConstraintKind discriminates sizing constraints
type ConstraintKind uint8

const (
	ConstraintFill ConstraintKind = iota
	ConstraintFixed
	ConstraintPercent
)

// Constraint declares how much of the parent's extent (along the parent's
// axis) a child claims. The zero value is Fill.
type Constraint struct {
	Kind  ConstraintKind
	Value int
}

// Fixed claims an exact number of cells
func Fixed(cells int) Constraint {
	return Constraint{Kind: ConstraintFixed, Value: cells}
}

// Percent claims p percent of the parent extent
func Percent(p int) Constraint {
	return Constraint{Kind: ConstraintPercent, Value: p}
}

// Fill claims an equal share of whatever remains after fixed and percent
// siblings are placed
func Fill() Constraint {
	return Constraint{Kind: ConstraintFill}
}

// MountOpts configures node placement at mount time
type MountOpts struct {
	Constraint Constraint
	Axis       Axis // Layout direction for this node's children
	Z          int  // Paint order; higher paints later (on top)
	Focusable  bool

	// Floating nodes are excluded from the parent's axis split and
	// receive the parent's full content area. Overlays (dialogs, toasts)
	// mount floating with a higher Z.
	Floating bool
}

// Insetter lets a container component reserve border/padding space;
// children are laid out inside the inset area
type Insetter interface {
	ContentInset() int
}

// Rect is a computed node bound in buffer coordinates
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the point (x, y) falls inside the rect
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Inset returns the rect shrunk by n on all sides, floored at zero size
func (r Rect) Inset(n int) Rect {
	r.X += n
	r.Y += n
	r.W -= 2 * n
	r.H -= 2 * n
	if r.W < 0 {
		r.W = 0
	}
	if r.H < 0 {
		r.H = 0
	}
	return r
}
