package tui

import "fmt"

// LayoutOverflowError records children claiming more space than their
// parent can give. Layout clips rather than overflows; the error is
// surfaced through Tree.LayoutErrors for non-fatal logging.
type LayoutOverflowError struct {
	Node      NodeID
	Axis      Axis
	Claimed   int
	Available int
}

func (e *LayoutOverflowError) Error() string {
	axis := "vertical"
	if e.Axis == Horizontal {
		axis = "horizontal"
	}
	return fmt.Sprintf("layout overflow at node %d: children claim %d cells of %d available (%s)",
		e.Node, e.Claimed, e.Available, axis)
}

// layout computes bounds for every node top-down from the recorded size
func (t *Tree) layout() {
	root, ok := t.nodes[t.root]
	if !ok {
		return
	}
	root.bounds = Rect{X: 0, Y: 0, W: t.width, H: t.height}
	t.layoutChildren(root)
}

// layoutChildren splits the parent's content area along its axis.
// Fixed children claim exact cells, percent children claim a share of the
// parent extent, fill children split the remainder equally with the
// integer remainder going to the first fill child in order. Children are
// clipped to the parent; claiming more than available records an overflow.
func (t *Tree) layoutChildren(p *node) {
	if len(p.children) == 0 {
		return
	}

	content := p.bounds
	if ins, ok := p.comp.(Insetter); ok {
		content = content.Inset(ins.ContentInset())
	}

	// Floating children bypass the split and cover the whole content area
	var flow []*node
	for _, cid := range p.children {
		c, ok := t.nodes[cid]
		if !ok {
			continue
		}
		if c.floating {
			c.bounds = content
			t.layoutChildren(c)
			continue
		}
		flow = append(flow, c)
	}
	if len(flow) == 0 {
		return
	}

	extent := content.W
	if p.axis == Vertical {
		extent = content.H
	}

	sizes := make([]int, len(flow))
	claimed := 0
	fills := 0
	for i, c := range flow {
		switch c.constraint.Kind {
		case ConstraintFixed:
			sizes[i] = max(c.constraint.Value, 0)
			claimed += sizes[i]
		case ConstraintPercent:
			sizes[i] = extent * c.constraint.Value / 100
			claimed += sizes[i]
		case ConstraintFill:
			fills++
		}
	}

	if claimed > extent {
		t.layoutErrs = append(t.layoutErrs, &LayoutOverflowError{
			Node:      p.id,
			Axis:      p.axis,
			Claimed:   claimed,
			Available: extent,
		})
	}

	remaining := max(extent-claimed, 0)
	if fills > 0 {
		share := remaining / fills
		extra := remaining % fills
		for i, c := range flow {
			if c.constraint.Kind != ConstraintFill {
				continue
			}
			sizes[i] = share
			if extra > 0 {
				sizes[i] += extra // First fill child absorbs the remainder
				extra = 0
			}
		}
	}

	// Place sequentially, clipping to the content area
	offset := 0
	for i, c := range flow {
		size := sizes[i]
		if offset >= extent {
			size = 0
		} else if offset+size > extent {
			size = extent - offset
		}

		if p.axis == Horizontal {
			c.bounds = Rect{X: content.X + offset, Y: content.Y, W: size, H: content.H}
		} else {
			c.bounds = Rect{X: content.X, Y: content.Y + offset, W: content.W, H: size}
		}
		offset += size

		t.layoutChildren(c)
	}
}
