package terminal

// Buffer is a row-major grid of cells representing one composed screen.
// The runtime holds two: the front buffer mirroring what the terminal
// currently displays, and the next buffer being composed.
type Buffer struct {
	cells []Cell
	w, h  int
}

// NewBuffer creates a buffer of the given dimensions filled with spaces
func NewBuffer(w, h int) *Buffer {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	b := &Buffer{w: w, h: h}
	b.cells = make([]Cell, w*h)
	b.Fill(Cell{Rune: ' '})
	return b
}

// Size returns buffer dimensions
func (b *Buffer) Size() (w, h int) {
	return b.w, b.h
}

// At returns the cell at (x, y); out-of-bounds reads return a space cell
func (b *Buffer) At(x, y int) Cell {
	if x < 0 || x >= b.w || y < 0 || y >= b.h {
		return Cell{Rune: ' '}
	}
	return b.cells[y*b.w+x]
}

// Set writes a cell at (x, y); out-of-bounds writes are dropped
func (b *Buffer) Set(x, y int, c Cell) {
	if x < 0 || x >= b.w || y < 0 || y >= b.h {
		return
	}
	b.cells[y*b.w+x] = c
}

// Fill sets every cell
func (b *Buffer) Fill(c Cell) {
	for i := range b.cells {
		b.cells[i] = c
	}
}

// SetString writes s at (x, y) with the given style, returns cells advanced.
// Wide runes emit a continuation cell after the head cell.
func (b *Buffer) SetString(x, y int, s string, fg, bg RGB, attrs Attr) int {
	col := x
	for _, r := range s {
		w := RuneWidth(r)
		if w == 0 {
			continue
		}
		b.Set(col, y, Cell{Rune: r, Fg: fg, Bg: bg, Attrs: attrs})
		if w == 2 {
			b.Set(col+1, y, Cell{Rune: 0, Fg: fg, Bg: bg, Attrs: attrs})
		}
		col += w
	}
	return col - x
}

// Resize changes dimensions, preserving overlapping content
func (b *Buffer) Resize(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	if w == b.w && h == b.h {
		return
	}

	cells := make([]Cell, w*h)
	for i := range cells {
		cells[i] = Cell{Rune: ' '}
	}

	copyW := min(w, b.w)
	copyH := min(h, b.h)
	for y := 0; y < copyH; y++ {
		copy(cells[y*w:y*w+copyW], b.cells[y*b.w:y*b.w+copyW])
	}

	b.cells = cells
	b.w = w
	b.h = h
}

// CopyFrom makes b an exact copy of src
func (b *Buffer) CopyFrom(src *Buffer) {
	if b.w != src.w || b.h != src.h {
		b.w = src.w
		b.h = src.h
		b.cells = make([]Cell, len(src.cells))
	}
	copy(b.cells, src.cells)
}

// Clone returns an independent copy
func (b *Buffer) Clone() *Buffer {
	c := &Buffer{w: b.w, h: b.h, cells: make([]Cell, len(b.cells))}
	copy(c.cells, b.cells)
	return c
}

// DiffOp is one minimal write instruction: replace the cell at (X, Y)
type DiffOp struct {
	X, Y int
	Cell Cell
}

// Diff compares prev and next cell-by-cell and returns the ops that
// transform prev into next, in row-major order so cursor movement can be
// coalesced during emission. Buffers of different dimensions produce a
// full rewrite of next.
func Diff(prev, next *Buffer) []DiffOp {
	if prev.w != next.w || prev.h != next.h {
		ops := make([]DiffOp, 0, len(next.cells))
		for y := 0; y < next.h; y++ {
			for x := 0; x < next.w; x++ {
				ops = append(ops, DiffOp{X: x, Y: y, Cell: next.cells[y*next.w+x]})
			}
		}
		return ops
	}

	var ops []DiffOp
	for y := 0; y < next.h; y++ {
		row := y * next.w
		for x := 0; x < next.w; x++ {
			if prev.cells[row+x] != next.cells[row+x] {
				c := next.cells[row+x]
				// A continuation cell cannot be redrawn alone: include its
				// head so the emitter rewrites the glyph whole
				if c.Rune == 0 && x > 0 && RuneWidth(next.cells[row+x-1].Rune) == 2 {
					if n := len(ops); n == 0 || ops[n-1].Y != y || ops[n-1].X != x-1 {
						ops = append(ops, DiffOp{X: x - 1, Y: y, Cell: next.cells[row+x-1]})
					}
				}
				ops = append(ops, DiffOp{X: x, Y: y, Cell: c})
			}
		}
	}
	return ops
}

// Apply replays diff ops onto b. Applying Diff(a, b) to a yields b exactly.
func (b *Buffer) Apply(ops []DiffOp) {
	for _, op := range ops {
		b.Set(op.X, op.Y, op.Cell)
	}
}
