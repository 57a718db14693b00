package tui

import "github.com/lixenwraith/loom/terminal"

// Region represents a rectangular drawing area within a cell buffer.
// All coordinates are relative to the region's origin; writes outside
// the region bounds are dropped.
type Region struct {
	buf  *terminal.Buffer
	X, Y int // Absolute position in the buffer
	W, H int // Region dimensions
}

// NewRegion returns a region covering the whole buffer
func NewRegion(buf *terminal.Buffer) Region {
	w, h := buf.Size()
	return Region{buf: buf, W: w, H: h}
}

// Sub returns a nested region with coordinates relative to parent,
// clipped to parent bounds
func (r Region) Sub(x, y, w, h int) Region {
	if x < 0 {
		w += x
		x = 0
	}
	if y < 0 {
		h += y
		y = 0
	}
	if x+w > r.W {
		w = r.W - x
	}
	if y+h > r.H {
		h = r.H - y
	}
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}

	return Region{
		buf: r.buf,
		X:   r.X + x,
		Y:   r.Y + y,
		W:   w,
		H:   h,
	}
}

// Inset returns a region shrunk by n cells on all sides
func (r Region) Inset(n int) Region {
	return r.Sub(n, n, r.W-2*n, r.H-2*n)
}

// Cell sets a single cell with bounds checking
func (r Region) Cell(x, y int, ch rune, fg, bg terminal.RGB, attr terminal.Attr) {
	if x < 0 || x >= r.W || y < 0 || y >= r.H {
		return
	}
	r.buf.Set(r.X+x, r.Y+y, terminal.Cell{Rune: ch, Fg: fg, Bg: bg, Attrs: attr})
}

// Fill fills the entire region with background color
func (r Region) Fill(bg terminal.RGB) {
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			r.Cell(x, y, ' ', terminal.RGB{}, bg, terminal.AttrNone)
		}
	}
}

// Clear fills region with spaces and zero colors
func (r Region) Clear() {
	r.Fill(terminal.RGB{})
}

// Width returns region width
func (r Region) Width() int {
	return r.W
}

// Height returns region height
func (r Region) Height() int {
	return r.H
}

// Bounds returns absolute position and dimensions
func (r Region) Bounds() (x, y, w, h int) {
	return r.X, r.Y, r.W, r.H
}

// Text renders text at position, truncated at the region edge.
// Wide runes occupy two cells; the continuation cell carries Rune 0.
func (r Region) Text(x, y int, s string, fg, bg terminal.RGB, attr terminal.Attr) {
	if y < 0 || y >= r.H {
		return
	}
	col := x
	for _, ch := range s {
		w := terminal.RuneWidth(ch)
		if w == 0 {
			continue
		}
		if col+w > r.W {
			break
		}
		if col >= 0 {
			r.Cell(col, y, ch, fg, bg, attr)
			if w == 2 {
				r.Cell(col+1, y, 0, fg, bg, attr)
			}
		}
		col += w
	}
}

// TextStyled renders text using a Style bundle
func (r Region) TextStyled(x, y int, s string, st Style) {
	r.Text(x, y, s, st.Fg, st.Bg, st.Attr)
}

// TextRight renders text right-aligned on row
func (r Region) TextRight(y int, s string, fg, bg terminal.RGB, attr terminal.Attr) {
	r.Text(r.W-RuneLen(s), y, s, fg, bg, attr)
}

// TextCenter renders text centered on row
func (r Region) TextCenter(y int, s string, fg, bg terminal.RGB, attr terminal.Attr) {
	r.Text((r.W-RuneLen(s))/2, y, s, fg, bg, attr)
}
