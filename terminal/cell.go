package terminal

import "github.com/mattn/go-runewidth"

// Attr represents text attributes (bitmask)
type Attr uint8

const (
	AttrNone      Attr = 0
	AttrBold      Attr = 1 << 0
	AttrDim       Attr = 1 << 1
	AttrItalic    Attr = 1 << 2
	AttrUnderline Attr = 1 << 3
	AttrBlink     Attr = 1 << 4
	AttrReverse   Attr = 1 << 5
)

// Cell represents a single terminal cell.
// A wide rune occupies two cells: the head cell carries the rune, the
// continuation cell carries Rune 0 with the same style. Rune 0 renders
// as a space.
type Cell struct {
	Rune  rune
	Fg    RGB
	Bg    RGB
	Attrs Attr
}

// RuneWidth returns the number of cells r occupies (0, 1 or 2)
func RuneWidth(r rune) int {
	return runewidth.RuneWidth(r)
}
