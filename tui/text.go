package tui

import (
	"strings"

	"github.com/rivo/uniseg"
)

// RuneLen returns the display width of s in cells. Grapheme clusters are
// measured as units so combining marks and emoji count correctly.
func RuneLen(s string) int {
	return uniseg.StringWidth(s)
}

// Truncate truncates string with … suffix if it exceeds maxW display cells
func Truncate(s string, maxW int) string {
	if maxW <= 0 {
		return ""
	}
	if RuneLen(s) <= maxW {
		return s
	}
	if maxW <= 1 {
		return "…"
	}

	var b strings.Builder
	w := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		gw := g.Width()
		if w+gw > maxW-1 {
			break
		}
		b.WriteString(g.Str())
		w += gw
	}
	return b.String() + "…"
}

// TruncateLeft truncates with … prefix, keeps end of string
func TruncateLeft(s string, maxW int) string {
	if maxW <= 0 {
		return ""
	}
	total := RuneLen(s)
	if total <= maxW {
		return s
	}
	if maxW <= 1 {
		return "…"
	}

	// Skip graphemes from the front until the tail fits after the marker
	skip := total - (maxW - 1)
	var b strings.Builder
	skipped := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		if skipped < skip {
			skipped += g.Width()
			continue
		}
		b.WriteString(g.Str())
	}
	return "…" + b.String()
}

// PadRight pads string with spaces to width display cells
func PadRight(s string, width int) string {
	n := RuneLen(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// PadLeft left-pads string with spaces to width display cells
func PadLeft(s string, width int) string {
	n := RuneLen(s)
	if n >= width {
		return s
	}
	return strings.Repeat(" ", width-n) + s
}

// PadCenter centers string within width display cells
func PadCenter(s string, width int) string {
	n := RuneLen(s)
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}

// WrapText wraps text at word boundaries to fit width.
// Returns slice of lines, each no wider than width display cells.
func WrapText(s string, width int) []string {
	if width <= 0 {
		return nil
	}

	// Measure grapheme clusters so wide runes count double
	var segs []string
	var widths []int
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		segs = append(segs, g.Str())
		widths = append(widths, g.Width())
	}
	if len(segs) == 0 {
		return []string{""}
	}

	var lines []string
	lineStart := 0
	lastSpace := -1
	lineW := 0

	i := 0
	for i < len(segs) {
		if lineW+widths[i] > width && i > lineStart {
			wrapAt := i
			if lastSpace > lineStart {
				wrapAt = lastSpace
			}

			lines = append(lines, strings.Join(segs[lineStart:wrapAt], ""))

			// Skip the space at the wrap point
			if segs[wrapAt] == " " {
				lineStart = wrapAt + 1
			} else {
				lineStart = wrapAt
			}
			lastSpace = -1
			if i < lineStart {
				i = lineStart
			}
			lineW = 0
			for j := lineStart; j < i; j++ {
				lineW += widths[j]
			}
			continue
		}

		if segs[i] == " " {
			lastSpace = i
		}
		lineW += widths[i]
		i++
	}

	if lineStart < len(segs) {
		lines = append(lines, strings.Join(segs[lineStart:], ""))
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}

// RepeatRune returns a string of n repeated runes
func RepeatRune(r rune, n int) string {
	if n <= 0 {
		return ""
	}
	runes := make([]rune, n)
	for i := range runes {
		runes[i] = r
	}
	return string(runes)
}
