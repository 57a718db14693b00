package terminal

import (
	"bufio"
	"io"
)

// writer emits diff ops as ANSI sequences with cursor and style coalescing.
// Cursor position and last-emitted style are tracked so that runs of
// adjacent cells with identical style cost one SGR and zero cursor moves.
type writer struct {
	out       *bufio.Writer
	colorMode ColorMode

	cursorX     int
	cursorY     int
	cursorValid bool

	lastFg    RGB
	lastBg    RGB
	lastAttr  Attr
	lastValid bool
}

func newWriter(w io.Writer, colorMode ColorMode) *writer {
	return &writer{
		out:       bufio.NewWriterSize(w, 131072), // 128KB buffer
		colorMode: colorMode,
	}
}

// emit writes diff ops (row-major order assumed) and flushes.
// Returns the underlying I/O error, if any.
func (w *writer) emit(ops []DiffOp) error {
	// Continuation cell already covered by the wide rune written for the
	// preceding op; writing anything there would erase the glyph's right half
	contX, contY := -1, -1

	for _, op := range ops {
		if op.Cell.Rune == 0 && op.X == contX && op.Y == contY {
			continue
		}

		// Position cursor only when not already there
		if !w.cursorValid || op.X != w.cursorX || op.Y != w.cursorY {
			// Forward movement on the same row is cheaper than absolute
			if w.cursorValid && op.Y == w.cursorY && op.X > w.cursorX {
				writeCursorForward(w.out, op.X-w.cursorX)
			} else {
				writeCursorPos(w.out, op.X, op.Y)
			}
			w.cursorX = op.X
			w.cursorY = op.Y
			w.cursorValid = true
		}

		w.writeStyle(op.Cell.Fg, op.Cell.Bg, op.Cell.Attrs)

		r := op.Cell.Rune
		if r == 0 {
			r = ' '
		}
		if r < 0x80 {
			w.out.WriteByte(byte(r))
		} else {
			w.out.WriteRune(r)
		}

		width := max(RuneWidth(r), 1)
		if width == 2 {
			contX, contY = op.X+1, op.Y
		}
		w.cursorX += width
	}

	if len(ops) > 0 {
		w.out.Write(csiSGR0)
		w.lastValid = false
	}
	return w.out.Flush()
}

// writeStyle emits the minimal SGR sequence for a style change
func (w *writer) writeStyle(fg, bg RGB, attr Attr) {
	fgChanged := !w.lastValid || fg != w.lastFg
	bgChanged := !w.lastValid || bg != w.lastBg
	attrChanged := !w.lastValid || attr != w.lastAttr

	if !fgChanged && !bgChanged && !attrChanged {
		return
	}

	if attrChanged {
		// Attributes can only be dropped via reset, so rebuild everything
		w.writeFullStyle(fg, bg, attr)
	} else if fgChanged && bgChanged {
		w.out.Write(csi)
		w.writeFgParamsBare(fg)
		w.out.WriteByte(';')
		w.writeBgParamsBare(bg)
		w.out.WriteByte('m')
	} else if fgChanged {
		w.writeFgFull(fg)
	} else {
		w.writeBgFull(bg)
	}

	w.lastFg = fg
	w.lastBg = bg
	w.lastAttr = attr
	w.lastValid = true
}

// writeFullStyle emits reset + attributes + colors as one sequence
func (w *writer) writeFullStyle(fg, bg RGB, attr Attr) {
	w.out.Write(csi)
	w.out.WriteByte('0')
	if attr&AttrBold != 0 {
		w.out.Write([]byte(";1"))
	}
	if attr&AttrDim != 0 {
		w.out.Write([]byte(";2"))
	}
	if attr&AttrItalic != 0 {
		w.out.Write([]byte(";3"))
	}
	if attr&AttrUnderline != 0 {
		w.out.Write([]byte(";4"))
	}
	if attr&AttrBlink != 0 {
		w.out.Write([]byte(";5"))
	}
	if attr&AttrReverse != 0 {
		w.out.Write([]byte(";7"))
	}
	w.out.WriteByte(';')
	w.writeFgParamsBare(fg)
	w.out.WriteByte(';')
	w.writeBgParamsBare(bg)
	w.out.WriteByte('m')
}

// writeFgParamsBare writes fg color parameters (no CSI prefix, no suffix)
func (w *writer) writeFgParamsBare(fg RGB) {
	if w.colorMode == ColorModeTrueColor {
		w.out.Write([]byte("38;2;"))
		writeInt(w.out, int(fg.R))
		w.out.WriteByte(';')
		writeInt(w.out, int(fg.G))
		w.out.WriteByte(';')
		writeInt(w.out, int(fg.B))
	} else {
		w.out.Write([]byte("38;5;"))
		writeInt(w.out, int(RGBTo256(fg)))
	}
}

// writeBgParamsBare writes bg color parameters (no CSI prefix, no suffix)
func (w *writer) writeBgParamsBare(bg RGB) {
	if w.colorMode == ColorModeTrueColor {
		w.out.Write([]byte("48;2;"))
		writeInt(w.out, int(bg.R))
		w.out.WriteByte(';')
		writeInt(w.out, int(bg.G))
		w.out.WriteByte(';')
		writeInt(w.out, int(bg.B))
	} else {
		w.out.Write([]byte("48;5;"))
		writeInt(w.out, int(RGBTo256(bg)))
	}
}

// writeFgFull writes a complete fg color sequence
func (w *writer) writeFgFull(fg RGB) {
	w.out.Write(csi)
	w.writeFgParamsBare(fg)
	w.out.WriteByte('m')
}

// writeBgFull writes a complete bg color sequence
func (w *writer) writeBgFull(bg RGB) {
	w.out.Write(csi)
	w.writeBgParamsBare(bg)
	w.out.WriteByte('m')
}

// clear writes a clear screen with the specified background
func (w *writer) clear(bg RGB) error {
	w.out.Write(csiSGR0)
	w.writeBgFull(bg)
	w.out.Write(csiClear)
	w.lastValid = false
	w.cursorValid = false
	return w.out.Flush()
}

// invalidate marks cursor and style state as unknown
func (w *writer) invalidate() {
	w.lastValid = false
	w.cursorValid = false
}
