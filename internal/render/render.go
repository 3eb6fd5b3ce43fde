// Package render builds the escape-code frame that redraws the visible
// region of the viewport. Each refresh produces a single byte buffer so the
// terminal sees exactly one write per cycle; the buffer's capacity is reused
// across refreshes.
package render

import (
	"bytes"
	"io"
	"strconv"

	"github.com/zjrosen/loupe/internal/textbuf"
	"github.com/zjrosen/loupe/internal/viewport"
)

// Control sequences on the wire. These exact bytes are the output contract,
// so they live here as named constants rather than behind a builder.
const (
	hideCursor = "\x1b[?25l"
	showCursor = "\x1b[?25h"
	cursorHome = "\x1b[1;1H"
	clearLine  = "\x1b[K"

	// ClearScreen wipes the whole display. Emitted only once, when the
	// session ends and the user's screen is restored.
	ClearScreen = "\x1b[2J"
)

// DefaultFiller marks rows past the end of the buffer.
const DefaultFiller = byte('~')

// Renderer owns the reused frame buffer. It reads model and text state and
// never mutates either.
type Renderer struct {
	buf    bytes.Buffer
	filler byte
}

// New returns a renderer using filler for rows below the last line of text.
// A zero filler falls back to DefaultFiller.
func New(filler byte) *Renderer {
	if filler == 0 {
		filler = DefaultFiller
	}
	return &Renderer{filler: filler}
}

// Refresh writes one complete frame to w: hide cursor, home, every visible
// rendered row preceded by its clear code, filler rows for the remainder,
// cursor reposition, show cursor. No line break follows the final row, which
// keeps the terminal from auto-scrolling.
func (r *Renderer) Refresh(w io.Writer, m *viewport.Model, buf *textbuf.Buffer) error {
	r.buf.Reset()
	r.buf.WriteString(hideCursor)
	r.buf.WriteString(cursorHome)

	width := m.Width()
	height := m.Height()

	rows := m.VisibleRows(func(row, line, start int) {
		if row > 0 {
			r.buf.WriteString("\r\n")
		}
		r.buf.WriteString(clearLine)
		text := buf.Line(line)
		end := start + width
		if end > len(text) {
			end = len(text)
		}
		if start < end {
			r.buf.WriteString(text[start:end])
		}
	})

	for row := rows; row < height; row++ {
		if row > 0 {
			r.buf.WriteString("\r\n")
		}
		r.buf.WriteString(clearLine)
		r.buf.WriteByte(r.filler)
	}

	pos := m.Cursor().Pos
	r.buf.WriteString(moveTo(pos.Row, pos.Col))
	r.buf.WriteString(showCursor)

	_, err := w.Write(r.buf.Bytes())
	return err
}

// moveTo builds the absolute positioning sequence for a zero-based screen
// position; the wire coordinates are 1-based.
func moveTo(row, col int) string {
	return "\x1b[" + strconv.Itoa(row+1) + ";" + strconv.Itoa(col+1) + "H"
}
