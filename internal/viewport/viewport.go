// Package viewport owns the coordinate-mapping core of the viewer: the
// window dimensions, the scroll origin, and the cursor addressed both in
// screen coordinates and in logical (line, byte) coordinates.
//
// A logical line wraps into ceil(len/width) rendered rows (minimum one, so
// an empty line still occupies a row, and an exact-multiple length gets no
// trailing empty row). Every navigation operation either moves the cursor
// within the window or scrolls the origin by one rendered row, never both
// ambiguously; after any operation the cursor's row lies in [0, height).
package viewport

import (
	"github.com/zjrosen/loupe/internal/textbuf"
)

// Position is a zero-based screen coordinate. (0,0) is the top-left visible
// cell.
type Position struct {
	Col int
	Row int
}

// Cursor tracks the caret in both coordinate systems. Byte is the offset
// within its Line; AtEOL records that the cursor sits on the last occupied
// column of its rendered row and should stick to row ends across vertical
// moves through rows of differing length.
type Cursor struct {
	Pos   Position
	Line  int
	Byte  int
	AtEOL bool
}

// Model is the viewport/cursor state machine. All mutation happens through
// its navigation methods; the text buffer is read-only from here.
type Model struct {
	buf    *textbuf.Buffer
	width  int
	height int

	cursor Cursor

	// lineOffset is the first line at least partially visible;
	// lineOffsetByte is the wrap boundary within it where rendering starts
	// (always a multiple of width, 0 unless the top row is a continuation).
	lineOffset     int
	lineOffsetByte int
}

// New returns a model over buf in a zeroed state. Call SetSize before the
// first render.
func New(buf *textbuf.Buffer) *Model {
	return &Model{buf: buf}
}

// Cursor returns a copy of the current cursor state.
func (m *Model) Cursor() Cursor { return m.cursor }

// Width returns the window width in cells.
func (m *Model) Width() int { return m.width }

// Height returns the window height in rows.
func (m *Model) Height() int { return m.height }

// LineOffset returns the index of the first visible line.
func (m *Model) LineOffset() int { return m.lineOffset }

// LineOffsetByte returns the render start byte within the first visible line.
func (m *Model) LineOffsetByte() int { return m.lineOffsetByte }

// SetSize refreshes the window dimensions and reconciles the scroll origin
// and cursor with them. Dimensions are re-queried before every render, so
// this runs once per refresh cycle and is cheap when nothing changed.
func (m *Model) SetSize(width, height int) {
	if width == m.width && height == m.height {
		return
	}
	m.width = width
	m.height = height
	m.reconcile()
}

// RowSpan reports how many rendered rows a line of byteLen bytes occupies at
// width w: max(1, ceil(byteLen/w)).
func RowSpan(byteLen, w int) int {
	if w <= 0 || byteLen <= 0 {
		return 1
	}
	return (byteLen + w - 1) / w
}

// lastRowStart is the start byte of the final rendered row of a line of
// length l. Exact multiples of the width end on a full row, not an empty one.
func (m *Model) lastRowStart(l int) int {
	if l <= 0 {
		return 0
	}
	return (l - 1) / m.width * m.width
}

// rowStart is the wrap boundary at or before byte b.
func (m *Model) rowStart(b int) int {
	return b / m.width * m.width
}

// endOfRow is the column of the last occupied cell of the row starting at
// start within a line of length l, 0 for an empty line.
func (m *Model) endOfRow(l, start int) int {
	if l <= 0 {
		return 0
	}
	e := l - start
	if e > m.width {
		e = m.width
	}
	return e - 1
}

// land places the cursor on the row [start, start+width) of a line of length
// l, applying the end-of-row-vs-preserve-column rule: a sticky end-of-line
// cursor snaps to the row's last occupied column, a column past the row's
// end clamps there and becomes sticky, anything else keeps its column.
func (m *Model) land(l, start int) {
	c := &m.cursor
	e := m.endOfRow(l, start)
	if c.AtEOL {
		c.Pos.Col = e
	} else if c.Pos.Col > e {
		c.Pos.Col = e
		c.AtEOL = true
	}
	if l == 0 {
		c.Pos.Col = 0
		c.Byte = 0
		return
	}
	c.Byte = start + c.Pos.Col
}

// CursorLeft moves one cell left within the current row. At column 0 it is a
// no-op: this core does not wrap back across rows.
func (m *Model) CursorLeft() {
	c := &m.cursor
	if c.Pos.Col == 0 {
		return
	}
	c.Pos.Col--
	c.Byte--
	c.AtEOL = false
}

// CursorRight moves one cell right, stopping at the line's last byte and at
// the row's last column (no wrap-forward).
func (m *Model) CursorRight() {
	c := &m.cursor
	l := m.buf.LineLen(c.Line)
	if l == 0 || c.Byte+1 >= l {
		return
	}
	if c.Pos.Col+1 >= m.width {
		return
	}
	c.Pos.Col++
	c.Byte++
	c.AtEOL = c.Pos.Col == m.endOfRow(l, m.rowStart(c.Byte))
}

// CursorUp moves the cursor one rendered row up, scrolling first when it
// already sits on the top row. Within a wrapped line the byte offset shifts
// back exactly one row width; crossing onto the previous line lands on that
// line's last rendered row under the end-of-row-vs-preserve-column rule.
func (m *Model) CursorUp() {
	c := &m.cursor
	if c.Byte < m.width && c.Line == 0 {
		return
	}
	if c.Pos.Row == 0 {
		if !m.ScrollUp() {
			return
		}
		c.Pos.Row++
	}
	if c.Byte >= m.width {
		c.Byte -= m.width
		c.Pos.Row--
		// The row above is a full row; only its last column is an end.
		c.AtEOL = c.Pos.Col == m.width-1
		return
	}
	c.Line--
	c.Pos.Row--
	l := m.buf.LineLen(c.Line)
	m.land(l, m.lastRowStart(l))
}

// CursorDown mirrors CursorUp: scroll first on the bottom row, advance one
// wrapped row while bytes remain in the current line, otherwise land on the
// next line's first row.
func (m *Model) CursorDown() {
	c := &m.cursor
	l := m.buf.LineLen(c.Line)
	start := m.rowStart(c.Byte)
	withinLine := start+m.width < l
	if !withinLine && c.Line+1 >= m.buf.Len() {
		return
	}
	if c.Pos.Row == m.height-1 {
		if !m.ScrollDown() {
			return
		}
		c.Pos.Row--
	}
	c.Pos.Row++
	if withinLine {
		m.land(l, start+m.width)
		return
	}
	c.Line++
	m.land(m.buf.LineLen(c.Line), 0)
}

// PageUp moves up by at most one full screen, never past the first row of
// the buffer. The repetition count spans the rows from the cursor up to and
// including the top row, so a full-screen PageDown is undone exactly.
func (m *Model) PageUp() {
	n := min(m.height, m.cursor.Pos.Row+1)
	for i := 0; i < n; i++ {
		m.CursorUp()
	}
}

// PageDown moves down by at most one full screen, bounded by the lines that
// remain below the cursor.
func (m *Model) PageDown() {
	n := min(m.height, m.buf.Len()-1-m.cursor.Line)
	for i := 0; i < n; i++ {
		m.CursorDown()
	}
}

// Home jumps to the very start of the buffer.
func (m *Model) Home() {
	m.lineOffset = 0
	m.lineOffsetByte = 0
	m.cursor = Cursor{}
}

// End jumps to the last full screen of the buffer, placing the cursor at the
// first column of the bottom visible row.
func (m *Model) End() {
	m.lineOffset = m.buf.Len() - m.height
	if m.lineOffset < 0 {
		m.lineOffset = 0
	}
	m.lineOffsetByte = 0
	line, start, row := m.walkRows(m.height - 1)
	m.cursor = Cursor{Pos: Position{Col: 0, Row: row}, Line: line, Byte: start}
}

// ScrollUp moves the render origin one rendered row up. It never moves the
// cursor's screen position; callers keep that consistent. Reports whether
// the origin moved.
func (m *Model) ScrollUp() bool {
	if m.lineOffsetByte > 0 {
		m.lineOffsetByte -= m.width
		return true
	}
	if m.lineOffset > 0 {
		m.lineOffset--
		m.lineOffsetByte = m.lastRowStart(m.buf.LineLen(m.lineOffset))
		return true
	}
	return false
}

// ScrollDown moves the render origin one rendered row down. Reports whether
// the origin moved.
func (m *Model) ScrollDown() bool {
	if m.lineOffsetByte+m.width < m.buf.LineLen(m.lineOffset) {
		m.lineOffsetByte += m.width
		return true
	}
	if m.lineOffset+1 < m.buf.Len() {
		m.lineOffset++
		m.lineOffsetByte = 0
		return true
	}
	return false
}

// VisibleRows walks the wrap grid from the render origin and reports each
// visible rendered row as (line index, row start byte), at most height
// entries. The renderer and the screen/logical mapping share this walk so
// the two cannot drift.
func (m *Model) VisibleRows(fn func(row, line, start int)) int {
	line := m.lineOffset
	start := m.lineOffsetByte
	row := 0
	for row < m.height {
		fn(row, line, start)
		row++
		l := m.buf.LineLen(line)
		if start+m.width < l {
			start += m.width
		} else if line+1 < m.buf.Len() {
			line++
			start = 0
		} else {
			break
		}
	}
	return row
}

// walkRows follows the wrap grid target rows down from the render origin,
// stopping early at the buffer's last rendered row. Returns the line, row
// start byte, and the row actually reached.
func (m *Model) walkRows(target int) (line, start, row int) {
	line = m.lineOffset
	start = m.lineOffsetByte
	for row < target {
		l := m.buf.LineLen(line)
		if start+m.width < l {
			start += m.width
		} else if line+1 < m.buf.Len() {
			line++
			start = 0
		} else {
			return line, start, row
		}
		row++
	}
	return line, start, row
}

// reconcile re-derives the screen mapping from the logical state after a
// window-size change: the scroll origin snaps to the new wrap grid, the
// cursor's byte and column are re-clamped, and the origin scrolls the
// minimal distance needed to bring the cursor's row back into the window.
func (m *Model) reconcile() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	c := &m.cursor

	topLen := m.buf.LineLen(m.lineOffset)
	if m.lineOffsetByte > m.lastRowStart(topLen) {
		m.lineOffsetByte = m.lastRowStart(topLen)
	}
	m.lineOffsetByte -= m.lineOffsetByte % m.width

	l := m.buf.LineLen(c.Line)
	if l == 0 {
		c.Byte = 0
	} else if c.Byte >= l {
		c.Byte = l - 1
	}
	c.Pos.Col = c.Byte % m.width
	c.AtEOL = c.AtEOL && c.Pos.Col == m.endOfRow(l, m.rowStart(c.Byte))

	// Cursor above the origin: pull the origin up to it.
	if c.Line < m.lineOffset ||
		(c.Line == m.lineOffset && m.rowStart(c.Byte) < m.lineOffsetByte) {
		m.lineOffset = c.Line
		m.lineOffsetByte = m.rowStart(c.Byte)
		c.Pos.Row = 0
		return
	}

	c.Pos.Row = m.rowsFromOrigin(c.Line, m.rowStart(c.Byte))
	for c.Pos.Row > m.height-1 {
		if !m.ScrollDown() {
			break
		}
		c.Pos.Row--
	}
}

// rowsFromOrigin counts rendered rows between the render origin and the row
// (line, start). The caller guarantees the target is at or below the origin.
func (m *Model) rowsFromOrigin(line, start int) int {
	l := m.lineOffset
	s := m.lineOffsetByte
	rows := 0
	for l < line || (l == line && s < start) {
		if s+m.width < m.buf.LineLen(l) {
			s += m.width
		} else if l+1 < m.buf.Len() {
			l++
			s = 0
		} else {
			break
		}
		rows++
	}
	return rows
}
