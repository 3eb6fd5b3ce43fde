// Package term wraps the viewer's two terminal collaborators: raw-mode
// enter/restore and the cursor-position-report protocol used to measure the
// window. The session itself only ever sees unbuffered bytes in and verbatim
// bytes out.
package term

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Sequences for the size query: push the cursor to the bottom-right extreme,
// then ask the terminal to report where it ended up.
const (
	moveFarRight     = "\x1b[999C"
	moveFarDown      = "\x1b[999B"
	reportCursorPos  = "\x1b[6n"
	reportTerminator = 'R'

	// replyLimit bounds the report read; a well-formed reply fits easily.
	replyLimit = 32
)

// RawMode is a scope-guarded handle over the terminal's original attributes.
// Restore must run on every exit path.
type RawMode struct {
	fd   int
	prev *term.State
}

// EnterRaw captures the current attributes of fd and switches it to raw
// (unbuffered, unechoed) mode.
func EnterRaw(fd int) (*RawMode, error) {
	prev, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("entering raw mode: %w", err)
	}
	return &RawMode{fd: fd, prev: prev}, nil
}

// Restore puts the original attributes back.
func (r *RawMode) Restore() error {
	if err := term.Restore(r.fd, r.prev); err != nil {
		return fmt.Errorf("restoring terminal attributes: %w", err)
	}
	return nil
}

// IsTerminal reports whether fd is attached to a terminal.
func IsTerminal(fd int) bool {
	return term.IsTerminal(fd)
}

// QuerySize measures the window by moving the cursor to the bottom-right
// extreme and parsing the terminal's `ESC[<row>;<col>R` position report from
// in. The report protocol is a hard precondition; a malformed reply is an
// error, not something to limp past.
func QuerySize(in io.Reader, out io.Writer) (width, height int, err error) {
	if _, err := io.WriteString(out, moveFarRight+moveFarDown+reportCursorPos); err != nil {
		return 0, 0, fmt.Errorf("requesting cursor position: %w", err)
	}
	reply, err := readReport(in)
	if err != nil {
		return 0, 0, err
	}
	row, col, err := parseReport(reply)
	if err != nil {
		return 0, 0, err
	}
	// The cursor sat on the last cell, so the 1-based report is the size.
	return col, row, nil
}

// readReport consumes bytes up to the report terminator.
func readReport(in io.Reader) ([]byte, error) {
	var reply []byte
	one := make([]byte, 1)
	for len(reply) < replyLimit {
		n, err := in.Read(one)
		if n == 1 {
			if one[0] == reportTerminator {
				return reply, nil
			}
			reply = append(reply, one[0])
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading cursor position report: %w", err)
		}
	}
	return nil, fmt.Errorf("cursor position report exceeded %d bytes", replyLimit)
}

// parseReport extracts row and col from `ESC[<row>;<col>`, skipping any
// stray bytes that arrived before the ESC.
func parseReport(reply []byte) (row, col int, err error) {
	i := bytes.IndexByte(reply, 0x1b)
	if i < 0 || i+1 >= len(reply) || reply[i+1] != '[' {
		return 0, 0, fmt.Errorf("malformed cursor position report %q", reply)
	}
	body := string(reply[i+2:])
	rowStr, colStr, ok := strings.Cut(body, ";")
	if !ok {
		return 0, 0, fmt.Errorf("cursor position report %q missing separator", reply)
	}
	if row, err = strconv.Atoi(rowStr); err != nil {
		return 0, 0, fmt.Errorf("cursor position report row %q: %w", rowStr, err)
	}
	if col, err = strconv.Atoi(colStr); err != nil {
		return 0, 0, fmt.Errorf("cursor position report col %q: %w", colStr, err)
	}
	return row, col, nil
}

// ProtocolSizer measures the window over the session's own streams before
// every refresh, since no resize notification is assumed.
type ProtocolSizer struct {
	In  io.Reader
	Out io.Writer
}

// Size implements the session's size query.
func (p ProtocolSizer) Size() (width, height int, err error) {
	return QuerySize(p.In, p.Out)
}
