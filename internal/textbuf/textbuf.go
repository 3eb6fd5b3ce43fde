// Package textbuf holds the in-memory text a session displays.
// A Buffer is an ordered sequence of logical lines loaded once before the
// session starts; the viewer never mutates it.
package textbuf

import (
	"os"
	"strings"
)

// Buffer is an ordered sequence of logical lines. Lines carry no terminators
// and may be empty. A Buffer always contains at least one line, so an empty
// file and a missing file both present as a single blank line.
type Buffer struct {
	lines []string
}

// New returns a buffer over the given lines. A nil or empty slice yields the
// single-blank-line buffer.
func New(lines []string) *Buffer {
	if len(lines) == 0 {
		lines = []string{""}
	}
	return &Buffer{lines: lines}
}

// Empty returns a buffer with a single blank line.
func Empty() *Buffer {
	return New(nil)
}

// Parse splits raw file contents on line-feed bytes. A trailing line feed
// does not produce a phantom empty final line.
func Parse(data []byte) *Buffer {
	s := string(data)
	s = strings.TrimSuffix(s, "\n")
	return New(strings.Split(s, "\n"))
}

// Load reads path into a buffer. An unreadable path degrades to the
// single-blank-line buffer; the error is returned so callers can log it.
func Load(path string) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Empty(), err
	}
	return Parse(data), nil
}

// Len reports the number of logical lines. Always at least 1.
func (b *Buffer) Len() int {
	return len(b.lines)
}

// Line returns the line at index i, or the empty string when i is out of
// range. Out-of-range reads happen transiently while the viewport sits past
// the last line of a short buffer.
func (b *Buffer) Line(i int) string {
	if i < 0 || i >= len(b.lines) {
		return ""
	}
	return b.lines[i]
}

// LineLen returns the byte length of line i, zero when out of range.
func (b *Buffer) LineLen(i int) int {
	return len(b.Line(i))
}
