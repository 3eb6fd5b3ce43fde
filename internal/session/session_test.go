package session

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/loupe/internal/term"
	"github.com/zjrosen/loupe/internal/textbuf"
)

// run drives a full session over scripted input bytes with a fixed window.
func run(t *testing.T, lines []string, w, h int, keys []byte) (*Session, string) {
	t.Helper()
	var out bytes.Buffer
	s := New(textbuf.New(lines), bytes.NewReader(keys), &out, FixedSizer{W: w, H: h}, '~')
	require.NoError(t, s.Run())
	return s, out.String()
}

func TestRun_EndsOnInterrupt(t *testing.T) {
	s, out := run(t, []string{"hello"}, 10, 3, []byte{Interrupt})
	require.Equal(t, 0, s.Model().Cursor().Line)
	require.NotEmpty(t, out, "at least one frame rendered before exit")
}

func TestRun_EndsOnClosedInput(t *testing.T) {
	s, _ := run(t, []string{"hello"}, 10, 3, nil)
	require.NotNil(t, s)
}

func TestRun_ArrowKeysMoveCursor(t *testing.T) {
	keys := []byte{
		0x1b, '[', 'B', // down
		0x1b, '[', 'B', // down
		0x1b, '[', 'C', // right
		0x1b, '[', 'A', // up
		Interrupt,
	}
	s, _ := run(t, []string{"one", "two", "three"}, 20, 10, keys)

	c := s.Model().Cursor()
	require.Equal(t, 1, c.Line)
	require.Equal(t, 1, c.Pos.Col)
}

func TestRun_PagingAndHomeEnd(t *testing.T) {
	lines := make([]string, 30)
	for i := range lines {
		lines[i] = "line"
	}

	keys := []byte{
		0x1b, '[', '6', '~', // page down
		Interrupt,
	}
	s, _ := run(t, lines, 20, 5, keys)
	require.Equal(t, 5, s.Model().Cursor().Line)

	keys = []byte{
		0x1b, '[', 'F', // end
		0x1b, '[', 'H', // home
		Interrupt,
	}
	s, _ = run(t, lines, 20, 5, keys)
	require.Equal(t, 0, s.Model().Cursor().Line)
	require.Equal(t, 0, s.Model().LineOffset())
}

func TestRun_UnrecognizedSequenceIgnored(t *testing.T) {
	keys := []byte{
		0x1b, '[', 'Z', // back-tab: consumed, no key
		0x1b, '[', 'C', // right
		Interrupt,
	}
	s, _ := run(t, []string{"hello"}, 10, 3, keys)
	require.Equal(t, 1, s.Model().Cursor().Pos.Col)
}

func TestRun_PlainBytesAndDeleteAreInert(t *testing.T) {
	keys := []byte{
		'q', 'w',
		0x1b, '[', '3', '~', // delete
		Interrupt,
	}
	s, _ := run(t, []string{"hello"}, 10, 3, keys)
	require.Equal(t, 0, s.Model().Cursor().Byte)
}

func TestRun_RendersEveryIteration(t *testing.T) {
	keys := []byte{
		0x1b, '[', 'B',
		Interrupt,
	}
	_, out := run(t, []string{"one", "two"}, 10, 3, keys)
	require.Equal(t, 2, strings.Count(out, "\x1b[?25l"),
		"one frame per loop iteration: initial plus one after the key")
}

func TestRun_ProtocolSizerEndToEnd(t *testing.T) {
	// The size reply arrives on the same stream the decoder reads, before
	// each key. Two iterations: initial frame, then interrupt.
	input := "\x1b[3;10R" + string([]byte{Interrupt}) + "\x1b[3;10R"
	var out bytes.Buffer
	in := strings.NewReader(input)
	s := New(textbuf.New([]string{"hello", "world"}), in, &out,
		term.ProtocolSizer{In: in, Out: &out}, '~')

	require.NoError(t, s.Run())
	require.Equal(t, 10, s.Model().Width())
	require.Equal(t, 3, s.Model().Height())
	require.Contains(t, out.String(), "\x1b[6n")

	rows := strings.Split(ansi.Strip(lastFrame(out.String())), "\r\n")
	require.Equal(t, []string{"hello", "world", "~"}, rows)
}

func TestRun_SizerFailureIsFatal(t *testing.T) {
	// An exhausted stream fails the size query: the report protocol is a
	// hard precondition.
	var out bytes.Buffer
	in := strings.NewReader("")
	s := New(textbuf.Empty(), in, &out, term.ProtocolSizer{In: in, Out: &out}, '~')
	require.Error(t, s.Run())
}

// lastFrame returns everything after the final hide-cursor marker.
func lastFrame(s string) string {
	i := strings.LastIndex(s, "\x1b[?25l")
	if i < 0 {
		return s
	}
	return s[i:]
}
