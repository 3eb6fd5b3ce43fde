package textbuf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_SplitsOnLineFeed(t *testing.T) {
	b := Parse([]byte("alpha\nbeta\ngamma"))
	require.Equal(t, 3, b.Len())
	require.Equal(t, "alpha", b.Line(0))
	require.Equal(t, "beta", b.Line(1))
	require.Equal(t, "gamma", b.Line(2))
}

func TestParse_TrailingNewlineAddsNoPhantomLine(t *testing.T) {
	b := Parse([]byte("alpha\nbeta\n"))
	require.Equal(t, 2, b.Len())
	require.Equal(t, "beta", b.Line(1))
}

func TestParse_PreservesEmptyLines(t *testing.T) {
	b := Parse([]byte("alpha\n\nbeta"))
	require.Equal(t, 3, b.Len())
	require.Equal(t, "", b.Line(1))
}

func TestParse_EmptyInput(t *testing.T) {
	b := Parse(nil)
	require.Equal(t, 1, b.Len(), "an empty file presents as one blank line")
	require.Equal(t, "", b.Line(0))
}

func TestNew_NeverEmpty(t *testing.T) {
	require.Equal(t, 1, New(nil).Len())
	require.Equal(t, 1, Empty().Len())
}

func TestLine_OutOfRange(t *testing.T) {
	b := New([]string{"only"})
	require.Equal(t, "", b.Line(-1))
	require.Equal(t, "", b.Line(5))
	require.Equal(t, 0, b.LineLen(5))
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\n"), 0o644))

	b, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, b.Len())
	require.Equal(t, "one", b.Line(0))
}

func TestLoad_MissingFileDegradesToBlankBuffer(t *testing.T) {
	b, err := Load(filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err, "the error is surfaced so callers can log it")
	require.NotNil(t, b)
	require.Equal(t, 1, b.Len())
	require.Equal(t, "", b.Line(0))
}
