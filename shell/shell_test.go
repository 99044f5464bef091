package shell

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"omegafs/bio"
	"omegafs/fs"
)

func mkShell(t *testing.T, blocks uint32) (*Shell, *fs.Device, *bytes.Buffer) {
	t.Helper()
	dev := fs.New(bio.MkMemDisk(blocks))
	require.NoError(t, dev.Format(blocks))
	out := &bytes.Buffer{}
	return New(dev, out, "", nil), dev, out
}

func TestSession(t *testing.T) {
	s, _, out := mkShell(t, 8)
	script := strings.Join([]string{
		"touch notes",
		"write notes hello  there world",
		"cat notes",
		"touch todo",
		"ls",
		"info",
		"rm notes",
		"ls",
		"exit",
		"ls",
	}, "\n")

	require.NoError(t, s.Run(strings.NewReader(script)))
	require.Equal(t, strings.Join([]string{
		"hello  there world",
		"notes",
		"todo",
		"blocks 8 x 512 bytes, 5 free, 2 used, 2 files",
		"todo",
		"",
	}, "\n"), out.String())
}

func TestErrorsAreOneLine(t *testing.T) {
	s, _, out := mkShell(t, 3)
	for _, line := range []string{
		"cat missing",
		"touch " + strings.Repeat("x", 17),
		"touch a",
		"touch a",
		"touch b",
		"touch c",
		"write",
		"format many",
		"frobnicate",
		"",
	} {
		require.False(t, s.Exec(line))
	}

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 7)
	require.Contains(t, lines[0], "cat: file not found")
	require.Contains(t, lines[1], "touch: file name too long")
	require.Contains(t, lines[2], "touch: file name in use")
	require.Contains(t, lines[3], "touch: no space left on device")
	require.Equal(t, "write: invalid arguments, try help", lines[4])
	require.Equal(t, "format: invalid arguments, try help", lines[5])
	require.Contains(t, lines[6], "unknown command")
}

func TestBusyDevice(t *testing.T) {
	s, dev, out := mkShell(t, 4)
	g := dev.Acquire()

	require.False(t, s.Exec("touch a"))
	require.Equal(t, "device busy\n", out.String())

	// nothing happened while busy
	names, err := g.ListFiles()
	require.NoError(t, err)
	require.Empty(t, names)
	g.Release()

	out.Reset()
	require.False(t, s.Exec("touch a"))
	require.False(t, s.Exec("ls"))
	require.Equal(t, "a\n", out.String())
}

func TestFormatCommand(t *testing.T) {
	s, dev, out := mkShell(t, 8)
	s.Exec("touch a")
	s.Exec("format 4")
	require.Equal(t, "formatted 4 blocks\n", out.String())

	st, err := dev.Stat()
	require.NoError(t, err)
	require.Equal(t, uint32(4), st.BlockCount)
	require.Equal(t, 0, st.Files)
}

func TestPayload(t *testing.T) {
	require.Equal(t, "a b", payload("write f a b", "f"))
	require.Equal(t, "", payload("write f", "f"))
	require.Equal(t, " x", payload("  write\tf  x", "f"))
}
