package cmd

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// scriptedShell stands in for the remote shell's stdin. For every command it
// writes payload and the end marker with exit to the output pipe, the way
// /bin/sh answers "<cmd>; echo <marker> $?".
type scriptedShell struct {
	pw      *io.PipeWriter
	payload string
	exit    int
	lines   []string
}

func (w *scriptedShell) Write(p []byte) (int, error) {
	line := string(p)
	w.lines = append(w.lines, line)
	marker := "__MISSING__"
	if i, j := strings.LastIndex(line, "; echo "), strings.LastIndex(line, " $?"); i >= 0 && j > i {
		marker = strings.Trim(line[i+len("; echo "):j], "'")
	}
	// Write asynchronously; the caller reads only after Write returns.
	go func() {
		_, _ = io.WriteString(w.pw, w.payload+marker+" "+strconv.Itoa(w.exit)+"\n")
	}()
	return len(p), nil
}

func (w *scriptedShell) Close() error { return w.pw.Close() }

func newScriptedShell(payload string, exit int) (*persistentShell, *scriptedShell) {
	pr, pw := io.Pipe()
	w := &scriptedShell{pw: pw, payload: payload, exit: exit}
	return &persistentShell{
		stdin:  w,
		pr:     pr,
		pw:     pw,
		reader: bufio.NewReader(pr),
		nonce:  "test",
	}, w
}

func TestPersistentShell_RunOne(t *testing.T) {
	ps, w := newScriptedShell("Submitted job\n", 0)
	out, code, err := ps.runOne(`srun -J "align" sh -c 'align x'`)
	require.NoError(t, err)
	require.Equal(t, 0, code)
	require.Equal(t, "Submitted job\n", string(out))
	require.Equal(t, `srun -J "align" sh -c 'align x'; echo __BIOSCONS_END__test__0__ $?`+"\n", w.lines[0])

	_, _, err = ps.runOne("true")
	require.NoError(t, err)
	require.Contains(t, w.lines[1], "__BIOSCONS_END__test__1__")
}

func TestPersistentShell_RunOne_LongOutputNonZero(t *testing.T) {
	payload := strings.Repeat("A", 9000) + "\n"
	ps, _ := newScriptedShell(payload, 2)
	out, code, err := ps.runOne("cmalign")
	require.NoError(t, err)
	require.Equal(t, 2, code)
	require.Equal(t, payload, string(out))
}

func TestPersistentShell_CloseUnblocksRunOne(t *testing.T) {
	pr, pw := io.Pipe()
	ps := &persistentShell{
		stdin:  nopWriteCloser{io.Discard},
		pr:     pr,
		pw:     pw,
		reader: bufio.NewReader(pr),
		nonce:  "x",
	}
	done := make(chan error, 1)
	go func() {
		_, _, err := ps.runOne("sleep 1000")
		done <- err
	}()
	require.NoError(t, ps.Close())
	require.Error(t, <-done)
	require.NoError(t, ps.Close())
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func TestPersistentSessionClient_TracksExitCode(t *testing.T) {
	ps, _ := newScriptedShell("out\n", 7)
	out, code, err := runCommand(persistentSessionClient{ps: ps}, "cmd", 0)
	require.NoError(t, err)
	require.Equal(t, 7, code)
	require.Equal(t, "out\n", string(out))
}

func TestCutMarker(t *testing.T) {
	const m = "__BIOSCONS_END__n__3__"
	cases := []struct {
		name, text, before string
		code               int
		found              bool
	}{
		{"plain output", "hello\n", "hello\n", 0, false},
		{"marker line", m + " 0\n", "", 0, true},
		{"no trailing newline", "partial" + m + " 1\n", "partial", 1, true},
		{"garbled status", m + " x\n", "", -1, true},
		{"negative status", m + " -1\n", "", -1, true},
		{"other marker", "__BIOSCONS_END__n__2__ 0\n", "__BIOSCONS_END__n__2__ 0\n", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before, code, found := cutMarker(tc.text, m)
			require.Equal(t, tc.before, before)
			require.Equal(t, tc.code, code)
			require.Equal(t, tc.found, found)
		})
	}
}

func TestMakeNonce(t *testing.T) {
	n := makeNonce()
	require.Len(t, n, 12)
	require.Regexp(t, `^[0-9a-f]+$`, n)
	require.NotEqual(t, n, makeNonce())
}
