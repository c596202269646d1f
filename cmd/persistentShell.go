package cmd

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/ssh"

	"github.com/nhoffman/bioscons/slurm"
)

// persistentShell keeps one remote shell open on the login node and runs
// commands through it sequentially. Working directory and exported variables
// persist between commands, which matters because srun and salloc resolve
// relative paths against the submitting shell's cwd.
type persistentShell struct {
	sess   *ssh.Session
	stdin  io.WriteCloser
	pr     *io.PipeReader
	pw     *io.PipeWriter
	reader *bufio.Reader
	mu     sync.Mutex

	nonce string
	seq   int

	closeOnce sync.Once
	closeErr  error
}

// newPersistentShell starts /bin/sh in script mode on a single session with
// stdout and stderr merged into one stream.
func newPersistentShell(client *ssh.Client) (ps *persistentShell, err error) {
	s, err := client.NewSession()
	if err != nil {
		return nil, err
	}
	pr, pw := io.Pipe()
	defer func() {
		if err != nil {
			_ = pw.Close()
			_ = s.Close()
		}
	}()
	s.Stdout = pw
	s.Stderr = pw

	stdin, err := s.StdinPipe()
	if err != nil {
		return nil, err
	}
	// salloc and some aligners behave differently without a terminal.
	modes := ssh.TerminalModes{
		ssh.ECHO:          0,
		ssh.TTY_OP_ISPEED: 14400,
		ssh.TTY_OP_OSPEED: 14400,
	}
	if err = s.RequestPty("xterm", 80, 40, modes); err != nil {
		return nil, fmt.Errorf("request pty: %w", err)
	}
	if err = s.Start("/bin/sh -s -"); err != nil {
		return nil, fmt.Errorf("start shell: %w", err)
	}
	return &persistentShell{
		sess:   s,
		stdin:  stdin,
		pr:     pr,
		pw:     pw,
		reader: bufio.NewReader(pr),
		nonce:  makeNonce(),
	}, nil
}

// Close asks the shell to exit and releases the session. It does not wait
// for a running command: closing the pipe unblocks a runOne that was
// abandoned after a timeout. Safe to call more than once.
func (ps *persistentShell) Close() error {
	ps.closeOnce.Do(func() {
		_, _ = io.WriteString(ps.stdin, "exit\n")
		_ = ps.stdin.Close()
		_ = ps.pw.Close()
		if ps.sess != nil {
			ps.closeErr = ps.sess.Close()
		}
	})
	return ps.closeErr
}

// runOne executes a single line and returns combined output and the exit
// code. The shell echoes a per-command marker followed by $? once the line
// finishes; everything before the marker is the command's output.
func (ps *persistentShell) runOne(line string) ([]byte, int, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	marker := fmt.Sprintf("__BIOSCONS_END__%s__%d__", ps.nonce, ps.seq)
	ps.seq++
	if _, err := fmt.Fprintf(ps.stdin, "%s; echo %s $?\n", line, slurm.Quote(marker)); err != nil {
		return nil, -1, err
	}

	var out bytes.Buffer
	for {
		text, err := ps.reader.ReadString('\n')
		if err != nil {
			out.WriteString(text)
			return out.Bytes(), -1, err
		}
		before, code, found := cutMarker(text, marker)
		out.WriteString(before)
		if found {
			return out.Bytes(), code, nil
		}
	}
}

// cutMarker splits an output line at the end marker. Output that does not
// end in a newline shares its last line with the marker. The exit code is
// -1 when the status after the marker is unreadable.
func cutMarker(text, marker string) (before string, code int, found bool) {
	i := strings.Index(text, marker+" ")
	if i < 0 {
		return text, 0, false
	}
	code, err := parseExit(text[i+len(marker)+1:])
	if err != nil {
		code = -1
	}
	return text[:i], code, true
}

func parseExit(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative exit status %d", n)
	}
	return n, nil
}

// makeNonce keeps markers unique across shells on the same login node.
func makeNonce() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// persistentSessionClient returns virtual sessions that run on the same
// persistent shell.
type persistentSessionClient struct{ ps *persistentShell }

func (c persistentSessionClient) NewSession() (session, error) {
	return &persistentVirtualSession{ps: c.ps}, nil
}

// persistentVirtualSession remembers the exit code seen in the marker line.
type persistentVirtualSession struct {
	ps       *persistentShell
	lastExit int
}

func (s *persistentVirtualSession) CombinedOutput(cmd string) ([]byte, error) {
	out, code, err := s.ps.runOne(cmd)
	s.lastExit = code
	return out, err
}

// Close is a no-op; the shell is owned by the session client.
func (s *persistentVirtualSession) Close() error { return nil }

func (s *persistentVirtualSession) LastExitCode() int { return s.lastExit }
