package cmd

import (
	"context"
	"errors"
	"os/exec"
	"time"

	"golang.org/x/crypto/ssh"
)

// runCommand executes a single command on a fresh session from client and
// returns its combined output and exit code. A positive timeout abandons the
// session and reports context.DeadlineExceeded; the caller decides whether
// the transport needs to be re-established.
func runCommand(client sessionClient, cmd string, timeout time.Duration) ([]byte, int, error) {
	type result struct {
		out      []byte
		exitCode int
		err      error
	}

	run := func() result {
		currSession, err := client.NewSession()
		if err != nil {
			return result{nil, -1, err}
		}
		defer func(thisSession session) {
			_ = thisSession.Close()
		}(currSession)
		b, err := currSession.CombinedOutput(cmd)
		// Sessions that track the status out of band (persistent shell,
		// local processes) know the code even when err is nil.
		if ec, ok := currSession.(interface{ LastExitCode() int }); ok {
			return result{b, ec.LastExitCode(), err}
		}
		if err == nil {
			return result{b, 0, nil}
		}
		return result{b, exitStatus(err), err}
	}

	if timeout <= 0 {
		r := run()
		return r.out, r.exitCode, r.err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	ch := make(chan result, 1)
	go func() { ch <- run() }()

	select {
	case r := <-ch:
		return r.out, r.exitCode, r.err
	case <-ctx.Done():
		// Best-effort: indicate timeout. Caller may reconnect if desired.
		return nil, -1, context.DeadlineExceeded
	}
}

// exitStatus derives the exit status from a transport error, or -1.
func exitStatus(err error) int {
	var se *ssh.ExitError
	if errors.As(err, &se) {
		return se.ExitStatus()
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	return -1
}
