package cmd

import (
	"context"
	"os"
	"os/exec"
)

// localShell interprets the final command line on this machine.
const localShell = "/bin/sh"

// localClient runs commands on this machine with the policy environment
// appended to the inherited one. Cancelling ctx kills running commands.
type localClient struct {
	ctx context.Context
	env []string
}

func (c localClient) NewSession() (session, error) {
	return &localSession{ctx: c.ctx, env: c.env, lastExit: -1}, nil
}

type localSession struct {
	ctx      context.Context
	env      []string
	lastExit int
}

func (s *localSession) CombinedOutput(cmd string) ([]byte, error) {
	c := exec.CommandContext(s.ctx, localShell, "-c", cmd)
	c.Env = append(os.Environ(), s.env...)
	out, err := c.CombinedOutput()
	if c.ProcessState != nil {
		s.lastExit = c.ProcessState.ExitCode()
	}
	return out, err
}

func (s *localSession) Close() error { return nil }

// LastExitCode is -1 when the process did not start or was killed.
func (s *localSession) LastExitCode() int { return s.lastExit }
