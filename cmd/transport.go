package cmd

import (
	"errors"

	"golang.org/x/crypto/ssh"
)

// session runs a single command and is then closed.
type session interface {
	CombinedOutput(cmd string) ([]byte, error)
	Close() error
}

// sessionClient hands out sessions. The local runner, plain SSH exec
// channels and the persistent login-node shell all implement it.
type sessionClient interface {
	NewSession() (session, error)
}

var errNoSSHClient = errors.New("login node: no ssh client")

// execChannels opens one SSH exec channel per command. It is the transport
// used when the login node refuses a pty for the persistent shell.
type execChannels struct {
	client *ssh.Client
}

func (e execChannels) NewSession() (session, error) {
	if e.client == nil {
		return nil, errNoSSHClient
	}
	s, err := e.client.NewSession()
	if err != nil {
		return nil, err
	}
	return s, nil
}

// chdirSession runs every command from the working directory. Exec channels
// start in the login shell's home, so each command carries its own cd.
type chdirSession struct {
	session
	prefix string
}

func (s chdirSession) CombinedOutput(cmd string) ([]byte, error) {
	return s.session.CombinedOutput(s.prefix + cmd)
}
