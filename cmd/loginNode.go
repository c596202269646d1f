package cmd

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"

	"github.com/nhoffman/bioscons/slurm"
)

// loginNode is the SSH connection to the cluster host that submits jobs.
// Commands share one persistent shell; after a timeout the connection is
// torn down and re-established because the shell is still busy. Hosts that
// refuse a pty get one exec channel per command instead.
type loginNode struct {
	target  string
	user    string
	workdir string

	mu       sync.Mutex
	client   *ssh.Client
	ps       *persistentShell
	sessions sessionClient
	// chdir prefixes every command when sessions do not share a shell.
	chdir string
}

// loginTarget resolves host:port and user from the flags, falling back to the
// manifest's login_node. An empty target means steps run locally.
func loginTarget(mf *manifest) (target, user string) {
	target, user = cfgTarget, cfgUser
	if target == "" {
		if host := strings.TrimSpace(mf.Cluster.LoginNode.IP); host != "" {
			if strings.Contains(host, ":") {
				target = host
			} else {
				target = host + ":22"
			}
		}
	}
	if user == "" {
		user = strings.TrimSpace(mf.Cluster.LoginNode.User)
	}
	return target, user
}

func connectLoginNode(target, user, workdir string) (*loginNode, error) {
	n := &loginNode{target: target, user: user, workdir: workdir}
	if err := n.connect(); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *loginNode) connect() error {
	client, err := dialSSHFunc(n.target, n.user, cfgPassword, cfgKeyPath, cfgPassphrase, cfgKnownHosts,
		cfgStrictHost, cfgConnTimeout)
	if err != nil {
		return fmt.Errorf("ssh connection failed: %w", err)
	}
	n.client = client

	// Unit tests stub dial to return nil; the stubbed runCommandFunc then
	// drives behavior through the plain wrapper.
	n.sessions = execChannels{client}
	if client != nil {
		ps, err := newPersistentShell(client)
		switch {
		case err == nil:
			n.ps = ps
			n.sessions = persistentSessionClient{ps}
		case n.workdir != "":
			n.chdir = "cd " + slurm.Quote(n.workdir) + " && "
			fallthrough
		default:
			cliLog.Warn("persistent shell unavailable; using one exec channel per command",
				zap.String("target", n.target), zap.Error(err))
		}
	}

	if n.workdir != "" {
		out, code, err := runCommandFunc(n.sessions, "cd "+slurm.Quote(n.workdir), cfgConnTimeout)
		if err == nil && code != 0 {
			err = fmt.Errorf("exit status %d: %s", code, strings.TrimSpace(string(out)))
		}
		if err != nil {
			n.closeLocked()
			return fmt.Errorf("cd %s on login node: %w", n.workdir, err)
		}
	}
	cliLog.Debug("connected to login node", zap.String("target", n.target), zap.String("user", n.user))
	return nil
}

func (n *loginNode) NewSession() (session, error) {
	n.mu.Lock()
	s, chdir := n.sessions, n.chdir
	n.mu.Unlock()
	if s == nil {
		return nil, fmt.Errorf("login node %s is not connected", n.target)
	}
	sess, err := s.NewSession()
	if err != nil || chdir == "" {
		return sess, err
	}
	return chdirSession{session: sess, prefix: chdir}, nil
}

// serial reports whether commands queue on one shell. A nil client only
// comes from a stubbed dialer and is treated the same way.
func (n *loginNode) serial() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ps != nil || n.client == nil
}

// reconnect replaces the connection after a timed-out command.
func (n *loginNode) reconnect() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closeLocked()
	if err := n.connect(); err != nil {
		return fmt.Errorf("reconnect failed after timeout: %w", err)
	}
	return nil
}

func (n *loginNode) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closeLocked()
	return nil
}

func (n *loginNode) closeLocked() {
	if n.ps != nil {
		_ = n.ps.Close()
		n.ps = nil
	}
	if n.client != nil {
		_ = n.client.Close()
		n.client = nil
	}
	n.sessions = nil
	n.chdir = ""
}
