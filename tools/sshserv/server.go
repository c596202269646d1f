// Package sshserv runs an in-process SSH server that stands in for a cluster
// login node in tests. It accepts any user without authentication. An exec of
// "/bin/sh -s -" emulates the line-oriented shell that bioscons drives: every
// stdin line is answered with output followed by the end marker taken from
// the trailing "echo <marker> $?" and an exit code. Any other exec is answered
// once, with an exit-status request.
package sshserv

import (
	"bufio"
	"crypto/rand"
	"crypto/rsa"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"

	"golang.org/x/crypto/ssh"
)

// Server is a running fake login node.
type Server struct {
	ln   net.Listener
	cfg  *ssh.ServerConfig
	done chan struct{}

	mu       sync.Mutex
	commands []string
	// Schedulers maps executable names to the path `command -v` reports.
	schedulers map[string]string
	rejectPTY  bool
}

// Start listens on listenAddr (use 127.0.0.1:0 for an ephemeral port). srun
// and salloc resolve to /usr/bin unless overridden with SetSchedulers.
func Start(listenAddr string) (*Server, error) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}
	signer, err := ssh.NewSignerFromKey(priv)
	if err != nil {
		return nil, err
	}
	cfg := &ssh.ServerConfig{NoClientAuth: true}
	cfg.AddHostKey(signer)

	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, err
	}
	s := &Server{
		ln:   ln,
		cfg:  cfg,
		done: make(chan struct{}),
		schedulers: map[string]string{
			"srun":   "/usr/bin/srun",
			"salloc": "/usr/bin/salloc",
		},
	}
	go s.serve()
	return s, nil
}

// Addr returns the host:port the server listens on.
func (s *Server) Addr() string { return s.ln.Addr().String() }

// SetSchedulers replaces the executables `command -v` can find.
func (s *Server) SetSchedulers(m map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedulers = m
}

// RejectPTY makes the server refuse pty requests, like login nodes that only
// allow plain exec channels.
func (s *Server) RejectPTY() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejectPTY = true
}

// Commands returns every command line received, with the end marker removed.
func (s *Server) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...)
}

// Close stops accepting connections and waits for the accept loop to exit.
func (s *Server) Close() error {
	err := s.ln.Close()
	<-s.done
	return err
}

func (s *Server) serve() {
	defer close(s.done)
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			continue
		}
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(raw net.Conn) {
	_, chans, reqs, err := ssh.NewServerConn(raw, s.cfg)
	if err != nil {
		_ = raw.Close()
		return
	}
	go ssh.DiscardRequests(reqs)
	for ch := range chans {
		if ch.ChannelType() != "session" {
			_ = ch.Reject(ssh.UnknownChannelType, "")
			continue
		}
		c, in, err := ch.Accept()
		if err != nil {
			continue
		}
		go s.handleSession(c, in)
	}
}

func (s *Server) handleSession(ch ssh.Channel, in <-chan *ssh.Request) {
	defer ch.Close()
	for req := range in {
		switch req.Type {
		case "pty-req":
			s.mu.Lock()
			ok := !s.rejectPTY
			s.mu.Unlock()
			_ = req.Reply(ok, nil)
		case "shell", "env":
			_ = req.Reply(true, nil)
		case "exec":
			_ = req.Reply(true, nil)
			cmd := execPayload(req.Payload)
			if cmd == "" || cmd == "/bin/sh -s -" {
				s.emulateShell(ch)
				return
			}
			s.record(cmd)
			out, code := s.respond(stripChdir(cmd))
			_, _ = ch.Write([]byte(out))
			status := make([]byte, 4)
			binary.BigEndian.PutUint32(status, uint32(code))
			_, _ = ch.SendRequest("exit-status", false, status)
			return
		default:
			_ = req.Reply(false, nil)
		}
	}
}

func (s *Server) emulateShell(ch ssh.Channel) {
	br := bufio.NewReader(ch)
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" {
			return
		}
		cmd, marker := splitMarker(line)
		s.record(cmd)

		out, code := s.respond(cmd)
		_, _ = ch.Write([]byte(out))
		if marker != "" {
			_, _ = fmt.Fprintf(ch, "%s %d\n", marker, code)
		}
	}
}

func (s *Server) record(cmd string) {
	s.mu.Lock()
	s.commands = append(s.commands, cmd)
	s.mu.Unlock()
}

// execPayload decodes the command string of an exec request.
func execPayload(p []byte) string {
	if len(p) < 4 {
		return ""
	}
	n := binary.BigEndian.Uint32(p)
	if int(n) > len(p)-4 {
		return ""
	}
	return string(p[4 : 4+n])
}

// stripChdir drops a leading "cd <dir> && " so the command is answered as if
// run from that directory.
func stripChdir(cmd string) string {
	if !strings.HasPrefix(cmd, "cd ") {
		return cmd
	}
	if i := strings.Index(cmd, " && "); i >= 0 {
		return cmd[i+len(" && "):]
	}
	return cmd
}

// splitMarker separates "<cmd>; echo <marker> $?" into its parts.
func splitMarker(line string) (cmd, marker string) {
	i := strings.LastIndex(line, "; echo ")
	j := strings.LastIndex(line, " $?")
	if i < 0 || j <= i+len("; echo ") {
		return line, ""
	}
	return line[:i], strings.Trim(strings.TrimSpace(line[i+len("; echo "):j]), "'\"")
}

func (s *Server) respond(cmd string) (string, int) {
	switch {
	case strings.HasPrefix(cmd, "command -v "):
		name := strings.Trim(strings.TrimPrefix(cmd, "command -v "), "'")
		s.mu.Lock()
		path, ok := s.schedulers[name]
		s.mu.Unlock()
		if !ok {
			return "", 1
		}
		return path + "\n", 0
	case strings.HasPrefix(cmd, "cd "):
		return "", 0
	case cmd == "false" || strings.HasSuffix(cmd, " false"):
		return "", 1
	default:
		return "ok\n", 0
	}
}
