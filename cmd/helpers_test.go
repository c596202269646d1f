package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"

	"github.com/nhoffman/bioscons/slurm"
)

// writeTemp creates a temp file with content and returns its path.
func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

// resetConfig clears global configuration so tests don't leak state
func resetConfig(t *testing.T) {
	t.Helper()
	viper.Reset()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	// Reset flags to defaults and clear Changed status
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	cfgKnownHosts = ""
	cfgInitErr = nil
	cliLog = zap.NewNop()

	origDial, origRun, origLookup := dialSSHFunc, runCommandFunc, lookupSchedulerFunc
	t.Cleanup(func() {
		dialSSHFunc, runCommandFunc, lookupSchedulerFunc = origDial, origRun, origLookup
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	// No test should find a real scheduler on the build machine.
	lookupSchedulerFunc = func(slurm.Scheduler) (string, bool) { return "", false }
}

// executeRoot runs the CLI with args and returns what it printed to stdout.
func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append(args, "--log-level", "error"))
	err := rootCmd.Execute()
	return out.String(), err
}

// stubLoginNode replaces dialing with a nil client and routes every command
// through respond. It returns the recorded command lines.
func stubLoginNode(t *testing.T, respond func(cmd string) ([]byte, int, error)) *recorder {
	t.Helper()
	rec := &recorder{}
	dialSSHFunc = func(target, user, password, keyPath, passphrase, knownHostsPath string, strictHost bool, dialTimeout time.Duration) (*ssh.Client, error) {
		rec.mu.Lock()
		rec.dials++
		rec.mu.Unlock()
		return nil, nil
	}
	runCommandFunc = func(client sessionClient, cmd string, timeout time.Duration) ([]byte, int, error) {
		rec.mu.Lock()
		rec.cmds = append(rec.cmds, cmd)
		rec.mu.Unlock()
		return respond(cmd)
	}
	return rec
}

type recorder struct {
	mu    sync.Mutex
	dials int
	cmds  []string
}

func (r *recorder) commands() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.cmds...)
}

// fakeSession returns canned output and error from CombinedOutput.
type fakeSession struct {
	out    []byte
	err    error
	delay  time.Duration
	closed bool
	got    string
}

func (s *fakeSession) CombinedOutput(cmd string) ([]byte, error) {
	s.got = cmd
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.out, s.err
}

func (s *fakeSession) Close() error { s.closed = true; return nil }

// fakeExitSession additionally reports an out-of-band exit code.
type fakeExitSession struct {
	fakeSession
	exit int
}

func (s *fakeExitSession) LastExitCode() int { return s.exit }

type fakeClient struct {
	sess session
	err  error
}

func (c fakeClient) NewSession() (session, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.sess, nil
}

var errBoom = errors.New("boom")
