package cmd

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunCommand_Success(t *testing.T) {
	s := &fakeSession{out: []byte("hi\n")}
	out, code, err := runCommand(fakeClient{sess: s}, "echo hi", 0)
	require.NoError(t, err)
	require.Equal(t, 0, code)
	require.Equal(t, "hi\n", string(out))
	require.Equal(t, "echo hi", s.got)
	require.True(t, s.closed)
}

func TestRunCommand_NewSessionError(t *testing.T) {
	_, code, err := runCommand(fakeClient{err: errBoom}, "x", 0)
	require.ErrorIs(t, err, errBoom)
	require.Equal(t, -1, code)
}

func TestRunCommand_TransportErrorHasNoExitCode(t *testing.T) {
	_, code, err := runCommand(fakeClient{sess: &fakeSession{err: errBoom}}, "x", 0)
	require.Error(t, err)
	require.Equal(t, -1, code)
}

func TestRunCommand_PrefersLastExitCode(t *testing.T) {
	s := &fakeExitSession{fakeSession: fakeSession{out: []byte("nope")}, exit: 3}
	out, code, err := runCommand(fakeClient{sess: s}, "false", 0)
	require.NoError(t, err)
	require.Equal(t, 3, code)
	require.Equal(t, "nope", string(out))
}

func TestRunCommand_Timeout(t *testing.T) {
	s := &fakeSession{delay: 200 * time.Millisecond}
	_, code, err := runCommand(fakeClient{sess: s}, "sleep", 20*time.Millisecond)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, -1, code)
}

func TestRunCommand_Local(t *testing.T) {
	c := localClient{ctx: context.Background(), env: []string{"SLURM_PARTITION=long"}}
	out, code, err := runCommand(c, `echo "$SLURM_PARTITION"; exit 4`, 0)
	require.Error(t, err)
	require.Equal(t, 4, code)
	require.Equal(t, "long\n", string(out))

	var ee *exec.ExitError
	require.ErrorAs(t, err, &ee)
	require.Equal(t, 4, exitStatus(err))
}

func TestLocalClient_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, code, err := runCommand(localClient{ctx: ctx}, "true", 0)
	require.Error(t, err)
	require.Equal(t, -1, code)
}

func TestExitStatus_Unknown(t *testing.T) {
	require.Equal(t, -1, exitStatus(errBoom))
}
