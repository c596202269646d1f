package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nhoffman/bioscons/slurm"
)

func TestParseLookupOutput(t *testing.T) {
	p, ok := parseLookupOutput([]byte("/usr/bin/srun\n"))
	require.True(t, ok)
	require.Equal(t, "/usr/bin/srun", p)

	p, ok = parseLookupOutput([]byte("Last login: today\r\n  /opt/slurm/bin/salloc  \r\n"))
	require.True(t, ok)
	require.Equal(t, "/opt/slurm/bin/salloc", p)

	_, ok = parseLookupOutput([]byte("srun: aliased to srun --mpi=pmi2\n"))
	require.False(t, ok)
	_, ok = parseLookupOutput(nil)
	require.False(t, ok)
}

func TestLocateSchedulerRemote(t *testing.T) {
	orig := runCommandFunc
	t.Cleanup(func() { runCommandFunc = orig })

	runCommandFunc = func(client sessionClient, cmd string, timeout time.Duration) ([]byte, int, error) {
		require.Equal(t, "command -v srun", cmd)
		return []byte("/usr/bin/srun\n"), 0, nil
	}
	p, found, err := locateSchedulerRemote(nil, slurm.SRun, time.Second)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "/usr/bin/srun", p)

	runCommandFunc = func(sessionClient, string, time.Duration) ([]byte, int, error) {
		return nil, 127, errBoom
	}
	_, found, err = locateSchedulerRemote(nil, slurm.SAlloc, time.Second)
	require.NoError(t, err, "a non-zero status means not found")
	require.False(t, found)

	runCommandFunc = func(sessionClient, string, time.Duration) ([]byte, int, error) {
		return nil, -1, errBoom
	}
	_, _, err = locateSchedulerRemote(nil, slurm.SRun, time.Second)
	require.ErrorIs(t, err, errBoom)

	_, found, err = locateSchedulerRemote(nil, slurm.None, time.Second)
	require.NoError(t, err)
	require.False(t, found)
}

func TestUsedSchedulers(t *testing.T) {
	steps := []plannedStep{
		{policy: slurm.Policy{UseScheduler: true, Scheduler: slurm.SAlloc}},
		{policy: slurm.Policy{UseScheduler: false, Scheduler: slurm.SRun}},
		{policy: slurm.Policy{UseScheduler: true, Scheduler: slurm.SAlloc}},
		{policy: slurm.Policy{UseScheduler: true, Scheduler: slurm.SRun}},
	}
	require.Equal(t, []slurm.Scheduler{slurm.SAlloc, slurm.SRun}, usedSchedulers(steps))
	require.Empty(t, usedSchedulers(nil))
}
