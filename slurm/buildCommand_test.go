package slurm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"mvdan.cc/sh/v3/shell"
)

func TestBuildCommand_LocalUnchanged(t *testing.T) {
	p := DefaultPolicy()
	p.UseScheduler = false
	got, err := BuildCommand("cmalign -o out.sto in.fa", []string{"out.sto"}, p)
	require.NoError(t, err)
	require.Equal(t, "cmalign -o out.sto in.fa", got)
}

func TestBuildCommand_SchedulerNoneIgnored(t *testing.T) {
	p := DefaultPolicy()
	p.Scheduler = None
	got, err := BuildCommand("echo hi", nil, p)
	require.NoError(t, err)
	require.Equal(t, "echo hi", got)
}

func TestBuildCommand_TimingLocal(t *testing.T) {
	p := DefaultPolicy()
	p.UseScheduler = false
	p.ApplyTiming = true
	got, err := BuildCommand("raxml -s a.phy", []string{"out/tree.nwk", "other"}, p)
	require.NoError(t, err)
	require.Equal(t, "/usr/bin/time --verbose --output out/tree.nwk.time raxml -s a.phy", got)
}

func TestBuildCommand_TimingOnceWithScheduler(t *testing.T) {
	p := DefaultPolicy()
	p.ApplyTiming = true
	got, err := BuildCommand("raxml -s a.phy", []string{"tree.nwk"}, p)
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(got, "/usr/bin/time --verbose --output tree.nwk.time"))
	require.Contains(t, got, `-J "raxml"`)
	require.True(t, strings.HasPrefix(got, "srun "))
}

func TestBuildCommand_TimingWithoutTarget(t *testing.T) {
	p := DefaultPolicy()
	p.ApplyTiming = true
	_, err := BuildCommand("raxml", nil, p)
	require.ErrorIs(t, err, ErrNoTimingTarget)
}

func TestBuildCommand_EndToEndSrun(t *testing.T) {
	p := Policy{UseScheduler: true, Scheduler: SRun, Cores: 4, Partition: "batch", Shell: "sh"}
	got, err := BuildCommand("align.sh in.fa out.sto", []string{"out.sto"}, p)
	require.NoError(t, err)
	require.Equal(t, `srun --cpus-per-task=4 -J "align.sh" sh -c 'align.sh in.fa out.sto'`, got)
	require.Contains(t, Environ(p), "SLURM_PARTITION=batch")
	require.Contains(t, Environ(p), "SLURM_CPUS_PER_TASK=4")
}

func TestBuildCommand_SingleCoreSrunHasNoCoreFlag(t *testing.T) {
	got, err := BuildCommand("echo hi", nil, DefaultPolicy())
	require.NoError(t, err)
	require.Equal(t, `srun -J "echo" sh -c 'echo hi'`, got)
}

func TestBuildCommand_SallocWithExtraArgs(t *testing.T) {
	p := DefaultPolicy()
	p.Scheduler = SAlloc
	p.Cores = 8
	p.ExtraArgs = " --exclusive "
	p.Shell = "/bin/bash"
	got, err := BuildCommand("$MPIRUN cmalign --mpi x", nil, p)
	require.NoError(t, err)
	require.Equal(t, `salloc -n 8 --exclusive -J "cmalign" /bin/bash -c '$MPIRUN cmalign --mpi x'`, got)
}

func TestBuildCommand_QuotedCommandRoundTrips(t *testing.T) {
	cmd := `grep -v "it's" in.txt > out.txt`
	got, err := BuildCommand(cmd, []string{"out.txt"}, DefaultPolicy())
	require.NoError(t, err)
	fields, err := shell.Fields(got, func(string) string { return "" })
	require.NoError(t, err)
	require.Equal(t, []string{"srun", "-J", "grep", "sh", "-c", cmd}, fields)
}

func TestBuildCommand_EmptyCommand(t *testing.T) {
	_, err := BuildCommand("  ", nil, DefaultPolicy())
	require.ErrorIs(t, err, ErrEmptyCommand)
}

func TestBuildCommand_CustomTimingWrapper(t *testing.T) {
	p := DefaultPolicy()
	p.UseScheduler = false
	p.ApplyTiming = true
	p.TimingWrapper = "gtime -v"
	got, err := BuildCommand("prog", []string{"my out"}, p)
	require.NoError(t, err)
	require.Equal(t, "gtime -v --output 'my out.time' prog", got)
}

func TestBuildCommand_JobNameOverride(t *testing.T) {
	p := DefaultPolicy()
	p.Scheduler = SAlloc
	p.Cores = 8
	p.JobName = "cmalign"
	got, err := BuildCommand("mpirun -np 8 cmalign --mpi x", nil, p)
	require.NoError(t, err)
	require.Equal(t, `salloc -n 8 -J "cmalign" sh -c 'mpirun -np 8 cmalign --mpi x'`, got)
}
