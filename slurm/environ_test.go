package slurm

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestEnviron(t *testing.T) {
	p := Policy{UseScheduler: true, Scheduler: SRun, Cores: 2, Partition: "long", TimeLimit: "1-00:00"}
	require.Equal(t, []string{
		"SLURM_PARTITION=long",
		"SALLOC_PARTITION=long",
		"SLURM_CPUS_PER_TASK=2",
		"SLURM_TIMELIMIT=1-00:00",
		"SALLOC_TIMELIMIT=1-00:00",
	}, Environ(p))
}

func TestEnviron_SallocSkipsCpusPerTask(t *testing.T) {
	p := Policy{UseScheduler: true, Scheduler: SAlloc, Cores: 16}
	require.Empty(t, Environ(p))
}

func TestEnviron_LocalIsEmpty(t *testing.T) {
	p := Policy{UseScheduler: false, Scheduler: SRun, Cores: 4, Partition: "batch"}
	require.Nil(t, Environ(p))
}

func TestEnviron_Table(t *testing.T) {
	tests := []struct {
		name string
		p    Policy
		want []string
	}{
		{"single core srun", Policy{UseScheduler: true, Scheduler: SRun, Cores: 1}, nil},
		{"zero cores counts as one", Policy{UseScheduler: true, Scheduler: SRun}, nil},
		{"partition only", Policy{UseScheduler: true, Scheduler: SAlloc, Partition: "short"},
			[]string{"SLURM_PARTITION=short", "SALLOC_PARTITION=short"}},
		{"time limit only", Policy{UseScheduler: true, Scheduler: SRun, Cores: 1, TimeLimit: "90"},
			[]string{"SLURM_TIMELIMIT=90", "SALLOC_TIMELIMIT=90"}},
		{"scheduler none", Policy{UseScheduler: true, Scheduler: None, Partition: "x"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Environ(tt.p)); diff != "" {
				t.Errorf("Environ() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
