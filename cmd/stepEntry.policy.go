package cmd

import (
	"time"

	"github.com/nhoffman/bioscons/slurm"
)

// runOptions are the command-line overrides applied on top of the manifest.
type runOptions struct {
	useCluster bool
	time       bool
	partition  string
	timeout    time.Duration
}

func optionsFromFlags() runOptions {
	return runOptions{
		useCluster: cfgUseCluster,
		time:       cfgTime,
		partition:  cfgPartition,
		timeout:    cfgTimeout,
	}
}

// policy resolves the execution policy for the step. Step settings win over
// command-line overrides, which win over the cluster defaults. Timing needs
// both the environment and the step to agree, as does cluster dispatch.
func (s *stepEntry) policy(c clusterConfig, opts runOptions) (slurm.Policy, error) {
	sched, err := slurm.ParseScheduler(s.Scheduler)
	if err != nil {
		return slurm.Policy{}, err
	}
	if s.Scheduler == "" {
		sched = slurm.SRun
	}

	p := slurm.Policy{
		UseScheduler:  c.useCluster() && opts.useCluster && !bool(s.Local) && sched != slurm.None,
		ApplyTiming:   (bool(c.Time) || opts.time) && (s.Time == nil || bool(*s.Time)),
		Scheduler:     sched,
		ExtraArgs:     s.SlurmArgs,
		Cores:         s.Cores,
		TimeLimit:     s.TimeLimit,
		Partition:     firstNonEmpty(s.Partition, opts.partition, c.Partition),
		Shell:         firstNonEmpty(c.Shell, slurm.DefaultShell),
		TimingWrapper: firstNonEmpty(c.TimingWrapper, slurm.DefaultTimingWrapper),
	}
	if p.Cores == 0 {
		p.Cores = 1
	}
	if err := p.Validate(); err != nil {
		return slurm.Policy{}, err
	}
	if p.ApplyTiming && len(s.Targets) == 0 {
		return slurm.Policy{}, slurm.ErrNoTimingTarget
	}
	return p, nil
}

// precious reports whether the step's targets survive clean.
func (s *stepEntry) precious(c clusterConfig) bool {
	if s.Precious != nil {
		return bool(*s.Precious)
	}
	return bool(c.AllPrecious)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
