package slurm

import (
	"fmt"
	"strings"
)

// Scheduler names the command used to submit work to the cluster.
type Scheduler string

const (
	// None runs the command without a scheduler.
	None Scheduler = ""
	// SRun submits a single (possibly multithreaded) task.
	SRun Scheduler = "srun"
	// SAlloc allocates nodes, typically for MPI jobs driven by mpirun.
	SAlloc Scheduler = "salloc"
)

const (
	// DefaultShell interprets the command inside the scheduler allocation.
	DefaultShell = "sh"
	// DefaultTimingWrapper is prepended when timing is requested; the
	// --output argument is added per command.
	DefaultTimingWrapper = "/usr/bin/time --verbose"
)

// Policy describes how a single command is executed.
type Policy struct {
	UseScheduler  bool
	ApplyTiming   bool
	Scheduler     Scheduler
	ExtraArgs     string
	Cores         int
	TimeLimit     string
	Partition     string
	Shell         string
	TimingWrapper string
	// JobName overrides the name derived from the command. Callers that
	// expand variables before dispatch resolve it from the raw command.
	JobName string
}

// DefaultPolicy returns a policy that runs on one core via srun.
func DefaultPolicy() Policy {
	return Policy{
		UseScheduler:  true,
		Scheduler:     SRun,
		Cores:         1,
		Shell:         DefaultShell,
		TimingWrapper: DefaultTimingWrapper,
	}
}

// ParseScheduler accepts "srun", "salloc", and "none" (or the empty string).
func ParseScheduler(s string) (Scheduler, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "local":
		return None, nil
	case "srun":
		return SRun, nil
	case "salloc":
		return SAlloc, nil
	}
	return None, fmt.Errorf("%w: unknown scheduler %q", ErrInvalidPolicy, s)
}

// dispatched reports whether the command will be handed to a scheduler.
func (p Policy) dispatched() bool {
	return p.UseScheduler && p.Scheduler != None
}

func (p Policy) shell() string {
	if strings.TrimSpace(p.Shell) == "" {
		return DefaultShell
	}
	return p.Shell
}

func (p Policy) timingWrapper() string {
	if strings.TrimSpace(p.TimingWrapper) == "" {
		return DefaultTimingWrapper
	}
	return p.TimingWrapper
}

func (p Policy) cores() int {
	if p.Cores < 1 {
		return 1
	}
	return p.Cores
}
