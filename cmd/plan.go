package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/nhoffman/bioscons/slurm"
)

// plannedStep is a manifest step resolved into the exact command line that
// will be executed.
type plannedStep struct {
	index    int
	title    string
	targets  []string
	sources  []string
	deps     []int
	policy   slurm.Policy
	jobName  string
	final    string
	env      []string
	precious bool
	timeout  time.Duration
}

// planSteps resolves every step of mf. It fails on the first step whose
// policy or command cannot be rendered.
func planSteps(mf *manifest, opts runOptions) ([]plannedStep, error) {
	producer := make(map[string]int)
	out := make([]plannedStep, 0, len(mf.Steps))
	for i := range mf.Steps {
		s := &mf.Steps[i]
		p, err := s.policy(mf.Cluster, opts)
		if err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
		// The job is named after the command as written, so a leading
		// $MPIRUN is skipped even though substitution expands it.
		job, err := slurm.ResolveJobName(strings.TrimSpace(s.Command))
		if err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
		p.JobName = job
		command, err := s.line(mf.Cluster.Vars)
		if err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
		final, err := slurm.BuildCommand(command, s.Targets, p)
		if err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}

		ps := plannedStep{
			index:    i,
			title:    firstNonEmpty(strings.TrimSpace(s.Title), job),
			targets:  s.Targets,
			sources:  s.Sources,
			policy:   p,
			jobName:  job,
			final:    final,
			env:      slurm.Environ(p),
			precious: s.precious(mf.Cluster),
			timeout:  s.perCommandTimeout(opts.timeout),
		}
		seen := make(map[int]bool)
		for _, src := range s.Sources {
			if j, ok := producer[src]; ok && !seen[j] {
				seen[j] = true
				ps.deps = append(ps.deps, j)
			}
		}
		for _, t := range s.Targets {
			producer[t] = i
		}
		out = append(out, ps)
	}
	return out, nil
}

// shellLine renders the step for a shell that does not inherit the policy
// environment: NAME=value assignments followed by the command.
func (p plannedStep) shellLine() string {
	if len(p.env) == 0 {
		return p.final
	}
	parts := make([]string, 0, len(p.env)+1)
	for _, kv := range p.env {
		name, value, _ := strings.Cut(kv, "=")
		parts = append(parts, name+"="+slurm.Quote(value))
	}
	parts = append(parts, p.final)
	return strings.Join(parts, " ")
}
