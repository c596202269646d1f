package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nhoffman/bioscons/slurm"
)

// loadManifest reads and validates the YAML manifest: required metadata,
// a command for every step, well-formed per-step settings, and steps ordered
// so that every source produced by the pipeline is produced by an earlier
// step.
func loadManifest(path string) (*manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	mf := &manifest{}
	if err := yamlUnmarshal(b, mf); err != nil {
		return nil, err
	}
	if mf.Name == "" {
		return nil, errors.New("manifest.name is required")
	}
	if mf.Description == "" {
		return nil, errors.New("manifest.description is required")
	}
	if err := validateSteps(mf.Steps); err != nil {
		return nil, err
	}
	return mf, nil
}

func validateSteps(steps []stepEntry) error {
	producer := make(map[string]int)
	for i, s := range steps {
		if strings.TrimSpace(s.Command) == "" {
			return fmt.Errorf("steps[%d].command is required", i)
		}
		if _, err := slurm.ParseScheduler(s.Scheduler); err != nil {
			return fmt.Errorf("steps[%d].scheduler: %w", i, err)
		}
		if s.Cores < 0 {
			return fmt.Errorf("steps[%d].cores must be >= 1", i)
		}
		if !slurm.ValidTimeLimit(s.TimeLimit) {
			return fmt.Errorf("steps[%d].timelimit: malformed time limit %q", i, s.TimeLimit)
		}
		if s.Timeout != "" {
			if _, err := time.ParseDuration(s.Timeout); err != nil {
				return fmt.Errorf("steps[%d].timeout: %w", i, err)
			}
		}
		for _, t := range s.Targets {
			if j, dup := producer[t]; dup {
				return fmt.Errorf("steps[%d] target %q is already produced by steps[%d]", i, t, j)
			}
			producer[t] = i
		}
	}
	for i, s := range steps {
		for _, src := range s.Sources {
			if j, ok := producer[src]; ok && j >= i {
				return fmt.Errorf("steps[%d] source %q is produced by steps[%d]; producers must come first", i, src, j)
			}
		}
	}
	return nil
}
