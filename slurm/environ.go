package slurm

import "strconv"

// Environ returns the NAME=value pairs the scheduler reads from the
// environment of the submitting process. It is empty when the command is not
// dispatched.
func Environ(p Policy) []string {
	if !p.dispatched() {
		return nil
	}
	var env []string
	if p.Partition != "" {
		env = append(env, "SLURM_PARTITION="+p.Partition, "SALLOC_PARTITION="+p.Partition)
	}
	if p.Scheduler == SRun && p.cores() > 1 {
		env = append(env, "SLURM_CPUS_PER_TASK="+strconv.Itoa(p.cores()))
	}
	if p.TimeLimit != "" {
		env = append(env, "SLURM_TIMELIMIT="+p.TimeLimit, "SALLOC_TIMELIMIT="+p.TimeLimit)
	}
	return env
}
