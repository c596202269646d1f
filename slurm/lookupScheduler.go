package slurm

import "os/exec"

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// LookupScheduler returns the absolute path of the scheduler executable.
// A missing executable is reported through found rather than an error so the
// caller can decide to run locally.
func LookupScheduler(s Scheduler) (path string, found bool) {
	if s == None {
		return "", false
	}
	p, err := lookPath(string(s))
	if err != nil {
		return "", false
	}
	return p, true
}
