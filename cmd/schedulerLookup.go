package cmd

import (
	"bufio"
	"bytes"
	"strings"
	"time"

	"github.com/nhoffman/bioscons/slurm"
)

// parseLookupOutput returns the first absolute path printed by
// `command -v`, ignoring shell noise such as login banners.
func parseLookupOutput(b []byte) (string, bool) {
	s := bufio.NewScanner(bytes.NewReader(b))
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if strings.HasPrefix(line, "/") && !strings.ContainsAny(line, " \t") {
			return line, true
		}
	}
	return "", false
}

// locateSchedulerRemote looks up the scheduler executable on the login node.
// Like the local lookup, a missing executable is a result, not an error; a
// transport failure is returned as err.
func locateSchedulerRemote(client sessionClient, s slurm.Scheduler, timeout time.Duration) (path string, found bool, err error) {
	if s == slurm.None {
		return "", false, nil
	}
	out, code, err := runCommandFunc(client, "command -v "+slurm.Quote(string(s)), timeout)
	if err != nil && code < 0 {
		return "", false, err
	}
	if code != 0 {
		return "", false, nil
	}
	path, found = parseLookupOutput(out)
	return path, found, nil
}

// usedSchedulers lists the schedulers that planned steps dispatch to, in
// first-use order.
func usedSchedulers(steps []plannedStep) []slurm.Scheduler {
	var out []slurm.Scheduler
	seen := make(map[slurm.Scheduler]bool)
	for _, s := range steps {
		if !s.policy.UseScheduler || seen[s.policy.Scheduler] {
			continue
		}
		seen[s.policy.Scheduler] = true
		out = append(out, s.policy.Scheduler)
	}
	return out
}
