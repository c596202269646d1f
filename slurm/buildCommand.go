package slurm

import (
	"strconv"
	"strings"
)

// BuildCommand renders command under policy p. targets are the outputs of
// the command; the first one names the timing report when p.ApplyTiming is
// set. The job name is p.JobName, or ResolveJobName(command) when unset.
//
// Without a scheduler the (possibly timed) command is returned unchanged.
// Otherwise the result has the form
//
//	<scheduler> [core flag] [extra args] -J "<job>" <shell> -c <quoted command>
func BuildCommand(command string, targets []string, p Policy) (string, error) {
	job := p.JobName
	if job == "" {
		var err error
		if job, err = ResolveJobName(command); err != nil {
			return "", err
		}
	}

	if p.ApplyTiming {
		if len(targets) == 0 || targets[0] == "" {
			return "", ErrNoTimingTarget
		}
		command = TimingPrefix(p, targets[0]) + command
	}

	if !p.dispatched() {
		return command, nil
	}

	parts := []string{string(p.Scheduler)}
	if flag := coreFlag(p); flag != "" {
		parts = append(parts, flag)
	}
	if extra := strings.TrimSpace(p.ExtraArgs); extra != "" {
		parts = append(parts, extra)
	}
	parts = append(parts, `-J "`+job+`"`, p.shell(), "-c", Quote(command))
	return strings.Join(parts, " "), nil
}

// TimingPrefix is the wrapper prepended to a timed command, including the
// trailing space.
func TimingPrefix(p Policy, target string) string {
	return p.timingWrapper() + " --output " + Quote(target+".time") + " "
}

func coreFlag(p Policy) string {
	n := p.cores()
	switch p.Scheduler {
	case SRun:
		if n > 1 {
			return "--cpus-per-task=" + strconv.Itoa(n)
		}
	case SAlloc:
		return "-n " + strconv.Itoa(n)
	}
	return ""
}
