package slurm

import (
	"fmt"
	"regexp"
)

// SLURM accepts minutes, minutes:seconds, hours:minutes:seconds, days-hours,
// days-hours:minutes and days-hours:minutes:seconds.
var timeLimitRe = regexp.MustCompile(`^(\d+|\d+:\d+|\d+:\d+:\d+|\d+-\d+|\d+-\d+:\d+|\d+-\d+:\d+:\d+)$`)

// ValidTimeLimit reports whether s is a time limit SLURM understands. The
// empty string means no limit and is valid.
func ValidTimeLimit(s string) bool {
	return s == "" || timeLimitRe.MatchString(s)
}

// Validate checks field values. Combinations that are merely irrelevant, such
// as a scheduler set while UseScheduler is false, are not errors.
func (p Policy) Validate() error {
	if p.Cores < 1 {
		return fmt.Errorf("%w: cores must be >= 1, got %d", ErrInvalidPolicy, p.Cores)
	}
	switch p.Scheduler {
	case None, SRun, SAlloc:
	default:
		return fmt.Errorf("%w: unknown scheduler %q", ErrInvalidPolicy, string(p.Scheduler))
	}
	if !ValidTimeLimit(p.TimeLimit) {
		return fmt.Errorf("%w: malformed time limit %q", ErrInvalidPolicy, p.TimeLimit)
	}
	return nil
}
