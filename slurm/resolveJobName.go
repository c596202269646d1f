package slurm

import "strings"

// ResolveJobName labels a command for the scheduler: leading tokens that are
// variable references ("$VAR") are skipped and the next token is used. When
// every token is a reference the first one is returned.
//
// The name is placed inside double quotes without escaping, so a name that
// is itself a reference is expanded by the submitting shell and a name
// containing a double quote breaks the command line.
func ResolveJobName(command string) (string, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return "", ErrEmptyCommand
	}
	for _, f := range fields {
		if !strings.HasPrefix(f, "$") {
			return f, nil
		}
	}
	return fields[0], nil
}
