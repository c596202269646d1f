package cmd

import (
	"strings"

	"github.com/nhoffman/bioscons/slurm"
)

// line renders the step's command: variables in Command are substituted, then
// the arguments are appended with safe shell quoting. Arguments are literal;
// a "$TARGET" there is passed through as text.
func (s *stepEntry) line(vars map[string]string) (string, error) {
	command, err := substitute(strings.TrimSpace(s.Command), s.Targets, s.Sources, vars)
	if err != nil {
		return "", err
	}
	if len(s.Args) == 0 {
		return command, nil
	}
	quoted := make([]string, 0, len(s.Args))
	for _, a := range s.Args {
		quoted = append(quoted, slurm.Quote(a))
	}
	return strings.TrimSpace(command + " " + strings.Join(quoted, " ")), nil
}
