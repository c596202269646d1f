package cmd

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/nhoffman/bioscons/slurm"
)

// refRe matches $NAME, ${NAME} and ${NAME[i]}.
var refRe = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:\[(\d+)\])?\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// substitute expands the step variables in tmpl:
//
//	$TARGET, $SOURCE        first target/source
//	$TARGETS, $SOURCES      all targets/sources, space separated
//	${TARGETS[i]}           i-th target (likewise for SOURCES)
//	$NAME, ${NAME}          manifest vars
//
// Paths are shell-quoted; vars are inserted verbatim so they can carry
// flags. Unknown references are left for the shell.
func substitute(tmpl string, targets, sources []string, vars map[string]string) (string, error) {
	var firstErr error
	out := refRe.ReplaceAllStringFunc(tmpl, func(m string) string {
		sub := refRe.FindStringSubmatch(m)
		name, idx := sub[1], sub[2]
		if name == "" {
			name = sub[3]
		}

		var list []string
		switch name {
		case "TARGET", "TARGETS":
			list = targets
		case "SOURCE", "SOURCES":
			list = sources
		default:
			if idx != "" {
				return m
			}
			if v, ok := vars[name]; ok {
				return v
			}
			return m
		}

		if idx != "" {
			if name == "TARGET" || name == "SOURCE" {
				return m
			}
			i, _ := strconv.Atoi(idx)
			if i >= len(list) {
				if firstErr == nil {
					firstErr = fmt.Errorf("%s: index %d out of range (%d available)", m, i, len(list))
				}
				return m
			}
			return slurm.Quote(list[i])
		}
		if len(list) == 0 {
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: step has no %s", m, strings.ToLower(strings.TrimSuffix(name, "S"))+"s")
			}
			return m
		}
		if name == "TARGET" || name == "SOURCE" {
			return slurm.Quote(list[0])
		}
		quoted := make([]string, len(list))
		for i, p := range list {
			quoted[i] = slurm.Quote(p)
		}
		return strings.Join(quoted, " ")
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}
