package cmd

import (
	"bufio"
	"fmt"
	"io"
)

// writePlan writes the planned command lines as a shell script, one step per
// line with its environment assignments, in execution order.
func writePlan(w io.Writer, mf *manifest, steps []plannedStep) error {
	bw := bufio.NewWriter(w)
	_, _ = fmt.Fprintln(bw, "#!/bin/sh")
	_, _ = fmt.Fprintf(bw, "# %s: planned commands (%d steps)\n", mf.Name, len(steps))
	for _, s := range steps {
		_, _ = fmt.Fprintf(bw, "# [%d/%d] %s\n", s.index+1, len(steps), s.title)
		_, _ = fmt.Fprintln(bw, s.shellLine())
	}
	return bw.Flush()
}
