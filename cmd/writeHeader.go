package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// writeHeader writes report metadata for the text format
func writeHeader(w io.Writer, r *yamlReport) {
	bw := bufio.NewWriter(w)
	_, _ = fmt.Fprintf(bw, "Name: %s\n", r.Name)
	_, _ = fmt.Fprintf(bw, "Description: %s\n", r.Description)
	_, _ = fmt.Fprintf(bw, "Run: %s\n", r.RunID)
	_, _ = fmt.Fprintf(bw, "Generated: %s\n", r.Generated)
	_, _ = fmt.Fprintf(bw, "Host: %s (%d CPUs)\n", r.Host.Hostname, r.Host.CPUs)
	if r.LoginNode != "" {
		_, _ = fmt.Fprintf(bw, "Login Node: %s\n", r.LoginNode)
	}
	for _, s := range r.Schedulers {
		if s.Found {
			_, _ = fmt.Fprintf(bw, "Scheduler: %s (%s)\n", s.Name, s.Path)
		} else {
			_, _ = fmt.Fprintf(bw, "Scheduler: %s (not found)\n", s.Name)
		}
	}
	_, _ = fmt.Fprintf(bw, "Step Count: %d\n", len(r.Steps))
	_, _ = fmt.Fprintln(bw, strings.Repeat("=", 80))
	_ = bw.Flush()
}
