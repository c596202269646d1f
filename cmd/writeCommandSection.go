package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// writeCommandSection writes one step's result for the text format
func writeCommandSection(w io.Writer, res yamlStepResult) error {
	bw := bufio.NewWriter(w)
	_, _ = fmt.Fprintln(bw, strings.Repeat("-", 80))
	if res.Title != "" {
		_, _ = fmt.Fprintf(bw, "Title: %s\n", res.Title)
	}
	_, _ = fmt.Fprintf(bw, "Command: %s\n", res.Command)
	for _, kv := range res.Environment {
		_, _ = fmt.Fprintf(bw, "Env: %s\n", kv)
	}
	if res.Timeout != "" {
		_, _ = fmt.Fprintf(bw, "Timeout: %s\n", res.Timeout)
	}
	if res.Skipped != "" {
		_, _ = fmt.Fprintf(bw, "Skipped: %s\n", res.Skipped)
		return bw.Flush()
	}
	_, _ = fmt.Fprintf(bw, "Exit Code: %d\n", res.ExitCode)
	if res.Error != "" {
		_, _ = fmt.Fprintf(bw, "Error: %s\n", res.Error)
	}
	if res.Duration != "" {
		_, _ = fmt.Fprintf(bw, "Duration: %s\n", res.Duration)
	}
	_, _ = fmt.Fprintln(bw, "Output:")
	_, _ = fmt.Fprintln(bw, "---8<---")
	_, _ = bw.WriteString(res.Output)
	if !strings.HasSuffix(res.Output, "\n") {
		_, _ = bw.WriteString("\n")
	}
	_, _ = fmt.Fprintln(bw, "---8<---")
	return bw.Flush()
}

// writeTextReport renders the whole report in the text format.
func writeTextReport(w io.Writer, r *yamlReport) error {
	writeHeader(w, r)
	for _, res := range r.Steps {
		if err := writeCommandSection(w, res); err != nil {
			return err
		}
	}
	return nil
}
