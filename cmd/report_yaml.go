package cmd

import (
	"bufio"
	"bytes"
	"io"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/nhoffman/bioscons/internal/metrics"
)

// yamlReport is the top-level structure serialized to the run report.
type yamlReport struct {
	RunID       string           `yaml:"run_id"`
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Generated   string           `yaml:"generated"`
	Host        yamlHost         `yaml:"host"`
	LoginNode   string           `yaml:"login_node,omitempty"`
	Schedulers  []yamlScheduler  `yaml:"schedulers,omitempty"`
	Steps       []yamlStepResult `yaml:"steps,omitempty"`
}

// yamlScheduler records where a scheduler executable was found, if at all.
type yamlScheduler struct {
	Name  string `yaml:"name"`
	Path  string `yaml:"path,omitempty"`
	Found bool   `yaml:"found"`
}

// yamlStepResult records the outcome of a single step.
type yamlStepResult struct {
	Title       string   `yaml:"title,omitempty"`
	JobName     string   `yaml:"job_name,omitempty"`
	Command     string   `yaml:"command"`
	Environment []string `yaml:"environment,omitempty"`
	Targets     []string `yaml:"targets,omitempty"`
	Precious    bool     `yaml:"precious,omitempty"`
	Timeout     string   `yaml:"timeout,omitempty"`
	ExitCode    int      `yaml:"exit_code"`
	Error       string   `yaml:"error,omitempty"`
	Skipped     string   `yaml:"skipped,omitempty"`
	Duration    string   `yaml:"duration,omitempty"`
	Output      string   `yaml:"output"`

	seconds float64
}

// newYAMLReport constructs a report seeded with manifest metadata, a fresh
// run id and a generated timestamp.
func newYAMLReport(mf *manifest) *yamlReport {
	return &yamlReport{
		RunID:       uuid.NewString(),
		Name:        mf.Name,
		Description: mf.Description,
		Generated:   time.Now().Format(time.RFC3339),
		Host:        submitHost(),
	}
}

func (r *yamlReport) addScheduler(name, path string, found bool) {
	r.Schedulers = append(r.Schedulers, yamlScheduler{Name: name, Path: path, Found: found})
}

// recordMetrics adds every step outcome to m.
func (r *yamlReport) recordMetrics(m *metrics.Pipeline) {
	for _, s := range r.Steps {
		status := metrics.StatusOK
		switch {
		case s.Skipped != "":
			status = metrics.StatusSkipped
		case s.Error != "":
			status = metrics.StatusFailed
		}
		m.RecordStep(s.JobName, status, s.seconds)
	}
}

// failures counts steps that ran and failed.
func (r *yamlReport) failures() int {
	n := 0
	for _, s := range r.Steps {
		if s.Error != "" {
			n++
		}
	}
	return n
}

// writeYAMLReport serializes the report with two-space indentation.
func writeYAMLReport(w io.Writer, r *yamlReport) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		_ = enc.Close()
		return err
	}
	_ = enc.Close()
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(buf.Bytes()); err != nil {
		return err
	}
	return bw.Flush()
}
