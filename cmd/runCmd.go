package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhoffman/bioscons/internal/metrics"
)

// runCmd executes the pipeline: it plans every step, optionally connects to
// the cluster login node, looks up the schedulers the steps need, runs the
// steps and writes the report. With --noop it only writes the plan.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the steps of a pipeline manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfgManifest == "" {
			return errors.New("--manifest is required (path to YAML)")
		}
		if cfgOutPath == "" {
			return errors.New("--out is required (path to report file)")
		}
		if cfgFormat != "yaml" && cfgFormat != "text" {
			return fmt.Errorf("--format must be yaml or text, got %q", cfgFormat)
		}

		mf, err := loadManifest(cfgManifest)
		if err != nil {
			return fmt.Errorf("failed to read manifest: %w", err)
		}
		if len(mf.Steps) == 0 {
			return errors.New("manifest contains no steps")
		}
		steps, err := planSteps(mf, optionsFromFlags())
		if err != nil {
			return fmt.Errorf("invalid manifest: %w", err)
		}

		report := newYAMLReport(mf)

		if cfgNoop {
			if err := writeFile(cfgPlanPath, func(w io.Writer) error { return writePlan(w, mf, steps) }); err != nil {
				return fmt.Errorf("write plan: %w", err)
			}
			if err := writeReport(cfgOutPath, report); err != nil {
				return err
			}
			cliLog.Info("noop mode: wrote planned commands", zap.String("plan", cfgPlanPath), zap.Int("steps", len(steps)))
			return nil
		}

		var node *loginNode
		if target, user := loginTarget(mf); target != "" {
			if user == "" {
				return errors.New("--user is required for SSH authentication")
			}
			node, err = connectLoginNode(target, user, mf.Cluster.Workdir)
			if err != nil {
				return err
			}
			defer func() { _ = node.Close() }()
			report.LoginNode = target
		}

		for _, s := range usedSchedulers(steps) {
			var (
				path  string
				found bool
			)
			if node != nil {
				path, found, err = locateSchedulerRemote(node, s, cfgConnTimeout)
				if err != nil {
					return fmt.Errorf("scheduler lookup on login node: %w", err)
				}
			} else {
				path, found = lookupSchedulerFunc(s)
			}
			report.addScheduler(string(s), path, found)
			if found {
				cliLog.Info("using scheduler", zap.String("scheduler", string(s)), zap.String("path", path))
			} else {
				cliLog.Warn("scheduler not found; dispatched steps will fail (use --use-cluster=false to run locally)",
					zap.String("scheduler", string(s)))
			}
		}

		jobs := cfgJobs
		if jobs == 0 {
			jobs = report.Host.CPUs
		}
		p := &pipeline{
			steps:     steps,
			remote:    node,
			jobs:      jobs,
			keepGoing: cfgKeepGoing,
			force:     cfgForce,
		}
		results, runErr := p.run(cmd.Context())
		report.Steps = results

		if err := writeReport(cfgOutPath, report); err != nil {
			return err
		}
		if cfgMetrics != "" {
			m := metrics.New()
			report.recordMetrics(m)
			if err := m.WriteTextfile(cfgMetrics); err != nil {
				return fmt.Errorf("failed to write metrics: %w", err)
			}
		}
		if runErr != nil {
			return runErr
		}
		cliLog.Info("done", zap.String("report", cfgOutPath), zap.Int("steps", len(results)))
		return nil
	},
}

// writeReport writes the report in the configured format, creating parent
// directories as needed.
func writeReport(path string, r *yamlReport) error {
	err := writeFile(path, func(w io.Writer) error {
		if cfgFormat == "text" {
			return writeTextReport(w, r)
		}
		return writeYAMLReport(w, r)
	})
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func writeFile(path string, fill func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fill(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
