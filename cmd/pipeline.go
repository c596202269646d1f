package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// pipeline executes planned steps. Steps start in manifest order, at most
// jobs at a time, and each waits for the steps producing its sources.
// Because producers always precede their consumers, the earliest running
// step never waits on anything that has not started, so a full slot limit
// cannot deadlock.
type pipeline struct {
	steps     []plannedStep
	remote    *loginNode
	jobs      int
	keepGoing bool
	force     bool
}

// limit is the number of steps allowed to run at once. Steps sent through
// the login node's shell run one at a time: a step queued behind another
// would spend its timeout waiting, and the reconnect that follows a timeout
// would kill the step holding the shell.
func (p *pipeline) limit() int {
	if p.jobs < 1 {
		return 1
	}
	if p.jobs > 1 && p.remote != nil && p.remote.serial() {
		cliLog.Info("login node shell runs one command at a time",
			zap.Int("jobs", p.jobs))
		return 1
	}
	return p.jobs
}

// run executes all steps and returns one result per step, in manifest order.
// The error is non-nil when any step failed.
func (p *pipeline) run(ctx context.Context) ([]yamlStepResult, error) {
	n := len(p.steps)
	results := make([]yamlStepResult, n)
	failed := make([]bool, n)
	done := make([]chan struct{}, n)
	for i := range done {
		done[i] = make(chan struct{})
	}

	jobs := p.limit()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i := range p.steps {
		i := i
		g.Go(func() error {
			defer close(done[i])
			s := p.steps[i]
			results[i] = baseResult(s)

			for _, d := range s.deps {
				select {
				case <-done[d]:
				case <-gctx.Done():
				}
				// A failed dependency is reported as such even when the
				// failure also cancelled the run.
				if isClosed(done[d]) && failed[d] {
					results[i].Skipped = fmt.Sprintf("dependency %q failed", p.steps[d].title)
					failed[i] = true
					return nil
				}
				if gctx.Err() != nil {
					results[i].Skipped = "cancelled"
					failed[i] = true
					return nil
				}
			}
			if gctx.Err() != nil {
				results[i].Skipped = "cancelled"
				failed[i] = true
				return nil
			}

			err := p.execStep(gctx, s, &results[i])
			if err == nil {
				return nil
			}
			failed[i] = true
			cliLog.Error("step failed", zap.String("step", s.title), zap.Error(err))
			if p.keepGoing {
				return nil
			}
			return fmt.Errorf("step %q: %w", s.title, err)
		})
	}

	err := g.Wait()
	failures := 0
	for i := range results {
		if results[i].Error != "" {
			failures++
		}
	}
	if failures > 0 {
		if err != nil {
			return results, fmt.Errorf("%w: %w", errStepFailed, err)
		}
		return results, fmt.Errorf("%w: %d of %d steps failed", errStepFailed, failures, n)
	}
	return results, err
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func baseResult(s plannedStep) yamlStepResult {
	res := yamlStepResult{
		Title:       s.title,
		JobName:     s.jobName,
		Command:     s.final,
		Environment: s.env,
		Targets:     s.targets,
		Precious:    s.precious,
	}
	if s.timeout > 0 {
		res.Timeout = s.timeout.String()
	}
	return res
}

// execStep runs one step and fills in res. Up-to-date checks and target
// directories only apply to local runs; the login node's filesystem is not
// visible from here.
func (p *pipeline) execStep(ctx context.Context, s plannedStep, res *yamlStepResult) error {
	log := cliLog.With(zap.String("step", s.title), zap.String("job", s.jobName))

	var (
		client sessionClient
		line   string
	)
	if p.remote != nil {
		client = p.remote
		line = s.shellLine()
	} else {
		if !p.force && upToDate(s.targets, s.sources) {
			res.Skipped = "up to date"
			log.Info("up to date")
			return nil
		}
		if err := ensureTargetDirs(s.targets); err != nil {
			res.Error = err.Error()
			res.ExitCode = -1
			return err
		}
		if s.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}
		client = localClient{ctx: ctx, env: s.env}
		line = s.final
	}

	log.Info("running", zap.String("command", s.final), zap.Strings("env", s.env))
	start := time.Now()
	out, code, err := runCommandFunc(client, line, s.timeout)
	elapsed := time.Since(start)
	res.seconds = elapsed.Seconds()
	res.Duration = elapsed.Round(time.Millisecond).String()
	res.ExitCode = code
	res.Output = string(out)
	if err == nil && code != 0 {
		err = fmt.Errorf("exit status %d", code)
	}
	if err != nil {
		res.Error = strings.TrimSpace(err.Error())
	}

	// Exec channels are independent, so a timed-out one is left to finish
	// on its own rather than closing the connection under its siblings.
	if p.remote != nil && errors.Is(err, context.DeadlineExceeded) && p.remote.serial() {
		log.Warn("step timed out; reconnecting to login node")
		if rerr := p.remote.reconnect(); rerr != nil {
			return fmt.Errorf("%w (%v)", err, rerr)
		}
	}
	if err == nil {
		log.Info("done", zap.String("duration", res.Duration))
	}
	return err
}
