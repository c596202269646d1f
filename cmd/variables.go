package cmd

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/nhoffman/bioscons/slurm"
)

// Version is the CLI version string injected at build time via -ldflags.
var Version = "0.1.0"

var (
	// errTypeMismatch is returned when a boolean setting is given something
	// other than a boolean. These are easy to get wrong and must not silently
	// turn into false.
	errTypeMismatch = errors.New("type mismatch")
	// errStepFailed marks a run in which at least one step failed.
	errStepFailed = errors.New("pipeline step failed")
)

var (
	// Global configuration populated by flags and/or environment variables.
	cfgManifest    string
	cfgTarget      string
	cfgUser        string
	cfgPassword    string
	cfgKeyPath     string
	cfgPassphrase  string
	cfgOutPath     string
	cfgFormat      string
	cfgKnownHosts  string
	cfgStrictHost  bool
	cfgTimeout     time.Duration
	cfgConnTimeout time.Duration
	cfgNoop        bool
	cfgPlanPath    string
	cfgJobs        int
	cfgKeepGoing   bool
	cfgForce       bool
	cfgUseCluster  bool
	cfgTime        bool
	cfgPartition   string
	cfgLogLevel    string
	cfgLogFormat   string
	cfgMetrics     string

	// cfgInitErr holds an environment override that could not be parsed;
	// it is reported before any subcommand runs.
	cfgInitErr error
)

// cliLog is replaced in the root command's pre-run hook.
var cliLog = zap.NewNop()

// Allow tests to stub dialing, command execution and scheduler lookup
var (
	dialSSHFunc         = dialSSH
	runCommandFunc      = runCommand
	lookupSchedulerFunc = slurm.LookupScheduler
)
