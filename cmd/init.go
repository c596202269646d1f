package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "BIOSCONS"

// init configures the root command's persistent flags, binds them to
// environment variables via Viper, and registers all subcommands.
func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgManifest, "manifest", "m", "", "Path to YAML pipeline manifest")
	pf.StringVarP(&cfgOutPath, "out", "o", "", "Path to the run report")
	pf.StringVar(&cfgFormat, "format", "yaml", "Report format: yaml or text")
	pf.StringVarP(&cfgTarget, "target", "t", "", "Cluster login node host:port; steps run locally when empty")
	pf.StringVarP(&cfgUser, "user", "u", "", "SSH username for the login node")
	pf.StringVar(&cfgPassword, "password", "", "SSH password (or set BIOSCONS_PASSWORD)")
	pf.StringVar(&cfgKeyPath, "key", "", "Path to SSH private key (PEM, OpenSSH)")
	pf.StringVar(&cfgPassphrase, "passphrase", "", "Private key passphrase (or set BIOSCONS_PASSPHRASE)")
	pf.StringVar(&cfgKnownHosts, "known-hosts", filepath.Join(os.Getenv("HOME"), ".ssh", "known_hosts"), "Path to known_hosts file")
	pf.BoolVar(&cfgStrictHost, "strict-host-key", true, "Require host key verification (disable to accept any host key)")
	pf.DurationVar(&cfgTimeout, "cmd-timeout", 0, "Per-step timeout (e.g., 30m). 0 disables")
	pf.DurationVar(&cfgConnTimeout, "conn-timeout", 15*time.Second, "Connection timeout")
	pf.BoolVar(&cfgNoop, "noop", false, "Do not execute steps; write planned command lines to --plan")
	pf.StringVar(&cfgPlanPath, "plan", "plan.sh", "Where --noop writes the planned command lines")
	pf.IntVarP(&cfgJobs, "jobs", "j", 1, "Number of steps to run at once (0: one per CPU)")
	pf.BoolVarP(&cfgKeepGoing, "keep-going", "k", false, "Keep running independent steps after a failure")
	pf.BoolVar(&cfgForce, "force", false, "Run steps even when their targets are up to date")
	pf.BoolVar(&cfgUseCluster, "use-cluster", true, "Dispatch steps to the scheduler (false runs everything locally)")
	pf.BoolVar(&cfgTime, "time", false, "Wrap every step with the timing wrapper")
	pf.StringVarP(&cfgPartition, "partition", "p", "", "Default SLURM partition")
	pf.StringVar(&cfgLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&cfgLogFormat, "log-format", "console", "Log encoding: console or json")
	pf.StringVar(&cfgMetrics, "metrics-file", "", "Write step metrics in Prometheus text format to this file")

	// Bind env with Viper
	for _, name := range []string{
		"manifest", "out", "format", "target", "user", "password", "key", "passphrase",
		"known-hosts", "strict-host-key", "cmd-timeout", "conn-timeout", "noop", "plan",
		"jobs", "keep-going", "force", "use-cluster", "time", "partition", "log-level", "log-format",
		"metrics-file",
	} {
		_ = viper.BindPFlag(name, pf.Lookup(name))
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Pull in environment overrides on init
	cobra.OnInitialize(applyEnvOverrides)

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(cleanCmd)
}

// applyEnvOverrides copies Viper values into the cfg variables. Values that
// cannot be parsed are kept in cfgInitErr instead of being dropped.
func applyEnvOverrides() {
	cfgInitErr = nil

	strs := map[string]*string{
		"manifest":     &cfgManifest,
		"out":          &cfgOutPath,
		"format":       &cfgFormat,
		"target":       &cfgTarget,
		"user":         &cfgUser,
		"password":     &cfgPassword,
		"key":          &cfgKeyPath,
		"passphrase":   &cfgPassphrase,
		"known-hosts":  &cfgKnownHosts,
		"plan":         &cfgPlanPath,
		"partition":    &cfgPartition,
		"log-level":    &cfgLogLevel,
		"log-format":   &cfgLogFormat,
		"metrics-file": &cfgMetrics,
	}
	for key, dst := range strs {
		if v := viper.GetString(key); v != "" {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"cmd-timeout":  &cfgTimeout,
		"conn-timeout": &cfgConnTimeout,
	}
	for key, dst := range durations {
		if v := viper.GetString(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				setInitErr(fmt.Errorf("%s: invalid duration %q: %w", key, v, err))
				continue
			}
			*dst = d
		}
	}

	if v := viper.GetString("jobs"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			setInitErr(fmt.Errorf("jobs: expected a non-negative integer, got %q", v))
		} else {
			cfgJobs = n
		}
	}

	// Booleans
	bools := map[string]*bool{
		"strict-host-key": &cfgStrictHost,
		"noop":            &cfgNoop,
		"keep-going":      &cfgKeepGoing,
		"force":           &cfgForce,
		"use-cluster":     &cfgUseCluster,
		"time":            &cfgTime,
	}
	for key, dst := range bools {
		if !viper.IsSet(key) {
			continue
		}
		v := viper.GetString(key)
		b, err := strconv.ParseBool(v)
		if err != nil {
			setInitErr(fmt.Errorf("%w: %s expects a boolean, got %q", errTypeMismatch, key, v))
			continue
		}
		*dst = b
	}
}

func setInitErr(err error) {
	if cfgInitErr == nil {
		cfgInitErr = err
	}
}
