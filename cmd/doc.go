// Package cmd implements the bioscons command-line interface.
//
// The package organizes the CLI subcommands (run, verify, check, clean) and
// the helpers behind them: loading the YAML pipeline manifest, turning each
// step into a scheduler command line with the slurm package, executing steps
// locally or on a cluster login node over SSH, and writing the run report.
//
// New contributors should start with rootCmd.go to see how cobra is wired,
// runCmd.go for the main execution flow, plan.go for how a manifest step
// becomes a command line, and pipeline.go for ordering and parallelism.
package cmd
