package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nhoffman/bioscons/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "bioscons",
	Short: "Run bioinformatics pipeline steps locally or on a SLURM cluster",
	Long: "Reads a YAML pipeline manifest, renders each step as a shell command (wrapped in srun or salloc " +
		"when dispatched to the cluster), runs the steps in order and writes a report.",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgInitErr != nil {
			return cfgInitErr
		}
		l, err := logger.New(logger.Config{
			Level:    cfgLogLevel,
			Encoding: cfgLogFormat,
			Output:   cmd.ErrOrStderr(),
		})
		if err != nil {
			return err
		}
		cliLog = l
		return nil
	},
}
