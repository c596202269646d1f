package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Validate a pipeline manifest and render every step",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfgManifest == "" {
			return errors.New("--manifest is required (path to YAML)")
		}
		mf, err := loadManifest(cfgManifest)
		if err != nil {
			return fmt.Errorf("invalid manifest: %w", err)
		}
		// Rendering catches what structural checks cannot: bad
		// substitutions, timing without targets, malformed policies.
		steps, err := planSteps(mf, optionsFromFlags())
		if err != nil {
			return fmt.Errorf("invalid manifest: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Manifest OK (%d steps)\n", len(steps))
		return nil
	},
}
