package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cleanCmd removes the targets of every step, along with their timing
// reports, except for precious steps.
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove pipeline targets that are not marked precious",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfgManifest == "" {
			return errors.New("--manifest is required (path to YAML)")
		}
		mf, err := loadManifest(cfgManifest)
		if err != nil {
			return fmt.Errorf("failed to read manifest: %w", err)
		}
		removed, kept, err := cleanTargets(mf)
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d files, kept %d precious\n", removed, kept)
		return err
	},
}

func cleanTargets(mf *manifest) (removed, kept int, err error) {
	for i := range mf.Steps {
		s := &mf.Steps[i]
		if s.precious(mf.Cluster) {
			kept += len(s.Targets)
			continue
		}
		for _, t := range s.Targets {
			for _, p := range []string{t, t + ".time"} {
				rerr := os.Remove(p)
				switch {
				case rerr == nil:
					removed++
					cliLog.Debug("removed", zap.String("path", p))
				case errors.Is(rerr, fs.ErrNotExist):
				default:
					if err == nil {
						err = fmt.Errorf("remove %s: %w", p, rerr)
					}
				}
			}
		}
	}
	return removed, kept, err
}
