package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhoffman/bioscons/slurm"
)

// checkCmd reports whether srun and salloc can be found, on the login node
// when one is configured and locally otherwise. A missing scheduler is not an
// error.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Locate the SLURM submission commands",
	RunE: func(cmd *cobra.Command, args []string) error {
		target, user := cfgTarget, cfgUser
		workdir := ""
		if cfgManifest != "" {
			mf, err := loadManifest(cfgManifest)
			if err != nil {
				return fmt.Errorf("failed to read manifest: %w", err)
			}
			target, user = loginTarget(mf)
			workdir = mf.Cluster.Workdir
		}

		var node *loginNode
		if target != "" {
			if user == "" {
				return errors.New("--user is required for SSH authentication")
			}
			n, err := connectLoginNode(target, user, workdir)
			if err != nil {
				return err
			}
			defer func() { _ = n.Close() }()
			node = n
		}

		w := cmd.OutOrStdout()
		for _, s := range []slurm.Scheduler{slurm.SRun, slurm.SAlloc} {
			var (
				path  string
				found bool
			)
			if node != nil {
				var err error
				path, found, err = locateSchedulerRemote(node, s, cfgConnTimeout)
				if err != nil {
					return fmt.Errorf("scheduler lookup on login node: %w", err)
				}
			} else {
				path, found = lookupSchedulerFunc(s)
			}
			if found {
				_, _ = fmt.Fprintf(w, "%s: %s\n", s, path)
			} else {
				_, _ = fmt.Fprintf(w, "%s: not found\n", s)
			}
		}
		return nil
	},
}
