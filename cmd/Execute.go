package cmd

import (
	"errors"
	"fmt"
	"os"
)

// exitFunc is replaced in tests to capture the exit code.
var exitFunc = os.Exit

// Execute runs the root command. Usage and configuration errors exit with 1;
// a run in which pipeline steps failed exits with 2.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errStepFailed) {
			exitFunc(2)
			return
		}
		exitFunc(1)
		return
	}
}
