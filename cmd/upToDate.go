package cmd

import (
	"os"
	"path/filepath"
	"time"
)

// upToDate reports whether every target exists and is no older than every
// source. Steps without targets are never up to date.
func upToDate(targets, sources []string) bool {
	if len(targets) == 0 {
		return false
	}
	var oldest time.Time
	for i, t := range targets {
		fi, err := os.Stat(t)
		if err != nil {
			return false
		}
		if i == 0 || fi.ModTime().Before(oldest) {
			oldest = fi.ModTime()
		}
	}
	for _, s := range sources {
		fi, err := os.Stat(s)
		if err != nil {
			return false
		}
		if fi.ModTime().After(oldest) {
			return false
		}
	}
	return true
}

// ensureTargetDirs creates the parent directories of local targets.
func ensureTargetDirs(targets []string) error {
	for _, t := range targets {
		if err := os.MkdirAll(filepath.Dir(t), 0o755); err != nil {
			return err
		}
	}
	return nil
}
