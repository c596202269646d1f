package slurm

import "strings"

// Quote returns a shell-escaped version of s suitable for a POSIX shell.
// Strings made only of [A-Za-z0-9_@%+=:,./-] are returned as is; anything
// else is single-quoted, with embedded single quotes written as '"'"'.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.IndexFunc(s, unsafeRune) == -1 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

func unsafeRune(r rune) bool {
	if r >= 'a' && r <= 'z' {
		return false
	}
	if r >= 'A' && r <= 'Z' {
		return false
	}
	if r >= '0' && r <= '9' {
		return false
	}
	switch r {
	case '_', '@', '%', '+', '=', ':', ',', '.', '/', '-':
		return false
	}
	return true
}
