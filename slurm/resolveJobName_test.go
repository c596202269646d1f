package slurm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveJobName(t *testing.T) {
	cases := map[string]string{
		"$VAR actual_program arg1 arg2": "actual_program",
		"align.sh in.fa out.sto":        "align.sh",
		"  cmalign  -o x y":             "cmalign",
		"$A ${B} prog":                  "prog",
		"$ONLY $VARS":                   "$ONLY",
	}
	for in, want := range cases {
		got, err := ResolveJobName(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
}

func TestResolveJobName_Empty(t *testing.T) {
	for _, in := range []string{"", "   ", "\t\n"} {
		_, err := ResolveJobName(in)
		require.ErrorIs(t, err, ErrEmptyCommand)
	}
}
