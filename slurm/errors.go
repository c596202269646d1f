package slurm

import "errors"

var (
	// ErrEmptyCommand is returned when no job name can be derived because the
	// command has no tokens.
	ErrEmptyCommand = errors.New("empty command")
	// ErrNoTimingTarget is returned when timing is requested for a command
	// that has no output file to write the timing report next to.
	ErrNoTimingTarget = errors.New("timing requires at least one target")
	// ErrInvalidPolicy wraps every Policy validation failure.
	ErrInvalidPolicy = errors.New("invalid execution policy")
)
