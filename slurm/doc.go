// Package slurm turns a shell command and an execution policy into the final
// command line handed to a shell, optionally dispatched to a SLURM cluster via
// srun or salloc.
//
// Everything here is a pure string transform except LookupScheduler, which
// consults PATH. Running the resulting command is the caller's business.
package slurm
