package cmd

type stepEntry struct {
	Title   string   `yaml:"title,omitempty"`
	Targets []string `yaml:"targets,omitempty"`
	Sources []string `yaml:"sources,omitempty"`
	// "command" is preferred; "cmd" also accepted during unmarshal
	Command string   `yaml:"command"`
	Args    []string `yaml:"args,omitempty"`
	// srun (default), salloc or none
	Scheduler string     `yaml:"scheduler,omitempty"`
	Local     strictBool `yaml:"local,omitempty"`
	Cores     int        `yaml:"cores,omitempty"`
	TimeLimit string     `yaml:"timelimit,omitempty"`
	Partition string     `yaml:"partition,omitempty"`
	SlurmArgs string     `yaml:"slurm_args,omitempty"`
	// Time and Precious fall back to the cluster defaults when omitted.
	Time     *strictBool `yaml:"time,omitempty"`
	Precious *strictBool `yaml:"precious,omitempty"`
	// Optional per-step timeout like "30s"; overrides global if set
	Timeout string `yaml:"timeout,omitempty"`
}
