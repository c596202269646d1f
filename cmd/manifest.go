package cmd

// manifest models the YAML pipeline consumed by bioscons: report metadata,
// environment-wide execution defaults, and the ordered list of steps.
type manifest struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Cluster     clusterConfig `yaml:"cluster,omitempty"`
	Steps       []stepEntry   `yaml:"steps"`
}

// clusterConfig holds the defaults every step inherits.
type clusterConfig struct {
	// UseCluster defaults to true when omitted.
	UseCluster    *strictBool       `yaml:"use_cluster,omitempty"`
	Time          strictBool        `yaml:"time,omitempty"`
	AllPrecious   strictBool        `yaml:"all_precious,omitempty"`
	Partition     string            `yaml:"partition,omitempty"`
	Shell         string            `yaml:"shell,omitempty"`
	TimingWrapper string            `yaml:"timing_wrapper,omitempty"`
	LoginNode     loginNodeConfig   `yaml:"login_node,omitempty"`
	Workdir       string            `yaml:"workdir,omitempty"`
	Vars          map[string]string `yaml:"vars,omitempty"`
}

// loginNodeConfig describes the cluster login node when not provided via CLI
// flags. CLI flags take precedence over these defaults when set.
type loginNodeConfig struct {
	IP   string `yaml:"ip"`
	User string `yaml:"user"`
}

func (c clusterConfig) useCluster() bool {
	return c.UseCluster == nil || bool(*c.UseCluster)
}
