package cmd

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"
)

// yamlHost describes the machine that ran bioscons. Local steps run here;
// dispatched steps are submitted from the login node instead.
type yamlHost struct {
	Hostname string `yaml:"hostname"`
	OS       string `yaml:"os,omitempty"`
	Kernel   string `yaml:"kernel,omitempty"`
	CPUs     int    `yaml:"cpus"`
	MemoryMB uint64 `yaml:"memory_mb,omitempty"`
}

// submitHost collects host details. Probes that fail are left empty.
func submitHost() yamlHost {
	h := yamlHost{CPUs: runtime.NumCPU()}
	h.Hostname, _ = os.Hostname()
	if info, err := host.Info(); err == nil {
		h.OS = info.Platform + " " + info.PlatformVersion
		h.Kernel = info.KernelVersion
	} else {
		cliLog.Debug("host info unavailable", zap.Error(err))
	}
	if v, err := mem.VirtualMemory(); err == nil {
		h.MemoryMB = v.Total / 1024 / 1024
	} else {
		cliLog.Debug("memory size unavailable", zap.Error(err))
	}
	return h
}
