package logsink

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

const (
	bytesPerMB = 1024 * 1024
	bytesPerGB = 1024 * 1024 * 1024
)

// EnvironmentSnapshot identifies the host and runtime.
type EnvironmentSnapshot struct {
	OS              string `json:"os"`
	Arch            string `json:"arch"`
	Hostname        string `json:"hostname,omitempty"`
	Platform        string `json:"platform,omitempty"`
	PlatformVersion string `json:"platform_version,omitempty"`
	KernelVersion   string `json:"kernel_version,omitempty"`
	KernelArch      string `json:"kernel_arch,omitempty"`
	GoVersion       string `json:"go_version"`
	NumCPU          int    `json:"num_cpu"`
}

// MemorySnapshot holds process and host memory figures in MB. PeakRSSMB is
// zero where the operating system does not track a peak for the process.
type MemorySnapshot struct {
	RSSMB       float64 `json:"rss_mb"`
	PeakRSSMB   float64 `json:"peak_rss_mb,omitempty"`
	TotalMB     float64 `json:"total_mb"`
	AvailableMB float64 `json:"available_mb"`
}

// DiskSnapshot holds usage of the filesystem containing Path, in GB.
type DiskSnapshot struct {
	Path    string  `json:"path"`
	TotalGB float64 `json:"total_gb"`
	UsedGB  float64 `json:"used_gb"`
	FreeGB  float64 `json:"free_gb"`
}

// SnapshotEnvironment always returns a snapshot. Fields the host cannot
// provide are left empty; a failed host query is reported with a warning.
func SnapshotEnvironment(s Submitter) *EnvironmentSnapshot {
	env := &EnvironmentSnapshot{
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		GoVersion: runtime.Version(),
		NumCPU:    runtime.NumCPU(),
	}

	info, err := host.Info()
	if err != nil {
		probeWarn(s, "Host information is not fully available on this platform.", err)
	}
	if info != nil {
		env.Hostname = info.Hostname
		env.Platform = info.Platform
		env.PlatformVersion = info.PlatformVersion
		env.KernelVersion = info.KernelVersion
		env.KernelArch = info.KernelArch
	}
	if env.Hostname == emptyString {
		if name, err := os.Hostname(); err == nil {
			env.Hostname = name
		}
	}
	return env
}

// SnapshotMemory returns nil, after a warning, when memory figures cannot be read.
func SnapshotMemory(s Submitter) *MemorySnapshot {
	m, err := readMemory()
	if err != nil {
		probeWarn(s, "Memory usage is not available on this platform.", err)
		return nil
	}
	return m
}

func readMemory() (*MemorySnapshot, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	pm, err := proc.MemoryInfo()
	if err != nil {
		return nil, err
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil, err
	}
	return &MemorySnapshot{
		RSSMB:       float64(pm.RSS) / bytesPerMB,
		PeakRSSMB:   float64(peakRSSBytes()) / bytesPerMB,
		TotalMB:     float64(vm.Total) / bytesPerMB,
		AvailableMB: float64(vm.Available) / bytesPerMB,
	}, nil
}

// SnapshotDisk reports usage of the filesystem holding path ("/" when empty).
// It returns nil, after a warning, when usage cannot be determined.
func SnapshotDisk(s Submitter, path string) *DiskSnapshot {
	if path == emptyString {
		path = "/"
	}
	u, err := disk.Usage(path)
	if err != nil {
		probeWarn(s, "Could not determine disk usage for "+path+".", err)
		return nil
	}
	return &DiskSnapshot{
		Path:    path,
		TotalGB: float64(u.Total) / bytesPerGB,
		UsedGB:  float64(u.Used) / bytesPerGB,
		FreeGB:  float64(u.Free) / bytesPerGB,
	}
}

// probeWarn reports an unavailable data source to s and to the self-log.
func probeWarn(s Submitter, msg string, err error) {
	r := NewRecord(LevelWarn, probeLoggerName, msg).WithError(err)
	if s != nil {
		s.Submit(r)
	}
	selfLogEvent(LevelWarn).Str(loggerFieldName, probeLoggerName).Err(err).Msg(msg)
}
