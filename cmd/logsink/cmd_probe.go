package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Station-Manager/logsink"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Log environment, memory, disk and GPU snapshots of this host",
	RunE:  runProbe,
}

func init() {
	probeCmd.Flags().String("path", "/", "Filesystem path for the disk snapshot")
	probeCmd.Flags().Bool("dump", false, "Dump every snapshot field at debug level")

	viper.BindPFlag("probe.path", probeCmd.Flags().Lookup("path"))
	viper.BindPFlag("probe.dump", probeCmd.Flags().Lookup("dump"))

	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) (err error) {
	sink, err := openSink()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrCloseSink, cerr)
		}
	}()

	log := sink.Named("probe")
	dump := viper.GetBool("probe.dump")
	defer logsink.ScopedTiming(log, "probe").Done(&err)

	env := logsink.SnapshotEnvironment(log)
	log.Infof("System: %s %s %s, kernel %s (%s), %d CPUs, host %s, %s",
		env.OS, env.Platform, env.PlatformVersion, env.KernelVersion, env.Arch, env.NumCPU, env.Hostname, env.GoVersion)
	if dump {
		logsink.Dump(log.Named("environment"), env)
	}

	if mem := logsink.SnapshotMemory(log); mem != nil {
		log.Infof("Memory: rss %.1f MB, peak %.1f MB, host available %.0f/%.0f MB",
			mem.RSSMB, mem.PeakRSSMB, mem.AvailableMB, mem.TotalMB)
		if dump {
			logsink.Dump(log.Named("memory"), mem)
		}
	}

	if disk := logsink.SnapshotDisk(log, viper.GetString("probe.path")); disk != nil {
		log.Infof("Disk %s: %.1f GB used, %.1f GB free of %.1f GB",
			disk.Path, disk.UsedGB, disk.FreeGB, disk.TotalGB)
		if dump {
			logsink.Dump(log.Named("disk"), disk)
		}
	}

	if gpus := logsink.SnapshotGPU(log); gpus != nil {
		for _, g := range gpus {
			log.Infof("GPU %s: load %.0f%%, memory %.0f/%.0f MB, %.0fC",
				g.Name, g.LoadPercent, g.MemoryUsedMB, g.MemoryTotalMB, g.TemperatureC)
		}
		if dump {
			logsink.Dump(log.Named("gpu"), gpus)
		}
	}

	return nil
}
