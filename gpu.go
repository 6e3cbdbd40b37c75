package logsink

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// nvidiaSMI is the tool queried for GPU details.
var nvidiaSMI = "nvidia-smi"

const gpuQueryTimeout = 5 * time.Second

var gpuQueryArgs = []string{
	"--query-gpu=name,utilization.gpu,memory.used,memory.total,temperature.gpu",
	"--format=csv,noheader,nounits",
}

// GPUSnapshot describes one GPU. Memory is in MB, temperature in Celsius.
type GPUSnapshot struct {
	Name          string  `json:"name"`
	LoadPercent   float64 `json:"load_percent"`
	MemoryUsedMB  float64 `json:"memory_used_mb"`
	MemoryTotalMB float64 `json:"memory_total_mb"`
	TemperatureC  float64 `json:"temperature_c"`
}

// SnapshotGPU lists the host's NVIDIA GPUs. It returns nil, after a warning,
// when nvidia-smi is missing, fails, or reports no devices.
func SnapshotGPU(s Submitter) []GPUSnapshot {
	path, err := exec.LookPath(nvidiaSMI)
	if err != nil {
		probeWarn(s, "nvidia-smi is not installed. GPU details cannot be determined.", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gpuQueryTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, path, gpuQueryArgs...).Output()
	if err != nil {
		probeWarn(s, "nvidia-smi query failed. GPU details cannot be determined.", err)
		return nil
	}

	gpus, err := parseGPUQuery(out)
	if err != nil {
		probeWarn(s, "nvidia-smi output could not be parsed.", err)
		return nil
	}
	if len(gpus) == 0 {
		probeWarn(s, "No GPUs reported by nvidia-smi.", errors.New("empty device list"))
		return nil
	}
	return gpus
}

// parseGPUQuery parses nvidia-smi csv,noheader,nounits output. Metrics the
// driver reports as "[N/A]" or "[Not Supported]" are read as zero.
func parseGPUQuery(data []byte) ([]GPUSnapshot, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = 5

	var gpus []GPUSnapshot
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		g := GPUSnapshot{Name: strings.TrimSpace(rec[0])}
		metrics := []*float64{&g.LoadPercent, &g.MemoryUsedMB, &g.MemoryTotalMB, &g.TemperatureC}
		for i, dst := range metrics {
			v, err := parseGPUMetric(rec[i+1])
			if err != nil {
				return nil, fmt.Errorf("gpu %q field %d: %w", g.Name, i+1, err)
			}
			*dst = v
		}
		gpus = append(gpus, g)
	}
	return gpus, nil
}

func parseGPUMetric(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
