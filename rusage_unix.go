//go:build linux || darwin

package logsink

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// peakRSSBytes returns the process's maximum resident set size, or 0 when it
// cannot be read.
func peakRSSBytes() uint64 {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0
	}
	// darwin reports bytes, linux kilobytes
	if runtime.GOOS == "darwin" {
		return uint64(ru.Maxrss)
	}
	return uint64(ru.Maxrss) * 1024
}
