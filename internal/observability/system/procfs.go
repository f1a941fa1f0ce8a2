package system

import (
	"fmt"

	"github.com/prometheus/procfs"
)

// procfsReader reads statistics from the /proc filesystem.
type procfsReader struct {
	fs   procfs.FS
	proc procfs.Proc
}

func newProcfsReader() (*procfsReader, error) {
	fs, err := procfs.NewDefaultFS()
	if err != nil {
		return nil, fmt.Errorf("open procfs: %w", err)
	}
	proc, err := fs.Self()
	if err != nil {
		return nil, fmt.Errorf("open self: %w", err)
	}
	return &procfsReader{fs: fs, proc: proc}, nil
}

func (r *procfsReader) ProcStats() (procStats, error) {
	stat, err := r.proc.Stat()
	if err != nil {
		return procStats{}, fmt.Errorf("read process stat: %w", err)
	}
	startTime, err := stat.StartTime()
	if err != nil {
		return procStats{}, fmt.Errorf("read process start time: %w", err)
	}
	return procStats{
		residentBytes:  float64(stat.ResidentMemory()),
		virtualBytes:   float64(stat.VirtualMemory()),
		cpuSeconds:     stat.CPUTime(),
		threads:        float64(stat.NumThreads),
		startTimeEpoch: startTime,
	}, nil
}

func (r *procfsReader) CPUTotals() (cpuTotals, error) {
	stat, err := r.fs.Stat()
	if err != nil {
		return cpuTotals{}, fmt.Errorf("read system stat: %w", err)
	}
	cpu := stat.CPUTotal
	busy := cpu.User + cpu.Nice + cpu.System + cpu.IRQ + cpu.SoftIRQ + cpu.Steal
	idle := cpu.Idle + cpu.Iowait
	return cpuTotals{busy: busy, total: busy + idle}, nil
}

func (r *procfsReader) FDCount() (int, error) {
	return r.proc.FileDescriptorsLen()
}
