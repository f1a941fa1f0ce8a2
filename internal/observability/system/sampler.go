package system

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"itemkeeper/internal/observability/metrics"
)

// DefaultInterval is the background sampling cadence used when no interval
// is configured.
const DefaultInterval = 15 * time.Second

// procStats holds one reading of per-process statistics.
type procStats struct {
	residentBytes  float64
	virtualBytes   float64
	cpuSeconds     float64
	threads        float64
	startTimeEpoch float64
}

// cpuTotals holds cumulative system-wide CPU time split into busy and
// total. Utilization is derived from the delta between two readings.
type cpuTotals struct {
	busy  float64
	total float64
}

// statReader reads raw statistics from the operating system.
type statReader interface {
	ProcStats() (procStats, error)
	CPUTotals() (cpuTotals, error)
	FDCount() (int, error)
}

// Sampler reads process and system statistics and writes them into the
// registry gauges. All methods are safe for concurrent use.
type Sampler struct {
	reg    *metrics.Registry
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	reader  statReader
	prevCPU cpuTotals
	hasPrev bool
}

// NewSampler creates a Sampler backed by the /proc filesystem.
// On platforms where /proc is unavailable the sampler is inert: Sample
// becomes a no-op and the gauges keep their zero values.
func NewSampler(reg *metrics.Registry, logger *slog.Logger) *Sampler {
	s := &Sampler{
		reg:    reg,
		logger: logger,
		now:    time.Now,
	}
	reader, err := newProcfsReader()
	if err != nil {
		logger.Warn("process statistics unavailable, system gauges disabled",
			slog.Any("error", err))
		return s
	}
	s.reader = reader
	return s
}

// newSamplerWithReader is used by tests to substitute the stat source.
func newSamplerWithReader(reg *metrics.Registry, logger *slog.Logger, reader statReader) *Sampler {
	return &Sampler{reg: reg, logger: logger, now: time.Now, reader: reader}
}

// Sample reads all statistics once and updates the gauges.
// Every read is independent: one failing statistic is logged and skipped
// while the rest update normally, and the failing gauge keeps its previous
// value. Sample never blocks beyond the underlying syscalls and never
// returns an error.
func (s *Sampler) Sample() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reader == nil {
		return
	}

	s.sampleCPUUtilization()
	s.sampleProcess()
	s.sampleFDs()
}

// sampleCPUUtilization computes system-wide CPU utilization from the delta
// between the current and previous cumulative CPU totals. The first call
// has no baseline and reports zero, mirroring an instantaneous
// non-blocking read.
func (s *Sampler) sampleCPUUtilization() {
	totals, err := s.reader.CPUTotals()
	if err != nil {
		s.logger.Warn("failed to read system CPU totals", slog.Any("error", err))
		return
	}

	pct := 0.0
	if s.hasPrev {
		busyDelta := totals.busy - s.prevCPU.busy
		totalDelta := totals.total - s.prevCPU.total
		if totalDelta > 0 {
			pct = 100 * busyDelta / totalDelta
		}
	}
	s.reg.CPUUtilization.Set(pct)

	s.prevCPU = totals
	s.hasPrev = true
}

func (s *Sampler) sampleProcess() {
	stats, err := s.reader.ProcStats()
	if err != nil {
		s.logger.Warn("failed to read process statistics", slog.Any("error", err))
		return
	}

	s.reg.ResidentMemory.Set(stats.residentBytes)
	s.reg.VirtualMemory.Set(stats.virtualBytes)
	s.reg.CPUSeconds.Set(stats.cpuSeconds)
	s.reg.Threads.Set(stats.threads)
	s.reg.StartTime.Set(stats.startTimeEpoch)
	s.reg.Uptime.Set(float64(s.now().Unix()) - stats.startTimeEpoch)
}

// sampleFDs updates the open-descriptor gauge. Descriptor counting may be
// denied by the platform, so failures are expected and quiet: the gauge
// keeps its previous value.
func (s *Sampler) sampleFDs() {
	n, err := s.reader.FDCount()
	if err != nil {
		s.logger.Debug("failed to count open file descriptors", slog.Any("error", err))
		return
	}
	s.reg.OpenFDs.Set(float64(n))
}

// Run samples on a fixed interval until ctx is cancelled. It samples once
// immediately so gauges are populated before the first tick. No lock is
// held while waiting between ticks.
func (s *Sampler) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	s.Sample()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("system sampler stopped")
			return
		case <-ticker.C:
			s.Sample()
		}
	}
}
