package system

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"itemkeeper/internal/observability/metrics"
)

// fakeReader is a controllable statReader for tests.
type fakeReader struct {
	stats    procStats
	statsErr error
	cpu      cpuTotals
	cpuErr   error
	fds      int
	fdErr    error
}

func (f *fakeReader) ProcStats() (procStats, error) { return f.stats, f.statsErr }
func (f *fakeReader) CPUTotals() (cpuTotals, error) { return f.cpu, f.cpuErr }
func (f *fakeReader) FDCount() (int, error)         { return f.fds, f.fdErr }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSampler_Sample_UpdatesProcessGauges(t *testing.T) {
	reg := metrics.NewRegistry()
	reader := &fakeReader{
		stats: procStats{
			residentBytes:  64 << 20,
			virtualBytes:   256 << 20,
			cpuSeconds:     12.5,
			threads:        8,
			startTimeEpoch: 1000,
		},
		fds: 7,
	}
	s := newSamplerWithReader(reg, testLogger(), reader)
	s.now = func() time.Time { return time.Unix(1600, 0) }

	s.Sample()

	assert.Equal(t, float64(64<<20), testutil.ToFloat64(reg.ResidentMemory))
	assert.Equal(t, float64(256<<20), testutil.ToFloat64(reg.VirtualMemory))
	assert.Equal(t, 12.5, testutil.ToFloat64(reg.CPUSeconds))
	assert.Equal(t, float64(8), testutil.ToFloat64(reg.Threads))
	assert.Equal(t, float64(1000), testutil.ToFloat64(reg.StartTime))
	assert.Equal(t, float64(600), testutil.ToFloat64(reg.Uptime))
	assert.Equal(t, float64(7), testutil.ToFloat64(reg.OpenFDs))
}

func TestSampler_Sample_CPUUtilizationDelta(t *testing.T) {
	reg := metrics.NewRegistry()
	reader := &fakeReader{cpu: cpuTotals{busy: 100, total: 200}}
	s := newSamplerWithReader(reg, testLogger(), reader)

	// First sample has no baseline, so utilization reads zero.
	s.Sample()
	assert.Equal(t, 0.0, testutil.ToFloat64(reg.CPUUtilization))

	// 30 busy out of 40 total units elapsed: 75%.
	reader.cpu = cpuTotals{busy: 130, total: 240}
	s.Sample()
	assert.InDelta(t, 75.0, testutil.ToFloat64(reg.CPUUtilization), 0.001)
}

func TestSampler_Sample_FDFailureKeepsPreviousValue(t *testing.T) {
	reg := metrics.NewRegistry()
	reader := &fakeReader{
		stats: procStats{threads: 4, startTimeEpoch: 1000},
		fds:   42,
	}
	s := newSamplerWithReader(reg, testLogger(), reader)

	s.Sample()
	assert.Equal(t, float64(42), testutil.ToFloat64(reg.OpenFDs))

	// Descriptor counting starts failing; every other gauge still updates.
	reader.fdErr = os.ErrPermission
	reader.stats.threads = 6
	s.Sample()

	assert.Equal(t, float64(42), testutil.ToFloat64(reg.OpenFDs))
	assert.Equal(t, float64(6), testutil.ToFloat64(reg.Threads))
}

func TestSampler_Sample_AllReadsFailing(t *testing.T) {
	reg := metrics.NewRegistry()
	reader := &fakeReader{
		statsErr: errors.New("stat read failed"),
		cpuErr:   errors.New("cpu read failed"),
		fdErr:    errors.New("fd read failed"),
	}
	s := newSamplerWithReader(reg, testLogger(), reader)

	assert.NotPanics(t, func() { s.Sample() })
	assert.Equal(t, 0.0, testutil.ToFloat64(reg.Threads))
}

func TestSampler_Sample_NilReader(t *testing.T) {
	reg := metrics.NewRegistry()
	s := newSamplerWithReader(reg, testLogger(), nil)

	assert.NotPanics(t, func() { s.Sample() })
}

func TestSampler_Run_StopsOnCancel(t *testing.T) {
	reg := metrics.NewRegistry()
	s := newSamplerWithReader(reg, testLogger(), &fakeReader{fds: 1})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sampler did not stop after cancellation")
	}

	// The immediate sample on startup must have run at least once.
	assert.Equal(t, float64(1), testutil.ToFloat64(reg.OpenFDs))
}
