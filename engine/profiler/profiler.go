package profiler

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/common"
)

// Source supplies extra key/value pairs for each profiler sample, e.g. cache or executor counters.
type Source struct {
	// Name groups the source's attributes in the log record.
	Name string

	// Sample returns alternating keys and values, as accepted by slog.Group.
	Sample func() []any
}

// Profiler tracks tick rate, memory statistics and any registered sources.
// Outputs a sample through the shared logger at a configurable interval.
// Not safe for concurrent use; callers ticking from several goroutines must serialize.
type Profiler struct {
	tickCount      int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	sources        []Source
}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Tick should be called once per unit of work being measured (a frame, a producer batch).
// Logs a sample when the update interval has elapsed.
// A sample includes: tick rate, heap usage, allocation rate, GC count/pause times, total memory,
// and one group per registered source.
//
// Returns:
//   - bool: true if a sample was logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.tickCount++
	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return false
	}

	rate := 0.0
	if elapsed > 0 {
		rate = float64(p.tickCount) / elapsed.Seconds()
	}

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	allocRateMB := 0.0
	if elapsed > 0 {
		allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
		allocRateMB = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()
	}

	// PauseNs is a circular buffer of the last 256 GC pauses.
	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	args := []any{
		slog.Float64("ticks_per_sec", rate),
		slog.Float64("heap_mb", allocMB),
		slog.Float64("alloc_rate_mb_s", allocRateMB),
		slog.Uint64("gc", uint64(gcCount)),
		slog.Uint64("gc_last_pause_us", lastPauseUs),
		slog.Uint64("gc_max_pause_us", maxPauseUs),
		slog.Float64("sys_mb", sysMB),
	}
	for _, src := range p.sources {
		args = append(args, slog.Group(src.Name, src.Sample()...))
	}
	common.Logger().Info("profiler", args...)

	p.tickCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
