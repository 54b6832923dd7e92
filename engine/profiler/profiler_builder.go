package profiler

import "time"

// ProfilerBuilderOption is a functional option for configuring a Profiler.
type ProfilerBuilderOption func(*Profiler)

// WithInterval sets how often Tick logs a sample. Zero logs on every tick.
//
// Parameters:
//   - interval: the minimum time between samples
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithInterval(interval time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.updateInterval = max(interval, 0)
	}
}

// WithSource adds a named group of attributes to every sample.
//
// Parameters:
//   - name: the group name in the log record
//   - sample: returns alternating keys and values for the group
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithSource(name string, sample func() []any) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.sources = append(p.sources, Source{Name: name, Sample: sample})
	}
}
