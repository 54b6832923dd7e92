package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/vao"
	"github.com/spf13/cobra"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	ConfigPath string
	Backend    string
	Producers  int
	Profile    bool
}

// Result summarizes a finished workload.
type Result struct {
	Backend    string        `json:"backend"`
	Producers  int           `json:"producers"`
	Iterations int           `json:"iterations"`
	Lookups    int           `json:"lookups"`
	Evictions  int           `json:"evictions"`
	Executed   uint64        `json:"executed"`
	Cache      vao.Stats     `json:"cache"`
	Duration   time.Duration `json:"duration_ns"`

	// LiveVertexArrays is the number of vertex arrays still allocated after shutdown.
	// Only the headless backend can report it.
	LiveVertexArrays *int `json:"live_vertex_arrays,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Drive the vertex array cache with concurrent producers",
		Long: `Load a workload from a YAML config and drive the vertex array cache with concurrent
producers. Each producer looks up random (buffer, program) pairs and, when evict_every is set,
periodically evicts one. Cache and executor statistics are printed when all producers finish.

Example:
  oxygl run --config oxygl.yaml
  oxygl run --config oxygl.yaml --backend gl --producers 8 --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(opts.ConfigPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("backend") {
				cfg.Backend = opts.Backend
			}
			if cmd.Flags().Changed("producers") {
				cfg.Producers = opts.Producers
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			result, err := runWorkload(cfg, opts.Profile)
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), opts.Format, result)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "oxygl.yaml", "path to the workload config")
	cmd.Flags().StringVar(&opts.Backend, "backend", BackendHeadless, "GL backend (headless|gl), overrides the config")
	cmd.Flags().IntVarP(&opts.Producers, "producers", "p", defaultProducers, "number of concurrent producers, overrides the config")
	cmd.Flags().BoolVar(&opts.Profile, "profile", false, "log profiler samples while running")

	return cmd
}

func runWorkload(cfg *Config, profile bool) (*Result, error) {
	b, err := newBackend(cfg, profile)
	if err != nil {
		if b != nil {
			err = errors.Join(err, b.Close())
		}
		return nil, err
	}

	common.Logger().Info("workload starting",
		"backend", cfg.Backend,
		"producers", cfg.Producers,
		"iterations", cfg.Iterations,
		"buffers", len(b.buffers),
		"programs", len(b.programs),
	)

	start := time.Now()
	pool := worker.NewDynamicWorkerPool(cfg.Producers, 256, 1*time.Second)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		errs      []error
		lookups   int
		evictions int
	)
	for i := range cfg.Producers {
		wg.Add(1)
		producer := i
		pool.SubmitTask(worker.Task{
			ID: producer,
			Do: func() (any, error) {
				defer wg.Done()
				n, evicted, err := produce(b, cfg, producer)
				mu.Lock()
				lookups += n
				evictions += evicted
				if err != nil {
					errs = append(errs, fmt.Errorf("producer %d: %w", producer, err))
				}
				mu.Unlock()
				return nil, err
			},
		})
	}
	wg.Wait()

	stats := b.engine.VertexArrays().Stats()
	closeErr := b.Close()

	result := &Result{
		Backend:    cfg.Backend,
		Producers:  cfg.Producers,
		Iterations: cfg.Iterations,
		Lookups:    lookups,
		Evictions:  evictions,
		Executed:   b.engine.Executor().Executed(),
		Cache:      stats,
		Duration:   time.Since(start),
	}
	if b.recorder != nil {
		live := len(b.recorder.Live())
		result.LiveVertexArrays = &live
	}

	if err := errors.Join(append(errs, closeErr)...); err != nil {
		return result, err
	}
	common.Logger().Info("workload finished", "duration", result.Duration, "lookups", lookups, "evictions", evictions)
	return result, nil
}

// produce runs one producer's share of the workload and returns how many lookups and evictions it made.
func produce(b *backend, cfg *Config, producer int) (int, int, error) {
	rng := rand.New(rand.NewPCG(cfg.Seed, uint64(producer)))
	cache := b.engine.VertexArrays()

	lookups, evictions := 0, 0
	for i := 1; i <= cfg.Iterations; i++ {
		buf := b.buffers[rng.IntN(len(b.buffers))]
		program := b.programs[rng.IntN(len(b.programs))]

		if _, err := b.engine.VertexArray(buf, program); err != nil {
			return lookups, evictions, err
		}
		lookups++

		if cfg.EvictEvery > 0 && i%cfg.EvictEvery == 0 {
			victim := vao.KeyOf(b.buffers[rng.IntN(len(b.buffers))], b.programs[rng.IntN(len(b.programs))])
			if cache.Evict(victim) {
				evictions++
			}
		}
		b.engine.Tick()
	}
	return lookups, evictions, nil
}
