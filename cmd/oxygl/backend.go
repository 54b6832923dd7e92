package main

import (
	"github.com/Carmen-Shannon/oxy-gl/engine"
	"github.com/Carmen-Shannon/oxy-gl/engine/buffer"
	"github.com/Carmen-Shannon/oxy-gl/engine/executor"
	"github.com/Carmen-Shannon/oxy-gl/engine/gl"
	"github.com/Carmen-Shannon/oxy-gl/engine/gl/headless"
	"github.com/Carmen-Shannon/oxy-gl/engine/vao"
)

// backend is an engine together with the buffers and programs a workload draws from.
type backend struct {
	engine   engine.Engine
	buffers  []buffer.VertexBuffer
	programs []gl.ProgramID

	// recorder is set for the headless backend only.
	recorder *headless.Recorder

	// release frees backend-owned GL objects ahead of engine shutdown.
	release func()
}

func newBackend(cfg *Config, profile bool) (*backend, error) {
	engineOptions := []engine.EngineBuilderOption{
		engine.WithCacheOptions(vao.WithCapacityHint(len(cfg.Buffers) * len(cfg.Programs))),
		engine.WithProfiling(profile),
	}

	b := &backend{release: func() {}}
	for _, p := range cfg.Programs {
		b.programs = append(b.programs, gl.ProgramID(p.ID))
	}

	switch cfg.Backend {
	case BackendGL:
		return b, b.openGL(cfg, engineOptions)
	default:
		return b, b.openHeadless(cfg, engineOptions)
	}
}

func (b *backend) openHeadless(cfg *Config, engineOptions []engine.EngineBuilderOption) error {
	b.recorder = headless.NewRecorder()
	for _, p := range cfg.Programs {
		b.recorder.LinkProgram(gl.ProgramID(p.ID), p.Attributes)
	}

	b.engine = engine.NewEngine(append(engineOptions, engine.WithExecutorOptions(
		executor.WithName(BackendHeadless),
		executor.WithAPI(b.recorder),
	))...)

	for _, bc := range cfg.Buffers {
		vb, err := bc.VertexBuffer(gl.BufferID(bc.ID))
		if err != nil {
			return err
		}
		b.buffers = append(b.buffers, vb)
	}
	return nil
}

// Close releases backend-owned objects and shuts the engine down.
func (b *backend) Close() error {
	if b.engine == nil {
		return nil
	}
	b.release()
	return b.engine.Close()
}
