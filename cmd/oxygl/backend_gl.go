//go:build !nogl

package main

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine"
	"github.com/Carmen-Shannon/oxy-gl/engine/executor"
	"github.com/Carmen-Shannon/oxy-gl/engine/gl"
	"github.com/Carmen-Shannon/oxy-gl/engine/gl/gogl"
	"github.com/Carmen-Shannon/oxy-gl/engine/window"
)

// openGL creates a hidden window on the executor thread and allocates one real buffer name per
// configured buffer. Program names are used as given; names that are not linked programs in this
// context resolve no attributes.
func (b *backend) openGL(cfg *Config, engineOptions []engine.EngineBuilderOption) error {
	var win window.Window
	b.engine = engine.NewEngine(append(engineOptions, engine.WithExecutorOptions(
		executor.WithName(BackendGL),
		executor.WithInit(func() (gl.API, error) {
			w, err := window.NewWindow(window.WithTitle("oxygl"))
			if err != nil {
				return nil, err
			}
			api, err := gogl.Init()
			if err != nil {
				_ = w.Close()
				return nil, err
			}
			win = w
			common.Logger().Info("GL context ready", "version", gogl.Version(), "width", w.Width(), "height", w.Height())
			return api, nil
		}),
		executor.WithTeardown(func() {
			if win == nil {
				return
			}
			if err := win.Close(); err != nil {
				common.Logger().Warn("failed to close window", "error", err)
			}
		}),
	))...)

	ids, err := executor.Call(b.engine.Executor(), func(api gl.API, state *gl.State) []gl.BufferID {
		ids := make([]gl.BufferID, len(cfg.Buffers))
		for i := range ids {
			ids[i] = gogl.GenBuffer()
		}
		return ids
	})
	if err != nil {
		return fmt.Errorf("failed to allocate buffers: %w", err)
	}

	for i, bc := range cfg.Buffers {
		vb, err := bc.VertexBuffer(ids[i])
		if err != nil {
			return err
		}
		b.buffers = append(b.buffers, vb)
	}

	b.release = func() {
		for _, id := range ids {
			// Vertex arrays referencing the buffer are released first; the executor runs the
			// deletes in the same order.
			b.engine.ReleaseBuffer(id)
			_ = b.engine.Executor().Submit(func(api gl.API, state *gl.State) {
				gogl.DeleteBuffer(id)
				if state.ArrayBuffer == id {
					state.ArrayBuffer = gl.NoBuffer
				}
			})
		}
	}
	return nil
}
