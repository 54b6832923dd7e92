//go:build nogl

package main

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-gl/engine"
)

func (b *backend) openGL(cfg *Config, engineOptions []engine.EngineBuilderOption) error {
	return errors.New("the gl backend is not available in builds tagged nogl")
}
