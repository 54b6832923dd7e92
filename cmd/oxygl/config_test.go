package main

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/buffer"
	"github.com/Carmen-Shannon/oxy-gl/engine/gl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `
programs:
  - id: 1
    attributes: {pos: 0}
buffers:
  - id: 1
    attributes:
      - {name: pos, type: float, count: 3}
`

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, BackendHeadless, cfg.Backend)
	assert.Equal(t, defaultProducers, cfg.Producers)
	assert.Equal(t, defaultIterations, cfg.Iterations)
	assert.Zero(t, cfg.EvictEvery)
}

func TestLoadConfigWorkload(t *testing.T) {
	cfg, err := LoadConfig("testdata/workload.yaml")
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Producers)
	assert.Equal(t, 2000, cfg.Iterations)
	assert.Equal(t, 50, cfg.EvictEvery)
	assert.Equal(t, uint64(7), cfg.Seed)
	require.Len(t, cfg.Programs, 3)
	assert.Equal(t, map[string]int32{"pos": 0, "normal": 1, "uv": 2}, cfg.Programs[0].Attributes)
	require.Len(t, cfg.Buffers, 3)

	packed, err := cfg.Buffers[0].VertexBuffer(gl.BufferID(cfg.Buffers[0].ID))
	require.NoError(t, err)
	assert.Equal(t, gl.BufferID(1), packed.ID())
	assert.Equal(t, 32, packed.Stride())
	assert.Equal(t, buffer.Binding{Name: "uv", Type: gl.Float, Count: 2, Offset: 24}, packed.Bindings()[2])

	colored, err := cfg.Buffers[1].VertexBuffer(gl.BufferID(cfg.Buffers[1].ID))
	require.NoError(t, err)
	assert.Equal(t, 16, colored.Stride())
	assert.Equal(t, gl.UnsignedByte, colored.Bindings()[1].Type)

	skinned, err := cfg.Buffers[2].VertexBuffer(gl.BufferID(42))
	require.NoError(t, err)
	assert.Equal(t, gl.BufferID(42), skinned.ID())
	assert.Equal(t, 48, skinned.Stride())
	assert.Equal(t, buffer.Binding{Name: "joints", Type: gl.UnsignedShort, Count: 4, Offset: 16}, skinned.Bindings()[1])
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig("testdata/does_not_exist.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoadConfigUnknownField(t *testing.T) {
	_, err := LoadConfig("testdata/unknown_field.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "attribs")
}

func TestParseConfigRejects(t *testing.T) {
	tests := []struct {
		name   string
		config string
		errMsg string
	}{
		{
			name:   "unknown backend",
			config: "backend: vulkan\n" + minimalConfig,
			errMsg: "unknown backend",
		},
		{
			name:   "negative evict_every",
			config: "evict_every: -1\n" + minimalConfig,
			errMsg: "evict_every",
		},
		{
			name:   "no buffers",
			config: "programs:\n  - id: 1\n",
			errMsg: "at least one program and one buffer",
		},
		{
			name: "reserved program id",
			config: `
programs:
  - id: 0
buffers:
  - id: 1
`,
			errMsg: "program id 0 is reserved",
		},
		{
			name: "duplicate buffer id",
			config: `
programs:
  - id: 1
buffers:
  - id: 2
  - id: 2
`,
			errMsg: "duplicate buffer id 2",
		},
		{
			name: "unknown type",
			config: `
programs:
  - id: 1
buffers:
  - id: 1
    attributes:
      - {name: pos, type: float3, count: 3}
`,
			errMsg: `unknown data type "float3"`,
		},
		{
			name: "component count",
			config: `
programs:
  - id: 1
buffers:
  - id: 1
    attributes:
      - {name: pos, type: float, count: 5}
`,
			errMsg: "count must be 1-4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.config))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
