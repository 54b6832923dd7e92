package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/buffer"
	"github.com/Carmen-Shannon/oxy-gl/engine/gl"
	"gopkg.in/yaml.v3"
)

// Backends accepted by the run command.
const (
	BackendHeadless = "headless"
	BackendGL       = "gl"
)

const (
	defaultProducers  = 4
	defaultIterations = 1000
)

// Config describes a cache workload: the programs and buffers to combine, and how hard to drive them.
type Config struct {
	Backend    string `yaml:"backend"`
	Producers  int    `yaml:"producers"`
	Iterations int    `yaml:"iterations"`

	// EvictEvery makes each producer evict a random key every N lookups. Zero disables eviction.
	EvictEvery int `yaml:"evict_every"`

	// Seed feeds the per-producer random key choice so runs are repeatable.
	Seed uint64 `yaml:"seed"`

	Programs []ProgramConfig `yaml:"programs"`
	Buffers  []BufferConfig  `yaml:"buffers"`
}

// ProgramConfig is a linked program and its active attributes.
// The headless backend answers attribute lookups from Attributes.
type ProgramConfig struct {
	ID         uint32           `yaml:"id"`
	Attributes map[string]int32 `yaml:"attributes"`
}

// BufferConfig is a vertex buffer layout. A zero Stride means tightly packed.
type BufferConfig struct {
	ID         uint32            `yaml:"id"`
	Stride     int               `yaml:"stride"`
	Attributes []AttributeConfig `yaml:"attributes"`
}

// AttributeConfig is one attribute of a buffer layout. Offset defaults to the packed position
// after the previous attribute.
type AttributeConfig struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Count  int    `yaml:"count"`
	Offset *int   `yaml:"offset"`
}

// LoadConfig reads and validates a YAML workload file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a YAML workload, fills defaults and validates it. Unknown fields are rejected.
func ParseConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Backend = common.Coalesce(cfg.Backend, BackendHeadless)
	cfg.Producers = common.Coalesce(cfg.Producers, defaultProducers)
	cfg.Iterations = common.Coalesce(cfg.Iterations, defaultIterations)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the workload for values the run command cannot use.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendHeadless, BackendGL:
	default:
		return fmt.Errorf("unknown backend %q: must be %q or %q", c.Backend, BackendHeadless, BackendGL)
	}
	if c.Producers < 1 {
		return fmt.Errorf("producers must be at least 1, got %d", c.Producers)
	}
	if c.Iterations < 1 {
		return fmt.Errorf("iterations must be at least 1, got %d", c.Iterations)
	}
	if c.EvictEvery < 0 {
		return fmt.Errorf("evict_every must not be negative, got %d", c.EvictEvery)
	}
	if len(c.Programs) == 0 || len(c.Buffers) == 0 {
		return errors.New("config needs at least one program and one buffer")
	}

	programs := make(map[uint32]struct{}, len(c.Programs))
	for _, p := range c.Programs {
		if p.ID == 0 {
			return errors.New("program id 0 is reserved")
		}
		if _, dup := programs[p.ID]; dup {
			return fmt.Errorf("duplicate program id %d", p.ID)
		}
		programs[p.ID] = struct{}{}
	}

	buffers := make(map[uint32]struct{}, len(c.Buffers))
	for _, b := range c.Buffers {
		if b.ID == 0 {
			return errors.New("buffer id 0 is reserved")
		}
		if _, dup := buffers[b.ID]; dup {
			return fmt.Errorf("duplicate buffer id %d", b.ID)
		}
		buffers[b.ID] = struct{}{}
		if _, err := b.options(); err != nil {
			return fmt.Errorf("buffer %d: %w", b.ID, err)
		}
	}
	return nil
}

// VertexBuffer builds the buffer descriptor for this layout under the given name. The gl backend
// passes a freshly generated name; the headless backend passes ID.
func (b BufferConfig) VertexBuffer(id gl.BufferID) (buffer.VertexBuffer, error) {
	opts, err := b.options()
	if err != nil {
		return nil, err
	}
	return buffer.NewVertexBuffer(id, opts...), nil
}

func (b BufferConfig) options() ([]buffer.VertexBufferBuilderOption, error) {
	opts := make([]buffer.VertexBufferBuilderOption, 0, len(b.Attributes)+1)
	for _, a := range b.Attributes {
		if a.Name == "" {
			return nil, errors.New("attribute without a name")
		}
		if a.Count < 1 || a.Count > 4 {
			return nil, fmt.Errorf("attribute %q: count must be 1-4, got %d", a.Name, a.Count)
		}
		t, err := gl.ParseDataType(a.Type)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", a.Name, err)
		}
		if a.Offset == nil {
			opts = append(opts, buffer.WithAttribute(a.Name, t, a.Count))
			continue
		}
		if *a.Offset < 0 {
			return nil, fmt.Errorf("attribute %q: offset must not be negative", a.Name)
		}
		opts = append(opts, buffer.WithBinding(buffer.Binding{Name: a.Name, Type: t, Count: a.Count, Offset: *a.Offset}))
	}
	if b.Stride < 0 {
		return nil, fmt.Errorf("stride must not be negative, got %d", b.Stride)
	}
	if b.Stride > 0 {
		opts = append(opts, buffer.WithStride(b.Stride))
	}
	return opts, nil
}
