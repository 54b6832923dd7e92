package vao

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/gl"
	mapset "github.com/deckarep/golang-set/v2"
)

// CacheBuilderOption is a functional option applied to a cache during construction via NewCache.
type CacheBuilderOption func(*cache)

// WithCapacityHint pre-sizes the cache for the expected number of (buffer, program) pairs.
//
// Parameters:
//   - n: the expected number of entries
//
// Returns:
//   - CacheBuilderOption: a function that applies the capacity option to a cache
func WithCapacityHint(n int) CacheBuilderOption {
	return func(c *cache) {
		if n <= 0 {
			return
		}
		c.entries = make(map[Key]*vertexArray, n)
		c.byBuffer = make(map[gl.BufferID]mapset.Set[Key], n)
		c.byProgram = make(map[gl.ProgramID]mapset.Set[Key], n)
	}
}
