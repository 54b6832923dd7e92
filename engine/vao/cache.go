// Package vao caches GL vertex array objects per (buffer, program) pair.
//
// Building a vertex array means running GL calls on the executor, so a cache miss blocks the
// caller for one round trip to the executor worker. Hits never touch the executor.
package vao

import (
	"cmp"
	"errors"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-gl/engine/buffer"
	"github.com/Carmen-Shannon/oxy-gl/engine/executor"
	"github.com/Carmen-Shannon/oxy-gl/engine/gl"
	mapset "github.com/deckarep/golang-set/v2"
)

// ErrCacheClosed is returned by GetOrCreate after the cache has been closed.
var ErrCacheClosed = errors.New("vao: cache closed")

// Key identifies one vertex array configuration.
type Key struct {
	Buffer  gl.BufferID
	Program gl.ProgramID
}

// KeyOf returns the cache key for a buffer used with a program.
//
// Parameters:
//   - buf: the vertex buffer
//   - program: the program
//
// Returns:
//   - Key: the cache key
func KeyOf(buf buffer.VertexBuffer, program gl.ProgramID) Key {
	return Key{Buffer: buf.ID(), Program: program}
}

// Stats is a snapshot of cache activity.
type Stats struct {
	// Len is the number of cached vertex arrays.
	Len int

	// Hits counts GetOrCreate calls answered from the cache.
	Hits uint64

	// Misses counts GetOrCreate calls that had to build.
	Misses uint64

	// Constructions counts vertex arrays successfully built.
	Constructions uint64

	// Destructions counts vertex arrays whose release was queued.
	Destructions uint64
}

// Cache maps (buffer, program) pairs to vertex arrays, building each at most once.
//
// A single lock guards the whole map and is held while a missing entry is built, so two callers
// asking for the same key can never both build it. The cost is that a build stalls every other
// lookup, including ones for unrelated keys, until the executor answers.
type Cache interface {
	// GetOrCreate returns the vertex array for buf used with program, building it on the
	// executor if it is not cached yet. Blocks for one executor round trip on a miss.
	//
	// Parameters:
	//   - buf: the vertex buffer; its ID forms half of the key
	//   - program: the linked program; forms the other half of the key
	//
	// Returns:
	//   - gl.VertexArrayID: the vertex array name
	//   - error: ErrCacheClosed, or the build error wrapping executor.ErrClosed or executor.ErrTaskPanicked
	GetOrCreate(buf buffer.VertexBuffer, program gl.ProgramID) (gl.VertexArrayID, error)

	// Lookup returns the cached vertex array for key without building one.
	//
	// Parameters:
	//   - key: the (buffer, program) pair
	//
	// Returns:
	//   - gl.VertexArrayID: the vertex array name, or gl.NoVertexArray
	//   - bool: true if the key is cached
	Lookup(key Key) (gl.VertexArrayID, bool)

	// Evict removes the entry for key and queues the release of its vertex array.
	//
	// Parameters:
	//   - key: the (buffer, program) pair
	//
	// Returns:
	//   - bool: true if an entry was removed
	Evict(key Key) bool

	// EvictBuffer evicts every entry built from the given buffer. Call it before deleting the buffer.
	//
	// Parameters:
	//   - id: the buffer name
	//
	// Returns:
	//   - int: the number of entries removed
	EvictBuffer(id gl.BufferID) int

	// EvictProgram evicts every entry built for the given program. Call it before deleting the program.
	//
	// Parameters:
	//   - id: the program name
	//
	// Returns:
	//   - int: the number of entries removed
	EvictProgram(id gl.ProgramID) int

	// Keys returns the cached keys ordered by buffer then program.
	//
	// Returns:
	//   - []Key: the cached keys
	Keys() []Key

	// Len returns the number of cached vertex arrays.
	//
	// Returns:
	//   - int: the entry count
	Len() int

	// Stats returns a snapshot of the cache counters.
	//
	// Returns:
	//   - Stats: the current statistics
	Stats() Stats

	// Close evicts every entry and makes later GetOrCreate calls fail with ErrCacheClosed.
	// The release tasks are queued, not awaited; close the executor afterwards to drain them.
	//
	// Returns:
	//   - error: always nil, present for io.Closer compatibility
	Close() error
}

// cache is the implementation of the Cache interface.
type cache struct {
	mu *sync.Mutex

	exec    executor.Executor
	entries map[Key]*vertexArray

	// byBuffer and byProgram index entries for bulk eviction.
	byBuffer  map[gl.BufferID]mapset.Set[Key]
	byProgram map[gl.ProgramID]mapset.Set[Key]

	closed bool

	hits          atomic.Uint64
	misses        atomic.Uint64
	constructions atomic.Uint64
	destructions  atomic.Uint64
}

var _ Cache = &cache{}

// NewCache creates an empty Cache whose vertex arrays are built and released on exec.
// NewCache panics if exec is nil.
//
// Parameters:
//   - exec: the executor owning the GL context
//   - options: functional options to configure the cache
//
// Returns:
//   - Cache: the new cache
func NewCache(exec executor.Executor, options ...CacheBuilderOption) Cache {
	if exec == nil {
		panic("vao: NewCache requires a non-nil Executor")
	}

	c := &cache{
		mu:        &sync.Mutex{},
		exec:      exec,
		entries:   make(map[Key]*vertexArray),
		byBuffer:  make(map[gl.BufferID]mapset.Set[Key]),
		byProgram: make(map[gl.ProgramID]mapset.Set[Key]),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *cache) GetOrCreate(buf buffer.VertexBuffer, program gl.ProgramID) (gl.VertexArrayID, error) {
	key := KeyOf(buf, program)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return gl.NoVertexArray, ErrCacheClosed
	}
	if va, ok := c.entries[key]; ok {
		c.hits.Add(1)
		return va.id, nil
	}
	c.misses.Add(1)

	// Built with the lock held: one build per key, at the price of serializing all callers.
	va, err := newVertexArray(c.exec, buf, program)
	if err != nil {
		return gl.NoVertexArray, err
	}
	c.insertLocked(va)
	c.constructions.Add(1)
	return va.id, nil
}

func (c *cache) Lookup(key Key) (gl.VertexArrayID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if va, ok := c.entries[key]; ok {
		return va.id, true
	}
	return gl.NoVertexArray, false
}

func (c *cache) Evict(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictLocked(key)
}

func (c *cache) EvictBuffer(id gl.BufferID) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys, ok := c.byBuffer[id]
	if !ok {
		return 0
	}
	return c.evictAllLocked(keys.ToSlice())
}

func (c *cache) EvictProgram(id gl.ProgramID) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys, ok := c.byProgram[id]
	if !ok {
		return 0
	}
	return c.evictAllLocked(keys.ToSlice())
}

func (c *cache) Keys() []Key {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sortedKeysLocked()
}

func (c *cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *cache) Stats() Stats {
	return Stats{
		Len:           c.Len(),
		Hits:          c.hits.Load(),
		Misses:        c.misses.Load(),
		Constructions: c.constructions.Load(),
		Destructions:  c.destructions.Load(),
	}
}

func (c *cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.evictAllLocked(c.sortedKeysLocked())
	return nil
}

// insertLocked stores va under its key and indexes it. Callers must hold c.mu.
func (c *cache) insertLocked(va *vertexArray) {
	c.entries[va.key] = va

	if _, ok := c.byBuffer[va.key.Buffer]; !ok {
		c.byBuffer[va.key.Buffer] = mapset.NewThreadUnsafeSet[Key]()
	}
	c.byBuffer[va.key.Buffer].Add(va.key)

	if _, ok := c.byProgram[va.key.Program]; !ok {
		c.byProgram[va.key.Program] = mapset.NewThreadUnsafeSet[Key]()
	}
	c.byProgram[va.key.Program].Add(va.key)
}

// evictLocked removes one entry and queues its release. The release is submitted while the lock
// is held so it is ordered before any rebuild of the same key. Callers must hold c.mu.
func (c *cache) evictLocked(key Key) bool {
	va, ok := c.entries[key]
	if !ok {
		return false
	}
	delete(c.entries, key)

	if keys, ok := c.byBuffer[key.Buffer]; ok {
		keys.Remove(key)
		if keys.Cardinality() == 0 {
			delete(c.byBuffer, key.Buffer)
		}
	}
	if keys, ok := c.byProgram[key.Program]; ok {
		keys.Remove(key)
		if keys.Cardinality() == 0 {
			delete(c.byProgram, key.Program)
		}
	}

	if va.destroy() {
		c.destructions.Add(1)
	}
	return true
}

// evictAllLocked evicts keys in order. Callers must hold c.mu.
func (c *cache) evictAllLocked(keys []Key) int {
	slices.SortFunc(keys, compareKeys)
	n := 0
	for _, key := range keys {
		if c.evictLocked(key) {
			n++
		}
	}
	return n
}

func (c *cache) sortedKeysLocked() []Key {
	keys := make([]Key, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, compareKeys)
	return keys
}

func compareKeys(a, b Key) int {
	if c := cmp.Compare(a.Buffer, b.Buffer); c != 0 {
		return c
	}
	return cmp.Compare(a.Program, b.Program)
}
