package vao

import (
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/buffer"
	"github.com/Carmen-Shannon/oxy-gl/engine/executor"
	"github.com/Carmen-Shannon/oxy-gl/engine/gl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func positionBuffer(id gl.BufferID) buffer.VertexBuffer {
	return buffer.NewVertexBuffer(id, buffer.WithAttribute("pos", gl.Float, 3))
}

func TestCacheEndToEnd(t *testing.T) {
	f := newFixture(t, map[gl.ProgramID]map[string]int32{1: {"pos": 0}})
	buf := positionBuffer(1)

	id, err := f.cache.GetOrCreate(buf, 1)
	require.NoError(t, err)

	assert.Equal(t, gl.VertexArrayID(1), id)
	assert.Equal(t, []gl.VertexArrayID{1}, f.rec.Live())
	assertTrace(t, "single_position_attribute", f.rec)
}

func TestCacheGetOrCreateIsIdempotent(t *testing.T) {
	f := newFixture(t, map[gl.ProgramID]map[string]int32{1: {"pos": 0}})
	buf := positionBuffer(1)

	first, err := f.cache.GetOrCreate(buf, 1)
	require.NoError(t, err)
	second, err := f.cache.GetOrCreate(buf, 1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.rec.Count("GenVertexArray"))
	assert.Equal(t, Stats{Len: 1, Hits: 1, Misses: 1, Constructions: 1}, f.cache.Stats())
}

func TestCacheConcurrentCallersShareOneConstruction(t *testing.T) {
	f := newFixture(t, map[gl.ProgramID]map[string]int32{1: {"pos": 0}})
	buf := positionBuffer(1)

	const callers = 32
	ids := make([]gl.VertexArrayID, callers)
	start := make(chan struct{})

	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			id, err := f.cache.GetOrCreate(buf, 1)
			assert.NoError(t, err)
			ids[i] = id
		}()
	}
	close(start)
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	assert.Equal(t, 1, f.rec.Count("GenVertexArray"))

	stats := f.cache.Stats()
	assert.Equal(t, uint64(1), stats.Constructions)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, uint64(callers-1), stats.Hits)
}

func TestCacheDistinctKeysGetDistinctVertexArrays(t *testing.T) {
	f := newFixture(t, map[gl.ProgramID]map[string]int32{1: {"pos": 0}, 2: {"pos": 0}})

	seen := make(map[gl.VertexArrayID]Key)
	for _, bufID := range []gl.BufferID{3, 1, 2} {
		for _, program := range []gl.ProgramID{2, 1} {
			id, err := f.cache.GetOrCreate(positionBuffer(bufID), program)
			require.NoError(t, err)

			key := Key{Buffer: bufID, Program: program}
			prev, dup := seen[id]
			require.False(t, dup, "%v and %v share vertex array %d", prev, key, id)
			seen[id] = key
		}
	}

	assert.Equal(t, 6, f.cache.Len())
	assert.Equal(t, []Key{
		{Buffer: 1, Program: 1}, {Buffer: 1, Program: 2},
		{Buffer: 2, Program: 1}, {Buffer: 2, Program: 2},
		{Buffer: 3, Program: 1}, {Buffer: 3, Program: 2},
	}, f.cache.Keys())
}

func TestCacheLookup(t *testing.T) {
	f := newFixture(t, map[gl.ProgramID]map[string]int32{1: {"pos": 0}})
	buf := positionBuffer(1)

	_, ok := f.cache.Lookup(KeyOf(buf, 1))
	assert.False(t, ok)
	assert.Zero(t, f.rec.Count("GenVertexArray"))

	id, err := f.cache.GetOrCreate(buf, 1)
	require.NoError(t, err)

	found, ok := f.cache.Lookup(KeyOf(buf, 1))
	assert.True(t, ok)
	assert.Equal(t, id, found)
}

func TestCacheEvictReleasesAndRebuilds(t *testing.T) {
	f := newFixture(t, map[gl.ProgramID]map[string]int32{1: {"pos": 0}, 3: {"pos": 1}})
	buf := positionBuffer(1)

	_, err := f.cache.GetOrCreate(buf, 1)
	require.NoError(t, err)
	_, err = f.cache.GetOrCreate(buf, 3)
	require.NoError(t, err)

	assert.True(t, f.cache.Evict(KeyOf(buf, 1)))
	assert.False(t, f.cache.Evict(KeyOf(buf, 1)))
	assert.True(t, f.cache.Evict(KeyOf(buf, 3)))

	// The rebuild reuses name 1; its release was queued first, so it cannot delete the new object.
	id, err := f.cache.GetOrCreate(buf, 1)
	require.NoError(t, err)
	assert.Equal(t, gl.VertexArrayID(1), id)
	assert.Equal(t, []gl.VertexArrayID{1}, f.rec.Live())

	assert.Equal(t, Stats{Len: 1, Misses: 3, Constructions: 3, Destructions: 2}, f.cache.Stats())
	assertTrace(t, "evict_and_rebuild", f.rec)
}

func TestCacheEvictBufferAndProgram(t *testing.T) {
	f := newFixture(t, map[gl.ProgramID]map[string]int32{1: {"pos": 0}, 2: {"pos": 0}})
	for _, bufID := range []gl.BufferID{1, 2, 3} {
		for _, program := range []gl.ProgramID{1, 2} {
			_, err := f.cache.GetOrCreate(positionBuffer(bufID), program)
			require.NoError(t, err)
		}
	}

	assert.Equal(t, 2, f.cache.EvictBuffer(2))
	assert.Zero(t, f.cache.EvictBuffer(2))
	assert.Equal(t, 2, f.cache.EvictProgram(1))
	assert.Zero(t, f.cache.EvictProgram(7))

	assert.Equal(t, []Key{{Buffer: 1, Program: 2}, {Buffer: 3, Program: 2}}, f.cache.Keys())

	f.sync(t)
	assert.Len(t, f.rec.Live(), 2)
	assert.Equal(t, 4, f.rec.Count("DeleteVertexArray"))
	assert.Equal(t, uint64(4), f.cache.Stats().Destructions)

	// Indexes are pruned with their last key, so the evicted pair can be rebuilt and evicted again.
	_, err := f.cache.GetOrCreate(positionBuffer(2), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.EvictProgram(1))
}

func TestCacheKeepsLayoutFromConstruction(t *testing.T) {
	f := newFixture(t, map[gl.ProgramID]map[string]int32{1: {"pos": 0, "uv": 1}})
	buf := &mutableBuffer{id: 5}
	buf.set(12, buffer.Binding{Name: "pos", Type: gl.Float, Count: 3})

	id, err := f.cache.GetOrCreate(buf, 1)
	require.NoError(t, err)
	f.rec.Reset()

	buf.set(20,
		buffer.Binding{Name: "pos", Type: gl.Float, Count: 3},
		buffer.Binding{Name: "uv", Type: gl.Float, Count: 2, Offset: 12},
	)
	again, err := f.cache.GetOrCreate(buf, 1)
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.Empty(t, f.rec.Calls(), "a layout change alone does not rebuild")

	require.True(t, f.cache.Evict(KeyOf(buf, 1)))
	_, err = f.cache.GetOrCreate(buf, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, f.rec.Count("EnableVertexAttribArray"))
	assert.Equal(t, 2, f.rec.Count("VertexAttribPointer"))
}

func TestCacheClose(t *testing.T) {
	f := newFixture(t, map[gl.ProgramID]map[string]int32{1: {"pos": 0}})
	for _, bufID := range []gl.BufferID{1, 2} {
		_, err := f.cache.GetOrCreate(positionBuffer(bufID), 1)
		require.NoError(t, err)
	}

	require.NoError(t, f.cache.Close())
	require.NoError(t, f.cache.Close())
	assert.Zero(t, f.cache.Len())

	_, err := f.cache.GetOrCreate(positionBuffer(1), 1)
	assert.ErrorIs(t, err, ErrCacheClosed)

	f.sync(t)
	assert.Empty(t, f.rec.Live())
	assert.Equal(t, uint64(2), f.cache.Stats().Destructions)
}

func TestCacheExecutorClosedDuringConstruction(t *testing.T) {
	f := newFixture(t, map[gl.ProgramID]map[string]int32{1: {"pos": 0}})
	require.NoError(t, f.exec.Close())

	id, err := f.cache.GetOrCreate(positionBuffer(1), 1)
	require.ErrorIs(t, err, executor.ErrClosed)
	assert.Equal(t, gl.NoVertexArray, id)

	assert.Zero(t, f.cache.Len())
	assert.Equal(t, Stats{Misses: 1}, f.cache.Stats())
}

func TestCacheConcurrentChurnKeepsNamesConsistent(t *testing.T) {
	programs := map[gl.ProgramID]map[string]int32{1: {"pos": 0}, 2: {"pos": 0}, 3: {"pos": 0}}
	f := newFixture(t, programs)

	buffers := []buffer.VertexBuffer{positionBuffer(1), positionBuffer(2), positionBuffer(3)}
	programIDs := []gl.ProgramID{1, 2, 3}

	var wg sync.WaitGroup
	for p := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rng := rand.New(rand.NewPCG(42, uint64(p)))
			for range 500 {
				buf := buffers[rng.IntN(len(buffers))]
				program := programIDs[rng.IntN(len(programIDs))]
				switch rng.IntN(10) {
				case 0:
					f.cache.Evict(KeyOf(buf, program))
				case 1:
					f.cache.EvictBuffer(buf.ID())
				default:
					_, err := f.cache.GetOrCreate(buf, program)
					assert.NoError(t, err)
				}
			}
		}()
	}
	wg.Wait()
	f.sync(t)

	// Every cached entry still owns a live name, and nothing else is live.
	live := f.rec.Live()
	keys := f.cache.Keys()
	require.Len(t, live, len(keys))
	for _, key := range keys {
		id, ok := f.cache.Lookup(key)
		require.True(t, ok)
		assert.Contains(t, live, id, "vertex array for %v was deleted while cached", key)
	}

	stats := f.cache.Stats()
	assert.Equal(t, stats.Constructions-stats.Destructions, uint64(stats.Len))
}

func TestNewCacheRequiresExecutor(t *testing.T) {
	assert.Panics(t, func() { NewCache(nil) })
}
