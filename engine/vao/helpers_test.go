package vao

import (
	"slices"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/buffer"
	"github.com/Carmen-Shannon/oxy-gl/engine/executor"
	"github.com/Carmen-Shannon/oxy-gl/engine/gl"
	"github.com/Carmen-Shannon/oxy-gl/engine/gl/headless"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

// fixture is a cache over a headless executor.
type fixture struct {
	rec   *headless.Recorder
	exec  executor.Executor
	cache Cache
}

func newFixture(t *testing.T, programs map[gl.ProgramID]map[string]int32) *fixture {
	t.Helper()

	rec := headless.NewRecorder()
	for id, attrs := range programs {
		rec.LinkProgram(id, attrs)
	}
	exec := executor.NewExecutor(executor.WithAPI(rec), executor.WithName(t.Name()))
	f := &fixture{rec: rec, exec: exec, cache: NewCache(exec)}

	t.Cleanup(func() {
		_ = f.cache.Close()
		_ = f.exec.Close()
	})
	return f
}

// sync waits for every task queued so far, including fire-and-forget releases.
func (f *fixture) sync(t *testing.T) {
	t.Helper()
	require.NoError(t, f.exec.Exec(func(gl.API, *gl.State) {}))
}

func assertTrace(t *testing.T, name string, rec *headless.Recorder) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(rec.String()))
}

// mutableBuffer is a VertexBuffer whose layout can change after a vertex array was built from it.
type mutableBuffer struct {
	mu       sync.Mutex
	id       gl.BufferID
	bindings []buffer.Binding
	stride   int
}

func (b *mutableBuffer) ID() gl.BufferID { return b.id }

func (b *mutableBuffer) Bindings() []buffer.Binding {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.bindings)
}

func (b *mutableBuffer) Stride() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stride
}

func (b *mutableBuffer) set(stride int, bindings ...buffer.Binding) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stride = stride
	b.bindings = bindings
}
