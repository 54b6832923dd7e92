package vao

import (
	"fmt"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/buffer"
	"github.com/Carmen-Shannon/oxy-gl/engine/executor"
	"github.com/Carmen-Shannon/oxy-gl/engine/gl"
)

// vertexArray is one GL vertex array object configured for a single (buffer, program) pair.
// It is owned by the cache and never handed out; callers only see its id.
type vertexArray struct {
	exec executor.Executor
	key  Key
	id   gl.VertexArrayID

	// destroyed is the consumed marker making destroy effective exactly once.
	destroyed atomic.Bool
}

// newVertexArray builds a vertex array on the executor and blocks until it exists.
//
// The layout is read from buf on the calling goroutine, so the object reflects buf as it was at
// this moment. Later layout changes are not picked up; the entry has to be evicted and rebuilt.
//
// Parameters:
//   - exec: the executor owning the GL context
//   - buf: the vertex buffer supplying data and layout
//   - program: the linked program whose attribute locations are used
//
// Returns:
//   - *vertexArray: the built object
//   - error: an error wrapping executor.ErrClosed or executor.ErrTaskPanicked if the build task did not complete
func newVertexArray(exec executor.Executor, buf buffer.VertexBuffer, program gl.ProgramID) (*vertexArray, error) {
	bufferID := buf.ID()
	bindings := buf.Bindings()
	stride := int32(buf.Stride())

	id, err := executor.Call(exec, func(api gl.API, state *gl.State) gl.VertexArrayID {
		id := api.GenVertexArray()
		state.BindVertexArray(api, id)
		state.BindArrayBuffer(api, bufferID)

		for _, binding := range bindings {
			if !configureAttribute(api, program, binding, stride) {
				common.Logger().Debug("attribute not consumed by program",
					"attribute", binding.Name, "program", program, "buffer", bufferID)
			}
		}
		return id
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build vertex array for buffer %d and program %d: %w", bufferID, program, err)
	}

	common.Logger().Debug("vertex array built",
		"id", id, "buffer", bufferID, "program", program, "attributes", len(bindings), "stride", stride)

	return &vertexArray{
		exec: exec,
		key:  Key{Buffer: bufferID, Program: program},
		id:   id,
	}, nil
}

// configureAttribute points one attribute of the bound array buffer at its location in program
// and enables it. Returns false, issuing nothing beyond the lookup, when the program does not
// consume the attribute.
func configureAttribute(api gl.API, program gl.ProgramID, binding buffer.Binding, stride int32) bool {
	loc := api.AttribLocation(program, binding.Name)
	if loc < 0 {
		return false
	}
	location := uint32(loc)

	if binding.Type.IsInteger() {
		api.VertexAttribIPointer(location, int32(binding.Count), binding.Type, stride, binding.Offset)
	} else {
		api.VertexAttribPointer(location, int32(binding.Count), binding.Type, false, stride, binding.Offset)
	}
	api.EnableVertexAttribArray(location)
	return true
}

// destroy queues the release of the GL object without waiting for it. The release task unbinds
// the object first if it is still the current vertex array. Only the first call has any effect.
//
// Returns:
//   - bool: true if this call queued the release
func (v *vertexArray) destroy() bool {
	if !v.destroyed.CompareAndSwap(false, true) {
		return false
	}

	id := v.id
	err := v.exec.Submit(func(api gl.API, state *gl.State) {
		unbound := state.DeleteVertexArray(api, id)
		common.Logger().Debug("vertex array destroyed", "id", id, "unbound", unbound)
	})
	if err != nil {
		common.Logger().Warn("vertex array leaked, executor no longer accepts work",
			"id", id, "buffer", v.key.Buffer, "program", v.key.Program, "error", err)
	}
	return true
}
