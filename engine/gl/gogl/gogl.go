// Package gogl implements gl.API on top of the go-gl OpenGL 3.3 core bindings.
//
// Init must be called once a context is current on the executor thread, and every method must
// be called from that same thread.
package gogl

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/engine/gl"
	gogl "github.com/go-gl/gl/v3.3-core/gl"
)

// api is the go-gl backed implementation of gl.API.
type api struct{}

var _ gl.API = &api{}

// Init loads the GL function pointers for the context current on the calling thread and returns
// an API bound to it.
//
// Reference: https://pkg.go.dev/github.com/go-gl/gl/v3.3-core/gl#Init
//
// Returns:
//   - gl.API: the GL call surface
//   - error: an error if the function pointers could not be loaded
func Init() (gl.API, error) {
	if err := gogl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL bindings: %w", err)
	}
	return &api{}, nil
}

// Version returns the GL_VERSION string of the current context. Must run on the context thread.
//
// Returns:
//   - string: the driver-reported version string
func Version() string {
	return gogl.GoStr(gogl.GetString(gogl.VERSION))
}

// GenBuffer allocates one buffer object name. Must run on the context thread.
//
// Returns:
//   - gl.BufferID: the new buffer name
func GenBuffer() gl.BufferID {
	var id uint32
	gogl.GenBuffers(1, &id)
	return gl.BufferID(id)
}

// DeleteBuffer releases a buffer object name. Must run on the context thread.
//
// Parameters:
//   - id: the buffer to delete
func DeleteBuffer(id gl.BufferID) {
	name := uint32(id)
	gogl.DeleteBuffers(1, &name)
}

func (a *api) GenVertexArray() gl.VertexArrayID {
	var id uint32
	gogl.GenVertexArrays(1, &id)
	return gl.VertexArrayID(id)
}

func (a *api) BindVertexArray(id gl.VertexArrayID) {
	gogl.BindVertexArray(uint32(id))
}

func (a *api) BindBuffer(id gl.BufferID) {
	gogl.BindBuffer(gogl.ARRAY_BUFFER, uint32(id))
}

func (a *api) DeleteVertexArray(id gl.VertexArrayID) {
	name := uint32(id)
	gogl.DeleteVertexArrays(1, &name)
}

func (a *api) AttribLocation(program gl.ProgramID, name string) int32 {
	// gl.Str requires a NUL terminated Go string.
	return gogl.GetAttribLocation(uint32(program), gogl.Str(name+"\x00"))
}

func (a *api) VertexAttribIPointer(location uint32, count int32, dataType gl.DataType, stride int32, offset int) {
	gogl.VertexAttribIPointer(location, count, uint32(dataType), stride, gogl.PtrOffset(offset))
}

func (a *api) VertexAttribPointer(location uint32, count int32, dataType gl.DataType, normalized bool, stride int32, offset int) {
	gogl.VertexAttribPointer(location, count, uint32(dataType), normalized, stride, gogl.PtrOffset(offset))
}

func (a *api) EnableVertexAttribArray(location uint32) {
	gogl.EnableVertexAttribArray(location)
}
