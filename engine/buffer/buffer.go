// Package buffer describes vertex buffers: which GL buffer holds the data, how each vertex
// attribute is laid out inside a vertex, and the byte stride between vertices.
package buffer

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-gl/engine/gl"
)

// Binding describes one vertex attribute stored in a buffer.
type Binding struct {
	// Name is the attribute name the vertex shader declares.
	Name string

	// Type is the GL component type.
	Type gl.DataType

	// Count is the number of components per vertex, 1 to 4.
	Count int

	// Offset is the byte offset of the attribute within one vertex.
	Offset int
}

// VertexBuffer is what a vertex array needs to know about a buffer: its GL name, its attribute
// layout in declaration order, and the per-vertex stride in bytes.
type VertexBuffer interface {
	// ID returns the GL name of the buffer.
	//
	// Returns:
	//   - gl.BufferID: the buffer name
	ID() gl.BufferID

	// Bindings returns the attribute layout in declaration order.
	//
	// Returns:
	//   - []Binding: the attribute bindings
	Bindings() []Binding

	// Stride returns the byte distance between consecutive vertices.
	//
	// Returns:
	//   - int: the stride in bytes
	Stride() int
}

// vertexBuffer is the implementation of the VertexBuffer interface.
type vertexBuffer struct {
	id       gl.BufferID
	bindings []Binding
	stride   int

	// explicitStride is set when WithStride overrides the packed size.
	explicitStride bool
}

var _ VertexBuffer = &vertexBuffer{}

// NewVertexBuffer describes the buffer with the given GL name. Attributes added with
// WithAttribute are packed back to back; unless WithStride is given, the stride is the packed
// size of one vertex.
//
// Parameters:
//   - id: the GL buffer name
//   - options: functional options describing the layout
//
// Returns:
//   - VertexBuffer: the buffer description
func NewVertexBuffer(id gl.BufferID, options ...VertexBufferBuilderOption) VertexBuffer {
	b := &vertexBuffer{id: id}
	for _, opt := range options {
		opt(b)
	}
	if !b.explicitStride {
		b.stride = b.packedSize()
	}
	return b
}

func (b *vertexBuffer) ID() gl.BufferID {
	return b.id
}

func (b *vertexBuffer) Bindings() []Binding {
	return slices.Clone(b.bindings)
}

func (b *vertexBuffer) Stride() int {
	return b.stride
}

// packedSize is the end of the furthest attribute, i.e. the tightest possible stride.
func (b *vertexBuffer) packedSize() int {
	size := 0
	for _, binding := range b.bindings {
		size = max(size, binding.Offset+binding.Count*binding.Type.Size())
	}
	return size
}
