package buffer

import "github.com/Carmen-Shannon/oxy-gl/engine/gl"

// VertexBufferBuilderOption is a functional option for describing a vertex buffer layout.
type VertexBufferBuilderOption func(*vertexBuffer)

// WithAttribute appends an attribute placed directly after the previous one.
//
// Parameters:
//   - name: the attribute name the vertex shader declares
//   - dataType: the GL component type
//   - count: the number of components per vertex
//
// Returns:
//   - VertexBufferBuilderOption: option function to apply
func WithAttribute(name string, dataType gl.DataType, count int) VertexBufferBuilderOption {
	return func(b *vertexBuffer) {
		b.bindings = append(b.bindings, Binding{
			Name:   name,
			Type:   dataType,
			Count:  count,
			Offset: b.packedSize(),
		})
	}
}

// WithBinding appends an attribute at an explicit offset, for interleaved layouts with padding.
//
// Parameters:
//   - binding: the fully specified attribute
//
// Returns:
//   - VertexBufferBuilderOption: option function to apply
func WithBinding(binding Binding) VertexBufferBuilderOption {
	return func(b *vertexBuffer) {
		b.bindings = append(b.bindings, binding)
	}
}

// WithStride overrides the per-vertex stride instead of deriving it from the attributes.
//
// Parameters:
//   - stride: the byte distance between consecutive vertices
//
// Returns:
//   - VertexBufferBuilderOption: option function to apply
func WithStride(stride int) VertexBufferBuilderOption {
	return func(b *vertexBuffer) {
		b.stride = stride
		b.explicitStride = true
	}
}
