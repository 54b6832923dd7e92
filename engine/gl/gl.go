// Package gl defines the narrow slice of the OpenGL call surface used to build and release
// vertex array objects, along with the context state tracked alongside it.
//
// Every method of API must be invoked on the thread that owns the GL context. In this module
// that thread is the executor worker; nothing else should hold an API value.
package gl

import (
	"fmt"
	"strings"
)

// BufferID is a GL buffer object name.
type BufferID uint32

// ProgramID is a GL program object name. Programs are expected to be linked before use.
type ProgramID uint32

// VertexArrayID is a GL vertex array object name.
type VertexArrayID uint32

// NoVertexArray is the reserved vertex array name meaning "no vertex array bound".
const NoVertexArray VertexArrayID = 0

// NoBuffer is the reserved buffer name meaning "no buffer bound".
const NoBuffer BufferID = 0

// NoAttrib is returned by API.AttribLocation when the program has no active attribute of that name.
const NoAttrib int32 = -1

// DataType is a GL component type enum as passed to glVertexAttrib*Pointer.
type DataType uint32

const (
	Byte          DataType = 0x1400
	UnsignedByte  DataType = 0x1401
	Short         DataType = 0x1402
	UnsignedShort DataType = 0x1403
	Int           DataType = 0x1404
	UnsignedInt   DataType = 0x1405
	Float         DataType = 0x1406
	Double        DataType = 0x140A
	HalfFloat     DataType = 0x140B
)

// IsInteger reports whether values of this type are fed to the shader as integers
// (glVertexAttribIPointer) rather than converted to floating point.
//
// Returns:
//   - bool: true for the signed and unsigned byte, short and int types
func (t DataType) IsInteger() bool {
	switch t {
	case Byte, UnsignedByte, Short, UnsignedShort, Int, UnsignedInt:
		return true
	}
	return false
}

// Size returns the width in bytes of a single component of this type.
//
// Returns:
//   - int: component size in bytes, or 0 for an unknown type
func (t DataType) Size() int {
	switch t {
	case Byte, UnsignedByte:
		return 1
	case Short, UnsignedShort, HalfFloat:
		return 2
	case Int, UnsignedInt, Float:
		return 4
	case Double:
		return 8
	}
	return 0
}

func (t DataType) String() string {
	switch t {
	case Byte:
		return "BYTE"
	case UnsignedByte:
		return "UNSIGNED_BYTE"
	case Short:
		return "SHORT"
	case UnsignedShort:
		return "UNSIGNED_SHORT"
	case Int:
		return "INT"
	case UnsignedInt:
		return "UNSIGNED_INT"
	case Float:
		return "FLOAT"
	case Double:
		return "DOUBLE"
	case HalfFloat:
		return "HALF_FLOAT"
	}
	return fmt.Sprintf("DataType(0x%04X)", uint32(t))
}

var dataTypes = []DataType{Byte, UnsignedByte, Short, UnsignedShort, Int, UnsignedInt, Float, Double, HalfFloat}

// ParseDataType resolves a type name as printed by DataType.String. Matching ignores case and
// an optional "GL_" prefix, so "float", "FLOAT" and "GL_FLOAT" are equivalent.
//
// Parameters:
//   - name: the type name
//
// Returns:
//   - DataType: the matching type
//   - error: error if the name is not a known type
func ParseDataType(name string) (DataType, error) {
	upper := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(name)), "GL_")
	for _, t := range dataTypes {
		if t.String() == upper {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown data type %q", name)
}

// API is the set of GL entry points needed to build and release vertex array objects.
// Implementations are not safe for concurrent use and must only be called from the
// thread owning the GL context.
type API interface {
	// GenVertexArray allocates one new vertex array object name.
	//
	// Returns:
	//   - VertexArrayID: the newly allocated name
	GenVertexArray() VertexArrayID

	// BindVertexArray makes the given vertex array current. NoVertexArray unbinds.
	//
	// Parameters:
	//   - id: the vertex array to bind
	BindVertexArray(id VertexArrayID)

	// BindBuffer binds the given buffer to the GL_ARRAY_BUFFER target.
	//
	// Parameters:
	//   - id: the buffer to bind
	BindBuffer(id BufferID)

	// DeleteVertexArray releases a vertex array object name.
	//
	// Parameters:
	//   - id: the vertex array to delete
	DeleteVertexArray(id VertexArrayID)

	// AttribLocation resolves the location of a named vertex attribute in a linked program.
	//
	// Parameters:
	//   - program: the linked program to query
	//   - name: the attribute name as declared in the vertex shader
	//
	// Returns:
	//   - int32: the attribute location, or NoAttrib if the program does not consume it
	AttribLocation(program ProgramID, name string) int32

	// VertexAttribIPointer describes an integer attribute of the currently bound array buffer.
	//
	// Parameters:
	//   - location: the attribute location
	//   - count: number of components per vertex (1-4)
	//   - dataType: an integer component type
	//   - stride: byte distance between consecutive vertices
	//   - offset: byte offset of the first component in the buffer
	VertexAttribIPointer(location uint32, count int32, dataType DataType, stride int32, offset int)

	// VertexAttribPointer describes a floating-point attribute of the currently bound array buffer.
	//
	// Parameters:
	//   - location: the attribute location
	//   - count: number of components per vertex (1-4)
	//   - dataType: the component type
	//   - normalized: whether fixed-point values are normalized when converted
	//   - stride: byte distance between consecutive vertices
	//   - offset: byte offset of the first component in the buffer
	VertexAttribPointer(location uint32, count int32, dataType DataType, normalized bool, stride int32, offset int)

	// EnableVertexAttribArray enables the attribute at the given location for the current vertex array.
	//
	// Parameters:
	//   - location: the attribute location
	EnableVertexAttribArray(location uint32)
}
