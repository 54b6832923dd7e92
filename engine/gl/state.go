package gl

// State mirrors the GL bindings this module cares about so that redundant binds can be skipped
// and deleted objects can be unbound. It belongs to the executor and is only ever read or
// written by tasks running on the executor worker.
type State struct {
	// VertexArray is the vertex array most recently bound by an executed task.
	VertexArray VertexArrayID

	// ArrayBuffer is the buffer most recently bound to GL_ARRAY_BUFFER by an executed task.
	ArrayBuffer BufferID
}

// BindVertexArray binds id and records it as current.
//
// Parameters:
//   - api: the GL call surface
//   - id: the vertex array to bind
func (s *State) BindVertexArray(api API, id VertexArrayID) {
	api.BindVertexArray(id)
	s.VertexArray = id
}

// BindArrayBuffer binds id to GL_ARRAY_BUFFER unless it is already recorded as bound.
//
// Parameters:
//   - api: the GL call surface
//   - id: the buffer to bind
//
// Returns:
//   - bool: true if a bind call was issued
func (s *State) BindArrayBuffer(api API, id BufferID) bool {
	if s.ArrayBuffer == id {
		return false
	}
	api.BindBuffer(id)
	s.ArrayBuffer = id
	return true
}

// DeleteVertexArray unbinds id first if it is the current vertex array, then deletes it.
//
// Parameters:
//   - api: the GL call surface
//   - id: the vertex array to delete
//
// Returns:
//   - bool: true if id was current and had to be unbound
func (s *State) DeleteVertexArray(api API, id VertexArrayID) bool {
	unbound := false
	if s.VertexArray == id {
		s.BindVertexArray(api, NoVertexArray)
		unbound = true
	}
	api.DeleteVertexArray(id)
	return unbound
}
