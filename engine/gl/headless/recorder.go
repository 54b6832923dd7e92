// Package headless provides a gl.API that runs without a GL driver. It allocates object names
// the way a driver does, answers attribute lookups from programs registered with LinkProgram,
// and records every call so the exact GL traffic can be asserted on.
package headless

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-gl/engine/gl"
)

// Call is one recorded GL call.
type Call struct {
	// Op is the GL entry point name without the "gl" prefix, e.g. "BindVertexArray".
	Op string

	// Text is the full rendering of the call including arguments and result.
	Text string
}

// Recorder is an in-memory gl.API.
// Vertex array names start at 1 and deleted names are handed out again lowest first,
// matching the reuse behavior of common drivers.
type Recorder struct {
	mu *sync.Mutex

	calls    []Call
	programs map[gl.ProgramID]map[string]int32

	next  gl.VertexArrayID
	freed []gl.VertexArrayID
	live  map[gl.VertexArrayID]struct{}
}

var _ gl.API = &Recorder{}

// NewRecorder creates an empty Recorder with no linked programs.
//
// Returns:
//   - *Recorder: the new recorder
func NewRecorder() *Recorder {
	return &Recorder{
		mu:       &sync.Mutex{},
		programs: make(map[gl.ProgramID]map[string]int32),
		next:     1,
		live:     make(map[gl.VertexArrayID]struct{}),
	}
}

// LinkProgram registers the active attributes of a program. Lookups against programs that were
// never linked behave like an invalid program name and resolve every attribute to gl.NoAttrib.
//
// Parameters:
//   - program: the program name
//   - attributes: attribute name to location
func (r *Recorder) LinkProgram(program gl.ProgramID, attributes map[string]int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.programs[program] = maps.Clone(attributes)
}

func (r *Recorder) GenVertexArray() gl.VertexArrayID {
	r.mu.Lock()
	defer r.mu.Unlock()

	var id gl.VertexArrayID
	if len(r.freed) > 0 {
		id = r.freed[0]
		r.freed = r.freed[1:]
	} else {
		id = r.next
		r.next++
	}
	r.live[id] = struct{}{}
	r.record("GenVertexArray", "GenVertexArray() = %d", id)
	return id
}

func (r *Recorder) BindVertexArray(id gl.VertexArrayID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("BindVertexArray", "BindVertexArray(%d)", id)
}

func (r *Recorder) BindBuffer(id gl.BufferID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("BindBuffer", "BindBuffer(ARRAY_BUFFER, %d)", id)
}

func (r *Recorder) DeleteVertexArray(id gl.VertexArrayID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.live[id]; ok {
		delete(r.live, id)
		r.freed = append(r.freed, id)
		slices.Sort(r.freed)
	}
	r.record("DeleteVertexArray", "DeleteVertexArray(%d)", id)
}

func (r *Recorder) AttribLocation(program gl.ProgramID, name string) int32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	loc := gl.NoAttrib
	if attrs, ok := r.programs[program]; ok {
		if l, found := attrs[name]; found {
			loc = l
		}
	}
	r.record("GetAttribLocation", "GetAttribLocation(%d, %q) = %d", program, name, loc)
	return loc
}

func (r *Recorder) VertexAttribIPointer(location uint32, count int32, dataType gl.DataType, stride int32, offset int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("VertexAttribIPointer", "VertexAttribIPointer(%d, %d, %s, %d, %d)", location, count, dataType, stride, offset)
}

func (r *Recorder) VertexAttribPointer(location uint32, count int32, dataType gl.DataType, normalized bool, stride int32, offset int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("VertexAttribPointer", "VertexAttribPointer(%d, %d, %s, %t, %d, %d)", location, count, dataType, normalized, stride, offset)
}

func (r *Recorder) EnableVertexAttribArray(location uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("EnableVertexAttribArray", "EnableVertexAttribArray(%d)", location)
}

// Calls returns a copy of every call recorded since creation or the last Reset.
//
// Returns:
//   - []Call: the recorded calls in issue order
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

// Count returns how many recorded calls used the given entry point.
//
// Parameters:
//   - op: the entry point name, e.g. "EnableVertexAttribArray"
//
// Returns:
//   - int: the number of matching calls
func (r *Recorder) Count(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, c := range r.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Live returns the vertex array names that are allocated and not yet deleted, in ascending order.
//
// Returns:
//   - []gl.VertexArrayID: the live names
func (r *Recorder) Live() []gl.VertexArrayID {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]gl.VertexArrayID, 0, len(r.live))
	for id := range r.live {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Reset clears the call log. Allocated names and linked programs are kept.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// String renders the call log one call per line, with a trailing newline.
func (r *Recorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sb strings.Builder
	for _, c := range r.calls {
		sb.WriteString(c.Text)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// record appends a call. Callers must hold r.mu.
func (r *Recorder) record(op, format string, args ...any) {
	r.calls = append(r.calls, Call{Op: op, Text: fmt.Sprintf(format, args...)})
}
