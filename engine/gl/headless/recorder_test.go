package headless

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/gl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderAllocatesFromOne(t *testing.T) {
	r := NewRecorder()

	assert.Equal(t, gl.VertexArrayID(1), r.GenVertexArray())
	assert.Equal(t, gl.VertexArrayID(2), r.GenVertexArray())
	assert.Equal(t, gl.VertexArrayID(3), r.GenVertexArray())
	assert.Equal(t, []gl.VertexArrayID{1, 2, 3}, r.Live())
}

func TestRecorderReusesLowestFreedName(t *testing.T) {
	r := NewRecorder()
	for range 4 {
		r.GenVertexArray()
	}

	r.DeleteVertexArray(3)
	r.DeleteVertexArray(1)
	assert.Equal(t, []gl.VertexArrayID{2, 4}, r.Live())

	assert.Equal(t, gl.VertexArrayID(1), r.GenVertexArray())
	assert.Equal(t, gl.VertexArrayID(3), r.GenVertexArray())
	assert.Equal(t, gl.VertexArrayID(5), r.GenVertexArray())
}

func TestRecorderDeleteUnknownNameIsRecordedOnly(t *testing.T) {
	r := NewRecorder()
	r.DeleteVertexArray(9)

	assert.Empty(t, r.Live())
	assert.Equal(t, gl.VertexArrayID(1), r.GenVertexArray())
	assert.Equal(t, 1, r.Count("DeleteVertexArray"))
}

func TestRecorderAttribLocation(t *testing.T) {
	r := NewRecorder()
	attrs := map[string]int32{"pos": 0, "uv": 2}
	r.LinkProgram(7, attrs)
	attrs["pos"] = 9

	assert.Equal(t, int32(0), r.AttribLocation(7, "pos"))
	assert.Equal(t, int32(2), r.AttribLocation(7, "uv"))
	assert.Equal(t, gl.NoAttrib, r.AttribLocation(7, "normal"))
	assert.Equal(t, gl.NoAttrib, r.AttribLocation(8, "pos"))
}

func TestRecorderTrace(t *testing.T) {
	r := NewRecorder()
	r.LinkProgram(1, map[string]int32{"pos": 0, "id": 1})

	r.BindBuffer(4)
	r.AttribLocation(1, "pos")
	r.VertexAttribPointer(0, 3, gl.Float, false, 16, 0)
	r.AttribLocation(1, "id")
	r.VertexAttribIPointer(1, 1, gl.UnsignedInt, 16, 12)
	r.EnableVertexAttribArray(1)

	want := `BindBuffer(ARRAY_BUFFER, 4)
GetAttribLocation(1, "pos") = 0
VertexAttribPointer(0, 3, FLOAT, false, 16, 0)
GetAttribLocation(1, "id") = 1
VertexAttribIPointer(1, 1, UNSIGNED_INT, 16, 12)
EnableVertexAttribArray(1)
`
	assert.Equal(t, want, r.String())
	assert.Equal(t, 2, r.Count("GetAttribLocation"))

	calls := r.Calls()
	require.Len(t, calls, 6)
	assert.Equal(t, "VertexAttribIPointer", calls[4].Op)

	r.Reset()
	assert.Empty(t, r.Calls())
	assert.Empty(t, r.String())
}
