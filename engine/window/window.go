// Package window creates the native window whose OpenGL context the executor renders with.
//
// The window is usually hidden: it exists to own a GL context, not to show anything. It must be
// created, used and closed on the same locked OS thread, which in this module is the executor
// worker (see executor.WithInit).
package window

import (
	"fmt"
)

// Window owns a native window and its OpenGL context.
type Window interface {
	// MakeCurrent makes the window's GL context current on the calling thread.
	MakeCurrent()

	// GLVersion returns the context version that was requested at creation.
	//
	// Returns:
	//   - int: the major version
	//   - int: the minor version
	GLVersion() (int, int)

	// Close destroys the window and its context and releases platform resources.
	//
	// Returns:
	//   - error: error if the window was never initialized
	Close() error

	// Width returns the window client area width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the window client area height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	// title is the window title, visible only when the window is shown.
	title string

	// width and height are the client area size in pixels.
	width  int
	height int

	// visible controls whether the window is shown at all.
	visible bool

	// glMajor and glMinor are the requested core profile context version.
	glMajor int
	glMinor int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any
}

var _ Window = &engineWindow{}

// NewWindow creates the window and makes its GL context current on the calling thread.
// The caller must already be locked to its OS thread.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the created window
//   - error: error if the platform window or context could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:   "oxy-gl",
		width:   64,
		height:  64,
		visible: false,
		glMajor: 3,
		glMinor: 3,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func (w *engineWindow) MakeCurrent() {
	platformMakeCurrent(w)
}

func (w *engineWindow) GLVersion() (int, int) {
	return w.glMajor, w.glMinor
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}
