package window

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	parent *engineWindow
	window *glfw.Window
}

// newPlatformWindow creates the GLFW window with an OpenGL core profile context and makes that
// context current on the calling thread.
//
// On macOS GLFW must be driven from the process main thread; elsewhere any locked thread works.
//
// GLFW reference: https://www.glfw.org/docs/latest/context_guide.html
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw
func newPlatformWindow(w *engineWindow) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// Reference: https://www.glfw.org/docs/latest/window_guide.html#window_hints_ctx
	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
	glfw.WindowHint(glfw.ContextVersionMajor, w.glMajor)
	glfw.WindowHint(glfw.ContextVersionMinor, w.glMinor)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	if w.visible {
		glfw.WindowHint(glfw.Visible, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}
	win.MakeContextCurrent()

	// Framebuffer size may differ from the requested size on high-DPI displays.
	w.width, w.height = win.GetFramebufferSize()
	w.internalWindow = &glfwWindow{parent: w, window: win}
	return nil
}

// platformMakeCurrent makes the window's context current on the calling thread.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.MakeContextCurrent
func platformMakeCurrent(w *engineWindow) {
	if w.internalWindow == nil {
		return
	}
	w.internalWindow.(*glfwWindow).window.MakeContextCurrent()
}

// platformCloseWindow destroys the GLFW window and terminates the GLFW library.
// Returns an error if the internal window has not been initialized.
//
// Parameters:
//   - w: the engineWindow to close
//
// Returns:
//   - error: error if the window is not initialized
func platformCloseWindow(w *engineWindow) error {
	if w.internalWindow == nil {
		return fmt.Errorf("window is not initialized")
	}
	gw := w.internalWindow.(*glfwWindow)
	glfw.DetachCurrentContext()
	gw.window.Destroy()
	glfw.Terminate()
	w.internalWindow = nil
	return nil
}
