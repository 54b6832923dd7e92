package window

// WindowBuilderOption configures the window and context requested by NewWindow.
type WindowBuilderOption func(w *engineWindow)

// WithTitle names the window. The title only shows when the window is visible, but some window
// managers and GPU debuggers list hidden windows by title too.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSize sets the requested default framebuffer size. A hidden context window only needs the
// minimum; values below 1 are raised to 1.
//
// Parameters:
//   - width: width in pixels
//   - height: height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width = max(width, 1)
		w.height = max(height, 1)
	}
}

// WithVisible shows the window. Windows are hidden by default since they only carry the context.
//
// Parameters:
//   - visible: true to show the window
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithVisible(visible bool) WindowBuilderOption {
	return func(w *engineWindow) {
		w.visible = visible
	}
}

// WithGLVersion sets the requested core profile context version. Vertex array objects need 3.0
// or later; the default is 3.3.
//
// Parameters:
//   - major: the major version
//   - minor: the minor version
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithGLVersion(major, minor int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.glMajor = major
		w.glMinor = minor
	}
}
