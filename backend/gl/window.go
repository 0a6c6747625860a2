package gl

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/primer"
)

// Window wraps a GLFW window as the session's windowing collaborator.
type Window struct {
	win       *glfw.Window
	resize    primer.ResizeFunc
	destroyed bool
}

var _ primer.Window = (*Window)(nil)

func newWindow(win *glfw.Window) *Window {
	return &Window{win: win}
}

// Size returns the framebuffer dimensions in pixels, which on HiDPI
// displays differ from the window size.
func (w *Window) Size() (int, int) {
	return w.win.GetFramebufferSize()
}

// ShouldClose reports the platform or programmatic close request.
func (w *Window) ShouldClose() bool {
	return w.win.ShouldClose()
}

// RequestClose flags the window for closing.
func (w *Window) RequestClose() {
	w.win.SetShouldClose(true)
}

// Present swaps the front and back buffers.
func (w *Window) Present() {
	w.win.SwapBuffers()
}

// PollEvents pumps the GLFW event queue.
func (w *Window) PollEvents() {
	glfw.PollEvents()
}

// OnResize registers the framebuffer-size callback.
func (w *Window) OnResize(fn primer.ResizeFunc) {
	w.resize = fn
	w.win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		if w.resize != nil {
			w.resize(width, height)
		}
	})
}

// IsKeyPressed reports whether the mapped GLFW key is held.
func (w *Window) IsKeyPressed(key gpucontext.Key) bool {
	gk, ok := glfwKey(key)
	if !ok {
		return false
	}
	return w.win.GetKey(gk) == glfw.Press
}

// glfwKey maps the portable key codes the samples use onto GLFW's.
func glfwKey(key gpucontext.Key) (glfw.Key, bool) {
	switch key {
	case gpucontext.KeyEscape:
		return glfw.KeyEscape, true
	case gpucontext.KeySpace:
		return glfw.KeySpace, true
	default:
		return 0, false
	}
}

// Destroy destroys the GLFW window. Idempotent.
func (w *Window) Destroy() {
	if w.destroyed {
		return
	}
	w.win.Destroy()
	w.destroyed = true
}
