package primer

import "github.com/gogpu/gpucontext"

// ResizeFunc receives new framebuffer dimensions after a window resize.
type ResizeFunc func(width, height int)

// Window is the windowing and input collaborator a session renders into.
// The GL device provides a GLFW-backed implementation; tests and
// offscreen rendering use HeadlessWindow.
//
// All methods must be called from the session thread.
type Window interface {
	// Size returns the current framebuffer dimensions in pixels.
	Size() (width, height int)

	// ShouldClose reports whether a close has been requested, either by
	// the platform (window close button) or via RequestClose.
	ShouldClose() bool

	// RequestClose asks the window to close. The render loop observes
	// this through ShouldClose at the top of the next iteration.
	RequestClose()

	// Present makes the frame rendered since the last Present visible
	// (buffer swap). May block on display synchronization.
	Present()

	// PollEvents processes pending window and input events, invoking
	// callbacks such as the resize callback.
	PollEvents()

	// OnResize registers the callback invoked with new framebuffer
	// dimensions. Only one callback is kept; the session registers
	// exactly one, which forwards to Device.Viewport.
	OnResize(fn ResizeFunc)

	// IsKeyPressed reports whether the given key is currently held.
	IsKeyPressed(key gpucontext.Key) bool

	// Destroy releases the window. Idempotent.
	Destroy()
}
