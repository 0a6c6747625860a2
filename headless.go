package primer

import "github.com/gogpu/gpucontext"

// HeadlessWindow is a Window with no platform surface behind it. It is
// used for offscreen rendering and tests: Present counts frames, and an
// optional frame budget turns into a close request once spent, so a
// render loop driven by a HeadlessWindow always terminates.
type HeadlessWindow struct {
	width  int
	height int

	// frameBudget is how many frames to present before requesting
	// close; zero means no budget (close only via RequestClose).
	frameBudget int
	frames      int

	closed  bool
	resize  ResizeFunc
	pressed map[gpucontext.Key]bool
}

var _ Window = (*HeadlessWindow)(nil)

// NewHeadlessWindow creates a headless window of the given size that
// requests close after frameBudget presented frames (0 = unlimited).
func NewHeadlessWindow(width, height, frameBudget int) *HeadlessWindow {
	return &HeadlessWindow{
		width:       width,
		height:      height,
		frameBudget: frameBudget,
		pressed:     make(map[gpucontext.Key]bool),
	}
}

// Size returns the framebuffer dimensions.
func (w *HeadlessWindow) Size() (int, int) { return w.width, w.height }

// ShouldClose reports a close request or an exhausted frame budget.
func (w *HeadlessWindow) ShouldClose() bool {
	if w.closed {
		return true
	}
	return w.frameBudget > 0 && w.frames >= w.frameBudget
}

// RequestClose marks the window as closing.
func (w *HeadlessWindow) RequestClose() { w.closed = true }

// Present counts the frame. There is no surface to swap.
func (w *HeadlessWindow) Present() { w.frames++ }

// FramesPresented returns how many frames have been presented.
func (w *HeadlessWindow) FramesPresented() int { return w.frames }

// PollEvents is a no-op; headless windows have no event source.
func (w *HeadlessWindow) PollEvents() {}

// OnResize registers the resize callback.
func (w *HeadlessWindow) OnResize(fn ResizeFunc) { w.resize = fn }

// Resize changes the framebuffer size and fires the resize callback.
// Tests use this to exercise viewport propagation.
func (w *HeadlessWindow) Resize(width, height int) {
	w.width = width
	w.height = height
	if w.resize != nil {
		w.resize(width, height)
	}
}

// IsKeyPressed reports keys injected via PressKey.
func (w *HeadlessWindow) IsKeyPressed(key gpucontext.Key) bool {
	return w.pressed[key]
}

// PressKey marks a key as held until ReleaseKey.
func (w *HeadlessWindow) PressKey(key gpucontext.Key) { w.pressed[key] = true }

// ReleaseKey clears a held key.
func (w *HeadlessWindow) ReleaseKey(key gpucontext.Key) { delete(w.pressed, key) }

// Destroy releases nothing; headless windows hold no resources.
func (w *HeadlessWindow) Destroy() {}
