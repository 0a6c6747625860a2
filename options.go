package primer

// sessionOptions collects optional session settings.
type sessionOptions struct {
	device      Device
	deviceName  string
	window      Window
	frameBudget int
}

// SessionOption configures a RenderSession at creation.
type SessionOption func(*sessionOptions)

// WithDevice uses the given device instance instead of registry lookup.
// The session still owns the device and closes it at teardown.
func WithDevice(d Device) SessionOption {
	return func(o *sessionOptions) {
		o.device = d
	}
}

// WithDeviceName opens the named registered device ("software", "gl",
// "wgpu") instead of the priority default.
func WithDeviceName(name string) SessionOption {
	return func(o *sessionOptions) {
		o.deviceName = name
	}
}

// WithWindow uses the given window instead of asking the device for one.
// The session still owns the window and destroys it at teardown.
func WithWindow(w Window) SessionOption {
	return func(o *sessionOptions) {
		o.window = w
	}
}

// WithFrameBudget bounds the number of frames a headless session runs
// before closing. It only applies when the session creates its own
// HeadlessWindow; the default budget is one frame.
func WithFrameBudget(frames int) SessionOption {
	return func(o *sessionOptions) {
		o.frameBudget = frames
	}
}
