package primer

import (
	"fmt"
	"time"

	"github.com/gogpu/gpucontext"
	"golang.org/x/image/math/f32"
)

// SessionState is the lifecycle state of a RenderSession.
type SessionState int

const (
	// StateUninitialized is the zero state before NewRenderSession
	// completes.
	StateUninitialized SessionState = iota

	// StateReady means device and window are up and resources may be
	// built.
	StateReady

	// StateRunning means the per-frame loop is executing.
	StateRunning

	// StateTerminated means teardown has run; the session is dead.
	StateTerminated
)

// String returns the state name.
func (s SessionState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// SessionConfig holds the initial window and clear parameters.
type SessionConfig struct {
	// Width and Height are the initial framebuffer dimensions.
	// Zero values default to 800x600.
	Width  int
	Height int

	// Title is the window title.
	Title string

	// Background is the per-frame clear color. The zero value defaults
	// to the tutorial teal (0.2, 0.3, 0.3, 1.0).
	Background f32.Vec4
}

// DefaultBackground is the clear color the samples share.
var DefaultBackground = f32.Vec4{0.2, 0.3, 0.3, 1.0}

func (c *SessionConfig) applyDefaults() {
	if c.Width <= 0 {
		c.Width = 800
	}
	if c.Height <= 0 {
		c.Height = 600
	}
	if c.Title == "" {
		c.Title = "primer"
	}
	if c.Background == (f32.Vec4{}) {
		c.Background = DefaultBackground
	}
}

// FrameFunc is the per-frame callback. It receives the elapsed time in
// seconds since Run started and issues the frame's bind/uniform/draw
// calls; returning an error stops the loop and tears the session down.
type FrameFunc func(t float64) error

// RenderSession owns one device and one window and drives the render
// loop: Uninitialized -> Ready -> Running -> Terminated. Any resource
// built through the session is destroyed at teardown, which runs
// exactly once no matter how the session ends.
//
// A session is single-threaded: all methods must be called from the
// goroutine that created it.
type RenderSession struct {
	state  SessionState
	cfg    SessionConfig
	device Device
	window Window

	programs   []Program
	geometries []Geometry
}

// NewRenderSession brings up a device and a window and returns a session
// in the Ready state. Device selection order: WithDevice instance,
// WithDeviceName lookup, registry default. Window selection: WithWindow,
// then the device's own windowing layer if it has one, then a
// HeadlessWindow with the configured frame budget.
//
// Any failure during bring-up tears down whatever was created and
// returns the error; no partially initialized session escapes.
func NewRenderSession(cfg SessionConfig, opts ...SessionOption) (*RenderSession, error) {
	cfg.applyDefaults()

	o := sessionOptions{frameBudget: 1}
	for _, opt := range opts {
		opt(&o)
	}

	dev := o.device
	var err error
	if dev == nil {
		if o.deviceName != "" {
			dev, err = Open(o.deviceName)
		} else {
			dev, err = Default()
		}
		if err != nil {
			return nil, err
		}
	}
	if err := dev.Init(); err != nil {
		dev.Close()
		return nil, fmt.Errorf("primer: device init: %w", err)
	}

	win := o.window
	if win == nil {
		if wp, ok := dev.(WindowProvider); ok {
			win, err = wp.CreateWindow(cfg.Width, cfg.Height, cfg.Title)
			if err != nil {
				dev.Close()
				return nil, fmt.Errorf("%w: %v", ErrWindowCreation, err)
			}
		} else {
			win = NewHeadlessWindow(cfg.Width, cfg.Height, o.frameBudget)
		}
	}

	s := &RenderSession{
		state:  StateReady,
		cfg:    cfg,
		device: dev,
		window: win,
	}

	// Keep the viewport in sync with the framebuffer.
	win.OnResize(dev.Viewport)
	w, h := win.Size()
	dev.Viewport(w, h)

	Logger().Info("session ready",
		"device", dev.Name(),
		"width", w,
		"height", h)
	return s, nil
}

// State returns the current lifecycle state.
func (s *RenderSession) State() SessionState { return s.state }

// Device returns the session's device.
func (s *RenderSession) Device() Device { return s.device }

// Window returns the session's window.
func (s *RenderSession) Window() Window { return s.window }

// BuildProgram compiles and links a shader pair through the device. The
// program is owned by the session and destroyed at teardown. A build
// failure is fatal: the session tears down and moves to Terminated, and
// the *ShaderError is returned.
func (s *RenderSession) BuildProgram(src ShaderSource) (Program, error) {
	if s.state != StateReady && s.state != StateRunning {
		return nil, fmt.Errorf("%w: BuildProgram in state %s", ErrSessionState, s.state)
	}
	p, err := s.device.BuildProgram(src)
	if err != nil {
		Logger().Error("shader build failed", "error", err)
		s.teardown()
		return nil, err
	}
	s.programs = append(s.programs, p)
	return p, nil
}

// CreateGeometry uploads geometry through the device. The geometry is
// owned by the session and destroyed at teardown. A creation failure is
// fatal, like a build failure.
func (s *RenderSession) CreateGeometry(desc GeometryDescriptor) (Geometry, error) {
	if s.state != StateReady && s.state != StateRunning {
		return nil, fmt.Errorf("%w: CreateGeometry in state %s", ErrSessionState, s.state)
	}
	g, err := s.device.CreateGeometry(desc)
	if err != nil {
		Logger().Error("geometry creation failed", "error", err)
		s.teardown()
		return nil, err
	}
	s.geometries = append(s.geometries, g)
	return g, nil
}

// Run enters the render loop and blocks until the window requests close,
// the frame callback fails, or the escape key is pressed. Each frame
// runs the fixed sequence: close poll, clear, frame callback (binds,
// uniform updates, draws), flush, present, event poll. Teardown always
// runs before Run returns.
func (s *RenderSession) Run(frame FrameFunc) error {
	if s.state != StateReady {
		return fmt.Errorf("%w: Run in state %s", ErrSessionState, s.state)
	}
	s.state = StateRunning
	defer s.teardown()

	start := time.Now()
	for !s.window.ShouldClose() {
		if s.window.IsKeyPressed(gpucontext.KeyEscape) {
			s.window.RequestClose()
			continue
		}

		s.device.Clear(s.cfg.Background)

		if frame != nil {
			if err := frame(time.Since(start).Seconds()); err != nil {
				return err
			}
		}

		if err := s.device.Flush(); err != nil {
			return fmt.Errorf("primer: frame submit: %w", err)
		}

		s.window.Present()
		s.window.PollEvents()
	}
	return nil
}

// Close tears the session down if Run has not already done so.
// Idempotent.
func (s *RenderSession) Close() {
	s.teardown()
}

// teardown releases every owned resource exactly once: geometries,
// programs, then device and window.
func (s *RenderSession) teardown() {
	if s.state == StateTerminated {
		return
	}
	s.state = StateTerminated

	for _, g := range s.geometries {
		g.Destroy()
	}
	s.geometries = nil
	for _, p := range s.programs {
		p.Destroy()
	}
	s.programs = nil

	s.device.Close()
	s.window.Destroy()
	Logger().Info("session terminated")
}
