// Package gl implements the OpenGL 3.3 core rendering device and its
// GLFW window collaborator. This is the backend that matches the
// classic tutorial call sequence: compile/link with info-log queries,
// VAO/VBO/EBO setup, glDrawArrays / glDrawElements, and glUniform4f.
//
// The device must be used from the main OS thread; Init locks the
// calling goroutine to it.
package gl

import (
	"fmt"
	"log"
	"runtime"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/primer"
)

func init() {
	primer.Register(primer.DeviceGL, func() primer.Device {
		return New()
	})
}

// Device is the OpenGL rendering device. The GL context comes into
// existence with the window, so BuildProgram and CreateGeometry are
// only usable after CreateWindow has succeeded.
type Device struct {
	initialized bool
	contextUp   bool
}

var (
	_ primer.Device         = (*Device)(nil)
	_ primer.WindowProvider = (*Device)(nil)
)

// New creates an uninitialized GL device.
func New() *Device {
	return &Device{}
}

// Name returns "gl".
func (d *Device) Name() string { return primer.DeviceGL }

// ShaderLanguage returns LangGLSL.
func (d *Device) ShaderLanguage() primer.ShaderLanguage { return primer.LangGLSL }

// Init locks the OS thread and initializes GLFW.
func (d *Device) Init() error {
	if d.initialized {
		return nil
	}
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("gl: glfw init: %w", err)
	}
	d.initialized = true
	return nil
}

// Close terminates GLFW. All windows die with it.
func (d *Device) Close() {
	if !d.initialized {
		return
	}
	glfw.Terminate()
	d.initialized = false
	d.contextUp = false
}

// CreateWindow opens a GLFW window with a 3.3 core profile context,
// makes the context current, and loads the GL function pointers.
func (d *Device) CreateWindow(width, height int, title string) (primer.Window, error) {
	if !d.initialized {
		return nil, primer.ErrDeviceClosed
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	if runtime.GOOS == "darwin" {
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	}

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", primer.ErrWindowCreation, err)
	}
	win.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		win.Destroy()
		return nil, fmt.Errorf("gl: loading function pointers: %w", err)
	}
	d.contextUp = true
	log.Printf("gl: context up, version %s", gl.GoStr(gl.GetString(gl.VERSION)))

	return newWindow(win), nil
}

// Viewport sets the GL viewport.
func (d *Device) Viewport(width, height int) {
	if !d.contextUp {
		return
	}
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Clear clears the color buffer.
func (d *Device) Clear(c f32.Vec4) {
	if !d.contextUp {
		return
	}
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// Flush is a no-op; GL draws are issued immediately and the swap in
// Window.Present synchronizes.
func (d *Device) Flush() error { return nil }

// requireContext guards operations that need a current GL context.
func (d *Device) requireContext() error {
	if !d.contextUp {
		return fmt.Errorf("%w: no current GL context", primer.ErrDeviceClosed)
	}
	return nil
}
