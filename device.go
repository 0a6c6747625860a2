package primer

import (
	"sync"

	"golang.org/x/image/math/f32"
)

// Device name constants.
const (
	// DeviceSoftware is the name of the pure Go reference device.
	DeviceSoftware = "software"
	// DeviceGL is the name of the OpenGL device (backend/gl).
	DeviceGL = "gl"
	// DeviceWGPU is the name of the offscreen WebGPU device (backend/wgpu).
	DeviceWGPU = "wgpu"
)

// Device is a rendering backend: it builds shader programs, uploads
// geometry, and executes the per-frame clear/draw sequence.
//
// Devices are registered via Register and selected via Open or Default.
// All methods must be called from the thread that owns the device; no
// Device in this module is safe for concurrent use.
type Device interface {
	// Name returns the device identifier (e.g. "software", "gl").
	Name() string

	// ShaderLanguage returns the source language this device compiles.
	ShaderLanguage() ShaderLanguage

	// Init initializes the device. For windowed devices this prepares
	// the platform layer; the rendering context itself may not exist
	// until a window is created.
	Init() error

	// Close releases all device resources. The device must not be used
	// after Close.
	Close()

	// BuildProgram compiles both stages of src and links them into a
	// usable program. Any compile or link failure is reported as a
	// *ShaderError and no program handle is returned; stage handles are
	// released either way.
	BuildProgram(src ShaderSource) (Program, error)

	// CreateGeometry uploads the described vertex (and optional index)
	// region and captures the attribute layout. The layout association
	// is immutable for the life of the geometry.
	CreateGeometry(desc GeometryDescriptor) (Geometry, error)

	// Viewport resizes the rendering viewport to the given framebuffer
	// dimensions.
	Viewport(width, height int)

	// Clear fills the color buffer with the given color and opens a new
	// frame.
	Clear(c f32.Vec4)

	// Flush submits all rendering recorded since the last Clear. For
	// immediate-mode devices this is a no-op.
	Flush() error
}

// Program is a linked shader program. A Program handle only ever exists
// for programs whose stages compiled and linked successfully.
type Program interface {
	// Bind makes this program the active one for subsequent draws.
	Bind()

	// UniformLocation returns the input slot for a named uniform, using
	// the name-to-slot mapping captured at link time.
	UniformLocation(name string) (int, bool)

	// SetUniform4f writes a vec4 uniform by name. The program must be
	// bound.
	SetUniform4f(name string, v f32.Vec4) error

	// Destroy releases the program. Idempotent.
	Destroy()
}

// Geometry is an uploaded vertex/index aggregate.
type Geometry interface {
	// Bind makes this geometry's vertex and index storage, and its
	// attribute layout, the active rendering input. The index region
	// (if any) is bound together with the vertex region.
	Bind()

	// Draw issues a draw call using the bound program and this bound
	// geometry. With an index region present, count indices are drawn
	// through the index path; otherwise count vertices are drawn in
	// storage order.
	Draw(kind PrimitiveKind, count int) error

	// VertexCount returns the number of vertices in the vertex region.
	VertexCount() int

	// IndexCount returns the number of indices, or 0 without an index
	// region.
	IndexCount() int

	// Destroy releases the geometry's storage. Idempotent.
	Destroy()
}

// WindowProvider is an optional interface for devices that own a
// windowing layer (the GL device). The session uses it to create the
// window the device renders into.
type WindowProvider interface {
	CreateWindow(width, height int, title string) (Window, error)
}

// PixmapSource is an optional interface for devices that render into a
// CPU-visible pixel buffer (the software and wgpu devices). The samples
// use it to export offscreen frames as PNG.
type PixmapSource interface {
	Pixmap() *Pixmap
}

// DeviceFactory creates a new device instance.
type DeviceFactory func() Device

// registry holds registered devices.
var (
	registryMu sync.RWMutex
	devices    = make(map[string]DeviceFactory)
	// Priority order for default selection (first available wins).
	devicePriority = []string{DeviceGL, DeviceWGPU, DeviceSoftware}
)

// Register registers a device factory with the given name. This is
// typically called from init() functions in backend packages. A device
// registered under an existing name replaces the previous one.
func Register(name string, factory DeviceFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	devices[name] = factory
}

// Unregister removes a device from the registry. Useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(devices, name)
}

// Available returns the registered device names.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(devices))
	for name := range devices {
		names = append(names, name)
	}
	return names
}

// IsRegistered checks whether a device with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := devices[name]
	return ok
}

// Open returns a new device instance by name.
func Open(name string) (Device, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	factory, ok := devices[name]
	if !ok {
		return nil, ErrUnknownDevice
	}
	return factory(), nil
}

// Default returns the best registered device based on priority:
// gl > wgpu > software. Returns ErrNoDevice if nothing is registered.
func Default() (Device, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range devicePriority {
		if factory, ok := devices[name]; ok {
			if d := factory(); d != nil {
				return d, nil
			}
		}
	}

	// Fallback: first available.
	for _, factory := range devices {
		if d := factory(); d != nil {
			return d, nil
		}
	}

	return nil, ErrNoDevice
}
