package primer

import "errors"

// Package-level sentinel errors.
var (
	// ErrNoDevice is returned when no rendering device is registered.
	ErrNoDevice = errors.New("primer: no rendering device available")

	// ErrUnknownDevice is returned when opening a device by an unregistered name.
	ErrUnknownDevice = errors.New("primer: unknown device")

	// ErrDeviceClosed is returned when operating on a closed device.
	ErrDeviceClosed = errors.New("primer: device is closed")

	// ErrWindowCreation is returned when the windowing collaborator fails
	// to provide a window. This failure is fatal to session startup.
	ErrWindowCreation = errors.New("primer: window creation failed")

	// ErrEmptyShaderSource is returned when a shader stage source is empty.
	ErrEmptyShaderSource = errors.New("primer: shader source is empty")

	// ErrEmptyVertexData is returned when geometry is created without vertices.
	ErrEmptyVertexData = errors.New("primer: vertex data is empty")

	// ErrNoVertexLayout is returned when geometry is created without any
	// attribute layout descriptor.
	ErrNoVertexLayout = errors.New("primer: geometry has no vertex layout")

	// ErrInvalidLayout is returned when a layout descriptor is inconsistent
	// with the vertex data (zero stride, offset past stride, short data).
	ErrInvalidLayout = errors.New("primer: invalid vertex layout")

	// ErrIndexOutOfRange is returned when an index references a vertex
	// beyond the vertex region.
	ErrIndexOutOfRange = errors.New("primer: index references vertex out of range")

	// ErrDrawCountExceeded is returned when a draw call asks for more
	// vertices or indices than the bound geometry holds.
	ErrDrawCountExceeded = errors.New("primer: draw count exceeds geometry size")

	// ErrNoProgramBound is returned when a draw call is issued without a
	// usable program bound. Drawing with an unlinked program is undefined
	// on real hardware; the devices reject it instead.
	ErrNoProgramBound = errors.New("primer: draw issued with no program bound")

	// ErrGeometryNotBound is returned when Draw is called on a geometry
	// that is not the currently bound one.
	ErrGeometryNotBound = errors.New("primer: geometry is not bound")

	// ErrUniformNotFound is returned when setting a uniform whose name the
	// linked program does not declare.
	ErrUniformNotFound = errors.New("primer: uniform not found")

	// ErrProgramDestroyed is returned when using a destroyed program.
	ErrProgramDestroyed = errors.New("primer: program has been destroyed")

	// ErrGeometryDestroyed is returned when using a destroyed geometry.
	ErrGeometryDestroyed = errors.New("primer: geometry has been destroyed")

	// ErrSessionState is returned when a session operation is invoked in
	// the wrong lifecycle state (e.g. Run after Terminated).
	ErrSessionState = errors.New("primer: invalid session state")
)
