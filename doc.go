// Package primer provides small building blocks for learning real-time
// rendering in Go: shader program construction, geometry upload, and a
// fixed-sequence render loop.
//
// # Overview
//
// primer is a teaching companion for the GoGPU ecosystem. It wraps the
// handful of concepts every first rendering program needs — compiling a
// vertex/fragment shader pair, uploading vertex (and optionally index)
// data, and drawing once per frame — behind a device interface with
// multiple backends:
//
//   - software: a pure Go reference device that validates shaders,
//     resolves indexed draws, and rasterizes into a Pixmap. Used by the
//     tests and for offscreen runs of the samples.
//   - gl: OpenGL 3.3 core + GLFW, the classic windowed path
//     (see backend/gl).
//   - wgpu: offscreen WebGPU rendering via gogpu/wgpu
//     (see backend/wgpu).
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/primer"
//	    _ "github.com/gogpu/primer/backend/gl" // register the GL device
//	)
//
//	s, err := primer.NewRenderSession(primer.SessionConfig{Title: "Hello Triangle"})
//	prog, err := s.BuildProgram(triangleShader)
//	geo, err := s.CreateGeometry(primer.GeometryDescriptor{
//	    Vertices: verts,
//	    Layout:   primer.PositionLayout(),
//	})
//	err = s.Run(func(t float64) error {
//	    prog.Bind()
//	    geo.Bind()
//	    return geo.Draw(primer.TriangleList, 3)
//	})
//
// # Samples
//
// The cmd directory holds one program per tutorial step: hellowindow,
// hellotriangle, hellorectangle, and shaderpulse. Each runs windowed
// with -backend=gl or offscreen (writing a PNG) with -backend=software.
//
// # Coordinate System
//
// Vertex positions use normalized device coordinates: x and y in
// [-1, 1], origin at the center of the viewport, y increasing upward.
package primer

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
