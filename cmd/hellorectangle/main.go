// Command hellorectangle draws a rectangle from four unique vertices
// and six indices, demonstrating the indexed draw path: two triangles
// share an edge without duplicating vertex storage.
package main

import (
	"flag"
	"log"

	"github.com/gogpu/primer"
	_ "github.com/gogpu/primer/backend/gl"
	_ "github.com/gogpu/primer/backend/wgpu"
)

const vertexGLSL = `#version 330 core
layout (location = 0) in vec3 aPos;
void main()
{
    gl_Position = vec4(aPos.x, aPos.y, aPos.z, 1.0);
}
`

const fragmentGLSL = `#version 330 core
out vec4 FragColor;
void main()
{
    FragColor = vec4(1.0f, 0.5f, 0.2f, 1.0f);
}
`

const vertexWGSL = `@vertex
fn vs_main(@location(0) pos: vec3<f32>) -> @builtin(position) vec4<f32> {
    return vec4<f32>(pos, 1.0);
}
`

const fragmentWGSL = `@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.5, 0.2, 1.0);
}
`

func main() {
	var (
		backend = flag.String("backend", "", "rendering device (gl, wgpu, software; default: best available)")
		width   = flag.Int("width", 800, "window width")
		height  = flag.Int("height", 600, "window height")
		frames  = flag.Int("frames", 1, "frames to render on headless devices")
		output  = flag.String("output", "rectangle.png", "output file for headless devices")
	)
	flag.Parse()

	opts := []primer.SessionOption{primer.WithFrameBudget(*frames)}
	if *backend != "" {
		opts = append(opts, primer.WithDeviceName(*backend))
	}

	session, err := primer.NewRenderSession(primer.SessionConfig{
		Width:  *width,
		Height: *height,
		Title:  "Hello Rectangle",
	}, opts...)
	if err != nil {
		log.Fatalf("session: %v", err)
	}
	device := session.Device()

	program, err := session.BuildProgram(shaderSource(device.ShaderLanguage()))
	if err != nil {
		log.Fatalf("shaders: %v", err)
	}

	geometry, err := session.CreateGeometry(primer.GeometryDescriptor{
		Label: "rectangle",
		Vertices: []float32{
			0.5, 0.5, 0.0, // top right
			0.5, -0.5, 0.0, // bottom right
			-0.5, -0.5, 0.0, // bottom left
			-0.5, 0.5, 0.0, // top left
		},
		Indices: []uint32{
			0, 1, 3, // first triangle
			1, 2, 3, // second triangle
		},
		Layout: primer.PositionLayout(),
	})
	if err != nil {
		log.Fatalf("geometry: %v", err)
	}

	err = session.Run(func(_ float64) error {
		program.Bind()
		geometry.Bind()
		return geometry.Draw(primer.TriangleList, 6)
	})
	if err != nil {
		log.Fatalf("render: %v", err)
	}

	if src, ok := device.(primer.PixmapSource); ok && src.Pixmap() != nil {
		if err := src.Pixmap().SavePNG(*output); err != nil {
			log.Fatalf("save: %v", err)
		}
		log.Printf("saved %s", *output)
	}
}

func shaderSource(lang primer.ShaderLanguage) primer.ShaderSource {
	if lang == primer.LangWGSL {
		return primer.ShaderSource{Vertex: vertexWGSL, Fragment: fragmentWGSL}
	}
	return primer.ShaderSource{Vertex: vertexGLSL, Fragment: fragmentGLSL}
}
