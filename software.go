package primer

import (
	"fmt"

	"golang.org/x/image/math/f32"
)

func init() {
	Register(DeviceSoftware, func() Device {
		return NewSoftwareDevice()
	})
}

// DrawCall records one executed draw on the software device: the
// primitive kind, whether the index path was taken, and every emitted
// vertex position after index resolution, in emission order.
type DrawCall struct {
	Kind     PrimitiveKind
	Indexed  bool
	Vertices [][3]float32
}

// SoftwareDevice is the pure Go reference device. It compiles the GLSL
// subset the tutorial shaders use, resolves draws on the CPU, records
// them as DrawCalls, and rasterizes flat triangles into a Pixmap. It
// needs no GPU, no window system, and no cgo, which makes it the device
// every test runs against.
type SoftwareDevice struct {
	width  int
	height int
	pixmap *Pixmap

	boundProgram  *softwareProgram
	boundGeometry *softwareGeometry

	calls  []DrawCall
	closed bool
}

var (
	_ Device       = (*SoftwareDevice)(nil)
	_ PixmapSource = (*SoftwareDevice)(nil)
)

// NewSoftwareDevice creates a software device with the default 800x600
// framebuffer. Init must be called before use.
func NewSoftwareDevice() *SoftwareDevice {
	return &SoftwareDevice{width: 800, height: 600}
}

// Name returns "software".
func (d *SoftwareDevice) Name() string { return DeviceSoftware }

// ShaderLanguage returns LangGLSL.
func (d *SoftwareDevice) ShaderLanguage() ShaderLanguage { return LangGLSL }

// Init allocates the framebuffer.
func (d *SoftwareDevice) Init() error {
	if d.pixmap == nil {
		d.pixmap = NewPixmap(d.width, d.height)
	}
	d.closed = false
	return nil
}

// Close marks the device closed. The pixmap stays readable so callers
// can still export the last frame.
func (d *SoftwareDevice) Close() {
	d.closed = true
	d.boundProgram = nil
	d.boundGeometry = nil
}

// Pixmap returns the framebuffer the device rasterizes into.
func (d *SoftwareDevice) Pixmap() *Pixmap { return d.pixmap }

// Calls returns the draws recorded since the last Clear.
func (d *SoftwareDevice) Calls() []DrawCall { return d.calls }

// Viewport resizes the framebuffer. Contents are discarded.
func (d *SoftwareDevice) Viewport(width, height int) {
	if width == d.width && height == d.height && d.pixmap != nil {
		return
	}
	d.width = width
	d.height = height
	d.pixmap = NewPixmap(width, height)
}

// Clear fills the framebuffer and starts a new frame.
func (d *SoftwareDevice) Clear(c f32.Vec4) {
	if d.pixmap != nil {
		d.pixmap.Clear(c)
	}
	d.calls = d.calls[:0]
}

// Flush is a no-op: the software device rasterizes at draw time.
func (d *SoftwareDevice) Flush() error { return nil }

// BuildProgram front-ends both GLSL stages and links them. The first
// stage failure wins and linking is never attempted after one; link
// failures carry StageProgram. There are no driver-side stage handles
// to release here.
func (d *SoftwareDevice) BuildProgram(src ShaderSource) (Program, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	vert, serr := parseGLSL(StageVertex, src.Vertex)
	if serr != nil {
		return nil, serr
	}
	frag, serr := parseGLSL(StageFragment, src.Fragment)
	if serr != nil {
		return nil, serr
	}
	uniforms, serr := linkGLSL(vert, frag)
	if serr != nil {
		return nil, serr
	}
	return &softwareProgram{
		device:   d,
		uniforms: uniforms,
		values:   make(map[string]f32.Vec4),
		fragExpr: frag.fragExpr,
	}, nil
}

// CreateGeometry validates the descriptor and copies the vertex and
// index regions into device-owned storage sized exactly to the data.
func (d *SoftwareDevice) CreateGeometry(desc GeometryDescriptor) (Geometry, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	g := &softwareGeometry{
		device:   d,
		vertices: append([]float32(nil), desc.Vertices...),
		layout:   append([]VertexLayout(nil), desc.Layout...),
	}
	if desc.HasIndices() {
		g.indices = append([]uint32(nil), desc.Indices...)
	}
	return g, nil
}

// softwareProgram is a linked program on the software device. Its
// uniform store is the name-to-slot map captured at link time plus the
// current vec4 value per name.
type softwareProgram struct {
	device    *SoftwareDevice
	uniforms  map[string]int
	values    map[string]f32.Vec4
	fragExpr  string
	destroyed bool
}

func (p *softwareProgram) Bind() {
	if p.destroyed {
		return
	}
	p.device.boundProgram = p
}

func (p *softwareProgram) UniformLocation(name string) (int, bool) {
	loc, ok := p.uniforms[name]
	return loc, ok
}

func (p *softwareProgram) SetUniform4f(name string, v f32.Vec4) error {
	if p.destroyed {
		return ErrProgramDestroyed
	}
	if _, ok := p.uniforms[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUniformNotFound, name)
	}
	p.values[name] = v
	return nil
}

func (p *softwareProgram) Destroy() {
	p.destroyed = true
	if p.device.boundProgram == p {
		p.device.boundProgram = nil
	}
}

// softwareGeometry is an uploaded vertex/index aggregate on the
// software device.
type softwareGeometry struct {
	device    *SoftwareDevice
	vertices  []float32
	indices   []uint32
	layout    []VertexLayout
	destroyed bool
}

func (g *softwareGeometry) Bind() {
	if g.destroyed {
		return
	}
	g.device.boundGeometry = g
}

func (g *softwareGeometry) VertexCount() int {
	if len(g.layout) == 0 || g.layout[0].Stride == 0 {
		return 0
	}
	return len(g.vertices) * 4 / g.layout[0].Stride
}

func (g *softwareGeometry) IndexCount() int { return len(g.indices) }

// Draw resolves count vertices (through the index region when one
// exists), records the call, and rasterizes with the bound program's
// fragment color.
func (g *softwareGeometry) Draw(kind PrimitiveKind, count int) error {
	if g.destroyed {
		return ErrGeometryDestroyed
	}
	p := g.device.boundProgram
	if p == nil || p.destroyed {
		return ErrNoProgramBound
	}
	if g.device.boundGeometry != g {
		return ErrGeometryNotBound
	}

	indexed := len(g.indices) > 0
	limit := g.VertexCount()
	if indexed {
		limit = len(g.indices)
	}
	if count < 0 || count > limit {
		return fmt.Errorf("%w: %d of %d", ErrDrawCountExceeded, count, limit)
	}

	verts := make([][3]float32, count)
	for i := 0; i < count; i++ {
		v := i
		if indexed {
			v = int(g.indices[i])
		}
		verts[i] = g.positionAt(v)
	}
	g.device.calls = append(g.device.calls, DrawCall{
		Kind:     kind,
		Indexed:  indexed,
		Vertices: verts,
	})

	color, err := evalVec4(p.fragExpr, p.values)
	if err != nil {
		return err
	}
	g.rasterize(kind, verts, color)
	return nil
}

// positionAt reads the location-0 attribute of vertex v. Missing
// components stay zero.
func (g *softwareGeometry) positionAt(v int) [3]float32 {
	var pos [3]float32
	for _, l := range g.layout {
		if l.Location != 0 {
			continue
		}
		base := v*l.Stride/4 + l.Offset/4
		n := l.Components
		if n > 3 {
			n = 3
		}
		for c := 0; c < n; c++ {
			pos[c] = g.vertices[base+c]
		}
		break
	}
	return pos
}

func (g *softwareGeometry) rasterize(kind PrimitiveKind, verts [][3]float32, c f32.Vec4) {
	pm := g.device.pixmap
	if pm == nil {
		return
	}
	switch kind {
	case TriangleList:
		for i := 0; i+2 < len(verts); i += 3 {
			fillTriangle(pm, verts[i], verts[i+1], verts[i+2], c)
		}
	case TriangleStrip:
		for i := 0; i+2 < len(verts); i++ {
			fillTriangle(pm, verts[i], verts[i+1], verts[i+2], c)
		}
	case LineList:
		for i := 0; i+1 < len(verts); i += 2 {
			drawLine(pm, verts[i], verts[i+1], c)
		}
	case PointList:
		for _, v := range verts {
			drawPoint(pm, v, c)
		}
	}
}

func (g *softwareGeometry) Destroy() {
	g.destroyed = true
	if g.device.boundGeometry == g {
		g.device.boundGeometry = nil
	}
}
