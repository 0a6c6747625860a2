package gl

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/gogpu/primer"
)

// CreateGeometry uploads vertex and index data into a VAO/VBO (and EBO
// when indices are present) aggregate. The element buffer binding is
// captured inside the VAO at creation, so binding the geometry binds
// both regions; the attribute layout is likewise baked in here and
// never re-described.
func (d *Device) CreateGeometry(desc primer.GeometryDescriptor) (primer.Geometry, error) {
	if err := d.requireContext(); err != nil {
		return nil, err
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	g := &Geometry{
		vertexCount: desc.VertexCount(),
		indexCount:  len(desc.Indices),
	}

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(desc.Vertices)*4, gl.Ptr(desc.Vertices), glUsage(desc.Usage))

	if desc.HasIndices() {
		gl.GenBuffers(1, &g.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(desc.Indices)*4, gl.Ptr(desc.Indices), glUsage(desc.Usage))
	}

	for _, l := range desc.Layout {
		gl.VertexAttribPointerWithOffset(uint32(l.Location), int32(l.Components),
			glComponentType(l.Type), l.Normalized, int32(l.Stride), uintptr(l.Offset))
		gl.EnableVertexAttribArray(uint32(l.Location))
	}

	gl.BindVertexArray(0)
	return g, nil
}

// glUsage maps the placement hint to a GL usage enum.
func glUsage(u primer.Usage) uint32 {
	switch u {
	case primer.UsageWriteOnceReadFew:
		return gl.STREAM_DRAW
	case primer.UsageWriteManyReadMany:
		return gl.DYNAMIC_DRAW
	default:
		return gl.STATIC_DRAW
	}
}

// glComponentType maps a component type to a GL type enum.
func glComponentType(t primer.ComponentType) uint32 {
	switch t {
	case primer.Uint32:
		return gl.UNSIGNED_INT
	default:
		return gl.FLOAT
	}
}

// glPrimitive maps a primitive kind to a GL draw mode.
func glPrimitive(k primer.PrimitiveKind) uint32 {
	switch k {
	case primer.TriangleStrip:
		return gl.TRIANGLE_STRIP
	case primer.LineList:
		return gl.LINES
	case primer.PointList:
		return gl.POINTS
	default:
		return gl.TRIANGLES
	}
}

// Geometry is a GL vertex/index aggregate: one VAO owning a VBO and,
// when indexed, an EBO.
type Geometry struct {
	vao         uint32
	vbo         uint32
	ebo         uint32
	vertexCount int
	indexCount  int
	destroyed   bool
}

// Bind makes the VAO (and with it the captured EBO and attribute
// layout) the active rendering input.
func (g *Geometry) Bind() {
	if g.destroyed {
		return
	}
	gl.BindVertexArray(g.vao)
}

// VertexCount returns the number of uploaded vertices.
func (g *Geometry) VertexCount() int { return g.vertexCount }

// IndexCount returns the number of uploaded indices, 0 if none.
func (g *Geometry) IndexCount() int { return g.indexCount }

// Draw issues the draw call: the index path when an index region
// exists, the vertex path otherwise.
func (g *Geometry) Draw(kind primer.PrimitiveKind, count int) error {
	if g.destroyed {
		return primer.ErrGeometryDestroyed
	}

	var current int32
	gl.GetIntegerv(gl.CURRENT_PROGRAM, &current)
	if current == 0 {
		return primer.ErrNoProgramBound
	}

	var bound int32
	gl.GetIntegerv(gl.VERTEX_ARRAY_BINDING, &bound)
	if uint32(bound) != g.vao {
		return primer.ErrGeometryNotBound
	}

	if g.indexCount > 0 {
		if count < 0 || count > g.indexCount {
			return fmt.Errorf("%w: %d of %d indices", primer.ErrDrawCountExceeded, count, g.indexCount)
		}
		gl.DrawElementsWithOffset(glPrimitive(kind), int32(count), gl.UNSIGNED_INT, 0)
		return nil
	}

	if count < 0 || count > g.vertexCount {
		return fmt.Errorf("%w: %d of %d vertices", primer.ErrDrawCountExceeded, count, g.vertexCount)
	}
	gl.DrawArrays(glPrimitive(kind), 0, int32(count))
	return nil
}

// Destroy deletes the VAO and its buffers. Idempotent.
func (g *Geometry) Destroy() {
	if g.destroyed {
		return
	}
	gl.DeleteVertexArrays(1, &g.vao)
	gl.DeleteBuffers(1, &g.vbo)
	if g.ebo != 0 {
		gl.DeleteBuffers(1, &g.ebo)
	}
	g.destroyed = true
}
