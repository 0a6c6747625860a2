package wgpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/primer"
)

// CreateGeometry uploads the vertex (and optional index) region into
// hal buffers sized exactly to the data. The attribute layout is
// captured here and turned into the pipeline's vertex state on first
// draw.
func (d *Device) CreateGeometry(desc primer.GeometryDescriptor) (primer.Geometry, error) {
	if d.closed || d.device == nil {
		return nil, primer.ErrDeviceClosed
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	vertBuf, err := d.createAndUpload("primer_verts", floatBytes(desc.Vertices),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}

	g := &Geometry{
		device:      d,
		vertBuf:     vertBuf,
		layout:      append([]primer.VertexLayout(nil), desc.Layout...),
		vertexCount: desc.VertexCount(),
	}

	if desc.HasIndices() {
		idxBuf, err := d.createAndUpload("primer_indices", indexBytes(desc.Indices),
			gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
		if err != nil {
			d.device.DestroyBuffer(vertBuf)
			return nil, err
		}
		g.idxBuf = idxBuf
		g.indexCount = len(desc.Indices)
	}
	return g, nil
}

// createAndUpload creates a hal buffer and writes data through the
// queue.
func (d *Device) createAndUpload(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create %s: %w", label, err)
	}
	d.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// floatBytes serializes float32 data little-endian, the byte order
// SPIR-V and the hal expect.
func floatBytes(data []float32) []byte {
	out := make([]byte, len(data)*4)
	for i, v := range data {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

// indexBytes serializes uint32 indices little-endian.
func indexBytes(data []uint32) []byte {
	out := make([]byte, len(data)*4)
	for i, v := range data {
		binary.LittleEndian.PutUint32(out[i*4:], v)
	}
	return out
}

// Geometry is an uploaded vertex/index aggregate on the wgpu device.
type Geometry struct {
	device      *Device
	vertBuf     hal.Buffer
	idxBuf      hal.Buffer
	layout      []primer.VertexLayout
	vertexCount int
	indexCount  int
	destroyed   bool
}

var _ primer.Geometry = (*Geometry)(nil)

// Bind makes this geometry the active rendering input.
func (g *Geometry) Bind() {
	if g.destroyed {
		return
	}
	g.device.boundGeometry = g
}

// VertexCount returns the number of uploaded vertices.
func (g *Geometry) VertexCount() int { return g.vertexCount }

// IndexCount returns the number of uploaded indices, 0 if none.
func (g *Geometry) IndexCount() int { return g.indexCount }

// Draw records one draw for the frame's render pass: the index path
// when an index region exists, the vertex path otherwise. The actual
// encoding happens in Flush.
func (g *Geometry) Draw(kind primer.PrimitiveKind, count int) error {
	if g.destroyed {
		return primer.ErrGeometryDestroyed
	}
	d := g.device
	p := d.boundProgram
	if p == nil || p.destroyed {
		return primer.ErrNoProgramBound
	}
	if d.boundGeometry != g {
		return primer.ErrGeometryNotBound
	}

	limit := g.vertexCount
	if g.indexCount > 0 {
		limit = g.indexCount
	}
	if count < 0 || count > limit {
		return fmt.Errorf("%w: %d of %d", primer.ErrDrawCountExceeded, count, limit)
	}

	d.draws = append(d.draws, drawCmd{program: p, geom: g, kind: kind, count: count})
	return nil
}

// layoutKey is a stable identity for the vertex layout, used to cache
// pipelines per (program, layout, topology).
func (g *Geometry) layoutKey() string {
	return fmt.Sprintf("%v", g.layout)
}

// vertexBufferLayouts translates the captured layout into the hal
// pipeline vertex state.
func (g *Geometry) vertexBufferLayouts() []gputypes.VertexBufferLayout {
	if len(g.layout) == 0 {
		return nil
	}
	attrs := make([]gputypes.VertexAttribute, 0, len(g.layout))
	for _, l := range g.layout {
		attrs = append(attrs, gputypes.VertexAttribute{
			Format:         vertexFormat(l),
			Offset:         uint64(l.Offset),
			ShaderLocation: uint32(l.Location),
		})
	}
	return []gputypes.VertexBufferLayout{{
		ArrayStride: uint64(g.layout[0].Stride),
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes:  attrs,
	}}
}

// vertexFormat maps component count and type to a wgpu vertex format.
func vertexFormat(l primer.VertexLayout) gputypes.VertexFormat {
	if l.Type == primer.Uint32 {
		switch l.Components {
		case 1:
			return gputypes.VertexFormatUint32
		case 2:
			return gputypes.VertexFormatUint32x2
		case 3:
			return gputypes.VertexFormatUint32x3
		default:
			return gputypes.VertexFormatUint32x4
		}
	}
	switch l.Components {
	case 1:
		return gputypes.VertexFormatFloat32
	case 2:
		return gputypes.VertexFormatFloat32x2
	case 3:
		return gputypes.VertexFormatFloat32x3
	default:
		return gputypes.VertexFormatFloat32x4
	}
}

// Destroy releases the hal buffers. Idempotent.
func (g *Geometry) Destroy() {
	if g.destroyed {
		return
	}
	g.destroyed = true
	d := g.device
	if d.boundGeometry == g {
		d.boundGeometry = nil
	}
	if d.device == nil {
		return
	}
	if g.idxBuf != nil {
		d.device.DestroyBuffer(g.idxBuf)
	}
	if g.vertBuf != nil {
		d.device.DestroyBuffer(g.vertBuf)
	}
}
