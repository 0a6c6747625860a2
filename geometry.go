package primer

import "fmt"

// Usage hints how geometry storage will be accessed. It only informs the
// backing store's placement strategy and never affects correctness.
type Usage int

const (
	// UsageWriteOnceReadMany is for data uploaded once and drawn many
	// times (GL_STATIC_DRAW territory). The zero value and the right
	// choice for every sample in this repository.
	UsageWriteOnceReadMany Usage = iota

	// UsageWriteOnceReadFew is for data uploaded once and drawn at most
	// a few times.
	UsageWriteOnceReadFew

	// UsageWriteManyReadMany is for data rewritten frequently.
	UsageWriteManyReadMany
)

// String returns the usage hint name.
func (u Usage) String() string {
	switch u {
	case UsageWriteOnceReadMany:
		return "write-once-read-many"
	case UsageWriteOnceReadFew:
		return "write-once-read-few"
	case UsageWriteManyReadMany:
		return "write-many-read-many"
	default:
		return fmt.Sprintf("Unknown(%d)", int(u))
	}
}

// PrimitiveKind selects how a draw call assembles vertices.
type PrimitiveKind int

const (
	// TriangleList assembles every three vertices into one triangle.
	TriangleList PrimitiveKind = iota

	// TriangleStrip assembles each vertex with the previous two.
	TriangleStrip

	// LineList assembles every two vertices into one line segment.
	LineList

	// PointList draws each vertex as a point.
	PointList
)

// String returns the primitive kind name.
func (k PrimitiveKind) String() string {
	switch k {
	case TriangleList:
		return "triangle-list"
	case TriangleStrip:
		return "triangle-strip"
	case LineList:
		return "line-list"
	case PointList:
		return "point-list"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// GeometryDescriptor describes one geometry aggregate to create: a vertex
// region, an optional index region, the attribute layout, and a usage
// hint. The index region, when present, belongs to the same aggregate as
// the vertex region — binding the geometry binds both.
type GeometryDescriptor struct {
	// Label is an optional debug name.
	Label string

	// Vertices is the interleaved vertex data. Storage is sized exactly
	// to its byte length.
	Vertices []float32

	// Indices is the optional index region. When non-empty, draws run
	// through the index path.
	Indices []uint32

	// Layout describes the attribute slots of the vertex region.
	Layout []VertexLayout

	// Usage is the storage placement hint.
	Usage Usage
}

// HasIndices reports whether the descriptor carries an index region.
func (d *GeometryDescriptor) HasIndices() bool {
	return len(d.Indices) > 0
}

// Stride returns the vertex byte stride, taken from the first layout
// descriptor. All descriptors of one interleaved buffer share a stride.
func (d *GeometryDescriptor) Stride() int {
	if len(d.Layout) == 0 {
		return 0
	}
	return d.Layout[0].Stride
}

// VertexCount returns how many whole vertices the vertex region holds.
func (d *GeometryDescriptor) VertexCount() int {
	stride := d.Stride()
	if stride == 0 {
		return 0
	}
	return len(d.Vertices) * 4 / stride
}

// Validate checks the descriptor before upload: non-empty vertex data, a
// consistent layout, and indices that stay inside the vertex region.
func (d *GeometryDescriptor) Validate() error {
	if len(d.Vertices) == 0 {
		return ErrEmptyVertexData
	}
	if len(d.Layout) == 0 {
		return ErrNoVertexLayout
	}
	stride := d.Stride()
	for _, l := range d.Layout {
		if err := l.validate(); err != nil {
			return err
		}
		if l.Stride != stride {
			return fmt.Errorf("%w: mixed strides %d and %d", ErrInvalidLayout, stride, l.Stride)
		}
	}
	if len(d.Vertices)*4%stride != 0 {
		return fmt.Errorf("%w: %d bytes of vertex data is not a multiple of stride %d",
			ErrInvalidLayout, len(d.Vertices)*4, stride)
	}
	vertexCount := d.VertexCount()
	for i, idx := range d.Indices {
		if int(idx) >= vertexCount {
			return fmt.Errorf("%w: index %d at position %d, only %d vertices",
				ErrIndexOutOfRange, idx, i, vertexCount)
		}
	}
	return nil
}
