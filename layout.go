package primer

import "fmt"

// ComponentType is the scalar type of one vertex attribute component.
type ComponentType int

const (
	// Float32 is a 32-bit IEEE float component.
	Float32 ComponentType = iota

	// Uint32 is a 32-bit unsigned integer component.
	Uint32
)

// Size returns the component size in bytes.
func (t ComponentType) Size() int {
	switch t {
	case Float32, Uint32:
		return 4
	default:
		return 0
	}
}

// String returns the component type name.
func (t ComponentType) String() string {
	switch t {
	case Float32:
		return "float32"
	case Uint32:
		return "uint32"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// VertexLayout describes one attribute slot of an interleaved vertex
// buffer: which shader input it feeds, how many components it has, and
// where those components live inside each vertex.
//
// The layout is captured once at geometry creation and is immutable
// afterwards; re-describing a buffer requires creating a new geometry.
type VertexLayout struct {
	// Location is the attribute slot consumed by the vertex stage.
	Location int

	// Components is the number of scalar components (1–4).
	Components int

	// Type is the scalar component type.
	Type ComponentType

	// Normalized maps integer components to [0,1] / [-1,1] when true.
	Normalized bool

	// Stride is the byte distance between consecutive vertices.
	Stride int

	// Offset is the byte offset of this attribute within a vertex.
	Offset int
}

// validate checks a single descriptor for internal consistency.
func (l VertexLayout) validate() error {
	if l.Location < 0 {
		return fmt.Errorf("%w: negative location %d", ErrInvalidLayout, l.Location)
	}
	if l.Components < 1 || l.Components > 4 {
		return fmt.Errorf("%w: %d components at location %d", ErrInvalidLayout, l.Components, l.Location)
	}
	if l.Type.Size() == 0 {
		return fmt.Errorf("%w: unknown component type at location %d", ErrInvalidLayout, l.Location)
	}
	if l.Stride <= 0 {
		return fmt.Errorf("%w: stride %d at location %d", ErrInvalidLayout, l.Stride, l.Location)
	}
	if l.Offset < 0 || l.Offset+l.Components*l.Type.Size() > l.Stride {
		return fmt.Errorf("%w: attribute at location %d overruns stride %d",
			ErrInvalidLayout, l.Location, l.Stride)
	}
	return nil
}

// PositionLayout returns the layout every first tutorial uses: a single
// vec3 position at slot 0, tightly packed with a 12-byte stride.
func PositionLayout() []VertexLayout {
	return []VertexLayout{
		{Location: 0, Components: 3, Type: Float32, Stride: 12, Offset: 0},
	}
}
