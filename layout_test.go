package primer

import (
	"errors"
	"testing"
)

func TestPositionLayout(t *testing.T) {
	layout := PositionLayout()
	if len(layout) != 1 {
		t.Fatalf("len(layout) = %d, want 1", len(layout))
	}
	l := layout[0]
	if l.Location != 0 || l.Components != 3 || l.Type != Float32 || l.Stride != 12 || l.Offset != 0 {
		t.Errorf("PositionLayout() = %+v, want vec3 at slot 0 with stride 12", l)
	}
	if err := l.validate(); err != nil {
		t.Errorf("validate() error = %v", err)
	}
}

func TestVertexLayoutValidate(t *testing.T) {
	tests := []struct {
		name   string
		layout VertexLayout
		ok     bool
	}{
		{"valid vec3", VertexLayout{Location: 0, Components: 3, Type: Float32, Stride: 12}, true},
		{"valid vec2 with offset", VertexLayout{Location: 1, Components: 2, Type: Float32, Stride: 20, Offset: 12}, true},
		{"negative location", VertexLayout{Location: -1, Components: 3, Type: Float32, Stride: 12}, false},
		{"zero components", VertexLayout{Location: 0, Components: 0, Type: Float32, Stride: 12}, false},
		{"five components", VertexLayout{Location: 0, Components: 5, Type: Float32, Stride: 20}, false},
		{"zero stride", VertexLayout{Location: 0, Components: 3, Type: Float32, Stride: 0}, false},
		{"offset overruns stride", VertexLayout{Location: 0, Components: 3, Type: Float32, Stride: 12, Offset: 4}, false},
		{"unknown type", VertexLayout{Location: 0, Components: 3, Type: ComponentType(99), Stride: 12}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.layout.validate()
			if tt.ok && err != nil {
				t.Errorf("validate() error = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidLayout) {
				t.Errorf("validate() error = %v, want ErrInvalidLayout", err)
			}
		})
	}
}

func TestComponentTypeSize(t *testing.T) {
	if Float32.Size() != 4 {
		t.Errorf("Float32.Size() = %d, want 4", Float32.Size())
	}
	if Uint32.Size() != 4 {
		t.Errorf("Uint32.Size() = %d, want 4", Uint32.Size())
	}
	if ComponentType(99).Size() != 0 {
		t.Errorf("unknown Size() = %d, want 0", ComponentType(99).Size())
	}
}
