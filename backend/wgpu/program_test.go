package wgpu

import (
	"strings"
	"testing"

	"github.com/gogpu/primer"
)

const testVertexWGSL = `@vertex
fn vs_main(@location(0) pos: vec3<f32>) -> @builtin(position) vec4<f32> {
    return vec4<f32>(pos, 1.0);
}
`

const testFragmentWGSL = `@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.5, 0.2, 1.0);
}
`

const testUniformFragmentWGSL = `@group(0) @binding(0) var<uniform> ourColor: vec4<f32>;

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return ourColor;
}
`

func TestValidateStageValidPair(t *testing.T) {
	if serr := validateStage(primer.StageVertex, testVertexWGSL); serr != nil {
		t.Errorf("validateStage(vertex) error = %v", serr)
	}
	if serr := validateStage(primer.StageFragment, testFragmentWGSL); serr != nil {
		t.Errorf("validateStage(fragment) error = %v", serr)
	}
	if serr := validateStage(primer.StageFragment, testUniformFragmentWGSL); serr != nil {
		t.Errorf("validateStage(uniform fragment) error = %v", serr)
	}
}

func TestValidateStageEmptySource(t *testing.T) {
	serr := validateStage(primer.StageVertex, "")
	if serr == nil {
		t.Fatal("validateStage(empty) = nil, want error")
	}
	if serr.Stage != primer.StageVertex {
		t.Errorf("Stage = %v, want StageVertex", serr.Stage)
	}
}

func TestValidateStageSyntaxError(t *testing.T) {
	serr := validateStage(primer.StageVertex, "@vertex fn vs_main( {")
	if serr == nil {
		t.Fatal("validateStage(broken) = nil, want error")
	}
	if serr.Stage != primer.StageVertex {
		t.Errorf("Stage = %v, want StageVertex", serr.Stage)
	}
}

func TestValidateStageMissingEntryPoint(t *testing.T) {
	src := `@vertex
fn other_name() -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}
`
	serr := validateStage(primer.StageVertex, src)
	if serr == nil {
		t.Fatal("validateStage() = nil, want missing entry point error")
	}
	if !strings.Contains(serr.Log, "vs_main") {
		t.Errorf("Log = %q, want mention of vs_main", serr.Log)
	}
}

func TestValidateStageFragmentMissingColorOutput(t *testing.T) {
	src := `@fragment
fn fs_main() {
}
`
	serr := validateStage(primer.StageFragment, src)
	if serr == nil {
		t.Fatal("validateStage() = nil, want missing output error")
	}
	if serr.Stage != primer.StageFragment {
		t.Errorf("Stage = %v, want StageFragment", serr.Stage)
	}
}

func TestScanUniforms(t *testing.T) {
	uniforms, serr := scanUniforms(primer.StageFragment, testUniformFragmentWGSL)
	if serr != nil {
		t.Fatalf("scanUniforms() error = %v", serr)
	}
	binding, ok := uniforms["ourColor"]
	if !ok || binding != 0 {
		t.Errorf("uniforms = %v, want ourColor at binding 0", uniforms)
	}

	uniforms, serr = scanUniforms(primer.StageFragment, testFragmentWGSL)
	if serr != nil {
		t.Fatalf("scanUniforms() error = %v", serr)
	}
	if len(uniforms) != 0 {
		t.Errorf("uniforms = %v, want none", uniforms)
	}
}

func TestMergeUniformsBindingConflict(t *testing.T) {
	_, serr := mergeUniforms(
		map[string]uint32{"ourColor": 0},
		map[string]uint32{"ourColor": 1},
	)
	if serr == nil {
		t.Fatal("mergeUniforms() = nil, want conflict error")
	}
	if serr.Stage != primer.StageProgram {
		t.Errorf("Stage = %v, want StageProgram", serr.Stage)
	}
}

func TestFloatBytesLittleEndian(t *testing.T) {
	b := floatBytes([]float32{1.0})
	// 1.0f is 0x3F800000 little-endian.
	want := []byte{0x00, 0x00, 0x80, 0x3F}
	for i := range want {
		if b[i] != want[i] {
			t.Fatalf("floatBytes(1.0) = % X, want % X", b, want)
		}
	}

	idx := indexBytes([]uint32{0x01020304})
	wantIdx := []byte{0x04, 0x03, 0x02, 0x01}
	for i := range wantIdx {
		if idx[i] != wantIdx[i] {
			t.Fatalf("indexBytes() = % X, want % X", idx, wantIdx)
		}
	}
}

func TestVertexFormatMapping(t *testing.T) {
	l := primer.VertexLayout{Components: 3, Type: primer.Float32, Stride: 12}
	layouts := (&Geometry{layout: []primer.VertexLayout{l}}).vertexBufferLayouts()
	if len(layouts) != 1 {
		t.Fatalf("len(layouts) = %d, want 1", len(layouts))
	}
	if layouts[0].ArrayStride != 12 {
		t.Errorf("ArrayStride = %d, want 12", layouts[0].ArrayStride)
	}
	if len(layouts[0].Attributes) != 1 {
		t.Fatalf("len(Attributes) = %d, want 1", len(layouts[0].Attributes))
	}
}
