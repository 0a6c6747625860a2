package primer

import (
	"strings"
	"testing"

	"golang.org/x/image/math/f32"
)

const testVertexSource = `#version 330 core
layout (location = 0) in vec3 aPos;
void main()
{
    gl_Position = vec4(aPos.x, aPos.y, aPos.z, 1.0);
}
`

const testFragmentSource = `#version 330 core
out vec4 FragColor;
void main()
{
    FragColor = vec4(1.0f, 0.5f, 0.2f, 1.0f);
}
`

const testUniformFragmentSource = `#version 330 core
out vec4 FragColor;
uniform vec4 ourColor;
void main()
{
    FragColor = ourColor;
}
`

func TestParseGLSLValidPair(t *testing.T) {
	vert, serr := parseGLSL(StageVertex, testVertexSource)
	if serr != nil {
		t.Fatalf("parseGLSL(vertex) error = %v", serr)
	}
	if len(vert.inputs) != 1 || vert.inputs[0].location != 0 {
		t.Errorf("vertex inputs = %+v, want one at location 0", vert.inputs)
	}

	frag, serr := parseGLSL(StageFragment, testFragmentSource)
	if serr != nil {
		t.Fatalf("parseGLSL(fragment) error = %v", serr)
	}
	if frag.fragExpr != "vec4(1.0f, 0.5f, 0.2f, 1.0f)" {
		t.Errorf("fragExpr = %q, want the literal", frag.fragExpr)
	}

	uniforms, serr := linkGLSL(vert, frag)
	if serr != nil {
		t.Fatalf("linkGLSL() error = %v", serr)
	}
	if len(uniforms) != 0 {
		t.Errorf("uniforms = %v, want empty", uniforms)
	}
}

func TestParseGLSLUniformDeclaration(t *testing.T) {
	frag, serr := parseGLSL(StageFragment, testUniformFragmentSource)
	if serr != nil {
		t.Fatalf("parseGLSL(fragment) error = %v", serr)
	}
	if len(frag.uniforms) != 1 || frag.uniforms[0].name != "ourColor" {
		t.Errorf("uniforms = %+v, want ourColor", frag.uniforms)
	}
	if frag.fragExpr != "ourColor" {
		t.Errorf("fragExpr = %q, want ourColor", frag.fragExpr)
	}
}

func TestParseGLSLMissingVersion(t *testing.T) {
	src := "layout (location = 0) in vec3 aPos;\nvoid main() {}\n"
	_, serr := parseGLSL(StageVertex, src)
	if serr == nil {
		t.Fatal("parseGLSL() = nil error, want version error")
	}
	if serr.Stage != StageVertex {
		t.Errorf("Stage = %v, want StageVertex", serr.Stage)
	}
	if !strings.Contains(serr.Log, "#version") {
		t.Errorf("Log = %q, want mention of #version", serr.Log)
	}
}

func TestParseGLSLUnbalancedBraces(t *testing.T) {
	src := testVertexSource[:len(testVertexSource)-3] // chop the closing brace
	_, serr := parseGLSL(StageVertex, src)
	if serr == nil {
		t.Fatal("parseGLSL() = nil error, want syntax error")
	}
	if serr.Stage != StageVertex {
		t.Errorf("Stage = %v, want StageVertex", serr.Stage)
	}
}

func TestParseGLSLFragmentMissingColorOutput(t *testing.T) {
	src := `#version 330 core
void main()
{
}
`
	_, serr := parseGLSL(StageFragment, src)
	if serr == nil {
		t.Fatal("parseGLSL() = nil error, want missing output error")
	}
	if serr.Stage != StageFragment {
		t.Errorf("Stage = %v, want StageFragment", serr.Stage)
	}
	if !strings.Contains(serr.Log, "color output") {
		t.Errorf("Log = %q, want mention of color output", serr.Log)
	}
}

func TestParseGLSLUndeclaredIdentifier(t *testing.T) {
	src := `#version 330 core
out vec4 FragColor;
void main()
{
    FragColor = missingColor;
}
`
	_, serr := parseGLSL(StageFragment, src)
	if serr == nil {
		t.Fatal("parseGLSL() = nil error, want undeclared identifier error")
	}
	if serr.Stage != StageFragment {
		t.Errorf("Stage = %v, want StageFragment", serr.Stage)
	}
}

func TestLinkGLSLInterfaceMismatch(t *testing.T) {
	vert, serr := parseGLSL(StageVertex, testVertexSource)
	if serr != nil {
		t.Fatalf("parseGLSL(vertex) error = %v", serr)
	}
	frag, serr := parseGLSL(StageFragment, `#version 330 core
in vec4 vertexColor;
out vec4 FragColor;
void main()
{
    FragColor = vertexColor;
}
`)
	if serr != nil {
		t.Fatalf("parseGLSL(fragment) error = %v", serr)
	}

	_, serr = linkGLSL(vert, frag)
	if serr == nil {
		t.Fatal("linkGLSL() = nil error, want interface mismatch")
	}
	if serr.Stage != StageProgram {
		t.Errorf("Stage = %v, want StageProgram", serr.Stage)
	}
}

func TestEvalVec4(t *testing.T) {
	got, err := evalVec4("vec4(1.0f, 0.5f, 0.2f, 1.0f)", nil)
	if err != nil {
		t.Fatalf("evalVec4() error = %v", err)
	}
	want := f32.Vec4{1, 0.5, 0.2, 1}
	if got != want {
		t.Errorf("evalVec4() = %v, want %v", got, want)
	}

	uniforms := map[string]f32.Vec4{"ourColor": {0, 1, 0, 1}}
	got, err = evalVec4("ourColor", uniforms)
	if err != nil {
		t.Fatalf("evalVec4(uniform) error = %v", err)
	}
	if got != (f32.Vec4{0, 1, 0, 1}) {
		t.Errorf("evalVec4(uniform) = %v, want green", got)
	}

	if _, err := evalVec4("nonexistent", nil); err == nil {
		t.Error("evalVec4(unknown) = nil error, want error")
	}
}
