package primer

import (
	"errors"
	"math"
	"testing"

	"golang.org/x/image/math/f32"
)

func newTestDevice(t *testing.T) *SoftwareDevice {
	t.Helper()
	d := NewSoftwareDevice()
	if err := d.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return d
}

func buildTestProgram(t *testing.T, d *SoftwareDevice, fragment string) Program {
	t.Helper()
	p, err := d.BuildProgram(ShaderSource{Vertex: testVertexSource, Fragment: fragment})
	if err != nil {
		t.Fatalf("BuildProgram() error = %v", err)
	}
	return p
}

func TestBuildProgramValidPair(t *testing.T) {
	d := newTestDevice(t)
	defer d.Close()

	p := buildTestProgram(t, d, testFragmentSource)
	if p == nil {
		t.Fatal("BuildProgram() returned nil program")
	}
	if _, ok := p.UniformLocation("ourColor"); ok {
		t.Error("UniformLocation(ourColor) found in program without uniforms")
	}
}

func TestBuildProgramVertexSyntaxError(t *testing.T) {
	d := newTestDevice(t)
	defer d.Close()

	broken := testVertexSource[:len(testVertexSource)-3]
	_, err := d.BuildProgram(ShaderSource{Vertex: broken, Fragment: testFragmentSource})
	var serr *ShaderError
	if !errors.As(err, &serr) {
		t.Fatalf("BuildProgram() error = %v, want *ShaderError", err)
	}
	if serr.Stage != StageVertex {
		t.Errorf("Stage = %v, want StageVertex (never a link error)", serr.Stage)
	}
}

func TestBuildProgramFragmentMissingOutput(t *testing.T) {
	d := newTestDevice(t)
	defer d.Close()

	noOutput := `#version 330 core
void main()
{
}
`
	_, err := d.BuildProgram(ShaderSource{Vertex: testVertexSource, Fragment: noOutput})
	var serr *ShaderError
	if !errors.As(err, &serr) {
		t.Fatalf("BuildProgram() error = %v, want *ShaderError", err)
	}
	if serr.Stage != StageFragment {
		t.Errorf("Stage = %v, want StageFragment", serr.Stage)
	}
}

func TestDrawVertexPath(t *testing.T) {
	d := newTestDevice(t)
	defer d.Close()

	p := buildTestProgram(t, d, testFragmentSource)
	g, err := d.CreateGeometry(triangleDescriptor())
	if err != nil {
		t.Fatalf("CreateGeometry() error = %v", err)
	}

	d.Clear(DefaultBackground)
	p.Bind()
	g.Bind()
	if err := g.Draw(TriangleList, 3); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}

	calls := d.Calls()
	if len(calls) != 1 {
		t.Fatalf("len(Calls()) = %d, want 1", len(calls))
	}
	call := calls[0]
	if call.Kind != TriangleList || call.Indexed {
		t.Errorf("call = %+v, want non-indexed triangle-list", call)
	}
	want := [][3]float32{{-0.5, -0.5, 0}, {0.5, -0.5, 0}, {0, 0.5, 0}}
	if len(call.Vertices) != 3 {
		t.Fatalf("len(Vertices) = %d, want 3", len(call.Vertices))
	}
	for i := range want {
		if call.Vertices[i] != want[i] {
			t.Errorf("Vertices[%d] = %v, want %v (storage order)", i, call.Vertices[i], want[i])
		}
	}
}

func TestDrawIndexPath(t *testing.T) {
	d := newTestDevice(t)
	defer d.Close()

	p := buildTestProgram(t, d, testFragmentSource)
	g, err := d.CreateGeometry(rectangleDescriptor())
	if err != nil {
		t.Fatalf("CreateGeometry() error = %v", err)
	}
	if g.VertexCount() != 4 {
		t.Errorf("VertexCount() = %d, want 4", g.VertexCount())
	}
	if g.IndexCount() != 6 {
		t.Errorf("IndexCount() = %d, want 6", g.IndexCount())
	}

	d.Clear(DefaultBackground)
	p.Bind()
	g.Bind()
	if err := g.Draw(TriangleList, 6); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}

	calls := d.Calls()
	if len(calls) != 1 {
		t.Fatalf("len(Calls()) = %d, want 1", len(calls))
	}
	call := calls[0]
	if !call.Indexed {
		t.Error("Indexed = false, want index path")
	}
	// Each emitted vertex equals the vertex at the referenced index.
	verts := rectangleDescriptor().Vertices
	indices := rectangleDescriptor().Indices
	if len(call.Vertices) != 6 {
		t.Fatalf("len(Vertices) = %d, want 6", len(call.Vertices))
	}
	for i, idx := range indices {
		want := [3]float32{verts[idx*3], verts[idx*3+1], verts[idx*3+2]}
		if call.Vertices[i] != want {
			t.Errorf("Vertices[%d] = %v, want %v (index %d)", i, call.Vertices[i], want, idx)
		}
	}
}

func TestDrawWithoutProgram(t *testing.T) {
	d := newTestDevice(t)
	defer d.Close()

	g, err := d.CreateGeometry(triangleDescriptor())
	if err != nil {
		t.Fatalf("CreateGeometry() error = %v", err)
	}
	g.Bind()
	if err := g.Draw(TriangleList, 3); !errors.Is(err, ErrNoProgramBound) {
		t.Errorf("Draw() error = %v, want ErrNoProgramBound", err)
	}
}

func TestDrawUnboundGeometry(t *testing.T) {
	d := newTestDevice(t)
	defer d.Close()

	p := buildTestProgram(t, d, testFragmentSource)
	g1, err := d.CreateGeometry(triangleDescriptor())
	if err != nil {
		t.Fatalf("CreateGeometry() error = %v", err)
	}
	g2, err := d.CreateGeometry(triangleDescriptor())
	if err != nil {
		t.Fatalf("CreateGeometry() error = %v", err)
	}

	p.Bind()
	g2.Bind()
	if err := g1.Draw(TriangleList, 3); !errors.Is(err, ErrGeometryNotBound) {
		t.Errorf("Draw() error = %v, want ErrGeometryNotBound", err)
	}
}

func TestDrawCountExceeded(t *testing.T) {
	d := newTestDevice(t)
	defer d.Close()

	p := buildTestProgram(t, d, testFragmentSource)
	g, err := d.CreateGeometry(triangleDescriptor())
	if err != nil {
		t.Fatalf("CreateGeometry() error = %v", err)
	}
	p.Bind()
	g.Bind()
	if err := g.Draw(TriangleList, 4); !errors.Is(err, ErrDrawCountExceeded) {
		t.Errorf("Draw(4 of 3) error = %v, want ErrDrawCountExceeded", err)
	}
}

func TestSetUniformUnknownName(t *testing.T) {
	d := newTestDevice(t)
	defer d.Close()

	p := buildTestProgram(t, d, testUniformFragmentSource)
	if loc, ok := p.UniformLocation("ourColor"); !ok || loc != 0 {
		t.Errorf("UniformLocation(ourColor) = %d, %v, want 0, true", loc, ok)
	}
	if err := p.SetUniform4f("ourColor", f32.Vec4{0, 1, 0, 1}); err != nil {
		t.Errorf("SetUniform4f(ourColor) error = %v", err)
	}
	if err := p.SetUniform4f("noSuchUniform", f32.Vec4{}); !errors.Is(err, ErrUniformNotFound) {
		t.Errorf("SetUniform4f(unknown) error = %v, want ErrUniformNotFound", err)
	}
}

func TestUseAfterDestroy(t *testing.T) {
	d := newTestDevice(t)
	defer d.Close()

	p := buildTestProgram(t, d, testUniformFragmentSource)
	g, err := d.CreateGeometry(triangleDescriptor())
	if err != nil {
		t.Fatalf("CreateGeometry() error = %v", err)
	}
	p.Bind()
	g.Bind()

	p.Destroy()
	if err := p.SetUniform4f("ourColor", f32.Vec4{}); !errors.Is(err, ErrProgramDestroyed) {
		t.Errorf("SetUniform4f() after Destroy error = %v, want ErrProgramDestroyed", err)
	}
	if err := g.Draw(TriangleList, 3); !errors.Is(err, ErrNoProgramBound) {
		t.Errorf("Draw() with destroyed program error = %v, want ErrNoProgramBound", err)
	}

	g.Destroy()
	if err := g.Draw(TriangleList, 3); !errors.Is(err, ErrGeometryDestroyed) {
		t.Errorf("Draw() after Destroy error = %v, want ErrGeometryDestroyed", err)
	}
	// Destroy is idempotent.
	p.Destroy()
	g.Destroy()
}

func TestTriangleRasterizesCenterPixel(t *testing.T) {
	d := newTestDevice(t)
	defer d.Close()

	p := buildTestProgram(t, d, testFragmentSource)
	g, err := d.CreateGeometry(triangleDescriptor())
	if err != nil {
		t.Fatalf("CreateGeometry() error = %v", err)
	}

	d.Clear(DefaultBackground)
	p.Bind()
	g.Bind()
	if err := g.Draw(TriangleList, 3); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}

	pm := d.Pixmap()
	// Pixel just below center is inside the triangle.
	got := pm.GetPixel(pm.Width()/2, pm.Height()*3/5)
	want := f32.Vec4{1, 0.5, 0.2, 1}
	for i := 0; i < 4; i++ {
		if math.Abs(float64(got[i]-want[i])) > 0.01 {
			t.Fatalf("center pixel = %v, want about %v", got, want)
		}
	}
	// A corner stays at the clear color.
	corner := pm.GetPixel(2, 2)
	if math.Abs(float64(corner[0]-DefaultBackground[0])) > 0.01 {
		t.Errorf("corner pixel = %v, want background %v", corner, DefaultBackground)
	}
}

func TestPulseUniformDrivesFragmentColor(t *testing.T) {
	d := newTestDevice(t)
	defer d.Close()

	p := buildTestProgram(t, d, testUniformFragmentSource)
	g, err := d.CreateGeometry(triangleDescriptor())
	if err != nil {
		t.Fatalf("CreateGeometry() error = %v", err)
	}

	d.Clear(DefaultBackground)
	p.Bind()
	if err := p.SetUniform4f("ourColor", Pulse(math.Pi/2)); err != nil {
		t.Fatalf("SetUniform4f() error = %v", err)
	}
	g.Bind()
	if err := g.Draw(TriangleList, 3); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}

	pm := d.Pixmap()
	got := pm.GetPixel(pm.Width()/2, pm.Height()*3/5)
	if math.Abs(float64(got[1])-1.0) > 0.01 || got[0] > 0.01 {
		t.Errorf("pixel = %v, want bright green", got)
	}
}
