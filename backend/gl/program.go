package gl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/primer"
)

// BuildProgram compiles both stages and links them. Each stage compiles
// independently; the first failure is returned as a *ShaderError for
// that stage and linking never runs. The stage handles are deleted as
// soon as the link has run, success or not.
func (d *Device) BuildProgram(src primer.ShaderSource) (primer.Program, error) {
	if err := d.requireContext(); err != nil {
		return nil, err
	}
	if err := src.Validate(); err != nil {
		return nil, err
	}

	vert, serr := compileStage(primer.StageVertex, src.Vertex)
	if serr != nil {
		return nil, serr
	}
	frag, serr := compileStage(primer.StageFragment, src.Fragment)
	if serr != nil {
		gl.DeleteShader(vert)
		return nil, serr
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vert)
	gl.AttachShader(program, frag)
	gl.LinkProgram(program)

	// The linked program carries its own binaries; the stage handles
	// are dead weight from here on.
	gl.DeleteShader(vert)
	gl.DeleteShader(frag)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		infoLog := programInfoLog(program)
		gl.DeleteProgram(program)
		return nil, primer.NewShaderError(primer.StageProgram, infoLog)
	}

	return &Program{
		id:       program,
		uniforms: activeUniforms(program),
	}, nil
}

// compileStage compiles one shader stage and surfaces the driver's info
// log on failure.
func compileStage(stage primer.ShaderStage, source string) (uint32, *primer.ShaderError) {
	var kind uint32
	switch stage {
	case primer.StageVertex:
		kind = gl.VERTEX_SHADER
	case primer.StageFragment:
		kind = gl.FRAGMENT_SHADER
	}

	shader := gl.CreateShader(kind)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		if logLen < 1 {
			logLen = 1
		}
		infoLog := make([]byte, logLen)
		gl.GetShaderInfoLog(shader, logLen, nil, &infoLog[0])
		gl.DeleteShader(shader)
		return 0, primer.NewShaderError(stage, trimLog(infoLog))
	}
	return shader, nil
}

// programInfoLog reads the link-time info log.
func programInfoLog(program uint32) string {
	var logLen int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
	if logLen < 1 {
		logLen = 1
	}
	infoLog := make([]byte, logLen)
	gl.GetProgramInfoLog(program, logLen, nil, &infoLog[0])
	return trimLog(infoLog)
}

// trimLog drops the trailing NUL padding GL leaves in info logs.
func trimLog(b []byte) string {
	return strings.TrimRight(string(b), "\x00\n")
}

// activeUniforms builds the name-to-location map once, at link time.
func activeUniforms(program uint32) map[string]int32 {
	var count int32
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORMS, &count)

	uniforms := make(map[string]int32, count)
	buf := make([]byte, 256)
	for i := int32(0); i < count; i++ {
		var length, size int32
		var xtype uint32
		gl.GetActiveUniform(program, uint32(i), int32(len(buf)), &length, &size, &xtype, &buf[0])
		name := string(buf[:length])
		uniforms[name] = gl.GetUniformLocation(program, gl.Str(name+"\x00"))
	}
	return uniforms
}

// Program is a linked GL shader program.
type Program struct {
	id        uint32
	uniforms  map[string]int32
	destroyed bool
}

// Bind makes the program current.
func (p *Program) Bind() {
	if p.destroyed {
		return
	}
	gl.UseProgram(p.id)
}

// UniformLocation returns the slot recorded at link time.
func (p *Program) UniformLocation(name string) (int, bool) {
	loc, ok := p.uniforms[name]
	return int(loc), ok
}

// SetUniform4f writes a vec4 uniform. The program must be bound.
func (p *Program) SetUniform4f(name string, v f32.Vec4) error {
	if p.destroyed {
		return primer.ErrProgramDestroyed
	}
	loc, ok := p.uniforms[name]
	if !ok {
		return fmt.Errorf("%w: %q", primer.ErrUniformNotFound, name)
	}
	gl.Uniform4f(loc, v[0], v[1], v[2], v[3])
	return nil
}

// Destroy deletes the program object. Idempotent.
func (p *Program) Destroy() {
	if p.destroyed {
		return
	}
	gl.DeleteProgram(p.id)
	p.destroyed = true
}
