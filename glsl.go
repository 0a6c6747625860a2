package primer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/image/math/f32"
)

// The software device accepts the GLSL subset the tutorial shaders are
// written in: a #version directive, global in/out/uniform declarations,
// and a void main() body. The fragment stage's single vec4 output must
// be assigned either a vec4(...) literal or a declared uniform or input.
// Anything outside the subset is a compile error with a diagnostic log,
// which is exactly what the samples and tests need from a shader
// front end that runs without a GPU.

// glslVar is one declared global: an attribute input, a stage output,
// or a uniform.
type glslVar struct {
	name     string
	typ      string
	location int
}

// glslShader is the parsed form of one stage.
type glslShader struct {
	stage    ShaderStage
	inputs   []glslVar
	outputs  []glslVar
	uniforms []glslVar

	// fragExpr is the expression assigned to the fragment color output.
	fragExpr string
}

var (
	glslLayoutInRe = regexp.MustCompile(`^layout\s*\(\s*location\s*=\s*(\d+)\s*\)\s*in\s+(\w+)\s+(\w+)\s*;`)
	glslInRe       = regexp.MustCompile(`^in\s+(\w+)\s+(\w+)\s*;`)
	glslOutRe      = regexp.MustCompile(`^out\s+(\w+)\s+(\w+)\s*;`)
	glslUniformRe  = regexp.MustCompile(`^uniform\s+(\w+)\s+(\w+)\s*;`)
	glslVec4Re     = regexp.MustCompile(`^vec4\s*\(\s*([^,]+),\s*([^,]+),\s*([^,]+),\s*([^)]+)\)$`)
)

// stripLineComment removes a // comment from one line.
func stripLineComment(line string) string {
	if i := strings.Index(line, "//"); i >= 0 {
		return line[:i]
	}
	return line
}

// parseGLSL front-ends one stage of the supported GLSL subset. Failures
// come back as a *ShaderError for the given stage, mirroring what a GL
// driver's info log would report.
func parseGLSL(stage ShaderStage, src string) (*glslShader, *ShaderError) {
	if strings.TrimSpace(src) == "" {
		return nil, NewShaderError(stage, "empty shader source")
	}

	sh := &glslShader{stage: stage}
	sawVersion := false
	braces := 0
	inMain := false
	var mainBody strings.Builder

	for lineNo, raw := range strings.Split(src, "\n") {
		line := strings.TrimSpace(stripLineComment(raw))
		if line == "" {
			continue
		}

		if !sawVersion {
			if !strings.HasPrefix(line, "#version") {
				return nil, NewShaderError(stage,
					fmt.Sprintf("0:%d: expected #version directive, got %q", lineNo+1, line))
			}
			sawVersion = true
			continue
		}

		braces += strings.Count(line, "{") - strings.Count(line, "}")
		if braces < 0 {
			return nil, NewShaderError(stage,
				fmt.Sprintf("0:%d: unmatched '}'", lineNo+1))
		}

		if inMain {
			mainBody.WriteString(line)
			mainBody.WriteString("\n")
			if braces == 0 {
				inMain = false
			}
			continue
		}

		switch {
		case strings.HasPrefix(line, "void main"):
			if i := strings.Index(line, "{"); i >= 0 {
				// Body (or part of it) on the same line.
				mainBody.WriteString(strings.TrimSuffix(line[i+1:], "}"))
				mainBody.WriteString("\n")
				inMain = braces > 0
			} else {
				// Body opens on a following line.
				inMain = true
			}
		case glslLayoutInRe.MatchString(line):
			m := glslLayoutInRe.FindStringSubmatch(line)
			loc, _ := strconv.Atoi(m[1])
			sh.inputs = append(sh.inputs, glslVar{name: m[3], typ: m[2], location: loc})
		case glslInRe.MatchString(line):
			m := glslInRe.FindStringSubmatch(line)
			sh.inputs = append(sh.inputs, glslVar{name: m[2], typ: m[1], location: -1})
		case glslOutRe.MatchString(line):
			m := glslOutRe.FindStringSubmatch(line)
			sh.outputs = append(sh.outputs, glslVar{name: m[2], typ: m[1], location: -1})
		case glslUniformRe.MatchString(line):
			m := glslUniformRe.FindStringSubmatch(line)
			sh.uniforms = append(sh.uniforms, glslVar{name: m[2], typ: m[1], location: -1})
		}
	}

	if braces != 0 {
		return nil, NewShaderError(stage, "syntax error: unbalanced braces")
	}
	if !sawVersion {
		return nil, NewShaderError(stage, "missing #version directive")
	}
	if !strings.Contains(src, "void main") {
		return nil, NewShaderError(stage, "no entry point: void main() not found")
	}

	switch stage {
	case StageVertex:
		if err := sh.checkVertexInterface(); err != nil {
			return nil, err
		}
	case StageFragment:
		if err := sh.checkFragmentInterface(mainBody.String()); err != nil {
			return nil, err
		}
	}
	return sh, nil
}

// checkVertexInterface requires a position input at attribute slot 0.
func (sh *glslShader) checkVertexInterface() *ShaderError {
	for _, in := range sh.inputs {
		if in.location == 0 {
			return nil
		}
	}
	return NewShaderError(StageVertex, "no vertex input declared at location 0")
}

// checkFragmentInterface requires exactly one vec4 color output and an
// assignment to it built from declared names.
func (sh *glslShader) checkFragmentInterface(mainBody string) *ShaderError {
	var colorOut string
	for _, out := range sh.outputs {
		if out.typ != "vec4" {
			continue
		}
		if colorOut != "" {
			return NewShaderError(StageFragment, "multiple vec4 outputs declared")
		}
		colorOut = out.name
	}
	if colorOut == "" {
		return NewShaderError(StageFragment, "fragment stage declares no vec4 color output")
	}

	assignRe := regexp.MustCompile(regexp.QuoteMeta(colorOut) + `\s*=\s*([^;]+);`)
	m := assignRe.FindStringSubmatch(mainBody)
	if m == nil {
		return NewShaderError(StageFragment,
			fmt.Sprintf("output %q is never written in main()", colorOut))
	}
	expr := strings.TrimSpace(m[1])
	if !glslVec4Re.MatchString(expr) && !sh.declares(expr) {
		return NewShaderError(StageFragment,
			fmt.Sprintf("undeclared identifier %q in assignment to %q", expr, colorOut))
	}
	sh.fragExpr = expr
	return nil
}

// declares reports whether name is a declared uniform or input.
func (sh *glslShader) declares(name string) bool {
	for _, u := range sh.uniforms {
		if u.name == name {
			return true
		}
	}
	for _, in := range sh.inputs {
		if in.name == name {
			return true
		}
	}
	return false
}

// linkGLSL links a parsed vertex/fragment pair: every fragment input
// must be fed by a vertex output of the same name and type. On success
// it returns the program's uniform name-to-slot map, assigning slots in
// declaration order across both stages.
func linkGLSL(vert, frag *glslShader) (map[string]int, *ShaderError) {
	for _, in := range frag.inputs {
		matched := false
		for _, out := range vert.outputs {
			if out.name == in.name && out.typ == in.typ {
				matched = true
				break
			}
		}
		if !matched {
			return nil, NewShaderError(StageProgram,
				fmt.Sprintf("fragment input %q (%s) has no matching vertex output", in.name, in.typ))
		}
	}

	uniforms := make(map[string]int)
	next := 0
	for _, sh := range []*glslShader{vert, frag} {
		for _, u := range sh.uniforms {
			if _, ok := uniforms[u.name]; ok {
				continue
			}
			uniforms[u.name] = next
			next++
		}
	}
	return uniforms, nil
}

// evalVec4 evaluates the fragment color expression: a vec4 literal or a
// uniform reference resolved against the program's current values.
func evalVec4(expr string, uniforms map[string]f32.Vec4) (f32.Vec4, error) {
	if m := glslVec4Re.FindStringSubmatch(expr); m != nil {
		var v f32.Vec4
		for i := 0; i < 4; i++ {
			s := strings.TrimSpace(m[i+1])
			s = strings.TrimSuffix(s, "f")
			c, err := strconv.ParseFloat(s, 32)
			if err != nil {
				return f32.Vec4{}, fmt.Errorf("primer: bad vec4 component %q", s)
			}
			v[i] = float32(c)
		}
		return v, nil
	}
	if v, ok := uniforms[expr]; ok {
		return v, nil
	}
	return f32.Vec4{}, fmt.Errorf("%w: %q", ErrUniformNotFound, expr)
}
