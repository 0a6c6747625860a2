package wgpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/primer"
)

// Entry point names the pipelines expect, the same convention the rest
// of the gogpu stack uses.
const (
	vertexEntryPoint   = "vs_main"
	fragmentEntryPoint = "fs_main"
)

var (
	wgslVertexEntryRe   = regexp.MustCompile(`@vertex\s+fn\s+vs_main`)
	wgslFragmentEntryRe = regexp.MustCompile(`@fragment\s+fn\s+fs_main`)
	wgslFragOutputRe    = regexp.MustCompile(`fn\s+fs_main[^{]*->\s*@location\(0\)\s*vec4<f32>`)
	wgslUniformRe       = regexp.MustCompile(`@group\(0\)\s*@binding\((\d+)\)\s*var<uniform>\s+(\w+)\s*:`)
)

// uniformSlot is one vec4 uniform: its bind group binding and its
// backing buffer.
type uniformSlot struct {
	binding uint32
	buf     hal.Buffer
}

// Program is a validated WGSL stage pair with its shader modules and
// per-uniform backing buffers.
type Program struct {
	device *Device

	vertModule hal.ShaderModule
	fragModule hal.ShaderModule

	// uniforms maps name to slot; the slot order doubles as the
	// location numbering reported by UniformLocation.
	uniforms map[string]*uniformSlot

	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	bindGroup  hal.BindGroup

	destroyed bool
}

var _ primer.Program = (*Program)(nil)

// BuildProgram validates each WGSL stage through naga, checks the
// entry-point interface, and creates the shader modules plus uniform
// plumbing. The first failing stage is reported as a *ShaderError for
// that stage; an interface mismatch between the stages is a
// StageProgram error. naga owns the stage-side compiler state, so
// there are no handles to release on the failure paths.
func (d *Device) BuildProgram(src primer.ShaderSource) (primer.Program, error) {
	if d.closed || d.device == nil {
		return nil, primer.ErrDeviceClosed
	}
	if serr := validateStage(primer.StageVertex, src.Vertex); serr != nil {
		return nil, serr
	}
	if serr := validateStage(primer.StageFragment, src.Fragment); serr != nil {
		return nil, serr
	}

	vertUniforms, serr := scanUniforms(primer.StageVertex, src.Vertex)
	if serr != nil {
		return nil, serr
	}
	fragUniforms, serr := scanUniforms(primer.StageFragment, src.Fragment)
	if serr != nil {
		return nil, serr
	}
	bindings, serr := mergeUniforms(vertUniforms, fragUniforms)
	if serr != nil {
		return nil, serr
	}

	vertModule, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "primer_vert",
		Source: hal.ShaderSource{WGSL: src.Vertex},
	})
	if err != nil {
		return nil, primer.NewShaderError(primer.StageVertex, err.Error())
	}
	fragModule, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "primer_frag",
		Source: hal.ShaderSource{WGSL: src.Fragment},
	})
	if err != nil {
		d.device.DestroyShaderModule(vertModule)
		return nil, primer.NewShaderError(primer.StageFragment, err.Error())
	}

	p := &Program{
		device:     d,
		vertModule: vertModule,
		fragModule: fragModule,
		uniforms:   make(map[string]*uniformSlot),
	}
	if err := p.createUniformPlumbing(bindings); err != nil {
		p.Destroy()
		return nil, err
	}
	return p, nil
}

// validateStage runs one WGSL stage through the naga compiler purely
// for its diagnostics. A module that fails to compile here would also
// fail module creation, but naga's errors name lines and spans.
func validateStage(stage primer.ShaderStage, source string) *primer.ShaderError {
	if source == "" {
		return primer.NewShaderError(stage, "empty shader source")
	}
	if _, err := naga.Compile(source); err != nil {
		return primer.NewShaderError(stage, err.Error())
	}
	switch stage {
	case primer.StageVertex:
		if !wgslVertexEntryRe.MatchString(source) {
			return primer.NewShaderError(stage, "missing @vertex entry point vs_main")
		}
	case primer.StageFragment:
		if !wgslFragmentEntryRe.MatchString(source) {
			return primer.NewShaderError(stage, "missing @fragment entry point fs_main")
		}
		if !wgslFragOutputRe.MatchString(source) {
			return primer.NewShaderError(stage,
				"fs_main does not return a @location(0) vec4<f32> color output")
		}
	}
	return nil
}

// scanUniforms collects the group-0 vec4 uniform declarations of one
// stage.
func scanUniforms(stage primer.ShaderStage, source string) (map[string]uint32, *primer.ShaderError) {
	uniforms := make(map[string]uint32)
	for _, m := range wgslUniformRe.FindAllStringSubmatch(source, -1) {
		binding, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, primer.NewShaderError(stage, fmt.Sprintf("bad binding index %q", m[1]))
		}
		uniforms[m[2]] = uint32(binding)
	}
	return uniforms, nil
}

// mergeUniforms combines both stages' uniforms; the same name must use
// the same binding in both.
func mergeUniforms(vert, frag map[string]uint32) (map[string]uint32, *primer.ShaderError) {
	merged := make(map[string]uint32, len(vert)+len(frag))
	for name, b := range vert {
		merged[name] = b
	}
	for name, b := range frag {
		if vb, ok := merged[name]; ok && vb != b {
			return nil, primer.NewShaderError(primer.StageProgram,
				fmt.Sprintf("uniform %q bound at %d in vertex stage but %d in fragment stage", name, vb, b))
		}
		merged[name] = b
	}
	return merged, nil
}

// createUniformPlumbing builds one 16-byte buffer per vec4 uniform, the
// bind group layout describing them, and the pipeline layout.
func (p *Program) createUniformPlumbing(bindings map[string]uint32) error {
	d := p.device

	var layoutEntries []gputypes.BindGroupLayoutEntry
	var groupEntries []gputypes.BindGroupEntry
	for name, binding := range bindings {
		buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
			Label: "primer_uniform_" + name,
			Size:  16,
			Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("wgpu: create uniform buffer %q: %w", name, err)
		}
		p.uniforms[name] = &uniformSlot{binding: binding, buf: buf}
		layoutEntries = append(layoutEntries, gputypes.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		})
		groupEntries = append(groupEntries, gputypes.BindGroupEntry{
			Binding: binding,
			Resource: gputypes.BufferBinding{
				Buffer: buf.NativeHandle(), Offset: 0, Size: 16,
			},
		})
	}

	var groupLayouts []hal.BindGroupLayout
	if len(layoutEntries) > 0 {
		bindLayout, err := d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
			Label:   "primer_uniform_layout",
			Entries: layoutEntries,
		})
		if err != nil {
			return fmt.Errorf("wgpu: create bind group layout: %w", err)
		}
		p.bindLayout = bindLayout
		groupLayouts = append(groupLayouts, bindLayout)

		bindGroup, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label:   "primer_uniform_bind",
			Layout:  bindLayout,
			Entries: groupEntries,
		})
		if err != nil {
			return fmt.Errorf("wgpu: create bind group: %w", err)
		}
		p.bindGroup = bindGroup
	}

	pipeLayout, err := d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "primer_pipe_layout",
		BindGroupLayouts: groupLayouts,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout
	return nil
}

// Bind makes this program current for subsequent draws.
func (p *Program) Bind() {
	if p.destroyed {
		return
	}
	p.device.boundProgram = p
}

// UniformLocation reports the uniform's bind group binding.
func (p *Program) UniformLocation(name string) (int, bool) {
	slot, ok := p.uniforms[name]
	if !ok {
		return 0, false
	}
	return int(slot.binding), true
}

// SetUniform4f uploads a vec4 into the uniform's backing buffer.
func (p *Program) SetUniform4f(name string, v f32.Vec4) error {
	if p.destroyed {
		return primer.ErrProgramDestroyed
	}
	slot, ok := p.uniforms[name]
	if !ok {
		return fmt.Errorf("%w: %q", primer.ErrUniformNotFound, name)
	}
	data := make([]byte, 16)
	for i, c := range v {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(c))
	}
	p.device.queue.WriteBuffer(slot.buf, 0, data)
	return nil
}

// Destroy releases modules, layouts, and uniform buffers. Idempotent.
func (p *Program) Destroy() {
	if p.destroyed {
		return
	}
	p.destroyed = true
	d := p.device
	if d.boundProgram == p {
		d.boundProgram = nil
	}
	if d.device == nil {
		return
	}
	if p.bindGroup != nil {
		d.device.DestroyBindGroup(p.bindGroup)
	}
	if p.pipeLayout != nil {
		d.device.DestroyPipelineLayout(p.pipeLayout)
	}
	if p.bindLayout != nil {
		d.device.DestroyBindGroupLayout(p.bindLayout)
	}
	for _, slot := range p.uniforms {
		d.device.DestroyBuffer(slot.buf)
	}
	if p.fragModule != nil {
		d.device.DestroyShaderModule(p.fragModule)
	}
	if p.vertModule != nil {
		d.device.DestroyShaderModule(p.vertModule)
	}
}
