package primer

import "fmt"

// ShaderStage identifies one unit of the programmable pipeline, or the
// linked program as a whole for link-time diagnostics.
type ShaderStage int

const (
	// StageVertex is the vertex shader stage.
	StageVertex ShaderStage = iota

	// StageFragment is the fragment shader stage.
	StageFragment

	// StageProgram identifies the linked program; used for link errors.
	StageProgram
)

// String returns the human-readable stage name.
func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageProgram:
		return "program"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// ShaderLanguage identifies the source language a device consumes.
type ShaderLanguage int

const (
	// LangGLSL is OpenGL Shading Language (the gl and software devices).
	LangGLSL ShaderLanguage = iota

	// LangWGSL is the WebGPU Shading Language (the wgpu device).
	LangWGSL
)

// String returns the language name.
func (l ShaderLanguage) String() string {
	switch l {
	case LangGLSL:
		return "GLSL"
	case LangWGSL:
		return "WGSL"
	default:
		return fmt.Sprintf("Unknown(%d)", int(l))
	}
}

// MaxShaderLogBytes bounds the diagnostic log carried by a ShaderError.
// Longer compiler output is truncated, mirroring the fixed 512-byte info
// log buffer of the classic tutorials. Truncation never corrupts the
// retained prefix.
const MaxShaderLogBytes = 512

// ShaderSource is an immutable pair of stage sources. Both stages must be
// supplied; a device compiles each stage independently and then links.
type ShaderSource struct {
	// Vertex is the vertex stage source text.
	Vertex string

	// Fragment is the fragment stage source text.
	Fragment string
}

// Validate reports whether both stage sources are present.
func (s ShaderSource) Validate() error {
	if s.Vertex == "" {
		return fmt.Errorf("%w: vertex stage", ErrEmptyShaderSource)
	}
	if s.Fragment == "" {
		return fmt.Errorf("%w: fragment stage", ErrEmptyShaderSource)
	}
	return nil
}

// ShaderError reports a compile or link failure. Stage names the failing
// stage (StageProgram for link errors) and Log carries the diagnostic
// text, truncated to MaxShaderLogBytes.
type ShaderError struct {
	Stage ShaderStage
	Log   string
}

// NewShaderError builds a ShaderError, truncating the log.
func NewShaderError(stage ShaderStage, log string) *ShaderError {
	return &ShaderError{Stage: stage, Log: truncateLog(log)}
}

// Error implements the error interface.
func (e *ShaderError) Error() string {
	if e.Stage == StageProgram {
		return fmt.Sprintf("primer: program link failed: %s", e.Log)
	}
	return fmt.Sprintf("primer: %s shader compile failed: %s", e.Stage, e.Log)
}

// truncateLog bounds a diagnostic log to MaxShaderLogBytes.
func truncateLog(s string) string {
	if len(s) <= MaxShaderLogBytes {
		return s
	}
	return s[:MaxShaderLogBytes]
}
