package gl

import (
	"testing"

	stdgl "github.com/go-gl/gl/v3.3-core/gl"

	"github.com/gogpu/primer"
)

func TestUsageMapping(t *testing.T) {
	tests := []struct {
		usage primer.Usage
		want  uint32
	}{
		{primer.UsageWriteOnceReadMany, stdgl.STATIC_DRAW},
		{primer.UsageWriteOnceReadFew, stdgl.STREAM_DRAW},
		{primer.UsageWriteManyReadMany, stdgl.DYNAMIC_DRAW},
	}
	for _, tt := range tests {
		if got := glUsage(tt.usage); got != tt.want {
			t.Errorf("glUsage(%v) = 0x%X, want 0x%X", tt.usage, got, tt.want)
		}
	}
}

func TestPrimitiveMapping(t *testing.T) {
	tests := []struct {
		kind primer.PrimitiveKind
		want uint32
	}{
		{primer.TriangleList, stdgl.TRIANGLES},
		{primer.TriangleStrip, stdgl.TRIANGLE_STRIP},
		{primer.LineList, stdgl.LINES},
		{primer.PointList, stdgl.POINTS},
	}
	for _, tt := range tests {
		if got := glPrimitive(tt.kind); got != tt.want {
			t.Errorf("glPrimitive(%v) = 0x%X, want 0x%X", tt.kind, got, tt.want)
		}
	}
}

func TestComponentTypeMapping(t *testing.T) {
	if got := glComponentType(primer.Float32); got != stdgl.FLOAT {
		t.Errorf("glComponentType(Float32) = 0x%X, want GL_FLOAT", got)
	}
	if got := glComponentType(primer.Uint32); got != stdgl.UNSIGNED_INT {
		t.Errorf("glComponentType(Uint32) = 0x%X, want GL_UNSIGNED_INT", got)
	}
}

func TestTrimLog(t *testing.T) {
	got := trimLog([]byte("error: bad\x00\x00\n"))
	if got != "error: bad" {
		t.Errorf("trimLog() = %q, want %q", got, "error: bad")
	}
}
