package primer

import (
	"math"

	"golang.org/x/image/math/f32"
)

// Pulse maps a monotonic timestamp in seconds to the classic animated
// uniform color: black with the green channel following sin(t)/2 + 0.5,
// so the triangle fades between dark and bright green. Pure function;
// the same t always yields the same color.
func Pulse(t float64) f32.Vec4 {
	g := float32(math.Sin(t)/2 + 0.5)
	return f32.Vec4{0, g, 0, 1}
}
