package primer

import (
	"math"
	"testing"
)

func TestPulseKnownValues(t *testing.T) {
	c := Pulse(0)
	if c[1] != 0.5 {
		t.Errorf("Pulse(0) green = %v, want 0.5", c[1])
	}

	c = Pulse(math.Pi / 2)
	if math.Abs(float64(c[1])-1.0) > 1e-6 {
		t.Errorf("Pulse(pi/2) green = %v, want 1.0", c[1])
	}

	if c[0] != 0 || c[2] != 0 || c[3] != 1 {
		t.Errorf("Pulse() = %v, want black with full alpha outside green", c)
	}
}

func TestPulseIsPure(t *testing.T) {
	for _, tv := range []float64{0, 0.5, 1.7, math.Pi, 42.42} {
		a := Pulse(tv)
		b := Pulse(tv)
		if a != b {
			t.Errorf("Pulse(%v) not idempotent: %v then %v", tv, a, b)
		}
	}
}
