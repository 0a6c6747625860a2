package primer

import (
	"testing"

	"golang.org/x/image/math/f32"
)

func TestPixmapSetGetPixel(t *testing.T) {
	p := NewPixmap(4, 4)
	red := f32.Vec4{1, 0, 0, 1}
	p.SetPixel(2, 1, red)

	got := p.GetPixel(2, 1)
	if got != red {
		t.Errorf("GetPixel(2,1) = %v, want %v", got, red)
	}

	// Out of bounds is silently ignored / transparent black.
	p.SetPixel(-1, 0, red)
	p.SetPixel(0, 99, red)
	if got := p.GetPixel(-1, 0); got != (f32.Vec4{}) {
		t.Errorf("GetPixel(-1,0) = %v, want zero", got)
	}
}

func TestPixmapClear(t *testing.T) {
	p := NewPixmap(3, 3)
	teal := f32.Vec4{0.2, 0.3, 0.3, 1.0}
	p.Clear(teal)

	got := p.GetPixel(1, 1)
	for i := 0; i < 4; i++ {
		diff := float64(got[i]) - float64(teal[i])
		if diff > 0.01 || diff < -0.01 {
			t.Errorf("GetPixel(1,1)[%d] = %v, want about %v", i, got[i], teal[i])
		}
	}
}

func TestPixmapToImage(t *testing.T) {
	p := NewPixmap(2, 2)
	p.SetPixel(0, 0, f32.Vec4{1, 1, 1, 1})
	img := p.ToImage()
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Errorf("ToImage() bounds = %v, want 2x2", img.Bounds())
	}
	r, g, b, a := img.At(0, 0).RGBA()
	if r != 0xffff || g != 0xffff || b != 0xffff || a != 0xffff {
		t.Errorf("At(0,0) = %v %v %v %v, want white", r, g, b, a)
	}
}
