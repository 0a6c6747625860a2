package primer

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/math/f32"
)

// Pixmap is a CPU-side RGBA8 pixel buffer. The software device rasterizes
// directly into one, and the wgpu device reads its swapchain texture back
// into one. Rows are tightly packed, 4 bytes per pixel.
type Pixmap struct {
	width  int
	height int
	data   []uint8
}

// NewPixmap creates a zeroed pixmap of the given dimensions.
func NewPixmap(width, height int) *Pixmap {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the pixmap width in pixels.
func (p *Pixmap) Width() int { return p.width }

// Height returns the pixmap height in pixels.
func (p *Pixmap) Height() int { return p.height }

// Data returns the raw RGBA pixel data.
func (p *Pixmap) Data() []uint8 { return p.data }

// SetPixel writes one pixel. Coordinates outside the pixmap are ignored.
// Color components are clamped to [0,1] before quantization.
func (p *Pixmap) SetPixel(x, y int, c f32.Vec4) {
	if x < 0 || y < 0 || x >= p.width || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	p.data[i+0] = clamp255(c[0])
	p.data[i+1] = clamp255(c[1])
	p.data[i+2] = clamp255(c[2])
	p.data[i+3] = clamp255(c[3])
}

// GetPixel reads one pixel back as normalized components. Out-of-bounds
// reads return transparent black.
func (p *Pixmap) GetPixel(x, y int) f32.Vec4 {
	if x < 0 || y < 0 || x >= p.width || y >= p.height {
		return f32.Vec4{}
	}
	i := (y*p.width + x) * 4
	return f32.Vec4{
		float32(p.data[i+0]) / 255,
		float32(p.data[i+1]) / 255,
		float32(p.data[i+2]) / 255,
		float32(p.data[i+3]) / 255,
	}
}

// Clear fills every pixel with the given color.
func (p *Pixmap) Clear(c f32.Vec4) {
	r := clamp255(c[0])
	g := clamp255(c[1])
	b := clamp255(c[2])
	a := clamp255(c[3])
	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = r
		p.data[i+1] = g
		p.data[i+2] = b
		p.data[i+3] = a
	}
}

// ToImage copies the pixmap into a standard image.RGBA.
func (p *Pixmap) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// SavePNG writes the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, p.ToImage())
}

// ColorModel implements image.Image.
func (p *Pixmap) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// At implements image.Image.
func (p *Pixmap) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= p.width || y >= p.height {
		return color.RGBA{}
	}
	i := (y*p.width + x) * 4
	return color.RGBA{p.data[i], p.data[i+1], p.data[i+2], p.data[i+3]}
}

// clamp255 quantizes a normalized component to a byte.
func clamp255(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
