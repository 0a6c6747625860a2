package primer

import "golang.org/x/image/math/f32"

// ndcToPixel maps normalized device coordinates to pixel coordinates.
// NDC y grows upward, pixel y grows downward.
func ndcToPixel(x, y float32, w, h int) (float32, float32) {
	return (x + 1) / 2 * float32(w), (1 - y) / 2 * float32(h)
}

// edge is the signed parallelogram area of (b-a, p-a). Its sign tells
// which side of ab the point p lies on.
func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// fillTriangle rasterizes one flat-colored triangle given in NDC,
// sampling at pixel centers. Both windings are accepted; the samples
// never enable culling.
func fillTriangle(p *Pixmap, v0, v1, v2 [3]float32, c f32.Vec4) {
	x0, y0 := ndcToPixel(v0[0], v0[1], p.width, p.height)
	x1, y1 := ndcToPixel(v1[0], v1[1], p.width, p.height)
	x2, y2 := ndcToPixel(v2[0], v2[1], p.width, p.height)

	area := edge(x0, y0, x1, y1, x2, y2)
	if area == 0 {
		return
	}

	minX := clampInt(int(min3(x0, x1, x2)), 0, p.width-1)
	maxX := clampInt(int(max3(x0, x1, x2))+1, 0, p.width-1)
	minY := clampInt(int(min3(y0, y1, y2)), 0, p.height-1)
	maxY := clampInt(int(max3(y0, y1, y2))+1, 0, p.height-1)

	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			w0 := edge(x1, y1, x2, y2, px, py)
			w1 := edge(x2, y2, x0, y0, px, py)
			w2 := edge(x0, y0, x1, y1, px, py)
			if area > 0 {
				if w0 >= 0 && w1 >= 0 && w2 >= 0 {
					p.SetPixel(x, y, c)
				}
			} else {
				if w0 <= 0 && w1 <= 0 && w2 <= 0 {
					p.SetPixel(x, y, c)
				}
			}
		}
	}
}

// drawLine plots a line segment given in NDC with a simple DDA walk.
func drawLine(p *Pixmap, v0, v1 [3]float32, c f32.Vec4) {
	x0, y0 := ndcToPixel(v0[0], v0[1], p.width, p.height)
	x1, y1 := ndcToPixel(v1[0], v1[1], p.width, p.height)

	dx := x1 - x0
	dy := y1 - y0
	steps := int(max3(abs32(dx), abs32(dy), 1))
	for i := 0; i <= steps; i++ {
		t := float32(i) / float32(steps)
		p.SetPixel(int(x0+dx*t), int(y0+dy*t), c)
	}
}

// drawPoint plots one vertex given in NDC.
func drawPoint(p *Pixmap, v [3]float32, c f32.Vec4) {
	x, y := ndcToPixel(v[0], v[1], p.width, p.height)
	p.SetPixel(int(x), int(y), c)
}

func min3(a, b, c float32) float32 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func max3(a, b, c float32) float32 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
