package geom

// Color is an RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

func RGB(r, g, b float64) Color     { return Color{R: r, G: g, B: b, A: 1} }
func RGBA(r, g, b, a float64) Color { return Color{R: r, G: g, B: b, A: a} }

// Clamped returns c with each component clamped to [0, 1].
func (c Color) Clamped() Color {
	clamp := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 1
		}
		return v
	}
	return Color{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B), A: clamp(c.A)}
}
