package core

import "fmt"

// Color is an RGBA color with channels in [0, 1].
type Color struct {
	R, G, B, A float64
}

// RGB returns an opaque color.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// Gray returns an opaque gray of the given intensity.
func Gray(v float64) Color {
	return Color{R: v, G: v, B: v, A: 1}
}

// RGBA8 returns the channels scaled to 0..255.
func (c Color) RGBA8() (uint8, uint8, uint8, uint8) {
	return to8(c.R), to8(c.G), to8(c.B), to8(c.A)
}

// Hex formats the color as #rrggbb, the form lipgloss expects.
func (c Color) Hex() string {
	r, g, b, _ := c.RGBA8()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// IsTransparent reports whether the color has no alpha.
func (c Color) IsTransparent() bool {
	return c.A <= 0
}

func to8(v float64) uint8 {
	return uint8(ClampF(v, 0, 1)*255 + 0.5)
}

// Palette colors used outside block rendering.
var (
	Transparent = Color{}
	Black       = RGB(0, 0, 0)
	White       = RGB(1, 1, 1)
	Red         = RGB(1, 0, 0)
	Green       = RGB(0, 1, 0)
	Blue        = RGB(0, 0, 1)
	Cyan        = RGB(0, 1, 1)
	Magenta     = RGB(0.5961, 0, 1)
	Purple      = RGB(0.5961, 0, 0.4)
	Yellow      = RGB(1, 1, 0)
	Orange      = RGB(1, 0.4, 0)
	Salmon      = RGB(0.8039, 0.4392, 0.3294)
	Brown       = RGB(0.5451, 0.2706, 0.0745)
	SiennaLight = RGB(0.9333, 0.4745, 0.2588)
	Sienna      = RGB(0.8039, 0.4078, 0.2235)
	SiennaDark  = RGB(0.5451, 0.2784, 0.149)
	Mirror      = RGB(0.8784, 0.9333, 0.9333)
	MirrorEdge  = RGB(0.5137, 0.5451, 0.5451)
)
