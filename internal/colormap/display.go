package colormap

import "image/color"

var _ color.Color = RGB{}

func clampComponent(v int) uint8 {
	return uint8(min(max(v, 0), 255))
}

// RGBA implements color.Color. Out of range components are clamped for
// display, point files keep the raw values.
func (c RGB) RGBA() (r, g, b, a uint32) {
	return color.RGBA{
		R: clampComponent(c.R),
		G: clampComponent(c.G),
		B: clampComponent(c.B),
		A: 0xff,
	}.RGBA()
}
